// Package systems implements the per-tick rules of the simulation: spatial
// indexing, species updates, predation, social steering, tribe emergence,
// and scenario evaluation.
package systems

import "math"

// ToroidalDelta returns the shortest (dx, dy) from (x1, y1) to (x2, y2) on
// a wrapping surface of the given size.
func ToroidalDelta(x1, y1, x2, y2, width, height float64) (float64, float64) {
	dx := x2 - x1
	dy := y2 - y1
	if dx > width/2 {
		dx -= width
	} else if dx < -width/2 {
		dx += width
	}
	if dy > height/2 {
		dy -= height
	} else if dy < -height/2 {
		dy += height
	}
	return dx, dy
}

// Wrap folds a coordinate back into [0, size).
func Wrap(v, size float64) float64 {
	v = math.Mod(v, size)
	if v < 0 {
		v += size
	}
	return v
}

// Distance returns the toroidal distance between two points.
func Distance(x1, y1, x2, y2, width, height float64) float64 {
	dx, dy := ToroidalDelta(x1, y1, x2, y2, width, height)
	return math.Sqrt(dx*dx + dy*dy)
}

// Collides reports whether two circles overlap on the wrapping surface.
func Collides(x1, y1, r1, x2, y2, r2, width, height float64) bool {
	dx, dy := ToroidalDelta(x1, y1, x2, y2, width, height)
	combined := r1 + r2
	return dx*dx+dy*dy < combined*combined
}

func clamp(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

// normalize scales (dx, dy) to unit length; zero vectors stay zero.
func normalize(dx, dy float64) (float64, float64) {
	mag := math.Sqrt(dx*dx + dy*dy)
	if mag == 0 {
		return 0, 0
	}
	return dx / mag, dy / mag
}
