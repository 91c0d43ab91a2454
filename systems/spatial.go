package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/mossline/biodome/components"
)

// Neighbor holds a nearby entity with precomputed spatial data so callers
// do not recompute toroidal deltas in hot loops.
type Neighbor struct {
	E      ecs.Entity
	DX, DY float64 // toroidal delta from query origin
	DistSq float64
}

// SpatialGrid provides O(1) neighbor lookups using a cell-based grid over
// the wrapping surface. It is rebuilt once per tick before species updates.
type SpatialGrid struct {
	cellSize float64
	cols     int
	rows     int
	width    float64
	height   float64
	cells    [][]ecs.Entity
}

// NewSpatialGrid creates a spatial grid covering the given world size.
func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1

	cells := make([][]ecs.Entity, cols*rows)
	for i := range cells {
		cells[i] = make([]ecs.Entity, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		width:    width,
		height:   height,
		cells:    cells,
	}
}

// Clear removes all entities from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds an entity to the grid at the given position.
func (g *SpatialGrid) Insert(e ecs.Entity, x, y float64) {
	idx := g.cellIndex(x, y)
	if idx >= 0 && idx < len(g.cells) {
		g.cells[idx] = append(g.cells[idx], e)
	}
}

func (g *SpatialGrid) cellIndex(x, y float64) int {
	col := int(Wrap(x, g.width) / g.cellSize)
	row := int(Wrap(y, g.height) / g.cellSize)
	if col >= g.cols {
		col = g.cols - 1
	}
	if row >= g.rows {
		row = g.rows - 1
	}
	return row*g.cols + col
}

// MaxQueryResults caps the number of neighbors returned by spatial queries
// so density spikes cannot cause unbounded work.
const MaxQueryResults = 128

// QueryRadiusInto finds entities within radius and appends to dst (up to
// MaxQueryResults). Reuse dst across calls to avoid allocations.
func (g *SpatialGrid) QueryRadiusInto(dst []Neighbor, x, y, radius float64, exclude ecs.Entity, posMap *ecs.Map1[components.Position]) []Neighbor {
	cellRadius := int(radius/g.cellSize) + 1

	centerCol := int(Wrap(x, g.width) / g.cellSize)
	centerRow := int(Wrap(y, g.height) / g.cellSize)

	radiusSq := radius * radius

	for dc := -cellRadius; dc <= cellRadius; dc++ {
		for dr := -cellRadius; dr <= cellRadius; dr++ {
			col := (centerCol + dc + g.cols) % g.cols
			row := (centerRow + dr + g.rows) % g.rows
			idx := row*g.cols + col

			for _, e := range g.cells[idx] {
				if e == exclude {
					continue
				}

				pos := posMap.Get(e)
				if pos == nil {
					continue
				}

				dx, dy := ToroidalDelta(x, y, pos.X, pos.Y, g.width, g.height)
				distSq := dx*dx + dy*dy

				if distSq <= radiusSq {
					dst = append(dst, Neighbor{E: e, DX: dx, DY: dy, DistSq: distSq})
					if len(dst) >= MaxQueryResults {
						return dst
					}
				}
			}
		}
	}

	return dst
}
