// Package genetics implements genome representation, inheritance, and
// phenotype expression. All randomness flows through caller-supplied
// *rand.Rand sources so tests can run deterministic sequences.
package genetics

import (
	"math"
	"math/rand"

	"github.com/mossline/biodome/traits"
)

// TraitSpec declares one named genome trait and its legal range.
type TraitSpec struct {
	Name string
	Min  float64
	Max  float64
}

// Range returns the width of the declared bounds.
func (t TraitSpec) Range() float64 {
	return t.Max - t.Min
}

// Schema is an ordered list of trait specs. Order is stable so genome
// values can live in a flat slice aligned with the schema.
type Schema []TraitSpec

// Index returns the position of a named trait, or -1.
func (s Schema) Index(name string) int {
	for i, t := range s {
		if t.Name == name {
			return i
		}
	}
	return -1
}

// Shared traits carried by every genome-bearing species.
var baseSchema = Schema{
	{Name: "speed", Min: 0.5, Max: 2.0},
	{Name: "size", Min: 0.5, Max: 2.0},
	{Name: "metabolism", Min: 0.5, Max: 1.5},
	{Name: "fertility", Min: 0.05, Max: 0.50},
	{Name: "temp_tolerance", Min: 5, Max: 40},
	{Name: "water_tolerance", Min: 10, Max: 100},
	{Name: "hue", Min: 0, Max: 360},
}

var predatorSchema = append(append(Schema{}, baseSchema...),
	TraitSpec{Name: "aggression", Min: 0.1, Max: 1.0},
)

// SchemaFor returns the trait schema for a kind. Kinds without genomes
// (tribes, rocks, meteors) get a nil schema.
func SchemaFor(k traits.Kind) Schema {
	if !traits.HasGenome(k) {
		return nil
	}
	if k == traits.Predator {
		return predatorSchema
	}
	return baseSchema
}

// Genome is an ordered set of bounded trait values for one species kind.
type Genome struct {
	Kind   traits.Kind
	Values []float64 // aligned with SchemaFor(Kind)
}

// NewRandom seeds every trait uniformly inside its declared range.
func NewRandom(k traits.Kind, rng *rand.Rand) *Genome {
	schema := SchemaFor(k)
	if schema == nil {
		return nil
	}
	values := make([]float64, len(schema))
	for i, t := range schema {
		values[i] = t.Min + rng.Float64()*t.Range()
	}
	return &Genome{Kind: k, Values: values}
}

// Default returns a mid-range genome, used when loaded genome data is
// absent or malformed.
func Default(k traits.Kind) *Genome {
	schema := SchemaFor(k)
	if schema == nil {
		return nil
	}
	values := make([]float64, len(schema))
	for i, t := range schema {
		values[i] = t.Min + t.Range()/2
	}
	return &Genome{Kind: k, Values: values}
}

// Clone returns a deep copy.
func (g *Genome) Clone() *Genome {
	values := make([]float64, len(g.Values))
	copy(values, g.Values)
	return &Genome{Kind: g.Kind, Values: values}
}

// Mutate perturbs every trait by a bounded random delta and re-clamps.
// rate is the maximum perturbation as a fraction of the trait's range.
// Bounds violations are clamped silently, never surfaced as errors.
func (g *Genome) Mutate(rate float64, rng *rand.Rand) {
	schema := SchemaFor(g.Kind)
	for i, t := range schema {
		delta := (rng.Float64()*2 - 1) * rate * t.Range()
		g.Values[i] = clamp(g.Values[i]+delta, t.Min, t.Max)
	}
}

// blendWeight is the chance a child trait averages both parents instead of
// copying one parent wholesale.
const blendWeight = 0.70

// Combine produces a child genome from two parents: per trait, a weighted
// coin picks averaging (70%) or single-parent inheritance (30%), then a
// fresh mutation pass runs with the given rate.
func (g *Genome) Combine(other *Genome, mutationRate float64, rng *rand.Rand) *Genome {
	schema := SchemaFor(g.Kind)
	child := &Genome{Kind: g.Kind, Values: make([]float64, len(schema))}
	for i, t := range schema {
		a := g.Values[i]
		b := a
		if j := SchemaFor(other.Kind).Index(t.Name); j >= 0 {
			b = other.Values[j]
		}
		var v float64
		switch {
		case rng.Float64() < blendWeight:
			v = (a + b) / 2
		case rng.Float64() < 0.5:
			v = a
		default:
			v = b
		}
		child.Values[i] = clamp(v, t.Min, t.Max)
	}
	child.Mutate(mutationRate, rng)
	return child
}

// Phenotype is the expressed stat set computed from a genome at read time.
type Phenotype struct {
	SpeedMult      float64
	SizeMult       float64
	ReproChance    float64
	Metabolism     float64
	TempTolerance  float64
	WaterTolerance float64
	Hue            float64
	Aggression     float64
}

// Express maps genome to phenotype. Pure and deterministic: same genome,
// same phenotype.
func (g *Genome) Express() Phenotype {
	p := Phenotype{
		SpeedMult:      1,
		SizeMult:       1,
		Metabolism:     1,
		ReproChance:    0.1,
		TempTolerance:  20,
		WaterTolerance: 50,
		Aggression:     0.5,
	}
	if g == nil {
		return p
	}
	schema := SchemaFor(g.Kind)
	for i, t := range schema {
		v := g.Values[i]
		switch t.Name {
		case "speed":
			p.SpeedMult = v
		case "size":
			p.SizeMult = v
		case "metabolism":
			p.Metabolism = v
		case "fertility":
			p.ReproChance = v
		case "temp_tolerance":
			p.TempTolerance = v
		case "water_tolerance":
			p.WaterTolerance = v
		case "hue":
			p.Hue = v
		case "aggression":
			p.Aggression = v
		}
	}
	return p
}

// Compatibility returns 1 minus the normalized Euclidean distance across
// traits shared by both genomes, in [0, 1]. Higher is a better mate.
func (g *Genome) Compatibility(other *Genome) float64 {
	if g == nil || other == nil {
		return 0
	}
	gs := SchemaFor(g.Kind)
	os := SchemaFor(other.Kind)
	var sum float64
	var n int
	for i, t := range gs {
		j := os.Index(t.Name)
		if j < 0 {
			continue
		}
		d := (g.Values[i] - other.Values[j]) / t.Range()
		sum += d * d
		n++
	}
	if n == 0 {
		return 0
	}
	return clamp(1-math.Sqrt(sum/float64(n)), 0, 1)
}

// Candidate pairs an external id with its genome during mate selection.
type Candidate struct {
	ID     uint32
	Genome *Genome
}

// BestMate returns the candidate with the highest compatibility score,
// or false when the list is empty.
func (g *Genome) BestMate(candidates []Candidate) (Candidate, bool) {
	best := Candidate{}
	bestScore := -1.0
	for _, c := range candidates {
		if c.Genome == nil {
			continue
		}
		if score := g.Compatibility(c.Genome); score > bestScore {
			best = c
			bestScore = score
		}
	}
	return best, bestScore >= 0
}

// TraitMap exports trait values by name for snapshots.
func (g *Genome) TraitMap() map[string]float64 {
	if g == nil {
		return nil
	}
	m := make(map[string]float64, len(g.Values))
	for i, t := range SchemaFor(g.Kind) {
		m[t.Name] = g.Values[i]
	}
	return m
}

// FromTraitMap rebuilds a genome from snapshot data. Missing traits fall
// back to the species default value and out-of-range values are clamped,
// so partially corrupt saves still load.
func FromTraitMap(k traits.Kind, m map[string]float64) *Genome {
	g := Default(k)
	if g == nil {
		return nil
	}
	schema := SchemaFor(k)
	for i, t := range schema {
		if v, ok := m[t.Name]; ok {
			g.Values[i] = clamp(v, t.Min, t.Max)
		}
	}
	return g
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
