package telemetry

import (
	"gonum.org/v1/gonum/stat"

	"github.com/mossline/biodome/traits"
)

// Aggregates is a per-tick summary of world state, consumed by both the
// windowed telemetry and scenario predicates.
type Aggregates struct {
	Tick       int32
	Counts     map[traits.Kind]int
	MeanHealth float64
	StdHealth  float64
	MeanEnergy float64
	TribePop   int32 // summed tribe population
}

// PlantCount sums the plant family.
func (a Aggregates) PlantCount() int {
	n := 0
	for k, c := range a.Counts {
		if traits.IsPlant(k) {
			n += c
		}
	}
	return n
}

// CreatureCount sums the creature family (predators excluded).
func (a Aggregates) CreatureCount() int {
	n := 0
	for k, c := range a.Counts {
		if traits.IsCreature(k) {
			n += c
		}
	}
	return n
}

// ComputeAggregates builds world aggregates from parallel sample slices.
func ComputeAggregates(tick int32, kinds []traits.Kind, health, energy []float64, tribePop int32) Aggregates {
	agg := Aggregates{
		Tick:     tick,
		Counts:   make(map[traits.Kind]int),
		TribePop: tribePop,
	}
	for _, k := range kinds {
		agg.Counts[k]++
	}
	if len(health) > 0 {
		agg.MeanHealth, agg.StdHealth = stat.MeanStdDev(health, nil)
		// A single sample has no spread; gonum reports NaN for n=1.
		if len(health) == 1 {
			agg.StdHealth = 0
		}
	}
	if len(energy) > 0 {
		agg.MeanEnergy = stat.Mean(energy, nil)
	}
	return agg
}
