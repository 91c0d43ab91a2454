// Package main provides CMA-ES calibration of ecosystem parameters toward
// long-lived, balanced food webs.
package main

import (
	"github.com/mossline/biodome/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string
	Path    string // config path, for logs
	Min     float64
	Max     float64
	Default float64
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard calibration set.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Plants
			{Name: "plant_growth_rate", Path: "plants.growth_rate", Min: 0.1, Max: 2.0, Default: 0.6},
			{Name: "plant_repro_threshold", Path: "plants.repro_threshold", Min: 0.5, Max: 0.95, Default: 0.7},
			// Creatures
			{Name: "creature_base_cost", Path: "creatures.base_energy_cost", Min: 0.05, Max: 1.0, Default: 0.3},
			{Name: "creature_feed_rate", Path: "creatures.feed_rate", Min: 1.0, Max: 10.0, Default: 4.0},
			{Name: "creature_feed_efficiency", Path: "creatures.feed_efficiency", Min: 0.3, Max: 1.0, Default: 0.6},
			{Name: "creature_repro_energy", Path: "creatures.repro_energy", Min: 20, Max: 80, Default: 40},
			{Name: "starve_damage", Path: "creatures.starve_damage", Min: 0.5, Max: 5.0, Default: 2.0},
			// Predation
			{Name: "predation_base_chance", Path: "predation.base_chance", Min: 0.1, Max: 0.6, Default: 0.3},
			{Name: "predation_bite", Path: "predation.bite_amount", Min: 10, Max: 60, Default: 30},
			{Name: "predation_fail_penalty", Path: "predation.fail_penalty", Min: 1, Max: 15, Default: 5},
			// Genetics
			{Name: "mutation_rate", Path: "genetics.mutation_rate", Min: 0.02, Max: 0.3, Default: 0.1},
			// Tribes
			{Name: "tribe_gather_rate", Path: "tribes.gather_rate", Min: 0.5, Max: 5.0, Default: 2.0},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1].
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp bounds raw values to each parameter's range.
func (pv *ParamVector) Clamp(raw []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v := raw[i]
		if v < spec.Min {
			v = spec.Min
		}
		if v > spec.Max {
			v = spec.Max
		}
		clamped[i] = v
	}
	return clamped
}

// ApplyToConfig writes a raw parameter vector into a config.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, raw []float64) {
	clamped := pv.Clamp(raw)
	cfg.Plants.GrowthRate = clamped[0]
	cfg.Plants.ReproThreshold = clamped[1]
	cfg.Creatures.BaseEnergyCost = clamped[2]
	cfg.Creatures.FeedRate = clamped[3]
	cfg.Creatures.FeedEfficiency = clamped[4]
	cfg.Creatures.ReproEnergy = clamped[5]
	cfg.Creatures.StarveDamage = clamped[6]
	cfg.Predation.BaseChance = clamped[7]
	cfg.Predation.BiteAmount = clamped[8]
	cfg.Predation.FailPenalty = clamped[9]
	cfg.Genetics.MutationRate = clamped[10]
	cfg.Tribes.GatherRate = clamped[11]
}
