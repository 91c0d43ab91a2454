package main

import (
	"gonum.org/v1/gonum/stat"

	"github.com/mossline/biodome/config"
	"github.com/mossline/biodome/sim"
)

// sampleEvery is the tick interval between aggregate samples during an
// evaluation run.
const sampleEvery = 50

// FitnessEvaluator scores a parameter vector by running headless worlds.
// A run survives while plants and creatures both persist; quality rewards
// stable populations over boom-bust oscillation.
type FitnessEvaluator struct {
	params   *ParamVector
	maxTicks int32
	seeds    []int64
	baseCfg  *config.Config

	lastQuality float64
}

// NewFitnessEvaluator creates an evaluator over a fixed seed set.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:   params,
		maxTicks: maxTicks,
		seeds:    seeds,
		baseCfg:  baseCfg,
	}
}

// Evaluate runs every seed with the raw parameter vector applied and
// returns a fitness to minimize: -(mean survival × (1 + 0.2 × quality)).
func (e *FitnessEvaluator) Evaluate(raw []float64) float64 {
	var totalSurvival, totalQuality float64

	for _, seed := range e.seeds {
		cfg := *e.baseCfg
		e.params.ApplyToConfig(&cfg, raw)

		survival, quality := e.runOnce(&cfg, seed)
		totalSurvival += survival
		totalQuality += quality
	}

	n := float64(len(e.seeds))
	meanSurvival := totalSurvival / n
	meanQuality := totalQuality / n
	e.lastQuality = meanQuality

	return -meanSurvival * (1 + 0.2*meanQuality)
}

// LastQuality returns the quality score of the most recent evaluation.
func (e *FitnessEvaluator) LastQuality() float64 {
	return e.lastQuality
}

// runOnce ticks one world to collapse or the cap. Survival is the tick
// count reached; quality is 1/(1+cv) over sampled creature counts, so a
// flat population curve scores near 1 and oscillation decays toward 0.
func (e *FitnessEvaluator) runOnce(cfg *config.Config, seed int64) (survival, quality float64) {
	s := sim.New(cfg, seed)

	var creatureSamples []float64
	tick := int32(0)
	for ; tick < e.maxTicks; tick++ {
		s.Step()
		if tick%sampleEvery != 0 {
			continue
		}
		agg := s.Aggregates()
		if agg.PlantCount() == 0 || agg.CreatureCount() == 0 {
			break
		}
		creatureSamples = append(creatureSamples, float64(agg.CreatureCount()))
	}

	survival = float64(tick)
	if len(creatureSamples) < 2 {
		return survival, 0
	}
	mean, std := stat.MeanStdDev(creatureSamples, nil)
	if mean <= 0 {
		return survival, 0
	}
	quality = 1 / (1 + std/mean)
	return survival, quality
}
