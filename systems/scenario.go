package systems

import (
	"fmt"

	"github.com/mossline/biodome/telemetry"
	"github.com/mossline/biodome/traits"
)

// Outcome is the terminal state of a scenario evaluation.
type Outcome uint8

const (
	OutcomeNone Outcome = iota
	OutcomeVictory
	OutcomeFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeVictory:
		return "victory"
	case OutcomeFailure:
		return "failure"
	default:
		return "running"
	}
}

// Predicate is one victory or failure condition evaluated against world
// aggregates.
type Predicate interface {
	Describe() string
	Eval(agg telemetry.Aggregates) bool
}

// Scenario is an ordered set of end conditions. Victory predicates are
// evaluated before failure predicates; the first satisfied predicate ends
// the scenario and no further predicates run that tick.
type Scenario struct {
	Name    string
	Victory []Predicate
	Failure []Predicate
}

// Evaluate checks predicates in order and returns the outcome with the
// predicate that fired, or OutcomeNone.
func (sc *Scenario) Evaluate(agg telemetry.Aggregates) (Outcome, Predicate) {
	for _, p := range sc.Victory {
		if p.Eval(agg) {
			return OutcomeVictory, p
		}
	}
	for _, p := range sc.Failure {
		if p.Eval(agg) {
			return OutcomeFailure, p
		}
	}
	return OutcomeNone, nil
}

// PopulationAtLeast fires when a kind's live count reaches a floor.
type PopulationAtLeast struct {
	Kind traits.Kind
	N    int
}

func (p PopulationAtLeast) Describe() string {
	return fmt.Sprintf("%s population at least %d", p.Kind, p.N)
}

func (p PopulationAtLeast) Eval(agg telemetry.Aggregates) bool {
	return agg.Counts[p.Kind] >= p.N
}

// Extinct fires when a kind's live count reaches zero.
type Extinct struct {
	Kind traits.Kind
}

func (p Extinct) Describe() string {
	return fmt.Sprintf("%s extinct", p.Kind)
}

func (p Extinct) Eval(agg telemetry.Aggregates) bool {
	return agg.Counts[p.Kind] == 0
}

// PlantsExtinct fires when the whole plant family has died out.
type PlantsExtinct struct{}

func (PlantsExtinct) Describe() string { return "all plants extinct" }

func (PlantsExtinct) Eval(agg telemetry.Aggregates) bool {
	return agg.PlantCount() == 0
}

// CreaturesExtinct fires when the whole creature family has died out.
type CreaturesExtinct struct{}

func (CreaturesExtinct) Describe() string { return "all creatures extinct" }

func (CreaturesExtinct) Eval(agg telemetry.Aggregates) bool {
	return agg.CreatureCount() == 0
}

// TickReached fires once the world clock passes a deadline.
type TickReached struct {
	Tick int32
}

func (p TickReached) Describe() string {
	return fmt.Sprintf("tick %d reached", p.Tick)
}

func (p TickReached) Eval(agg telemetry.Aggregates) bool {
	return agg.Tick >= p.Tick
}

// TribesFormed fires when at least N tribes exist.
type TribesFormed struct {
	N int
}

func (p TribesFormed) Describe() string {
	return fmt.Sprintf("%d tribes formed", p.N)
}

func (p TribesFormed) Eval(agg telemetry.Aggregates) bool {
	return agg.Counts[traits.Tribe] >= p.N
}

// TribePopulationAtLeast fires when total tribe membership reaches a floor.
type TribePopulationAtLeast struct {
	N int32
}

func (p TribePopulationAtLeast) Describe() string {
	return fmt.Sprintf("tribe population at least %d", p.N)
}

func (p TribePopulationAtLeast) Eval(agg telemetry.Aggregates) bool {
	return agg.TribePop >= p.N
}

// BuiltinScenarios are the shipped playable scenarios, by name.
func BuiltinScenarios() map[string]*Scenario {
	return map[string]*Scenario{
		"garden": {
			Name: "garden",
			Victory: []Predicate{
				PopulationAtLeast{Kind: traits.PlantGreen, N: 100},
			},
			Failure: []Predicate{
				PlantsExtinct{},
				TickReached{Tick: 20000},
			},
		},
		"foodweb": {
			Name: "foodweb",
			Victory: []Predicate{
				SustainedBalance{PlantFloor: 30, CreatureFloor: 15, PredatorFloor: 2, Until: 10000},
			},
			Failure: []Predicate{
				CreaturesExtinct{},
				Extinct{Kind: traits.Predator},
			},
		},
		"ascension": {
			Name: "ascension",
			Victory: []Predicate{
				TribesFormed{N: 1},
				TribePopulationAtLeast{N: 25},
			},
			Failure: []Predicate{
				CreaturesExtinct{},
				TickReached{Tick: 50000},
			},
		},
	}
}

// SustainedBalance fires when every trophic level holds its floor at the
// deadline tick.
type SustainedBalance struct {
	PlantFloor    int
	CreatureFloor int
	PredatorFloor int
	Until         int32
}

func (p SustainedBalance) Describe() string {
	return fmt.Sprintf("balanced food web held until tick %d", p.Until)
}

func (p SustainedBalance) Eval(agg telemetry.Aggregates) bool {
	return agg.Tick >= p.Until &&
		agg.PlantCount() >= p.PlantFloor &&
		agg.CreatureCount() >= p.CreatureFloor &&
		agg.Counts[traits.Predator] >= p.PredatorFloor
}
