package telemetry

import (
	"math"
	"testing"

	"github.com/mossline/biodome/traits"
)

func TestComputeAggregates(t *testing.T) {
	kinds := []traits.Kind{
		traits.PlantGreen, traits.PlantGreen, traits.PlantFire,
		traits.Creature, traits.Predator,
	}
	health := []float64{10, 20, 30, 40, 50}
	energy := []float64{5, 5, 5, 15, 20}

	agg := ComputeAggregates(120, kinds, health, energy, 7)

	if agg.Tick != 120 {
		t.Errorf("tick = %d", agg.Tick)
	}
	if got := agg.PlantCount(); got != 3 {
		t.Errorf("PlantCount = %d, want 3", got)
	}
	if got := agg.CreatureCount(); got != 1 {
		t.Errorf("CreatureCount = %d, want 1", got)
	}
	if got := agg.Counts[traits.Predator]; got != 1 {
		t.Errorf("predator count = %d, want 1", got)
	}
	if agg.TribePop != 7 {
		t.Errorf("TribePop = %d, want 7", agg.TribePop)
	}
	if math.Abs(agg.MeanHealth-30) > 1e-9 {
		t.Errorf("MeanHealth = %v, want 30", agg.MeanHealth)
	}
	if math.Abs(agg.MeanEnergy-10) > 1e-9 {
		t.Errorf("MeanEnergy = %v, want 10", agg.MeanEnergy)
	}
}

func TestComputeAggregatesSingleSample(t *testing.T) {
	agg := ComputeAggregates(1, []traits.Kind{traits.Creature}, []float64{42}, []float64{10}, 0)
	if math.Abs(agg.MeanHealth-42) > 1e-9 {
		t.Errorf("MeanHealth = %v, want 42", agg.MeanHealth)
	}
	if agg.StdHealth != 0 {
		t.Errorf("StdHealth = %v for a single sample, want 0", agg.StdHealth)
	}
}

func TestComputeAggregatesEmpty(t *testing.T) {
	agg := ComputeAggregates(1, nil, nil, nil, 0)
	if agg.MeanHealth != 0 || agg.StdHealth != 0 || agg.MeanEnergy != 0 {
		t.Errorf("empty world produced non-zero stats: %+v", agg)
	}
}

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(10)

	c.Notify(Event{Type: EventReproduction, Tick: 3})
	c.Notify(Event{Type: EventReproduction, Tick: 5})
	c.Notify(Event{Type: EventDeath, Tick: 6})
	c.Notify(Event{Type: EventPredationHit, Tick: 7})
	c.Notify(Event{Type: EventPredationMiss, Tick: 7})
	c.Notify(Event{Type: EventWeatherChanged, Tick: 8})
	c.Notify(Event{Type: EventElementPlaced, Tick: 9})

	if c.WindowReady(9) {
		t.Error("window ready before it elapsed")
	}
	if !c.WindowReady(10) {
		t.Error("window not ready at its boundary")
	}

	agg := ComputeAggregates(10, []traits.Kind{traits.PlantGreen}, []float64{50}, []float64{5}, 0)
	stats := c.Flush(10, agg)

	if stats.Births != 2 || stats.Deaths != 1 {
		t.Errorf("births/deaths = %d/%d, want 2/1", stats.Births, stats.Deaths)
	}
	if stats.PredationHits != 1 || stats.PredationMiss != 1 {
		t.Errorf("predation = %d/%d, want 1/1", stats.PredationHits, stats.PredationMiss)
	}
	if stats.WeatherChanges != 1 || stats.Placements != 1 {
		t.Errorf("weather/placements = %d/%d, want 1/1", stats.WeatherChanges, stats.Placements)
	}
	if stats.Plants != 1 {
		t.Errorf("plants = %d, want 1", stats.Plants)
	}

	// Flushing resets the counters for the next window.
	next := c.Flush(20, Aggregates{})
	if next.Births != 0 || next.Deaths != 0 || next.PredationHits != 0 {
		t.Errorf("counters survived a flush: %+v", next)
	}
}

func TestCollectorIgnoresUnknownEvents(t *testing.T) {
	c := NewCollector(10)
	c.Notify(Event{Type: EventType(0xFF), Tick: 1})
	stats := c.Flush(10, Aggregates{})
	if stats.Births != 0 || stats.Deaths != 0 {
		t.Errorf("unknown event counted: %+v", stats)
	}
}
