// Package telemetry provides event collection, windowed ecosystem stats,
// and CSV output for headless runs.
package telemetry

import "github.com/mossline/biodome/traits"

// EventType identifies simulation events reported to collaborators.
type EventType uint8

const (
	EventElementPlaced EventType = iota
	EventWeatherChanged
	EventTribeEvolved
	EventReproduction
	EventPredationHit
	EventPredationMiss
	EventDeath
	EventScenarioWon
	EventScenarioLost
	EventMeteorImpact
)

var eventNames = [...]string{
	"element_placed",
	"weather_changed",
	"tribe_evolved",
	"reproduction",
	"predation_hit",
	"predation_miss",
	"death",
	"scenario_won",
	"scenario_lost",
	"meteor_impact",
}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// Event is a single fire-and-forget notification. Fields beyond Type are
// optional and depend on the event.
type Event struct {
	Type     EventType
	Tick     int32
	EntityID uint32
	TargetID uint32
	Kind     traits.Kind
	Amount   float64 // energy transferred, cluster size, etc.
	Detail   string  // weather name, scenario name, predicate description
}
