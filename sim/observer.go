package sim

import (
	"github.com/mossline/biodome/environment"
	"github.com/mossline/biodome/systems"
	"github.com/mossline/biodome/telemetry"
	"github.com/mossline/biodome/traits"
)

// Observer receives simulation events fire-and-forget. Notify must not
// block; the simulation never awaits a response.
type Observer interface {
	Notify(ev telemetry.Event)
}

// Renderer receives a frame after any tick that changed observable state.
// Unchanged ticks produce no frame.
type Renderer interface {
	RenderFrame(frame Frame)
}

// ModifierSource contributes named technology multipliers, sampled once
// per tick before species updates run.
type ModifierSource interface {
	Modifiers() map[string]float64
}

// EntityView is the render-facing projection of one entity.
type EntityView struct {
	ID         uint32
	Kind       traits.Kind
	X, Y       float64
	Health     float64
	MaxHealth  float64
	Energy     float64
	Hue        float64
	Altitude   float64 // > 0 while falling from orbit
	Population int32   // tribes only
}

// Frame is the observable world state handed to renderers.
type Frame struct {
	Tick     int32
	Season   environment.Season
	Weather  environment.Weather
	Outcome  systems.Outcome
	Budget   float64 // remaining placement energy
	Entities []EntityView
}
