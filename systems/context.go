package systems

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/mossline/biodome/config"
	"github.com/mossline/biodome/environment"
	"github.com/mossline/biodome/genetics"
	"github.com/mossline/biodome/telemetry"
	"github.com/mossline/biodome/traits"
)

// TechMods is the named-modifier map supplied by technology/achievement
// collaborators. An empty or nil map behaves identically to all-ones.
type TechMods map[string]float64

// Modifier names the core understands.
const (
	ModPlantGrowth    = "plant_growth_multiplier"
	ModCreatureEnergy = "creature_energy_reduction"
	ModTribeCulture   = "tribe_cultural_bonus"
	ModGatherRate     = "gather_rate_multiplier"
)

// Mult returns the multiplier for a name, defaulting to 1.
func (m TechMods) Mult(name string) float64 {
	if v, ok := m[name]; ok && v > 0 {
		return v
	}
	return 1
}

// SpawnSpec describes an entity to create when staged spawns merge into the
// live world at the end of the update phase.
type SpawnSpec struct {
	Kind       traits.Kind
	X, Y       float64
	Genome     *genetics.Genome
	ParentID   uint32
	Population int32   // tribes only
	Altitude   float64 // orbit drops only
}

// Context is the read-only per-tick snapshot passed to every system.
// It is rebuilt by the scheduler each tick; systems never retain it.
type Context struct {
	Cfg     *config.Config
	Env     environment.Modifiers
	Cond    environment.Conditions
	Terrain *environment.Terrain
	Tech    TechMods
	RNG     *rand.Rand
	Tick    int32

	Width  float64
	Height float64
	Grid   *SpatialGrid

	// Stage appends a spawn to the staging list; the live entity list is
	// never mutated mid-iteration.
	Stage func(SpawnSpec)

	// Emit reports an observable event, fire-and-forget.
	Emit func(telemetry.Event)

	// Lookup resolves a soft entity-ID reference. The second return is
	// false when the referenced entity vanished.
	Lookup func(uint32) (ecs.Entity, bool)

	heat []heatSource
}

type heatSource struct {
	x, y   float64
	output float64
}

// heatRadius is the reach of a heat-source entity's warmth.
const heatRadius = 60.0

// AddHeatSource registers a heat emitter for this tick.
func (ctx *Context) AddHeatSource(x, y, output float64) {
	ctx.heat = append(ctx.heat, heatSource{x: x, y: y, output: output})
}

// HeatAt returns the local temperature bonus at a position from nearby
// heat-source entities (fire plants), decaying linearly with distance.
func (ctx *Context) HeatAt(x, y float64) float64 {
	var total float64
	for _, h := range ctx.heat {
		d := Distance(x, y, h.x, h.y, ctx.Width, ctx.Height)
		if d < heatRadius {
			total += h.output * (1 - d/heatRadius)
		}
	}
	return total
}

// TempAt is the effective temperature at a position: global modifier
// temperature plus local heat.
func (ctx *Context) TempAt(x, y float64) float64 {
	return ctx.Env.EffectiveTemp + ctx.HeatAt(x, y)
}

// Emitf is a nil-safe Emit.
func (ctx *Context) Emitf(ev telemetry.Event) {
	if ctx.Emit != nil {
		ev.Tick = ctx.Tick
		ctx.Emit(ev)
	}
}
