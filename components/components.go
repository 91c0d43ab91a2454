// Package components defines ECS components for the simulation.
package components

import (
	"github.com/mossline/biodome/genetics"
	"github.com/mossline/biodome/traits"
)

// Position is an entity's surface position in world units.
// The surface wraps toroidally; systems compute deltas with wrapping.
type Position struct {
	X, Y float64
}

// Ballistic is the transient vertical state of an orbit-dropped object.
// While Active, the entity is excluded from surface interactions.
type Ballistic struct {
	Altitude float64 // meters above the surface
	Descent  float64 // current fall speed, grows with gravity
	Active   bool
}

// Vitals tracks an entity's health and metabolic state.
// Health is clamped to [0, MaxHealth]; an entity whose health reaches 0 is
// removed at the end of the tick in which it died. Energy has no lower
// bound; starvation shows up as health loss, not negative-energy errors.
type Vitals struct {
	Health    float64
	MaxHealth float64
	Energy    float64
	Age       int32 // ticks since spawn
	Alive     bool
}

// Damage reduces health, clamping at zero, and marks death.
func (v *Vitals) Damage(amount float64) {
	v.Health -= amount
	if v.Health <= 0 {
		v.Health = 0
		v.Alive = false
	}
}

// Heal raises health, clamping at MaxHealth.
func (v *Vitals) Heal(amount float64) {
	v.Health += amount
	if v.Health > v.MaxHealth {
		v.Health = v.MaxHealth
	}
}

// Body holds physical dimensions, derived from the genome or species defaults.
type Body struct {
	Size   float64 // phenotype size multiplier applied to species base
	Speed  float64 // max movement per tick
	Radius float64 // collision radius
}

// Organism bundles identity and species membership.
type Organism struct {
	ID   uint32
	Kind traits.Kind
	Tags traits.Tag
	// Biome the species is suited to; mismatch degrades health.
	Biome traits.Biome
}

// HasTag checks a capability tag.
func (o *Organism) HasTag(t traits.Tag) bool {
	return o.Tags.Has(t)
}

// AddTag grants a capability tag.
func (o *Organism) AddTag(t traits.Tag) {
	o.Tags = o.Tags.Add(t)
}

// Social holds the behavior variant and soft references to other entities.
// References are by organism ID, 0 = none; holders must tolerate the
// referenced entity having vanished and re-acquire on a later tick.
type Social struct {
	Behavior       traits.Behavior
	LeaderID       uint32
	GroupID        uint32
	PartnerID      uint32 // symbiotic partner, mutually revocable
	TargetID       uint32 // current prey or food target
	Aggressiveness float64
}

// Genotype attaches a genome to plant/creature/predator entities.
type Genotype struct {
	Genome *genetics.Genome
}

// TribeData is the emergent-entity state of a tribe.
// GatherMult and ReproMult are externally adjustable (bless/curse) and decay
// back to 1.0 when their remaining tick budget runs out.
type TribeData struct {
	Population      int32
	TechLevel       float64
	GatherMult      float64
	ReproMult       float64
	GatherMultTicks int32
	ReproMultTicks  int32
}

// DecayModifiers counts down bless/curse durations, restoring baselines.
func (t *TribeData) DecayModifiers() {
	if t.GatherMultTicks > 0 {
		t.GatherMultTicks--
		if t.GatherMultTicks == 0 {
			t.GatherMult = 1.0
		}
	}
	if t.ReproMultTicks > 0 {
		t.ReproMultTicks--
		if t.ReproMultTicks == 0 {
			t.ReproMult = 1.0
		}
	}
}
