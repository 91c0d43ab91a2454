// Package traits defines the closed species set, capability tags, and
// social behavior variants used by the simulation.
package traits

import "math/rand"

// Tag is a capability bitmask. Cross-cutting rules (predation eligibility,
// movement, photosynthesis) check tags instead of species identity, so a
// variant can opt into shared behavior without an inheritance chain.
type Tag uint32

const (
	Mobile         Tag = 1 << iota // moves under its own power
	Photosynthetic                 // grows from light/water suitability
	Herbivore                      // feeds on plants
	Carnivore                      // participates in food-web resolution
	MineralBearing                 // can be consumed for minerals by plants
	Burrower                       // can shelter underground
	Flier                          // airborne movement, pollinates
	Aquatic                        // requires water presence
	Symbiont                       // forms symbiotic partnerships
	Emergent                       // spawned by the evolution detector
	OrbitOnly                      // may only be placed in orbit
	HeatSource                     // raises local effective temperature
)

// Has checks if a tag set contains a tag.
func (t Tag) Has(other Tag) bool {
	return t&other != 0
}

// Add adds a tag to the set.
func (t Tag) Add(other Tag) Tag {
	return t | other
}

// Remove removes a tag from the set.
func (t Tag) Remove(other Tag) Tag {
	return t &^ other
}

// Kind identifies a species variant. The set is closed; dispatch is a
// switch over Kind, never type assertions.
type Kind uint8

const (
	KindNone Kind = iota

	// Plant family
	PlantGreen
	PlantCarnivore
	PlantCrystal
	PlantSpore
	PlantFire

	// Creature family
	Creature
	CreatureAquatic
	CreatureFlier
	CreatureBurrower
	CreatureSymbiont

	Predator
	Tribe

	// Passive environmental entities
	Rock
	Meteor
)

var kindNames = map[Kind]string{
	KindNone:         "none",
	PlantGreen:       "plant",
	PlantCarnivore:   "carnivorous_plant",
	PlantCrystal:     "crystal_plant",
	PlantSpore:       "spore_plant",
	PlantFire:        "fire_plant",
	Creature:         "creature",
	CreatureAquatic:  "aquatic_creature",
	CreatureFlier:    "flier_creature",
	CreatureBurrower: "burrower_creature",
	CreatureSymbiont: "symbiont_creature",
	Predator:         "predator",
	Tribe:            "tribe",
	Rock:             "rock",
	Meteor:           "meteor",
}

// String returns the stable name used in snapshots and telemetry.
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// KindFromString resolves a snapshot/telemetry name back to a Kind.
// Returns KindNone for unrecognized names.
func KindFromString(s string) Kind {
	for k, n := range kindNames {
		if n == s {
			return k
		}
	}
	return KindNone
}

// IsPlant reports whether k belongs to the plant family.
func IsPlant(k Kind) bool {
	return k >= PlantGreen && k <= PlantFire
}

// IsCreature reports whether k belongs to the creature family (predators excluded).
func IsCreature(k Kind) bool {
	return k >= Creature && k <= CreatureSymbiont
}

// IsMobile reports whether k moves on its own.
func IsMobile(k Kind) bool {
	return IsCreature(k) || k == Predator
}

// AllKinds lists every placeable kind in declaration order.
var AllKinds = []Kind{
	PlantGreen, PlantCarnivore, PlantCrystal, PlantSpore, PlantFire,
	Creature, CreatureAquatic, CreatureFlier, CreatureBurrower, CreatureSymbiont,
	Predator, Tribe, Rock, Meteor,
}

// Behavior is a social behavior variant assigned to mobile entities at creation.
type Behavior uint8

const (
	Flocking Behavior = iota
	Herding
	Territorial
	Cooperative
	Solitary
)

var behaviorNames = [...]string{"flocking", "herding", "territorial", "cooperative", "solitary"}

func (b Behavior) String() string {
	if int(b) < len(behaviorNames) {
		return behaviorNames[b]
	}
	return "unknown"
}

// BehaviorWeights for the creation-time draw (higher = more common).
var BehaviorWeights = [...]float64{
	Flocking:    0.30,
	Herding:     0.25,
	Territorial: 0.20,
	Cooperative: 0.15,
	Solitary:    0.10,
}

// PickBehavior draws a behavior using BehaviorWeights.
func PickBehavior(rng *rand.Rand) Behavior {
	r := rng.Float64()
	acc := 0.0
	for b, w := range BehaviorWeights {
		acc += w
		if r < acc {
			return Behavior(b)
		}
	}
	return Solitary
}

// Biome classifies a surface location by moisture and temperature.
type Biome uint8

const (
	BiomeAny Biome = iota
	BiomeDesert
	BiomeGrassland
	BiomeForest
	BiomeWetland
	BiomeTundra
)

var biomeNames = [...]string{"any", "desert", "grassland", "forest", "wetland", "tundra"}

func (b Biome) String() string {
	if int(b) < len(biomeNames) {
		return biomeNames[b]
	}
	return "unknown"
}
