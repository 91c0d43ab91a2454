package traits

// SpeciesDefaults holds the static per-kind baseline an entity starts from
// when no genome overrides it.
type SpeciesDefaults struct {
	MaxHealth   float64
	SpawnHealth float64
	SpawnEnergy float64
	Size        float64
	Speed       float64
	Radius      float64
	Tags        Tag
	Biome       Biome
}

var speciesTable = map[Kind]SpeciesDefaults{
	PlantGreen: {
		MaxHealth: 100, SpawnHealth: 50, SpawnEnergy: 20,
		Size: 1.0, Speed: 0, Radius: 8,
		Tags:  Photosynthetic,
		Biome: BiomeGrassland,
	},
	PlantCarnivore: {
		MaxHealth: 120, SpawnHealth: 60, SpawnEnergy: 25,
		Size: 1.2, Speed: 0, Radius: 10,
		Tags:  Photosynthetic | Carnivore,
		Biome: BiomeWetland,
	},
	PlantCrystal: {
		MaxHealth: 150, SpawnHealth: 75, SpawnEnergy: 40,
		Size: 1.1, Speed: 0, Radius: 9,
		Tags:  Photosynthetic | MineralBearing,
		Biome: BiomeDesert,
	},
	PlantSpore: {
		MaxHealth: 80, SpawnHealth: 40, SpawnEnergy: 15,
		Size: 0.8, Speed: 0, Radius: 6,
		Tags:  Photosynthetic,
		Biome: BiomeForest,
	},
	PlantFire: {
		MaxHealth: 90, SpawnHealth: 45, SpawnEnergy: 30,
		Size: 1.0, Speed: 0, Radius: 8,
		Tags:  Photosynthetic | HeatSource,
		Biome: BiomeDesert,
	},
	Creature: {
		MaxHealth: 100, SpawnHealth: 70, SpawnEnergy: 50,
		Size: 1.0, Speed: 2.0, Radius: 10,
		Tags:  Mobile | Herbivore,
		Biome: BiomeGrassland,
	},
	CreatureAquatic: {
		MaxHealth: 90, SpawnHealth: 65, SpawnEnergy: 45,
		Size: 0.9, Speed: 2.2, Radius: 9,
		Tags:  Mobile | Herbivore | Aquatic,
		Biome: BiomeWetland,
	},
	CreatureFlier: {
		MaxHealth: 70, SpawnHealth: 55, SpawnEnergy: 40,
		Size: 0.7, Speed: 3.5, Radius: 7,
		Tags:  Mobile | Herbivore | Flier,
		Biome: BiomeForest,
	},
	CreatureBurrower: {
		MaxHealth: 110, SpawnHealth: 75, SpawnEnergy: 50,
		Size: 0.9, Speed: 1.6, Radius: 9,
		Tags:  Mobile | Herbivore | Burrower,
		Biome: BiomeDesert,
	},
	CreatureSymbiont: {
		MaxHealth: 85, SpawnHealth: 60, SpawnEnergy: 45,
		Size: 0.8, Speed: 2.0, Radius: 8,
		Tags:  Mobile | Herbivore | Symbiont,
		Biome: BiomeForest,
	},
	Predator: {
		MaxHealth: 140, SpawnHealth: 90, SpawnEnergy: 60,
		Size: 1.4, Speed: 2.8, Radius: 12,
		Tags:  Mobile | Carnivore,
		Biome: BiomeGrassland,
	},
	Tribe: {
		MaxHealth: 200, SpawnHealth: 150, SpawnEnergy: 100,
		Size: 2.0, Speed: 0.4, Radius: 24,
		Tags:  Mobile | Emergent,
		Biome: BiomeAny,
	},
	Rock: {
		MaxHealth: 60, SpawnHealth: 60, SpawnEnergy: 0,
		Size: 1.0, Speed: 0, Radius: 10,
		Tags:  MineralBearing,
		Biome: BiomeAny,
	},
	Meteor: {
		MaxHealth: 80, SpawnHealth: 80, SpawnEnergy: 0,
		Size: 1.2, Speed: 0, Radius: 11,
		Tags:  MineralBearing | OrbitOnly,
		Biome: BiomeAny,
	},
}

// Defaults returns the species baseline for a kind. Unknown kinds get a
// zero-value entry, which callers treat as unplaceable.
func Defaults(k Kind) SpeciesDefaults {
	return speciesTable[k]
}

// HasGenome reports whether entities of this kind carry a genome.
// Tribes, rocks, and meteors do not evolve.
func HasGenome(k Kind) bool {
	return IsPlant(k) || IsCreature(k) || k == Predator
}
