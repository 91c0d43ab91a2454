// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World       WorldConfig       `yaml:"world"`
	Environment EnvironmentConfig `yaml:"environment"`
	Weather     WeatherConfig     `yaml:"weather"`
	Season      SeasonConfig      `yaml:"season"`
	Genetics    GeneticsConfig    `yaml:"genetics"`
	Plants      PlantConfig       `yaml:"plants"`
	Creatures   CreatureConfig    `yaml:"creatures"`
	Predation   PredationConfig   `yaml:"predation"`
	Social      SocialConfig      `yaml:"social"`
	Tribes      TribeConfig       `yaml:"tribes"`
	Evolution   EvolutionConfig   `yaml:"evolution"`
	Scheduler   SchedulerConfig   `yaml:"scheduler"`
	Placement   PlacementConfig   `yaml:"placement"`
	Population  PopulationConfig  `yaml:"population"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
}

// WorldConfig holds simulation world dimensions.
type WorldConfig struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	GridCellSize float64 `yaml:"grid_cell_size"`
}

// EnvironmentConfig is the planet's baseline environment. Values are the
// sandbox sliders: gravity in m/s², temperature in °C, water presence and
// atmosphere density as 0-100 percentages.
type EnvironmentConfig struct {
	Gravity       float64 `yaml:"gravity"`
	Temperature   float64 `yaml:"temperature"`
	WaterPresence float64 `yaml:"water_presence"`
	Atmosphere    float64 `yaml:"atmosphere"`
	TerrainSeed   int64   `yaml:"terrain_seed"`
}

// WeatherConfig holds the weather state machine parameters.
type WeatherConfig struct {
	TransitionChance float64 `yaml:"transition_chance"` // per-tick check probability
}

// SeasonConfig holds the annual cycle parameters.
type SeasonConfig struct {
	YearTicks     int32   `yaml:"year_ticks"`     // ticks per full annual cycle
	TempAmplitude float64 `yaml:"temp_amplitude"` // seasonal temperature swing in °C
	GrowthSwing   float64 `yaml:"growth_swing"`   // seasonal growth multiplier swing
}

// GeneticsConfig holds inheritance parameters.
type GeneticsConfig struct {
	MutationRate float64 `yaml:"mutation_rate"` // max perturbation as fraction of trait range
	MateRadius   float64 `yaml:"mate_radius"`   // proximity radius for mate selection
}

// PlantConfig holds plant family parameters.
type PlantConfig struct {
	GrowthRate       float64 `yaml:"growth_rate"`        // base health gain per tick at full suitability
	ReproThreshold   float64 `yaml:"repro_threshold"`    // health ratio needed to reproduce
	SpreadDistance   float64 `yaml:"spread_distance"`    // offspring placement distance
	MineralRadius    float64 `yaml:"mineral_radius"`     // reach for consuming mineral-bearing entities
	MineralBite      float64 `yaml:"mineral_bite"`       // minerals drawn per tick
	SporeSpreadMult  float64 `yaml:"spore_spread_mult"`  // spore plant spread distance multiplier
	FireHeatOutput   float64 `yaml:"fire_heat_output"`   // °C added near fire plants
	CrystalShareRate float64 `yaml:"crystal_share_rate"` // energy shared to neighbors per tick
	MaxPlants        int     `yaml:"max_plants"`
}

// CreatureConfig holds creature family parameters.
type CreatureConfig struct {
	BaseEnergyCost    float64 `yaml:"base_energy_cost"`    // energy drain per tick at metabolism 1.0
	FeedRate          float64 `yaml:"feed_rate"`           // plant health consumed per feeding tick
	FeedEfficiency    float64 `yaml:"feed_efficiency"`     // fraction of consumed biomass becoming energy
	FleeRadius        float64 `yaml:"flee_radius"`         // threat detection radius
	SeekRadius        float64 `yaml:"seek_radius"`         // food detection radius
	ReproHealthRatio  float64 `yaml:"repro_health_ratio"`  // health ratio threshold
	ReproEnergy       float64 `yaml:"repro_energy"`        // energy threshold
	ReproEnergyCost   float64 `yaml:"repro_energy_cost"`   // energy paid per birth
	BiomeMismatchCost float64 `yaml:"biome_mismatch_cost"` // health drain per tick outside preferred biome
	StarveDamage      float64 `yaml:"starve_damage"`       // health drain per tick at negative energy
	MaxCreatures      int     `yaml:"max_creatures"`
}

// PredationConfig holds food-web resolution parameters.
type PredationConfig struct {
	BaseChance    float64 `yaml:"base_chance"`     // success probability at phenotype parity
	RatioGain     float64 `yaml:"ratio_gain"`      // probability gained per unit of phenotype advantage
	JitterSpread  float64 `yaml:"jitter_spread"`   // small random factor width
	BiteAmount    float64 `yaml:"bite_amount"`     // prey health removed on success
	BiteGainRatio float64 `yaml:"bite_gain_ratio"` // predator energy/health gained per health removed
	FailPenalty   float64 `yaml:"fail_penalty"`    // predator energy lost on a miss
	HuntRadius    float64 `yaml:"hunt_radius"`
}

// SocialConfig holds social behavior parameters.
type SocialConfig struct {
	WanderSpeed       float64 `yaml:"wander_speed"`       // base random wander magnitude
	PersonalRadius    float64 `yaml:"personal_radius"`    // territorial repulsion base radius
	FollowDistance    float64 `yaml:"follow_distance"`    // minimum distance before leader pull
	GroupRadius       float64 `yaml:"group_radius"`       // cooperative share radius
	CoopFeedBonus     float64 `yaml:"coop_feed_bonus"`    // feeding efficiency bonus beside group members
	InfluenceStrength float64 `yaml:"influence_strength"` // behavior vector weight
}

// TribeConfig holds emergent tribe parameters.
type TribeConfig struct {
	GatherRate    float64 `yaml:"gather_rate"`    // plant biomass per member per tick
	GatherRadius  float64 `yaml:"gather_radius"`
	GrowthChance  float64 `yaml:"growth_chance"`  // base population growth probability
	TechGrowth    float64 `yaml:"tech_growth"`    // tech level gained per successful growth
	UnfedDamage   float64 `yaml:"unfed_damage"`   // health lost on a tick with no food
	MaxPopulation int32   `yaml:"max_population"`
}

// EvolutionConfig holds emergent-tribe clustering parameters. The radius,
// threshold, and mutation rate were free constants in early builds; they
// are tunable here rather than baked in.
type EvolutionConfig struct {
	ClusterRadius    float64 `yaml:"cluster_radius"`    // creature grouping radius
	ClusterThreshold int     `yaml:"cluster_threshold"` // creatures needed to form a tribe
	PlantRadiusMult  float64 `yaml:"plant_radius_mult"` // sustaining-plant search radius multiplier
}

// SchedulerConfig holds tick scheduling intervals.
type SchedulerConfig struct {
	TickIntervalMs  int `yaml:"tick_interval_ms"`
	LapseIntervalMs int `yaml:"lapse_interval_ms"`
}

// PlacementConfig holds user-placement costs and the starting budget.
type PlacementConfig struct {
	StartingEnergy float64            `yaml:"starting_energy"`
	Costs          map[string]float64 `yaml:"costs"` // by species name; absent = free
}

// PopulationConfig holds the initial seeding of a fresh world.
type PopulationConfig struct {
	InitialPlants    int `yaml:"initial_plants"`
	InitialCreatures int `yaml:"initial_creatures"`
	InitialPredators int `yaml:"initial_predators"`
	InitialRocks     int `yaml:"initial_rocks"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	WindowTicks int32 `yaml:"window_ticks"`
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if
// path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	return cfg, nil
}

// Default returns a config built purely from the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
