package sim

import (
	"math/rand"
	"sync"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/mossline/biodome/components"
	"github.com/mossline/biodome/config"
	"github.com/mossline/biodome/environment"
	"github.com/mossline/biodome/genetics"
	"github.com/mossline/biodome/systems"
	"github.com/mossline/biodome/telemetry"
	"github.com/mossline/biodome/traits"
)

// Sim holds the complete simulation state. All shared mutable state lives
// here and is passed to systems through a per-tick context; no system holds
// its own copy. The mutex guards every public entry point, so a tick is
// atomic from a collaborator's point of view.
type Sim struct {
	mu sync.Mutex

	cfg *config.Config
	rng *rand.Rand

	world  *ecs.World
	mapper *ecs.Map5[
		components.Position,
		components.Vitals,
		components.Body,
		components.Organism,
		components.Attributes,
	]
	filter *ecs.Filter5[
		components.Position,
		components.Vitals,
		components.Body,
		components.Organism,
		components.Attributes,
	]
	posMap    *ecs.Map1[components.Position]
	vitMap    *ecs.Map1[components.Vitals]
	orgMap    *ecs.Map1[components.Organism]
	attrMap   *ecs.Map1[components.Attributes]
	socialMap *ecs.Map[components.Social]
	genMap    *ecs.Map[components.Genotype]
	tribeMap  *ecs.Map[components.TribeData]
	ballMap   *ecs.Map[components.Ballistic]

	env     *environment.State
	terrain *environment.Terrain
	grid    *systems.SpatialGrid

	social    *systems.SocialSystem
	species   *systems.SpeciesSystem
	ballistic *systems.BallisticSystem
	evolution *systems.EvolutionSystem

	scenario *systems.Scenario
	outcome  systems.Outcome

	observers  []Observer
	renderers  []Renderer
	modSources []ModifierSource

	collector  *telemetry.Collector
	output     *telemetry.OutputManager
	windowSink func(telemetry.WindowStats)

	byID    map[uint32]ecs.Entity
	staging []systems.SpawnSpec
	events  []telemetry.Event

	tick   int32
	nextID uint32
	budget float64

	// Scheduler state.
	ticker  *time.Ticker
	done    chan struct{}
	running bool
	lapse   bool
}

// New builds a simulation from config with a deterministic seed and the
// initial population placed.
func New(cfg *config.Config, seed int64) *Sim {
	world := ecs.NewWorld()
	rng := rand.New(rand.NewSource(seed))

	s := &Sim{
		cfg:   cfg,
		rng:   rng,
		world: world,
		mapper: ecs.NewMap5[
			components.Position,
			components.Vitals,
			components.Body,
			components.Organism,
			components.Attributes,
		](world),
		filter: ecs.NewFilter5[
			components.Position,
			components.Vitals,
			components.Body,
			components.Organism,
			components.Attributes,
		](world),
		posMap:    ecs.NewMap1[components.Position](world),
		vitMap:    ecs.NewMap1[components.Vitals](world),
		orgMap:    ecs.NewMap1[components.Organism](world),
		attrMap:   ecs.NewMap1[components.Attributes](world),
		socialMap: ecs.NewMap[components.Social](world),
		genMap:    ecs.NewMap[components.Genotype](world),
		tribeMap:  ecs.NewMap[components.TribeData](world),
		ballMap:   ecs.NewMap[components.Ballistic](world),

		env: environment.NewState(
			environment.Conditions{
				Gravity:       cfg.Environment.Gravity,
				Temperature:   cfg.Environment.Temperature,
				WaterPresence: cfg.Environment.WaterPresence,
				Atmosphere:    cfg.Environment.Atmosphere,
			},
			cfg.Season.YearTicks,
			cfg.Weather.TransitionChance,
			cfg.Season.TempAmplitude,
			cfg.Season.GrowthSwing,
		),
		terrain: environment.NewTerrain(cfg.Environment.TerrainSeed),
		grid:    systems.NewSpatialGrid(cfg.World.Width, cfg.World.Height, cfg.World.GridCellSize),

		byID:      make(map[uint32]ecs.Entity),
		budget:    cfg.Placement.StartingEnergy,
		collector: telemetry.NewCollector(cfg.Telemetry.WindowTicks),
	}

	s.social = systems.NewSocialSystem(world)
	s.species = systems.NewSpeciesSystem(world, s.social)
	s.ballistic = systems.NewBallisticSystem(world)
	s.evolution = systems.NewEvolutionSystem(world)

	s.seedWorld()
	return s
}

// AddObserver registers an event listener.
func (s *Sim) AddObserver(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// AddRenderer registers a frame consumer.
func (s *Sim) AddRenderer(r Renderer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renderers = append(s.renderers, r)
}

// AddModifierSource registers a technology multiplier provider.
func (s *Sim) AddModifierSource(m ModifierSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modSources = append(s.modSources, m)
}

// SetOutput attaches a telemetry output directory manager.
func (s *Sim) SetOutput(om *telemetry.OutputManager) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.output = om
}

// SetWindowSink registers a callback invoked with every flushed telemetry
// window, in addition to any output manager.
func (s *Sim) SetWindowSink(fn func(telemetry.WindowStats)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windowSink = fn
}

// SetScenario activates a built-in scenario by name.
func (s *Sim) SetScenario(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := systems.BuiltinScenarios()[name]
	if !ok {
		return ErrUnknownScenario
	}
	s.scenario = sc
	s.outcome = systems.OutcomeNone
	return nil
}

// Tick returns the current tick count.
func (s *Sim) Tick() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

// Outcome returns the scenario outcome, OutcomeNone while running.
func (s *Sim) Outcome() systems.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// Budget returns the remaining placement energy.
func (s *Sim) Budget() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.budget
}

// Aggregates computes current world aggregates.
func (s *Sim) Aggregates() telemetry.Aggregates {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aggregates()
}

// seedWorld places the configured starting population at random positions.
func (s *Sim) seedWorld() {
	pop := s.cfg.Population
	plantKinds := []traits.Kind{
		traits.PlantGreen, traits.PlantGreen, traits.PlantGreen,
		traits.PlantCarnivore, traits.PlantCrystal, traits.PlantSpore, traits.PlantFire,
	}
	creatureKinds := []traits.Kind{
		traits.Creature, traits.Creature,
		traits.CreatureAquatic, traits.CreatureFlier,
		traits.CreatureBurrower, traits.CreatureSymbiont,
	}

	for i := 0; i < pop.InitialPlants; i++ {
		k := plantKinds[s.rng.Intn(len(plantKinds))]
		s.spawn(systems.SpawnSpec{Kind: k, X: s.randX(), Y: s.randY()})
	}
	for i := 0; i < pop.InitialCreatures; i++ {
		k := creatureKinds[s.rng.Intn(len(creatureKinds))]
		s.spawn(systems.SpawnSpec{Kind: k, X: s.randX(), Y: s.randY()})
	}
	for i := 0; i < pop.InitialPredators; i++ {
		s.spawn(systems.SpawnSpec{Kind: traits.Predator, X: s.randX(), Y: s.randY()})
	}
	for i := 0; i < pop.InitialRocks; i++ {
		s.spawn(systems.SpawnSpec{Kind: traits.Rock, X: s.randX(), Y: s.randY()})
	}
}

func (s *Sim) randX() float64 { return s.rng.Float64() * s.cfg.World.Width }
func (s *Sim) randY() float64 { return s.rng.Float64() * s.cfg.World.Height }

// spawn creates one entity from a spec and registers it in the ID index.
// Species defaults seed the body; a genome's expressed size and speed
// multipliers scale it.
func (s *Sim) spawn(spec systems.SpawnSpec) uint32 {
	def := traits.Defaults(spec.Kind)
	if def.MaxHealth <= 0 {
		return 0
	}

	genome := spec.Genome
	if genome == nil && traits.HasGenome(spec.Kind) {
		genome = genetics.NewRandom(spec.Kind, s.rng)
	}

	s.nextID++
	id := s.nextID
	s.create(spec, id, genome)
	return id
}

// create materializes an entity with a fixed ID; spawn and snapshot
// restore share it.
func (s *Sim) create(spec systems.SpawnSpec, id uint32, genome *genetics.Genome) ecs.Entity {
	def := traits.Defaults(spec.Kind)
	ph := genome.Express()

	pos := components.Position{
		X: systems.Wrap(spec.X, s.cfg.World.Width),
		Y: systems.Wrap(spec.Y, s.cfg.World.Height),
	}
	vit := components.Vitals{
		Health:    def.SpawnHealth,
		MaxHealth: def.MaxHealth * ph.SizeMult,
		Energy:    def.SpawnEnergy,
		Alive:     true,
	}
	if vit.Health > vit.MaxHealth {
		vit.Health = vit.MaxHealth
	}
	body := components.Body{
		Size:   def.Size * ph.SizeMult,
		Speed:  def.Speed,
		Radius: def.Radius * ph.SizeMult,
	}
	org := components.Organism{
		ID:    id,
		Kind:  spec.Kind,
		Tags:  def.Tags,
		Biome: def.Biome,
	}
	attrs := components.Attributes{}

	entity := s.mapper.NewEntity(&pos, &vit, &body, &org, &attrs)

	if genome != nil {
		s.genMap.Add(entity, &components.Genotype{Genome: genome})
	}
	if traits.IsMobile(spec.Kind) && spec.Kind != traits.Tribe {
		s.socialMap.Add(entity, &components.Social{
			Behavior:       traits.PickBehavior(s.rng),
			Aggressiveness: ph.Aggression,
		})
	}
	if spec.Kind == traits.Tribe {
		popn := spec.Population
		if popn <= 0 {
			popn = 1
		}
		s.tribeMap.Add(entity, &components.TribeData{
			Population: popn,
			GatherMult: 1.0,
			ReproMult:  1.0,
		})
	}
	if spec.Altitude > 0 {
		s.ballMap.Add(entity, &components.Ballistic{Altitude: spec.Altitude, Active: true})
	}

	s.byID[id] = entity
	return entity
}

// lookup resolves an organism ID to its live entity.
func (s *Sim) lookup(id uint32) (ecs.Entity, bool) {
	e, ok := s.byID[id]
	return e, ok
}

// aggregates flattens live entities into telemetry aggregates.
func (s *Sim) aggregates() telemetry.Aggregates {
	var kinds []traits.Kind
	var health, energy []float64
	var tribePop int32

	query := s.filter.Query()
	for query.Next() {
		entity := query.Entity()
		_, vit, _, org, _ := query.Get()
		if !vit.Alive {
			continue
		}
		kinds = append(kinds, org.Kind)
		health = append(health, vit.Health)
		energy = append(energy, vit.Energy)
		if org.Kind == traits.Tribe && s.tribeMap.Has(entity) {
			tribePop += s.tribeMap.Get(entity).Population
		}
	}
	return telemetry.ComputeAggregates(s.tick, kinds, health, energy, tribePop)
}

// frame builds the render projection of current observable state.
func (s *Sim) frame() Frame {
	mods := s.env.Modifiers()
	f := Frame{
		Tick:    s.tick,
		Season:  mods.Season,
		Weather: mods.Weather,
		Outcome: s.outcome,
		Budget:  s.budget,
	}

	query := s.filter.Query()
	for query.Next() {
		entity := query.Entity()
		pos, vit, _, org, _ := query.Get()
		if !vit.Alive {
			continue
		}
		view := EntityView{
			ID:        org.ID,
			Kind:      org.Kind,
			X:         pos.X,
			Y:         pos.Y,
			Health:    vit.Health,
			MaxHealth: vit.MaxHealth,
			Energy:    vit.Energy,
		}
		if s.genMap.Has(entity) {
			if gt := s.genMap.Get(entity); gt.Genome != nil {
				view.Hue = gt.Genome.Express().Hue
			}
		}
		if s.ballMap.Has(entity) {
			if b := s.ballMap.Get(entity); b.Active {
				view.Altitude = b.Altitude
			}
		}
		if s.tribeMap.Has(entity) {
			view.Population = s.tribeMap.Get(entity).Population
		}
		f.Entities = append(f.Entities, view)
	}
	return f
}
