package sim

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/mossline/biodome/components"
	"github.com/mossline/biodome/environment"
	"github.com/mossline/biodome/genetics"
	"github.com/mossline/biodome/systems"
	"github.com/mossline/biodome/traits"
)

const snapshotVersion = 1

// Snapshot is the serialized world state. Genomes travel as trait-name
// maps, so saves stay loadable when trait schemas evolve: unknown traits
// are dropped and missing ones take species defaults.
type Snapshot struct {
	Version  int     `json:"version"`
	Tick     int32   `json:"tick"`
	NextID   uint32  `json:"next_id"`
	Budget   float64 `json:"budget"`
	YearFrac float64 `json:"year_frac"`
	Weather  string  `json:"weather"`
	Scenario string  `json:"scenario,omitempty"`
	Outcome  uint8   `json:"outcome"`

	Entities []SnapshotEntity `json:"entities"`
}

// SnapshotEntity is one serialized entity.
type SnapshotEntity struct {
	ID        uint32  `json:"id"`
	Kind      string  `json:"kind"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Health    float64 `json:"health"`
	MaxHealth float64 `json:"max_health"`
	Energy    float64 `json:"energy"`
	Age       int32   `json:"age"`

	Genome map[string]float64             `json:"genome,omitempty"`
	Attrs  map[components.AttrKey]float64 `json:"attrs,omitempty"`

	Social    *SnapshotSocial    `json:"social,omitempty"`
	Tribe     *SnapshotTribe     `json:"tribe,omitempty"`
	Ballistic *SnapshotBallistic `json:"ballistic,omitempty"`
}

// SnapshotSocial carries behavior state and soft references.
type SnapshotSocial struct {
	Behavior       uint8   `json:"behavior"`
	LeaderID       uint32  `json:"leader_id,omitempty"`
	GroupID        uint32  `json:"group_id,omitempty"`
	PartnerID      uint32  `json:"partner_id,omitempty"`
	TargetID       uint32  `json:"target_id,omitempty"`
	Aggressiveness float64 `json:"aggressiveness"`
}

// SnapshotTribe carries emergent tribe state.
type SnapshotTribe struct {
	Population      int32   `json:"population"`
	TechLevel       float64 `json:"tech_level"`
	GatherMult      float64 `json:"gather_mult"`
	ReproMult       float64 `json:"repro_mult"`
	GatherMultTicks int32   `json:"gather_mult_ticks,omitempty"`
	ReproMultTicks  int32   `json:"repro_mult_ticks,omitempty"`
}

// SnapshotBallistic carries an in-flight descent.
type SnapshotBallistic struct {
	Altitude float64 `json:"altitude"`
	Descent  float64 `json:"descent"`
}

// MarshalSnapshot serializes the full world state.
func (s *Sim) MarshalSnapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Version:  snapshotVersion,
		Tick:     s.tick,
		NextID:   s.nextID,
		Budget:   s.budget,
		YearFrac: s.env.YearFrac,
		Weather:  s.env.Weather.String(),
		Outcome:  uint8(s.outcome),
	}
	if s.scenario != nil {
		snap.Scenario = s.scenario.Name
	}

	query := s.filter.Query()
	for query.Next() {
		entity := query.Entity()
		pos, vit, _, org, attrs := query.Get()
		se := SnapshotEntity{
			ID:        org.ID,
			Kind:      org.Kind.String(),
			X:         pos.X,
			Y:         pos.Y,
			Health:    vit.Health,
			MaxHealth: vit.MaxHealth,
			Energy:    vit.Energy,
			Age:       vit.Age,
		}
		attrs.Each(func(key components.AttrKey, value float64) {
			if se.Attrs == nil {
				se.Attrs = make(map[components.AttrKey]float64)
			}
			se.Attrs[key] = value
		})
		if s.genMap.Has(entity) {
			if gt := s.genMap.Get(entity); gt.Genome != nil {
				se.Genome = gt.Genome.TraitMap()
			}
		}
		if s.socialMap.Has(entity) {
			soc := s.socialMap.Get(entity)
			se.Social = &SnapshotSocial{
				Behavior:       uint8(soc.Behavior),
				LeaderID:       soc.LeaderID,
				GroupID:        soc.GroupID,
				PartnerID:      soc.PartnerID,
				TargetID:       soc.TargetID,
				Aggressiveness: soc.Aggressiveness,
			}
		}
		if s.tribeMap.Has(entity) {
			td := s.tribeMap.Get(entity)
			se.Tribe = &SnapshotTribe{
				Population:      td.Population,
				TechLevel:       td.TechLevel,
				GatherMult:      td.GatherMult,
				ReproMult:       td.ReproMult,
				GatherMultTicks: td.GatherMultTicks,
				ReproMultTicks:  td.ReproMultTicks,
			}
		}
		if s.ballMap.Has(entity) {
			if b := s.ballMap.Get(entity); b.Active {
				se.Ballistic = &SnapshotBallistic{Altitude: b.Altitude, Descent: b.Descent}
			}
		}
		snap.Entities = append(snap.Entities, se)
	}
	return json.MarshalIndent(snap, "", "  ")
}

// RestoreSnapshot replaces world state with a snapshot. Validation runs
// fully before any mutation: a corrupt snapshot leaves the current world
// untouched.
func (s *Sim) RestoreSnapshot(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if snap.Version != snapshotVersion {
		return fmt.Errorf("%w: version %d", ErrCorruptSnapshot, snap.Version)
	}
	if err := s.validateSnapshot(&snap); err != nil {
		return err
	}

	var scenario *systems.Scenario
	if snap.Scenario != "" {
		sc, ok := systems.BuiltinScenarios()[snap.Scenario]
		if !ok {
			return fmt.Errorf("%w: scenario %q", ErrCorruptSnapshot, snap.Scenario)
		}
		scenario = sc
	}

	s.resetWorld()

	s.tick = snap.Tick
	s.nextID = snap.NextID
	s.budget = snap.Budget
	s.env.YearFrac = snap.YearFrac
	s.env.Weather = environment.WeatherFromString(snap.Weather)
	s.scenario = scenario
	s.outcome = systems.Outcome(snap.Outcome)

	for _, se := range snap.Entities {
		kind := traits.KindFromString(se.Kind)
		var genome *genetics.Genome
		if se.Genome != nil && traits.HasGenome(kind) {
			genome = genetics.FromTraitMap(kind, se.Genome)
		}
		altitude := 0.0
		if se.Ballistic != nil {
			altitude = se.Ballistic.Altitude
		}
		entity := s.create(systems.SpawnSpec{Kind: kind, X: se.X, Y: se.Y, Altitude: altitude}, se.ID, genome)

		vit := s.vitMap.Get(entity)
		vit.MaxHealth = se.MaxHealth
		vit.Health = clampFloat(se.Health, 0, se.MaxHealth)
		vit.Energy = se.Energy
		vit.Age = se.Age
		vit.Alive = vit.Health > 0

		if se.Attrs != nil {
			attrs := s.attrsOf(entity)
			for key, value := range se.Attrs {
				attrs.Set(key, value)
			}
		}
		if se.Social != nil && s.socialMap.Has(entity) {
			soc := s.socialMap.Get(entity)
			soc.Behavior = traits.Behavior(se.Social.Behavior)
			soc.LeaderID = se.Social.LeaderID
			soc.GroupID = se.Social.GroupID
			soc.PartnerID = se.Social.PartnerID
			soc.TargetID = se.Social.TargetID
			soc.Aggressiveness = se.Social.Aggressiveness
		}
		if se.Tribe != nil && s.tribeMap.Has(entity) {
			td := s.tribeMap.Get(entity)
			td.Population = se.Tribe.Population
			td.TechLevel = se.Tribe.TechLevel
			td.GatherMult = se.Tribe.GatherMult
			td.ReproMult = se.Tribe.ReproMult
			td.GatherMultTicks = se.Tribe.GatherMultTicks
			td.ReproMultTicks = se.Tribe.ReproMultTicks
		}
		if se.Ballistic != nil && s.ballMap.Has(entity) {
			b := s.ballMap.Get(entity)
			b.Descent = se.Ballistic.Descent
		}
		if s.nextID < se.ID {
			s.nextID = se.ID
		}
	}
	return nil
}

// validateSnapshot rejects structurally broken saves before mutation.
func (s *Sim) validateSnapshot(snap *Snapshot) error {
	seen := make(map[uint32]bool, len(snap.Entities))
	for i, se := range snap.Entities {
		kind := traits.KindFromString(se.Kind)
		if kind == traits.KindNone {
			return fmt.Errorf("%w: entity %d has unknown kind %q", ErrCorruptSnapshot, i, se.Kind)
		}
		if se.ID == 0 || seen[se.ID] {
			return fmt.Errorf("%w: entity %d has duplicate or zero id", ErrCorruptSnapshot, i)
		}
		seen[se.ID] = true
		for _, v := range [...]float64{se.X, se.Y, se.Health, se.MaxHealth, se.Energy} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: entity %d has non-finite numeric field", ErrCorruptSnapshot, i)
			}
		}
		if se.MaxHealth <= 0 {
			return fmt.Errorf("%w: entity %d has non-positive max health", ErrCorruptSnapshot, i)
		}
	}
	return nil
}

// resetWorld rebuilds the ECS and everything bound to it. Restore goes
// through a fresh world rather than unwinding the old one entity by entity.
func (s *Sim) resetWorld() {
	world := ecs.NewWorld()
	s.world = world
	s.mapper = ecs.NewMap5[
		components.Position,
		components.Vitals,
		components.Body,
		components.Organism,
		components.Attributes,
	](world)
	s.filter = ecs.NewFilter5[
		components.Position,
		components.Vitals,
		components.Body,
		components.Organism,
		components.Attributes,
	](world)
	s.posMap = ecs.NewMap1[components.Position](world)
	s.vitMap = ecs.NewMap1[components.Vitals](world)
	s.orgMap = ecs.NewMap1[components.Organism](world)
	s.attrMap = ecs.NewMap1[components.Attributes](world)
	s.socialMap = ecs.NewMap[components.Social](world)
	s.genMap = ecs.NewMap[components.Genotype](world)
	s.tribeMap = ecs.NewMap[components.TribeData](world)
	s.ballMap = ecs.NewMap[components.Ballistic](world)

	s.social = systems.NewSocialSystem(world)
	s.species = systems.NewSpeciesSystem(world, s.social)
	s.ballistic = systems.NewBallisticSystem(world)
	s.evolution = systems.NewEvolutionSystem(world)

	s.byID = make(map[uint32]ecs.Entity)
	s.staging = s.staging[:0]
}

// attrsOf returns the entity's attribute store.
func (s *Sim) attrsOf(entity ecs.Entity) *components.Attributes {
	return s.attrMap.Get(entity)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
