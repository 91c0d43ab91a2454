package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/mossline/biodome/components"
	"github.com/mossline/biodome/genetics"
	"github.com/mossline/biodome/traits"
)

// SpeciesSystem runs every entity's species-variant update for one tick.
// Dispatch is a switch over the closed Kind set; shared logic lives in free
// functions parameterized by the variant's component data.
type SpeciesSystem struct {
	filter ecs.Filter5[
		components.Position,
		components.Vitals,
		components.Body,
		components.Organism,
		components.Attributes,
	]
	posMap    *ecs.Map1[components.Position]
	vitMap    *ecs.Map1[components.Vitals]
	bodyMap   *ecs.Map1[components.Body]
	orgMap    *ecs.Map1[components.Organism]
	attrMap   *ecs.Map1[components.Attributes]
	socialMap *ecs.Map[components.Social]
	genMap    *ecs.Map[components.Genotype]
	tribeMap  *ecs.Map[components.TribeData]
	ballMap   *ecs.Map[components.Ballistic]

	social *SocialSystem

	// Per-tick tallies for population caps.
	plantCount    int
	creatureCount int

	scratch []Neighbor
}

// NewSpeciesSystem creates the system over a world.
func NewSpeciesSystem(w *ecs.World, social *SocialSystem) *SpeciesSystem {
	return &SpeciesSystem{
		filter: *ecs.NewFilter5[
			components.Position,
			components.Vitals,
			components.Body,
			components.Organism,
			components.Attributes,
		](w),
		posMap:    ecs.NewMap1[components.Position](w),
		vitMap:    ecs.NewMap1[components.Vitals](w),
		bodyMap:   ecs.NewMap1[components.Body](w),
		orgMap:    ecs.NewMap1[components.Organism](w),
		attrMap:   ecs.NewMap1[components.Attributes](w),
		socialMap: ecs.NewMap[components.Social](w),
		genMap:    ecs.NewMap[components.Genotype](w),
		tribeMap:  ecs.NewMap[components.TribeData](w),
		ballMap:   ecs.NewMap[components.Ballistic](w),
		social:    social,
	}
}

// Update runs one species-variant pass. New entities go to the staging
// list via ctx.Stage; the live list is never modified here.
func (s *SpeciesSystem) Update(ctx *Context) {
	s.prepass(ctx)

	query := s.filter.Query()
	for query.Next() {
		entity := query.Entity()
		pos, vit, body, org, attrs := query.Get()

		if !vit.Alive {
			continue
		}
		if s.inFlight(entity) {
			// Ballistic entities join surface resolution when they land.
			continue
		}

		vit.Age++

		switch {
		case traits.IsPlant(org.Kind):
			s.updatePlant(ctx, entity, pos, vit, body, org, attrs)
		case traits.IsCreature(org.Kind) || org.Kind == traits.Predator:
			s.updateCreature(ctx, entity, pos, vit, body, org, attrs)
		case org.Kind == traits.Tribe:
			s.updateTribe(ctx, entity, pos, vit, body, org, attrs)
		case org.Kind == traits.Rock, org.Kind == traits.Meteor:
			// Passive environmental entities: no behavior of their own.
		}
	}
}

// prepass tallies population caps and registers heat sources before the
// main update so every entity sees the same per-tick values.
func (s *SpeciesSystem) prepass(ctx *Context) {
	s.plantCount = 0
	s.creatureCount = 0

	query := s.filter.Query()
	for query.Next() {
		entity := query.Entity()
		pos, vit, _, org, attrs := query.Get()

		if !vit.Alive || s.inFlight(entity) {
			continue
		}
		switch {
		case traits.IsPlant(org.Kind):
			s.plantCount++
		case traits.IsCreature(org.Kind):
			s.creatureCount++
		}
		if org.HasTag(traits.HeatSource) {
			ctx.AddHeatSource(pos.X, pos.Y, attrs.Get(components.AttrHeatOutput, ctx.Cfg.Plants.FireHeatOutput))
		}
	}
}

// inFlight reports whether the entity is still falling from orbit.
func (s *SpeciesSystem) inFlight(e ecs.Entity) bool {
	if !s.ballMap.Has(e) {
		return false
	}
	b := s.ballMap.Get(e)
	return b != nil && b.Active
}

// phenotype expresses the entity's genome, or species defaults without one.
func (s *SpeciesSystem) phenotype(e ecs.Entity) genetics.Phenotype {
	if s.genMap.Has(e) {
		if gt := s.genMap.Get(e); gt != nil && gt.Genome != nil {
			return gt.Genome.Express()
		}
	}
	return (*genetics.Genome)(nil).Express()
}

// genomeOf returns the entity's genome or nil.
func (s *SpeciesSystem) genomeOf(e ecs.Entity) *genetics.Genome {
	if !s.genMap.Has(e) {
		return nil
	}
	if gt := s.genMap.Get(e); gt != nil {
		return gt.Genome
	}
	return nil
}
