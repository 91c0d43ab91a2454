package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/mossline/biodome/components"
	"github.com/mossline/biodome/telemetry"
	"github.com/mossline/biodome/traits"
)

// tribeShrinkChance is the odds an unfed tribe loses a member in a tick.
const tribeShrinkChance = 0.1

func (s *SpeciesSystem) updateTribe(
	ctx *Context,
	e ecs.Entity,
	pos *components.Position,
	vit *components.Vitals,
	body *components.Body,
	org *components.Organism,
	attrs *components.Attributes,
) {
	if !s.tribeMap.Has(e) {
		return
	}
	td := s.tribeMap.Get(e)
	tc := ctx.Cfg.Tribes

	td.DecayModifiers()

	need := float64(td.Population) * tc.GatherRate * td.GatherMult * ctx.Tech.Mult(ModGatherRate)
	gathered := s.gather(ctx, e, pos, need)
	vit.Energy += gathered

	if gathered <= 0 {
		vit.Damage(tc.UnfedDamage)
		if ctx.RNG.Float64() < tribeShrinkChance {
			td.Population--
		}
	} else {
		vit.Heal(gathered * 0.1)
	}

	if td.Population <= 0 || !vit.Alive {
		td.Population = 0
		vit.Alive = false
		s.emitDeath(ctx, org, "tribe collapsed")
		return
	}

	// Growth is the only path that increases population.
	growthP := tc.GrowthChance * (1 + td.TechLevel) * td.ReproMult * ctx.Tech.Mult(ModTribeCulture)
	if td.Population < tc.MaxPopulation && ctx.RNG.Float64() < growthP {
		td.Population++
		td.TechLevel += tc.TechGrowth
		ctx.Emitf(telemetry.Event{
			Type:     telemetry.EventReproduction,
			EntityID: org.ID,
			Kind:     traits.Tribe,
			Amount:   float64(td.Population),
			Detail:   "tribe growth",
		})
	}
}

// gather harvests plant biomass around the settlement until the tribe's
// need is met or the range is exhausted. Returns the amount taken.
func (s *SpeciesSystem) gather(ctx *Context, e ecs.Entity, pos *components.Position, need float64) float64 {
	if need <= 0 {
		return 0
	}
	neighbors := ctx.Grid.QueryRadiusInto(s.scratch[:0], pos.X, pos.Y, ctx.Cfg.Tribes.GatherRadius, e, s.posMap)
	s.scratch = neighbors

	var gathered float64
	for _, n := range neighbors {
		if gathered >= need {
			break
		}
		norg := s.orgMap.Get(n.E)
		nvit := s.vitMap.Get(n.E)
		if norg == nil || nvit == nil || !nvit.Alive || !traits.IsPlant(norg.Kind) {
			continue
		}
		take := need - gathered
		if nvit.Health < take {
			take = nvit.Health
		}
		nvit.Damage(take)
		gathered += take
		if !nvit.Alive {
			s.emitDeath(ctx, norg, "gathered")
		}
	}
	return gathered
}
