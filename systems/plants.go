package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/mossline/biodome/components"
	"github.com/mossline/biodome/genetics"
	"github.com/mossline/biodome/telemetry"
	"github.com/mossline/biodome/traits"
)

const (
	digestTicks      = 40
	pollinationCap   = 0.5
	sporeChargeCost  = 3.0
	reproEnergyPlant = 5.0
)

func (s *SpeciesSystem) updatePlant(
	ctx *Context,
	e ecs.Entity,
	pos *components.Position,
	vit *components.Vitals,
	body *components.Body,
	org *components.Organism,
	attrs *components.Attributes,
) {
	ph := s.phenotype(e)
	pc := ctx.Cfg.Plants

	temp := ctx.TempAt(pos.X, pos.Y)
	tempFactor := 1 - clamp01(math.Abs(temp-ph.TempTolerance)/30)

	moisture := ctx.Terrain.MoistureAt(pos.X, pos.Y)
	localWater := ctx.Cond.WaterPresence*0.6 + moisture*100*0.4
	waterFactor := 1 - clamp01(math.Abs(localWater-ph.WaterTolerance)/100)

	fertility := ctx.Terrain.FertilityAt(pos.X, pos.Y)

	growth := pc.GrowthRate * tempFactor * waterFactor * fertility *
		ctx.Env.GrowthMult * ctx.Tech.Mult(ModPlantGrowth)
	vit.Heal(growth)
	vit.Energy += growth * 0.5

	neighbors := ctx.Grid.QueryRadiusInto(s.scratch[:0], pos.X, pos.Y, pc.MineralRadius, e, s.posMap)
	s.scratch = neighbors

	s.drawMinerals(ctx, vit, attrs, neighbors)

	switch org.Kind {
	case traits.PlantCarnivore:
		s.carnivorePlantFeed(ctx, e, pos, vit, body, attrs, neighbors)
	case traits.PlantCrystal:
		s.crystalShare(ctx, e, org, vit, attrs, growth, neighbors)
	case traits.PlantSpore:
		attrs.Add(components.AttrSporeCharge, growth)
	case traits.PlantFire:
		// Heat is registered in the prepass; here the flame burns reserves.
		vit.Energy -= pc.FireHeatOutput * 0.02
		if vit.Energy < 0 {
			vit.Damage(1)
			vit.Energy = 0
		}
	}

	s.plantReproduce(ctx, e, pos, vit, org, attrs, ph.ReproChance, tempFactor, waterFactor)
}

// drawMinerals pulls a bite of minerals per tick from adjacent deposits.
// The deposit's health acts as its remaining reserve.
func (s *SpeciesSystem) drawMinerals(ctx *Context, vit *components.Vitals, attrs *components.Attributes, neighbors []Neighbor) {
	bite := ctx.Cfg.Plants.MineralBite
	for _, n := range neighbors {
		norg := s.orgMap.Get(n.E)
		nvit := s.vitMap.Get(n.E)
		if norg == nil || nvit == nil || !nvit.Alive || !norg.HasTag(traits.MineralBearing) {
			continue
		}
		take := bite
		if nvit.Health < take {
			take = nvit.Health
		}
		if take <= 0 {
			continue
		}
		nvit.Damage(take)
		attrs.Add(components.AttrStoredMinerals, take)
		vit.Heal(take * 0.25)
	}
}

// carnivorePlantFeed lets a carnivorous plant bite a colliding creature
// once its digest timer has run down.
func (s *SpeciesSystem) carnivorePlantFeed(
	ctx *Context,
	e ecs.Entity,
	pos *components.Position,
	vit *components.Vitals,
	body *components.Body,
	attrs *components.Attributes,
	neighbors []Neighbor,
) {
	if t := attrs.Get(components.AttrDigestTimer, 0); t > 0 {
		attrs.Set(components.AttrDigestTimer, t-1)
		return
	}

	reach := body.Radius * 1.5
	for _, n := range neighbors {
		if n.DistSq > reach*reach {
			continue
		}
		norg := s.orgMap.Get(n.E)
		nvit := s.vitMap.Get(n.E)
		if norg == nil || nvit == nil || !nvit.Alive {
			continue
		}
		if !PreyEligible(traits.PlantCarnivore, norg.Kind) {
			continue
		}
		nbody := s.bodyMap.Get(n.E)
		prey := s.phenotype(n.E)
		mine := s.phenotype(e)
		p := SuccessProbability(HuntScore(body, mine), HuntScore(nbody, prey), Jitter(ctx.RNG, ctx.Cfg.Predation), ctx.Cfg.Predation)
		res := ResolveBite(vit, nvit, ctx.RNG.Float64() < p, ctx.Cfg.Predation)
		myOrg := s.orgMap.Get(e)
		evType := telemetry.EventPredationMiss
		if res.Hit {
			attrs.Set(components.AttrDigestTimer, digestTicks)
			evType = telemetry.EventPredationHit
		}
		ctx.Emitf(telemetry.Event{
			Type:     evType,
			EntityID: myOrg.ID,
			TargetID: norg.ID,
			Kind:     traits.PlantCarnivore,
			Amount:   res.Transfer,
			Detail:   "snap",
		})
		return
	}
}

// crystalShare accumulates surplus energy and streams a fraction of it to
// nearby plants each tick.
func (s *SpeciesSystem) crystalShare(
	ctx *Context,
	e ecs.Entity,
	org *components.Organism,
	vit *components.Vitals,
	attrs *components.Attributes,
	growth float64,
	neighbors []Neighbor,
) {
	attrs.Add(components.AttrStoredEnergy, growth*0.5)
	stored := attrs.Get(components.AttrStoredEnergy, 0)
	if stored <= 0 {
		return
	}
	gift := stored * ctx.Cfg.Plants.CrystalShareRate
	var receivers []ecs.Entity
	for _, n := range neighbors {
		norg := s.orgMap.Get(n.E)
		nvit := s.vitMap.Get(n.E)
		if norg == nil || nvit == nil || !nvit.Alive {
			continue
		}
		if traits.IsPlant(norg.Kind) && norg.Kind != traits.PlantCrystal {
			receivers = append(receivers, n.E)
		}
	}
	if len(receivers) == 0 {
		return
	}
	per := gift / float64(len(receivers))
	for _, r := range receivers {
		s.vitMap.Get(r).Energy += per
	}
	attrs.Add(components.AttrStoredEnergy, -gift)
}

func (s *SpeciesSystem) plantReproduce(
	ctx *Context,
	e ecs.Entity,
	pos *components.Position,
	vit *components.Vitals,
	org *components.Organism,
	attrs *components.Attributes,
	reproChance, tempFactor, waterFactor float64,
) {
	pc := ctx.Cfg.Plants
	if s.plantCount >= pc.MaxPlants {
		return
	}
	threshold := pc.ReproThreshold
	spread := pc.SpreadDistance
	if org.Kind == traits.PlantSpore {
		// Spores trade a charge reserve for longer, easier dispersal.
		if attrs.Get(components.AttrSporeCharge, 0) < sporeChargeCost {
			return
		}
		threshold *= 0.8
		spread *= pc.SporeSpreadMult
	}
	if vit.Health < vit.MaxHealth*threshold {
		return
	}

	prob := reproChance * tempFactor * waterFactor * ctx.Env.GrowthMult * ctx.Tech.Mult(ModPlantGrowth)
	if boost := attrs.Get(components.AttrPollination, 0); boost > 0 {
		prob *= 1 + boost
	}
	if ctx.RNG.Float64() >= prob {
		return
	}

	angle := ctx.RNG.Float64() * 2 * math.Pi
	dist := spread * (0.5 + ctx.RNG.Float64()*0.5)
	childX := Wrap(pos.X+math.Cos(angle)*dist, ctx.Width)
	childY := Wrap(pos.Y+math.Sin(angle)*dist, ctx.Height)

	var child *genetics.Genome
	if g := s.genomeOf(e); g != nil {
		child = g.Clone()
		child.Mutate(ctx.Cfg.Genetics.MutationRate, ctx.RNG)
	}
	ctx.Stage(SpawnSpec{Kind: org.Kind, X: childX, Y: childY, Genome: child, ParentID: org.ID})
	s.plantCount++

	vit.Energy -= reproEnergyPlant
	if org.Kind == traits.PlantSpore {
		attrs.Add(components.AttrSporeCharge, -sporeChargeCost)
	}
	attrs.Set(components.AttrPollination, 0)
	ctx.Emitf(telemetry.Event{Type: telemetry.EventReproduction, EntityID: org.ID, Kind: org.Kind, Detail: "seed"})
}
