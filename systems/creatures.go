package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/mossline/biodome/components"
	"github.com/mossline/biodome/environment"
	"github.com/mossline/biodome/genetics"
	"github.com/mossline/biodome/telemetry"
	"github.com/mossline/biodome/traits"
)

const (
	aquaticDryPenalty = 0.35 // extra metabolic drain off wet ground
	symbiontTrickle   = 0.1  // energy per tick for a linked pair
	pollinationStep   = 0.1
	burrowDrainMult   = 0.5
)

func (s *SpeciesSystem) updateCreature(
	ctx *Context,
	e ecs.Entity,
	pos *components.Position,
	vit *components.Vitals,
	body *components.Body,
	org *components.Organism,
	attrs *components.Attributes,
) {
	ph := s.phenotype(e)
	cc := ctx.Cfg.Creatures

	temp := ctx.TempAt(pos.X, pos.Y)
	tempStress := 1 + clamp01(math.Abs(temp-ph.TempTolerance)/40)*0.5

	drain := cc.BaseEnergyCost * ph.Metabolism * ctx.Env.DrainMult * tempStress *
		ctx.Tech.Mult(ModCreatureEnergy)

	if org.Kind == traits.CreatureAquatic {
		if ctx.Terrain.MoistureAt(pos.X, pos.Y) < 0.4 {
			drain += cc.BaseEnergyCost * aquaticDryPenalty
		}
	}

	if org.Kind == traits.CreatureBurrower {
		s.updateBurrow(ctx, attrs)
		if attrs.Get(components.AttrBurrowDepth, 0) > 0 {
			// Sheltered underground: reduced drain, no surface activity.
			vit.Energy -= drain * burrowDrainMult
			s.applyStarvation(ctx, vit, org, cc.StarveDamage)
			return
		}
	}

	vit.Energy -= drain
	s.applyStarvation(ctx, vit, org, cc.StarveDamage)
	if !vit.Alive {
		return
	}

	if org.Biome != traits.BiomeAny {
		if ctx.Terrain.BiomeAt(pos.X, pos.Y, temp) != org.Biome {
			vit.Damage(cc.BiomeMismatchCost)
			if !vit.Alive {
				s.emitDeath(ctx, org, "biome")
				return
			}
		}
	}

	reach := math.Max(cc.FleeRadius, cc.SeekRadius)
	reach = math.Max(reach, ctx.Cfg.Predation.HuntRadius)
	reach = math.Max(reach, ctx.Cfg.Genetics.MateRadius)
	neighbors := ctx.Grid.QueryRadiusInto(s.scratch[:0], pos.X, pos.Y, reach, e, s.posMap)
	s.scratch = neighbors

	soc := s.socialMap.Get(e)

	if org.Kind == traits.CreatureSymbiont && soc != nil {
		s.tendPartner(ctx, e, pos, vit, soc, neighbors)
	}

	var moveX, moveY float64

	// Flight takes precedence over everything else this tick.
	if dx, dy, fleeing := s.fleeVector(ctx, org, neighbors); fleeing {
		moveX, moveY = dx, dy
	} else {
		fx, fy := s.feed(ctx, e, pos, vit, body, org, soc, ph, neighbors)
		moveX += fx
		moveY += fy
		if soc != nil {
			ix, iy := s.social.Influence(ctx, e, pos, org, soc, neighbors)
			moveX += ix
			moveY += iy
		}
		// Small wander keeps idle creatures drifting.
		moveX += (ctx.RNG.Float64()*2 - 1) * ctx.Cfg.Social.WanderSpeed
		moveY += (ctx.RNG.Float64()*2 - 1) * ctx.Cfg.Social.WanderSpeed
	}

	moveMult := ctx.Env.MoveMult
	if org.Kind == traits.CreatureFlier {
		// Fliers ride above surface conditions.
		moveMult = math.Max(moveMult, 0.9)
	}
	speed := body.Speed * ph.SpeedMult * moveMult
	dirX, dirY := normalize(moveX, moveY)
	pos.X = Wrap(pos.X+dirX*speed, ctx.Width)
	pos.Y = Wrap(pos.Y+dirY*speed, ctx.Height)

	if org.Kind == traits.CreatureFlier {
		s.pollinate(body, pos, neighbors)
	}

	s.creatureReproduce(ctx, e, pos, vit, org, soc, ph, neighbors)
}

// applyStarvation converts an exhausted energy reserve into health loss.
// Energy is pinned at zero so the deficit cannot compound.
func (s *SpeciesSystem) applyStarvation(ctx *Context, vit *components.Vitals, org *components.Organism, damage float64) {
	if vit.Energy >= 0 {
		return
	}
	vit.Energy = 0
	vit.Damage(damage)
	if !vit.Alive {
		s.emitDeath(ctx, org, "starvation")
	}
}

func (s *SpeciesSystem) emitDeath(ctx *Context, org *components.Organism, cause string) {
	ctx.Emitf(telemetry.Event{Type: telemetry.EventDeath, EntityID: org.ID, Kind: org.Kind, Detail: cause})
}

// updateBurrow digs in during harsh weather and surfaces when it clears.
func (s *SpeciesSystem) updateBurrow(ctx *Context, attrs *components.Attributes) {
	harsh := ctx.Env.Weather == environment.Stormy || ctx.Env.Weather == environment.Snowy
	if harsh {
		attrs.Set(components.AttrBurrowDepth, 1)
	} else {
		attrs.Set(components.AttrBurrowDepth, 0)
	}
}

// tendPartner maintains a symbiotic pair. Partners trade a small energy
// trickle while close; a dead or vanished partner clears the link.
func (s *SpeciesSystem) tendPartner(
	ctx *Context,
	e ecs.Entity,
	pos *components.Position,
	vit *components.Vitals,
	soc *components.Social,
	neighbors []Neighbor,
) {
	if soc.PartnerID != 0 {
		pe, ok := ctx.Lookup(soc.PartnerID)
		if !ok {
			soc.PartnerID = 0
			return
		}
		pvit := s.vitMap.Get(pe)
		if pvit == nil || !pvit.Alive {
			soc.PartnerID = 0
			return
		}
		ppos := s.posMap.Get(pe)
		if Distance(pos.X, pos.Y, ppos.X, ppos.Y, ctx.Width, ctx.Height) <= ctx.Cfg.Social.GroupRadius {
			vit.Energy += symbiontTrickle
			pvit.Energy += symbiontTrickle
		}
		return
	}

	// Unpaired: bond with the nearest free symbiont in range.
	for _, n := range neighbors {
		norg := s.orgMap.Get(n.E)
		nvit := s.vitMap.Get(n.E)
		if norg == nil || nvit == nil || !nvit.Alive || norg.Kind != traits.CreatureSymbiont {
			continue
		}
		if !s.socialMap.Has(n.E) {
			continue
		}
		nsoc := s.socialMap.Get(n.E)
		if nsoc.PartnerID != 0 {
			continue
		}
		myOrg := s.orgMap.Get(e)
		soc.PartnerID = norg.ID
		nsoc.PartnerID = myOrg.ID
		return
	}
}

// fleeVector returns a unit-scale escape direction away from the nearest
// entity that preys on this kind, when one is inside the flee radius.
func (s *SpeciesSystem) fleeVector(ctx *Context, org *components.Organism, neighbors []Neighbor) (float64, float64, bool) {
	radius := ctx.Cfg.Creatures.FleeRadius
	bestSq := radius * radius
	var tx, ty float64
	found := false
	for _, n := range neighbors {
		if n.DistSq > bestSq {
			continue
		}
		norg := s.orgMap.Get(n.E)
		nvit := s.vitMap.Get(n.E)
		if norg == nil || nvit == nil || !nvit.Alive {
			continue
		}
		if !PreyEligible(norg.Kind, org.Kind) {
			continue
		}
		bestSq = n.DistSq
		tx, ty = n.DX, n.DY
		found = true
	}
	if !found {
		return 0, 0, false
	}
	dx, dy := normalize(-tx, -ty)
	return dx, dy, true
}

// feed steers toward food and consumes on contact. Herbivores graze
// plants; predators and carnivores hunt eligible prey with a contested
// bite. Returns the steering contribution.
func (s *SpeciesSystem) feed(
	ctx *Context,
	e ecs.Entity,
	pos *components.Position,
	vit *components.Vitals,
	body *components.Body,
	org *components.Organism,
	soc *components.Social,
	ph genetics.Phenotype,
	neighbors []Neighbor,
) (float64, float64) {
	if org.HasTag(traits.Carnivore) {
		return s.hunt(ctx, e, pos, vit, body, org, soc, ph, neighbors)
	}
	if org.HasTag(traits.Herbivore) {
		return s.graze(ctx, e, pos, vit, body, org, soc, neighbors)
	}
	return 0, 0
}

func (s *SpeciesSystem) graze(
	ctx *Context,
	e ecs.Entity,
	pos *components.Position,
	vit *components.Vitals,
	body *components.Body,
	org *components.Organism,
	soc *components.Social,
	neighbors []Neighbor,
) (float64, float64) {
	cc := ctx.Cfg.Creatures
	target, tx, ty, ok := s.resolveTarget(ctx, soc, pos, neighbors, cc.SeekRadius, func(k traits.Kind) bool {
		return traits.IsPlant(k)
	})
	if !ok {
		return 0, 0
	}

	tvit := s.vitMap.Get(target)
	tbody := s.bodyMap.Get(target)
	if math.Sqrt(tx*tx+ty*ty) <= body.Radius+tbody.Radius {
		bonus := 0.0
		if soc != nil {
			bonus = s.social.GroupFeedBonus(ctx, org, soc, neighbors)
		}
		bite := cc.FeedRate * (1 + bonus)
		if tvit.Health < bite {
			bite = tvit.Health
		}
		tvit.Damage(bite)
		vit.Energy += bite * cc.FeedEfficiency * (1 + bonus)
		vit.Heal(bite * 0.1)
		if !tvit.Alive {
			torg := s.orgMap.Get(target)
			s.emitDeath(ctx, torg, "grazed")
			if soc != nil {
				soc.TargetID = 0
			}
		}
		return 0, 0
	}
	return normalize(tx, ty)
}

func (s *SpeciesSystem) hunt(
	ctx *Context,
	e ecs.Entity,
	pos *components.Position,
	vit *components.Vitals,
	body *components.Body,
	org *components.Organism,
	soc *components.Social,
	ph genetics.Phenotype,
	neighbors []Neighbor,
) (float64, float64) {
	pcfg := ctx.Cfg.Predation
	target, tx, ty, ok := s.resolveTarget(ctx, soc, pos, neighbors, pcfg.HuntRadius, func(k traits.Kind) bool {
		return PreyEligible(org.Kind, k)
	})
	if !ok {
		return 0, 0
	}

	tvit := s.vitMap.Get(target)
	tbody := s.bodyMap.Get(target)
	torg := s.orgMap.Get(target)
	if math.Sqrt(tx*tx+ty*ty) <= body.Radius+tbody.Radius {
		predScore := HuntScore(body, ph)
		preyScore := HuntScore(tbody, s.phenotype(target))
		p := SuccessProbability(predScore, preyScore, Jitter(ctx.RNG, pcfg), pcfg)
		res := ResolveBite(vit, tvit, ctx.RNG.Float64() < p, pcfg)
		evType := telemetry.EventPredationMiss
		if res.Hit {
			evType = telemetry.EventPredationHit
		}
		ctx.Emitf(telemetry.Event{
			Type:     evType,
			EntityID: org.ID,
			TargetID: torg.ID,
			Kind:     org.Kind,
			Amount:   res.Transfer,
		})
		if res.Killed {
			s.emitDeath(ctx, torg, "hunted")
			if soc != nil {
				soc.TargetID = 0
			}
		}
		return 0, 0
	}
	return normalize(tx, ty)
}

// resolveTarget re-validates a remembered target id, falling back to the
// nearest eligible neighbor in range. A vanished target is dropped and
// re-acquired, never an error.
func (s *SpeciesSystem) resolveTarget(
	ctx *Context,
	soc *components.Social,
	pos *components.Position,
	neighbors []Neighbor,
	radius float64,
	eligible func(traits.Kind) bool,
) (ecs.Entity, float64, float64, bool) {
	if soc != nil && soc.TargetID != 0 {
		te, ok := ctx.Lookup(soc.TargetID)
		if ok {
			tvit := s.vitMap.Get(te)
			torg := s.orgMap.Get(te)
			if tvit != nil && tvit.Alive && torg != nil && eligible(torg.Kind) {
				tpos := s.posMap.Get(te)
				dx, dy := ToroidalDelta(pos.X, pos.Y, tpos.X, tpos.Y, ctx.Width, ctx.Height)
				if dx*dx+dy*dy <= radius*radius {
					return te, dx, dy, true
				}
			}
		}
		soc.TargetID = 0
	}

	bestSq := radius * radius
	var best ecs.Entity
	var bx, by float64
	found := false
	for _, n := range neighbors {
		if n.DistSq > bestSq {
			continue
		}
		norg := s.orgMap.Get(n.E)
		nvit := s.vitMap.Get(n.E)
		if norg == nil || nvit == nil || !nvit.Alive || !eligible(norg.Kind) {
			continue
		}
		bestSq = n.DistSq
		best = n.E
		bx, by = n.DX, n.DY
		found = true
	}
	if !found {
		return ecs.Entity{}, 0, 0, false
	}
	if soc != nil {
		soc.TargetID = s.orgMap.Get(best).ID
	}
	return best, bx, by, true
}

// pollinate marks plants the flier brushes past, boosting their next
// reproduction roll.
func (s *SpeciesSystem) pollinate(body *components.Body, pos *components.Position, neighbors []Neighbor) {
	for _, n := range neighbors {
		norg := s.orgMap.Get(n.E)
		if norg == nil || !traits.IsPlant(norg.Kind) {
			continue
		}
		nbody := s.bodyMap.Get(n.E)
		reach := body.Radius + nbody.Radius
		if n.DistSq > reach*reach {
			continue
		}
		nattrs := s.attrMap.Get(n.E)
		cur := nattrs.Get(components.AttrPollination, 0)
		if cur < pollinationCap {
			nattrs.Set(components.AttrPollination, math.Min(cur+pollinationStep, pollinationCap))
		}
	}
}

func (s *SpeciesSystem) creatureReproduce(
	ctx *Context,
	e ecs.Entity,
	pos *components.Position,
	vit *components.Vitals,
	org *components.Organism,
	soc *components.Social,
	ph genetics.Phenotype,
	neighbors []Neighbor,
) {
	cc := ctx.Cfg.Creatures
	if s.creatureCount >= cc.MaxCreatures && org.Kind != traits.Predator {
		return
	}
	if vit.Health < vit.MaxHealth*cc.ReproHealthRatio || vit.Energy < cc.ReproEnergy {
		return
	}
	if ctx.RNG.Float64() >= ph.ReproChance {
		return
	}

	parent := s.genomeOf(e)
	var child *genetics.Genome

	mateSq := ctx.Cfg.Genetics.MateRadius * ctx.Cfg.Genetics.MateRadius
	var candidates []genetics.Candidate
	for _, n := range neighbors {
		if n.DistSq > mateSq {
			continue
		}
		norg := s.orgMap.Get(n.E)
		nvit := s.vitMap.Get(n.E)
		if norg == nil || nvit == nil || !nvit.Alive || norg.Kind != org.Kind {
			continue
		}
		if g := s.genomeOf(n.E); g != nil {
			candidates = append(candidates, genetics.Candidate{ID: norg.ID, Genome: g})
		}
	}
	if parent != nil {
		if mate, ok := parent.BestMate(candidates); ok {
			child = parent.Combine(mate.Genome, ctx.Cfg.Genetics.MutationRate, ctx.RNG)
		} else {
			child = parent.Clone()
			child.Mutate(ctx.Cfg.Genetics.MutationRate, ctx.RNG)
		}
	}

	offX := Wrap(pos.X+(ctx.RNG.Float64()*2-1)*20, ctx.Width)
	offY := Wrap(pos.Y+(ctx.RNG.Float64()*2-1)*20, ctx.Height)
	ctx.Stage(SpawnSpec{Kind: org.Kind, X: offX, Y: offY, Genome: child, ParentID: org.ID})
	s.creatureCount++

	vit.Energy -= cc.ReproEnergyCost
	ctx.Emitf(telemetry.Event{Type: telemetry.EventReproduction, EntityID: org.ID, Kind: org.Kind, Detail: "birth"})
}
