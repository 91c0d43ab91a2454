package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/mossline/biodome/components"
	"github.com/mossline/biodome/telemetry"
	"github.com/mossline/biodome/traits"
)

const (
	descentStep  = 0.05 // fall acceleration per tick per unit gravity
	impactRadius = 80.0
	impactDamage = 20.0
	earthGravity = 9.8
)

// BallisticSystem advances orbit-dropped entities toward the surface.
// A falling entity takes part in no surface interaction until it lands.
type BallisticSystem struct {
	filter  ecs.Filter3[components.Position, components.Vitals, components.Organism]
	ballMap *ecs.Map[components.Ballistic]
	posMap  *ecs.Map1[components.Position]
	vitMap  *ecs.Map1[components.Vitals]
	orgMap  *ecs.Map1[components.Organism]
}

// NewBallisticSystem creates the system over a world.
func NewBallisticSystem(w *ecs.World) *BallisticSystem {
	return &BallisticSystem{
		filter:  *ecs.NewFilter3[components.Position, components.Vitals, components.Organism](w),
		ballMap: ecs.NewMap[components.Ballistic](w),
		posMap:  ecs.NewMap1[components.Position](w),
		vitMap:  ecs.NewMap1[components.Vitals](w),
		orgMap:  ecs.NewMap1[components.Organism](w),
	}
}

// Update advances every active descent by one tick and resolves landings.
func (s *BallisticSystem) Update(ctx *Context) {
	query := s.filter.Query()
	for query.Next() {
		entity := query.Entity()
		if !s.ballMap.Has(entity) {
			continue
		}
		b := s.ballMap.Get(entity)
		if !b.Active {
			continue
		}
		pos, vit, org := query.Get()
		if !vit.Alive {
			b.Active = false
			continue
		}

		b.Descent += ctx.Cond.Gravity * descentStep
		b.Altitude -= b.Descent
		if b.Altitude > 0 {
			continue
		}

		b.Altitude = 0
		b.Active = false
		s.land(ctx, entity, pos, org)
	}
}

// land resolves surface arrival. Meteors crater: they damage everything
// nearby in proportion to gravity and settle as a mineral deposit.
func (s *BallisticSystem) land(ctx *Context, e ecs.Entity, pos *components.Position, org *components.Organism) {
	if org.Kind != traits.Meteor {
		return
	}

	ctx.Emitf(telemetry.Event{
		Type:     telemetry.EventMeteorImpact,
		EntityID: org.ID,
		Kind:     traits.Meteor,
		Amount:   impactDamage,
	})

	scale := ctx.Cond.Gravity / earthGravity
	var hits []Neighbor
	hits = ctx.Grid.QueryRadiusInto(hits, pos.X, pos.Y, impactRadius, e, s.posMap)
	for _, n := range hits {
		nvit := s.vitMap.Get(n.E)
		if nvit == nil || !nvit.Alive {
			continue
		}
		falloff := 1 - math.Sqrt(n.DistSq)/impactRadius
		if falloff <= 0 {
			continue
		}
		nvit.Damage(impactDamage * scale * falloff)
		if !nvit.Alive {
			norg := s.orgMap.Get(n.E)
			ctx.Emitf(telemetry.Event{Type: telemetry.EventDeath, EntityID: norg.ID, Kind: norg.Kind, Detail: "impact"})
		}
	}

	// The spent meteor becomes a harvestable deposit.
	org.Kind = traits.Rock
	org.AddTag(traits.MineralBearing)
}
