package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/mossline/biodome/components"
	"github.com/mossline/biodome/telemetry"
	"github.com/mossline/biodome/traits"
)

// ClusterPoint is a flat view of one entity for cluster detection.
type ClusterPoint struct {
	ID      uint32
	X, Y    float64
	IsPlant bool
}

// Cluster is a detected creature grouping with enough plant support to
// sustain a settlement.
type Cluster struct {
	CenterX, CenterY float64
	MemberIDs        []uint32
	PlantCount       int
}

// DetectClusters scans creature points for groupings of at least threshold
// members within radius of a seed point, sustained by more than threshold/2
// plants within plantMult*radius of the group centroid. Every creature
// examined for a candidate group is consumed by that attempt whether or not
// the group qualifies, so overlapping clusters cannot double-count members.
func DetectClusters(points []ClusterPoint, width, height, radius float64, threshold int, plantMult float64) []Cluster {
	visited := make([]bool, len(points))
	var clusters []Cluster

	for i, seed := range points {
		if visited[i] || seed.IsPlant {
			continue
		}
		visited[i] = true

		members := []int{i}
		for j, p := range points {
			if visited[j] || p.IsPlant {
				continue
			}
			if Distance(seed.X, seed.Y, p.X, p.Y, width, height) <= radius {
				visited[j] = true
				members = append(members, j)
			}
		}
		if len(members) < threshold {
			continue
		}

		var cx, cy float64
		ids := make([]uint32, 0, len(members))
		for _, m := range members {
			dx, dy := ToroidalDelta(seed.X, seed.Y, points[m].X, points[m].Y, width, height)
			cx += dx
			cy += dy
			ids = append(ids, points[m].ID)
		}
		cx = Wrap(seed.X+cx/float64(len(members)), width)
		cy = Wrap(seed.Y+cy/float64(len(members)), height)

		plantCount := 0
		plantReach := radius * plantMult
		for _, p := range points {
			if !p.IsPlant {
				continue
			}
			if Distance(cx, cy, p.X, p.Y, width, height) <= plantReach {
				plantCount++
			}
		}
		if plantCount <= threshold/2 {
			continue
		}

		clusters = append(clusters, Cluster{CenterX: cx, CenterY: cy, MemberIDs: ids, PlantCount: plantCount})
	}
	return clusters
}

// EvolutionSystem watches creature density and condenses qualifying
// clusters into tribe entities. Member creatures are absorbed: they die
// this tick and their count seeds the tribe's population.
type EvolutionSystem struct {
	filter  ecs.Filter3[components.Position, components.Vitals, components.Organism]
	ballMap *ecs.Map[components.Ballistic]
}

// NewEvolutionSystem creates the system over a world.
func NewEvolutionSystem(w *ecs.World) *EvolutionSystem {
	return &EvolutionSystem{
		filter:  *ecs.NewFilter3[components.Position, components.Vitals, components.Organism](w),
		ballMap: ecs.NewMap[components.Ballistic](w),
	}
}

// Update runs one detection pass and stages a tribe per detected cluster.
func (s *EvolutionSystem) Update(ctx *Context) {
	points := s.collect(ctx)
	clusters := DetectClusters(
		points,
		ctx.Width, ctx.Height,
		ctx.Cfg.Evolution.ClusterRadius,
		ctx.Cfg.Evolution.ClusterThreshold,
		ctx.Cfg.Evolution.PlantRadiusMult,
	)
	if len(clusters) == 0 {
		return
	}

	for _, c := range clusters {
		s.absorb(ctx, c.MemberIDs)
		ctx.Stage(SpawnSpec{
			Kind:       traits.Tribe,
			X:          c.CenterX,
			Y:          c.CenterY,
			Population: int32(len(c.MemberIDs)),
		})
		ctx.Emitf(telemetry.Event{
			Type:   telemetry.EventTribeEvolved,
			Kind:   traits.Tribe,
			Amount: float64(len(c.MemberIDs)),
			Detail: "cluster condensed",
		})
	}
}

// collect flattens live surface creatures and plants into cluster points.
func (s *EvolutionSystem) collect(ctx *Context) []ClusterPoint {
	var points []ClusterPoint
	query := s.filter.Query()
	for query.Next() {
		entity := query.Entity()
		pos, vit, org := query.Get()
		if !vit.Alive {
			continue
		}
		if s.ballMap.Has(entity) && s.ballMap.Get(entity).Active {
			continue
		}
		switch {
		case traits.IsCreature(org.Kind):
			points = append(points, ClusterPoint{ID: org.ID, X: pos.X, Y: pos.Y})
		case traits.IsPlant(org.Kind):
			points = append(points, ClusterPoint{ID: org.ID, X: pos.X, Y: pos.Y, IsPlant: true})
		}
	}
	return points
}

// absorb retires the creatures that condensed into a tribe.
func (s *EvolutionSystem) absorb(ctx *Context, ids []uint32) {
	query := s.filter.Query()
	for query.Next() {
		_, vit, org := query.Get()
		for _, id := range ids {
			if org.ID == id {
				vit.Health = 0
				vit.Alive = false
				ctx.Emitf(telemetry.Event{Type: telemetry.EventDeath, EntityID: org.ID, Kind: org.Kind, Detail: "joined tribe"})
				break
			}
		}
	}
}
