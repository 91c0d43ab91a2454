package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/mossline/biodome/components"
	"github.com/mossline/biodome/traits"
)

// SocialSystem computes per-entity movement-influence vectors from the
// behavior variant assigned at creation. Influence is additive on top of
// wander and target seeking; the creature update resolves fleeing first
// and skips influence entirely while a flee is active.
type SocialSystem struct {
	posMap    *ecs.Map1[components.Position]
	orgMap    *ecs.Map1[components.Organism]
	socialMap *ecs.Map[components.Social]
}

// NewSocialSystem creates the resolver.
func NewSocialSystem(w *ecs.World) *SocialSystem {
	return &SocialSystem{
		posMap:    ecs.NewMap1[components.Position](w),
		orgMap:    ecs.NewMap1[components.Organism](w),
		socialMap: ecs.NewMap[components.Social](w),
	}
}

// Influence returns the additive (dx, dy) steering vector for one entity
// given its current neighborhood.
func (s *SocialSystem) Influence(ctx *Context, self ecs.Entity, pos *components.Position, org *components.Organism, soc *components.Social, neighbors []Neighbor) (float64, float64) {
	cfg := ctx.Cfg.Social
	var ix, iy float64

	switch soc.Behavior {
	case traits.Flocking:
		// Cohesion toward the centroid of same-kind neighbors plus mild
		// separation from the closest ones.
		var cx, cy float64
		n := 0
		for _, nb := range neighbors {
			no := s.orgMap.Get(nb.E)
			if no == nil || no.Kind != org.Kind {
				continue
			}
			cx += nb.DX
			cy += nb.DY
			n++
			if nb.DistSq < cfg.PersonalRadius*cfg.PersonalRadius/4 && nb.DistSq > 0 {
				d := math.Sqrt(nb.DistSq)
				ix -= nb.DX / d
				iy -= nb.DY / d
			}
		}
		if n > 0 {
			ux, uy := normalize(cx/float64(n), cy/float64(n))
			ix += ux
			iy += uy
		}

	case traits.Herding:
		// Loose cohesion: drift toward the herd center only when drifting
		// away from it.
		var cx, cy float64
		n := 0
		for _, nb := range neighbors {
			no := s.orgMap.Get(nb.E)
			if no == nil || no.Kind != org.Kind {
				continue
			}
			cx += nb.DX
			cy += nb.DY
			n++
		}
		if n > 0 {
			cx /= float64(n)
			cy /= float64(n)
			if cx*cx+cy*cy > cfg.GroupRadius*cfg.GroupRadius/4 {
				ux, uy := normalize(cx, cy)
				ix += ux
				iy += uy
			}
		}

	case traits.Territorial:
		// Repel same-kind neighbors inside a personal radius scaled by
		// aggressiveness.
		radius := cfg.PersonalRadius * (1 + soc.Aggressiveness)
		radiusSq := radius * radius
		for _, nb := range neighbors {
			no := s.orgMap.Get(nb.E)
			if no == nil || no.Kind != org.Kind {
				continue
			}
			if nb.DistSq < radiusSq && nb.DistSq > 0 {
				d := math.Sqrt(nb.DistSq)
				push := (radius - d) / radius
				ix -= nb.DX / d * push
				iy -= nb.DY / d * push
			}
		}

	case traits.Cooperative:
		// Share the discovered food target with group members that have
		// none, and drift toward groupmates for the feeding bonus.
		var cx, cy float64
		n := 0
		for _, nb := range neighbors {
			no := s.orgMap.Get(nb.E)
			if no == nil || no.Kind != org.Kind {
				continue
			}
			if ns := s.socialMap.Get(nb.E); ns != nil {
				if soc.TargetID != 0 && ns.TargetID == 0 {
					ns.TargetID = soc.TargetID
				}
				if ns.GroupID == 0 {
					ns.GroupID = soc.GroupID
				}
			}
			cx += nb.DX
			cy += nb.DY
			n++
		}
		if n > 0 {
			ux, uy := normalize(cx/float64(n), cy/float64(n))
			ix += ux * 0.5
			iy += uy * 0.5
		}

	case traits.Solitary:
		// Keep distance from everyone of the same kind.
		for _, nb := range neighbors {
			no := s.orgMap.Get(nb.E)
			if no == nil || no.Kind != org.Kind {
				continue
			}
			if nb.DistSq > 0 {
				d := math.Sqrt(nb.DistSq)
				ix -= nb.DX / d * 0.5
				iy -= nb.DY / d * 0.5
			}
		}
	}

	// Leader pull applies on top of any behavior once the follower drifts
	// beyond the follow distance.
	if soc.LeaderID != 0 {
		if leader, ok := ctx.Lookup(soc.LeaderID); ok {
			if lp := s.posMap.Get(leader); lp != nil {
				dx, dy := ToroidalDelta(pos.X, pos.Y, lp.X, lp.Y, ctx.Width, ctx.Height)
				if dx*dx+dy*dy > cfg.FollowDistance*cfg.FollowDistance {
					ux, uy := normalize(dx, dy)
					ix += ux
					iy += uy
				}
			}
		} else {
			// Leader vanished; the reference is soft, so just drop it.
			soc.LeaderID = 0
		}
	}

	return ix * cfg.InfluenceStrength, iy * cfg.InfluenceStrength
}

// GroupFeedBonus returns the cooperative feeding-efficiency bonus for an
// entity feeding alongside same-group members: the configured bonus when at
// least one groupmate is adjacent, zero otherwise.
func (s *SocialSystem) GroupFeedBonus(ctx *Context, org *components.Organism, soc *components.Social, neighbors []Neighbor) float64 {
	if soc.Behavior != traits.Cooperative || soc.GroupID == 0 {
		return 0
	}
	cfg := ctx.Cfg.Social
	for _, nb := range neighbors {
		no := s.orgMap.Get(nb.E)
		if no == nil || no.Kind != org.Kind {
			continue
		}
		ns := s.socialMap.Get(nb.E)
		if ns != nil && ns.GroupID == soc.GroupID && nb.DistSq < cfg.PersonalRadius*cfg.PersonalRadius {
			return cfg.CoopFeedBonus
		}
	}
	return 0
}
