package systems

import (
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/mossline/biodome/components"
	"github.com/mossline/biodome/config"
	"github.com/mossline/biodome/environment"
	"github.com/mossline/biodome/traits"
)

func socialCfg() config.SocialConfig {
	return config.SocialConfig{
		PersonalRadius:    30,
		FollowDistance:    40,
		GroupRadius:       60,
		CoopFeedBonus:     0.25,
		InfluenceStrength: 1,
	}
}

// socialScene is a small hand-placed world for exercising influence
// vectors against known neighborhoods.
type socialScene struct {
	social  *SocialSystem
	species *SpeciesSystem
	mapper  *ecs.Map5[
		components.Position,
		components.Vitals,
		components.Body,
		components.Organism,
		components.Attributes,
	]
	posMap    *ecs.Map1[components.Position]
	orgMap    *ecs.Map1[components.Organism]
	socialMap *ecs.Map[components.Social]
	ctx       *Context
	byID      map[uint32]ecs.Entity
	nextID    uint32
}

func newSocialScene() *socialScene {
	w := ecs.NewWorld()
	sc := &socialScene{
		social: NewSocialSystem(w),
		mapper: ecs.NewMap5[
			components.Position,
			components.Vitals,
			components.Body,
			components.Organism,
			components.Attributes,
		](w),
		posMap:    ecs.NewMap1[components.Position](w),
		orgMap:    ecs.NewMap1[components.Organism](w),
		socialMap: ecs.NewMap[components.Social](w),
		byID:      make(map[uint32]ecs.Entity),
	}
	sc.species = NewSpeciesSystem(w, sc.social)
	sc.ctx = &Context{
		Cfg:    &config.Config{Social: socialCfg()},
		Width:  testWidth,
		Height: testHeight,
		Lookup: func(id uint32) (ecs.Entity, bool) {
			e, ok := sc.byID[id]
			return e, ok
		},
	}
	return sc
}

func (sc *socialScene) add(kind traits.Kind, behavior traits.Behavior, x, y float64) ecs.Entity {
	sc.nextID++
	pos := components.Position{X: x, Y: y}
	vit := components.Vitals{Health: 50, MaxHealth: 100, Energy: 50, Alive: true}
	body := components.Body{Size: 1, Speed: 1, Radius: 5}
	org := components.Organism{
		ID:    sc.nextID,
		Kind:  kind,
		Tags:  traits.Defaults(kind).Tags,
		Biome: traits.BiomeAny,
	}
	attrs := components.Attributes{}
	e := sc.mapper.NewEntity(&pos, &vit, &body, &org, &attrs)
	sc.socialMap.Add(e, &components.Social{Behavior: behavior})
	sc.byID[sc.nextID] = e
	return e
}

// neighborsOf builds the neighbor list a grid query would return for self.
func (sc *socialScene) neighborsOf(self ecs.Entity, others ...ecs.Entity) []Neighbor {
	p := sc.posMap.Get(self)
	var nbs []Neighbor
	for _, o := range others {
		op := sc.posMap.Get(o)
		dx, dy := ToroidalDelta(p.X, p.Y, op.X, op.Y, testWidth, testHeight)
		nbs = append(nbs, Neighbor{E: o, DX: dx, DY: dy, DistSq: dx*dx + dy*dy})
	}
	return nbs
}

func (sc *socialScene) influence(self ecs.Entity, others ...ecs.Entity) (float64, float64) {
	pos := sc.posMap.Get(self)
	org := sc.orgMap.Get(self)
	soc := sc.socialMap.Get(self)
	return sc.social.Influence(sc.ctx, self, pos, org, soc, sc.neighborsOf(self, others...))
}

// Territorial radius grows with aggressiveness: a rival 45 units out is
// ignored at aggressiveness 0 (radius 30) and repelled at 1.0 (radius 60).
func TestTerritorialRepulsionScalesWithAggression(t *testing.T) {
	cases := []struct {
		name     string
		aggr     float64
		wantPush bool
	}{
		{"calm ignores rival", 0, false},
		{"aggressive repels rival", 1, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sc := newSocialScene()
			self := sc.add(traits.Creature, traits.Territorial, 500, 500)
			rival := sc.add(traits.Creature, traits.Territorial, 545, 500)
			sc.socialMap.Get(self).Aggressiveness = c.aggr

			ix, iy := sc.influence(self, rival)
			if c.wantPush && ix >= 0 {
				t.Errorf("influence x = %v, want push away from rival at +x", ix)
			}
			if !c.wantPush && (ix != 0 || iy != 0) {
				t.Errorf("influence = (%v, %v), want none outside radius", ix, iy)
			}
		})
	}
}

func TestTerritorialPushStrongerWhenCloser(t *testing.T) {
	sc := newSocialScene()
	self := sc.add(traits.Creature, traits.Territorial, 500, 500)
	sc.socialMap.Get(self).Aggressiveness = 1
	near := sc.add(traits.Creature, traits.Territorial, 515, 500)
	far := sc.add(traits.Creature, traits.Territorial, 550, 500)

	nx, _ := sc.influence(self, near)
	fx, _ := sc.influence(self, far)
	if nx >= fx {
		t.Errorf("push at 15 units (%v) not stronger than at 50 units (%v)", nx, fx)
	}
}

func TestTerritorialIgnoresOtherKinds(t *testing.T) {
	sc := newSocialScene()
	self := sc.add(traits.Creature, traits.Territorial, 500, 500)
	sc.socialMap.Get(self).Aggressiveness = 1
	stranger := sc.add(traits.Predator, traits.Territorial, 515, 500)

	if ix, iy := sc.influence(self, stranger); ix != 0 || iy != 0 {
		t.Errorf("influence = (%v, %v) from a different-kind neighbor, want none", ix, iy)
	}
}

// A cooperative with a food target hands it to targetless groupmates and
// drifts toward them for the feeding bonus.
func TestCooperativeSharesTargetAndGroup(t *testing.T) {
	sc := newSocialScene()
	self := sc.add(traits.Creature, traits.Cooperative, 500, 500)
	mate := sc.add(traits.Creature, traits.Cooperative, 520, 500)
	soc := sc.socialMap.Get(self)
	soc.TargetID = 42
	soc.GroupID = 9

	ix, _ := sc.influence(self, mate)

	ms := sc.socialMap.Get(mate)
	if ms.TargetID != 42 {
		t.Errorf("mate target = %d, want shared target 42", ms.TargetID)
	}
	if ms.GroupID != 9 {
		t.Errorf("mate group = %d, want recruited into group 9", ms.GroupID)
	}
	if ix <= 0 {
		t.Errorf("influence x = %v, want drift toward groupmate at +x", ix)
	}
}

func TestGroupFeedBonus(t *testing.T) {
	cases := []struct {
		name      string
		behavior  traits.Behavior
		selfGroup uint32
		mateGroup uint32
		mateX     float64
		want      float64
	}{
		{"adjacent groupmate", traits.Cooperative, 9, 9, 515, 0.25},
		{"different group", traits.Cooperative, 9, 8, 515, 0},
		{"groupmate too far", traits.Cooperative, 9, 9, 560, 0},
		{"ungrouped", traits.Cooperative, 0, 0, 515, 0},
		{"non-cooperative", traits.Flocking, 9, 9, 515, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sc := newSocialScene()
			self := sc.add(traits.Creature, c.behavior, 500, 500)
			mate := sc.add(traits.Creature, c.behavior, c.mateX, 500)
			sc.socialMap.Get(self).GroupID = c.selfGroup
			sc.socialMap.Get(mate).GroupID = c.mateGroup

			org := sc.orgMap.Get(self)
			soc := sc.socialMap.Get(self)
			got := sc.social.GroupFeedBonus(sc.ctx, org, soc, sc.neighborsOf(self, mate))
			if got != c.want {
				t.Errorf("GroupFeedBonus = %v, want %v", got, c.want)
			}
		})
	}
}

// Leader pull engages only beyond the follow distance.
func TestLeaderFollowDistance(t *testing.T) {
	cases := []struct {
		name     string
		leaderX  float64
		wantPull bool
	}{
		{"beyond follow distance", 600, true},
		{"inside follow distance", 520, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sc := newSocialScene()
			self := sc.add(traits.Creature, traits.Herding, 500, 500)
			leader := sc.add(traits.Creature, traits.Herding, c.leaderX, 500)
			sc.socialMap.Get(self).LeaderID = sc.orgMap.Get(leader).ID

			ix, iy := sc.influence(self)
			if c.wantPull && ix <= 0 {
				t.Errorf("influence x = %v, want pull toward leader at +x", ix)
			}
			if !c.wantPull && (ix != 0 || iy != 0) {
				t.Errorf("influence = (%v, %v), want none inside follow distance", ix, iy)
			}
		})
	}
}

func TestVanishedLeaderDropsReference(t *testing.T) {
	sc := newSocialScene()
	self := sc.add(traits.Creature, traits.Herding, 500, 500)
	soc := sc.socialMap.Get(self)
	soc.LeaderID = 999

	ix, iy := sc.influence(self)
	if ix != 0 || iy != 0 {
		t.Errorf("influence = (%v, %v) from a vanished leader, want none", ix, iy)
	}
	if soc.LeaderID != 0 {
		t.Errorf("leader reference = %d, want dropped", soc.LeaderID)
	}
}

func TestFlockingCohesion(t *testing.T) {
	sc := newSocialScene()
	self := sc.add(traits.Creature, traits.Flocking, 500, 500)
	a := sc.add(traits.Creature, traits.Flocking, 540, 490)
	b := sc.add(traits.Creature, traits.Flocking, 545, 500)
	c := sc.add(traits.Creature, traits.Flocking, 540, 510)

	if ix, _ := sc.influence(self, a, b, c); ix <= 0 {
		t.Errorf("influence x = %v, want cohesion toward the flock at +x", ix)
	}
}

func TestSolitaryKeepsDistance(t *testing.T) {
	sc := newSocialScene()
	self := sc.add(traits.Creature, traits.Solitary, 500, 500)
	other := sc.add(traits.Creature, traits.Solitary, 530, 500)

	if ix, _ := sc.influence(self, other); ix >= 0 {
		t.Errorf("influence x = %v, want drift away from same kind at +x", ix)
	}
}

// A creature flanked by a predator retreats even with food pulling the
// other way; flight preempts feeding and social steering for the tick.
func TestFleeOverridesOtherSteering(t *testing.T) {
	sc := newSocialScene()
	cfg := config.Default()
	cfg.Social.WanderSpeed = 0
	sc.ctx.Cfg = cfg
	sc.ctx.Terrain = environment.NewTerrain(1)
	sc.ctx.Env = environment.Modifiers{EffectiveTemp: 20, GrowthMult: 1, DrainMult: 1, MoveMult: 1}
	sc.ctx.RNG = rand.New(rand.NewSource(1))
	sc.ctx.Stage = func(SpawnSpec) {}

	self := sc.add(traits.Creature, traits.Solitary, 500, 500)
	sc.add(traits.Predator, traits.Solitary, 530, 500)
	sc.add(traits.PlantGreen, traits.Solitary, 540, 500)

	grid := NewSpatialGrid(testWidth, testHeight, 100)
	for _, e := range sc.byID {
		p := sc.posMap.Get(e)
		grid.Insert(e, p.X, p.Y)
	}
	sc.ctx.Grid = grid

	before := sc.posMap.Get(self).X
	sc.species.Update(sc.ctx)
	after := sc.posMap.Get(self).X
	if after >= before {
		t.Errorf("creature moved %v -> %v with a predator at +30, want retreat", before, after)
	}
}
