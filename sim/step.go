package sim

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/mossline/biodome/environment"
	"github.com/mossline/biodome/systems"
	"github.com/mossline/biodome/telemetry"
	"github.com/mossline/biodome/traits"
)

// Step runs exactly one tick. Safe to call directly for headless runs and
// tests; the scheduler calls it on its interval.
func (s *Sim) Step() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.step()
}

// step is the tick pipeline. Order matters: environment advances first so
// every species update sees the same modifiers; spawns stage until all
// updates finish; the dead leave before the evolution detector looks for
// clusters; scenario evaluation sees the tick's final aggregates.
func (s *Sim) step() {
	s.tick++
	s.events = s.events[:0]

	weatherChanged := s.env.Advance(s.rng)
	mods := s.env.Modifiers()
	if weatherChanged {
		s.events = append(s.events, telemetry.Event{
			Type:   telemetry.EventWeatherChanged,
			Tick:   s.tick,
			Detail: mods.Weather.String(),
		})
	}

	s.rebuildGrid()
	ctx := s.buildContext(mods)

	s.ballistic.Update(ctx)
	s.species.Update(ctx)

	staged := len(s.staging)
	for _, spec := range s.staging {
		s.spawn(spec)
	}
	s.staging = s.staging[:0]

	removed := s.cleanupDead()

	s.evolution.Update(ctx)
	tribes := len(s.staging)
	for _, spec := range s.staging {
		s.spawn(spec)
	}
	s.staging = s.staging[:0]
	if tribes > 0 {
		removed += s.cleanupDead()
	}

	agg := s.aggregates()
	s.evaluateScenario(agg)

	for _, ev := range s.events {
		s.collector.Notify(ev)
		for _, o := range s.observers {
			o.Notify(ev)
		}
	}
	if s.collector.WindowReady(s.tick) {
		row := s.collector.Flush(s.tick, agg)
		if s.output != nil {
			_ = s.output.WriteWindow(row)
		}
		if s.windowSink != nil {
			s.windowSink(row)
		}
	}

	// Collaborators hear nothing on a tick where nothing observable moved.
	changed := weatherChanged || len(s.events) > 0 || staged > 0 || tribes > 0 || removed > 0 ||
		s.anyMobileAlive()
	if changed {
		f := s.frame()
		for _, r := range s.renderers {
			r.RenderFrame(f)
		}
	}
}

// buildContext assembles the read-only per-tick context handed to systems.
func (s *Sim) buildContext(mods environment.Modifiers) *systems.Context {
	tech := systems.TechMods{}
	for _, src := range s.modSources {
		for name, v := range src.Modifiers() {
			tech[name] = v
		}
	}
	return &systems.Context{
		Cfg:     s.cfg,
		Env:     mods,
		Cond:    s.env.Conditions,
		Terrain: s.terrain,
		Tech:    tech,
		RNG:     s.rng,
		Tick:    s.tick,
		Width:   s.cfg.World.Width,
		Height:  s.cfg.World.Height,
		Grid:    s.grid,
		Stage: func(spec systems.SpawnSpec) {
			s.staging = append(s.staging, spec)
		},
		Emit: func(ev telemetry.Event) {
			s.events = append(s.events, ev)
		},
		Lookup: s.lookup,
	}
}

// rebuildGrid reindexes all live surface entities for this tick.
func (s *Sim) rebuildGrid() {
	s.grid.Clear()
	query := s.filter.Query()
	for query.Next() {
		entity := query.Entity()
		pos, vit, _, _, _ := query.Get()
		if !vit.Alive {
			continue
		}
		if s.ballMap.Has(entity) && s.ballMap.Get(entity).Active {
			continue
		}
		s.grid.Insert(entity, pos.X, pos.Y)
	}
}

// cleanupDead removes entities whose health reached zero. Collection and
// removal are separate passes; the ECS forbids structural changes during
// query iteration. Returns the number removed.
func (s *Sim) cleanupDead() int {
	type deadInfo struct {
		entity ecs.Entity
		id     uint32
	}
	var toRemove []deadInfo

	query := s.filter.Query()
	for query.Next() {
		entity := query.Entity()
		_, vit, _, _, _ := query.Get()
		if !vit.Alive {
			toRemove = append(toRemove, deadInfo{entity: entity, id: s.orgMap.Get(entity).ID})
		}
	}

	for _, dead := range toRemove {
		s.releasePartner(dead.id)
		s.mapper.Remove(dead.entity)
		delete(s.byID, dead.id)
	}
	return len(toRemove)
}

// releasePartner clears symbiotic links pointing at a removed entity.
func (s *Sim) releasePartner(id uint32) {
	query := s.filter.Query()
	for query.Next() {
		entity := query.Entity()
		if !s.socialMap.Has(entity) {
			continue
		}
		soc := s.socialMap.Get(entity)
		if soc.PartnerID == id {
			soc.PartnerID = 0
		}
		if soc.LeaderID == id {
			soc.LeaderID = 0
		}
		if soc.TargetID == id {
			soc.TargetID = 0
		}
	}
}

// evaluateScenario runs the active scenario against this tick's aggregates.
// Victory predicates run before failure predicates; the first hit ends the
// scenario and pauses the scheduler.
func (s *Sim) evaluateScenario(agg telemetry.Aggregates) {
	if s.scenario == nil || s.outcome != systems.OutcomeNone {
		return
	}
	outcome, pred := s.scenario.Evaluate(agg)
	if outcome == systems.OutcomeNone {
		return
	}
	s.outcome = outcome

	evType := telemetry.EventScenarioLost
	if outcome == systems.OutcomeVictory {
		evType = telemetry.EventScenarioWon
	}
	s.events = append(s.events, telemetry.Event{
		Type:   evType,
		Tick:   s.tick,
		Detail: s.scenario.Name + ": " + pred.Describe(),
	})
	s.pauseLocked()
}

// anyMobileAlive reports whether any mover exists, since movement alone
// changes observable positions every tick.
func (s *Sim) anyMobileAlive() bool {
	query := s.filter.Query()
	found := false
	for query.Next() {
		_, vit, _, org, _ := query.Get()
		if vit.Alive && org.HasTag(traits.Mobile) {
			found = true
			query.Close()
			break
		}
	}
	return found
}
