package sim

import (
	"github.com/mossline/biodome/systems"
	"github.com/mossline/biodome/telemetry"
	"github.com/mossline/biodome/traits"
)

// orbitAltitude is the starting height of an orbit drop, in meters.
const orbitAltitude = 500.0

// Place spawns a species on the surface at (x, y), paying its placement
// cost from the budget. Validation runs before any mutation: an error
// means nothing changed, including the budget. Orbit-only species cannot
// be placed on the surface.
func (s *Sim) Place(kind traits.Kind, x, y float64) (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	def := traits.Defaults(kind)
	if def.MaxHealth <= 0 || def.Tags.Has(traits.OrbitOnly) {
		return 0, ErrInvalidPlacement
	}
	if !s.inBounds(x, y) {
		return 0, ErrInvalidPlacement
	}

	cost := s.cfg.Placement.Costs[kind.String()]
	if cost > s.budget {
		return 0, ErrInsufficientResources
	}

	s.budget -= cost
	id := s.spawn(systems.SpawnSpec{Kind: kind, X: x, Y: y})
	s.emitPlaced(id, kind, cost)
	return id, nil
}

// DropFromOrbit spawns an orbit-only species above (x, y). It descends
// ballistically and joins surface resolution on landing.
func (s *Sim) DropFromOrbit(kind traits.Kind, x, y float64) (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	def := traits.Defaults(kind)
	if def.MaxHealth <= 0 || !def.Tags.Has(traits.OrbitOnly) {
		return 0, ErrInvalidPlacement
	}
	if !s.inBounds(x, y) {
		return 0, ErrInvalidPlacement
	}

	cost := s.cfg.Placement.Costs[kind.String()]
	if cost > s.budget {
		return 0, ErrInsufficientResources
	}

	s.budget -= cost
	id := s.spawn(systems.SpawnSpec{Kind: kind, X: x, Y: y, Altitude: orbitAltitude})
	s.emitPlaced(id, kind, cost)
	return id, nil
}

func (s *Sim) inBounds(x, y float64) bool {
	return x >= 0 && x < s.cfg.World.Width && y >= 0 && y < s.cfg.World.Height
}

func (s *Sim) emitPlaced(id uint32, kind traits.Kind, cost float64) {
	ev := telemetry.Event{
		Type:     telemetry.EventElementPlaced,
		Tick:     s.tick,
		EntityID: id,
		Kind:     kind,
		Amount:   cost,
	}
	s.collector.Notify(ev)
	for _, o := range s.observers {
		o.Notify(ev)
	}
}
