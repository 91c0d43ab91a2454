// Package sim owns the simulation loop: world state, the tick scheduler,
// entity placement, scenarios, and snapshots. Collaborators observe it
// through fire-and-forget notifications; nothing outside this package
// mutates world state directly.
package sim

import "errors"

var (
	// ErrInvalidPlacement means the requested spot or species cannot be
	// placed: out of bounds, unknown kind, or a surface placement of an
	// orbit-only species.
	ErrInvalidPlacement = errors.New("invalid placement")

	// ErrInsufficientResources means the placement budget cannot cover
	// the species cost. The budget is left untouched.
	ErrInsufficientResources = errors.New("insufficient placement energy")

	// ErrUnknownScenario means no built-in scenario has the given name.
	ErrUnknownScenario = errors.New("unknown scenario")

	// ErrNoSuchTribe means a tribe modifier targeted an ID that is not a
	// live tribe.
	ErrNoSuchTribe = errors.New("no such tribe")

	// ErrCorruptSnapshot means a snapshot failed structural validation
	// and no world state was modified.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
)
