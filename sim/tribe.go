package sim

// BlessTribe boosts a tribe's gathering and reproduction for a duration in
// ticks. Multipliers restore to 1.0 when the duration expires.
func (s *Sim) BlessTribe(id uint32, gatherMult, reproMult float64, ticks int32) error {
	return s.adjustTribe(id, gatherMult, reproMult, ticks)
}

// CurseTribe weakens a tribe the same way a blessing strengthens it;
// callers pass multipliers below 1.0.
func (s *Sim) CurseTribe(id uint32, gatherMult, reproMult float64, ticks int32) error {
	return s.adjustTribe(id, gatherMult, reproMult, ticks)
}

func (s *Sim) adjustTribe(id uint32, gatherMult, reproMult float64, ticks int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entity, ok := s.byID[id]
	if !ok || !s.tribeMap.Has(entity) {
		return ErrNoSuchTribe
	}
	vit := s.vitMap.Get(entity)
	if vit == nil || !vit.Alive {
		return ErrNoSuchTribe
	}

	td := s.tribeMap.Get(entity)
	if gatherMult > 0 {
		td.GatherMult = gatherMult
		td.GatherMultTicks = ticks
	}
	if reproMult > 0 {
		td.ReproMult = reproMult
		td.ReproMultTicks = ticks
	}
	return nil
}
