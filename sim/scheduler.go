package sim

import "time"

// Start begins ticking at the configured normal interval. Starting an
// already-running simulation does nothing.
func (s *Sim) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.ticker = time.NewTicker(s.interval())
	s.done = make(chan struct{})
	go s.loop(s.ticker, s.done)
}

func (s *Sim) loop(ticker *time.Ticker, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			s.Step()
		}
	}
}

func (s *Sim) interval() time.Duration {
	ms := s.cfg.Scheduler.TickIntervalMs
	if s.lapse {
		ms = s.cfg.Scheduler.LapseIntervalMs
	}
	if ms <= 0 {
		ms = 1
	}
	return time.Duration(ms) * time.Millisecond
}

// Pause stops the tick interval. World state is untouched, and pausing an
// already-paused simulation does nothing.
func (s *Sim) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pauseLocked()
}

func (s *Sim) pauseLocked() {
	if !s.running {
		return
	}
	s.running = false
	s.ticker.Stop()
	close(s.done)
	s.ticker = nil
	s.done = nil
}

// Resume restarts the tick interval at the current speed. Resuming a
// running simulation does nothing.
func (s *Sim) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.ticker = time.NewTicker(s.interval())
	s.done = make(chan struct{})
	go s.loop(s.ticker, s.done)
}

// SetTimeLapse switches between normal and accelerated speed. The two are
// mutually exclusive; switching while running rearms the interval without
// touching world state.
func (s *Sim) SetTimeLapse(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lapse == on {
		return
	}
	s.lapse = on
	if s.running {
		s.ticker.Reset(s.interval())
	}
}

// Running reports whether the scheduler is ticking.
func (s *Sim) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// TimeLapse reports whether accelerated speed is active.
func (s *Sim) TimeLapse() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lapse
}
