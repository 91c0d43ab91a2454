package sim

import (
	"testing"
	"time"

	"github.com/mossline/biodome/config"
)

func newFastSim() *Sim {
	cfg := config.Default()
	cfg.Scheduler.TickIntervalMs = 1
	cfg.Scheduler.LapseIntervalMs = 1
	return New(cfg, 42)
}

func TestSchedulerStartPauseResume(t *testing.T) {
	s := newFastSim()
	if s.Running() {
		t.Fatal("running before Start")
	}

	s.Start()
	if !s.Running() {
		t.Fatal("not running after Start")
	}
	s.Start() // repeated Start is a no-op
	if !s.Running() {
		t.Fatal("second Start stopped the scheduler")
	}

	s.Pause()
	if s.Running() {
		t.Fatal("running after Pause")
	}
	s.Pause() // pausing a paused sim is a no-op
	if s.Running() {
		t.Fatal("second Pause changed state")
	}

	s.Resume()
	if !s.Running() {
		t.Fatal("not running after Resume")
	}
	s.Resume()
	if !s.Running() {
		t.Fatal("second Resume stopped the scheduler")
	}
	s.Pause()
}

func TestSchedulerPauseStopsTicking(t *testing.T) {
	s := newFastSim()
	s.Start()

	deadline := time.After(2 * time.Second)
	for s.Tick() == 0 {
		select {
		case <-deadline:
			t.Fatal("no tick within 2s")
		case <-time.After(time.Millisecond):
		}
	}

	s.Pause()
	// An in-flight step may still land; let it drain before sampling.
	time.Sleep(20 * time.Millisecond)
	at := s.Tick()
	time.Sleep(50 * time.Millisecond)
	if got := s.Tick(); got != at {
		t.Errorf("tick advanced from %d to %d while paused", at, got)
	}
}

func TestSchedulerTimeLapse(t *testing.T) {
	s := newFastSim()
	if s.TimeLapse() {
		t.Fatal("time lapse on by default")
	}
	s.SetTimeLapse(true)
	if !s.TimeLapse() {
		t.Fatal("SetTimeLapse(true) did not stick")
	}
	s.SetTimeLapse(false)
	if s.TimeLapse() {
		t.Fatal("SetTimeLapse(false) did not stick")
	}
}

func TestSchedulerIntervalFloor(t *testing.T) {
	cfg := config.Default()
	cfg.Scheduler.TickIntervalMs = 0
	s := New(cfg, 42)
	if got := s.interval(); got < time.Millisecond {
		t.Errorf("interval = %v, want at least 1ms", got)
	}
}
