package sim

import (
	"encoding/json"
	"errors"
	"math"
	"sort"
	"testing"

	"github.com/mossline/biodome/config"
)

func decodeSnapshot(t *testing.T, data []byte) Snapshot {
	t.Helper()
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("decoding snapshot: %v", err)
	}
	return snap
}

func sortEntities(snap *Snapshot) {
	sort.Slice(snap.Entities, func(i, j int) bool {
		return snap.Entities[i].ID < snap.Entities[j].ID
	})
}

func TestSnapshotRoundTrip(t *testing.T) {
	const tol = 1e-6

	src := New(config.Default(), 7)
	for i := 0; i < 50; i++ {
		src.Step()
	}
	data, err := src.MarshalSnapshot()
	if err != nil {
		t.Fatalf("MarshalSnapshot: %v", err)
	}

	// Restore into a world seeded differently; everything must come
	// from the snapshot, nothing from the destination's own state.
	dst := New(config.Default(), 9999)
	if err := dst.RestoreSnapshot(data); err != nil {
		t.Fatalf("RestoreSnapshot: %v", err)
	}
	data2, err := dst.MarshalSnapshot()
	if err != nil {
		t.Fatalf("re-marshal: %v", err)
	}

	a := decodeSnapshot(t, data)
	b := decodeSnapshot(t, data2)
	sortEntities(&a)
	sortEntities(&b)

	if a.Tick != b.Tick || a.Budget != b.Budget || a.Weather != b.Weather {
		t.Errorf("header mismatch: %v/%v/%v vs %v/%v/%v",
			a.Tick, a.Budget, a.Weather, b.Tick, b.Budget, b.Weather)
	}
	if math.Abs(a.YearFrac-b.YearFrac) > tol {
		t.Errorf("year fraction %v vs %v", a.YearFrac, b.YearFrac)
	}
	if len(a.Entities) != len(b.Entities) {
		t.Fatalf("entity count %d vs %d", len(a.Entities), len(b.Entities))
	}
	for i := range a.Entities {
		ea, eb := a.Entities[i], b.Entities[i]
		if ea.ID != eb.ID || ea.Kind != eb.Kind || ea.Age != eb.Age {
			t.Fatalf("entity %d identity mismatch: %+v vs %+v", i, ea, eb)
		}
		for _, d := range [...]float64{
			ea.X - eb.X, ea.Y - eb.Y,
			ea.Health - eb.Health, ea.MaxHealth - eb.MaxHealth,
			ea.Energy - eb.Energy,
		} {
			if math.Abs(d) > tol {
				t.Fatalf("entity %d numeric drift: %+v vs %+v", ea.ID, ea, eb)
			}
		}
		for name, v := range ea.Genome {
			if math.Abs(v-eb.Genome[name]) > tol {
				t.Fatalf("entity %d genome trait %s drift: %v vs %v", ea.ID, name, v, eb.Genome[name])
			}
		}
	}
}

func TestSnapshotRestorePreservesScenario(t *testing.T) {
	src := newTestSim(t)
	if err := src.SetScenario("garden"); err != nil {
		t.Fatalf("SetScenario: %v", err)
	}
	data, err := src.MarshalSnapshot()
	if err != nil {
		t.Fatalf("MarshalSnapshot: %v", err)
	}

	dst := newTestSim(t)
	if err := dst.RestoreSnapshot(data); err != nil {
		t.Fatalf("RestoreSnapshot: %v", err)
	}
	if dst.scenario == nil || dst.scenario.Name != "garden" {
		t.Errorf("scenario not restored: %+v", dst.scenario)
	}
}

func TestRestoreRejectsCorruptSnapshots(t *testing.T) {
	valid := func(t *testing.T) Snapshot {
		s := newTestSim(t)
		data, err := s.MarshalSnapshot()
		if err != nil {
			t.Fatalf("MarshalSnapshot: %v", err)
		}
		return decodeSnapshot(t, data)
	}

	cases := []struct {
		name   string
		mutate func(*Snapshot)
	}{
		{"bad version", func(s *Snapshot) { s.Version = 99 }},
		{"unknown kind", func(s *Snapshot) { s.Entities[0].Kind = "dragon" }},
		{"zero id", func(s *Snapshot) { s.Entities[0].ID = 0 }},
		{"duplicate id", func(s *Snapshot) { s.Entities[1].ID = s.Entities[0].ID }},
		{"non-positive max health", func(s *Snapshot) { s.Entities[0].MaxHealth = 0 }},
		{"unknown scenario", func(s *Snapshot) { s.Scenario = "nonesuch" }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			snap := valid(t)
			c.mutate(&snap)
			data, err := json.Marshal(snap)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}

			dst := newTestSim(t)
			dst.Step()
			dst.Step()
			if err := dst.RestoreSnapshot(data); !errors.Is(err, ErrCorruptSnapshot) {
				t.Fatalf("RestoreSnapshot = %v, want ErrCorruptSnapshot", err)
			}
			// Failed restore must not touch the world.
			if got := dst.Tick(); got != 2 {
				t.Errorf("tick = %d after rejected restore, want 2", got)
			}
			if len(dst.byID) == 0 {
				t.Error("world emptied by rejected restore")
			}
		})
	}
}

func TestRestoreRejectsGarbage(t *testing.T) {
	s := newTestSim(t)
	if err := s.RestoreSnapshot([]byte("{not json")); !errors.Is(err, ErrCorruptSnapshot) {
		t.Errorf("RestoreSnapshot(garbage) = %v, want ErrCorruptSnapshot", err)
	}
}

func TestRestoredSimKeepsStepping(t *testing.T) {
	src := New(config.Default(), 7)
	for i := 0; i < 20; i++ {
		src.Step()
	}
	data, err := src.MarshalSnapshot()
	if err != nil {
		t.Fatalf("MarshalSnapshot: %v", err)
	}

	dst := New(config.Default(), 8)
	if err := dst.RestoreSnapshot(data); err != nil {
		t.Fatalf("RestoreSnapshot: %v", err)
	}
	for i := 0; i < 20; i++ {
		dst.Step()
	}
	if got := dst.Tick(); got != 40 {
		t.Errorf("tick = %d, want 40", got)
	}
}
