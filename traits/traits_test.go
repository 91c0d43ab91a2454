package traits

import (
	"math"
	"math/rand"
	"testing"
)

func TestTagOperations(t *testing.T) {
	tags := Mobile | Herbivore
	if !tags.Has(Mobile) || !tags.Has(Herbivore) {
		t.Error("combined tags missing members")
	}
	if tags.Has(Carnivore) {
		t.Error("tag set reports absent member")
	}

	tags = tags.Add(Flier)
	if !tags.Has(Flier) {
		t.Error("Add did not set the tag")
	}
	tags = tags.Remove(Herbivore)
	if tags.Has(Herbivore) {
		t.Error("Remove did not clear the tag")
	}
}

func TestKindStringRoundTrip(t *testing.T) {
	for _, k := range AllKinds {
		if got := KindFromString(k.String()); got != k {
			t.Errorf("round trip of %s gave %s", k, got)
		}
	}
	if got := KindFromString("nonsense"); got != KindNone {
		t.Errorf("unknown name resolved to %s", got)
	}
}

func TestKindFamilies(t *testing.T) {
	plantCount, creatureCount := 0, 0
	for _, k := range AllKinds {
		if IsPlant(k) {
			plantCount++
		}
		if IsCreature(k) {
			creatureCount++
		}
		if IsPlant(k) && IsCreature(k) {
			t.Errorf("%s is both plant and creature", k)
		}
	}
	if plantCount != 5 {
		t.Errorf("plant family size %d, want 5", plantCount)
	}
	if creatureCount != 5 {
		t.Errorf("creature family size %d, want 5", creatureCount)
	}
	if IsPlant(Predator) || IsCreature(Predator) {
		t.Error("predator misclassified into a family")
	}
}

func TestSpeciesDefaultsComplete(t *testing.T) {
	for _, k := range AllKinds {
		def := Defaults(k)
		if def.MaxHealth <= 0 {
			t.Errorf("%s has no species defaults", k)
		}
	}
	if def := Defaults(KindNone); def.MaxHealth != 0 {
		t.Error("KindNone has species defaults")
	}
}

// Behavior assignment follows the configured weighted distribution.
func TestPickBehaviorDistribution(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const n = 100000

	counts := make(map[Behavior]int)
	for i := 0; i < n; i++ {
		counts[PickBehavior(rng)]++
	}

	for b, want := range map[Behavior]float64{
		Flocking:    0.30,
		Herding:     0.25,
		Territorial: 0.20,
		Cooperative: 0.15,
		Solitary:    0.10,
	} {
		got := float64(counts[b]) / n
		if math.Abs(got-want) > 0.01 {
			t.Errorf("%v frequency %.3f, want %.2f ± 0.01", b, got, want)
		}
	}
}
