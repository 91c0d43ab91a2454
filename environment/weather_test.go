package environment

import (
	"math/rand"
	"testing"
)

func contains(ws []Weather, w Weather) bool {
	for _, x := range ws {
		if x == w {
			return true
		}
	}
	return false
}

func TestEligibleWeathers(t *testing.T) {
	tests := []struct {
		name    string
		cond    Conditions
		want    []Weather
		exclude []Weather
	}{
		{
			name:    "low water hot planet never rains",
			cond:    Conditions{Temperature: 35, WaterPresence: 20, Atmosphere: 50},
			want:    []Weather{Sunny, Dry},
			exclude: []Weather{Rainy, Stormy, Snowy},
		},
		{
			name:    "hot arid planet allows dry spells",
			cond:    Conditions{Temperature: 45, WaterPresence: 10, Atmosphere: 40},
			want:    []Weather{Sunny, Dry},
			exclude: []Weather{Rainy, Snowy},
		},
		{
			name:    "wet temperate planet rains and storms",
			cond:    Conditions{Temperature: 18, WaterPresence: 60, Atmosphere: 70},
			want:    []Weather{Sunny, Rainy, Stormy},
			exclude: []Weather{Dry, Snowy},
		},
		{
			name:    "frozen planet snows",
			cond:    Conditions{Temperature: -5, WaterPresence: 30, Atmosphere: 50},
			want:    []Weather{Sunny, Snowy},
			exclude: []Weather{Rainy, Dry},
		},
		{
			name:    "sunny always eligible",
			cond:    Conditions{Temperature: 28, WaterPresence: 35, Atmosphere: 30},
			want:    []Weather{Sunny},
			exclude: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EligibleWeathers(tt.cond)
			for _, w := range tt.want {
				if !contains(got, w) {
					t.Errorf("want %s eligible, got %v", w, got)
				}
			}
			for _, w := range tt.exclude {
				if contains(got, w) {
					t.Errorf("want %s excluded, got %v", w, got)
				}
			}
		})
	}
}

func TestTransitionsStayWithinEligible(t *testing.T) {
	cond := Conditions{Temperature: 35, WaterPresence: 20, Atmosphere: 50}
	rng := rand.New(rand.NewSource(11))

	s := NewState(cond, 4800, 1.0, 10, 0.3) // always transition
	for i := 0; i < 5000; i++ {
		s.Advance(rng)
		if s.Weather == Rainy || s.Weather == Stormy || s.Weather == Snowy {
			t.Fatalf("tick %d: weather %s not eligible for conditions %+v", i, s.Weather, cond)
		}
	}
}

func TestNoTransitionWithZeroChance(t *testing.T) {
	cond := Conditions{Temperature: 18, WaterPresence: 60, Atmosphere: 70}
	rng := rand.New(rand.NewSource(12))

	s := NewState(cond, 4800, 0, 10, 0.3)
	for i := 0; i < 1000; i++ {
		if changed := s.Advance(rng); changed {
			t.Fatalf("tick %d: weather changed with zero transition chance", i)
		}
	}
	if s.Weather != Sunny {
		t.Errorf("weather drifted to %s without transitions", s.Weather)
	}
}
