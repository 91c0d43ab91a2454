package environment

import "math/rand"

// Modifiers is the per-tick read-only snapshot species updates consume.
// Weather and season compose multiplicatively with base rates; they never
// replace them.
type Modifiers struct {
	Season        Season
	Weather       Weather
	EffectiveTemp float64 // baseline + season offset + weather offset
	GrowthMult    float64 // season × weather growth multiplier
	DrainMult     float64 // creature energy drain multiplier
	MoveMult      float64 // movement speed multiplier
}

// State is the environmental modulator: weather machine plus annual cycle.
type State struct {
	Conditions Conditions
	Weather    Weather
	YearFrac   float64 // annual-cycle fraction in [0,1)

	yearTicks        int32
	transitionChance float64
	tempAmplitude    float64
	growthSwing      float64
}

// NewState builds the modulator from configured baselines.
func NewState(cond Conditions, yearTicks int32, transitionChance, tempAmplitude, growthSwing float64) *State {
	if yearTicks < 4 {
		yearTicks = 4
	}
	return &State{
		Conditions:       cond,
		Weather:          Sunny,
		yearTicks:        yearTicks,
		transitionChance: transitionChance,
		tempAmplitude:    tempAmplitude,
		growthSwing:      growthSwing,
	}
}

// Advance moves the annual cycle one tick and runs the weather transition
// check. Returns true when the weather changed.
func (s *State) Advance(rng *rand.Rand) bool {
	s.YearFrac += 1 / float64(s.yearTicks)
	for s.YearFrac >= 1 {
		s.YearFrac -= 1
	}
	next, changed := nextWeather(s.Weather, s.Conditions, s.transitionChance, rng)
	s.Weather = next
	return changed
}

// Modifiers computes the per-tick modifier snapshot.
func (s *State) Modifiers() Modifiers {
	eff := weatherEffects[s.Weather]
	return Modifiers{
		Season:        SeasonAt(s.YearFrac),
		Weather:       s.Weather,
		EffectiveTemp: s.Conditions.Temperature + SeasonTempOffset(s.YearFrac, s.tempAmplitude) + eff.tempOffset,
		GrowthMult:    SeasonGrowthMult(s.YearFrac, s.growthSwing) * eff.growthMult,
		DrainMult:     eff.drainMult,
		MoveMult:      eff.moveMult,
	}
}
