// Package environment produces the per-tick environmental modifiers: the
// weather state machine, the seasonal cycle, and the terrain noise field.
package environment

import "math/rand"

// Weather is one state of the planet's weather machine.
type Weather uint8

const (
	Sunny Weather = iota
	Rainy
	Dry
	Stormy
	Snowy
)

var weatherNames = [...]string{"sunny", "rainy", "dry", "stormy", "snowy"}

func (w Weather) String() string {
	if int(w) < len(weatherNames) {
		return weatherNames[w]
	}
	return "unknown"
}

// WeatherFromString resolves a snapshot name back to a Weather state.
func WeatherFromString(s string) Weather {
	for i, n := range weatherNames {
		if n == s {
			return Weather(i)
		}
	}
	return Sunny
}

// Conditions is the planet's configured baseline environment.
type Conditions struct {
	Gravity       float64
	Temperature   float64
	WaterPresence float64
	Atmosphere    float64
}

// EligibleWeathers filters candidate states by the current environment.
// Sunny is always eligible as a fallback.
func EligibleWeathers(c Conditions) []Weather {
	eligible := []Weather{Sunny}
	if c.WaterPresence > 40 && c.Temperature < 25 {
		eligible = append(eligible, Rainy)
	}
	if c.Temperature > 30 && c.WaterPresence < 30 {
		eligible = append(eligible, Dry)
	}
	if c.WaterPresence > 50 && c.Atmosphere > 60 {
		eligible = append(eligible, Stormy)
	}
	if c.Temperature < 5 {
		eligible = append(eligible, Snowy)
	}
	return eligible
}

// weatherEffect holds the multipliers one weather state contributes.
type weatherEffect struct {
	growthMult float64
	drainMult  float64
	moveMult   float64
	tempOffset float64
}

var weatherEffects = [...]weatherEffect{
	Sunny:  {growthMult: 1.10, drainMult: 1.00, moveMult: 1.0, tempOffset: 0},
	Rainy:  {growthMult: 1.25, drainMult: 1.05, moveMult: 1.0, tempOffset: -2},
	Dry:    {growthMult: 0.70, drainMult: 1.15, moveMult: 1.0, tempOffset: 4},
	Stormy: {growthMult: 0.80, drainMult: 1.25, moveMult: 0.8, tempOffset: -3},
	Snowy:  {growthMult: 0.50, drainMult: 1.30, moveMult: 0.7, tempOffset: -8},
}

// nextWeather runs one transition check. With probability chance it picks a
// new state uniformly from the eligible set; otherwise the current state
// holds. Returns the (possibly unchanged) state and whether it changed.
func nextWeather(current Weather, c Conditions, chance float64, rng *rand.Rand) (Weather, bool) {
	if rng.Float64() >= chance {
		return current, false
	}
	eligible := EligibleWeathers(c)
	picked := eligible[rng.Intn(len(eligible))]
	return picked, picked != current
}
