package environment

import "math"

// Season is the quarter of the annual cycle.
type Season uint8

const (
	Spring Season = iota
	Summer
	Autumn
	Winter
)

var seasonNames = [...]string{"spring", "summer", "autumn", "winter"}

func (s Season) String() string {
	if int(s) < len(seasonNames) {
		return seasonNames[s]
	}
	return "unknown"
}

// seasonPhase shifts the sinusoid so summer peaks mid-cycle (annual
// fraction 0.375) and winter troughs opposite it.
const seasonPhase = 0.125

// SeasonAt maps an annual-cycle fraction in [0,1) to its quarter.
func SeasonAt(yearFrac float64) Season {
	switch {
	case yearFrac < 0.25:
		return Spring
	case yearFrac < 0.5:
		return Summer
	case yearFrac < 0.75:
		return Autumn
	default:
		return Winter
	}
}

// SeasonTempOffset is the sinusoidal seasonal temperature offset in °C.
func SeasonTempOffset(yearFrac, amplitude float64) float64 {
	return amplitude * math.Sin(2*math.Pi*(yearFrac-seasonPhase))
}

// SeasonGrowthMult is the sinusoidal seasonal growth multiplier around 1.0.
func SeasonGrowthMult(yearFrac, swing float64) float64 {
	return 1 + swing*math.Sin(2*math.Pi*(yearFrac-seasonPhase))
}
