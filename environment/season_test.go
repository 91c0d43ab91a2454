package environment

import (
	"math"
	"testing"
)

func TestSeasonQuarters(t *testing.T) {
	tests := []struct {
		frac float64
		want Season
	}{
		{0.0, Spring},
		{0.1, Spring},
		{0.25, Summer},
		{0.4, Summer},
		{0.5, Autumn},
		{0.7, Autumn},
		{0.75, Winter},
		{0.99, Winter},
	}
	for _, tt := range tests {
		if got := SeasonAt(tt.frac); got != tt.want {
			t.Errorf("SeasonAt(%v) = %s, want %s", tt.frac, got, tt.want)
		}
	}
}

func TestSeasonTempOffsetPeaksMidSummer(t *testing.T) {
	amplitude := 10.0
	peak := SeasonTempOffset(0.375, amplitude)
	if math.Abs(peak-amplitude) > 1e-9 {
		t.Errorf("mid-summer offset = %v, want %v", peak, amplitude)
	}

	trough := SeasonTempOffset(0.875, amplitude)
	if math.Abs(trough+amplitude) > 1e-9 {
		t.Errorf("mid-winter offset = %v, want %v", trough, -amplitude)
	}
}

func TestModifiersComposeMultiplicatively(t *testing.T) {
	cond := Conditions{Temperature: 18, WaterPresence: 60, Atmosphere: 70}
	s := NewState(cond, 4800, 0, 10, 0.3)
	s.Weather = Snowy
	s.YearFrac = 0.375 // mid-summer

	m := s.Modifiers()
	wantGrowth := SeasonGrowthMult(0.375, 0.3) * 0.50 // snowy growth factor
	if math.Abs(m.GrowthMult-wantGrowth) > 1e-9 {
		t.Errorf("GrowthMult = %v, want %v", m.GrowthMult, wantGrowth)
	}
	wantTemp := 18 + SeasonTempOffset(0.375, 10) - 8 // snowy temp offset
	if math.Abs(m.EffectiveTemp-wantTemp) > 1e-9 {
		t.Errorf("EffectiveTemp = %v, want %v", m.EffectiveTemp, wantTemp)
	}
}
