package environment

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/mossline/biodome/traits"
)

// Terrain is a static noise-derived soil field: moisture and fertility per
// surface position, and the biome classification built from them.
type Terrain struct {
	moisture  opensimplex.Noise
	fertility opensimplex.Noise
	scale     float64
}

// terrainScale is the noise frequency; larger worlds keep the same patch
// size in world units.
const terrainScale = 1.0 / 400.0

// NewTerrain seeds the soil field.
func NewTerrain(seed int64) *Terrain {
	return &Terrain{
		moisture:  opensimplex.NewNormalized(seed),
		fertility: opensimplex.NewNormalized(seed + 1),
		scale:     terrainScale,
	}
}

// MoistureAt returns soil moisture in [0,1].
func (t *Terrain) MoistureAt(x, y float64) float64 {
	return t.moisture.Eval2(x*t.scale, y*t.scale)
}

// FertilityAt returns soil fertility in [0,1].
func (t *Terrain) FertilityAt(x, y float64) float64 {
	return t.fertility.Eval2(x*t.scale, y*t.scale)
}

// BiomeAt classifies the location given the current effective temperature.
func (t *Terrain) BiomeAt(x, y, effectiveTemp float64) traits.Biome {
	if effectiveTemp < 0 {
		return traits.BiomeTundra
	}
	m := t.MoistureAt(x, y)
	switch {
	case m < 0.25:
		return traits.BiomeDesert
	case m < 0.5:
		return traits.BiomeGrassland
	case m < 0.75:
		return traits.BiomeForest
	default:
		return traits.BiomeWetland
	}
}
