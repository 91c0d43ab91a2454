package systems

import (
	"math/rand"

	"github.com/mossline/biodome/components"
	"github.com/mossline/biodome/config"
	"github.com/mossline/biodome/genetics"
	"github.com/mossline/biodome/traits"
)

// preyTable is the food web: predator species tag → eligible prey tags.
// It is an eligibility relation, not an ownership link.
var preyTable = map[traits.Kind][]traits.Kind{
	traits.Predator: {
		traits.Creature,
		traits.CreatureAquatic,
		traits.CreatureFlier,
		traits.CreatureBurrower,
		traits.CreatureSymbiont,
	},
	traits.PlantCarnivore: {
		traits.Creature,
		traits.CreatureFlier,
		traits.CreatureSymbiont,
	},
}

// PreyEligible reports whether prey is in the predator kind's preferred
// prey list. Both sides must carry the matching capability tags.
func PreyEligible(predator, prey traits.Kind) bool {
	for _, k := range preyTable[predator] {
		if k == prey {
			return true
		}
	}
	return false
}

// HuntScore is the phenotype strength used on both sides of a predation
// attempt: size times speed, floored so sessile prey never divides by zero.
func HuntScore(body *components.Body, ph genetics.Phenotype) float64 {
	score := body.Size * ph.SizeMult * (1 + body.Speed*ph.SpeedMult)
	if score < 0.1 {
		score = 0.1
	}
	return score
}

// SuccessProbability computes the chance a predation attempt lands.
// Monotonically non-decreasing in the predator-to-prey score ratio; the
// jitter term is a small uniform factor around zero.
func SuccessProbability(predScore, preyScore, jitter float64, cfg config.PredationConfig) float64 {
	ratio := predScore / preyScore
	p := cfg.BaseChance + cfg.RatioGain*(ratio-1) + jitter
	return clamp01(p)
}

// Jitter draws the random factor for one attempt.
func Jitter(rng *rand.Rand, cfg config.PredationConfig) float64 {
	return (rng.Float64()*2 - 1) * cfg.JitterSpread
}

// BiteResult reports what one resolved attack did.
type BiteResult struct {
	Hit      bool
	Killed   bool
	Transfer float64 // energy gained by the predator
}

// ResolveBite applies one predation attempt. On success the prey loses a
// fixed bite of health and the predator gains energy and health in
// proportion, capped at its species maxima. On failure the predator pays a
// small energy penalty and the prey is untouched.
func ResolveBite(pred, prey *components.Vitals, success bool, cfg config.PredationConfig) BiteResult {
	if !success {
		pred.Energy -= cfg.FailPenalty
		return BiteResult{}
	}

	bite := cfg.BiteAmount
	if bite > prey.Health {
		bite = prey.Health
	}
	prey.Damage(bite)

	gain := bite * cfg.BiteGainRatio
	pred.Energy += gain
	pred.Heal(gain * 0.5)

	return BiteResult{Hit: true, Killed: !prey.Alive, Transfer: gain}
}
