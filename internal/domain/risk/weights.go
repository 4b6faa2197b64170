package risk

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidWeights = errors.New("invalid risk weights")

// RiskWeights scales each domain score into the overall score. The defaults
// sum to 1.0 so six maxed domains yield exactly 100.
type RiskWeights struct {
	Pain          float64 `json:"pain"`
	Adherence     float64 `json:"adherence"`
	Psychological float64 `json:"psychological"`
	Movement      float64 `json:"movement"`
	Health        float64 `json:"health"`
	Progression   float64 `json:"progression"`
}

func DefaultWeights() RiskWeights {
	return RiskWeights{
		Pain:          0.25,
		Adherence:     0.15,
		Psychological: 0.20,
		Movement:      0.15,
		Health:        0.10,
		Progression:   0.15,
	}
}

// WeightsFromSlice maps weights given in Domains order.
func WeightsFromSlice(w [6]float64) RiskWeights {
	return RiskWeights{
		Pain:          w[0],
		Adherence:     w[1],
		Psychological: w[2],
		Movement:      w[3],
		Health:        w[4],
		Progression:   w[5],
	}
}

func (w RiskWeights) For(d Domain) float64 {
	switch d {
	case DomainPain:
		return w.Pain
	case DomainAdherence:
		return w.Adherence
	case DomainPsychological:
		return w.Psychological
	case DomainMovement:
		return w.Movement
	case DomainHealth:
		return w.Health
	case DomainProgression:
		return w.Progression
	}
	return 0
}

func (w RiskWeights) Validate() error {
	for _, d := range Domains {
		v := w.For(d)
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: %s weight must be a non-negative number", ErrInvalidWeights, d)
		}
	}
	return nil
}

// Normalized returns the defaults when every weight is zero, else w unchanged.
func (w RiskWeights) Normalized() RiskWeights {
	if w == (RiskWeights{}) {
		return DefaultWeights()
	}
	return w
}
