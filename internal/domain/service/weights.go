package service

import (
	"fmt"
	"math"

	"github.com/bell24h/supplierrisk/internal/domain/models"
)

// weightTolerance is the permitted deviation of the weight sum from 1.0.
const weightTolerance = 1e-9

// Weights defines the relative importance of each risk dimension.
// All weights must sum to 1.0.
type Weights struct {
	Financial    float64
	Delivery     float64
	Quality      float64
	Reputation   float64
	Compliance   float64
	Geopolitical float64
}

// CanonicalWeights returns the single weighting used by every assessment.
func CanonicalWeights() Weights {
	return Weights{
		Financial:    0.25,
		Delivery:     0.20,
		Quality:      0.20,
		Reputation:   0.15,
		Compliance:   0.10,
		Geopolitical: 0.10,
	}
}

// For returns the weight of a single dimension.
func (w Weights) For(kind models.FactorKind) float64 {
	switch kind {
	case models.FactorFinancial:
		return w.Financial
	case models.FactorDelivery:
		return w.Delivery
	case models.FactorQuality:
		return w.Quality
	case models.FactorReputation:
		return w.Reputation
	case models.FactorCompliance:
		return w.Compliance
	case models.FactorGeopolitical:
		return w.Geopolitical
	default:
		return 0
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	total := 0.0
	for _, kind := range models.AllFactorKinds {
		total += w.For(kind)
	}
	return total
}

// Validate checks that weights sum to 1.0 and none are negative.
func (w Weights) Validate() error {
	for _, kind := range models.AllFactorKinds {
		if v := w.For(kind); v < 0 {
			return fmt.Errorf("negative weight for %s: %f", kind, v)
		}
	}
	if math.Abs(w.Sum()-1.0) > weightTolerance {
		return fmt.Errorf("weights sum to %.12f, must sum to 1.0", w.Sum())
	}
	return nil
}

// Tier lower bounds. A score equal to a bound belongs to the better tier.
const (
	LowRiskThreshold      = 80.0
	ModerateRiskThreshold = 60.0
	HighRiskThreshold     = 40.0

	// RecommendationThreshold is the factor score below which a factor-specific
	// recommendation is emitted.
	RecommendationThreshold = 60.0
)

// ClassifyScore maps a combined score onto its risk tier.
func ClassifyScore(score float64) models.RiskLevel {
	switch {
	case score >= LowRiskThreshold:
		return models.RiskLevelLow
	case score >= ModerateRiskThreshold:
		return models.RiskLevelModerate
	case score >= HighRiskThreshold:
		return models.RiskLevelHigh
	default:
		return models.RiskLevelSevere
	}
}
