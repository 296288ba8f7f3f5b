package models

import (
	"fmt"
	"time"
)

// RiskLevel is the discrete tier a combined score is classified into.
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "LOW"
	RiskLevelModerate RiskLevel = "MODERATE"
	RiskLevelHigh     RiskLevel = "HIGH"
	RiskLevelSevere   RiskLevel = "SEVERE"
)

// RiskLevelFromString reconstructs a RiskLevel from its string representation.
func RiskLevelFromString(s string) (RiskLevel, error) {
	switch RiskLevel(s) {
	case RiskLevelLow, RiskLevelModerate, RiskLevelHigh, RiskLevelSevere:
		return RiskLevel(s), nil
	default:
		return "", fmt.Errorf("invalid risk level: %q", s)
	}
}

// FactorKind enumerates the six assessed risk dimensions.
type FactorKind int

const (
	FactorFinancial FactorKind = iota
	FactorDelivery
	FactorQuality
	FactorReputation
	FactorCompliance
	FactorGeopolitical
)

// AllFactorKinds lists every dimension in reporting order.
var AllFactorKinds = [...]FactorKind{
	FactorFinancial,
	FactorDelivery,
	FactorQuality,
	FactorReputation,
	FactorCompliance,
	FactorGeopolitical,
}

// String returns the factor name used in API payloads.
func (k FactorKind) String() string {
	switch k {
	case FactorFinancial:
		return "financialStability"
	case FactorDelivery:
		return "deliveryReliability"
	case FactorQuality:
		return "qualityConsistency"
	case FactorReputation:
		return "marketReputation"
	case FactorCompliance:
		return "compliance"
	case FactorGeopolitical:
		return "geopoliticalRisk"
	default:
		return fmt.Sprintf("factor(%d)", int(k))
	}
}

// RiskFactor is the per-dimension result of an assessment.
type RiskFactor struct {
	Kind     FactorKind `json:"-"`
	Name     string     `json:"name"`
	Score    float64    `json:"score"`
	Weight   float64    `json:"weight"`
	Insights []string   `json:"insights"`
}

// RiskScore is the aggregate result of an assessment. Score equals the weighted sum of
// the factor scores.
type RiskScore struct {
	SupplierID      string       `json:"supplierId,omitempty"`
	Score           float64      `json:"score"`
	RiskLevel       RiskLevel    `json:"riskLevel"`
	Factors         []RiskFactor `json:"factors"`
	Recommendations []string     `json:"recommendations"`
	Timestamp       time.Time    `json:"timestamp"`
}

// Factor returns the factor of the given kind, or nil.
func (s *RiskScore) Factor(kind FactorKind) *RiskFactor {
	for i := range s.Factors {
		if s.Factors[i].Kind == kind {
			return &s.Factors[i]
		}
	}
	return nil
}

// RiskAssessment is a persisted RiskScore snapshot.
type RiskAssessment struct {
	ID string `json:"id"`
	RiskScore
}
