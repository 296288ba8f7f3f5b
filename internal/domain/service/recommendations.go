package service

import "github.com/bell24h/supplierrisk/internal/domain/models"

// GenericRecommendation is emitted when no factor falls below the recommendation threshold.
const GenericRecommendation = "Continue monitoring supplier performance"

// Recommendation returns the canned remediation advice for a weak factor.
func Recommendation(kind models.FactorKind) string {
	switch kind {
	case models.FactorFinancial:
		return "Request updated financial statements and consider shorter payment terms or a letter of credit"
	case models.FactorDelivery:
		return "Agree delivery SLAs with penalties and qualify a backup supplier for critical items"
	case models.FactorQuality:
		return "Increase incoming inspection frequency and require a corrective action plan"
	case models.FactorReputation:
		return "Collect additional customer references before awarding large orders"
	case models.FactorCompliance:
		return "Schedule a compliance audit and request evidence of current certifications"
	case models.FactorGeopolitical:
		return "Diversify sourcing across regions and review contingency plans for disruption"
	default:
		return GenericRecommendation
	}
}

// recommendationsFor lists factor-specific advice for every factor scoring below the
// threshold, in factor order, or the generic advice if none qualified.
func recommendationsFor(factors []models.RiskFactor) []string {
	recs := make([]string, 0, len(factors))
	for _, f := range factors {
		if f.Score < RecommendationThreshold {
			recs = append(recs, Recommendation(f.Kind))
		}
	}
	if len(recs) == 0 {
		recs = append(recs, GenericRecommendation)
	}
	return recs
}
