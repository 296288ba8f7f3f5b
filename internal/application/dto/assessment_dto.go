// Package dto holds the request and response shapes of the application layer.
package dto

import "github.com/bell24h/supplierrisk/internal/domain/models"

// AssessmentListResponse is the assessment history of a supplier, newest first.
type AssessmentListResponse struct {
	SupplierID  string                   `json:"supplierId"`
	Count       int                      `json:"count"`
	Assessments []*models.RiskAssessment `json:"assessments"`
}

// NewAssessmentListResponse wraps a history page. A nil page is rendered as an empty list.
func NewAssessmentListResponse(supplierID string, items []*models.RiskAssessment) *AssessmentListResponse {
	if items == nil {
		items = []*models.RiskAssessment{}
	}
	return &AssessmentListResponse{SupplierID: supplierID, Count: len(items), Assessments: items}
}

// WeightRow describes one factor of the canonical weighting.
type WeightRow struct {
	Factor string  `json:"factor"`
	Weight float64 `json:"weight"`
}

// TierRow describes the lower bound of one risk tier.
type TierRow struct {
	Level    models.RiskLevel `json:"riskLevel"`
	MinScore float64          `json:"minScore"`
}

// ScoringModelResponse documents the weighting and tier table in use.
type ScoringModelResponse struct {
	Weights                 []WeightRow `json:"weights"`
	Tiers                   []TierRow   `json:"tiers"`
	RecommendationThreshold float64     `json:"recommendationThreshold"`
}
