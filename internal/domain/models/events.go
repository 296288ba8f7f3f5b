package models

import "time"

// RiskAssessedEvent is published after every completed supplier assessment.
type RiskAssessedEvent struct {
	EventID      string    `json:"event_id"`
	EventType    string    `json:"event_type"`
	AssessmentID string    `json:"assessment_id,omitempty"`
	SupplierID   string    `json:"supplier_id"`
	Score        float64   `json:"score"`
	RiskLevel    RiskLevel `json:"risk_level"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// SupplierUpdatedEvent carries a refreshed supplier record from the marketplace.
type SupplierUpdatedEvent struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	Supplier   SupplierProfile `json:"supplier"`
	OccurredAt time.Time       `json:"occurred_at"`
}
