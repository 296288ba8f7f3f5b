package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRecord is a single settled invoice from the supplier's payment history.
type PaymentRecord struct {
	OnTime   bool            `json:"onTime"`
	Amount   decimal.Decimal `json:"amount"`
	DueDate  *time.Time      `json:"dueDate,omitempty"`
	DaysLate int             `json:"daysLate,omitempty" validate:"gte=0"`
}

// DeliveryStats summarises fulfilment performance. Percentages are on a 0-100 scale.
type DeliveryStats struct {
	OnTimePercentage float64 `json:"onTimePercentage" validate:"gte=0,lte=100"`
	AverageDelay     float64 `json:"averageDelay" validate:"gte=0"` // days
	ReturnRate       float64 `json:"returnRate" validate:"gte=0,lte=100"`
}

// FinancialReport carries raw figures from a filed statement. HealthScore, when present,
// overrides the score derived from the figures.
type FinancialReport struct {
	Period             string          `json:"period,omitempty"`
	Revenue            decimal.Decimal `json:"revenue"`
	NetIncome          decimal.Decimal `json:"netIncome"`
	TotalDebt          decimal.Decimal `json:"totalDebt"`
	TotalEquity        decimal.Decimal `json:"totalEquity"`
	CurrentAssets      decimal.Decimal `json:"currentAssets"`
	CurrentLiabilities decimal.Decimal `json:"currentLiabilities"`
	HealthScore        *float64        `json:"healthScore,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// SupplierProfile is the read-only input of a risk assessment. Every attribute is optional;
// the aggregator substitutes documented defaults for anything missing.
type SupplierProfile struct {
	ID                   string            `json:"id,omitempty"`
	Name                 string            `json:"name,omitempty"`
	PaymentHistory       []PaymentRecord   `json:"paymentHistory,omitempty" validate:"omitempty,dive"`
	CreditScore          float64           `json:"creditScore,omitempty" validate:"gte=0,lte=100"`
	DeliveryStats        *DeliveryStats    `json:"deliveryStats,omitempty"`
	QualityScore         float64           `json:"qualityScore,omitempty" validate:"gte=0,lte=100"`
	CustomerSatisfaction float64           `json:"customerSatisfaction,omitempty" validate:"gte=0,lte=100"`
	YearsInBusiness      float64           `json:"yearsInBusiness,omitempty" validate:"gte=0"`
	ReviewScore          float64           `json:"reviewScore,omitempty" validate:"gte=0,lte=100"`
	IndustryRank         float64           `json:"industryRank,omitempty" validate:"gte=0,lte=100"`
	Certifications       []string          `json:"certifications,omitempty"`
	Violations           []string          `json:"violations,omitempty"`
	LastAuditScore       float64           `json:"lastAuditScore,omitempty" validate:"gte=0,lte=100"`
	Location             string            `json:"location,omitempty"`
	FinancialReports     []FinancialReport `json:"financialReports,omitempty" validate:"omitempty,dive"`
	UpdatedAt            time.Time         `json:"updatedAt,omitempty"`
}
