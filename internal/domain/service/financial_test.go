package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/bell24h/supplierrisk/internal/domain/models"
)

func ptr(f float64) *float64 { return &f }

func TestReportHealth(t *testing.T) {
	tests := []struct {
		name     string
		report   models.FinancialReport
		expected float64
	}{
		{
			name:     "explicit health score wins",
			report:   models.FinancialReport{HealthScore: ptr(72), Revenue: decimal.NewFromInt(100)},
			expected: 72,
		},
		{
			name:     "explicit health score clamped",
			report:   models.FinancialReport{HealthScore: ptr(140)},
			expected: 100,
		},
		{
			name:     "no figures",
			report:   models.FinancialReport{},
			expected: NeutralHealthScore,
		},
		{
			name: "margin only",
			// 50 + 0.1 * 250
			report:   models.FinancialReport{Revenue: decimal.NewFromInt(1000), NetIncome: decimal.NewFromInt(100)},
			expected: 75,
		},
		{
			name: "all ratios",
			// margin 75, leverage 100-0.5*40=80, liquidity 2*50=100
			report: models.FinancialReport{
				Revenue:            decimal.NewFromInt(1000),
				NetIncome:          decimal.NewFromInt(100),
				TotalDebt:          decimal.NewFromInt(500),
				TotalEquity:        decimal.NewFromInt(1000),
				CurrentAssets:      decimal.NewFromInt(400),
				CurrentLiabilities: decimal.NewFromInt(200),
			},
			expected: 85,
		},
		{
			name: "heavy losses clamp to zero",
			report: models.FinancialReport{
				Revenue:   decimal.NewFromInt(100),
				NetIncome: decimal.NewFromInt(-500),
			},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, ReportHealth(tt.report), 1e-4)
		})
	}
}

func TestAverageHealth(t *testing.T) {
	assert.Equal(t, NeutralHealthScore, AverageHealth(nil))
	assert.InDelta(t, 60.0, AverageHealth([]models.FinancialReport{
		{HealthScore: ptr(40)},
		{HealthScore: ptr(80)},
	}), 1e-9)
}

func TestFinancialFactor_UsesReports(t *testing.T) {
	p := &models.SupplierProfile{
		CreditScore:      50,
		FinancialReports: []models.FinancialReport{{HealthScore: ptr(100)}},
	}
	score, insights := financialFactor(p)
	// 0.4*50 + 0.4*50 + 0.2*100
	assert.InDelta(t, 60.0, score, 1e-9)
	assert.Len(t, insights, 3)
}
