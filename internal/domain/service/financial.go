package service

import (
	"github.com/shopspring/decimal"

	"github.com/bell24h/supplierrisk/internal/domain/models"
)

// NeutralHealthScore is used when no financial figures are available.
const NeutralHealthScore = 50.0

var (
	decHundred = decimal.NewFromInt(100)
	decFifty   = decimal.NewFromInt(50)
)

// ReportHealth returns the health score of a single report. An explicit HealthScore wins;
// otherwise the score is the mean of the ratio scores that the figures allow:
//
//	margin   = clamp(50 + netIncome/revenue × 250)
//	leverage = clamp(100 − debt/equity × 40)
//	liquidity = clamp(currentAssets/currentLiabilities × 50)
func ReportHealth(r models.FinancialReport) float64 {
	if r.HealthScore != nil {
		return clampScore(sanitize(*r.HealthScore))
	}

	var parts []decimal.Decimal
	if r.Revenue.IsPositive() {
		margin := r.NetIncome.Div(r.Revenue)
		parts = append(parts, clampDecimal(decFifty.Add(margin.Mul(decimal.NewFromInt(250)))))
	}
	if r.TotalEquity.IsPositive() {
		de := r.TotalDebt.Div(r.TotalEquity)
		parts = append(parts, clampDecimal(decHundred.Sub(de.Mul(decimal.NewFromInt(40)))))
	}
	if r.CurrentLiabilities.IsPositive() {
		cr := r.CurrentAssets.Div(r.CurrentLiabilities)
		parts = append(parts, clampDecimal(cr.Mul(decFifty)))
	}
	if len(parts) == 0 {
		return NeutralHealthScore
	}

	avg := decimal.Avg(parts[0], parts[1:]...)
	f, _ := avg.Round(4).Float64()
	return f
}

// AverageHealth returns the mean report health, or the neutral score when there are no reports.
func AverageHealth(reports []models.FinancialReport) float64 {
	if len(reports) == 0 {
		return NeutralHealthScore
	}
	total := 0.0
	for _, r := range reports {
		total += ReportHealth(r)
	}
	return total / float64(len(reports))
}

func clampDecimal(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	if d.GreaterThan(decHundred) {
		return decHundred
	}
	return d
}
