package service

import (
	"fmt"
	"math"

	"github.com/bell24h/supplierrisk/internal/domain/models"
)

// NeutralPaymentRatio is the on-time ratio assumed for a supplier without payment history.
const NeutralPaymentRatio = 0.5

// DefaultPoliticalRisk is used when the political risk provider is absent, fails or times out.
const DefaultPoliticalRisk = 50.0

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func clampScore(v float64) float64 {
	return math.Max(0, math.Min(100, sanitize(v)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func financialFactor(p *models.SupplierProfile) (float64, []string) {
	ratio := NeutralPaymentRatio
	var insights []string
	if n := len(p.PaymentHistory); n > 0 {
		onTime := 0
		for _, rec := range p.PaymentHistory {
			if rec.OnTime {
				onTime++
			}
		}
		ratio = float64(onTime) / float64(n)
		insights = append(insights, fmt.Sprintf("%d of %d payments on time (%.0f%%)", onTime, n, ratio*100))
	} else {
		insights = append(insights, "No payment history; neutral on-time ratio assumed")
	}

	credit := clampScore(p.CreditScore)
	insights = append(insights, fmt.Sprintf("Credit score %.1f", credit))

	health := AverageHealth(p.FinancialReports)
	if len(p.FinancialReports) == 0 {
		insights = append(insights, "No financial reports; neutral health assumed")
	} else {
		insights = append(insights, fmt.Sprintf("Average financial health %.1f across %d reports", health, len(p.FinancialReports)))
	}

	score := 0.4*(ratio*100) + 0.4*credit + 0.2*health
	return clampScore(score), insights
}

func deliveryFactor(p *models.SupplierProfile) (float64, []string) {
	var stats models.DeliveryStats
	if p.DeliveryStats != nil {
		stats = *p.DeliveryStats
	}
	onTime := clampScore(stats.OnTimePercentage)
	delay := math.Min(math.Max(sanitize(stats.AverageDelay), 0), 100)
	returns := clampScore(stats.ReturnRate)

	insights := []string{
		fmt.Sprintf("On-time delivery %.1f%%", onTime),
		fmt.Sprintf("Average delay %.1f days", delay),
		fmt.Sprintf("Return rate %.1f%%", returns),
	}
	if p.DeliveryStats == nil {
		insights = append(insights, "No delivery statistics reported")
	}

	score := 0.5*onTime + 0.3*(100-delay) + 0.2*(100-returns)
	return clampScore(score), insights
}

func qualityFactor(p *models.SupplierProfile) (float64, []string) {
	q := clampScore(p.QualityScore)
	cs := clampScore(p.CustomerSatisfaction)
	insights := []string{
		fmt.Sprintf("Quality score %.1f", q),
		fmt.Sprintf("Customer satisfaction %.1f", cs),
	}
	return clampScore(0.6*q + 0.4*cs), insights
}

func reputationFactor(p *models.SupplierProfile) (float64, []string) {
	years := math.Min(math.Max(sanitize(p.YearsInBusiness), 0), 10)
	review := clampScore(p.ReviewScore)
	rank := clampScore(p.IndustryRank)
	insights := []string{
		fmt.Sprintf("%.1f years in business", math.Max(sanitize(p.YearsInBusiness), 0)),
		fmt.Sprintf("Review score %.1f", review),
		fmt.Sprintf("Industry rank %.0f", rank),
	}
	score := (years*10 + review + (100 - rank)) / 3
	return clampScore(score), insights
}

func complianceFactor(p *models.SupplierProfile) (float64, []string) {
	certs := len(p.Certifications)
	violations := len(p.Violations)
	audit := clampScore(p.LastAuditScore)

	// Terms are combined unbounded; only the average is clamped.
	certScore := float64(certs) * 20
	violationScore := 100 - float64(violations)*10

	insights := []string{
		fmt.Sprintf("%d certifications", certs),
		fmt.Sprintf("%d violations on record", violations),
		fmt.Sprintf("Last audit score %.1f", audit),
	}
	return clampScore((certScore + violationScore + audit) / 3), insights
}

func geopoliticalFactor(location string, locationRisk float64, known bool, politicalRisk float64, politicalInsight string) (float64, []string) {
	var insights []string
	switch {
	case location == "":
		insights = append(insights, "No location reported; medium location risk assumed")
	case !known:
		insights = append(insights, fmt.Sprintf("Location %q not classified; medium location risk assumed", location))
	default:
		insights = append(insights, fmt.Sprintf("Location %q risk %.0f", location, locationRisk))
	}
	insights = append(insights, fmt.Sprintf("Political risk %.1f", politicalRisk))
	if politicalInsight != "" {
		insights = append(insights, politicalInsight)
	}

	score := 100 - (locationRisk+politicalRisk)/2
	return clampScore(score), insights
}
