package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bell24h/supplierrisk/internal/domain/models"
	"github.com/bell24h/supplierrisk/pkg/constants"
	"github.com/bell24h/supplierrisk/pkg/logger"
)

// RiskAggregator turns a supplier profile into a weighted risk score.
// It holds no mutable state and is safe for concurrent use.
// RiskAggregator 将供应商档案转换为加权风险评分，无可变状态，可并发使用。
type RiskAggregator struct {
	weights       Weights
	locations     *LocationTable
	political     PoliticalRiskProvider
	lookupTimeout time.Duration
	clock         func() time.Time
	metrics       Metrics
	logger        logger.Logger
}

// AggregatorOption configures a RiskAggregator.
type AggregatorOption func(*RiskAggregator)

// WithClock overrides the timestamp source.
func WithClock(clock func() time.Time) AggregatorOption {
	return func(a *RiskAggregator) {
		if clock != nil {
			a.clock = clock
		}
	}
}

// WithPoliticalProvider sets the political risk source. Without one the default risk is used.
func WithPoliticalProvider(p PoliticalRiskProvider) AggregatorOption {
	return func(a *RiskAggregator) { a.political = p }
}

// WithLookupTimeout bounds each political risk lookup.
func WithLookupTimeout(d time.Duration) AggregatorOption {
	return func(a *RiskAggregator) {
		if d > 0 {
			a.lookupTimeout = d
		}
	}
}

// WithLocations replaces the location classification table.
func WithLocations(t *LocationTable) AggregatorOption {
	return func(a *RiskAggregator) {
		if t != nil {
			a.locations = t
		}
	}
}

// WithMetrics records political lookup outcomes.
func WithMetrics(m Metrics) AggregatorOption {
	return func(a *RiskAggregator) {
		if m != nil {
			a.metrics = m
		}
	}
}

// WithLogger sets the logger used for degraded lookups.
func WithLogger(l logger.Logger) AggregatorOption {
	return func(a *RiskAggregator) {
		if l != nil {
			a.logger = l.WithComponent("RiskAggregator")
		}
	}
}

// NewRiskAggregator creates an aggregator with the canonical weights and default location table.
func NewRiskAggregator(opts ...AggregatorOption) *RiskAggregator {
	a := &RiskAggregator{
		weights:       CanonicalWeights(),
		locations:     DefaultLocationTable(),
		lookupTimeout: constants.DefaultPoliticalLookupTimeout,
		clock:         func() time.Time { return time.Now().UTC() },
		metrics:       NoopMetrics{},
		logger:        logger.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Weights returns the weighting in use.
func (a *RiskAggregator) Weights() Weights {
	return a.weights
}

// ComputeRiskScore assesses a supplier. It never fails: missing or malformed attributes
// fall back to neutral defaults and a failing political lookup falls back to DefaultPoliticalRisk.
// A nil profile is assessed as an empty one.
func (a *RiskAggregator) ComputeRiskScore(ctx context.Context, supplier *models.SupplierProfile) *models.RiskScore {
	if supplier == nil {
		supplier = &models.SupplierProfile{}
	}

	locationRisk, known := a.locations.Risk(supplier.Location)
	politicalRisk, politicalInsight := a.lookupPoliticalRisk(ctx, supplier.Location)

	factors := make([]models.RiskFactor, 0, len(models.AllFactorKinds))
	for _, kind := range models.AllFactorKinds {
		var (
			score    float64
			insights []string
		)
		switch kind {
		case models.FactorFinancial:
			score, insights = financialFactor(supplier)
		case models.FactorDelivery:
			score, insights = deliveryFactor(supplier)
		case models.FactorQuality:
			score, insights = qualityFactor(supplier)
		case models.FactorReputation:
			score, insights = reputationFactor(supplier)
		case models.FactorCompliance:
			score, insights = complianceFactor(supplier)
		case models.FactorGeopolitical:
			score, insights = geopoliticalFactor(supplier.Location, locationRisk, known, politicalRisk, politicalInsight)
		}
		factors = append(factors, models.RiskFactor{
			Kind:     kind,
			Name:     kind.String(),
			Score:    round2(score),
			Weight:   a.weights.For(kind),
			Insights: insights,
		})
	}

	total := 0.0
	for _, f := range factors {
		total += f.Score * f.Weight
	}
	total = round2(clampScore(total))

	return &models.RiskScore{
		SupplierID:      supplier.ID,
		Score:           total,
		RiskLevel:       ClassifyScore(total),
		Factors:         factors,
		Recommendations: recommendationsFor(factors),
		Timestamp:       a.clock(),
	}
}

type politicalResult struct {
	risk float64
	err  error
}

// lookupPoliticalRisk calls the provider once under the lookup timeout. Errors, panics,
// out-of-range values and timeouts all yield DefaultPoliticalRisk plus an explanatory insight.
func (a *RiskAggregator) lookupPoliticalRisk(ctx context.Context, location string) (float64, string) {
	if a.political == nil {
		return DefaultPoliticalRisk, ""
	}
	if ctx == nil {
		ctx = context.Background()
	}

	lookupCtx, cancel := context.WithTimeout(ctx, a.lookupTimeout)
	defer cancel()

	resultCh := make(chan politicalResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				resultCh <- politicalResult{err: fmt.Errorf("political risk provider panicked: %v", r)}
			}
		}()
		risk, err := a.political.PoliticalRisk(lookupCtx, location)
		resultCh <- politicalResult{risk: risk, err: err}
	}()

	var res politicalResult
	select {
	case res = <-resultCh:
	case <-lookupCtx.Done():
		res = politicalResult{err: lookupCtx.Err()}
	}

	if res.err == nil && (res.risk != sanitize(res.risk) || res.risk < 0 || res.risk > 100) {
		res.err = fmt.Errorf("political risk out of range: %v", res.risk)
	}
	if res.err != nil {
		a.metrics.RecordPoliticalLookup("provider", false)
		a.logger.Warn(ctx, "Political risk lookup failed, using default",
			logger.String("location", location),
			logger.Err(res.err),
		)
		return DefaultPoliticalRisk, "Political risk unavailable; default applied"
	}

	a.metrics.RecordPoliticalLookup("provider", true)
	return res.risk, ""
}
