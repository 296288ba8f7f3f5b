// Package geopolitics provides political risk sources for the geopolitical risk factor.
package geopolitics

import (
	"context"

	"github.com/bell24h/supplierrisk/internal/domain/service"
)

// StaticProvider returns the same political risk for every location.
// It stands in for a real feed when none is configured.
type StaticProvider struct {
	Risk float64
}

var _ service.PoliticalRiskProvider = StaticProvider{}

// NewStaticProvider returns a provider answering service.DefaultPoliticalRisk.
func NewStaticProvider() StaticProvider {
	return StaticProvider{Risk: service.DefaultPoliticalRisk}
}

func (p StaticProvider) PoliticalRisk(context.Context, string) (float64, error) {
	return p.Risk, nil
}
