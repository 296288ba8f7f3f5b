package geopolitics

import (
	"context"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/bell24h/supplierrisk/internal/domain/service"
	"github.com/bell24h/supplierrisk/pkg/constants"
)

// CachedProvider memoises another provider's answers in process memory.
// Failures are not cached.
type CachedProvider struct {
	next    service.PoliticalRiskProvider
	cache   *cache.Cache
	metrics service.Metrics
	source  string
}

var _ service.PoliticalRiskProvider = (*CachedProvider)(nil)

// NewCachedProvider wraps next with a ttl-bound cache. A non-positive ttl selects the default.
func NewCachedProvider(next service.PoliticalRiskProvider, ttl time.Duration, metrics service.Metrics) *CachedProvider {
	if ttl <= 0 {
		ttl = constants.DefaultPoliticalRiskTTL
	}
	if metrics == nil {
		metrics = service.NoopMetrics{}
	}
	return &CachedProvider{
		next:    next,
		cache:   cache.New(ttl, 2*ttl),
		metrics: metrics,
		source:  "political",
	}
}

func (p *CachedProvider) PoliticalRisk(ctx context.Context, location string) (float64, error) {
	key := strings.ToLower(strings.TrimSpace(location))
	if v, found := p.cache.Get(key); found {
		if risk, ok := v.(float64); ok {
			p.metrics.RecordCacheAccess(p.source, true)
			return risk, nil
		}
	}
	p.metrics.RecordCacheAccess(p.source, false)

	risk, err := p.next.PoliticalRisk(ctx, location)
	if err != nil {
		return 0, err
	}
	p.cache.SetDefault(key, risk)
	return risk, nil
}

// Flush drops every cached rating.
func (p *CachedProvider) Flush() {
	p.cache.Flush()
}
