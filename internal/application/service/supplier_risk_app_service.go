// Package service implements the supplier risk application services.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/bell24h/supplierrisk/internal/application/dto"
	"github.com/bell24h/supplierrisk/internal/domain/models"
	"github.com/bell24h/supplierrisk/internal/domain/repository"
	domainservice "github.com/bell24h/supplierrisk/internal/domain/service"
	"github.com/bell24h/supplierrisk/internal/infrastructure/monitoring"
	"github.com/bell24h/supplierrisk/pkg/constants"
	"github.com/bell24h/supplierrisk/pkg/errors"
	"github.com/bell24h/supplierrisk/pkg/logger"
	"github.com/bell24h/supplierrisk/pkg/utils"
)

// SupplierRiskAppService defines the supplier risk use cases.
// Every returned error is an errors.AppError.
// SupplierRiskAppService 定义供应商风险用例，返回的错误均为 errors.AppError。
type SupplierRiskAppService interface {
	// AssessSupplier looks up a stored supplier and assesses it.
	AssessSupplier(ctx context.Context, supplierID string) (*models.RiskScore, error)
	// AssessProfile assesses a supplier record supplied by the caller.
	AssessProfile(ctx context.Context, profile *models.SupplierProfile) (*models.RiskScore, error)
	// ListAssessments returns the stored assessment history of a supplier.
	ListAssessments(ctx context.Context, supplierID string, limit int) (*dto.AssessmentListResponse, error)
	// UpsertSupplier stores a supplier record and invalidates its cache entry.
	UpsertSupplier(ctx context.Context, profile *models.SupplierProfile) (*models.SupplierProfile, error)
	// ScoringModel describes the weighting and tiers in use.
	ScoringModel() *dto.ScoringModelResponse
}

// Dependencies groups the collaborators of the service. Cache, Assessments, Publisher,
// Metrics and Tracing are optional.
type Dependencies struct {
	Aggregator  *domainservice.RiskAggregator
	Suppliers   repository.SupplierRepository
	Assessments repository.AssessmentRepository
	Cache       domainservice.SupplierCache
	Publisher   domainservice.EventPublisher
	Metrics     domainservice.Metrics
	Tracing     *monitoring.TracingManager
	Logger      logger.Logger
	Clock       func() time.Time
}

type supplierRiskAppServiceImpl struct {
	aggregator  *domainservice.RiskAggregator
	suppliers   repository.SupplierRepository
	assessments repository.AssessmentRepository
	cache       domainservice.SupplierCache
	publisher   domainservice.EventPublisher
	metrics     domainservice.Metrics
	tracing     *monitoring.TracingManager
	log         logger.Logger
	clock       func() time.Time
	lookups     singleflight.Group
}

// NewSupplierRiskAppService creates a new SupplierRiskAppService.
func NewSupplierRiskAppService(deps Dependencies) SupplierRiskAppService {
	s := &supplierRiskAppServiceImpl{
		aggregator:  deps.Aggregator,
		suppliers:   deps.Suppliers,
		assessments: deps.Assessments,
		cache:       deps.Cache,
		publisher:   deps.Publisher,
		metrics:     deps.Metrics,
		tracing:     deps.Tracing,
		log:         deps.Logger,
		clock:       deps.Clock,
	}
	if s.aggregator == nil {
		s.aggregator = domainservice.NewRiskAggregator()
	}
	if s.metrics == nil {
		s.metrics = domainservice.NoopMetrics{}
	}
	if s.tracing == nil {
		s.tracing = monitoring.NewNoopTracingManager()
	}
	if s.log == nil {
		s.log = logger.NewNoopLogger()
	}
	if s.clock == nil {
		s.clock = func() time.Time { return time.Now().UTC() }
	}
	s.log = s.log.WithComponent("SupplierRiskAppService")
	return s
}

// AssessSupplier handles GET|POST /risk-score/:supplier_id.
func (s *supplierRiskAppServiceImpl) AssessSupplier(ctx context.Context, supplierID string) (*models.RiskScore, error) {
	var score *models.RiskScore
	err := monitoring.TraceOperation(ctx, s.tracing, "SupplierRiskAppService.AssessSupplier",
		map[string]interface{}{"supplier.id": supplierID},
		func(ctx context.Context) error {
			if supplierID == "" {
				return errors.ErrInvalidRequest("supplier id is required")
			}

			profile, err := s.loadSupplier(ctx, supplierID)
			if err != nil {
				if errors.IsNotFound(err) {
					s.log.Info(ctx, "Supplier not found", logger.String("supplier_id", supplierID))
				}
				return err
			}

			score = s.assess(ctx, profile)
			trace.SpanFromContext(ctx).SetAttributes(
				attribute.Float64("risk.score", score.Score),
				attribute.String("risk.level", string(score.RiskLevel)),
			)
			s.record(ctx, score)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return score, nil
}

// AssessProfile handles POST /supplier/risk-score. The record is validated first;
// it is stored in the history only when it carries an id.
func (s *supplierRiskAppServiceImpl) AssessProfile(ctx context.Context, profile *models.SupplierProfile) (*models.RiskScore, error) {
	var score *models.RiskScore
	err := monitoring.TraceOperation(ctx, s.tracing, "SupplierRiskAppService.AssessProfile", nil,
		func(ctx context.Context) error {
			if profile == nil {
				return errors.ErrInvalidRequest("supplier record is required")
			}
			if err := utils.ValidateStruct(profile); err != nil {
				return err
			}

			score = s.assess(ctx, profile)
			if profile.ID != "" {
				s.record(ctx, score)
			}
			return nil
		})
	if err != nil {
		return nil, err
	}
	return score, nil
}

func (s *supplierRiskAppServiceImpl) ListAssessments(ctx context.Context, supplierID string, limit int) (*dto.AssessmentListResponse, error) {
	var resp *dto.AssessmentListResponse
	err := monitoring.TraceOperation(ctx, s.tracing, "SupplierRiskAppService.ListAssessments",
		map[string]interface{}{"supplier.id": supplierID, "limit": limit},
		func(ctx context.Context) error {
			if supplierID == "" {
				return errors.ErrInvalidRequest("supplier id is required")
			}
			if limit < 0 || limit > constants.MaxAssessmentPageSize {
				return errors.ErrInvalidParameterFormat("limit", "integer between 1 and 200")
			}
			if s.assessments == nil {
				resp = dto.NewAssessmentListResponse(supplierID, nil)
				return nil
			}

			items, err := s.assessments.ListBySupplier(ctx, supplierID, limit)
			if err != nil {
				s.metrics.RecordStoreError("list_assessments")
				s.log.Error(ctx, "Failed to list assessments", err, logger.String("supplier_id", supplierID))
				return errors.ErrStoreUnavailable("list_assessments").WithCause(err)
			}
			resp = dto.NewAssessmentListResponse(supplierID, items)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *supplierRiskAppServiceImpl) UpsertSupplier(ctx context.Context, profile *models.SupplierProfile) (*models.SupplierProfile, error) {
	attrs := map[string]interface{}{}
	if profile != nil {
		attrs["supplier.id"] = profile.ID
	}
	err := monitoring.TraceOperation(ctx, s.tracing, "SupplierRiskAppService.UpsertSupplier", attrs,
		func(ctx context.Context) error {
			if profile == nil || profile.ID == "" {
				return errors.ErrInvalidRequest("supplier id is required")
			}
			if err := utils.ValidateStruct(profile); err != nil {
				return err
			}

			if err := s.suppliers.UpsertSupplier(ctx, profile); err != nil {
				s.metrics.RecordStoreError("upsert_supplier")
				s.log.Error(ctx, "Failed to upsert supplier", err, logger.String("supplier_id", profile.ID))
				return errors.ErrStoreUnavailable("upsert_supplier").WithCause(err)
			}

			if s.cache != nil {
				if err := s.cache.InvalidateSupplier(ctx, profile.ID); err != nil {
					s.log.Warn(ctx, "Failed to invalidate supplier cache", logger.String("supplier_id", profile.ID), logger.Err(err))
				}
			}

			s.log.Info(ctx, "Supplier upserted", logger.String("supplier_id", profile.ID))
			return nil
		})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *supplierRiskAppServiceImpl) ScoringModel() *dto.ScoringModelResponse {
	w := s.aggregator.Weights()
	resp := &dto.ScoringModelResponse{
		Tiers: []dto.TierRow{
			{Level: models.RiskLevelLow, MinScore: domainservice.LowRiskThreshold},
			{Level: models.RiskLevelModerate, MinScore: domainservice.ModerateRiskThreshold},
			{Level: models.RiskLevelHigh, MinScore: domainservice.HighRiskThreshold},
			{Level: models.RiskLevelSevere, MinScore: 0},
		},
		RecommendationThreshold: domainservice.RecommendationThreshold,
	}
	for _, kind := range models.AllFactorKinds {
		resp.Weights = append(resp.Weights, dto.WeightRow{Factor: kind.String(), Weight: w.For(kind)})
	}
	return resp
}

// loadSupplier resolves a supplier through the cache and the store. Concurrent lookups of
// the same id share one store round trip, which runs detached from any single caller so
// one cancelled request does not fail the others.
func (s *supplierRiskAppServiceImpl) loadSupplier(ctx context.Context, supplierID string) (*models.SupplierProfile, error) {
	if s.cache != nil {
		cached, err := s.cache.GetSupplier(ctx, supplierID)
		if err != nil {
			s.log.Warn(ctx, "Supplier cache unavailable, falling back to store", logger.String("supplier_id", supplierID), logger.Err(err))
		}
		if cached != nil {
			s.metrics.RecordCacheAccess("supplier", true)
			return cached, nil
		}
		s.metrics.RecordCacheAccess("supplier", false)
	}

	ch := s.lookups.DoChan(supplierID, func() (interface{}, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.StoreLookupTimeout)
		defer cancel()

		profile, err := s.suppliers.GetSupplierByID(lookupCtx, supplierID)
		if err != nil {
			s.metrics.RecordStoreError("get_supplier")
			s.log.Error(lookupCtx, "Supplier store lookup failed", err, logger.String("supplier_id", supplierID))
			return nil, errors.ErrStoreUnavailable("get_supplier").WithCause(err)
		}
		if profile == nil {
			return nil, errors.ErrSupplierNotFound(supplierID)
		}
		if s.cache != nil {
			if err := s.cache.SetSupplier(lookupCtx, profile); err != nil {
				s.log.Warn(lookupCtx, "Failed to populate supplier cache", logger.String("supplier_id", supplierID), logger.Err(err))
			}
		}
		return profile, nil
	})

	select {
	case <-ctx.Done():
		return nil, errors.ErrStoreUnavailable("get_supplier").WithCause(ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.SupplierProfile), nil
	}
}

func (s *supplierRiskAppServiceImpl) assess(ctx context.Context, profile *models.SupplierProfile) *models.RiskScore {
	start := time.Now()
	score := s.aggregator.ComputeRiskScore(ctx, profile)
	s.metrics.RecordAssessment(score, time.Since(start))

	s.log.Info(ctx, "Supplier assessed",
		logger.String("supplier_id", score.SupplierID),
		logger.Float64("score", score.Score),
		logger.String("risk_level", string(score.RiskLevel)),
	)
	return score
}

// record persists the assessment and announces it. Both steps are best effort: a failure
// is logged and never changes the response.
func (s *supplierRiskAppServiceImpl) record(ctx context.Context, score *models.RiskScore) {
	assessment := &models.RiskAssessment{ID: uuid.NewString(), RiskScore: *score}

	if s.assessments != nil {
		if err := s.assessments.SaveAssessment(ctx, assessment); err != nil {
			s.metrics.RecordStoreError("save_assessment")
			s.log.Error(ctx, "Failed to persist assessment", err, logger.String("supplier_id", score.SupplierID))
		}
	}

	if s.publisher != nil {
		event := models.RiskAssessedEvent{
			EventID:      uuid.NewString(),
			EventType:    constants.EventTypeRiskAssessed,
			AssessmentID: assessment.ID,
			SupplierID:   score.SupplierID,
			Score:        score.Score,
			RiskLevel:    score.RiskLevel,
			OccurredAt:   s.clock(),
		}
		if err := s.publisher.PublishRiskAssessed(ctx, event); err != nil {
			s.log.Warn(ctx, "Failed to publish risk assessed event", logger.String("supplier_id", score.SupplierID), logger.Err(err))
		}
	}
}

//Personal.AI order the ending
