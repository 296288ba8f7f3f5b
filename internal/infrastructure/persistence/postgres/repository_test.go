package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bell24h/supplierrisk/internal/domain/models"
	"github.com/bell24h/supplierrisk/pkg/logger"
)

func newTestConnection(t *testing.T) *DBConnection {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := NewSQLiteConnection(dsn, logger.NewNoopLogger())
	require.NoError(t, err)
	require.NoError(t, conn.Migrate(context.Background()))
	t.Cleanup(conn.Close)
	return conn
}

func TestSupplierRepository_GetMissing(t *testing.T) {
	repo := NewSupplierRepository(newTestConnection(t).DB())

	profile, err := repo.GetSupplierByID(context.Background(), "nope")
	assert.NoError(t, err)
	assert.Nil(t, profile)
}

func TestSupplierRepository_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewSupplierRepository(newTestConnection(t).DB())
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	health := 70.0
	profile := &models.SupplierProfile{
		ID:             "sup-1",
		Name:           "Acme Metals",
		CreditScore:    75,
		PaymentHistory: []models.PaymentRecord{{OnTime: true, Amount: decimal.NewFromInt(1200)}, {OnTime: false, DaysLate: 4}},
		DeliveryStats:  &models.DeliveryStats{OnTimePercentage: 91, AverageDelay: 2, ReturnRate: 1.5},
		Certifications: []string{"ISO9001"},
		Location:       "Location C",
		FinancialReports: []models.FinancialReport{
			{Period: "2024", Revenue: decimal.RequireFromString("1000000.50"), HealthScore: &health},
		},
	}
	require.NoError(t, repo.UpsertSupplier(ctx, profile))

	got, err := repo.GetSupplierByID(ctx, "sup-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Acme Metals", got.Name)
	assert.Equal(t, 75.0, got.CreditScore)
	assert.Len(t, got.PaymentHistory, 2)
	assert.True(t, got.PaymentHistory[0].Amount.Equal(decimal.NewFromInt(1200)))
	require.NotNil(t, got.DeliveryStats)
	assert.Equal(t, 91.0, got.DeliveryStats.OnTimePercentage)
	require.Len(t, got.FinancialReports, 1)
	assert.True(t, got.FinancialReports[0].Revenue.Equal(decimal.RequireFromString("1000000.50")))
	assert.True(t, fixed.Equal(got.UpdatedAt))

	profile.Name = "Acme Metals Ltd"
	profile.CreditScore = 40
	require.NoError(t, repo.UpsertSupplier(ctx, profile))

	got, err = repo.GetSupplierByID(ctx, "sup-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Metals Ltd", got.Name)
	assert.Equal(t, 40.0, got.CreditScore)
}

func TestAssessmentRepository_SaveAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewAssessmentRepository(newTestConnection(t).DB())
	base := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.SaveAssessment(ctx, &models.RiskAssessment{
			ID: uuid.NewString(),
			RiskScore: models.RiskScore{
				SupplierID: "sup-1",
				Score:      float64(50 + i*10),
				RiskLevel:  models.RiskLevelHigh,
				Factors: []models.RiskFactor{
					{Kind: models.FactorCompliance, Name: models.FactorCompliance.String(), Score: 40, Weight: 0.1, Insights: []string{"0 certifications"}},
				},
				Recommendations: []string{"Schedule a compliance audit"},
				Timestamp:       base.Add(time.Duration(i) * time.Hour),
			},
		}))
	}
	require.NoError(t, repo.SaveAssessment(ctx, &models.RiskAssessment{
		ID:        uuid.NewString(),
		RiskScore: models.RiskScore{SupplierID: "sup-2", Score: 90, RiskLevel: models.RiskLevelLow, Timestamp: base},
	}))

	list, err := repo.ListBySupplier(ctx, "sup-1", 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 70.0, list[0].Score)
	assert.Equal(t, 60.0, list[1].Score)
	assert.True(t, list[0].Timestamp.After(list[1].Timestamp))
	require.Len(t, list[0].Factors, 1)
	assert.Equal(t, models.FactorCompliance, list[0].Factors[0].Kind)
	assert.Equal(t, []string{"Schedule a compliance audit"}, list[0].Recommendations)

	all, err := repo.ListBySupplier(ctx, "sup-1", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := repo.ListBySupplier(ctx, "unknown", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDBConnection_HealthCheck(t *testing.T) {
	conn := newTestConnection(t)
	info, err := conn.HealthCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", info["status"])
	assert.Equal(t, "sqlite", info["driver"])
}
