package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	appservice "github.com/bell24h/supplierrisk/internal/application/service"
	"github.com/bell24h/supplierrisk/internal/config"
	"github.com/bell24h/supplierrisk/internal/domain/models"
	domainservice "github.com/bell24h/supplierrisk/internal/domain/service"
	"github.com/bell24h/supplierrisk/internal/infrastructure/consumers"
	"github.com/bell24h/supplierrisk/internal/infrastructure/geopolitics"
	"github.com/bell24h/supplierrisk/internal/infrastructure/messaging"
	"github.com/bell24h/supplierrisk/internal/infrastructure/monitoring"
	"github.com/bell24h/supplierrisk/internal/infrastructure/persistence/postgres"
	"github.com/bell24h/supplierrisk/internal/infrastructure/persistence/redis"
	"github.com/bell24h/supplierrisk/internal/infrastructure/secrets"
	grpcserver "github.com/bell24h/supplierrisk/internal/interfaces/grpc"
	"github.com/bell24h/supplierrisk/internal/interfaces/http"
	"github.com/bell24h/supplierrisk/internal/interfaces/http/handlers"
	"github.com/bell24h/supplierrisk/internal/interfaces/http/middleware"
	"github.com/bell24h/supplierrisk/pkg/logger"
)

const shutdownTimeout = 30 * time.Second

// supplierUpdater adapts the application service to the consumer's narrower contract.
type supplierUpdater struct {
	svc appservice.SupplierRiskAppService
}

func (u supplierUpdater) UpsertSupplier(ctx context.Context, profile *models.SupplierProfile) error {
	_, err := u.svc.UpsertSupplier(ctx, profile)
	return err
}

func main() {
	configFile := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	// Logger for startup
	startupLogger, _, err := monitoring.NewZapLogger(&config.LogConfig{Level: "info", Format: "json"})
	if err != nil {
		log.Fatalf("Failed to create startup logger: %v", err)
	}

	// Load config
	loader := config.NewLoader(*configFile, startupLogger)
	cfg, err := loader.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger, setLevel, err := monitoring.NewZapLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	loader.WatchConfig(func(next *config.Config) {
		setLevel(next.Log.Level)
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Error(context.Background(), "Service terminated with error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, appLogger logger.Logger) error {
	// Initialize tracing
	tracing, err := monitoring.NewTracingManager(cfg, appLogger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tracing.Shutdown(shutdownCtx)
	}()

	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)
	metricsAdapter := monitoring.NewMetricsAdapter(metrics)

	// Resolve secrets
	if cfg.Vault.Enabled {
		resolver, err := secrets.NewVaultResolver(cfg.Vault, appLogger)
		if err != nil {
			return err
		}
		if err := resolver.ResolveDatabasePassword(ctx, &cfg.Database); err != nil {
			return err
		}
	}

	// Initialize database
	db, err := postgres.Open(ctx, &cfg.Database, appLogger)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		return err
	}

	healthChecks := map[string]handlers.Pinger{"database": db}
	grpcChecks := map[string]grpcserver.Pinger{"database": db}

	deps := appservice.Dependencies{
		Suppliers:   postgres.NewSupplierRepository(db.DB()),
		Assessments: postgres.NewAssessmentRepository(db.DB()),
		Metrics:     metricsAdapter,
		Tracing:     tracing,
		Logger:      appLogger,
	}

	// Initialize Redis
	if cfg.Redis.Enabled {
		redisConn, err := redis.NewRedisConnection(ctx, &cfg.Redis, appLogger)
		if err != nil {
			return err
		}
		defer redisConn.Close()
		deps.Cache = redis.NewSupplierCache(redisConn.Client(), cfg.Cache.SupplierTTL, appLogger)
		healthChecks["redis"] = redisConn
		grpcChecks["redis"] = redisConn
	}

	// Political risk: external feed behind a cache, or the static stub
	var political domainservice.PoliticalRiskProvider = geopolitics.NewStaticProvider()
	if cfg.Risk.PoliticalFeedURL != "" {
		feed := geopolitics.NewFeedClient(cfg.Risk.PoliticalFeedURL, appLogger)
		political = geopolitics.NewCachedProvider(feed, cfg.Cache.PoliticalTTL, metricsAdapter)
	}

	deps.Aggregator = domainservice.NewRiskAggregator(
		domainservice.WithPoliticalProvider(political),
		domainservice.WithLookupTimeout(cfg.Risk.PoliticalLookupTimeout),
		domainservice.WithLocations(domainservice.NewLocationTable(
			cfg.Risk.HighRiskLocations,
			cfg.Risk.MediumRiskLocations,
			cfg.Risk.LowRiskLocations,
		)),
		domainservice.WithMetrics(metricsAdapter),
		domainservice.WithLogger(appLogger),
	)

	// Messaging
	if cfg.Kafka.Enabled {
		publisher := messaging.NewKafkaPublisher(cfg.Kafka, appLogger)
		defer publisher.Close()
		deps.Publisher = publisher
	}

	svc := appservice.NewSupplierRiskAppService(deps)

	router := http.NewRouter(
		http.RouterDeps{
			Config:   cfg,
			Logger:   appLogger,
			Tracer:   tracing.Tracer(),
			Recorder: metrics,
		},
		handlers.NewHealthHandler(healthChecks, appLogger),
		handlers.NewRiskHandler(svc),
		handlers.NewSupplierHandler(svc),
	)

	var grpcLimiter grpcserver.Limiter
	if cfg.RateLimit.Enabled {
		grpcLimiter = middleware.NewRateLimiter(cfg.RateLimit.DefaultRPM, cfg.RateLimit.BurstSize)
	}
	grpcSrv := grpcserver.NewServer(cfg.Server.GRPCPort, grpcChecks, grpcserver.NewInterceptorChain(appLogger, grpcLimiter), appLogger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(router.Start)
	g.Go(grpcSrv.Serve)
	g.Go(func() error {
		grpcSrv.WatchDependencies(gctx, 15*time.Second)
		return nil
	})
	if cfg.Kafka.Enabled {
		consumer := consumers.NewSupplierUpdateConsumer(cfg.Kafka, supplierUpdater{svc: svc}, metrics, appLogger)
		g.Go(func() error {
			defer consumer.Close()
			return consumer.Start(gctx)
		})
	}

	// 优雅关闭
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info(context.Background(), "Shutting down servers...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		grpcSrv.Stop()
		return router.Stop(shutdownCtx)
	})

	appLogger.Info(ctx, "Supplier risk service started",
		logger.Int("http_port", cfg.Server.Port),
		logger.Int("grpc_port", cfg.Server.GRPCPort),
		logger.String("environment", cfg.Server.Environment),
	)
	return g.Wait()
}

//Personal.AI order the ending
