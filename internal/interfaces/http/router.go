package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/bell24h/supplierrisk/internal/config"
	"github.com/bell24h/supplierrisk/internal/interfaces/http/handlers"
	"github.com/bell24h/supplierrisk/internal/interfaces/http/middleware"
	"github.com/bell24h/supplierrisk/pkg/logger"
)

// Recorder is the metrics sink used by the HTTP middleware.
type Recorder interface {
	middleware.HTTPRecorder
	middleware.RateLimitRecorder
}

// RouterDeps groups what the router needs besides the handlers.
type RouterDeps struct {
	Config   *config.Config
	Logger   logger.Logger
	Tracer   trace.Tracer
	Recorder Recorder
	// Gatherer backs /metrics; prometheus.DefaultGatherer when nil.
	Gatherer prometheus.Gatherer
}

// Router HTTP 路由器
type Router struct {
	engine          *gin.Engine
	config          *config.Config
	logger          logger.Logger
	tracer          trace.Tracer
	recorder        Recorder
	gatherer        prometheus.Gatherer
	healthHandler   *handlers.HealthHandler
	riskHandler     *handlers.RiskHandler
	supplierHandler *handlers.SupplierHandler
	server          *http.Server
}

// NewRouter 创建路由器
func NewRouter(
	deps RouterDeps,
	healthHandler *handlers.HealthHandler,
	riskHandler *handlers.RiskHandler,
	supplierHandler *handlers.SupplierHandler,
) *Router {
	if deps.Config.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	r := &Router{
		engine:          gin.New(),
		config:          deps.Config,
		logger:          deps.Logger.WithComponent("HTTPRouter"),
		tracer:          deps.Tracer,
		recorder:        deps.Recorder,
		gatherer:        deps.Gatherer,
		healthHandler:   healthHandler,
		riskHandler:     riskHandler,
		supplierHandler: supplierHandler,
	}
	r.setupRoutes()

	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	r.server = &http.Server{
		Addr:           addr,
		Handler:        r.engine,
		ReadTimeout:    time.Duration(r.config.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(r.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB
	}
	return r
}

// Handler exposes the engine, mainly for tests.
func (r *Router) Handler() http.Handler {
	return r.engine
}

// setupRoutes 设置路由
func (r *Router) setupRoutes() {
	// 全局中间件
	r.engine.Use(middleware.Recovery(r.logger))
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Logging(r.logger))
	if r.tracer != nil {
		r.engine.Use(middleware.Observability(r.tracer, r.recorder))
	}

	// CORS 配置
	corsConfig := cors.Config{
		AllowOrigins:  r.config.Server.AllowedOrigins,
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "X-Request-ID", "traceparent"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	}
	r.engine.Use(cors.New(corsConfig))

	// 健康检查路由
	r.engine.GET("/health", r.healthHandler.HealthCheck)
	r.engine.GET("/ready", r.healthHandler.ReadinessCheck)
	r.engine.GET("/live", r.healthHandler.LivenessCheck)

	// Prometheus metrics
	r.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})))

	// Pprof 性能分析（仅在非生产环境）
	if !r.config.Server.IsProduction() {
		pprof.Register(r.engine)
	}

	limiter := middleware.NewRateLimiter(r.config.RateLimit.DefaultRPM, r.config.RateLimit.BurstSize)

	// API 路由组
	v1 := r.engine.Group("/api/v1")
	v1.Use(middleware.RateLimit(limiter, &r.config.RateLimit, r.recorder, r.logger))
	{
		v1.GET("/risk-score/:supplier_id", r.riskHandler.GetRiskScore)
		v1.POST("/risk-score/:supplier_id", r.riskHandler.GetRiskScore)
		v1.POST("/supplier/risk-score", r.riskHandler.ScoreSupplierRecord)
		v1.GET("/scoring-model", r.riskHandler.ScoringModel)

		suppliers := v1.Group("/suppliers")
		{
			suppliers.PUT("/:supplier_id", r.supplierHandler.UpsertSupplier)
			suppliers.GET("/:supplier_id/assessments", r.supplierHandler.ListAssessments)
		}
	}

	// 404 处理
	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":             "not_found",
			"error_description": "The requested resource was not found",
		})
	})
}

// Start 启动 HTTP 服务器. It blocks until the server stops; a graceful Stop returns nil.
func (r *Router) Start() error {
	r.logger.Info(context.Background(), "Starting HTTP server", logger.String("address", r.server.Addr))

	if err := r.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop 停止 HTTP 服务器
func (r *Router) Stop(ctx context.Context) error {
	r.logger.Info(ctx, "Stopping HTTP server...")
	return r.server.Shutdown(ctx)
}

//Personal.AI order the ending
