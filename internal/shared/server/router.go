package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"resume-analyzer/internal/analyses"
	"resume-analyzer/internal/services/health"
	"resume-analyzer/internal/shared/config"
	"resume-analyzer/internal/shared/metrics"
	"resume-analyzer/internal/shared/server/middleware"
	"resume-analyzer/internal/shared/telemetry"
)

// Deps are the collaborators served by the router.
type Deps struct {
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
	Extractor analyses.TextExtractor
	Analyzer  analyses.ResumeAnalyzer
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config, deps Deps) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	logger := telemetry.OrNop(deps.Logger)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logging(logger),
		middleware.Recovery(logger),
		deps.Metrics.Middleware(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	health.NewService().RegisterRoutes(r)
	r.GET("/metrics", deps.Metrics.Handler())

	limit := middleware.RateLimit(middleware.RateLimitConfig{
		Rule:   middleware.RateLimitRule{Rate: cfg.RateLimitRPS, Burst: cfg.RateLimitBurst},
		KeyFor: func(c *gin.Context) string { return c.ClientIP() },
	})
	analyses.NewHandler(deps.Extractor, deps.Analyzer, cfg.MaxUploadBytes, logger).RegisterRoutes(r, limit)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
