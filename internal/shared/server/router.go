package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cv-analyzer-backend/internal/analyses"
	googleauth "cv-analyzer-backend/internal/auth"
	"cv-analyzer-backend/internal/shared/config"
	"cv-analyzer-backend/internal/shared/metrics"
	"cv-analyzer-backend/internal/shared/server/middleware"
	"cv-analyzer-backend/internal/shared/server/respond"
	"cv-analyzer-backend/internal/stats"
	"cv-analyzer-backend/internal/users"
)

// RouterDeps carries the handlers wired by bootstrap.
type RouterDeps struct {
	Config          config.Config
	AnalysisHandler *analyses.Handler
	StatsHandler    *stats.Handler
	UsersHandler    *users.Handler
	GoogleAuth      *googleauth.GoogleService
	UploadLimiter   *middleware.RateLimiter
}

// Uploads trigger two model invocations each, so the route carries a tight
// per-user budget: one upload every 12s on average, bursts of 5.
var uploadRule = middleware.RateLimitRule{Rate: 1.0 / 12.0, Burst: 5}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	public := r.Group("/api")
	public.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	public.GET("/metrics", metrics.Handler())
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(public)
	}

	api := r.Group("/api")
	api.Use(middleware.Auth())
	if deps.UsersHandler != nil {
		deps.UsersHandler.RegisterRoutes(api)
	}
	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(api, middleware.RateLimit(deps.UploadLimiter, uploadRule))
	}
	if deps.StatsHandler != nil {
		deps.StatsHandler.RegisterRoutes(api)
	}

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
