package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-parser-backend/internal/credits"
	"resume-parser-backend/internal/resumes"
	"resume-parser-backend/internal/shared/config"
	"resume-parser-backend/internal/shared/metrics"
	"resume-parser-backend/internal/shared/server/middleware"
	"resume-parser-backend/internal/shared/server/respond"
)

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config         config.Config
	ResumesHandler *resumes.Handler
	CreditsHandler *credits.Handler
}

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

	r.GET("/healthz", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.Use(
		middleware.Identity(),
		middleware.RateLimit(defaultRateLimits()),
	)

	if deps.ResumesHandler != nil {
		deps.ResumesHandler.RegisterRoutes(api)
	}
	if deps.CreditsHandler != nil {
		deps.CreditsHandler.RegisterRoutes(api)
	}

	return r
}

// defaultRateLimits keeps status polling cheap while throttling uploads.
func defaultRateLimits() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodGet && strings.HasPrefix(c.FullPath(), "/api/v1/resumes") {
				return "POLLING"
			}
			return ""
		},
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT": {Rate: 2, Burst: 5},
			"POLLING": {Rate: 10, Burst: 20},
		},
	}
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
