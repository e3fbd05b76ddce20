package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"budget-backend/internal/chat"
	"budget-backend/internal/files"
	"budget-backend/internal/reports"
	"budget-backend/internal/shared/config"
	"budget-backend/internal/shared/metrics"
	"budget-backend/internal/shared/server/middleware"
	"budget-backend/internal/shared/server/respond"
)

// RouterDeps carries the wired handlers the router mounts.
type RouterDeps struct {
	Config  config.Config
	Files   *files.Handler
	Chat    *chat.Handler
	Reports *reports.Handler
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

	// Unauthenticated operational endpoints.
	r.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.Use(middleware.Auth(deps.Config.Env))
	// Report generation is expensive; throttle it per principal.
	api.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"REPORTS": {Rate: 0.2, Burst: 3},
		},
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodPost && strings.HasPrefix(c.Request.URL.Path, "/api/v1/reports") {
				return "REPORTS"
			}
			return ""
		},
	}))
	registerMeRoutes(api)
	deps.Files.RegisterRoutes(api)
	deps.Chat.RegisterRoutes(api)
	deps.Reports.RegisterRoutes(api)

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
