package router

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/pageza/food/config"
	"github.com/pageza/food/internal/api"
	"github.com/pageza/food/internal/metrics"
	"github.com/pageza/food/internal/middleware"
	"github.com/pageza/food/internal/service"
)

// Dependencies are the collaborators the API routes are built from.
type Dependencies struct {
	Recipes service.IRecipeService
	DB      api.Pinger
	// Redis enables per-client rate limiting when non-nil.
	Redis *redis.Client
	Log   zerolog.Logger
}

// SetupRouter configures the application routes
func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestLogger(deps.Log),
		middleware.Recovery(),
	)

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
		router.Use(m.Middleware())
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	router.Use(
		middleware.CORS(cfg.CORSAllowedOrigins),
		middleware.NewClientRateLimiter(deps.Redis, cfg.RateLimitPerMinute).Middleware(),
	)

	api.NewHealthHandler(deps.DB).RegisterRoutes(router)

	apiGroup := router.Group("/api")
	api.NewRecipeHandler(deps.Recipes, m, cfg.ExposeErrors).RegisterRoutes(apiGroup)

	router.NoRoute(middleware.NotFound())

	return router
}
