package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/kosarica/invite-service/internal/invite"
	"github.com/kosarica/invite-service/internal/middleware"
)

// Deps are the collaborators the router needs.
type Deps struct {
	Service *invite.Service
	Logger  zerolog.Logger
	// APIKey protects /api/v1 when set.
	APIKey string
	// RateLimiter limits /api/v1 per client when set.
	RateLimiter *middleware.IPRateLimiter
}

// NewRouter builds the HTTP API.
func NewRouter(deps Deps) *gin.Engine {
	api := NewAPI(deps.Service, deps.Logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(deps.Logger))

	router.GET("/health", api.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.Use(middleware.APIKeyAuth(deps.APIKey))
	if deps.RateLimiter != nil {
		v1.Use(middleware.RateLimit(deps.RateLimiter))
	}
	{
		v1.POST("/distance", api.Distance)
		v1.POST("/invites", api.Invites)
		v1.POST("/compare", api.Compare)
	}

	return router
}
