package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/kosarica/invite-service/internal/invite"
)

// API serves the distance and invite endpoints over one shared service.
type API struct {
	service *invite.Service
	logger  zerolog.Logger
}

// NewAPI creates the endpoint handlers.
func NewAPI(service *invite.Service, logger zerolog.Logger) *API {
	return &API{
		service: service,
		logger:  logger.With().Str("component", "api").Logger(),
	}
}

// serviceFor applies the per-request origin override.
func (a *API) serviceFor(origin *Location) *invite.Service {
	if origin == nil {
		return a.service
	}
	return a.service.WithReference(a.service.Reference().Rebase(origin.coordinate()))
}

// HealthCheck handles the health check endpoint
// GET /health
func (a *API) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
		Origin: a.service.Reference().Origin(),
	})
}

// Distance measures one target with both estimators
// POST /api/v1/distance
func (a *API) Distance(c *gin.Context) {
	var req DistanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	m, err := a.serviceFor(req.Origin).Distance(c.Request.Context(), req.Target.coordinate())
	if err != nil {
		a.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, m)
}

// Invites selects the customers within the invitation radius
// POST /api/v1/invites
func (a *API) Invites(c *gin.Context) {
	var req InvitesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	cfg := a.service.Config()
	if req.MaxDistanceKm != nil {
		cfg.MaxDistanceKm = *req.MaxDistanceKm
	}
	if req.Method != "" {
		cfg.Method = invite.Method(req.Method)
	}
	if err := cfg.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result, err := a.serviceFor(req.Origin).WithConfig(&cfg).Select(c.Request.Context(), toCustomers(req.Customers))
	if err != nil {
		a.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Compare cross-checks the spherical and Vincenty estimates
// POST /api/v1/compare
func (a *API) Compare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	cfg := a.service.Config()
	if req.ToleranceKm != nil {
		cfg.CompareToleranceKm = *req.ToleranceKm
	}

	result, err := a.serviceFor(req.Origin).WithConfig(&cfg).Compare(c.Request.Context(), toCustomers(req.Customers))
	if err != nil {
		a.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (a *API) fail(c *gin.Context, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "request cancelled"})
		return
	}
	a.logger.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
}
