package handler

import (
	"net/http"

	"github.com/ensdash/ensdash-backend/internal/response"
	"github.com/ensdash/ensdash-backend/internal/service"
	"github.com/ensdash/ensdash-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// EnsembleHandler serves the filtered, searched and sorted section listing.
type EnsembleHandler struct {
	ensembles *service.EnsembleService
	analytics *service.AnalyticsService
}

// NewEnsembleHandler creates a new EnsembleHandler.
func NewEnsembleHandler(ensembles *service.EnsembleService, analytics *service.AnalyticsService) *EnsembleHandler {
	return &EnsembleHandler{ensembles: ensembles, analytics: analytics}
}

// ListEnsembles godoc
// GET /api/v1/ensembles?term=...&style=...&q=...&sort=...
// Returns the resolved view plus its headline metrics. An empty result is a
// normal 200 with an empty list.
func (h *EnsembleHandler) ListEnsembles(c *gin.Context) {
	var f service.Filter
	if fields := validator.BindQuery(c, &f); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	records := h.ensembles.Query(f)

	response.Success(c, http.StatusOK, gin.H{
		"ensembles": records,
		"metrics":   h.analytics.Metrics(records),
	})
}
