package handler

import (
	"net/http"

	"github.com/ensdash/ensdash-backend/internal/response"
	"github.com/ensdash/ensdash-backend/internal/service"
	"github.com/ensdash/ensdash-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// PriorityHandler serves the registration-preference ranking.
type PriorityHandler struct {
	ensembles *service.EnsembleService
	priority  *service.PriorityService
}

// NewPriorityHandler creates a new PriorityHandler.
func NewPriorityHandler(ensembles *service.EnsembleService, priority *service.PriorityService) *PriorityHandler {
	return &PriorityHandler{ensembles: ensembles, priority: priority}
}

// GetPriority godoc
// GET /api/v1/priority?term=...
// Returns the filtered sections ranked by registration-preference score.
// Sections without any listed faculty are excluded from the ranking.
func (h *PriorityHandler) GetPriority(c *gin.Context) {
	var f service.Filter
	if fields := validator.BindQuery(c, &f); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	ranked := h.priority.Rank(h.ensembles.Filtered(f))

	response.Success(c, http.StatusOK, gin.H{"ranking": ranked})
}
