package handler

import (
	"net/http"

	"github.com/ensdash/ensdash-backend/internal/response"
	"github.com/ensdash/ensdash-backend/internal/service"
	"github.com/ensdash/ensdash-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// AlertHandler serves the enrollment health views.
type AlertHandler struct {
	ensembles  *service.EnsembleService
	classifier *service.ClassifierService
}

// NewAlertHandler creates a new AlertHandler.
func NewAlertHandler(ensembles *service.EnsembleService, classifier *service.ClassifierService) *AlertHandler {
	return &AlertHandler{ensembles: ensembles, classifier: classifier}
}

// GetAlerts godoc
// GET /api/v1/alerts?term=...
// Returns the low-enrollment flags with their tier summary, plus the
// independent critical alerts (low rate despite 4+ students, full capacity).
func (h *AlertHandler) GetAlerts(c *gin.Context) {
	var f service.Filter
	if fields := validator.BindQuery(c, &f); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	records := h.ensembles.Filtered(f)
	if f.Search != "" {
		records = service.SearchRecords(records, f.Search)
	}

	flags, summary := h.classifier.LowEnrollment(records)

	response.Success(c, http.StatusOK, gin.H{
		"low_enrollment": flags,
		"summary":        summary,
		"critical":       h.classifier.CriticalAlerts(records),
	})
}

// GetPerformanceClasses godoc
// GET /api/v1/performance-classes?term=...
// Returns the sections exempt from rating auditions with the matched rule.
func (h *AlertHandler) GetPerformanceClasses(c *gin.Context) {
	var f service.Filter
	if fields := validator.BindQuery(c, &f); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	records := h.ensembles.Filtered(f)
	classes := h.classifier.PerformanceClasses(records)

	response.Success(c, http.StatusOK, gin.H{"performance_classes": classes})
}
