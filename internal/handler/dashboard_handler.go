package handler

import (
	"net/http"

	"github.com/ensdash/ensdash-backend/internal/dataset"
	"github.com/ensdash/ensdash-backend/internal/model"
	"github.com/ensdash/ensdash-backend/internal/response"
	"github.com/ensdash/ensdash-backend/internal/service"
	"github.com/ensdash/ensdash-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// DashboardData consolidates every aggregate view for one filter selection.
type DashboardData struct {
	Metrics           service.Metrics             `json:"metrics"`
	InstrumentSummary []service.InstrumentSummary `json:"instrument_summary"`
	RateDistribution  []service.BucketCount       `json:"rate_distribution"`
	StyleRollup       []service.GroupStat         `json:"style_rollup"`
	TimeSlotRollup    []service.GroupStat         `json:"time_slot_rollup"`
	FacultyRollup     []service.GroupStat         `json:"faculty_rollup"`
}

// DashboardHandler serves the consolidated dashboard and the filter metadata.
type DashboardHandler struct {
	store     *dataset.Store
	ensembles *service.EnsembleService
	analytics *service.AnalyticsService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(store *dataset.Store, ensembles *service.EnsembleService, analytics *service.AnalyticsService) *DashboardHandler {
	return &DashboardHandler{store: store, ensembles: ensembles, analytics: analytics}
}

// GetDashboard godoc
// GET /api/v1/dashboard?term=...
// Returns headline metrics, the instrument summary and every rollup for the
// filtered record set. Recomputed in full on each request.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	var f service.Filter
	if fields := validator.BindQuery(c, &f); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	records := h.ensembles.Filtered(f)

	response.Success(c, http.StatusOK, DashboardData{
		Metrics:           h.analytics.Metrics(records),
		InstrumentSummary: h.analytics.InstrumentSummary(records),
		RateDistribution:  h.analytics.RateDistribution(records),
		StyleRollup:       h.analytics.StyleRollup(records),
		TimeSlotRollup:    h.analytics.TimeSlotRollup(records),
		FacultyRollup:     h.analytics.FacultyRollup(records),
	})
}

// GetMeta godoc
// GET /api/v1/meta
// Returns the filter vocabulary: terms, styles, ratings and instrument codes.
func (h *DashboardHandler) GetMeta(c *gin.Context) {
	snap := h.store.Snapshot()
	response.Success(c, http.StatusOK, gin.H{
		"terms":       snap.Terms(),
		"styles":      snap.Styles(),
		"ratings":     snap.Ratings(),
		"instruments": model.InstrumentCodes,
	})
}
