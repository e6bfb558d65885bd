package handler

import (
	"net/http"
	"time"

	"github.com/ensdash/ensdash-backend/internal/response"
	"github.com/ensdash/ensdash-backend/internal/service"
	"github.com/ensdash/ensdash-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ExportHandler serves CSV downloads of the report views.
type ExportHandler struct {
	ensembles  *service.EnsembleService
	classifier *service.ClassifierService
	priority   *service.PriorityService
	exporter   *service.ExportService
	log        zerolog.Logger
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(
	ensembles *service.EnsembleService,
	classifier *service.ClassifierService,
	priority *service.PriorityService,
	exporter *service.ExportService,
	log zerolog.Logger,
) *ExportHandler {
	return &ExportHandler{
		ensembles:  ensembles,
		classifier: classifier,
		priority:   priority,
		exporter:   exporter,
		log:        log.With().Str("component", "export_handler").Logger(),
	}
}

// ExportReport godoc
// GET /api/v1/export/:report?term=...
// Streams the selected report as a CSV attachment. The filename embeds the
// term and a generation timestamp so repeated downloads never collide.
func (h *ExportHandler) ExportReport(c *gin.Context) {
	report := c.Param("report")

	var f service.Filter
	if fields := validator.BindQuery(c, &f); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	data, err := h.buildReport(report, f)
	if err != nil {
		h.log.Error().Err(err).Str("report", report).Msg("report export failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if data == nil {
		response.Fail(c, http.StatusNotFound, response.ErrUnknownReport)
		return
	}

	filename := h.exporter.Filename(report, f.Term, time.Now())
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// buildReport resolves the report name to its CSV bytes. A nil, nil return
// means the report name is unknown.
func (h *ExportHandler) buildReport(report string, f service.Filter) ([]byte, error) {
	switch report {
	case service.ReportEnsembles:
		return h.exporter.Ensembles(h.ensembles.Query(f))
	case service.ReportLowEnrollment:
		flags, _ := h.classifier.LowEnrollment(h.ensembles.Filtered(f))
		return h.exporter.LowEnrollment(flags)
	case service.ReportPerformance:
		return h.exporter.Performance(h.classifier.PerformanceClasses(h.ensembles.Filtered(f)))
	case service.ReportPriority:
		return h.exporter.Priority(h.priority.Rank(h.ensembles.Filtered(f)))
	default:
		return nil, nil
	}
}
