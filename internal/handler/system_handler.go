package handler

import (
	"net/http"

	"github.com/ensdash/ensdash-backend/internal/dataset"
	"github.com/ensdash/ensdash-backend/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// SystemHandler handles operator endpoints.
type SystemHandler struct {
	store *dataset.Store
	log   zerolog.Logger
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(store *dataset.Store, log zerolog.Logger) *SystemHandler {
	return &SystemHandler{
		store: store,
		log:   log.With().Str("component", "system_handler").Logger(),
	}
}

// ReloadSnapshot godoc
// POST /api/v1/admin/reload
// Re-reads the data file and swaps the in-memory snapshot. On failure the
// previous snapshot stays in place and the error is reported.
func (h *SystemHandler) ReloadSnapshot(c *gin.Context) {
	count, err := h.store.Reload()
	if err != nil {
		h.log.Error().Err(err).Msg("snapshot reload failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrSnapshotReload)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"sections": count})
}
