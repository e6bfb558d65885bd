package handler

import (
	"errors"
	"net/http"

	"github.com/ensdash/ensdash-backend/internal/response"
	"github.com/ensdash/ensdash-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// MediaHandler handles faculty media upload endpoints.
type MediaHandler struct {
	mediaService *service.MediaService
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(mediaService *service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// UploadFacultyMedia godoc
// POST /api/v1/faculty/:name/media
// Stores an image for the named faculty member and returns its URL. The
// analytical core never reads these files; this is a pass-through store.
func (h *MediaHandler) UploadFacultyMedia(c *gin.Context) {
	name := c.Param("name")

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	url, err := h.mediaService.SaveFacultyFile(name, file, header)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedFileType):
			response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
		case errors.Is(err, service.ErrFileTooLarge):
			response.Fail(c, http.StatusBadRequest, response.ErrFileTooLarge)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"url": url})
}
