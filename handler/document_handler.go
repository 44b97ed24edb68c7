package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/docqa/docqa-be/repository"
	"github.com/docqa/docqa-be/types"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DocumentService is the slice of the file service the document routes
// need. *service.FileService implements it.
type DocumentService interface {
	ListDocuments(ctx context.Context) ([]types.Document, error)
	DeleteDocument(ctx context.Context, id string) error
	Transcript(ctx context.Context, id string) (string, string, error)
}

type DocumentHandler struct {
	fileService DocumentService
	logger      *zap.Logger
}

func NewDocumentHandler(fileService DocumentService, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		fileService: fileService,
		logger:      logger,
	}
}

func (h *DocumentHandler) HandleList(c *gin.Context) {
	docs, err := h.fileService.ListDocuments(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list documents", zap.Error(err))
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: "Failed to list documents",
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data:   docs,
	})
}

// HandleDelete cascades document deletion and redirects to the listing.
// Deleting an id that was never created still redirects.
func (h *DocumentHandler) HandleDelete(c *gin.Context) {
	id := c.Param("id")
	if err := h.fileService.DeleteDocument(c.Request.Context(), id); err != nil {
		h.logger.Error("failed to delete document", zap.String("document", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: "Failed to delete document",
		})
		return
	}
	c.Redirect(http.StatusFound, "/api/v1/documents")
}

// HandleTranscript re-extracts the document text and streams it as a
// plain-text attachment.
func (h *DocumentHandler) HandleTranscript(c *gin.Context) {
	id := c.Param("id")
	filename, content, err := h.fileService.Transcript(c.Request.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repository.ErrDocumentNotFound) {
			status = http.StatusNotFound
		}
		h.logger.Error("failed to build transcript", zap.String("document", id), zap.Error(err))
		c.JSON(status, types.DataResponse{
			Status:  "error",
			Message: "Failed to build transcript",
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(content))
}
