package handler

import (
	"fmt"
	"net/http"

	"github.com/docqa/docqa-be/service"
	"github.com/docqa/docqa-be/types"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxUploadSize = 50 << 20

type UploadHandler struct {
	fileService *service.FileService
	logger      *zap.Logger
}

func NewUploadHandler(fileService *service.FileService, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		fileService: fileService,
		logger:      logger,
	}
}

// UploadDocumentsHandler accepts one or more PDFs in the multipart field
// "pdfs". A failing file is reported and skipped; the rest of the batch is
// still processed.
func (h *UploadHandler) UploadDocumentsHandler(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Invalid multipart form",
		})
		return
	}

	files := form.File["pdfs"]
	if len(files) == 0 {
		files = form.File["pdf"]
	}
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "No PDF files provided",
		})
		return
	}

	var failed []string
	processed := 0
	for _, file := range files {
		if file.Size > maxUploadSize {
			h.logger.Warn("rejecting oversized upload", zap.String("file", file.Filename))
			failed = append(failed, file.Filename)
			continue
		}
		if _, err := h.fileService.UploadFile(c.Request.Context(), file); err != nil {
			h.logger.Error("failed to process uploaded file",
				zap.String("file", file.Filename), zap.Error(err))
			failed = append(failed, file.Filename)
			continue
		}
		processed++
	}

	docs, err := h.fileService.ListDocuments(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list documents after upload", zap.Error(err))
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status:  "success",
		Message: fmt.Sprintf("%d PDF(s) processed successfully", processed),
		Data: types.UploadResponse{
			Processed: processed,
			Failed:    failed,
			Documents: docs,
		},
	})
}
