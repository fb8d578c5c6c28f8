package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"propintel/internal/domain"
	"propintel/internal/service"
)

// ExtractHandler handles synchronous single-document extraction.
type ExtractHandler struct {
	batchService service.BatchService
}

// NewExtractHandler creates a new ExtractHandler.
func NewExtractHandler(batchService service.BatchService) *ExtractHandler {
	return &ExtractHandler{batchService: batchService}
}

// Extract handles POST /api/v1/extract
// @Summary Extract a single document
// @Description Run OCR and structured field extraction on one document synchronously
// @Tags extract
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document to process (PDF, JPG, PNG, TIFF, or WEBP)"
// @Success 200 {object} Response{data=ExtractResult} "Extraction outcome"
// @Failure 400 {object} ErrorResponseBody "Missing file or unsupported type"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Router /extract [post]
func (h *ExtractHandler) Extract(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FILE", "could not read uploaded file")
		return
	}

	doc := domain.NewRawDocument(header.Filename, header.Header.Get("Content-Type"), content)

	outcome, err := h.batchService.Extract(c.Request.Context(), doc)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{
		"result": outcome.Results[0],
		"fused":  outcome.Fused,
	})
}
