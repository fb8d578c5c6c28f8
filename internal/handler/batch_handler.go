package handler

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"propintel/internal/domain"
	"propintel/internal/export"
	"propintel/internal/service"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// SubmitFromStorageRequest is the JSON body for a storage-sourced submission.
type SubmitFromStorageRequest struct {
	Documents []service.DocumentRef `json:"documents" binding:"required"`
}

// BatchHandler handles batch submission and lifecycle endpoints.
type BatchHandler struct {
	batchService service.BatchService
}

// NewBatchHandler creates a new BatchHandler.
func NewBatchHandler(batchService service.BatchService) *BatchHandler {
	return &BatchHandler{batchService: batchService}
}

// Submit handles POST /api/v1/batches
// @Summary Submit a batch of documents
// @Description Submit documents for processing, either as multipart uploads (files field, repeated) or as a JSON list of object-storage keys
// @Tags batches
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Param files formData file false "Documents to process (PDF, JPG, PNG, TIFF, or WEBP; repeatable)"
// @Param request body SubmitFromStorageRequest false "Object-storage keys to process"
// @Success 202 {object} Response{data=domain.BatchJob} "Batch queued"
// @Failure 400 {object} ErrorResponseBody "Empty batch or unsupported file type"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Router /batches [post]
func (h *BatchHandler) Submit(c *gin.Context) {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		h.submitUploads(c)
		return
	}
	h.submitFromStorage(c)
}

func (h *BatchHandler) submitUploads(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FORM", "malformed multipart form")
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		RespondError(c, http.StatusBadRequest, "MISSING_FILES", "files field is required")
		return
	}

	docs := make([]domain.RawDocument, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_FILE", "could not open uploaded file "+header.Filename)
			return
		}
		content, err := io.ReadAll(file)
		_ = file.Close()
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_FILE", "could not read uploaded file "+header.Filename)
			return
		}
		docs = append(docs, domain.NewRawDocument(header.Filename, header.Header.Get("Content-Type"), content))
	}

	job, err := h.batchService.Submit(c.Request.Context(), docs)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondAccepted(c, job)
}

func (h *BatchHandler) submitFromStorage(c *gin.Context) {
	var req SubmitFromStorageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "documents list is required")
		return
	}

	job, err := h.batchService.SubmitFromStorage(c.Request.Context(), req.Documents)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondAccepted(c, job)
}

// List handles GET /api/v1/batches
// @Summary List batch jobs
// @Description List all batch jobs, newest first
// @Tags batches
// @Produce json
// @Success 200 {object} Response{data=[]domain.BatchJob,meta=ListMeta} "List of batch jobs"
// @Router /batches [get]
func (h *BatchHandler) List(c *gin.Context) {
	jobs, err := h.batchService.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondList(c, jobs, ListMeta{Total: len(jobs)})
}

// GetByID handles GET /api/v1/batches/:id
// @Summary Get batch job by ID
// @Description Get batch status and progress; completed jobs include per-document results and the fused record
// @Tags batches
// @Produce json
// @Param id path string true "Batch ID (UUID)"
// @Success 200 {object} Response{data=BatchDetail} "Batch job"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Batch not found"
// @Router /batches/{id} [get]
func (h *BatchHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid batch ID")
		return
	}

	job, err := h.batchService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	data := gin.H{"batch": job}
	urls, err := h.batchService.ArchiveURLs(c.Request.Context(), job)
	if err != nil {
		// Presigning is a nicety on the detail view; the job itself is
		// still worth returning.
		log.Printf("batchHandler.GetByID: presigning archive URLs for batch %s failed: %v", id, err)
	} else if len(urls) > 0 {
		data["archive_urls"] = urls
	}

	RespondOK(c, data)
}

// Delete handles DELETE /api/v1/batches/:id
// @Summary Delete a batch job
// @Description Delete a batch job and any archived uploads
// @Tags batches
// @Produce json
// @Param id path string true "Batch ID (UUID)"
// @Success 200 {object} Response{data=MessageResponse} "Batch deleted"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Batch not found"
// @Router /batches/{id} [delete]
func (h *BatchHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid batch ID")
		return
	}

	if err := h.batchService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "batch deleted"})
}

// Export handles GET /api/v1/batches/:id/export
// @Summary Export batch results
// @Description Download the results of a completed batch as CSV or XLSX
// @Tags batches
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Batch ID (UUID)"
// @Param format query string false "Export format: csv or xlsx" default(csv)
// @Success 200 {file} file "Export file"
// @Failure 400 {object} ErrorResponseBody "Invalid ID or unsupported format"
// @Failure 404 {object} ErrorResponseBody "Batch not found"
// @Failure 409 {object} ErrorResponseBody "Batch not completed"
// @Router /batches/{id}/export [get]
func (h *BatchHandler) Export(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid batch ID")
		return
	}

	job, err := h.batchService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	if job.Status != domain.BatchStatusCompleted {
		HandleError(c, domain.ErrBatchNotCompleted)
		return
	}

	batch := export.Batch{
		Filenames: job.Filenames,
		Results:   job.Results,
		Fused:     job.Fused,
	}

	var buf bytes.Buffer
	format := strings.ToLower(c.DefaultQuery("format", "csv"))
	switch format {
	case "csv":
		buf.Write(export.BOM)
		w := export.NewWriter(&buf)
		if err := w.WriteBatch(batch); err != nil {
			HandleError(c, err)
			return
		}
		w.Flush()
		if err := w.Error(); err != nil {
			HandleError(c, err)
			return
		}
	case "xlsx":
		if err := export.WriteXLSX(&buf, batch); err != nil {
			HandleError(c, err)
			return
		}
	default:
		HandleError(c, domain.ErrUnsupportedFormat)
		return
	}

	filename := export.BuildFilename("batch_"+job.ID.String(), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	contentType := contentTypeCSV
	if format == "xlsx" {
		contentType = contentTypeXLSX
	}
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
