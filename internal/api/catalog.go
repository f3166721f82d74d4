package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/statichead/rabbitears/internal/catalog"
	"github.com/statichead/rabbitears/internal/db"
	"github.com/statichead/rabbitears/internal/logger"
	"github.com/statichead/rabbitears/internal/models"
)

// maxDocumentBytes caps the size of an uploaded catalog document.
const maxDocumentBytes = 10 << 20

// DeleteResponse represents a successful delete operation
type DeleteResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ValidationErrorResponse represents a document rejected before import
type ValidationErrorResponse struct {
	Error      string   `json:"error"`
	Message    string   `json:"message"`
	Violations []string `json:"violations"`
}

// ImportedChannel represents one committed channel in an import report
type ImportedChannel struct {
	Number string `json:"number"`
	Name   string `json:"name"`
}

// ImportFailure represents one failed channel in an import report
type ImportFailure struct {
	Number string `json:"number"`
	Name   string `json:"name,omitempty"`
	Reason string `json:"reason"`
}

// ImportReportResponse represents the outcome of one import run
type ImportReportResponse struct {
	Status             string            `json:"status"`
	Channels           []ImportedChannel `json:"channels"`
	Failures           []ImportFailure   `json:"failures,omitempty"`
	CollectionsCreated int               `json:"collections_created"`
	ItemsCreated       int               `json:"items_created"`
	ItemsUpdated       int               `json:"items_updated"`
}

// ImportRunResponse represents one entry of the import history
type ImportRunResponse struct {
	ID                 string     `json:"id"`
	DocumentPath       string     `json:"document_path"`
	Status             string     `json:"status"`
	ChannelsImported   int        `json:"channels_imported"`
	ChannelsFailed     int        `json:"channels_failed"`
	CollectionsCreated int        `json:"collections_created"`
	ItemsCreated       int        `json:"items_created"`
	ItemsUpdated       int        `json:"items_updated"`
	Detail             *string    `json:"detail,omitempty"`
	StartedAt          time.Time  `json:"started_at"`
	FinishedAt         *time.Time `json:"finished_at,omitempty"`
}

// ImportRunListResponse represents the import history
type ImportRunListResponse struct {
	Imports []*ImportRunResponse `json:"imports"`
}

// CatalogHandler handles catalog import API requests
type CatalogHandler struct {
	importer *catalog.Importer
	repos    *db.Repositories
}

// NewCatalogHandler creates a new catalog handler instance
func NewCatalogHandler(importer *catalog.Importer, repos *db.Repositories) *CatalogHandler {
	return &CatalogHandler{
		importer: importer,
		repos:    repos,
	}
}

// toImportReportResponse converts an import report to API response format
func toImportReportResponse(report *catalog.Report) *ImportReportResponse {
	resp := &ImportReportResponse{
		Status:             report.Status(),
		Channels:           make([]ImportedChannel, len(report.Channels)),
		CollectionsCreated: report.CollectionsCreated,
		ItemsCreated:       report.ItemsCreated,
		ItemsUpdated:       report.ItemsUpdated,
	}
	for i, ch := range report.Channels {
		resp.Channels[i] = ImportedChannel{Number: ch.Number, Name: ch.Name}
	}
	for _, failure := range report.Failures {
		resp.Failures = append(resp.Failures, ImportFailure{
			Number: failure.Number,
			Name:   failure.Name,
			Reason: failure.Reason(),
		})
	}
	return resp
}

// toImportRunResponse converts an import run model to API response format
func toImportRunResponse(run *models.ImportRun) *ImportRunResponse {
	return &ImportRunResponse{
		ID:                 run.ID.String(),
		DocumentPath:       run.DocumentPath,
		Status:             run.Status,
		ChannelsImported:   run.ChannelsImported,
		ChannelsFailed:     run.ChannelsFailed,
		CollectionsCreated: run.CollectionsCreated,
		ItemsCreated:       run.ItemsCreated,
		ItemsUpdated:       run.ItemsUpdated,
		Detail:             run.Detail,
		StartedAt:          run.StartedAt,
		FinishedAt:         run.FinishedAt,
	}
}

// ImportCatalog handles POST /api/catalog/import. The request body is the
// YAML catalog document itself. Full success returns 200, a document
// rejected by validation returns 422, and a run where some channels failed
// returns 409 with the full report so the caller can see what made it.
func (h *CatalogHandler) ImportCatalog(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxDocumentBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to read request body",
		})
		return
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Request body must contain a catalog document",
		})
		return
	}
	if len(body) > maxDocumentBytes {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Error:   "document_too_large",
			Message: "Catalog document exceeds the size limit",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	report, err := h.importer.ImportDocument(ctx, body, "api:"+c.ClientIP())
	if err != nil {
		var verr *catalog.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusUnprocessableEntity, ValidationErrorResponse{
				Error:      "invalid_document",
				Message:    "Catalog document failed validation",
				Violations: verr.Violations,
			})
			return
		}

		if catalog.IsImport(err) {
			// Partial or failed run: the report carries the details.
			c.JSON(http.StatusConflict, toImportReportResponse(report))
			return
		}

		logger.Log.Error().
			Err(err).
			Msg("Catalog import failed")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "import_failed",
			Message: "Failed to import catalog document",
		})
		return
	}

	c.JSON(http.StatusOK, toImportReportResponse(report))
}

// ListImports handles GET /api/catalog/imports
func (h *CatalogHandler) ListImports(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_limit",
				Message: "Limit must be a positive integer",
			})
			return
		}
		limit = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	runs, err := h.repos.ImportRuns.List(ctx, limit)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to list import runs")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve import history",
		})
		return
	}

	responses := make([]*ImportRunResponse, len(runs))
	for i, run := range runs {
		responses[i] = toImportRunResponse(run)
	}

	c.JSON(http.StatusOK, ImportRunListResponse{
		Imports: responses,
	})
}

// SetupCatalogRoutes registers catalog import routes. The import endpoint
// mutates the catalog and sits behind the API key gate; history is open.
func SetupCatalogRoutes(apiGroup *gin.RouterGroup, importer *catalog.Importer, repos *db.Repositories, requireKey gin.HandlerFunc) {
	handler := NewCatalogHandler(importer, repos)

	apiGroup.POST("/catalog/import", requireKey, handler.ImportCatalog)
	apiGroup.GET("/catalog/imports", handler.ListImports)
}
