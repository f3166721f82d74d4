package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/statichead/rabbitears/internal/db"
	"github.com/statichead/rabbitears/internal/logger"
)

// CollectionResponse represents a collection in API responses
type CollectionResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ItemCount int64     `json:"item_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CollectionListResponse represents a list of collections
type CollectionListResponse struct {
	Collections []*CollectionResponse `json:"collections"`
}

// CollectionItemsResponse represents the media items owned by one collection
type CollectionItemsResponse struct {
	Collection *CollectionResponse  `json:"collection"`
	Items      []*MediaItemResponse `json:"items"`
}

// CollectionHandler handles collection-related API requests
type CollectionHandler struct {
	repos *db.Repositories
}

// NewCollectionHandler creates a new collection handler instance
func NewCollectionHandler(repos *db.Repositories) *CollectionHandler {
	return &CollectionHandler{repos: repos}
}

// toCollectionResponse converts a collection summary to API response format
func toCollectionResponse(summary *db.CollectionSummary) *CollectionResponse {
	return &CollectionResponse{
		ID:        summary.ID.String(),
		Name:      summary.Name,
		ItemCount: summary.ItemCount,
		CreatedAt: summary.CreatedAt,
		UpdatedAt: summary.UpdatedAt,
	}
}

// ListCollections handles GET /api/collections
func (h *CollectionHandler) ListCollections(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	summaries, err := h.repos.Collections.ListWithCounts(ctx)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to list collections")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve collection list",
		})
		return
	}

	responses := make([]*CollectionResponse, len(summaries))
	for i, summary := range summaries {
		responses[i] = toCollectionResponse(summary)
	}

	c.JSON(http.StatusOK, CollectionListResponse{
		Collections: responses,
	})
}

// GetCollectionItems handles GET /api/collections/:name/items
func (h *CollectionHandler) GetCollectionItems(c *gin.Context) {
	name := c.Param("name")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	collection, err := h.repos.Collections.GetByName(ctx, name)
	if err != nil {
		if db.IsNotFound(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Collection not found",
			})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("name", name).
			Msg("Failed to get collection by name")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve collection",
		})
		return
	}

	items, err := h.repos.MediaItems.ListByCollection(ctx, collection.ID)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("name", name).
			Msg("Failed to list collection items")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve collection items",
		})
		return
	}

	itemResponses := make([]*MediaItemResponse, len(items))
	for i, item := range items {
		itemResponses[i] = toMediaItemResponse(item)
	}

	c.JSON(http.StatusOK, CollectionItemsResponse{
		Collection: toCollectionResponse(&db.CollectionSummary{
			Collection: *collection,
			ItemCount:  int64(len(items)),
		}),
		Items: itemResponses,
	})
}

// SetupCollectionRoutes registers collection-related routes
func SetupCollectionRoutes(apiGroup *gin.RouterGroup, repos *db.Repositories) {
	handler := NewCollectionHandler(repos)

	apiGroup.GET("/collections", handler.ListCollections)
	apiGroup.GET("/collections/:name/items", handler.GetCollectionItems)
}
