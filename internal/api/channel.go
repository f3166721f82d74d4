package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/statichead/rabbitears/internal/db"
	"github.com/statichead/rabbitears/internal/logger"
	"github.com/statichead/rabbitears/internal/models"
)

// Request/Response DTOs

// ChannelResponse represents a channel in API responses
type ChannelResponse struct {
	ID          string    `json:"id"`
	Number      string    `json:"number"`
	Name        string    `json:"name"`
	Group       *string   `json:"group,omitempty"`
	Description *string   `json:"description,omitempty"`
	Enabled     bool      `json:"enabled"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ChannelListResponse represents a list of channels
type ChannelListResponse struct {
	Channels []*ChannelResponse `json:"channels"`
}

// MediaItemResponse represents a media item in API responses
type MediaItemResponse struct {
	ID             string  `json:"id"`
	CollectionID   string  `json:"collection_id"`
	RefID          *string `json:"ref_id,omitempty"`
	URL            string  `json:"url"`
	Source         string  `json:"source"`
	RuntimeSeconds *int64  `json:"runtime_seconds,omitempty"`
	Runtime        string  `json:"runtime"`
	Network        *string `json:"network,omitempty"`
	BroadcastDate  *string `json:"broadcast_date,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

// PlaylistItemResponse represents one slot of a channel's playlist
type PlaylistItemResponse struct {
	ID        string             `json:"id"`
	Position  int                `json:"position"`
	MediaItem *MediaItemResponse `json:"media_item,omitempty"`
}

// PlaylistResponse represents a channel's full viewing order
type PlaylistResponse struct {
	Channel      *ChannelResponse        `json:"channel"`
	Items        []*PlaylistItemResponse `json:"items"`
	TotalRuntime int64                   `json:"total_runtime_seconds"`
}

// ChannelHandler handles channel-related API requests
type ChannelHandler struct {
	repos *db.Repositories
}

// NewChannelHandler creates a new channel handler instance
func NewChannelHandler(repos *db.Repositories) *ChannelHandler {
	return &ChannelHandler{repos: repos}
}

// toChannelResponse converts a channel model to API response format
func toChannelResponse(ch *models.Channel) *ChannelResponse {
	return &ChannelResponse{
		ID:          ch.ID.String(),
		Number:      ch.Number,
		Name:        ch.Name,
		Group:       ch.Group,
		Description: ch.Description,
		Enabled:     ch.Enabled,
		CreatedAt:   ch.CreatedAt,
		UpdatedAt:   ch.UpdatedAt,
	}
}

// toMediaItemResponse converts a media item model to API response format
func toMediaItemResponse(item *models.MediaItem) *MediaItemResponse {
	resp := &MediaItemResponse{
		ID:             item.ID.String(),
		CollectionID:   item.CollectionID.String(),
		RefID:          item.RefID,
		URL:            item.URL,
		Source:         item.Source,
		RuntimeSeconds: item.RuntimeSeconds,
		Runtime:        item.RuntimeString(),
		Network:        item.Network,
		Notes:          item.Notes,
	}
	if item.BroadcastDate != nil {
		date := item.BroadcastDate.Format("2006-01-02")
		resp.BroadcastDate = &date
	}
	return resp
}

// toPlaylistItemResponse converts a playlist item model to API response format
func toPlaylistItemResponse(item *models.PlaylistItem) *PlaylistItemResponse {
	resp := &PlaylistItemResponse{
		ID:       item.ID.String(),
		Position: item.Position,
	}
	if item.MediaItem != nil {
		resp.MediaItem = toMediaItemResponse(item.MediaItem)
	}
	return resp
}

// totalRuntime sums the known runtimes of a playlist. Items without a
// recorded runtime contribute nothing.
func totalRuntime(items []*models.PlaylistItem) int64 {
	var total int64
	for _, item := range items {
		if item.MediaItem != nil && item.MediaItem.RuntimeSeconds != nil {
			total += *item.MediaItem.RuntimeSeconds
		}
	}
	return total
}

// ListChannels handles GET /api/channels
func (h *ChannelHandler) ListChannels(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	channels, err := h.repos.Channels.List(ctx)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to list channels")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve channel list",
		})
		return
	}

	responses := make([]*ChannelResponse, len(channels))
	for i, ch := range channels {
		responses[i] = toChannelResponse(ch)
	}

	c.JSON(http.StatusOK, ChannelListResponse{
		Channels: responses,
	})
}

// GetChannel handles GET /api/channels/:number
func (h *ChannelHandler) GetChannel(c *gin.Context) {
	number := c.Param("number")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	ch, err := h.repos.Channels.GetByNumber(ctx, number)
	if err != nil {
		if db.IsNotFound(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Channel not found",
			})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("number", number).
			Msg("Failed to get channel by number")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve channel",
		})
		return
	}

	c.JSON(http.StatusOK, toChannelResponse(ch))
}

// GetPlaylist handles GET /api/channels/:number/playlist
func (h *ChannelHandler) GetPlaylist(c *gin.Context) {
	number := c.Param("number")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	ch, err := h.repos.Channels.GetByNumber(ctx, number)
	if err != nil {
		if db.IsNotFound(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Channel not found",
			})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("number", number).
			Msg("Failed to get channel for playlist")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve channel",
		})
		return
	}

	items, err := h.repos.PlaylistItems.GetWithMedia(ctx, ch.ID)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("number", number).
			Msg("Failed to get playlist")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve playlist",
		})
		return
	}

	responses := make([]*PlaylistItemResponse, len(items))
	for i, item := range items {
		responses[i] = toPlaylistItemResponse(item)
	}

	c.JSON(http.StatusOK, PlaylistResponse{
		Channel:      toChannelResponse(ch),
		Items:        responses,
		TotalRuntime: totalRuntime(items),
	})
}

// DeleteChannel handles DELETE /api/channels/:number
func (h *ChannelHandler) DeleteChannel(c *gin.Context) {
	number := c.Param("number")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	ch, err := h.repos.Channels.GetByNumber(ctx, number)
	if err != nil {
		if db.IsNotFound(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Channel not found",
			})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("number", number).
			Msg("Failed to get channel for delete")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve channel",
		})
		return
	}

	// Playlist rows go with the channel via the FK cascade. Media items and
	// collections stay: they are shared catalog entities.
	if err := h.repos.Channels.Delete(ctx, ch.ID); err != nil {
		logger.Log.Error().
			Err(err).
			Str("number", number).
			Msg("Failed to delete channel")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "delete_failed",
			Message: "Failed to delete channel",
		})
		return
	}

	logger.Log.Info().
		Str("number", number).
		Str("name", ch.Name).
		Msg("Channel deleted successfully")

	c.JSON(http.StatusOK, DeleteResponse{
		Message: "Channel deleted successfully",
	})
}

// SetupChannelRoutes registers channel-related routes. Reads are open;
// mutations go behind the API key gate.
func SetupChannelRoutes(apiGroup *gin.RouterGroup, repos *db.Repositories, requireKey gin.HandlerFunc) {
	handler := NewChannelHandler(repos)

	apiGroup.GET("/channels", handler.ListChannels)
	apiGroup.GET("/channels/:number", handler.GetChannel)
	apiGroup.GET("/channels/:number/playlist", handler.GetPlaylist)
	apiGroup.DELETE("/channels/:number", requireKey, handler.DeleteChannel)
}
