package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statichead/rabbitears/internal/db"
	"github.com/statichead/rabbitears/internal/middleware"
	"github.com/statichead/rabbitears/internal/models"
)

// setupChannelTestRouter creates a test router with channel routes
func setupChannelTestRouter(repos *db.Repositories) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	apiGroup := router.Group("/api")
	SetupChannelRoutes(apiGroup, repos, middleware.APIKeyAuth(""))
	return router
}

// seedChannel creates a channel and, when runtimes are given, a matching
// collection with one playlist entry per runtime. A zero runtime seeds an
// item with no recorded runtime.
func seedChannel(t *testing.T, repos *db.Repositories, number, name string, runtimes []int64) *models.Channel {
	t.Helper()
	ctx := context.Background()

	ch := models.NewChannel(number, name)
	err := repos.Channels.Create(ctx, ch)
	require.NoError(t, err)

	if len(runtimes) == 0 {
		return ch
	}

	collection := models.NewCollection("Seed " + number)
	err = repos.Collections.Create(ctx, collection)
	require.NoError(t, err)

	items := make([]*models.PlaylistItem, 0, len(runtimes))
	for i, seconds := range runtimes {
		item := models.NewMediaItem(collection.ID, fmt.Sprintf("https://example.com/%s/%d", number, i), models.SourceYouTube)
		if seconds > 0 {
			item.RuntimeSeconds = &seconds
		}
		err = repos.MediaItems.Create(ctx, item)
		require.NoError(t, err)
		items = append(items, models.NewPlaylistItem(ch.ID, item.ID, i))
	}
	err = repos.PlaylistItems.Replace(ctx, ch.ID, items)
	require.NoError(t, err)

	return ch
}

func TestListChannels_Empty(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()
	router := setupChannelTestRouter(repos)

	req := httptest.NewRequest("GET", "/api/channels", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp ChannelListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Channels)
}

func TestListChannels_DialOrder(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()
	router := setupChannelTestRouter(repos)

	seedChannel(t, repos, "10", "Ten", nil)
	seedChannel(t, repos, "2", "Two", nil)
	seedChannel(t, repos, "7", "Seven", nil)

	req := httptest.NewRequest("GET", "/api/channels", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp ChannelListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Channels, 3)

	numbers := make([]string, len(resp.Channels))
	for i, ch := range resp.Channels {
		numbers[i] = ch.Number
	}
	assert.Equal(t, []string{"2", "7", "10"}, numbers)
}

func TestGetChannel(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()
	router := setupChannelTestRouter(repos)

	ch := seedChannel(t, repos, "42", "Deep Cuts", nil)

	req := httptest.NewRequest("GET", "/api/channels/42", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp ChannelResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ch.ID.String(), resp.ID)
	assert.Equal(t, "42", resp.Number)
	assert.Equal(t, "Deep Cuts", resp.Name)
	assert.True(t, resp.Enabled)
}

func TestGetChannel_NotFound(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()
	router := setupChannelTestRouter(repos)

	req := httptest.NewRequest("GET", "/api/channels/99", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "not_found", resp.Error)
}

func TestGetPlaylist(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()
	router := setupChannelTestRouter(repos)

	seedChannel(t, repos, "5", "Mixed Bag", []int64{120, 0, 300})

	req := httptest.NewRequest("GET", "/api/channels/5/playlist", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp PlaylistResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Channel)
	assert.Equal(t, "5", resp.Channel.Number)
	require.Len(t, resp.Items, 3)

	for i, item := range resp.Items {
		assert.Equal(t, i, item.Position)
		require.NotNil(t, item.MediaItem, "playlist items embed their media")
	}

	// Items with no recorded runtime contribute nothing to the total.
	assert.Equal(t, int64(420), resp.TotalRuntime)
	assert.Equal(t, "--:--:--", resp.Items[1].MediaItem.Runtime)
}

func TestGetPlaylist_EmptyChannel(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()
	router := setupChannelTestRouter(repos)

	seedChannel(t, repos, "8", "Placeholder", nil)

	req := httptest.NewRequest("GET", "/api/channels/8/playlist", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp PlaylistResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Items)
	assert.Equal(t, int64(0), resp.TotalRuntime)
}

func TestGetPlaylist_ChannelNotFound(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()
	router := setupChannelTestRouter(repos)

	req := httptest.NewRequest("GET", "/api/channels/99/playlist", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteChannel(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()
	router := setupChannelTestRouter(repos)
	ctx := context.Background()

	ch := seedChannel(t, repos, "6", "Doomed", []int64{60, 90})

	req := httptest.NewRequest("DELETE", "/api/channels/6", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	_, err := repos.Channels.GetByNumber(ctx, "6")
	assert.True(t, db.IsNotFound(err))

	// Playlist rows cascade away with the channel; media items are shared
	// catalog entities and survive.
	count, err := repos.PlaylistItems.CountByChannelID(ctx, ch.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	itemCount, err := repos.MediaItems.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), itemCount)
}

func TestDeleteChannel_NotFound(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()
	router := setupChannelTestRouter(repos)

	req := httptest.NewRequest("DELETE", "/api/channels/99", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
