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
	"github.com/statichead/rabbitears/internal/models"
)

// setupCollectionTestRouter creates a test router with collection routes
func setupCollectionTestRouter(repos *db.Repositories) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	apiGroup := router.Group("/api")
	SetupCollectionRoutes(apiGroup, repos)
	return router
}

// seedCollection creates a collection holding n media items
func seedCollection(t *testing.T, repos *db.Repositories, name string, n int) *models.Collection {
	t.Helper()
	ctx := context.Background()

	collection := models.NewCollection(name)
	err := repos.Collections.Create(ctx, collection)
	require.NoError(t, err)

	for i := 0; i < n; i++ {
		item := models.NewMediaItem(collection.ID, fmt.Sprintf("https://example.com/%s/%d", name, i), models.SourceArchive)
		err := repos.MediaItems.Create(ctx, item)
		require.NoError(t, err)
	}

	return collection
}

func TestListCollections_Empty(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()
	router := setupCollectionTestRouter(repos)

	req := httptest.NewRequest("GET", "/api/collections", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp CollectionListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Collections)
}

func TestListCollections_WithCounts(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()
	router := setupCollectionTestRouter(repos)

	seedCollection(t, repos, "Winter Olympics", 2)
	seedCollection(t, repos, "Ad Breaks", 0)

	req := httptest.NewRequest("GET", "/api/collections", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp CollectionListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Collections, 2)

	// Ordered by name.
	assert.Equal(t, "Ad Breaks", resp.Collections[0].Name)
	assert.Equal(t, int64(0), resp.Collections[0].ItemCount)
	assert.Equal(t, "Winter Olympics", resp.Collections[1].Name)
	assert.Equal(t, int64(2), resp.Collections[1].ItemCount)
}

func TestGetCollectionItems(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()
	router := setupCollectionTestRouter(repos)

	collection := seedCollection(t, repos, "Winter Olympics", 3)

	req := httptest.NewRequest("GET", "/api/collections/Winter%20Olympics/items", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp CollectionItemsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Collection)
	assert.Equal(t, collection.ID.String(), resp.Collection.ID)
	assert.Equal(t, int64(3), resp.Collection.ItemCount)
	require.Len(t, resp.Items, 3)
	assert.Equal(t, models.SourceArchive, resp.Items[0].Source)
}

func TestGetCollectionItems_CaseSensitiveName(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()
	router := setupCollectionTestRouter(repos)

	seedCollection(t, repos, "Winter Olympics", 1)

	req := httptest.NewRequest("GET", "/api/collections/winter%20olympics/items", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetCollectionItems_NotFound(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()
	router := setupCollectionTestRouter(repos)

	req := httptest.NewRequest("GET", "/api/collections/Nope/items", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
