package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statichead/rabbitears/internal/catalog"
	"github.com/statichead/rabbitears/internal/db"
	"github.com/statichead/rabbitears/internal/middleware"
)

// setupTestDB creates a test database backed by a temp file
func setupTestDB(t *testing.T) (*db.DB, *db.Repositories, func()) {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err)
	err = db.RunMigrations(sqlDB, "file://../../migrations")
	require.NoError(t, err)

	repos := db.NewRepositories(database)

	cleanup := func() {
		_ = database.Close()
	}

	return database, repos, cleanup
}

// setupCatalogTestRouter creates a test router with catalog routes behind
// the given API key
func setupCatalogTestRouter(database *db.DB, repos *db.Repositories, secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	apiGroup := router.Group("/api")

	importer := catalog.NewImporter(database, repos.ImportRuns)
	SetupCatalogRoutes(apiGroup, importer, repos, middleware.APIKeyAuth(secret))

	return router
}

const testImportDocument = `
channels:
  - number: 30
    name: Cartoon Block
    group: Kids
    streams:
      - id: cb-pilot
        collection: Saturday Cartoons
        url: https://archive.org/details/cb-pilot
        source: archive
        runtime: PT22M
`

func postDocument(router *gin.Engine, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/catalog/import", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/yaml")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestImportCatalog_Success(t *testing.T) {
	database, repos, cleanup := setupTestDB(t)
	defer cleanup()
	router := setupCatalogTestRouter(database, repos, "")

	w := postDocument(router, testImportDocument, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp ImportReportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "succeeded", resp.Status)
	require.Len(t, resp.Channels, 1)
	assert.Equal(t, "30", resp.Channels[0].Number)
	assert.Equal(t, "Cartoon Block", resp.Channels[0].Name)
	assert.Empty(t, resp.Failures)
	assert.Equal(t, 1, resp.CollectionsCreated)
	assert.Equal(t, 1, resp.ItemsCreated)

	ch, err := repos.Channels.GetByNumber(context.Background(), "30")
	require.NoError(t, err)
	assert.Equal(t, "Cartoon Block", ch.Name)
}

func TestImportCatalog_EmptyBody(t *testing.T) {
	database, repos, cleanup := setupTestDB(t)
	defer cleanup()
	router := setupCatalogTestRouter(database, repos, "")

	w := postDocument(router, "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_request", resp.Error)
}

func TestImportCatalog_InvalidDocument(t *testing.T) {
	database, repos, cleanup := setupTestDB(t)
	defer cleanup()
	router := setupCatalogTestRouter(database, repos, "")

	w := postDocument(router, "other: thing", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp ValidationErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_document", resp.Error)
	require.NotEmpty(t, resp.Violations)
	assert.Contains(t, resp.Violations[0], "channels")

	count, err := repos.Channels.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestImportCatalog_PartialFailure(t *testing.T) {
	database, repos, cleanup := setupTestDB(t)
	defer cleanup()
	router := setupCatalogTestRouter(database, repos, "")

	w := postDocument(router, `
channels:
  - number: 1
    name: Good
    streams:
      - collection: Keep
        url: https://example.com/good
        source: youtube
  - number: 2
    name: Broken
    streams:
      - collection: Dropped
        url: https://example.com/bad
        source: youtube
        runtime: twenty minutes
`, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	var resp ImportReportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "partial", resp.Status)
	require.Len(t, resp.Channels, 1)
	assert.Equal(t, "1", resp.Channels[0].Number)
	require.Len(t, resp.Failures, 1)
	assert.Equal(t, "2", resp.Failures[0].Number)
	assert.Contains(t, resp.Failures[0].Reason, "streams[0]")

	// The good channel landed despite the failure.
	_, err := repos.Channels.GetByNumber(context.Background(), "1")
	assert.NoError(t, err)
	_, err = repos.Channels.GetByNumber(context.Background(), "2")
	assert.True(t, db.IsNotFound(err))
}

func TestImportCatalog_RequiresAPIKey(t *testing.T) {
	database, repos, cleanup := setupTestDB(t)
	defer cleanup()
	router := setupCatalogTestRouter(database, repos, "hunter2")

	// No key.
	w := postDocument(router, testImportDocument, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "ApiKey", w.Header().Get("WWW-Authenticate"))

	// Wrong key.
	w = postDocument(router, testImportDocument, map[string]string{middleware.APIKeyHeader: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Right key.
	w = postDocument(router, testImportDocument, map[string]string{middleware.APIKeyHeader: "hunter2"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestImportCatalog_QueryParamKey(t *testing.T) {
	database, repos, cleanup := setupTestDB(t)
	defer cleanup()
	router := setupCatalogTestRouter(database, repos, "hunter2")

	req := httptest.NewRequest("POST", "/api/catalog/import?api_key=hunter2", strings.NewReader(testImportDocument))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListImports(t *testing.T) {
	database, repos, cleanup := setupTestDB(t)
	defer cleanup()
	router := setupCatalogTestRouter(database, repos, "")

	w := postDocument(router, testImportDocument, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = postDocument(router, "other: thing", nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	req := httptest.NewRequest("GET", "/api/catalog/imports", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp ImportRunListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Imports, 2)

	// Newest first: the rejected run is on top.
	assert.Equal(t, "failed", resp.Imports[0].Status)
	require.NotNil(t, resp.Imports[0].Detail)
	assert.Equal(t, "succeeded", resp.Imports[1].Status)
	assert.Equal(t, 1, resp.Imports[1].ChannelsImported)
}

func TestListImports_Limit(t *testing.T) {
	database, repos, cleanup := setupTestDB(t)
	defer cleanup()
	router := setupCatalogTestRouter(database, repos, "")

	w := postDocument(router, testImportDocument, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = postDocument(router, testImportDocument, nil)
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest("GET", "/api/catalog/imports?limit=1", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp ImportRunListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Imports, 1)

	req = httptest.NewRequest("GET", "/api/catalog/imports?limit=zero", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListImports_OpenWithoutKey(t *testing.T) {
	database, repos, cleanup := setupTestDB(t)
	defer cleanup()
	router := setupCatalogTestRouter(database, repos, "hunter2")

	req := httptest.NewRequest("GET", "/api/catalog/imports", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
