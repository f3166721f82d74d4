//go:build integration
// +build integration

package integration

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/statichead/rabbitears/internal/api"
	"github.com/statichead/rabbitears/internal/catalog"
	"github.com/statichead/rabbitears/internal/db"
	"github.com/statichead/rabbitears/internal/middleware"
)

// setupTestDB creates a file-backed test database with migrations applied.
// The file lives under t.TempDir so it is removed with the test.
func setupTestDB(t *testing.T) (*db.DB, *db.Repositories, func()) {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "integration.db"))
	require.NoError(t, err, "Failed to create test database")

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err, "Failed to get SQL DB")

	// Get absolute path to migrations directory relative to this file
	// This ensures tests work regardless of working directory
	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok, "Failed to get current file path")

	testDir := filepath.Dir(filename)                     // test/integration
	rootDir := filepath.Dir(filepath.Dir(testDir))        // repo root
	migrationsDir := filepath.Join(rootDir, "migrations") // migrations
	migrationsPath := "file://" + migrationsDir

	err = db.RunMigrations(sqlDB, migrationsPath)
	require.NoError(t, err, "Failed to run migrations")

	repos := db.NewRepositories(database)

	cleanup := func() {
		database.Close()
	}

	return database, repos, cleanup
}

// setupTestRouter wires the full API surface the way the server does,
// including the key gate on mutating routes.
func setupTestRouter(database *db.DB, repos *db.Repositories, apiKey string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	// Add recovery middleware to catch panics in tests
	router.Use(gin.Recovery())

	importer := catalog.NewImporter(database, repos.ImportRuns)
	requireKey := middleware.APIKeyAuth(apiKey)

	apiGroup := router.Group("/api")
	api.SetupHealthRoutes(apiGroup, database)
	api.SetupChannelRoutes(apiGroup, repos, requireKey)
	api.SetupCollectionRoutes(apiGroup, repos)
	api.SetupCatalogRoutes(apiGroup, importer, repos, requireKey)

	return router
}

// postDocument submits a catalog document to the import endpoint.
func postDocument(router *gin.Engine, document, apiKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/catalog/import", strings.NewReader(document))
	req.Header.Set("Content-Type", "application/x-yaml")
	if apiKey != "" {
		req.Header.Set(middleware.APIKeyHeader, apiKey)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// getJSON performs a GET request against the router.
func getJSON(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
