// Package server provides the HTTP server setup and routing configuration.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/statichead/rabbitears/internal/api"
	"github.com/statichead/rabbitears/internal/catalog"
	"github.com/statichead/rabbitears/internal/config"
	"github.com/statichead/rabbitears/internal/db"
	"github.com/statichead/rabbitears/internal/logger"
	"github.com/statichead/rabbitears/internal/middleware"
)

// Server represents the HTTP server
type Server struct {
	config   *config.Config
	db       *db.DB
	repos    *db.Repositories
	importer *catalog.Importer
	router   *gin.Engine
	server   *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, database *db.DB) *Server {
	repos := db.NewRepositories(database)
	importer := catalog.NewImporter(database, repos.ImportRuns)

	return &Server{
		config:   cfg,
		db:       database,
		repos:    repos,
		importer: importer,
	}
}

// setupRouter initializes the Gin router with middleware and routes
func (s *Server) setupRouter() {
	// Set Gin mode based on log level
	if s.config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create new Gin router
	s.router = gin.New()

	// Add middleware stack
	s.router.Use(middleware.RequestLogger()) // Custom zerolog request logger
	s.router.Use(gin.Recovery())             // Panic recovery
	s.router.Use(cors.Default())             // CORS support (allows all origins)

	// Mutating endpoints share one key check; reads stay open
	requireKey := middleware.APIKeyAuth(s.config.Auth.APIKey)

	// Create API route group
	apiGroup := s.router.Group("/api")

	// Register service routes
	api.SetupHealthRoutes(apiGroup, s.db)
	api.SetupChannelRoutes(apiGroup, s.repos, requireKey)
	api.SetupCollectionRoutes(apiGroup, s.repos)
	api.SetupCatalogRoutes(apiGroup, s.importer, s.repos, requireKey)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.setupRouter()

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.server = &http.Server{
		Addr:           addr,
		Handler:        s.router,
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	logger.Log.Info().
		Str("host", s.config.Server.Host).
		Int("port", s.config.Server.Port).
		Msg("Starting HTTP server")

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Log.Info().Msg("Shutting down server gracefully")

	// Check if server was started before attempting shutdown
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
	}

	logger.Log.Info().Msg("Server stopped")
	return nil
}
