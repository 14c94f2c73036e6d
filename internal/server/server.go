// Package server provides the HTTP server setup and routing configuration.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sorekai/livetrack/internal/api"
	"github.com/sorekai/livetrack/internal/cache"
	"github.com/sorekai/livetrack/internal/config"
	"github.com/sorekai/livetrack/internal/db"
	"github.com/sorekai/livetrack/internal/logger"
	"github.com/sorekai/livetrack/internal/middleware"
)

// Server represents the HTTP server
type Server struct {
	config *config.Config
	db     *db.DB
	pages  *cache.PageCache
	router *gin.Engine
	server *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, database *db.DB, pages *cache.PageCache) *Server {
	return &Server{
		config: cfg,
		db:     database,
		pages:  pages,
	}
}

// setupRouter initializes the Gin router with middleware and routes
func (s *Server) setupRouter() {
	if s.config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()

	s.router.Use(middleware.RequestLogger())
	s.router.Use(gin.Recovery())
	s.router.Use(cors.Default())

	api.SetupPageRoutes(s.router, s.pages, s.config.Tracker.Channels, s.config.Server.BrowserRedirect)
	api.SetupHealthRoutes(s.router, s.db)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Unknown paths behave like a browser hit regardless of user agent
	s.router.NoRoute(func(c *gin.Context) {
		c.Redirect(http.StatusTemporaryRedirect, s.config.Server.BrowserRedirect)
	})
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

	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
	}

	logger.Log.Info().Msg("Server stopped")
	return nil
}
