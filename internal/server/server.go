package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/huddle-api/internal/config"
	"github.com/gravadigital/huddle-api/internal/handlers"
	"github.com/gravadigital/huddle-api/internal/logger"
	"github.com/gravadigital/huddle-api/internal/middleware/requestlog"
	"github.com/gravadigital/huddle-api/internal/recommend"
	"github.com/gravadigital/huddle-api/internal/response"
	"github.com/gravadigital/huddle-api/internal/session"
)

// HealthChecker reports whether the backing store is reachable
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Dependencies are the collaborators the routes are built from.
// Exporter may be nil when object storage is not configured.
type Dependencies struct {
	Store    HealthChecker
	Events   handlers.EventService
	Voting   handlers.VotingService
	Exporter handlers.Exporter
	Places   recommend.Provider
	Sessions *session.Manager
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	config     *config.Config
	deps       Dependencies
}

// New creates a new server instance
func New(cfg *config.Config, deps Dependencies) *Server {
	return &Server{
		config: cfg,
		deps:   deps,
	}
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:    ":" + s.config.Server.Port,
		Handler: s.Router(),

		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Get().Info("Starting HTTP server", "port", s.config.Server.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	logger.Get().Info("Shutting down HTTP server...")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

// Router builds the HTTP router with middleware and routes
func (s *Server) Router() *gin.Engine {
	if s.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else if s.config.Server.GinMode != "" {
		gin.SetMode(s.config.Server.GinMode)
	}

	router := gin.New()

	router.Use(requestlog.New())
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = config.SplitList(s.config.CORS.AllowOrigins)
	corsConfig.AllowMethods = config.SplitList(s.config.CORS.AllowMethods)
	corsConfig.AllowHeaders = config.SplitList(s.config.CORS.AllowHeaders)
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	router.GET("/ping", s.ping)

	s.setupAPIRoutes(router)

	return router
}

func (s *Server) ping(c *gin.Context) {
	if s.deps.Store != nil {
		if err := s.deps.Store.Health(c.Request.Context()); err != nil {
			logger.HTTP().Error("Health check failed", "error", err)
			response.ServiceUnavailableError(c, "Database is unavailable")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Huddle API is running",
		"status":  "healthy",
	})
}

// setupAPIRoutes configures all API routes
func (s *Server) setupAPIRoutes(router *gin.Engine) {
	eventHandler := handlers.NewEventHandler(s.deps.Events)
	voteHandler := handlers.NewVoteHandler(s.deps.Voting)
	exportHandler := handlers.NewExportHandler(s.deps.Exporter)
	placesHandler := handlers.NewPlacesHandler(s.deps.Places)

	withSession := func(c *gin.Context) { c.Next() }
	if s.deps.Sessions != nil {
		withSession = s.deps.Sessions.Middleware()
	}

	api := router.Group("/api")
	{
		events := api.Group("/events")
		{
			events.POST("", eventHandler.CreateEvent)
			events.GET("/:token", eventHandler.GetEvent)
			events.GET("/:token/results", eventHandler.GetResults)
			events.PATCH("/:token/status", eventHandler.UpdateStatus)
			events.POST("/:token/vote", withSession, voteHandler.SubmitVote)
			events.POST("/:token/export", exportHandler.ExportEvent)
		}

		places := api.Group("/places")
		{
			places.GET("/search-locations", placesHandler.SearchLocations)
			places.POST("/recommendations", placesHandler.GetRecommendations)
		}
	}
}
