package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/symptom-intake-server/internal/auth"
	"github.com/symptom-intake-server/internal/domain"
	"github.com/symptom-intake-server/internal/history"
	"github.com/symptom-intake-server/internal/middleware"
	"github.com/symptom-intake-server/internal/service"
)

// Server represents the HTTP server
type Server struct {
	configManager domain.ConfigManager
	logger        *logrus.Logger
	intake        *service.IntakeService
	store         history.Store
	verifier      domain.TokenVerifier
	router        *gin.Engine
	server        *http.Server
}

// NewServer creates a new HTTP server instance. The store and verifier may be
// nil; history routes then answer 503 and all callers are anonymous.
func NewServer(
	configManager domain.ConfigManager,
	logger *logrus.Logger,
	intake *service.IntakeService,
	store history.Store,
	verifier domain.TokenVerifier,
) *Server {
	cfg := configManager.GetConfig()

	// Set Gin mode based on environment
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.AuditLogger())
	router.Use(middleware.Metrics())
	router.Use(corsMiddleware())

	server := &Server{
		configManager: configManager,
		logger:        logger,
		intake:        intake,
		store:         store,
		verifier:      verifier,
		router:        router,
	}

	// Setup routes
	server.setupRoutes()

	return server
}

// Start starts the HTTP server and blocks until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.configManager.GetServerConfig()
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("HTTP server listening")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(shutdownCtx)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.GET("/api/health", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Prediction works for both authenticated and guest callers
	s.router.POST("/api/predict", auth.Optional(s.verifier, s.logger), s.handlePredict)

	// History routes require a verified user
	historyGroup := s.router.Group("/api/search-history")
	historyGroup.Use(auth.Required(s.verifier, s.logger))
	{
		historyGroup.GET("", s.handleListHistory)
		historyGroup.POST("", s.handleSaveHistory)
		historyGroup.DELETE("", s.handleClearHistory)
		historyGroup.DELETE("/:id", s.handleDeleteHistory)
	}
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"message":   "Backend server is running",
		"timestamp": time.Now().UTC(),
	})
}

// corsMiddleware adds CORS headers to responses
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Correlation-ID")
		c.Header("Access-Control-Expose-Headers", "Content-Length, X-Correlation-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
