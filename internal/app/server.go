// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"gamehub_backend/internal/common"
	"gamehub_backend/internal/config"
	"gamehub_backend/internal/jobs"
	"gamehub_backend/internal/middleware"
	platformElasticsearch "gamehub_backend/internal/platform/elasticsearch"
	platformredis "gamehub_backend/internal/platform/redis"
	"gamehub_backend/internal/sessionhint"
	"gamehub_backend/internal/signup"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	reconciliationJob *jobs.ReconciliationJob

	// Exposed for startup tasks in main.
	AppLogger *zap.Logger
	ESClient  *platformElasticsearch.ESClientWrapper
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	signupHandler *signup.Handler,
	hintHandler *sessionhint.Handler,
	reconciliationJob *jobs.ReconciliationJob,
	registry *prometheus.Registry,
	redisClient *platformredis.Client,
	esClient *platformElasticsearch.ESClientWrapper,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", common.RequestIDHeader, common.SessionIDHeader}
	corsConfig.ExposeHeaders = []string{"Content-Length", common.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	// --- Setup Routes ---
	router.GET("/health", healthHandler(redisClient))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})))

	v1 := router.Group("/api/v1")
	signupHandler.RegisterRoutes(v1)
	hintHandler.RegisterRoutes(v1)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.SignupTimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:        httpServer,
		router:            router,
		cfg:               cfg,
		logger:            logger,
		reconciliationJob: reconciliationJob,
		AppLogger:         logger,
		ESClient:          esClient,
	}, nil
}

// healthHandler reports UP, or 503 when the configured Redis is unreachable.
func healthHandler(redisClient *platformredis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		checks := gin.H{}
		status := http.StatusOK
		if redisClient != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := redisClient.Health(ctx); err != nil {
				checks["redis"] = err.Error()
				status = http.StatusServiceUnavailable
			} else {
				checks["redis"] = "UP"
			}
		}
		state := "UP"
		if status != http.StatusOK {
			state = "DEGRADED"
		}
		c.JSON(status, gin.H{"status": state, "message": "GameHub API", "checks": checks})
	}
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	if s.reconciliationJob != nil {
		if err := s.reconciliationJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start reconciliation job", zap.Error(err))
		}
	} else {
		s.logger.Info("Reconciliation job is not configured, skipping start.")
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.reconciliationJob != nil {
		s.reconciliationJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
