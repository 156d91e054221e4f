package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Tejaswini280/creater-AI-sub008/internal/config"
	"github.com/Tejaswini280/creater-AI-sub008/internal/models"
	"github.com/Tejaswini280/creater-AI-sub008/internal/service/publisher"
	"github.com/Tejaswini280/creater-AI-sub008/internal/service/publisher/instagram"
	"github.com/Tejaswini280/creater-AI-sub008/internal/service/publisher/linkedin"
	"github.com/Tejaswini280/creater-AI-sub008/internal/service/publisher/tiktok"
	"github.com/Tejaswini280/creater-AI-sub008/internal/service/publisher/twitter"
	"github.com/Tejaswini280/creater-AI-sub008/internal/service/publisher/youtube"
	"github.com/Tejaswini280/creater-AI-sub008/internal/service/scheduler"
	"github.com/Tejaswini280/creater-AI-sub008/internal/service/store"
)

type Server struct {
	Config *config.Config
	DB     *gorm.DB
	Router *gin.Engine
	Logger *zap.Logger
	Server *http.Server

	// Services
	Scheduler *scheduler.Service
	Auth      *AuthService
}

func NewServer(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	// Set gin mode
	gin.SetMode(cfg.Server.Mode)

	// Initialize database
	db, err := store.NewDatabase(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize services
	scheduleStore := store.NewGormStore(db)

	registry, credentials, err := buildPublishers(cfg, logger)
	if err != nil {
		return nil, err
	}

	publishTimeout, err := time.ParseDuration(cfg.Scheduler.PublishTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid publish timeout %q: %w", cfg.Scheduler.PublishTimeout, err)
	}
	dispatcher := scheduler.NewDispatcher(registry, credentials, publishTimeout, logger)

	schedService, err := scheduler.NewService(&cfg.Scheduler, scheduleStore, dispatcher, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler service: %w", err)
	}

	// Create router
	router := gin.New()

	// Create server
	srv := &Server{
		Config:    cfg,
		DB:        db,
		Router:    router,
		Logger:    logger,
		Scheduler: schedService,
		Auth:      NewAuthService(logger, cfg.Auth),
	}

	// Setup middleware and routes
	srv.setupMiddleware()
	srv.setupRoutes()

	return srv, nil
}

func buildPublishers(cfg *config.Config, logger *zap.Logger) (*publisher.Registry, map[models.Platform]publisher.Credentials, error) {
	registry := publisher.NewRegistry(logger)
	credentials := make(map[models.Platform]publisher.Credentials)

	entries := []struct {
		platform models.Platform
		creds    config.PlatformCredentials
		pub      publisher.Publisher
	}{
		{models.PlatformLinkedIn, cfg.Publisher.LinkedIn, linkedin.NewLinkedInPublisher(logger)},
		{models.PlatformYouTube, cfg.Publisher.YouTube, youtube.NewYouTubePublisher(logger)},
		{models.PlatformInstagram, cfg.Publisher.Instagram, instagram.NewInstagramPublisher(logger)},
		{models.PlatformTwitter, cfg.Publisher.Twitter, twitter.NewTwitterPublisher(logger)},
		{models.PlatformTikTok, cfg.Publisher.TikTok, tiktok.NewTikTokPublisher(logger)},
	}

	for _, e := range entries {
		if !e.creds.Enabled {
			logger.Info("Platform disabled, publisher not registered",
				zap.String("platform", e.platform.String()))
			continue
		}
		if err := registry.Register(e.pub); err != nil {
			return nil, nil, err
		}
		credentials[e.platform] = publisher.Credentials{
			AccessToken: e.creds.AccessToken,
			AccountID:   e.creds.AccountID,
			BaseURL:     e.creds.BaseURL,
		}
	}

	return registry, credentials, nil
}

func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.Router.Use(gin.Recovery())

	// Logger middleware
	s.Router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))

	// CORS middleware
	s.Router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})
}

func (s *Server) setupRoutes() {
	// Health check
	s.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Unix(),
		})
	})

	// API routes
	api := s.Router.Group("/api/v1")
	api.POST("/auth/login", s.handleLogin)
	api.Use(s.Auth.Middleware())
	{
		content := api.Group("/content")
		{
			content.POST("", s.handleScheduleContent)
			content.POST("/bulk", s.handleBulkScheduleContent)
			content.GET("", s.handleQueryContent)
			content.GET("/:id", s.handleGetContent)
			content.DELETE("/:id", s.handleCancelContent)
			content.PUT("/:id/reschedule", s.handleRescheduleContent)
		}

		api.GET("/analytics", s.handleGetAnalytics)
		api.GET("/optimal-time", s.handleSuggestOptimalTime)
	}
}

func (s *Server) Start(ctx context.Context) error {
	// Start scheduler; a schema validation failure aborts startup
	if err := s.Scheduler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", s.Config.Server.Host, s.Config.Server.Port)

	s.Server = &http.Server{
		Addr:    addr,
		Handler: s.Router,
	}

	s.Logger.Info("Starting HTTP server", zap.String("addr", addr))

	if s.Config.Server.CertFile != "" && s.Config.Server.KeyFile != "" {
		return s.Server.ListenAndServeTLS(s.Config.Server.CertFile, s.Config.Server.KeyFile)
	}

	return s.Server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	// Stop scheduler first
	s.Scheduler.Stop()

	if s.Server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	return s.Server.Shutdown(shutdownCtx)
}
