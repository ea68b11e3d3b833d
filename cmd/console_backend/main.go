package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	_ "github.com/orbitcrm/record_console_app/cmd/docs"
	"github.com/orbitcrm/record_console_app/internal/adapters/notify"
	"github.com/orbitcrm/record_console_app/internal/adapters/upstream/rest"
	"github.com/orbitcrm/record_console_app/internal/cache"
	portssvc "github.com/orbitcrm/record_console_app/internal/core/ports/services"
	"github.com/orbitcrm/record_console_app/internal/core/services"
	"github.com/orbitcrm/record_console_app/internal/handlers"
	"github.com/orbitcrm/record_console_app/internal/middleware"
	"github.com/orbitcrm/record_console_app/pkg/config"
)

// @title OrbitCRM Record Console API
// @version 1.0
// @description Backend for the OrbitCRM record edit and submission console.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	// Outbound collaborators
	tokens := rest.ContextTokenProvider{}
	upstreamClient := rest.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout, cfg.UpstreamRetryMax, tokens, logger)
	uploader := rest.NewUploader(cfg.AssetBaseURL, tokens, logger)

	// Query cache; the store also reconciles itself after writes
	store, err := cache.NewStore(cfg.CacheSize, upstreamClient, upstreamClient, logger)
	if err != nil {
		logger.Error("Failed to initialize cache store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	stagingDir := cfg.StagingDir
	if stagingDir == "" {
		stagingDir = filepath.Join(os.TempDir(), "record_console_staging")
	}
	staging, err := services.NewStagingStore(stagingDir)
	if err != nil {
		logger.Error("Failed to initialize staging store", slog.String("dir", stagingDir), slog.String("error", err.Error()))
		os.Exit(1)
	}

	notifier := notify.NewSlogNotifier(logger)

	container := &portssvc.ServiceContainer{
		Client: services.NewClientService(upstreamClient, uploader, notifier, store, store, staging),
		Task:   services.NewTaskService(upstreamClient, notifier, store, store),
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid RATE_LIMIT format", slog.String("value", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	ipLimiter := limiter.New(memory.NewStore(), rate)
	r.Use(middleware.RateLimit(ipLimiter))

	handlers.RegisterRoutes(r, cfg, container)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
