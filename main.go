package main

import (
	"context"
	"log"
	"net"
	"net/http"

	"go.uber.org/zap"

	"github.com/dedupkit/dedup-engine/pkg/config"
	"github.com/dedupkit/dedup-engine/pkg/database"
	"github.com/dedupkit/dedup-engine/pkg/handlers"
	"github.com/dedupkit/dedup-engine/pkg/middleware"
	"github.com/dedupkit/dedup-engine/pkg/repositories"
	"github.com/dedupkit/dedup-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := buildLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("bind_addr", cfg.BindAddr),
		zap.String("port", cfg.Port),
		zap.Int64("max_upload_bytes", cfg.MaxUploadBytes),
		zap.Bool("run_history", cfg.Database.Enabled))

	// Run history is optional; without a database, runs live in memory for
	// the result TTL.
	var runRepo repositories.RunRepository
	if cfg.Database.Enabled {
		if err := database.Migrate(&cfg.Database, logger); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
		db, err := database.Connect(context.Background(), &cfg.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		runRepo = repositories.NewRunRepository(db)
	}

	cleanService := services.NewCleanService(cfg.Dedup.Options(), runRepo, cfg.ResultTTL(), logger)

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(cfg, logger)
	healthHandler.RegisterRoutes(mux)

	cleanHandler := handlers.NewCleanHandler(cleanService, cfg.MaxUploadBytes, logger)
	cleanHandler.RegisterRoutes(mux)

	handler := middleware.RequestLogger(logger)(mux)

	addr := net.JoinHostPort(cfg.BindAddr, cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.RequestTimeout(),
		WriteTimeout: cfg.RequestTimeout(),
	}

	logger.Info("Starting dedup-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := server.ListenAndServe(); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func buildLogger(env string) (*zap.Logger, error) {
	if env == "local" || env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
