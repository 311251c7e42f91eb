package main

// @title Competition Service API
// @version 1.0.0
// @description Распределение покупательной силы ячеек по рынкам для нулевого и планового варианта.
// @description Рынки одной сети конкурируют между собой, обороты считаются по модели Хаффа
// @description со скидками за соседние филиалы.

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/competition-service/docs"
	"github.com/competition-service/internal/config"
	httpDelivery "github.com/competition-service/internal/delivery/http"
	"github.com/competition-service/internal/delivery/http/handler"
	"github.com/competition-service/internal/pkg/logger"
	"github.com/competition-service/internal/repository/cache"
	"github.com/competition-service/internal/repository/postgres"
	"github.com/competition-service/internal/sales"
	"github.com/competition-service/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "competition-api")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Competition Service")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.Float64("cutoff_km", cfg.Competition.CutoffKm),
	)

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	log.Info("PostgreSQL connected")

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	log.Info("Redis connected")

	// 5. Health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Health(ctx); err != nil {
		log.Fatal("PostgreSQL health check failed", zap.Error(err))
	}
	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}

	log.Info("All connections healthy")

	// 6. Initialize Repositories
	projectRepo := postgres.NewProjectRepository(db)
	baseRepo := postgres.NewBaseDataRepository(db)
	cacheRepo := cache.NewCacheRepository(redisClient)

	log.Info("Repositories initialized")

	// 7. Initialize Use Cases
	// Выгрузка потоков в ClickHouse выполняется только воркером
	competitionUC := usecase.NewCompetitionUseCase(
		projectRepo,
		baseRepo,
		cacheRepo,
		nil,
		sales.Options{CutoffKm: cfg.Competition.CutoffKm, Parallelism: cfg.Competition.Parallelism},
		cfg.Cache.FlowsCacheTTL,
		log,
	)
	reportUC := usecase.NewReportUseCase(projectRepo, competitionUC, log)
	statsUC := usecase.NewStatsUseCase(projectRepo, cacheRepo, cfg.Cache.StatsCacheTTL, log)

	log.Info("Use cases initialized")

	// 8. Initialize HTTP Handlers
	competitionHandler := handler.NewCompetitionHandler(competitionUC, log)
	reportHandler := handler.NewReportHandler(reportUC, log)
	statsHandler := handler.NewStatsHandler(statsUC, log)

	log.Info("HTTP handlers initialized")

	// 9. Initialize HTTP Server
	server := httpDelivery.NewServer(
		cfg,
		log,
		competitionHandler,
		reportHandler,
		statsHandler,
		map[string]httpDelivery.HealthCheck{
			"postgres": db.Health,
			"redis":    redisClient.Health,
		},
	)

	log.Info("HTTP server initialized")

	// 10. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 11. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	if err := db.Close(); err != nil {
		log.Error("Failed to close PostgreSQL", zap.Error(err))
	}

	if err := redisClient.Close(); err != nil {
		log.Error("Failed to close Redis", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
