package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/competition-service/internal/config"
	"github.com/competition-service/internal/domain/repository"
	"github.com/competition-service/internal/pkg/logger"
	"github.com/competition-service/internal/repository/cache"
	"github.com/competition-service/internal/repository/clickhouse"
	"github.com/competition-service/internal/repository/postgres"
	redisRepo "github.com/competition-service/internal/repository/redis"
	"github.com/competition-service/internal/sales"
	"github.com/competition-service/internal/usecase"
	"github.com/competition-service/internal/worker"
	"github.com/competition-service/internal/worker/competition"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Check if worker is enabled
	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "competition-worker")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Competition Worker")
	log.Info("Configuration loaded",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("max_retries", cfg.Worker.MaxRetries),
		zap.Int("batch_size", cfg.Worker.BatchSize),
		zap.Int("concurrency", cfg.Worker.Concurrency),
		zap.Bool("clickhouse", cfg.ClickHouse.Enabled))

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()

	// 4. Connect to Redis (cache) and Redis Streams
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	streamsClient, err := cache.NewRedisStreams(&cfg.RedisStreams, cfg.Worker.StreamReadTimeout, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis Streams", zap.Error(err))
	}
	defer func() {
		if err := streamsClient.Close(); err != nil {
			log.Error("Failed to close Redis Streams connection", zap.Error(err))
		}
	}()

	// 5. Optional ClickHouse export
	var flowRepo repository.FlowRepository
	if cfg.ClickHouse.Enabled {
		initCtx, initCancel := context.WithTimeout(context.Background(), 10*time.Second)
		conn, err := clickhouse.NewConn(initCtx, cfg.ClickHouse.DSN)
		if err == nil {
			err = conn.EnsureSchema(initCtx)
		}
		initCancel()
		if err != nil {
			log.Fatal("Failed to initialize ClickHouse", zap.Error(err))
		}
		defer func() {
			if err := conn.Close(); err != nil {
				log.Error("Failed to close ClickHouse connection", zap.Error(err))
			}
		}()
		flowRepo = clickhouse.NewFlowRepository(conn, log)
		log.Info("ClickHouse connected")
	}

	// 6. Initialize repositories
	projectRepo := postgres.NewProjectRepository(db)
	baseRepo := postgres.NewBaseDataRepository(db)
	cacheRepo := cache.NewCacheRepository(redisClient)
	streamRepo := redisRepo.NewStreamRepository(streamsClient, log)

	// 7. Initialize use cases
	competitionUC := usecase.NewCompetitionUseCase(
		projectRepo,
		baseRepo,
		cacheRepo,
		flowRepo,
		sales.Options{CutoffKm: cfg.Competition.CutoffKm, Parallelism: cfg.Competition.Parallelism},
		cfg.Cache.FlowsCacheTTL,
		log,
	)

	// 8. Initialize workers
	calculationWorker := competition.NewCalculationWorker(
		streamRepo,
		competitionUC,
		competition.Options{
			ConsumerGroup: cfg.Worker.ConsumerGroup,
			BatchSize:     cfg.Worker.BatchSize,
			MaxRetries:    cfg.Worker.MaxRetries,
			Concurrency:   cfg.Worker.Concurrency,
		},
		log,
	)

	// 9. Create worker manager and register workers
	workerManager := worker.NewWorkerManager(log, cfg.Worker.ShutdownTimeout)
	workerManager.Register(calculationWorker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	// Workers finish the current batch after Stop
	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}
	cancel()

	log.Info("Worker shutdown complete")
}
