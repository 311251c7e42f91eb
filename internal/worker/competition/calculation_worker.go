package competition

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/competition-service/internal/domain"
	"github.com/competition-service/internal/domain/repository"
	"github.com/competition-service/internal/pkg/errors"
	"github.com/competition-service/internal/pkg/validator"
	"github.com/competition-service/internal/usecase"
	"github.com/competition-service/internal/worker"
)

const (
	defaultBatchSize = 10
	emptyQueueSleep  = 100 * time.Millisecond // пауза если очередь пуста
	errorSleep       = time.Second
	retryDelay       = 200 * time.Millisecond
)

// Executor считает варианты проекта
type Executor interface {
	Execute(ctx context.Context, projectID uuid.UUID, settings []domain.Setting) (*usecase.RunResult, error)
}

// Options - параметры CalculationWorker
type Options struct {
	ConsumerGroup string
	BatchSize     int
	MaxRetries    int
	// Concurrency ограничивает число проектов, считаемых одновременно
	Concurrency int
}

// CalculationWorker обрабатывает события расчёта конкуренции
type CalculationWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	executor     Executor
	consumerName string
	opts         Options
	sleep        func(ctx context.Context, d time.Duration)
}

// NewCalculationWorker создает новый CalculationWorker
func NewCalculationWorker(
	streamRepo repository.StreamRepository,
	executor Executor,
	opts Options,
	logger *zap.Logger,
) *CalculationWorker {
	hostname, _ := os.Hostname()
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}

	return &CalculationWorker{
		BaseWorker:   worker.NewBaseWorker("competition-calculation", opts.ConsumerGroup, logger),
		streamRepo:   streamRepo,
		executor:     executor,
		consumerName: fmt.Sprintf("%s-%d", hostname, os.Getpid()),
		opts:         opts,
		sleep:        sleepCtx,
	}
}

// Start запускает воркер
func (w *CalculationWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting CalculationWorker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName),
		zap.Int("batch_size", w.opts.BatchSize),
		zap.Int("concurrency", w.opts.Concurrency))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamCompetitionCalculate, w.ConsumerGroup()); err != nil {
		logger.Error("Failed to create consumer group", zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		default:
			processed, err := w.ProcessBatch(ctx)
			if err != nil {
				logger.Error("Failed to process batch", zap.Error(err))
				w.sleep(ctx, errorSleep)
				continue
			}

			if processed == 0 {
				w.sleep(ctx, emptyQueueSleep)
			}
		}
	}
}

// ProcessBatch читает и обрабатывает пачку сообщений.
// Возвращает количество прочитанных сообщений.
func (w *CalculationWorker) ProcessBatch(ctx context.Context) (int, error) {
	logger := w.Logger()

	messages, err := w.streamRepo.ConsumeBatch(
		ctx,
		domain.StreamCompetitionCalculate,
		w.ConsumerGroup(),
		w.consumerName,
		w.opts.BatchSize,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}
	if len(messages) == 0 {
		return 0, nil
	}

	logger.Debug("Processing batch", zap.Int("message_count", len(messages)))

	var g errgroup.Group
	g.SetLimit(w.opts.Concurrency)
	ids := make([]string, len(messages))
	for i, msg := range messages {
		ids[i] = msg.ID
		g.Go(func() error {
			w.handle(ctx, msg)
			return nil
		})
	}
	_ = g.Wait()

	// Сообщения без ACK будут переобработаны, это не критично
	if err := w.streamRepo.AckMessages(ctx, domain.StreamCompetitionCalculate, w.ConsumerGroup(), ids); err != nil {
		logger.Error("Failed to ack messages", zap.Error(err))
	}

	return len(messages), nil
}

func (w *CalculationWorker) handle(ctx context.Context, msg domain.StreamMessage) {
	logger := w.Logger().With(zap.String("message_id", msg.ID))

	event, err := parseMessage(msg)
	if err != nil {
		logger.Warn("Failed to parse message, skipping", zap.Error(err))
		w.MarkSkipped()
		return
	}

	done := &domain.CompetitionDoneEvent{
		RequestID: event.RequestID,
		ProjectID: event.ProjectID,
	}

	result, err := w.execute(ctx, event)
	if err != nil {
		logger.Error("Calculation failed",
			zap.String("request_id", event.RequestID.String()),
			zap.String("project_id", event.ProjectID.String()),
			zap.Error(err))
		done.Error = err.Error()
		w.MarkFailed()
	} else {
		done.RunID = result.RunID
		done.Results = result.Summaries
		w.MarkProcessed()
	}

	if err := w.streamRepo.PublishToStream(ctx, domain.StreamCompetitionDone, done); err != nil {
		logger.Error("Failed to publish done event",
			zap.String("request_id", event.RequestID.String()),
			zap.Error(err))
	}
}

// execute повторяет расчёт при внутренних ошибках, ошибки входных данных
// возвращаются сразу
func (w *CalculationWorker) execute(ctx context.Context, event *domain.CompetitionCalculateEvent) (*usecase.RunResult, error) {
	var lastErr error
	for attempt := 0; attempt <= w.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			w.sleep(ctx, retryDelay*time.Duration(attempt))
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
		}

		result, err := w.executor.Execute(ctx, event.ProjectID, event.RequestedSettings())
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !retryable(err) {
			break
		}
		w.Logger().Warn("Calculation attempt failed",
			zap.String("project_id", event.ProjectID.String()),
			zap.Int("attempt", attempt+1),
			zap.Error(err))
	}
	return nil, lastErr
}

func retryable(err error) bool {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr.StatusCode >= http.StatusInternalServerError
	}
	return true
}

func parseMessage(msg domain.StreamMessage) (*domain.CompetitionCalculateEvent, error) {
	if msg.Data == "" {
		return nil, fmt.Errorf("missing 'data' field")
	}

	var event domain.CompetitionCalculateEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if err := validator.Validate(&event); err != nil {
		return nil, fmt.Errorf("invalid event: %w", err)
	}
	return &event, nil
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
