package worker

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Stats - счётчики обработанных событий
type Stats struct {
	Processed int64 `json:"processed"`
	Failed    int64 `json:"failed"`
	Skipped   int64 `json:"skipped"`
}

// BaseWorker содержит общую логику для всех воркеров
type BaseWorker struct {
	name          string
	logger        *zap.Logger
	stopChan      chan struct{}
	stopOnce      sync.Once
	stopped       atomic.Bool
	consumerGroup string

	processed atomic.Int64
	failed    atomic.Int64
	skipped   atomic.Int64
}

// NewBaseWorker создает новый BaseWorker
func NewBaseWorker(name, consumerGroup string, logger *zap.Logger) *BaseWorker {
	return &BaseWorker{
		name:          name,
		logger:        logger.With(zap.String("worker", name)),
		stopChan:      make(chan struct{}),
		consumerGroup: consumerGroup,
	}
}

// Name возвращает имя воркера
func (w *BaseWorker) Name() string {
	return w.name
}

// Stop останавливает воркер, повторный вызов ничего не делает
func (w *BaseWorker) Stop() error {
	w.stopOnce.Do(func() {
		w.logger.Info("Stopping worker")
		w.stopped.Store(true)
		close(w.stopChan)
	})
	return nil
}

// IsStopped проверяет, остановлен ли воркер
func (w *BaseWorker) IsStopped() bool {
	return w.stopped.Load()
}

// StopChan возвращает канал остановки
func (w *BaseWorker) StopChan() <-chan struct{} {
	return w.stopChan
}

// ConsumerGroup возвращает имя consumer group
func (w *BaseWorker) ConsumerGroup() string {
	return w.consumerGroup
}

// Logger возвращает логгер
func (w *BaseWorker) Logger() *zap.Logger {
	return w.logger
}

// MarkProcessed, MarkFailed и MarkSkipped обновляют счётчики
func (w *BaseWorker) MarkProcessed() { w.processed.Add(1) }
func (w *BaseWorker) MarkFailed()    { w.failed.Add(1) }
func (w *BaseWorker) MarkSkipped()   { w.skipped.Add(1) }

// Stats возвращает снимок счётчиков
func (w *BaseWorker) Stats() Stats {
	return Stats{
		Processed: w.processed.Load(),
		Failed:    w.failed.Load(),
		Skipped:   w.skipped.Load(),
	}
}
