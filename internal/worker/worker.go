package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/shaiso/Nodeflow/internal/domain"
	"github.com/shaiso/Nodeflow/internal/mq"
)

// Default configuration values.
const (
	defaultPollInterval = 10 * time.Second
	defaultBatchSize    = 50
	defaultPrefetch     = 5
	defaultConcurrency  = 4
)

// RunProcessor выполняет один run (orchestrator.Orchestrator).
type RunProcessor interface {
	ProcessRun(ctx context.Context, runID uuid.UUID) (*domain.Run, error)
}

// PendingLister возвращает runs в статусе PENDING (repo.RunRepo).
type PendingLister interface {
	ListPending(ctx context.Context, limit int) ([]domain.Run, error)
}

// Worker забирает pending runs и передаёт их orchestrator'у.
//
// Worker — stateless компонент системы, который:
//   - Получает run.pending из очереди RabbitMQ (event-driven)
//   - Периодически проверяет pending runs в БД (polling fallback)
//
// Workers масштабируются горизонтально: несколько экземпляров
// потребляют из одной очереди runs.pending.
type Worker struct {
	processor RunProcessor
	pending   PendingLister

	// conn — nil, если воркер работает только через polling
	conn     *mq.Connection
	consumer *mq.Consumer

	// Configuration
	pollInterval time.Duration
	batchSize    int
	concurrency  int

	// Lifecycle
	logger     *slog.Logger
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	stopped    bool
	stoppedMu  sync.RWMutex
}

// Config — конфигурация Worker.
type Config struct {
	Processor RunProcessor
	Pending   PendingLister

	// Conn — соединение с RabbitMQ (опционально).
	Conn *mq.Connection

	// Polling configuration
	PollInterval time.Duration // интервал polling (default: 10s)
	BatchSize    int           // количество runs за один poll (default: 50)
	Concurrency  int           // runs, выполняемых одновременно при poll (default: 4)

	Logger *slog.Logger
}

// New создаёт новый Worker.
func New(cfg Config) *Worker {
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Worker{
		processor:    cfg.Processor,
		pending:      cfg.Pending,
		conn:         cfg.Conn,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		concurrency:  concurrency,
		logger:       logger,
	}
}

// Start запускает Worker.
//
// Запускает:
//   - Consumer для runs.pending (если задано соединение)
//   - Polling горутину для fallback
func (w *Worker) Start(ctx context.Context) error {
	if w.processor == nil {
		return ErrNoProcessor
	}
	if w.IsStopped() {
		return ErrWorkerStopped
	}

	ctx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel

	w.logger.Info("starting worker",
		"poll_interval", w.pollInterval,
		"batch_size", w.batchSize,
		"concurrency", w.concurrency,
		"queue", w.conn != nil,
	)

	if w.conn != nil {
		w.consumer = mq.NewConsumer(w.conn, w.logger, mq.ConsumerConfig{
			Queue:    mq.QueueRunsPending,
			Handler:  w.handleRunPending,
			Prefetch: defaultPrefetch,
		})

		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			if err := w.consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				w.logger.Error("run consumer error", "error", err)
			}
		}()
	}

	if w.pending != nil {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.pollLoop(ctx)
		}()
	}

	w.logger.Info("worker started")
	return nil
}

// Stop останавливает Worker и ждёт завершения текущих runs.
func (w *Worker) Stop() {
	w.stoppedMu.Lock()
	w.stopped = true
	w.stoppedMu.Unlock()

	w.logger.Info("stopping worker...")

	if w.cancelFunc != nil {
		w.cancelFunc()
	}

	if w.consumer != nil {
		w.consumer.Stop()
	}

	w.wg.Wait()

	w.logger.Info("worker stopped")
}

// IsStopped проверяет, остановлен ли Worker.
func (w *Worker) IsStopped() bool {
	w.stoppedMu.RLock()
	defer w.stoppedMu.RUnlock()
	return w.stopped
}

// pollLoop — цикл polling для fallback.
func (w *Worker) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	// Первый poll сразу при старте (подхватываем runs, созданные пока были выключены)
	w.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

// poll выполняет один цикл polling.
// Найденные runs выполняются параллельно, не больше concurrency одновременно.
func (w *Worker) poll(ctx context.Context) int {
	runs, err := w.pending.ListPending(ctx, w.batchSize)
	if err != nil {
		w.logger.Error("failed to list pending runs", "error", err)
		return 0
	}

	if len(runs) == 0 {
		return 0
	}

	w.logger.Debug("poll found pending runs", "count", len(runs))

	var g errgroup.Group
	g.SetLimit(w.concurrency)

	for i := range runs {
		runID := runs[i].ID
		g.Go(func() error {
			if err := w.processRun(ctx, runID); err != nil {
				w.logger.Error("failed to process run from poll",
					"run_id", runID,
					"error", err,
				)
			}
			return nil
		})
	}
	_ = g.Wait()

	return len(runs)
}
