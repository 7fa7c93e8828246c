package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/shaiso/Nodeflow/internal/domain"
	"github.com/shaiso/Nodeflow/internal/engine"
	"github.com/shaiso/Nodeflow/internal/mq"
	"github.com/shaiso/Nodeflow/internal/nodes"
	"github.com/shaiso/Nodeflow/internal/repo"
	"github.com/shaiso/Nodeflow/internal/telemetry"
)

// GraphStore — источник сохранённых графов.
type GraphStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.StoredGraph, error)
}

// RunStore — хранилище runs.
//
// Claim атомарно переводит run из PENDING в RUNNING и возвращает
// repo.ErrInvalidState, если run уже не в PENDING.
type RunStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Run, error)
	Claim(ctx context.Context, run *domain.Run) error
	Update(ctx context.Context, run *domain.Run) error
}

// Notifier сообщает о завершении run.
type Notifier interface {
	PublishRunCompleted(ctx context.Context, run *domain.Run) error
}

// Orchestrator ведёт run по жизненному циклу:
// PENDING → RUNNING → SUCCEEDED / FAILED.
//
// Orchestrator загружает граф run, выполняет его engine'ом и сохраняет
// результат либо ошибку с её классом (engine.ErrorKind).
type Orchestrator struct {
	graphs      GraphStore
	runs        RunStore
	notifier    Notifier
	sinks       mq.SinkPublisher
	parallelism int
	logger      *slog.Logger

	active *activeRuns
}

// Config — конфигурация Orchestrator.
type Config struct {
	Graphs GraphStore
	Runs   RunStore

	// Notifier — получатель run.completed (опционально).
	Notifier Notifier

	// Sinks — публикация значений log-узлов (опционально).
	Sinks mq.SinkPublisher

	// Parallelism — параллелизм engine (<= 1 — последовательно).
	Parallelism int

	Logger *slog.Logger
}

// New создаёт новый Orchestrator.
func New(cfg Config) *Orchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		graphs:      cfg.Graphs,
		runs:        cfg.Runs,
		notifier:    cfg.Notifier,
		sinks:       cfg.Sinks,
		parallelism: cfg.Parallelism,
		logger:      logger,
		active:      newActiveRuns(),
	}
}

// ProcessRun выполняет run в статусе PENDING.
//
// Ошибка выполнения графа не возвращается как error: run сохраняется
// в FAILED с классом ошибки. Если после Claim не удалось загрузить граф
// или сохранить итог, run сохраняется в FAILED с классом Internal.
// error возвращается, если run не найден, не в PENDING, уже
// обрабатывается или его не удалось сохранить даже в FAILED.
func (o *Orchestrator) ProcessRun(ctx context.Context, runID uuid.UUID) (*domain.Run, error) {
	// 1. Загружаем run из БД
	run, err := o.runs.GetByID(ctx, runID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, fmt.Errorf("get run: %w", err)
	}

	// 2. Проверяем статус
	if run.Status != domain.RunStatusPending {
		return run, ErrRunNotPending
	}

	// 3. Регистрируем как активный
	state := NewRunState(run)
	if err := o.active.add(state); err != nil {
		return run, err
	}
	defer o.active.remove(runID)

	logger := telemetry.WithRunID(o.logger, runID.String())
	logger = telemetry.WithGraphID(logger, run.GraphID.String())
	ctx = telemetry.WithLogger(ctx, logger)

	// 4. Забираем run: PENDING → RUNNING
	run.MarkRunning()
	if err := o.runs.Claim(ctx, run); err != nil {
		if errors.Is(err, repo.ErrInvalidState) {
			return run, ErrRunNotPending
		}
		return run, fmt.Errorf("claim run: %w", err)
	}

	// 5. Загружаем граф
	graph, err := o.graphs.GetByID(ctx, run.GraphID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			run.MarkFailed(KindGraphNotFound, fmt.Sprintf("graph %s not found", run.GraphID))
			return run, o.finish(ctx, logger, run)
		}
		return run, o.abort(ctx, logger, run, fmt.Errorf("get graph: %w", err))
	}
	state.Graph = graph

	logger.InfoContext(ctx, "run started",
		"graph", graph.Name,
		"nodes", len(graph.Graph.Nodes),
		"edges", len(graph.Graph.Edges),
	)

	// 6. Выполняем граф
	exec := engine.New(
		engine.WithLogger(logger),
		engine.WithParallelism(o.parallelism),
		engine.WithObserver(o.observer(state, logger)),
	)
	res, err := exec.Execute(ctx, graph.Graph)
	if err != nil {
		run.MarkFailed(engine.ErrorKind(err), err.Error())
	} else {
		run.MarkSucceeded(res)
	}

	// Финальный статус сохраняется и после отмены ctx
	return run, o.finish(context.WithoutCancel(ctx), logger, run)
}

// observer собирает наблюдателя значений log-узлов для одного run.
func (o *Orchestrator) observer(state *RunState, logger *slog.Logger) nodes.Observer {
	count := nodes.ObserverFunc(func(context.Context, nodes.SinkRecord) {
		state.RecordSink()
	})

	var published nodes.Observer
	if o.sinks != nil {
		published = mq.SinkObserver(o.sinks, state.RunID(), logger)
	}

	return nodes.MultiObserver(count, telemetry.SinkLogger(logger), published)
}

// finish сохраняет финальный статус run и публикует run.completed.
func (o *Orchestrator) finish(ctx context.Context, logger *slog.Logger, run *domain.Run) error {
	if err := o.runs.Update(ctx, run); err != nil {
		return o.abort(ctx, logger, run, fmt.Errorf("update run to %s: %w", run.Status, err))
	}
	o.completed(ctx, logger, run)
	return nil
}

// abort переводит забранный run в FAILED с классом Internal, чтобы он
// не остался в RUNNING навсегда. Возвращает cause, если и FAILED
// сохранить не удалось.
func (o *Orchestrator) abort(ctx context.Context, logger *slog.Logger, run *domain.Run, cause error) error {
	ctx = context.WithoutCancel(ctx)

	run.Result = nil
	run.MarkFailed(engine.KindInternal, cause.Error())
	if err := o.runs.Update(ctx, run); err != nil {
		logger.ErrorContext(ctx, "run stuck in RUNNING", "cause", cause, "error", err)
		return cause
	}

	o.completed(ctx, logger, run)
	return nil
}

// completed учитывает сохранённый финальный статус и публикует run.completed.
func (o *Orchestrator) completed(ctx context.Context, logger *slog.Logger, run *domain.Run) {
	telemetry.RunsFinished.WithLabelValues(run.Status.String()).Inc()

	if run.Status == domain.RunStatusSucceeded {
		logger.InfoContext(ctx, "run succeeded", "duration", run.Duration())
	} else {
		logger.WarnContext(ctx, "run failed",
			"error_kind", run.ErrorKind,
			"error", run.Error,
			"duration", run.Duration(),
		)
	}

	if o.notifier != nil {
		if err := o.notifier.PublishRunCompleted(ctx, run); err != nil {
			// Статус уже в БД, подписчики увидят его через API
			logger.WarnContext(ctx, "failed to publish run.completed", "error", err)
		}
	}
}

// IsActive проверяет, выполняется ли run сейчас.
func (o *Orchestrator) IsActive(runID uuid.UUID) bool {
	_, ok := o.active.get(runID)
	return ok
}

// ActiveRunsCount возвращает количество активных runs.
func (o *Orchestrator) ActiveRunsCount() int {
	return o.active.len()
}

// GetActiveRunStats возвращает статистику по активному run.
func (o *Orchestrator) GetActiveRunStats(runID uuid.UUID) (RunStats, bool) {
	state, ok := o.active.get(runID)
	if !ok {
		return RunStats{}, false
	}
	return state.Stats(), true
}
