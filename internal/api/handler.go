package api

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/shaiso/Nodeflow/internal/domain"
	"github.com/shaiso/Nodeflow/internal/repo"
)

// GraphRepository — хранилище графов (repo.GraphRepo).
type GraphRepository interface {
	Create(ctx context.Context, g *domain.StoredGraph) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.StoredGraph, error)
	GetByName(ctx context.Context, name string) (*domain.StoredGraph, error)
	List(ctx context.Context) ([]domain.StoredGraph, error)
	Update(ctx context.Context, g *domain.StoredGraph) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RunRepository — хранилище runs (repo.RunRepo).
type RunRepository interface {
	Create(ctx context.Context, run *domain.Run) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Run, error)
	List(ctx context.Context, filter repo.RunFilter) ([]domain.Run, error)
}

// RunQueue ставит run в очередь (mq.Publisher).
type RunQueue interface {
	PublishRunPending(ctx context.Context, runID uuid.UUID) error
}

// RunProcessor выполняет run сразу (orchestrator.Orchestrator).
type RunProcessor interface {
	ProcessRun(ctx context.Context, runID uuid.UUID) (*domain.Run, error)
}

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	graphs      GraphRepository
	runs        RunRepository
	queue       RunQueue
	processor   RunProcessor
	parallelism int
	logger      *slog.Logger
}

// Config — конфигурация для создания Handler.
//
// Если задан Queue, новые runs публикуются в очередь. Иначе, если задан
// Processor, run выполняется в запросе. Без обоих run остаётся PENDING
// до ближайшего polling воркера.
type Config struct {
	Graphs      GraphRepository
	Runs        RunRepository
	Queue       RunQueue
	Processor   RunProcessor
	Parallelism int
	Logger      *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		graphs:      cfg.Graphs,
		runs:        cfg.Runs,
		queue:       cfg.Queue,
		processor:   cfg.Processor,
		parallelism: cfg.Parallelism,
		logger:      logger,
	}
}
