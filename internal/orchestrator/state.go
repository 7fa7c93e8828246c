package orchestrator

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Nodeflow/internal/domain"
)

// RunState — состояние run, который сейчас выполняется.
//
// Создаётся, когда Orchestrator забирает run, и удаляется после
// сохранения финального статуса.
type RunState struct {
	// Run — данные run из БД.
	Run *domain.Run

	// Graph — граф, который выполняется.
	Graph *domain.StoredGraph

	started time.Time
	sinks   atomic.Int64
}

// NewRunState создаёт RunState.
func NewRunState(run *domain.Run) *RunState {
	return &RunState{Run: run, started: time.Now()}
}

// RunID возвращает ID run.
func (s *RunState) RunID() uuid.UUID {
	return s.Run.ID
}

// RecordSink отмечает значение, прошедшее через log-узел.
func (s *RunState) RecordSink() {
	s.sinks.Add(1)
}

// RunStats — статистика активного run.
type RunStats struct {
	GraphID    uuid.UUID
	Nodes      int
	SinkValues int64
	Elapsed    time.Duration
}

// Stats возвращает статистику run.
func (s *RunState) Stats() RunStats {
	stats := RunStats{
		GraphID:    s.Run.GraphID,
		SinkValues: s.sinks.Load(),
		Elapsed:    time.Since(s.started),
	}
	if s.Graph != nil {
		stats.Nodes = len(s.Graph.Graph.Nodes)
	}
	return stats
}

// activeRuns — runs в процессе выполнения (runID → state).
type activeRuns struct {
	mu   sync.RWMutex
	runs map[uuid.UUID]*RunState
}

func newActiveRuns() *activeRuns {
	return &activeRuns{runs: make(map[uuid.UUID]*RunState)}
}

// add регистрирует run. Возвращает ErrRunAlreadyActive, если run уже есть.
func (a *activeRuns) add(state *RunState) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.runs[state.RunID()]; exists {
		return ErrRunAlreadyActive
	}
	a.runs[state.RunID()] = state
	return nil
}

func (a *activeRuns) remove(runID uuid.UUID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.runs, runID)
}

func (a *activeRuns) get(runID uuid.UUID) (*RunState, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s, ok := a.runs[runID]
	return s, ok
}

func (a *activeRuns) len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.runs)
}
