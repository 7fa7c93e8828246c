package domain

import (
	"time"

	"github.com/google/uuid"
)

// Run — один запуск сохранённого графа.
//
// Run создаётся через API в статусе PENDING, затем orchestrator
// выполняет граф и сохраняет либо Result, либо ошибку с её классом.
type Run struct {
	// ID — уникальный идентификатор run.
	ID uuid.UUID `json:"id"`

	// GraphID — ссылка на сохранённый граф.
	GraphID uuid.UUID `json:"graph_id"`

	// Status — текущий статус выполнения.
	Status RunStatus `json:"status"`

	// Result — результат выполнения, если run завершился успешно.
	Result *Result `json:"result,omitempty"`

	// Error — текст ошибки, если run завершился с FAILED.
	Error string `json:"error,omitempty"`

	// ErrorKind — класс ошибки (DanglingReference, CycleDetected, ...).
	ErrorKind string `json:"error_kind,omitempty"`

	// StartedAt — время начала выполнения (когда статус стал RUNNING).
	StartedAt *time.Time `json:"started_at,omitempty"`

	// FinishedAt — время завершения.
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	// CreatedAt — время создания run.
	CreatedAt time.Time `json:"created_at"`
}

// Duration возвращает продолжительность выполнения.
// Возвращает 0, если run ещё не завершён.
func (r *Run) Duration() time.Duration {
	if r.StartedAt == nil || r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(*r.StartedAt)
}

// IsFinished возвращает true, если run завершён.
func (r *Run) IsFinished() bool {
	return r.Status.IsTerminal()
}

// MarkRunning переводит run в статус RUNNING.
func (r *Run) MarkRunning() {
	now := time.Now()
	r.Status = RunStatusRunning
	r.StartedAt = &now
}

// MarkSucceeded переводит run в статус SUCCEEDED с результатом.
func (r *Run) MarkSucceeded(res *Result) {
	now := time.Now()
	r.Status = RunStatusSucceeded
	r.FinishedAt = &now
	r.Result = res
}

// MarkFailed переводит run в статус FAILED с ошибкой и её классом.
func (r *Run) MarkFailed(kind, msg string) {
	now := time.Now()
	r.Status = RunStatusFailed
	r.FinishedAt = &now
	r.ErrorKind = kind
	r.Error = msg
}
