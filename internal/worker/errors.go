package worker

import "errors"

// Ошибки воркера.
var (
	// ErrWorkerStopped — воркер остановлен.
	ErrWorkerStopped = errors.New("worker stopped")

	// ErrNoProcessor — воркер создан без обработчика runs.
	ErrNoProcessor = errors.New("worker has no run processor")
)
