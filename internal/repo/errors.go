package repo

import "errors"

// Ошибки репозиториев графов и runs.
var (
	// ErrNotFound — граф или run не найден.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists — граф с таким именем уже есть.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidState — переход run невозможен из текущего статуса
	// (например, Claim для run, который уже не PENDING).
	ErrInvalidState = errors.New("invalid state")

	// ErrCorruptSpec — сохранённый JSON графа не разбирается.
	ErrCorruptSpec = errors.New("stored graph spec is corrupt")
)
