package domain

import "errors"

// Ошибки декодирования доменных объектов.
var (
	// ErrInvalidValue — значение нельзя представить как Value.
	ErrInvalidValue = errors.New("invalid value")

	// ErrInvalidNode — описание узла не удалось разобрать.
	ErrInvalidNode = errors.New("invalid node")
)
