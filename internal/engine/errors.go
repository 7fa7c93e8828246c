package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/shaiso/Nodeflow/internal/nodes"
)

// Ошибки структурной валидации графа.
var (
	// ErrEmptyNodeID — узел не имеет ID.
	ErrEmptyNodeID = errors.New("node has empty ID")

	// ErrDuplicateNodeID — несколько узлов с одинаковым ID.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrDanglingReference — ребро ссылается на несуществующий узел.
	ErrDanglingReference = errors.New("edge references unknown node")

	// ErrMissingHandle — у ребра пустой порт или порт, которого у узла нет.
	ErrMissingHandle = errors.New("edge has missing handle")

	// ErrCycleDetected — рёбра образуют цикл.
	ErrCycleDetected = errors.New("cycle detected")
)

// Ошибки вычисления узлов (определены в пакете nodes).
var (
	ErrUnknownNodeKind   = nodes.ErrUnknownNodeKind
	ErrDivisionByZero    = nodes.ErrDivisionByZero
	ErrEvaluationFailure = nodes.ErrEvaluationFailure
	ErrTypeMismatch      = nodes.ErrTypeMismatch
	ErrUnknownOperation  = nodes.ErrUnknownOperation
)

// Концы ребра для ValidationError.End.
const (
	EndSource = "source"
	EndTarget = "target"
)

// ValidationError — ошибка валидации с контекстом.
type ValidationError struct {
	NodeID  string // ID узла, где произошла ошибка
	EdgeID  string // ID ребра (или "#N" по позиции, если ID пустой)
	End     string // конец ребра: source или target
	Message string // описание ошибки
	Err     error  // базовая ошибка
}

// Error реализует интерфейс error.
func (e *ValidationError) Error() string {
	switch {
	case e.EdgeID != "" && e.End != "":
		return "edge " + e.EdgeID + " (" + e.End + "): " + e.Message
	case e.EdgeID != "":
		return "edge " + e.EdgeID + ": " + e.Message
	case e.NodeID != "":
		return "node " + e.NodeID + ": " + e.Message
	default:
		return e.Message
	}
}

// Unwrap возвращает базовую ошибку.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NodeError — ошибка вычисления конкретного узла.
type NodeError struct {
	NodeID string
	Kind   string
	Err    error
}

// Error реализует интерфейс error.
func (e *NodeError) Error() string {
	return fmt.Sprintf("node %s (%s): %v", e.NodeID, e.Kind, e.Err)
}

// Unwrap возвращает базовую ошибку.
func (e *NodeError) Unwrap() error {
	return e.Err
}

// Классы ошибок, возвращаемые ErrorKind.
const (
	KindEmptyNodeID       = "EmptyNodeID"
	KindDuplicateNodeID   = "DuplicateNodeID"
	KindDanglingReference = "DanglingReference"
	KindMissingHandle     = "MissingHandle"
	KindCycleDetected     = "CycleDetected"
	KindUnknownNodeKind   = "UnknownNodeKind"
	KindDivisionByZero    = "DivisionByZero"
	KindEvaluationFailure = "EvaluationFailure"
	KindCancelled         = "Cancelled"
	KindInternal          = "Internal"
)

// errorKinds — порядок важен: первый совпавший класс побеждает.
var errorKinds = []struct {
	err  error
	kind string
}{
	{ErrEmptyNodeID, KindEmptyNodeID},
	{ErrDuplicateNodeID, KindDuplicateNodeID},
	{ErrDanglingReference, KindDanglingReference},
	{ErrMissingHandle, KindMissingHandle},
	{ErrCycleDetected, KindCycleDetected},
	{ErrUnknownNodeKind, KindUnknownNodeKind},
	{ErrDivisionByZero, KindDivisionByZero},
	{ErrEvaluationFailure, KindEvaluationFailure},
}

// ErrorKind возвращает класс ошибки движка: DanglingReference, CycleDetected, ...
// Для nil возвращает "", для отмены контекста — Cancelled,
// для остальных ошибок — Internal.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindCancelled
	}
	return KindInternal
}

// IsGraphError возвращает true, если ошибка вызвана самим графом
// (валидация или вычисление узла), а не окружением.
func IsGraphError(err error) bool {
	switch ErrorKind(err) {
	case "", KindCancelled, KindInternal:
		return false
	default:
		return true
	}
}
