package engine

import (
	"errors"
	"testing"

	"github.com/shaiso/Nodeflow/internal/domain"
)

func TestValidate_CollectsAllStructuralErrors(t *testing.T) {
	g := domain.Graph{
		Nodes: []domain.Node{value("v", domain.Number(1)), maths("m", domain.OpAdd)},
		Edges: []domain.Edge{
			edge("e1", "ghost", "x", "m", "a"),
			edge("e2", "v", "v", "m", "c"),
			edge("e3", "v", "", "m", "b"),
			// цикл не должен искаться, пока есть структурные ошибки
			edge("e4", "m", "o", "m", "a"),
		},
	}

	err := Validate(g)
	if !errors.Is(err, ErrDanglingReference) {
		t.Errorf("expected ErrDanglingReference, got %v", err)
	}
	if !errors.Is(err, ErrMissingHandle) {
		t.Errorf("expected ErrMissingHandle, got %v", err)
	}
	if errors.Is(err, ErrCycleDetected) {
		t.Error("cycle detection must not run after structural errors")
	}

	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("expected joined error, got %T", err)
	}
	if n := len(joined.Unwrap()); n != 3 {
		t.Errorf("expected 3 violations, got %d: %v", n, err)
	}
}

func TestValidate_MissingHandle(t *testing.T) {
	tests := []struct {
		name string
		e    domain.Edge
		end  string
	}{
		{"empty source", edge("e", "v", "", "m", "a"), EndSource},
		{"empty target", edge("e", "v", "v", "m", ""), EndTarget},
		{"unexposed target", edge("e", "v", "v", "m", "z"), EndTarget},
		{"unexposed source", edge("e", "m", "out", "l", "l"), EndSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := domain.Graph{
				Nodes: []domain.Node{value("v", domain.Number(1)), maths("m", ""), logNode("l")},
				Edges: []domain.Edge{tt.e},
			}

			err := Validate(g)
			if !errors.Is(err, ErrMissingHandle) {
				t.Fatalf("expected ErrMissingHandle, got %v", err)
			}

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if vErr.End != tt.end {
				t.Errorf("expected end %s, got %s", tt.end, vErr.End)
			}
		})
	}
}

func TestValidate_NodeIDs(t *testing.T) {
	g := domain.Graph{
		Nodes: []domain.Node{value("", domain.Number(1)), value("a", domain.Number(1)), value("a", domain.Number(2))},
	}

	err := Validate(g)
	if !errors.Is(err, ErrEmptyNodeID) {
		t.Errorf("expected ErrEmptyNodeID, got %v", err)
	}
	if !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("expected ErrDuplicateNodeID, got %v", err)
	}
}

func TestValidate_SelfLoop(t *testing.T) {
	g := domain.Graph{
		Nodes: []domain.Node{logNode("l")},
		Edges: []domain.Edge{edge("e1", "l", "x", "l", "x")},
	}

	err := Validate(g)
	if !errors.Is(err, ErrCycleDetected) {
		t.Fatalf("expected ErrCycleDetected, got %v", err)
	}
	if err.Error() != "node l: cycle l -> l" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestValidate_UnknownKindAcceptsAnyPort(t *testing.T) {
	g := domain.Graph{
		Nodes: []domain.Node{value("v", domain.Number(1)), {ID: "t", Config: domain.UnknownConfig{Type: "target"}}},
		Edges: []domain.Edge{edge("e1", "v", "v", "t", "whatever")},
	}

	if err := Validate(g); err != nil {
		t.Errorf("unknown kinds must pass validation, got %v", err)
	}
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{&ValidationError{Err: ErrDanglingReference}, KindDanglingReference},
		{&NodeError{NodeID: "m", Err: ErrDivisionByZero}, KindDivisionByZero},
		{&NodeError{NodeID: "m", Err: errors.Join(ErrEvaluationFailure, ErrTypeMismatch)}, KindEvaluationFailure},
		{errors.New("boom"), KindInternal},
	}

	for _, tt := range tests {
		if got := ErrorKind(tt.err); got != tt.want {
			t.Errorf("ErrorKind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}

	if !IsGraphError(&ValidationError{Err: ErrCycleDetected}) {
		t.Error("cycle is a graph error")
	}
	if IsGraphError(errors.New("db down")) {
		t.Error("unclassified errors are not graph errors")
	}
}
