package engine

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shaiso/Nodeflow/internal/domain"
)

// Validate проверяет структурную целостность графа.
//
// Проверки:
//  1. ID узлов непустые и уникальные
//  2. Оба конца каждого ребра ссылаются на существующие узлы
//  3. Порты рёбер непустые и есть у соответствующего типа узла
//  4. Граф ациклический
//
// Проверки 1–3 выполняются полностью, все нарушения возвращаются
// вместе (errors.Join). Если они есть, поиск циклов не запускается.
// Validate ничего не вычисляет и не изменяет g.
func Validate(g domain.Graph) error {
	if errs := checkStructure(g); len(errs) > 0 {
		if len(errs) == 1 {
			return errs[0]
		}
		return errors.Join(errs...)
	}

	return checkCycles(g)
}

// checkStructure проверяет ID узлов, ссылки и порты рёбер.
func checkStructure(g domain.Graph) []error {
	var errs []error

	byID := make(map[string]domain.Node, len(g.Nodes))
	for i, n := range g.Nodes {
		if n.ID == "" {
			errs = append(errs, &ValidationError{
				Message: fmt.Sprintf("node at position %d has empty id", i),
				Err:     ErrEmptyNodeID,
			})
			continue
		}
		if _, exists := byID[n.ID]; exists {
			errs = append(errs, &ValidationError{
				NodeID:  n.ID,
				Message: "duplicate node id",
				Err:     ErrDuplicateNodeID,
			})
			continue
		}
		byID[n.ID] = n
	}

	for i, e := range g.Edges {
		edgeID := edgeLabel(i, e)

		if src, ok := byID[e.Source]; !ok {
			errs = append(errs, &ValidationError{
				EdgeID:  edgeID,
				End:     EndSource,
				Message: fmt.Sprintf("unknown node %q", e.Source),
				Err:     ErrDanglingReference,
			})
		} else if _, ok := src.Settings().OutputPort(src.ID, e.SourceHandle); !ok {
			errs = append(errs, handleError(edgeID, EndSource, src, e.SourceHandle))
		}

		if dst, ok := byID[e.Target]; !ok {
			errs = append(errs, &ValidationError{
				EdgeID:  edgeID,
				End:     EndTarget,
				Message: fmt.Sprintf("unknown node %q", e.Target),
				Err:     ErrDanglingReference,
			})
		} else if _, ok := dst.Settings().InputPort(dst.ID, e.TargetHandle); !ok {
			errs = append(errs, handleError(edgeID, EndTarget, dst, e.TargetHandle))
		}
	}

	return errs
}

func handleError(edgeID, end string, n domain.Node, handle string) error {
	msg := fmt.Sprintf("empty %s handle", end)
	if handle != "" {
		msg = fmt.Sprintf("node %q (%s) has no %s port %q", n.ID, n.Kind(), end, handle)
	}
	return &ValidationError{
		NodeID:  n.ID,
		EdgeID:  edgeID,
		End:     end,
		Message: msg,
		Err:     ErrMissingHandle,
	}
}

// edgeLabel возвращает ID ребра или его позицию, если ID пустой.
func edgeLabel(i int, e domain.Edge) string {
	if e.ID != "" {
		return e.ID
	}
	return fmt.Sprintf("#%d", i)
}

// Цвета вершин при обходе в глубину.
const (
	white = iota // ещё не посещена
	gray         // на стеке рекурсии
	black        // обход завершён
)

// checkCycles ищет цикл обходом в глубину.
//
// Обход начинается с каждой вершины в порядке ID, соседи тоже
// перебираются в порядке ID, поэтому найденный цикл детерминирован.
// Предполагает, что все ссылки рёбер уже проверены.
func checkCycles(g domain.Graph) error {
	adj := make(map[string][]string, len(g.Nodes))
	for _, e := range g.Edges {
		adj[e.Source] = append(adj[e.Source], e.Target)
	}
	for id, next := range adj {
		sort.Strings(next)
		adj[id] = dedupSorted(next)
	}

	ids := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		ids = append(ids, n.ID)
	}
	sort.Strings(ids)

	color := make(map[string]int, len(ids))
	var stack []string

	var visit func(id string) error
	visit = func(id string) error {
		color[id] = gray
		stack = append(stack, id)

		for _, next := range adj[id] {
			switch color[next] {
			case gray:
				return cycleError(stack, next)
			case white:
				if err := visit(next); err != nil {
					return err
				}
			}
		}

		stack = stack[:len(stack)-1]
		color[id] = black
		return nil
	}

	for _, id := range ids {
		if color[id] != white {
			continue
		}
		if err := visit(id); err != nil {
			return err
		}
	}
	return nil
}

// cycleError строит ошибку по стеку обхода: цикл начинается в start
// и замыкается последней вершиной стека.
func cycleError(stack []string, start string) error {
	i := len(stack) - 1
	for i > 0 && stack[i] != start {
		i--
	}
	path := append(append([]string{}, stack[i:]...), start)
	closer := stack[len(stack)-1]

	return &ValidationError{
		NodeID:  closer,
		Message: "cycle " + strings.Join(path, " -> "),
		Err:     ErrCycleDetected,
	}
}

func dedupSorted(s []string) []string {
	out := s[:0]
	for _, v := range s {
		if len(out) == 0 || out[len(out)-1] != v {
			out = append(out, v)
		}
	}
	return out
}
