package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/shaiso/Nodeflow/internal/domain"
)

func TestBuildDAG_OrderTieBreak(t *testing.T) {
	// Сначала все корни в порядке ID, затем потомки в порядке готовности.
	g := domain.Graph{
		Nodes: []domain.Node{
			value("c", domain.Number(1)),
			value("a", domain.Number(1)),
			value("b", domain.Number(1)),
			maths("ab", ""),
			maths("0", ""),
		},
		Edges: []domain.Edge{
			edge("", "a", "a", "ab", "a"),
			edge("", "b", "b", "ab", "b"),
			edge("", "c", "c", "0", "a"),
		},
	}

	dag, err := BuildDAG(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"a", "b", "c", "ab", "0"}
	if diff := cmp.Diff(want, dag.OrderIDs()); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestSchedule_RootsBeforeDependents(t *testing.T) {
	// Z — корень с наибольшим ID, M готов раньше, чем Z снят из очереди.
	g := domain.Graph{
		Nodes: []domain.Node{
			value("A", domain.Number(5)),
			value("B", domain.Number(10)),
			value("Z", domain.Number(1)),
			maths("M", domain.OpAdd),
		},
		Edges: []domain.Edge{
			edge("e1", "A", "A", "M", "a"),
			edge("e2", "B", "B", "M", "b"),
		},
	}

	order, err := Schedule(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"A", "B", "Z", "M"}, order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestSchedule_ReadyBatchSortedByID(t *testing.T) {
	// r открывает y и x одновременно; s — второй корень.
	g := domain.Graph{
		Nodes: []domain.Node{
			value("r", domain.Number(1)),
			value("s", domain.Number(1)),
			{ID: "y", Config: domain.DoubleConfig{}},
			{ID: "x", Config: domain.DoubleConfig{}},
			{ID: "b", Config: domain.DoubleConfig{}},
		},
		Edges: []domain.Edge{
			edge("e1", "r", "r", "y", "in"),
			edge("e2", "r", "r", "x", "in"),
			edge("e3", "s", "s", "b", "in"),
		},
	}

	order, err := Schedule(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"r", "s", "x", "y", "b"}, order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildDAG_TopologicalSoundness(t *testing.T) {
	g := fanGraph()

	dag, err := BuildDAG(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pos := make(map[string]int)
	for i, id := range dag.OrderIDs() {
		pos[id] = i
	}
	for _, e := range g.Edges {
		if pos[e.Source] >= pos[e.Target] {
			t.Errorf("edge %s→%s violates order", e.Source, e.Target)
		}
	}
}

func TestBuildDAG_Structure(t *testing.T) {
	dag, err := BuildDAG(fanGraph())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dag.Size() != 8 {
		t.Errorf("expected 8 nodes, got %d", dag.Size())
	}

	roots := make([]string, 0)
	for _, n := range dag.RootNodes {
		roots = append(roots, n.ID)
	}
	if diff := cmp.Diff([]string{"n1", "n2"}, roots); diff != "" {
		t.Errorf("roots mismatch (-want +got):\n%s", diff)
	}

	sinks := make([]string, 0)
	for _, n := range dag.Sinks() {
		sinks = append(sinks, n.ID)
	}
	if diff := cmp.Diff([]string{"out1", "out2"}, sinks); diff != "" {
		t.Errorf("sinks mismatch (-want +got):\n%s", diff)
	}

	if dag.GetNode("diff").InDegree != 2 {
		t.Errorf("diff should have inDegree 2, got %d", dag.GetNode("diff").InDegree)
	}
	if dag.GetNode("nope") != nil {
		t.Error("unknown id should return nil")
	}

	// Волны: n1,n2 → prod,sum → dbl → diff,out2 → out1
	levels := dag.Levels()
	got := make([][]string, len(levels))
	for i, level := range levels {
		for _, n := range level {
			got[i] = append(got[i], n.ID)
		}
	}
	want := [][]string{
		{"n1", "n2"},
		{"prod", "sum"},
		{"dbl"},
		{"diff", "out2"},
		{"out1"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("levels mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildDAG_CanonicalPorts(t *testing.T) {
	g := domain.Graph{
		Nodes: []domain.Node{
			value("v", domain.Number(1)),
			{ID: "d", Config: domain.DoubleConfig{}},
			{ID: "c", Config: domain.ConcatenateConfig{}},
		},
		Edges: []domain.Edge{
			edge("e1", "v", "anything", "d", "d-in"),
			edge("e2", "d", "d-original", "c", "concatenate-input-a"),
		},
	}

	dag, err := BuildDAG(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Edge{
		{Index: 0, ID: "e1", From: dag.GetNode("v").Index, To: dag.GetNode("d").Index, FromPort: "v", ToPort: "in"},
		{Index: 1, ID: "e2", From: dag.GetNode("d").Index, To: dag.GetNode("c").Index, FromPort: "original", ToPort: "input-a"},
	}
	if diff := cmp.Diff(want, dag.Edges); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}
}

func TestSchedule(t *testing.T) {
	order, err := Schedule(arithmeticGraph(1, 2, domain.OpAdd))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"A", "B", "M"}, order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}
