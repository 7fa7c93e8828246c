package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaiso/Nodeflow/internal/domain"
	"github.com/shaiso/Nodeflow/internal/engine"
	"github.com/shaiso/Nodeflow/internal/graphfile"
)

// run выполняет корневую команду с аргументами и возвращает stdout, stderr и ошибку.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd("test")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// --- Local commands ---

func TestExec_Table(t *testing.T) {
	stdout, stderr, err := run(t, "exec", "testdata/sum.json")
	require.NoError(t, err)

	assert.Contains(t, stdout, "NODE")
	assert.Contains(t, stdout, "log")
	assert.Contains(t, stdout, "15")
	assert.NotContains(t, stdout, "sum ")
	assert.Contains(t, stderr, "[log]")
}

func TestExec_JSON(t *testing.T) {
	stdout, _, err := run(t, "--json", "exec", "--all", "--parallel", "4", "testdata/sum.json")
	require.NoError(t, err)

	var res ExecResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	assert.Equal(t, []string{"a", "b", "sum", "log"}, res.Order)
	assert.True(t, res.Final["log"]["o"].Equal(domain.Number(15)))
	assert.True(t, res.Outputs["sum"]["o"].Equal(domain.Number(15)))
	require.Len(t, res.Sinks, 1)
	assert.Equal(t, "log", res.Sinks[0].NodeID)
}

func TestExec_NodeError(t *testing.T) {
	_, _, err := run(t, "exec", "testdata/divide.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrDivisionByZero)
	assert.Equal(t, engine.KindDivisionByZero, engine.ErrorKind(err))
}

func TestValidate(t *testing.T) {
	_, stderr, err := run(t, "validate", "testdata/sum.json")
	require.NoError(t, err)
	assert.Contains(t, stderr, "4 nodes, 3 edges")

	_, _, err = run(t, "validate", "testdata/cycle.yaml")
	assert.ErrorIs(t, err, engine.ErrCycleDetected)
}

func TestValidate_UnknownFormat(t *testing.T) {
	_, _, err := run(t, "validate", "testdata/graph.txt")
	assert.ErrorIs(t, err, graphfile.ErrUnknownFormat)
}

func TestOrder(t *testing.T) {
	stdout, _, err := run(t, "order", "testdata/sum.json")
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nsum\nlog\n", stdout)

	stdout, _, err = run(t, "--json", "order", "testdata/sum.json")
	require.NoError(t, err)
	var order []string
	require.NoError(t, json.Unmarshal([]byte(stdout), &order))
	assert.Equal(t, []string{"a", "b", "sum", "log"}, order)
}

// --- Remote commands ---

const graphID = "6b1d4a9e-8a0b-4c57-9a51-2f1f3c9d1e01"

func newAPI(t *testing.T) *httptest.Server {
	t.Helper()

	summary := GraphSummary{ID: graphID, Name: "sum", Nodes: 4, Edges: 3, CreatedAt: "2026-01-01T00:00:00Z"}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/graphs", func(w http.ResponseWriter, r *http.Request) {
		graphs := []GraphSummary{summary}
		if name := r.URL.Query().Get("name"); name != "" && name != summary.Name {
			graphs = []GraphSummary{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": graphs, "total": len(graphs)})
	})
	mux.HandleFunc("POST /api/v1/graphs", func(w http.ResponseWriter, r *http.Request) {
		var req CreateGraphRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": map[string]string{"code": "BAD_REQUEST", "message": "bad body"}})
			return
		}
		s := summary
		s.Name = req.Name
		s.Nodes = len(req.Graph.Nodes)
		s.Edges = len(req.Graph.Edges)
		writeJSON(w, http.StatusCreated, map[string]any{"data": GraphResponse{GraphSummary: s, Graph: req.Graph}})
	})
	mux.HandleFunc("DELETE /api/v1/graphs/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /api/v1/graphs/{id}/runs", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusAccepted, map[string]any{"data": RunResponse{
			ID: "run-1", GraphID: r.PathValue("id"), Status: "PENDING",
		}})
	})
	mux.HandleFunc("GET /api/v1/runs", func(w http.ResponseWriter, r *http.Request) {
		runs := []RunResponse{}
		if r.URL.Query().Get("graph_id") == graphID && r.URL.Query().Get("status") == "FAILED" {
			runs = append(runs, RunResponse{ID: "run-2", GraphID: graphID, Status: "FAILED", ErrorKind: "DivisionByZero"})
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": runs, "total": len(runs)})
	})
	mux.HandleFunc("GET /api/v1/runs/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": map[string]string{"code": "NOT_FOUND", "message": "run not found"}})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestGraphList(t *testing.T) {
	srv := newAPI(t)

	stdout, _, err := run(t, "--api-url", srv.URL, "graph", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, graphID)
	assert.Contains(t, stdout, "NAME")

	stdout, _, err = run(t, "--api-url", srv.URL, "graph", "list", "--name", "nope")
	require.NoError(t, err)
	assert.NotContains(t, stdout, graphID)
}

func TestGraphCreate(t *testing.T) {
	srv := newAPI(t)

	stdout, stderr, err := run(t, "--api-url", srv.URL, "--json", "graph", "create", "--name", "adder", "testdata/sum.json")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Graph created: "+graphID)

	var graph GraphResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &graph))
	assert.Equal(t, "adder", graph.Name)
	assert.Equal(t, 4, graph.Nodes)
	assert.Len(t, graph.Graph.Edges, 3)
}

func TestGraphCreate_NameRequired(t *testing.T) {
	srv := newAPI(t)

	_, _, err := run(t, "--api-url", srv.URL, "graph", "create", "testdata/sum.json")
	assert.Error(t, err)
}

func TestGraphDelete(t *testing.T) {
	srv := newAPI(t)

	_, stderr, err := run(t, "--api-url", srv.URL, "graph", "delete", graphID)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Graph deleted")
}

func TestRunStartAndList(t *testing.T) {
	srv := newAPI(t)

	stdout, stderr, err := run(t, "--api-url", srv.URL, "run", "start", graphID)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Run started: run-1")
	assert.Contains(t, stdout, "PENDING")

	stdout, _, err = run(t, "--api-url", srv.URL, "run", "list", "--graph-id", graphID, "--status", "FAILED")
	require.NoError(t, err)
	assert.Contains(t, stdout, "run-2")
	assert.Contains(t, stdout, "DivisionByZero")
}

func TestRunShow_NotFound(t *testing.T) {
	srv := newAPI(t)

	_, _, err := run(t, "--api-url", srv.URL, "run", "show", "missing")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
}

func TestValueRows(t *testing.T) {
	rows := valueRows([]string{"b", "a"}, map[string]domain.PortValues{
		"a": {"y": domain.Text("t"), "x": domain.Number(1)},
		"b": {"o": domain.Bool(true)},
	})
	assert.Equal(t, [][]string{
		{"b", "o", "boolean", "true"},
		{"a", "x", "number", "1"},
		{"a", "y", "text", "t"},
	}, rows)
}
