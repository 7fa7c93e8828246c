package api

import (
	"context"
	"io"
	"mime"
	"net/http"
	"strconv"
	"sync"

	"github.com/shaiso/Nodeflow/internal/domain"
	"github.com/shaiso/Nodeflow/internal/engine"
	"github.com/shaiso/Nodeflow/internal/graphfile"
	"github.com/shaiso/Nodeflow/internal/nodes"
	"github.com/shaiso/Nodeflow/internal/telemetry"
)

// maxBodyBytes — максимальный размер тела запроса.
const maxBodyBytes = 1 << 20

// ExecuteGraph выполняет граф из тела запроса, ничего не сохраняя.
// POST /api/v1/execute?final_only=true
//
// Тело — документ графа: JSON (по умолчанию), YAML или HCL
// в зависимости от Content-Type.
func (h *Handler) ExecuteGraph(w http.ResponseWriter, r *http.Request) {
	g, err := readGraph(w, r)
	if err != nil {
		handleDecodeError(w, err)
		return
	}

	finalOnly, _ := strconv.ParseBool(r.URL.Query().Get("final_only"))
	logger := telemetry.FromContext(r.Context())

	sinks := &sinkCollector{}
	res, err := engine.Execute(r.Context(), g,
		engine.WithLogger(logger),
		engine.WithParallelism(h.parallelism),
		engine.WithObserver(nodes.MultiObserver(sinks, telemetry.SinkLogger(logger))),
	)
	if HandleGraphError(w, h.logger, err) {
		return
	}

	resp := ExecuteResponse{
		Order: res.Order,
		Final: res.Final,
		Sinks: sinks.list(),
	}
	if !finalOnly {
		resp.Outputs = res.Outputs
	}
	Success(w, resp)
}

// ValidateGraph проверяет граф и возвращает порядок выполнения.
// POST /api/v1/validate
func (h *Handler) ValidateGraph(w http.ResponseWriter, r *http.Request) {
	g, err := readGraph(w, r)
	if err != nil {
		handleDecodeError(w, err)
		return
	}

	order, err := engine.Schedule(g)
	if HandleGraphError(w, h.logger, err) {
		return
	}

	Success(w, ValidateResponse{Valid: true, Order: order})
}

// readGraph читает документ графа из тела запроса.
func readGraph(w http.ResponseWriter, r *http.Request) (domain.Graph, error) {
	format, err := requestFormat(r)
	if err != nil {
		return domain.Graph{}, err
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return domain.Graph{}, err
	}

	return graphfile.Parse(format, data)
}

// requestFormat определяет формат документа по Content-Type.
func requestFormat(r *http.Request) (graphfile.Format, error) {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return graphfile.FormatJSON, nil
	}

	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", err
	}

	switch mt {
	case "application/json", "text/json":
		return graphfile.FormatJSON, nil
	case "application/yaml", "application/x-yaml", "text/yaml":
		return graphfile.FormatYAML, nil
	case "application/hcl", "text/hcl", "text/x-hcl":
		return graphfile.FormatHCL, nil
	default:
		return graphfile.ParseFormat(mt)
	}
}

// sinkCollector собирает значения log-узлов одного запроса.
type sinkCollector struct {
	mu      sync.Mutex
	records []nodes.SinkRecord
}

func (c *sinkCollector) Observe(_ context.Context, rec nodes.SinkRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, rec)
}

func (c *sinkCollector) list() []nodes.SinkRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]nodes.SinkRecord{}, c.records...)
}
