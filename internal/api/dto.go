package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Nodeflow/internal/domain"
	"github.com/shaiso/Nodeflow/internal/nodes"
)

// Execute DTOs

// ExecuteResponse — результат выполнения графа без сохранения.
type ExecuteResponse struct {
	Order   []string                     `json:"order"`
	Outputs map[string]domain.PortValues `json:"outputs,omitempty"`
	Final   map[string]domain.PortValues `json:"final"`
	Sinks   []nodes.SinkRecord           `json:"sinks"`
}

// ValidateResponse — результат проверки графа.
type ValidateResponse struct {
	Valid bool     `json:"valid"`
	Order []string `json:"order"`
}

// Graph DTOs

// CreateGraphRequest — запрос на создание графа.
type CreateGraphRequest struct {
	Name  string       `json:"name"`
	Graph domain.Graph `json:"graph"`
}

// UpdateGraphRequest — запрос на обновление графа.
type UpdateGraphRequest struct {
	Name  *string       `json:"name,omitempty"`
	Graph *domain.Graph `json:"graph,omitempty"`
}

// GraphSummary — граф в списке, без содержимого.
type GraphSummary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Nodes     int       `json:"nodes"`
	Edges     int       `json:"edges"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GraphResponse — ответ с графом.
type GraphResponse struct {
	GraphSummary
	Graph domain.Graph `json:"graph"`
}

// GraphSummaryFromDomain конвертирует domain.StoredGraph в GraphSummary.
func GraphSummaryFromDomain(g domain.StoredGraph) GraphSummary {
	return GraphSummary{
		ID:        g.ID,
		Name:      g.Name,
		Nodes:     len(g.Graph.Nodes),
		Edges:     len(g.Graph.Edges),
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

// GraphFromDomain конвертирует domain.StoredGraph в GraphResponse.
func GraphFromDomain(g domain.StoredGraph) GraphResponse {
	return GraphResponse{
		GraphSummary: GraphSummaryFromDomain(g),
		Graph:        g.Graph,
	}
}

// Run DTOs

// RunResponse — ответ с run.
type RunResponse struct {
	ID         uuid.UUID      `json:"id"`
	GraphID    uuid.UUID      `json:"graph_id"`
	Status     string         `json:"status"`
	Result     *domain.Result `json:"result,omitempty"`
	Error      string         `json:"error,omitempty"`
	ErrorKind  string         `json:"error_kind,omitempty"`
	StartedAt  *time.Time     `json:"started_at,omitempty"`
	FinishedAt *time.Time     `json:"finished_at,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// RunFromDomain конвертирует domain.Run в RunResponse.
func RunFromDomain(r domain.Run) RunResponse {
	return RunResponse{
		ID:         r.ID,
		GraphID:    r.GraphID,
		Status:     string(r.Status),
		Result:     r.Result,
		Error:      r.Error,
		ErrorKind:  r.ErrorKind,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		CreatedAt:  r.CreatedAt,
	}
}
