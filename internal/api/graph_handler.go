package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Nodeflow/internal/domain"
	"github.com/shaiso/Nodeflow/internal/engine"
	"github.com/shaiso/Nodeflow/internal/repo"
)

// ListGraphs возвращает список всех графов.
// GET /api/v1/graphs?name=
func (h *Handler) ListGraphs(w http.ResponseWriter, r *http.Request) {
	if name := strings.TrimSpace(r.URL.Query().Get("name")); name != "" {
		h.findGraph(w, r, name)
		return
	}

	graphs, err := h.graphs.List(r.Context())
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]GraphSummary, len(graphs))
	for i, g := range graphs {
		result[i] = GraphSummaryFromDomain(g)
	}

	List(w, result, len(result))
}

// findGraph отвечает списком из графа с указанным именем или пустым списком.
func (h *Handler) findGraph(w http.ResponseWriter, r *http.Request, name string) {
	g, err := h.graphs.GetByName(r.Context(), name)
	if errors.Is(err, repo.ErrNotFound) {
		List(w, []GraphSummary{}, 0)
		return
	}
	if HandleRepoError(w, h.logger, err, "") {
		return
	}
	List(w, []GraphSummary{GraphSummaryFromDomain(*g)}, 1)
}

// CreateGraph сохраняет новый граф. Граф должен проходить валидацию.
// POST /api/v1/graphs
func (h *Handler) CreateGraph(w http.ResponseWriter, r *http.Request) {
	var req CreateGraphRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		handleDecodeError(w, err)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		BadRequest(w, "name is required")
		return
	}

	if HandleGraphError(w, h.logger, engine.Validate(req.Graph)) {
		return
	}

	now := time.Now().UTC()
	g := &domain.StoredGraph{
		ID:        uuid.New(),
		Name:      req.Name,
		Graph:     req.Graph,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if HandleRepoError(w, h.logger, h.graphs.Create(r.Context(), g), "") {
		return
	}

	Created(w, GraphFromDomain(*g))
}

// GetGraph возвращает граф по ID.
// GET /api/v1/graphs/{id}
func (h *Handler) GetGraph(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid graph id")
		return
	}

	g, err := h.graphs.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "graph not found") {
		return
	}

	Success(w, GraphFromDomain(*g))
}

// UpdateGraph обновляет имя и/или содержимое графа.
// PUT /api/v1/graphs/{id}
func (h *Handler) UpdateGraph(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid graph id")
		return
	}

	var req UpdateGraphRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		handleDecodeError(w, err)
		return
	}

	g, err := h.graphs.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "graph not found") {
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			BadRequest(w, "name must not be empty")
			return
		}
		g.Name = name
	}
	if req.Graph != nil {
		if HandleGraphError(w, h.logger, engine.Validate(*req.Graph)) {
			return
		}
		g.Graph = *req.Graph
	}
	g.UpdatedAt = time.Now().UTC()

	if HandleRepoError(w, h.logger, h.graphs.Update(r.Context(), g), "graph not found") {
		return
	}

	Success(w, GraphFromDomain(*g))
}

// DeleteGraph удаляет граф вместе с его runs.
// DELETE /api/v1/graphs/{id}
func (h *Handler) DeleteGraph(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid graph id")
		return
	}

	if HandleRepoError(w, h.logger, h.graphs.Delete(r.Context(), id), "graph not found") {
		return
	}

	NoContent(w)
}
