package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Nodeflow/internal/domain"
	"github.com/shaiso/Nodeflow/internal/repo"
	"github.com/shaiso/Nodeflow/internal/telemetry"
)

// ListRuns возвращает список runs с фильтрацией.
// GET /api/v1/runs?graph_id=...&status=...&limit=...&offset=...
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseRunFilter(w, r)
	if !ok {
		return
	}

	if s := r.URL.Query().Get("graph_id"); s != "" {
		graphID, err := uuid.Parse(s)
		if err != nil {
			BadRequest(w, "invalid graph_id")
			return
		}
		filter.GraphID = &graphID
	}

	h.listRuns(w, r, filter)
}

// ListGraphRuns возвращает runs одного графа.
// GET /api/v1/graphs/{id}/runs?status=...&limit=...&offset=...
func (h *Handler) ListGraphRuns(w http.ResponseWriter, r *http.Request) {
	graphID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid graph id")
		return
	}

	filter, ok := parseRunFilter(w, r)
	if !ok {
		return
	}
	filter.GraphID = &graphID

	h.listRuns(w, r, filter)
}

func (h *Handler) listRuns(w http.ResponseWriter, r *http.Request, filter repo.RunFilter) {
	runs, err := h.runs.List(r.Context(), filter)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]RunResponse, len(runs))
	for i, run := range runs {
		result[i] = RunFromDomain(run)
	}

	List(w, result, len(result))
}

// CreateRun создаёт run сохранённого графа.
// POST /api/v1/graphs/{id}/runs
//
// С очередью run публикуется в runs.pending и возвращается 202.
// Без очереди, но с Processor run выполняется сразу и возвращается
// в финальном статусе (201).
func (h *Handler) CreateRun(w http.ResponseWriter, r *http.Request) {
	graphID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid graph id")
		return
	}

	// Проверяем, что граф существует
	g, err := h.graphs.GetByID(r.Context(), graphID)
	if HandleRepoError(w, h.logger, err, "graph not found") {
		return
	}

	run := &domain.Run{
		ID:        uuid.New(),
		GraphID:   g.ID,
		Status:    domain.RunStatusPending,
		CreatedAt: time.Now().UTC(),
	}

	if HandleRepoError(w, h.logger, h.runs.Create(r.Context(), run), "") {
		return
	}

	logger := telemetry.WithRunID(telemetry.FromContext(r.Context()), run.ID.String())

	switch {
	case h.queue != nil:
		if err := h.queue.PublishRunPending(r.Context(), run.ID); err != nil {
			// Run сохранён в БД — worker заберёт его через polling
			logger.Warn("failed to publish run.pending", "error", err)
		}
		Accepted(w, RunFromDomain(*run))

	case h.processor != nil:
		done, err := h.processor.ProcessRun(r.Context(), run.ID)
		if err != nil {
			InternalError(w, h.logger, err)
			return
		}
		Created(w, RunFromDomain(*done))

	default:
		Accepted(w, RunFromDomain(*run))
	}
}

// GetRun возвращает run по ID.
// GET /api/v1/runs/{id}
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid run id")
		return
	}

	run, err := h.runs.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "run not found") {
		return
	}

	Success(w, RunFromDomain(*run))
}

// parseRunFilter разбирает status, limit и offset.
// При ошибке отвечает 400 и возвращает false.
func parseRunFilter(w http.ResponseWriter, r *http.Request) (repo.RunFilter, bool) {
	q := r.URL.Query()
	filter := repo.RunFilter{Limit: 50}

	if s := q.Get("status"); s != "" {
		status, ok := domain.ParseRunStatus(s)
		if !ok {
			BadRequest(w, "invalid status")
			return filter, false
		}
		filter.Status = status
	}

	if s := q.Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit <= 0 || limit > 500 {
			BadRequest(w, "limit must be between 1 and 500")
			return filter, false
		}
		filter.Limit = limit
	}

	if s := q.Get("offset"); s != "" {
		offset, err := strconv.Atoi(s)
		if err != nil || offset < 0 {
			BadRequest(w, "invalid offset")
			return filter, false
		}
		filter.Offset = offset
	}

	return filter, true
}
