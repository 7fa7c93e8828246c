package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Middleware chain
	chain := Chain(
		Recovery(h.logger),
		RequestLogger(h.logger),
		Logging(h.logger),
	)

	// Stateless
	mux.Handle("POST /api/v1/execute", chain(http.HandlerFunc(h.ExecuteGraph)))
	mux.Handle("POST /api/v1/validate", chain(http.HandlerFunc(h.ValidateGraph)))

	// Graphs
	mux.Handle("GET /api/v1/graphs", chain(http.HandlerFunc(h.ListGraphs)))
	mux.Handle("POST /api/v1/graphs", chain(http.HandlerFunc(h.CreateGraph)))
	mux.Handle("GET /api/v1/graphs/{id}", chain(http.HandlerFunc(h.GetGraph)))
	mux.Handle("PUT /api/v1/graphs/{id}", chain(http.HandlerFunc(h.UpdateGraph)))
	mux.Handle("DELETE /api/v1/graphs/{id}", chain(http.HandlerFunc(h.DeleteGraph)))

	// Runs
	mux.Handle("POST /api/v1/graphs/{id}/runs", chain(http.HandlerFunc(h.CreateRun)))
	mux.Handle("GET /api/v1/graphs/{id}/runs", chain(http.HandlerFunc(h.ListGraphRuns)))
	mux.Handle("GET /api/v1/runs", chain(http.HandlerFunc(h.ListRuns)))
	mux.Handle("GET /api/v1/runs/{id}", chain(http.HandlerFunc(h.GetRun)))
}
