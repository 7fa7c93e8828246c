// Package api содержит HTTP API сервер.
//
// Структура:
//   - handler.go         — Handler с DI (репозитории, очередь, orchestrator, logger)
//   - routes.go          — регистрация маршрутов
//   - middleware.go      — middleware (request id, logging, recovery)
//   - response.go        — унифицированные JSON-ответы и обработка ошибок
//   - dto.go             — Data Transfer Objects (request/response)
//   - execute_handler.go — /execute и /validate без сохранения
//   - graph_handler.go   — обработчики для /graphs
//   - run_handler.go     — обработчики для /runs
//
// Ошибки графа возвращаются со статусом 422 и кодом класса ошибки
// движка (DanglingReference, CycleDetected, DivisionByZero, ...).
package api
