// Nodeflow Worker — выполняет сохранённые runs.
//
// Worker:
//   - Получает run.pending из RabbitMQ
//   - Периодически забирает PENDING runs из БД (polling fallback)
//   - Выполняет граф через orchestrator
//   - Публикует run.completed и значения log-узлов
//
// Workers масштабируются горизонтально: run берёт тот worker,
// который первым перевёл его в RUNNING.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Nodeflow/internal/mq"
	"github.com/shaiso/Nodeflow/internal/orchestrator"
	"github.com/shaiso/Nodeflow/internal/repo"
	"github.com/shaiso/Nodeflow/internal/telemetry"
	"github.com/shaiso/Nodeflow/internal/worker"
)

func main() {
	logger := telemetry.SetupLogger()
	logger.Info("starting nodeflow-worker")

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := repo.NewPool(ctx)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("database connected")

	graphRepo := repo.NewGraphRepo(pool)
	runRepo := repo.NewRunRepo(pool)

	orchCfg := orchestrator.Config{
		Graphs:      graphRepo,
		Runs:        runRepo,
		Parallelism: envInt("NODEFLOW_PARALLELISM", 1),
		Logger:      logger,
	}

	// RabbitMQ (URL из RABBITMQ_URL)
	mqConn, err := mq.NewConnection(mq.ConnectionConfig{Name: "nodeflow-worker", Logger: logger})
	if err != nil {
		logger.Warn("RabbitMQ not available, running in polling-only mode", "error", err)
	} else {
		defer mqConn.Close()
		logger.Info("RabbitMQ connected")

		if err := mq.SetupTopology(ctx, mqConn); err != nil {
			logger.Warn("failed to setup topology", "error", err)
		}

		publisher := mq.NewPublisher(mqConn, logger)
		orchCfg.Notifier = publisher
		orchCfg.Sinks = publisher
	}

	w := worker.New(worker.Config{
		Processor:    orchestrator.New(orchCfg),
		Pending:      runRepo,
		Conn:         mqConn,
		PollInterval: time.Duration(envInt("WORKER_POLL_SECONDS", 10)) * time.Second,
		Concurrency:  envInt("WORKER_CONCURRENCY", 4),
		Logger:       logger,
	})

	if err := w.Start(ctx); err != nil {
		logger.Error("failed to start worker", "error", err)
		os.Exit(1)
	}

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if mqConn != nil && !mqConn.IsConnected() {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("rabbitmq disconnected"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	port := ":8082"
	if v := os.Getenv("WORKER_PORT"); v != "" {
		port = ":" + v
	}

	go func() {
		logger.Info("listening", "addr", port)
		if err := http.ListenAndServe(port, mux); err != nil {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()

	w.Stop()
	logger.Info("nodeflow-worker stopped")
}

// envInt читает целое из переменной окружения, def — если не задано или не число.
func envInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}
