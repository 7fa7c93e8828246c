package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GraphExecutions — количество выполнений графа по результату (ok / класс ошибки).
	GraphExecutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nodeflow",
		Name:      "graph_executions_total",
		Help:      "Graph executions by outcome.",
	}, []string{"outcome"})

	// GraphExecutionDuration — длительность выполнения графа.
	GraphExecutionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "nodeflow",
		Name:      "graph_execution_duration_seconds",
		Help:      "Graph execution duration.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
	})

	// NodeEvaluations — количество вычислений узлов по типу и статусу.
	NodeEvaluations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nodeflow",
		Name:      "node_evaluations_total",
		Help:      "Node evaluations by kind and status.",
	}, []string{"kind", "status"})

	// SinkValues — количество значений, прошедших через log-узлы.
	SinkValues = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "nodeflow",
		Name:      "sink_values_total",
		Help:      "Values surfaced by log nodes.",
	})

	// RunsFinished — количество завершённых run по статусу.
	RunsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nodeflow",
		Name:      "runs_finished_total",
		Help:      "Finished runs by status.",
	}, []string{"status"})
)

// ObserveExecution записывает результат и длительность выполнения графа.
// outcome — "ok" или класс ошибки.
func ObserveExecution(outcome string, d time.Duration) {
	GraphExecutions.WithLabelValues(outcome).Inc()
	GraphExecutionDuration.Observe(d.Seconds())
}

// ObserveNode записывает одно вычисление узла.
func ObserveNode(kind string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	NodeEvaluations.WithLabelValues(kind, status).Inc()
}

// MQReconnects — количество переподключений к RabbitMQ по результату попытки.
var MQReconnects = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "nodeflow",
	Name:      "mq_reconnects_total",
	Help:      "RabbitMQ reconnect attempts by result.",
}, []string{"result"})

// MQDeliveries — обработанные сообщения RabbitMQ по очереди и исходу (ack, requeue, dead_letter).
var MQDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "nodeflow",
	Name:      "mq_deliveries_total",
	Help:      "Consumed RabbitMQ messages by queue and outcome.",
}, []string{"queue", "outcome"})
