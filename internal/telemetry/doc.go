// Package telemetry — логирование и метрики Nodeflow.
//
// Логгер (slog) настраивается из LOG_LEVEL и LOG_FORMAT и передаётся через
// context.Context; WithRunID, WithGraphID и WithNodeID добавляют атрибуты
// run'а, графа и узла.
//
// Метрики Prometheus регистрируются через promauto и отдаются на /metrics:
// выполнения графов и их длительность, вычисления узлов по типу,
// значения log-узлов, завершённые runs и переподключения к RabbitMQ.
//
// SinkLogger — nodes.Observer, который пишет значения log-узлов в slog.
package telemetry
