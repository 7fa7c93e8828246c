package mq

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/shaiso/Nodeflow/internal/nodes"
)

// SinkPublisher публикует значения log-узлов.
type SinkPublisher interface {
	PublishSinkValue(ctx context.Context, payload SinkValuePayload) error
}

// SinkObserver возвращает наблюдателя, который публикует значения
// log-узлов в nodeflow.sinks. Ошибка публикации не прерывает выполнение
// графа, она только логируется.
func SinkObserver(pub SinkPublisher, runID uuid.UUID, logger *slog.Logger) nodes.Observer {
	return nodes.ObserverFunc(func(ctx context.Context, rec nodes.SinkRecord) {
		err := pub.PublishSinkValue(ctx, SinkValuePayload{
			RunID:   runID,
			NodeID:  rec.NodeID,
			Port:    rec.Port,
			Label:   rec.Label,
			Value:   rec.Value,
			Message: rec.Message,
		})
		if err != nil && logger != nil {
			logger.WarnContext(ctx, "failed to publish sink value",
				"run_id", runID,
				"node_id", rec.NodeID,
				"port", rec.Port,
				"error", err,
			)
		}
	})
}
