package telemetry

import (
	"context"
	"log/slog"

	"github.com/shaiso/Nodeflow/internal/nodes"
)

// SinkLogger возвращает наблюдателя, который пишет значения log-узлов в логгер.
// Если logger nil, используется логгер из контекста вызова.
func SinkLogger(logger *slog.Logger) nodes.Observer {
	return nodes.ObserverFunc(func(ctx context.Context, rec nodes.SinkRecord) {
		l := logger
		if l == nil {
			l = FromContext(ctx)
		}

		SinkValues.Inc()
		l.InfoContext(ctx, rec.Message,
			"node_id", rec.NodeID,
			"port", rec.Port,
			"label", rec.Label,
			"value_kind", string(rec.Value.Kind()),
		)
	})
}
