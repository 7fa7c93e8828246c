package nodes

import (
	"context"
	"fmt"

	"github.com/shaiso/Nodeflow/internal/domain"
)

// evalLog пропускает входы на одноимённые выходы и отдаёт каждый наблюдателю.
//
// Порты обходятся в лексикографическом порядке. Если входов нет,
// узел отдаёт нулевое значение своего ValueType под своим id.
func evalLog(ctx context.Context, node domain.Node, cfg domain.LogConfig, in domain.PortValues, obs Observer) (domain.PortValues, error) {
	values := in
	if len(values) == 0 {
		values = domain.PortValues{node.ID: domain.Zero(cfg.ValueType)}
	}

	out := make(domain.PortValues, len(values))
	records := make([]SinkRecord, 0, len(values))

	for _, port := range values.Ports() {
		v := values[port]
		out[port] = v

		msg := v.String()
		if cfg.Format != "" {
			rendered, err := RenderFormat(cfg.Format, FormatData{
				Node:  node.ID,
				Port:  port,
				Label: node.Label,
				Value: v,
			})
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrEvaluationFailure, err)
			}
			msg = rendered
		}

		records = append(records, SinkRecord{
			NodeID:  node.ID,
			Port:    port,
			Label:   node.Label,
			Value:   v,
			Message: msg,
		})
	}

	for _, rec := range records {
		obs.Observe(ctx, rec)
	}
	return out, nil
}
