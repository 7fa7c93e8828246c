package nodes

import (
	"context"
	"fmt"

	"github.com/shaiso/Nodeflow/internal/domain"
)

// Evaluate вычисляет выходы узла по уже разрешённым входам.
//
// in — значения на входных портах узла (ключ — каноническое имя порта).
// Вычисление чистое: in не изменяется, результат — новая PortValues.
// obs получает значения log-узлов; nil означает Discard.
func Evaluate(ctx context.Context, node domain.Node, in domain.PortValues, obs Observer) (domain.PortValues, error) {
	if obs == nil {
		obs = Discard
	}

	switch cfg := node.Settings().(type) {
	case domain.ValueConfig:
		return evalValue(node, cfg), nil
	case domain.MathsConfig:
		return evalMaths(cfg, in)
	case domain.DoubleConfig:
		return evalDouble(in)
	case domain.ConcatenateConfig:
		return evalConcatenate(in)
	case domain.LogConfig:
		return evalLog(ctx, node, cfg, in, obs)
	case domain.UnknownConfig:
		return nil, fmt.Errorf("%w: %q", ErrUnknownNodeKind, cfg.Type)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownNodeKind, cfg.Kind())
	}
}
