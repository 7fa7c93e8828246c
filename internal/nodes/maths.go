package nodes

import (
	"fmt"

	"github.com/shaiso/Nodeflow/internal/domain"
)

// evalMaths применяет операцию к входам a и b и кладёт результат в o.
func evalMaths(cfg domain.MathsConfig, in domain.PortValues) (domain.PortValues, error) {
	a, err := numberInput(in, domain.PortA)
	if err != nil {
		return nil, err
	}
	b, err := numberInput(in, domain.PortB)
	if err != nil {
		return nil, err
	}

	var out float64
	switch cfg.Operation {
	case domain.OpAdd, "":
		out = a + b
	case domain.OpSubtract:
		out = a - b
	case domain.OpMultiply:
		out = a * b
	case domain.OpDivide:
		if b == 0 {
			return nil, ErrDivisionByZero
		}
		out = a / b
	default:
		return nil, fmt.Errorf("%w: %w: %q", ErrEvaluationFailure, ErrUnknownOperation, cfg.Operation)
	}

	// Переполнение даёт ±Inf
	out, err = finite(domain.PortO, out)
	if err != nil {
		return nil, err
	}
	return domain.PortValues{domain.PortO: domain.Number(out)}, nil
}
