package nodes

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shaiso/Nodeflow/internal/domain"
)

// mismatch формирует ошибку приведения типа на порту.
func mismatch(port string, v domain.Value, want string) error {
	return fmt.Errorf("%w: %w: port %q: cannot use %s as %s", ErrEvaluationFailure, ErrTypeMismatch, port, v.Kind(), want)
}

// finite возвращает ошибку для NaN и ±Inf.
func finite(port string, n float64) (float64, error) {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("%w: %w: port %q: %v", ErrEvaluationFailure, ErrNotFinite, port, n)
	}
	return n, nil
}

// toNumber приводит значение к конечному числу.
// Числовой текст парсится, bool даёт 1 или 0. "NaN" и "Inf" отклоняются.
func toNumber(port string, v domain.Value) (float64, error) {
	switch v.Kind() {
	case domain.ValueNone:
		return 0, nil
	case domain.ValueNumber:
		n, _ := v.AsNumber()
		return finite(port, n)
	case domain.ValueText:
		s, _ := v.AsText()
		n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %w: port %q: %q is not a number", ErrEvaluationFailure, ErrTypeMismatch, port, s)
		}
		return finite(port, n)
	case domain.ValueBool:
		if b, _ := v.AsBool(); b {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, mismatch(port, v, "number")
	}
}

// toText приводит скалярное значение к строке.
func toText(port string, v domain.Value) (string, error) {
	switch v.Kind() {
	case domain.ValueNone:
		return "", nil
	case domain.ValueNumber, domain.ValueText, domain.ValueBool:
		return v.String(), nil
	default:
		return "", mismatch(port, v, "text")
	}
}

// numberInput возвращает число на входном порту. Отсутствующий вход — 0.
func numberInput(in domain.PortValues, port string) (float64, error) {
	return toNumber(port, in[port])
}

// textInput возвращает строку на входном порту. Отсутствующий вход — "".
func textInput(in domain.PortValues, port string) (string, error) {
	return toText(port, in[port])
}
