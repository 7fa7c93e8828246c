package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValueKind — тип значения, передаваемого между портами.
type ValueKind string

const (
	// ValueNone — значение отсутствует (порт ничем не заполнен).
	ValueNone ValueKind = ""

	// ValueNumber — число (float64).
	ValueNumber ValueKind = "number"

	// ValueText — строка.
	ValueText ValueKind = "text"

	// ValueBool — булево значение.
	ValueBool ValueKind = "boolean"

	// ValueTextList — упорядоченная последовательность строк.
	ValueTextList ValueKind = "text[]"

	// ValueNumberList — упорядоченная последовательность чисел.
	ValueNumberList ValueKind = "number[]"
)

// ParseValueKind парсит имя типа из описания узла (data.valueType).
//
// Принимает и имена из UI ("string", "bool"), и канонические имена.
// Пустая строка — ValueNone.
func ParseValueKind(s string) (ValueKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return ValueNone, nil
	case "number", "numeric":
		return ValueNumber, nil
	case "text", "string":
		return ValueText, nil
	case "boolean", "bool":
		return ValueBool, nil
	case "text[]", "string[]":
		return ValueTextList, nil
	case "number[]":
		return ValueNumberList, nil
	default:
		return ValueNone, fmt.Errorf("%w: unknown value type %q", ErrInvalidValue, s)
	}
}

// Value — значение, передаваемое по рёбрам графа.
//
// Value неизменяемо: конструкторы и аксессоры копируют слайсы,
// поэтому одно значение можно безопасно раздавать нескольким узлам.
// Нулевое значение Value{} — "значение отсутствует" (ValueNone).
type Value struct {
	kind  ValueKind
	num   float64
	text  string
	flag  bool
	texts []string
	nums  []float64
}

// Number создаёт числовое значение.
func Number(f float64) Value {
	return Value{kind: ValueNumber, num: f}
}

// Text создаёт строковое значение.
func Text(s string) Value {
	return Value{kind: ValueText, text: s}
}

// Bool создаёт булево значение.
func Bool(b bool) Value {
	return Value{kind: ValueBool, flag: b}
}

// TextList создаёт последовательность строк.
func TextList(items ...string) Value {
	return Value{kind: ValueTextList, texts: append([]string{}, items...)}
}

// NumberList создаёт последовательность чисел.
func NumberList(items ...float64) Value {
	return Value{kind: ValueNumberList, nums: append([]float64{}, items...)}
}

// Zero возвращает нулевое значение для типа: 0, "", false или пустую последовательность.
// Для ValueNone возвращает Number(0).
func Zero(kind ValueKind) Value {
	switch kind {
	case ValueText:
		return Text("")
	case ValueBool:
		return Bool(false)
	case ValueTextList:
		return TextList()
	case ValueNumberList:
		return NumberList()
	default:
		return Number(0)
	}
}

// ValueOf конвертирует Go-значение (результат json/yaml декодирования) в Value.
//
// Поддерживаются числа всех целых и вещественных типов, string, bool,
// однородные []any из строк или чисел, []string, []float64 и nil.
func ValueOf(x any) (Value, error) {
	switch v := x.(type) {
	case nil:
		return Value{}, nil
	case Value:
		return v, nil
	case float64:
		return finiteNumber(v)
	case float32:
		return finiteNumber(float64(v))
	case int:
		return Number(float64(v)), nil
	case int64:
		return Number(float64(v)), nil
	case int32:
		return Number(float64(v)), nil
	case uint64:
		return Number(float64(v)), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		return Number(f), nil
	case string:
		return Text(v), nil
	case bool:
		return Bool(v), nil
	case []string:
		return TextList(v...), nil
	case []float64:
		for _, f := range v {
			if _, err := finiteNumber(f); err != nil {
				return Value{}, err
			}
		}
		return NumberList(v...), nil
	case []any:
		return listOf(v)
	default:
		return Value{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidValue, x)
	}
}

// listOf собирает последовательность из однородного []any.
// Пустой список считается последовательностью строк: JSON "[]" не несёт
// тип элементов, поэтому пустой NumberList после сериализации и разбора
// становится пустым TextList.
func listOf(items []any) (Value, error) {
	if len(items) == 0 {
		return TextList(), nil
	}

	if _, ok := items[0].(string); ok {
		texts := make([]string, len(items))
		for i, item := range items {
			s, ok := item.(string)
			if !ok {
				return Value{}, fmt.Errorf("%w: mixed list element %d (%T)", ErrInvalidValue, i, item)
			}
			texts[i] = s
		}
		return Value{kind: ValueTextList, texts: texts}, nil
	}

	nums := make([]float64, len(items))
	for i, item := range items {
		v, err := ValueOf(item)
		if err != nil {
			return Value{}, err
		}
		f, ok := v.AsNumber()
		if !ok {
			return Value{}, fmt.Errorf("%w: mixed list element %d (%T)", ErrInvalidValue, i, item)
		}
		nums[i] = f
	}
	return Value{kind: ValueNumberList, nums: nums}, nil
}

// Kind возвращает тип значения.
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsZero возвращает true, если значение отсутствует.
func (v Value) IsZero() bool {
	return v.kind == ValueNone
}

// AsNumber возвращает число, если значение числовое.
func (v Value) AsNumber() (float64, bool) {
	return v.num, v.kind == ValueNumber
}

// AsText возвращает строку, если значение строковое.
func (v Value) AsText() (string, bool) {
	return v.text, v.kind == ValueText
}

// AsBool возвращает bool, если значение булево.
func (v Value) AsBool() (bool, bool) {
	return v.flag, v.kind == ValueBool
}

// AsTextList возвращает копию последовательности строк.
func (v Value) AsTextList() ([]string, bool) {
	if v.kind != ValueTextList {
		return nil, false
	}
	return append([]string{}, v.texts...), true
}

// AsNumberList возвращает копию последовательности чисел.
func (v Value) AsNumberList() ([]float64, bool) {
	if v.kind != ValueNumberList {
		return nil, false
	}
	return append([]float64{}, v.nums...), true
}

// String возвращает каноническое текстовое представление.
// Числа — в кратчайшей десятичной форме, последовательности — через ", ".
func (v Value) String() string {
	switch v.kind {
	case ValueNumber:
		return formatNumber(v.num)
	case ValueText:
		return v.text
	case ValueBool:
		return strconv.FormatBool(v.flag)
	case ValueTextList:
		return strings.Join(v.texts, ", ")
	case ValueNumberList:
		parts := make([]string, len(v.nums))
		for i, n := range v.nums {
			parts[i] = formatNumber(n)
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

// Equal сравнивает значения побитово (числа сравниваются по битам float64).
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case ValueNumber:
		return math.Float64bits(v.num) == math.Float64bits(o.num)
	case ValueText:
		return v.text == o.text
	case ValueBool:
		return v.flag == o.flag
	case ValueTextList:
		if len(v.texts) != len(o.texts) {
			return false
		}
		for i := range v.texts {
			if v.texts[i] != o.texts[i] {
				return false
			}
		}
		return true
	case ValueNumberList:
		if len(v.nums) != len(o.nums) {
			return false
		}
		for i := range v.nums {
			if math.Float64bits(v.nums[i]) != math.Float64bits(o.nums[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// MarshalJSON сериализует значение как обычный JSON литерал.
// Тип пустой последовательности не сохраняется (см. listOf).
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueNumber:
		return json.Marshal(v.num)
	case ValueText:
		return json.Marshal(v.text)
	case ValueBool:
		return json.Marshal(v.flag)
	case ValueTextList:
		return json.Marshal(v.texts)
	case ValueNumberList:
		return json.Marshal(v.nums)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON восстанавливает значение по JSON литералу.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}

	parsed, err := ValueOf(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// finiteNumber отклоняет NaN и ±Inf: у них нет JSON-представления.
func finiteNumber(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, fmt.Errorf("%w: number %v is not finite", ErrInvalidValue, f)
	}
	return Number(f), nil
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
