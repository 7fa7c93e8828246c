package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind — тип узла графа.
type Kind string

const (
	// KindValue — источник константного значения.
	KindValue Kind = "value"

	// KindMaths — арифметическая операция над двумя числами.
	KindMaths Kind = "maths"

	// KindDouble — удвоение входного значения.
	KindDouble Kind = "timesTwo"

	// KindConcatenate — конкатенация строк через разделитель.
	KindConcatenate Kind = "concatenate"

	// KindLog — sink: пропускает значения дальше и отдаёт их наблюдателю.
	KindLog Kind = "log"
)

// kindAliases — имена типов, которые экспортирует редактор графов.
var kindAliases = map[string]Kind{
	"value":       KindValue,
	"textUpdater": KindValue,
	"source":      KindValue,
	"maths":       KindMaths,
	"timesTwo":    KindDouble,
	"concatenate": KindConcatenate,
	"log":         KindLog,
}

// ParseKind возвращает канонический Kind по имени типа.
// Второе значение false, если тип неизвестен.
func ParseKind(s string) (Kind, bool) {
	k, ok := kindAliases[s]
	return k, ok
}

// Operation — арифметическая операция maths-узла.
type Operation string

const (
	OpAdd      Operation = "add"
	OpSubtract Operation = "subtract"
	OpMultiply Operation = "multiply"
	OpDivide   Operation = "divide"
)

// Канонические имена портов.
const (
	PortA        = "a"
	PortB        = "b"
	PortO        = "o"
	PortIn       = "in"
	PortOriginal = "original"
	PortTimesTwo = "timesTwo"
	PortInputA   = "input-a"
	PortInputB   = "input-b"
	PortLink     = "link"
	PortOut      = "out"
)

// concatenatePrefix — префикс handle-ов concatenate-узла в документах редактора.
const concatenatePrefix = "concatenate-"

// NodeConfig — конфигурация узла, зависящая от его типа.
//
// Набор реализаций закрыт: ValueConfig, MathsConfig, DoubleConfig,
// ConcatenateConfig, LogConfig и UnknownConfig. Вычислители перебирают
// их type switch'ем.
//
// InputPort и OutputPort приводят идентификатор handle из ребра к
// каноническому имени порта. false означает, что узел такого порта не имеет.
type NodeConfig interface {
	Kind() Kind
	InputPort(nodeID, port string) (string, bool)
	OutputPort(nodeID, port string) (string, bool)

	data() NodeData
}

// ValueConfig — конфигурация value-узла.
type ValueConfig struct {
	Value Value
}

func (ValueConfig) Kind() Kind { return KindValue }

func (ValueConfig) InputPort(string, string) (string, bool) { return "", false }

// OutputPort: у value-узла один выход, он всегда называется id узла.
func (ValueConfig) OutputPort(nodeID, port string) (string, bool) {
	if port == "" {
		return "", false
	}
	return nodeID, true
}

func (c ValueConfig) data() NodeData {
	v := c.Value
	return NodeData{Value: &v, ValueType: string(c.Value.Kind())}
}

// MathsConfig — конфигурация maths-узла.
// Пустая Operation означает сложение.
type MathsConfig struct {
	Operation Operation
}

func (MathsConfig) Kind() Kind { return KindMaths }

func (MathsConfig) InputPort(_, port string) (string, bool) {
	switch port {
	case PortA, PortB:
		return port, true
	}
	return "", false
}

func (MathsConfig) OutputPort(_, port string) (string, bool) {
	return port, port == PortO
}

func (c MathsConfig) data() NodeData {
	return NodeData{Operation: string(c.Operation)}
}

// DoubleConfig — конфигурация timesTwo-узла.
type DoubleConfig struct{}

func (DoubleConfig) Kind() Kind { return KindDouble }

// InputPort: вход единственный, любой handle приводится к "in".
func (DoubleConfig) InputPort(_, port string) (string, bool) {
	if port == "" {
		return "", false
	}
	return PortIn, true
}

func (DoubleConfig) OutputPort(nodeID, port string) (string, bool) {
	port = strings.TrimPrefix(port, nodeID+"-")
	switch port {
	case PortOriginal, PortTimesTwo:
		return port, true
	}
	return "", false
}

func (DoubleConfig) data() NodeData { return NodeData{} }

// ConcatenateConfig — конфигурация concatenate-узла.
type ConcatenateConfig struct{}

func (ConcatenateConfig) Kind() Kind { return KindConcatenate }

func (ConcatenateConfig) InputPort(_, port string) (string, bool) {
	port = strings.TrimPrefix(port, concatenatePrefix)
	switch port {
	case PortInputA, PortInputB, PortLink:
		return port, true
	}
	return "", false
}

func (ConcatenateConfig) OutputPort(_, port string) (string, bool) {
	port = strings.TrimPrefix(port, concatenatePrefix)
	return port, port == PortOut
}

func (ConcatenateConfig) data() NodeData { return NodeData{} }

// LogConfig — конфигурация log-узла.
//
// ValueType — тип значения, которое узел отдаёт, если ничего не получил.
// Format — необязательный text/template для сообщения наблюдателю.
type LogConfig struct {
	ValueType ValueKind
	Format    string
}

func (LogConfig) Kind() Kind { return KindLog }

// InputPort: log принимает любые порты, выходы зеркалят входы.
func (LogConfig) InputPort(_, port string) (string, bool) {
	return port, port != ""
}

func (LogConfig) OutputPort(_, port string) (string, bool) {
	return port, port != ""
}

func (c LogConfig) data() NodeData {
	return NodeData{ValueType: string(c.ValueType), Format: c.Format}
}

// UnknownConfig — узел неизвестного типа.
// Валидация его пропускает, вычисление завершается ошибкой.
type UnknownConfig struct {
	Type string
}

func (c UnknownConfig) Kind() Kind { return Kind(c.Type) }

func (UnknownConfig) InputPort(_, port string) (string, bool) {
	return port, port != ""
}

func (UnknownConfig) OutputPort(_, port string) (string, bool) {
	return port, port != ""
}

func (UnknownConfig) data() NodeData { return NodeData{} }

// NodeData — содержимое поля data узла в документе графа.
type NodeData struct {
	Label     string `json:"label,omitempty"`
	Value     *Value `json:"value,omitempty"`
	ValueType string `json:"valueType,omitempty"`
	Operation string `json:"operation,omitempty"`
	Format    string `json:"format,omitempty"`
}

// NewConfig собирает конфигурацию узла по имени типа и данным из документа.
//
// Неизвестный тип не считается ошибкой: возвращается UnknownConfig.
// Ошибка возвращается, если данные не соответствуют типу
// (например, value-узел с valueType "number" и нечисловым текстом).
func NewConfig(kind string, d NodeData) (NodeConfig, error) {
	k, ok := ParseKind(kind)
	if !ok {
		return UnknownConfig{Type: kind}, nil
	}

	switch k {
	case KindValue:
		return newValueConfig(d)
	case KindMaths:
		return MathsConfig{Operation: Operation(d.Operation)}, nil
	case KindDouble:
		return DoubleConfig{}, nil
	case KindConcatenate:
		return ConcatenateConfig{}, nil
	case KindLog:
		vt, err := ParseValueKind(d.ValueType)
		if err != nil {
			return nil, fmt.Errorf("%w: log: %v", ErrInvalidNode, err)
		}
		return LogConfig{ValueType: vt, Format: d.Format}, nil
	}
	return UnknownConfig{Type: kind}, nil
}

func newValueConfig(d NodeData) (NodeConfig, error) {
	vt, err := ParseValueKind(d.ValueType)
	if err != nil {
		return nil, fmt.Errorf("%w: value: %v", ErrInvalidNode, err)
	}

	if d.Value == nil || d.Value.IsZero() {
		return ValueConfig{Value: Zero(vt)}, nil
	}

	v := *d.Value
	if vt == ValueNumber {
		if s, ok := v.AsText(); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: value %q is not a number", ErrInvalidNode, s)
			}
			if v, err = finiteNumber(f); err != nil {
				return nil, fmt.Errorf("%w: value: %v", ErrInvalidNode, err)
			}
		}
	}
	return ValueConfig{Value: v}, nil
}

// Node — узел графа.
type Node struct {
	// ID — уникальный непустой идентификатор узла.
	ID string

	// Label — подпись для отображения, на вычисления не влияет.
	Label string

	// Config — конфигурация, зависящая от типа узла.
	Config NodeConfig
}

// Kind возвращает тип узла.
func (n Node) Kind() Kind {
	return n.Settings().Kind()
}

// Settings возвращает конфигурацию узла.
// Узел без конфигурации считается узлом неизвестного типа.
func (n Node) Settings() NodeConfig {
	if n.Config == nil {
		return UnknownConfig{}
	}
	return n.Config
}

type nodeJSON struct {
	ID   string   `json:"id"`
	Type string   `json:"type"`
	Data NodeData `json:"data"`
}

// MarshalJSON сериализует узел в формате редактора: {id, type, data}.
func (n Node) MarshalJSON() ([]byte, error) {
	cfg := n.Settings()
	d := cfg.data()
	d.Label = n.Label
	return json.Marshal(nodeJSON{ID: n.ID, Type: string(cfg.Kind()), Data: d})
}

// UnmarshalJSON разбирает узел из формата редактора.
// Лишние поля (position, width, ...) игнорируются.
func (n *Node) UnmarshalJSON(b []byte) error {
	var raw nodeJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	cfg, err := NewConfig(raw.Type, raw.Data)
	if err != nil {
		return fmt.Errorf("node %q: %w", raw.ID, err)
	}

	*n = Node{ID: raw.ID, Label: raw.Data.Label, Config: cfg}
	return nil
}
