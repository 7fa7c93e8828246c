package domain

import "sort"

// PortValues — значения на выходных портах одного узла: порт → значение.
type PortValues map[string]Value

// Ports возвращает имена портов в лексикографическом порядке.
func (p PortValues) Ports() []string {
	ports := make([]string, 0, len(p))
	for port := range p {
		ports = append(ports, port)
	}
	sort.Strings(ports)
	return ports
}

// Result — результат выполнения графа.
//
// Result не содержит идентификаторов запуска и времени, поэтому
// два выполнения одного графа дают побитово одинаковый Result.
type Result struct {
	// Order — порядок, в котором узлы были вычислены.
	Order []string `json:"order"`

	// Outputs — выходы всех узлов: id узла → порт → значение.
	Outputs map[string]PortValues `json:"outputs"`

	// Final — выходы узлов без исходящих рёбер.
	Final map[string]PortValues `json:"final"`
}

// Output возвращает значение на порту узла.
func (r *Result) Output(nodeID, port string) (Value, bool) {
	if r == nil {
		return Value{}, false
	}
	v, ok := r.Outputs[nodeID][port]
	return v, ok
}
