package nodes

import "github.com/shaiso/Nodeflow/internal/domain"

// evalValue отдаёт настроенный литерал на выходе с именем id узла.
func evalValue(node domain.Node, cfg domain.ValueConfig) domain.PortValues {
	return domain.PortValues{node.ID: cfg.Value}
}
