package graphfile

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/shaiso/Nodeflow/internal/domain"
)

// yamlDocument повторяет JSON-формат редактора: nodes[].data, edges[].
type yamlDocument struct {
	Nodes []yamlNode `yaml:"nodes"`
	Edges []yamlEdge `yaml:"edges"`
}

type yamlEdge struct {
	ID           string `yaml:"id"`
	Source       string `yaml:"source"`
	SourceHandle string `yaml:"sourceHandle"`
	Target       string `yaml:"target"`
	TargetHandle string `yaml:"targetHandle"`
}

type yamlNode struct {
	ID   string   `yaml:"id"`
	Type string   `yaml:"type"`
	Data yamlData `yaml:"data"`
}

type yamlData struct {
	Label     string `yaml:"label"`
	Value     any    `yaml:"value"`
	ValueType string `yaml:"valueType"`
	Operation string `yaml:"operation"`
	Format    string `yaml:"format"`
}

func parseYAML(data []byte) (domain.Graph, error) {
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return domain.Graph{}, err
	}

	g := domain.Graph{
		Nodes: make([]domain.Node, 0, len(doc.Nodes)),
		Edges: make([]domain.Edge, 0, len(doc.Edges)),
	}

	for _, n := range doc.Nodes {
		nd := domain.NodeData{
			Label:     n.Data.Label,
			ValueType: n.Data.ValueType,
			Operation: n.Data.Operation,
			Format:    n.Data.Format,
		}
		if n.Data.Value != nil {
			v, err := domain.ValueOf(n.Data.Value)
			if err != nil {
				return domain.Graph{}, fmt.Errorf("node %q: %w", n.ID, err)
			}
			nd.Value = &v
		}

		node, err := newNode(n.ID, n.Type, nd)
		if err != nil {
			return domain.Graph{}, err
		}
		g.Nodes = append(g.Nodes, node)
	}

	for _, e := range doc.Edges {
		g.Edges = append(g.Edges, domain.Edge(e))
	}

	return g, nil
}

// newNode собирает узел так же, как это делает JSON-декодер.
func newNode(id, kind string, nd domain.NodeData) (domain.Node, error) {
	cfg, err := domain.NewConfig(kind, nd)
	if err != nil {
		return domain.Node{}, fmt.Errorf("node %q: %w", id, err)
	}
	return domain.Node{ID: id, Label: nd.Label, Config: cfg}, nil
}
