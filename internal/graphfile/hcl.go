package graphfile

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/shaiso/Nodeflow/internal/domain"
)

// hclDocument — схема HCL-документа:
//
//	node "sum" {
//	  type      = "maths"
//	  operation = "add"
//	}
//
//	edge {
//	  source        = "a"
//	  source_handle = "a"
//	  target        = "sum"
//	  target_handle = "a"
//	}
type hclDocument struct {
	Nodes []hclNode `hcl:"node,block"`
	Edges []hclEdge `hcl:"edge,block"`
}

type hclNode struct {
	ID        string    `hcl:"id,label"`
	Type      string    `hcl:"type"`
	Label     string    `hcl:"label,optional"`
	Value     cty.Value `hcl:"value,optional"`
	ValueType string    `hcl:"value_type,optional"`
	Operation string    `hcl:"operation,optional"`
	Format    string    `hcl:"format,optional"`
}

type hclEdge struct {
	ID           string `hcl:"id,optional"`
	Source       string `hcl:"source"`
	SourceHandle string `hcl:"source_handle,optional"`
	Target       string `hcl:"target"`
	TargetHandle string `hcl:"target_handle,optional"`
}

func parseHCL(data []byte, filename string) (domain.Graph, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return domain.Graph{}, fmt.Errorf("parse HCL: %s", diags.Error())
	}

	var doc hclDocument
	diags = gohcl.DecodeBody(file.Body, nil, &doc)
	if diags.HasErrors() {
		return domain.Graph{}, fmt.Errorf("decode HCL: %s", diags.Error())
	}

	g := domain.Graph{
		Nodes: make([]domain.Node, 0, len(doc.Nodes)),
		Edges: make([]domain.Edge, 0, len(doc.Edges)),
	}

	for _, n := range doc.Nodes {
		nd := domain.NodeData{
			Label:     n.Label,
			ValueType: n.ValueType,
			Operation: n.Operation,
			Format:    n.Format,
		}

		raw, err := ctyToAny(n.Value)
		if err != nil {
			return domain.Graph{}, fmt.Errorf("node %q: %w", n.ID, err)
		}
		if raw != nil {
			v, err := domain.ValueOf(raw)
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
		g.Edges = append(g.Edges, domain.Edge{
			ID:           e.ID,
			Source:       e.Source,
			SourceHandle: e.SourceHandle,
			Target:       e.Target,
			TargetHandle: e.TargetHandle,
		})
	}

	return g, nil
}

// ctyToAny конвертирует cty.Value в Go значение, понятное domain.ValueOf.
// Отсутствующий атрибут и null дают nil.
func ctyToAny(val cty.Value) (any, error) {
	if val.IsNull() {
		return nil, nil
	}
	if !val.IsKnown() {
		return nil, fmt.Errorf("value is not known")
	}

	ty := val.Type()
	switch {
	case ty.Equals(cty.String):
		return val.AsString(), nil
	case ty.Equals(cty.Number):
		f, _ := val.AsBigFloat().Float64()
		return f, nil
	case ty.Equals(cty.Bool):
		return val.True(), nil
	case ty.IsTupleType() || ty.IsListType():
		out := make([]any, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			v, err := ctyToAny(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}
