package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestNode_UnmarshalJSON_EditorDocument(t *testing.T) {
	doc := `{
		"nodes": [
			{"id": "1", "type": "textUpdater", "position": {"x": 0, "y": 0}, "data": {"value": "10", "valueType": "number"}},
			{"id": "3", "type": "maths", "data": {"label": "sum"}},
			{"id": "4", "type": "log", "data": {}},
			{"id": "9", "type": "target", "data": {}}
		],
		"edges": [
			{"id": "e1", "source": "1", "sourceHandle": "1", "target": "3", "targetHandle": "a"}
		]
	}`

	var g Graph
	if err := json.Unmarshal([]byte(doc), &g); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(g.Nodes) != 4 || len(g.Edges) != 1 {
		t.Fatalf("expected 4 nodes and 1 edge, got %d/%d", len(g.Nodes), len(g.Edges))
	}

	vc, ok := g.Nodes[0].Config.(ValueConfig)
	if !ok {
		t.Fatalf("expected ValueConfig, got %T", g.Nodes[0].Config)
	}
	if n, ok := vc.Value.AsNumber(); !ok || n != 10 {
		t.Errorf("numeric text should be parsed, got %v (%s)", vc.Value, vc.Value.Kind())
	}

	mc, ok := g.Nodes[1].Config.(MathsConfig)
	if !ok {
		t.Fatalf("expected MathsConfig, got %T", g.Nodes[1].Config)
	}
	if mc.Operation != "" {
		t.Errorf("operation should stay empty, got %q", mc.Operation)
	}
	if g.Nodes[1].Label != "sum" {
		t.Errorf("expected label sum, got %q", g.Nodes[1].Label)
	}

	if _, ok := g.Nodes[2].Config.(LogConfig); !ok {
		t.Errorf("expected LogConfig, got %T", g.Nodes[2].Config)
	}

	uc, ok := g.Nodes[3].Config.(UnknownConfig)
	if !ok || uc.Type != "target" {
		t.Errorf("expected UnknownConfig{target}, got %#v", g.Nodes[3].Config)
	}
}

func TestNode_UnmarshalJSON_BadNumber(t *testing.T) {
	doc := `{"id": "1", "type": "value", "data": {"value": "ten", "valueType": "number"}}`

	var n Node
	err := json.Unmarshal([]byte(doc), &n)
	if !errors.Is(err, ErrInvalidNode) {
		t.Errorf("expected ErrInvalidNode, got %v", err)
	}
}

func TestNode_UnmarshalJSON_NonFiniteNumber(t *testing.T) {
	for _, text := range []string{"NaN", "Inf", "-Infinity"} {
		doc := `{"id": "1", "type": "value", "data": {"value": "` + text + `", "valueType": "number"}}`

		var n Node
		err := json.Unmarshal([]byte(doc), &n)
		if !errors.Is(err, ErrInvalidNode) {
			t.Errorf("%s: expected ErrInvalidNode, got %v", text, err)
		}
	}
}

func TestNode_MarshalJSON(t *testing.T) {
	n := Node{ID: "m", Label: "product", Config: MathsConfig{Operation: OpMultiply}}

	b, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `{"id":"m","type":"maths","data":{"label":"product","operation":"multiply"}}`
	if string(b) != want {
		t.Errorf("got %s, want %s", b, want)
	}
}

func TestPorts(t *testing.T) {
	tests := []struct {
		name   string
		cfg    NodeConfig
		input  bool
		port   string
		want   string
		wantOK bool
	}{
		{"maths a", MathsConfig{}, true, "a", "a", true},
		{"maths c", MathsConfig{}, true, "c", "", false},
		{"maths o", MathsConfig{}, false, "o", "o", true},
		{"value any output", ValueConfig{}, false, "whatever", "n", true},
		{"value no inputs", ValueConfig{}, true, "a", "", false},
		{"double any input", DoubleConfig{}, true, "n-in", "in", true},
		{"double prefixed output", DoubleConfig{}, false, "n-timesTwo", "timesTwo", true},
		{"double bare output", DoubleConfig{}, false, "original", "original", true},
		{"double unknown output", DoubleConfig{}, false, "n-triple", "", false},
		{"concatenate prefixed", ConcatenateConfig{}, true, "concatenate-input-a", "input-a", true},
		{"concatenate link", ConcatenateConfig{}, true, "link", "link", true},
		{"concatenate out", ConcatenateConfig{}, false, "concatenate-out", "out", true},
		{"log mirrors", LogConfig{}, true, "n", "n", true},
		{"empty port", LogConfig{}, true, "", "", false},
		{"unknown accepts", UnknownConfig{Type: "target"}, true, "x", "x", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			var ok bool
			if tt.input {
				got, ok = tt.cfg.InputPort("n", tt.port)
			} else {
				got, ok = tt.cfg.OutputPort("n", tt.port)
			}
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("got (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseKind_Aliases(t *testing.T) {
	for _, alias := range []string{"value", "textUpdater", "source"} {
		if k, ok := ParseKind(alias); !ok || k != KindValue {
			t.Errorf("ParseKind(%q) = %q, %v", alias, k, ok)
		}
	}
	if _, ok := ParseKind("target"); ok {
		t.Error("target should be unknown")
	}
}
