package nodes

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaiso/Nodeflow/internal/domain"
)

type recorder struct {
	mu      sync.Mutex
	records []SinkRecord
}

func (r *recorder) Observe(_ context.Context, rec SinkRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
}

func mathsNode(op domain.Operation) domain.Node {
	return domain.Node{ID: "m", Config: domain.MathsConfig{Operation: op}}
}

func TestEvaluate_Maths(t *testing.T) {
	in := domain.PortValues{"a": domain.Number(5), "b": domain.Number(10)}

	tests := []struct {
		op   domain.Operation
		want float64
	}{
		{domain.OpAdd, 15},
		{"", 15},
		{domain.OpSubtract, -5},
		{domain.OpMultiply, 50},
		{domain.OpDivide, 0.5},
	}

	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			out, err := Evaluate(context.Background(), mathsNode(tt.op), in, nil)
			require.NoError(t, err)

			got, ok := out["o"].AsNumber()
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluate_Maths_DivisionByZero(t *testing.T) {
	in := domain.PortValues{"a": domain.Number(5), "b": domain.Number(0)}

	_, err := Evaluate(context.Background(), mathsNode(domain.OpDivide), in, nil)
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestEvaluate_Maths_MissingInputsAreZero(t *testing.T) {
	out, err := Evaluate(context.Background(), mathsNode(domain.OpAdd), domain.PortValues{"a": domain.Number(3)}, nil)
	require.NoError(t, err)
	assert.True(t, out["o"].Equal(domain.Number(3)))
}

func TestEvaluate_Maths_Coercion(t *testing.T) {
	in := domain.PortValues{"a": domain.Text(" 2.5 "), "b": domain.Bool(true)}

	out, err := Evaluate(context.Background(), mathsNode(domain.OpMultiply), in, nil)
	require.NoError(t, err)
	assert.True(t, out["o"].Equal(domain.Number(2.5)))
}

func TestEvaluate_Maths_TypeMismatch(t *testing.T) {
	for name, v := range map[string]domain.Value{
		"text": domain.Text("five"),
		"list": domain.NumberList(1, 2),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Evaluate(context.Background(), mathsNode(domain.OpAdd), domain.PortValues{"a": v}, nil)
			assert.ErrorIs(t, err, ErrEvaluationFailure)
			assert.ErrorIs(t, err, ErrTypeMismatch)
		})
	}
}

func TestEvaluate_Maths_NotFinite(t *testing.T) {
	tests := []struct {
		name string
		op   domain.Operation
		in   domain.PortValues
	}{
		{"nan text", domain.OpAdd, domain.PortValues{"a": domain.Text("NaN"), "b": domain.Number(1)}},
		{"inf text", domain.OpAdd, domain.PortValues{"a": domain.Text("Inf")}},
		{"nan number", domain.OpSubtract, domain.PortValues{"b": domain.Number(math.NaN())}},
		{"overflow", domain.OpMultiply, domain.PortValues{"a": domain.Number(1e308), "b": domain.Number(1e308)}},
		{"add overflow", domain.OpAdd, domain.PortValues{"a": domain.Number(math.MaxFloat64), "b": domain.Number(math.MaxFloat64)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Evaluate(context.Background(), mathsNode(tt.op), tt.in, nil)
			assert.ErrorIs(t, err, ErrEvaluationFailure)
			assert.ErrorIs(t, err, ErrNotFinite)
		})
	}
}

func TestEvaluate_Double_Overflow(t *testing.T) {
	node := domain.Node{ID: "d", Config: domain.DoubleConfig{}}

	for name, v := range map[string]domain.Value{
		"number": domain.Number(math.MaxFloat64),
		"list":   domain.NumberList(1, math.MaxFloat64),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Evaluate(context.Background(), node, domain.PortValues{"in": v}, nil)
			assert.ErrorIs(t, err, ErrEvaluationFailure)
			assert.ErrorIs(t, err, ErrNotFinite)
		})
	}
}

func TestEvaluate_Maths_UnknownOperation(t *testing.T) {
	_, err := Evaluate(context.Background(), mathsNode("modulo"), nil, nil)
	assert.ErrorIs(t, err, ErrEvaluationFailure)
	assert.ErrorIs(t, err, ErrUnknownOperation)
}

func TestEvaluate_Double(t *testing.T) {
	node := domain.Node{ID: "d", Config: domain.DoubleConfig{}}

	out, err := Evaluate(context.Background(), node, domain.PortValues{"in": domain.Number(7)}, nil)
	require.NoError(t, err)
	assert.True(t, out["original"].Equal(domain.Number(7)))
	assert.True(t, out["timesTwo"].Equal(domain.Number(14)))

	out, err = Evaluate(context.Background(), node, domain.PortValues{"in": domain.NumberList(1, 2.5)}, nil)
	require.NoError(t, err)
	assert.True(t, out["original"].Equal(domain.NumberList(1, 2.5)))
	assert.True(t, out["timesTwo"].Equal(domain.NumberList(2, 5)))

	out, err = Evaluate(context.Background(), node, nil, nil)
	require.NoError(t, err)
	assert.True(t, out["timesTwo"].Equal(domain.Number(0)))
}

func TestEvaluate_Concatenate(t *testing.T) {
	node := domain.Node{ID: "c", Config: domain.ConcatenateConfig{}}
	in := domain.PortValues{
		"input-a": domain.Text("hello"),
		"link":    domain.Text(" "),
		"input-b": domain.Number(42),
	}

	out, err := Evaluate(context.Background(), node, in, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello 42", out["out"].String())

	_, err = Evaluate(context.Background(), node, domain.PortValues{"link": domain.TextList("x")}, nil)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestEvaluate_Value(t *testing.T) {
	node := domain.Node{ID: "v", Config: domain.ValueConfig{Value: domain.Text("x")}}

	out, err := Evaluate(context.Background(), node, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"v"}, out.Ports())
	assert.True(t, out["v"].Equal(domain.Text("x")))
}

func TestEvaluate_Log(t *testing.T) {
	rec := &recorder{}
	node := domain.Node{ID: "l", Label: "result", Config: domain.LogConfig{}}
	in := domain.PortValues{"z": domain.Number(2), "a": domain.Number(1)}

	out, err := Evaluate(context.Background(), node, in, rec)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "z"}, out.Ports())

	require.Len(t, rec.records, 2)
	assert.Equal(t, "a", rec.records[0].Port)
	assert.Equal(t, "1", rec.records[0].Message)
	assert.Equal(t, "result", rec.records[1].Label)
}

func TestEvaluate_Log_NoInput(t *testing.T) {
	rec := &recorder{}
	node := domain.Node{ID: "l", Config: domain.LogConfig{ValueType: domain.ValueText}}

	out, err := Evaluate(context.Background(), node, nil, rec)
	require.NoError(t, err)
	assert.True(t, out["l"].Equal(domain.Text("")))
	require.Len(t, rec.records, 1)
	assert.Equal(t, "l", rec.records[0].Port)
}

func TestEvaluate_Log_Format(t *testing.T) {
	rec := &recorder{}
	node := domain.Node{ID: "l", Label: "sum", Config: domain.LogConfig{Format: "{{ .Label }}@{{ .Port }} = {{ .Value }}"}}

	_, err := Evaluate(context.Background(), node, domain.PortValues{"l": domain.Number(0.5)}, rec)
	require.NoError(t, err)
	require.Len(t, rec.records, 1)
	assert.Equal(t, "sum@l = 0.5", rec.records[0].Message)

	bad := domain.Node{ID: "l", Config: domain.LogConfig{Format: "{{ .Missing }}"}}
	_, err = Evaluate(context.Background(), bad, domain.PortValues{"l": domain.Number(1)}, rec)
	assert.ErrorIs(t, err, ErrEvaluationFailure)
	assert.Len(t, rec.records, 1, "failed render must not reach observer")
}

func TestEvaluate_UnknownKind(t *testing.T) {
	node := domain.Node{ID: "t", Config: domain.UnknownConfig{Type: "target"}}

	_, err := Evaluate(context.Background(), node, nil, nil)
	require.ErrorIs(t, err, ErrUnknownNodeKind)
	assert.Equal(t, `unknown node kind: "target"`, err.Error())
}

func TestMultiObserver(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	obs := MultiObserver(a, nil, b)

	obs.Observe(context.Background(), SinkRecord{NodeID: "x"})
	assert.Len(t, a.records, 1)
	assert.Len(t, b.records, 1)
}

func TestRenderFormat_Plain(t *testing.T) {
	got, err := RenderFormat("no template", FormatData{})
	require.NoError(t, err)
	assert.Equal(t, "no template", got)

	_, err = RenderFormat("{{ .Node ", FormatData{})
	assert.ErrorIs(t, err, ErrTemplateParse)
}
