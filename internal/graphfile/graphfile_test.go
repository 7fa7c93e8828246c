package graphfile

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaiso/Nodeflow/internal/domain"
)

func TestLoad_FormatsAreEquivalent(t *testing.T) {
	want, err := Load(filepath.Join("testdata", "product.json"))
	require.NoError(t, err)
	require.Len(t, want.Nodes, 6)
	require.Len(t, want.Edges, 4)

	for _, name := range []string{"product.yaml", "product.hcl"} {
		t.Run(name, func(t *testing.T) {
			got, err := Load(filepath.Join("testdata", name))
			require.NoError(t, err)

			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("graph differs from JSON (-json +%s):\n%s", name, diff)
			}
		})
	}
}

func TestLoad_DecodesConfigs(t *testing.T) {
	g, err := Load(filepath.Join("testdata", "product.hcl"))
	require.NoError(t, err)

	b, ok := g.Nodes[1].Config.(domain.ValueConfig)
	require.True(t, ok)
	assert.True(t, b.Value.Equal(domain.Number(10)), "numeric text must be parsed")

	m, ok := g.Nodes[2].Config.(domain.MathsConfig)
	require.True(t, ok)
	assert.Equal(t, domain.OpMultiply, m.Operation)
	assert.Equal(t, "product", g.Nodes[2].Label)

	words, ok := g.Nodes[4].Config.(domain.ValueConfig)
	require.True(t, ok)
	assert.True(t, words.Value.Equal(domain.TextList("x", "y")))

	l, ok := g.Nodes[5].Config.(domain.LogConfig)
	require.True(t, ok)
	assert.Equal(t, "{{ .Label }}={{ .Value }}", l.Format)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		format  Format
		doc     string
		wantErr error
	}{
		{
			name:    "json bad number literal",
			format:  FormatJSON,
			doc:     `{"nodes": [{"id": "a", "type": "value", "data": {"value": "x", "valueType": "number"}}], "edges": []}`,
			wantErr: domain.ErrInvalidNode,
		},
		{
			name:    "yaml mixed list",
			format:  FormatYAML,
			doc:     "nodes:\n  - id: a\n    type: value\n    data:\n      value: [x, 1]\n",
			wantErr: domain.ErrInvalidValue,
		},
		{
			name:    "hcl syntax",
			format:  FormatHCL,
			doc:     `node "a" {`,
			wantErr: ErrDecode,
		},
		{
			name:    "hcl missing type",
			format:  FormatHCL,
			doc:     `node "a" {}`,
			wantErr: ErrDecode,
		},
		{
			name:    "unknown format",
			format:  Format("toml"),
			doc:     ``,
			wantErr: ErrUnknownFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.format, []byte(tt.doc))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	for path, want := range map[string]Format{
		"g.json":       FormatJSON,
		"dir/g.YAML":   FormatYAML,
		"g.yml":        FormatYAML,
		"graphs/g.hcl": FormatHCL,
	} {
		got, err := FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := FormatFromPath("graph.txt")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "missing.json"))
	assert.Error(t, err)
}
