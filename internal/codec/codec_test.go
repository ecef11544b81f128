package codec

import (
	"bytes"
	"strings"
	"testing"

	"nodecolor/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func columnNames(g *domain.Graph) []string {
	names := make([]string, 0, len(g.Table.Columns))
	for _, c := range g.Table.Columns {
		names = append(names, c.Name)
	}
	return names
}

func valueOf(t *testing.T, g *domain.Graph, nodeID, column string) domain.AttributeValue {
	t.Helper()
	col, ok := g.Table.Column(column)
	require.True(t, ok, "column %s", column)
	return g.ReadAttribute(nodeID, col.Index)
}

func TestNew(t *testing.T) {
	for _, format := range []string{"yaml", "json", "csv", "dot", "YAML"} {
		c, err := New(format)
		require.NoError(t, err, format)
		assert.Equal(t, strings.ToLower(format), c.Format())
	}

	_, err := New("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "csv, dot, json, yaml")
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]string{
		"graph.yaml":     "yaml",
		"graph.YML":      "yaml",
		"dir/graph.json": "json",
		"nodes.csv":      "csv",
		"g.dot":          "dot",
		"g.gv":           "dot",
		"notes.txt":      "",
		"noext":          "",
	}
	for path, want := range tests {
		assert.Equal(t, want, FormatFromPath(path), path)
	}
}

const yamlDoc = `
name: demo
directed: true
column_titles:
  Color: Node Color
nodes:
  - id: a
    label: Alpha
    attributes:
      weight: 3
      Color: "255,0,128"
  - id: b
    attributes:
      Color: "#00ff00"
      extra: x
  - id: c
    attributes:
      Color: ~
edges:
  - from: a
    to: b
`

func TestYAMLCodec_Parse(t *testing.T) {
	g, err := NewYAMLCodec().Parse(strings.NewReader(yamlDoc))
	require.NoError(t, err)

	assert.Equal(t, "demo", g.Name)
	assert.True(t, g.Directed)
	assert.Equal(t, []string{"weight", "Color", "extra"}, columnNames(g))

	col, _ := g.Table.Column("Color")
	assert.Equal(t, "Node Color", col.DisplayName())

	w := valueOf(t, g, "a", "weight")
	assert.Equal(t, domain.KindNumber, w.Kind)
	assert.Equal(t, 3.0, w.Num)

	assert.Equal(t, domain.StringValue("255,0,128"), valueOf(t, g, "a", "Color"))
	assert.Equal(t, domain.StringValue("#00ff00"), valueOf(t, g, "b", "Color"))
	assert.True(t, valueOf(t, g, "c", "Color").IsAbsent())

	require.Len(t, g.Edges, 1)
	assert.Equal(t, "a", g.Edges[0].FromID)
	assert.True(t, g.Edges[0].Directed)
}

func TestYAMLCodec_ParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"empty", "", "empty document"},
		{"missing id", "nodes:\n  - label: x\n", "missing id"},
		{"duplicate id", "nodes:\n  - id: a\n  - id: a\n", "duplicate id"},
		{"bad attributes", "nodes:\n  - id: a\n    attributes: [1, 2]\n", "must be a mapping"},
		{"edge endpoint", "nodes:\n  - id: a\nedges:\n  - from: a\n", "missing endpoint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewYAMLCodec().Parse(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestYAMLCodec_ExportKeepsColorsAndOrder(t *testing.T) {
	c := NewYAMLCodec()
	g, err := c.Parse(strings.NewReader(yamlDoc))
	require.NoError(t, err)
	require.NoError(t, g.WriteColor("a", domain.NewRGB255(255, 0, 128)))

	var buf bytes.Buffer
	require.NoError(t, c.Export(g, &buf))
	assert.Contains(t, buf.String(), "#ff0080")

	again, err := c.Parse(&buf)
	require.NoError(t, err)

	if diff := cmp.Diff(columnNames(g), columnNames(again)); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(g.Colors(), again.Colors()); diff != "" {
		t.Errorf("colors mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Node Color", again.Table.Columns[1].Title)
}

func TestJSONCodec_KeepsAttributeOrder(t *testing.T) {
	doc := `{
  "name": "j",
  "nodes": [
    {"id": "n1", "attributes": {"zeta": 1, "Color": "0.5, 0.5, 0.5", "alpha": 2.5}},
    {"id": "n2", "attributes": {"beta": true}}
  ]
}`
	c := NewJSONCodec()
	g, err := c.Parse(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "Color", "alpha", "beta"}, columnNames(g))
	assert.Equal(t, int64(1), g.Nodes[0].Values[0])
	assert.Equal(t, 2.5, valueOf(t, g, "n1", "alpha").Num)
	assert.Equal(t, domain.KindOther, valueOf(t, g, "n2", "beta").Kind)

	var buf bytes.Buffer
	require.NoError(t, c.Export(g, &buf))
	out := buf.String()
	assert.Less(t, strings.Index(out, `"zeta"`), strings.Index(out, `"alpha"`))
}

func TestJSONCodec_ParseError(t *testing.T) {
	_, err := NewJSONCodec().Parse(strings.NewReader(`{"nodes": [{"id": "a", "attributes": [1]}]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse JSON")
}

func TestCSVCodec_Parse(t *testing.T) {
	doc := "id,label,Color,size\n" +
		"a,Alpha,\"255,0,0\",4\n" +
		"b,,#0000ff,\n"

	g, err := NewCSVCodec().Parse(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "label", "Color", "size"}, columnNames(g))
	require.Len(t, g.Nodes, 2)
	assert.Equal(t, "Alpha", g.Nodes[0].Label)
	assert.Equal(t, domain.StringValue("255,0,0"), valueOf(t, g, "a", "Color"))
	assert.Equal(t, domain.StringValue("4"), valueOf(t, g, "a", "size"))
	assert.True(t, valueOf(t, g, "b", "size").IsAbsent())
	assert.Empty(t, g.Edges)
}

func TestCSVCodec_ParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"empty", "", "missing header"},
		{"no id", "label,Color\nx,#ffffff\n", "no id column"},
		{"empty id", "id,Color\n,#ffffff\n", "empty id"},
		{"duplicate", "id\na\na\n", "duplicate id"},
		{"ragged", "id,Color\na\n", "failed to parse CSV"},
		{"bad channel", "id,r,g,b\na,x,0,0\n", "color channel r"},
		{"partial channels", "id,r,g,b\na,1,,0\n", "incomplete"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCSVCodec().Parse(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCSVCodec_ExportColorChannels(t *testing.T) {
	c := NewCSVCodec()
	g, err := c.Parse(strings.NewReader("id,Color\na,#ff0000\nb,bogus\n"))
	require.NoError(t, err)
	require.NoError(t, g.WriteColor("a", domain.RGB{R: 1}))

	var buf bytes.Buffer
	require.NoError(t, c.Export(g, &buf))
	assert.Equal(t, "id,Color,r,g,b\na,#ff0000,1,0,0\nb,bogus,,,\n", buf.String())

	again, err := c.Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "Color"}, columnNames(again))
	assert.Equal(t, map[string]domain.RGB{"a": {R: 1}}, again.Colors())
}

func TestCSVCodec_ExportWithoutIDColumn(t *testing.T) {
	g := domain.NewGraph("", "")
	col := g.Table.AddColumn("Color")
	n := domain.NewNode("x", "")
	n.SetValue(col.Index, "1,2,3")
	g.AddNode(n)

	var buf bytes.Buffer
	require.NoError(t, NewCSVCodec().Export(g, &buf))
	assert.Equal(t, "id,Color\nx,\"1,2,3\"\n", buf.String())
}

func TestDOTCodec_Parse(t *testing.T) {
	src := `digraph demo {
	a [label="Alpha", Color="255,0,0"];
	b [Color="#00ff00", shape=box];
	a -> b -> c;
	subgraph cluster_x { d [Color="0,0,255"]; }
}`
	g, err := NewDOTCodec().Parse(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, "demo", g.Name)
	assert.True(t, g.Directed)
	assert.Equal(t, []string{"label", "Color", "shape"}, columnNames(g))
	assert.Equal(t, []string{"a", "b", "c", "d"}, g.IterateNodes())
	assert.Equal(t, "Alpha", g.Nodes[0].Label)
	assert.Equal(t, domain.StringValue("255,0,0"), valueOf(t, g, "a", "Color"))
	assert.Equal(t, domain.StringValue("#00ff00"), valueOf(t, g, "b", "Color"))

	require.Len(t, g.Edges, 2)
	assert.Equal(t, "b", g.Edges[1].FromID)
	assert.Equal(t, "c", g.Edges[1].ToID)
}

func TestDOTCodec_ParseError(t *testing.T) {
	_, err := NewDOTCodec().Parse(strings.NewReader("digraph {"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse DOT")
}

func TestDOTCodec_ExportFillsColoredNodes(t *testing.T) {
	g := domain.NewGraph("", "demo")
	g.AddNode(domain.NewNode("a", "Alpha"))
	g.AddNode(domain.NewNode("b", ""))
	g.AddEdge(*domain.NewEdge("a", "b", false))
	require.NoError(t, g.WriteColor("a", domain.NewRGB255(255, 0, 0)))

	c := NewDOTCodec()
	var buf bytes.Buffer
	require.NoError(t, c.Export(g, &buf))
	out := buf.String()
	assert.Contains(t, out, `fillcolor="#ff0000"`)
	assert.Contains(t, out, "style=filled")

	again, err := c.Parse(strings.NewReader(out))
	require.NoError(t, err)
	assert.False(t, again.Directed)
	assert.Len(t, again.Nodes, 2)
	assert.Equal(t, domain.StringValue("#ff0000"), valueOf(t, again, "a", "color"))
}
