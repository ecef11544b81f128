package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"nodecolor/internal/domain"

	"gopkg.in/yaml.v3"
)

// wireGraph is the document shape shared by the YAML and JSON codecs
type wireGraph struct {
	Name         string            `yaml:"name,omitempty" json:"name,omitempty"`
	Directed     bool              `yaml:"directed,omitempty" json:"directed,omitempty"`
	Columns      []string          `yaml:"columns,omitempty" json:"columns,omitempty"`
	ColumnTitles map[string]string `yaml:"column_titles,omitempty" json:"column_titles,omitempty"`
	Nodes        []wireNode        `yaml:"nodes" json:"nodes"`
	Edges        []wireEdge        `yaml:"edges,omitempty" json:"edges,omitempty"`
}

type wireNode struct {
	ID         string     `yaml:"id" json:"id"`
	Label      string     `yaml:"label,omitempty" json:"label,omitempty"`
	Attributes attrList   `yaml:"attributes,omitempty" json:"attributes,omitempty"`
	Color      *wireColor `yaml:"color,omitempty" json:"color,omitempty"`
}

// wireColor carries a computed render color
type wireColor struct {
	Hex string  `yaml:"hex" json:"hex"`
	R   float64 `yaml:"r" json:"r"`
	G   float64 `yaml:"g" json:"g"`
	B   float64 `yaml:"b" json:"b"`
}

type wireEdge struct {
	ID         string         `yaml:"id,omitempty" json:"id,omitempty"`
	From       string         `yaml:"from" json:"from"`
	To         string         `yaml:"to" json:"to"`
	Directed   bool           `yaml:"directed,omitempty" json:"directed,omitempty"`
	Properties map[string]any `yaml:"properties,omitempty" json:"properties,omitempty"`
}

type attr struct {
	Key   string
	Value any
}

// attrList is an attribute mapping that keeps document key order
type attrList []attr

// UnmarshalYAML implements yaml.Unmarshaler
func (l *attrList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: attributes must be a mapping", node.Line)
	}
	out := make(attrList, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var key string
		if err := node.Content[i].Decode(&key); err != nil {
			return fmt.Errorf("line %d: attribute key: %w", node.Content[i].Line, err)
		}
		var value any
		if err := node.Content[i+1].Decode(&value); err != nil {
			return fmt.Errorf("line %d: attribute %s: %w", node.Content[i+1].Line, key, err)
		}
		out = append(out, attr{Key: key, Value: value})
	}
	*l = out
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (l attrList) MarshalYAML() (interface{}, error) {
	m := &yaml.Node{Kind: yaml.MappingNode}
	for _, a := range l {
		var v yaml.Node
		if err := v.Encode(a.Value); err != nil {
			return nil, fmt.Errorf("attribute %s: %w", a.Key, err)
		}
		m.Content = append(m.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: a.Key},
			&v,
		)
	}
	return m, nil
}

// UnmarshalJSON implements json.Unmarshaler
func (l *attrList) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("attributes must be an object")
	}

	var out attrList
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected attribute key %v", tok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("attribute %s: %w", key, err)
		}
		out = append(out, attr{Key: key, Value: plainNumber(value)})
	}
	*l = out
	return nil
}

// MarshalJSON implements json.Marshaler
func (l attrList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, a := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(a.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(a.Value)
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", a.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// plainNumber turns a top-level json.Number into int64 or float64 so values
// re-encode the same way in every format
func plainNumber(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

// toGraph builds a domain graph. Columns come from the explicit list first,
// then from attribute keys in order of first appearance.
func (w *wireGraph) toGraph() (*domain.Graph, error) {
	g := domain.NewGraph("", w.Name)
	g.Directed = w.Directed

	for _, name := range w.Columns {
		g.Table.AddColumn(name)
	}

	for i, wn := range w.Nodes {
		if wn.ID == "" {
			return nil, fmt.Errorf("node %d: missing id", i)
		}
		if _, dup := g.Node(wn.ID); dup {
			return nil, fmt.Errorf("node %d: duplicate id %q", i, wn.ID)
		}

		node := domain.NewNode(wn.ID, wn.Label)
		for _, a := range wn.Attributes {
			col := g.Table.AddColumn(a.Key)
			if a.Value != nil {
				node.SetValue(col.Index, a.Value)
			}
		}
		if wn.Color != nil {
			c := domain.RGB{R: wn.Color.R, G: wn.Color.G, B: wn.Color.B}
			if !c.Valid() {
				return nil, fmt.Errorf("node %s: computed color out of range", wn.ID)
			}
			node.SetColor(c)
		}
		g.AddNode(node)
	}

	applyTitles(&g.Table, w.ColumnTitles)

	for i, we := range w.Edges {
		if we.From == "" || we.To == "" {
			return nil, fmt.Errorf("edge %d: missing endpoint", i)
		}
		edge := domain.NewEdge(we.From, we.To, we.Directed || w.Directed)
		if we.ID != "" {
			edge.ID = we.ID
		}
		for k, v := range we.Properties {
			edge.SetProperty(k, v)
		}
		g.AddEdge(*edge)
	}

	return g, nil
}

// fromGraph flattens a domain graph into the document shape
func fromGraph(g *domain.Graph) *wireGraph {
	w := &wireGraph{
		Name:     g.Name,
		Directed: g.Directed,
		Nodes:    make([]wireNode, 0, len(g.Nodes)),
	}

	for _, col := range g.Table.Columns {
		w.Columns = append(w.Columns, col.Name)
		if col.Title != "" {
			if w.ColumnTitles == nil {
				w.ColumnTitles = make(map[string]string)
			}
			w.ColumnTitles[col.Name] = col.Title
		}
	}

	for _, n := range g.Nodes {
		wn := wireNode{ID: n.ID, Label: n.Label}
		for _, col := range g.Table.Columns {
			if raw, ok := n.Values[col.Index]; ok {
				wn.Attributes = append(wn.Attributes, attr{Key: col.Name, Value: raw})
			}
		}
		if n.Color != nil {
			wn.Color = &wireColor{Hex: n.Color.Hex(), R: n.Color.R, G: n.Color.G, B: n.Color.B}
		}
		w.Nodes = append(w.Nodes, wn)
	}

	for _, e := range g.Edges {
		w.Edges = append(w.Edges, wireEdge{
			ID:         e.ID,
			From:       e.FromID,
			To:         e.ToID,
			Directed:   e.Directed && !g.Directed,
			Properties: e.Properties,
		})
	}

	return w
}

func applyTitles(t *domain.NodeTable, titles map[string]string) {
	for i := range t.Columns {
		if title, ok := titles[t.Columns[i].Name]; ok {
			t.Columns[i].Title = title
		}
	}
}
