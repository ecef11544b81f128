package codec

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"nodecolor/internal/domain"

	"github.com/awalterschulze/gographviz"
	"github.com/awalterschulze/gographviz/ast"
)

// DOTCodec handles Graphviz DOT. Import reads node statement attributes as
// columns in order of first appearance. Export draws computed colors as filled
// nodes; attribute values are not written back.
type DOTCodec struct{}

// NewDOTCodec creates a new DOT codec
func NewDOTCodec() *DOTCodec {
	return &DOTCodec{}
}

// Format returns the codec format identifier
func (c *DOTCodec) Format() string {
	return "dot"
}

// Parse imports a graph from DOT source
func (c *DOTCodec) Parse(r io.Reader) (*domain.Graph, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read DOT: %w", err)
	}

	tree, err := gographviz.ParseString(string(src))
	if err != nil {
		return nil, fmt.Errorf("failed to parse DOT: %w", err)
	}

	g := domain.NewGraph("", unquote(tree.ID.String()))
	g.Directed = tree.Type == ast.DIGRAPH

	b := &dotBuilder{graph: g}
	b.walk(tree.StmtList)
	return g, nil
}

type dotBuilder struct {
	graph *domain.Graph
}

func (b *dotBuilder) walk(stmts ast.StmtList) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.NodeStmt:
			b.node(unquote(s.NodeID.ID.String()), s.Attrs)
		case *ast.EdgeStmt:
			b.edge(s)
		case *ast.SubGraph:
			b.walk(s.StmtList)
		}
	}
}

// node creates or updates a node. Repeated statements merge attributes.
func (b *dotBuilder) node(id string, attrs ast.AttrList) *domain.Node {
	n, ok := b.graph.Node(id)
	if !ok {
		n = domain.NewNode(id, "")
		b.graph.AddNode(n)
	}
	for _, alist := range attrs {
		for _, a := range alist {
			key := unquote(a.Field.String())
			value := unquote(a.Value.String())
			col := b.graph.Table.AddColumn(key)
			n.SetValue(col.Index, value)
			if key == "label" {
				n.Label = value
			}
		}
	}
	return n
}

func (b *dotBuilder) edge(s *ast.EdgeStmt) {
	from := b.endpoint(s.Source)
	for _, rh := range s.EdgeRHS {
		to := b.endpoint(rh.Destination)
		if from != "" && to != "" {
			e := domain.NewEdge(from, to, rh.Op == ast.DIRECTED)
			for _, alist := range s.Attrs {
				for _, a := range alist {
					e.SetProperty(unquote(a.Field.String()), unquote(a.Value.String()))
				}
			}
			b.graph.AddEdge(*e)
		}
		from = to
	}
}

// endpoint registers an edge endpoint. Subgraph endpoints are walked for their
// nodes but yield no edge.
func (b *dotBuilder) endpoint(loc ast.Location) string {
	switch l := loc.(type) {
	case *ast.NodeID:
		return b.node(unquote(l.ID.String()), nil).ID
	case *ast.SubGraph:
		b.walk(l.StmtList)
	}
	return ""
}

// Export renders the graph as DOT
func (c *DOTCodec) Export(g *domain.Graph, w io.Writer) error {
	out := gographviz.NewGraph()
	name := quote(g.Name)
	if g.Name == "" {
		name = "G"
	}
	if err := out.SetName(name); err != nil {
		return fmt.Errorf("failed to set DOT graph name: %w", err)
	}
	if err := out.SetDir(g.Directed); err != nil {
		return fmt.Errorf("failed to set DOT direction: %w", err)
	}

	for _, n := range g.Nodes {
		attrs := map[string]string{}
		if n.Label != "" {
			attrs["label"] = quote(n.Label)
		}
		if n.Color != nil {
			hex := quote(n.Color.Hex())
			attrs["style"] = "filled"
			attrs["fillcolor"] = hex
			attrs["color"] = hex
		}
		if err := out.AddNode(name, quote(n.ID), attrs); err != nil {
			return fmt.Errorf("failed to add DOT node %s: %w", n.ID, err)
		}
	}

	for _, e := range g.Edges {
		if err := out.AddEdge(quote(e.FromID), quote(e.ToID), g.Directed, nil); err != nil {
			return fmt.Errorf("failed to add DOT edge %s: %w", e.ID, err)
		}
	}

	if _, err := io.WriteString(w, out.String()); err != nil {
		return fmt.Errorf("failed to write DOT: %w", err)
	}
	return nil
}

func quote(s string) string {
	return strconv.Quote(s)
}

// unquote strips DOT string quoting, leaving bare IDs unchanged
func unquote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		if u, err := strconv.Unquote(s); err == nil {
			return u
		}
		return s[1 : len(s)-1]
	}
	return s
}
