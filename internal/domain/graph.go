package domain

import (
	"fmt"
	"time"
)

// Graph is a node collection with its attribute table
type Graph struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Directed  bool      `json:"directed,omitempty"`
	Table     NodeTable `json:"table"`
	Nodes     []*Node   `json:"nodes"`
	Edges     []Edge    `json:"edges"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	byID map[string]*Node
}

// NewGraph creates an empty graph with initialized collections
func NewGraph(id, name string) *Graph {
	now := time.Now()
	return &Graph{
		ID:        id,
		Name:      name,
		Nodes:     make([]*Node, 0),
		Edges:     make([]Edge, 0),
		CreatedAt: now,
		UpdatedAt: now,
		byID:      make(map[string]*Node),
	}
}

// AddNode appends a node. A node with an ID already present replaces the
// existing one in place, keeping its position in iteration order.
func (g *Graph) AddNode(node *Node) {
	g.index()
	if existing, ok := g.byID[node.ID]; ok {
		for i, n := range g.Nodes {
			if n == existing {
				g.Nodes[i] = node
				break
			}
		}
	} else {
		g.Nodes = append(g.Nodes, node)
	}
	g.byID[node.ID] = node
}

// AddEdge adds an edge to the graph
func (g *Graph) AddEdge(edge Edge) {
	g.Edges = append(g.Edges, edge)
}

// Node looks up a node by ID
func (g *Graph) Node(id string) (*Node, bool) {
	g.index()
	n, ok := g.byID[id]
	return n, ok
}

// index rebuilds the ID lookup when the graph was decoded or built by hand
func (g *Graph) index() {
	if g.byID != nil && len(g.byID) == len(g.Nodes) {
		return
	}
	g.byID = make(map[string]*Node, len(g.Nodes))
	for _, n := range g.Nodes {
		g.byID[n.ID] = n
	}
}

// LookupColumns returns the node table schema in native column order
func (g *Graph) LookupColumns() []AttributeColumn {
	cols := make([]AttributeColumn, len(g.Table.Columns))
	copy(cols, g.Table.Columns)
	return cols
}

// IterateNodes returns the IDs of every node in graph order
func (g *Graph) IterateNodes() []string {
	ids := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		ids = append(ids, n.ID)
	}
	return ids
}

// ReadAttribute returns a node's value at a column index
func (g *Graph) ReadAttribute(nodeID string, index int) AttributeValue {
	n, ok := g.Node(nodeID)
	if !ok {
		return Absent()
	}
	return n.Value(index)
}

// WriteColor sets a node's render color
func (g *Graph) WriteColor(nodeID string, c RGB) error {
	if !c.Valid() {
		return fmt.Errorf("color %+v out of range", c)
	}
	n, ok := g.Node(nodeID)
	if !ok {
		return fmt.Errorf("node %s not found", nodeID)
	}
	n.SetColor(c)
	return nil
}

// ClearColors removes every computed render color
func (g *Graph) ClearColors() {
	for _, n := range g.Nodes {
		n.ClearColor()
	}
}

// Colors returns the computed colors keyed by node ID
func (g *Graph) Colors() map[string]RGB {
	colors := make(map[string]RGB)
	for _, n := range g.Nodes {
		if n.Color != nil {
			colors[n.ID] = *n.Color
		}
	}
	return colors
}

// View is the derived graph shape handed to the rendering layer
type View struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Nodes []ViewNode `json:"nodes"`
	Edges []ViewEdge `json:"edges"`
}

// ViewNode is a node as drawn
type ViewNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Color string `json:"color,omitempty"` // "#rrggbb", empty when uncolored
	Title string `json:"title"`           // Tooltip content
}

// ViewEdge is an edge as drawn
type ViewEdge struct {
	ID     string `json:"id"`
	From   string `json:"from"`
	To     string `json:"to"`
	Arrows string `json:"arrows,omitempty"`
}

// DeriveView converts a Graph to its render view
func DeriveView(g *Graph) *View {
	view := &View{
		ID:    g.ID,
		Name:  g.Name,
		Nodes: make([]ViewNode, 0, len(g.Nodes)),
		Edges: make([]ViewEdge, 0, len(g.Edges)),
	}

	for _, n := range g.Nodes {
		label := n.Label
		if label == "" {
			label = n.ID
		}
		vn := ViewNode{
			ID:    n.ID,
			Label: label,
			Title: buildTooltip(g, n),
		}
		if n.Color != nil {
			vn.Color = n.Color.Hex()
		}
		view.Nodes = append(view.Nodes, vn)
	}

	for _, e := range g.Edges {
		ve := ViewEdge{
			ID:   e.ID,
			From: e.FromID,
			To:   e.ToID,
		}
		if e.Directed || g.Directed {
			ve.Arrows = "to"
		}
		view.Edges = append(view.Edges, ve)
	}

	return view
}

func buildTooltip(g *Graph, n *Node) string {
	tooltip := n.ID
	for _, col := range g.Table.Columns {
		v := n.Value(col.Index)
		if v.IsAbsent() {
			continue
		}
		tooltip += fmt.Sprintf("\n%s: %s", col.DisplayName(), v.String())
	}
	return tooltip
}

// GraphSummary is the listing form of a stored graph
type GraphSummary struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Directed     bool      `json:"directed,omitempty"`
	NodeCount    int       `json:"node_count"`
	EdgeCount    int       `json:"edge_count"`
	ColoredCount int       `json:"colored_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Summary returns the listing form of the graph
func (g *Graph) Summary() GraphSummary {
	colored := 0
	for _, n := range g.Nodes {
		if n.IsColored() {
			colored++
		}
	}
	return GraphSummary{
		ID:           g.ID,
		Name:         g.Name,
		Directed:     g.Directed,
		NodeCount:    len(g.Nodes),
		EdgeCount:    len(g.Edges),
		ColoredCount: colored,
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}
}
