package domain

import "time"

// Node represents a vertex in the graph
type Node struct {
	ID        string      `json:"id"`
	Label     string      `json:"label"`
	Values    map[int]any `json:"values,omitempty"` // Raw attribute values keyed by column index
	Color     *RGB        `json:"color,omitempty"`  // Computed render color, nil until colored
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// NewNode creates a new node with initialized attribute storage
func NewNode(id, label string) *Node {
	now := time.Now()
	return &Node{
		ID:        id,
		Label:     label,
		Values:    make(map[int]any),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetValue stores a raw attribute value at a column index
func (n *Node) SetValue(index int, value any) {
	if n.Values == nil {
		n.Values = make(map[int]any)
	}
	n.Values[index] = value
}

// Value reads the attribute at a column index in tagged form
func (n *Node) Value(index int) AttributeValue {
	if n.Values == nil {
		return Absent()
	}
	raw, ok := n.Values[index]
	if !ok {
		return Absent()
	}
	return ValueOf(raw)
}

// SetColor replaces the render color
func (n *Node) SetColor(c RGB) {
	n.Color = &c
	n.UpdatedAt = time.Now()
}

// ClearColor removes the render color
func (n *Node) ClearColor() {
	n.Color = nil
	n.UpdatedAt = time.Now()
}

// IsColored reports whether a render color has been assigned
func (n *Node) IsColored() bool {
	return n.Color != nil
}
