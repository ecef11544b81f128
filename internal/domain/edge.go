package domain

import (
	"crypto/sha256"
	"fmt"
)

// Edge represents a connection between two nodes
type Edge struct {
	ID         string         `json:"id"`
	FromID     string         `json:"from_id"`
	ToID       string         `json:"to_id"`
	Directed   bool           `json:"directed,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

// NewEdge creates a new edge
func NewEdge(fromID, toID string, directed bool) *Edge {
	edge := &Edge{
		FromID:     fromID,
		ToID:       toID,
		Directed:   directed,
		Properties: make(map[string]any),
	}
	edge.ID = edge.GenerateID()
	return edge
}

// GenerateID creates a deterministic ID for the edge based on endpoints
func (e *Edge) GenerateID() string {
	from, to := e.FromID, e.ToID
	if !e.Directed && from > to {
		from, to = to, from
	}

	key := fmt.Sprintf("%s-%s-%t", from, to, e.Directed)
	hash := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%x", hash[:8])
}

// SetProperty sets a property value
func (e *Edge) SetProperty(key string, value any) {
	if e.Properties == nil {
		e.Properties = make(map[string]any)
	}
	e.Properties[key] = value
}

// GetProperty gets a property value
func (e *Edge) GetProperty(key string) (any, bool) {
	if e.Properties == nil {
		return nil, false
	}
	val, ok := e.Properties[key]
	return val, ok
}
