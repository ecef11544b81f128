package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"nodecolor/internal/domain"
)

// JSONCodec handles JSON import/export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Parse imports a graph from JSON. Attribute key order is kept.
func (c *JSONCodec) Parse(r io.Reader) (*domain.Graph, error) {
	var wg wireGraph
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&wg); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	g, err := wg.toGraph()
	if err != nil {
		return nil, fmt.Errorf("invalid JSON graph: %w", err)
	}
	return g, nil
}

// Export exports a graph to JSON
func (c *JSONCodec) Export(g *domain.Graph, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(fromGraph(g)); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
