package codec

import (
	"fmt"
	"io"

	"nodecolor/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles generic YAML import/export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Parse imports a graph from YAML. Hex colors must be quoted, otherwise YAML
// reads them as comments.
func (c *YAMLCodec) Parse(r io.Reader) (*domain.Graph, error) {
	var wg wireGraph
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&wg); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("failed to parse YAML: empty document")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	g, err := wg.toGraph()
	if err != nil {
		return nil, fmt.Errorf("invalid YAML graph: %w", err)
	}
	return g, nil
}

// Export exports a graph to YAML
func (c *YAMLCodec) Export(g *domain.Graph, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(fromGraph(g)); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return encoder.Close()
}
