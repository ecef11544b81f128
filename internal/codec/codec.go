// Package codec converts graphs between files and domain.Graph.
//
// Every format preserves the native column order of the node table, since the
// color column is the first one whose name matches.
package codec

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"nodecolor/internal/domain"
)

// Importer interface for importing graph data from various formats
type Importer interface {
	Parse(r io.Reader) (*domain.Graph, error)
	Format() string
}

// Exporter interface for exporting graph data to various formats
type Exporter interface {
	Export(g *domain.Graph, w io.Writer) error
	Format() string
}

// Codec both imports and exports one format
type Codec interface {
	Importer
	Exporter
}

var registry = map[string]func() Codec{
	"yaml": func() Codec { return NewYAMLCodec() },
	"json": func() Codec { return NewJSONCodec() },
	"csv":  func() Codec { return NewCSVCodec() },
	"dot":  func() Codec { return NewDOTCodec() },
}

// New returns the codec for a format name
func New(format string) (Codec, error) {
	ctor, ok := registry[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("unsupported format %q (supported: %s)",
			format, strings.Join(Formats(), ", "))
	}
	return ctor(), nil
}

// Formats lists the supported format names
func Formats() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FormatFromPath infers a format from a file extension, empty if unknown
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	case ".csv":
		return "csv"
	case ".dot", ".gv":
		return "dot"
	default:
		return ""
	}
}

// ContentType returns the MIME type for a format
func ContentType(format string) string {
	switch format {
	case "json":
		return "application/json"
	case "yaml":
		return "application/x-yaml"
	case "csv":
		return "text/csv"
	case "dot":
		return "text/vnd.graphviz"
	default:
		return "application/octet-stream"
	}
}
