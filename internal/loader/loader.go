// Package loader seeds the graph store from files on disk.
//
// Each file is stored under an ID derived from its absolute path, so loading
// the same file again replaces the stored graph instead of adding a copy.
package loader

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"nodecolor/internal/codec"
	"nodecolor/internal/domain"

	"go.uber.org/zap"
)

// Importer stores a parsed graph under a fixed ID
type Importer interface {
	ImportAs(ctx context.Context, id, format, name string, r io.Reader) (*domain.GraphSummary, error)
}

// Loader imports graph files into the store
type Loader struct {
	importer Importer
	logger   *zap.Logger
}

// New creates a loader
func New(importer Importer, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{importer: importer, logger: logger}
}

// GraphID returns the stable store ID for a file path
func GraphID(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	hash := sha256.Sum256([]byte(abs))
	return fmt.Sprintf("file-%x", hash[:8])
}

// LoadFile imports one file. The format follows the extension and the graph
// is named after the file when the document carries no name.
func (l *Loader) LoadFile(ctx context.Context, path string) (*domain.GraphSummary, error) {
	format := codec.FormatFromPath(path)
	if format == "" {
		return nil, fmt.Errorf("cannot infer format of %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	summary, err := l.importer.ImportAs(ctx, GraphID(path), format, "", f)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	l.logger.Info("graph file loaded",
		zap.String("path", path),
		zap.String("graph_id", summary.ID),
		zap.Int("nodes", summary.NodeCount))
	return summary, nil
}

// LoadFiles imports every path, stopping at the first failure
func (l *Loader) LoadFiles(ctx context.Context, paths []string) ([]domain.GraphSummary, error) {
	summaries := make([]domain.GraphSummary, 0, len(paths))
	for _, p := range paths {
		s, err := l.LoadFile(ctx, p)
		if err != nil {
			return summaries, err
		}
		summaries = append(summaries, *s)
	}
	return summaries, nil
}

// Expand resolves a comma-separated list of files and directories. Directories
// contribute every file with a known graph extension, in lexical order.
func Expand(list string) ([]string, error) {
	var paths []string
	for _, entry := range strings.Split(list, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		info, err := os.Stat(entry)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, entry)
			continue
		}

		entries, err := os.ReadDir(entry)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() || codec.FormatFromPath(e.Name()) == "" {
				continue
			}
			paths = append(paths, filepath.Join(entry, e.Name()))
		}
	}
	return paths, nil
}
