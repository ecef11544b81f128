package repository

import (
	"context"

	"nodecolor/internal/domain"
)

// Repository defines the interface for graph data access.
// Lookups of a missing graph return nil without error.
type Repository interface {
	// Read operations
	GetGraph(ctx context.Context, id string) (*domain.Graph, error)
	ListGraphs(ctx context.Context) ([]domain.GraphSummary, error)

	// Write operations
	SaveGraph(ctx context.Context, g *domain.Graph) error
	DeleteGraph(ctx context.Context, id string) error

	// Color persistence. SaveColors replaces the whole color set of a graph.
	SaveColors(ctx context.Context, graphID string, colors map[string]domain.RGB) error
	ClearColors(ctx context.Context, graphID string) error

	// Close releases resources
	Close() error
}
