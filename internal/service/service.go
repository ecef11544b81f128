package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"nodecolor/internal/codec"
	"nodecolor/internal/colorize"
	"nodecolor/internal/domain"
	"nodecolor/internal/metrics"
	"nodecolor/internal/repository"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned for operations on a graph that is not stored
	ErrNotFound = errors.New("graph not found")
	// ErrInvalidInput wraps unsupported formats and unparseable documents
	ErrInvalidInput = errors.New("invalid input")
)

// ColorService provides business logic for stored graphs and colorize runs
type ColorService struct {
	repo     repository.Repository
	eventBus *EventBus
	logger   *zap.Logger
	metrics  *metrics.Metrics
	defaults []colorize.Option

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewColorService creates a new color service. defaults configure every
// colorize run and may be overridden per call.
func NewColorService(repo repository.Repository, eventBus *EventBus, logger *zap.Logger, defaults ...colorize.Option) *ColorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ColorService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
		defaults: defaults,
		locks:    make(map[string]*sync.Mutex),
	}
}

// WithMetrics attaches prometheus instrumentation
func (s *ColorService) WithMetrics(m *metrics.Metrics) *ColorService {
	s.metrics = m
	return s
}

// lock serializes work on one graph
func (s *ColorService) lock(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Import parses a graph in the given format and stores it under a new ID.
// A non-empty name overrides the one in the document.
func (s *ColorService) Import(ctx context.Context, format, name string, r io.Reader) (*domain.GraphSummary, error) {
	return s.ImportAs(ctx, ulid.Make().String(), format, name, r)
}

// ImportAs parses a graph and stores it under id, replacing any graph already
// stored there.
func (s *ColorService) ImportAs(ctx context.Context, id, format, name string, r io.Reader) (*domain.GraphSummary, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: graph ID is required", ErrInvalidInput)
	}
	defer s.lock(id)()

	c, err := codec.New(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	g, err := c.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	g.ID = id
	if name != "" {
		g.Name = name
	}
	if g.Name == "" {
		g.Name = g.ID
	}

	if err := s.repo.SaveGraph(ctx, g); err != nil {
		return nil, fmt.Errorf("failed to store graph: %w", err)
	}

	summary := g.Summary()
	s.metrics.ObserveImport(c.Format())
	s.logger.Info("graph imported",
		zap.String("graph_id", g.ID),
		zap.String("format", c.Format()),
		zap.Int("nodes", summary.NodeCount),
		zap.Int("columns", len(g.Table.Columns)))

	s.eventBus.Publish(Event{
		Type:    EventGraphImported,
		GraphID: g.ID,
		Payload: summary,
	})

	return &summary, nil
}

// Export writes a stored graph in the given format
func (s *ColorService) Export(ctx context.Context, id, format string, w io.Writer) error {
	c, err := codec.New(format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	g, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	return c.Export(g, w)
}

// List returns a summary of every stored graph
func (s *ColorService) List(ctx context.Context) ([]domain.GraphSummary, error) {
	return s.repo.ListGraphs(ctx)
}

// Get loads a stored graph
func (s *ColorService) Get(ctx context.Context, id string) (*domain.Graph, error) {
	g, err := s.repo.GetGraph(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return g, nil
}

// View returns the render view of a stored graph
func (s *ColorService) View(ctx context.Context, id string) (*domain.View, error) {
	g, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return domain.DeriveView(g), nil
}

// Delete removes a stored graph
func (s *ColorService) Delete(ctx context.Context, id string) error {
	unlock := s.lock(id)
	defer unlock()

	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteGraph(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.locks, id)
	s.mu.Unlock()

	s.logger.Info("graph deleted", zap.String("graph_id", id))
	s.eventBus.Publish(Event{Type: EventGraphDeleted, GraphID: id})
	return nil
}

// Colorize runs the colorizer against a stored graph and persists the
// resulting colors. A report whose Err is set changed nothing.
func (s *ColorService) Colorize(ctx context.Context, id string, opts ...colorize.Option) (*colorize.Report, error) {
	start := time.Now()
	unlock := s.lock(id)
	defer unlock()

	g, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	logger := s.logger.With(zap.String("graph_id", id))
	runOpts := make([]colorize.Option, 0, len(s.defaults)+len(opts)+1)
	runOpts = append(runOpts, colorize.WithLogger(logger))
	runOpts = append(runOpts, s.defaults...)
	runOpts = append(runOpts, opts...)

	report := colorize.New(runOpts...).Run(g)
	if report.Err != nil {
		s.metrics.ObserveRun(report, time.Since(start))
		return report, nil
	}

	if report.Colored > 0 {
		if err := s.repo.SaveColors(ctx, id, g.Colors()); err != nil {
			return nil, fmt.Errorf("failed to store colors: %w", err)
		}
	}

	s.metrics.ObserveRun(report, time.Since(start))
	s.eventBus.Publish(Event{
		Type:    EventGraphColored,
		GraphID: id,
		Payload: report,
	})

	return report, nil
}

// ClearColors removes every computed color from a stored graph
func (s *ColorService) ClearColors(ctx context.Context, id string) error {
	unlock := s.lock(id)
	defer unlock()

	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.ClearColors(ctx, id); err != nil {
		return err
	}

	s.logger.Info("colors cleared", zap.String("graph_id", id))
	s.eventBus.Publish(Event{Type: EventColorsCleared, GraphID: id})
	return nil
}
