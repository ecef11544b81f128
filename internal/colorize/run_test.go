package colorize

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"nodecolor/internal/domain"
)

// newTestGraph builds a graph with columns id, label, Color and one node per
// raw value, named n0, n1, ...
func newTestGraph(t *testing.T, raws ...any) *domain.Graph {
	t.Helper()
	g := domain.NewGraph("g", "test")
	g.Table.AddColumn("id")
	g.Table.AddColumn("label")
	col := g.Table.AddColumn("Color")
	for i, raw := range raws {
		n := domain.NewNode(fmt.Sprintf("n%d", i), "")
		if raw != nil {
			n.SetValue(col.Index, raw)
		}
		g.AddNode(n)
	}
	return g
}

func TestRunNoGraph(t *testing.T) {
	c := New(WithLogger(zaptest.NewLogger(t)))

	report := c.Run(nil)
	assert.False(t, report.Success)
	assert.ErrorIs(t, report.Err, ErrNoGraph)
	assert.Equal(t, "no project/graph available", report.Message)

	var typedNil *domain.Graph
	report = c.Run(typedNil)
	assert.ErrorIs(t, report.Err, ErrNoGraph)
}

func TestRunNoColorColumn(t *testing.T) {
	g := domain.NewGraph("g", "test")
	g.Table.AddColumn("id")
	g.Table.AddColumn("weight")
	n := domain.NewNode("a", "A")
	n.SetValue(1, "255,0,0")
	g.AddNode(n)

	report := New().Run(g)
	assert.False(t, report.Success)
	assert.ErrorIs(t, report.Err, ErrNoColorColumn)
	assert.Equal(t, "no color-like attribute column found", report.Message)
	assert.Zero(t, report.Processed)
	assert.False(t, n.IsColored(), "no node may be touched when resolution fails")
}

func TestRunColorsAllNodes(t *testing.T) {
	g := newTestGraph(t, "255,0,128", "#FF0080", "0,0,0")

	report := New(WithLogger(zaptest.NewLogger(t))).Run(g)
	require.True(t, report.Success, report.Messages())
	assert.Equal(t, "Color", report.Column)
	assert.Equal(t, 3, report.Processed)
	assert.Equal(t, 3, report.Colored)
	assert.Empty(t, report.Failures)

	colors := g.Colors()
	assert.Equal(t, colors["n0"], colors["n1"])
	assertRGB(t, domain.RGB{R: 1, B: 0.50196078}, colors["n0"])
	assertRGB(t, domain.RGB{}, colors["n2"])
}

func TestRunRejectsOutOfRange(t *testing.T) {
	g := newTestGraph(t, "300,0,0")

	report := New().Run(g)
	assert.False(t, report.Success)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, ReasonOutOfRange, report.Failures[0].Reason)
	assert.Equal(t, "300,0,0", report.Failures[0].Raw)
	node, _ := g.Node("n0")
	assert.False(t, node.IsColored(), "out-of-range values must not be clamped")
}

func TestRunReportsUnrecognizedFormat(t *testing.T) {
	g := newTestGraph(t, "red")

	report := New().Run(g)
	require.Len(t, report.Failures, 1)
	f := report.Failures[0]
	assert.Equal(t, ReasonUnrecognizedFormat, f.Reason)
	assert.Contains(t, f.Error(), `"red"`)
	assert.Contains(t, f.Error(), "Color", "message names the attribute")
}

func TestRunIsIdempotent(t *testing.T) {
	g := newTestGraph(t, "12,200,7")
	c := New()

	c.Run(g)
	first := g.Colors()["n0"]
	c.Run(g)
	second := g.Colors()["n0"]

	assert.Equal(t, first, second)
}

func TestRunBatchIndependence(t *testing.T) {
	const n = 5
	for pos := 0; pos < n; pos++ {
		t.Run(fmt.Sprintf("malformed at %d", pos), func(t *testing.T) {
			raws := make([]any, n)
			for i := range raws {
				raws[i] = "10,20,30"
			}
			raws[pos] = "not-a-color"
			g := newTestGraph(t, raws...)

			report := New().Run(g)
			assert.Equal(t, n, report.Processed)
			assert.Equal(t, n-1, report.Colored)
			require.Len(t, report.Failures, 1)
			assert.Equal(t, fmt.Sprintf("n%d", pos), report.Failures[0].NodeID)
			assert.Len(t, g.Colors(), n-1)
		})
	}
}

func TestRunAtomicPolicy(t *testing.T) {
	t.Run("one failure leaves every node untouched", func(t *testing.T) {
		g := newTestGraph(t, "10,20,30", "#zzzzzz", "#000000")

		report := New(WithPolicy(PolicyAtomic)).Run(g)
		assert.False(t, report.Success)
		assert.Equal(t, PolicyAtomic, report.Policy)
		assert.Zero(t, report.Colored)
		assert.Empty(t, g.Colors())
		assert.Contains(t, report.Message, "nothing applied")
	})

	t.Run("clean batch is fully applied", func(t *testing.T) {
		g := newTestGraph(t, "10,20,30", "#000000")

		report := New(WithPolicy(PolicyAtomic)).Run(g)
		assert.True(t, report.Success)
		assert.Equal(t, 2, report.Colored)
	})
}

func TestRunMissingAndNonStringValues(t *testing.T) {
	g := newTestGraph(t, nil, 42, true, "1,2,3")

	report := New().Run(g)
	require.Len(t, report.Failures, 3)
	assert.Equal(t, ReasonMissingValue, report.Failures[0].Reason)
	assert.ErrorIs(t, report.Failures[0], ErrMissingValue)
	assert.Equal(t, ReasonNotAString, report.Failures[1].Reason)
	assert.Equal(t, "42", report.Failures[1].Raw)
	assert.Equal(t, ReasonNotAString, report.Failures[2].Reason)
	assert.Equal(t, 1, report.Colored)
}

func TestRunCustomKeyword(t *testing.T) {
	g := domain.NewGraph("g", "test")
	g.Table.AddColumn("color_notes")
	col := g.Table.AddColumn("Farbe")
	n := domain.NewNode("a", "A")
	n.SetValue(col.Index, "#00ff00")
	g.AddNode(n)

	c := New(WithKeyword("farbe"))
	assert.Equal(t, "farbe", c.Keyword())

	report := c.Run(g)
	assert.True(t, report.Success)
	assert.Equal(t, "Farbe", report.Column)
}

func TestRunColumnTitleInMessages(t *testing.T) {
	g := newTestGraph(t, "bogus")
	g.Table.Columns[2].Title = "Node Colour"

	report := New().Run(g)
	assert.Equal(t, "Node Colour", report.Column)
	require.Len(t, report.Failures, 1)
	assert.Contains(t, report.Failures[0].Error(), "in Node Colour")
}

// failingView rejects every color write
type failingView struct {
	*domain.Graph
}

func (f failingView) WriteColor(string, domain.RGB) error {
	return errors.New("read-only graph")
}

func TestRunWriteFailure(t *testing.T) {
	g := newTestGraph(t, "1,2,3")

	report := New().Run(failingView{g})
	assert.False(t, report.Success)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, ReasonWriteFailed, report.Failures[0].Reason)
	assert.Equal(t, "1,2,3", report.Failures[0].Raw)
	assert.Zero(t, report.Colored)
}
