package codec

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"nodecolor/internal/domain"
)

// Reserved CSV headers carrying a computed render color
var csvColorHeaders = [3]string{"r", "g", "b"}

// CSVCodec handles node tables as CSV, one row per node. Every header becomes
// a column in file order; "id" is required and "label" fills the node label.
// Edges are not represented.
type CSVCodec struct {
	Comma rune
}

// NewCSVCodec creates a new comma separated codec
func NewCSVCodec() *CSVCodec {
	return &CSVCodec{Comma: ','}
}

// Format returns the codec format identifier
func (c *CSVCodec) Format() string {
	return "csv"
}

// Parse imports a node table. Empty cells are absent values.
func (c *CSVCodec) Parse(r io.Reader) (*domain.Graph, error) {
	reader := csv.NewReader(r)
	reader.Comma = c.Comma
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse CSV: missing header row")
		}
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	idCol, labelCol := -1, -1
	rgbCols := [3]int{-1, -1, -1}
	g := domain.NewGraph("", "")
	cols := make([]domain.AttributeColumn, len(header))

	for i, name := range header {
		name = strings.TrimSpace(name)
		switch lower := strings.ToLower(name); lower {
		case "id":
			idCol = i
		case "label":
			labelCol = i
		}
		if slot := rgbSlot(name); slot >= 0 {
			rgbCols[slot] = i
			continue
		}
		cols[i] = g.Table.AddColumn(name)
	}
	if idCol < 0 {
		return nil, fmt.Errorf("failed to parse CSV: no id column in header")
	}
	hasRGB := rgbCols[0] >= 0 && rgbCols[1] >= 0 && rgbCols[2] >= 0

	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV: %w", err)
		}

		id := record[idCol]
		if id == "" {
			return nil, fmt.Errorf("line %d: empty id", line)
		}
		if _, dup := g.Node(id); dup {
			return nil, fmt.Errorf("line %d: duplicate id %q", line, id)
		}
		label := ""
		if labelCol >= 0 {
			label = record[labelCol]
		}

		node := domain.NewNode(id, label)
		for i, cell := range record {
			if rgbSlot(header[i]) >= 0 || cell == "" {
				continue
			}
			node.SetValue(cols[i].Index, cell)
		}

		if hasRGB {
			c, ok, err := parseRGBCells(record, rgbCols)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			if ok {
				node.SetColor(c)
			}
		}

		g.AddNode(node)
	}

	return g, nil
}

// Export writes the node table, then the computed color channels if any node
// has been colored
func (c *CSVCodec) Export(g *domain.Graph, w io.Writer) error {
	writer := csv.NewWriter(w)
	writer.Comma = c.Comma

	columns := g.Table.Columns
	_, hasID := g.Table.Column("id")
	colored := len(g.Colors()) > 0

	header := make([]string, 0, len(columns)+4)
	if !hasID {
		header = append(header, "id")
	}
	for _, col := range columns {
		header = append(header, col.Name)
	}
	if colored {
		header = append(header, csvColorHeaders[:]...)
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, n := range g.Nodes {
		row := make([]string, 0, len(header))
		if !hasID {
			row = append(row, n.ID)
		}
		for _, col := range columns {
			switch {
			case col.Name == "id":
				row = append(row, n.ID)
			case strings.EqualFold(col.Name, "label") && n.Value(col.Index).IsAbsent():
				row = append(row, n.Label)
			default:
				row = append(row, n.Value(col.Index).String())
			}
		}
		if colored {
			if n.Color != nil {
				row = append(row,
					formatChannel(n.Color.R),
					formatChannel(n.Color.G),
					formatChannel(n.Color.B))
			} else {
				row = append(row, "", "", "")
			}
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", n.ID, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

func rgbSlot(name string) int {
	for i, h := range csvColorHeaders {
		if strings.TrimSpace(name) == h {
			return i
		}
	}
	return -1
}

func parseRGBCells(record []string, cols [3]int) (domain.RGB, bool, error) {
	var ch [3]float64
	empty := 0
	for i, col := range cols {
		cell := strings.TrimSpace(record[col])
		if cell == "" {
			empty++
			continue
		}
		f, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return domain.RGB{}, false, fmt.Errorf("color channel %s: %w", csvColorHeaders[i], err)
		}
		ch[i] = f
	}
	if empty == 3 {
		return domain.RGB{}, false, nil
	}
	if empty > 0 {
		return domain.RGB{}, false, fmt.Errorf("incomplete color channels")
	}
	c := domain.RGB{R: ch[0], G: ch[1], B: ch[2]}
	if !c.Valid() {
		return domain.RGB{}, false, fmt.Errorf("color channels out of range")
	}
	return c, true, nil
}

func formatChannel(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
