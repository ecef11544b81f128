package colorize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nodecolor/internal/domain"
)

func columns(names ...string) []domain.AttributeColumn {
	cols := make([]domain.AttributeColumn, len(names))
	for i, n := range names {
		cols[i] = domain.AttributeColumn{Index: i, Name: n}
	}
	return cols
}

func TestResolveColorColumn(t *testing.T) {
	tests := []struct {
		name    string
		columns []domain.AttributeColumn
		want    string
		found   bool
	}{
		{"first match in table order", columns("id", "label", "Color", "nodeColorHex"), "Color", true},
		{"case-insensitive substring", columns("id", "NODE_COLOUR", "FillColorRGB"), "FillColorRGB", true},
		{"no match", columns("id", "label", "weight"), "", false},
		{"empty table", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, ok := ResolveColorColumn(tt.columns)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, col.Name)
		})
	}
}

func TestResolveColumnKeyword(t *testing.T) {
	cols := columns("id", "Colour", "color")

	col, ok := ResolveColumn(cols, "COLOUR")
	assert.True(t, ok)
	assert.Equal(t, 1, col.Index)

	_, ok = ResolveColumn(cols, "")
	assert.False(t, ok, "empty keyword must not match every column")
}
