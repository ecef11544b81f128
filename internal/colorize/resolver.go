package colorize

import (
	"strings"

	"nodecolor/internal/domain"
)

// DefaultKeyword is the substring that marks a column as the color column
const DefaultKeyword = "color"

// ResolveColorColumn returns the first column whose name contains "color",
// ignoring case. The second return is false when no column qualifies.
func ResolveColorColumn(columns []domain.AttributeColumn) (domain.AttributeColumn, bool) {
	return ResolveColumn(columns, DefaultKeyword)
}

// ResolveColumn returns the first column, in the given order, whose lower-cased
// name contains the lower-cased keyword.
func ResolveColumn(columns []domain.AttributeColumn, keyword string) (domain.AttributeColumn, bool) {
	keyword = strings.ToLower(keyword)
	if keyword == "" {
		return domain.AttributeColumn{}, false
	}
	for _, c := range columns {
		if strings.Contains(strings.ToLower(c.Name), keyword) {
			return c, true
		}
	}
	return domain.AttributeColumn{}, false
}
