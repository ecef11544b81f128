package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// AttributeColumn is a named field in a node table
type AttributeColumn struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Title string `json:"title,omitempty"` // Display name, defaults to Name
}

// DisplayName returns the column title used in user-facing messages
func (c AttributeColumn) DisplayName() string {
	if c.Title != "" {
		return c.Title
	}
	return c.Name
}

// NodeTable is the ordered node attribute schema of a graph
type NodeTable struct {
	Columns []AttributeColumn `json:"columns"`
}

// AddColumn appends a column and returns it. If a column with the same name
// already exists it is returned unchanged.
func (t *NodeTable) AddColumn(name string) AttributeColumn {
	if col, ok := t.Column(name); ok {
		return col
	}
	col := AttributeColumn{
		Index: t.nextIndex(),
		Name:  name,
	}
	t.Columns = append(t.Columns, col)
	return col
}

// Column finds a column by exact name
func (t *NodeTable) Column(name string) (AttributeColumn, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return AttributeColumn{}, false
}

// ColumnByIndex finds a column by its index
func (t *NodeTable) ColumnByIndex(index int) (AttributeColumn, bool) {
	for _, c := range t.Columns {
		if c.Index == index {
			return c, true
		}
	}
	return AttributeColumn{}, false
}

// nextIndex returns one past the highest index in use
func (t *NodeTable) nextIndex() int {
	next := 0
	for _, c := range t.Columns {
		if c.Index >= next {
			next = c.Index + 1
		}
	}
	return next
}

// ValueKind tags the shape of a raw attribute value
type ValueKind int

const (
	KindAbsent ValueKind = iota
	KindString
	KindNumber
	KindOther // bool, list, map: present but neither string nor number
)

func (k ValueKind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	default:
		return "other"
	}
}

// AttributeValue is a raw node attribute value with its shape made explicit
type AttributeValue struct {
	Kind ValueKind
	Str  string
	Num  float64
	Raw  any
}

// StringValue wraps a string attribute value
func StringValue(s string) AttributeValue {
	return AttributeValue{Kind: KindString, Str: s, Raw: s}
}

// NumberValue wraps a numeric attribute value
func NumberValue(f float64) AttributeValue {
	return AttributeValue{Kind: KindNumber, Num: f, Raw: f}
}

// Absent is the value of an attribute a node does not carry
func Absent() AttributeValue {
	return AttributeValue{Kind: KindAbsent}
}

// ValueOf converts an untyped stored value into an AttributeValue
func ValueOf(v any) AttributeValue {
	switch val := v.(type) {
	case nil:
		return Absent()
	case string:
		return StringValue(val)
	case float64:
		return NumberValue(val)
	case float32:
		return NumberValue(float64(val))
	case int:
		return NumberValue(float64(val))
	case int64:
		return NumberValue(float64(val))
	case int32:
		return NumberValue(float64(val))
	case uint:
		return NumberValue(float64(val))
	case uint64:
		return NumberValue(float64(val))
	case uint32:
		return NumberValue(float64(val))
	case uint8:
		return NumberValue(float64(val))
	case json.Number:
		f, err := strconv.ParseFloat(string(val), 64)
		if err != nil {
			return AttributeValue{Kind: KindOther, Raw: val}
		}
		return NumberValue(f)
	default:
		return AttributeValue{Kind: KindOther, Raw: val}
	}
}

// IsAbsent reports whether the node carries no value
func (v AttributeValue) IsAbsent() bool {
	return v.Kind == KindAbsent
}

// String renders the raw value for messages. Absent values render empty.
func (v AttributeValue) String() string {
	switch v.Kind {
	case KindAbsent:
		return ""
	case KindString:
		return v.Str
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	default:
		return fmt.Sprint(v.Raw)
	}
}
