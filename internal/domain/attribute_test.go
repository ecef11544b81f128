package domain

import (
	"encoding/json"
	"testing"
)

func TestNodeTableAddColumn(t *testing.T) {
	var table NodeTable
	id := table.AddColumn("id")
	color := table.AddColumn("Color")
	again := table.AddColumn("Color")

	if id.Index != 0 || color.Index != 1 {
		t.Errorf("expected sequential indexes 0,1 got %d,%d", id.Index, color.Index)
	}
	if again.Index != color.Index {
		t.Error("expected duplicate name to return existing column")
	}
	if len(table.Columns) != 2 {
		t.Errorf("expected 2 columns, got %d", len(table.Columns))
	}

	if _, ok := table.ColumnByIndex(1); !ok {
		t.Error("expected to find column by index")
	}
	if _, ok := table.Column("nope"); ok {
		t.Error("expected unknown column lookup to fail")
	}
}

func TestAttributeColumnDisplayName(t *testing.T) {
	if got := (AttributeColumn{Name: "color"}).DisplayName(); got != "color" {
		t.Errorf("expected fallback to name, got %s", got)
	}
	if got := (AttributeColumn{Name: "color", Title: "Node Color"}).DisplayName(); got != "Node Color" {
		t.Errorf("expected title, got %s", got)
	}
}

func TestValueOf(t *testing.T) {
	tests := []struct {
		name string
		in   any
		kind ValueKind
		str  string
	}{
		{"nil", nil, KindAbsent, ""},
		{"string", "#ffffff", KindString, "#ffffff"},
		{"int", 12, KindNumber, "12"},
		{"float", 0.5, KindNumber, "0.5"},
		{"json number", json.Number("7"), KindNumber, "7"},
		{"bool", true, KindOther, "true"},
		{"list", []any{1, 2}, KindOther, "[1 2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ValueOf(tt.in)
			if v.Kind != tt.kind {
				t.Errorf("ValueOf(%v).Kind = %s, want %s", tt.in, v.Kind, tt.kind)
			}
			if v.String() != tt.str {
				t.Errorf("ValueOf(%v).String() = %q, want %q", tt.in, v.String(), tt.str)
			}
		})
	}
}
