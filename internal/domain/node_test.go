package domain

import (
	"testing"
)

func TestNewNode(t *testing.T) {
	t.Run("creates node with defaults", func(t *testing.T) {
		node := NewNode("test-id", "Test Node")

		if node.ID != "test-id" {
			t.Errorf("expected ID 'test-id', got %s", node.ID)
		}
		if node.Label != "Test Node" {
			t.Errorf("expected label 'Test Node', got %s", node.Label)
		}
		if node.Values == nil {
			t.Error("expected Values to be initialized")
		}
		if node.IsColored() {
			t.Error("expected new node to be uncolored")
		}
		if node.CreatedAt.IsZero() {
			t.Error("expected CreatedAt to be set")
		}
	})
}

func TestNodeValue(t *testing.T) {
	node := NewNode("n1", "N1")

	t.Run("missing index is absent", func(t *testing.T) {
		if v := node.Value(3); !v.IsAbsent() {
			t.Errorf("expected absent, got %v", v.Kind)
		}
	})

	t.Run("string value", func(t *testing.T) {
		node.SetValue(0, "#ff0080")
		v := node.Value(0)
		if v.Kind != KindString || v.Str != "#ff0080" {
			t.Errorf("expected string #ff0080, got %v %q", v.Kind, v.Str)
		}
	})

	t.Run("nil storage is absent", func(t *testing.T) {
		bare := &Node{ID: "bare"}
		if v := bare.Value(0); !v.IsAbsent() {
			t.Error("expected absent for nil Values")
		}
		bare.SetValue(1, 42)
		if v := bare.Value(1); v.Kind != KindNumber || v.Num != 42 {
			t.Errorf("expected number 42, got %v %v", v.Kind, v.Num)
		}
	})
}

func TestNodeColor(t *testing.T) {
	node := NewNode("n1", "N1")
	node.SetColor(RGB{R: 1, G: 0, B: 0.5})

	if !node.IsColored() {
		t.Fatal("expected node to be colored")
	}
	if node.Color.R != 1 || node.Color.B != 0.5 {
		t.Errorf("unexpected color %+v", *node.Color)
	}

	node.ClearColor()
	if node.IsColored() {
		t.Error("expected color to be cleared")
	}
}
