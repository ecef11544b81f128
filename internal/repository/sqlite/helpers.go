package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"nodecolor/internal/domain"
)

// ============================================================================
// Null Type Conversion Helpers
// ============================================================================

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// stringToNull safely converts string to sql.NullString
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// floatPtrToNull converts an optional channel to sql.NullFloat64
func floatPtrToNull(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// ============================================================================
// JSON Marshaling Helpers
// ============================================================================

// unmarshalJSONField safely unmarshals JSON from nullable string into target
func unmarshalJSONField(ns sql.NullString, target interface{}) error {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(ns.String), target)
}

// marshalToNull marshals interface to nullable JSON string
// Returns empty NullString for nil or empty maps
func marshalToNull(v interface{}) (sql.NullString, error) {
	switch m := v.(type) {
	case nil:
		return sql.NullString{}, nil
	case map[string]any:
		if len(m) == 0 {
			return sql.NullString{}, nil
		}
	case map[int]any:
		if len(m) == 0 {
			return sql.NullString{}, nil
		}
	}

	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// ============================================================================
// Schema Evolution Guide
// ============================================================================
//
// To add a new column to nodes table:
// 1. Add field to nodeRow struct (below)
// 2. Update scanArgs() - APPEND to end to match column order
// 3. Update nodeColumns constant - APPEND to end
// 4. Update toDomain() to map new field to domain.Node
// 5. Update nodeInsertArgs() and the VALUES placeholder count in SaveGraph
// 6. Add the column to migrate() in sqlite.go
// 7. Update relevant tests
//
// CRITICAL: Column order must match between:
// - nodeColumns constant
// - scanArgs() return slice
// - nodeInsertArgs() return slice
//
// Same pattern applies to edges.

// ============================================================================
// Node Row Scanner
// ============================================================================

// nodeRow holds all columns from a node query for scanning
type nodeRow struct {
	ID        string
	Position  int
	Label     string
	AttrsJSON sql.NullString
	ColorR    sql.NullFloat64
	ColorG    sql.NullFloat64
	ColorB    sql.NullFloat64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// scanArgs returns pointers to all fields for sql.Scan()
// MUST match nodeColumns order exactly:
// id, position, label, attrs, color_r, color_g, color_b, created_at, updated_at
func (r *nodeRow) scanArgs() []interface{} {
	return []interface{}{
		&r.ID,        // 1
		&r.Position,  // 2
		&r.Label,     // 3
		&r.AttrsJSON, // 4
		&r.ColorR,    // 5
		&r.ColorG,    // 6
		&r.ColorB,    // 7
		&r.CreatedAt, // 8
		&r.UpdatedAt, // 9
	}
}

// toDomain converts the scanned row to a domain.Node
func (r *nodeRow) toDomain() (*domain.Node, error) {
	node := &domain.Node{
		ID:        r.ID,
		Label:     r.Label,
		Values:    make(map[int]any),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}

	if err := unmarshalJSONField(r.AttrsJSON, &node.Values); err != nil {
		return nil, fmt.Errorf("unmarshal attributes: %w", err)
	}

	// A color is stored whole or not at all
	if r.ColorR.Valid && r.ColorG.Valid && r.ColorB.Valid {
		node.Color = &domain.RGB{R: r.ColorR.Float64, G: r.ColorG.Float64, B: r.ColorB.Float64}
	}

	return node, nil
}

// nodeColumns returns the SELECT column list for node queries
const nodeColumns = `id, position, label, attrs, color_r, color_g, color_b, created_at, updated_at`

// ============================================================================
// Edge Row Scanner
// ============================================================================

// edgeRow holds all columns from an edge query for scanning
type edgeRow struct {
	ID             string
	FromID         string
	ToID           string
	Directed       int
	PropertiesJSON sql.NullString
}

// scanArgs returns pointers to all fields for sql.Scan()
// MUST match edgeColumns order exactly:
// id, from_id, to_id, directed, properties
func (r *edgeRow) scanArgs() []interface{} {
	return []interface{}{
		&r.ID,             // 1
		&r.FromID,         // 2
		&r.ToID,           // 3
		&r.Directed,       // 4
		&r.PropertiesJSON, // 5
	}
}

// toDomain converts the scanned row to a domain.Edge
func (r *edgeRow) toDomain() (*domain.Edge, error) {
	edge := &domain.Edge{
		ID:       r.ID,
		FromID:   r.FromID,
		ToID:     r.ToID,
		Directed: r.Directed != 0,
	}

	if err := unmarshalJSONField(r.PropertiesJSON, &edge.Properties); err != nil {
		return nil, fmt.Errorf("unmarshal properties: %w", err)
	}

	return edge, nil
}

// edgeColumns returns the SELECT column list for edge queries
const edgeColumns = `id, from_id, to_id, directed, properties`

// ============================================================================
// Write Helpers
// ============================================================================

// nodeInsertArgs prepares arguments for node INSERT
// Returns: id, position, label, attrs, color_r, color_g, color_b, created_at, updated_at
func nodeInsertArgs(node *domain.Node, position int) ([]interface{}, error) {
	attrsJSON, err := marshalToNull(node.Values)
	if err != nil {
		return nil, fmt.Errorf("marshal attributes: %w", err)
	}

	var r, g, b *float64
	if node.Color != nil {
		r, g, b = &node.Color.R, &node.Color.G, &node.Color.B
	}

	createdAt, updatedAt := node.CreatedAt, node.UpdatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	return []interface{}{
		node.ID,
		position,
		node.Label,
		attrsJSON,
		floatPtrToNull(r),
		floatPtrToNull(g),
		floatPtrToNull(b),
		createdAt,
		updatedAt,
	}, nil
}

// edgeInsertArgs prepares arguments for edge INSERT
// Returns: id, from_id, to_id, directed, properties
func edgeInsertArgs(edge *domain.Edge) ([]interface{}, error) {
	propsJSON, err := marshalToNull(edge.Properties)
	if err != nil {
		return nil, fmt.Errorf("marshal properties: %w", err)
	}

	return []interface{}{
		edge.ID,
		edge.FromID,
		edge.ToID,
		boolToInt(edge.Directed),
		propsJSON,
	}, nil
}
