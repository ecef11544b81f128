package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"nodecolor/internal/domain"

	_ "modernc.org/sqlite"
)

// Repository implements repository.Repository using SQLite
type Repository struct {
	db *sql.DB
}

// New creates a new SQLite repository
func New(dbPath string) (*Repository, error) {
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if dbPath != ":memory:" {
		dsn += "&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time; also keeps an in-memory database on one connection
	db.SetMaxOpenConns(1)

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS graphs (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		directed INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS graph_columns (
		graph_id TEXT NOT NULL,
		idx INTEGER NOT NULL,
		name TEXT NOT NULL,
		title TEXT,
		PRIMARY KEY (graph_id, idx),
		FOREIGN KEY (graph_id) REFERENCES graphs(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS nodes (
		graph_id TEXT NOT NULL,
		id TEXT NOT NULL,
		position INTEGER NOT NULL,
		label TEXT NOT NULL DEFAULT '',
		attrs JSON,
		color_r REAL,
		color_g REAL,
		color_b REAL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		PRIMARY KEY (graph_id, id),
		FOREIGN KEY (graph_id) REFERENCES graphs(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS edges (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		graph_id TEXT NOT NULL,
		id TEXT NOT NULL,
		from_id TEXT NOT NULL,
		to_id TEXT NOT NULL,
		directed INTEGER NOT NULL DEFAULT 0,
		properties JSON,
		FOREIGN KEY (graph_id) REFERENCES graphs(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_nodes_position ON nodes(graph_id, position);
	CREATE INDEX IF NOT EXISTS idx_edges_graph ON edges(graph_id);
	`

	_, err := r.db.Exec(schema)
	return err
}

// SaveGraph inserts a graph, replacing any stored graph with the same ID
func (r *Repository) SaveGraph(ctx context.Context, g *domain.Graph) error {
	if g.ID == "" {
		return fmt.Errorf("graph has no ID")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Cascades to columns, nodes and edges
	if _, err := tx.ExecContext(ctx, `DELETE FROM graphs WHERE id = ?`, g.ID); err != nil {
		return fmt.Errorf("failed to clear graph %s: %w", g.ID, err)
	}

	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}
	g.UpdatedAt = time.Now()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO graphs (id, name, directed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, g.ID, g.Name, boolToInt(g.Directed), g.CreatedAt, g.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert graph: %w", err)
	}

	colStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO graph_columns (graph_id, idx, name, title) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare column statement: %w", err)
	}
	defer colStmt.Close()

	for _, col := range g.Table.Columns {
		if _, err := colStmt.ExecContext(ctx, g.ID, col.Index, col.Name, stringToNull(col.Title)); err != nil {
			return fmt.Errorf("failed to insert column %s: %w", col.Name, err)
		}
	}

	nodeStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO nodes (`+nodeColumns+`, graph_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare node statement: %w", err)
	}
	defer nodeStmt.Close()

	for i, node := range g.Nodes {
		args, err := nodeInsertArgs(node, i)
		if err != nil {
			return fmt.Errorf("node %s: %w", node.ID, err)
		}
		if _, err := nodeStmt.ExecContext(ctx, append(args, g.ID)...); err != nil {
			return fmt.Errorf("failed to insert node %s: %w", node.ID, err)
		}
	}

	edgeStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO edges (`+edgeColumns+`, graph_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare edge statement: %w", err)
	}
	defer edgeStmt.Close()

	for i := range g.Edges {
		args, err := edgeInsertArgs(&g.Edges[i])
		if err != nil {
			return fmt.Errorf("edge %s: %w", g.Edges[i].ID, err)
		}
		if _, err := edgeStmt.ExecContext(ctx, append(args, g.ID)...); err != nil {
			return fmt.Errorf("failed to insert edge %s: %w", g.Edges[i].ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetGraph loads a complete graph
func (r *Repository) GetGraph(ctx context.Context, id string) (*domain.Graph, error) {
	var (
		name      string
		directed  int
		createdAt time.Time
		updatedAt time.Time
	)

	err := r.db.QueryRowContext(ctx, `
		SELECT name, directed, created_at, updated_at FROM graphs WHERE id = ?
	`, id).Scan(&name, &directed, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query graph: %w", err)
	}

	g := domain.NewGraph(id, name)
	g.Directed = directed != 0
	g.CreatedAt = createdAt
	g.UpdatedAt = updatedAt

	if err := r.loadColumns(ctx, g); err != nil {
		return nil, err
	}
	if err := r.loadNodes(ctx, g); err != nil {
		return nil, err
	}
	if err := r.loadEdges(ctx, g); err != nil {
		return nil, err
	}

	return g, nil
}

func (r *Repository) loadColumns(ctx context.Context, g *domain.Graph) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT idx, name, title FROM graph_columns WHERE graph_id = ? ORDER BY idx
	`, g.ID)
	if err != nil {
		return fmt.Errorf("failed to query columns: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			col   domain.AttributeColumn
			title sql.NullString
		)
		if err := rows.Scan(&col.Index, &col.Name, &title); err != nil {
			return fmt.Errorf("failed to scan column: %w", err)
		}
		col.Title = nullToString(title)
		g.Table.Columns = append(g.Table.Columns, col)
	}

	return rows.Err()
}

func (r *Repository) loadNodes(ctx context.Context, g *domain.Graph) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+nodeColumns+` FROM nodes WHERE graph_id = ? ORDER BY position
	`, g.ID)
	if err != nil {
		return fmt.Errorf("failed to query nodes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var row nodeRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return fmt.Errorf("failed to scan node: %w", err)
		}
		node, err := row.toDomain()
		if err != nil {
			return fmt.Errorf("node %s: %w", row.ID, err)
		}
		g.AddNode(node)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating nodes: %w", err)
	}
	return nil
}

func (r *Repository) loadEdges(ctx context.Context, g *domain.Graph) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+edgeColumns+` FROM edges WHERE graph_id = ? ORDER BY seq
	`, g.ID)
	if err != nil {
		return fmt.Errorf("failed to query edges: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var row edgeRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return fmt.Errorf("failed to scan edge: %w", err)
		}
		edge, err := row.toDomain()
		if err != nil {
			return fmt.Errorf("edge %s: %w", row.ID, err)
		}
		g.AddEdge(*edge)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating edges: %w", err)
	}
	return nil
}

// ListGraphs returns a summary of every stored graph, newest first
func (r *Repository) ListGraphs(ctx context.Context) ([]domain.GraphSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT g.id, g.name, g.directed, g.created_at, g.updated_at,
			(SELECT COUNT(*) FROM nodes n WHERE n.graph_id = g.id),
			(SELECT COUNT(*) FROM edges e WHERE e.graph_id = g.id),
			(SELECT COUNT(*) FROM nodes n WHERE n.graph_id = g.id AND n.color_r IS NOT NULL)
		FROM graphs g
		ORDER BY g.created_at DESC, g.id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query graphs: %w", err)
	}
	defer rows.Close()

	summaries := make([]domain.GraphSummary, 0)
	for rows.Next() {
		var (
			s        domain.GraphSummary
			directed int
		)
		if err := rows.Scan(&s.ID, &s.Name, &directed, &s.CreatedAt, &s.UpdatedAt,
			&s.NodeCount, &s.EdgeCount, &s.ColoredCount); err != nil {
			return nil, fmt.Errorf("failed to scan graph summary: %w", err)
		}
		s.Directed = directed != 0
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating graphs: %w", err)
	}
	return summaries, nil
}

// DeleteGraph removes a graph with its columns, nodes and edges
func (r *Repository) DeleteGraph(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM graphs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete graph: %w", err)
	}
	return nil
}

// SaveColors replaces the computed colors of a graph in one transaction.
// Nodes absent from colors end up uncolored.
func (r *Repository) SaveColors(ctx context.Context, graphID string, colors map[string]domain.RGB) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	if _, err := tx.ExecContext(ctx, `
		UPDATE nodes SET color_r = NULL, color_g = NULL, color_b = NULL, updated_at = ?
		WHERE graph_id = ? AND color_r IS NOT NULL
	`, now, graphID); err != nil {
		return fmt.Errorf("failed to reset colors: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		UPDATE nodes SET color_r = ?, color_g = ?, color_b = ?, updated_at = ?
		WHERE graph_id = ? AND id = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for nodeID, c := range colors {
		res, err := stmt.ExecContext(ctx, c.R, c.G, c.B, now, graphID, nodeID)
		if err != nil {
			return fmt.Errorf("failed to update color for %s: %w", nodeID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("node %s not found in graph %s", nodeID, graphID)
		}
	}

	if err := touchGraph(ctx, tx, graphID, now); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ClearColors removes every computed color of a graph
func (r *Repository) ClearColors(ctx context.Context, graphID string) error {
	return r.SaveColors(ctx, graphID, nil)
}

func touchGraph(ctx context.Context, tx *sql.Tx, graphID string, now time.Time) error {
	res, err := tx.ExecContext(ctx, `UPDATE graphs SET updated_at = ? WHERE id = ?`, now, graphID)
	if err != nil {
		return fmt.Errorf("failed to touch graph: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("graph %s not found", graphID)
	}
	return nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}
