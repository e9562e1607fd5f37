package csvsql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

// openMemoryDB opens a fresh in-memory SQLite database used as the
// aggregation engine for the summary component.
func openMemoryDB() (*sql.DB, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	return db, nil
}

// loadTable creates a SQLite table matching t's inferred column types and
// inserts every record through a prepared statement. Empty fields are stored
// as NULL so COUNT and aggregate semantics mirror null-aware statistics.
// Rows are padded or truncated to the header width; SQLite requires the
// insert arity to match the column count.
func loadTable(ctx context.Context, db *sql.DB, t *table) error {
	columns := make([]string, 0, len(t.columnInfo))
	for _, col := range t.columnInfo {
		columns = append(columns, fmt.Sprintf(`"%s" %s`, col.Name, col.Type))
	}

	createQuery := fmt.Sprintf(
		`CREATE TABLE "%s" (%s)`,
		t.getName(),
		strings.Join(columns, ", "),
	)
	if _, err := db.ExecContext(ctx, createQuery); err != nil {
		return fmt.Errorf("failed to create table %s: %w", t.getName(), err)
	}

	placeholders := make([]string, len(t.getHeader()))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	insertQuery := fmt.Sprintf(
		`INSERT INTO "%s" VALUES (%s)`,
		t.getName(),
		strings.Join(placeholders, ", "),
	)

	stmt, err := db.PrepareContext(ctx, insertQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer func() {
		_ = stmt.Close() // Ignore close error during statement cleanup
	}()

	width := len(t.getHeader())
	for _, record := range t.getRecords() {
		values := make([]any, width)
		for i := range width {
			if i < len(record) && record[i] != "" {
				values[i] = record[i]
			}
		}
		if _, err := stmt.ExecContext(ctx, values...); err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}
	}
	return nil
}
