// Package index loads records into an in-memory SQLite database so they can
// be filtered and sorted with SQL. The CSV file stays the source of truth;
// an Index is built per search and thrown away.
package index

import (
	"database/sql"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/csvmgr/pkg/types"
)

const tableName = "records"

// Index is a read-only SQL view over one snapshot of the records.
type Index struct {
	db     *sql.DB
	schema types.Schema
}

// Build creates an in-memory database for schema and loads records into it.
// Loading is transactional: on failure the database is closed and nothing is
// returned.
func Build(schema types.Schema, records []types.Record) (*Index, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening index database: %w", err)
	}
	// Each connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	ix := &Index{db: db, schema: schema}
	if err := ix.createTable(); err != nil {
		db.Close()
		return nil, err
	}
	if err := ix.load(records); err != nil {
		db.Close()
		return nil, err
	}
	return ix, nil
}

// Close releases the database.
func (ix *Index) Close() error {
	return ix.db.Close()
}

func (ix *Index) createTable() error {
	cols := []string{"id INTEGER PRIMARY KEY", "pos INTEGER NOT NULL"}
	for _, f := range ix.schema.Fields() {
		cols = append(cols, quoteIdent(f)+" TEXT NOT NULL")
	}
	stmt := fmt.Sprintf("CREATE TABLE %s (%s)", tableName, strings.Join(cols, ", "))
	if _, err := ix.db.Exec(stmt); err != nil {
		return fmt.Errorf("creating index table: %w", err)
	}
	return nil
}

func (ix *Index) load(records []types.Record) error {
	tx, err := ix.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	fields := ix.schema.Fields()
	columns := []string{"id", "pos"}
	placeholders := []string{"?", "?"}
	for _, f := range fields {
		columns = append(columns, quoteIdent(f))
		placeholders = append(placeholders, "?")
	}
	insertSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		tableName,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)

	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for pos, r := range records {
		args := make([]any, 0, len(fields)+2)
		args = append(args, r.ID, pos)
		for _, f := range fields {
			args = append(args, r.Values[f])
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("inserting record %d: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

// Find returns the ids of records matching q, in the requested order.
// Unknown field names in q yield types.ErrValidation.
func (ix *Index) Find(q types.Query) ([]int, error) {
	var (
		conds []string
		args  []any
	)
	for _, field := range slices.Sorted(maps.Keys(q.Where)) {
		value := q.Where[field]
		cond, arg, err := ix.condition(field, value, q.Contains)
		if err != nil {
			return nil, err
		}
		conds = append(conds, cond)
		args = append(args, arg)
	}

	dir := ""
	if q.Desc {
		dir = " DESC"
	}
	order := "pos" + dir
	if q.SortBy != "" {
		col, err := ix.column(q.SortBy)
		if err != nil {
			return nil, err
		}
		order = col + dir + ", " + order
	}

	query := "SELECT id FROM " + tableName
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY " + order

	rows, err := ix.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating results: %w", err)
	}
	return ids, nil
}

func (ix *Index) condition(field, value string, contains bool) (string, any, error) {
	col, err := ix.column(field)
	if err != nil {
		return "", nil, err
	}
	if field == types.FieldID && !contains {
		id, err := strconv.Atoi(value)
		if err != nil {
			return "", nil, fmt.Errorf("%w: id filter %q is not an integer", types.ErrValidation, value)
		}
		return "id = ?", id, nil
	}
	if contains {
		return fmt.Sprintf("instr(lower(CAST(%s AS TEXT)), lower(?)) > 0", col), value, nil
	}
	return col + " = ?", value, nil
}

// column maps a field name to its quoted SQL column.
func (ix *Index) column(field string) (string, error) {
	if field == types.FieldID {
		return "id", nil
	}
	if !ix.schema.Has(field) {
		return "", fmt.Errorf("%w: unknown field %q", types.ErrValidation, field)
	}
	return quoteIdent(field), nil
}

// quoteIdent quotes a field name for use as an SQLite identifier. Field names
// come from configuration and may contain spaces.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
