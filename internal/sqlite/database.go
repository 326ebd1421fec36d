// Package sqlite implements the parameterized query engine for the cellar
// storage core on top of an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/cellar/pkg/types"
)

// InsertFailed is returned by Insert when no row was created.
const InsertFailed int64 = -1

// executor is satisfied by both *sql.DB and *sql.Tx, so every statement
// builder works identically inside and outside a transaction.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Database owns one connection to the embedded store and builds parameterized
// statements from variable column sets. All operations funnel through the
// same connection and are serialized by the storage engine itself; the engine
// adds no locking of its own.
type Database struct {
	db   *sql.DB
	exec executor
}

// Loader owns schema creation and upgrades. The version marker is stored in
// the engine's own metadata (PRAGMA user_version), not in a normal table.
type Loader interface {
	// TargetVersion is the schema version this loader produces.
	TargetVersion() int

	// Create builds the full schema on a fresh database.
	Create(ctx context.Context, db *Database) error

	// Upgrade migrates the schema from oldVersion to TargetVersion.
	Upgrade(ctx context.Context, db *Database, oldVersion int) error
}

// Open opens (creating if needed) the database under cfg.DataDir and runs the
// loader's create or upgrade callback when the stored version marker is
// absent or stale.
func Open(ctx context.Context, cfg types.Config, loader Loader) (*Database, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	path := filepath.Join(cfg.DataDir, cfg.File())
	dsn := "file:" + path +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	d := &Database{db: db}
	d.exec = db

	if err := d.ensureSchema(ctx, loader); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// ensureSchema invokes the loader callbacks based on the stored version
// marker and advances the marker afterwards.
func (d *Database) ensureSchema(ctx context.Context, loader Loader) error {
	current, err := d.Version(ctx)
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	target := loader.TargetVersion()

	switch {
	case current == 0:
		if err := loader.Create(ctx, d); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	case current < target:
		if err := loader.Upgrade(ctx, d, current); err != nil {
			return fmt.Errorf("upgrading schema from %d: %w", current, err)
		}
	case current > target:
		return types.ErrInvalidVersion
	default:
		return nil
	}
	return d.SetVersion(ctx, target)
}

// Close releases the connection. Close is idempotent.
func (d *Database) Close() error {
	if d.db == nil {
		return nil
	}
	err := d.db.Close()
	d.db = nil
	d.exec = nil
	return err
}

// Query describes one SELECT statement. An empty Where matches all rows;
// empty Columns selects *.
type Query struct {
	Table   string
	Columns []string
	Where   string
	Args    []any
	OrderBy string
	Limit   int
}

// Select builds and executes the query and materializes every result row as
// a Record containing all selected columns with their native types.
func (d *Database) Select(ctx context.Context, q Query) ([]types.Record, error) {
	if d.exec == nil {
		return nil, types.ErrNotAttached
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	if len(q.Columns) == 0 {
		sb.WriteString("*")
	} else {
		sb.WriteString(strings.Join(q.Columns, ", "))
	}
	sb.WriteString(" FROM ")
	sb.WriteString(q.Table)
	if q.Where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(q.Where)
	}
	if q.OrderBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(q.OrderBy)
	}
	if q.Limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(q.Limit))
	}

	rows, err := d.exec.QueryContext(ctx, sb.String(), q.Args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", q.Table, err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns for %s: %w", q.Table, err)
	}

	var records []types.Record
	for rows.Next() {
		values := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", q.Table, err)
		}
		rec := make(types.Record, len(names))
		for i, name := range names {
			if b, ok := values[i].([]byte); ok {
				// Text affinity can surface as []byte; store it as string
				// so typed accessors and re-binding behave uniformly.
				rec[name] = string(b)
				continue
			}
			rec[name] = values[i]
		}
		records = append(records, rec)
	}
	if records == nil {
		records = []types.Record{}
	}
	return records, rows.Err()
}

// Insert builds INSERT INTO table (cols...) VALUES (?...) from the record's
// column set and returns the newly assigned row id, or InsertFailed when no
// row was created.
func (d *Database) Insert(ctx context.Context, table string, values types.Record) (int64, error) {
	if d.exec == nil {
		return InsertFailed, types.ErrNotAttached
	}
	cols := values.Columns()
	if len(cols) == 0 {
		return InsertFailed, fmt.Errorf("inserting into %s: no columns", table)
	}

	placeholders := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, col := range cols {
		placeholders[i] = "?"
		args[i] = values[col]
	}

	stmt := "INSERT INTO " + table +
		" (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(placeholders, ", ") + ")"
	res, err := d.exec.ExecContext(ctx, stmt, args...)
	if err != nil {
		return InsertFailed, fmt.Errorf("inserting into %s: %w", table, err)
	}

	affected, err := res.RowsAffected()
	if err != nil || affected == 0 {
		return InsertFailed, nil
	}
	id, err := res.LastInsertId()
	if err != nil {
		return InsertFailed, nil
	}
	return id, nil
}

// Update builds UPDATE table SET col = ?... WHERE filter and returns the
// affected row count.
func (d *Database) Update(ctx context.Context, table string, values types.Record, where string, args ...any) (int64, error) {
	if d.exec == nil {
		return 0, types.ErrNotAttached
	}
	cols := values.Columns()
	if len(cols) == 0 {
		return 0, fmt.Errorf("updating %s: no columns", table)
	}

	sets := make([]string, len(cols))
	bind := make([]any, 0, len(cols)+len(args))
	for i, col := range cols {
		sets[i] = col + " = ?"
		bind = append(bind, values[col])
	}
	bind = append(bind, args...)

	stmt := "UPDATE " + table + " SET " + strings.Join(sets, ", ")
	if where != "" {
		stmt += " WHERE " + where
	}
	res, err := d.exec.ExecContext(ctx, stmt, bind...)
	if err != nil {
		return 0, fmt.Errorf("updating %s: %w", table, err)
	}
	return res.RowsAffected()
}

// Delete builds DELETE FROM table WHERE filter and returns the affected row
// count. An empty filter deletes every row.
func (d *Database) Delete(ctx context.Context, table, where string, args ...any) (int64, error) {
	if d.exec == nil {
		return 0, types.ErrNotAttached
	}
	stmt := "DELETE FROM " + table
	if where != "" {
		stmt += " WHERE " + where
	}
	res, err := d.exec.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting from %s: %w", table, err)
	}
	return res.RowsAffected()
}

// Exec runs a raw statement. Used by schema loaders for DDL.
func (d *Database) Exec(ctx context.Context, stmt string, args ...any) error {
	if d.exec == nil {
		return types.ErrNotAttached
	}
	if _, err := d.exec.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("executing statement: %w", err)
	}
	return nil
}

// Version reads the schema version marker (PRAGMA user_version).
func (d *Database) Version(ctx context.Context) (int, error) {
	if d.exec == nil {
		return 0, types.ErrNotAttached
	}
	var v int
	rows, err := d.exec.QueryContext(ctx, "PRAGMA user_version")
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&v); err != nil {
			return 0, err
		}
	}
	return v, rows.Err()
}

// SetVersion stores the schema version marker.
func (d *Database) SetVersion(ctx context.Context, v int) error {
	if d.exec == nil {
		return types.ErrNotAttached
	}
	_, err := d.exec.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", v))
	return err
}

// InTx runs fn against a transaction-scoped Database. The transaction commits
// when fn returns nil and rolls back otherwise. Calling InTx on an already
// transaction-scoped Database runs fn in the enclosing transaction.
func (d *Database) InTx(ctx context.Context, fn func(tx *Database) error) error {
	if d.exec == nil {
		return types.ErrNotAttached
	}
	if _, nested := d.exec.(*sql.Tx); nested {
		return fn(d)
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	scoped := &Database{db: d.db, exec: tx}
	if err := fn(scoped); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
