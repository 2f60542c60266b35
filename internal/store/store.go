package store

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/arff/internal/arff"
	"github.com/roach88/arff/internal/value"
)

// Store provides durable SQLite storage for exported datasets.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// Export writes a dataset into a table named after its relation,
// replacing any previous export of the same relation. It returns the
// number of rows inserted.
func (s *Store) Export(ctx context.Context, d *arff.Dataset) (int64, error) {
	table := tableName(d.Schema.Relation)
	attrs := d.Schema.Attributes()
	if len(attrs) == 0 {
		return 0, fmt.Errorf("dataset %q has no attributes", d.Schema.Relation)
	}

	cols := make([]string, len(attrs))
	params := make([]string, len(attrs))
	for i, a := range attrs {
		cols[i] = quoteIdent(a.Name) + " " + columnAffinity(a.Kind)
		params[i] = "?"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin export: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(table)); err != nil {
		return 0, fmt.Errorf("drop previous export: %w", err)
	}
	create := "CREATE TABLE " + quoteIdent(table) + " (" + strings.Join(cols, ", ") + ")"
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return 0, fmt.Errorf("create table %s: %w", table, err)
	}

	insert := "INSERT INTO " + quoteIdent(table) + " VALUES (" + strings.Join(params, ", ") + ")"
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	var count int64
	for _, row := range d.Rows() {
		args := make([]any, len(attrs))
		for i, a := range attrs {
			args[i] = columnValue(d, row, a.Name)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return count, fmt.Errorf("insert row %d: %w", count+1, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return count, fmt.Errorf("commit export: %w", err)
	}
	return count, nil
}

// columnValue resolves one cell for insertion. Absent attributes and
// missing values both map to NULL. Integers bind natively; every
// other payload binds as its natural text so exact decimals survive
// the trip.
func columnValue(d *arff.Dataset, row arff.Row, name string) any {
	raw, ok := d.Field(row, name)
	if !ok {
		return nil
	}
	switch t := raw.(type) {
	case string:
		if t == value.Missing {
			return nil
		}
		return t
	case int64:
		return t
	default:
		return arff.ScalarText(raw)
	}
}

// columnAffinity maps an attribute kind to a SQLite column affinity.
func columnAffinity(k value.Kind) string {
	switch k {
	case value.KindInteger:
		return "INTEGER"
	case value.KindNumeric:
		return "NUMERIC"
	default:
		return "TEXT"
	}
}

var identCleaner = regexp.MustCompile(`[^a-zA-Z0-9_]+`)

// tableName derives a usable table name from a relation name.
func tableName(relation string) string {
	name := identCleaner.ReplaceAllString(relation, "_")
	name = strings.Trim(name, "_")
	if name == "" {
		return "dataset"
	}
	return name
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
