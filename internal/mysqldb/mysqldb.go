// Package mysqldb inspects and alters a live MySQL database.
package mysqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/go-sql-driver/mysql"

	"dbsetup/internal/schema"
)

// validIdentifier matches table names that are safe to interpolate.
var validIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ErrInvalidIdentifier is returned for table names that cannot be quoted safely.
var ErrInvalidIdentifier = errors.New("invalid SQL identifier")

// Open connects with cfg and verifies the connection. The pool is capped
// at a single connection.
func Open(ctx context.Context, cfg *mysql.Config) (*sql.DB, error) {
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("create connector: %w", err)
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to %s/%s: %w", cfg.Addr, cfg.DBName, err)
	}
	return db, nil
}

// WithTx runs fn inside a transaction, committing on success and rolling
// back on error.
func WithTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ============================================================================
// MYSQL CATALOG
// ============================================================================

// Catalog reads live table structure with SHOW TABLES and DESCRIBE.
type Catalog struct {
	db *sql.DB
}

// NewCatalog returns a Catalog over db.
func NewCatalog(db *sql.DB) *Catalog {
	return &Catalog{db: db}
}

// Tables returns the set of tables in the connected database.
func (c *Catalog) Tables(ctx context.Context) (map[string]bool, error) {
	rows, err := c.db.QueryContext(ctx, "SHOW TABLES")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables[name] = true
	}
	return tables, rows.Err()
}

// Columns describes table. Types are uppercased; comments are not
// available through DESCRIBE.
func (c *Catalog) Columns(ctx context.Context, table string) (*schema.Table, error) {
	if !validIdentifier.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidIdentifier, table)
	}
	rows, err := c.db.QueryContext(ctx, "DESCRIBE `"+table+"`")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	t := schema.NewTable(table)
	for rows.Next() {
		var field, colType, null string
		var key, defaultVal, extra sql.NullString
		if err := rows.Scan(&field, &colType, &null, &key, &defaultVal, &extra); err != nil {
			return nil, err
		}

		col := &schema.Column{
			Name:     field,
			Type:     strings.ToUpper(colType),
			Nullable: null == "YES",
		}
		if defaultVal.Valid {
			col.Default = &defaultVal.String
		}
		t.Add(col)
	}
	return t, rows.Err()
}

// ============================================================================
// STATEMENT EXECUTOR
// ============================================================================

// Executor runs each statement in its own transaction.
type Executor struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewExecutor returns an Executor over db.
func NewExecutor(db *sql.DB, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{db: db, logger: logger}
}

// Exec executes stmt and commits it. A failed statement is rolled back.
func (e *Executor) Exec(ctx context.Context, stmt string) error {
	err := WithTx(ctx, e.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, stmt)
		return err
	})
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		e.logger.Debug("mysql rejected statement", "number", myErr.Number, "message", myErr.Message)
	}
	return err
}
