// Package dbtest provides a scripted database/sql driver for tests.
package dbtest

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

// DriverName is the name the fake driver registers under.
const DriverName = "dbtest"

var (
	registry sync.Map
	nextID   atomic.Int64
)

func init() {
	sql.Register(DriverName, fakeDriver{})
}

// Result is a canned query response.
type Result struct {
	Columns []string
	Rows    [][]driver.Value
}

// Exec records one executed statement.
type Exec struct {
	Query string
	Args  []driver.Value
}

// DB scripts query responses and records executed statements.
type DB struct {
	mu        sync.Mutex
	queries   map[string]Result
	execErrs  map[string]error
	execs     []Exec
	commits   int
	rollbacks int
}

// New returns an empty script.
func New() *DB {
	return &DB{queries: make(map[string]Result), execErrs: make(map[string]error)}
}

// OnQuery answers query with rows.
func (d *DB) OnQuery(query string, columns []string, rows ...[]driver.Value) *DB {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queries[normalize(query)] = Result{Columns: columns, Rows: rows}
	return d
}

// FailExec makes statements matching query fail with err.
func (d *DB) FailExec(query string, err error) *DB {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.execErrs[normalize(query)] = err
	return d
}

// Execs returns every statement executed so far, including failed ones.
func (d *DB) Execs() []Exec {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Exec(nil), d.execs...)
}

// Queries returns the executed statement texts.
func (d *DB) Queries() []string {
	var out []string
	for _, e := range d.Execs() {
		out = append(out, e.Query)
	}
	return out
}

// Commits returns the number of committed transactions.
func (d *DB) Commits() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.commits
}

// Rollbacks returns the number of rolled back transactions.
func (d *DB) Rollbacks() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rollbacks
}

// Open returns a *sql.DB backed by d, closed when the test ends.
func Open(tb testing.TB, d *DB) *sql.DB {
	tb.Helper()
	name := fmt.Sprintf("dbtest-%d", nextID.Add(1))
	registry.Store(name, d)
	db, err := sql.Open(DriverName, name)
	if err != nil {
		tb.Fatalf("open fake db: %v", err)
	}
	tb.Cleanup(func() {
		db.Close()
		registry.Delete(name)
	})
	return db
}

func normalize(query string) string {
	return strings.Join(strings.Fields(query), " ")
}

type fakeDriver struct{}

func (fakeDriver) Open(name string) (driver.Conn, error) {
	v, ok := registry.Load(name)
	if !ok {
		return nil, fmt.Errorf("dbtest: unknown database %q", name)
	}
	return &conn{db: v.(*DB)}, nil
}

type conn struct {
	db *DB
}

func (c *conn) Prepare(query string) (driver.Stmt, error) {
	return &stmt{db: c.db, query: normalize(query)}, nil
}

func (c *conn) Close() error { return nil }

func (c *conn) Begin() (driver.Tx, error) { return &tx{db: c.db}, nil }

type tx struct {
	db *DB
}

func (t *tx) Commit() error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	t.db.commits++
	return nil
}

func (t *tx) Rollback() error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	t.db.rollbacks++
	return nil
}

type stmt struct {
	db    *DB
	query string
}

func (s *stmt) Close() error  { return nil }
func (s *stmt) NumInput() int { return -1 }

func (s *stmt) Exec(args []driver.Value) (driver.Result, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.execs = append(s.db.execs, Exec{Query: s.query, Args: args})
	if err, ok := s.db.execErrs[s.query]; ok {
		return nil, err
	}
	return driver.RowsAffected(1), nil
}

func (s *stmt) Query(args []driver.Value) (driver.Rows, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	res, ok := s.db.queries[s.query]
	if !ok {
		return nil, errors.New("dbtest: unexpected query: " + s.query)
	}
	return &rows{columns: res.Columns, data: res.Rows}, nil
}

type rows struct {
	columns []string
	data    [][]driver.Value
	pos     int
}

func (r *rows) Columns() []string { return r.columns }
func (r *rows) Close() error      { return nil }

func (r *rows) Next(dest []driver.Value) error {
	if r.pos >= len(r.data) {
		return io.EOF
	}
	copy(dest, r.data[r.pos])
	r.pos++
	return nil
}
