package mocks

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"io"
	"sync"
)

// StubDB returns a *sql.DB backed by a no-op driver: every statement
// succeeds and reports one affected row, queries return no rows, and
// transactions commit cleanly. It lets handler tests exercise code paths
// that require a real *sql.DB (e.g. RunInTransaction) without a database.
func StubDB() *sql.DB {
	registerStubDriver()
	db, err := sql.Open("stub", "")
	if err != nil {
		// ALLOW-PANIC: test helper, the stub driver cannot fail to open
		panic(err)
	}
	return db
}

var registerOnce sync.Once

func registerStubDriver() {
	registerOnce.Do(func() {
		sql.Register("stub", stubDriver{})
	})
}

type stubDriver struct{}

func (stubDriver) Open(name string) (driver.Conn, error) {
	return &stubConn{}, nil
}

type stubConn struct{}

func (c *stubConn) Prepare(query string) (driver.Stmt, error) {
	return &stubStmt{}, nil
}

func (c *stubConn) Close() error {
	return nil
}

func (c *stubConn) Begin() (driver.Tx, error) {
	return stubTx{}, nil
}

func (c *stubConn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	return stubTx{}, nil
}

func (c *stubConn) ExecContext(
	ctx context.Context,
	query string,
	args []driver.NamedValue,
) (driver.Result, error) {
	return driver.RowsAffected(1), nil
}

func (c *stubConn) QueryContext(
	ctx context.Context,
	query string,
	args []driver.NamedValue,
) (driver.Rows, error) {
	return &stubRows{}, nil
}

type stubTx struct{}

func (stubTx) Commit() error {
	return nil
}

func (stubTx) Rollback() error {
	return nil
}

type stubStmt struct{}

func (s *stubStmt) Close() error {
	return nil
}

func (s *stubStmt) NumInput() int {
	return -1
}

func (s *stubStmt) Exec(args []driver.Value) (driver.Result, error) {
	return driver.RowsAffected(1), nil
}

func (s *stubStmt) Query(args []driver.Value) (driver.Rows, error) {
	return &stubRows{}, nil
}

type stubRows struct{}

func (r *stubRows) Columns() []string {
	return []string{}
}

func (r *stubRows) Close() error {
	return nil
}

func (r *stubRows) Next(dest []driver.Value) error {
	return io.EOF
}
