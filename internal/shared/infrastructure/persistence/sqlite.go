package persistence

import (
	"context"
	"database/sql"
)

// SQLiteQuerier is satisfied by both *sql.DB and *sql.Tx.
type SQLiteQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLiteExecutor returns the transaction in ctx when present, otherwise db.
func SQLiteExecutor(ctx context.Context, db *sql.DB) SQLiteQuerier {
	if st, ok := txFromContext[*sql.Tx](ctx); ok {
		return st.tx
	}
	return db
}

// SQLiteUnitOfWork runs commands inside a database/sql transaction.
type SQLiteUnitOfWork struct {
	db *sql.DB
}

// NewSQLiteUnitOfWork creates a new SQLiteUnitOfWork.
func NewSQLiteUnitOfWork(db *sql.DB) *SQLiteUnitOfWork {
	return &SQLiteUnitOfWork{db: db}
}

func (u *SQLiteUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	return begin(ctx, func(ctx context.Context) (*sql.Tx, error) {
		return u.db.BeginTx(ctx, nil)
	})
}

func (u *SQLiteUnitOfWork) Commit(ctx context.Context) error {
	return finish(ctx, func(tx *sql.Tx) error { return tx.Commit() })
}

func (u *SQLiteUnitOfWork) Rollback(ctx context.Context) error {
	return finish(ctx, func(tx *sql.Tx) error { return tx.Rollback() })
}
