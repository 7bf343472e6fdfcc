package persistence

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBExecutor is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBExecutor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Executor returns the transaction in ctx when present, otherwise the pool.
func Executor(ctx context.Context, pool *pgxpool.Pool) DBExecutor {
	if st, ok := txFromContext[pgx.Tx](ctx); ok {
		return st.tx
	}
	return pool
}

// PostgresUnitOfWork runs commands inside a pgx transaction.
type PostgresUnitOfWork struct {
	pool *pgxpool.Pool
}

// NewPostgresUnitOfWork creates a new PostgresUnitOfWork.
func NewPostgresUnitOfWork(pool *pgxpool.Pool) *PostgresUnitOfWork {
	return &PostgresUnitOfWork{pool: pool}
}

func (u *PostgresUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	return begin(ctx, func(ctx context.Context) (pgx.Tx, error) {
		return u.pool.Begin(ctx)
	})
}

func (u *PostgresUnitOfWork) Commit(ctx context.Context) error {
	return finish(ctx, func(tx pgx.Tx) error { return tx.Commit(ctx) })
}

func (u *PostgresUnitOfWork) Rollback(ctx context.Context) error {
	return finish(ctx, func(tx pgx.Tx) error { return tx.Rollback(ctx) })
}
