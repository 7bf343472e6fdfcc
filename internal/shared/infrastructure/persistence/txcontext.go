package persistence

import (
	"context"
	"errors"
)

// ErrNoTransaction is returned by Commit and Rollback when ctx carries no transaction.
var ErrNoTransaction = errors.New("no transaction in context")

// txKey is keyed by the driver's transaction type, so a pgx and a
// database/sql transaction can never be confused for one another.
type txKey[T any] struct{}

type txState[T any] struct {
	tx    T
	owned bool
}

func withTx[T any](ctx context.Context, tx T, owned bool) context.Context {
	return context.WithValue(ctx, txKey[T]{}, txState[T]{tx: tx, owned: owned})
}

func txFromContext[T any](ctx context.Context) (txState[T], bool) {
	st, ok := ctx.Value(txKey[T]{}).(txState[T])
	return st, ok
}

// begin joins the transaction already in ctx or opens a new owned one.
// Joined transactions are committed by whoever opened them.
func begin[T any](ctx context.Context, open func(context.Context) (T, error)) (context.Context, error) {
	if st, ok := txFromContext[T](ctx); ok {
		return withTx(ctx, st.tx, false), nil
	}

	tx, err := open(ctx)
	if err != nil {
		return nil, err
	}
	return withTx(ctx, tx, true), nil
}

func finish[T any](ctx context.Context, done func(T) error) error {
	st, ok := txFromContext[T](ctx)
	if !ok {
		return ErrNoTransaction
	}
	if !st.owned {
		return nil
	}
	return done(st.tx)
}
