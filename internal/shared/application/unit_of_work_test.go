package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUnitOfWork struct {
	mock.Mock
}

func (m *mockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	return args.Get(0).(context.Context), args.Error(1)
}

func (m *mockUnitOfWork) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockUnitOfWork) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type txKey struct{}

func TestWithUnitOfWork(t *testing.T) {
	ctx := context.Background()
	txCtx := context.WithValue(ctx, txKey{}, "tx")

	t.Run("commits on success", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)

		var got context.Context
		err := WithUnitOfWork(ctx, uow, func(ctx context.Context) error {
			got = ctx
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, txCtx, got)
		uow.AssertExpectations(t)
		uow.AssertNotCalled(t, "Rollback", mock.Anything)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)

		fnErr := errors.New("slot taken")
		err := WithUnitOfWork(ctx, uow, func(context.Context) error { return fnErr })

		assert.Equal(t, fnErr, err)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("joins rollback failure", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		uow.On("Begin", ctx).Return(txCtx, nil)
		rbErr := errors.New("connection reset")
		uow.On("Rollback", txCtx).Return(rbErr)

		fnErr := errors.New("slot taken")
		err := WithUnitOfWork(ctx, uow, func(context.Context) error { return fnErr })

		assert.ErrorIs(t, err, fnErr)
		assert.ErrorIs(t, err, rbErr)
	})

	t.Run("wraps begin failure", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		beginErr := errors.New("database is locked")
		uow.On("Begin", ctx).Return(ctx, beginErr)

		executed := false
		err := WithUnitOfWork(ctx, uow, func(context.Context) error {
			executed = true
			return nil
		})

		assert.ErrorIs(t, err, beginErr)
		assert.False(t, executed)
	})

	t.Run("returns commit error", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		uow.On("Begin", ctx).Return(txCtx, nil)
		commitErr := errors.New("commit failed")
		uow.On("Commit", txCtx).Return(commitErr)

		err := WithUnitOfWork(ctx, uow, func(context.Context) error { return nil })

		assert.Equal(t, commitErr, err)
	})

	t.Run("rolls back and re-panics", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)

		assert.PanicsWithValue(t, "boom", func() {
			_ = WithUnitOfWork(ctx, uow, func(context.Context) error { panic("boom") })
		})
		uow.AssertCalled(t, "Rollback", txCtx)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
	})
}
