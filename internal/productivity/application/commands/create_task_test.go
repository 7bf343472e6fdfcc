package commands

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/felixgeelhaar/studyflow/internal/productivity/domain/task"
	"github.com/felixgeelhaar/studyflow/internal/productivity/domain/value_objects"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockTaskRepo is a mock implementation of task.Repository.
type mockTaskRepo struct {
	mock.Mock
}

func (m *mockTaskRepo) Save(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockTaskRepo) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *mockTaskRepo) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*task.Task, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *mockTaskRepo) FindPending(ctx context.Context, userID uuid.UUID) ([]*task.Task, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *mockTaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// mockUnitOfWork is a mock implementation of UnitOfWork.
type mockUnitOfWork struct {
	mock.Mock
}

func (m *mockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	return args.Get(0).(context.Context), args.Error(1)
}

func (m *mockUnitOfWork) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockUnitOfWork) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// recordingPublisher captures published routing keys.
type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (p *recordingPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) RoutingKeys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

func TestCreateTaskHandler_Handle(t *testing.T) {
	userID := uuid.New()

	t.Run("creates task with all fields", func(t *testing.T) {
		repo := new(mockTaskRepo)
		uow := new(mockUnitOfWork)
		pub := &recordingPublisher{}
		handler := NewCreateTaskHandler(repo, uow, pub, nil)

		ctx := context.Background()
		txCtx := context.WithValue(ctx, "tx", "transaction")
		due := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

		uow.On("Begin", ctx).Return(txCtx, nil)
		repo.On("Save", txCtx, mock.MatchedBy(func(tk *task.Task) bool {
			return tk.Title() == "Read chapter 4" &&
				tk.Description() == "pages 80-112" &&
				tk.Priority() == value_objects.PriorityHigh &&
				tk.DueDate() != nil && tk.DueDate().Equal(due) &&
				tk.UserID() == userID
		})).Return(nil)
		uow.On("Commit", txCtx).Return(nil)

		result, err := handler.Handle(ctx, CreateTaskCommand{
			UserID:      userID,
			Title:       "Read chapter 4",
			Description: "pages 80-112",
			Priority:    "high",
			DueDate:     &due,
		})

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, result.TaskID)
		assert.Equal(t, []string{task.RoutingKeyCreated}, pub.RoutingKeys())
		repo.AssertExpectations(t)
		uow.AssertExpectations(t)
	})

	t.Run("defaults to medium priority", func(t *testing.T) {
		repo := new(mockTaskRepo)
		uow := new(mockUnitOfWork)
		handler := NewCreateTaskHandler(repo, uow, nil, nil)

		ctx := context.Background()
		txCtx := context.WithValue(ctx, "tx", "transaction")

		uow.On("Begin", ctx).Return(txCtx, nil)
		repo.On("Save", txCtx, mock.MatchedBy(func(tk *task.Task) bool {
			return tk.Priority() == value_objects.PriorityMedium
		})).Return(nil)
		uow.On("Commit", txCtx).Return(nil)

		_, err := handler.Handle(ctx, CreateTaskCommand{UserID: userID, Title: "Flashcards"})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("invalid input never opens a transaction", func(t *testing.T) {
		cases := map[string]struct {
			cmd  CreateTaskCommand
			want error
		}{
			"blank title":      {CreateTaskCommand{UserID: userID, Title: "   "}, task.ErrEmptyTitle},
			"unknown priority": {CreateTaskCommand{UserID: userID, Title: "Essay", Priority: "urgent"}, value_objects.ErrInvalidPriority},
		}
		for name, tc := range cases {
			repo := new(mockTaskRepo)
			uow := new(mockUnitOfWork)
			handler := NewCreateTaskHandler(repo, uow, nil, nil)

			result, err := handler.Handle(context.Background(), tc.cmd)

			assert.Nil(t, result, name)
			assert.ErrorIs(t, err, tc.want, name)
			uow.AssertNotCalled(t, "Begin", mock.Anything)
			repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		}
	})

	t.Run("save error rolls back and publishes nothing", func(t *testing.T) {
		repo := new(mockTaskRepo)
		uow := new(mockUnitOfWork)
		pub := &recordingPublisher{}
		handler := NewCreateTaskHandler(repo, uow, pub, nil)

		ctx := context.Background()
		txCtx := context.WithValue(ctx, "tx", "transaction")
		saveErr := errors.New("disk full")

		uow.On("Begin", ctx).Return(txCtx, nil)
		repo.On("Save", txCtx, mock.Anything).Return(saveErr)
		uow.On("Rollback", txCtx).Return(nil)

		_, err := handler.Handle(ctx, CreateTaskCommand{UserID: userID, Title: "Essay"})

		assert.ErrorIs(t, err, saveErr)
		assert.Empty(t, pub.RoutingKeys())
		uow.AssertExpectations(t)
	})

	t.Run("publish failure does not fail the command", func(t *testing.T) {
		repo := new(mockTaskRepo)
		uow := new(mockUnitOfWork)
		pub := &recordingPublisher{err: errors.New("broker down")}
		handler := NewCreateTaskHandler(repo, uow, pub, nil)

		ctx := context.Background()
		txCtx := context.WithValue(ctx, "tx", "transaction")

		uow.On("Begin", ctx).Return(txCtx, nil)
		repo.On("Save", txCtx, mock.Anything).Return(nil)
		uow.On("Commit", txCtx).Return(nil)

		result, err := handler.Handle(ctx, CreateTaskCommand{UserID: userID, Title: "Essay"})

		require.NoError(t, err)
		assert.NotNil(t, result)
		assert.Len(t, pub.RoutingKeys(), 1)
	})

	t.Run("begin error", func(t *testing.T) {
		repo := new(mockTaskRepo)
		uow := new(mockUnitOfWork)
		handler := NewCreateTaskHandler(repo, uow, nil, nil)

		ctx := context.Background()
		beginErr := errors.New("database locked")
		uow.On("Begin", ctx).Return(ctx, beginErr)

		_, err := handler.Handle(ctx, CreateTaskCommand{UserID: userID, Title: "Essay"})

		assert.ErrorIs(t, err, beginErr)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
