package commands

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/felixgeelhaar/studyflow/internal/productivity/domain/task"
	"github.com/felixgeelhaar/studyflow/internal/scheduling/domain"
	"github.com/felixgeelhaar/studyflow/internal/shared/infrastructure/eventbus"
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

// capturingConsumer records every event delivered by the local bus.
type capturingConsumer struct {
	mu     sync.Mutex
	events []*eventbus.Event
}

func (c *capturingConsumer) EventTypes() []string { return []string{eventbus.MatchAll} }

func (c *capturingConsumer) Handle(ctx context.Context, event *eventbus.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

func newTask(t *testing.T, userID uuid.UUID, title string) *task.Task {
	t.Helper()
	tk, err := task.NewTask(userID, title)
	require.NoError(t, err)
	tk.ClearDomainEvents()
	return tk
}

func TestAcceptSuggestionHandler_Handle(t *testing.T) {
	userID := uuid.New()
	date := time.Date(2025, time.March, 11, 14, 45, 0, 0, time.Local)

	t.Run("places task and publishes scheduled event", func(t *testing.T) {
		repo := new(mockTaskRepo)
		uow := new(mockUnitOfWork)
		bus := eventbus.NewLocalBus(nil)
		consumer := &capturingConsumer{}
		bus.Register(consumer)
		handler := NewAcceptSuggestionHandler(repo, uow, bus, nil)

		tk := newTask(t, userID, "Problem set 3")
		neighbour := newTask(t, userID, "Lecture")
		require.NoError(t, neighbour.ScheduleAt(date, "09:00", "10:00"))

		ctx := context.Background()
		txCtx := context.WithValue(ctx, "tx", "transaction")

		uow.On("Begin", ctx).Return(txCtx, nil)
		repo.On("FindByID", txCtx, tk.ID()).Return(tk, nil)
		repo.On("FindByUserID", txCtx, userID).Return([]*task.Task{tk, neighbour}, nil)
		repo.On("Save", txCtx, tk).Return(nil)
		uow.On("Commit", txCtx).Return(nil)

		result, err := handler.Handle(ctx, AcceptSuggestionCommand{
			UserID:    userID,
			TaskID:    tk.ID(),
			Date:      date,
			StartTime: "10:00",
			EndTime:   "10:30",
		})

		require.NoError(t, err)
		assert.Equal(t, "10:00", result.StartTime)
		assert.Equal(t, "10:30", result.EndTime)
		assert.Equal(t, domain.StartOfDay(date), result.Date)

		p := tk.Placement()
		require.NotNil(t, p)
		assert.Equal(t, "10:00", p.StartTime)
		assert.Empty(t, tk.DomainEvents())

		require.Len(t, consumer.events, 1)
		event := consumer.events[0]
		assert.Equal(t, task.RoutingKeyScheduled, event.RoutingKey)
		assert.Equal(t, tk.ID(), event.AggregateID)
		assert.Equal(t, userID, event.Metadata.UserID)

		var payload struct {
			ScheduledDate      string `json:"scheduled_date"`
			ScheduledStartTime string `json:"scheduled_start_time"`
		}
		require.NoError(t, json.Unmarshal(event.Payload, &payload))
		assert.Equal(t, "2025-03-11", payload.ScheduledDate)
		assert.Equal(t, "10:00", payload.ScheduledStartTime)

		repo.AssertExpectations(t)
		uow.AssertExpectations(t)
	})

	t.Run("re-accepting over own placement is allowed", func(t *testing.T) {
		repo := new(mockTaskRepo)
		uow := new(mockUnitOfWork)
		handler := NewAcceptSuggestionHandler(repo, uow, nil, nil)

		tk := newTask(t, userID, "Revision")
		require.NoError(t, tk.ScheduleAt(date, "10:00", "10:30"))
		tk.ClearDomainEvents()

		ctx := context.Background()
		txCtx := context.WithValue(ctx, "tx", "transaction")

		uow.On("Begin", ctx).Return(txCtx, nil)
		repo.On("FindByID", txCtx, tk.ID()).Return(tk, nil)
		repo.On("FindByUserID", txCtx, userID).Return([]*task.Task{tk}, nil)
		repo.On("Save", txCtx, tk).Return(nil)
		uow.On("Commit", txCtx).Return(nil)

		_, err := handler.Handle(ctx, AcceptSuggestionCommand{
			UserID: userID, TaskID: tk.ID(), Date: date, StartTime: "10:15", EndTime: "10:45",
		})
		require.NoError(t, err)
		assert.Equal(t, "10:15", tk.Placement().StartTime)
	})

	t.Run("rejects overlapping window", func(t *testing.T) {
		repo := new(mockTaskRepo)
		uow := new(mockUnitOfWork)
		handler := NewAcceptSuggestionHandler(repo, uow, nil, nil)

		tk := newTask(t, userID, "Essay")
		busy := newTask(t, userID, "Lab")
		require.NoError(t, busy.ScheduleAt(date, "10:00", "11:00"))

		ctx := context.Background()
		txCtx := context.WithValue(ctx, "tx", "transaction")

		uow.On("Begin", ctx).Return(txCtx, nil)
		repo.On("FindByID", txCtx, tk.ID()).Return(tk, nil)
		repo.On("FindByUserID", txCtx, userID).Return([]*task.Task{tk, busy}, nil)
		uow.On("Rollback", txCtx).Return(nil)

		_, err := handler.Handle(ctx, AcceptSuggestionCommand{
			UserID: userID, TaskID: tk.ID(), Date: date, StartTime: "10:30", EndTime: "11:00",
		})

		assert.ErrorIs(t, err, ErrSlotTaken)
		assert.False(t, tk.IsScheduled())
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("back-to-back is not an overlap", func(t *testing.T) {
		repo := new(mockTaskRepo)
		uow := new(mockUnitOfWork)
		handler := NewAcceptSuggestionHandler(repo, uow, nil, nil)

		tk := newTask(t, userID, "Essay")
		busy := newTask(t, userID, "Lab")
		require.NoError(t, busy.ScheduleAt(date, "10:00", "11:00"))

		ctx := context.Background()
		txCtx := context.WithValue(ctx, "tx", "transaction")

		uow.On("Begin", ctx).Return(txCtx, nil)
		repo.On("FindByID", txCtx, tk.ID()).Return(tk, nil)
		repo.On("FindByUserID", txCtx, userID).Return([]*task.Task{tk, busy}, nil)
		repo.On("Save", txCtx, tk).Return(nil)
		uow.On("Commit", txCtx).Return(nil)

		_, err := handler.Handle(ctx, AcceptSuggestionCommand{
			UserID: userID, TaskID: tk.ID(), Date: date, StartTime: "11:00", EndTime: "11:30",
		})
		require.NoError(t, err)
	})

	t.Run("rejects malformed time before touching the store", func(t *testing.T) {
		repo := new(mockTaskRepo)
		uow := new(mockUnitOfWork)
		handler := NewAcceptSuggestionHandler(repo, uow, nil, nil)

		_, err := handler.Handle(context.Background(), AcceptSuggestionCommand{
			UserID: userID, TaskID: uuid.New(), Date: date, StartTime: "9am", EndTime: "10:00",
		})

		assert.ErrorIs(t, err, domain.ErrInvalidFormat)
		uow.AssertNotCalled(t, "Begin", mock.Anything)
	})

	t.Run("rejects inverted window", func(t *testing.T) {
		repo := new(mockTaskRepo)
		uow := new(mockUnitOfWork)
		handler := NewAcceptSuggestionHandler(repo, uow, nil, nil)

		tk := newTask(t, userID, "Essay")
		ctx := context.Background()
		txCtx := context.WithValue(ctx, "tx", "transaction")

		uow.On("Begin", ctx).Return(txCtx, nil)
		repo.On("FindByID", txCtx, tk.ID()).Return(tk, nil)
		repo.On("FindByUserID", txCtx, userID).Return([]*task.Task{tk}, nil)
		uow.On("Rollback", txCtx).Return(nil)

		_, err := handler.Handle(ctx, AcceptSuggestionCommand{
			UserID: userID, TaskID: tk.ID(), Date: date, StartTime: "11:00", EndTime: "10:00",
		})
		assert.ErrorIs(t, err, task.ErrInvalidPlacement)
	})

	t.Run("rejects another user's task", func(t *testing.T) {
		repo := new(mockTaskRepo)
		uow := new(mockUnitOfWork)
		handler := NewAcceptSuggestionHandler(repo, uow, nil, nil)

		tk := newTask(t, uuid.New(), "Not mine")
		ctx := context.Background()
		txCtx := context.WithValue(ctx, "tx", "transaction")

		uow.On("Begin", ctx).Return(txCtx, nil)
		repo.On("FindByID", txCtx, tk.ID()).Return(tk, nil)
		uow.On("Rollback", txCtx).Return(nil)

		_, err := handler.Handle(ctx, AcceptSuggestionCommand{
			UserID: userID, TaskID: tk.ID(), Date: date, StartTime: "10:00", EndTime: "10:30",
		})
		assert.ErrorIs(t, err, task.ErrTaskNotOwned)
	})
}
