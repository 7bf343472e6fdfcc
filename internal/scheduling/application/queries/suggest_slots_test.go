package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/studyflow/internal/productivity/domain/task"
	"github.com/felixgeelhaar/studyflow/internal/productivity/domain/value_objects"
	"github.com/felixgeelhaar/studyflow/internal/scheduling/application/services"
	"github.com/felixgeelhaar/studyflow/internal/scheduling/domain"
	"github.com/felixgeelhaar/studyflow/pkg/observability"
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

// staticSettings returns fixed settings for every user.
type staticSettings struct {
	settings domain.UserSettings
	err      error
}

func (s staticSettings) Get(ctx context.Context, userID uuid.UUID) (domain.UserSettings, error) {
	return s.settings, s.err
}

var monday = time.Date(2025, time.March, 10, 8, 0, 0, 0, time.Local)

func fixedEngine() *services.SuggestionEngine {
	return services.NewSuggestionEngine(services.DefaultSuggestionConfig()).
		WithClock(func() time.Time { return monday })
}

func newTask(t *testing.T, userID uuid.UUID, title string, priority value_objects.Priority) *task.Task {
	t.Helper()
	tk, err := task.NewTask(userID, title)
	require.NoError(t, err)
	require.NoError(t, tk.SetPriority(priority))
	return tk
}

func slotStarts(suggestions []SuggestionDTO) []string {
	out := make([]string, len(suggestions))
	for i, s := range suggestions {
		out[i] = s.Date.Format("01-02") + " " + s.StartTime
	}
	return out
}

func TestSuggestSlotsHandler_Handle(t *testing.T) {
	userID := uuid.New()
	ctx := context.Background()
	defaults := staticSettings{settings: domain.DefaultUserSettings()}

	t.Run("ranks peak slots for a high-priority task", func(t *testing.T) {
		target := newTask(t, userID, "Thesis outline", value_objects.PriorityHigh)
		busy := newTask(t, userID, "Seminar", value_objects.PriorityLow)
		require.NoError(t, busy.ScheduleAt(monday, "10:00", "10:30"))

		repo := new(mockTaskRepo)
		repo.On("FindByID", ctx, target.ID()).Return(target, nil)
		repo.On("FindByUserID", ctx, userID).Return([]*task.Task{target, busy}, nil)

		metrics := observability.NewInMemoryMetrics()
		handler := NewSuggestSlotsHandler(repo, defaults, fixedEngine(), metrics, nil)

		result, err := handler.Handle(ctx, SuggestSlotsQuery{UserID: userID, TaskID: target.ID()})

		require.NoError(t, err)
		assert.Equal(t, target.ID(), result.TaskID)
		assert.Equal(t, "high", result.Priority)
		assert.Equal(t, []string{
			"03-10 10:30", "03-10 11:00", "03-10 11:30",
			"03-11 10:00", "03-11 10:30",
		}, slotStarts(result.Suggestions))
		for _, s := range result.Suggestions {
			assert.Equal(t, 100, s.Score)
			assert.True(t, s.IsPeak)
			assert.Equal(t, "Peak productivity hours, Morning focus time", s.Reason)
		}

		assert.Equal(t, int64(5), metrics.GetCounter(observability.MetricSuggestionsGenerated))
		assert.Equal(t, []float64{100}, metrics.GetHistogram(observability.MetricSuggestionTopScore))
		repo.AssertExpectations(t)
	})

	t.Run("own placement is not an obstacle", func(t *testing.T) {
		target := newTask(t, userID, "Reading", value_objects.PriorityHigh)
		require.NoError(t, target.ScheduleAt(monday, "10:00", "10:30"))

		repo := new(mockTaskRepo)
		repo.On("FindByID", ctx, target.ID()).Return(target, nil)
		repo.On("FindByUserID", ctx, userID).Return([]*task.Task{target}, nil)

		result, err := NewSuggestSlotsHandler(repo, defaults, fixedEngine(), nil, nil).
			Handle(ctx, SuggestSlotsQuery{UserID: userID, TaskID: target.ID()})

		require.NoError(t, err)
		require.NotEmpty(t, result.Suggestions)
		assert.Equal(t, "10:00", result.Suggestions[0].StartTime)
	})

	t.Run("rejects another user's task", func(t *testing.T) {
		target := newTask(t, uuid.New(), "Private", value_objects.PriorityHigh)
		repo := new(mockTaskRepo)
		repo.On("FindByID", ctx, target.ID()).Return(target, nil)

		_, err := NewSuggestSlotsHandler(repo, defaults, fixedEngine(), nil, nil).
			Handle(ctx, SuggestSlotsQuery{UserID: userID, TaskID: target.ID()})

		assert.ErrorIs(t, err, task.ErrTaskNotOwned)
		repo.AssertNotCalled(t, "FindByUserID", mock.Anything, mock.Anything)
	})

	t.Run("malformed settings", func(t *testing.T) {
		target := newTask(t, userID, "Essay", value_objects.PriorityLow)
		repo := new(mockTaskRepo)
		repo.On("FindByID", ctx, target.ID()).Return(target, nil)
		repo.On("FindByUserID", ctx, userID).Return([]*task.Task{target}, nil)

		bad := staticSettings{settings: domain.UserSettings{
			WorkStartTime: "9am", WorkEndTime: "17:00", PeakHoursStart: "10:00", PeakHoursEnd: "12:00",
		}}

		_, err := NewSuggestSlotsHandler(repo, bad, fixedEngine(), nil, nil).
			Handle(ctx, SuggestSlotsQuery{UserID: userID, TaskID: target.ID()})

		assert.ErrorIs(t, err, ErrSuggestionFailed)
		assert.ErrorIs(t, err, domain.ErrInvalidFormat)
	})

	t.Run("settings error", func(t *testing.T) {
		target := newTask(t, userID, "Essay", value_objects.PriorityLow)
		repo := new(mockTaskRepo)
		repo.On("FindByID", ctx, target.ID()).Return(target, nil)
		repo.On("FindByUserID", ctx, userID).Return([]*task.Task{target}, nil)
		settingsErr := errors.New("settings unavailable")

		_, err := NewSuggestSlotsHandler(repo, staticSettings{err: settingsErr}, fixedEngine(), nil, nil).
			Handle(ctx, SuggestSlotsQuery{UserID: userID, TaskID: target.ID()})

		assert.ErrorIs(t, err, settingsErr)
	})

	t.Run("empty work day yields no suggestions", func(t *testing.T) {
		target := newTask(t, userID, "Essay", value_objects.PriorityLow)
		repo := new(mockTaskRepo)
		repo.On("FindByID", ctx, target.ID()).Return(target, nil)
		repo.On("FindByUserID", ctx, userID).Return([]*task.Task{target}, nil)

		inverted := staticSettings{settings: domain.UserSettings{
			WorkStartTime: "17:00", WorkEndTime: "09:00", PeakHoursStart: "10:00", PeakHoursEnd: "12:00",
		}}
		metrics := observability.NewInMemoryMetrics()

		result, err := NewSuggestSlotsHandler(repo, inverted, fixedEngine(), metrics, nil).
			Handle(ctx, SuggestSlotsQuery{UserID: userID, TaskID: target.ID()})

		require.NoError(t, err)
		assert.Empty(t, result.Suggestions)
		assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricSuggestionsEmpty))
	})
}

func TestSuggestBatchHandler_Handle(t *testing.T) {
	userID := uuid.New()
	ctx := context.Background()
	defaults := staticSettings{settings: domain.DefaultUserSettings()}

	t.Run("only unplaced high-priority tasks, in list order", func(t *testing.T) {
		first := newTask(t, userID, "First", value_objects.PriorityHigh)
		low := newTask(t, userID, "Low", value_objects.PriorityLow)
		placed := newTask(t, userID, "Placed", value_objects.PriorityHigh)
		require.NoError(t, placed.ScheduleAt(monday, "10:00", "11:00"))
		second := newTask(t, userID, "Second", value_objects.PriorityHigh)
		third := newTask(t, userID, "Third", value_objects.PriorityHigh)
		all := []*task.Task{first, low, placed, second, third}

		repo := new(mockTaskRepo)
		repo.On("FindPending", ctx, userID).Return(all, nil)
		repo.On("FindByUserID", ctx, userID).Return(all, nil)

		results, err := NewSuggestBatchHandler(repo, defaults, fixedEngine(), nil, nil).
			Handle(ctx, SuggestBatchQuery{UserID: userID})

		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, first.ID(), results[0].TaskID)
		assert.Equal(t, second.ID(), results[1].TaskID)
		assert.Equal(t, third.ID(), results[2].TaskID)
		for _, r := range results {
			require.NotEmpty(t, r.Suggestions)
			// 10:00-11:00 today is taken by the placed task.
			assert.Equal(t, "11:00", r.Suggestions[0].StartTime)
		}
	})

	t.Run("no candidates skips the engine", func(t *testing.T) {
		repo := new(mockTaskRepo)
		repo.On("FindPending", ctx, userID).Return([]*task.Task{newTask(t, userID, "Low", value_objects.PriorityLow)}, nil)

		results, err := NewSuggestBatchHandler(repo, defaults, fixedEngine(), nil, nil).
			Handle(ctx, SuggestBatchQuery{UserID: userID})

		require.NoError(t, err)
		assert.Empty(t, results)
		repo.AssertNotCalled(t, "FindByUserID", mock.Anything, mock.Anything)
	})

	t.Run("engine error fails the batch", func(t *testing.T) {
		high := newTask(t, userID, "High", value_objects.PriorityHigh)
		repo := new(mockTaskRepo)
		repo.On("FindPending", ctx, userID).Return([]*task.Task{high}, nil)
		repo.On("FindByUserID", ctx, userID).Return([]*task.Task{high}, nil)

		bad := staticSettings{settings: domain.UserSettings{
			WorkStartTime: "09:00", WorkEndTime: "25:00", PeakHoursStart: "10:00", PeakHoursEnd: "12:00",
		}}

		_, err := NewSuggestBatchHandler(repo, bad, fixedEngine(), nil, nil).
			Handle(ctx, SuggestBatchQuery{UserID: userID})

		assert.ErrorIs(t, err, ErrSuggestionFailed)
	})
}

func TestFindAvailableSlotsHandler_Handle(t *testing.T) {
	userID := uuid.New()
	ctx := context.Background()

	busy := newTask(t, userID, "Lecture", value_objects.PriorityLow)
	require.NoError(t, busy.ScheduleAt(monday, "09:00", "12:00"))
	elsewhere := newTask(t, userID, "Tomorrow", value_objects.PriorityLow)
	require.NoError(t, elsewhere.ScheduleAt(monday.AddDate(0, 0, 1), "13:00", "14:00"))

	repo := new(mockTaskRepo)
	repo.On("FindByUserID", ctx, userID).Return([]*task.Task{busy, elsewhere}, nil)

	settings := staticSettings{settings: domain.UserSettings{
		WorkStartTime: "09:00", WorkEndTime: "14:00", PeakHoursStart: "12:00", PeakHoursEnd: "13:00",
	}}

	slots, err := NewFindAvailableSlotsHandler(repo, settings, fixedEngine()).
		Handle(ctx, FindAvailableSlotsQuery{UserID: userID, Date: monday})

	require.NoError(t, err)
	assert.Equal(t, []TimeSlotDTO{
		{StartTime: "12:00", EndTime: "12:30", IsPeak: true},
		{StartTime: "12:30", EndTime: "13:00", IsPeak: true},
		{StartTime: "13:00", EndTime: "13:30", IsPeak: true},
		{StartTime: "13:30", EndTime: "14:00", IsPeak: false},
	}, slots)
}
