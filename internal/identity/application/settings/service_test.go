package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/studyflow/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRepository is a test double for the Repository interface.
type mockRepository struct {
	settings map[uuid.UUID]domain.UserSettings
	saves    int
	err      error
}

func newMockRepository() *mockRepository {
	return &mockRepository{settings: make(map[uuid.UUID]domain.UserSettings)}
}

func (m *mockRepository) Find(ctx context.Context, userID uuid.UUID) (domain.UserSettings, bool, error) {
	if m.err != nil {
		return domain.UserSettings{}, false, m.err
	}
	s, ok := m.settings[userID]
	return s, ok, nil
}

func (m *mockRepository) Save(ctx context.Context, userID uuid.UUID, s domain.UserSettings) error {
	if m.err != nil {
		return m.err
	}
	m.saves++
	m.settings[userID] = s
	return nil
}

func TestService_GetReturnsDefaultsWhenMissing(t *testing.T) {
	svc := NewService(newMockRepository())

	got, err := svc.Get(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultUserSettings(), got)
}

func TestService_GetReturnsStored(t *testing.T) {
	repo := newMockRepository()
	userID := uuid.New()
	stored := domain.UserSettings{
		WorkStartTime:  "08:00",
		WorkEndTime:    "16:00",
		PeakHoursStart: "08:00",
		PeakHoursEnd:   "09:30",
	}
	repo.settings[userID] = stored

	got, err := NewService(repo).Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, stored, got)
}

func TestService_GetPropagatesErrors(t *testing.T) {
	repo := newMockRepository()
	repo.err = errors.New("disk on fire")

	_, err := NewService(repo).Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repo.err)
}

func TestService_UpdateValidates(t *testing.T) {
	tests := []struct {
		name     string
		settings domain.UserSettings
		wantErr  error
	}{
		{
			name:     "bad format",
			settings: domain.UserSettings{WorkStartTime: "9am", WorkEndTime: "17:00", PeakHoursStart: "10:00", PeakHoursEnd: "12:00"},
			wantErr:  domain.ErrInvalidFormat,
		},
		{
			name:     "inverted work day",
			settings: domain.UserSettings{WorkStartTime: "17:00", WorkEndTime: "09:00", PeakHoursStart: "10:00", PeakHoursEnd: "12:00"},
			wantErr:  domain.ErrInvalidWorkHours,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepository()
			err := NewService(repo).Update(context.Background(), uuid.New(), tt.settings)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, repo.saves)
		})
	}
}

func TestService_Patch(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	userID := uuid.New()

	got, err := svc.Patch(context.Background(), userID, domain.UserSettings{PeakHoursStart: "14:00", PeakHoursEnd: "16:00"})
	require.NoError(t, err)

	assert.Equal(t, "09:00", got.WorkStartTime)
	assert.Equal(t, "17:00", got.WorkEndTime)
	assert.Equal(t, "14:00", got.PeakHoursStart)
	assert.Equal(t, "16:00", got.PeakHoursEnd)
	assert.Equal(t, got, repo.settings[userID])
}
