package domain_test

import (
	"testing"

	"github.com/felixgeelhaar/studyflow/internal/scheduling/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultUserSettings(t *testing.T) {
	s := domain.DefaultUserSettings()

	assert.Equal(t, "09:00", s.WorkStartTime)
	assert.Equal(t, "17:00", s.WorkEndTime)
	assert.Equal(t, "10:00", s.PeakHoursStart)
	assert.Equal(t, "12:00", s.PeakHoursEnd)
	assert.NoError(t, s.Validate())
}

func TestUserSettings_Parse(t *testing.T) {
	w, err := domain.DefaultUserSettings().Parse()
	require.NoError(t, err)

	assert.Equal(t, 9*60, w.WorkStart.Minutes())
	assert.Equal(t, 17*60, w.WorkEnd.Minutes())
	assert.Equal(t, 10*60, w.PeakStart.Minutes())
	assert.Equal(t, 12*60, w.PeakEnd.Minutes())
}

func TestUserSettings_Parse_InvalidField(t *testing.T) {
	s := domain.DefaultUserSettings()
	s.PeakHoursEnd = "noon"

	_, err := s.Parse()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidFormat)
	assert.Contains(t, err.Error(), "peak_hours_end")
}

func TestUserSettings_Validate_InvertedDay(t *testing.T) {
	s := domain.DefaultUserSettings()
	s.WorkStartTime = "18:00"

	// Parsing accepts an inverted day; validation for storage rejects it.
	_, err := s.Parse()
	require.NoError(t, err)
	assert.ErrorIs(t, s.Validate(), domain.ErrInvalidWorkHours)
}
