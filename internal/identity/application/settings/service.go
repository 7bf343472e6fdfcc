package settings

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/studyflow/internal/scheduling/domain"
	"github.com/google/uuid"
)

// Repository defines storage for user work-day settings.
type Repository interface {
	// Find returns the stored settings and whether any were found.
	Find(ctx context.Context, userID uuid.UUID) (domain.UserSettings, bool, error)
	Save(ctx context.Context, userID uuid.UUID, settings domain.UserSettings) error
}

// Service manages user settings.
type Service struct {
	repo Repository
}

// NewService creates a settings service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the user's settings, or the defaults when none are stored.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (domain.UserSettings, error) {
	stored, ok, err := s.repo.Find(ctx, userID)
	if err != nil {
		return domain.UserSettings{}, fmt.Errorf("load settings: %w", err)
	}
	if !ok {
		return domain.DefaultUserSettings(), nil
	}
	return stored, nil
}

// Update validates and stores the user's settings.
func (s *Service) Update(ctx context.Context, userID uuid.UUID, settings domain.UserSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	return s.repo.Save(ctx, userID, settings)
}

// Patch applies the non-empty fields of changes on top of the current settings.
func (s *Service) Patch(ctx context.Context, userID uuid.UUID, changes domain.UserSettings) (domain.UserSettings, error) {
	current, err := s.Get(ctx, userID)
	if err != nil {
		return domain.UserSettings{}, err
	}

	if changes.WorkStartTime != "" {
		current.WorkStartTime = changes.WorkStartTime
	}
	if changes.WorkEndTime != "" {
		current.WorkEndTime = changes.WorkEndTime
	}
	if changes.PeakHoursStart != "" {
		current.PeakHoursStart = changes.PeakHoursStart
	}
	if changes.PeakHoursEnd != "" {
		current.PeakHoursEnd = changes.PeakHoursEnd
	}

	if err := s.Update(ctx, userID, current); err != nil {
		return domain.UserSettings{}, err
	}
	return current, nil
}
