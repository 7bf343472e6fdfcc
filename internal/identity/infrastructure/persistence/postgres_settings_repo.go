package persistence

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/studyflow/internal/scheduling/domain"
	sharedPersistence "github.com/felixgeelhaar/studyflow/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSettingsRepository handles persistence for user settings.
type PostgresSettingsRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresSettingsRepository creates a new PostgresSettingsRepository.
func NewPostgresSettingsRepository(pool *pgxpool.Pool) *PostgresSettingsRepository {
	return &PostgresSettingsRepository{pool: pool}
}

// Find returns the stored settings for a user.
func (r *PostgresSettingsRepository) Find(ctx context.Context, userID uuid.UUID) (domain.UserSettings, bool, error) {
	query := `
		SELECT work_start_time, work_end_time, peak_hours_start, peak_hours_end
		FROM user_settings
		WHERE user_id = $1
	`

	var s domain.UserSettings
	err := sharedPersistence.Executor(ctx, r.pool).QueryRow(ctx, query, userID).
		Scan(&s.WorkStartTime, &s.WorkEndTime, &s.PeakHoursStart, &s.PeakHoursEnd)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UserSettings{}, false, nil
		}
		return domain.UserSettings{}, false, err
	}
	return s, true, nil
}

// Save upserts the settings for a user.
func (r *PostgresSettingsRepository) Save(ctx context.Context, userID uuid.UUID, s domain.UserSettings) error {
	query := `
		INSERT INTO user_settings (user_id, work_start_time, work_end_time, peak_hours_start, peak_hours_end, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			work_start_time = EXCLUDED.work_start_time,
			work_end_time = EXCLUDED.work_end_time,
			peak_hours_start = EXCLUDED.peak_hours_start,
			peak_hours_end = EXCLUDED.peak_hours_end,
			updated_at = NOW()
	`
	_, err := sharedPersistence.Executor(ctx, r.pool).Exec(ctx, query,
		userID, s.WorkStartTime, s.WorkEndTime, s.PeakHoursStart, s.PeakHoursEnd)
	return err
}
