package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/felixgeelhaar/studyflow/internal/scheduling/domain"
	sharedPersistence "github.com/felixgeelhaar/studyflow/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// SQLiteSettingsRepository handles persistence for user settings using SQLite.
type SQLiteSettingsRepository struct {
	dbConn *sql.DB
}

// NewSQLiteSettingsRepository creates a new SQLiteSettingsRepository.
func NewSQLiteSettingsRepository(dbConn *sql.DB) *SQLiteSettingsRepository {
	return &SQLiteSettingsRepository{dbConn: dbConn}
}

// Find returns the stored settings for a user.
func (r *SQLiteSettingsRepository) Find(ctx context.Context, userID uuid.UUID) (domain.UserSettings, bool, error) {
	q := sharedPersistence.SQLiteExecutor(ctx, r.dbConn)

	var s domain.UserSettings
	err := q.QueryRowContext(ctx, `
		SELECT work_start_time, work_end_time, peak_hours_start, peak_hours_end
		FROM user_settings
		WHERE user_id = ?`, userID.String(),
	).Scan(&s.WorkStartTime, &s.WorkEndTime, &s.PeakHoursStart, &s.PeakHoursEnd)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.UserSettings{}, false, nil
		}
		return domain.UserSettings{}, false, err
	}
	return s, true, nil
}

// Save upserts the settings for a user.
func (r *SQLiteSettingsRepository) Save(ctx context.Context, userID uuid.UUID, s domain.UserSettings) error {
	q := sharedPersistence.SQLiteExecutor(ctx, r.dbConn)
	_, err := q.ExecContext(ctx, `
		INSERT INTO user_settings (user_id, work_start_time, work_end_time, peak_hours_start, peak_hours_end, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			work_start_time = excluded.work_start_time,
			work_end_time = excluded.work_end_time,
			peak_hours_start = excluded.peak_hours_start,
			peak_hours_end = excluded.peak_hours_end,
			updated_at = excluded.updated_at`,
		userID.String(), s.WorkStartTime, s.WorkEndTime, s.PeakHoursStart, s.PeakHoursEnd,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}
