package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/studyflow/internal/productivity/domain/task"
	sharedPersistence "github.com/felixgeelhaar/studyflow/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresTaskColumns = `id::text, user_id::text, title, description, status, priority, due_date,
	scheduled_date, scheduled_start_time, scheduled_end_time, completed_at,
	version, created_at, updated_at`

// PostgresTaskRepository implements task.Repository using PostgreSQL.
type PostgresTaskRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTaskRepository creates a new PostgreSQL task repository.
func NewPostgresTaskRepository(pool *pgxpool.Pool) *PostgresTaskRepository {
	return &PostgresTaskRepository{pool: pool}
}

// Save persists a task using optimistic locking on the version column.
func (r *PostgresTaskRepository) Save(ctx context.Context, t *task.Task) error {
	exec := sharedPersistence.Executor(ctx, r.pool)

	var (
		scheduledDate      *time.Time
		startTime, endTime *string
	)
	if p := t.Placement(); p != nil {
		d := time.Date(p.Date.Year(), p.Date.Month(), p.Date.Day(), 0, 0, 0, 0, time.UTC)
		scheduledDate = &d
		startTime = &p.StartTime
		endTime = &p.EndTime
	}

	var description *string
	if t.Description() != "" {
		d := t.Description()
		description = &d
	}

	if t.Version() == 0 {
		_, err := exec.Exec(ctx, `
			INSERT INTO tasks (id, user_id, title, description, status, priority, due_date,
				scheduled_date, scheduled_start_time, scheduled_end_time, completed_at,
				version, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 1, $12, $13)`,
			t.ID(), t.UserID(), t.Title(), description,
			t.Status().String(), t.Priority().String(), t.DueDate(),
			scheduledDate, startTime, endTime, t.CompletedAt(),
			t.CreatedAt(), t.UpdatedAt(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert task: %w", err)
		}
		t.SetVersion(1)
		return nil
	}

	tag, err := exec.Exec(ctx, `
		UPDATE tasks SET
			title = $1, description = $2, status = $3, priority = $4, due_date = $5,
			scheduled_date = $6, scheduled_start_time = $7, scheduled_end_time = $8,
			completed_at = $9, version = version + 1, updated_at = $10
		WHERE id = $11 AND version = $12`,
		t.Title(), description, t.Status().String(), t.Priority().String(), t.DueDate(),
		scheduledDate, startTime, endTime, t.CompletedAt(), t.UpdatedAt(),
		t.ID(), t.Version(),
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOptimisticLocking
	}

	t.IncrementVersion()
	return nil
}

// FindByID retrieves a task by its ID.
func (r *PostgresTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+postgresTaskColumns+` FROM tasks WHERE id = $1`, id)

	t, err := scanPostgresTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return t, nil
}

// FindByUserID retrieves all tasks for a user in creation order.
func (r *PostgresTaskRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*task.Task, error) {
	return r.query(ctx, `SELECT `+postgresTaskColumns+` FROM tasks
		WHERE user_id = $1 ORDER BY created_at, id`, userID)
}

// FindPending retrieves pending tasks for a user in creation order.
func (r *PostgresTaskRepository) FindPending(ctx context.Context, userID uuid.UUID) ([]*task.Task, error) {
	return r.query(ctx, `SELECT `+postgresTaskColumns+` FROM tasks
		WHERE user_id = $1 AND status = 'pending' ORDER BY created_at, id`, userID)
}

// Delete removes a task from the database.
func (r *PostgresTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := sharedPersistence.Executor(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (r *PostgresTaskRepository) query(ctx context.Context, query string, args ...any) ([]*task.Task, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*task.Task, 0)
	for rows.Next() {
		t, err := scanPostgresTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func scanPostgresTask(row pgx.Row) (*task.Task, error) {
	var (
		id, userID, title, status, priority string
		description, startTime, endTime     *string
		dueDate, scheduledDate, completedAt *time.Time
		version                             int
		createdAt, updatedAt                time.Time
	)
	if err := row.Scan(
		&id, &userID, &title, &description, &status, &priority, &dueDate,
		&scheduledDate, &startTime, &endTime, &completedAt,
		&version, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	taskID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid task id: %w", err)
	}
	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user_id: %w", err)
	}

	rec := taskRecord{
		id:          taskID,
		userID:      ownerID,
		title:       title,
		status:      status,
		priority:    priority,
		dueDate:     dueDate,
		completedAt: completedAt,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
	if description != nil {
		rec.description = *description
	}
	if scheduledDate != nil {
		// DATE columns carry no zone; pin the calendar day to local midnight.
		d := time.Date(scheduledDate.Year(), scheduledDate.Month(), scheduledDate.Day(), 0, 0, 0, 0, time.Local)
		rec.placement = &task.Placement{Date: d}
		if startTime != nil {
			rec.placement.StartTime = *startTime
		}
		if endTime != nil {
			rec.placement.EndTime = *endTime
		}
	}

	return rehydrate(rec)
}
