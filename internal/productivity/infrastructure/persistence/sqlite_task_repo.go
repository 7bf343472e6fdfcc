package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/studyflow/internal/productivity/domain/task"
	"github.com/felixgeelhaar/studyflow/internal/productivity/domain/value_objects"
	sharedPersistence "github.com/felixgeelhaar/studyflow/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

const taskColumns = `id, user_id, title, description, status, priority, due_date,
	scheduled_date, scheduled_start_time, scheduled_end_time, completed_at,
	version, created_at, updated_at`

// SQLiteTaskRepository implements task.Repository using SQLite.
type SQLiteTaskRepository struct {
	dbConn *sql.DB
}

// NewSQLiteTaskRepository creates a new SQLite task repository.
func NewSQLiteTaskRepository(dbConn *sql.DB) *SQLiteTaskRepository {
	return &SQLiteTaskRepository{dbConn: dbConn}
}

// Save persists a task. New tasks are inserted at version 1; existing tasks are
// updated only when the stored version matches.
func (r *SQLiteTaskRepository) Save(ctx context.Context, t *task.Task) error {
	q := sharedPersistence.SQLiteExecutor(ctx, r.dbConn)

	var scheduledDate, startTime, endTime sql.NullString
	if p := t.Placement(); p != nil {
		scheduledDate = sql.NullString{String: p.Date.Format(dateLayout), Valid: true}
		startTime = sql.NullString{String: p.StartTime, Valid: true}
		endTime = sql.NullString{String: p.EndTime, Valid: true}
	}

	if t.Version() == 0 {
		_, err := q.ExecContext(ctx, `
			INSERT INTO tasks (`+taskColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
			t.ID().String(),
			t.UserID().String(),
			t.Title(),
			nullString(t.Description()),
			t.Status().String(),
			t.Priority().String(),
			nullTime(t.DueDate()),
			scheduledDate, startTime, endTime,
			nullTime(t.CompletedAt()),
			t.CreatedAt().Format(time.RFC3339),
			t.UpdatedAt().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("failed to insert task: %w", err)
		}
		t.SetVersion(1)
		return nil
	}

	result, err := q.ExecContext(ctx, `
		UPDATE tasks SET
			title = ?, description = ?, status = ?, priority = ?, due_date = ?,
			scheduled_date = ?, scheduled_start_time = ?, scheduled_end_time = ?,
			completed_at = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`,
		t.Title(),
		nullString(t.Description()),
		t.Status().String(),
		t.Priority().String(),
		nullTime(t.DueDate()),
		scheduledDate, startTime, endTime,
		nullTime(t.CompletedAt()),
		t.UpdatedAt().Format(time.RFC3339),
		t.ID().String(),
		t.Version(),
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOptimisticLocking
	}

	t.IncrementVersion()
	return nil
}

// FindByID retrieves a task by its ID.
func (r *SQLiteTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	q := sharedPersistence.SQLiteExecutor(ctx, r.dbConn)
	row := q.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id.String())

	t, err := scanSQLiteTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return t, nil
}

// FindByUserID retrieves all tasks for a user in creation order.
func (r *SQLiteTaskRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*task.Task, error) {
	return r.query(ctx, `SELECT `+taskColumns+` FROM tasks
		WHERE user_id = ? ORDER BY created_at, rowid`, userID.String())
}

// FindPending retrieves pending tasks for a user in creation order.
func (r *SQLiteTaskRepository) FindPending(ctx context.Context, userID uuid.UUID) ([]*task.Task, error) {
	return r.query(ctx, `SELECT `+taskColumns+` FROM tasks
		WHERE user_id = ? AND status = 'pending' ORDER BY created_at, rowid`, userID.String())
}

// Delete removes a task from the database.
func (r *SQLiteTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	q := sharedPersistence.SQLiteExecutor(ctx, r.dbConn)
	result, err := q.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (r *SQLiteTaskRepository) query(ctx context.Context, query string, args ...any) ([]*task.Task, error) {
	q := sharedPersistence.SQLiteExecutor(ctx, r.dbConn)
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*task.Task, 0)
	for rows.Next() {
		t, err := scanSQLiteTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteTask(row rowScanner) (*task.Task, error) {
	var (
		id, userID, title, status, priority string
		description, dueDate, completedAt   sql.NullString
		scheduledDate, startTime, endTime   sql.NullString
		version                             int
		createdAt, updatedAt                string
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

	due, err := parseNullTime(dueDate)
	if err != nil {
		return nil, fmt.Errorf("invalid due_date: %w", err)
	}
	completed, err := parseNullTime(completedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid completed_at: %w", err)
	}

	var placement *task.Placement
	if scheduledDate.Valid {
		date, err := time.ParseInLocation(dateLayout, scheduledDate.String, time.Local)
		if err != nil {
			return nil, fmt.Errorf("invalid scheduled_date: %w", err)
		}
		placement = &task.Placement{Date: date, StartTime: startTime.String, EndTime: endTime.String}
	}

	created, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at: %w", err)
	}
	updated, err := time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid updated_at: %w", err)
	}

	return rehydrate(taskRecord{
		id:          taskID,
		userID:      ownerID,
		title:       title,
		description: description.String,
		status:      status,
		priority:    priority,
		dueDate:     due,
		placement:   placement,
		completedAt: completed,
		version:     version,
		createdAt:   created,
		updatedAt:   updated,
	})
}

// taskRecord is the storage-neutral shape of a tasks row.
type taskRecord struct {
	id          uuid.UUID
	userID      uuid.UUID
	title       string
	description string
	status      string
	priority    string
	dueDate     *time.Time
	placement   *task.Placement
	completedAt *time.Time
	version     int
	createdAt   time.Time
	updatedAt   time.Time
}

func rehydrate(rec taskRecord) (*task.Task, error) {
	status, err := task.ParseStatus(rec.status)
	if err != nil {
		return nil, err
	}
	priority, err := value_objects.ParsePriority(rec.priority)
	if err != nil {
		return nil, fmt.Errorf("invalid priority in database: %w", err)
	}

	return task.RehydrateTask(
		rec.id, rec.userID, rec.title, rec.description,
		status, priority, rec.dueDate, rec.placement, rec.completedAt,
		rec.version, rec.createdAt, rec.updatedAt,
	), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(time.RFC3339), Valid: true}
}

func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
