package task

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/studyflow/adapter/cli"
	internalApp "github.com/felixgeelhaar/studyflow/internal/app"
	"github.com/felixgeelhaar/studyflow/internal/productivity/application/queries"
	"github.com/felixgeelhaar/studyflow/pkg/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestApp creates a SQLite-backed application and installs it as the CLI app.
func setupTestApp(t *testing.T) *cli.App {
	t.Helper()

	cfg := &config.Config{
		AppEnv:             "test",
		UserID:             config.DefaultUserID,
		DatabaseDriver:     config.DriverSQLite,
		SQLitePath:         filepath.Join(t.TempDir(), "test.db"),
		SuggestHorizonDays: 7,
		SuggestSlotMinutes: 30,
		SuggestMaxResults:  5,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	container, err := internalApp.NewContainer(context.Background(), cfg, logger)
	require.NoError(t, err)

	app := cli.NewAppFromContainer(container)
	cli.SetApp(app)
	t.Cleanup(func() {
		cli.SetApp(nil)
		cli.SetJSONOutput(false)
		container.Close()
	})
	return app
}

func resetFlags() {
	priority, description, dueDate = "", "", ""
	showAll, unscheduledOnly, overdue = false, false, false
	filterPriority, sortBy = "", ""
	limit = 0
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	err := cmd.RunE(cmd, args)
	return out.String(), err
}

func TestAddCmd_CreatesTask(t *testing.T) {
	app := setupTestApp(t)
	resetFlags()
	priority = "high"
	description = "Chapters 4 and 5"
	dueDate = "2025-03-14"

	out, err := run(t, addCmd, "Problem set 3")
	require.NoError(t, err)
	assert.Contains(t, out, "Task created:")
	assert.Contains(t, out, "due: 2025-03-14")

	tasks, err := app.ListTasksHandler.Handle(context.Background(), queries.ListTasksQuery{
		UserID:           app.CurrentUserID,
		IncludeCompleted: true,
	})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Problem set 3", tasks[0].Title)
	assert.Equal(t, "high", tasks[0].Priority)
	assert.Equal(t, "Chapters 4 and 5", tasks[0].Description)
	require.NotNil(t, tasks[0].DueDate)
	assert.Equal(t, "2025-03-14", tasks[0].DueDate.Format("2006-01-02"))
}

func TestAddCmd_RejectsBadDueDate(t *testing.T) {
	setupTestApp(t)
	resetFlags()
	dueDate = "14/03/2025"

	_, err := run(t, addCmd, "Essay")
	assert.ErrorContains(t, err, "invalid due date")
}

func TestAddCmd_RejectsUnknownPriority(t *testing.T) {
	setupTestApp(t)
	resetFlags()
	priority = "urgent"

	_, err := run(t, addCmd, "Essay")
	assert.Error(t, err)
}

func TestListCmd(t *testing.T) {
	setupTestApp(t)
	resetFlags()

	out, err := run(t, listCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "No tasks found.")

	_, err = run(t, addCmd, "Read chapter 5")
	require.NoError(t, err)

	out, err = run(t, listCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Tasks (1):")
	assert.Contains(t, out, "[ ] Read chapter 5 (~)")
}

func TestDoneCmd_HidesTaskFromDefaultList(t *testing.T) {
	app := setupTestApp(t)
	resetFlags()
	ctx := context.Background()

	_, err := run(t, addCmd, "Flashcards")
	require.NoError(t, err)
	tasks, err := app.ListTasksHandler.Handle(ctx, queries.ListTasksQuery{UserID: app.CurrentUserID})
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	out, err := run(t, doneCmd, tasks[0].ID.String())
	require.NoError(t, err)
	assert.Contains(t, out, "Task completed:")

	open, err := app.ListTasksHandler.Handle(ctx, queries.ListTasksQuery{UserID: app.CurrentUserID})
	require.NoError(t, err)
	assert.Empty(t, open)

	showAll = true
	out, err = run(t, listCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "[x] Flashcards")
}

func TestDoneCmd_InvalidID(t *testing.T) {
	setupTestApp(t)

	_, err := run(t, doneCmd, "not-a-uuid")
	assert.ErrorContains(t, err, "invalid task ID")
}

func TestUnscheduleCmd_UnplacedTaskIsNoop(t *testing.T) {
	app := setupTestApp(t)
	resetFlags()

	_, err := run(t, addCmd, "Lab report")
	require.NoError(t, err)
	tasks, err := app.ListTasksHandler.Handle(context.Background(), queries.ListTasksQuery{UserID: app.CurrentUserID})
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	out, err := run(t, unscheduleCmd, tasks[0].ID.String())
	require.NoError(t, err)
	assert.Contains(t, out, "Task unscheduled:")
}

func TestShowCmd_JSON(t *testing.T) {
	app := setupTestApp(t)
	resetFlags()

	_, err := run(t, addCmd, "Lab report")
	require.NoError(t, err)
	tasks, err := app.ListTasksHandler.Handle(context.Background(), queries.ListTasksQuery{UserID: app.CurrentUserID})
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	cli.SetJSONOutput(true)
	out, err := run(t, showCmd, tasks[0].ID.String())
	require.NoError(t, err)
	assert.Contains(t, out, `"Title": "Lab report"`)
}

func TestCommands_RequireApp(t *testing.T) {
	cli.SetApp(nil)

	_, err := run(t, listCmd)
	assert.ErrorIs(t, err, cli.ErrNotInitialized)
}
