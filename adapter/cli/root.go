package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/felixgeelhaar/studyflow/pkg/observability"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	jsonOutput bool
	logger     *slog.Logger
)

type commandContext struct {
	startedAt time.Time
}

type commandContextKey struct{}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "studyflow",
	Short: "StudyFlow - study planner with scheduling suggestions",
	Long: `StudyFlow keeps your study tasks and suggests good times to work on them.

Suggestions respect your work hours, avoid tasks you already placed on the
calendar, and favour your peak hours for important or urgent work.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		reqInfo := observability.RequestInfo{
			CorrelationID: uuid.NewString(),
			Source:        observability.SourceCLI,
		}
		if app := GetApp(); app != nil {
			reqInfo.UserID = app.CurrentUserID.String()
		}
		ctx = observability.WithRequestInfo(ctx, reqInfo)
		cmd.SetContext(context.WithValue(ctx, commandContextKey{}, commandContext{startedAt: time.Now()}))
		logger.DebugContext(cmd.Context(), "command start", "command", cmd.CommandPath())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		info, ok := cmd.Context().Value(commandContextKey{}).(commandContext)
		if !ok {
			return
		}
		logger.DebugContext(cmd.Context(), "command end",
			"command", cmd.CommandPath(),
			"duration_ms", time.Since(info.startedAt).Milliseconds(),
		)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
}

// AddCommand adds a command to the root command.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// SetLogger sets the CLI logger.
func SetLogger(l *slog.Logger) {
	logger = l
}

// JSONOutput reports whether --json was given.
func JSONOutput() bool {
	return jsonOutput
}

// SetJSONOutput overrides the --json flag.
func SetJSONOutput(enabled bool) {
	jsonOutput = enabled
}

// WriteJSON encodes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
