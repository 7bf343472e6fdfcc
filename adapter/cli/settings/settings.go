package settings

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/studyflow/adapter/cli"
	"github.com/felixgeelhaar/studyflow/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	workStart string
	workEnd   string
	peakStart string
	peakEnd   string
)

// Cmd is the settings command group
var Cmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage work hours and peak hours",
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireSettings()
		if err != nil {
			return err
		}

		s, err := app.SettingsService.Get(cmd.Context(), app.CurrentUserID)
		if err != nil {
			return err
		}
		return printSettings(cmd, s)
	},
}

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Change work hours or peak hours",
	Long: `Change any of the settings; omitted flags keep their current value.

Examples:
  studyflow settings set --work-start 08:00 --work-end 16:00
  studyflow settings set --peak-start 14:00 --peak-end 16:00`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireSettings()
		if err != nil {
			return err
		}
		if workStart == "" && workEnd == "" && peakStart == "" && peakEnd == "" {
			return errors.New("nothing to change: pass --work-start, --work-end, --peak-start or --peak-end")
		}

		s, err := app.SettingsService.Patch(cmd.Context(), app.CurrentUserID, domain.UserSettings{
			WorkStartTime:  workStart,
			WorkEndTime:    workEnd,
			PeakHoursStart: peakStart,
			PeakHoursEnd:   peakEnd,
		})
		if err != nil {
			return fmt.Errorf("failed to update settings: %w", err)
		}
		return printSettings(cmd, s)
	},
}

func requireSettings() (*cli.App, error) {
	app, err := cli.RequireApp()
	if err != nil {
		return nil, err
	}
	if app.SettingsService == nil {
		return nil, errors.New("settings service not configured")
	}
	if app.CurrentUserID == uuid.Nil {
		return nil, errors.New("current user not configured")
	}
	return app, nil
}

func printSettings(cmd *cobra.Command, s domain.UserSettings) error {
	out := cmd.OutOrStdout()
	if cli.JSONOutput() {
		return cli.WriteJSON(out, s)
	}
	fmt.Fprintf(out, "Work hours: %s-%s\n", s.WorkStartTime, s.WorkEndTime)
	fmt.Fprintf(out, "Peak hours: %s-%s\n", s.PeakHoursStart, s.PeakHoursEnd)
	return nil
}

func init() {
	setCmd.Flags().StringVar(&workStart, "work-start", "", "start of the work day (HH:MM)")
	setCmd.Flags().StringVar(&workEnd, "work-end", "", "end of the work day (HH:MM)")
	setCmd.Flags().StringVar(&peakStart, "peak-start", "", "start of peak hours (HH:MM)")
	setCmd.Flags().StringVar(&peakEnd, "peak-end", "", "end of peak hours (HH:MM)")

	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(setCmd)
}
