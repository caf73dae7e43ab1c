package cmd

import (
	"fmt"

	"session-sync/core/registry"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var sessionsDryRun bool

// sessionsCmd is the parent command for the sessions feature.
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Synchronize conference sessions with the calendar and registration form",
}

var sessionsSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Create or update one calendar event per session row",
	Long: `Reconciles every row of the sessions sheet with a calendar event.

Rows without an event id, or whose event no longer exists, get a new event; all other
events are updated in place. Event ids are written back to the sheet row by row.
Events are never deleted.

Examples:
  # Show what would happen
  sessions sync --dry-run

  # Apply
  sessions sync`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		result, err := rt.sessions.Sync(cmd.Context(), sessionsDryRun)
		if result != nil && result.Plan != nil {
			if perr := printJSON(result); perr != nil {
				return perr
			}
		}
		return err
	},
}

var sessionsFormCmd = &cobra.Command{
	Use:   "form",
	Short: "Rebuild the registration form from the session rows",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		result, err := rt.sessions.RebuildForm(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var sessionsLinksCmd = &cobra.Command{
	Use:   "links",
	Short: "Print the calendar and form URLs",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		ctx := cmd.Context()
		if link, err := rt.sessions.CalendarLink(ctx); err != nil {
			rt.logger.Warn("Calendar link unavailable", zap.Error(err))
		} else {
			fmt.Printf("Calendar: %s\n", link)
		}
		if link, err := rt.sessions.FormLink(ctx); err != nil {
			rt.logger.Warn("Form link unavailable", zap.Error(err))
		} else {
			fmt.Printf("Form: %s\n", link)
		}
		return nil
	},
}

var sessionsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the stored calendar and form ids",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadBase()
		if err != nil {
			return err
		}
		values, err := rt.registry.All(cmd.Context())
		if err != nil {
			return err
		}
		if len(values) == 0 {
			fmt.Println("No stored ids.")
			return nil
		}
		for _, key := range registry.Keys(values) {
			fmt.Printf("%s: %s\n", key, values[key])
		}
		return nil
	},
}

var sessionsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the stored calendar and form ids",
	Long: `Clears the registry. The calendar, its events and the form are left untouched;
the next sync and form rebuild create new ones.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadBase()
		if err != nil {
			return err
		}
		if !yesConfirm && !confirm("Forget the stored calendar and form ids?") {
			fmt.Println("Aborted.")
			return nil
		}
		if err := rt.registry.Clear(cmd.Context()); err != nil {
			return fmt.Errorf("failed to reset registry: %w", err)
		}
		rt.logger.Warn("Registry cleared")
		return nil
	},
}

var sessionsPollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Register guests for new form responses",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		result, err := rt.sessions.PollResponses(cmd.Context())
		if result != nil {
			if perr := printJSON(result); perr != nil {
				return perr
			}
		}
		return err
	},
}

var sessionsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Upload the sessions as an iCalendar file to object storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		result, err := rt.sessions.ExportICS(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

func init() {
	sessionsSyncCmd.Flags().BoolVar(&sessionsDryRun, "dry-run", false, "Only report the decisions")
	sessionsResetCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Do not ask for confirmation")

	sessionsCmd.AddCommand(sessionsSyncCmd, sessionsFormCmd, sessionsLinksCmd, sessionsStatusCmd,
		sessionsResetCmd, sessionsPollCmd, sessionsExportCmd)
	RootCmd.AddCommand(sessionsCmd)
}
