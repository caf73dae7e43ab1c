package cmd

import (
	"fmt"
	"os"

	"session-sync/core/config"
	"session-sync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "session-sync",
	Short: "Spreadsheet-driven session and payroll automation",
	Long: `session-sync keeps a sheet of conference sessions in step with a calendar and a
registration form, confirms registrations by email, and computes payroll totals with
approval notifications from a timesheet.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		l, logErr := errorLogger()
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

// errorLogger builds the logger that reports a failed command from the configured log
// settings. When the configuration itself cannot load, it logs to the console.
func errorLogger() (*zap.Logger, error) {
	logCfg := logger.Config{Level: "info", Format: logger.FormatConsole}
	if cfg, err := config.LoadConfig("."); err == nil {
		logCfg = cfg.Log
	}
	return logger.New(&logCfg)
}
