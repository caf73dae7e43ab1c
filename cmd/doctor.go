package cmd

import (
	"fmt"
	"time"

	"session-sync/core/database"
	"session-sync/core/google"
	"session-sync/core/storage"
	"session-sync/core/table"
	"session-sync/feature/sessions"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// doctorReport is the outcome of the doctor checks.
type doctorReport struct {
	Tables  []database.TableReport `json:"tables"`
	Google  string                 `json:"google"`
	Storage string                 `json:"storage"`
	Exports []string               `json:"exports,omitempty"`
	Healthy bool                   `json:"healthy"`
}

// doctorCmd checks the database schema, the Google credentials and object storage.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the database schema, Google credentials and object storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		startTime := time.Now()

		rt, err := loadBase()
		if err != nil {
			return err
		}
		cfg := rt.cfg
		report := doctorReport{Healthy: true}

		expected := map[string][]string{
			"registry_properties": {"key", "value", "updated_at"},
			"oauth_tokens":        {"account", "token", "updated_at"},
		}
		if cfg.Table.Backend == table.BackendDatabase {
			expected["sheet_cells"] = []string{"sheet", "row", "col", "value"}
		}
		report.Tables, err = database.CheckTables(rt.db, expected)
		if err != nil {
			return err
		}
		for _, t := range report.Tables {
			if !t.Exists || len(t.Missing) > 0 {
				report.Healthy = false
			}
		}

		switch _, err := google.ClientOptions(ctx, cfg.Google, rt.tokens); {
		case err == nil && cfg.Google.UsesServiceAccount():
			report.Google = "service account"
		case err == nil:
			report.Google = "oauth token for " + cfg.Google.Account
		default:
			report.Google = err.Error()
			if cfg.Table.Backend == table.BackendSheets || cfg.Calendar.Provider == sessions.ProviderGoogle {
				report.Healthy = false
			}
		}

		if !cfg.Storage.Enabled() {
			report.Storage = "disabled"
		} else if client, err := storage.NewClient(cfg.Storage); err != nil {
			report.Storage = err.Error()
			report.Healthy = false
		} else if exists, err := client.BucketExists(ctx, cfg.Storage.Bucket); err != nil {
			report.Storage = fmt.Sprintf("bucket check failed: %v", err)
			report.Healthy = false
		} else if !exists {
			report.Storage = "bucket " + cfg.Storage.Bucket + " does not exist yet"
		} else {
			report.Storage = "ok"
			if report.Exports, err = storage.List(ctx, client, cfg.Storage.Bucket, "exports/"); err != nil {
				report.Storage = err.Error()
				report.Healthy = false
			}
		}

		rt.logger.Info("Doctor checks completed",
			zap.Bool("healthy", report.Healthy),
			zap.Duration("execution_time", time.Since(startTime)),
		)
		if err := printJSON(report); err != nil {
			return err
		}
		if !report.Healthy {
			return fmt.Errorf("doctor found problems")
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(doctorCmd)
}
