package cmd

import (
	"fmt"
	"os"

	"session-sync/core/table"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// tableCmd manages the database table backend.
var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Manage sheets stored in the database backend",
}

var tableImportCmd = &cobra.Command{
	Use:   "import <sheet> <file.csv>",
	Short: "Replace a database-backed sheet with the content of a CSV file",
	Long: `Loads a CSV export (header row first) into the database table backend, e.g.

  table import Sessions sessions.csv
  table import Timesheet timesheet.csv`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadBase()
		if err != nil {
			return err
		}

		store := table.NewDBStore(rt.db)
		if err := store.Migrate(); err != nil {
			return err
		}

		f, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[1], err)
		}
		defer f.Close()

		n, err := table.ImportCSV(cmd.Context(), store, args[0], f)
		if err != nil {
			return err
		}
		rt.logger.Info("Sheet imported", zap.String("sheet", args[0]), zap.Int("rows", n))
		if rt.cfg.Table.Backend != table.BackendDatabase {
			rt.logger.Warn("TABLE_BACKEND is not database, the imported sheet is not used")
		}
		return nil
	},
}

func init() {
	tableCmd.AddCommand(tableImportCmd)
	RootCmd.AddCommand(tableCmd)
}
