package cmd

import (
	"github.com/spf13/cobra"
)

var payrollDryRun bool

// payrollCmd is the parent command for the payroll feature.
var payrollCmd = &cobra.Command{
	Use:   "payroll",
	Short: "Compute pay totals and notify approval decisions",
}

var payrollRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Write total pay and email pending approval decisions",
	Long: `Computes the total pay of every timesheet row and writes it to the Total Pay column.
Rows marked APPROVED or NOT APPROVED whose Notified cell is empty get one email, after
which Notified is stamped with the send time.

Examples:
  payroll run --dry-run
  payroll run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		report, err := rt.payroll.Run(cmd.Context(), payrollDryRun)
		if report != nil {
			if perr := printJSON(report); perr != nil {
				return perr
			}
		}
		return err
	},
}

func init() {
	payrollRunCmd.Flags().BoolVar(&payrollDryRun, "dry-run", false, "Only report what would change")
	payrollCmd.AddCommand(payrollRunCmd)
	RootCmd.AddCommand(payrollCmd)
}
