package cmd

import (
	"fmt"

	"session-sync/core/google"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// authCmd obtains and stores the OAuth token used for Google APIs.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize access to Google Sheets, Calendar, Forms and Gmail",
	Long: `Prints the Google consent URL, reads the authorization code and stores the
resulting token in the database. Not needed when GOOGLE_CREDENTIALS_FILE points to a
service account key.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadBase()
		if err != nil {
			return err
		}
		cfg := rt.cfg.Google
		if !cfg.UsesOAuth() {
			return fmt.Errorf("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET are required")
		}

		fmt.Printf("Open this URL in a browser and authorize access:\n\n%s\n\n", google.AuthCodeURL(cfg))
		code, err := prompt("Authorization code: ")
		if err != nil {
			return fmt.Errorf("failed to read authorization code: %w", err)
		}
		if code == "" {
			return fmt.Errorf("authorization code is empty")
		}

		tok, err := google.Exchange(cmd.Context(), cfg, rt.tokens, code)
		if err != nil {
			return err
		}
		rt.logger.Info("Token stored",
			zap.String("account", cfg.Account),
			zap.Time("expiry", tok.Expiry),
			zap.Bool("refreshable", tok.RefreshToken != ""),
		)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(authCmd)
}
