package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize driveload against Google Drive",
	Long: `Runs credential resolution eagerly: a saved token is refreshed, or the
interactive consent flow is started. The resulting user token is saved
for later runs unless cloud mode is configured.`,
	RunE: runAuth,
}

func init() {
	rootCmd.AddCommand(authCmd)
}

func runAuth(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ts, err := newTokenSource(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	if _, err := ts.Token(); err != nil {
		return fmt.Errorf("obtain token: %w", err)
	}

	cmd.Println("Authorization OK.")
	return nil
}
