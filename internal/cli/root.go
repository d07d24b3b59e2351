// Package cli implements the driveload command line interface.
package cli

import (
	"context"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/driveload/internal/config"
	"github.com/custodia-labs/driveload/internal/connectors/google"
	"github.com/custodia-labs/driveload/internal/logger"
)

var (
	verboseFlag bool
	configFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "driveload",
	Short: "Load Google Drive files as text documents",
	Long: `driveload authenticates against the Google Drive API, enumerates files
under a folder or by explicit id, downloads them (converting Google
Workspace documents to Office formats), and extracts their text with
provenance metadata attached.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (default ~/.driveload/config.toml)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (config.Config, error) {
	path := configFlag
	if path == "" {
		defaultPath, err := config.DefaultPath()
		if err != nil {
			return config.Default(), nil
		}
		path = defaultPath
	}
	return config.Load(path)
}

func newTokenSource(ctx context.Context, cfg config.Config) (oauth2.TokenSource, error) {
	source, err := google.NewCredentialSource(google.CredentialConfig{
		CredentialsPath:       cfg.CredentialsPath,
		TokenPath:             cfg.TokenPath,
		ServiceAccountKeyPath: cfg.ServiceAccountKeyPath,
		Cloud:                 cfg.Cloud,
	})
	if err != nil {
		return nil, err
	}
	return source.Obtain(ctx)
}
