package cli

import (
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/vladcosorg/actiongen/internal/branding"
	"github.com/vladcosorg/actiongen/internal/config"
	"github.com/vladcosorg/actiongen/internal/logging"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	projectDir string
	verbose    bool
	quiet      bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectDir, "dir", "C", ".", "Project directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug logs")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only print warnings and errors")
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: heredoc.Docf(`
		%s generates and maintains the configuration of a TypeScript GitHub Action:
		package.json, build tasks, tsconfig files, action.yml and the release workflow.

		Settings live in %s. Generated files are read-only; edit the settings
		and run '%s synth' again.`,
		branding.DisplayName(), branding.RCFile(), branding.CLIName()),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch {
		case verbose:
			logging.SetDebug()
		case quiet:
			logging.SetQuiet()
		}

		if cmd.Name() == "version" {
			return nil
		}
		if err := config.LoadEnv(projectDir); err != nil {
			return err
		}
		return nil
	},
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", failLabel(), err)
		return err
	}
	return nil
}
