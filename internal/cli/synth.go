package cli

import (
	"fmt"
	"io"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/vladcosorg/actiongen/internal/action"
	"github.com/vladcosorg/actiongen/internal/config"
	"github.com/vladcosorg/actiongen/internal/logging"
)

func init() {
	rootCmd.AddCommand(synthCmd)
}

var synthCmd = &cobra.Command{
	Use:   "synth",
	Short: "Generate the project files from the settings",
	Long: heredoc.Doc(`
		Read the settings file, then write package.json, the tasks manifest,
		tsconfig files, action.yml and the release workflow.

		When action_metadata.inputs names a schema file or a Go inputs file,
		action.yml is first written with empty inputs and rewritten once the
		reference is resolved.`),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return synth(cmd.OutOrStdout(), projectDir)
	},
}

// newAction builds the generator for the project in dir.
func newAction(dir string) (*action.GitHubAction, error) {
	s, err := config.Load(dir)
	if err != nil {
		return nil, err
	}

	opts := s.ProjectOptions(dir)
	opts.Logger = logging.Named("synth")
	return action.New(action.Options{
		Options:              opts,
		DefaultReleaseBranch: s.DefaultReleaseBranch,
		MinNodeVersion:       s.MinNodeVersion,
		Deps:                 s.Deps,
		DevDeps:              s.DevDeps,
		ActionMetadata:       s.ActionMetadata,
	})
}

func synth(w io.Writer, dir string) error {
	a, err := newAction(dir)
	if err != nil {
		return err
	}
	if err := a.Synth(); err != nil {
		return err
	}

	generated := a.GeneratedPaths()
	fmt.Fprintf(w, "%s Synthesized %s (%d files)\n", okLabel(), a.Name, len(generated))
	for _, p := range generated {
		fmt.Fprintf(w, "  %s\n", infoColor.Sprint(p))
	}
	return nil
}
