package cli

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vladcosorg/actiongen/internal/action"
	"github.com/vladcosorg/actiongen/internal/branding"
	"github.com/vladcosorg/actiongen/internal/config"
	"github.com/vladcosorg/actiongen/internal/project"
)

var (
	checkRuntime  bool
	checkSettings bool
	checkMetadata bool
)

func init() {
	doctorCmd.Flags().BoolVar(&checkRuntime, "check-runtime", false, "Verify node, npm and git are available")
	doctorCmd.Flags().BoolVar(&checkSettings, "check-settings", false, "Verify the settings file loads")
	doctorCmd.Flags().BoolVar(&checkMetadata, "check-metadata", false, "Validate the synthesized action.yml")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Health check for the project and its toolchain",
	Long:  `Run diagnostic checks on the project directory and the tools the generated tasks call.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		all := !checkRuntime && !checkSettings && !checkMetadata

		if all || checkRuntime {
			runRuntimeCheck(w)
		}
		var failed bool
		if all || checkSettings {
			if err := runSettingsCheck(w, projectDir); err != nil {
				failed = true
			}
		}
		if all || checkMetadata {
			path := filepath.Join(projectDir, action.MetadataFile)
			if _, err := os.Stat(path); err != nil {
				fmt.Fprintf(w, "Metadata validation: %s\n  %s not synthesized yet (run `%s synth`)\n",
					path, missLabel(), branding.CLIName())
			} else if err := runMetadataCheck(w, path); err != nil {
				failed = true
			}
		}

		if failed {
			return fmt.Errorf("doctor found problems")
		}
		return nil
	},
}

func runRuntimeCheck(w io.Writer) {
	fmt.Fprintln(w, "Runtime check:")
	checkBinary(w, "node")
	checkBinary(w, "npm")
	checkBinary(w, "git")
	checkBinary(w, "gh")
}

func checkBinary(w io.Writer, name string) {
	path, err := exec.LookPath(name)
	if err != nil {
		fmt.Fprintf(w, "  %s %s not found\n", missLabel(), name)
		return
	}
	fmt.Fprintf(w, "  %s %s found at %s\n", okLabel(), name, path)
}

func runSettingsCheck(w io.Writer, dir string) error {
	fmt.Fprintf(w, "Settings check: %s\n", config.FilePath(dir))

	s, err := config.Load(dir)
	if err != nil {
		fmt.Fprintf(w, "  %s %v\n", failLabel(), err)
		return err
	}
	fmt.Fprintf(w, "  %s %s is valid\n", okLabel(), branding.RCFile())

	if s.Repository == "" {
		fmt.Fprintf(w, "  %s no repository configured and no git origin found\n", warnLabel())
	}
	if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(project.TasksFile()))); err != nil {
		fmt.Fprintf(w, "  %s tasks manifest missing (run `%s synth`)\n", warnLabel(), branding.CLIName())
	}
	if md := s.ActionMetadata; md != nil && md.Inputs.IsRef() && filepath.Ext(md.Inputs.Ref) != "" {
		ref := filepath.Join(dir, filepath.FromSlash(md.Inputs.Ref))
		if _, err := os.Stat(ref); err != nil {
			fmt.Fprintf(w, "  %s inputs reference %s does not exist\n", warnLabel(), md.Inputs.Ref)
		}
	}
	return nil
}
