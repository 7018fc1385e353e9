package cli

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/vladcosorg/actiongen/internal/branding"
	"github.com/vladcosorg/actiongen/internal/scaffold"
)

var namePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-_]*$`)

var (
	newOutputDir   string
	newInputs      string
	newDescription string
	newNoSynth     bool
)

func init() {
	newCmd.Flags().StringVar(&newOutputDir, "output-dir", "", "Output directory (default: ./<name>)")
	newCmd.Flags().StringVar(&newInputs, "inputs", scaffold.InputsJSON, "Inputs format: json, go or none")
	newCmd.Flags().StringVar(&newDescription, "description", "", "Action description")
	newCmd.Flags().BoolVar(&newNoSynth, "no-synth", false, "Only write the settings, do not synthesize")
	rootCmd.AddCommand(newCmd)
}

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a new GitHub Action project",
	Long: heredoc.Docf(`
		Create the settings file of a new action and synthesize the project.

		Examples:
		  %[1]s new release-notes
		  %[1]s new release-notes --inputs go --output-dir ./actions/release-notes`,
		branding.CLIName()),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := validateName(name); err != nil {
			return err
		}

		data := scaffold.NewScaffoldData(name, newInputs)
		if newDescription != "" {
			data.Description = newDescription
		}
		outDir := resolveOutputDir(data.Name)

		result, err := scaffold.Generate(data, outDir)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Created %s at %s/\n", data.Name, result.OutputDir)
		for _, f := range result.Files {
			fmt.Fprintf(w, "  %s\n", f)
		}
		printWarnings(w, result.Warnings)

		if newNoSynth {
			return nil
		}
		fmt.Fprintln(w)
		if err := synth(w, outDir); err != nil {
			return err
		}

		fmt.Fprintln(w, "\nNext steps:")
		fmt.Fprintln(w, "  1. Run 'npm install'")
		fmt.Fprintln(w, "  2. Edit src/index.ts")
		fmt.Fprintf(w, "  3. Run '%s task build'\n", branding.CLIName())
		return nil
	},
}

func validateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("invalid name %q: use letters, digits, '-' and '_'", name)
	}
	return nil
}

func resolveOutputDir(name string) string {
	if newOutputDir != "" {
		return newOutputDir
	}
	return filepath.Join(projectDir, name)
}
