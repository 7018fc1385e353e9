package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vladcosorg/actiongen/internal/action"
	"github.com/vladcosorg/actiongen/internal/metadata"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate action metadata",
	Long:  `Validate an action.yml against the action metadata schema. Defaults to the action.yml of the project.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := filepath.Join(projectDir, action.MetadataFile)
		if len(args) == 1 {
			path = args[0]
		}
		return runMetadataCheck(cmd.OutOrStdout(), path)
	},
}

func runMetadataCheck(w io.Writer, path string) error {
	fmt.Fprintf(w, "Metadata validation: %s\n", path)

	result, err := metadata.ValidateFile(path)
	if err != nil {
		fmt.Fprintf(w, "  %s %v\n", failLabel(), err)
		return fmt.Errorf("metadata validation failed: %w", err)
	}

	if result.Valid {
		md, err := metadata.ParseFile(path)
		if err != nil {
			fmt.Fprintf(w, "  %s Valid metadata\n", okLabel())
			return nil
		}
		fmt.Fprintf(w, "  %s Valid action: %s (runs %s)\n", okLabel(), md.Name, md.Runs.Using)
		return nil
	}

	fmt.Fprintf(w, "  %s %d validation issue(s):\n", failLabel(), len(result.Issues))
	for _, issue := range result.Issues {
		if issue.Path != "" {
			fmt.Fprintf(w, "    - %s: %s\n", issue.Path, issue.Message)
		} else {
			fmt.Fprintf(w, "    - %s\n", issue.Message)
		}
	}
	return fmt.Errorf("%s has %d validation issue(s)", path, len(result.Issues))
}
