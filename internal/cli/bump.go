package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vladcosorg/actiongen/internal/bump"
)

var (
	bumpChangelog      string
	bumpVersionFile    string
	bumpReleaseTagFile string
	bumpTagPrefix      string
)

func init() {
	bumpCmd.Flags().StringVar(&bumpChangelog, "changelog", "", "Write the release changelog to this file")
	bumpCmd.Flags().StringVar(&bumpVersionFile, "version-file", "", "Write the new version to this file")
	bumpCmd.Flags().StringVar(&bumpReleaseTagFile, "release-tag-file", "", "Write the release tag to this file")
	bumpCmd.Flags().StringVar(&bumpTagPrefix, "tag-prefix", bump.DefaultTagPrefix, "Prefix of release tags")
	rootCmd.AddCommand(bumpCmd)
	rootCmd.AddCommand(unbumpCmd)
}

var bumpCmd = &cobra.Command{
	Use:   "bump",
	Short: "Compute the next version from conventional commits",
	Long: `Find the latest release tag, read the commits since, and set the package
version to the next semantic version. Breaking changes bump the major version,
features the minor version, everything else the patch version.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := bump.Bump(bump.Options{
			Dir:            projectDir,
			ChangelogFile:  bumpChangelog,
			VersionFile:    bumpVersionFile,
			ReleaseTagFile: bumpReleaseTagFile,
			TagPrefix:      bumpTagPrefix,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s -> %s (%d commits)\n",
			okLabel(), res.Previous, infoColor.Sprint(res.Tag), len(res.Commits))
		return nil
	},
}

var unbumpCmd = &cobra.Command{
	Use:   "unbump",
	Short: "Reset the package version to 0.0.0",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return bump.Unbump(filepath.Join(projectDir, "package.json"))
	},
}
