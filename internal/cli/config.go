package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vladcosorg/actiongen/internal/branding"
	"github.com/vladcosorg/actiongen/internal/config"
)

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect project settings",
	Long: fmt.Sprintf(`Read the project settings stored in %s. Scalar settings can be
overridden with %s_* environment variables or a .env file.`, branding.RCFile(), branding.EnvPrefix()),
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := config.Load(projectDir)
		if err != nil {
			return err
		}
		value := s.Get(args[0])
		if value == nil {
			return fmt.Errorf("setting %q is not set", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the scalar settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := config.Load(projectDir)
		if err != nil {
			return err
		}
		for _, key := range config.Keys() {
			value := s.Get(key)
			if value == nil {
				value = ""
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s=%v\n", key, value)
		}
		return nil
	},
}
