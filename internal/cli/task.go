package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/vladcosorg/actiongen/internal/logging"
	"github.com/vladcosorg/actiongen/internal/runtime"
)

var taskList bool

func init() {
	taskCmd.Flags().BoolVarP(&taskList, "list", "l", false, "List tasks")
	rootCmd.AddCommand(taskCmd)
}

var taskCmd = &cobra.Command{
	Use:   "task [name]",
	Short: "Run a task of the synthesized project",
	Long:  `Run a task from the tasks manifest written by synth. Spawned tasks run in the same process.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := runtime.New(projectDir)
		if err != nil {
			return err
		}
		r.Stdout = cmd.OutOrStdout()
		r.Stderr = cmd.ErrOrStderr()
		r.Logger = logging.Named("task")

		if taskList || len(args) == 0 {
			w := cmd.OutOrStdout()
			for _, name := range r.Names() {
				fmt.Fprintf(w, "  %-12s %s\n", infoColor.Sprint(name), r.Manifest.Tasks[name].Description)
			}
			return nil
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return r.Run(ctx, args[0])
	},
}
