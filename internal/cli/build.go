// internal/cli/build.go
package knowpack

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/mwiater/knowpack/internal/pipeline"
	"github.com/spf13/cobra"
)

// buildCmd runs the whole pipeline and writes the knowledge pack archive.
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the knowledge pack archive from the transcript archive",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			return fmt.Errorf("config is nil")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		report, err := pipeline.Run(ctx, *cfg, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		renderReport(cmd.OutOrStdout(), report, DebugEnabled())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
