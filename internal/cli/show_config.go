// internal/cli/show_config.go
package knowpack

import (
	"fmt"

	"github.com/k0kubun/pp"
	"github.com/mwiater/knowpack/internal/appconfig"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var showConfigFormat string

// showConfigCmd implements 'show config', which prints the merged configuration.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the config file is loaded properly and overridden by flags accordingly.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		cfg := GetConfig()
		if cfg == nil {
			def := appconfig.Default()
			cfg = &def
		}

		switch showConfigFormat {
		case "", "text":
			appconfig.ShowConfig(out, loadedConfigFile(), cfg)
		case "yaml":
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			fmt.Fprint(out, string(data))
		case "raw":
			pp.Fprintln(out, cfg)
		default:
			return fmt.Errorf("unknown format %q (want text, yaml or raw)", showConfigFormat)
		}
		return nil
	},
}

func init() {
	showConfigCmd.Flags().StringVarP(&showConfigFormat, "format", "f", "text", "output format: text, yaml or raw")
	showCmd.AddCommand(showConfigCmd)
}
