// internal/cli/root.go
package knowpack

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mwiater/knowpack/internal/appconfig"
	"github.com/mwiater/knowpack/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	configLoaded  bool
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

var (
	boolKeys   = []string{"debug", "clean", "indexTerms"}
	stringKeys = []string{"inputArchive", "workDir", "outputDir", "outputArchive", "logFile"}
	intKeys    = []string{"maxChunkChars", "minChunkChars", "indexMinDF"}
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "knowpack",
	Short: "knowpack: turn a transcript archive into a chunked knowledge pack",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureConfigLoaded(); err != nil {
			return err
		}

		// Copy config values into flags the user did not set so flags and
		// viper agree on the final value.
		for _, name := range boolKeys {
			if !cmd.Flags().Changed(name) {
				_ = cmd.Flags().Set(name, strconv.FormatBool(viper.GetBool(name)))
			}
		}
		for _, name := range stringKeys {
			if !cmd.Flags().Changed(name) {
				_ = cmd.Flags().Set(name, viper.GetString(name))
			}
		}
		for _, name := range intKeys {
			if !cmd.Flags().Changed(name) {
				_ = cmd.Flags().Set(name, strconv.Itoa(viper.GetInt(name)))
			}
		}
		if !cmd.Flags().Changed("indexMaxDF") {
			_ = cmd.Flags().Set("indexMaxDF", strconv.FormatFloat(viper.GetFloat64("indexMaxDF"), 'f', -1, 64))
		}

		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		cfg.ConfigPath = loadedConfigFile()
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		currentConfig = &cfg

		if err := logging.Init(currentConfig.LogFilePath(), currentConfig.Debug); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		_ = logging.Close()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	def := appconfig.Default()
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (JSON or YAML)")

	flags.Bool("debug", false, "mirror the log to stdout")
	flags.Bool("clean", false, "remove the work dir before extracting")
	flags.Bool("indexTerms", def.IndexTerms, "compute the in-memory term index")
	flags.String("inputArchive", def.InputArchive, "transcript archive to read")
	flags.String("workDir", def.WorkDir, "directory the archive is extracted into")
	flags.String("outputDir", def.OutputDir, "directory the pack files are written to")
	flags.String("outputArchive", def.OutputArchive, "knowledge pack archive to write")
	flags.String("logFile", "", "path to the log file")
	flags.Int("maxChunkChars", def.MaxChunkChars, "soft character budget per chunk")
	flags.Int("minChunkChars", def.MinChunkChars, "chunks this long or shorter are dropped")
	flags.Int("indexMinDF", def.IndexMinDF, "drop terms found in fewer chunks than this")
	flags.Float64("indexMaxDF", def.IndexMaxDF, "drop terms found in more than this fraction of chunks")

	for _, name := range configKeys() {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
}

// configKeys returns every config key that has a matching persistent flag.
func configKeys() []string {
	keys := make([]string, 0, len(boolKeys)+len(stringKeys)+len(intKeys)+1)
	keys = append(keys, boolKeys...)
	keys = append(keys, stringKeys...)
	keys = append(keys, intKeys...)
	return append(keys, "indexMaxDF")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded reads the config and sets safe defaults. A missing
// config file is not an error.
func ensureConfigLoaded() error {
	configLoaded = false
	def := appconfig.Default()
	viper.SetDefault("inputArchive", def.InputArchive)
	viper.SetDefault("workDir", def.WorkDir)
	viper.SetDefault("outputDir", def.OutputDir)
	viper.SetDefault("outputArchive", def.OutputArchive)
	viper.SetDefault("maxChunkChars", def.MaxChunkChars)
	viper.SetDefault("minChunkChars", def.MinChunkChars)
	viper.SetDefault("indexTerms", def.IndexTerms)
	viper.SetDefault("indexMaxDF", def.IndexMaxDF)
	viper.SetDefault("indexMinDF", def.IndexMinDF)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to load config: %w", err)
	}
	configLoaded = true
	return nil
}

// loadedConfigFile returns the config file in use, or "" when running on defaults.
func loadedConfigFile() string {
	if !configLoaded {
		return ""
	}
	return viper.ConfigFileUsed()
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// DebugEnabled returns true if debug mode is enabled.
func DebugEnabled() bool { return viper.GetBool("debug") }

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}
