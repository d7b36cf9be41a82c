// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// defaultInputArchive is the transcript archive read when the config omits it.
	defaultInputArchive = "transcripts.zip"
	// defaultWorkDir receives the extracted transcript tree.
	defaultWorkDir = "transcripts"
	// defaultOutputDir receives the pack files before they are bundled.
	defaultOutputDir = "knowledge_pack"
	// defaultOutputArchive is the bundled knowledge pack.
	defaultOutputArchive = "knowledge_pack.zip"
	// defaultMaxChunkChars is the soft character budget for a single chunk.
	defaultMaxChunkChars = 1500
	// defaultMinChunkChars is the length a chunk must exceed to be kept.
	defaultMinChunkChars = 40
	// defaultIndexMaxDF drops terms present in more than this fraction of chunks.
	defaultIndexMaxDF = 0.9
	// defaultIndexMinDF drops terms present in fewer than this many chunks.
	defaultIndexMinDF = 2
)

// Config represents the top-level application configuration.
type Config struct {
	InputArchive  string  `json:"inputArchive" yaml:"inputArchive"`
	WorkDir       string  `json:"workDir" yaml:"workDir"`
	OutputDir     string  `json:"outputDir" yaml:"outputDir"`
	OutputArchive string  `json:"outputArchive" yaml:"outputArchive"`
	MaxChunkChars int     `json:"maxChunkChars" yaml:"maxChunkChars"`
	MinChunkChars int     `json:"minChunkChars" yaml:"minChunkChars"`
	IndexTerms    bool    `json:"indexTerms" yaml:"indexTerms"`
	IndexMaxDF    float64 `json:"indexMaxDF" yaml:"indexMaxDF"`
	IndexMinDF    int     `json:"indexMinDF" yaml:"indexMinDF"`
	Clean         bool    `json:"clean" yaml:"clean"`
	LogFile       string  `json:"logFile,omitempty" yaml:"logFile,omitempty"`
	Debug         bool    `json:"debug" yaml:"debug"`
	ConfigPath    string  `json:"-" yaml:"-"`
}

// Default returns the configuration used when no file or flag overrides a value.
func Default() Config {
	return Config{
		InputArchive:  defaultInputArchive,
		WorkDir:       defaultWorkDir,
		OutputDir:     defaultOutputDir,
		OutputArchive: defaultOutputArchive,
		MaxChunkChars: defaultMaxChunkChars,
		MinChunkChars: defaultMinChunkChars,
		IndexTerms:    true,
		IndexMaxDF:    defaultIndexMaxDF,
		IndexMinDF:    defaultIndexMinDF,
	}
}

// Validate reports the first configuration value that the pipeline cannot run with.
func (c Config) Validate() error {
	for _, field := range []struct {
		name  string
		value string
	}{
		{"inputArchive", c.InputArchive},
		{"workDir", c.WorkDir},
		{"outputDir", c.OutputDir},
		{"outputArchive", c.OutputArchive},
	} {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%s is required", field.name)
		}
	}
	if c.MaxChunkChars <= 0 {
		return fmt.Errorf("maxChunkChars must be greater than zero")
	}
	if c.MinChunkChars < 0 {
		return fmt.Errorf("minChunkChars must be zero or greater")
	}
	if c.IndexTerms {
		if c.IndexMaxDF <= 0 || c.IndexMaxDF > 1 {
			return fmt.Errorf("indexMaxDF must be in (0, 1], got %v", c.IndexMaxDF)
		}
		if c.IndexMinDF < 1 {
			return fmt.Errorf("indexMinDF must be at least 1, got %d", c.IndexMinDF)
		}
	}
	return nil
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "knowpack.log"
}

// LockPath returns the path of the lock file guarding the working directory.
func (c Config) LockPath() string {
	return filepath.Clean(c.WorkDir) + ".lock"
}

// Load reads the application configuration from the specified path. Keys
// missing from the file keep their default values.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("no configuration file found at %q", path)
		}
		return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %q: %w", path, err)
	}
	config.ConfigPath = path
	return config, nil
}

// loadFromPath decodes the file over the defaults, choosing the decoder by extension.
func loadFromPath(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	config := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(file).Decode(&config); err != nil {
			return Config{}, err
		}
	default:
		if err := json.NewDecoder(file).Decode(&config); err != nil {
			return Config{}, err
		}
	}

	return config, nil
}
