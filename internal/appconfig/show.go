package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	if cfg == nil {
		def := Default()
		cfg = &def
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Debug:           %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Input Archive:   %s\n", cfg.InputArchive)
	fmt.Fprintf(out, "  Work Dir:        %s\n", cfg.WorkDir)
	fmt.Fprintf(out, "  Output Dir:      %s\n", cfg.OutputDir)
	fmt.Fprintf(out, "  Output Archive:  %s\n", cfg.OutputArchive)
	fmt.Fprintf(out, "  Max Chunk Chars: %d\n", cfg.MaxChunkChars)
	fmt.Fprintf(out, "  Min Chunk Chars: %d\n", cfg.MinChunkChars)
	fmt.Fprintf(out, "  Clean Work Dir:  %v\n", cfg.Clean)
	fmt.Fprintf(out, "  Log File:        %s\n", cfg.LogFilePath())
	fmt.Fprintf(out, "  Index Terms:     %v\n", cfg.IndexTerms)
	if cfg.IndexTerms {
		fmt.Fprintf(out, "  Index Max DF:    %v\n", cfg.IndexMaxDF)
		fmt.Fprintf(out, "  Index Min DF:    %d\n", cfg.IndexMinDF)
	}
}
