// internal/cli/preview.go
package knowpack

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/mwiater/knowpack/internal/appconfig"
	"github.com/mwiater/knowpack/internal/chunk"
	"github.com/mwiater/knowpack/internal/index"
	"github.com/mwiater/knowpack/internal/transcript"
	"github.com/spf13/cobra"
)

// previewCmd cleans and chunks a single transcript file without writing anything.
var previewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Preview cleaning and chunking of one transcript file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			return fmt.Errorf("config is nil")
		}
		return runPreview(cmd.OutOrStdout(), *cfg, args[0])
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
}

func runPreview(out io.Writer, cfg appconfig.Config, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("preview %s: %w", path, err)
	}
	if !transcript.Supported(path) {
		return fmt.Errorf("preview %s: unsupported extension %q", path, filepath.Ext(path))
	}

	status := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		log.Print(msg)
		fmt.Fprintln(out, msg)
	}

	doc, outcome := transcript.Load(filepath.Dir(path), path)
	status("[PREVIEW] file: %s", path)
	status("[PREVIEW] status: %s", outcome.Status)
	switch outcome.Status {
	case transcript.StatusFailed:
		return outcome.Err
	case transcript.StatusEmpty:
		status("[PREVIEW] no text after cleaning")
		return nil
	}

	records, dropped := chunk.Split(doc.Source, doc.Text, cfg.MaxChunkChars, cfg.MinChunkChars)
	status("[PREVIEW] cleaned chars: %d", outcome.Chars)
	status("[PREVIEW] chunks: %d (dropped %d short)", len(records), dropped)

	var ix *index.Index
	if cfg.IndexTerms && len(records) > 0 {
		built, err := index.Build(chunk.Texts(records), index.Options{MaxDF: cfg.IndexMaxDF, MinDF: cfg.IndexMinDF})
		if err != nil {
			status("[PREVIEW] term index unavailable: %v", err)
		} else {
			ix = built
		}
	}

	for i, r := range records {
		status("[PREVIEW] chunk %d chars=%d terms=%s", r.ChunkID, utf8.RuneCountInString(r.Text), formatTerms(ix.Top(i, 5)))
		status("[PREVIEW] chunk %d text: %s", r.ChunkID, r.Text)
	}
	return nil
}

func formatTerms(terms []index.TermWeight) string {
	if len(terms) == 0 {
		return "-"
	}
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = fmt.Sprintf("%q:%.3f", t.Term, t.Weight)
	}
	return strings.Join(parts, ",")
}
