// Package pack writes the knowledge pack files and bundles them into an archive.
package pack

import (
	"bufio"
	"embed"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/mwiater/knowpack/internal/archive"
	"github.com/mwiater/knowpack/internal/chunk"
)

const (
	ChunksFile       = "chunks.jsonl"
	SummaryFile      = "sources_summary.csv"
	InstructionsFile = "model_instructions.md"
	ReadmeFile       = "README.md"
	// MirrorPrefix is where the extracted tree is placed inside the archive.
	MirrorPrefix = "docs/full"
)

//go:embed docs/*.md
var docs embed.FS

// Files lists the pack files in the order they are bundled.
var Files = []string{ChunksFile, SummaryFile, InstructionsFile, ReadmeFile}

// Summary is one row of the per-source summary.
type Summary struct {
	SourceFile string
	ChunkCount int
}

// Options names the directories and archive a pack is written to.
type Options struct {
	OutputDir     string
	OutputArchive string
	// MirrorDir is bundled under MirrorPrefix.
	MirrorDir string
}

// Result describes a written pack.
type Result struct {
	Archive   string
	Records   int
	Summaries []Summary
	Mirrored  int
}

// Write writes every pack file into opts.OutputDir and bundles them with the
// mirrored tree into opts.OutputArchive.
func Write(opts Options, records []chunk.Record) (Result, error) {
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create output directory: %w", err)
	}

	if err := WriteChunks(filepath.Join(opts.OutputDir, ChunksFile), records); err != nil {
		return Result{}, err
	}
	summaries := Summarize(records)
	if err := WriteSummary(filepath.Join(opts.OutputDir, SummaryFile), summaries); err != nil {
		return Result{}, err
	}
	if err := WriteDocs(opts.OutputDir); err != nil {
		return Result{}, err
	}

	mirrored, err := Bundle(opts.OutputArchive, opts.OutputDir, opts.MirrorDir)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Archive:   opts.OutputArchive,
		Records:   len(records),
		Summaries: summaries,
		Mirrored:  mirrored,
	}, nil
}

// WriteChunks writes one JSON object per record and line. Non-ASCII and
// HTML characters are written unescaped.
func WriteChunks(path string, records []chunk.Record) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chunks file: %w", err)
	}
	defer out.Close()

	writer := bufio.NewWriter(out)
	encoder := json.NewEncoder(writer)
	encoder.SetEscapeHTML(false)
	for _, r := range records {
		if err := encoder.Encode(r); err != nil {
			return fmt.Errorf("write chunk record: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush chunks: %w", err)
	}
	return out.Close()
}

// Summarize counts records per source file, ordered by source file.
func Summarize(records []chunk.Record) []Summary {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.SourceFile]++
	}
	rows := make([]Summary, 0, len(counts))
	for source, n := range counts {
		rows = append(rows, Summary{SourceFile: source, ChunkCount: n})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SourceFile < rows[j].SourceFile })
	return rows
}

// WriteSummary writes rows as CSV with a source_file,chunk_count header.
func WriteSummary(path string, rows []Summary) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create summary file: %w", err)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	if err := w.Write([]string{"source_file", "chunk_count"}); err != nil {
		return fmt.Errorf("write summary header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write([]string{row.SourceFile, strconv.Itoa(row.ChunkCount)}); err != nil {
			return fmt.Errorf("write summary row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush summary: %w", err)
	}
	return out.Close()
}

// WriteDocs writes the fixed instruction and readme documents into dir.
func WriteDocs(dir string) error {
	for _, name := range []string{InstructionsFile, ReadmeFile} {
		data, err := docs.ReadFile("docs/" + name)
		if err != nil {
			return fmt.Errorf("load %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}

// Bundle zips the pack files from outDir at the archive root and mirrors
// mirrorDir under MirrorPrefix. It returns the number of mirrored files.
func Bundle(archivePath, outDir, mirrorDir string) (int, error) {
	w, err := archive.Create(archivePath)
	if err != nil {
		return 0, err
	}
	for _, name := range Files {
		if err := w.AddFile(filepath.Join(outDir, name), name); err != nil {
			_ = w.Close()
			return 0, err
		}
	}
	mirrored, err := w.AddTree(mirrorDir, MirrorPrefix)
	if err != nil {
		_ = w.Close()
		return 0, err
	}
	if err := w.Close(); err != nil {
		return 0, err
	}
	return mirrored, nil
}
