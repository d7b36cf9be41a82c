// Package pipeline runs the extract, read, chunk, index and pack stages in order.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/mwiater/knowpack/internal/appconfig"
	"github.com/mwiater/knowpack/internal/archive"
	"github.com/mwiater/knowpack/internal/chunk"
	"github.com/mwiater/knowpack/internal/index"
	"github.com/mwiater/knowpack/internal/logging"
	"github.com/mwiater/knowpack/internal/pack"
	"github.com/mwiater/knowpack/internal/transcript"
)

// ErrLocked is returned when another run holds the working directory lock.
var ErrLocked = errors.New("working directory is locked by another run")

// Run builds a knowledge pack from cfg.InputArchive. Progress lines go to the
// log and to out, which may be nil. Per-file problems are collected in the
// report; extraction and write failures end the run.
func Run(ctx context.Context, cfg appconfig.Config, out io.Writer) (Report, error) {
	if err := cfg.Validate(); err != nil {
		return Report{}, fmt.Errorf("invalid config: %w", err)
	}
	if out == nil {
		out = io.Discard
	}

	start := time.Now()
	report := Report{RunID: uuid.NewString()}
	status := func(format string, args ...any) {
		elapsed := time.Since(start).Truncate(time.Millisecond)
		msg := fmt.Sprintf("[%s] %s", elapsed, fmt.Sprintf(format, args...))
		log.Print(msg)
		fmt.Fprintln(out, msg)
	}

	unlock, err := acquire(cfg.LockPath())
	if err != nil {
		return report, err
	}
	defer unlock()

	status("[PACK] Run %s", report.RunID)
	status("[PACK] Input archive: %s", cfg.InputArchive)
	status("[PACK] Work dir: %s", cfg.WorkDir)
	status("[PACK] Chunk budget: %d chars, minimum: %d chars", cfg.MaxChunkChars, cfg.MinChunkChars)

	if cfg.Clean {
		status("[PACK] Removing stale work dir: %s", cfg.WorkDir)
		if err := os.RemoveAll(cfg.WorkDir); err != nil {
			return report, fmt.Errorf("clean work dir: %w", err)
		}
	}

	extracted, err := archive.Extract(cfg.InputArchive, cfg.WorkDir)
	if err != nil {
		return report, fmt.Errorf("extract: %w", err)
	}
	report.Extracted = extracted
	status("[PACK] Extracted %d files", extracted)
	if err := ctx.Err(); err != nil {
		return report, err
	}

	files, err := transcript.Discover(cfg.WorkDir)
	if err != nil {
		return report, fmt.Errorf("discover transcripts: %w", err)
	}
	report.Discovered = len(files)
	status("[PACK] Discovered %d transcript files", len(files))

	var records []chunk.Record
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		doc, outcome := transcript.Load(cfg.WorkDir, path)
		if outcome.Status == transcript.StatusOK {
			recs, dropped := chunk.Split(doc.Source, doc.Text, cfg.MaxChunkChars, cfg.MinChunkChars)
			outcome.Chunks = len(recs)
			report.Dropped += dropped
			records = append(records, recs...)
		}
		report.Outcomes = append(report.Outcomes, outcome)
		logOutcome(report.RunID, outcome)
	}
	report.Chunks = len(records)
	status("[PACK] Chunked %d files into %d chunks (%d short chunks dropped, %d files skipped)",
		report.Count(transcript.StatusOK), report.Chunks, report.Dropped, len(report.Skipped()))

	if cfg.IndexTerms {
		ix, err := index.Build(chunk.Texts(records), index.Options{MaxDF: cfg.IndexMaxDF, MinDF: cfg.IndexMinDF})
		if err != nil {
			report.IndexErr = err
			logging.LogFields("index", "run", report.RunID, "status", "skipped", "err", err)
			status("[PACK] Term index skipped: %v", err)
		} else {
			report.Vocabulary = len(ix.Vocabulary)
			logging.LogFields("index", "run", report.RunID, "terms", len(ix.Vocabulary), "pruned", ix.Pruned)
			status("[PACK] Term index: %d terms over %d chunks", len(ix.Vocabulary), len(ix.Rows))
		}
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}

	res, err := pack.Write(pack.Options{
		OutputDir:     cfg.OutputDir,
		OutputArchive: cfg.OutputArchive,
		MirrorDir:     cfg.WorkDir,
	}, records)
	if err != nil {
		return report, fmt.Errorf("write pack: %w", err)
	}
	report.Archive = res.Archive
	report.Sources = len(res.Summaries)
	report.Mirrored = res.Mirrored
	report.Elapsed = time.Since(start)
	status("[PACK] Wrote %s (%d chunks, %d sources, %d mirrored files)", res.Archive, res.Records, report.Sources, res.Mirrored)

	return report, nil
}

// acquire takes an exclusive lock at path and returns its release function.
func acquire(path string) (func(), error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create lock directory: %w", err)
		}
	}
	lock := flock.New(path)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			logging.LogEvent("release lock %s: %v", path, err)
		}
	}, nil
}

func logOutcome(runID string, o transcript.Outcome) {
	switch o.Status {
	case transcript.StatusFailed:
		logging.LogFields("skip", "run", runID, "source", o.Source, "status", string(o.Status), "err", o.Err)
	case transcript.StatusEmpty:
		logging.LogFields("skip", "run", runID, "source", o.Source, "status", string(o.Status))
	default:
		logging.LogFields("read", "run", runID, "source", o.Source, "chars", o.Chars, "chunks", o.Chunks)
	}
}
