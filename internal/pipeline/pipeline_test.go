package pipeline

import (
	"archive/zip"
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwiater/knowpack/internal/appconfig"
	"github.com/mwiater/knowpack/internal/archive"
	"github.com/mwiater/knowpack/internal/chunk"
	"github.com/mwiater/knowpack/internal/index"
	"github.com/mwiater/knowpack/internal/pack"
	"github.com/mwiater/knowpack/internal/transcript"
)

func writeZip(t *testing.T, path string, entries [][2]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for _, e := range entries {
		w, err := zw.Create(e[0])
		require.NoError(t, err)
		_, err = w.Write([]byte(e[1]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func testConfig(dir string) appconfig.Config {
	cfg := appconfig.Default()
	cfg.InputArchive = filepath.Join(dir, "in.zip")
	cfg.WorkDir = filepath.Join(dir, "work")
	cfg.OutputDir = filepath.Join(dir, "pack")
	cfg.OutputArchive = filepath.Join(dir, "pack.zip")
	return cfg
}

func readRecords(t *testing.T, path string) []chunk.Record {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var records []chunk.Record
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	for sc.Scan() {
		var r chunk.Record
		require.NoError(t, json.Unmarshal(sc.Bytes(), &r))
		records = append(records, r)
	}
	require.NoError(t, sc.Err())
	return records
}

func TestRunMinimalArchive(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	writeZip(t, cfg.InputArchive, [][2]string{
		{"a.txt", strings.Repeat("a", 45)},
		{"b.json", `{"text":""}`},
	})

	var out bytes.Buffer
	report, err := Run(context.Background(), cfg, &out)
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 2, report.Extracted)
	assert.Equal(t, 2, report.Discovered)
	assert.Equal(t, 1, report.Chunks)
	assert.Equal(t, 1, report.Sources)
	assert.Equal(t, 1, report.Count(transcript.StatusOK))
	assert.Equal(t, 1, report.Count(transcript.StatusEmpty))
	require.Len(t, report.Skipped(), 1)
	assert.Equal(t, "b.json", report.Skipped()[0].Source)
	assert.ErrorIs(t, report.IndexErr, index.ErrBounds)
	assert.Equal(t, cfg.OutputArchive, report.Archive)
	assert.Equal(t, 2, report.Mirrored)
	assert.Contains(t, out.String(), "[PACK] Wrote")

	records := readRecords(t, filepath.Join(cfg.OutputDir, pack.ChunksFile))
	require.Len(t, records, 1)
	assert.Equal(t, chunk.Record{SourceFile: "a.txt", ChunkID: 0, Text: strings.Repeat("a", 45)}, records[0])

	summary, err := os.ReadFile(filepath.Join(cfg.OutputDir, pack.SummaryFile))
	require.NoError(t, err)
	assert.Equal(t, "source_file,chunk_count\na.txt,1\n", string(summary))
}

func TestRunChunksAndSkips(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.MaxChunkChars = 120

	var talk []string
	for i := 0; i < 12; i++ {
		talk = append(talk, "[00:0"+string(rune('0'+i%10))+"] Packs store transcript chunks for later questions.")
	}
	segments := `{"segments":[{"text":"First segment of the recorded talk goes here."},{"text":"Second segment adds a little more detail."}]}`
	writeZip(t, cfg.InputArchive, [][2]string{
		{"talks/long.md", strings.Join(talk, "\n")},
		{"talks/segments.json", segments},
		{"talks/broken.json", `{"segments": [`},
		{"notes/readme.srt", "not a transcript"},
	})

	report, err := Run(context.Background(), cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, 4, report.Extracted)
	assert.Equal(t, 3, report.Discovered)
	assert.Equal(t, 1, report.Count(transcript.StatusFailed))
	assert.NoError(t, report.IndexErr)
	assert.Positive(t, report.Vocabulary)

	records := readRecords(t, filepath.Join(cfg.OutputDir, pack.ChunksFile))
	require.Equal(t, report.Chunks, len(records))

	next := map[string]int{}
	for _, r := range records {
		assert.Equal(t, next[r.SourceFile], r.ChunkID, "ids for %s must be contiguous", r.SourceFile)
		next[r.SourceFile]++
		assert.Greater(t, len([]rune(r.Text)), 40)
		assert.NotContains(t, r.Text, "[00:")
	}
	assert.Greater(t, next["talks/long.md"], 1)
	assert.Equal(t, 1, next["talks/segments.json"])
	assert.Zero(t, next["talks/broken.json"])

	zr, err := zip.OpenReader(cfg.OutputArchive)
	require.NoError(t, err)
	defer zr.Close()
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "docs/full/notes/readme.srt")
	assert.Contains(t, names, "docs/full/talks/broken.json")
	assert.Equal(t, pack.Files, names[:len(pack.Files)])
}

func TestRunExtractionFailureIsFatal(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	require.NoError(t, os.WriteFile(cfg.InputArchive, []byte("garbage"), 0o644))

	_, err := Run(context.Background(), cfg, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, archive.ErrNotZip)
	_, statErr := os.Stat(cfg.OutputArchive)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunCleanRemovesStaleFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	writeZip(t, cfg.InputArchive, [][2]string{{"fresh.txt", strings.Repeat("fresh words ", 5)}})
	require.NoError(t, os.MkdirAll(cfg.WorkDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.WorkDir, "stale.txt"), []byte(strings.Repeat("stale words ", 5)), 0o644))

	report, err := Run(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Sources, "stale files are packed without --clean")

	cfg.Clean = true
	report, err = Run(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Sources)
}

func TestRunRespectsLock(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	writeZip(t, cfg.InputArchive, [][2]string{{"a.txt", strings.Repeat("b", 60)}})

	held := flock.New(cfg.LockPath())
	locked, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	t.Cleanup(func() { _ = held.Unlock() })

	_, err = Run(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, ErrLocked)
}

func TestRunCanceled(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	writeZip(t, cfg.InputArchive, [][2]string{{"a.txt", strings.Repeat("c", 60)}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, cfg, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunInvalidConfig(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.MaxChunkChars = 0
	_, err := Run(context.Background(), cfg, nil)
	assert.Error(t, err)
}
