package transcript

import (
	"path/filepath"
	"unicode/utf8"
)

// Status classifies what happened to one discovered file.
type Status string

const (
	StatusOK     Status = "ok"
	StatusEmpty  Status = "empty"
	StatusFailed Status = "failed"
)

// Document is the normalized text of one transcript file.
type Document struct {
	Source string
	Path   string
	Text   string
}

// Outcome records the result of reading one file. Chunks is filled in by the
// caller once the document has been chunked.
type Outcome struct {
	Source string
	Status Status
	Chars  int
	Chunks int
	Err    error
}

// Skipped reports whether the file contributed no text.
func (o Outcome) Skipped() bool {
	return o.Status != StatusOK
}

// Load reads and cleans the file at path. Source is path relative to root
// with forward slashes. Read and parse errors are reported in the Outcome,
// never returned, so one bad file cannot abort a run.
func Load(root, path string) (Document, Outcome) {
	source := SourceName(root, path)
	outcome := Outcome{Source: source}

	raw, err := ReadFile(path)
	if err != nil {
		outcome.Status = StatusFailed
		outcome.Err = err
		return Document{}, outcome
	}

	text := Clean(raw)
	if text == "" {
		outcome.Status = StatusEmpty
		return Document{}, outcome
	}

	outcome.Status = StatusOK
	outcome.Chars = utf8.RuneCountInString(text)
	return Document{Source: source, Path: path, Text: text}, outcome
}

// SourceName returns path relative to root using forward slashes, falling
// back to the cleaned path when it is not below root.
func SourceName(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(filepath.Clean(path))
	}
	return filepath.ToSlash(rel)
}
