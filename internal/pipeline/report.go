package pipeline

import (
	"time"

	"github.com/mwiater/knowpack/internal/transcript"
)

// Report summarizes one run.
type Report struct {
	RunID      string
	Extracted  int
	Discovered int
	Outcomes   []transcript.Outcome
	Chunks     int
	Dropped    int
	Sources    int
	Vocabulary int
	IndexErr   error
	Archive    string
	Mirrored   int
	Elapsed    time.Duration
}

// Count returns the number of outcomes with the given status.
func (r Report) Count(status transcript.Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// Skipped returns the outcomes of files that contributed no text.
func (r Report) Skipped() []transcript.Outcome {
	var out []transcript.Outcome
	for _, o := range r.Outcomes {
		if o.Skipped() {
			out = append(out, o)
		}
	}
	return out
}
