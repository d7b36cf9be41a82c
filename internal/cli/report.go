package knowpack

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mwiater/knowpack/internal/pipeline"
	"github.com/mwiater/knowpack/internal/transcript"
)

var (
	okText   = color.New(color.FgGreen).SprintFunc()
	warnText = color.New(color.FgYellow).SprintFunc()
	failText = color.New(color.FgRed, color.Bold).SprintFunc()

	reportBox   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	reportTitle = lipgloss.NewStyle().Bold(true)
)

// renderReport prints the boxed run summary. With verbose set every skipped
// file is listed with its reason; otherwise only failures are.
func renderReport(out io.Writer, r pipeline.Report, verbose bool) {
	var b strings.Builder
	b.WriteString(reportTitle.Render("Knowledge pack built"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Run:          %s\n", r.RunID)
	fmt.Fprintf(&b, "Archive:      %s\n", r.Archive)
	fmt.Fprintf(&b, "Files:        %d extracted, %d transcripts\n", r.Extracted, r.Discovered)
	fmt.Fprintf(&b, "Read:         %s ok, %s empty, %s failed\n",
		okText(r.Count(transcript.StatusOK)),
		warnText(r.Count(transcript.StatusEmpty)),
		failText(r.Count(transcript.StatusFailed)))
	fmt.Fprintf(&b, "Chunks:       %d written, %d too short\n", r.Chunks, r.Dropped)
	fmt.Fprintf(&b, "Sources:      %d\n", r.Sources)
	if r.IndexErr != nil {
		fmt.Fprintf(&b, "Term index:   %s\n", warnText("skipped: "+r.IndexErr.Error()))
	} else {
		fmt.Fprintf(&b, "Term index:   %d terms\n", r.Vocabulary)
	}
	fmt.Fprintf(&b, "Elapsed:      %s", r.Elapsed.Truncate(time.Millisecond))

	fmt.Fprintln(out, reportBox.Render(b.String()))

	for _, o := range r.Skipped() {
		switch {
		case o.Status == transcript.StatusFailed:
			fmt.Fprintf(out, "%s %s: %v\n", failText("failed"), o.Source, o.Err)
		case verbose:
			fmt.Fprintf(out, "%s %s: no text after cleaning\n", warnText("empty"), o.Source)
		}
	}
}
