package chunk

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultMaxChars is the soft character budget of one chunk.
	DefaultMaxChars = 1500
	// DefaultMinChars is the length a chunk must exceed to be kept.
	DefaultMinChars = 40
)

// sentenceEnd matches terminal punctuation and the whitespace after it.
var sentenceEnd = regexp.MustCompile(`[.!?]\s+`)

// Sentences splits text after '.', '!' or '?' followed by whitespace. The
// punctuation stays with its sentence and the whitespace is consumed.
func Sentences(text string) []string {
	var sentences []string
	start := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		sentences = append(sentences, text[start:loc[0]+1])
		start = loc[1]
	}
	return append(sentences, text[start:])
}

// Split packs the sentences of text greedily into chunks of at most maxChars
// runes, not counting the joining spaces. A sentence longer than the budget
// becomes a chunk of its own and is never truncated. Chunks of minChars runes
// or fewer are dropped; the survivors are numbered from zero. Split returns
// the kept records and the number dropped.
func Split(source, text string, maxChars, minChars int) ([]Record, int) {
	if strings.TrimSpace(text) == "" {
		return nil, 0
	}

	var (
		records []Record
		dropped int
		current []string
		size    int
	)
	emit := func() {
		joined := strings.TrimSpace(strings.Join(current, " "))
		if utf8.RuneCountInString(joined) <= minChars {
			dropped++
			return
		}
		records = append(records, Record{
			SourceFile: source,
			ChunkID:    len(records),
			Text:       joined,
		})
	}

	for _, sentence := range Sentences(text) {
		n := utf8.RuneCountInString(sentence)
		if size+n > maxChars && len(current) > 0 {
			emit()
			current = []string{sentence}
			size = n
			continue
		}
		current = append(current, sentence)
		size += n
	}
	if len(current) > 0 {
		emit()
	}
	return records, dropped
}
