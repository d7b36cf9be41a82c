// Package chunk splits normalized transcript text into sentence-bounded records.
package chunk

// Record is a single JSONL record in the knowledge pack.
type Record struct {
	SourceFile string `json:"source_file"`
	ChunkID    int    `json:"chunk_id"`
	Text       string `json:"text"`
}

// Texts returns the text of every record in order.
func Texts(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Text
	}
	return out
}
