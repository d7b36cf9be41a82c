package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// ReadFile returns the raw transcript text of path. Plain text and markdown
// are returned as-is with invalid UTF-8 dropped; JSON transcripts are
// flattened by ExtractJSON. Unsupported extensions yield "".
func ReadFile(path string) (string, error) {
	ext := Ext(path)
	if !Supported(path) {
		return "", nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	text := strings.ToValidUTF8(string(raw), "")

	if ext != ".json" {
		return text, nil
	}

	var doc any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return "", fmt.Errorf("parse %s: %w", path, err)
	}
	out, err := ExtractJSON(doc)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// ExtractJSON flattens a decoded JSON transcript. Objects are tried as
// {"segments": [...]}, then {"items": [...]}, then {"text": "..."}; arrays
// are read element by element. Entries are joined with newlines.
func ExtractJSON(doc any) (string, error) {
	switch v := doc.(type) {
	case map[string]any:
		if _, ok := v["segments"]; ok {
			if err := conform(segmentsShape, v, "segments"); err != nil {
				return "", err
			}
			return joinEntries(v["segments"].([]any), false)
		}
		if _, ok := v["items"]; ok {
			if err := conform(itemsShape, v, "items"); err != nil {
				return "", err
			}
			return joinEntries(v["items"].([]any), false)
		}
		if text, ok := v["text"].(string); ok {
			return text, nil
		}
		return "", nil
	case []any:
		if err := conform(listShape, v, "list"); err != nil {
			return "", err
		}
		return joinEntries(v, true)
	default:
		return "", nil
	}
}

// joinEntries joins each entry's text. When fallback is set an entry with no
// text contributes its own JSON encoding instead of an empty line.
func joinEntries(entries []any, fallback bool) (string, error) {
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		obj := entry.(map[string]any)
		if text, ok := obj["text"].(string); ok {
			lines = append(lines, text)
			continue
		}
		if !fallback {
			lines = append(lines, "")
			continue
		}
		encoded, err := json.Marshal(obj)
		if err != nil {
			return "", fmt.Errorf("encode entry: %w", err)
		}
		lines = append(lines, string(encoded))
	}
	return strings.Join(lines, "\n"), nil
}
