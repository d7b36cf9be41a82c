package transcript

import (
	"regexp"
	"strings"
)

// timestampPattern matches clock tokens such as "02:10", "1:02:03" or "[01:23:45]".
var timestampPattern = regexp.MustCompile(`\[?\b\d{1,2}:\d{2}(?::\d{2})?\]?`)

// Clean removes timestamp tokens, collapses whitespace runs to one space and trims.
func Clean(text string) string {
	if text == "" {
		return ""
	}
	text = timestampPattern.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(text), " ")
}
