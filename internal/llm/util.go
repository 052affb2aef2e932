package llm

import (
	"regexp"
	"strings"
)

// fence matches a Markdown code block, capturing its body.
var fence = regexp.MustCompile("(?s)```[A-Za-z]*[ \t]*\n?(.*?)```")

// CleanJSONBlock extracts the JSON payload from a model answer. Models wrap
// JSON in code fences or prose even when asked not to, so the first fenced
// block wins, then everything outside the outermost braces or brackets is dropped.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if m := fence.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}

	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return text
	}
	closer := "}"
	if text[start] == '[' {
		closer = "]"
	}
	end := strings.LastIndex(text, closer)
	if end < start {
		return text[start:]
	}
	return text[start : end+1]
}
