// jsonrepair.go - Best-effort repair of malformed JSON coming back from
// language models.

package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// StripCodeFence removes a leading/trailing markdown code fence. Models wrap
// JSON in ```json blocks no matter how firmly the prompt forbids it.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// Hebrew abbreviations (ק"ג, ח"פ, בע"מ) embed a quote between letters. When a
// model copies them into a JSON string unescaped, the document stops parsing.
// The repair swaps any quote flanked by letters or digits on both sides for
// gershayim, which is what the abbreviation actually means.
var embeddedQuote = regexp.MustCompile(`([\p{L}\p{N}])"([\p{L}\p{N}])`)

// RepairEmbeddedQuotes replaces quote characters that sit between word
// characters with gershayim. Structural quotes are never adjacent to word
// characters on both sides, so they survive.
func RepairEmbeddedQuotes(s string) string {
	// Run twice: overlapping matches (ק"ג"ל) leave one behind on a single pass.
	s = embeddedQuote.ReplaceAllString(s, "$1״$2")
	return embeddedQuote.ReplaceAllString(s, "$1״$2")
}

// Models also emit literal control characters inside JSON strings, which Go's
// parser rejects. Escape them in place within each string value.
var jsonString = regexp.MustCompile(`"([^"]*(?:\\.[^"]*)*)"`)

// EscapeControlChars escapes literal newlines, tabs, and other control
// characters found inside JSON string values.
func EscapeControlChars(jsonStr string) string {
	return jsonString.ReplaceAllStringFunc(jsonStr, func(match string) string {
		if len(match) < 2 {
			return match
		}
		content := match[1 : len(match)-1]
		content = strings.ReplaceAll(content, "\\ ", "\\\\ ")
		content = strings.ReplaceAll(content, "\n", "\\n")
		content = strings.ReplaceAll(content, "\r", "\\r")
		content = strings.ReplaceAll(content, "\t", "\\t")
		content = strings.ReplaceAll(content, "\f", "\\f")
		content = strings.ReplaceAll(content, "\b", "\\b")

		var builder strings.Builder
		for _, ch := range content {
			if ch < 0x20 {
				builder.WriteString(fmt.Sprintf("\\u%04x", ch))
			} else {
				builder.WriteRune(ch)
			}
		}
		return `"` + builder.String() + `"`
	})
}

// UnmarshalLenient parses model output into v: strip the code fence, try as
// is, then retry with control characters escaped, then retry with embedded
// quotes repaired. Returns the last parse error when every attempt fails;
// callers fall back to defaults, they do not surface this to the user.
func UnmarshalLenient(raw string, v interface{}) error {
	cleaned := StripCodeFence(raw)

	err := json.Unmarshal([]byte(cleaned), v)
	if err == nil {
		return nil
	}

	escaped := EscapeControlChars(cleaned)
	if err = json.Unmarshal([]byte(escaped), v); err == nil {
		return nil
	}

	repaired := RepairEmbeddedQuotes(escaped)
	return json.Unmarshal([]byte(repaired), v)
}
