package genai

import "strings"

// StripFences returns the body of the first fenced block in s, preferring a
// ```json fence over a bare one. Text without fences is returned trimmed.
func StripFences(s string) string {
	if body, ok := fencedBody(s, "```json"); ok {
		return body
	}
	if body, ok := fencedBody(s, "```"); ok {
		return body
	}
	return strings.TrimSpace(s)
}

func fencedBody(s, open string) (string, bool) {
	start := strings.Index(s, open)
	if start < 0 {
		return "", false
	}
	rest := s[start+len(open):]
	if end := strings.Index(rest, "```"); end >= 0 {
		rest = rest[:end]
	}
	// drop an info string such as "JSON" left on the opening line
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 && !strings.ContainsAny(rest[:nl], "{[\"") {
		rest = rest[nl+1:]
	}
	return strings.TrimSpace(rest), true
}
