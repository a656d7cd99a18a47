package llm

import (
	"encoding/json"
	"strings"
)

// ExtractJSON pulls a JSON object out of free-form model output. It tries a
// fenced ```json block first, then scans for the first balanced top-level
// object. ok is false when neither yields valid JSON; callers fall back to a
// conservative default rather than failing the phase.
func ExtractJSON(text string) (json.RawMessage, bool) {
	if raw, ok := extractFenced(text); ok {
		return raw, true
	}
	return extractBalanced(text)
}

func extractFenced(text string) (json.RawMessage, bool) {
	lower := strings.ToLower(text)
	start := strings.Index(lower, "```json")
	if start < 0 {
		return nil, false
	}
	body := text[start+len("```json"):]
	end := strings.Index(body, "```")
	if end < 0 {
		return nil, false
	}
	candidate := strings.TrimSpace(body[:end])
	if json.Valid([]byte(candidate)) {
		return json.RawMessage(candidate), true
	}
	// A fence with broken JSON inside may still contain a usable object.
	return extractBalanced(candidate)
}

func extractBalanced(text string) (json.RawMessage, bool) {
	start := strings.IndexByte(text, '{')
	for start >= 0 {
		if raw, ok := scanObject(text[start:]); ok {
			return raw, true
		}
		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start = start + 1 + next
	}
	return nil, false
}

// scanObject walks a candidate object from its opening brace, tracking string
// and escape state so braces inside string values do not confuse the count.
func scanObject(s string) (json.RawMessage, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					candidate := s[:i+1]
					if json.Valid([]byte(candidate)) {
						return json.RawMessage(candidate), true
					}
					return nil, false
				}
			}
		}
	}
	return nil, false
}
