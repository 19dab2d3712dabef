package generation

import (
	"encoding/json"
	"regexp"
	"strings"
)

// balancedObjectPattern matches brace-balanced substrings with at most one
// level of nesting. Used as a fallback when the depth scan finds no parsable
// candidate, e.g. when the model emits several JSON fragments amid prose.
var balancedObjectPattern = regexp.MustCompile(`\{(?:[^{}]|\{[^{}]*\})*\}`)

// ExtractObject recovers a single JSON object from raw model output,
// tolerating code fences, leading/trailing prose, and similar noise.
// Strategies are applied in order until one yields a parsable object:
//
//  1. strip a surrounding code fence (with or without a language tag)
//  2. scan from the first '{' tracking top-level brace depth and parse the
//     balanced candidate
//  3. try every balanced-brace substring in the text
//  4. parse the whole trimmed text as-is
//
// When everything fails it returns an *ExtractionError carrying a bounded
// excerpt of the offending text.
func ExtractObject(raw string) (map[string]any, error) {
	text := stripCodeFence(strings.TrimSpace(raw))

	if obj, ok := parseObject(firstBalancedObject(text)); ok {
		return obj, nil
	}

	for _, candidate := range balancedObjectPattern.FindAllString(text, -1) {
		if obj, ok := parseObject(candidate); ok {
			return obj, nil
		}
	}

	if obj, ok := parseObject(text); ok {
		return obj, nil
	}

	return nil, &ExtractionError{Excerpt: excerpt(text, excerptLimit)}
}

// stripCodeFence removes a leading ``` line (optionally carrying a language
// tag) and a trailing ``` marker. Text that is not fenced passes through
// unchanged.
func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}

	body := text[len("```"):]
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		// Drop the fence line together with any language tag on it.
		body = body[nl+1:]
	} else {
		body = ""
	}

	if end := strings.LastIndex(body, "```"); end >= 0 {
		body = body[:end]
	}

	return strings.TrimSpace(body)
}

// firstBalancedObject returns the substring from the first '{' to the
// position where the top-level brace depth returns to zero. Braces inside
// JSON strings do not count toward depth. Returns "" when no balanced
// object exists (for example, truncated output).
func firstBalancedObject(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
			// Braces inside strings are content, not structure.
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}

	return ""
}

// parseObject attempts to unmarshal candidate into a JSON object.
func parseObject(candidate string) (map[string]any, bool) {
	if candidate == "" {
		return nil, false
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(candidate), &obj); err != nil {
		return nil, false
	}
	return obj, true
}
