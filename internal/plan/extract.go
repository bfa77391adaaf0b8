package plan

import (
	"strings"

	"github.com/tidwall/gjson"
)

// ExtractJSON isolates the JSON payload from raw model output. Models
// sometimes wrap the JSON in markdown code fences or surround it with
// prose; both are tolerated. Fails with a malformed_response error when no
// valid JSON value can be found.
func ExtractJSON(raw string) (string, error) {
	s := stripJSONFences(raw)
	if gjson.Valid(s) && startsWithJSON(s) {
		return s, nil
	}

	// Fall back to scanning for a bracket-balanced candidate inside
	// surrounding prose.
	if c := scanJSONValue(s); c != "" && gjson.Valid(c) {
		return c, nil
	}

	e := Errorf(KindMalformedResponse, "no JSON value found in model output")
	e.Raw = raw
	return "", e
}

// stripJSONFences removes markdown code fences that models sometimes add.
func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	// Remove ```json ... ``` or ``` ... ```
	if strings.HasPrefix(s, "```") {
		// Strip opening fence line
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		}
		// Strip closing fence
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	return s
}

func startsWithJSON(s string) bool {
	return strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[")
}

// scanJSONValue finds the first bracket-balanced object or array in s,
// skipping brackets inside string literals. Returns "" if none exists.
func scanJSONValue(s string) string {
	start := strings.IndexAny(s, "[{")
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[', '{':
			depth++
		case ']', '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
