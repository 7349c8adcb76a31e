package curate

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeObject parses raw model text into out. It tries a strict parse
// first, then falls back to extracting the last syntactically complete
// top-level {...} block from surrounding prose or code fences.
func DecodeObject(raw string, out any) error {
	text := strings.TrimSpace(raw)
	if text == "" {
		return fmt.Errorf("empty completion text")
	}
	if err := json.Unmarshal([]byte(text), out); err == nil {
		return nil
	}
	obj := ExtractObject(text)
	if obj == "" {
		return fmt.Errorf("no JSON object found in completion text")
	}
	if err := json.Unmarshal([]byte(obj), out); err != nil {
		return fmt.Errorf("failed to parse extracted object: %w", err)
	}
	return nil
}

// ExtractObject returns the last complete top-level JSON object embedded in
// s, or "". Brace matching is string- and escape-aware, so braces inside
// string values do not confuse the scan.
func ExtractObject(s string) string {
	var last string
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		ch := s[i]
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		switch ch {
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 && start >= 0 {
				last = s[start : i+1]
				start = -1
			}
		}
	}
	return last
}
