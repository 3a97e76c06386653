package analyses

import (
	"encoding/json"
	"strings"
)

// parseObject decodes the model output into a JSON object. When the text
// is not a bare object it tries each balanced {...} span in order of its
// opening brace and returns the first that decodes to one. ok is false when
// no object could be recovered.
func parseObject(text string) (map[string]any, bool) {
	text = strings.TrimSpace(text)
	if obj, ok := decodeObject(text); ok {
		return obj, true
	}
	for _, span := range balancedSpans(text) {
		if obj, ok := decodeObject(text[span[0] : span[1]+1]); ok {
			return obj, true
		}
	}
	return nil, false
}

func decodeObject(s string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// balancedSpans pairs every '{' with its closing '}' in a single pass and
// returns the closed pairs ordered by opening index. Braces inside string
// literals are ignored while at least one brace is open. Stray '}' and
// braces left open at the end produce no span.
func balancedSpans(s string) [][2]int {
	var (
		spans    [][2]int
		open     []int
		inString bool
		escaped  bool
	)
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = len(open) > 0
		case '{':
			spans = append(spans, [2]int{i, -1})
			open = append(open, len(spans)-1)
		case '}':
			if n := len(open); n > 0 {
				spans[open[n-1]][1] = i
				open = open[:n-1]
			}
		}
	}
	closed := spans[:0]
	for _, sp := range spans {
		if sp[1] >= 0 {
			closed = append(closed, sp)
		}
	}
	return closed
}
