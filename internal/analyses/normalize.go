package analyses

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// normalize maps a decoded model response onto Result. Missing or
// mistyped fields take their zero value.
func normalize(fields map[string]any) Result {
	return Result{
		MatchScore:      coerceScore(fields["match_score"]),
		MissingKeywords: coerceStrings(fields["missing_keywords"]),
		Suggestions:     coerceStrings(fields["suggestions"]),
		Analysis:        coerceText(fields["analysis"]),
	}.withDefaults()
}

func coerceScore(v any) int {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(math.Max(0, math.Min(100, math.Trunc(f))))
}

func coerceStrings(v any) []string {
	switch val := v.(type) {
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if item == nil {
				continue
			}
			out = append(out, coerceText(item))
		}
		return out
	case string:
		if strings.TrimSpace(val) == "" {
			return []string{}
		}
		return []string{val}
	default:
		return []string{}
	}
}

func coerceText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(b)
	}
}
