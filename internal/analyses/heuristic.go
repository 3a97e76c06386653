package analyses

import (
	"fmt"
	"math"
	"strings"
	"unicode"
)

const (
	maxHeuristicSuggestions = 10
	maxHeuristicKeywords    = 20
)

// LocalAnalyze scores resumeText against jobText by keyword overlap. It is
// pure and deterministic.
func LocalAnalyze(resumeText, jobText string) Result {
	jobTokens := unique(tokenize(jobText))
	resumeTokens := make(map[string]struct{})
	for _, t := range tokenize(resumeText) {
		resumeTokens[t] = struct{}{}
	}

	var missing []string
	overlap := 0
	for _, t := range jobTokens {
		if _, ok := resumeTokens[t]; ok {
			overlap++
			continue
		}
		missing = append(missing, t)
	}

	score := 0
	if len(jobTokens) > 0 {
		score = int(math.RoundToEven(float64(overlap*100) / float64(len(jobTokens))))
	}

	suggestions := make([]string, 0, min(len(missing), maxHeuristicSuggestions))
	for _, kw := range missing[:min(len(missing), maxHeuristicSuggestions)] {
		suggestions = append(suggestions, fmt.Sprintf("Consider adding concrete examples for '%s' if applicable.", kw))
	}

	keywords := make([]string, 0, min(len(missing), maxHeuristicKeywords))
	keywords = append(keywords, missing[:min(len(missing), maxHeuristicKeywords)]...)

	return Result{
		MatchScore:      score,
		MissingKeywords: keywords,
		Suggestions:     suggestions,
		Analysis:        fmt.Sprintf("Approximate match based on keyword overlap: %d%%.", score),
	}
}

// dottedCapitalI lower-cases U+0130 to "i" followed by a combining dot
// (U+0307) instead of the bare "i" strings.ToLower yields, so the dot still
// splits the token.
var dottedCapitalI = strings.NewReplacer("\u0130", "i\u0307")

// tokenize lower-cases s and splits it on anything other than letters a-z,
// digits, '+', '#' and '.', so tokens like c++, c# and node.js survive.
func tokenize(s string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == '+' || r == '#' || r == '.':
			return r
		case unicode.IsSpace(r):
			return r
		default:
			return ' '
		}
	}, strings.ToLower(dottedCapitalI.Replace(s)))
	return strings.Fields(cleaned)
}

func unique(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
