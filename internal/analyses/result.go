// Package analyses scores a résumé against a job description.
//
// Analysis runs through an LLM when one is configured and falls back to a
// local keyword-overlap heuristic otherwise. Either path yields the same
// Result shape.
package analyses

// Result is the analysis returned to callers.
type Result struct {
	MatchScore      int      `json:"match_score"`
	MissingKeywords []string `json:"missing_keywords"`
	Suggestions     []string `json:"suggestions"`
	Analysis        string   `json:"analysis"`
}

// withDefaults replaces nil slices so they encode as [] instead of null.
func (r Result) withDefaults() Result {
	if r.MissingKeywords == nil {
		r.MissingKeywords = []string{}
	}
	if r.Suggestions == nil {
		r.Suggestions = []string{}
	}
	return r
}
