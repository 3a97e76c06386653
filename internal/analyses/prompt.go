package analyses

import (
	"bytes"
	"encoding/json"
	"strings"
)

const (
	maxPromptResumeChars = 120000
	maxPromptJobChars    = 60000

	systemInstruction = "You are a resume analysis assistant. Given a resume and an optional job description, " +
		"analyze and return a STRICT JSON object with keys: match_score (0-100), missing_keywords (array of strings), " +
		"suggestions (array of strings), analysis (string). Do not include any extra commentary."
)

type promptInput struct {
	Resume         string `json:"resume"`
	JobDescription string `json:"job_description"`
}

// buildPrompt renders the single prompt sent to the generator.
func buildPrompt(resumeText, jobText string) (string, error) {
	var payload bytes.Buffer
	enc := json.NewEncoder(&payload)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(promptInput{
		Resume:         truncateRunes(resumeText, maxPromptResumeChars),
		JobDescription: truncateRunes(jobText, maxPromptJobChars),
	}); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(systemInstruction)
	b.WriteString("\n\nInput JSON:\n")
	b.Write(bytes.TrimRight(payload.Bytes(), "\n"))
	b.WriteString("\n\nRespond with only the JSON object.")
	return b.String(), nil
}

func truncateRunes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
