package analyses

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"resume-analyzer/internal/llm"
	"resume-analyzer/internal/shared/metrics"
)

type stubGenerator struct {
	response string
	err      error
	calls    int
	prompts  []string
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.calls++
	s.prompts = append(s.prompts, prompt)
	return s.response, s.err
}

func newTestAnalyzer(t *testing.T, gen llm.Generator, apiKey string) (*Analyzer, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)
	return NewAnalyzer(gen, Options{APIKey: apiKey, Timeout: time.Second}, zap.NewNop(), m), reg
}

func analysisCount(t *testing.T, reg *prometheus.Registry, path, reason string) int {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "resume_analysis_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["path"] == path && labels["reason"] == reason {
				return int(m.GetCounter().GetValue())
			}
		}
	}
	return 0
}

func TestAnalyzeWithoutCredentialSkipsGenerator(t *testing.T) {
	gen := &stubGenerator{response: `{"match_score": 99}`}
	a, reg := newTestAnalyzer(t, gen, "")

	got := a.Analyze(context.Background(), "I know Python", "Python SQL")

	assert.Equal(t, LocalAnalyze("I know Python", "Python SQL"), got)
	assert.Equal(t, 0, gen.calls)
	assert.Equal(t, 1, analysisCount(t, reg, metrics.PathHeuristic, metrics.ReasonNoCredential))
}

func TestAnalyzeWithoutGeneratorIsHeuristic(t *testing.T) {
	a := NewAnalyzer(nil, Options{APIKey: "key"}, nil, nil)

	assert.Equal(t, LocalAnalyze("Go", "Go Rust"), a.Analyze(context.Background(), "Go", "Go Rust"))
}

func TestAnalyzeRecoversWrappedJSON(t *testing.T) {
	gen := &stubGenerator{response: `Sure! {"match_score": 80, "missing_keywords": ["docker"], "suggestions": ["add docker"], "analysis": "ok"} Thanks.`}
	a, reg := newTestAnalyzer(t, gen, "key")

	got := a.Analyze(context.Background(), "Go developer", "Go and Docker")

	assert.Equal(t, Result{
		MatchScore:      80,
		MissingKeywords: []string{"docker"},
		Suggestions:     []string{"add docker"},
		Analysis:        "ok",
	}, got)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, 1, analysisCount(t, reg, metrics.PathLLM, metrics.ReasonOK))
}

func TestAnalyzeUnparseableFallsBack(t *testing.T) {
	for _, response := range []string{"not json at all", "{}", `["match_score", 80]`} {
		gen := &stubGenerator{response: response}
		a, reg := newTestAnalyzer(t, gen, "key")

		got := a.Analyze(context.Background(), "I know Python", "Python SQL")

		assert.Equal(t, LocalAnalyze("I know Python", "Python SQL"), got, "response %q", response)
		assert.Equal(t, 1, analysisCount(t, reg, metrics.PathHeuristic, metrics.ReasonUnparseable))
	}
}

func TestAnalyzeGeneratorErrorFallsBack(t *testing.T) {
	gen := &stubGenerator{err: errors.New("401 unauthorized")}
	a, reg := newTestAnalyzer(t, gen, "key")

	got := a.Analyze(context.Background(), "I know Python", "Python SQL")

	assert.Equal(t, LocalAnalyze("I know Python", "Python SQL"), got)
	assert.Equal(t, 1, gen.calls, "no retry after a failed call")
	assert.Equal(t, 1, analysisCount(t, reg, metrics.PathHeuristic, metrics.ReasonGeneratorError))
}

func TestAnalyzeGeneratorPanicFallsBack(t *testing.T) {
	gen := llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		panic("nil response body")
	})
	a, _ := newTestAnalyzer(t, gen, "key")

	assert.NotPanics(t, func() {
		got := a.Analyze(context.Background(), "Go", "Go")
		assert.Equal(t, LocalAnalyze("Go", "Go"), got)
	})
}

func TestAnalyzeTimeoutFallsBack(t *testing.T) {
	gen := llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	a := NewAnalyzer(gen, Options{APIKey: "key", Timeout: 20 * time.Millisecond}, zap.NewNop(), nil)

	start := time.Now()
	got := a.Analyze(context.Background(), "Go", "Go Rust")

	assert.Equal(t, LocalAnalyze("Go", "Go Rust"), got)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestAnalyzeFallbackUsesUntruncatedText(t *testing.T) {
	gen := &stubGenerator{response: "no"}
	a, _ := newTestAnalyzer(t, gen, "key")
	job := strings.Repeat("a ", maxPromptJobChars/2) + "kubernetes"

	got := a.Analyze(context.Background(), "a", job)

	require.Len(t, gen.prompts, 1)
	assert.NotContains(t, gen.prompts[0], "kubernetes")
	assert.Contains(t, got.MissingKeywords, "kubernetes")
}

func TestAnalyzeNormalizesLooseFields(t *testing.T) {
	gen := &stubGenerator{response: `{"match_score": "88", "missing_keywords": "terraform", "suggestions": null, "analysis": 3}`}
	a, _ := newTestAnalyzer(t, gen, "key")

	got := a.Analyze(context.Background(), "Go", "Go Terraform")

	assert.Equal(t, Result{
		MatchScore:      88,
		MissingKeywords: []string{"terraform"},
		Suggestions:     []string{},
		Analysis:        "3",
	}, got)
}
