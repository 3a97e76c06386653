package analyses

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"resume-analyzer/internal/llm"
	"resume-analyzer/internal/shared/metrics"
	"resume-analyzer/internal/shared/telemetry"
)

const responsePreviewLimit = 300

// Options configures the LLM path of an Analyzer.
type Options struct {
	// APIKey is the credential of the configured provider. When empty the
	// generator is never called.
	APIKey string
	// Timeout bounds one generator call. Zero means no bound beyond ctx.
	Timeout time.Duration
}

// Analyzer produces a Result for a résumé, preferring the LLM and falling
// back to LocalAnalyze.
type Analyzer struct {
	gen     llm.Generator
	opts    Options
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewAnalyzer constructs an Analyzer. gen may be nil, in which case every
// analysis is heuristic.
func NewAnalyzer(gen llm.Generator, opts Options, logger *zap.Logger, m *metrics.Metrics) *Analyzer {
	return &Analyzer{
		gen:     gen,
		opts:    opts,
		logger:  telemetry.OrNop(logger),
		metrics: m,
	}
}

// Analyze scores resumeText against jobText. It never fails: any problem on
// the LLM path yields the heuristic result for the untruncated texts.
func (a *Analyzer) Analyze(ctx context.Context, resumeText, jobText string) Result {
	start := time.Now()
	if a.gen == nil || strings.TrimSpace(a.opts.APIKey) == "" {
		return a.fallback(start, metrics.ReasonNoCredential, resumeText, jobText)
	}

	prompt, err := buildPrompt(resumeText, jobText)
	if err != nil {
		a.logger.Warn("analysis.prompt_failed", zap.Error(err))
		return a.fallback(start, metrics.ReasonGeneratorError, resumeText, jobText)
	}

	raw, err := a.generate(ctx, prompt)
	if err != nil {
		a.logger.Warn("analysis.llm_failed",
			zap.Int("prompt_chars", len(prompt)),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return a.fallback(start, metrics.ReasonGeneratorError, resumeText, jobText)
	}
	a.logger.Debug("analysis.llm_response",
		zap.Int("prompt_chars", len(prompt)),
		zap.Int("response_chars", len(raw)),
		zap.String("preview", telemetry.TruncateForLog(raw, responsePreviewLimit)),
	)

	fields, ok := parseObject(raw)
	if !ok || len(fields) == 0 {
		a.logger.Warn("analysis.llm_unparseable",
			zap.String("preview", telemetry.TruncateForLog(raw, responsePreviewLimit)),
		)
		return a.fallback(start, metrics.ReasonUnparseable, resumeText, jobText)
	}

	a.metrics.ObserveAnalysis(metrics.PathLLM, metrics.ReasonOK, time.Since(start))
	return normalize(fields)
}

// generate calls the generator once, bounded by the configured timeout. A
// panicking generator is reported as an error.
func (a *Analyzer) generate(ctx context.Context, prompt string) (text string, err error) {
	if a.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.Timeout)
		defer cancel()
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("generator panic: %v", rec)
		}
	}()
	return a.gen.Generate(ctx, prompt)
}

func (a *Analyzer) fallback(start time.Time, reason, resumeText, jobText string) Result {
	a.metrics.ObserveAnalysis(metrics.PathHeuristic, reason, time.Since(start))
	return LocalAnalyze(resumeText, jobText)
}
