// Package extract turns uploaded résumé documents into plain text.
//
// Extraction runs an ordered list of strategies. The first strategy that
// yields non-blank text wins; failures are logged and the next strategy is
// tried. Callers never see an error: a document nothing could read
// extracts to the empty string.
package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"resume-analyzer/internal/shared/metrics"
	"resume-analyzer/internal/shared/telemetry"
)

var (
	// ErrUnsupported is returned by a strategy that cannot read the document kind.
	ErrUnsupported = errors.New("unsupported document type")
	// ErrNoPages is returned when a document has no pages to process.
	ErrNoPages = errors.New("document has no pages")
)

// Strategy is one stage of the extraction chain.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, data []byte) (string, error)
}

// Extractor runs strategies in order until one produces text.
type Extractor struct {
	strategies []Strategy
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// New constructs an Extractor over strategies, tried in the given order.
func New(logger *zap.Logger, m *metrics.Metrics, strategies ...Strategy) *Extractor {
	return &Extractor{
		strategies: strategies,
		logger:     telemetry.OrNop(logger),
		metrics:    m,
	}
}

// Extract returns the best-effort plain text of data.
func (e *Extractor) Extract(ctx context.Context, data []byte) string {
	text, _ := e.ExtractWithStage(ctx, data)
	return text
}

// ExtractWithStage is Extract that also reports which strategy produced the
// text, or metrics.StageNone when none did.
func (e *Extractor) ExtractWithStage(ctx context.Context, data []byte) (string, string) {
	for _, s := range e.strategies {
		if ctx.Err() != nil {
			break
		}
		text, err := runStrategy(ctx, s, data)
		if err != nil {
			e.logger.Info("extract.strategy_failed",
				zap.String("strategy", s.Name()),
				zap.Int("bytes", len(data)),
				zap.Error(err),
			)
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			e.metrics.ObserveExtraction(s.Name())
			e.logger.Debug("extract.complete",
				zap.String("strategy", s.Name()),
				zap.Int("chars", len(text)),
			)
			return text, s.Name()
		}
	}
	e.metrics.ObserveExtraction(metrics.StageNone)
	return "", metrics.StageNone
}

// runStrategy shields the chain from parser panics on malformed input.
func runStrategy(ctx context.Context, s Strategy, data []byte) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("%s panicked: %v", s.Name(), rec)
		}
	}()
	return s.Extract(ctx, data)
}

// joinPages trims each page and concatenates them in order with one
// newline, skipping blank pages.
func joinPages(pages []string) string {
	kept := make([]string, 0, len(pages))
	for _, p := range pages {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
