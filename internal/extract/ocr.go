package extract

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"resume-analyzer/internal/shared/metrics"
)

const defaultOCRConcurrency = 4

// Page is one rasterized document page.
type Page struct {
	Number      int
	Image       []byte
	ContentType string
}

// Rasterizer renders every page of a document to an image, in page order.
type Rasterizer interface {
	Rasterize(ctx context.Context, data []byte) ([]Page, error)
}

// Recognizer runs optical character recognition on one page image.
type Recognizer interface {
	Recognize(ctx context.Context, page Page) (string, error)
}

// RecognizerFunc adapts a function to Recognizer.
type RecognizerFunc func(ctx context.Context, page Page) (string, error)

func (f RecognizerFunc) Recognize(ctx context.Context, page Page) (string, error) {
	return f(ctx, page)
}

// OCR rasterizes a document and recognizes its pages. It is the fallback
// for documents without a text layer, such as scanned résumés.
type OCR struct {
	rasterizer  Rasterizer
	recognizer  Recognizer
	concurrency int
}

// NewOCR constructs the OCR strategy. At most concurrency pages are
// recognized at once.
func NewOCR(rasterizer Rasterizer, recognizer Recognizer, concurrency int) *OCR {
	if concurrency <= 0 {
		concurrency = defaultOCRConcurrency
	}
	return &OCR{
		rasterizer:  rasterizer,
		recognizer:  recognizer,
		concurrency: concurrency,
	}
}

func (o *OCR) Name() string { return metrics.StageOCR }

// Extract recognizes all pages and joins the non-blank results in page
// order. Any page failure fails the whole pass.
func (o *OCR) Extract(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	pages, err := o.rasterizer.Rasterize(ctx, data)
	if err != nil {
		return "", fmt.Errorf("rasterize: %w", err)
	}
	if len(pages) == 0 {
		return "", nil
	}

	texts := make([]string, len(pages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for i, page := range pages {
		g.Go(func() error {
			text, err := o.recognizer.Recognize(gctx, page)
			if err != nil {
				return fmt.Errorf("recognize page %d: %w", page.Number, err)
			}
			texts[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}
	return joinPages(texts), nil
}
