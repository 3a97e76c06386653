package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Poppler rasterizes PDFs with poppler's pdftoppm binary.
type Poppler struct {
	Path string
	DPI  int
}

func (p Poppler) Rasterize(ctx context.Context, data []byte) ([]Page, error) {
	if detectKind(data) != mimePDF {
		return nil, ErrUnsupported
	}
	bin := p.Path
	if bin == "" {
		bin = "pdftoppm"
	}
	dpi := p.DPI
	if dpi <= 0 {
		dpi = 300
	}

	dir, err := os.MkdirTemp("", "resume-ocr-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "input.pdf")
	if err := os.WriteFile(input, data, 0o600); err != nil {
		return nil, err
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "-r", strconv.Itoa(dpi), "-png", input, filepath.Join(dir, "page"))
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("pdftoppm: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return readPages(dir)
}

// readPages loads page-N.png files in page order. pdftoppm zero-pads N
// according to the page count, so names are not sorted lexically.
func readPages(dir string) ([]Page, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "page-*.png"))
	if err != nil {
		return nil, err
	}

	pages := make([]Page, 0, len(matches))
	for _, path := range matches {
		base := strings.TrimSuffix(filepath.Base(path), ".png")
		num, err := strconv.Atoi(strings.TrimPrefix(base, "page-"))
		if err != nil {
			continue
		}
		img, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		pages = append(pages, Page{Number: num, Image: img, ContentType: "image/png"})
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Number < pages[j].Number })
	return pages, nil
}
