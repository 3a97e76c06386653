package extract

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Tesseract recognizes page images with the tesseract CLI, streaming the
// image over stdin and reading text from stdout.
type Tesseract struct {
	Path     string
	Language string
}

func (t Tesseract) Recognize(ctx context.Context, page Page) (string, error) {
	bin := t.Path
	if bin == "" {
		bin = "tesseract"
	}
	lang := t.Language
	if lang == "" {
		lang = "eng"
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "stdin", "stdout", "-l", lang)
	cmd.Stdin = bytes.NewReader(page.Image)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
