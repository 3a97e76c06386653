package analyses

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"resume-analyzer/internal/shared/server/respond"
	"resume-analyzer/internal/shared/telemetry"
	"resume-analyzer/internal/shared/util"
)

// Form fields accepted by POST /analyze.
const (
	FieldResumeFile = "resumeFile"
	FieldResumeText = "resumeText"
	FieldJobDesc    = "jobDesc"
)

const multipartMemory = 8 << 20

// TextExtractor turns uploaded bytes into text and reports the stage that
// produced it.
type TextExtractor interface {
	ExtractWithStage(ctx context.Context, data []byte) (string, string)
}

// ResumeAnalyzer scores résumé text against a job description.
type ResumeAnalyzer interface {
	Analyze(ctx context.Context, resumeText, jobText string) Result
}

// Handler wires the analyze endpoint to extraction and analysis.
type Handler struct {
	extractor      TextExtractor
	analyzer       ResumeAnalyzer
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewHandler constructs a Handler. maxUploadBytes <= 0 disables the body cap.
func NewHandler(extractor TextExtractor, analyzer ResumeAnalyzer, maxUploadBytes int64, logger *zap.Logger) *Handler {
	return &Handler{
		extractor:      extractor,
		analyzer:       analyzer,
		maxUploadBytes: maxUploadBytes,
		logger:         telemetry.OrNop(logger),
	}
}

// RegisterRoutes attaches POST /analyze, running mw before the handler.
func (h *Handler) RegisterRoutes(r gin.IRoutes, mw ...gin.HandlerFunc) {
	handlers := append(append([]gin.HandlerFunc{}, mw...), h.analyze)
	r.POST("/analyze", handlers...)
}

func (h *Handler) analyze(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}
	if err := parseForm(c.Request); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", "Upload exceeds the size limit", gin.H{"limitBytes": tooLarge.Limit})
			return
		}
		respond.Error(c, http.StatusBadRequest, "invalid_form", "Malformed form data", nil)
		return
	}

	file := formFile(c.Request)
	resumeText := c.Request.PostForm.Get(FieldResumeText)
	if file == nil && resumeText == "" {
		respond.Error(c, http.StatusBadRequest, "missing_input", "Provide resumeFile or resumeText", nil)
		return
	}

	ctx := c.Request.Context()
	extracted := ""
	if file != nil {
		data, err := readUpload(file)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "internal", err.Error(), nil)
			return
		}
		var stage string
		extracted, stage = h.extractor.ExtractWithStage(ctx, data)
		c.Set("extractionStage", stage)
		h.logger.Info("analyze.extracted",
			zap.String("request_id", c.GetString("requestId")),
			zap.String("file", util.SanitizeFileName(file.Filename)),
			zap.String("fingerprint", util.Fingerprint(data)),
			zap.Int("bytes", len(data)),
			zap.String("stage", stage),
			zap.Int("chars", len(extracted)),
		)
	}

	resolved := strings.TrimSpace(resumeText)
	if extracted != "" {
		resolved = extracted
	}
	if resolved == "" {
		respond.Error(c, http.StatusBadRequest, "extraction_failed", "Could not extract resume text", nil)
		return
	}

	jobText := strings.TrimSpace(c.Request.PostForm.Get(FieldJobDesc))
	result := h.analyzer.Analyze(ctx, resolved, jobText)
	respond.OK(c, result.withDefaults())
}

func parseForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		return r.ParseMultipartForm(multipartMemory)
	}
	return r.ParseForm()
}

func formFile(r *http.Request) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	files := r.MultipartForm.File[FieldResumeFile]
	if len(files) == 0 {
		return nil
	}
	return files[0]
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
