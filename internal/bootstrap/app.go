package bootstrap

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"resume-analyzer/internal/analyses"
	"resume-analyzer/internal/extract"
	"resume-analyzer/internal/llm"
	"resume-analyzer/internal/llm/gemini"
	"resume-analyzer/internal/llm/openai"
	"resume-analyzer/internal/shared/config"
	"resume-analyzer/internal/shared/metrics"
	"resume-analyzer/internal/shared/server"
	"resume-analyzer/internal/shared/telemetry"
)

// App holds the wired dependencies shared by the serve and analyze commands.
type App struct {
	Config    config.Config
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
	Extractor *extract.Extractor
	Analyzer  *analyses.Analyzer
	Router    *gin.Engine
}

// Build wires extraction, analysis and the HTTP router from cfg. Collectors
// are registered on reg; a nil reg disables metrics.
func Build(ctx context.Context, cfg config.Config, logger *zap.Logger, reg prometheus.Registerer) (*App, error) {
	logger = telemetry.OrNop(logger)

	var m *metrics.Metrics
	if reg != nil {
		var err error
		if m, err = metrics.New(reg); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}

	var geminiClient *gemini.Client
	if cfg.GoogleAPIKey != "" && (cfg.LLMProvider == llm.ProviderGemini || cfg.OCREngine == config.OCREngineGemini) {
		model := cfg.LLMModel
		if cfg.LLMProvider != llm.ProviderGemini {
			model = ""
		}
		client, err := gemini.NewClient(ctx, cfg.GoogleAPIKey, model, logger)
		if err != nil {
			return nil, err
		}
		geminiClient = client
	}

	gen, err := buildGenerator(cfg, geminiClient, logger)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:    cfg,
		Logger:    logger,
		Metrics:   m,
		Extractor: extract.New(logger, m, buildStrategies(cfg, geminiClient, logger)...),
		Analyzer: analyses.NewAnalyzer(gen, analyses.Options{
			APIKey:  cfg.LLMAPIKey(),
			Timeout: cfg.LLMTimeout,
		}, logger, m),
	}
	app.Router = server.NewRouter(cfg, server.Deps{
		Logger:    logger,
		Metrics:   m,
		Extractor: app.Extractor,
		Analyzer:  app.Analyzer,
	})

	model := cfg.LLMModel
	if gc, ok := gen.(*gemini.Client); ok {
		model = gc.Model()
	}
	logger.Info("bootstrap.ready",
		zap.String("env", cfg.Env),
		zap.String("llm_provider", cfg.LLMProvider),
		zap.String("llm_model", model),
		zap.Bool("llm_enabled", gen != nil),
		zap.String("ocr_engine", cfg.OCREngine),
	)
	return app, nil
}

// buildGenerator returns nil when the selected provider has no credential.
func buildGenerator(cfg config.Config, geminiClient *gemini.Client, logger *zap.Logger) (llm.Generator, error) {
	if !cfg.HasLLMCredential() {
		logger.Warn("bootstrap.llm_disabled", zap.String("provider", cfg.LLMProvider))
		return nil, nil
	}
	switch cfg.LLMProvider {
	case llm.ProviderOpenAI:
		client, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, cfg.LLMTimeout, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		if geminiClient == nil {
			return nil, nil
		}
		return geminiClient, nil
	}
}

func buildStrategies(cfg config.Config, geminiClient *gemini.Client, logger *zap.Logger) []extract.Strategy {
	strategies := []extract.Strategy{extract.NewLayout()}
	if recognizer := buildRecognizer(cfg, geminiClient, logger); recognizer != nil {
		rasterizer := extract.Poppler{Path: cfg.PdftoppmPath, DPI: cfg.OCRDPI}
		strategies = append(strategies, extract.NewOCR(rasterizer, recognizer, cfg.OCRConcurrency))
	}
	return strategies
}

func buildRecognizer(cfg config.Config, geminiClient *gemini.Client, logger *zap.Logger) extract.Recognizer {
	switch cfg.OCREngine {
	case config.OCREngineNone:
		return nil
	case config.OCREngineGemini:
		if geminiClient != nil {
			return extract.RecognizerFunc(func(ctx context.Context, page extract.Page) (string, error) {
				return geminiClient.Transcribe(ctx, page.Image, page.ContentType)
			})
		}
		logger.Warn("bootstrap.ocr_gemini_unavailable", zap.String("fallback", config.OCREngineTesseract))
	}
	return extract.Tesseract{Path: cfg.TesseractPath, Language: cfg.OCRLanguage}
}
