package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "FRONTEND_URL", "CORS_ALLOW_ORIGINS", "LLM_PROVIDER", "GOOGLE_API_KEY", "LLM_MODEL", "OCR_ENGINE", "OCR_DPI"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowOrigin)
	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.Equal(t, "gemini-1.5-flash", cfg.LLMModel)
	assert.Equal(t, 120*time.Second, cfg.LLMTimeout)
	assert.Equal(t, OCREngineTesseract, cfg.OCREngine)
	assert.Equal(t, 300, cfg.OCRDPI)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.False(t, cfg.HasLLMCredential())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "prod")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("GOOGLE_API_KEY", "  secret  ")
	t.Setenv("OCR_ENGINE", "Gemini")
	t.Setenv("OCR_CONCURRENCY", "-3")
	t.Setenv("RATE_LIMIT_RPS", "0.5")

	cfg := LoadWith(viper.New())

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigin)
	assert.Equal(t, "secret", cfg.GoogleAPIKey)
	assert.True(t, cfg.HasLLMCredential())
	assert.Equal(t, OCREngineGemini, cfg.OCREngine)
	assert.Equal(t, 4, cfg.OCRConcurrency)
	assert.InDelta(t, 0.5, cfg.RateLimitRPS, 1e-9)
}

func TestFrontendURLUsedWhenOriginsUnset(t *testing.T) {
	t.Setenv("CORS_ALLOW_ORIGINS", "")
	t.Setenv("FRONTEND_URL", "https://app.example")

	cfg := Load()

	assert.Equal(t, []string{"https://app.example"}, cfg.CORSAllowOrigin)
}

func TestNormalizeOCREngine(t *testing.T) {
	assert.Equal(t, OCREngineNone, normalizeOCREngine("off"))
	assert.Equal(t, OCREngineTesseract, normalizeOCREngine("unknown"))
	assert.Equal(t, OCREngineGemini, normalizeOCREngine(" GEMINI "))
}

func TestOpenAIProviderUsesItsOwnCredential(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("LLM_MODEL", "")
	t.Setenv("GOOGLE_API_KEY", "google-key")
	t.Setenv("OPENAI_API_KEY", "")

	cfg := Load()

	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLMModel)
	assert.False(t, cfg.HasLLMCredential())

	t.Setenv("OPENAI_API_KEY", "sk-test")
	cfg = Load()
	assert.True(t, cfg.HasLLMCredential())
	assert.Equal(t, "sk-test", cfg.LLMAPIKey())
}
