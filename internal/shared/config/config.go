package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// OCR engines understood by the extractor wiring.
const (
	OCREngineTesseract = "tesseract"
	OCREngineGemini    = "gemini"
	OCREngineNone      = "none"
)

// Config holds application configuration. It is read once at startup and
// passed explicitly to the components that need it.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string

	LLMProvider  string
	GoogleAPIKey string
	OpenAIAPIKey string
	LLMModel     string
	LLMTimeout   time.Duration

	OCREngine      string
	OCRLanguage    string
	OCRDPI         int
	OCRConcurrency int
	PdftoppmPath   string
	TesseractPath  string

	MaxUploadBytes int64
	RateLimitRPS   float64
	RateLimitBurst int

	LogJSON  bool
	LogDebug bool
}

// LLMAPIKey returns the credential of the selected LLM provider.
func (c Config) LLMAPIKey() string {
	if c.LLMProvider == "openai" {
		return c.OpenAIAPIKey
	}
	return c.GoogleAPIKey
}

// HasLLMCredential reports whether the selected LLM provider has an API key.
// Without one the analyzer never calls out and uses the local heuristic.
func (c Config) HasLLMCredential() bool {
	return strings.TrimSpace(c.LLMAPIKey()) != ""
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return LoadWith(viper.New())
}

// LoadWith reads configuration through v, so callers can bind command-line
// flags before the environment is consulted.
func LoadWith(v *viper.Viper) Config {
	// Best-effort load of local env files for dev convenience. Variables
	// already present in the environment win.
	loadEnvFiles(".env", "cmd/.env")

	setDefaults(v)
	v.AutomaticEnv()

	origins := v.GetString("cors_allow_origins")
	if strings.TrimSpace(origins) == "" {
		origins = v.GetString("frontend_url")
	}

	provider := normalizeProvider(v.GetString("llm_provider"))
	model := strings.TrimSpace(v.GetString("llm_model"))
	if model == "" {
		model = defaultModels[provider]
	}

	return Config{
		Port:            v.GetString("port"),
		Env:             normalizeEnv(v.GetString("env")),
		CORSAllowOrigin: splitAndTrim(origins),
		LLMProvider:     provider,
		GoogleAPIKey:    strings.TrimSpace(v.GetString("google_api_key")),
		OpenAIAPIKey:    strings.TrimSpace(v.GetString("openai_api_key")),
		LLMModel:        model,
		LLMTimeout:      time.Duration(v.GetInt("llm_timeout_seconds")) * time.Second,
		OCREngine:       normalizeOCREngine(v.GetString("ocr_engine")),
		OCRLanguage:     v.GetString("ocr_language"),
		OCRDPI:          positiveOr(v.GetInt("ocr_dpi"), 300),
		OCRConcurrency:  positiveOr(v.GetInt("ocr_concurrency"), 4),
		PdftoppmPath:    v.GetString("pdftoppm_path"),
		TesseractPath:   v.GetString("tesseract_path"),
		MaxUploadBytes:  v.GetInt64("max_upload_bytes"),
		RateLimitRPS:    v.GetFloat64("rate_limit_rps"),
		RateLimitBurst:  v.GetInt("rate_limit_burst"),
		LogJSON:         v.GetBool("log_json"),
		LogDebug:        v.GetBool("log_debug"),
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("env", "dev")
	v.SetDefault("frontend_url", "http://localhost:3000")
	v.SetDefault("cors_allow_origins", "")
	v.SetDefault("llm_provider", "gemini")
	v.SetDefault("google_api_key", "")
	v.SetDefault("openai_api_key", "")
	v.SetDefault("llm_model", "")
	v.SetDefault("llm_timeout_seconds", 120)
	v.SetDefault("ocr_engine", OCREngineTesseract)
	v.SetDefault("ocr_language", "eng")
	v.SetDefault("ocr_dpi", 300)
	v.SetDefault("ocr_concurrency", 4)
	v.SetDefault("pdftoppm_path", "pdftoppm")
	v.SetDefault("tesseract_path", "tesseract")
	v.SetDefault("max_upload_bytes", 10<<20)
	v.SetDefault("rate_limit_rps", 2)
	v.SetDefault("rate_limit_burst", 5)
	v.SetDefault("log_json", true)
	v.SetDefault("log_debug", false)
}

func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		_ = godotenv.Load(path)
	}
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	default:
		return "dev"
	}
}

var defaultModels = map[string]string{
	"gemini": "gemini-1.5-flash",
	"openai": "gpt-4o-mini",
}

func normalizeProvider(raw string) string {
	if strings.EqualFold(strings.TrimSpace(raw), "openai") {
		return "openai"
	}
	return "gemini"
}

func normalizeOCREngine(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case OCREngineGemini:
		return OCREngineGemini
	case OCREngineNone, "off", "disabled":
		return OCREngineNone
	default:
		return OCREngineTesseract
	}
}

func positiveOr(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
