package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"resume-analyzer/internal/llm"
	"resume-analyzer/internal/shared/telemetry"
)

const (
	defaultModel = "gemini-1.5-flash"

	transcribePrompt = "Transcribe all text visible in this scanned document page. " +
		"Return only the text in reading order, without commentary or formatting."
)

// Client wraps the Google GenAI client for prompt completion and page transcription.
type Client struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewClient creates a Client configured for the Gemini API backend.
func NewClient(ctx context.Context, apiKey, model string, logger *zap.Logger) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &Client{client: client, model: model, logger: telemetry.OrNop(logger)}, nil
}

// Generate sends prompt to Gemini and returns the textual response.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0),
		ResponseMIMEType: "application/json",
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	logUsage(c.logger, c.model, resp)
	return textFromResponse(resp)
}

// Transcribe runs OCR on one page image through Gemini's vision input.
func (c *Client) Transcribe(ctx context.Context, image []byte, mimeType string) (string, error) {
	contents := []*genai.Content{{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			genai.NewPartFromBytes(image, mimeType),
			genai.NewPartFromText(transcribePrompt),
		},
	}}
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0),
	})
	if err != nil {
		return "", fmt.Errorf("gemini transcribe: %w", err)
	}
	logUsage(c.logger, c.model, resp)
	return textFromResponse(resp)
}

// Model returns the configured model name.
func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}

func textFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", llm.ErrEmptyResponse
	}
	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
		// Only the first candidate with content is used.
		if builder.Len() > 0 {
			break
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", llm.ErrEmptyResponse
	}
	return output, nil
}

func logUsage(logger *zap.Logger, model string, resp *genai.GenerateContentResponse) {
	if resp == nil || resp.UsageMetadata == nil {
		logger.Debug("llm response", zap.String("provider", llm.ProviderGemini), zap.String("model", model))
		return
	}
	logger.Debug("llm response",
		zap.String("provider", llm.ProviderGemini),
		zap.String("model", model),
		zap.Int32("prompt_tokens", resp.UsageMetadata.PromptTokenCount),
		zap.Int32("completion_tokens", resp.UsageMetadata.CandidatesTokenCount),
		zap.Int32("total_tokens", resp.UsageMetadata.TotalTokenCount),
	)
}

var _ llm.Generator = (*Client)(nil)
