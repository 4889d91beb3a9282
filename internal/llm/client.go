package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"assistant-backend/internal/models"
)

// Generator performs a single generation call against one named model. One
// outbound call per invocation; fallback across candidates is the
// dispatcher's job, not the client's.
type Generator interface {
	Generate(ctx context.Context, modelID, prompt string) (string, error)
}

// GeminiClient is a Generator backed by Google's generative-language API.
type GeminiClient struct {
	client *genai.Client
}

func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{client: client}, nil
}

func (c *GeminiClient) Close() {
	c.client.Close()
}

// Generate sends the prompt to the named model and returns the flattened
// reply text. Any failure, including an empty response, is reported as a
// *ProviderError.
func (c *GeminiClient) Generate(ctx context.Context, modelID, prompt string) (string, error) {
	model := c.client.GenerativeModel(modelID)
	model.SetTemperature(0.7)
	model.SetTopP(0.95)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &ProviderError{Model: modelID, Err: err}
	}

	text := strings.TrimSpace(extractText(resp))
	if text == "" {
		return "", &ProviderError{Model: modelID, Err: fmt.Errorf("empty response")}
	}

	return text, nil
}

// ListModels returns the models the provider makes available to this API
// key.
func (c *GeminiClient) ListModels(ctx context.Context) ([]models.ModelInfo, error) {
	var out []models.ModelInfo

	it := c.client.ListModels(ctx)
	for {
		m, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list models: %w", err)
		}
		out = append(out, models.ModelInfo{
			Name:        m.Name,
			DisplayName: m.DisplayName,
			Description: m.Description,
		})
	}

	return out, nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
