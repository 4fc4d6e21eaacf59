package narrative

import (
	"context"
	"strings"

	"google.golang.org/genai"

	"github.com/agentstation/learnmerge/pkg/errors"
)

// Gemini defaults.
const (
	DefaultModel = "gemini-2.5-flash"
	APIKeyEnv    = "GEMINI_API_KEY"

	providerName = "gemini"
)

// GeminiClient implements Client over the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a client for the Gemini API backend. An empty
// model selects DefaultModel.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, &errors.AuthenticationError{
			Provider: providerName,
			Method:   "api_key",
			Message:  APIKeyEnv + " not set",
		}
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  apiKey,
	})
	if err != nil {
		return nil, errors.NewConfigError(providerName, "cannot create client", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

// Model returns the model name requests are sent to.
func (c *GeminiClient) Model() string {
	return c.model
}

// GenerateJSON implements Client.
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	return c.generate(ctx, prompt, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
}

// GenerateText implements Client.
func (c *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, prompt, nil)
}

func (c *GeminiClient) generate(ctx context.Context, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), cfg)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", apiError(err)
	}

	text := resp.Text()
	if text == "" {
		return "", errors.NewAPIError(providerName, 0, "empty response")
	}
	return text, nil
}

// apiError keeps the HTTP status so rate limits and outages stay
// distinguishable through errors.Is.
func apiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &errors.APIError{
			Provider:   providerName,
			StatusCode: apiErr.Code,
			Message:    apiErr.Message,
			Err:        err,
		}
	}
	return errors.WrapAPI(providerName, 0, err)
}
