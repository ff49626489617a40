package model

import (
	"context"
	"errors"
	"os"

	"google.golang.org/genai"

	"sumeval/pkg/core"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiClient is an alternate judge provider.
type GeminiClient struct {
	Client *genai.Client
	Model  string
}

func NewGeminiFromEnv(ctx context.Context, modelName string) (*GeminiClient, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}
	if apiKey == "" {
		return nil, errors.New("gemini: GEMINI_API_KEY or GOOGLE_API_KEY is required")
	}
	if modelName == "" {
		modelName = defaultGeminiModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{Client: client, Model: modelName}, nil
}

func (c *GeminiClient) Name() string {
	if c.Model == "" {
		return defaultGeminiModel
	}
	return c.Model
}

func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	result, err := c.Client.Models.GenerateContent(ctx, c.Name(), genai.Text(prompt), nil)
	if err != nil {
		return "", classifyGeminiError(err)
	}
	content := result.Text()
	if content == "" {
		return "", &core.CompletionError{Provider: "gemini", Err: errors.New("empty response")}
	}
	return content, nil
}

func classifyGeminiError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	var apierr genai.APIError
	if errors.As(err, &apierr) {
		return &core.CompletionError{Provider: "gemini", StatusCode: apierr.Code, Err: err}
	}
	return &core.CompletionError{Provider: "gemini", Err: err}
}
