package model

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"sumeval/pkg/core"
)

const defaultAnthropicModel = "claude-3-5-haiku-latest"

// AnthropicClient is an alternate judge provider.
type AnthropicClient struct {
	Client    anthropic.Client
	Model     string
	MaxTokens int
}

func NewAnthropicFromEnv(modelName string) (*AnthropicClient, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, errors.New("anthropic: ANTHROPIC_API_KEY is required")
	}
	if modelName == "" {
		modelName = defaultAnthropicModel
	}
	return &AnthropicClient{
		Client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		Model:     modelName,
		MaxTokens: 1024,
	}, nil
}

func (c *AnthropicClient) Name() string {
	if c.Model == "" {
		return defaultAnthropicModel
	}
	return c.Model
}

func (c *AnthropicClient) Complete(ctx context.Context, prompt string) (string, error) {
	maxTokens := c.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	message, err := c.Client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.Name()),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", classifyAnthropicError(err)
	}
	content := extractText(message.Content)
	if content == "" {
		return "", &core.CompletionError{Provider: "anthropic", Err: errors.New("empty response")}
	}
	return content, nil
}

func classifyAnthropicError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		return &core.CompletionError{Provider: "anthropic", StatusCode: apierr.StatusCode, Err: err}
	}
	return &core.CompletionError{Provider: "anthropic", Err: err}
}

func extractText(blocks []anthropic.ContentBlockUnion) string {
	var builder strings.Builder
	for _, block := range blocks {
		if block.Type == "text" {
			builder.WriteString(block.Text)
		}
	}
	return builder.String()
}
