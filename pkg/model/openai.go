package model

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"sumeval/pkg/core"
)

const defaultOpenAIModel = "gpt-4o-mini"

// EnvAPIKey and EnvAPIAddress configure the default judge endpoint. The
// address is optional; without it the stock OpenAI endpoint is used.
const (
	EnvAPIKey     = "SUMEVAL_API_KEY"
	EnvAPIAddress = "SUMEVAL_API_ADDRESS"
)

// OpenAIClient talks to any OpenAI-compatible completion endpoint. Retries
// and timeouts are the caller's concern; each Complete call is one attempt.
type OpenAIClient struct {
	Client openai.Client
	Model  string
}

// NewOpenAIFromEnv builds a client from SUMEVAL_API_KEY and the optional
// SUMEVAL_API_ADDRESS. A missing key is an error the caller turns into
// skipped remote metrics, never a crash.
func NewOpenAIFromEnv(modelName string) (*OpenAIClient, error) {
	apiKey := os.Getenv(EnvAPIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("openai: %s is required", EnvAPIKey)
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if address := os.Getenv(EnvAPIAddress); address != "" {
		opts = append(opts, option.WithBaseURL(address))
	}
	if modelName == "" {
		modelName = defaultOpenAIModel
	}
	return &OpenAIClient{
		Client: openai.NewClient(opts...),
		Model:  modelName,
	}, nil
}

func (c *OpenAIClient) Name() string {
	if c.Model == "" {
		return defaultOpenAIModel
	}
	return c.Model
}

func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.Client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.Name()),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &core.CompletionError{Provider: "openai", Err: errors.New("empty response")}
	}
	return resp.Choices[0].Message.Content, nil
}

func classifyOpenAIError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		return &core.CompletionError{Provider: "openai", StatusCode: apierr.StatusCode, Err: err}
	}
	return &core.CompletionError{Provider: "openai", Err: err}
}

// OpenAIEmbedder backs the embedding-based semantic metrics.
type OpenAIEmbedder struct {
	Client openai.Client
	Model  string
}

// NewOpenAIEmbedderFromEnv builds an embedder from the same environment as
// the completion client.
func NewOpenAIEmbedderFromEnv(modelName string) (*OpenAIEmbedder, error) {
	apiKey := os.Getenv(EnvAPIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("openai: %s is required", EnvAPIKey)
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if address := os.Getenv(EnvAPIAddress); address != "" {
		opts = append(opts, option.WithBaseURL(address))
	}
	if modelName == "" {
		modelName = string(openai.EmbeddingModelTextEmbedding3Small)
	}
	return &OpenAIEmbedder{
		Client: openai.NewClient(opts...),
		Model:  modelName,
	}, nil
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := e.Client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(e.Model),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
	})
	if err != nil {
		return nil, classifyOpenAIError(err)
	}
	vectors := make([][]float64, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || int(d.Index) >= len(vectors) {
			continue
		}
		vectors[d.Index] = d.Embedding
	}
	for i, v := range vectors {
		if v == nil {
			return nil, &core.CompletionError{Provider: "openai", Err: fmt.Errorf("missing embedding for input %d", i)}
		}
	}
	return vectors, nil
}
