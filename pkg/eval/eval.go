// Package eval is the library surface: it wires the registry, dispatcher,
// judge engine, and recommender into one client.
package eval

import (
	"context"
	"time"

	"go.uber.org/zap"

	"sumeval/pkg/aggregate"
	"sumeval/pkg/batch"
	"sumeval/pkg/cache"
	"sumeval/pkg/core"
	"sumeval/pkg/dispatch"
	"sumeval/pkg/judge"
	"sumeval/pkg/metrics"
	"sumeval/pkg/model"
	"sumeval/pkg/recommend"
	"sumeval/pkg/registry"
)

// Config selects the remote provider and policy. Zero values give a client
// whose remote metrics report skipped.
type Config struct {
	// Provider is one of openai, anthropic, gemini, mock. Empty means
	// openai when SUMEVAL_API_KEY is set, otherwise no remote capability.
	Provider     string
	Model        string
	MockResponse string

	Policy            judge.Policy
	RemoteConcurrency int
	RateLimitRPS      float64
	RateLimitBurst    int

	CacheDir string
	CacheTTL time.Duration
	NoCache  bool

	// Completion and Embedder override environment-based construction;
	// used by tests and embedding callers.
	Completion core.CompletionClient
	Embedder   core.Embedder

	Logger *zap.Logger
}

// Client is the assembled evaluation engine.
type Client struct {
	registry    *registry.Registry
	dispatcher  *dispatch.Dispatcher
	judge       *judge.Engine
	recommender *recommend.Recommender
	logger      *zap.Logger
	stop        func()
}

// New builds a client. Missing credentials are not an error: remote metrics
// simply report skipped.
func New(ctx context.Context, cfg Config) (*Client, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	reg := registry.Default()

	completion := cfg.Completion
	if completion == nil {
		completion = buildCompletion(ctx, cfg, logger)
	}
	if completion != nil && !cfg.NoCache {
		if store, err := cache.New(cfg.CacheDir, cfg.CacheTTL); err == nil {
			completion = model.CachedCompletion{Client: completion, Cache: store}
		} else {
			logger.Warn("completion cache disabled", zap.Error(err))
		}
	}

	embedder := cfg.Embedder
	if embedder == nil {
		if e, err := model.NewOpenAIEmbedderFromEnv(""); err == nil {
			embedder = e
		}
	}

	engine := &judge.Engine{Client: completion, Policy: cfg.Policy, Logger: logger}

	var limiter core.RateLimiter
	stop := func() {}
	if cfg.RateLimitRPS > 0 {
		l, s, err := core.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		if err != nil {
			return nil, err
		}
		limiter = l
		stop = s
	}

	dispatcher := dispatch.New(dispatch.Config{
		Registry:          reg,
		Locals:            metrics.Defaults(embedder),
		Judge:             engine,
		RemoteConcurrency: cfg.RemoteConcurrency,
		Limiter:           limiter,
		Logger:            logger,
	})

	return &Client{
		registry:    reg,
		dispatcher:  dispatcher,
		judge:       engine,
		recommender: &recommend.Recommender{Registry: reg},
		logger:      logger,
		stop:        stop,
	}, nil
}

func buildCompletion(ctx context.Context, cfg Config, logger *zap.Logger) core.CompletionClient {
	provider := cfg.Provider
	if provider == "" {
		provider = "openai"
	}

	var (
		client core.CompletionClient
		err    error
	)
	switch provider {
	case "mock":
		return model.MockCompletion{Response: cfg.MockResponse}
	case "openai":
		client, err = model.NewOpenAIFromEnv(cfg.Model)
	case "anthropic":
		client, err = model.NewAnthropicFromEnv(cfg.Model)
	case "gemini":
		client, err = model.NewGeminiFromEnv(ctx, cfg.Model)
	default:
		logger.Warn("unknown provider, remote metrics disabled", zap.String("provider", provider))
		return nil
	}
	if err != nil {
		logger.Info("remote capability not configured", zap.Error(err))
		return nil
	}
	return client
}

// Close releases the rate limiter's refill goroutine.
func (c *Client) Close() {
	if c.stop != nil {
		c.stop()
	}
}

// ListMetrics returns the full catalog in declaration order.
func (c *Client) ListMetrics() []core.MetricDescriptor {
	return c.registry.List()
}

// MetricInfo resolves one descriptor by name.
func (c *Client) MetricInfo(name string) (core.MetricDescriptor, error) {
	return c.registry.Get(name)
}

// Recommended returns the metric names for a scenario.
func (c *Client) Recommended(hasSource, hasReference, quick bool) []string {
	return c.recommender.Metrics(hasSource, hasReference, quick)
}

// RunMetric runs a single metric.
func (c *Client) RunMetric(ctx context.Context, name, summary, source, reference string) (core.MetricResult, error) {
	in := core.EvaluationInputs{Summary: summary, Source: source, Reference: reference}
	return c.dispatcher.Run(ctx, name, in)
}

// RunMetrics runs several metrics against one input bundle. The response
// carries a result for every requested metric even when all of them failed;
// the error reports invocation mistakes and remote auth problems alongside
// the intact response.
func (c *Client) RunMetrics(ctx context.Context, names []string, summary, source, reference string) (core.EvaluationResponse, error) {
	in := core.EvaluationInputs{Summary: summary, Source: source, Reference: reference}
	if err := in.Validate(); err != nil {
		return core.EvaluationResponse{}, err
	}

	var firstErr error
	results := make([]core.MetricResult, 0, len(names))
	for _, name := range names {
		result, err := c.dispatcher.Run(ctx, name, in)
		if err != nil {
			if result.Metric == "" {
				// Invocation error or cancellation: nothing to record.
				return core.EvaluationResponse{}, err
			}
			if firstErr == nil {
				firstErr = err
			}
		}
		results = append(results, result)
	}
	return aggregate.Merge(in, results), firstErr
}

// EvaluateSummary auto-recommends a metric set for the available inputs and
// runs it.
func (c *Client) EvaluateSummary(ctx context.Context, summary, source, reference string) (core.EvaluationResponse, error) {
	in := core.EvaluationInputs{Summary: summary, Source: source, Reference: reference}
	names := c.recommender.Metrics(in.HasSource(), in.HasReference(), false)
	return c.RunMetrics(ctx, names, summary, source, reference)
}

// CustomJudge runs a user-supplied judge template against one input bundle.
func (c *Client) CustomJudge(ctx context.Context, template, summary, source, reference string) (core.MetricResult, error) {
	in := core.EvaluationInputs{Summary: summary, Source: source, Reference: reference}
	if err := in.Validate(); err != nil {
		return core.MetricResult{}, err
	}
	return c.judge.Evaluate(ctx, template, in)
}

// BatchRunner returns a runner sharing this client's dispatcher and judge.
func (c *Client) BatchRunner(workers int, progress func(completed, total int)) *batch.Runner {
	return &batch.Runner{
		Dispatcher: c.dispatcher,
		Judge:      c.judge,
		Workers:    workers,
		Progress:   progress,
		Logger:     c.logger,
	}
}

// JudgeColumns reports which of the selected metrics carry an explanation
// column in batch output: judge-stage metrics plus the custom judge.
func (c *Client) JudgeColumns(names []string, customJudge bool) map[string]bool {
	explained := make(map[string]bool)
	for _, name := range names {
		if d, err := c.registry.Get(name); err == nil && d.Stage == core.StageJudge {
			explained[name] = true
		}
	}
	if customJudge {
		explained[registry.CustomJudge] = true
	}
	return explained
}
