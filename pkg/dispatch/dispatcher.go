// Package dispatch invokes metrics uniformly. Local metrics call their
// scoring collaborator synchronously; remote metrics go through the judge
// engine under a bounded timeout, retry policy, and a remote concurrency
// limit separate from any batch worker pool.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"sumeval/pkg/core"
	"sumeval/pkg/judge"
	"sumeval/pkg/registry"
)

// ErrUnknownMetric is an invocation error: the caller asked for a metric
// that is not in the registry. Unlike per-metric failures it propagates.
var ErrUnknownMetric = errors.New("dispatch: unknown metric")

// Config wires a Dispatcher. Credentials are passed in explicitly through
// the judge engine's completion client, never read from the environment at
// call time.
type Config struct {
	Registry *registry.Registry
	Locals   map[string]core.LocalScorer
	Judge    *judge.Engine
	// RemoteConcurrency bounds in-flight remote calls. Defaults to 4.
	RemoteConcurrency int
	// Limiter optionally rate-limits remote calls on top of the
	// concurrency bound.
	Limiter core.RateLimiter
	Logger  *zap.Logger
}

// Dispatcher validates inputs against a metric's descriptor and executes the
// metric's strategy. It never propagates collaborator errors past its
// boundary: they become failed results.
type Dispatcher struct {
	registry *registry.Registry
	locals   map[string]core.LocalScorer
	judge    *judge.Engine
	sem      chan struct{}
	limiter  core.RateLimiter
	logger   *zap.Logger
	locks    map[string]*sync.Mutex
}

// New builds a Dispatcher. Local collaborators that declare themselves
// non-thread-safe get a dedicated lock.
func New(cfg Config) *Dispatcher {
	concurrency := cfg.RemoteConcurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	locks := make(map[string]*sync.Mutex)
	for name, scorer := range cfg.Locals {
		if s, ok := scorer.(core.SerialScorer); ok && s.SerialOnly() {
			locks[name] = &sync.Mutex{}
		}
	}

	return &Dispatcher{
		registry: cfg.Registry,
		locals:   cfg.Locals,
		judge:    cfg.Judge,
		sem:      make(chan struct{}, concurrency),
		limiter:  cfg.Limiter,
		logger:   logger,
		locks:    locks,
	}
}

// Registry exposes the catalog the dispatcher resolves against.
func (d *Dispatcher) Registry() *registry.Registry { return d.registry }

// Run executes one metric against one input bundle. Missing required inputs
// produce a skipped result; collaborator failures produce a failed result.
// The returned error is non-nil only for invocation errors (unknown metric,
// empty summary), authorization failures, and cancellation.
func (d *Dispatcher) Run(ctx context.Context, name string, in core.EvaluationInputs) (core.MetricResult, error) {
	desc, err := d.registry.Get(name)
	if err != nil {
		return core.MetricResult{}, fmt.Errorf("%w: %q", ErrUnknownMetric, name)
	}
	if err := in.Validate(); err != nil {
		return core.MetricResult{}, err
	}

	if missing := missingInput(desc, in); missing != "" {
		return core.MetricResult{
			Metric:      name,
			Status:      core.StatusSkipped,
			Explanation: fmt.Sprintf("requires a non-empty %s", missing),
		}, nil
	}

	switch desc.Kind {
	case core.KindLocal:
		return d.runLocal(ctx, name, in), nil
	case core.KindRemote:
		return d.runRemote(ctx, name, in)
	default:
		return core.MetricResult{
			Metric: name,
			Status: core.StatusFailed,
			Err:    fmt.Sprintf("unsupported execution kind %q", desc.Kind),
		}, nil
	}
}

func missingInput(desc core.MetricDescriptor, in core.EvaluationInputs) string {
	if desc.NeedsSource && !in.HasSource() {
		return "source document"
	}
	if desc.NeedsReference && !in.HasReference() {
		return "reference summary"
	}
	return ""
}

func (d *Dispatcher) runLocal(ctx context.Context, name string, in core.EvaluationInputs) (result core.MetricResult) {
	scorer, ok := d.locals[name]
	if !ok {
		return core.MetricResult{
			Metric: name,
			Status: core.StatusFailed,
			Err:    fmt.Sprintf("no scoring collaborator registered for %q", name),
		}
	}

	if lock := d.locks[name]; lock != nil {
		lock.Lock()
		defer lock.Unlock()
	}

	// Collaborator panics stay inside the dispatcher boundary.
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("scoring collaborator panicked",
				zap.String("metric", name),
				zap.Any("panic", r))
			result = core.MetricResult{
				Metric: name,
				Status: core.StatusFailed,
				Err:    fmt.Sprintf("collaborator panic: %v", r),
			}
		}
	}()

	scored, err := scorer.Score(ctx, in)
	if err != nil {
		return core.MetricResult{
			Metric:      name,
			Status:      core.StatusFailed,
			Explanation: "local computation failed",
			Err:         err.Error(),
		}
	}
	scored.Metric = name
	if scored.Status == "" {
		scored.Status = core.StatusOK
	}
	return scored
}

func (d *Dispatcher) runRemote(ctx context.Context, name string, in core.EvaluationInputs) (core.MetricResult, error) {
	if d.judge == nil || d.judge.Client == nil {
		return judge.SkippedNoCredentials(name), nil
	}

	if d.limiter != nil {
		if err := d.limiter.Wait(ctx); err != nil {
			return core.MetricResult{}, err
		}
	}

	select {
	case d.sem <- struct{}{}:
	case <-ctx.Done():
		return core.MetricResult{}, ctx.Err()
	}
	defer func() { <-d.sem }()

	return d.judge.RunBuiltin(ctx, name, in)
}
