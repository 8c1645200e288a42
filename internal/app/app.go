// Package app wires the configured pipeline, tools and run store,
// and executes the runs for the API, UI and CLI.
package app

import (
	"context"
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentflow/agents"
	"github.com/effective-security/agentflow/callbacks"
	"github.com/effective-security/agentflow/internal/config"
	"github.com/effective-security/agentflow/orchestrator"
	"github.com/effective-security/agentflow/pkg/llmfactory"
	"github.com/effective-security/agentflow/store"
	"github.com/effective-security/agentflow/tools"
	"github.com/effective-security/agentflow/tools/toolset"
	"github.com/effective-security/xlog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/agentflow/internal", "app")

//go:generate mockgen -source=app.go -destination=../../mocks/mockapp/app_mock.gen.go -package mockapp

// Runner executes pipeline runs and keeps the results
type Runner interface {
	// Run executes the pipeline for the input and saves the run
	Run(ctx context.Context, source, input string) (*store.Run, error)
	// Store returns the run store
	Store() store.RunStore
	// Tools returns the research tools
	Tools() []tools.ITool
}

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agentflow",
		Name:      "pipeline_runs_total",
		Help:      "Total pipeline runs by source and status",
	}, []string{"source", "status"})

	runDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "agentflow",
		Name:      "pipeline_run_duration_seconds",
		Help:      "Duration of the pipeline runs",
		Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
	}, []string{"source"})
)

// Option configures the App
type Option func(*options)

type options struct {
	factory llmfactory.Factory
	tools   []tools.ITool
	store   store.RunStore
	out     io.Writer
}

// WithFactory overrides the LLM factory created from the configuration
func WithFactory(f llmfactory.Factory) Option {
	return func(o *options) {
		o.factory = f
	}
}

// WithTools overrides the tools created from the configuration
func WithTools(list []tools.ITool) Option {
	return func(o *options) {
		o.tools = list
	}
}

// WithStore overrides the run store created from the configuration
func WithStore(s store.RunStore) Option {
	return func(o *options) {
		o.store = s
	}
}

// WithOutput sets the writer for the reasoning trace,
// the trace is printed only when agents.verbose is set.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

// App is the Runner of the configured pipeline
type App struct {
	orch  *orchestrator.Orchestrator
	tools []tools.ITool
	store store.RunStore
	stats *callbacks.Stats
}

// New creates the App
func New(ctx context.Context, cfg *config.Configuration, opts ...Option) (*App, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	var err error
	if o.factory == nil {
		o.factory = llmfactory.New(cfg.LLM)
	}
	if o.tools == nil {
		o.tools, err = toolset.New(&cfg.Tools)
		if err != nil {
			return nil, errors.WithMessage(err, "failed to create tools")
		}
	}
	if o.store == nil {
		o.store, err = store.New(ctx, &cfg.Store)
		if err != nil {
			return nil, err
		}
	}

	mode := callbacks.ModeDefault
	if cfg.Agents.Verbose {
		mode = callbacks.ModeVerbose
	}

	stats := callbacks.NewStats(mode)
	cb := callbacks.NewFanout(stats, callbacks.NewPackageLogger(logger))
	if cfg.Agents.Verbose && o.out != nil {
		cb.Add(callbacks.NewPrinter(o.out, mode))
	}

	orch, err := orchestrator.Build(o.factory, o.tools,
		orchestrator.WithCallback(cb),
		orchestrator.WithAgentOptions(AgentOptions(&cfg.Agents, cb)...),
	)
	if err != nil {
		return nil, err
	}

	return &App{
		orch:  orch,
		tools: o.tools,
		store: o.store,
		stats: stats,
	}, nil
}

// AgentOptions returns the agent options from the configuration
func AgentOptions(cfg *config.AgentsConfig, cb agents.Callback) []agents.Option {
	opts := []agents.Option{
		agents.WithMaxIterations(cfg.MaxIterations),
	}
	if cb != nil {
		opts = append(opts, agents.WithCallback(cb))
	}
	if d := config.Duration(cfg.MaxExecutionTime); d > 0 {
		opts = append(opts, agents.WithMaxExecutionTime(d))
	}
	if cfg.HandleParsingErrors != nil {
		opts = append(opts, agents.WithHandleParsingErrors(*cfg.HandleParsingErrors))
	}
	if cfg.Temperature > 0 {
		opts = append(opts, agents.WithTemperature(cfg.Temperature))
	}
	return opts
}

// Store returns the run store
func (a *App) Store() store.RunStore {
	return a.store
}

// Tools returns the research tools
func (a *App) Tools() []tools.ITool {
	return a.tools
}

// Run executes the pipeline and saves the run
func (a *App) Run(ctx context.Context, source, input string) (*store.Run, error) {
	id := store.NewRunID()
	ctx = agents.WithRunID(orchestrator.WithSource(ctx, source), id)

	started := time.Now()
	a.stats.StartRun(ctx)
	res, err := a.orch.Run(ctx, input)
	stats, trace := a.stats.EndRun(ctx)
	runDuration.WithLabelValues(source).Observe(time.Since(started).Seconds())

	if err != nil {
		runsTotal.WithLabelValues(source, "failed").Inc()
		logger.ContextKV(ctx, xlog.ERROR,
			"run_id", id,
			"source", source,
			"err", err.Error())
		logger.ContextKV(ctx, xlog.DEBUG,
			"run_id", id,
			"trace", string(trace))
		return nil, err
	}
	runsTotal.WithLabelValues(source, "succeeded").Inc()

	run := &store.Run{
		ID:        id,
		Source:    source,
		CreatedAt: time.Now().UTC(),
		Result:    res,
		Stats:     stats,
	}
	if err = a.store.Put(ctx, run); err != nil {
		return nil, errors.WithMessage(err, "failed to save run")
	}

	logger.ContextKV(ctx, xlog.DEBUG,
		"run_id", id,
		"trace", string(trace))
	return run, nil
}
