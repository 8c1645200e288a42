package orchestrator

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentflow/agents"
	"github.com/effective-security/agentflow/pkg/llmfactory"
	"github.com/effective-security/agentflow/pkg/metricskey"
	"github.com/effective-security/agentflow/tools"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/agentflow", "orchestrator")

// ErrEmptyInput is returned when the user input is empty
var ErrEmptyInput = errors.New("user input is empty")

// DemoQuery is the query used when none is provided
const DemoQuery = "Write research on AI in healthcare and also calculate 25*12 and tell weather in Hyderabad"

// Pipeline stages
const (
	StageResearch = "research"
	StageSummary  = "summary"
	StageEmail    = "email"
)

// Stages lists the pipeline stages in execution order
var Stages = []string{StageResearch, StageSummary, StageEmail}

// StageCallback receives stage events
type StageCallback interface {
	OnStageStart(ctx context.Context, stage string)
	OnStageEnd(ctx context.Context, stage string, output string, elapsed time.Duration)
	OnStageError(ctx context.Context, stage string, err error)
}

// Result of the pipeline
type Result struct {
	UserInput      string `json:"user_input" yaml:"user_input" toml:"user_input"`
	ResearchOutput string `json:"research_output" yaml:"research_output" toml:"research_output"`
	SummaryOutput  string `json:"summary_output" yaml:"summary_output" toml:"summary_output"`
	EmailOutput    string `json:"email_output" yaml:"email_output" toml:"email_output"`

	// ResearchSteps are the intermediate steps of the research agent
	ResearchSteps []agents.AgentStep `json:"research_steps,omitempty" yaml:"research_steps,omitempty" toml:"research_steps,omitempty"`
	// Timings is the duration of each stage in milliseconds
	Timings map[string]int64 `json:"timings_ms,omitempty" yaml:"timings_ms,omitempty" toml:"timings_ms,omitempty"`
	// Usage is the total token usage of the run
	Usage agents.Usage `json:"usage" yaml:"usage" toml:"usage"`
}

// Output returns the output of the stage
func (r *Result) Output(stage string) (string, bool) {
	switch stage {
	case StageResearch:
		return r.ResearchOutput, true
	case StageSummary:
		return r.SummaryOutput, true
	case StageEmail:
		return r.EmailOutput, true
	}
	return "", false
}

// Option configures the Orchestrator
type Option func(*options)

type options struct {
	callback     StageCallback
	agentOptions []agents.Option
	researchOpts []agents.Option
}

// WithCallback sets the stage callback
func WithCallback(cb StageCallback) Option {
	return func(o *options) {
		o.callback = cb
	}
}

// WithAgentOptions sets the options of all agents created by Build
func WithAgentOptions(opts ...agents.Option) Option {
	return func(o *options) {
		o.agentOptions = append(o.agentOptions, opts...)
	}
}

// WithResearchOptions sets the options of the research agent created by Build
func WithResearchOptions(opts ...agents.Option) Option {
	return func(o *options) {
		o.researchOpts = append(o.researchOpts, opts...)
	}
}

// Orchestrator runs the pipeline
type Orchestrator struct {
	research agents.IAgent
	summary  agents.IAgent
	email    agents.IAgent
	callback StageCallback
}

// New returns the orchestrator of the given agents
func New(research, summary, email agents.IAgent, opts ...Option) *Orchestrator {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return &Orchestrator{
		research: research,
		summary:  summary,
		email:    email,
		callback: o.callback,
	}
}

// Build creates the pipeline agents with the models mapped to the agent names in the factory
func Build(f llmfactory.Factory, toolList []tools.ITool, opts ...Option) (*Orchestrator, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	researchModel, err := f.AgentModel(agents.ResearchAgentName)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to create model for %s agent", agents.ResearchAgentName)
	}
	summaryModel, err := f.AgentModel(agents.SummaryAgentName)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to create model for %s agent", agents.SummaryAgentName)
	}
	emailModel, err := f.AgentModel(agents.EmailAgentName)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to create model for %s agent", agents.EmailAgentName)
	}

	researchOpts := append(append([]agents.Option{}, o.agentOptions...), o.researchOpts...)

	logger.KV(xlog.DEBUG,
		"status", "pipeline_created",
		"research_model", researchModel.GetName(),
		"summary_model", summaryModel.GetName(),
		"email_model", emailModel.GetName(),
		"tools", tools.Names(toolList...))

	return &Orchestrator{
		research: agents.NewResearchAgent(researchModel, toolList, researchOpts...),
		summary:  agents.NewSummaryChain(summaryModel, o.agentOptions...),
		email:    agents.NewEmailChain(emailModel, o.agentOptions...),
		callback: o.callback,
	}, nil
}

// Agents returns the pipeline agents in execution order
func (o *Orchestrator) Agents() []agents.IAgent {
	return []agents.IAgent{o.research, o.summary, o.email}
}

// Run executes research, summary and email in sequence.
// A failed stage stops the pipeline.
func (o *Orchestrator) Run(ctx context.Context, userInput string) (*Result, error) {
	if strings.TrimSpace(userInput) == "" {
		return nil, errors.WithStack(ErrEmptyInput)
	}

	source := Source(ctx)
	started := time.Now()
	defer metricskey.PerfPipelineRun.MeasureSince(started, source)

	res := &Result{
		UserInput: userInput,
		Timings:   make(map[string]int64, len(Stages)),
	}

	research, err := o.runStage(ctx, res, StageResearch, o.research, map[string]any{
		agents.InputKey: userInput,
	})
	if err != nil {
		return nil, err
	}
	res.ResearchOutput = research.Output
	res.ResearchSteps = research.Steps

	summary, err := o.runStage(ctx, res, StageSummary, o.summary, map[string]any{
		agents.ResearchOutputKey: research.Output,
	})
	if err != nil {
		return nil, err
	}
	res.SummaryOutput = summary.Output

	email, err := o.runStage(ctx, res, StageEmail, o.email, map[string]any{
		agents.SummaryKey: summary.Output,
	})
	if err != nil {
		return nil, err
	}
	res.EmailOutput = email.Output

	metricskey.StatsPipelineRunsSucceeded.IncrCounter(1, source)
	logger.ContextKV(ctx, xlog.INFO,
		"status", "pipeline_completed",
		"run_id", agents.RunID(ctx),
		"source", source,
		"tokens", res.Usage.TotalTokens,
		"elapsed", time.Since(started).String())

	return res, nil
}

func (o *Orchestrator) runStage(ctx context.Context, res *Result, stage string, agent agents.IAgent, inputs map[string]any) (*agents.Response, error) {
	if o.callback != nil {
		o.callback.OnStageStart(ctx, stage)
	}

	started := time.Now()
	resp, err := agents.Run(ctx, agent, inputs)
	elapsed := time.Since(started)
	metricskey.PerfPipelineStage.MeasureSince(started, stage)
	res.Timings[stage] = elapsed.Milliseconds()

	if err != nil {
		metricskey.StatsPipelineRunsFailed.IncrCounter(1, Source(ctx), stage)
		err = errors.WithMessagef(err, "%s stage failed", stage)
		if o.callback != nil {
			o.callback.OnStageError(ctx, stage, err)
		}
		return nil, err
	}

	res.Usage.LLMCalls += resp.Usage.LLMCalls
	res.Usage.InputTokens += resp.Usage.InputTokens
	res.Usage.OutputTokens += resp.Usage.OutputTokens
	res.Usage.TotalTokens += resp.Usage.TotalTokens

	if o.callback != nil {
		o.callback.OnStageEnd(ctx, stage, resp.Output, elapsed)
	}
	return resp, nil
}

// String returns the outputs in the console format
func (r *Result) String() string {
	var sb strings.Builder
	sb.WriteString("\n========= RESEARCH OUTPUT =========\n")
	sb.WriteString(r.ResearchOutput)
	sb.WriteString("\n\n========= SUMMARY OUTPUT =========\n")
	sb.WriteString(r.SummaryOutput)
	sb.WriteString("\n\n========= EMAIL OUTPUT =========\n")
	sb.WriteString(r.EmailOutput)
	sb.WriteString("\n")
	return sb.String()
}

// Markdown returns the outputs as a Markdown document
func (r *Result) Markdown() string {
	var sb strings.Builder
	sb.WriteString("# Research Output\n\n")
	sb.WriteString(r.ResearchOutput)
	sb.WriteString("\n\n# Summary Output\n\n")
	sb.WriteString(r.SummaryOutput)
	sb.WriteString("\n\n# Email Output\n\n")
	sb.WriteString(r.EmailOutput)
	sb.WriteString("\n")
	return sb.String()
}
