package agents

import (
	"context"
	"time"

	"github.com/effective-security/agentflow/pkg/llms"
	"github.com/effective-security/agentflow/pkg/metricskey"
	"github.com/effective-security/agentflow/tools"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/agentflow", "agents")

//go:generate mockgen -source=agents.go -destination=../mocks/mockagents/agents_mock.gen.go -package mockagents

// Agent names, also used to select the model in llmfactory
const (
	ResearchAgentName = "research"
	SummaryAgentName  = "summary"
	EmailAgentName    = "email"
)

// Input keys of the pipeline agents
const (
	InputKey          = "input"
	ResearchOutputKey = "research_output"
	SummaryKey        = "summary"
)

// IAgent is a single step of the pipeline
type IAgent interface {
	// Name returns the name of the Agent.
	Name() string
	// Description returns the description of the Agent.
	Description() string
	// InputKeys returns the keys expected in the inputs of Call.
	InputKeys() []string
	// Call executes the agent.
	// Do not use this method directly, use the Run function instead.
	Call(ctx context.Context, inputs map[string]any) (*Response, error)
}

// HasCallback is implemented by agents with a callback handler
type HasCallback interface {
	GetCallback() Callback
}

// Callback receives agent, LLM and tool events
type Callback interface {
	tools.Callback
	OnAgentStart(ctx context.Context, agent IAgent, inputs map[string]any)
	OnAgentEnd(ctx context.Context, agent IAgent, resp *Response)
	OnAgentError(ctx context.Context, agent IAgent, err error)
	OnLLMCallStart(ctx context.Context, agent IAgent, messages []llms.Message)
	OnLLMCallEnd(ctx context.Context, agent IAgent, resp *llms.ContentResponse)
	OnAgentAction(ctx context.Context, agent IAgent, action AgentAction)
	OnAgentFinish(ctx context.Context, agent IAgent, output string)
	OnParseError(ctx context.Context, agent IAgent, text string, err error)
	OnToolNotFound(ctx context.Context, agent IAgent, action AgentAction)
}

// AgentAction is the tool call requested by the model
type AgentAction struct {
	Tool      string `json:"tool" yaml:"tool"`
	ToolInput string `json:"tool_input" yaml:"tool_input"`
	// Log is the model output that produced the action
	Log string `json:"log" yaml:"log"`
}

// AgentStep is an executed action with its observation
type AgentStep struct {
	Action      AgentAction `json:"action" yaml:"action"`
	Observation string      `json:"observation" yaml:"observation"`
}

// Usage is the aggregated token usage of a call
type Usage struct {
	LLMCalls     int `json:"llm_calls" yaml:"llm_calls"`
	InputTokens  int `json:"input_tokens" yaml:"input_tokens"`
	OutputTokens int `json:"output_tokens" yaml:"output_tokens"`
	TotalTokens  int `json:"total_tokens" yaml:"total_tokens"`
}

// Add the usage of the response
func (u *Usage) Add(resp *llms.ContentResponse) {
	in, out, total := resp.Usage()
	u.LLMCalls++
	u.InputTokens += in
	u.OutputTokens += out
	u.TotalTokens += total
}

// Response of an agent call
type Response struct {
	Output string      `json:"output" yaml:"output"`
	Steps  []AgentStep `json:"steps,omitempty" yaml:"steps,omitempty"`
	Usage  Usage       `json:"usage" yaml:"usage"`
	// Iterations is the number of reasoning steps
	Iterations int `json:"iterations,omitempty" yaml:"iterations,omitempty"`
	// ForceStopped is set when the iteration or time limit was reached
	ForceStopped bool `json:"force_stopped,omitempty" yaml:"force_stopped,omitempty"`
}

// Run executes the agent, reporting the call to the agent's callback and metrics.
func Run(ctx context.Context, agent IAgent, inputs map[string]any) (*Response, error) {
	var callback Callback
	if cb, ok := agent.(HasCallback); ok {
		callback = cb.GetCallback()
	}

	started := time.Now()
	defer metricskey.PerfAgentCall.MeasureSince(started, agent.Name())

	if callback != nil {
		callback.OnAgentStart(ctx, agent, inputs)
	}

	resp, err := agent.Call(ctx, inputs)
	if err != nil {
		metricskey.StatsAgentCallsFailed.IncrCounter(1, agent.Name())
		logger.ContextKV(ctx, xlog.ERROR,
			"agent", agent.Name(),
			"err", err.Error())
		if callback != nil {
			callback.OnAgentError(ctx, agent, err)
		}
		return nil, err
	}

	metricskey.StatsAgentCallsSucceeded.IncrCounter(1, agent.Name())
	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "agent_completed",
		"agent", agent.Name(),
		"iterations", resp.Iterations,
		"tokens", resp.Usage.TotalTokens,
		"elapsed", time.Since(started).String())

	if callback != nil {
		callback.OnAgentEnd(ctx, agent, resp)
	}
	return resp, nil
}
