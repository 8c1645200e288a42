package callbacks

import (
	"context"
	"time"

	"github.com/effective-security/agentflow/agents"
	"github.com/effective-security/agentflow/pkg/llms"
	"github.com/effective-security/agentflow/tools"
)

// Callback receives stage events of the pipeline, in addition to agent events
type Callback interface {
	agents.Callback
	OnStageStart(ctx context.Context, stage string)
	OnStageEnd(ctx context.Context, stage string, output string, elapsed time.Duration)
	OnStageError(ctx context.Context, stage string, err error)
}

// ensure that the callbacks implement the correct interfaces
var (
	_ Callback = (*Noop)(nil)
	_ Callback = (*Printer)(nil)
	_ Callback = (*PackageLogger)(nil)
	_ Callback = (*Fanout)(nil)
	_ Callback = (*Stats)(nil)
)

// Mode defines the mode for callback printing
type Mode int

const (
	// ModeDefault is the default mode for callback printing
	ModeDefault Mode = iota
	// ModeVerbose is the verbose mode for callback printing
	ModeVerbose
)

// Fanout is a callback handler that forwards the events to multiple callbacks.
type Fanout struct {
	callbacks []Callback
}

func NewFanout(callbacks ...Callback) *Fanout {
	return &Fanout{callbacks: callbacks}
}

func (l *Fanout) Add(callback Callback) {
	l.callbacks = append(l.callbacks, callback)
}

func (l *Fanout) OnStageStart(ctx context.Context, stage string) {
	for _, callback := range l.callbacks {
		callback.OnStageStart(ctx, stage)
	}
}

func (l *Fanout) OnStageEnd(ctx context.Context, stage string, output string, elapsed time.Duration) {
	for _, callback := range l.callbacks {
		callback.OnStageEnd(ctx, stage, output, elapsed)
	}
}

func (l *Fanout) OnStageError(ctx context.Context, stage string, err error) {
	for _, callback := range l.callbacks {
		callback.OnStageError(ctx, stage, err)
	}
}

func (l *Fanout) OnAgentStart(ctx context.Context, agent agents.IAgent, inputs map[string]any) {
	for _, callback := range l.callbacks {
		callback.OnAgentStart(ctx, agent, inputs)
	}
}

func (l *Fanout) OnAgentEnd(ctx context.Context, agent agents.IAgent, resp *agents.Response) {
	for _, callback := range l.callbacks {
		callback.OnAgentEnd(ctx, agent, resp)
	}
}

func (l *Fanout) OnAgentError(ctx context.Context, agent agents.IAgent, err error) {
	for _, callback := range l.callbacks {
		callback.OnAgentError(ctx, agent, err)
	}
}

func (l *Fanout) OnLLMCallStart(ctx context.Context, agent agents.IAgent, messages []llms.Message) {
	for _, callback := range l.callbacks {
		callback.OnLLMCallStart(ctx, agent, messages)
	}
}

func (l *Fanout) OnLLMCallEnd(ctx context.Context, agent agents.IAgent, resp *llms.ContentResponse) {
	for _, callback := range l.callbacks {
		callback.OnLLMCallEnd(ctx, agent, resp)
	}
}

func (l *Fanout) OnAgentAction(ctx context.Context, agent agents.IAgent, action agents.AgentAction) {
	for _, callback := range l.callbacks {
		callback.OnAgentAction(ctx, agent, action)
	}
}

func (l *Fanout) OnAgentFinish(ctx context.Context, agent agents.IAgent, output string) {
	for _, callback := range l.callbacks {
		callback.OnAgentFinish(ctx, agent, output)
	}
}

func (l *Fanout) OnParseError(ctx context.Context, agent agents.IAgent, text string, err error) {
	for _, callback := range l.callbacks {
		callback.OnParseError(ctx, agent, text, err)
	}
}

func (l *Fanout) OnToolNotFound(ctx context.Context, agent agents.IAgent, action agents.AgentAction) {
	for _, callback := range l.callbacks {
		callback.OnToolNotFound(ctx, agent, action)
	}
}

func (l *Fanout) OnToolStart(ctx context.Context, tool tools.ITool, input string) {
	for _, callback := range l.callbacks {
		callback.OnToolStart(ctx, tool, input)
	}
}

func (l *Fanout) OnToolEnd(ctx context.Context, tool tools.ITool, input string, output string) {
	for _, callback := range l.callbacks {
		callback.OnToolEnd(ctx, tool, input, output)
	}
}

func (l *Fanout) OnToolError(ctx context.Context, tool tools.ITool, input string, err error) {
	for _, callback := range l.callbacks {
		callback.OnToolError(ctx, tool, input, err)
	}
}

// Noop does nothing.
type Noop struct{}

func NewNoop() *Noop {
	return &Noop{}
}

func (l *Noop) OnStageStart(context.Context, string) {}
func (l *Noop) OnStageEnd(context.Context, string, string, time.Duration) {}
func (l *Noop) OnStageError(context.Context, string, error) {}
func (l *Noop) OnAgentStart(context.Context, agents.IAgent, map[string]any) {}
func (l *Noop) OnAgentEnd(context.Context, agents.IAgent, *agents.Response) {}
func (l *Noop) OnAgentError(context.Context, agents.IAgent, error) {}
func (l *Noop) OnLLMCallStart(context.Context, agents.IAgent, []llms.Message) {}
func (l *Noop) OnLLMCallEnd(context.Context, agents.IAgent, *llms.ContentResponse) {}
func (l *Noop) OnAgentAction(context.Context, agents.IAgent, agents.AgentAction) {}
func (l *Noop) OnAgentFinish(context.Context, agents.IAgent, string) {}
func (l *Noop) OnParseError(context.Context, agents.IAgent, string, error) {}
func (l *Noop) OnToolNotFound(context.Context, agents.IAgent, agents.AgentAction) {}
func (l *Noop) OnToolStart(context.Context, tools.ITool, string) {}
func (l *Noop) OnToolEnd(context.Context, tools.ITool, string, string) {}
func (l *Noop) OnToolError(context.Context, tools.ITool, string, error) {}
