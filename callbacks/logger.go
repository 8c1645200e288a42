package callbacks

import (
	"context"
	"time"

	"github.com/effective-security/agentflow/agents"
	"github.com/effective-security/agentflow/pkg/llms"
	"github.com/effective-security/agentflow/tools"
	"github.com/effective-security/x/slices"
	"github.com/effective-security/xlog"
)

// PackageLogger is a callback handler that prints to the logger.
type PackageLogger struct {
	logger *xlog.PackageLogger
}

func NewPackageLogger(logger *xlog.PackageLogger) *PackageLogger {
	return &PackageLogger{logger: logger}
}

func (l *PackageLogger) OnStageStart(ctx context.Context, stage string) {
	l.logger.ContextKV(ctx, xlog.INFO,
		"event", "stage_start",
		"run_id", agents.RunID(ctx),
		"stage", stage,
	)
}

func (l *PackageLogger) OnStageEnd(ctx context.Context, stage string, output string, elapsed time.Duration) {
	l.logger.ContextKV(ctx, xlog.INFO,
		"event", "stage_end",
		"run_id", agents.RunID(ctx),
		"stage", stage,
		"output_size", len(output),
		"elapsed", elapsed.String(),
	)
}

func (l *PackageLogger) OnStageError(ctx context.Context, stage string, err error) {
	l.logger.ContextKV(ctx, xlog.ERROR,
		"event", "stage_error",
		"run_id", agents.RunID(ctx),
		"stage", stage,
		"err", err.Error(),
	)
}

func (l *PackageLogger) OnAgentStart(ctx context.Context, agent agents.IAgent, inputs map[string]any) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "agent_start",
		"agent", agent.Name(),
		"inputs", len(inputs),
	)
}

func (l *PackageLogger) OnAgentEnd(ctx context.Context, agent agents.IAgent, resp *agents.Response) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "agent_end",
		"agent", agent.Name(),
		"steps", len(resp.Steps),
		"tokens", resp.Usage.TotalTokens,
		"result", slices.StringUpto(resp.Output, 128),
	)
}

func (l *PackageLogger) OnAgentError(ctx context.Context, agent agents.IAgent, err error) {
	l.logger.ContextKV(ctx, xlog.ERROR,
		"event", "agent_error",
		"agent", agent.Name(),
		"err", err.Error(),
	)
}

func (l *PackageLogger) OnLLMCallStart(ctx context.Context, agent agents.IAgent, messages []llms.Message) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "llm_call_start",
		"agent", agent.Name(),
		"messages", len(messages),
	)
}

func (l *PackageLogger) OnLLMCallEnd(ctx context.Context, agent agents.IAgent, resp *llms.ContentResponse) {
	in, out, total := resp.Usage()
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "llm_call_end",
		"agent", agent.Name(),
		"tokens_in", in,
		"tokens_out", out,
		"tokens_total", total,
	)
}

func (l *PackageLogger) OnAgentAction(ctx context.Context, agent agents.IAgent, action agents.AgentAction) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "agent_action",
		"agent", agent.Name(),
		"tool", action.Tool,
		"input", slices.StringUpto(action.ToolInput, 64),
	)
}

func (l *PackageLogger) OnAgentFinish(ctx context.Context, agent agents.IAgent, output string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "agent_finish",
		"agent", agent.Name(),
		"output", slices.StringUpto(output, 64),
	)
}

func (l *PackageLogger) OnParseError(ctx context.Context, agent agents.IAgent, text string, err error) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "agent_parse_error",
		"agent", agent.Name(),
		"err", err.Error(),
		"response", slices.StringUpto(text, 128),
	)
}

func (l *PackageLogger) OnToolNotFound(ctx context.Context, agent agents.IAgent, action agents.AgentAction) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "tool_not_found",
		"agent", agent.Name(),
		"tool", action.Tool,
	)
}

func (l *PackageLogger) OnToolStart(ctx context.Context, tool tools.ITool, input string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "tool_start",
		"tool", tool.Name(),
		"input", input,
	)
}

func (l *PackageLogger) OnToolEnd(ctx context.Context, tool tools.ITool, input string, output string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "tool_end",
		"tool", tool.Name(),
		"output", slices.StringUpto(output, 128),
	)
}

func (l *PackageLogger) OnToolError(ctx context.Context, tool tools.ITool, input string, err error) {
	l.logger.ContextKV(ctx, xlog.ERROR,
		"event", "tool_error",
		"tool", tool.Name(),
		"err", err.Error(),
	)
}
