package callbacks_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/effective-security/agentflow/agents"
	"github.com/effective-security/agentflow/callbacks"
	"github.com/effective-security/agentflow/mocks/mockagents"
	"github.com/effective-security/agentflow/pkg/llms"
	"github.com/effective-security/xlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fakeAgent struct {
	name string
}

func (f *fakeAgent) Name() string        { return f.name }
func (f *fakeAgent) Description() string { return "fake " + f.name }
func (f *fakeAgent) InputKeys() []string { return []string{agents.InputKey} }
func (f *fakeAgent) Call(context.Context, map[string]any) (*agents.Response, error) {
	return &agents.Response{Output: f.name}, nil
}

type fakeTool struct {
	name string
}

func (f *fakeTool) Name() string        { return f.name }
func (f *fakeTool) Description() string { return "fake " + f.name }
func (f *fakeTool) Parameters() any     { return nil }
func (f *fakeTool) Call(_ context.Context, input string) (string, error) {
	return input, nil
}

var llmResp = &llms.ContentResponse{
	Choices: []*llms.ContentChoice{
		{
			Content: "Final Answer: 300",
			GenerationInfo: map[string]any{
				llms.InputTokens:  100,
				llms.OutputTokens: 20,
			},
		},
	},
}

func emitAll(ctx context.Context, cb callbacks.Callback) {
	agent := &fakeAgent{name: "research"}
	tool := &fakeTool{name: "calculator"}
	action := agents.AgentAction{Tool: "calculator", ToolInput: "25*12", Log: " compute\nAction: calculator\nAction Input: 25*12"}

	cb.OnStageStart(ctx, "research")
	cb.OnAgentStart(ctx, agent, map[string]any{agents.InputKey: "calculate 25*12"})
	cb.OnLLMCallStart(ctx, agent, []llms.Message{llms.MessageFromTextParts(llms.RoleHuman, "prompt")})
	cb.OnLLMCallEnd(ctx, agent, llmResp)
	cb.OnParseError(ctx, agent, "gibberish", errors.New("Could not parse LLM output: `gibberish`"))
	cb.OnAgentAction(ctx, agent, action)
	cb.OnToolStart(ctx, tool, "25*12")
	cb.OnToolEnd(ctx, tool, "25*12", "300")
	cb.OnToolError(ctx, tool, "x", errors.New("'x' is not defined"))
	cb.OnToolNotFound(ctx, agent, agents.AgentAction{Tool: "google"})
	cb.OnAgentFinish(ctx, agent, "300")
	cb.OnAgentEnd(ctx, agent, &agents.Response{Output: "300", Steps: []agents.AgentStep{{Action: action, Observation: "300"}}})
	cb.OnAgentError(ctx, agent, errors.New("quota exceeded"))
	cb.OnStageEnd(ctx, "research", "300", 1500*time.Millisecond)
	cb.OnStageError(ctx, "summary", errors.New("summary failed"))
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	cb := callbacks.NewPrinter(&buf, callbacks.ModeVerbose)
	emitAll(context.Background(), cb)

	res := buf.String()
	assert.Contains(t, res, "*** Stage research ***")
	assert.Contains(t, res, "> Entering new research chain...")
	assert.Contains(t, res, "LLM Call: research, 1 messages")
	assert.Contains(t, res, "LLM Call End: research, 100 input tokens, 20 output tokens")
	assert.Contains(t, res, " compute\nAction: calculator\nAction Input: 25*12")
	assert.Contains(t, res, "\nTool Start: calculator\nInput: 25*12")
	assert.Contains(t, res, "\nObservation: 300\nThought:")
	assert.Contains(t, res, "\nTool Error: calculator: 'x' is not defined\n")
	assert.Contains(t, res, "google is not a valid tool")
	assert.Contains(t, res, "Final Answer: 300")
	assert.Contains(t, res, "> Finished chain.")
	assert.Contains(t, res, "Agent Error: research: quota exceeded")
	assert.Contains(t, res, "*** Stage research completed in 1.5s ***")
	assert.Contains(t, res, "*** Stage summary failed: summary failed ***")
	// no colors when not a terminal
	assert.NotContains(t, res, "\x1b[")

	buf.Reset()
	cb = callbacks.NewPrinter(&buf, callbacks.ModeDefault)
	emitAll(context.Background(), cb)
	res = buf.String()
	assert.NotContains(t, res, "LLM Call:")
	assert.NotContains(t, res, "Tool Start:")
	assert.Contains(t, res, "\nObservation: 300\nThought:")
}

func TestPackageLogger(t *testing.T) {
	var buf bytes.Buffer
	xlog.SetFormatter(xlog.NewStringFormatter(&buf))
	xlog.SetGlobalLogLevel(xlog.DEBUG)
	t.Cleanup(func() {
		xlog.SetGlobalLogLevel(xlog.INFO)
	})

	logger := xlog.NewPackageLogger("github.com/effective-security/agentflow", "callbacks_test")
	ctx := agents.WithRunID(context.Background(), "run1")
	emitAll(ctx, callbacks.NewPackageLogger(logger))

	res := buf.String()
	assert.Contains(t, res, "stage_start")
	assert.Contains(t, res, "run1")
	assert.Contains(t, res, "tool_error")
	assert.Contains(t, res, "agent_parse_error")
	assert.Contains(t, res, "stage_error")
}

func TestFanout(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := mockagents.NewMockCallback(ctrl)
	mock.EXPECT().OnAgentStart(gomock.Any(), gomock.Any(), gomock.Any())
	mock.EXPECT().OnAgentEnd(gomock.Any(), gomock.Any(), gomock.Any())
	mock.EXPECT().OnAgentError(gomock.Any(), gomock.Any(), gomock.Any())
	mock.EXPECT().OnAgentAction(gomock.Any(), gomock.Any(), gomock.Any())
	mock.EXPECT().OnAgentFinish(gomock.Any(), gomock.Any(), "300")
	mock.EXPECT().OnLLMCallStart(gomock.Any(), gomock.Any(), gomock.Any())
	mock.EXPECT().OnLLMCallEnd(gomock.Any(), gomock.Any(), llmResp)
	mock.EXPECT().OnParseError(gomock.Any(), gomock.Any(), "gibberish", gomock.Any())
	mock.EXPECT().OnToolStart(gomock.Any(), gomock.Any(), "25*12")
	mock.EXPECT().OnToolEnd(gomock.Any(), gomock.Any(), "25*12", "300")
	mock.EXPECT().OnToolError(gomock.Any(), gomock.Any(), "x", gomock.Any())
	mock.EXPECT().OnToolNotFound(gomock.Any(), gomock.Any(), gomock.Any())

	stats := callbacks.NewStats(callbacks.ModeDefault)
	fanout := callbacks.NewFanout(callbacks.NewNoop(), stats)
	fanout.Add(&agentOnly{Callback: mock})

	ctx := agents.WithRunID(context.Background(), "run2")
	stats.StartRun(ctx)
	emitAll(ctx, fanout)
	rs, _ := stats.EndRun(ctx)
	require.NotNil(t, rs)
	assert.Equal(t, uint32(1), rs.AgentCalls)
}

// agentOnly adds no-op stage events to agents.Callback
type agentOnly struct {
	agents.Callback
}

func (a *agentOnly) OnStageStart(ctx context.Context, stage string) {}
func (a *agentOnly) OnStageEnd(ctx context.Context, stage string, output string, elapsed time.Duration) {
}
func (a *agentOnly) OnStageError(ctx context.Context, stage string, err error) {}

func TestStats(t *testing.T) {
	callbacks.TimeNowFn = func() time.Time {
		return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	}
	t.Cleanup(func() {
		callbacks.TimeNowFn = time.Now
	})

	cb := callbacks.NewStats(callbacks.ModeVerbose)

	// unknown run is ignored
	emitAll(context.Background(), cb)
	rs, trace := cb.EndRun(context.Background())
	assert.Nil(t, rs)
	assert.Nil(t, trace)

	ctx := agents.WithRunID(context.Background(), "run3")
	cb.StartRun(ctx)
	emitAll(ctx, cb)
	rs, trace = cb.EndRun(ctx)
	require.NotNil(t, rs)

	assert.Equal(t, "run3", rs.RunID)
	assert.Equal(t, uint32(1), rs.AgentCalls)
	assert.Equal(t, uint32(1), rs.AgentCallsFailed)
	assert.Equal(t, uint32(1), rs.LLMCalls)
	assert.Equal(t, uint32(1), rs.TotalMessages)
	assert.Equal(t, uint64(len("human")+len("prompt")), rs.LLMBytesOut)
	assert.Equal(t, uint64(len("Final Answer: 300")), rs.LLMBytesIn)
	assert.Equal(t, uint64(100), rs.LLMInputTokens)
	assert.Equal(t, uint64(20), rs.LLMOutputTokens)
	assert.Equal(t, uint64(120), rs.LLMTotalTokens)
	assert.Equal(t, uint32(1), rs.ParseErrors)
	assert.Equal(t, uint32(1), rs.ToolCalls)
	assert.Equal(t, uint32(1), rs.ToolCallsSucceeded)
	assert.Equal(t, uint32(1), rs.ToolCallsFailed)
	assert.Equal(t, uint32(1), rs.ToolNotFound)
	assert.Equal(t, 1500*time.Millisecond, rs.StageDurations["research"])

	lines := strings.Split(strings.TrimSpace(string(trace)), "\n")
	assert.Equal(t, "2025-01-02 03:04:05 run3 *** Run Started ***", lines[0])
	assert.Contains(t, string(trace), "2025-01-02 03:04:05 run3 research *** Agent Start ***")
	assert.Contains(t, string(trace), "research input: calculate 25*12")
	assert.Contains(t, string(trace), "calculator Output: 300")
	assert.Contains(t, string(trace), "Tool calls: 1, Failed: 1, Not Found: 1")
	assert.Contains(t, lines[len(lines)-1], "*** Run Ended. Duration: ")

	// run is removed
	rs, _ = cb.EndRun(ctx)
	assert.Nil(t, rs)
}
