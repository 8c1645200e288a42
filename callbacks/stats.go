package callbacks

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/effective-security/agentflow/agents"
	"github.com/effective-security/agentflow/pkg/llms"
	"github.com/effective-security/agentflow/pkg/llmutils"
	"github.com/effective-security/agentflow/tools"
)

var TimeNowFn = time.Now

// RunStats is the summary of a pipeline run
type RunStats struct {
	RunID string `json:"run_id" yaml:"run_id"`

	Duration           time.Duration            `json:"duration" yaml:"duration"`
	StageDurations     map[string]time.Duration `json:"stage_durations,omitempty" yaml:"stage_durations,omitempty"`
	TotalMessages      uint32                   `json:"total_messages" yaml:"total_messages"`
	LLMBytesOut        uint64                   `json:"llm_bytes_out" yaml:"llm_bytes_out"`
	LLMBytesIn         uint64                   `json:"llm_bytes_in" yaml:"llm_bytes_in"`
	LLMInputTokens     uint64                   `json:"llm_input_tokens" yaml:"llm_input_tokens"`
	LLMOutputTokens    uint64                   `json:"llm_output_tokens" yaml:"llm_output_tokens"`
	LLMTotalTokens     uint64                   `json:"llm_total_tokens" yaml:"llm_total_tokens"`
	LLMCalls           uint32                   `json:"llm_calls" yaml:"llm_calls"`
	AgentCalls         uint32                   `json:"agent_calls" yaml:"agent_calls"`
	AgentCallsFailed   uint32                   `json:"agent_calls_failed" yaml:"agent_calls_failed"`
	ParseErrors        uint32                   `json:"parse_errors" yaml:"parse_errors"`
	ToolCalls          uint32                   `json:"tool_calls" yaml:"tool_calls"`
	ToolCallsSucceeded uint32                   `json:"tool_calls_succeeded" yaml:"tool_calls_succeeded"`
	ToolCallsFailed    uint32                   `json:"tool_calls_failed" yaml:"tool_calls_failed"`
	ToolNotFound       uint32                   `json:"tool_not_found" yaml:"tool_not_found"`
}

// Stats collects statistics and a trace of events per run.
// The run is identified by agents.RunID of the context,
// events of unknown runs are ignored.
type Stats struct {
	runs map[string]*run
	mode Mode
	lock sync.Mutex
}

func NewStats(mode Mode) *Stats {
	return &Stats{
		runs: make(map[string]*run),
		mode: mode,
	}
}

// StartRun starts collecting events for the run of the context
func (l *Stats) StartRun(ctx context.Context) {
	runID := agents.RunID(ctx)
	if runID == "" {
		return
	}

	r := &run{
		stats: RunStats{
			RunID:          runID,
			StageDurations: make(map[string]time.Duration),
		},
		started: time.Now(),
	}

	l.lock.Lock()
	l.runs[runID] = r
	l.lock.Unlock()

	r.print("*** Run Started ***")
}

// EndRun stops collecting events and returns the stats and the trace of the run
func (l *Stats) EndRun(ctx context.Context) (*RunStats, []byte) {
	run := l.getRun(ctx)
	if run == nil {
		return nil, nil
	}

	l.lock.Lock()
	delete(l.runs, run.stats.RunID)
	l.lock.Unlock()

	run.lock.Lock()
	stats := run.stats
	stats.Duration = time.Since(run.started)
	stats.StageDurations = make(map[string]time.Duration, len(run.stats.StageDurations))
	for k, v := range run.stats.StageDurations {
		stats.StageDurations[k] = v
	}
	run.lock.Unlock()

	run.print(fmt.Sprintf("Agent calls: %d, Failed: %d, Parse errors: %d",
		stats.AgentCalls,
		stats.AgentCallsFailed,
		stats.ParseErrors,
	))
	run.print(fmt.Sprintf("Tool calls: %d, Failed: %d, Not Found: %d",
		stats.ToolCalls,
		stats.ToolCallsFailed,
		stats.ToolNotFound,
	))
	run.print(fmt.Sprintf("LLM calls: %d, Messages: %d, Bytes Out: %d, Bytes In: %d, Input Tokens: %d, Output Tokens: %d, Total Tokens: %d",
		stats.LLMCalls,
		stats.TotalMessages,
		stats.LLMBytesOut,
		stats.LLMBytesIn,
		stats.LLMInputTokens,
		stats.LLMOutputTokens,
		stats.LLMTotalTokens,
	))
	run.print(fmt.Sprintf("*** Run Ended. Duration: %s ***", stats.Duration))

	return &stats, run.bytes()
}

func (l *Stats) getRun(ctx context.Context) *run {
	runID := agents.RunID(ctx)
	if runID == "" {
		return nil
	}

	l.lock.Lock()
	defer l.lock.Unlock()
	return l.runs[runID]
}

func (l *Stats) OnStageStart(ctx context.Context, stage string) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	run.print(stage, "*** Stage Start ***")
}

func (l *Stats) OnStageEnd(ctx context.Context, stage string, output string, elapsed time.Duration) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	run.lock.Lock()
	run.stats.StageDurations[stage] = elapsed
	run.lock.Unlock()
	run.print(stage, "*** Stage End ***", elapsed.String())
}

func (l *Stats) OnStageError(ctx context.Context, stage string, err error) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	run.print(stage, "*** Stage Error ***", err.Error())
}

func (l *Stats) OnAgentStart(ctx context.Context, agent agents.IAgent, inputs map[string]any) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	atomic.AddUint32(&run.stats.AgentCalls, 1)
	run.print(agent.Name(), "*** Agent Start ***")
	if l.mode == ModeVerbose {
		for _, key := range agent.InputKeys() {
			run.print(agent.Name(), key+":", fmt.Sprint(inputs[key]))
		}
	}
}

func (l *Stats) OnAgentEnd(ctx context.Context, agent agents.IAgent, resp *agents.Response) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	if l.mode == ModeVerbose {
		run.print(agent.Name(), "Output:", resp.Output)
	}
	run.print(agent.Name(), "*** Agent End ***")
}

func (l *Stats) OnAgentError(ctx context.Context, agent agents.IAgent, err error) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	atomic.AddUint32(&run.stats.AgentCallsFailed, 1)
	run.print(agent.Name(), "*** Error ***", err.Error())
}

func (l *Stats) OnLLMCallStart(ctx context.Context, agent agents.IAgent, messages []llms.Message) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}

	atomic.AddUint64(&run.stats.LLMBytesOut, llmutils.CountMessagesContentSize(messages))
	atomic.AddUint32(&run.stats.LLMCalls, 1)
	count := uint32(len(messages))
	atomic.AddUint32(&run.stats.TotalMessages, count)

	run.print(agent.Name(), "*** LLM Call ***", fmt.Sprintf("%d messages", count))
	if l.mode == ModeVerbose {
		var buf strings.Builder
		llmutils.PrintMessages(&buf, messages)
		run.print(agent.Name(), buf.String())
	}
}

func (l *Stats) OnLLMCallEnd(ctx context.Context, agent agents.IAgent, resp *llms.ContentResponse) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}

	tokensIn, tokensOut, tokensTotal := resp.Usage()
	atomic.AddUint64(&run.stats.LLMBytesIn, llmutils.CountResponseContentSize(resp))
	atomic.AddUint64(&run.stats.LLMInputTokens, uint64(tokensIn))
	atomic.AddUint64(&run.stats.LLMOutputTokens, uint64(tokensOut))
	atomic.AddUint64(&run.stats.LLMTotalTokens, uint64(tokensTotal))

	run.print(agent.Name(), "*** LLM Call End ***",
		fmt.Sprintf("%d input tokens, %d output tokens, %d total tokens", tokensIn, tokensOut, tokensTotal))
}

func (l *Stats) OnAgentAction(ctx context.Context, agent agents.IAgent, action agents.AgentAction) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	run.print(agent.Name(), "*** Action ***", action.Tool, action.ToolInput)
}

func (l *Stats) OnAgentFinish(ctx context.Context, agent agents.IAgent, output string) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	run.print(agent.Name(), "*** Final Answer ***")
}

func (l *Stats) OnParseError(ctx context.Context, agent agents.IAgent, text string, err error) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	atomic.AddUint32(&run.stats.ParseErrors, 1)
	run.print(agent.Name(), "*** LLM Parse Error ***", err.Error())
}

func (l *Stats) OnToolNotFound(ctx context.Context, agent agents.IAgent, action agents.AgentAction) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	atomic.AddUint32(&run.stats.ToolNotFound, 1)
	run.print(agent.Name(), "*** Tool Not Found ***", action.Tool)
}

func (l *Stats) OnToolStart(ctx context.Context, tool tools.ITool, input string) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	atomic.AddUint32(&run.stats.ToolCalls, 1)
	run.print(tool.Name(), "*** Tool Start ***")
	run.print(tool.Name(), "Input:", input)
}

func (l *Stats) OnToolEnd(ctx context.Context, tool tools.ITool, input string, output string) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	atomic.AddUint32(&run.stats.ToolCallsSucceeded, 1)
	if l.mode == ModeVerbose {
		run.print(tool.Name(), "Output:", output)
	}
	run.print(tool.Name(), "*** Tool End ***")
}

func (l *Stats) OnToolError(ctx context.Context, tool tools.ITool, input string, err error) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	atomic.AddUint32(&run.stats.ToolCallsFailed, 1)
	run.print(tool.Name(), "*** Tool Error ***", err.Error())
}

type run struct {
	w       bytes.Buffer
	started time.Time
	lock    sync.Mutex
	stats   RunStats
}

// print writes the entries to the run's trace.
// The entries are written in the following format:
// [timestamp runID] entry entry\n
func (r *run) print(entries ...string) {
	r.lock.Lock()
	defer r.lock.Unlock()

	ts := TimeNowFn().Format("2006-01-02 15:04:05")

	_, _ = r.w.WriteString(ts)
	_, _ = r.w.WriteString(" ")
	_, _ = r.w.WriteString(r.stats.RunID)
	_, _ = r.w.WriteString(" ")

	for i, entry := range entries {
		if i > 0 {
			_, _ = r.w.WriteString(" ")
		}
		_, _ = r.w.WriteString(entry)
	}
	_, _ = r.w.WriteString("\n")
}

func (r *run) bytes() []byte {
	r.lock.Lock()
	defer r.lock.Unlock()
	return bytes.Clone(r.w.Bytes())
}
