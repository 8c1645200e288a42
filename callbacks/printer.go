package callbacks

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/effective-security/agentflow/agents"
	"github.com/effective-security/agentflow/pkg/llms"
	"github.com/effective-security/agentflow/tools"
)

// Printer is a callback handler that prints the reasoning trace to the Writer.
// Colors are used only when the Writer is a terminal.
type Printer struct {
	Out  io.Writer
	Mode Mode

	chain       lipgloss.Style
	thought     lipgloss.Style
	observation lipgloss.Style
	failure     lipgloss.Style

	lock sync.Mutex
}

func NewPrinter(out io.Writer, mode Mode) *Printer {
	r := lipgloss.NewRenderer(out)
	return &Printer{
		Out:         out,
		Mode:        mode,
		chain:       r.NewStyle().Bold(true),
		thought:     r.NewStyle().Foreground(lipgloss.Color("2")),
		observation: r.NewStyle().Foreground(lipgloss.Color("6")),
		failure:     r.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

func (l *Printer) OnStageStart(_ context.Context, stage string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "%s\n", l.chain.Render("*** Stage "+stage+" ***"))
}

func (l *Printer) OnStageEnd(_ context.Context, stage string, _ string, elapsed time.Duration) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "%s\n", l.chain.Render(fmt.Sprintf("*** Stage %s completed in %s ***", stage, elapsed.Round(time.Millisecond))))
}

func (l *Printer) OnStageError(_ context.Context, stage string, err error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "%s\n", l.failure.Render(fmt.Sprintf("*** Stage %s failed: %s ***", stage, err.Error())))
}

func (l *Printer) OnAgentStart(_ context.Context, agent agents.IAgent, _ map[string]any) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "\n\n%s\n", l.chain.Render("> Entering new "+agent.Name()+" chain..."))
}

func (l *Printer) OnAgentEnd(_ context.Context, _ agents.IAgent, resp *agents.Response) {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.Mode == ModeVerbose && len(resp.Steps) == 0 {
		fmt.Fprintln(l.Out, l.thought.Render(resp.Output))
	}
	fmt.Fprintf(l.Out, "\n%s\n", l.chain.Render("> Finished chain."))
}

func (l *Printer) OnAgentError(_ context.Context, agent agents.IAgent, err error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintln(l.Out, l.failure.Render(fmt.Sprintf("Agent Error: %s: %s", agent.Name(), err.Error())))
}

func (l *Printer) OnLLMCallStart(_ context.Context, agent agents.IAgent, messages []llms.Message) {
	if l.Mode != ModeVerbose {
		return
	}
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "LLM Call: %s, %d messages\n", agent.Name(), len(messages))
}

func (l *Printer) OnLLMCallEnd(_ context.Context, agent agents.IAgent, resp *llms.ContentResponse) {
	if l.Mode != ModeVerbose {
		return
	}
	in, out, _ := resp.Usage()
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "LLM Call End: %s, %d input tokens, %d output tokens\n", agent.Name(), in, out)
}

func (l *Printer) OnAgentAction(_ context.Context, _ agents.IAgent, action agents.AgentAction) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprint(l.Out, l.thought.Render(action.Log))
}

func (l *Printer) OnAgentFinish(_ context.Context, _ agents.IAgent, output string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintln(l.Out, l.thought.Render(agents.FinalAnswerAction+" "+output))
}

func (l *Printer) OnParseError(_ context.Context, _ agents.IAgent, text string, err error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprint(l.Out, l.thought.Render(text))
	fmt.Fprintf(l.Out, "\n%s\n", l.failure.Render(err.Error()))
}

func (l *Printer) OnToolNotFound(_ context.Context, _ agents.IAgent, action agents.AgentAction) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "\nObservation: %s\nThought:", l.failure.Render(action.Tool+" is not a valid tool"))
}

func (l *Printer) OnToolStart(_ context.Context, tool tools.ITool, input string) {
	if l.Mode != ModeVerbose {
		return
	}
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "\nTool Start: %s\nInput: %s", tool.Name(), input)
}

func (l *Printer) OnToolEnd(_ context.Context, _ tools.ITool, _ string, output string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "\nObservation: %s\nThought:", l.observation.Render(output))
}

func (l *Printer) OnToolError(_ context.Context, tool tools.ITool, _ string, err error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "\nTool Error: %s\n", l.failure.Render(tool.Name()+": "+err.Error()))
}
