package agents

import (
	"context"
	_ "embed"
	"maps"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentflow/pkg/llms"
	"github.com/effective-security/agentflow/pkg/metricskey"
	"github.com/effective-security/agentflow/pkg/prompts"
	"github.com/effective-security/agentflow/tools"
	"github.com/effective-security/x/slices"
	"github.com/effective-security/xlog"
)

//go:embed prompts/react.tmpl
var reactPrompt string

// ReActPrompt is the prompt of the reasoning loop,
// with tools, tool_names, input and agent_scratchpad variables.
var ReActPrompt = prompts.Must("react", reactPrompt)

// ScratchpadKey is the prompt variable with the previous steps
const ScratchpadKey = "agent_scratchpad"

// ExceptionTool is the action recorded for unparsable model output
const ExceptionTool = "_Exception"

// ForceStopOutput is returned when the iteration or time limit is reached
const ForceStopOutput = "Agent stopped due to iteration limit or time limit."

// DefaultStopWords stop the model before it makes up an observation
var DefaultStopWords = []string{"\nObservation"}

// ReAct is an agent that reasons in Thought/Action/Observation steps,
// calling tools until it produces a final answer.
type ReAct struct {
	name        string
	description string
	model       llms.Model
	tools       []tools.ITool
	prompt      *prompts.PromptTemplate
	cfg         *Config
}

// NewReAct returns the reasoning agent
func NewReAct(name, description string, model llms.Model, toolList []tools.ITool, opts ...Option) *ReAct {
	cfg := NewConfig(opts...)
	if !cfg.stopWordsSet {
		cfg.StopWords = DefaultStopWords
		cfg.stopWordsSet = true
	}

	return &ReAct{
		name:        name,
		description: description,
		model:       model,
		tools:       toolList,
		prompt: ReActPrompt.WithPartials(map[string]any{
			"tools":      tools.GetDescriptions(toolList...),
			"tool_names": tools.Names(toolList...),
		}),
		cfg: cfg,
	}
}

// NewResearchAgent returns the research agent of the pipeline
func NewResearchAgent(model llms.Model, toolList []tools.ITool, opts ...Option) *ReAct {
	return NewReAct(ResearchAgentName,
		"Researches the question using web search, Wikipedia, arXiv, weather and calculator tools",
		model, toolList, opts...)
}

func (a *ReAct) Name() string {
	return a.name
}

func (a *ReAct) Description() string {
	return a.description
}

func (a *ReAct) InputKeys() []string {
	return []string{InputKey}
}

func (a *ReAct) GetCallback() Callback {
	return a.cfg.CallbackHandler
}

// Tools returns the tools available to the agent
func (a *ReAct) Tools() []tools.ITool {
	return a.tools
}

// Call runs the reasoning loop
func (a *ReAct) Call(ctx context.Context, inputs map[string]any) (*Response, error) {
	if _, ok := inputs[InputKey]; !ok {
		return nil, errors.Wrapf(prompts.ErrMissingVariable, "%s: %s", a.name, InputKey)
	}

	cfg := a.cfg
	cb := cfg.CallbackHandler
	callOptions := cfg.GetCallOptions()
	started := time.Now()
	resp := &Response{}

	for a.shouldContinue(resp.Iterations, started) {
		if err := ctx.Err(); err != nil {
			return nil, errors.WithStack(err)
		}
		resp.Iterations++

		values := maps.Clone(inputs)
		values[ScratchpadKey] = FormatScratchpad(resp.Steps)
		messages, err := a.prompt.FormatMessages(values)
		if err != nil {
			return nil, err
		}

		llmResp, err := generate(ctx, a, a.model, cfg, messages, callOptions...)
		if err != nil {
			return nil, err
		}
		resp.Usage.Add(llmResp)

		text := truncateAtStop(llmResp.Choices[0].Content, cfg.StopWords)
		action, output, err := ParseReAct(text)
		if err != nil {
			step, perr := a.handleParseError(ctx, text, err)
			if perr != nil {
				return nil, perr
			}
			resp.Steps = append(resp.Steps, *step)
			continue
		}

		if action == nil {
			logger.ContextKV(ctx, xlog.DEBUG,
				"status", "final_answer",
				"agent", a.name,
				"iterations", resp.Iterations,
				"output", slices.StringUpto(output, 64))
			if cb != nil {
				cb.OnAgentFinish(ctx, a, output)
			}
			resp.Output = output
			return resp, nil
		}

		if cb != nil {
			cb.OnAgentAction(ctx, a, *action)
		}
		observation, err := a.runTool(ctx, *action)
		if err != nil {
			return nil, err
		}
		resp.Steps = append(resp.Steps, AgentStep{
			Action:      *action,
			Observation: observation,
		})
	}

	metricskey.StatsAgentForceStopped.IncrCounter(1, a.name)
	logger.ContextKV(ctx, xlog.WARNING,
		"status", "force_stopped",
		"agent", a.name,
		"iterations", resp.Iterations,
		"elapsed", time.Since(started).String())

	resp.Output = ForceStopOutput
	resp.ForceStopped = true
	if cb != nil {
		cb.OnAgentFinish(ctx, a, resp.Output)
	}
	return resp, nil
}

func (a *ReAct) shouldContinue(iterations int, started time.Time) bool {
	if a.cfg.MaxIterations > 0 && iterations >= a.cfg.MaxIterations {
		return false
	}
	if a.cfg.MaxExecutionTime > 0 && time.Since(started) >= a.cfg.MaxExecutionTime {
		return false
	}
	return true
}

func (a *ReAct) handleParseError(ctx context.Context, text string, err error) (*AgentStep, error) {
	metricskey.StatsAgentParseErrors.IncrCounter(1, a.name)
	logger.ContextKV(ctx, xlog.WARNING,
		"status", "parse_error",
		"agent", a.name,
		"output", slices.StringUpto(text, 64))

	if cb := a.cfg.CallbackHandler; cb != nil {
		cb.OnParseError(ctx, a, text, err)
	}

	if !a.cfg.HandleParsingErrors {
		return nil, errors.Wrapf(err, "%s: failed to parse LLM output", a.name)
	}

	observation := a.cfg.ParsingErrorObservation
	if observation == "" {
		observation = InvalidResponseObservation
		if pe, ok := AsParseError(err); ok && pe.Observation != "" {
			observation = pe.Observation
		}
	}

	return &AgentStep{
		Action: AgentAction{
			Tool:      ExceptionTool,
			ToolInput: observation,
			Log:       text,
		},
		Observation: observation,
	}, nil
}

// runTool executes the action, an unknown tool is reported back to the model
// as the observation while a failing tool stops the run
func (a *ReAct) runTool(ctx context.Context, action AgentAction) (string, error) {
	cb := a.cfg.CallbackHandler

	tool, ok := tools.Find(a.tools, action.Tool)
	if !ok {
		metricskey.StatsToolCallsNotFound.IncrCounter(1, action.Tool)
		logger.ContextKV(ctx, xlog.WARNING,
			"status", "tool_not_found",
			"agent", a.name,
			"tool", action.Tool)
		if cb != nil {
			cb.OnToolNotFound(ctx, a, action)
		}
		return action.Tool + " is not a valid tool, try one of [" + tools.Names(a.tools...) + "].", nil
	}

	if cb != nil {
		cb.OnToolStart(ctx, tool, action.ToolInput)
	}

	started := time.Now()
	observation, err := tool.Call(ctx, action.ToolInput)
	metricskey.PerfToolCall.MeasureSince(started, tool.Name())
	if err != nil {
		metricskey.StatsToolCallsFailed.IncrCounter(1, tool.Name())
		logger.ContextKV(ctx, xlog.ERROR,
			"tool", tool.Name(),
			"input", slices.StringUpto(action.ToolInput, 64),
			"err", err.Error())
		if cb != nil {
			cb.OnToolError(ctx, tool, action.ToolInput, err)
		}
		return "", errors.WithMessagef(err, "%s: tool %s failed", a.name, tool.Name())
	}

	metricskey.StatsToolCallsSucceeded.IncrCounter(1, tool.Name())
	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "tool_called",
		"tool", tool.Name(),
		"input", slices.StringUpto(action.ToolInput, 64),
		"elapsed", time.Since(started).String())

	if cb != nil {
		cb.OnToolEnd(ctx, tool, action.ToolInput, observation)
	}
	return observation, nil
}

// FormatScratchpad renders the previous steps for the agent_scratchpad variable
func FormatScratchpad(steps []AgentStep) string {
	var sb strings.Builder
	for _, step := range steps {
		sb.WriteString(step.Action.Log)
		sb.WriteString("\nObservation: ")
		sb.WriteString(step.Observation)
		sb.WriteString("\nThought: ")
	}
	return sb.String()
}
