package agents

import (
	"context"
	_ "embed"

	"github.com/effective-security/agentflow/pkg/llms"
	"github.com/effective-security/agentflow/pkg/prompts"
)

var (
	//go:embed prompts/summary.tmpl
	summaryPrompt string
	//go:embed prompts/email.tmpl
	emailPrompt string
)

var (
	// SummaryPrompt summarizes research_output into 100 to 150 words
	SummaryPrompt = prompts.Must("summary", summaryPrompt)
	// EmailPrompt composes an email from summary
	EmailPrompt = prompts.Must("email", emailPrompt)
)

// Chain formats the prompt as a single human message, calls the model
// and returns the trimmed text of the first choice.
type Chain struct {
	name        string
	description string
	model       llms.Model
	prompt      *prompts.PromptTemplate
	cfg         *Config
}

// NewChain returns a prompt chain
func NewChain(name, description string, model llms.Model, prompt *prompts.PromptTemplate, opts ...Option) *Chain {
	return &Chain{
		name:        name,
		description: description,
		model:       model,
		prompt:      prompt,
		cfg:         NewConfig(opts...),
	}
}

// NewSummaryChain returns the summary step, the input key is research_output
func NewSummaryChain(model llms.Model, opts ...Option) *Chain {
	return NewChain(SummaryAgentName, "Summarizes the research into 100 to 150 words", model, SummaryPrompt, opts...)
}

// NewEmailChain returns the email step, the input key is summary
func NewEmailChain(model llms.Model, opts ...Option) *Chain {
	return NewChain(EmailAgentName, "Writes a professional email based on the summary", model, EmailPrompt, opts...)
}

func (c *Chain) Name() string {
	return c.name
}

func (c *Chain) Description() string {
	return c.description
}

func (c *Chain) InputKeys() []string {
	return c.prompt.GetInputVariables()
}

func (c *Chain) GetCallback() Callback {
	return c.cfg.CallbackHandler
}

// Run executes the chain and returns the output text
func (c *Chain) Run(ctx context.Context, inputs map[string]any) (string, error) {
	resp, err := Run(ctx, c, inputs)
	if err != nil {
		return "", err
	}
	return resp.Output, nil
}

// Call formats the prompt and calls the model
func (c *Chain) Call(ctx context.Context, inputs map[string]any) (*Response, error) {
	messages, err := c.prompt.FormatMessages(inputs)
	if err != nil {
		return nil, err
	}

	llmResp, err := generate(ctx, c, c.model, c.cfg, messages, c.cfg.GetCallOptions()...)
	if err != nil {
		return nil, err
	}

	resp := &Response{
		Output:     llmResp.Choices[0].Content,
		Iterations: 1,
	}
	resp.Usage.Add(llmResp)
	return resp, nil
}
