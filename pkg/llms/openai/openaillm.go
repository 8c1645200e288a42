// Package openai implements the OpenAI Chat Completions provider.
package openai

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentflow/pkg/llms"
	"github.com/effective-security/xlog"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/agentflow/pkg/llms", "openai")

// ErrEmptyResponse is returned when the API returns no choices.
var ErrEmptyResponse = errors.New("no response")

// LLM is an OpenAI chat model.
type LLM struct {
	client openai.Client
	opts   options
}

var _ llms.Model = (*LLM)(nil)

// New returns a new OpenAI LLM.
func New(opts ...Option) (*LLM, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.token == "" {
		return nil, errors.Errorf("missing the OpenAI API key, set it in the %s environment variable", tokenEnvVarName)
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(o.token),
		option.WithMaxRetries(2),
	}
	if o.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(o.baseURL))
	}
	if o.organization != "" {
		clientOpts = append(clientOpts, option.WithOrganization(o.organization))
	}
	if o.httpClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(o.httpClient))
	}

	return &LLM{
		client: openai.NewClient(clientOpts...),
		opts:   o,
	}, nil
}

// GetName implements the Model interface.
func (o *LLM) GetName() string {
	return o.opts.model
}

// GetProviderType implements the Model interface.
func (o *LLM) GetProviderType() llms.ProviderType {
	return llms.ProviderOpenAI
}

// GenerateContent implements the Model interface.
func (o *LLM) GenerateContent(ctx context.Context, messages []llms.Message, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := llms.NewCallOptions(llms.CallOptions{
		Model:       o.opts.model,
		Temperature: o.opts.temperature,
		MaxTokens:   o.opts.maxTokens,
	}, options...)

	chatMsgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, mc := range messages {
		text := mc.GetContent()
		switch mc.Role {
		case llms.RoleSystem:
			chatMsgs = append(chatMsgs, openai.SystemMessage(text))
		case llms.RoleHuman:
			chatMsgs = append(chatMsgs, openai.UserMessage(text))
		case llms.RoleAI:
			chatMsgs = append(chatMsgs, openai.AssistantMessage(text))
		default:
			return nil, errors.Wrapf(llms.ErrUnexpectedRole, "role %v not supported", mc.Role)
		}
	}

	req := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(opts.Model),
		Messages:    chatMsgs,
		Temperature: openai.Float(opts.Temperature),
	}
	if len(opts.StopWords) > 0 {
		req.Stop = openai.ChatCompletionNewParamsStopUnion{OfStringArray: opts.StopWords}
	}
	if opts.MaxTokens > 0 {
		req.MaxCompletionTokens = openai.Int(int64(opts.MaxTokens))
	}
	if opts.TopP > 0 {
		req.TopP = openai.Float(opts.TopP)
	}
	if opts.Seed != 0 {
		req.Seed = openai.Int(int64(opts.Seed))
	}
	if opts.CandidateCount > 1 {
		req.N = openai.Int(int64(opts.CandidateCount))
	}

	result, err := o.client.Chat.Completions.New(ctx, req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create chat completion")
	}
	if len(result.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	choices := make([]*llms.ContentChoice, len(result.Choices))
	for i, c := range result.Choices {
		choices[i] = &llms.ContentChoice{
			Content:    c.Message.Content,
			StopReason: c.FinishReason,
			GenerationInfo: map[string]any{
				llms.InputTokens:  result.Usage.PromptTokens,
				llms.OutputTokens: result.Usage.CompletionTokens,
				llms.TotalTokens:  result.Usage.TotalTokens,
			},
		}
	}

	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "generated",
		"model", opts.Model,
		"choices", len(choices),
	)
	return &llms.ContentResponse{Choices: choices}, nil
}
