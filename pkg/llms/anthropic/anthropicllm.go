// Package anthropic implements the Anthropic Messages API provider.
package anthropic

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentflow/pkg/llms"
	"github.com/effective-security/x/values"
)

var (
	ErrEmptyResponse = errors.New("anthropic: no response")
	ErrMissingToken  = errors.New("anthropic: missing API key, set it in the ANTHROPIC_API_KEY environment variable")
)

const (
	DefaultMaxTokens = 4096
)

type LLM struct {
	Client  *anthropic.Client
	Options *Options
}

var _ llms.Model = (*LLM)(nil)

// New creates a new Anthropic LLM client.
// If no token is provided via options, it will attempt to read the API key
// from the ANTHROPIC_API_KEY environment variable.
func New(opts ...Option) (*LLM, error) {
	options := &Options{
		Token:          os.Getenv(TokenEnvVarName),
		Model:          DefaultModel,
		RequestTimeout: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(options)
	}

	if options.Token == "" {
		return nil, ErrMissingToken
	}

	sdkOpts := []option.RequestOption{
		option.WithAPIKey(options.Token),
		option.WithMaxRetries(2),
		option.WithRequestTimeout(options.RequestTimeout),
	}
	if options.BaseURL != "" {
		sdkOpts = append(sdkOpts, option.WithBaseURL(options.BaseURL))
	}
	if options.HTTPClient != nil {
		sdkOpts = append(sdkOpts, option.WithHTTPClient(options.HTTPClient))
	}

	client := anthropic.NewClient(sdkOpts...)
	return &LLM{
		Client:  &client,
		Options: options,
	}, nil
}

// GetName implements the Model interface.
func (o *LLM) GetName() string {
	return o.Options.Model
}

// GetProviderType implements the Model interface.
func (o *LLM) GetProviderType() llms.ProviderType {
	return llms.ProviderAnthropic
}

// GenerateContent implements the Model interface.
func (o *LLM) GenerateContent(ctx context.Context, messages []llms.Message, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := llms.NewCallOptions(llms.CallOptions{
		Model:       o.Options.Model,
		Temperature: o.Options.Temperature,
	}, options...)

	systemPrompt, rest := llms.SplitSystem(messages)
	sdkMessages := make([]anthropic.MessageParam, 0, len(rest))
	for _, m := range rest {
		block := anthropic.NewTextBlock(m.GetContent())
		switch m.Role {
		case llms.RoleHuman:
			sdkMessages = append(sdkMessages, anthropic.NewUserMessage(block))
		case llms.RoleAI:
			sdkMessages = append(sdkMessages, anthropic.NewAssistantMessage(block))
		default:
			return nil, errors.Wrapf(llms.ErrUnexpectedRole, "anthropic: role %v not supported", m.Role)
		}
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(opts.Model),
		Messages:  sdkMessages,
		MaxTokens: values.NumbersCoalesce(int64(opts.MaxTokens), DefaultMaxTokens),
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{
			{
				Type: "text",
				Text: systemPrompt,
			},
		}
	}
	if opts.Temperature > 0 {
		params.Temperature = anthropic.Float(opts.Temperature)
	}
	if opts.TopP > 0 {
		params.TopP = anthropic.Float(opts.TopP)
	}
	if len(opts.StopWords) > 0 {
		params.StopSequences = opts.StopWords
	}

	result, err := o.Client.Messages.New(ctx, params)
	if err != nil {
		return nil, errors.Wrap(err, "anthropic: failed to create message")
	}

	var text strings.Builder
	for _, contentBlock := range result.Content {
		if tb, ok := contentBlock.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(tb.Text)
		}
	}
	if len(result.Content) == 0 {
		return nil, ErrEmptyResponse
	}

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{
			{
				Content:    text.String(),
				StopReason: string(result.StopReason),
				GenerationInfo: map[string]any{
					llms.InputTokens:  result.Usage.InputTokens,
					llms.OutputTokens: result.Usage.OutputTokens,
					llms.TotalTokens:  result.Usage.InputTokens + result.Usage.OutputTokens,
					"ID":              result.ID,
				},
			},
		},
	}, nil
}
