// Package bedrock implements the AWS Bedrock provider over the Converse API.
package bedrock

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentflow/pkg/llms"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "anthropic.claude-3-haiku-20240307-v1:0"

// ErrEmptyResponse is returned when the response has no message.
var ErrEmptyResponse = errors.New("bedrock: no response")

// ConverseAPI is the subset of the bedrockruntime client used by the LLM.
type ConverseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

type options struct {
	modelID   string
	region    string
	accessKey string
	secretKey string
	client    ConverseAPI
}

// Option is an option for the Bedrock LLM.
type Option func(*options)

// WithModel sets the model ID.
func WithModel(modelID string) Option {
	return func(o *options) {
		if modelID != "" {
			o.modelID = modelID
		}
	}
}

// WithRegion sets the AWS region.
func WithRegion(region string) Option {
	return func(o *options) {
		o.region = region
	}
}

// WithStaticCredentials uses the access key pair instead of the default chain.
func WithStaticCredentials(accessKey, secretKey string) Option {
	return func(o *options) {
		o.accessKey = accessKey
		o.secretKey = secretKey
	}
}

// WithClient uses the provided client.
func WithClient(client ConverseAPI) Option {
	return func(o *options) {
		o.client = client
	}
}

// LLM is a Bedrock LLM implementation.
type LLM struct {
	modelID string
	client  ConverseAPI
}

var _ llms.Model = (*LLM)(nil)

// New creates a new Bedrock LLM implementation.
func New(ctx context.Context, opts ...Option) (*LLM, error) {
	o := &options{
		modelID: DefaultModel,
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.client == nil {
		var loadOpts []func(*config.LoadOptions) error
		if o.region != "" {
			loadOpts = append(loadOpts, config.WithRegion(o.region))
		}
		if o.accessKey != "" {
			loadOpts = append(loadOpts, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(o.accessKey, o.secretKey, "")))
		}
		cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, errors.Wrap(err, "bedrock: failed to load AWS config")
		}
		o.client = bedrockruntime.NewFromConfig(cfg)
	}

	return &LLM{
		client:  o.client,
		modelID: o.modelID,
	}, nil
}

// GetName implements the Model interface.
func (l *LLM) GetName() string {
	return l.modelID
}

// GetProviderType implements the Model interface.
func (l *LLM) GetProviderType() llms.ProviderType {
	return llms.ProviderBedrock
}

// GenerateContent implements llms.Model.
func (l *LLM) GenerateContent(ctx context.Context, messages []llms.Message, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := llms.NewCallOptions(llms.CallOptions{
		Model: l.modelID,
	}, options...)

	system, rest := llms.SplitSystem(messages)
	input := &bedrockruntime.ConverseInput{
		ModelId:         aws.String(opts.Model),
		InferenceConfig: &types.InferenceConfiguration{},
	}
	if system != "" {
		input.System = []types.SystemContentBlock{
			&types.SystemContentBlockMemberText{Value: system},
		}
	}
	for _, m := range rest {
		var role types.ConversationRole
		switch m.Role {
		case llms.RoleHuman:
			role = types.ConversationRoleUser
		case llms.RoleAI:
			role = types.ConversationRoleAssistant
		default:
			return nil, errors.Wrapf(llms.ErrUnexpectedRole, "bedrock: role %v not supported", m.Role)
		}
		input.Messages = append(input.Messages, types.Message{
			Role: role,
			Content: []types.ContentBlock{
				&types.ContentBlockMemberText{Value: m.GetContent()},
			},
		})
	}

	if len(opts.StopWords) > 0 {
		input.InferenceConfig.StopSequences = opts.StopWords
	}
	if opts.MaxTokens > 0 {
		input.InferenceConfig.MaxTokens = aws.Int32(int32(opts.MaxTokens))
	}
	if opts.Temperature > 0 {
		input.InferenceConfig.Temperature = aws.Float32(float32(opts.Temperature))
	}
	if opts.TopP > 0 {
		input.InferenceConfig.TopP = aws.Float32(float32(opts.TopP))
	}

	out, err := l.client.Converse(ctx, input)
	if err != nil {
		return nil, errors.Wrap(err, "bedrock: failed to converse")
	}

	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return nil, ErrEmptyResponse
	}

	var text strings.Builder
	for _, block := range msg.Value.Content {
		if tb, ok := block.(*types.ContentBlockMemberText); ok {
			text.WriteString(tb.Value)
		}
	}

	info := map[string]any{}
	if out.Usage != nil {
		info[llms.InputTokens] = aws.ToInt32(out.Usage.InputTokens)
		info[llms.OutputTokens] = aws.ToInt32(out.Usage.OutputTokens)
		info[llms.TotalTokens] = aws.ToInt32(out.Usage.TotalTokens)
	}

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{
			{
				Content:        text.String(),
				StopReason:     string(out.StopReason),
				GenerationInfo: info,
			},
		},
	}, nil
}
