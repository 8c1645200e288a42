// Package googleai implements the Gemini provider.
// See https://ai.google.dev/ for more details.
package googleai

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentflow/pkg/llms"
	"github.com/effective-security/xlog"
	"google.golang.org/genai"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/agentflow/pkg/llms", "googleai")

var (
	ErrNoContentInResponse = errors.New("no content in generation response")
)

const (
	RoleModel = "model"
	RoleUser  = "user"
)

// GoogleAI is a type that represents a Google AI API client.
type GoogleAI struct {
	client *genai.Client
	opts   Options
}

var _ llms.Model = (*GoogleAI)(nil)

// New creates a new GoogleAI client.
func New(ctx context.Context, opts ...Option) (*GoogleAI, error) {
	clientOptions := DefaultOptions()
	for _, opt := range opts {
		opt(&clientOptions)
	}
	clientOptions.EnsureAuthPresent()

	cfg := &genai.ClientConfig{
		APIKey:      clientOptions.APIKey,
		Credentials: clientOptions.Credentials,
		HTTPClient:  clientOptions.HTTPClient,
		Backend:     genai.BackendGeminiAPI,
	}
	if clientOptions.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: clientOptions.BaseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create genai client")
	}
	return &GoogleAI{
		client: client,
		opts:   clientOptions,
	}, nil
}

// GetName implements the Model interface.
func (g *GoogleAI) GetName() string {
	return g.opts.DefaultModel
}

// GetProviderType implements the Model interface.
func (g *GoogleAI) GetProviderType() llms.ProviderType {
	return llms.ProviderGoogleAI
}

// GenerateContent implements the [llms.Model] interface.
func (g *GoogleAI) GenerateContent(
	ctx context.Context,
	messages []llms.Message,
	options ...llms.CallOption,
) (*llms.ContentResponse, error) {
	opts := llms.NewCallOptions(llms.CallOptions{
		Model:          g.opts.DefaultModel,
		CandidateCount: g.opts.DefaultCandidateCount,
		MaxTokens:      g.opts.DefaultMaxTokens,
		Temperature:    g.opts.DefaultTemperature,
		TopP:           g.opts.DefaultTopP,
		TopK:           g.opts.DefaultTopK,
	}, options...)

	callCfg := &genai.GenerateContentConfig{
		StopSequences:   opts.StopWords,
		CandidateCount:  int32(opts.CandidateCount),
		MaxOutputTokens: int32(opts.MaxTokens),
		Temperature:     genai.Ptr(float32(opts.Temperature)),
		TopP:            genai.Ptr(float32(opts.TopP)),
		TopK:            genai.Ptr(float32(opts.TopK)),
	}
	if opts.Seed != 0 {
		callCfg.Seed = genai.Ptr(int32(opts.Seed))
	}

	for _, category := range []genai.HarmCategory{
		genai.HarmCategoryDangerousContent,
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
	} {
		callCfg.SafetySettings = append(callCfg.SafetySettings, &genai.SafetySetting{
			Category:  category,
			Threshold: g.opts.HarmThreshold,
		})
	}

	system, rest := llms.SplitSystem(messages)
	if system != "" {
		callCfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	history := make([]*genai.Content, 0, len(rest))
	for _, mc := range rest {
		content, err := convertContent(mc)
		if err != nil {
			return nil, err
		}
		history = append(history, content)
	}

	resp, err := g.client.Models.GenerateContent(ctx, opts.Model, history, callCfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate content")
	}
	if len(resp.Candidates) == 0 {
		return nil, ErrNoContentInResponse
	}

	res := convertCandidates(resp.Candidates, resp.UsageMetadata)
	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "generated",
		"model", opts.Model,
		"choices", len(res.Choices),
	)
	return res, nil
}

// convertContent converts between a Message and genai content.
func convertContent(content llms.Message) (*genai.Content, error) {
	c := &genai.Content{
		Parts: make([]*genai.Part, 0, len(content.Parts)),
	}
	for _, part := range content.Parts {
		if tc, ok := part.(llms.TextContent); ok {
			c.Parts = append(c.Parts, &genai.Part{Text: tc.Text})
		}
	}

	switch content.Role {
	case llms.RoleAI:
		c.Role = RoleModel
	case llms.RoleHuman:
		c.Role = RoleUser
	default:
		return nil, errors.Wrapf(llms.ErrUnexpectedRole, "role %v not supported", content.Role)
	}
	return c, nil
}

// convertCandidates converts a sequence of genai.Candidate to a response.
func convertCandidates(candidates []*genai.Candidate, usage *genai.GenerateContentResponseUsageMetadata) *llms.ContentResponse {
	var contentResponse llms.ContentResponse

	for _, candidate := range candidates {
		var buf strings.Builder
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if part != nil && !part.Thought {
					buf.WriteString(part.Text)
				}
			}
		}

		metadata := make(map[string]any)
		if usage != nil {
			metadata[llms.InputTokens] = usage.PromptTokenCount
			metadata[llms.OutputTokens] = usage.CandidatesTokenCount
			metadata[llms.TotalTokens] = usage.TotalTokenCount
		}

		contentResponse.Choices = append(contentResponse.Choices,
			&llms.ContentChoice{
				Content:        buf.String(),
				StopReason:     string(candidate.FinishReason),
				GenerationInfo: metadata,
			})
	}
	return &contentResponse
}
