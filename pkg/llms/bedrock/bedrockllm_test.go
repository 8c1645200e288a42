package bedrock_test

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentflow/pkg/llms"
	"github.com/effective-security/agentflow/pkg/llms/bedrock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConverse struct {
	input *bedrockruntime.ConverseInput
	out   *bedrockruntime.ConverseOutput
	err   error
}

func (f *fakeConverse) Converse(_ context.Context, params *bedrockruntime.ConverseInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	f.input = params
	return f.out, f.err
}

func Test_GenerateContent(t *testing.T) {
	ctx := context.Background()
	fake := &fakeConverse{
		out: &bedrockruntime.ConverseOutput{
			Output: &types.ConverseOutputMemberMessage{
				Value: types.Message{
					Role: types.ConversationRoleAssistant,
					Content: []types.ContentBlock{
						&types.ContentBlockMemberText{Value: "Final Answer: "},
						&types.ContentBlockMemberText{Value: "done"},
					},
				},
			},
			StopReason: types.StopReasonStopSequence,
			Usage: &types.TokenUsage{
				InputTokens:  aws.Int32(4),
				OutputTokens: aws.Int32(2),
				TotalTokens:  aws.Int32(6),
			},
		},
	}

	llm, err := bedrock.New(ctx, bedrock.WithClient(fake), bedrock.WithModel("us.anthropic.claude-3-5-haiku-20241022-v1:0"))
	require.NoError(t, err)
	assert.Equal(t, "us.anthropic.claude-3-5-haiku-20241022-v1:0", llm.GetName())
	assert.Equal(t, llms.ProviderBedrock, llm.GetProviderType())

	resp, err := llm.GenerateContent(ctx, []llms.Message{
		llms.MessageFromTextParts(llms.RoleSystem, "system"),
		llms.MessageFromTextParts(llms.RoleHuman, "question"),
		llms.MessageFromTextParts(llms.RoleAI, "answer"),
		llms.MessageFromTextParts(llms.RoleHuman, "follow up"),
	}, llms.WithStopWords([]string{"\nObservation"}), llms.WithMaxTokens(100), llms.WithTemperature(0.2))
	require.NoError(t, err)
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "Final Answer: done", resp.Choices[0].Content)
	assert.Equal(t, "stop_sequence", resp.Choices[0].StopReason)
	in, out, total := resp.Usage()
	assert.Equal(t, 4, in)
	assert.Equal(t, 2, out)
	assert.Equal(t, 6, total)

	require.NotNil(t, fake.input)
	assert.Len(t, fake.input.System, 1)
	assert.Len(t, fake.input.Messages, 3)
	assert.Equal(t, types.ConversationRoleAssistant, fake.input.Messages[1].Role)
	assert.Equal(t, []string{"\nObservation"}, fake.input.InferenceConfig.StopSequences)
	assert.Equal(t, int32(100), aws.ToInt32(fake.input.InferenceConfig.MaxTokens))
}

func Test_GenerateContentErrors(t *testing.T) {
	ctx := context.Background()
	fake := &fakeConverse{err: errors.New("throttled")}
	llm, err := bedrock.New(ctx, bedrock.WithClient(fake))
	require.NoError(t, err)
	assert.Equal(t, bedrock.DefaultModel, llm.GetName())

	msgs := []llms.Message{llms.MessageFromTextParts(llms.RoleHuman, "hi")}
	_, err = llm.GenerateContent(ctx, msgs)
	assert.EqualError(t, err, "bedrock: failed to converse: throttled")

	fake.err = nil
	fake.out = &bedrockruntime.ConverseOutput{}
	_, err = llm.GenerateContent(ctx, msgs)
	assert.ErrorIs(t, err, bedrock.ErrEmptyResponse)
}
