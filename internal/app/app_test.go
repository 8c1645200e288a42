package app_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentflow/internal/app"
	"github.com/effective-security/agentflow/internal/config"
	"github.com/effective-security/agentflow/mocks/mockllms"
	"github.com/effective-security/agentflow/orchestrator"
	"github.com/effective-security/agentflow/pkg/llms"
	"github.com/effective-security/agentflow/store"
	"github.com/effective-security/agentflow/tools"
	"github.com/effective-security/agentflow/tools/calculator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeFactory struct {
	model llms.Model
}

func (f *fakeFactory) DefaultModel() (llms.Model, error)         { return f.model, nil }
func (f *fakeFactory) ModelByType(string) (llms.Model, error)    { return f.model, nil }
func (f *fakeFactory) ModelByName(...string) (llms.Model, error) { return f.model, nil }
func (f *fakeFactory) AgentModel(string, ...string) (llms.Model, error) {
	return f.model, nil
}

func scriptedModel(ctrl *gomock.Controller) *mockllms.MockModel {
	model := mockllms.NewMockModel(ctrl)
	model.EXPECT().GetName().Return("gemini-2.5-flash-lite").AnyTimes()
	model.EXPECT().GenerateContent(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msgs []llms.Message, _ ...llms.CallOption) (*llms.ContentResponse, error) {
			prompt := msgs[0].GetContent()
			var content string
			switch {
			case strings.Contains(prompt, "Observation: 300"):
				content = " I now know the final answer\nFinal Answer: 25*12 = 300."
			case strings.HasSuffix(prompt, "Thought:"):
				content = " I should calculate.\nAction: calculator\nAction Input: 25*12"
			case strings.Contains(prompt, "Summarizer Agent"):
				content = "Summary."
			case strings.Contains(prompt, "Email Compose Agent"):
				content = "Subject: Result"
			default:
				return nil, errors.New("unexpected prompt")
			}
			return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: content}}}, nil
		}).AnyTimes()
	return model
}

func testConfig(t *testing.T) *config.Configuration {
	t.Setenv(config.EnvConfigFile, "")
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func TestApp_Run(t *testing.T) {
	ctrl := gomock.NewController(t)
	cfg := testConfig(t)
	cfg.Agents.Verbose = true
	cfg.Agents.MaxIterations = 3

	var out bytes.Buffer
	a, err := app.New(context.Background(), cfg,
		app.WithFactory(&fakeFactory{model: scriptedModel(ctrl)}),
		app.WithTools([]tools.ITool{calculator.New()}),
		app.WithOutput(&out),
	)
	require.NoError(t, err)
	require.Len(t, a.Tools(), 1)

	ctx := context.Background()
	run, err := a.Run(ctx, orchestrator.SourceCLI, "calculate 25*12")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, orchestrator.SourceCLI, run.Source)
	assert.Equal(t, "25*12 = 300.", run.ResearchOutput)
	assert.Equal(t, "Summary.", run.SummaryOutput)
	assert.Equal(t, "Subject: Result", run.EmailOutput)
	require.NotNil(t, run.Stats)
	assert.Equal(t, run.ID, run.Stats.RunID)
	assert.Equal(t, uint32(1), run.Stats.ToolCallsSucceeded)

	saved, err := a.Store().Get(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.EmailOutput, saved.EmailOutput)

	assert.Contains(t, out.String(), "Action: calculator")
	assert.Contains(t, out.String(), "Observation: 300")

	_, err = a.Run(ctx, orchestrator.SourceAPI, "  ")
	assert.ErrorIs(t, err, orchestrator.ErrEmptyInput)

	list, err := a.Store().List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestApp_RunFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	cfg := testConfig(t)

	model := mockllms.NewMockModel(ctrl)
	model.EXPECT().GetName().Return("gemini").AnyTimes()
	model.EXPECT().GenerateContent(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("quota exceeded"))

	a, err := app.New(context.Background(), cfg,
		app.WithFactory(&fakeFactory{model: model}),
		app.WithTools([]tools.ITool{calculator.New()}),
		app.WithStore(store.NewMemoryStore(5)),
	)
	require.NoError(t, err)

	_, err = a.Run(context.Background(), orchestrator.SourceAPI, "AI")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "research stage failed")
	assert.Contains(t, err.Error(), "quota exceeded")

	list, err := a.Store().List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAgentOptions(t *testing.T) {
	handle := false
	opts := app.AgentOptions(&config.AgentsConfig{
		MaxIterations:       4,
		MaxExecutionTime:    "1m",
		HandleParsingErrors: &handle,
		Temperature:         0.2,
	}, nil)
	assert.Len(t, opts, 4)

	opts = app.AgentOptions(&config.AgentsConfig{}, nil)
	assert.Len(t, opts, 1)
}
