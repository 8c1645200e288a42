package agents

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentflow/pkg/llms"
	"github.com/effective-security/agentflow/pkg/llmutils"
	"github.com/effective-security/agentflow/pkg/metricskey"
	"github.com/effective-security/x/slices"
	"github.com/effective-security/xlog"
)

// generate calls the model and reports the call to the callback and metrics
func generate(
	ctx context.Context,
	agent IAgent,
	model llms.Model,
	cfg *Config,
	messages []llms.Message,
	options ...llms.CallOption,
) (*llms.ContentResponse, error) {
	agentName := agent.Name()
	modelName := model.GetName()
	if cfg.Model != "" {
		modelName = cfg.Model
	}
	cb := cfg.CallbackHandler

	if cb != nil {
		cb.OnLLMCallStart(ctx, agent, messages)
	}

	bytesSent := llmutils.CountMessagesContentSize(messages)
	metricskey.StatsLLMMessagesSent.IncrCounter(float64(len(messages)), agentName, modelName)
	metricskey.StatsLLMBytesSent.IncrCounter(float64(bytesSent), agentName, modelName)

	started := time.Now()
	resp, err := model.GenerateContent(ctx, messages, options...)
	metricskey.PerfLLMCall.MeasureSince(started, agentName, modelName)
	if err == nil && (resp == nil || len(resp.Choices) == 0) {
		err = llms.ErrEmptyResponse
	}
	if err != nil {
		metricskey.StatsLLMCallsFailed.IncrCounter(1, agentName, modelName)
		logger.ContextKV(ctx, xlog.ERROR,
			"agent", agentName,
			"model", modelName,
			"err", err.Error())
		return nil, errors.WithMessagef(err, "%s: LLM call failed", agentName)
	}

	tokensIn, tokensOut, _ := resp.Usage()
	metricskey.StatsLLMBytesReceived.IncrCounter(float64(llmutils.CountResponseContentSize(resp)), agentName, modelName)
	metricskey.StatsLLMInputTokens.IncrCounter(float64(tokensIn), agentName, modelName)
	metricskey.StatsLLMOutputTokens.IncrCounter(float64(tokensOut), agentName, modelName)

	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "llm_response",
		"agent", agentName,
		"model", modelName,
		"tokens_in", tokensIn,
		"tokens_out", tokensOut,
		"content", slices.StringUpto(resp.Choices[0].Content, 64),
		"elapsed", time.Since(started).String())

	if cb != nil {
		cb.OnLLMCallEnd(ctx, agent, resp)
	}
	return resp, nil
}

// truncateAtStop cuts the text at the first stop word,
// for providers that return the stop sequence or ignore it.
func truncateAtStop(text string, stopWords []string) string {
	for _, stop := range stopWords {
		if stop == "" {
			continue
		}
		if idx := strings.Index(text, stop); idx >= 0 {
			text = text[:idx]
		}
	}
	return text
}
