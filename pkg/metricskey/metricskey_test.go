package metricskey

import (
	"sort"
	"testing"

	"github.com/effective-security/metrics"
	"github.com/stretchr/testify/assert"
)

func TestMetricsDefinitions(t *testing.T) {
	for _, m := range Metrics {
		assert.NotEmpty(t, m.Name, "Metric name should not be empty")
		assert.Contains(t, m.Help, m.Name, "Help text should start with the name: %s", m.Name)
		assert.NotEmpty(t, m.RequiredTags, "Metric should have required tags: %s", m.Name)
	}

	isSorted := sort.SliceIsSorted(Metrics, func(i, j int) bool {
		return Metrics[i].Name < Metrics[j].Name
	})
	assert.True(t, isSorted, "Metrics slice should be sorted by name")

	seen := make(map[string]bool)
	for _, m := range Metrics {
		assert.False(t, seen[m.Name], "Metric name should be unique: %s", m.Name)
		seen[m.Name] = true
	}

	t.Run("LLM metrics have agent and model tags", func(t *testing.T) {
		for _, m := range []*metrics.Describe{
			&StatsLLMMessagesSent,
			&StatsLLMBytesSent,
			&StatsLLMBytesReceived,
			&StatsLLMInputTokens,
			&StatsLLMOutputTokens,
			&StatsLLMCallsFailed,
			&PerfLLMCall,
		} {
			assert.Equal(t, []string{"agent", "model"}, m.RequiredTags, m.Name)
		}
	})

	t.Run("Tool metrics have tool tag", func(t *testing.T) {
		for _, m := range []*metrics.Describe{
			&StatsToolCallsSucceeded,
			&StatsToolCallsFailed,
			&StatsToolCallsNotFound,
			&PerfToolCall,
		} {
			assert.Equal(t, []string{"tool"}, m.RequiredTags, m.Name)
		}
	})

	t.Run("Samples", func(t *testing.T) {
		for _, m := range Metrics {
			if m.Type == metrics.TypeSample {
				assert.Regexp(t, "^perf_", m.Name)
			} else {
				assert.Regexp(t, "^stats_", m.Name)
			}
		}
	})
}
