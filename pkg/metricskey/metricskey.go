package metricskey

import "github.com/effective-security/metrics"

// Stats
var (
	// StatsLLMMessagesSent is base for counter metric for total messages sent to LLM
	StatsLLMMessagesSent = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_messages_sent",
		Help:         "stats_llm_messages_sent provides total messages sent to LLM",
		RequiredTags: []string{"agent", "model"},
	}

	StatsLLMBytesSent = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_bytes_sent",
		Help:         "stats_llm_bytes_sent provides total bytes sent to LLM",
		RequiredTags: []string{"agent", "model"},
	}

	StatsLLMBytesReceived = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_bytes_received",
		Help:         "stats_llm_bytes_received provides total bytes received from LLM",
		RequiredTags: []string{"agent", "model"},
	}

	StatsLLMInputTokens = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_input_tokens",
		Help:         "stats_llm_input_tokens provides total input tokens sent to LLM",
		RequiredTags: []string{"agent", "model"},
	}

	StatsLLMOutputTokens = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_output_tokens",
		Help:         "stats_llm_output_tokens provides total output tokens received from LLM",
		RequiredTags: []string{"agent", "model"},
	}

	StatsLLMCallsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_calls_failed",
		Help:         "stats_llm_calls_failed provides total failed LLM calls",
		RequiredTags: []string{"agent", "model"},
	}

	StatsAgentCallsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_agent_calls_succeeded",
		Help:         "stats_agent_calls_succeeded provides total agent calls succeeded",
		RequiredTags: []string{"agent"},
	}

	StatsAgentCallsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_agent_calls_failed",
		Help:         "stats_agent_calls_failed provides total agent calls failed",
		RequiredTags: []string{"agent"},
	}

	StatsAgentParseErrors = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_agent_parse_errors",
		Help:         "stats_agent_parse_errors provides total LLM outputs the agent could not parse",
		RequiredTags: []string{"agent"},
	}

	StatsAgentForceStopped = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_agent_force_stopped",
		Help:         "stats_agent_force_stopped provides total agent runs stopped by iteration or time limit",
		RequiredTags: []string{"agent"},
	}

	StatsToolCallsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_succeeded",
		Help:         "stats_tool_calls_succeeded provides total tool calls succeeded",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_failed",
		Help:         "stats_tool_calls_failed provides total tool calls failed",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsNotFound = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_not_found",
		Help:         "stats_tool_calls_not_found provides total tool calls not found",
		RequiredTags: []string{"tool"},
	}

	StatsPipelineRunsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_pipeline_runs_succeeded",
		Help:         "stats_pipeline_runs_succeeded provides total pipeline runs succeeded",
		RequiredTags: []string{"source"},
	}

	StatsPipelineRunsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_pipeline_runs_failed",
		Help:         "stats_pipeline_runs_failed provides total pipeline runs failed",
		RequiredTags: []string{"source", "stage"},
	}
)

// Perf
var (
	PerfPipelineRun = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_pipeline_run",
		Help:         "perf_pipeline_run provides duration of the research, summary and email run",
		RequiredTags: []string{"source"},
	}

	PerfPipelineStage = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_pipeline_stage",
		Help:         "perf_pipeline_stage provides duration of a pipeline stage",
		RequiredTags: []string{"stage"},
	}

	PerfAgentCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_agent_call",
		Help:         "perf_agent_call provides duration of agent call",
		RequiredTags: []string{"agent"},
	}

	PerfLLMCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_llm_call",
		Help:         "perf_llm_call provides duration of a single LLM call",
		RequiredTags: []string{"agent", "model"},
	}

	PerfToolCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_tool_call",
		Help:         "perf_tool_call provides duration of tool call",
		RequiredTags: []string{"tool"},
	}
)

// Metrics returns slice of metrics from this repo
// keep sorted by name
var Metrics = []*metrics.Describe{
	&PerfAgentCall,
	&PerfLLMCall,
	&PerfPipelineRun,
	&PerfPipelineStage,
	&PerfToolCall,
	&StatsAgentCallsFailed,
	&StatsAgentCallsSucceeded,
	&StatsAgentForceStopped,
	&StatsAgentParseErrors,
	&StatsLLMBytesReceived,
	&StatsLLMBytesSent,
	&StatsLLMCallsFailed,
	&StatsLLMInputTokens,
	&StatsLLMMessagesSent,
	&StatsLLMOutputTokens,
	&StatsPipelineRunsFailed,
	&StatsPipelineRunsSucceeded,
	&StatsToolCallsFailed,
	&StatsToolCallsNotFound,
	&StatsToolCallsSucceeded,
}
