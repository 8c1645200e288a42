package agents

import (
	"time"

	"github.com/effective-security/agentflow/pkg/llms"
)

// DefaultMaxIterations is the maximum number of reasoning steps of the research agent
const DefaultMaxIterations = 15

// Option is a function that can be used to modify the behavior of the Agent Config.
type Option func(*Config)

type Config struct {
	// Model is the model to use in an LLM call.
	Model    string
	modelSet bool

	// MaxTokens is the maximum number of tokens to generate to use in an LLM call.
	MaxTokens    int
	maxTokensSet bool

	// Temperature is the temperature for sampling to use in an LLM call, between 0 and 1.
	Temperature    float64
	temperatureSet bool

	// StopWords is a list of words to stop on to use in an LLM call.
	StopWords    []string
	stopWordsSet bool

	// TopK is the number of tokens to consider for top-k sampling in an LLM call.
	TopK    int
	topkSet bool

	// TopP is the cumulative probability for top-p sampling in an LLM call.
	TopP    float64
	toppSet bool

	// Seed is a seed for deterministic sampling in an LLM call.
	Seed    int
	seedSet bool

	// CallbackHandler receives the agent, LLM and tool events
	CallbackHandler Callback

	//
	// Below are the options for the reasoning loop, not related to LLM call
	//

	// MaxIterations limits the number of reasoning steps
	MaxIterations int
	// MaxExecutionTime limits the duration of the reasoning loop, 0 means no limit
	MaxExecutionTime time.Duration
	// HandleParsingErrors sends the parsing error back to the model as an observation,
	// otherwise the run fails. Disabled by default.
	HandleParsingErrors bool
	// ParsingErrorObservation overrides the observation used for parsing errors
	ParsingErrorObservation string
}

func NewConfig(opts ...Option) *Config {
	cfg := &Config{
		MaxIterations: DefaultMaxIterations,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithModel is an option for LLM.Call.
func WithModel(model string) Option {
	return func(o *Config) {
		o.Model = model
		o.modelSet = true
	}
}

// WithMaxTokens is an option for LLM.Call.
func WithMaxTokens(maxTokens int) Option {
	return func(o *Config) {
		o.MaxTokens = maxTokens
		o.maxTokensSet = true
	}
}

// WithTemperature is an option for LLM.Call.
func WithTemperature(temperature float64) Option {
	return func(o *Config) {
		o.Temperature = temperature
		o.temperatureSet = true
	}
}

// WithTopK is an option for LLM.Call.
func WithTopK(topK int) Option {
	return func(o *Config) {
		o.TopK = topK
		o.topkSet = true
	}
}

// WithTopP is an option for LLM.Call.
func WithTopP(topP float64) Option {
	return func(o *Config) {
		o.TopP = topP
		o.toppSet = true
	}
}

// WithSeed is an option for LLM.Call.
func WithSeed(seed int) Option {
	return func(o *Config) {
		o.Seed = seed
		o.seedSet = true
	}
}

// WithStopWords is an option for LLM.Call.
func WithStopWords(stopWords []string) Option {
	return func(o *Config) {
		o.StopWords = stopWords
		o.stopWordsSet = true
	}
}

// WithCallback allows setting a custom Callback Handler.
func WithCallback(callbackHandler Callback) Option {
	return func(o *Config) {
		o.CallbackHandler = callbackHandler
	}
}

// WithMaxIterations limits the reasoning steps, values below 1 are ignored
func WithMaxIterations(n int) Option {
	return func(o *Config) {
		if n > 0 {
			o.MaxIterations = n
		}
	}
}

// WithMaxExecutionTime limits the reasoning loop duration
func WithMaxExecutionTime(d time.Duration) Option {
	return func(o *Config) {
		o.MaxExecutionTime = d
	}
}

// WithHandleParsingErrors controls whether unparsable model output is sent back to the model
func WithHandleParsingErrors(handle bool) Option {
	return func(o *Config) {
		o.HandleParsingErrors = handle
	}
}

// WithParsingErrorObservation sets a fixed observation for parsing errors
func WithParsingErrorObservation(observation string) Option {
	return func(o *Config) {
		o.ParsingErrorObservation = observation
		o.HandleParsingErrors = true
	}
}

// GetCallOptions returns the LLM call options
func (c *Config) GetCallOptions() []llms.CallOption {
	var callOptions []llms.CallOption
	if c.modelSet {
		callOptions = append(callOptions, llms.WithModel(c.Model))
	}
	if c.maxTokensSet {
		callOptions = append(callOptions, llms.WithMaxTokens(c.MaxTokens))
	}
	if c.temperatureSet {
		callOptions = append(callOptions, llms.WithTemperature(c.Temperature))
	}
	if c.stopWordsSet {
		callOptions = append(callOptions, llms.WithStopWords(c.StopWords))
	}
	if c.topkSet {
		callOptions = append(callOptions, llms.WithTopK(c.TopK))
	}
	if c.toppSet {
		callOptions = append(callOptions, llms.WithTopP(c.TopP))
	}
	if c.seedSet {
		callOptions = append(callOptions, llms.WithSeed(c.Seed))
	}
	return callOptions
}
