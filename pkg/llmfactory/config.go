package llmfactory

import (
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentflow/pkg/llms"
	"github.com/effective-security/agentflow/pkg/llms/googleai"
	"github.com/effective-security/x/configloader"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	// Providers specifies the list of providers to use
	Providers []*ProviderConfig `json:"providers" yaml:"providers" validate:"dive"`
	// DefaultProvider specifies the default provider to use
	DefaultProvider string `json:"default_provider,omitempty" yaml:"default_provider,omitempty"`
	// AgentModels specifies the mapping of agents to models.
	// key is the agent name, value is the list of preferred model names.
	// Use `default: <model_name>` as the default model for agents.
	AgentModels map[string][]string `json:"agent_models,omitempty" yaml:"agent_models,omitempty"`
}

// ProviderConfig specifies a provider account
type ProviderConfig struct {
	Name string `json:"name" yaml:"name" validate:"required"`
	// Type specifies the type of API to use:
	// OPENAI|ANTHROPIC|GOOGLEAI|BEDROCK
	Type            string   `json:"type" yaml:"type" validate:"required"`
	Token           string   `json:"token,omitempty" yaml:"token,omitempty"`
	BaseURL         string   `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Region          string   `json:"region,omitempty" yaml:"region,omitempty"`
	DefaultModel    string   `json:"default_model,omitempty" yaml:"default_model,omitempty"`
	AvailableModels []string `json:"available_models,omitempty" yaml:"available_models,omitempty"`
	// Temperature is the default sampling temperature, 0 uses the provider default
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature,omitempty" validate:"gte=0,lte=2"`
	// MaxTokens is the default completion limit, 0 uses the provider default
	MaxTokens int `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty" validate:"gte=0"`
}

// FindModel returns the first of models available in the provider,
// or the provider's default model.
func (c *ProviderConfig) FindModel(models ...string) string {
	for _, model := range models {
		if slices.Contains(c.AvailableModels, model) {
			return model
		}
	}
	return c.DefaultModel
}

// DefaultConfig returns a single Gemini provider,
// the key is taken from GOOGLE_API_KEY.
func DefaultConfig() *Config {
	return &Config{
		DefaultProvider: "gemini",
		Providers: []*ProviderConfig{
			{
				Name:            "gemini",
				Type:            string(llms.ProviderGoogleAI),
				DefaultModel:    googleai.DefaultModel,
				AvailableModels: []string{googleai.DefaultModel},
			},
		},
	}
}

// Validate returns an error if the configuration is invalid
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.WithMessage(err, "invalid LLM configuration")
	}
	for _, p := range c.Providers {
		if _, err := llms.ParseProviderType(p.Type); err != nil {
			return errors.WithMessagef(err, "provider %s", p.Name)
		}
	}
	return nil
}

// LoadConfig from file
func LoadConfig(file string) (*Config, error) {
	if file == "" {
		return DefaultConfig(), nil
	}

	cfg := new(Config)
	err := configloader.UnmarshalAndExpand(file, cfg)
	if err != nil {
		return nil, err
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
