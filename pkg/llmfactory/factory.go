package llmfactory

import (
	"context"
	"slices"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentflow/pkg/llms"
	"github.com/effective-security/agentflow/pkg/llms/anthropic"
	"github.com/effective-security/agentflow/pkg/llms/bedrock"
	"github.com/effective-security/agentflow/pkg/llms/googleai"
	"github.com/effective-security/agentflow/pkg/llms/openai"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/agentflow/pkg", "llmfactory")

// NewLLM is a wrapper for CreateLLM to allow for overriding the default implementation.
var NewLLM = CreateLLM

// Factory is the interface for creating and managing LLM models.
type Factory interface {
	// DefaultModel returns the default LLM model.
	DefaultModel() (llms.Model, error)
	// ModelByType returns an LLM model by its type, e.g.
	// OPENAI, ANTHROPIC, GOOGLEAI, BEDROCK
	ModelByType(providerType string) (llms.Model, error)
	// ModelByName returns an LLM model by its name,
	// if the model is not found, it will return the default model.
	ModelByName(preferredModels ...string) (llms.Model, error)
	// AgentModel returns the model configured for the agent.
	AgentModel(agentName string, preferredModels ...string) (llms.Model, error)
}

// Load returns a factory from the configuration file
func Load(location string) (Factory, error) {
	cfg, err := LoadConfig(location)
	if err != nil {
		return nil, err
	}
	return New(cfg), nil
}

type factory struct {
	cfg *Config

	defaultProvider *ProviderConfig
	agentModels     map[string][]string
	byType          map[string]llms.Model
	byName          map[string]llms.Model
	defaultModel    llms.Model
	lock            sync.Mutex
}

// New creates a new LLM factory
func New(cfg *Config) Factory {
	f := &factory{
		cfg:         cfg,
		byType:      make(map[string]llms.Model),
		byName:      make(map[string]llms.Model),
		agentModels: make(map[string][]string),
	}

	for k, v := range cfg.AgentModels {
		f.agentModels[k] = slices.Clone(v)
	}

	if cfg.DefaultProvider != "" {
		for _, provider := range cfg.Providers {
			if provider.Name == cfg.DefaultProvider {
				f.defaultProvider = provider
				break
			}
		}
	}

	if f.defaultProvider == nil && len(f.cfg.Providers) > 0 {
		f.defaultProvider = f.cfg.Providers[0]
	}

	return f
}

// CreateLLM creates the provider model
func CreateLLM(cfg *ProviderConfig, preferredModels ...string) (llms.Model, error) {
	provType, err := llms.ParseProviderType(cfg.Type)
	if err != nil {
		return nil, err
	}
	model := cfg.FindModel(preferredModels...)

	switch provType {
	case llms.ProviderOpenAI:
		opts := []openai.Option{openai.WithModel(model)}
		if cfg.Token != "" {
			opts = append(opts, openai.WithToken(cfg.Token))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		if cfg.Temperature > 0 {
			opts = append(opts, openai.WithDefaultTemperature(cfg.Temperature))
		}
		if cfg.MaxTokens > 0 {
			opts = append(opts, openai.WithDefaultMaxTokens(cfg.MaxTokens))
		}
		return openai.New(opts...)
	case llms.ProviderAnthropic:
		opts := []anthropic.Option{anthropic.WithModel(model)}
		if cfg.Token != "" {
			opts = append(opts, anthropic.WithToken(cfg.Token))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
		}
		if cfg.Temperature > 0 {
			opts = append(opts, anthropic.WithDefaultTemperature(cfg.Temperature))
		}
		return anthropic.New(opts...)
	case llms.ProviderGoogleAI:
		opts := []googleai.Option{googleai.WithDefaultModel(model)}
		if cfg.Token != "" {
			opts = append(opts, googleai.WithAPIKey(cfg.Token))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, googleai.WithBaseURL(cfg.BaseURL))
		}
		if cfg.Temperature > 0 {
			opts = append(opts, googleai.WithDefaultTemperature(cfg.Temperature))
		}
		if cfg.MaxTokens > 0 {
			opts = append(opts, googleai.WithDefaultMaxTokens(cfg.MaxTokens))
		}
		return googleai.New(context.Background(), opts...)
	case llms.ProviderBedrock:
		opts := []bedrock.Option{bedrock.WithModel(model)}
		if cfg.Region != "" {
			opts = append(opts, bedrock.WithRegion(cfg.Region))
		}
		return bedrock.New(context.Background(), opts...)
	}
	return nil, errors.Errorf("unsupported provider type: %s", cfg.Type)
}

// DefaultModel returns the model of the default provider
func (f *factory) DefaultModel() (llms.Model, error) {
	if len(f.cfg.Providers) == 0 || f.defaultProvider == nil {
		return nil, errors.New("no providers configured")
	}

	f.lock.Lock()
	defer f.lock.Unlock()
	if f.defaultModel != nil {
		return f.defaultModel, nil
	}

	model, err := NewLLM(f.defaultProvider, f.defaultProvider.DefaultModel)
	if err != nil {
		return nil, err
	}
	f.defaultModel = model
	return model, nil
}

func (f *factory) ModelByType(providerType string) (llms.Model, error) {
	pt, err := llms.ParseProviderType(providerType)
	if err != nil {
		return nil, err
	}

	f.lock.Lock()
	defer f.lock.Unlock()

	if client, ok := f.byType[string(pt)]; ok {
		return client, nil
	}

	for _, cfg := range f.cfg.Providers {
		if t, _ := llms.ParseProviderType(cfg.Type); t == pt {
			model, err := NewLLM(cfg)
			if err != nil {
				return nil, err
			}

			logger.KV(xlog.DEBUG,
				"status", "created_llm",
				"type", cfg.Type,
				"name", cfg.Name)

			f.byType[string(pt)] = model
			return model, nil
		}
	}
	return nil, errors.Errorf("provider not found for type: %s", providerType)
}

func (f *factory) ModelByName(modelNames ...string) (llms.Model, error) {
	model := f.findByName(modelNames...)
	if model != nil {
		return model, nil
	}
	return f.DefaultModel()
}

func (f *factory) findByName(modelNames ...string) llms.Model {
	f.lock.Lock()
	defer f.lock.Unlock()

	for _, modelName := range modelNames {
		if client, ok := f.byName[modelName]; ok {
			return client
		}

		for _, cfg := range f.cfg.Providers {
			if slices.Contains(cfg.AvailableModels, modelName) {
				model, err := NewLLM(cfg, modelName)
				if err != nil {
					logger.KV(xlog.ERROR,
						"reason", "NewLLM",
						"type", cfg.Type,
						"model", modelName,
						"err", err.Error(),
					)
					continue
				}

				logger.KV(xlog.DEBUG,
					"status", "created_llm",
					"type", cfg.Type,
					"model", modelName,
					"name", cfg.Name)

				f.byName[modelName] = model
				return model
			}
		}
	}
	return nil
}

// AgentModel returns the model configured for the agent.
func (f *factory) AgentModel(agentName string, preferredModels ...string) (llms.Model, error) {
	if modelNames, ok := f.agentModels[agentName]; ok {
		return f.ModelByName(modelNames...)
	}
	if modelNames, ok := f.agentModels["default"]; ok {
		return f.ModelByName(modelNames...)
	}
	return f.ModelByName(preferredModels...)
}
