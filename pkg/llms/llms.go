package llms

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
)

//go:generate mockgen -source=llms.go -destination=../../mocks/mockllms/llms_mock.gen.go -package mockllms

// ErrEmptyResponse is returned when the model returns no choices.
var ErrEmptyResponse = errors.New("no response")

// ProviderType is the type of provider.
type ProviderType string

const (
	// ProviderAnthropic is the Anthropic Messages API.
	ProviderAnthropic ProviderType = "ANTHROPIC"
	// ProviderBedrock is the AWS Bedrock Converse API.
	ProviderBedrock ProviderType = "BEDROCK"
	// ProviderGoogleAI is the Gemini API.
	ProviderGoogleAI ProviderType = "GOOGLEAI"
	// ProviderOpenAI is the OpenAI Chat Completions API.
	ProviderOpenAI ProviderType = "OPENAI"
)

// ParseProviderType returns the provider for the name,
// the comparison is case-insensitive and accepts OPEN_AI alias.
func ParseProviderType(name string) (ProviderType, error) {
	switch strings.ToUpper(name) {
	case "OPENAI", "OPEN_AI":
		return ProviderOpenAI, nil
	case "ANTHROPIC":
		return ProviderAnthropic, nil
	case "GOOGLEAI", "GEMINI":
		return ProviderGoogleAI, nil
	case "BEDROCK":
		return ProviderBedrock, nil
	}
	return "", errors.Errorf("unsupported provider type: %s", name)
}

// Model is an interface text models implement.
type Model interface {
	// GetName returns the default model name.
	GetName() string
	// GetProviderType returns the type of provider.
	GetProviderType() ProviderType
	// GenerateContent asks the model to generate content from a sequence of
	// messages.
	GenerateContent(ctx context.Context, messages []Message, options ...CallOption) (*ContentResponse, error)
}

// Capability is a bitmask indicating supported features of an LLM provider.
type Capability uint64

const (
	// CapabilityText is basic text or chat generation
	CapabilityText Capability = 1 << iota
	// CapabilityStopWords is support for stop sequences
	CapabilityStopWords
	// CapabilitySystemPrompt is support for system instructions
	CapabilitySystemPrompt
)

var providerCapabilities = map[ProviderType]Capability{
	ProviderOpenAI:    CapabilityText | CapabilityStopWords | CapabilitySystemPrompt,
	ProviderAnthropic: CapabilityText | CapabilityStopWords | CapabilitySystemPrompt,
	ProviderGoogleAI:  CapabilityText | CapabilityStopWords | CapabilitySystemPrompt,
	ProviderBedrock:   CapabilityText | CapabilityStopWords | CapabilitySystemPrompt,
}

// ProviderCapabilities returns the capabilities of the provider.
func ProviderCapabilities(pt ProviderType) Capability {
	return providerCapabilities[pt]
}

// Supports returns true if the provider supports the capability.
func (p ProviderType) Supports(cap Capability) bool {
	return ProviderCapabilities(p)&cap != 0
}
