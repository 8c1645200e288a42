package tools

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
)

//go:generate mockgen -source=tools.go -destination=../mocks/mocktools/tools_mock.gen.go -package mocktools

// ErrEmptyInput is returned by tools called without input
var ErrEmptyInput = errors.New("empty tool input")

// ITool is a tool for the llm agent to interact with different applications.
type ITool interface {
	// Name returns the name of the Tool, the agent refers to it in the Action line.
	Name() string
	// Description returns the description of the tool, to be used in the prompt.
	// Should not exceed LLM model limit.
	Description() string
	// Parameters returns the JSON schema of the tool input.
	Parameters() any

	// Call executes the tool with the given input and returns the observation.
	Call(context.Context, string) (string, error)
}

// Callback receives tool events
type Callback interface {
	OnToolStart(context.Context, ITool, string)
	OnToolEnd(context.Context, ITool, string, string)
	OnToolError(context.Context, ITool, string, error)
}

// Info describes a tool for listing
type Info struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Parameters  any    `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// Describe returns the info of the tools
func Describe(list ...ITool) []Info {
	res := make([]Info, 0, len(list))
	for _, tool := range list {
		res = append(res, Info{
			Name:        tool.Name(),
			Description: tool.Description(),
			Parameters:  tool.Parameters(),
		})
	}
	return res
}

// GetDescriptions renders one "name: description" line per tool
func GetDescriptions(list ...ITool) string {
	lines := make([]string, 0, len(list))
	for _, tool := range list {
		lines = append(lines, tool.Name()+": "+tool.Description())
	}
	return strings.Join(lines, "\n")
}

// Names returns the comma separated tool names
func Names(list ...ITool) string {
	names := make([]string, 0, len(list))
	for _, tool := range list {
		names = append(names, tool.Name())
	}
	return strings.Join(names, ", ")
}

// Find returns the tool by name, the match is case insensitive
func Find(list []ITool, name string) (ITool, bool) {
	name = strings.TrimSpace(name)
	for _, tool := range list {
		if tool.Name() == name {
			return tool, true
		}
	}
	for _, tool := range list {
		if strings.EqualFold(tool.Name(), name) {
			return tool, true
		}
	}
	return nil, false
}
