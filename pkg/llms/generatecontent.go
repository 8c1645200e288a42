package llms

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrUnexpectedRole is returned when a message role is of an unexpected type.
var ErrUnexpectedRole = errors.New("unexpected role")

// Role is the type of chat message.
type Role string

const (
	// RoleAI is a message sent by an AI.
	RoleAI Role = "ai"
	// RoleHuman is a message sent by a human.
	RoleHuman Role = "human"
	// RoleSystem is a message sent by the system.
	RoleSystem Role = "system"
)

// Message is the message sent to a LLM. It has a role and a
// sequence of parts.
type Message struct {
	Role  Role          `json:"role"`
	Parts []ContentPart `json:"parts"`
}

// TextPart creates TextContent from a given string.
func TextPart(s string) TextContent {
	return TextContent{Text: s}
}

// ContentPart is an interface all parts of content have to implement.
type ContentPart interface {
	isPart()
}

// TextContent is content with some text.
type TextContent struct {
	Text string `json:"text"`
}

func (tc TextContent) String() string {
	return tc.Text
}

func (TextContent) isPart() {}

// ContentResponse is the response returned by a GenerateContent call.
// It can potentially return multiple content choices.
type ContentResponse struct {
	Choices []*ContentChoice `json:"choices"`
}

// ContentChoice is one of the response choices returned by GenerateContent
// calls.
type ContentChoice struct {
	// Content is the textual content of a response
	Content string `json:"content"`

	// StopReason is the reason the model stopped generating output.
	StopReason string `json:"stop_reason"`

	// GenerationInfo is arbitrary information the model adds to the response,
	// such as token usage.
	GenerationInfo map[string]any `json:"generation_info,omitempty"`
}

// Usage keys in GenerationInfo, set by all providers.
const (
	InputTokens  = "InputTokens"
	OutputTokens = "OutputTokens"
	TotalTokens  = "TotalTokens"
)

// MessageFromTextParts is a helper function to create a Message with a role and a
// list of text parts.
func MessageFromTextParts(role Role, parts ...string) Message {
	result := Message{
		Role:  role,
		Parts: make([]ContentPart, 0, len(parts)),
	}
	for _, part := range parts {
		result.Parts = append(result.Parts, TextPart(part))
	}
	return result
}

// GetContent returns the text of all parts, separated by new line.
func (m Message) GetContent() string {
	var buf strings.Builder
	for i, p := range m.Parts {
		if tc, ok := p.(TextContent); ok {
			if i > 0 {
				buf.WriteString("\n")
			}
			buf.WriteString(tc.Text)
		}
	}
	return buf.String()
}

// SplitSystem returns the concatenated system instructions
// and the remaining messages.
func SplitSystem(messages []Message) (string, []Message) {
	var system []string
	rest := make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == RoleSystem {
			system = append(system, m.GetContent())
			continue
		}
		rest = append(rest, m)
	}
	return strings.Join(system, "\n"), rest
}

// Usage returns the token usage from the first choice.
func (r *ContentResponse) Usage() (input, output, total int) {
	if r == nil || len(r.Choices) == 0 {
		return
	}
	info := r.Choices[0].GenerationInfo
	input = toInt(info[InputTokens])
	output = toInt(info[OutputTokens])
	total = toInt(info[TotalTokens])
	if total == 0 {
		total = input + output
	}
	return
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}
