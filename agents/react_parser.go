package agents

import (
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

// FinalAnswerAction marks the final answer in the model output
const FinalAnswerAction = "Final Answer:"

// Observations sent back to the model for unparsable output
const (
	MissingActionObservation      = "Invalid Format: Missing 'Action:' after 'Thought:'"
	MissingActionInputObservation = "Invalid Format: Missing 'Action Input:' after 'Action:'"
	InvalidResponseObservation    = "Invalid or incomplete response"
)

const finalAnswerAndActionMessage = "Parsing LLM output produced both a final answer and a parse-able action"

var (
	actionRe      = regexp.MustCompile(`(?s)Action\s*\d*\s*:[\s]*(.*?)[\s]*Action\s*\d*\s*Input\s*\d*\s*:[\s]*(.*)`)
	actionOnlyRe  = regexp.MustCompile(`(?s)Action\s*\d*\s*:[\s]*(.*?)`)
	actionInputRe = regexp.MustCompile(`(?s)[\s]*Action\s*\d*\s*Input\s*\d*\s*:[\s]*(.*)`)
)

// ParseError is returned when the model output has neither a valid action nor a final answer
type ParseError struct {
	msg string
	// Text is the model output
	Text string
	// Observation is the hint for the model, empty when the output
	// should not be sent back as is.
	Observation string
}

func (e *ParseError) Error() string {
	return e.msg
}

// AsParseError returns the ParseError from the chain
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// ParseReAct parses the model output into an action or a final answer.
func ParseReAct(text string) (*AgentAction, string, error) {
	includesAnswer := strings.Contains(text, FinalAnswerAction)

	if m := actionRe.FindStringSubmatch(text); m != nil {
		if includesAnswer {
			return nil, "", &ParseError{
				msg:  finalAnswerAndActionMessage + ": " + text,
				Text: text,
			}
		}
		input := strings.TrimSpace(m[2])
		input = strings.Trim(input, `"`)
		return &AgentAction{
			Tool:      strings.TrimSpace(m[1]),
			ToolInput: input,
			Log:       text,
		}, "", nil
	}

	if includesAnswer {
		parts := strings.Split(text, FinalAnswerAction)
		return nil, strings.TrimSpace(parts[len(parts)-1]), nil
	}

	pe := &ParseError{
		msg:  "Could not parse LLM output: `" + text + "`",
		Text: text,
	}
	if !actionOnlyRe.MatchString(text) {
		pe.Observation = MissingActionObservation
	} else if !actionInputRe.MatchString(text) {
		pe.Observation = MissingActionInputObservation
	}
	return nil, "", pe
}
