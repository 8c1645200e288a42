package llmutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/effective-security/agentflow/pkg/llms"
	"gopkg.in/yaml.v3"
)

var backtick = []byte("```")

// TrimBackticks removes the ```markdown fence the models like to wrap output in
func TrimBackticks(text string) string {
	bs := []byte(text)
	start := bytes.Index(bs, backtick)
	if start == -1 {
		return text
	}
	start += len(backtick)

	// skip the language tag
	if nl := bytes.IndexByte(bs[start:], '\n'); nl >= 0 {
		tag := bytes.TrimSpace(bs[start : start+nl])
		if len(tag) == 0 || bytes.IndexAny(tag, " {[") == -1 {
			start += nl + 1
		}
	}

	content := bs[start:]
	end := bytes.LastIndex(content, backtick)
	if end == -1 {
		return string(bytes.TrimSpace(content))
	}
	return string(bytes.TrimSpace(content[:end]))
}

// TrimQuotes removes whitespace and one pair of matching quotes around s
func TrimQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'' || first == '`') {
			s = strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return s
}

// Truncate returns s limited to max runes, with an ellipsis when cut
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

func ToJSON(val any) string {
	js, _ := json.Marshal(val)
	return string(js)
}

func ToJSONIndent(val any) string {
	js, _ := json.MarshalIndent(val, "", "\t")
	return string(js)
}

func ToYAML(val any) string {
	js, _ := yaml.Marshal(val)
	return string(js)
}

// PrintMessages is a debugging helper that prints messages with their roles
func PrintMessages(w io.Writer, msgs []llms.Message) {
	for _, m := range msgs {
		fmt.Fprintf(w, "%s: %s\n", strings.ToUpper(string(m.Role)), m.GetContent())
	}
}

// CountMessagesContentSize counts the size of the content in the messages
func CountMessagesContentSize(msgs []llms.Message) uint64 {
	var size uint64
	for _, m := range msgs {
		size += uint64(len(m.Role))
		for _, p := range m.Parts {
			if tc, ok := p.(llms.TextContent); ok {
				size += uint64(len(tc.Text))
			}
		}
	}
	return size
}

// CountResponseContentSize counts the size of the content in the response
func CountResponseContentSize(resp *llms.ContentResponse) uint64 {
	if resp == nil {
		return 0
	}
	var size uint64
	for _, choice := range resp.Choices {
		size += uint64(len(choice.Content))
	}
	return size
}

// EnsureEndsWithNewline ensures the message ends with a newline,
// it also removes any extra leading and trailing spaces.
func EnsureEndsWithNewline(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	return s + "\n"
}
