package llmutils_test

import (
	"strings"
	"testing"

	"github.com/effective-security/agentflow/pkg/llms"
	"github.com/effective-security/agentflow/pkg/llmutils"
	"github.com/stretchr/testify/assert"
)

func Test_TrimBackticks(t *testing.T) {
	expected := "{\"city\": \"Paris\", \"country\": \"France\"}"

	assert.Equal(t, expected, llmutils.TrimBackticks("\n```json\n\n{\"city\": \"Paris\", \"country\": \"France\"}\n\n```\n\n"))
	// the same
	assert.Equal(t, expected, llmutils.TrimBackticks(expected))
	assert.Equal(t, expected, llmutils.TrimBackticks("\n```\n\n{\"city\": \"Paris\", \"country\": \"France\"}\n\n```\n\n"))
	assert.Equal(t, expected, llmutils.TrimBackticks("\n```{\"city\": \"Paris\", \"country\": \"France\"}\n\n```\n\n"))
	assert.Equal(t, "Subject: Hi\n\nDear team,", llmutils.TrimBackticks("```markdown\nSubject: Hi\n\nDear team,\n```"))
}

func Test_TrimQuotes(t *testing.T) {
	tcases := map[string]string{
		`"Hyderabad"`:      "Hyderabad",
		` 'AI in health' `: "AI in health",
		"`25*12`":          "25*12",
		`"unbalanced'`:     `"unbalanced'`,
		`"`:                `"`,
		"  plain \n":       "plain",
	}
	for in, exp := range tcases {
		assert.Equal(t, exp, llmutils.TrimQuotes(in), in)
	}
}

func Test_Truncate(t *testing.T) {
	assert.Equal(t, "hello", llmutils.Truncate("hello", 10))
	assert.Equal(t, "hel...", llmutils.Truncate("hello", 3))
	assert.Equal(t, "hello", llmutils.Truncate("hello", 0))
	assert.Equal(t, "°C...", llmutils.Truncate("°Cxx", 2))
}

func Test_Encoders(t *testing.T) {
	v := map[string]any{"a": 1}
	assert.Equal(t, `{"a":1}`, llmutils.ToJSON(v))
	assert.Equal(t, "{\n\t\"a\": 1\n}", llmutils.ToJSONIndent(v))
	assert.Equal(t, "a: 1\n", llmutils.ToYAML(v))
}

func Test_ContentSize(t *testing.T) {
	msgs := []llms.Message{
		llms.MessageFromTextParts(llms.RoleSystem, "abc"),
		llms.MessageFromTextParts(llms.RoleHuman, "de", "f"),
	}
	// roles: system(6) + human(5), text 3+3
	assert.Equal(t, uint64(17), llmutils.CountMessagesContentSize(msgs))

	assert.Equal(t, uint64(0), llmutils.CountResponseContentSize(nil))
	assert.Equal(t, uint64(5), llmutils.CountResponseContentSize(&llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: "hello"}},
	}))

	var sb strings.Builder
	llmutils.PrintMessages(&sb, msgs)
	assert.Equal(t, "SYSTEM: abc\nHUMAN: de\nf\n", sb.String())
}

func Test_EnsureEndsWithNewline(t *testing.T) {
	assert.Equal(t, "", llmutils.EnsureEndsWithNewline("  "))
	assert.Equal(t, "abc\n", llmutils.EnsureEndsWithNewline(" abc \n\n"))
}
