package toml

import (
	"github.com/BurntSushi/toml"
	"github.com/effective-security/agentflow/pkg/llmutils"
)

type Encoder struct{}

func NewEncoder() *Encoder {
	return new(Encoder)
}

func (e *Encoder) Marshal(v any) ([]byte, error) {
	return toml.Marshal(v)
}

// Unmarshal decodes TOML, the value can be wrapped in Markdown code block
func (e *Encoder) Unmarshal(bs []byte, ret any) error {
	data := llmutils.TrimBackticks(string(bs))
	return toml.Unmarshal([]byte(data), ret)
}

func (e *Encoder) ContentType() string {
	return "application/toml"
}
