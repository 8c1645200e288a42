package yaml

import (
	"github.com/effective-security/agentflow/pkg/llmutils"
	"gopkg.in/yaml.v3"
)

type Encoder struct{}

func NewEncoder() *Encoder {
	return new(Encoder)
}

func (e *Encoder) Marshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

// Unmarshal decodes YAML, the value can be wrapped in Markdown code block
func (e *Encoder) Unmarshal(bs []byte, ret any) error {
	data := llmutils.TrimBackticks(string(bs))
	return yaml.Unmarshal([]byte(data), ret)
}

func (e *Encoder) ContentType() string {
	return "application/yaml"
}
