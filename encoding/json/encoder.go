package json

import (
	"encoding/json"

	"github.com/bububa/ljson"
	"github.com/effective-security/agentflow/pkg/llmutils"
)

type Encoder struct{}

func NewEncoder() *Encoder {
	return new(Encoder)
}

func (e *Encoder) Marshal(v any) ([]byte, error) {
	bs, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(bs, '\n'), nil
}

// Unmarshal decodes JSON leniently, the value can be wrapped in Markdown code block
func (e *Encoder) Unmarshal(bs []byte, ret any) error {
	data := llmutils.TrimBackticks(string(bs))
	return ljson.Unmarshal([]byte(data), ret)
}

func (e *Encoder) ContentType() string {
	return "application/json"
}
