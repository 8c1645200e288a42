package text

import (
	"encoding/json"
)

type Stringer interface {
	String() string
}

type Unmarshaler interface {
	Unmarshal(bs []byte) error
}

// Encoder writes values that have a text form as is,
// other values are written as JSON.
type Encoder struct{}

func NewEncoder() *Encoder {
	return new(Encoder)
}

func (e *Encoder) Marshal(v any) ([]byte, error) {
	switch s := v.(type) {
	case Stringer:
		return []byte(s.String()), nil
	case string:
		return []byte(s), nil
	case []byte:
		return s, nil
	case *string:
		return []byte(*s), nil
	}
	return json.MarshalIndent(v, "", "  ")
}

func (e *Encoder) Unmarshal(bs []byte, ret any) error {
	switch s := ret.(type) {
	case Unmarshaler:
		return s.Unmarshal(bs)
	case *string:
		*s = string(bs)
		return nil
	case *[]byte:
		*s = bs
		return nil
	}
	return json.Unmarshal(bs, ret)
}

func (e *Encoder) ContentType() string {
	return "text/plain; charset=utf-8"
}
