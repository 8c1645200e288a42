package markdown

import (
	"github.com/charmbracelet/glamour"
	"github.com/cockroachdb/errors"
)

// Defaults of the terminal renderer
const (
	DefaultStyle = "notty"
	DefaultWidth = 100
)

// Markdowner is implemented by values with a Markdown form
type Markdowner interface {
	Markdown() string
}

// Encoder renders Markdown for the terminal with glamour
type Encoder struct {
	style string
	width int
}

func NewEncoder(style string, width int) *Encoder {
	return &Encoder{style: style, width: width}
}

func (e *Encoder) Marshal(v any) ([]byte, error) {
	var text string
	switch s := v.(type) {
	case Markdowner:
		text = s.Markdown()
	case string:
		text = s
	case []byte:
		text = string(s)
	default:
		return nil, errors.Errorf("markdown: unsupported type %T", v)
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(e.style),
		glamour.WithWordWrap(e.width),
	)
	if err != nil {
		return nil, errors.Wrap(err, "markdown: failed to create renderer")
	}
	out, err := r.Render(text)
	if err != nil {
		return nil, errors.Wrap(err, "markdown: failed to render")
	}
	return []byte(out), nil
}

// Unmarshal returns the Markdown source
func (e *Encoder) Unmarshal(bs []byte, ret any) error {
	switch s := ret.(type) {
	case *string:
		*s = string(bs)
		return nil
	case *[]byte:
		*s = bs
		return nil
	}
	return errors.Errorf("markdown: unsupported type %T", ret)
}

func (e *Encoder) ContentType() string {
	return "text/markdown; charset=utf-8"
}
