package encoding

import (
	"github.com/cockroachdb/errors"
	jsonenc "github.com/effective-security/agentflow/encoding/json"
	mdenc "github.com/effective-security/agentflow/encoding/markdown"
	textenc "github.com/effective-security/agentflow/encoding/text"
	tomlenc "github.com/effective-security/agentflow/encoding/toml"
	yamlenc "github.com/effective-security/agentflow/encoding/yaml"
)

// Encoder marshals values in a given format
type Encoder interface {
	Marshal(v any) ([]byte, error)
	Unmarshal([]byte, any) error
	// ContentType returns the MIME type of the format
	ContentType() string
}

type Format = string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatTOML     Format = "toml"
)

// Formats lists the supported formats
var Formats = []Format{FormatText, FormatMarkdown, FormatJSON, FormatYAML, FormatTOML}

// New returns the encoder for the format, empty format is text
func New(format Format) (Encoder, error) {
	switch format {
	case "", FormatText:
		return textenc.NewEncoder(), nil
	case FormatMarkdown, "md":
		return mdenc.NewEncoder(mdenc.DefaultStyle, mdenc.DefaultWidth), nil
	case FormatJSON:
		return jsonenc.NewEncoder(), nil
	case FormatYAML, "yml":
		return yamlenc.NewEncoder(), nil
	case FormatTOML:
		return tomlenc.NewEncoder(), nil
	}
	return nil, errors.Errorf("unsupported format: %s", format)
}

var (
	_ Encoder = (*jsonenc.Encoder)(nil)
	_ Encoder = (*yamlenc.Encoder)(nil)
	_ Encoder = (*tomlenc.Encoder)(nil)
	_ Encoder = (*textenc.Encoder)(nil)
	_ Encoder = (*mdenc.Encoder)(nil)
)
