package encoding_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/effective-security/agentflow/encoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type report struct {
	Topic string `json:"topic" yaml:"topic" toml:"topic"`
	Body  string `json:"body" yaml:"body" toml:"body"`
}

func (r *report) String() string {
	return r.Topic + ": " + r.Body
}

func (r *report) Markdown() string {
	return "# " + r.Topic + "\n\n" + r.Body
}

func TestNew(t *testing.T) {
	for _, f := range encoding.Formats {
		enc, err := encoding.New(f)
		require.NoError(t, err, f)
		assert.NotEmpty(t, enc.ContentType())
	}
	_, err := encoding.New("xml")
	assert.EqualError(t, err, "unsupported format: xml")
}

func TestMarshal(t *testing.T) {
	r := &report{Topic: "AI", Body: "agents are here"}

	tcases := []struct {
		format string
		exp    string
	}{
		{encoding.FormatText, "AI: agents are here"},
		{encoding.FormatJSON, "{\n  \"topic\": \"AI\",\n  \"body\": \"agents are here\"\n}\n"},
		{encoding.FormatYAML, "topic: AI\nbody: agents are here\n"},
		{encoding.FormatTOML, "topic = \"AI\"\nbody = \"agents are here\"\n"},
	}
	for _, tc := range tcases {
		t.Run(tc.format, func(t *testing.T) {
			enc, err := encoding.New(tc.format)
			require.NoError(t, err)
			bs, err := enc.Marshal(r)
			require.NoError(t, err)
			assert.Equal(t, tc.exp, string(bs))
		})
	}

	enc, err := encoding.New(encoding.FormatMarkdown)
	require.NoError(t, err)
	bs, err := enc.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(bs), "AI")
	assert.Contains(t, string(bs), "agents are here")

	_, err = enc.Marshal(42)
	assert.EqualError(t, err, "markdown: unsupported type int")
}

func TestUnmarshal(t *testing.T) {
	tcases := []struct {
		format string
		data   string
	}{
		{encoding.FormatJSON, "```json\n{\"topic\":\"AI\",\"body\":\"b\"}\n```"},
		{encoding.FormatYAML, "topic: AI\nbody: b\n"},
		{encoding.FormatTOML, "topic = \"AI\"\nbody = \"b\"\n"},
		{encoding.FormatText, "{\"topic\":\"AI\",\"body\":\"b\"}"},
	}
	for _, tc := range tcases {
		t.Run(tc.format, func(t *testing.T) {
			enc, err := encoding.New(tc.format)
			require.NoError(t, err)
			var r report
			require.NoError(t, enc.Unmarshal([]byte(tc.data), &r))
			assert.Equal(t, "AI", r.Topic)
			assert.Equal(t, "b", r.Body)
		})
	}

	enc, _ := encoding.New(encoding.FormatText)
	var s string
	require.NoError(t, enc.Unmarshal([]byte("plain"), &s))
	assert.Equal(t, "plain", s)

	enc, _ = encoding.New(encoding.FormatMarkdown)
	require.NoError(t, enc.Unmarshal([]byte("# md"), &s))
	assert.Equal(t, "# md", s)
}

func TestRoundTrip(t *testing.T) {
	var exp report
	require.NoError(t, gofakeit.Struct(&exp))

	for _, f := range []string{encoding.FormatJSON, encoding.FormatYAML, encoding.FormatTOML} {
		t.Run(f, func(t *testing.T) {
			enc, err := encoding.New(f)
			require.NoError(t, err)
			bs, err := enc.Marshal(&exp)
			require.NoError(t, err)

			var got report
			require.NoError(t, enc.Unmarshal(bs, &got))
			assert.Equal(t, exp, got)
		})
	}
}
