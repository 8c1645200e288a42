package prompts

import (
	"slices"
	"strings"
	"text/template"
	"text/template/parse"

	"github.com/Masterminds/sprig/v3"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentflow/pkg/llms"
)

// ErrMissingVariable is returned when Format is called without a variable used by the template
var ErrMissingVariable = errors.New("missing prompt variable")

// PromptTemplate renders a Go text/template with sprig functions.
// Variables are referenced as {{.name}}.
type PromptTemplate struct {
	name      string
	text      string
	tmpl      *template.Template
	variables []string
	partials  map[string]any
}

// New parses the template text
func New(name, text string) (*PromptTemplate, error) {
	tmpl, err := template.New(name).
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		Parse(text)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse prompt template %s", name)
	}

	return &PromptTemplate{
		name:      name,
		text:      text,
		tmpl:      tmpl,
		variables: findVariables(tmpl),
	}, nil
}

// Must is like New but panics on error, for templates defined at package level
func Must(name, text string) *PromptTemplate {
	p, err := New(name, text)
	if err != nil {
		panic(err)
	}
	return p
}

// Name returns the template name
func (p *PromptTemplate) Name() string {
	return p.name
}

// Text returns the template source
func (p *PromptTemplate) Text() string {
	return p.text
}

// GetInputVariables returns the sorted list of top level variables used by the template
func (p *PromptTemplate) GetInputVariables() []string {
	return slices.Clone(p.variables)
}

// WithPartials returns a copy of the template with variables pre-filled,
// values passed to Format take precedence.
func (p *PromptTemplate) WithPartials(partials map[string]any) *PromptTemplate {
	c := *p
	c.partials = make(map[string]any, len(p.partials)+len(partials))
	for k, v := range p.partials {
		c.partials[k] = v
	}
	for k, v := range partials {
		c.partials[k] = v
	}
	return &c
}

// Format renders the template with the given values
func (p *PromptTemplate) Format(values map[string]any) (string, error) {
	data := make(map[string]any, len(p.partials)+len(values))
	for k, v := range p.partials {
		data[k] = v
	}
	for k, v := range values {
		data[k] = v
	}

	for _, v := range p.variables {
		if _, ok := data[v]; !ok {
			return "", errors.Wrapf(ErrMissingVariable, "%s: %s", p.name, v)
		}
	}

	var sb strings.Builder
	if err := p.tmpl.Execute(&sb, data); err != nil {
		return "", errors.Wrapf(err, "failed to render prompt template %s", p.name)
	}
	return sb.String(), nil
}

// FormatMessages renders the template as a single human message
func (p *PromptTemplate) FormatMessages(values map[string]any) ([]llms.Message, error) {
	text, err := p.Format(values)
	if err != nil {
		return nil, err
	}
	return []llms.Message{llms.MessageFromTextParts(llms.RoleHuman, text)}, nil
}

func findVariables(tmpl *template.Template) []string {
	seen := map[string]struct{}{}
	for _, t := range tmpl.Templates() {
		if t.Tree != nil {
			walk(t.Tree.Root, seen)
		}
	}
	vars := make([]string, 0, len(seen))
	for v := range seen {
		vars = append(vars, v)
	}
	slices.Sort(vars)
	return vars
}

func walk(node parse.Node, seen map[string]struct{}) {
	switch n := node.(type) {
	case *parse.ListNode:
		if n == nil {
			return
		}
		for _, c := range n.Nodes {
			walk(c, seen)
		}
	case *parse.ActionNode:
		walk(n.Pipe, seen)
	case *parse.PipeNode:
		if n == nil {
			return
		}
		for _, c := range n.Cmds {
			walk(c, seen)
		}
	case *parse.CommandNode:
		for _, a := range n.Args {
			walk(a, seen)
		}
	case *parse.FieldNode:
		if len(n.Ident) > 0 {
			seen[n.Ident[0]] = struct{}{}
		}
	case *parse.IfNode:
		walk(n.Pipe, seen)
		walk(n.List, seen)
		walk(n.ElseList, seen)
	// fields inside range and with bodies are relative to the new dot
	case *parse.RangeNode:
		walk(n.Pipe, seen)
		walk(n.ElseList, seen)
	case *parse.WithNode:
		walk(n.Pipe, seen)
		walk(n.ElseList, seen)
	}
}
