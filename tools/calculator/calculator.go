package calculator

import (
	"context"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentflow/pkg/schema"
	"github.com/effective-security/agentflow/tools"
)

// ToolName is the name the agent uses in the Action line
const ToolName = "calculator"

// Input is the tool input
type Input struct {
	Expression string `json:"expression" jsonschema:"title=Expression,description=Mathematical expression to evaluate. For example '2+3*10'."`
}

var inputSchema = schema.MustNew(reflect.TypeOf(Input{}))

// Tool evaluates arithmetic expressions
type Tool struct{}

// ensure Tool implements the tools.ITool interface
var _ tools.ITool = (*Tool)(nil)

// New returns the calculator tool
func New() *Tool {
	return &Tool{}
}

func (t *Tool) Name() string {
	return ToolName
}

func (t *Tool) Description() string {
	return "Evaluate a mathematical expression like 2+3*10."
}

func (t *Tool) Parameters() any {
	return inputSchema.Parameters
}

// Run evaluates the expression and returns the formatted result.
// Expressions with only integer literals and integer operators
// produce an integer, otherwise the result is a float.
func (t *Tool) Run(_ context.Context, in *Input) (string, error) {
	text := strings.TrimSpace(in.Expression)
	if text == "" {
		return "", errors.WithStack(tools.ErrEmptyInput)
	}

	expr, err := govaluate.NewEvaluableExpressionWithFunctions(text, functions)
	if err != nil {
		return "", errors.WithStack(err)
	}
	for _, v := range expr.Vars() {
		if _, ok := constParams[v]; !ok {
			return "", errors.Errorf("'%s' is not defined", v)
		}
	}

	result, err := expr.Evaluate(constParams)
	if err != nil {
		return "", errors.WithStack(err)
	}

	switch v := result.(type) {
	case bool:
		if v {
			return "True", nil
		}
		return "False", nil
	case float64:
		if isIntegral(text, expr) && !math.IsInf(v, 0) && !math.IsNaN(v) && v == math.Trunc(v) && math.Abs(v) < 1<<63 {
			return strconv.FormatInt(int64(v), 10), nil
		}
		return FormatFloat(v), nil
	}
	return "", errors.Errorf("unsupported result type %T", result)
}

// Call returns the result, failures are returned as "Calculator error: ..." observation
func (t *Tool) Call(ctx context.Context, input string) (string, error) {
	res, err := t.Run(ctx, &Input{Expression: input})
	if err != nil {
		return "Calculator error: " + err.Error(), nil
	}
	return res, nil
}

var callRe = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)\s*\(`)

func isIntegral(text string, expr *govaluate.EvaluableExpression) bool {
	if strings.Contains(text, ".") || len(expr.Vars()) > 0 {
		return false
	}
	for _, m := range callRe.FindAllStringSubmatch(text, -1) {
		if !integral[m[1]] {
			return false
		}
	}
	for _, tok := range expr.Tokens() {
		if tok.Kind == govaluate.MODIFIER {
			if s, ok := tok.Value.(string); ok && s == "/" {
				return false
			}
		}
	}
	return true
}

// FormatFloat renders the shortest repr of the value, whole values keep ".0"
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	s := strconv.FormatFloat(v, 'e', -1, 64)
	exp, _ := strconv.Atoi(s[strings.IndexByte(s, 'e')+1:])
	if exp < -4 || exp >= 16 {
		return s
	}
	s = strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
