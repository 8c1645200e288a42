package calculator

import (
	"math"

	"github.com/Knetic/govaluate"
	"github.com/cockroachdb/errors"
)

var constParams = map[string]any{
	"pi":  math.Pi,
	"e":   math.E,
	"phi": math.Phi,
	"inf": math.Inf(1),
}

var functions = map[string]govaluate.ExpressionFunction{
	"sqrt":   unary("sqrt", math.Sqrt),
	"sin":    unary("sin", math.Sin),
	"cos":    unary("cos", math.Cos),
	"tan":    unary("tan", math.Tan),
	"arcsin": unary("arcsin", math.Asin),
	"arccos": unary("arccos", math.Acos),
	"arctan": unary("arctan", math.Atan),
	"log":    unary("log", math.Log),
	"log10":  unary("log10", math.Log10),
	"log2":   unary("log2", math.Log2),
	"exp":    unary("exp", math.Exp),
	"abs":    unary("abs", math.Abs),
	"floor":  unary("floor", math.Floor),
	"ceil":   unary("ceil", math.Ceil),
	"round":  unary("round", math.RoundToEven),
	"pow":    binary("pow", math.Pow),
	"min":    binary("min", math.Min),
	"max":    binary("max", math.Max),
}

// integral lists functions that keep an integer argument integral
var integral = map[string]bool{
	"abs": true,
	"min": true,
	"max": true,
}

func unary(name string, fn func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, errors.Errorf("%s() takes exactly 1 argument (%d given)", name, len(args))
		}
		x, ok := args[0].(float64)
		if !ok {
			return nil, errors.Errorf("%s() argument must be a number", name)
		}
		return fn(x), nil
	}
}

func binary(name string, fn func(float64, float64) float64) govaluate.ExpressionFunction {
	return func(args ...any) (any, error) {
		if len(args) != 2 {
			return nil, errors.Errorf("%s() takes exactly 2 arguments (%d given)", name, len(args))
		}
		x, ok1 := args[0].(float64)
		y, ok2 := args[1].(float64)
		if !ok1 || !ok2 {
			return nil, errors.Errorf("%s() arguments must be numbers", name)
		}
		return fn(x, y), nil
	}
}
