package tools

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CalculatorTool gives agents deterministic arithmetic so they do not do
// math in the prompt. Input is "op arg1 [arg2]", e.g. "add 1 2" or "sqrt 9".
type CalculatorTool struct{}

func (c *CalculatorTool) Name() string { return "calculator" }

func (c *CalculatorTool) Description() string {
	return "Perform basic arithmetic. Usage: 'op arg1 [arg2]'. ops: add, sub, mul, div, pow, sqrt"
}

func (c *CalculatorTool) Schema() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{"input": map[string]interface{}{"type": "string"}},
		"required":   []string{"input"},
	}
}

var binaryOps = map[string]func(a, b float64) (float64, error){
	"add": func(a, b float64) (float64, error) { return a + b, nil },
	"sub": func(a, b float64) (float64, error) { return a - b, nil },
	"mul": func(a, b float64) (float64, error) { return a * b, nil },
	"div": func(a, b float64) (float64, error) {
		if b == 0 {
			return 0, errors.New("division by zero")
		}
		return a / b, nil
	},
	"pow": func(a, b float64) (float64, error) { return math.Pow(a, b), nil },
}

func (c *CalculatorTool) Execute(ctx context.Context, input string) (string, error) {
	parts := strings.Fields(input)
	if len(parts) < 2 {
		return "", errors.New("usage: '<op> arg1 [arg2]'")
	}
	op := strings.ToLower(parts[0])

	if op == "sqrt" {
		if len(parts) != 2 {
			return "", errors.New("sqrt requires 1 argument")
		}
		a, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return "", err
		}
		if a < 0 {
			return "", errors.New("sqrt of negative")
		}
		return formatResult(math.Sqrt(a)), nil
	}

	fn, ok := binaryOps[op]
	if !ok {
		return "", fmt.Errorf("unknown op %q", op)
	}
	if len(parts) != 3 {
		return "", errors.New(op + " requires 2 arguments")
	}
	a, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", err
	}
	b, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return "", err
	}
	res, err := fn(a, b)
	if err != nil {
		return "", err
	}
	return formatResult(res), nil
}

func formatResult(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var _ Tool = (*CalculatorTool)(nil)
