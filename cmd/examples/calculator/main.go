// Command calculator is a minimal MCP server exposing a single
// arithmetic tool over stdio, adapted from the teacher's
// pkg/tools/calculator.go into the new Tool/Handler/Builder shapes.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/richard-senior/mcpsession/internal/logger"
	"github.com/richard-senior/mcpsession/pkg/mcp"
	"github.com/richard-senior/mcpsession/pkg/server"
)

var calculatorSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"expression": {
			"type": "string",
			"description": "A simple arithmetic expression such as 2+2 or 4 * 6"
		}
	},
	"required": ["expression"]
}`)

func calculatorTool() mcp.Tool {
	return mcp.Tool{
		Name:        "calculate",
		Description: "Evaluates a simple two-operand arithmetic expression",
		InputSchema: calculatorSchema,
	}
}

func handleCalculate(ctx context.Context, args map[string]any) (*mcp.ToolsCallResult, error) {
	expression, ok := args["expression"].(string)
	if !ok || expression == "" {
		return nil, fmt.Errorf("expression parameter is required and must be a string")
	}

	result, err := evaluate(expression)
	if err != nil {
		content, _ := json.Marshal(map[string]string{"type": "text", "text": err.Error()})
		return &mcp.ToolsCallResult{Content: []json.RawMessage{content}, IsError: true}, nil
	}

	content, err := json.Marshal(map[string]string{
		"type": "text",
		"text": fmt.Sprintf("%s = %g", expression, result),
	})
	if err != nil {
		return nil, err
	}
	return &mcp.ToolsCallResult{Content: []json.RawMessage{content}}, nil
}

// evaluate parses "a op b", tolerating spaced ("2 + 2") or unspaced
// ("2+2") operands — the teacher's parser only accepted the spaced
// form despite its tool description advertising both.
func evaluate(expression string) (float64, error) {
	expression = strings.TrimSpace(expression)
	op, opIdx := findOperator(expression)
	if op == 0 {
		return 0, fmt.Errorf("expression must contain one of + - * /")
	}

	lhs := strings.TrimSpace(expression[:opIdx])
	rhs := strings.TrimSpace(expression[opIdx+1:])

	num1, err := strconv.ParseFloat(lhs, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid first operand: %v", err)
	}
	num2, err := strconv.ParseFloat(rhs, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid second operand: %v", err)
	}

	switch op {
	case '+':
		return num1 + num2, nil
	case '-':
		return num1 - num2, nil
	case '*':
		return num1 * num2, nil
	case '/':
		if num2 == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return num1 / num2, nil
	default:
		return 0, fmt.Errorf("unsupported operator: %c", op)
	}
}

// findOperator finds the rightmost top-level +/- or */ so a leading
// unary minus ("-2+3") isn't mistaken for the operator.
func findOperator(expression string) (byte, int) {
	for i := len(expression) - 1; i > 0; i-- {
		switch expression[i] {
		case '+', '-', '*', '/':
			return expression[i], i
		}
	}
	return 0, -1
}

func main() {
	logger.SetLevel(logger.FATAL)

	srv, err := server.NewBuilder().
		WithInfo("calculator-example", "1.0.0").
		WithTools().
		WithTool(calculatorTool(), handleCalculate).
		Build()
	if err != nil {
		logger.Fatal("failed to build server", err)
	}

	if err := srv.RunStdio(context.Background()); err != nil {
		logger.Error("server exited with error", err)
		os.Exit(1)
	}
}
