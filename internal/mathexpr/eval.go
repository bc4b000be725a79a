// Package mathexpr evaluates a closed arithmetic grammar: numeric literals,
// + - * / % ** ^, unary signs, parentheses and calls to a fixed set of math
// functions. Expressions are parsed with expr-lang's parser and walked here;
// any node outside that grammar is rejected before anything is computed.
package mathexpr

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"Mathagent/pkg/types"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
)

// MaxExpressionLength bounds the input accepted by Eval.
const MaxExpressionLength = 4096

var (
	// ErrSyntax is returned when the input does not parse.
	ErrSyntax = errors.New("invalid syntax")
	// ErrUnsupported is returned for constructs outside the arithmetic grammar.
	ErrUnsupported = errors.New("unsupported expression")
	// ErrEvaluation is returned for runtime failures such as division by zero.
	ErrEvaluation = errors.New("evaluation error")
)

// EvalError describes a rejected or failed expression.
type EvalError struct {
	Kind error
	Msg  string
}

func (e *EvalError) Error() string {
	return e.Msg
}

func (e *EvalError) Unwrap() error {
	return e.Kind
}

func unsupported(format string, args ...any) error {
	return &EvalError{Kind: ErrUnsupported, Msg: fmt.Sprintf(format, args...)}
}

func evalErr(msg string) error {
	return &EvalError{Kind: ErrEvaluation, Msg: msg}
}

// Eval parses and evaluates expression. It never panics.
func Eval(expression string) (n Number, err error) {
	defer func() {
		if r := recover(); r != nil {
			n, err = Number{}, evalErr(fmt.Sprintf("internal error: %v", r))
		}
	}()

	if len(expression) > MaxExpressionLength {
		return Number{}, &EvalError{Kind: ErrSyntax, Msg: "expression too long"}
	}

	if err := checkLexical(expression); err != nil {
		return Number{}, err
	}

	tree, err := parser.Parse(widenIntegerLiterals(expression))
	if err != nil {
		return Number{}, &EvalError{Kind: ErrSyntax, Msg: fmt.Sprintf("invalid syntax: %v", err)}
	}

	n, err = eval(tree.Node)
	if err != nil {
		return Number{}, err
	}
	if n.isFloat {
		if math.IsNaN(n.f) {
			return Number{}, evalErr("math domain error")
		}
		if math.IsInf(n.f, 0) {
			return Number{}, evalErr("math range error")
		}
	}
	return n, nil
}

// checkLexical rejects syntax the parser would consume silently: comments
// drop the rest of the input and a pipe rewrites its operands into a call.
func checkLexical(expression string) error {
	switch {
	case strings.Contains(expression, "/*"):
		return unsupported("comments are not allowed")
	case strings.Contains(expression, "//"):
		return unsupported("unsupported operator: %q", "//")
	case strings.Contains(expression, "|"):
		return unsupported("unsupported operator: %q", "|")
	}
	return nil
}

// widenIntegerLiterals turns decimal integer literals beyond int64 into float
// literals, matching how integer arithmetic overflows to float.
func widenIntegerLiterals(expression string) string {
	var sb strings.Builder
	changed := false
	for i := 0; i < len(expression); {
		c := expression[i]
		if !isDigit(c) || (i > 0 && isWordOrDot(expression[i-1])) {
			sb.WriteByte(c)
			i++
			continue
		}
		j := i
		for j < len(expression) && isDigit(expression[j]) {
			j++
		}
		literal := expression[i:j]
		sb.WriteString(literal)
		if j == len(expression) || !isWordOrDot(expression[j]) {
			if _, err := strconv.ParseInt(literal, 10, 64); errors.Is(err, strconv.ErrRange) {
				sb.WriteString(".0")
				changed = true
			}
		}
		i = j
	}
	if !changed {
		return expression
	}
	return sb.String()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isWordOrDot(c byte) bool {
	return isDigit(c) || c == '.' || c == '_' || (c|0x20 >= 'a' && c|0x20 <= 'z')
}

// Evaluate runs Eval and packs the outcome as a tool result.
func Evaluate(expression string) types.ToolResult {
	n, err := Eval(expression)
	if err != nil {
		return types.ToolResult{OK: false, Error: err.Error()}
	}
	return types.ToolResult{OK: true, Result: n.String()}
}

func eval(node ast.Node) (Number, error) {
	switch n := node.(type) {
	case *ast.IntegerNode:
		return Int(int64(n.Value)), nil

	case *ast.FloatNode:
		return Float(n.Value), nil

	case *ast.UnaryNode:
		operand, err := eval(n.Node)
		if err != nil {
			return Number{}, err
		}
		switch n.Operator {
		case "+":
			return operand, nil
		case "-":
			return negate(operand), nil
		}
		return Number{}, unsupported("unsupported operator: %q", n.Operator)

	case *ast.BinaryNode:
		op, ok := binaryOps[n.Operator]
		if !ok {
			return Number{}, unsupported("unsupported operator: %q", n.Operator)
		}
		left, err := eval(n.Left)
		if err != nil {
			return Number{}, err
		}
		right, err := eval(n.Right)
		if err != nil {
			return Number{}, err
		}
		return op(left, right)

	case *ast.CallNode:
		ident, ok := n.Callee.(*ast.IdentifierNode)
		if !ok {
			return Number{}, unsupported("unsupported call target")
		}
		return call(ident.Value, n.Arguments)

	case *ast.BuiltinNode:
		return call(n.Name, n.Arguments)

	case *ast.IdentifierNode:
		return Number{}, unsupported("name %q is not allowed", n.Value)
	case *ast.MemberNode, *ast.ChainNode:
		return Number{}, unsupported("attribute access is not allowed")
	case *ast.SliceNode:
		return Number{}, unsupported("subscripting is not allowed")
	case *ast.StringNode:
		return Number{}, unsupported("string literals are not allowed")
	case *ast.BoolNode, *ast.NilNode:
		return Number{}, unsupported("only numeric literals are allowed")
	case *ast.VariableDeclaratorNode:
		return Number{}, unsupported("assignment is not allowed")
	case *ast.ArrayNode, *ast.MapNode:
		return Number{}, unsupported("collections are not allowed")
	case *ast.PredicateNode, *ast.PointerNode:
		return Number{}, unsupported("comprehensions are not allowed")
	case *ast.ConditionalNode:
		return Number{}, unsupported("conditional expressions are not allowed")
	case *ast.SequenceNode:
		return Number{}, unsupported("multiple expressions are not allowed")
	case nil:
		return Number{}, &EvalError{Kind: ErrSyntax, Msg: "empty expression"}
	}
	return Number{}, unsupported("unsupported expression: %T", node)
}

func call(name string, args []ast.Node) (Number, error) {
	fn, ok := functions[name]
	if !ok {
		return Number{}, unsupported("function %q is not allowed", name)
	}
	if len(args) < fn.minArgs || (fn.maxArgs >= 0 && len(args) > fn.maxArgs) {
		return Number{}, evalErr(arityMessage(name, fn, len(args)))
	}

	values := make([]Number, 0, len(args))
	for _, arg := range args {
		v, err := eval(arg)
		if err != nil {
			return Number{}, err
		}
		values = append(values, v)
	}
	return fn.call(values)
}

func arityMessage(name string, fn function, got int) string {
	switch {
	case fn.maxArgs < 0:
		return fmt.Sprintf("%s expected at least %d arguments, got %d", name, fn.minArgs, got)
	case fn.minArgs == fn.maxArgs:
		return fmt.Sprintf("%s expected %d arguments, got %d", name, fn.minArgs, got)
	default:
		return fmt.Sprintf("%s expected %d to %d arguments, got %d", name, fn.minArgs, fn.maxArgs, got)
	}
}
