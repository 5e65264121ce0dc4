// Package hitexpr parses and evaluates the arithmetic expressions used by
// the fparse evaluator and by parameter range checks, e.g. "2*a + sin(b)" or
// "x>0 & x<2". Expressions are translated to HCL syntax and evaluated with
// cty, so the operator set and error messages follow HCL.
package hitexpr

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// Expression is a parsed arithmetic or logical expression.
type Expression struct {
	src  string
	expr hclsyntax.Expression

	analyzeOnce sync.Once
	variables   []string
	functions   []string
}

// Parse compiles src. It accepts the usual infix operators, "^" for powers,
// and the single character forms "&", "|" and "=" for logical and, or, and
// equality.
func Parse(src string) (*Expression, error) {
	translated, err := translate(src)
	if err != nil {
		return nil, err
	}
	expr, diags := hclsyntax.ParseExpression([]byte(translated), "expression", hcl.Pos{Line: 1, Column: 1, Byte: 0})
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse expression '%s': %s", src, diagSummary(diags))
	}
	return &Expression{src: src, expr: expr}, nil
}

// String returns the source text the expression was parsed from.
func (e *Expression) String() string { return e.src }

// Variables returns the sorted, unique names the expression refers to.
func (e *Expression) Variables() []string {
	e.analyze()
	return e.variables
}

// Functions returns the sorted, unique functions the expression calls.
func (e *Expression) Functions() []string {
	e.analyze()
	return e.functions
}

func (e *Expression) analyze() {
	e.analyzeOnce.Do(func() {
		vars := make(map[string]struct{})
		for _, traversal := range e.expr.Variables() {
			vars[traversal.RootName()] = struct{}{}
		}
		funcs := make(map[string]struct{})
		walkForFunctions(e.expr, funcs)
		e.variables = sortedKeys(vars)
		e.functions = sortedKeys(funcs)
	})
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// walkForFunctions recursively walks the AST, looking only for function calls.
func walkForFunctions(expr hclsyntax.Expression, functions map[string]struct{}) {
	if expr == nil {
		return
	}
	switch e := expr.(type) {
	case *hclsyntax.FunctionCallExpr:
		functions[e.Name] = struct{}{}
		for _, arg := range e.Args {
			walkForFunctions(arg, functions)
		}
	case *hclsyntax.BinaryOpExpr:
		walkForFunctions(e.LHS, functions)
		walkForFunctions(e.RHS, functions)
	case *hclsyntax.ConditionalExpr:
		walkForFunctions(e.Condition, functions)
		walkForFunctions(e.TrueResult, functions)
		walkForFunctions(e.FalseResult, functions)
	case *hclsyntax.UnaryOpExpr:
		walkForFunctions(e.Val, functions)
	case *hclsyntax.ParenthesesExpr:
		walkForFunctions(e.Expression, functions)
	}
}

// translate rewrites the compact operator forms into HCL syntax. Tokens are
// re-joined with spaces because HCL identifiers may contain dashes.
func translate(src string) (string, error) {
	tokens, err := rewritePowers(tokenize(src))
	if err != nil {
		return "", fmt.Errorf("failed to parse expression '%s': %w", src, err)
	}
	return strings.Join(tokens, " "), nil
}

func tokenize(src string) []string {
	var tokens []string
	for i := 0; i < len(src); {
		ch := src[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case isDigit(ch) || (ch == '.' && i+1 < len(src) && isDigit(src[i+1])):
			j := scanNumber(src, i)
			tokens = append(tokens, src[i:j])
			i = j
		case isIdentStart(ch):
			j := i + 1
			for j < len(src) && isIdentPart(src[j]) {
				j++
			}
			tokens = append(tokens, src[i:j])
			i = j
		case ch == '&' || ch == '|':
			tokens = append(tokens, string([]byte{ch, ch}))
			for i < len(src) && src[i] == ch {
				i++
			}
		case ch == '=':
			if i+1 < len(src) && src[i+1] == '=' {
				i++
			}
			tokens = append(tokens, "==")
			i++
		case ch == '<' || ch == '>' || ch == '!':
			i++
			if i < len(src) && src[i] == '=' {
				tokens = append(tokens, string(ch)+"=")
				i++
				continue
			}
			tokens = append(tokens, string(ch))
		default:
			tokens = append(tokens, string(ch))
			i++
		}
	}
	return tokens
}

// rewritePowers replaces every "a ^ b" with "pow(a, b)". The power operator
// is right associative and binds tighter than unary minus, so "-x^2" is
// "-pow(x, 2)" and "2^-1" is "pow(2, -1)".
func rewritePowers(tokens []string) ([]string, error) {
	for {
		k := -1
		for i := len(tokens) - 1; i >= 0; i-- {
			if tokens[i] == "^" {
				k = i
				break
			}
		}
		if k < 0 {
			return tokens, nil
		}
		lo, ok := primaryStart(tokens, k-1)
		if !ok {
			return nil, fmt.Errorf("'^' is missing its base")
		}
		r := k + 1
		if r < len(tokens) && (tokens[r] == "-" || tokens[r] == "+") {
			r++
		}
		hi, ok := primaryEnd(tokens, r)
		if !ok {
			return nil, fmt.Errorf("'^' is missing its exponent")
		}
		pow := "pow(" + strings.Join(tokens[lo:k], " ") + ", " + strings.Join(tokens[k+1:hi+1], " ") + ")"
		out := make([]string, 0, len(tokens)-(hi-lo))
		out = append(out, tokens[:lo]...)
		out = append(out, pow)
		tokens = append(out, tokens[hi+1:]...)
	}
}

// primaryStart returns the index of the first token of the operand ending at
// end: a literal, a name, a parenthesized group or a function call.
func primaryStart(tokens []string, end int) (int, bool) {
	if end < 0 {
		return 0, false
	}
	if tokens[end] != ")" {
		return end, isOperand(tokens[end])
	}
	depth := 0
	for i := end; i >= 0; i-- {
		switch tokens[i] {
		case ")":
			depth++
		case "(":
			depth--
		}
		if depth == 0 {
			if i > 0 && isIdentStart(tokens[i-1][0]) {
				return i - 1, true
			}
			return i, true
		}
	}
	return 0, false
}

// primaryEnd returns the index of the last token of the operand starting at
// start.
func primaryEnd(tokens []string, start int) (int, bool) {
	if start >= len(tokens) {
		return 0, false
	}
	open := start
	switch {
	case tokens[start] == "(":
	case isIdentStart(tokens[start][0]) && start+1 < len(tokens) && tokens[start+1] == "(":
		open = start + 1
	default:
		return start, isOperand(tokens[start])
	}
	depth := 0
	for i := open; i < len(tokens); i++ {
		switch tokens[i] {
		case "(":
			depth++
		case ")":
			depth--
		}
		if depth == 0 {
			return i, true
		}
	}
	return 0, false
}

func isOperand(token string) bool {
	ch := token[0]
	return isDigit(ch) || ch == '.' || isIdentStart(ch)
}

func scanNumber(s string, i int) int {
	for i < len(s) && (isDigit(s[i]) || s[i] == '.') {
		i++
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			return j
		}
	}
	return i
}

func isDigit(ch byte) bool      { return ch >= '0' && ch <= '9' }
func isIdentStart(ch byte) bool { return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') }
func isIdentPart(ch byte) bool  { return isIdentStart(ch) || isDigit(ch) }

func diagSummary(diags hcl.Diagnostics) string {
	msgs := make([]string, 0, len(diags))
	for _, d := range diags {
		if d.Detail != "" {
			msgs = append(msgs, d.Summary+": "+d.Detail)
			continue
		}
		msgs = append(msgs, d.Summary)
	}
	return strings.Join(msgs, "; ")
}
