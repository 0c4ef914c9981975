package guardexpr

import "fmt"

// Compiled is a parsed guard expression ready for repeated evaluation
// without re-lexing/parsing on every call.
type Compiled struct {
	expr string
	ast  Node
}

// Compile parses expr into a Compiled guard. An empty expression is
// rejected; callers that want "always true" should simply not attach a
// guard at all (petrinet.Transition.Activation nil).
func Compile(expr string) (*Compiled, error) {
	if expr == "" {
		return nil, fmt.Errorf("guardexpr: empty expression")
	}
	node, err := NewParser(expr).Parse()
	if err != nil {
		return nil, err
	}
	return &Compiled{expr: expr, ast: node}, nil
}

// String returns the original source expression.
func (c *Compiled) String() string { return c.expr }

// AST returns the parsed tree, mainly for tests and tooling.
func (c *Compiled) AST() Node { return c.ast }

// Eval evaluates the compiled expression against bindings and funcs.
func (c *Compiled) Eval(bindings map[string]any, funcs map[string]Func) (any, error) {
	ctx := &Context{Bindings: bindings, Funcs: funcs}
	if ctx.Bindings == nil {
		ctx.Bindings = make(map[string]any)
	}
	if ctx.Funcs == nil {
		ctx.Funcs = make(map[string]Func)
	}
	return Eval(c.ast, ctx)
}

// EvalBool evaluates the compiled expression and requires a boolean
// result, the shape a guard or priority-skip condition needs.
func (c *Compiled) EvalBool(bindings map[string]any, funcs map[string]Func) (bool, error) {
	result, err := c.Eval(bindings, funcs)
	if err != nil {
		return false, err
	}
	b, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("guardexpr: expression %q must evaluate to a boolean, got %T", c.expr, result)
	}
	return b, nil
}

// EvaluateBool compiles and evaluates expr in one call. An empty
// expression always passes, matching tokenmodel/guard.Evaluate's
// convention that a guard-less transition is always enabled.
func EvaluateBool(expr string, bindings map[string]any, funcs map[string]Func) (bool, error) {
	if expr == "" {
		return true, nil
	}
	c, err := Compile(expr)
	if err != nil {
		return false, err
	}
	return c.EvalBool(bindings, funcs)
}
