package guardexpr

import (
	"fmt"
	"strconv"

	"github.com/holiman/uint256"
)

// Func is a function callable from a guard expression's call syntax,
// ident(args...).
type Func func(args ...any) (any, error)

// Context holds the bindings and functions a guard expression evaluates
// against — typically place token counts or other values a custom
// selector exposes to its Activation guards (spec.md §4.4).
type Context struct {
	Bindings map[string]any
	Funcs    map[string]Func
}

// NewContext creates an empty evaluation context.
func NewContext() *Context {
	return &Context{Bindings: make(map[string]any), Funcs: make(map[string]Func)}
}

// Eval evaluates node against ctx, mirroring tokenmodel/guard/eval.go's
// dispatch over the same node shapes.
func Eval(node Node, ctx *Context) (any, error) {
	if node == nil {
		return nil, fmt.Errorf("guardexpr: nil node")
	}

	switch n := node.(type) {
	case *BoolLit:
		return n.Value, nil

	case *NumberLit:
		return parseNumberLit(n.Value)

	case *StringLit:
		return n.Value, nil

	case *Identifier:
		val, ok := ctx.Bindings[n.Name]
		if !ok {
			return nil, fmt.Errorf("guardexpr: unknown identifier: %s", n.Name)
		}
		return val, nil

	case *UnaryOp:
		operand, err := Eval(n.Operand, ctx)
		if err != nil {
			return nil, err
		}
		return evalUnary(n.Op, operand)

	case *BinaryOp:
		if n.Op == "&&" {
			return evalShortCircuit(n, ctx, false)
		}
		if n.Op == "||" {
			return evalShortCircuit(n, ctx, true)
		}
		left, err := Eval(n.Left, ctx)
		if err != nil {
			return nil, err
		}
		right, err := Eval(n.Right, ctx)
		if err != nil {
			return nil, err
		}
		return evalBinary(n.Op, left, right)

	case *IndexExpr:
		obj, err := Eval(n.Object, ctx)
		if err != nil {
			return nil, err
		}
		index, err := Eval(n.Index, ctx)
		if err != nil {
			return nil, err
		}
		return evalIndex(obj, index)

	case *FieldExpr:
		obj, err := Eval(n.Object, ctx)
		if err != nil {
			return nil, err
		}
		return evalField(obj, n.Field)

	case *CallExpr:
		fn, ok := ctx.Funcs[n.Func]
		if !ok {
			return nil, fmt.Errorf("guardexpr: unknown function: %s", n.Func)
		}
		args := make([]any, len(n.Args))
		for i, a := range n.Args {
			val, err := Eval(a, ctx)
			if err != nil {
				return nil, err
			}
			args[i] = val
		}
		return fn(args...)

	default:
		return nil, fmt.Errorf("guardexpr: unknown node type %T", node)
	}
}

// evalShortCircuit handles "||" (shortOn=true: short-circuit when left is
// true) and "&&" (shortOn=false: short-circuit when left is false).
func evalShortCircuit(n *BinaryOp, ctx *Context, shortOn bool) (any, error) {
	left, err := Eval(n.Left, ctx)
	if err != nil {
		return nil, err
	}
	lb, ok := toBool(left)
	if !ok {
		return nil, fmt.Errorf("guardexpr: left operand of %q must be boolean", n.Op)
	}
	if lb == shortOn {
		return lb, nil
	}
	right, err := Eval(n.Right, ctx)
	if err != nil {
		return nil, err
	}
	rb, ok := toBool(right)
	if !ok {
		return nil, fmt.Errorf("guardexpr: right operand of %q must be boolean", n.Op)
	}
	return rb, nil
}

func parseNumberLit(lit string) (any, error) {
	if n, err := strconv.ParseInt(lit, 10, 64); err == nil {
		return n, nil
	}
	u := new(uint256.Int)
	if err := u.SetFromDecimal(lit); err == nil {
		return u, nil
	}
	return nil, fmt.Errorf("guardexpr: invalid numeric literal %q", lit)
}

func evalUnary(op string, operand any) (any, error) {
	switch op {
	case "!":
		b, ok := toBool(operand)
		if !ok {
			return nil, fmt.Errorf("guardexpr: operand of ! must be boolean")
		}
		return !b, nil
	case "-":
		if u, ok := operand.(*uint256.Int); ok {
			return new(uint256.Int).Neg(u), nil
		}
		n, ok := toInt64(operand)
		if !ok {
			return nil, fmt.Errorf("guardexpr: operand of unary - must be numeric")
		}
		return -n, nil
	default:
		return nil, fmt.Errorf("guardexpr: unknown unary operator %q", op)
	}
}

func evalBinary(op string, left, right any) (any, error) {
	switch op {
	case "+", "-", "*", "/", "%":
		return evalArithmetic(op, left, right)
	case ">", "<", ">=", "<=":
		return evalRelational(op, left, right)
	case "==", "!=":
		return evalEquality(op, left, right)
	default:
		return nil, fmt.Errorf("guardexpr: unknown binary operator %q", op)
	}
}

func evalArithmetic(op string, left, right any) (any, error) {
	if isU256(left) || isU256(right) {
		l, lok := toU256(left)
		r, rok := toU256(right)
		if !lok || !rok {
			return nil, fmt.Errorf("guardexpr: arithmetic operands must be numeric")
		}
		return evalArithmeticU256(op, l, r)
	}

	l, lok := toInt64(left)
	r, rok := toInt64(right)
	if !lok || !rok {
		return nil, fmt.Errorf("guardexpr: arithmetic operands must be numeric")
	}

	switch op {
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/":
		if r == 0 {
			return nil, fmt.Errorf("guardexpr: division by zero")
		}
		return l / r, nil
	case "%":
		if r == 0 {
			return nil, fmt.Errorf("guardexpr: modulo by zero")
		}
		return l % r, nil
	default:
		return nil, fmt.Errorf("guardexpr: unknown arithmetic operator %q", op)
	}
}

func evalArithmeticU256(op string, left, right *uint256.Int) (any, error) {
	result := new(uint256.Int)
	switch op {
	case "+":
		return result.Add(left, right), nil
	case "-":
		return result.Sub(left, right), nil
	case "*":
		return result.Mul(left, right), nil
	case "/":
		if right.IsZero() {
			return nil, fmt.Errorf("guardexpr: division by zero")
		}
		return result.Div(left, right), nil
	case "%":
		if right.IsZero() {
			return nil, fmt.Errorf("guardexpr: modulo by zero")
		}
		return result.Mod(left, right), nil
	default:
		return nil, fmt.Errorf("guardexpr: unknown arithmetic operator %q", op)
	}
}

func evalRelational(op string, left, right any) (any, error) {
	if isU256(left) || isU256(right) {
		l, lok := toU256(left)
		r, rok := toU256(right)
		if !lok || !rok {
			return nil, fmt.Errorf("guardexpr: relational operands must be numeric")
		}
		return evalRelationalU256(op, l, r)
	}

	l, lok := toInt64(left)
	r, rok := toInt64(right)
	if !lok || !rok {
		return nil, fmt.Errorf("guardexpr: relational operands must be numeric")
	}

	switch op {
	case ">":
		return l > r, nil
	case "<":
		return l < r, nil
	case ">=":
		return l >= r, nil
	case "<=":
		return l <= r, nil
	default:
		return nil, fmt.Errorf("guardexpr: unknown relational operator %q", op)
	}
}

func evalRelationalU256(op string, left, right *uint256.Int) (any, error) {
	cmp := left.Cmp(right)
	switch op {
	case ">":
		return cmp > 0, nil
	case "<":
		return cmp < 0, nil
	case ">=":
		return cmp >= 0, nil
	case "<=":
		return cmp <= 0, nil
	default:
		return nil, fmt.Errorf("guardexpr: unknown relational operator %q", op)
	}
}

func evalEquality(op string, left, right any) (any, error) {
	equal := compareValues(left, right)
	if op == "==" {
		return equal, nil
	}
	return !equal, nil
}

func compareValues(left, right any) bool {
	if isU256(left) || isU256(right) {
		l, lok := toU256(left)
		r, rok := toU256(right)
		if lok && rok {
			return l.Cmp(r) == 0
		}
	}
	if l, lok := toInt64(left); lok {
		if r, rok := toInt64(right); rok {
			return l == r
		}
	}
	if l, lok := toBool(left); lok {
		if r, rok := toBool(right); rok {
			return l == r
		}
	}
	if l, lok := toString(left); lok {
		if r, rok := toString(right); rok {
			return l == r
		}
	}
	return left == right
}

func evalIndex(obj, index any) (any, error) {
	if obj == nil {
		return int64(0), nil
	}
	if _, ok := toInt64(obj); ok {
		return int64(0), nil
	}
	if _, ok := obj.(*uint256.Int); ok {
		return int64(0), nil
	}
	switch o := obj.(type) {
	case map[string]any:
		key, ok := toString(index)
		if !ok {
			return nil, fmt.Errorf("guardexpr: map index must be a string")
		}
		val, exists := o[key]
		if !exists {
			return int64(0), nil
		}
		return val, nil
	case map[string]int:
		key, ok := toString(index)
		if !ok {
			return nil, fmt.Errorf("guardexpr: map index must be a string")
		}
		return int64(o[key]), nil
	case map[string]*uint256.Int:
		key, ok := toString(index)
		if !ok {
			return nil, fmt.Errorf("guardexpr: map index must be a string")
		}
		val, exists := o[key]
		if !exists {
			return uint256.NewInt(0), nil
		}
		return val, nil
	default:
		return nil, fmt.Errorf("guardexpr: cannot index type %T", obj)
	}
}

func evalField(obj any, field string) (any, error) {
	switch o := obj.(type) {
	case map[string]any:
		val, exists := o[field]
		if !exists {
			return nil, fmt.Errorf("guardexpr: field not found: %s", field)
		}
		return val, nil
	default:
		return nil, fmt.Errorf("guardexpr: cannot access field on type %T", obj)
	}
}

func toBool(v any) (bool, bool) {
	switch val := v.(type) {
	case bool:
		return val, true
	case int64:
		return val != 0, true
	case int:
		return val != 0, true
	case *uint256.Int:
		return !val.IsZero(), true
	default:
		return false, false
	}
}

func toInt64(v any) (int64, bool) {
	switch val := v.(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	case int32:
		return int64(val), true
	case float64:
		return int64(val), true
	case *uint256.Int:
		if val.IsUint64() {
			return int64(val.Uint64()), true
		}
		return 0, false
	case string:
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func toU256(v any) (*uint256.Int, bool) {
	switch val := v.(type) {
	case *uint256.Int:
		return val, true
	case int64:
		if val < 0 {
			return nil, false
		}
		return uint256.NewInt(uint64(val)), true
	case int:
		if val < 0 {
			return nil, false
		}
		return uint256.NewInt(uint64(val)), true
	case uint64:
		return uint256.NewInt(val), true
	case string:
		result := new(uint256.Int)
		if err := result.SetFromDecimal(val); err != nil {
			return nil, false
		}
		return result, true
	default:
		return nil, false
	}
}

func isU256(v any) bool {
	_, ok := v.(*uint256.Int)
	return ok
}

func toString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case int:
		return fmt.Sprintf("%d", val), true
	case int64:
		return fmt.Sprintf("%d", val), true
	case *uint256.Int:
		return val.Dec(), true
	default:
		return "", false
	}
}
