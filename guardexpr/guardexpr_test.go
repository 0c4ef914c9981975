package guardexpr

import (
	"testing"

	"github.com/holiman/uint256"
)

func evalExpr(t *testing.T, expr string, bindings map[string]any) any {
	t.Helper()
	c, err := Compile(expr)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	result, err := c.Eval(bindings, nil)
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	return result
}

func TestArithmeticPrecedence(t *testing.T) {
	result := evalExpr(t, "1 + 2 * 3", nil)
	if result != int64(7) {
		t.Fatalf("expected 7, got %v", result)
	}
}

func TestComparisonAndLogic(t *testing.T) {
	result := evalExpr(t, "count >= 3 && count < 10", map[string]any{"count": int64(5)})
	if result != true {
		t.Fatalf("expected true, got %v", result)
	}
}

func TestShortCircuitOr(t *testing.T) {
	calls := 0
	c, err := Compile("true || boom()")
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	funcs := map[string]Func{
		"boom": func(args ...any) (any, error) {
			calls++
			return true, nil
		},
	}
	result, err := c.Eval(nil, funcs)
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	if result != true {
		t.Fatalf("expected true, got %v", result)
	}
	if calls != 0 {
		t.Fatalf("expected boom() never called under short-circuit ||, called %d times", calls)
	}
}

func TestUint256Promotion(t *testing.T) {
	big := new(uint256.Int).SetAllOne() // larger than int64 range
	result := evalExpr(t, "balance > 1000", map[string]any{"balance": big})
	if result != true {
		t.Fatalf("expected true for a u256 balance beyond int64 range, got %v", result)
	}
}

func TestIndexExprDefaultsToZero(t *testing.T) {
	result := evalExpr(t, "counts[\"missing\"] == 0", map[string]any{
		"counts": map[string]any{"present": int64(4)},
	})
	if result != true {
		t.Fatalf("expected missing map key to default to 0, got %v", result)
	}
}

func TestUnknownIdentifierErrors(t *testing.T) {
	c, err := Compile("x > 0")
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	if _, err := c.Eval(nil, nil); err == nil {
		t.Fatalf("expected an error for an unbound identifier")
	}
}

func TestEvalBoolRequiresBoolean(t *testing.T) {
	c, err := Compile("1 + 1")
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	if _, err := c.EvalBool(nil, nil); err == nil {
		t.Fatalf("expected an error requiring a boolean result")
	}
}

func TestEvaluateBoolEmptyExpressionAlwaysPasses(t *testing.T) {
	ok, err := EvaluateBool("", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected an empty guard expression to always pass")
	}
}

func TestFunctionCall(t *testing.T) {
	c, err := Compile("double(21) == 42")
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	funcs := map[string]Func{
		"double": func(args ...any) (any, error) {
			n, _ := toInt64(args[0])
			return n * 2, nil
		},
	}
	result, err := c.Eval(nil, funcs)
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	if result != true {
		t.Fatalf("expected true, got %v", result)
	}
}
