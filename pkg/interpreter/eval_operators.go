package interpreter

import (
	"math"

	"github.com/RyanBatesMiller/Brewin-Interpreter/pkg/ast"
	"github.com/RyanBatesMiller/Brewin-Interpreter/pkg/runtime"
)

func (i *Interpreter) evalBinaryExpression(n *ast.BinaryExpression, recv *runtime.ObjectValue) (runtime.Value, error) {
	left, err := i.evalExpression(n.Left, recv)
	if err != nil {
		return nil, err
	}
	right, err := i.evalExpression(n.Right, recv)
	if err != nil {
		return nil, err
	}
	return applyBinaryOperator(n, n.Operator, left, right)
}

func applyBinaryOperator(at ast.Node, op string, left, right runtime.Value) (runtime.Value, error) {
	switch op {
	case "==", "!=":
		left, right = coerceForEquality(left, right)
		eq := runtime.Equal(left, right)
		if op == "!=" {
			eq = !eq
		}
		return runtime.Bool(eq), nil
	case "&&", "||":
		l, lok := runtime.Truthy(left)
		r, rok := runtime.Truthy(right)
		if !lok || !rok {
			return nil, typeErrorf(at, "operator %s requires bool operands (got %s and %s)", op, left.Kind(), right.Kind())
		}
		if op == "&&" {
			return runtime.Bool(l && r), nil
		}
		return runtime.Bool(l || r), nil
	case "+", "-", "*", "/":
		left, right = intOperand(left), intOperand(right)
	}

	if left.Kind() != right.Kind() {
		return nil, typeErrorf(at, "incompatible types for %s: %s and %s", op, left.Kind(), right.Kind())
	}
	switch l := left.(type) {
	case runtime.IntValue:
		return intOperator(at, op, l.Val, right.(runtime.IntValue).Val)
	case runtime.StringValue:
		if op == "+" {
			return runtime.StringValue{Val: l.Val + right.(runtime.StringValue).Val}, nil
		}
	}
	return nil, typeErrorf(at, "operator %s is not defined for %s", op, left.Kind())
}

func intOperator(at ast.Node, op string, l, r int64) (runtime.Value, error) {
	switch op {
	case "+", "-", "*":
		v, ok := checkedIntOp(op, l, r)
		if !ok {
			return nil, faultErrorf(at, "integer overflow in %d %s %d", l, op, r)
		}
		return runtime.IntValue{Val: v}, nil
	case "/":
		if r == 0 {
			return nil, faultErrorf(at, "division by zero")
		}
		if l == math.MinInt64 && r == -1 {
			return nil, faultErrorf(at, "integer overflow in %d / %d", l, r)
		}
		return runtime.IntValue{Val: floorDiv(l, r)}, nil
	case "<":
		return runtime.Bool(l < r), nil
	case "<=":
		return runtime.Bool(l <= r), nil
	case ">":
		return runtime.Bool(l > r), nil
	case ">=":
		return runtime.Bool(l >= r), nil
	default:
		return nil, typeErrorf(at, "operator %s is not defined for int", op)
	}
}

// checkedIntOp applies +, - or * and reports false when the result does not
// fit in an int64.
func checkedIntOp(op string, l, r int64) (int64, bool) {
	switch op {
	case "+":
		v := l + r
		return v, !((l >= 0) == (r >= 0) && (v >= 0) != (l >= 0))
	case "-":
		v := l - r
		return v, !((l >= 0) != (r >= 0) && (v >= 0) != (l >= 0))
	default:
		if l == 0 || r == 0 {
			return 0, true
		}
		v := l * r
		if (l == -1 && r == math.MinInt64) || (r == -1 && l == math.MinInt64) || v/r != l {
			return v, false
		}
		return v, true
	}
}

// floorDiv rounds the quotient toward negative infinity.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// coerceForEquality turns an int compared against a bool into a bool.
func coerceForEquality(left, right runtime.Value) (runtime.Value, runtime.Value) {
	_, lInt := left.(runtime.IntValue)
	_, rInt := right.(runtime.IntValue)
	_, lBool := left.(runtime.BoolValue)
	_, rBool := right.(runtime.BoolValue)
	if lInt && rBool {
		b, _ := runtime.Truthy(left)
		left = runtime.Bool(b)
	}
	if rInt && lBool {
		b, _ := runtime.Truthy(right)
		right = runtime.Bool(b)
	}
	return left, right
}

func intOperand(v runtime.Value) runtime.Value {
	if b, ok := v.(runtime.BoolValue); ok {
		if b.Val {
			return runtime.IntValue{Val: 1}
		}
		return runtime.IntValue{Val: 0}
	}
	return v
}

func (i *Interpreter) evalUnaryExpression(n *ast.UnaryExpression, recv *runtime.ObjectValue) (runtime.Value, error) {
	operand, err := i.evalExpression(n.Operand, recv)
	if err != nil {
		return nil, err
	}
	switch n.Operator {
	case ast.UnaryOperatorNegate:
		iv, ok := operand.(runtime.IntValue)
		if !ok {
			return nil, typeErrorf(n, "negation requires an int (got %s)", operand.Kind())
		}
		if iv.Val == math.MinInt64 {
			return nil, faultErrorf(n, "integer overflow negating %d", iv.Val)
		}
		return runtime.IntValue{Val: -iv.Val}, nil
	case ast.UnaryOperatorNot:
		b, ok := runtime.Truthy(operand)
		if !ok {
			return nil, typeErrorf(n, "! requires a bool or int (got %s)", operand.Kind())
		}
		return runtime.Bool(!b), nil
	default:
		return nil, typeErrorf(n, "unknown unary operator %s", n.Operator)
	}
}
