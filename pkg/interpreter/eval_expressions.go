package interpreter

import (
	"strings"

	"github.com/RyanBatesMiller/Brewin-Interpreter/pkg/ast"
	"github.com/RyanBatesMiller/Brewin-Interpreter/pkg/runtime"
)

func (i *Interpreter) evalExpression(node ast.Expression, recv *runtime.ObjectValue) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.IntegerLiteral:
		return runtime.IntValue{Val: n.Value}, nil
	case *ast.StringLiteral:
		return runtime.StringValue{Val: n.Value}, nil
	case *ast.BooleanLiteral:
		return runtime.Bool(n.Value), nil
	case *ast.NilLiteral:
		return runtime.Nil, nil
	case *ast.Identifier:
		return i.evalIdentifier(n, recv)
	case *ast.BinaryExpression:
		return i.evalBinaryExpression(n, recv)
	case *ast.UnaryExpression:
		return i.evalUnaryExpression(n, recv)
	case *ast.FunctionCall:
		return i.callFunction(n, recv)
	case *ast.LambdaExpression:
		return &runtime.ClosureValue{Lambda: n, Captured: i.env.Flatten()}, nil
	case *ast.ObjectLiteral:
		return runtime.NewObject(), nil
	default:
		return nil, typeErrorf(node, "unsupported expression %s", node.NodeType())
	}
}

func (i *Interpreter) evalIdentifier(n *ast.Identifier, recv *runtime.ObjectValue) (runtime.Value, error) {
	if i.functions.has(n.Name) {
		return i.functions.value(n.Name, n)
	}
	if base, field, dotted := strings.Cut(n.Name, "."); dotted {
		obj, err := i.resolveObject(base, n, recv)
		if err != nil {
			return nil, err
		}
		val, err := obj.GetField(field)
		if err != nil {
			return nil, nameErrorf(n, "%s: %v", n.Name, err)
		}
		return val, nil
	}
	if n.Name == thisName {
		if recv == nil {
			return nil, nameErrorf(n, "this is not bound outside a method call")
		}
		return recv, nil
	}
	val, ok := i.env.Get(n.Name)
	if !ok {
		return nil, nameErrorf(n, "variable %s not found", n.Name)
	}
	return val, nil
}
