package interpreter

import (
	"context"
	"log/slog"
	"strings"

	"github.com/RyanBatesMiller/Brewin-Interpreter/pkg/ast"
	"github.com/RyanBatesMiller/Brewin-Interpreter/pkg/runtime"
)

type execStatus int

const (
	statusContinue execStatus = iota
	statusReturn
)

// execBlock runs stmts in a fresh block scope. A return stops the block and
// is passed up unchanged.
func (i *Interpreter) execBlock(stmts []ast.Statement, recv *runtime.ObjectValue) (execStatus, runtime.Value, error) {
	i.env.Push()
	defer i.env.Pop()
	for _, stmt := range stmts {
		status, val, err := i.execStatement(stmt, recv)
		if err != nil || status == statusReturn {
			return status, val, err
		}
	}
	return statusContinue, runtime.Nil, nil
}

func (i *Interpreter) execStatement(node ast.Statement, recv *runtime.ObjectValue) (execStatus, runtime.Value, error) {
	if i.logger.Enabled(context.Background(), slog.LevelDebug) {
		pos := node.Pos()
		i.logger.Debug("exec",
			slog.String("node", string(node.NodeType())),
			slog.Int("line", pos.Line),
			slog.Int("column", pos.Column))
	}
	switch n := node.(type) {
	case *ast.Assignment:
		return statusContinue, runtime.Nil, i.execAssignment(n, recv)
	case *ast.ReturnStatement:
		return i.execReturn(n, recv)
	case *ast.IfStatement:
		return i.execIf(n, recv)
	case *ast.WhileLoop:
		return i.execWhile(n, recv)
	case *ast.FunctionCall:
		_, err := i.callFunction(n, recv)
		return statusContinue, runtime.Nil, err
	default:
		return statusContinue, nil, typeErrorf(node, "unsupported statement %s", node.NodeType())
	}
}

func (i *Interpreter) execAssignment(n *ast.Assignment, recv *runtime.ObjectValue) error {
	val, err := i.evalExpression(n.Value, recv)
	if err != nil {
		return err
	}
	base, field, dotted := strings.Cut(n.Target, ".")
	if !dotted {
		if n.Target == thisName {
			return typeErrorf(n, "cannot assign to this")
		}
		i.env.Set(n.Target, val)
		return nil
	}
	obj, err := i.resolveObject(base, n, recv)
	if err != nil {
		return err
	}
	return setField(obj, field, val, n)
}

func (i *Interpreter) execReturn(n *ast.ReturnStatement, recv *runtime.ObjectValue) (execStatus, runtime.Value, error) {
	if n.Argument == nil {
		return statusReturn, runtime.Nil, nil
	}
	val, err := i.evalExpression(n.Argument, recv)
	if err != nil {
		return statusContinue, nil, err
	}
	return statusReturn, runtime.DeepCopy(val), nil
}

func (i *Interpreter) execIf(n *ast.IfStatement, recv *runtime.ObjectValue) (execStatus, runtime.Value, error) {
	ok, err := i.evalCondition(n.Condition, "if", recv)
	if err != nil {
		return statusContinue, nil, err
	}
	if ok {
		return i.execBlock(n.Then, recv)
	}
	if n.Else != nil {
		return i.execBlock(n.Else, recv)
	}
	return statusContinue, runtime.Nil, nil
}

func (i *Interpreter) execWhile(n *ast.WhileLoop, recv *runtime.ObjectValue) (execStatus, runtime.Value, error) {
	for {
		ok, err := i.evalCondition(n.Condition, "while", recv)
		if err != nil {
			return statusContinue, nil, err
		}
		if !ok {
			return statusContinue, runtime.Nil, nil
		}
		status, val, err := i.execBlock(n.Body, recv)
		if err != nil || status == statusReturn {
			return status, val, err
		}
	}
}

func (i *Interpreter) evalCondition(cond ast.Expression, stmt string, recv *runtime.ObjectValue) (bool, error) {
	val, err := i.evalExpression(cond, recv)
	if err != nil {
		return false, err
	}
	truthy, ok := runtime.Truthy(val)
	if !ok {
		return false, typeErrorf(cond, "%s condition must be bool or int (got %s)", stmt, val.Kind())
	}
	return truthy, nil
}
