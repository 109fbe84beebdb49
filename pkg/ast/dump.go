package ast

import (
	"strconv"
	"strings"
)

// Dump renders a node as a compact s-expression. It is used for trace output
// and parser tests, so the format only needs to be stable, not pretty.
func Dump(node Node) string {
	var b strings.Builder
	dumpNode(&b, node)
	return b.String()
}

func dumpNode(b *strings.Builder, node Node) {
	switch n := node.(type) {
	case nil:
		b.WriteString("<nil>")
	case *Program:
		b.WriteString("(program")
		for _, fn := range n.Functions {
			b.WriteByte(' ')
			dumpNode(b, fn)
		}
		b.WriteByte(')')
	case *FunctionDefinition:
		b.WriteString("(func ")
		b.WriteString(n.Name)
		dumpParams(b, n.Params)
		dumpBlock(b, n.Body)
		b.WriteByte(')')
	case *Assignment:
		b.WriteString("(= ")
		b.WriteString(n.Target)
		b.WriteByte(' ')
		dumpNode(b, n.Value)
		b.WriteByte(')')
	case *ReturnStatement:
		b.WriteString("(return")
		if n.Argument != nil {
			b.WriteByte(' ')
			dumpNode(b, n.Argument)
		}
		b.WriteByte(')')
	case *IfStatement:
		b.WriteString("(if ")
		dumpNode(b, n.Condition)
		dumpBlock(b, n.Then)
		if n.Else != nil {
			dumpBlock(b, n.Else)
		}
		b.WriteByte(')')
	case *WhileLoop:
		b.WriteString("(while ")
		dumpNode(b, n.Condition)
		dumpBlock(b, n.Body)
		b.WriteByte(')')
	case *FunctionCall:
		b.WriteString("(call ")
		if n.ObjRef != "" {
			b.WriteString(n.ObjRef)
			b.WriteByte('.')
		}
		b.WriteString(n.Name)
		for _, arg := range n.Arguments {
			b.WriteByte(' ')
			dumpNode(b, arg)
		}
		b.WriteByte(')')
	case *Identifier:
		b.WriteString(n.Name)
	case *IntegerLiteral:
		b.WriteString(strconv.FormatInt(n.Value, 10))
	case *StringLiteral:
		b.WriteString(strconv.Quote(n.Value))
	case *BooleanLiteral:
		b.WriteString(strconv.FormatBool(n.Value))
	case *NilLiteral:
		b.WriteString("nil")
	case *BinaryExpression:
		b.WriteByte('(')
		b.WriteString(n.Operator)
		b.WriteByte(' ')
		dumpNode(b, n.Left)
		b.WriteByte(' ')
		dumpNode(b, n.Right)
		b.WriteByte(')')
	case *UnaryExpression:
		b.WriteByte('(')
		b.WriteString(string(n.Operator))
		b.WriteByte(' ')
		dumpNode(b, n.Operand)
		b.WriteByte(')')
	case *LambdaExpression:
		b.WriteString("(lambda")
		dumpParams(b, n.Params)
		dumpBlock(b, n.Body)
		b.WriteByte(')')
	case *ObjectLiteral:
		b.WriteByte('@')
	default:
		b.WriteString("<" + string(node.NodeType()) + ">")
	}
}

func dumpParams(b *strings.Builder, params []*FunctionParameter) {
	b.WriteString(" (")
	for i, p := range params {
		if i > 0 {
			b.WriteByte(' ')
		}
		if p.ByRef {
			b.WriteString("ref ")
		}
		b.WriteString(p.Name)
	}
	b.WriteByte(')')
}

func dumpBlock(b *strings.Builder, stmts []Statement) {
	b.WriteString(" {")
	for i, stmt := range stmts {
		if i > 0 {
			b.WriteByte(' ')
		}
		dumpNode(b, stmt)
	}
	b.WriteByte('}')
}
