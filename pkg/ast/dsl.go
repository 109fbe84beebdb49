package ast

// Literal and identifier helpers.

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

func Int(value int64) *IntegerLiteral {
	return NewIntegerLiteral(value)
}

func Str(value string) *StringLiteral {
	return NewStringLiteral(value)
}

func Bool(value bool) *BooleanLiteral {
	return NewBooleanLiteral(value)
}

func Nil() *NilLiteral {
	return NewNilLiteral()
}

func Obj() *ObjectLiteral {
	return NewObjectLiteral()
}

// Operators.

func Bin(op string, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(op, left, right)
}

func Neg(operand Expression) *UnaryExpression {
	return NewUnaryExpression(UnaryOperatorNegate, operand)
}

func Not(operand Expression) *UnaryExpression {
	return NewUnaryExpression(UnaryOperatorNot, operand)
}

// Calls.

func Call(name string, args ...Expression) *FunctionCall {
	return NewFunctionCall(name, args)
}

func MCall(objRef, name string, args ...Expression) *FunctionCall {
	return NewMethodCall(objRef, name, args)
}

// Parameters and definitions.

func Param(name string) *FunctionParameter {
	return NewFunctionParameter(name, false)
}

func RefParam(name string) *FunctionParameter {
	return NewFunctionParameter(name, true)
}

func Params(names ...string) []*FunctionParameter {
	out := make([]*FunctionParameter, 0, len(names))
	for _, name := range names {
		out = append(out, Param(name))
	}
	return out
}

func Fn(name string, params []*FunctionParameter, body ...Statement) *FunctionDefinition {
	return NewFunctionDefinition(name, params, body)
}

func Lambda(params []*FunctionParameter, body ...Statement) *LambdaExpression {
	return NewLambdaExpression(params, body)
}

func Prog(functions ...*FunctionDefinition) *Program {
	return NewProgram(functions)
}

// Statements.

func Block(stmts ...Statement) []Statement {
	return stmts
}

func Assign(target string, value Expression) *Assignment {
	return NewAssignment(target, value)
}

func Ret(argument Expression) *ReturnStatement {
	return NewReturnStatement(argument)
}

func If(condition Expression, then []Statement, els []Statement) *IfStatement {
	return NewIfStatement(condition, then, els)
}

func While(condition Expression, body ...Statement) *WhileLoop {
	return NewWhileLoop(condition, body)
}
