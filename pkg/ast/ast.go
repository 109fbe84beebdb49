package ast

type NodeType string

const (
	NodeProgram            NodeType = "Program"
	NodeFunctionDefinition NodeType = "FunctionDefinition"
	NodeFunctionParameter  NodeType = "FunctionParameter"
	NodeAssignment         NodeType = "Assignment"
	NodeReturnStatement    NodeType = "ReturnStatement"
	NodeIfStatement        NodeType = "IfStatement"
	NodeWhileLoop          NodeType = "WhileLoop"
	NodeFunctionCall       NodeType = "FunctionCall"
	NodeIdentifier         NodeType = "Identifier"
	NodeIntegerLiteral     NodeType = "IntegerLiteral"
	NodeStringLiteral      NodeType = "StringLiteral"
	NodeBooleanLiteral     NodeType = "BooleanLiteral"
	NodeNilLiteral         NodeType = "NilLiteral"
	NodeBinaryExpression   NodeType = "BinaryExpression"
	NodeUnaryExpression    NodeType = "UnaryExpression"
	NodeLambdaExpression   NodeType = "LambdaExpression"
	NodeObjectLiteral      NodeType = "ObjectLiteral"
)

// Span locates a node in the source text. Zero spans come from synthesized nodes.
type Span struct {
	Line   int `json:"line,omitempty"`
	Column int `json:"column,omitempty"`
}

func (s Span) IsZero() bool { return s.Line == 0 && s.Column == 0 }

type Node interface {
	NodeType() NodeType
	Pos() Span
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
	Span Span     `json:"span,omitempty"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Pos() Span          { return n.Span }
func (nodeImpl) isNode()              {}

// SetSpan records the source position of a node built by the parser.
func SetSpan[T interface{ setSpan(Span) }](node T, span Span) T {
	node.setSpan(span)
	return node
}

func (n *nodeImpl) setSpan(span Span) { n.Span = span }

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

// Program

type Program struct {
	nodeImpl

	Functions []*FunctionDefinition `json:"functions"`
}

func NewProgram(functions []*FunctionDefinition) *Program {
	return &Program{nodeImpl: newNodeImpl(NodeProgram), Functions: functions}
}

type FunctionParameter struct {
	nodeImpl

	Name  string `json:"name"`
	ByRef bool   `json:"byRef,omitempty"`
}

func NewFunctionParameter(name string, byRef bool) *FunctionParameter {
	return &FunctionParameter{nodeImpl: newNodeImpl(NodeFunctionParameter), Name: name, ByRef: byRef}
}

type FunctionDefinition struct {
	nodeImpl

	Name   string               `json:"name"`
	Params []*FunctionParameter `json:"params"`
	Body   []Statement          `json:"body"`
}

func NewFunctionDefinition(name string, params []*FunctionParameter, body []Statement) *FunctionDefinition {
	return &FunctionDefinition{nodeImpl: newNodeImpl(NodeFunctionDefinition), Name: name, Params: params, Body: body}
}

// Statements

// Assignment writes Value into Target, which is either a plain name or an
// `object.field` path.
type Assignment struct {
	nodeImpl
	statementMarker

	Target string     `json:"target"`
	Value  Expression `json:"value"`
}

func NewAssignment(target string, value Expression) *Assignment {
	return &Assignment{nodeImpl: newNodeImpl(NodeAssignment), Target: target, Value: value}
}

type ReturnStatement struct {
	nodeImpl
	statementMarker

	Argument Expression `json:"argument,omitempty"`
}

func NewReturnStatement(argument Expression) *ReturnStatement {
	return &ReturnStatement{nodeImpl: newNodeImpl(NodeReturnStatement), Argument: argument}
}

type IfStatement struct {
	nodeImpl
	statementMarker

	Condition Expression  `json:"condition"`
	Then      []Statement `json:"then"`
	// Else is nil when the statement has no else clause.
	Else []Statement `json:"else,omitempty"`
}

func NewIfStatement(condition Expression, then, els []Statement) *IfStatement {
	return &IfStatement{nodeImpl: newNodeImpl(NodeIfStatement), Condition: condition, Then: then, Else: els}
}

type WhileLoop struct {
	nodeImpl
	statementMarker

	Condition Expression  `json:"condition"`
	Body      []Statement `json:"body"`
}

func NewWhileLoop(condition Expression, body []Statement) *WhileLoop {
	return &WhileLoop{nodeImpl: newNodeImpl(NodeWhileLoop), Condition: condition, Body: body}
}

// FunctionCall is both a statement and an expression. ObjRef is empty for
// plain calls and holds the receiver variable (or `this`) for method calls.
type FunctionCall struct {
	nodeImpl
	expressionMarker
	statementMarker

	Name      string       `json:"name"`
	ObjRef    string       `json:"objref,omitempty"`
	Arguments []Expression `json:"arguments"`
}

func NewFunctionCall(name string, args []Expression) *FunctionCall {
	return &FunctionCall{nodeImpl: newNodeImpl(NodeFunctionCall), Name: name, Arguments: args}
}

func NewMethodCall(objRef, name string, args []Expression) *FunctionCall {
	return &FunctionCall{nodeImpl: newNodeImpl(NodeFunctionCall), Name: name, ObjRef: objRef, Arguments: args}
}

// IsMethodCall reports whether the call names a receiver.
func (c *FunctionCall) IsMethodCall() bool { return c.ObjRef != "" }

// Expressions

// Identifier is a variable reference; Name may be a dotted `object.field` path.
type Identifier struct {
	nodeImpl
	expressionMarker

	Name string `json:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

type IntegerLiteral struct {
	nodeImpl
	expressionMarker

	Value int64 `json:"value"`
}

func NewIntegerLiteral(value int64) *IntegerLiteral {
	return &IntegerLiteral{nodeImpl: newNodeImpl(NodeIntegerLiteral), Value: value}
}

type StringLiteral struct {
	nodeImpl
	expressionMarker

	Value string `json:"value"`
}

func NewStringLiteral(value string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral), Value: value}
}

type BooleanLiteral struct {
	nodeImpl
	expressionMarker

	Value bool `json:"value"`
}

func NewBooleanLiteral(value bool) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: newNodeImpl(NodeBooleanLiteral), Value: value}
}

type NilLiteral struct {
	nodeImpl
	expressionMarker
}

func NewNilLiteral() *NilLiteral {
	return &NilLiteral{nodeImpl: newNodeImpl(NodeNilLiteral)}
}

type BinaryExpression struct {
	nodeImpl
	expressionMarker

	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

func NewBinaryExpression(operator string, left, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Operator: operator, Left: left, Right: right}
}

type UnaryOperator string

const (
	UnaryOperatorNegate UnaryOperator = "neg"
	UnaryOperatorNot    UnaryOperator = "!"
)

type UnaryExpression struct {
	nodeImpl
	expressionMarker

	Operator UnaryOperator `json:"operator"`
	Operand  Expression    `json:"operand"`
}

func NewUnaryExpression(operator UnaryOperator, operand Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Operator: operator, Operand: operand}
}

type LambdaExpression struct {
	nodeImpl
	expressionMarker

	Params []*FunctionParameter `json:"params"`
	Body   []Statement          `json:"body"`
}

func NewLambdaExpression(params []*FunctionParameter, body []Statement) *LambdaExpression {
	return &LambdaExpression{nodeImpl: newNodeImpl(NodeLambdaExpression), Params: params, Body: body}
}

// ObjectLiteral is the `@` expression.
type ObjectLiteral struct {
	nodeImpl
	expressionMarker
}

func NewObjectLiteral() *ObjectLiteral {
	return &ObjectLiteral{nodeImpl: newNodeImpl(NodeObjectLiteral)}
}
