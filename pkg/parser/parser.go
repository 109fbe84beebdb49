package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/RyanBatesMiller/Brewin-Interpreter/pkg/ast"
)

// SyntaxError describes the first problem found while parsing.
type SyntaxError struct {
	Line    int
	Column  int
	Message string
	// Incomplete is true when the input ended before the construct closed.
	Incomplete bool
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %d:%d: %s", e.Line, e.Column, e.Message)
}

// IsIncomplete reports whether err is a syntax error caused by input that
// stopped early, e.g. an unclosed brace. The REPL uses it to keep reading.
func IsIncomplete(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se) && se.Incomplete
}

const (
	_ int = iota
	precLowest
	precOr
	precAnd
	precCompare
	precSum
	precProduct
	precPrefix
)

var precedences = map[tokenType]int{
	tokenOr:        precOr,
	tokenAnd:       precAnd,
	tokenEq:        precCompare,
	tokenNotEq:     precCompare,
	tokenLess:      precCompare,
	tokenLessEq:    precCompare,
	tokenGreater:   precCompare,
	tokenGreaterEq: precCompare,
	tokenPlus:      precSum,
	tokenMinus:     precSum,
	tokenStar:      precProduct,
	tokenSlash:     precProduct,
}

type (
	prefixParseFn func() (ast.Expression, error)
	infixParseFn  func(ast.Expression) (ast.Expression, error)
)

// Parser is a Pratt parser over the Brewin token stream.
type Parser struct {
	l *lexer

	cur  token
	peek token

	prefixParseFns map[tokenType]prefixParseFn
	infixParseFns  map[tokenType]infixParseFn
}

func newParser(src string) *Parser {
	p := &Parser{l: newLexer(src)}

	p.prefixParseFns = map[tokenType]prefixParseFn{
		tokenIdent:  p.parseIdentifierOrCall,
		tokenInt:    p.parseIntegerLiteral,
		tokenString: p.parseStringLiteral,
		tokenTrue:   p.parseBooleanLiteral,
		tokenFalse:  p.parseBooleanLiteral,
		tokenNil:    p.parseNilLiteral,
		tokenMinus:  p.parsePrefixExpression,
		tokenBang:   p.parsePrefixExpression,
		tokenLParen: p.parseGroupedExpression,
		tokenLambda: p.parseLambdaExpression,
		tokenAt:     p.parseObjectLiteral,
	}
	p.infixParseFns = make(map[tokenType]infixParseFn, len(precedences))
	for typ := range precedences {
		p.infixParseFns[typ] = p.parseInfixExpression
	}

	p.next()
	p.next()
	return p
}

// ParseProgram parses a whole Brewin source file: a sequence of function
// definitions.
func ParseProgram(src string) (*ast.Program, error) {
	p := newParser(src)
	var functions []*ast.FunctionDefinition
	for !p.curIs(tokenEOF) {
		fn, err := p.parseFunctionDefinition()
		if err != nil {
			return nil, err
		}
		functions = append(functions, fn)
	}
	if err := p.lexErr(); err != nil {
		return nil, err
	}
	return ast.NewProgram(functions), nil
}

// ParseFragment parses REPL input: either function definitions or a run of
// statements (but not a mix within one fragment).
func ParseFragment(src string) ([]*ast.FunctionDefinition, []ast.Statement, error) {
	p := newParser(src)
	if p.curIs(tokenFunc) {
		prog, err := ParseProgram(src)
		if err != nil {
			return nil, nil, err
		}
		return prog.Functions, nil, nil
	}
	var stmts []ast.Statement
	for !p.curIs(tokenEOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, nil, err
		}
		stmts = append(stmts, stmt)
	}
	if err := p.lexErr(); err != nil {
		return nil, nil, err
	}
	return nil, stmts, nil
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.nextToken()
}

func (p *Parser) curIs(t tokenType) bool  { return p.cur.typ == t }
func (p *Parser) peekIs(t tokenType) bool { return p.peek.typ == t }

func (p *Parser) lexErr() error {
	if p.l.err != nil {
		return p.l.err
	}
	return nil
}

func (p *Parser) errorAt(tok token, format string, args ...any) error {
	if err := p.lexErr(); err != nil {
		return err
	}
	return &SyntaxError{
		Line:       tok.span.Line,
		Column:     tok.span.Column,
		Message:    fmt.Sprintf(format, args...),
		Incomplete: tok.typ == tokenEOF,
	}
}

func (p *Parser) unexpected(want string) error {
	got := p.cur.typ.String()
	if p.cur.literal != "" && (p.cur.typ == tokenIdent || p.cur.typ == tokenIllegal) {
		got = fmt.Sprintf("%s %q", got, p.cur.literal)
	}
	return p.errorAt(p.cur, "expected %s, got %s", want, got)
}

// expect consumes the current token if it has type t.
func (p *Parser) expect(t tokenType) (token, error) {
	if !p.curIs(t) {
		return token{}, p.unexpected(t.String())
	}
	tok := p.cur
	p.next()
	return tok, nil
}

func (p *Parser) parseFunctionDefinition() (*ast.FunctionDefinition, error) {
	start, err := p.expect(tokenFunc)
	if err != nil {
		return nil, err
	}
	name, err := p.expect(tokenIdent)
	if err != nil {
		return nil, err
	}
	if strings.Contains(name.literal, ".") {
		return nil, p.errorAt(name, "function name %q may not contain '.'", name.literal)
	}
	params, err := p.parseParameters()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.SetSpan(ast.NewFunctionDefinition(name.literal, params, body), start.span), nil
}

func (p *Parser) parseParameters() ([]*ast.FunctionParameter, error) {
	if _, err := p.expect(tokenLParen); err != nil {
		return nil, err
	}
	params := []*ast.FunctionParameter{}
	for !p.curIs(tokenRParen) {
		if len(params) > 0 {
			if _, err := p.expect(tokenComma); err != nil {
				return nil, err
			}
		}
		start := p.cur
		byRef := false
		if p.curIs(tokenRef) {
			byRef = true
			p.next()
		}
		name, err := p.expect(tokenIdent)
		if err != nil {
			return nil, err
		}
		if strings.Contains(name.literal, ".") {
			return nil, p.errorAt(name, "parameter name %q may not contain '.'", name.literal)
		}
		params = append(params, ast.SetSpan(ast.NewFunctionParameter(name.literal, byRef), start.span))
	}
	p.next()
	return params, nil
}

func (p *Parser) parseBlock() ([]ast.Statement, error) {
	if _, err := p.expect(tokenLBrace); err != nil {
		return nil, err
	}
	stmts := []ast.Statement{}
	for !p.curIs(tokenRBrace) {
		if p.curIs(tokenEOF) {
			return nil, p.unexpected("'}'")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	p.next()
	return stmts, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.cur.typ {
	case tokenReturn:
		return p.parseReturnStatement()
	case tokenIf:
		return p.parseIfStatement()
	case tokenWhile:
		return p.parseWhileLoop()
	case tokenIdent:
		if p.peekIs(tokenAssign) {
			return p.parseAssignment()
		}
		if p.peekIs(tokenLParen) {
			call, err := p.parseCall()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(tokenSemicolon); err != nil {
				return nil, err
			}
			return call, nil
		}
		p.next()
		return nil, p.unexpected("'=' or '('")
	default:
		return nil, p.unexpected("statement")
	}
}

func (p *Parser) parseAssignment() (ast.Statement, error) {
	target := p.cur
	p.next()
	p.next()
	value, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenSemicolon); err != nil {
		return nil, err
	}
	return ast.SetSpan(ast.NewAssignment(target.literal, value), target.span), nil
}

func (p *Parser) parseReturnStatement() (ast.Statement, error) {
	start := p.cur
	p.next()
	if p.curIs(tokenSemicolon) {
		p.next()
		return ast.SetSpan(ast.NewReturnStatement(nil), start.span), nil
	}
	arg, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenSemicolon); err != nil {
		return nil, err
	}
	return ast.SetSpan(ast.NewReturnStatement(arg), start.span), nil
}

func (p *Parser) parseCondition() (ast.Expression, error) {
	if _, err := p.expect(tokenLParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenRParen); err != nil {
		return nil, err
	}
	return cond, nil
}

func (p *Parser) parseIfStatement() (ast.Statement, error) {
	start := p.cur
	p.next()
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var els []ast.Statement
	if p.curIs(tokenElse) {
		p.next()
		els, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return ast.SetSpan(ast.NewIfStatement(cond, then, els), start.span), nil
}

func (p *Parser) parseWhileLoop() (ast.Statement, error) {
	start := p.cur
	p.next()
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.SetSpan(ast.NewWhileLoop(cond, body), start.span), nil
}

// parseCall parses `name(args)` or `obj.name(args)` starting at the identifier.
func (p *Parser) parseCall() (*ast.FunctionCall, error) {
	nameTok := p.cur
	p.next()
	if _, err := p.expect(tokenLParen); err != nil {
		return nil, err
	}
	args := []ast.Expression{}
	for !p.curIs(tokenRParen) {
		if len(args) > 0 {
			if _, err := p.expect(tokenComma); err != nil {
				return nil, err
			}
		}
		arg, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	p.next()
	var call *ast.FunctionCall
	if obj, method, ok := strings.Cut(nameTok.literal, "."); ok {
		call = ast.NewMethodCall(obj, method, args)
	} else {
		call = ast.NewFunctionCall(nameTok.literal, args)
	}
	return ast.SetSpan(call, nameTok.span), nil
}

func (p *Parser) parseExpression(precedence int) (ast.Expression, error) {
	prefix := p.prefixParseFns[p.cur.typ]
	if prefix == nil {
		return nil, p.unexpected("expression")
	}
	left, err := prefix()
	if err != nil {
		return nil, err
	}
	for precedence < p.curPrecedence() {
		infix := p.infixParseFns[p.cur.typ]
		left, err = infix(left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.cur.typ]; ok {
		return prec
	}
	return precLowest
}

func (p *Parser) parseIdentifierOrCall() (ast.Expression, error) {
	if p.peekIs(tokenLParen) {
		return p.parseCall()
	}
	tok := p.cur
	p.next()
	return ast.SetSpan(ast.NewIdentifier(tok.literal), tok.span), nil
}

func (p *Parser) parseIntegerLiteral() (ast.Expression, error) {
	tok := p.cur
	value, err := strconv.ParseInt(tok.literal, 10, 64)
	if err != nil {
		return nil, p.errorAt(tok, "integer literal %s out of range", tok.literal)
	}
	p.next()
	return ast.SetSpan(ast.NewIntegerLiteral(value), tok.span), nil
}

func (p *Parser) parseStringLiteral() (ast.Expression, error) {
	tok := p.cur
	p.next()
	return ast.SetSpan(ast.NewStringLiteral(tok.literal), tok.span), nil
}

func (p *Parser) parseBooleanLiteral() (ast.Expression, error) {
	tok := p.cur
	p.next()
	return ast.SetSpan(ast.NewBooleanLiteral(tok.typ == tokenTrue), tok.span), nil
}

func (p *Parser) parseNilLiteral() (ast.Expression, error) {
	tok := p.cur
	p.next()
	return ast.SetSpan(ast.NewNilLiteral(), tok.span), nil
}

func (p *Parser) parseObjectLiteral() (ast.Expression, error) {
	tok := p.cur
	p.next()
	return ast.SetSpan(ast.NewObjectLiteral(), tok.span), nil
}

func (p *Parser) parsePrefixExpression() (ast.Expression, error) {
	tok := p.cur
	p.next()
	operand, err := p.parseExpression(precPrefix)
	if err != nil {
		return nil, err
	}
	op := ast.UnaryOperatorNot
	if tok.typ == tokenMinus {
		op = ast.UnaryOperatorNegate
	}
	return ast.SetSpan(ast.NewUnaryExpression(op, operand), tok.span), nil
}

func (p *Parser) parseGroupedExpression() (ast.Expression, error) {
	p.next()
	expr, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenRParen); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *Parser) parseInfixExpression(left ast.Expression) (ast.Expression, error) {
	tok := p.cur
	precedence := p.curPrecedence()
	p.next()
	right, err := p.parseExpression(precedence)
	if err != nil {
		return nil, err
	}
	return ast.SetSpan(ast.NewBinaryExpression(tok.literal, left, right), tok.span), nil
}

func (p *Parser) parseLambdaExpression() (ast.Expression, error) {
	tok := p.cur
	p.next()
	params, err := p.parseParameters()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.SetSpan(ast.NewLambdaExpression(params, body), tok.span), nil
}
