package parser

import (
	"strings"

	"github.com/RyanBatesMiller/Brewin-Interpreter/pkg/ast"
)

type tokenType int

const (
	tokenIllegal tokenType = iota
	tokenEOF

	tokenIdent
	tokenInt
	tokenString

	tokenAssign
	tokenPlus
	tokenMinus
	tokenStar
	tokenSlash
	tokenBang
	tokenEq
	tokenNotEq
	tokenLess
	tokenLessEq
	tokenGreater
	tokenGreaterEq
	tokenAnd
	tokenOr
	tokenAt

	tokenComma
	tokenSemicolon
	tokenLParen
	tokenRParen
	tokenLBrace
	tokenRBrace

	tokenFunc
	tokenLambda
	tokenRef
	tokenIf
	tokenElse
	tokenWhile
	tokenReturn
	tokenTrue
	tokenFalse
	tokenNil
)

var tokenNames = map[tokenType]string{
	tokenIllegal:   "illegal character",
	tokenEOF:       "end of input",
	tokenIdent:     "identifier",
	tokenInt:       "integer",
	tokenString:    "string",
	tokenAssign:    "'='",
	tokenPlus:      "'+'",
	tokenMinus:     "'-'",
	tokenStar:      "'*'",
	tokenSlash:     "'/'",
	tokenBang:      "'!'",
	tokenEq:        "'=='",
	tokenNotEq:     "'!='",
	tokenLess:      "'<'",
	tokenLessEq:    "'<='",
	tokenGreater:   "'>'",
	tokenGreaterEq: "'>='",
	tokenAnd:       "'&&'",
	tokenOr:        "'||'",
	tokenAt:        "'@'",
	tokenComma:     "','",
	tokenSemicolon: "';'",
	tokenLParen:    "'('",
	tokenRParen:    "')'",
	tokenLBrace:    "'{'",
	tokenRBrace:    "'}'",
	tokenFunc:      "'func'",
	tokenLambda:    "'lambda'",
	tokenRef:       "'ref'",
	tokenIf:        "'if'",
	tokenElse:      "'else'",
	tokenWhile:     "'while'",
	tokenReturn:    "'return'",
	tokenTrue:      "'true'",
	tokenFalse:     "'false'",
	tokenNil:       "'nil'",
}

func (t tokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "unknown token"
}

var keywords = map[string]tokenType{
	"func":   tokenFunc,
	"lambda": tokenLambda,
	"ref":    tokenRef,
	"if":     tokenIf,
	"else":   tokenElse,
	"while":  tokenWhile,
	"return": tokenReturn,
	"true":   tokenTrue,
	"false":  tokenFalse,
	"nil":    tokenNil,
}

type token struct {
	typ     tokenType
	literal string
	span    ast.Span
}

// lexer turns Brewin source into tokens. Identifiers may carry a single
// `.field` suffix, which is how object paths and method calls are spelled.
type lexer struct {
	input        string
	position     int
	readPosition int
	ch           byte
	line         int
	column       int

	// err is set when a string or comment runs off the end of the input.
	err *SyntaxError
}

func newLexer(input string) *lexer {
	l := &lexer{input: input, line: 1}
	l.readChar()
	return l
}

func (l *lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

func (l *lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *lexer) atEOF() bool {
	return l.position >= len(l.input)
}

func (l *lexer) nextToken() token {
	l.skipWhitespaceAndComments()
	span := ast.Span{Line: l.line, Column: l.column}
	if l.atEOF() {
		return token{typ: tokenEOF, span: span}
	}

	two := func(next byte, double, single tokenType) token {
		if l.peekChar() == next {
			lit := string([]byte{l.ch, next})
			l.readChar()
			l.readChar()
			return token{typ: double, literal: lit, span: span}
		}
		lit := string(l.ch)
		l.readChar()
		return token{typ: single, literal: lit, span: span}
	}

	switch l.ch {
	case '=':
		return two('=', tokenEq, tokenAssign)
	case '!':
		return two('=', tokenNotEq, tokenBang)
	case '<':
		return two('=', tokenLessEq, tokenLess)
	case '>':
		return two('=', tokenGreaterEq, tokenGreater)
	case '&':
		return two('&', tokenAnd, tokenIllegal)
	case '|':
		return two('|', tokenOr, tokenIllegal)
	case '"':
		return l.readString(span)
	}

	if single, ok := singleCharTokens[l.ch]; ok {
		lit := string(l.ch)
		l.readChar()
		return token{typ: single, literal: lit, span: span}
	}
	if isLetter(l.ch) {
		ident := l.readIdentifier()
		if typ, ok := keywords[ident]; ok {
			return token{typ: typ, literal: ident, span: span}
		}
		return token{typ: tokenIdent, literal: ident, span: span}
	}
	if isDigit(l.ch) {
		return token{typ: tokenInt, literal: l.readNumber(), span: span}
	}
	lit := string(l.ch)
	l.readChar()
	return token{typ: tokenIllegal, literal: lit, span: span}
}

var singleCharTokens = map[byte]tokenType{
	'+': tokenPlus,
	'-': tokenMinus,
	'*': tokenStar,
	'/': tokenSlash,
	'@': tokenAt,
	',': tokenComma,
	';': tokenSemicolon,
	'(': tokenLParen,
	')': tokenRParen,
	'{': tokenLBrace,
	'}': tokenRBrace,
}

func (l *lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for !l.atEOF() && l.ch != '\n' {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			start := ast.Span{Line: l.line, Column: l.column}
			l.readChar()
			l.readChar()
			for !(l.ch == '*' && l.peekChar() == '/') {
				if l.atEOF() {
					l.fail(start, "unterminated comment", true)
					return
				}
				l.readChar()
			}
			l.readChar()
			l.readChar()
		default:
			return
		}
	}
}

func (l *lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isLetter(l.peekChar()) {
		l.readChar()
		for isLetter(l.ch) || isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[start:l.position]
}

func (l *lexer) readNumber() string {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *lexer) readString(span ast.Span) token {
	var b strings.Builder
	l.readChar()
	for l.ch != '"' {
		if l.atEOF() || l.ch == '\n' {
			l.fail(span, "unterminated string literal", l.atEOF())
			return token{typ: tokenIllegal, literal: b.String(), span: span}
		}
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '"', '\\':
				b.WriteByte(l.ch)
			default:
				b.WriteByte('\\')
				b.WriteByte(l.ch)
			}
			l.readChar()
			continue
		}
		b.WriteByte(l.ch)
		l.readChar()
	}
	l.readChar()
	return token{typ: tokenString, literal: b.String(), span: span}
}

func (l *lexer) fail(span ast.Span, msg string, incomplete bool) {
	if l.err == nil {
		l.err = &SyntaxError{Line: span.Line, Column: span.Column, Message: msg, Incomplete: incomplete}
	}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
