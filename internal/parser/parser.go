// Package parser builds an AST from Fabrique source using a Pratt
// expression parser over a recursive-descent grammar*; value, expression, term, arguments, parameters, type
// references"). Errors are collected into an errors.Sink rather than
// aborting on the first failure, so a single run can report several
// mistakes at once.
package parser

import (
	"fmt"
	"strconv"

	"github.com/fabrique-build/fabrique/internal/ast"
	"github.com/fabrique-build/fabrique/internal/errors"
	"github.com/fabrique-build/fabrique/internal/lexer"
	"github.com/fabrique-build/fabrique/internal/source"
)

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Precedence tiers, lowest to highest.
const (
	LOWEST int = iota
	LOGIC      // and or xor
	COMPARE    // == !=
	CONSTIER   // ::
	ADD        // + -
	MULT       // * /
	UNARY      // -x !x
	CALL       // f(x), e.f
)

var precedences = map[lexer.TokenType]int{
	lexer.AND:      LOGIC,
	lexer.OR:       LOGIC,
	lexer.XOR:      LOGIC,
	lexer.EQ:       COMPARE,
	lexer.NEQ:      COMPARE,
	lexer.CONS:     CONSTIER,
	lexer.PLUS:     ADD,
	lexer.MINUS:    ADD,
	lexer.STAR:     MULT,
	lexer.SLASH:    MULT,
	lexer.LPAREN:   CALL,
	lexer.DOT:      CALL,
	lexer.QUESTION: CALL,
}

// Parser turns a token stream into a list of top-level ast.Value bindings.
type Parser struct {
	l         *lexer.Lexer
	file      string
	curToken  lexer.Token
	peekToken lexer.Token
	sink      *errors.Sink

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
}

// New constructs a Parser reading from l, attributing diagnostics to sink.
func New(l *lexer.Lexer, file string, sink *errors.Sink) *Parser {
	p := &Parser{l: l, file: file, sink: sink}

	p.prefixParseFns = make(map[lexer.TokenType]prefixParseFn)
	p.registerPrefix(lexer.IDENT, p.parseNameReference)
	p.registerPrefix(lexer.INT, p.parseIntLiteral)
	p.registerPrefix(lexer.STRING, p.parseStringLiteral)
	p.registerPrefix(lexer.TRUE, p.parseBoolLiteral)
	p.registerPrefix(lexer.FALSE, p.parseBoolLiteral)
	p.registerPrefix(lexer.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(lexer.LBRACKET, p.parseListLiteral)
	p.registerPrefix(lexer.LBRACE, p.parseCompoundOrRecord)
	p.registerPrefix(lexer.MINUS, p.parseUnaryExpression)
	p.registerPrefix(lexer.BANG, p.parseUnaryExpression)
	p.registerPrefix(lexer.IF, p.parseConditional)
	p.registerPrefix(lexer.FOREACH, p.parseForeach)
	p.registerPrefix(lexer.FUNCTION, p.parseFunctionLiteral)
	p.registerPrefix(lexer.TYPE, p.parseTypeDeclExpr)

	p.infixParseFns = make(map[lexer.TokenType]infixParseFn)
	p.registerInfix(lexer.PLUS, p.parseBinaryExpression)
	p.registerInfix(lexer.MINUS, p.parseBinaryExpression)
	p.registerInfix(lexer.STAR, p.parseBinaryExpression)
	p.registerInfix(lexer.SLASH, p.parseBinaryExpression)
	p.registerInfix(lexer.CONS, p.parseBinaryExpression)
	p.registerInfix(lexer.EQ, p.parseBinaryExpression)
	p.registerInfix(lexer.NEQ, p.parseBinaryExpression)
	p.registerInfix(lexer.AND, p.parseBinaryExpression)
	p.registerInfix(lexer.OR, p.parseBinaryExpression)
	p.registerInfix(lexer.XOR, p.parseBinaryExpression)
	p.registerInfix(lexer.LPAREN, p.parseCallExpression)
	p.registerInfix(lexer.DOT, p.parseFieldAccessOrQuery)

	p.nextToken()
	p.nextToken()

	return p
}

func (p *Parser) registerPrefix(t lexer.TokenType, fn prefixParseFn) { p.prefixParseFns[t] = fn }
func (p *Parser) registerInfix(t lexer.TokenType, fn infixParseFn)   { p.infixParseFns[t] = fn }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t lexer.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) pos(tok lexer.Token) source.Location {
	return source.Location{Filename: p.file, Line: tok.Line, Column: tok.Column}
}

func (p *Parser) rangeFrom(start lexer.Token) source.Range {
	return source.Range{Begin: p.pos(start), End: p.pos(p.curToken)}
}

func (p *Parser) peekError(t lexer.TokenType) {
	r := source.Range{Begin: p.pos(p.peekToken), End: p.pos(p.peekToken)}
	p.sink.Add(errors.SyntaxErrorf(r, "expected %s, got %s", t, p.peekToken.Type).
		WithDetail(fmt.Sprintf("near token %q", p.peekToken.Literal)))
}

func (p *Parser) noPrefixParseFnError(tok lexer.Token) {
	r := source.Range{Begin: p.pos(tok), End: p.pos(tok)}
	p.sink.Add(errors.SyntaxErrorf(r, "unexpected token in expression: %s", tok.Type))
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

// ParseFile parses an entire translation unit: a sequence of top-level
// `name[:T] = expr;` bindings.
func ParseFile(src []byte, filename string) ([]*ast.Value, *errors.Sink) {
	sink := errors.NewSink()
	l := lexer.New(src, filename)
	p := New(l, filename, sink)
	return p.ParseValues(), sink
}

// ParseValues parses top-level value bindings until EOF.
func (p *Parser) ParseValues() []*ast.Value {
	var values []*ast.Value

	for !p.curTokenIs(lexer.EOF) {
		val := p.parseValue()
		if val != nil {
			values = append(values, val)
		}
		if p.curTokenIs(lexer.SEMICOLON) {
			p.nextToken()
			continue
		}
		if !p.curTokenIs(lexer.EOF) {
			// error already reported by parseValue; advance to avoid looping
			p.nextToken()
		}
	}

	return values
}

// parseValue parses `name[:T] = expr`, leaving curToken on the trailing ';'.
func (p *Parser) parseValue() *ast.Value {
	start := p.curToken

	if !p.curTokenIs(lexer.IDENT) {
		r := source.Range{Begin: p.pos(p.curToken), End: p.pos(p.curToken)}
		p.sink.Add(errors.SyntaxErrorf(r, "expected identifier, got %s", p.curToken.Type))
		return nil
	}

	name := &ast.Identifier{Range: p.rangeFrom(start), Name: p.curToken.Literal}
	if lexer.ReservedNames[name.Name] {
		p.sink.Add(errors.SemanticErrorf(errors.ReservedIdentifier, name.Range,
			"%q is a reserved name and cannot be bound", name.Name))
	}

	var typeRef *ast.TypeReference
	if p.peekTokenIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		typeRef = p.parseTypeReference()
	}

	if !p.expectPeek(lexer.ASSIGN) {
		return nil
	}
	p.nextToken()

	body := p.parseExpression(LOWEST)
	if body == nil {
		return nil
	}

	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}

	return &ast.Value{Range: source.Over(name.Range, body.Source()), Name: name, Type: typeRef, Body: body}
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}

	left := prefix()

	for !p.peekTokenIs(lexer.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}

	return left
}

func (p *Parser) base(r source.Range) ast.ExprBase {
	return ast.ExprBase{Range: r, Static: true}
}

func (p *Parser) parseNameReference() ast.Expression {
	tok := p.curToken
	// A name reference is static only once resolved against a static
	// binding; the parser can't know that, so it is marked dynamic. Nothing
	// later updates the flag.
	e := &ast.NameReference{ExprBase: p.base(p.rangeFrom(tok)), Name: tok.Literal}
	e.Static = false
	return e
}

func (p *Parser) parseIntLiteral() ast.Expression {
	tok := p.curToken
	val, err := strconv.Atoi(tok.Literal)
	if err != nil {
		p.sink.Add(errors.SyntaxErrorf(p.rangeFrom(tok), "could not parse %q as an integer", tok.Literal))
		return nil
	}
	return &ast.IntLiteral{ExprBase: p.base(p.rangeFrom(tok)), Value: val}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	tok := p.curToken
	return &ast.StringLiteral{ExprBase: p.base(p.rangeFrom(tok)), Value: tok.Literal}
}

func (p *Parser) parseBoolLiteral() ast.Expression {
	tok := p.curToken
	return &ast.BoolLiteral{ExprBase: p.base(p.rangeFrom(tok)), Value: p.curTokenIs(lexer.TRUE)}
}
