package parser

import (
	"github.com/fabrique-build/fabrique/internal/ast"
	"github.com/fabrique-build/fabrique/internal/errors"
	"github.com/fabrique-build/fabrique/internal/lexer"
	"github.com/fabrique-build/fabrique/internal/source"
)

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	return expr
}

func (p *Parser) parseListLiteral() ast.Expression {
	start := p.curToken
	elems := []ast.Expression{}

	if p.peekTokenIs(lexer.RBRACKET) {
		p.nextToken()
		return &ast.ListLiteral{ExprBase: p.base(p.rangeFrom(start)), Elements: elems}
	}

	p.nextToken()
	elems = append(elems, p.parseExpression(LOWEST))
	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		elems = append(elems, p.parseExpression(LOWEST))
	}

	if !p.expectPeek(lexer.RBRACKET) {
		return nil
	}
	return &ast.ListLiteral{ExprBase: p.base(p.rangeFrom(start)), Elements: elems}
}

// parseCompoundOrRecord disambiguates `{ a = 1; b = 2; result }` (a
// CompoundExpression) from `{ a = 1; b = 2; }` (a RecordLiteral, every
// entry a named field, no trailing result). Both start identically:
// a brace followed by a sequence of `name = expr;` Values; the difference
// is whether the final item is a Value or a bare result expression.
func (p *Parser) parseCompoundOrRecord() ast.Expression {
	start := p.curToken
	p.nextToken()

	var values []*ast.Value
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		if p.isValueStart() {
			val := p.parseValue()
			if val == nil {
				return nil
			}
			values = append(values, val)
			if p.curTokenIs(lexer.SEMICOLON) {
				p.nextToken()
			}
			continue
		}
		break
	}

	if p.curTokenIs(lexer.RBRACE) {
		// every entry was a named field: a RecordLiteral.
		return &ast.RecordLiteral{ExprBase: p.base(p.rangeFrom(start)), Fields: values}
	}

	result := p.parseExpression(LOWEST)
	if result == nil {
		return nil
	}
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	if !p.expectPeek(lexer.RBRACE) {
		return nil
	}

	return &ast.CompoundExpression{ExprBase: p.base(p.rangeFrom(start)), Values: values, Result: result}
}

// isValueStart reports whether the current token begins `IDENT (: T)? =`,
// the only form a RecordLiteral/CompoundExpression's Value entries take.
func (p *Parser) isValueStart() bool {
	if !p.curTokenIs(lexer.IDENT) {
		return false
	}
	if p.peekTokenIs(lexer.ASSIGN) {
		return true
	}
	return p.peekTokenIs(lexer.COLON)
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	start := p.curToken
	var op ast.UnaryOperator
	switch start.Type {
	case lexer.MINUS:
		op = ast.Negate
	case lexer.BANG:
		op = ast.Not
	}

	p.nextToken()
	operand := p.parseExpression(UNARY)
	if operand == nil {
		return nil
	}

	return &ast.UnaryOp{
		ExprBase: p.base(source.Over(p.rangeFrom(start), operand.Source())),
		Operand:  operand,
		Op:       op,
	}
}

func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	start := p.curToken
	var op ast.BinaryOperator
	switch start.Type {
	case lexer.PLUS:
		op = ast.Add
	case lexer.MINUS:
		op = ast.Subtract
	case lexer.STAR:
		op = ast.Multiply
	case lexer.SLASH:
		op = ast.Divide
	case lexer.CONS:
		op = ast.Prefix
	case lexer.EQ:
		op = ast.Equal
	case lexer.NEQ:
		op = ast.NotEqual
	case lexer.AND:
		op = ast.And
	case lexer.OR:
		op = ast.Or
	case lexer.XOR:
		op = ast.Xor
	default:
		p.sink.Add(errors.Assert(p.rangeFrom(start), "unreachable binary operator token %s", start.Type))
		return nil
	}

	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}

	return &ast.BinaryOp{
		ExprBase: p.base(source.Over(left.Source(), right.Source())),
		LHS:      left,
		RHS:      right,
		Op:       op,
	}
}

func (p *Parser) parseConditional() ast.Expression {
	start := p.curToken
	p.nextToken()

	cond := p.parseExpression(LOWEST)
	if cond == nil || !p.expectPeek(lexer.THEN) {
		return nil
	}
	p.nextToken()

	then := p.parseExpression(LOWEST)
	if then == nil || !p.expectPeek(lexer.ELSE) {
		return nil
	}
	p.nextToken()

	alt := p.parseExpression(LOWEST)
	if alt == nil {
		return nil
	}

	return &ast.Conditional{
		ExprBase:  p.base(source.Over(p.rangeFrom(start), alt.Source())),
		Condition: cond,
		Then:      then,
		Else:      alt,
	}
}

func (p *Parser) parseForeach() ast.Expression {
	start := p.curToken
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	varName := &ast.Identifier{Range: p.rangeFrom(p.curToken), Name: p.curToken.Literal}
	if lexer.ReservedNames[varName.Name] {
		p.sink.Add(errors.SemanticErrorf(errors.ReservedIdentifier, varName.Range,
			"%q is a reserved name and cannot be bound", varName.Name))
	}

	var varType *ast.TypeReference
	if p.peekTokenIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		varType = p.parseTypeReference()
	}

	if !p.expectPeek(lexer.LARROW) {
		return nil
	}
	p.nextToken()

	src := p.parseExpression(LOWEST)
	if src == nil || !p.expectPeek(lexer.IN) {
		return nil
	}
	p.nextToken()

	body := p.parseExpression(LOWEST)
	if body == nil {
		return nil
	}

	return &ast.Foreach{
		ExprBase: p.base(source.Over(p.rangeFrom(start), body.Source())),
		Var:      varName,
		VarType:  varType,
		Source:   src,
		Body:     body,
	}
}

func (p *Parser) parseFunctionLiteral() ast.Expression {
	start := p.curToken
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}

	params := p.parseParameters()

	var resultType *ast.TypeReference
	if p.peekTokenIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		resultType = p.parseTypeReference()
	}

	p.nextToken()
	body := p.parseExpression(LOWEST)
	if body == nil {
		return nil
	}

	return &ast.FunctionLiteral{
		ExprBase:   p.base(source.Over(p.rangeFrom(start), body.Source())),
		Params:     params,
		ResultType: resultType,
		Body:       body,
	}
}

// parseParameters parses `(p1: T1, p2: T2 = default, ...)`, consuming the
// opening LPAREN (already current) through the closing RPAREN.
func (p *Parser) parseParameters() []*ast.Parameter {
	var params []*ast.Parameter

	if p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		return params
	}

	p.nextToken()
	params = append(params, p.parseParameter())
	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		params = append(params, p.parseParameter())
	}

	p.expectPeek(lexer.RPAREN)
	return params
}

func (p *Parser) parseParameter() *ast.Parameter {
	start := p.curToken
	name := &ast.Identifier{Range: p.rangeFrom(start), Name: start.Literal}
	if lexer.ReservedNames[name.Name] {
		p.sink.Add(errors.SemanticErrorf(errors.ReservedIdentifier, name.Range,
			"%q is a reserved parameter name", name.Name))
	}

	var typeRef *ast.TypeReference
	if p.peekTokenIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		typeRef = p.parseTypeReference()
	} else {
		p.sink.Add(errors.SyntaxErrorf(name.Range, "parameter %q requires a type", name.Name))
	}

	var def ast.Expression
	if p.peekTokenIs(lexer.ASSIGN) {
		p.nextToken()
		p.nextToken()
		def = p.parseExpression(LOWEST)
	}

	end := name.Range
	if def != nil {
		end = def.Source()
	} else if typeRef != nil {
		end = typeRef.Source()
	}

	return &ast.Parameter{
		Range:        source.Over(name.Range, end),
		Name:         name,
		Type:         typeRef,
		DefaultValue: def,
	}
}

// parseTypeReference parses a type annotation: `Name` or `Name[P1, P2]`.
// The current token must already be the name's IDENT.
func (p *Parser) parseTypeReference() *ast.TypeReference {
	start := p.curToken
	ref := &ast.TypeReference{Range: p.rangeFrom(start), Name: start.Literal}

	if p.peekTokenIs(lexer.LBRACKET) {
		p.nextToken()
		p.nextToken()
		ref.Params = append(ref.Params, p.parseTypeReference())
		for p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			ref.Params = append(ref.Params, p.parseTypeReference())
		}
		p.expectPeek(lexer.RBRACKET)
		ref.Range = source.Over(ref.Range, p.rangeFrom(p.curToken))
	}

	return ref
}

// parseTypeDeclExpr handles both forms that start with the `type` keyword:
// `type Name = TypeRef;` (a local type alias) and the builtin
// `type(expr)` call that reifies an expression's type. The two are
// disambiguated by what follows the keyword: an identifier names a
// declaration, a `(` starts a call.
func (p *Parser) parseTypeDeclExpr() ast.Expression {
	start := p.curToken
	if p.peekTokenIs(lexer.LPAREN) {
		ref := &ast.NameReference{ExprBase: p.base(p.rangeFrom(start)), Name: "type"}
		p.nextToken()
		return p.parseCallExpression(ref)
	}

	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	name := p.curToken.Literal

	if !p.expectPeek(lexer.ASSIGN) {
		return nil
	}
	p.nextToken()
	ref := p.parseTypeReference()

	return &ast.TypeDeclExpr{
		ExprBase: p.base(source.Over(p.rangeFrom(start), ref.Source())),
		Name:     name,
		Ref:      ref,
	}
}

// parseCallExpression parses `f(args)`. Calls to the builtin name `files`
// produce a dedicated FileListExpr node rather than a generic Call, since
// its arguments are bareword filenames rather than expressions evaluated
// by ordinary call semantics.
func (p *Parser) parseCallExpression(fn ast.Expression) ast.Expression {
	start := p.curToken
	if ref, ok := fn.(*ast.NameReference); ok && ref.Name == "files" {
		return p.parseFileListExpr(ref)
	}
	if ref, ok := fn.(*ast.NameReference); ok && ref.Name == "action" {
		return p.parseAction(ref)
	}

	args := p.parseArguments(start)
	return &ast.Call{
		ExprBase: p.base(source.Over(fn.Source(), args.Source())),
		Function: fn,
		Args:     args,
	}
}

func (p *Parser) parseArguments(start lexer.Token) *ast.Arguments {
	args := &ast.Arguments{Range: p.rangeFrom(start)}

	if p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		args.Range = source.Over(args.Range, p.rangeFrom(p.curToken))
		return args
	}

	p.nextToken()
	args.List = append(args.List, p.parseArgument())
	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		args.List = append(args.List, p.parseArgument())
	}

	p.expectPeek(lexer.RPAREN)
	args.Range = source.Over(args.Range, p.rangeFrom(p.curToken))
	return args
}

// parseArgument parses one actual argument: `name = expr` (keyword) or a
// bare `expr` (positional).
func (p *Parser) parseArgument() *ast.Argument {
	start := p.curToken

	if (p.curTokenIs(lexer.IDENT) || p.curTokenIs(lexer.IN)) && p.peekTokenIs(lexer.ASSIGN) {
		name := p.curToken.Literal
		p.nextToken()
		p.nextToken()
		val := p.parseExpression(LOWEST)
		return &ast.Argument{Range: source.Over(p.rangeFrom(start), val.Source()), Name: name, Value: val}
	}

	val := p.parseExpression(LOWEST)
	return &ast.Argument{Range: val.Source(), Value: val}
}

// readBarewordFilename consumes the current token plus any immediately
// adjacent (no intervening whitespace) run of IDENT/INT/DOT/MINUS/SLASH
// tokens, concatenating their literal text. This lets `files(a.c b.c)`
// reconstruct "a.c" from the ordinary token stream (IDENT "a", DOT,
// IDENT "c") instead of requiring the lexer to special-case filename
// characters, so a name like r.b still lexes as field access everywhere
// outside a file list. Leaves curToken on the last token consumed.
func (p *Parser) readBarewordFilename() string {
	lit := p.curToken.Literal
	for p.peekIsAdjacent() && isFilenameContinuation(p.peekToken.Type) {
		p.nextToken()
		lit += p.curToken.Literal
	}
	return lit
}

func (p *Parser) peekIsAdjacent() bool {
	end := p.curToken.Column + len(p.curToken.Literal)
	return p.peekToken.Line == p.curToken.Line && p.peekToken.Column == end
}

// isFilenameContinuation also accepts glob metacharacters (`*`, `?`,
// `[...]`) so a pattern like `*.c` or `src/**/*.c` reconstructs as one
// FilenameLiteral; evalFileListExpr expands any name containing one of
// these into the files it matches on disk.
func isFilenameContinuation(t lexer.TokenType) bool {
	switch t {
	case lexer.IDENT, lexer.INT, lexer.DOT, lexer.MINUS, lexer.SLASH,
		lexer.STAR, lexer.QUESTION, lexer.LBRACKET, lexer.RBRACKET:
		return true
	default:
		return false
	}
}

func (p *Parser) parseFileListExpr(ref *ast.NameReference) ast.Expression {
	start := p.curToken
	var names []ast.Expression

	p.nextToken()
	for !p.curTokenIs(lexer.RPAREN) && !p.curTokenIs(lexer.EOF) {
		if p.curTokenIs(lexer.COMMA) {
			break
		}
		first := p.curToken
		lit := p.readBarewordFilename()
		names = append(names, &ast.FilenameLiteral{ExprBase: p.base(p.rangeFrom(first)), Value: lit})
		p.nextToken()
	}

	args := &ast.Arguments{Range: p.rangeFrom(start)}
	if p.curTokenIs(lexer.COMMA) {
		p.nextToken()
		args.List = append(args.List, p.parseArgument())
		for p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			args.List = append(args.List, p.parseArgument())
		}
		p.nextToken()
	}

	return &ast.FileListExpr{
		ExprBase: p.base(source.Over(ref.Source(), p.rangeFrom(p.curToken))),
		Names:    names,
		Args:     args,
	}
}

// parseAction parses `action(cmd-arg cmd-arg ..., name: Type, name = expr,
// ...)`: leading bareword/expression command pieces, followed by a mix of
// `name: Type` parameter declarations (typically `in: file[in]`,
// `out: file[out]`) and `name = expr` fixed-value arguments.
func (p *Parser) parseAction(ref *ast.NameReference) ast.Expression {
	start := p.curToken
	var cmdArgs []ast.Expression
	var params []*ast.Parameter
	var description ast.Expression

	p.nextToken()
	for !p.curTokenIs(lexer.RPAREN) && !p.curTokenIs(lexer.EOF) {
		if (p.curTokenIs(lexer.IDENT) || p.curTokenIs(lexer.IN)) && (p.peekTokenIs(lexer.ASSIGN) || p.peekTokenIs(lexer.COLON)) {
			break
		}
		cmdArgs = append(cmdArgs, p.parseExpression(LOWEST))
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		p.nextToken()
	}

	args := &ast.Arguments{Range: p.rangeFrom(start)}
	for p.curTokenIs(lexer.IDENT) || p.curTokenIs(lexer.IN) {
		if p.peekTokenIs(lexer.COLON) {
			params = append(params, p.parseParameter())
		} else {
			arg := p.parseArgument()
			if arg.Name == "description" {
				description = arg.Value
			} else {
				args.List = append(args.List, arg)
			}
		}
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		p.nextToken()
		break
	}

	if !p.curTokenIs(lexer.RPAREN) {
		p.expectPeek(lexer.RPAREN)
	}

	if len(params) == 0 && len(args.List) == 0 && description == nil {
		p.sink.Add(errors.SemanticErrorf(errors.ActionNoArgs, p.rangeFrom(start),
			"action(...) requires at least one keyword argument"))
	}

	return &ast.Action{
		ExprBase:    p.base(source.Over(ref.Source(), p.rangeFrom(p.curToken))),
		CommandArgs: cmdArgs,
		Params:      params,
		Args:        args,
		Description: description,
	}
}

func (p *Parser) parseFieldAccessOrQuery(base ast.Expression) ast.Expression {
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	field := p.curToken.Literal
	fieldTok := p.curToken

	if p.peekTokenIs(lexer.QUESTION) {
		p.nextToken()
		p.nextToken()
		def := p.parseExpression(LOWEST)
		if def == nil {
			return nil
		}
		return &ast.FieldQuery{
			ExprBase: p.base(source.Over(base.Source(), def.Source())),
			Base:     base,
			Field:    field,
			Default:  def,
		}
	}

	return &ast.FieldAccess{
		ExprBase: p.base(source.Over(base.Source(), p.rangeFrom(fieldTok))),
		Base:     base,
		Field:    field,
	}
}
