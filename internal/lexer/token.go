package lexer

import "fmt"

// TokenType identifies a lexical category.
type TokenType int

const (
	ILLEGAL TokenType = iota
	EOF
	COMMENT

	IDENT
	INT
	STRING

	// Keywords
	TRUE
	FALSE
	IF
	THEN
	ELSE
	FOREACH
	IN
	FUNCTION
	ACTION
	TYPE
	IMPORT
	AND
	OR
	XOR

	// Operators
	PLUS     // +
	MINUS    // -
	STAR     // *
	SLASH    // /
	EQ       // ==
	NEQ      // !=
	BANG     // !
	ASSIGN   // =
	CONS     // ::
	QUESTION // ?
	LARROW   // <=

	// Delimiters
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	COMMA
	DOT
	COLON
	SEMICOLON
)

var names = map[TokenType]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF", COMMENT: "COMMENT",
	IDENT: "IDENT", INT: "INT", STRING: "STRING",
	TRUE: "true", FALSE: "false", IF: "if", THEN: "then", ELSE: "else",
	FOREACH: "foreach", IN: "in", FUNCTION: "function", ACTION: "action",
	TYPE: "type", IMPORT: "import", AND: "and", OR: "or", XOR: "xor",
	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", EQ: "==", NEQ: "!=",
	BANG: "!", ASSIGN: "=", CONS: "::", QUESTION: "?", LARROW: "<=",
	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}",
	LBRACKET: "[", RBRACKET: "]", COMMA: ",", DOT: ".", COLON: ":",
	SEMICOLON: ";",
}

func (t TokenType) String() string {
	if s, ok := names[t]; ok {
		return s
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

var keywords = map[string]TokenType{
	"true": TRUE, "false": FALSE, "if": IF, "then": THEN, "else": ELSE,
	"foreach": FOREACH, "in": IN, "function": FUNCTION,
	"type": TYPE, "and": AND, "or": OR, "xor": XOR,
}

// LookupIdent returns the keyword token for text, or IDENT if text is not a
// keyword. Primitive type names (int, bool, string, file, list, maybe,
// record) are deliberately NOT keywords: they lex as plain identifiers and
// are only reserved where the parser/evaluator resolves names.
// `action`, `files`, and `import` are also plain identifiers rather than
// keywords: the parser recognizes `action(...)`/`files(...)` as builtin
// call forms by name once they've parsed as an ordinary NameReference
//, and `import` is an ordinary builtin function,
// not special syntax.
func LookupIdent(text string) TokenType {
	if tok, ok := keywords[text]; ok {
		return tok
	}
	return IDENT
}

// ReservedNames is the set of identifiers that can never be used as a
// parameter or value name: keywords, operator words, `args`, `buildroot`,
// `srcroot`, and the primitive type names.
//
// `in` and `out` are deliberately NOT in this set: they are only special
// as action()'s own parameter names (typically declared `in: file[in]`,
// `out: file[out]`), a meaning that applies solely within action(...)'s
// own parameter list, not to ordinary value or parameter bindings.
// Reserving them everywhere would make
// `out = foreach s <= srcs in rule(in=s, out=s+'.o');` — an unremarkable
// top-level binding named "out" — illegal.
var ReservedNames = map[string]bool{
	"args": true, "buildroot": true, "srcroot": true,
	"and": true, "or": true, "xor": true,
	"if": true, "then": true, "else": true, "foreach": true,
	"function": true, "action": true, "type": true, "import": true,
	"true": true, "false": true,
	"bool": true, "int": true, "string": true, "nil": true,
	"file": true, "list": true, "maybe": true, "record": true,
}

// Token is a single lexical unit with its source position.
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", t.Type, t.Literal, t.Line, t.Column)
}
