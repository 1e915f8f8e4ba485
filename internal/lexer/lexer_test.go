package lexer

import "testing"

func TestNextToken(t *testing.T) {
	input := `function(x: int, y: int = 1): int = x + y * 2 - 1 / 2

foreach f <= files(a.c, b.c) in compile(f)

type IntList = list[int]

if a == b and c != d then x else y

x :: [1, 2]
p.field ? default
#this is a comment
"a string"
`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{FUNCTION, "function"},
		{LPAREN, "("},
		{IDENT, "x"},
		{COLON, ":"},
		{IDENT, "int"},
		{COMMA, ","},
		{IDENT, "y"},
		{COLON, ":"},
		{IDENT, "int"},
		{ASSIGN, "="},
		{INT, "1"},
		{RPAREN, ")"},
		{COLON, ":"},
		{IDENT, "int"},
		{ASSIGN, "="},
		{IDENT, "x"},
		{PLUS, "+"},
		{IDENT, "y"},
		{STAR, "*"},
		{INT, "2"},
		{MINUS, "-"},
		{INT, "1"},
		{SLASH, "/"},
		{INT, "2"},

		{FOREACH, "foreach"},
		{IDENT, "f"},
		{LARROW, "<="},
		{IDENT, "files"},
		{LPAREN, "("},
		{IDENT, "a"},
		{DOT, "."},
		{IDENT, "c"},
		{COMMA, ","},
		{IDENT, "b"},
		{DOT, "."},
		{IDENT, "c"},
		{RPAREN, ")"},
		{IN, "in"},
		{IDENT, "compile"},
		{LPAREN, "("},
		{IDENT, "f"},
		{RPAREN, ")"},

		{TYPE, "type"},
		{IDENT, "IntList"},
		{ASSIGN, "="},
		{IDENT, "list"},
		{LBRACKET, "["},
		{IDENT, "int"},
		{RBRACKET, "]"},

		{IF, "if"},
		{IDENT, "a"},
		{EQ, "=="},
		{IDENT, "b"},
		{AND, "and"},
		{IDENT, "c"},
		{NEQ, "!="},
		{IDENT, "d"},
		{THEN, "then"},
		{IDENT, "x"},
		{ELSE, "else"},
		{IDENT, "y"},

		{IDENT, "x"},
		{CONS, "::"},
		{LBRACKET, "["},
		{INT, "1"},
		{COMMA, ","},
		{INT, "2"},
		{RBRACKET, "]"},

		{IDENT, "p"},
		{DOT, "."},
		{IDENT, "field"},
		{QUESTION, "?"},
		{IDENT, "default"},

		{STRING, "a string"},

		{EOF, ""},
	}

	l := New([]byte(input), "test.fab")

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%s, got=%s (literal %q)",
				i, tt.expectedType, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestNextToken_Positions(t *testing.T) {
	l := New([]byte("a\nb"), "test.fab")

	first := l.NextToken()
	if first.Line != 0 || first.Column != 0 {
		t.Fatalf("expected first token at 0:0, got %d:%d", first.Line, first.Column)
	}

	second := l.NextToken()
	if second.Line != 1 {
		t.Fatalf("expected second token on line 1, got %d", second.Line)
	}
}

func TestReservedNames_CoverKeywordsAndPrimitives(t *testing.T) {
	for word := range keywords {
		if word == "in" {
			// `in` is a keyword but is not reserved; see ReservedNames.
			if ReservedNames[word] {
				t.Errorf("keyword %q should not be reserved", word)
			}
			continue
		}
		if !ReservedNames[word] {
			t.Errorf("keyword %q should be reserved", word)
		}
	}

	for _, prim := range []string{"bool", "int", "string", "file", "list", "maybe", "record", "nil"} {
		if !ReservedNames[prim] {
			t.Errorf("primitive type name %q should be reserved", prim)
		}
	}
}

func TestBangIsNotConfusedWithNotEqual(t *testing.T) {
	l := New([]byte("!true"), "test.fab")

	tok := l.NextToken()
	if tok.Type != BANG {
		t.Fatalf("expected BANG, got %s", tok.Type)
	}
}
