package dsl

import "testing"

func lexAll(src string) []Token {
	l := NewLexer([]byte(src))
	var toks []Token
	for {
		t := l.NextToken()
		toks = append(toks, t)
		if t.Type == TokenEOF {
			return toks
		}
	}
}

func TestLexerCompoundAssignOperators(t *testing.T) {
	toks := lexAll("+= -= *= /= %= **=")
	want := []TokenType{TokenPlusEq, TokenMinusEq, TokenStarEq, TokenSlashEq, TokenPercentEq, TokenPowEq, TokenEOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Type, w)
		}
	}
}

func TestLexerComparisonAndBoolean(t *testing.T) {
	toks := lexAll("== != <= >= && ||")
	want := []TokenType{TokenEq, TokenNeq, TokenLe, TokenGe, TokenAnd, TokenOr, TokenEOF}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Type, w)
		}
	}
}

func TestLexerVariableSigil(t *testing.T) {
	toks := lexAll("$count")
	if toks[0].Type != TokenVar || toks[0].Literal != "count" {
		t.Errorf("got %+v", toks[0])
	}
}

func TestLexerRegexLiteralVsDivision(t *testing.T) {
	toks := lexAll("/foo.*bar/")
	if toks[0].Type != TokenRegex || toks[0].Literal != "foo.*bar" {
		t.Errorf("got %+v, want a regex literal", toks[0])
	}
	toks = lexAll("$a / $b")
	if toks[1].Type != TokenSlash {
		t.Errorf("got %+v, want division", toks[1])
	}
}

func TestLexerStringEscapes(t *testing.T) {
	toks := lexAll(`"line\nbreak"`)
	if toks[0].Type != TokenString || toks[0].Literal != "line\nbreak" {
		t.Errorf("got %+v", toks[0])
	}
}

func TestLexerSkipsCommentsAndKeepsNewlines(t *testing.T) {
	toks := lexAll("let $x = 1 # comment\nlet $y = 2")
	foundNewline := false
	for _, tok := range toks {
		if tok.Type == TokenComment {
			t.Fatalf("comments should be skipped, not tokenized")
		}
		if tok.Type == TokenNewline {
			foundNewline = true
		}
	}
	if !foundNewline {
		t.Errorf("expected a newline token to survive comment skipping")
	}
}
