package vimotion

import (
	"testing"

	"github.com/vicut/vicut/buffer"
)

func sliceSpan(buf *buffer.Buffer, span buffer.Span) string {
	return buf.Slice(span)
}

func TestInnerWordObject(t *testing.T) {
	buf := buffer.New("foo bar baz", 8)
	span, ok := textObjectSpan(buf, buffer.Pos{Line: 0, Col: 5}, TextObj{Kind: TOWord, Word: SmallWord, Bound: Inside})
	if !ok {
		t.Fatalf("expected a match")
	}
	if got := sliceSpan(buf, span); got != "bar" {
		t.Errorf("got %q, want %q", got, "bar")
	}
}

func TestAroundWordObjectIncludesTrailingSpace(t *testing.T) {
	buf := buffer.New("foo bar baz", 8)
	span, ok := textObjectSpan(buf, buffer.Pos{Line: 0, Col: 5}, TextObj{Kind: TOWord, Word: SmallWord, Bound: Around})
	if !ok {
		t.Fatalf("expected a match")
	}
	if got := sliceSpan(buf, span); got != "bar " {
		t.Errorf("got %q, want %q", got, "bar ")
	}
}

func TestInnerDoubleQuoteObject(t *testing.T) {
	buf := buffer.New(`say "hello world" now`, 8)
	span, ok := textObjectSpan(buf, buffer.Pos{Line: 0, Col: 7}, TextObj{Kind: TODoubleQuote, Bound: Inside})
	if !ok {
		t.Fatalf("expected a match")
	}
	if got := sliceSpan(buf, span); got != "hello world" {
		t.Errorf("got %q, want %q", got, "hello world")
	}
}

func TestAroundDoubleQuoteObjectIncludesQuotes(t *testing.T) {
	buf := buffer.New(`say "hello world" now`, 8)
	span, ok := textObjectSpan(buf, buffer.Pos{Line: 0, Col: 7}, TextObj{Kind: TODoubleQuote, Bound: Around})
	if !ok {
		t.Fatalf("expected a match")
	}
	if got := sliceSpan(buf, span); got != `"hello world"` {
		t.Errorf("got %q, want %q", got, `"hello world"`)
	}
}

func TestInnerParenObjectNested(t *testing.T) {
	buf := buffer.New("foo(bar(baz)qux)end", 8)
	span, ok := textObjectSpan(buf, buffer.Pos{Line: 0, Col: 9}, TextObj{Kind: TOParen, Bound: Inside})
	if !ok {
		t.Fatalf("expected a match")
	}
	if got := sliceSpan(buf, span); got != "baz" {
		t.Errorf("got %q, want %q", got, "baz")
	}
}

func TestAroundBracketObject(t *testing.T) {
	buf := buffer.New("[bar foo]", 8)
	span, ok := textObjectSpan(buf, buffer.Pos{Line: 0, Col: 2}, TextObj{Kind: TOBracket, Bound: Around})
	if !ok {
		t.Fatalf("expected a match")
	}
	if got := sliceSpan(buf, span); got != "[bar foo]" {
		t.Errorf("got %q, want %q", got, "[bar foo]")
	}
}

func TestInnerParagraphObject(t *testing.T) {
	buf := buffer.New("one\ntwo\n\nthree\n", 8)
	span, ok := textObjectSpan(buf, buffer.Pos{Line: 1, Col: 0}, TextObj{Kind: TOParagraph, Bound: Inside})
	if !ok {
		t.Fatalf("expected a match")
	}
	start, end := span.Ordered()
	if start.Line != 0 || end.Line != 1 {
		t.Errorf("got span %+v, want lines 0..1", span)
	}
}

func TestBracketObjectNoEnclosingReturnsFalse(t *testing.T) {
	buf := buffer.New("no brackets here", 8)
	_, ok := textObjectSpan(buf, buffer.Pos{Line: 0, Col: 0}, TextObj{Kind: TOParen, Bound: Inside})
	if ok {
		t.Errorf("expected no match for a line with no parens")
	}
}

func TestTagObjectInner(t *testing.T) {
	buf := buffer.New("<b>bold text</b>", 8)
	span, ok := textObjectSpan(buf, buffer.Pos{Line: 0, Col: 5}, TextObj{Kind: TOTag, Bound: Inside})
	if !ok {
		t.Fatalf("expected a match")
	}
	if got := sliceSpan(buf, span); got != "bold text" {
		t.Errorf("got %q, want %q", got, "bold text")
	}
}
