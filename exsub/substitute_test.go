package exsub

import (
	"testing"

	"github.com/vicut/vicut/buffer"
)

func newCtx(buf *buffer.Buffer, cursor int) RangeContext {
	return RangeContext{Buf: buf, Cursor: cursor, Marks: map[rune]buffer.Pos{}}
}

func TestSubstituteWholeBufferGlobal(t *testing.T) {
	buf := buffer.New("foofoo\nfoo\n", 8)
	res, err := Substitute(buf, "%s/foo/bar/g", newCtx(buf, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Text() != "barbar\nbar\n" {
		t.Errorf("got %q, want %q", buf.Text(), "barbar\nbar\n")
	}
	if res.LinesChanged != 2 || res.Matches != 3 {
		t.Errorf("got %+v", res)
	}
}

func TestSubstituteWithoutGFlagReplacesFirstOnly(t *testing.T) {
	buf := buffer.New("aaa", 8)
	_, err := Substitute(buf, "s/a/b/", newCtx(buf, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.LineText(0) != "baa" {
		t.Errorf("got %q, want %q", buf.LineText(0), "baa")
	}
}

func TestSubstituteBackreference(t *testing.T) {
	buf := buffer.New("John Smith", 8)
	_, err := Substitute(buf, `s/(\w+) (\w+)/\2 \1/`, newCtx(buf, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.LineText(0) != "Smith John" {
		t.Errorf("got %q, want %q", buf.LineText(0), "Smith John")
	}
}

func TestSubstituteCaseFoldingUpperAll(t *testing.T) {
	buf := buffer.New("hello world", 8)
	_, err := Substitute(buf, `s/\w+/\U&/g`, newCtx(buf, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.LineText(0) != "HELLO WORLD" {
		t.Errorf("got %q, want %q", buf.LineText(0), "HELLO WORLD")
	}
}

func TestSubstituteCaseFoldingUpperOne(t *testing.T) {
	buf := buffer.New("hello", 8)
	_, err := Substitute(buf, `s/hello/\u&/`, newCtx(buf, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.LineText(0) != "Hello" {
		t.Errorf("got %q, want %q", buf.LineText(0), "Hello")
	}
}

func TestSubstituteIgnoreCaseFlag(t *testing.T) {
	buf := buffer.New("Hello hello HELLO", 8)
	_, err := Substitute(buf, "s/hello/hi/gi", newCtx(buf, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.LineText(0) != "hi hi hi" {
		t.Errorf("got %q, want %q", buf.LineText(0), "hi hi hi")
	}
}

func TestSubstituteCountOnlyFlagMakesNoEdits(t *testing.T) {
	buf := buffer.New("aaa", 8)
	res, err := Substitute(buf, "s/a/b/gn", newCtx(buf, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.LineText(0) != "aaa" {
		t.Errorf("expected no edit with the n flag, got %q", buf.LineText(0))
	}
	if res.Matches != 3 {
		t.Errorf("got %d matches, want 3", res.Matches)
	}
}

func TestSubstituteLineRangeRestrictsScope(t *testing.T) {
	buf := buffer.New("foo\nfoo\nfoo\n", 8)
	_, err := Substitute(buf, "2,3s/foo/bar/", newCtx(buf, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.LineText(0) != "foo" || buf.LineText(1) != "bar" || buf.LineText(2) != "bar" {
		t.Errorf("got %q/%q/%q, want only lines 2-3 changed", buf.LineText(0), buf.LineText(1), buf.LineText(2))
	}
}

func TestSubstituteDotRangeUsesCursorLine(t *testing.T) {
	buf := buffer.New("foo\nfoo\n", 8)
	_, err := Substitute(buf, ".s/foo/bar/", newCtx(buf, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.LineText(0) != "foo" || buf.LineText(1) != "bar" {
		t.Errorf("got %q/%q", buf.LineText(0), buf.LineText(1))
	}
}

func TestSubstituteInvalidPatternErrors(t *testing.T) {
	buf := buffer.New("foo", 8)
	_, err := Substitute(buf, "s/[/x/", newCtx(buf, 0))
	if err == nil {
		t.Fatalf("expected InvalidPattern error for unterminated char class")
	}
}

func TestSubstituteOutOfRangeLineErrors(t *testing.T) {
	buf := buffer.New("foo\n", 8)
	_, err := Substitute(buf, "99s/foo/bar/", newCtx(buf, 0))
	if err == nil {
		t.Fatalf("expected InvalidRange error for an out-of-bounds line")
	}
}

func TestSearchForwardWrapsAroundBuffer(t *testing.T) {
	buf := buffer.New("apple\nbanana\ncherry\n", 8)
	pos, ok := Search(buf, buffer.Pos{Line: 2, Col: 0}, "apple", true)
	if !ok || pos.Line != 0 {
		t.Errorf("got %+v ok=%v, want a wraparound match on line 0", pos, ok)
	}
}

func TestSearchBackwardFindsPriorOccurrence(t *testing.T) {
	buf := buffer.New("one two one", 8)
	// Cursor sits on the second "one" (cols 8-10); the nearest match whose
	// start precedes the cursor's column is that very occurrence at col 8.
	pos, ok := Search(buf, buffer.Pos{Line: 0, Col: 10}, "one", false)
	if !ok || pos.Col != 8 {
		t.Errorf("got %+v ok=%v, want col 8", pos, ok)
	}
}

func TestSearchNoMatchReturnsFalse(t *testing.T) {
	buf := buffer.New("abc", 8)
	_, ok := Search(buf, buffer.Pos{Line: 0, Col: 0}, "zzz", true)
	if ok {
		t.Errorf("expected no match")
	}
}
