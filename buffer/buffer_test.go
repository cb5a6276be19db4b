package buffer

import "testing"

func TestNewAndText(t *testing.T) {
	text := "foo bar\nbaz qux\n"
	b := New(text, 8)
	if b.LineCount() != 3 {
		t.Fatalf("expected 3 lines (trailing empty), got %d", b.LineCount())
	}
	if got := b.Text(); got != text {
		t.Errorf("round-trip failed: expected %q, got %q", text, got)
	}
}

func TestLineCountNoTrailingNewline(t *testing.T) {
	b := New("foo\nbar", 8)
	if b.LineCount() != 2 {
		t.Fatalf("expected 2 lines, got %d", b.LineCount())
	}
	if b.LineText(1) != "bar" {
		t.Errorf("expected second line 'bar', got %q", b.LineText(1))
	}
	if got := b.Text(); got != "foo\nbar" {
		t.Errorf("round-trip failed: got %q", got)
	}
}

func TestCRLFPreserved(t *testing.T) {
	b := New("foo\r\nbar\n", 8)
	if got := b.Text(); got != "foo\r\nbar\n" {
		t.Errorf("expected CRLF preserved, got %q", got)
	}
}

func TestGraphemeClusters(t *testing.T) {
	// A family emoji with ZWJ sequences is one grapheme cluster.
	b := New("a\U0001F468‍\U0001F469‍\U0001F467b", 8)
	if b.LineLen(0) != 3 {
		t.Errorf("expected 3 grapheme clusters (a, family, b), got %d", b.LineLen(0))
	}
}

func TestDeleteCharwiseExclusive(t *testing.T) {
	b := New("foo bar", 8)
	span := Span{Start: Pos{0, 0}, End: Pos{0, 4}, Kind: CharExclusive}
	removed, _ := b.Delete(span)
	if removed != "foo " {
		t.Errorf("expected 'foo ', got %q", removed)
	}
	if b.LineText(0) != "bar" {
		t.Errorf("expected remaining 'bar', got %q", b.LineText(0))
	}
}

func TestDeleteCharwiseInclusive(t *testing.T) {
	b := New("foo bar", 8)
	span := Span{Start: Pos{0, 0}, End: Pos{0, 2}, Kind: CharInclusive}
	removed, _ := b.Delete(span)
	if removed != "foo" {
		t.Errorf("expected 'foo', got %q", removed)
	}
	if b.LineText(0) != " bar" {
		t.Errorf("expected ' bar', got %q", b.LineText(0))
	}
}

func TestDeleteLinewise(t *testing.T) {
	b := New("a\nb\nc\n", 8)
	span := Span{Start: Pos{0, 0}, End: Pos{1, 0}, Kind: Linewise}
	removed, landing := b.Delete(span)
	if removed != "a\nb\n" {
		t.Errorf("expected 'a\\nb\\n', got %q", removed)
	}
	if b.LineCount() != 2 || b.LineText(0) != "c" {
		t.Errorf("expected remaining lines 'c' and the trailing empty line, got count=%d text=%q", b.LineCount(), b.LineText(0))
	}
	if landing.Line != 0 {
		t.Errorf("expected landing on line 0, got %d", landing.Line)
	}
}

func TestJoinLines(t *testing.T) {
	b := New("foo\nbar\n", 8)
	col, err := b.JoinLines(0, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.LineText(0) != "foo bar" {
		t.Errorf("expected 'foo bar', got %q", b.LineText(0))
	}
	if col != 3 {
		t.Errorf("expected landing column 3, got %d", col)
	}
}

func TestDisplayColumnTabs(t *testing.T) {
	b := New("a\tb", 8)
	if got := b.DisplayColumn(Pos{0, 2}); got != 8 {
		t.Errorf("expected tab to expand to column 8, got %d", got)
	}
}

func TestClampAppendSentinel(t *testing.T) {
	b := New("abc", 8)
	pos := b.Clamp(Pos{0, 3}, true)
	if pos.Col != 3 {
		t.Errorf("expected append sentinel column 3, got %d", pos.Col)
	}
	pos = b.Clamp(Pos{0, 3}, false)
	if pos.Col != 2 {
		t.Errorf("expected clamp to last grapheme column 2, got %d", pos.Col)
	}
}

func TestEmptyBufferMotionsAreNoOps(t *testing.T) {
	b := New("", 8)
	if b.LineCount() != 1 || b.LineLen(0) != 0 {
		t.Fatalf("expected a single empty line, got count=%d len=%d", b.LineCount(), b.LineLen(0))
	}
	pos := b.Clamp(Pos{5, 5}, false)
	if pos.Line != 0 || pos.Col != 0 {
		t.Errorf("expected clamp to (0,0) on empty buffer, got %+v", pos)
	}
}
