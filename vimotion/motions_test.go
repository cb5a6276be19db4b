package vimotion

import (
	"testing"

	"github.com/vicut/vicut/buffer"
)

func TestWordForwardSkipsPunctuationAsOwnWord(t *testing.T) {
	buf := buffer.New("foo_bar, baz.qux", 8)
	got := wordForward(buf, buffer.Pos{Line: 0, Col: 0}, 1, false)
	if got.Col != 7 {
		t.Errorf("got col %d, want 7 (the comma)", got.Col)
	}
}

func TestWordForwardCountTwo(t *testing.T) {
	buf := buffer.New("foo_bar, baz.qux", 8)
	got := wordForward(buf, buffer.Pos{Line: 0, Col: 0}, 2, false)
	if got.Col != 9 {
		t.Errorf("got col %d, want 9 ('b' of baz)", got.Col)
	}
}

func TestBigWordForwardTreatsPunctuationAsPartOfWord(t *testing.T) {
	buf := buffer.New("foo_bar, baz.qux", 8)
	got := wordForward(buf, buffer.Pos{Line: 0, Col: 0}, 1, true)
	if got.Col != 9 {
		t.Errorf("got col %d, want 9 (W skips the whole non-space run)", got.Col)
	}
}

func TestWordEndLandsOnLastCharOfWord(t *testing.T) {
	buf := buffer.New("foo bar", 8)
	got := wordEnd(buf, buffer.Pos{Line: 0, Col: 0}, 1, false, false)
	if got.Col != 2 {
		t.Errorf("got col %d, want 2 ('o' of foo)", got.Col)
	}
}

func TestWordBackwardFromInsideWord(t *testing.T) {
	buf := buffer.New("foo bar baz", 8)
	got := wordBackward(buf, buffer.Pos{Line: 0, Col: 9}, 1, false)
	if got.Col != 8 {
		t.Errorf("got col %d, want 8 (start of baz)", got.Col)
	}
}

func TestCharSearchForwardFindsTarget(t *testing.T) {
	buf := buffer.New("connected (externally)", 8)
	got, ok := charSearch(buf, buffer.Pos{Line: 0, Col: 0}, 1, Forward, On, ")")
	if !ok || got.Col != 21 {
		t.Errorf("got %+v ok=%v, want col 21", got, ok)
	}
}

func TestCharSearchForwardMissTargetLeavesPositionUnchanged(t *testing.T) {
	buf := buffer.New("connected externally", 8)
	pos := buffer.Pos{Line: 0, Col: 0}
	got, ok := charSearch(buf, pos, 1, Forward, On, ")")
	if ok {
		t.Fatalf("expected search to fail, got %+v", got)
	}
	if got != pos {
		t.Errorf("expected unchanged position on failed search, got %+v", got)
	}
}

func TestCharSearchTillStopsBeforeTarget(t *testing.T) {
	buf := buffer.New("abcXdef", 8)
	got, ok := charSearch(buf, buffer.Pos{Line: 0, Col: 0}, 1, Forward, Before, "X")
	if !ok || got.Col != 2 {
		t.Errorf("got %+v ok=%v, want col 2 (char before X)", got, ok)
	}
}

func TestPercentMatchFindsEnclosingParen(t *testing.T) {
	buf := buffer.New("foo(bar(baz)qux)end", 8)
	got, ok := percentMatch(buf, buffer.Pos{Line: 0, Col: 3})
	if !ok || got.Col != 15 {
		t.Errorf("got %+v ok=%v, want col 15 (matching close paren)", got, ok)
	}
}

func TestPercentMatchFromClosingBracket(t *testing.T) {
	buf := buffer.New("[one [two] three]", 8)
	got, ok := percentMatch(buf, buffer.Pos{Line: 0, Col: 16})
	if !ok || got.Col != 0 {
		t.Errorf("got %+v ok=%v, want col 0", got, ok)
	}
}

func TestLineFirstNonBlankSkipsLeadingTabs(t *testing.T) {
	buf := buffer.New("\t\t  hi", 8)
	got := lineFirstNonBlank(buf, 0)
	if got.Col != 4 {
		t.Errorf("got col %d, want 4", got.Col)
	}
}
