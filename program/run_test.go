package program

import (
	"reflect"
	"testing"

	"github.com/vicut/vicut/buffer"
	"github.com/vicut/vicut/record"
	"github.com/vicut/vicut/register"
	"github.com/vicut/vicut/vimotion"
)

func newInterp(text string) *vimotion.Interp {
	return vimotion.NewInterp(buffer.New(text, 8), register.New())
}

func fieldTexts(recs []record.Record) [][]string {
	out := make([][]string, len(recs))
	for i, r := range recs {
		for _, f := range r {
			out[i] = append(out[i], f.Text)
		}
	}
	return out
}

func TestRunCutEmitsFieldsIntoOneRecord(t *testing.T) {
	ip := newInterp("one two three")
	prog := Program{Insts: []Inst{
		{Kind: OpCut, Cmd: "e"},
		{Kind: OpMove, Cmd: "w"},
		{Kind: OpCut, Cmd: "e"},
	}}
	rb := record.NewBuilder(false)
	if err := Run(ip, prog, rb); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	recs := rb.Finish(func() string { return ip.Buf.Text() })
	got := fieldTexts(recs)
	want := [][]string{{"one", "two"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestRunRepeatUnrollingMatchesManualExpansion(t *testing.T) {
	// "A B -r 2 R" must produce the same record stream as "A B (A B)xR".
	run := func(insts []Inst) [][]string {
		ip := newInterp("one two three four five six")
		rb := record.NewBuilder(false)
		if err := Run(ip, Program{Insts: insts}, rb); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return fieldTexts(rb.Finish(func() string { return ip.Buf.Text() }))
	}
	viaRepeat := run([]Inst{
		{Kind: OpCut, Cmd: "e"},
		{Kind: OpMove, Cmd: "w"},
		{Kind: OpRepeat, N: 2, R: 2},
	})
	viaExpansion := run([]Inst{
		{Kind: OpCut, Cmd: "e"},
		{Kind: OpMove, Cmd: "w"},
		{Kind: OpCut, Cmd: "e"},
		{Kind: OpMove, Cmd: "w"},
		{Kind: OpCut, Cmd: "e"},
		{Kind: OpMove, Cmd: "w"},
	})
	if !reflect.DeepEqual(viaRepeat, viaExpansion) {
		t.Errorf("repeat unrolling diverged: %+v vs %+v", viaRepeat, viaExpansion)
	}
}

func TestRunNestedRepeatInsideReplayedWindowCaptures(t *testing.T) {
	ip := newInterp("a b a b a b a b")
	prog := Program{Insts: []Inst{
		{Kind: OpCut, Cmd: "e"}, // field 0
		{Kind: OpMove, Cmd: "w"},
		{Kind: OpRepeat, N: 2, R: 1}, // inner repeat -> 2 cuts total so far
		{Kind: OpRepeat, N: 3, R: 1}, // re-runs the 3 prior siblings (Cut, Move, inner Repeat) once
	}}
	rb := record.NewBuilder(false)
	if err := Run(ip, prog, rb); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	recs := rb.Finish(func() string { return ip.Buf.Text() })
	if len(recs[0]) == 0 {
		t.Fatalf("expected at least one captured field")
	}
}

func TestRunNextSplitsRecords(t *testing.T) {
	ip := newInterp("one two")
	prog := Program{Insts: []Inst{
		{Kind: OpCut, Cmd: "e"},
		{Kind: OpNext},
		{Kind: OpMove, Cmd: "w"},
		{Kind: OpCut, Cmd: "e"},
	}}
	rb := record.NewBuilder(false)
	if err := Run(ip, prog, rb); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	recs := rb.Finish(func() string { return ip.Buf.Text() })
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0][0].Text != "one" || recs[1][0].Text != "two" {
		t.Errorf("got %+v", recs)
	}
}

func TestRunGlobalAppliesSubOnlyToMatchingLines(t *testing.T) {
	ip := newInterp("apple\nbanana\navocado\n")
	prog := Program{Insts: []Inst{
		{Kind: OpGlobal, Pattern: "^a", Sub: []Inst{
			{Kind: OpCut, Cmd: "e"},
			{Kind: OpNext},
		}},
	}}
	rb := record.NewBuilder(false)
	if err := Run(ip, prog, rb); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	recs := rb.Finish(func() string { return ip.Buf.Text() })
	got := fieldTexts(recs)
	// the sub-program's final Next births one more record that the buffer
	// end finalizes empty, per the "born on Next" record lifecycle rule.
	want := [][]string{{"apple"}, {"avocado"}, nil}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestRunNotGlobalAppliesSubToNonMatchingLines(t *testing.T) {
	ip := newInterp("apple\nbanana\navocado\n")
	prog := Program{Insts: []Inst{
		{Kind: OpNotGlobal, Pattern: "^a", Sub: []Inst{
			{Kind: OpCut, Cmd: "e"},
			{Kind: OpNext},
		}},
	}}
	rb := record.NewBuilder(false)
	if err := Run(ip, prog, rb); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	recs := rb.Finish(func() string { return ip.Buf.Text() })
	got := fieldTexts(recs)
	want := [][]string{{"banana"}, nil}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestRunNoCutProducesSingleImplicitField(t *testing.T) {
	ip := newInterp("foo bar baz")
	prog := Program{Insts: []Inst{{Kind: OpMove, Cmd: "w"}}}
	rb := record.NewBuilder(false)
	if err := Run(ip, prog, rb); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	recs := rb.Finish(func() string { return ip.Buf.Text() })
	if len(recs) != 1 || len(recs[0]) != 1 || recs[0][0].Text != "foo bar baz" {
		t.Errorf("got %+v, want a single implicit whole-buffer field", recs)
	}
}

func TestRunRepeatWithoutEnoughHistoryErrors(t *testing.T) {
	ip := newInterp("abc")
	prog := Program{Insts: []Inst{
		{Kind: OpMove, Cmd: "w"},
		{Kind: OpRepeat, N: 5, R: 1},
	}}
	rb := record.NewBuilder(false)
	if err := Run(ip, prog, rb); err == nil {
		t.Fatalf("expected an InvalidRepeat error")
	}
}
