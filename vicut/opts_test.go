package vicut

import (
	"testing"

	"github.com/vicut/vicut/program"
)

func TestParseFlagInvocationBuildsCutAndMove(t *testing.T) {
	o, err := ParseArgs([]string{"-c", "e", "-m", "w", "-c", "name=rest", "$"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []program.Inst{
		{Kind: program.OpCut, Cmd: "e"},
		{Kind: program.OpMove, Cmd: "w"},
		{Kind: program.OpCut, Name: "rest", Cmd: "$"},
	}
	if len(o.Prog.Insts) != len(want) {
		t.Fatalf("got %d insts, want %d: %+v", len(o.Prog.Insts), len(want), o.Prog.Insts)
	}
	for i := range want {
		if o.Prog.Insts[i] != want[i] {
			t.Errorf("inst %d: got %+v, want %+v", i, o.Prog.Insts[i], want[i])
		}
	}
}

func TestParseRepeatAppendsAfterPriorInstructions(t *testing.T) {
	o, err := ParseArgs([]string{"-c", "e", "-m", "w", "-r", "2", "3"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(o.Prog.Insts) != 3 {
		t.Fatalf("got %d insts, want the 2 siblings plus 1 repeat inst: %+v", len(o.Prog.Insts), o.Prog.Insts)
	}
	got := o.Prog.Insts[2]
	if got.Kind != program.OpRepeat || got.N != 2 || got.R != 3 {
		t.Errorf("got %+v, want Kind=OpRepeat N=2 R=3", got)
	}
}

func TestParseRepeatRejectsExcessiveCount(t *testing.T) {
	_, err := ParseArgs([]string{"-m", "w", "-r", "5", "1"})
	if err == nil {
		t.Fatal("expected an error for a repeat count exceeding prior instructions")
	}
}

func TestParseGlobalWithElseLowersToInstPair(t *testing.T) {
	o, err := ParseArgs([]string{"-g", "/foo/", "-c", "e", "--else", "-c", "$", "--end"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(o.Prog.Insts) != 2 {
		t.Fatalf("got %d insts, want 2: %+v", len(o.Prog.Insts), o.Prog.Insts)
	}
	if o.Prog.Insts[0].Kind != program.OpGlobal || o.Prog.Insts[0].Pattern != "/foo/" {
		t.Errorf("got first inst %+v, want OpGlobal over /foo/", o.Prog.Insts[0])
	}
	if o.Prog.Insts[1].Kind != program.OpNotGlobal || o.Prog.Insts[1].Pattern != "/foo/" {
		t.Errorf("got second inst %+v, want OpNotGlobal over /foo/", o.Prog.Insts[1])
	}
	if len(o.Prog.Insts[0].Sub) != 1 || len(o.Prog.Insts[1].Sub) != 1 {
		t.Errorf("expected one sub-instruction per arm, got %+v", o.Prog.Insts)
	}
}

func TestParseNotGlobalWithElseSwapsArms(t *testing.T) {
	o, err := ParseArgs([]string{"-v", "/foo/", "-c", "e", "--else", "-c", "$", "--end"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Prog.Insts[0].Kind != program.OpNotGlobal {
		t.Errorf("got %+v, want OpNotGlobal first for -v", o.Prog.Insts[0])
	}
	if o.Prog.Insts[1].Kind != program.OpGlobal {
		t.Errorf("got %+v, want OpGlobal second for -v's else arm", o.Prog.Insts[1])
	}
}

func TestParseGlobalUnterminatedIsUsageError(t *testing.T) {
	_, err := ParseArgs([]string{"-g", "/foo/", "-c", "e"})
	if err == nil {
		t.Fatal("expected a usage error for a missing --end")
	}
	if ExitCode(err) != 2 {
		t.Errorf("got exit code %d, want 2 for a usage error", ExitCode(err))
	}
}

func TestParseScriptInvocationDetectsScriptFileVsInline(t *testing.T) {
	o, err := ParseArgs([]string{"recipe.vic", "a.txt", "b.txt"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.ScriptPath != "recipe.vic" || o.ScriptSrc != "" {
		t.Errorf("got ScriptPath=%q ScriptSrc=%q, want a script path", o.ScriptPath, o.ScriptSrc)
	}
	if len(o.Files) != 2 || o.Files[0] != "a.txt" || o.Files[1] != "b.txt" {
		t.Errorf("got files %+v, want [a.txt b.txt]", o.Files)
	}

	o, err = ParseArgs([]string{`move "w"`, "a.txt"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.ScriptSrc == "" || o.ScriptPath != "" {
		t.Errorf("got ScriptPath=%q ScriptSrc=%q, want an inline script", o.ScriptPath, o.ScriptSrc)
	}
}

func TestParseCutRejectsReservedFieldName(t *testing.T) {
	_, err := ParseArgs([]string{"-c", "name=0", "e"})
	if err == nil {
		t.Fatal("expected an error for the reserved field name '0'")
	}
}

func TestParseFlagInvocationSetsScalarOpts(t *testing.T) {
	o, err := ParseArgs([]string{"-d", ",", "-t", "{{1}}", "-j", "--trim-fields", "--jobs", "4", "file.txt"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Delimiter != "," || o.Template != "{{1}}" || !o.JSON || !o.TrimFields || o.Jobs != 4 {
		t.Errorf("got %+v", o)
	}
	if len(o.Files) != 1 || o.Files[0] != "file.txt" {
		t.Errorf("got files %+v, want [file.txt]", o.Files)
	}
}
