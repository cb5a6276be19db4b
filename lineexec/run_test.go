package lineexec

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"sync"
	"testing"

	"github.com/vicut/vicut/program"
	"github.com/vicut/vicut/record"
)

func collectInOrder(t *testing.T) (func(int, []record.Record) error, func() [][]record.Record) {
	t.Helper()
	var mu sync.Mutex
	var seen []int
	var out [][]record.Record
	return func(i int, recs []record.Record) error {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, i)
			out = append(out, recs)
			return nil
		}, func() [][]record.Record {
			sorted := append([]int{}, seen...)
			if !sort.IntsAreSorted(sorted) {
				t.Fatalf("sink called out of order: %v", seen)
			}
			return out
		}
}

func TestRunPreservesInputOrderAcrossWorkers(t *testing.T) {
	lines := []string{"one two", "three four", "five six", "seven eight", "nine ten"}
	prog := program.Program{Insts: []program.Inst{{Kind: program.OpCut, Cmd: "e"}}}
	sink, check := collectInOrder(t)
	err := Run(context.Background(), lines, prog, Options{Jobs: 4, TabWidth: 8}, sink)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := check()
	if len(out) != len(lines) {
		t.Fatalf("got %d results, want %d", len(out), len(lines))
	}
	for i, line := range lines {
		want := firstWordOf(line)
		if out[i][0][0].Text != want {
			t.Errorf("line %d: got %q, want %q", i, out[i][0][0].Text, want)
		}
	}
}

func firstWordOf(s string) string {
	for i, r := range s {
		if r == ' ' {
			return s[:i]
		}
	}
	return s
}

func TestRunSerialMatchesParallelOutput(t *testing.T) {
	lines := make([]string, 50)
	for i := range lines {
		lines[i] = "alpha beta gamma"
	}
	prog := program.Program{Insts: []program.Inst{
		{Kind: program.OpCut, Cmd: "e"},
		{Kind: program.OpMove, Cmd: "w"},
		{Kind: program.OpCut, Cmd: "e"},
	}}

	runWith := func(opts Options) [][]record.Record {
		sink, check := collectInOrder(t)
		if err := Run(context.Background(), lines, prog, opts, sink); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return check()
	}

	serial := runWith(Options{Serial: true, TabWidth: 8})
	parallel := runWith(Options{Jobs: 8, TabWidth: 8})
	if !reflect.DeepEqual(serial, parallel) {
		t.Errorf("serial and parallel outputs diverged")
	}
}

func TestRunPropagatesLineError(t *testing.T) {
	lines := []string{"ok", "ok"}
	prog := program.Program{Insts: []program.Inst{
		{Kind: program.OpRepeat, N: 9, R: 1}, // invalid: no history at this nesting level
	}}
	sink, _ := collectInOrder(t)
	err := Run(context.Background(), lines, prog, Options{TabWidth: 8}, sink)
	if err == nil {
		t.Fatalf("expected an error")
	}
	if errors.Is(err, context.Canceled) {
		t.Fatalf("expected the program error, got context cancellation: %v", err)
	}
}
