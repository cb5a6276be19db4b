package dsl

import "testing"

func mustParse(t *testing.T, src string) []Stmt {
	t.Helper()
	stmts, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return stmts
}

func TestParseLetAndArithmeticPrecedence(t *testing.T) {
	stmts := mustParse(t, "let $x = 1 + 2 * 3\n")
	let, ok := stmts[0].(*LetStmt)
	if !ok {
		t.Fatalf("got %T, want *LetStmt", stmts[0])
	}
	bin, ok := let.Value.(*BinaryExpr)
	if !ok || bin.Op != "+" {
		t.Fatalf("got %+v, want top-level '+' (multiplication binds tighter)", let.Value)
	}
	rhs, ok := bin.Right.(*BinaryExpr)
	if !ok || rhs.Op != "*" {
		t.Fatalf("got %+v, want '*' nested under '+'", bin.Right)
	}
}

func TestParseIfElifElse(t *testing.T) {
	stmts := mustParse(t, `
if $x > 0 {
  echo "pos"
} elif $x < 0 {
  echo "neg"
} else {
  echo "zero"
}
`)
	ifs, ok := stmts[0].(*IfStmt)
	if !ok {
		t.Fatalf("got %T", stmts[0])
	}
	if len(ifs.Elifs) != 1 || ifs.Else == nil {
		t.Fatalf("got %+v", ifs)
	}
}

func TestParseForRangeInclusive(t *testing.T) {
	stmts := mustParse(t, `
for $i in range_inclusive(1, 3) {
  move "w"
}
`)
	f, ok := stmts[0].(*ForStmt)
	if !ok || f.Kind != "range_inclusive" {
		t.Fatalf("got %+v", stmts[0])
	}
}

func TestParseGlobalWithElse(t *testing.T) {
	stmts := mustParse(t, `
global /^a/ {
  cut name="x" "e"
} else {
  echo "no match"
}
`)
	g, ok := stmts[0].(*GlobalStmt)
	if !ok || g.Not {
		t.Fatalf("got %+v", stmts[0])
	}
	if g.Else == nil {
		t.Fatalf("expected an else clause")
	}
	cut, ok := g.Body[0].(*CutStmt)
	if !ok || cut.Name != "x" {
		t.Fatalf("got %+v", g.Body[0])
	}
}

func TestParseRepeatWithVariableCount(t *testing.T) {
	stmts := mustParse(t, `
repeat $n {
  move "w"
  cut "e"
}
`)
	rep, ok := stmts[0].(*RepeatStmt)
	if !ok {
		t.Fatalf("got %T", stmts[0])
	}
	if _, ok := rep.Count.(*VarExpr); !ok {
		t.Fatalf("got %+v, want a variable count", rep.Count)
	}
	if len(rep.Body) != 2 {
		t.Fatalf("got %d statements in repeat body, want 2", len(rep.Body))
	}
}

func TestParseTernaryAndIndex(t *testing.T) {
	stmts := mustParse(t, `let $x = $cond ? $arr[0] : "fallback"`)
	let := stmts[0].(*LetStmt)
	tern, ok := let.Value.(*TernaryExpr)
	if !ok {
		t.Fatalf("got %T", let.Value)
	}
	if _, ok := tern.Then.(*IndexExpr); !ok {
		t.Fatalf("got %+v", tern.Then)
	}
}

func TestParseDefAndReturn(t *testing.T) {
	stmts := mustParse(t, `
def double($n) {
  return $n * 2
}
`)
	def, ok := stmts[0].(*DefStmt)
	if !ok || def.Name != "double" || len(def.Params) != 1 {
		t.Fatalf("got %+v", stmts[0])
	}
}

func TestParseOptsDelegatesToTOML(t *testing.T) {
	stmts := mustParse(t, `
opts {
  jobs = 4
  trim_fields = true
  delimiter = "\t"
}
move "w"
`)
	opts, ok := stmts[0].(*OptsStmt)
	if !ok {
		t.Fatalf("got %T, want *OptsStmt", stmts[0])
	}
	if opts.Values["jobs"] != int64(4) && opts.Values["jobs"] != 4 {
		t.Errorf("got jobs=%v (%T)", opts.Values["jobs"], opts.Values["jobs"])
	}
	if opts.Values["trim_fields"] != true {
		t.Errorf("got trim_fields=%v", opts.Values["trim_fields"])
	}
	if opts.Values["delimiter"] != "\t" {
		t.Errorf("got delimiter=%q", opts.Values["delimiter"])
	}
	if _, ok := stmts[1].(*MoveStmt); !ok {
		t.Fatalf("got %T, want *MoveStmt after opts block", stmts[1])
	}
}

func TestParseCompoundAssignment(t *testing.T) {
	stmts := mustParse(t, "$count += 1")
	a, ok := stmts[0].(*AssignStmt)
	if !ok || a.Op != "+=" || a.Name != "count" {
		t.Fatalf("got %+v", stmts[0])
	}
}
