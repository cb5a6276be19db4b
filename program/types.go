// Package program implements the compiled instruction list (§4.5) that the
// CLI flag walk produces and that the interpreter in vimotion.Interp
// executes, feeding captured fields to a record.Builder. The DSL front end
// does not build a Program; it interprets its AST directly.
package program

// OpKind names one instruction in a Program.
type OpKind int

const (
	OpCut       OpKind = iota // execute Cmd, append a field with the captured span
	OpMove                    // execute Cmd, no field emitted
	OpNormal                  // like OpMove, replayed over every line in [RangeStart,RangeEnd]
	OpNext                    // close the current record, start a new one
	OpRepeat                  // re-execute the last N sibling instructions, R times
	OpGlobal                  // for each buffer line matching Pattern, run Sub
	OpNotGlobal               // same, on non-matching lines
)

// Inst is one instruction. Only the fields relevant to Kind are populated;
// the rest are the zero value.
type Inst struct {
	Kind OpKind

	Name string // OpCut: explicit field name, "" for positional field_N
	Cmd  string // OpCut/OpMove/OpNormal: the vim command string to run

	RangeStart int // OpNormal: first line (0-based), -1 means current line only
	RangeEnd   int // OpNormal: last line (0-based), inclusive

	N int // OpRepeat: how many preceding sibling instructions to replay
	R int // OpRepeat: how many times to replay them

	Pattern string // OpGlobal/OpNotGlobal: the line-matching pattern
	Sub     []Inst // OpGlobal/OpNotGlobal: the nested program to run per matching line
}

// Program is the ordered top-level instruction list built by the CLI flag
// walk.
type Program struct {
	Insts []Inst
}
