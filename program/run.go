package program

import (
	"github.com/vicut/vicut/buffer"
	"github.com/vicut/vicut/exsub"
	"github.com/vicut/vicut/record"
	"github.com/vicut/vicut/vimotion"
)

// Run executes prog against ip, feeding captured fields to rb. Repeats are
// resolved by re-invoking execList on a trailing slice of the instructions
// already present in the caller's slice, so nested repeats (a Repeat whose
// replayed window contains another Repeat) unroll correctly by construction
// rather than needing a separate flattening pass.
func Run(ip *vimotion.Interp, prog Program, rb *record.Builder) error {
	return execList(ip, prog.Insts, rb)
}

func execList(ip *vimotion.Interp, insts []Inst, rb *record.Builder) error {
	for i, inst := range insts {
		switch inst.Kind {
		case OpCut:
			res, err := ip.Exec(inst.Cmd)
			if err != nil {
				return wrapAt(err, i)
			}
			if res.Captures {
				rb.Cut(inst.Name, res.Captured)
			}
		case OpMove:
			if _, err := ip.Exec(inst.Cmd); err != nil {
				return wrapAt(err, i)
			}
		case OpNormal:
			if err := execNormal(ip, inst); err != nil {
				return wrapAt(err, i)
			}
		case OpNext:
			rb.Next()
		case OpRepeat:
			if inst.N <= 0 || inst.N > i {
				return newError(KindInvalidRepeat, i, "repeat window exceeds the instructions available at this nesting level")
			}
			window := insts[i-inst.N : i]
			for r := 0; r < inst.R; r++ {
				if err := execList(ip, window, rb); err != nil {
					return err
				}
			}
		case OpGlobal:
			if err := execGlobal(ip, inst, rb, true); err != nil {
				return wrapAt(err, i)
			}
		case OpNotGlobal:
			if err := execGlobal(ip, inst, rb, false); err != nil {
				return wrapAt(err, i)
			}
		}
	}
	return nil
}

// execNormal replays Cmd over every line in [RangeStart,RangeEnd], or just
// the cursor's current line when RangeStart is negative, backing the
// ex `:[range] normal! <keys>` supplement.
func execNormal(ip *vimotion.Interp, inst Inst) error {
	start, end := inst.RangeStart, inst.RangeEnd
	if start < 0 {
		ln := ip.Buf.Cursor().Line
		start, end = ln, ln
	}
	for ln := start; ln <= end && ln < ip.Buf.LineCount(); ln++ {
		ip.Buf.MoveCursor(buffer.Pos{Line: ln, Col: 0}, false)
		if _, err := ip.Exec(inst.Cmd); err != nil {
			return err
		}
	}
	return nil
}

func execGlobal(ip *vimotion.Interp, inst Inst, rb *record.Builder, wantMatch bool) error {
	re, err := exsub.CompilePattern(inst.Pattern, exsub.Flags{})
	if err != nil {
		return err
	}
	for ln := 0; ln < ip.Buf.LineCount(); ln++ {
		matched, _ := re.MatchString(ip.Buf.LineText(ln))
		if matched != wantMatch {
			continue
		}
		ip.Buf.MoveCursor(buffer.Pos{Line: ln, Col: 0}, false)
		if err := execList(ip, inst.Sub, rb); err != nil {
			return err
		}
	}
	return nil
}
