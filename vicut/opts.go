// Package vicut wires buffer, register, vimotion, exsub, program, record,
// format, lineexec, and dsl together behind the CLI described in spec.md
// §6: argument parsing, file/stdin reading, in-place editing, and output
// formatting are all "external collaborator" concerns spec.md deliberately
// leaves unspecified at the core, so this package follows the layout of
// the Rust reference implementation's own Opts/main.rs (_examples/
// original_source) for the flag surface and the two front-ends (CLI flag
// walk vs. standalone `.vic` script) it exposes.
package vicut

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vicut/vicut/program"
)

// Opts holds everything the CLI flag walk (or a script's opts{} prelude)
// can configure. Not every field is reachable from every front end — see
// Run for how CLI flags and a script's Opts() merge.
type Opts struct {
	Delimiter        string
	Template         string
	Jobs             int
	BackupExtension  string
	OutFile          string
	PipeIn           string
	PipeOut          string

	EditInplace           bool
	JSON                  bool
	Trace                 bool
	Linewise              bool
	TrimFields            bool
	KeepMode              bool
	BackupFiles           bool
	Serial                bool
	GlobalUsesLineNumbers bool
	NoInput               bool
	Silent                bool

	ScriptPath string // set when run via the standalone-script front end
	ScriptSrc  string // inline script text, alternative to ScriptPath

	Prog  program.Program // built by the CLI flag walk
	Files []string
}

// ParseArgs parses argv (os.Args[1:]) into an Opts. It implements both CLI
// front ends the Rust reference supports: a flag walk that assembles
// -m/-c/-g/-v/-n/-r into a program.Program directly, and a standalone
// script invocation (`vicut script.vic file...` or `vicut 'dw' -` for an
// inline one-liner) when the first argument isn't a recognized flag.
func ParseArgs(argv []string) (*Opts, error) {
	if len(argv) == 0 {
		return nil, usageErr("no command, file, or script given")
	}
	if isHelpOrVersion(argv[0]) {
		return nil, nil // main.go handles help/version directly
	}

	if !strings.HasPrefix(argv[0], "-") {
		return parseScriptInvocation(argv)
	}
	return parseFlagInvocation(argv)
}

func isHelpOrVersion(a string) bool {
	return a == "--help" || a == "-h" || a == "--version"
}

// parseScriptInvocation handles `vicut <script-or-path> [files...]`: the
// first bare argument is either a path to a `.vic` script file or an
// inline script body, and everything after it is an input file.
func parseScriptInvocation(argv []string) (*Opts, error) {
	o := &Opts{Jobs: 0}
	first := argv[0]
	if looksLikeScriptFile(first) {
		o.ScriptPath = first
	} else {
		o.ScriptSrc = first
	}
	for _, a := range argv[1:] {
		if strings.HasPrefix(a, "-") && a != "-" {
			return nil, usageErr(fmt.Sprintf("unexpected flag %q after a standalone script", a))
		}
		o.Files = append(o.Files, a)
	}
	return o, nil
}

func looksLikeScriptFile(s string) bool {
	return strings.HasSuffix(s, ".vic") || strings.ContainsAny(s, "/\\")
}

// parseFlagInvocation walks the CLI-flag front end, building a
// program.Program from -m/-c/-n/-r/-g/-v as it goes (§6's "CLI flag walk").
func parseFlagInvocation(argv []string) (*Opts, error) {
	o := &Opts{}
	p := &cliParser{args: argv, opts: o}
	insts, err := p.parseList(false)
	if err != nil {
		return nil, err
	}
	o.Prog = program.Program{Insts: insts}
	return o, nil
}

type cliParser struct {
	args []string
	pos  int
	opts *Opts
}

func (p *cliParser) peek() (string, bool) {
	if p.pos >= len(p.args) {
		return "", false
	}
	return p.args[p.pos], true
}

func (p *cliParser) next() (string, bool) {
	a, ok := p.peek()
	if ok {
		p.pos++
	}
	return a, ok
}

// parseList parses a flat run of -m/-c/-n/-r/-g/-v commands. When inBlock
// is true (we're inside a -g/-v body) it stops at --else or --end instead
// of running to the end of argv, letting the caller decide what follows.
func (p *cliParser) parseList(inBlock bool) ([]program.Inst, error) {
	var insts []program.Inst
	for {
		a, ok := p.peek()
		if !ok {
			if inBlock {
				return nil, usageErr("unterminated -g/-v block: expected --else or --end")
			}
			return insts, nil
		}
		if inBlock && (a == "--else" || a == "--end") {
			return insts, nil
		}
		p.pos++
		switch a {
		case "-j", "--json":
			p.opts.JSON = true
		case "--trace":
			p.opts.Trace = true
		case "--linewise":
			p.opts.Linewise = true
		case "--serial":
			p.opts.Serial = true
		case "--trim-fields":
			p.opts.TrimFields = true
		case "--keep-mode":
			p.opts.KeepMode = true
		case "--backup":
			p.opts.BackupFiles = true
		case "--global-uses-line-numbers":
			p.opts.GlobalUsesLineNumbers = true
		case "--silent":
			p.opts.Silent = true
		case "--no-input":
			p.opts.NoInput = true
		case "-i":
			p.opts.EditInplace = true
		case "-t", "--template":
			v, err := p.expectValue(a)
			if err != nil {
				return nil, err
			}
			p.opts.Template = v
		case "-d", "--delimiter":
			v, err := p.expectValue(a)
			if err != nil {
				return nil, err
			}
			p.opts.Delimiter = v
		case "-o", "--output":
			v, err := p.expectValue(a)
			if err != nil {
				return nil, err
			}
			p.opts.OutFile = v
		case "--backup-extension":
			v, err := p.expectValue(a)
			if err != nil {
				return nil, err
			}
			p.opts.BackupExtension = v
		case "--jobs":
			v, err := p.expectValue(a)
			if err != nil {
				return nil, err
			}
			n, convErr := strconv.Atoi(v)
			if convErr != nil {
				return nil, usageErr(fmt.Sprintf("--jobs expects a number, got %q", v))
			}
			p.opts.Jobs = n
		case "--pipe-in":
			v, err := p.expectValue(a)
			if err != nil {
				return nil, err
			}
			p.opts.PipeIn = v
		case "--pipe-out":
			v, err := p.expectValue(a)
			if err != nil {
				return nil, err
			}
			p.opts.PipeOut = v
		case "-n", "--next":
			insts = append(insts, program.Inst{Kind: program.OpNext})
		case "-m", "--move":
			v, err := p.expectCommand(a)
			if err != nil {
				return nil, err
			}
			insts = append(insts, program.Inst{Kind: program.OpMove, Cmd: v})
		case "-c", "--cut":
			inst, err := p.parseCut()
			if err != nil {
				return nil, err
			}
			insts = append(insts, inst)
		case "-r", "--repeat":
			inst, err := p.parseRepeat(insts)
			if err != nil {
				return nil, err
			}
			insts = append(insts, inst)
		case "-g", "--global", "-v", "--not-global":
			globalInsts, err := p.parseGlobal(a == "-g" || a == "--global")
			if err != nil {
				return nil, err
			}
			insts = append(insts, globalInsts...)
		default:
			if strings.HasPrefix(a, "-") {
				return nil, usageErr(fmt.Sprintf("unrecognized flag %q", a))
			}
			p.opts.Files = append(p.opts.Files, a)
		}
	}
}

func (p *cliParser) expectValue(flag string) (string, error) {
	v, ok := p.next()
	if !ok || strings.HasPrefix(v, "-") {
		return "", usageErr(fmt.Sprintf("expected a value after %q", flag))
	}
	return v, nil
}

// expectCommand is like expectValue but allows a leading '-' since Vim
// command strings legitimately start with one (e.g. a count-prefixed
// search offset); only a flag-shaped token immediately following with
// nothing else on the command line would be ambiguous, and callers that
// hit that edge case should quote the command.
func (p *cliParser) expectCommand(flag string) (string, error) {
	v, ok := p.next()
	if !ok {
		return "", usageErr(fmt.Sprintf("expected a command after %q", flag))
	}
	return v, nil
}

func (p *cliParser) parseCut() (program.Inst, error) {
	v, ok := p.next()
	if !ok {
		return program.Inst{}, usageErr("expected a selection command after '-c'")
	}
	if before, fieldName, isNamed := strings.Cut(v, "name="); isNamed && before == "" {
		if fieldName == "0" {
			return program.Inst{}, usageErr("field name '0' is reserved")
		}
		cmdStr, ok := p.next()
		if !ok {
			return program.Inst{}, usageErr("expected a selection command after 'name='")
		}
		return program.Inst{Kind: program.OpCut, Name: fieldName, Cmd: cmdStr}, nil
	}
	return program.Inst{Kind: program.OpCut, Cmd: v}, nil
}

// parseRepeat reads `-r <cmd_count> <repeat_count>` and returns an OpRepeat
// instruction whose window covers the last cmd_count siblings already
// parsed; the caller appends it after those siblings, which stay in place,
// so program.Run executes them once and then replays them repeat_count
// more times.
func (p *cliParser) parseRepeat(already []program.Inst) (program.Inst, error) {
	cmdCountStr, ok := p.next()
	if !ok {
		cmdCountStr = "1"
	}
	cmdCount, err := strconv.Atoi(cmdCountStr)
	if err != nil {
		return program.Inst{}, usageErr(fmt.Sprintf("expected a number after '-r', got %q", cmdCountStr))
	}
	repeatCountStr, ok := p.next()
	if !ok {
		repeatCountStr = "1"
	}
	repeatCount, err := strconv.Atoi(repeatCountStr)
	if err != nil {
		return program.Inst{}, usageErr(fmt.Sprintf("expected a number after '-r %d', got %q", cmdCount, repeatCountStr))
	}
	if cmdCount <= 0 || cmdCount > len(already) {
		return program.Inst{}, usageErr("'-r' command count exceeds the commands given so far")
	}
	return program.Inst{Kind: program.OpRepeat, N: cmdCount, R: repeatCount}, nil
}

// parseGlobal implements -g/-v's recursive block grammar: a pattern
// followed by a body run to the first --else or --end, and an optional
// --else body run to the next --end. program.Inst has no else-arm of its
// own, so a `-g pat body --else elseBody --end` lowers to two sibling
// instructions — OpGlobal{pattern, body} and OpNotGlobal{pattern,
// elseBody} — since on any given line exactly one of the two fires,
// which is the same partition an if/else over the match would produce.
func (p *cliParser) parseGlobal(match bool) ([]program.Inst, error) {
	pattern, ok := p.next()
	if !ok {
		return nil, usageErr("expected a pattern after '-g'/'-v'")
	}
	body, err := p.parseList(true)
	if err != nil {
		return nil, err
	}
	tok, ok := p.next()
	if !ok {
		return nil, usageErr("unterminated -g/-v block: expected --end")
	}
	kind := program.OpGlobal
	if !match {
		kind = program.OpNotGlobal
	}
	inst := program.Inst{Kind: kind, Pattern: pattern, Sub: body}
	switch tok {
	case "--end":
		return []program.Inst{inst}, nil
	case "--else":
		elseBody, err := p.parseList(true)
		if err != nil {
			return nil, err
		}
		if _, ok := p.next(); !ok {
			return nil, usageErr("unterminated --else block: expected --end")
		}
		elseKind := program.OpNotGlobal
		if !match {
			elseKind = program.OpGlobal
		}
		return []program.Inst{inst, {Kind: elseKind, Pattern: pattern, Sub: elseBody}}, nil
	}
	return nil, usageErr(fmt.Sprintf("expected --else or --end, got %q", tok))
}
