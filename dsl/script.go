package dsl

import (
	"github.com/vicut/vicut/record"
	"github.com/vicut/vicut/register"
	"github.com/vicut/vicut/vimotion"
)

// Parse lexes and parses script source into a statement list.
func Parse(src []byte) ([]Stmt, error) {
	p := NewParser(src)
	return p.ParseProgram()
}

// Exec parses and runs script source against ip/regs, feeding captures to
// rb. It returns the evaluated `opts { … }` prelude (empty if the script
// has none) so the CLI front-end can merge script-level options with
// command-line flags.
func Exec(src []byte, ip *vimotion.Interp, regs *register.File, rb *record.Builder, tabWidth int) (map[string]Value, error) {
	stmts, err := Parse(src)
	if err != nil {
		return nil, err
	}
	runner := NewRunner(ip, regs, rb, tabWidth)
	if err := runner.Run(stmts); err != nil {
		return nil, err
	}
	return runner.Opts(), nil
}
