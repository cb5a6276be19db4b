// Command vicut runs a Vim-grammar command program or script over stdin or
// a list of files, extracting and formatting the resulting fields.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"

	"github.com/vicut/vicut/vicut"
)

const usage = `usage:
  vicut [flags] [files...]
  vicut <script.vic|'script text'> [files...]

flags:
  -m, --move <cmd>          move the cursor without capturing a field
  -c, --cut [name=X] <cmd>  capture a field, optionally named
  -n, --next                close the current record and start a new one
  -r, --repeat <N> <R>      repeat the last N commands R times
  -g, --global <pat> ... --else ... --end
  -v, --not-global <pat> ... --else ... --end
  -d, --delimiter <sep>     delimiter for the default output format
  -t, --template <tmpl>     "{{name}}" output template
  -j, --json                emit JSON instead of delimited/templated text
  -o, --output <file>       write output to a file instead of stdout
  -i                        edit files in place
  --backup                  with -i, keep a backup before editing
  --backup-extension <ext>  backup file suffix (default "bak")
  --linewise                run the program once per input line
  --serial                  disable worker parallelism under --linewise
  --jobs <N>                worker pool size under --linewise
  --trim-fields             trim leading/trailing whitespace from captures
  --global-uses-line-numbers
  --no-input                run without reading any input
  --silent                  suppress output
  --trace                   point the trace logger at stderr (no trace lines are written)
  --help, --version
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	if len(argv) == 0 || argv[0] == "--help" || argv[0] == "-h" {
		fmt.Fprint(os.Stderr, usage)
		if len(argv) == 0 {
			return 2
		}
		return 0
	}
	if argv[0] == "--version" {
		fmt.Println("vicut 0.1.0")
		return 0
	}

	fail := func(err error) int {
		kind := "InternalError"
		if kp, ok := errors.Cause(err).(interface{ ErrorKind() string }); ok {
			kind = kp.ErrorKind()
		}
		fmt.Fprintf(os.Stderr, "vicut: %s: %v\n", kind, err)
		return vicut.ExitCode(err)
	}

	opts, err := vicut.ParseArgs(argv)
	if err != nil {
		return fail(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	out, err := vicut.Run(ctx, opts)
	if err != nil {
		return fail(err)
	}

	if opts.OutFile != "" {
		if writeErr := os.WriteFile(opts.OutFile, []byte(out), 0o644); writeErr != nil {
			return fail(writeErr)
		}
		return 0
	}
	if out != "" {
		fmt.Println(out)
	}
	return 0
}
