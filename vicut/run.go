package vicut

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/vicut/vicut/buffer"
	"github.com/vicut/vicut/dsl"
	"github.com/vicut/vicut/exsub"
	"github.com/vicut/vicut/format"
	"github.com/vicut/vicut/lineexec"
	"github.com/vicut/vicut/program"
	"github.com/vicut/vicut/record"
	"github.com/vicut/vicut/register"
	"github.com/vicut/vicut/vimotion"
)

const tabWidth = 8

// Logger is the package-level trace sink, configured by SetupLogging the
// way the teacher's cmd/vi-fighter main does: discarded unless --trace is
// given, in which case it writes to stderr. No code in the module writes
// to it, so --trace produces no output.
var Logger = log.New(io.Discard, "vicut: ", 0)

// SetupLogging points Logger at stderr with file:line context when trace
// is requested, or at io.Discard otherwise, so call sites never need to
// branch on whether tracing is on.
func SetupLogging(trace bool) {
	if trace {
		Logger = log.New(os.Stderr, "vicut: ", log.Ltime|log.Lshortfile)
		return
	}
	Logger = log.New(io.Discard, "vicut: ", 0)
}

// Result is one input's outcome: the text to write back (for -i) and the
// records to format (for stdout output).
type Result struct {
	Text string
	Recs []record.Record
}

// Run executes opts against its inputs (stdin, files, or --no-input) and
// returns the text vicut should write to stdout. In-place edits are
// written to their files as a side effect and are not included in the
// returned string.
func Run(ctx context.Context, opts *Opts) (string, error) {
	SetupLogging(opts.Trace)
	vimotion.SearchFunc = exsub.Search

	if opts.ScriptPath != "" || opts.ScriptSrc != "" {
		return runScript(ctx, opts)
	}

	if opts.NoInput {
		res, err := runOne(opts, "")
		if err != nil {
			return "", err
		}
		return renderResults(opts, []Result{res})
	}

	if opts.Linewise {
		return runLinewise(ctx, opts)
	}

	if len(opts.Files) == 0 {
		text, err := readAll(os.Stdin)
		if err != nil {
			return "", err
		}
		res, err := runOne(opts, text)
		if err != nil {
			return "", err
		}
		return renderResults(opts, []Result{res})
	}

	return runFiles(opts)
}

func readAll(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", errors.Wrap(ioErr(err.Error()), "reading input")
	}
	return string(b), nil
}

// runOne executes opts.Prog once against a fresh interpreter over text,
// the whole-buffer (non-linewise) execution path.
func runOne(opts *Opts, text string) (Result, error) {
	buf := buffer.New(text, tabWidth)
	regs := register.New()
	ip := vimotion.NewInterp(buf, regs)
	rb := record.NewBuilder(opts.TrimFields)

	if err := program.Run(ip, opts.Prog, rb); err != nil {
		return Result{}, errors.Wrap(err, "running program")
	}
	recs := rb.Finish(func() string { return buf.Text() })
	return Result{Text: buf.Text(), Recs: recs}, nil
}

// runScript executes a DSL script instead of a CLI-flag program. The
// script's own opts{} prelude fills in any Opts field the CLI left at its
// zero value; explicit CLI flags always win, since a flag given on the
// invoking command line is a more specific request than a script default.
func runScript(ctx context.Context, opts *Opts) (string, error) {
	src, err := scriptSource(opts)
	if err != nil {
		return "", err
	}

	readInput := func() (string, error) {
		if len(opts.Files) == 0 {
			return readAll(os.Stdin)
		}
		b, err := os.ReadFile(opts.Files[0])
		if err != nil {
			return "", errors.Wrap(ioErr(err.Error()), "reading "+opts.Files[0])
		}
		return string(b), nil
	}
	text, err := readInput()
	if err != nil {
		return "", err
	}

	buf := buffer.New(text, tabWidth)
	regs := register.New()
	ip := vimotion.NewInterp(buf, regs)
	rb := record.NewBuilder(opts.TrimFields)

	scriptOpts, err := dsl.Exec([]byte(src), ip, regs, rb, tabWidth)
	if err != nil {
		return "", errors.Wrap(err, "running script")
	}
	mergeScriptOpts(opts, scriptOpts)

	recs := rb.Finish(func() string { return buf.Text() })
	return renderResults(opts, []Result{{Text: buf.Text(), Recs: recs}})
}

func scriptSource(opts *Opts) (string, error) {
	if opts.ScriptSrc != "" {
		return opts.ScriptSrc, nil
	}
	b, err := os.ReadFile(opts.ScriptPath)
	if err != nil {
		return "", errors.Wrap(ioErr(err.Error()), "reading script "+opts.ScriptPath)
	}
	return string(b), nil
}

func mergeScriptOpts(opts *Opts, scriptOpts map[string]dsl.Value) {
	if opts.Delimiter == "" {
		if v, ok := scriptOpts["delimiter"].(string); ok {
			opts.Delimiter = v
		}
	}
	if opts.Template == "" {
		if v, ok := scriptOpts["template"].(string); ok {
			opts.Template = v
		}
	}
	if !opts.JSON {
		if v, ok := scriptOpts["json"].(bool); ok {
			opts.JSON = v
		}
	}
	if !opts.TrimFields {
		if v, ok := scriptOpts["trim_fields"].(bool); ok {
			opts.TrimFields = v
		}
	}
	if opts.Jobs == 0 {
		if v, ok := scriptOpts["jobs"].(int64); ok {
			opts.Jobs = int(v)
		}
	}
}

// runFiles processes opts.Files one at a time, in argument order, so
// stderr ordering and exit-on-first-error stay deterministic; -i writes
// each file back (with an optional backup) before moving to the next.
func runFiles(opts *Opts) (string, error) {
	var results []Result
	for _, path := range opts.Files {
		text, err := os.ReadFile(path)
		if err != nil {
			return "", errors.Wrap(ioErr(err.Error()), "reading "+path)
		}
		res, err := runOne(opts, string(text))
		if err != nil {
			return "", errors.Wrapf(err, "processing %s", path)
		}
		if opts.EditInplace {
			if err := writeInPlace(path, opts, res.Text); err != nil {
				return "", err
			}
		}
		results = append(results, res)
	}
	if opts.EditInplace {
		return "", nil
	}
	return renderResults(opts, results)
}

// runLinewise drives lineexec.Run over stdin's (or each file's) lines; per
// Open Question (c), multiple files under --linewise + -i get per-file
// parallelism composed with per-line parallelism: each file's worker pool
// fully drains, including its atomic write, before the next file starts.
func runLinewise(ctx context.Context, opts *Opts) (string, error) {
	leOpts := lineexec.Options{Jobs: opts.Jobs, Serial: opts.Serial, Trim: opts.TrimFields, TabWidth: tabWidth}

	runLines := func(lines []string) ([]record.Record, error) {
		var all []record.Record
		var mergeErr error
		sink := func(_ int, recs []record.Record) error {
			all = append(all, recs...)
			return nil
		}
		if err := lineexec.Run(ctx, lines, opts.Prog, leOpts, sink); err != nil {
			mergeErr = err
		}
		return all, mergeErr
	}

	if len(opts.Files) == 0 {
		text, err := readAll(os.Stdin)
		if err != nil {
			return "", err
		}
		recs, err := runLines(splitLines(text))
		if err != nil {
			return "", errors.Wrap(err, "running linewise")
		}
		return renderResults(opts, []Result{{Recs: recs}})
	}

	var results []Result
	for _, path := range opts.Files {
		text, err := os.ReadFile(path)
		if err != nil {
			return "", errors.Wrap(ioErr(err.Error()), "reading "+path)
		}
		lines := splitLines(string(text))
		recs, err := runLines(lines)
		if err != nil {
			return "", errors.Wrapf(err, "processing %s", path)
		}
		if opts.EditInplace {
			if err := writeInPlace(path, opts, string(text)); err != nil {
				return "", err
			}
		}
		results = append(results, Result{Recs: recs})
	}
	if opts.EditInplace {
		return "", nil
	}
	return renderResults(opts, results)
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, text[start:i])
			start = i + 1
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

// writeInPlace backs up (if requested) and atomically replaces path's
// contents, matching the out-of-scope "atomic file writing and backup
// creation" collaborator spec.md names — vicut is that collaborator.
func writeInPlace(path string, opts *Opts, text string) error {
	if opts.BackupFiles {
		ext := opts.BackupExtension
		if ext == "" {
			ext = "bak"
		}
		backupPath := path + "." + ext
		orig, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrap(ioErr(err.Error()), "reading "+path+" for backup")
		}
		if err := os.WriteFile(backupPath, orig, 0o644); err != nil {
			return errors.Wrap(ioErr(err.Error()), "writing backup "+backupPath)
		}
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".vicut-*")
	if err != nil {
		return errors.Wrap(ioErr(err.Error()), "creating temp file for "+path)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Wrap(ioErr(err.Error()), "writing temp file for "+path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(ioErr(err.Error()), "closing temp file for "+path)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(ioErr(err.Error()), "replacing "+path)
	}
	return nil
}

func renderResults(opts *Opts, results []Result) (string, error) {
	if opts.Silent {
		return "", nil
	}
	var all []record.Record
	for _, r := range results {
		all = append(all, r.Recs...)
	}
	fopts := format.Options{Delimiter: opts.Delimiter, Template: opts.Template}
	switch {
	case opts.JSON:
		fopts.Kind = format.JSON
	case opts.Template != "":
		fopts.Kind = format.Templated
	default:
		fopts.Kind = format.Delimited
		if fopts.Delimiter == "" {
			fopts.Delimiter = "\t"
		}
	}
	out, err := format.Render(all, fopts)
	if err != nil {
		return "", errors.Wrap(err, "formatting output")
	}
	return out, nil
}
