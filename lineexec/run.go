// Package lineexec implements the linewise concurrency regime (§4.7, §5):
// partition input into lines, run the compiled program against a fresh
// buffer per line under a bounded worker pool, and reassemble results in
// input order regardless of scheduling.
package lineexec

import (
	"context"
	"runtime"

	"github.com/gammazero/workerpool"
	"golang.org/x/sync/errgroup"

	"github.com/vicut/vicut/buffer"
	"github.com/vicut/vicut/program"
	"github.com/vicut/vicut/record"
	"github.com/vicut/vicut/register"
	"github.com/vicut/vicut/vimotion"
)

// Options configures Run.
type Options struct {
	Jobs     int  // worker pool size; <=0 means hardware parallelism
	Serial   bool // force a single worker, overriding Jobs
	Trim     bool // record.NewBuilder's trim_fields policy
	TabWidth int
}

func workerCount(opts Options) int {
	if opts.Serial {
		return 1
	}
	if opts.Jobs > 0 {
		return min(opts.Jobs, runtime.NumCPU())
	}
	return runtime.NumCPU()
}

// Run executes prog against every line independently and calls sink once
// per line, strictly in input order, via a Collector. Workers share no
// mutable state during program execution — each gets its own buffer,
// register file, and interpreter — so the only synchronization is the
// Collector's mutex. If ctx is canceled or any line errors, Run stops
// dispatching new work and returns the first error.
func Run(ctx context.Context, lines []string, prog program.Program, opts Options, sink func(index int, recs []record.Record) error) error {
	wp := workerpool.New(workerCount(opts))
	defer wp.StopWait()

	g, gctx := errgroup.WithContext(ctx)
	collector := NewCollector(sink)

	for i, line := range lines {
		i, line := i, line
		g.Go(func() error {
			result := make(chan error, 1)
			wp.Submit(func() {
				if gctx.Err() != nil {
					result <- gctx.Err()
					return
				}
				recs, err := runLine(line, prog, opts)
				if err != nil {
					result <- err
					return
				}
				result <- collector.Submit(i, recs)
			})
			return <-result
		})
	}
	return g.Wait()
}

func runLine(line string, prog program.Program, opts Options) ([]record.Record, error) {
	buf := buffer.New(line, opts.TabWidth)
	ip := vimotion.NewInterp(buf, register.New())
	rb := record.NewBuilder(opts.Trim)
	if err := program.Run(ip, prog, rb); err != nil {
		return nil, err
	}
	return rb.Finish(func() string { return buf.Text() }), nil
}
