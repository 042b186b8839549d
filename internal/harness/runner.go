package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"verdict/internal/expect"
	"verdict/internal/frontend"
)

// Options configures a suite run.
type Options struct {
	// Frontend is the analysis front-end invoked per case.
	Frontend frontend.Frontend
	// Sysroot is resolved once and cloned read-only into every case.
	Sysroot string
	// Marker overrides the expectation annotation (default "//~").
	Marker string
	// Jobs caps the worker pool (0 = available parallelism).
	Jobs int
	// MaxDiagnostics bounds the per-case diagnostic buffer.
	MaxDiagnostics int
	// ExtraFlags are analyzer flags appended after the capture flags.
	ExtraFlags []string
	// Out receives per-case failure reports (default os.Stdout).
	Out io.Writer
	// Events observes case transitions; may be nil.
	Events EventSink
}

const defaultMaxDiagnostics = 512

func (o *Options) marker() string {
	if o == nil || o.Marker == "" {
		return expect.DefaultMarker
	}
	return o.Marker
}

func (o *Options) maxDiagnostics() int {
	if o == nil || o.MaxDiagnostics <= 0 {
		return defaultMaxDiagnostics
	}
	return o.MaxDiagnostics
}

func (o *Options) captureFlags() []string {
	flags := make([]string, 0, len(frontend.DefaultCaptureFlags))
	flags = append(flags, frontend.DefaultCaptureFlags...)
	if o != nil {
		flags = append(flags, o.ExtraFlags...)
	}
	return flags
}

func (o *Options) out() io.Writer {
	if o == nil || o.Out == nil {
		return os.Stdout
	}
	return o.Out
}

func (o *Options) emit(evt Event) {
	if o != nil && o.Events != nil {
		o.Events.OnEvent(evt)
	}
}

// Run discovers the cases under dir and executes them across the pool.
// The returned count is the number of failed cases; the suite succeeded
// iff it is exactly 0. A non-nil error is a setup error: nothing about
// any individual case, the run itself could not proceed.
func Run(ctx context.Context, dir string, opts *Options) (int, error) {
	cases, err := Discover(dir)
	if err != nil {
		return 0, err
	}
	return RunCases(ctx, cases, opts)
}

// RunCases fans cases out across a fixed worker pool. Each worker keeps
// a local failure sum; the partial sums are reduced once at the end, so
// the total is independent of case order and worker assignment.
func RunCases(ctx context.Context, cases []Case, opts *Options) (int, error) {
	if opts == nil || opts.Frontend == nil {
		return 0, errors.New("no front-end configured")
	}
	if len(cases) == 0 {
		return 0, nil
	}

	jobs := runtime.GOMAXPROCS(0)
	if opts.Jobs > 0 {
		jobs = opts.Jobs
	}
	jobs = min(jobs, len(cases))

	queue := make(chan Case)
	partials := make([]int, jobs)

	// Failure reports from workers interleave without this.
	var outMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(queue)
		for _, c := range cases {
			select {
			case queue <- c:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < jobs; w++ {
		w := w
		g.Go(func() error {
			sum := 0
			for c := range queue {
				opts.emit(Event{Path: c.Fragment, Status: StatusRunning})

				res, err := Invoke(gctx, opts.Frontend, c, opts.Sysroot, opts)
				if err != nil {
					// Setup error: abort the whole run.
					partials[w] = sum
					return err
				}
				if res.Code != 0 {
					sum += res.Code
					outMu.Lock()
					fmt.Fprintf(opts.out(), "%s failed\n", c.Fragment)
					if res.Reason != nil {
						fmt.Fprintf(opts.out(), "  %v\n", res.Reason)
					}
					outMu.Unlock()
					opts.emit(Event{Path: c.Fragment, Status: StatusFailed})
				} else {
					opts.emit(Event{Path: c.Fragment, Status: StatusPassed})
				}
			}
			partials[w] = sum
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	failed := 0
	for _, p := range partials {
		failed += p
	}
	return failed, nil
}
