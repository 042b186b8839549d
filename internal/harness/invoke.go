package harness

import (
	"context"
	"fmt"

	"fortio.org/safecast"

	"verdict/internal/diag"
	"verdict/internal/expect"
	"verdict/internal/frontend"
)

// Result is the outcome of one isolated invocation.
type Result struct {
	Case Case
	// Code is 0 on success, 1 on any failure.
	Code int
	// Reason explains a failure; nil when Code is 0.
	Reason error
}

// Invoke runs a single case: it assembles the fixed front-end
// configuration, buffers the diagnostic stream through a sink that
// cancels default presentation, and evaluates the buffer against the
// fragment's expectations.
//
// The front-end call and the matching both execute under a fault
// boundary: a panic anywhere inside becomes a failure Result for this
// case only. The returned error is reserved for setup problems
// (unreadable fragment, bad limits) and aborts the whole run.
func Invoke(ctx context.Context, fe frontend.Frontend, c Case, sysroot string, opts *Options) (Result, error) {
	marker := opts.marker()
	maxDiags, err := safecast.Conv[uint16](opts.maxDiagnostics())
	if err != nil {
		return Result{}, fmt.Errorf("max diagnostics overflow: %w", err)
	}

	// Expectations are parsed before the fault boundary: an unreadable
	// fragment is an environment error, not a finding about the case.
	set, err := expect.LoadWithMarker(c.Fragment, marker)
	if err != nil {
		return Result{}, fmt.Errorf("fragment %s: %w", c.Fragment, err)
	}

	res := Result{Case: c}
	res.Code, res.Reason = invokeIsolated(ctx, fe, c, sysroot, set, maxDiags, opts.captureFlags())
	return res, nil
}

// invokeIsolated is the crash-isolated step. Abnormal termination of
// the front-end or the matcher is demoted to this case's failure and
// must not reach sibling cases.
func invokeIsolated(ctx context.Context, fe frontend.Frontend, c Case, sysroot string, set *expect.Set, maxDiags uint16, flags []string) (code int, reason error) {
	defer func() {
		if r := recover(); r != nil {
			code = 1
			reason = fmt.Errorf("panic during analysis: %v", r)
		}
	}()

	bag := diag.NewBag(maxDiags)
	cfg := frontend.Config{
		Name:      "verdict",
		Input:     c.Fragment,
		Emit:      frontend.EmitLib,
		DebugInfo: 2,
		OutDir:    c.OutDir,
		Sysroot:   sysroot,
		Flags:     flags,
		Sink:      diag.BagSink{Bag: bag},
	}
	if err := fe.Run(ctx, cfg); err != nil {
		return 1, fmt.Errorf("front-end: %w", err)
	}
	// A truncated buffer cannot be matched: any record dropped past the
	// limit would otherwise vanish before the verdict.
	if n := bag.Dropped(); n > 0 {
		return 1, fmt.Errorf("diagnostic limit %d exceeded: %d records dropped", maxDiags, n)
	}
	if err := set.Check(bag.Items()); err != nil {
		return 1, err
	}
	return 0, nil
}
