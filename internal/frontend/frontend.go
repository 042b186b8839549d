// Package frontend defines the boundary to the analysis front-end: the
// fixed invocation configuration, the Frontend contract, and the two
// shipped implementations (exec and replay).
package frontend

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"verdict/internal/diag"
)

// Emit selects the front-end's output kind.
type Emit string

// EmitLib is library-style compilation: no entry point required, every
// public item analyzed.
const EmitLib Emit = "lib"

// DefaultCaptureFlags are the analyzer flags required for correct
// message capture: machine-readable records and child notes included.
var DefaultCaptureFlags = []string{"--diag-format=json", "--diag-notes"}

// Config is the fixed per-case configuration handed to the front-end.
// Every field is a value; callers clone it per case and never share
// mutable state through it.
type Config struct {
	// Name is the unit name reported to the front-end.
	Name string
	// Input is the fragment path to analyze.
	Input string
	// Emit is the output kind; the harness always uses EmitLib.
	Emit Emit
	// DebugInfo is the debug-information level (2 for full).
	DebugInfo int
	// OutDir receives all front-end output for this case.
	OutDir string
	// Sysroot locates the toolchain's standard library.
	Sysroot string
	// Flags are analyzer-specific extras appended verbatim.
	Flags []string
	// Sink intercepts diagnostics before default presentation.
	Sink diag.Sink
}

// Args assembles the front-end argument list for this configuration.
func (c Config) Args() []string {
	args := []string{
		"--name", c.Name,
		c.Input,
		"--emit", string(c.Emit),
		"--debuginfo", strconv.Itoa(c.DebugInfo),
		"--out-dir", c.OutDir,
		"--sysroot", c.Sysroot,
	}
	return append(args, c.Flags...)
}

// Frontend runs the analysis front-end synchronously for one fragment.
// Diagnostics go through cfg.Sink when one is installed; a non-nil
// error means the invocation itself could not be carried out, not that
// the fragment had findings.
type Frontend interface {
	Run(ctx context.Context, cfg Config) error
}

// Func adapts a function to the Frontend interface. Tests use it to
// script front-end behavior per fragment.
type Func func(ctx context.Context, cfg Config) error

func (f Func) Run(ctx context.Context, cfg Config) error { return f(ctx, cfg) }

// deliver routes one diagnostic through the sink, falling back to
// default presentation on w when the sink declines it.
func deliver(d diag.Diagnostic, sink diag.Sink, w io.Writer) {
	if sink != nil && sink.Intercept(d) {
		return
	}
	renderDefault(d, w)
}

// renderDefault is the presentation used when no sink cancels it.
func renderDefault(d diag.Diagnostic, w io.Writer) {
	if w == nil {
		return
	}
	fmt.Fprintf(w, "%s: %s\n", d.Severity, d.Message)
	for _, n := range d.Notes {
		fmt.Fprintf(w, "  %s: %s\n", n.Severity, n.Msg)
	}
}
