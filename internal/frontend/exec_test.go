package frontend

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"

	"verdict/internal/diag"
)

// writeFakeAnalyzer installs a shell script that ignores its arguments
// and prints the given stdout payload, exiting with code.
func writeFakeAnalyzer(t *testing.T, stdout string, code int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake analyzer script requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "analyzer")
	script := "#!/bin/sh\ncat <<'EOF'\n" + stdout + "EOF\nexit " + strconv.Itoa(code) + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake analyzer: %v", err)
	}
	return path
}

func TestExec_RunCapturesStream(t *testing.T) {
	bin := writeFakeAnalyzer(t, `{"severity":"error","message":"use of moved value"}
`, 1)

	bag := diag.NewBag(8)
	fe := &Exec{Bin: bin, Stderr: &bytes.Buffer{}}
	cfg := Config{
		Name:      "verdict",
		Input:     "fragment.src",
		Emit:      EmitLib,
		DebugInfo: 2,
		Sink:      diag.BagSink{Bag: bag},
	}
	if err := fe.Run(context.Background(), cfg); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if bag.Len() != 1 || bag.Items()[0].Message != "use of moved value" {
		t.Fatalf("stream not captured: %+v", bag.Items())
	}
}

func TestExec_NonzeroExitIsNotAnError(t *testing.T) {
	bin := writeFakeAnalyzer(t, "", 1)
	fe := &Exec{Bin: bin, Stderr: &bytes.Buffer{}}
	if err := fe.Run(context.Background(), Config{Input: "x.src", Emit: EmitLib}); err != nil {
		t.Fatalf("nonzero exit with clean stream must not error: %v", err)
	}
}

func TestExec_SignalDeathIsAnError(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("signal delivery requires a POSIX shell")
	}
	// The stream is clean up to the kill: without the exit-status check
	// a crashed analyzer would read as a completed run.
	path := filepath.Join(t.TempDir(), "analyzer")
	script := "#!/bin/sh\n" +
		`echo '{"severity":"error","message":"use of moved value"}'` + "\n" +
		"kill -SEGV $$\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake analyzer: %v", err)
	}

	bag := diag.NewBag(8)
	fe := &Exec{Bin: path, Stderr: &bytes.Buffer{}}
	err := fe.Run(context.Background(), Config{Input: "x.src", Emit: EmitLib, Sink: diag.BagSink{Bag: bag}})
	if err == nil {
		t.Fatalf("analyzer killed by signal must be reported as an error")
	}
	if !strings.Contains(err.Error(), "terminated abnormally") {
		t.Fatalf("err = %v", err)
	}
}

func TestExec_MissingBinary(t *testing.T) {
	fe := &Exec{Bin: filepath.Join(t.TempDir(), "no-such-analyzer"), Stderr: &bytes.Buffer{}}
	if err := fe.Run(context.Background(), Config{Input: "x.src", Emit: EmitLib}); err == nil {
		t.Fatalf("expected start error for missing binary")
	}
}

func TestExec_NoBinaryConfigured(t *testing.T) {
	fe := &Exec{Stderr: &bytes.Buffer{}}
	if err := fe.Run(context.Background(), Config{Input: "x.src"}); err == nil {
		t.Fatalf("expected error when no binary configured")
	}
}
