package frontend

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"verdict/internal/diag"
)

// Exec invokes the analyzer binary as a subprocess. The analyzer writes
// one JSON diagnostic record per stdout line; each record is routed
// through the configured sink before default presentation.
type Exec struct {
	// Bin is the analyzer executable path.
	Bin string
	// Stderr receives the analyzer's own stderr plus any diagnostics
	// the sink declined. Defaults to os.Stderr.
	Stderr io.Writer
}

func (e *Exec) stderr() io.Writer {
	if e.Stderr != nil {
		return e.Stderr
	}
	return os.Stderr
}

// Run spawns the analyzer for one fragment and consumes its diagnostic
// stream. A nonzero analyzer exit with a clean stream is a normal
// completion: findings travel as diagnostics, the exit status is not
// the signal. Failures to start, read, or decode are errors, as is an
// analyzer killed by a signal.
func (e *Exec) Run(ctx context.Context, cfg Config) error {
	if e.Bin == "" {
		return errors.New("no analyzer binary configured")
	}

	cmd := exec.CommandContext(ctx, e.Bin, cfg.Args()...)
	cmd.Stderr = e.stderr()
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("pipe analyzer stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start analyzer %s: %w", e.Bin, err)
	}

	streamErr := consumeStream(stdout, cfg.Sink, e.stderr())

	waitErr := cmd.Wait()
	if streamErr != nil {
		return streamErr
	}
	var exit *exec.ExitError
	if errors.As(waitErr, &exit) {
		// A signal death is a crash, not a verdict: the stream may have
		// been cut mid-report even if every captured line decoded.
		if !exit.Exited() {
			return fmt.Errorf("analyzer %s terminated abnormally: %w", e.Bin, waitErr)
		}
		// Findings already arrived through the stream.
		return nil
	}
	if waitErr != nil {
		return fmt.Errorf("analyzer %s: %w", e.Bin, waitErr)
	}
	return nil
}

// consumeStream decodes JSON diagnostic records line by line and
// delivers each through the sink. Blank lines are tolerated; anything
// undecodable aborts the stream.
func consumeStream(r io.Reader, sink diag.Sink, stderr io.Writer) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var d diag.Diagnostic
		if err := json.Unmarshal([]byte(line), &d); err != nil {
			return fmt.Errorf("decode diagnostic record %q: %w", line, err)
		}
		deliver(d, sink, stderr)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read diagnostic stream: %w", err)
	}
	return nil
}
