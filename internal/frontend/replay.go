package frontend

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"verdict/internal/diag"
)

// Current schema version - increment when Transcript format changes.
const transcriptSchema uint16 = 1

// TranscriptExt is the file extension of recorded diagnostic streams.
const TranscriptExt = ".diag"

// Transcript is the recorded diagnostic stream of one fragment,
// serialized with msgpack so suites can be replayed without the
// analyzer toolchain installed.
type Transcript struct {
	// Schema version for safe invalidation when the format changes.
	Schema uint16

	// Input is the fragment path the stream was recorded from.
	Input string

	// Diagnostics in production order.
	Diagnostics []diag.Diagnostic
}

// TranscriptPath returns the transcript file for input inside dir.
func TranscriptPath(dir, input string) string {
	return filepath.Join(dir, filepath.Base(input)+TranscriptExt)
}

// WriteTranscript serializes t next to its siblings in dir.
func WriteTranscript(dir string, t *Transcript) (string, error) {
	t.Schema = transcriptSchema
	payload, err := msgpack.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("encode transcript: %w", err)
	}
	path := TranscriptPath(dir, t.Input)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}
	return path, nil
}

// ReadTranscript loads and validates one transcript file.
func ReadTranscript(path string) (*Transcript, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var t Transcript
	if err := msgpack.Unmarshal(payload, &t); err != nil {
		return nil, fmt.Errorf("decode transcript %s: %w", path, err)
	}
	if t.Schema != transcriptSchema {
		return nil, fmt.Errorf("transcript %s: schema %d, want %d", path, t.Schema, transcriptSchema)
	}
	return &t, nil
}

// Replay serves recorded diagnostic streams from Dir instead of
// invoking the analyzer. A fragment without a transcript replays as a
// clean run (zero diagnostics).
type Replay struct {
	Dir string
}

func (r *Replay) Run(ctx context.Context, cfg Config) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t, err := ReadTranscript(TranscriptPath(r.Dir, cfg.Input))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, d := range t.Diagnostics {
		deliver(d, cfg.Sink, os.Stderr)
	}
	return nil
}
