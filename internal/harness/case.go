// Package harness discovers test cases, runs each fragment through the
// analysis front-end in isolation, and aggregates the suite verdict
// across a worker pool.
package harness

import (
	"fmt"
	"os"
	"path/filepath"
)

// Case is one unit of work: a fragment file plus the fresh output
// directory the front-end writes into. A case is owned exclusively by
// the worker that runs it; no case state is visible to any other case.
type Case struct {
	// Fragment is the path of the file to analyze.
	Fragment string
	// OutDir is a process-unique directory created for this case only.
	OutDir string
}

// Discover enumerates the immediate file entries of dir (subdirectories
// are ignored) and allocates a fresh temporary root per case, with a
// subdirectory named after the fragment file as the case's output
// directory. Any failure here is a setup error that aborts the run.
func Discover(dir string) ([]Case, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read suite directory %s: %w", dir, err)
	}
	var cases []Case
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		tmp, err := os.MkdirTemp("", "verdictTest")
		if err != nil {
			return nil, fmt.Errorf("create temp dir for %s: %w", entry.Name(), err)
		}
		outDir := filepath.Join(tmp, entry.Name())
		if err := os.Mkdir(outDir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir for %s: %w", entry.Name(), err)
		}
		cases = append(cases, Case{
			Fragment: filepath.Join(dir, entry.Name()),
			OutDir:   outDir,
		})
	}
	return cases, nil
}
