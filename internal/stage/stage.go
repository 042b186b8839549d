// Package stage implements the build step that copies the solver's
// shared native library next to the compiled artifacts, so the analyzer
// binary can load it at run time.
package stage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
)

// Options selects the source build tree and the destination deps
// directory. Empty fields fall back to the conventional layout.
type Options struct {
	// SourceDir is the solver build directory holding the library.
	SourceDir string
	// TargetDir is the deps directory next to the compiled binary.
	TargetDir string
}

// LibraryName returns the platform-specific shared library file name.
func LibraryName() string {
	if runtime.GOOS == "darwin" {
		return "libz3.dylib"
	}
	return "libz3.so"
}

// Run copies the shared library from the source build tree into the
// target deps directory, creating the latter when absent.
func Run(opts Options) (string, error) {
	if opts.SourceDir == "" {
		return "", fmt.Errorf("no solver build directory configured")
	}
	if opts.TargetDir == "" {
		return "", fmt.Errorf("no deps directory configured")
	}
	name := LibraryName()
	source := filepath.Join(opts.SourceDir, name)
	target := filepath.Join(opts.TargetDir, name)
	if err := os.MkdirAll(opts.TargetDir, 0o755); err != nil {
		return "", fmt.Errorf("create deps dir: %w", err)
	}
	if err := copyFile(source, target); err != nil {
		return "", err
	}
	return target, nil
}

func copyFile(source, target string) error {
	in, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("open %s: %w", source, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", source, err)
	}
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", target, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", target, err)
	}
	return nil
}
