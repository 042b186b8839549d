package stage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRun_CopiesLibrary(t *testing.T) {
	sourceDir := t.TempDir()
	targetDir := filepath.Join(t.TempDir(), "deps")
	payload := []byte("not really a shared object")
	if err := os.WriteFile(filepath.Join(sourceDir, LibraryName()), payload, 0o644); err != nil {
		t.Fatalf("write source library: %v", err)
	}

	target, err := Run(Options{SourceDir: sourceDir, TargetDir: targetDir})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read staged library: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("staged content mismatch")
	}
}

func TestRun_MissingSource(t *testing.T) {
	_, err := Run(Options{SourceDir: t.TempDir(), TargetDir: t.TempDir()})
	if err == nil {
		t.Fatalf("expected error for missing library")
	}
}

func TestRun_UnconfiguredDirs(t *testing.T) {
	if _, err := Run(Options{}); err == nil {
		t.Fatalf("expected error for empty options")
	}
	if _, err := Run(Options{SourceDir: "x"}); err == nil {
		t.Fatalf("expected error for missing target dir")
	}
}
