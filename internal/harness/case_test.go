package harness

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiscover_FilesOnlyWithFreshOutDirs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.src", "b.src"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("fn main() {}\n"), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	cases, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(cases) != 2 {
		t.Fatalf("expected 2 cases (subdirectory ignored), got %d", len(cases))
	}

	seen := map[string]bool{}
	for _, c := range cases {
		info, err := os.Stat(c.OutDir)
		if err != nil || !info.IsDir() {
			t.Fatalf("output dir %s not created: %v", c.OutDir, err)
		}
		if got, want := filepath.Base(c.OutDir), filepath.Base(c.Fragment); got != want {
			t.Fatalf("output dir %q not named after fragment %q", got, want)
		}
		if seen[c.OutDir] {
			t.Fatalf("output dir %s reused across cases", c.OutDir)
		}
		seen[c.OutDir] = true

		entries, err := os.ReadDir(c.OutDir)
		if err != nil {
			t.Fatalf("read output dir: %v", err)
		}
		if len(entries) != 0 {
			t.Fatalf("output dir %s not empty", c.OutDir)
		}
	}
}

func TestDiscover_UnreadableDirIsSetupError(t *testing.T) {
	if _, err := Discover(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected setup error for unreadable directory")
	}
}

func TestDiscover_EmptyDir(t *testing.T) {
	cases, err := Discover(t.TempDir())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(cases) != 0 {
		t.Fatalf("expected no cases, got %d", len(cases))
	}
}
