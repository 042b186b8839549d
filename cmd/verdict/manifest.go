package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type suiteManifest struct {
	Path   string
	Root   string
	Config manifestConfig
}

type manifestConfig struct {
	Suite    suiteSection    `toml:"suite"`
	Frontend frontendSection `toml:"frontend"`
	Stage    stageSection    `toml:"stage"`
}

type suiteSection struct {
	Dir    string `toml:"dir"`
	Marker string `toml:"marker"`
}

type frontendSection struct {
	Bin   string   `toml:"bin"`
	Flags []string `toml:"flags"`
}

type stageSection struct {
	Source string `toml:"source"`
	Target string `toml:"target"`
}

func findVerdictToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "verdict.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadSuiteManifest(startDir string) (*suiteManifest, bool, error) {
	manifestPath, ok, err := findVerdictToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	var cfg manifestConfig
	if _, err := toml.DecodeFile(manifestPath, &cfg); err != nil {
		return nil, true, fmt.Errorf("%s: failed to parse TOML: %w", manifestPath, err)
	}
	return &suiteManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

// suiteDir resolves the suite directory relative to the manifest root
// when the manifest provides one.
func (m *suiteManifest) suiteDir() string {
	if m == nil || m.Config.Suite.Dir == "" {
		return ""
	}
	if filepath.IsAbs(m.Config.Suite.Dir) {
		return m.Config.Suite.Dir
	}
	return filepath.Join(m.Root, m.Config.Suite.Dir)
}
