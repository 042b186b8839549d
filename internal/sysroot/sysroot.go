// Package sysroot resolves the toolchain installation path the
// analysis front-end needs to locate its standard library. The path is
// resolved once per run and handed to every case as an immutable
// string.
package sysroot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// EnvOverride short-circuits resolution when set.
const EnvOverride = "VERDICT_SYSROOT"

// Resolve returns the system root. The environment override wins;
// otherwise the analyzer binary itself is asked via `--print sysroot`.
func Resolve(ctx context.Context, bin string) (string, error) {
	if root := strings.TrimSpace(os.Getenv(EnvOverride)); root != "" {
		return root, nil
	}
	if bin == "" {
		return "", errors.New("cannot resolve sysroot: no analyzer binary and " + EnvOverride + " unset")
	}
	out, err := exec.CommandContext(ctx, bin, "--print", "sysroot").Output()
	if err != nil {
		return "", fmt.Errorf("query %s for sysroot: %w", bin, err)
	}
	root := strings.TrimSpace(string(out))
	if root == "" {
		return "", fmt.Errorf("%s reported an empty sysroot", bin)
	}
	return root, nil
}
