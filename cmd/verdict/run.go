package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"verdict/internal/expect"
	"verdict/internal/frontend"
	"verdict/internal/harness"
	"verdict/internal/observ"
	"verdict/internal/sysroot"
)

var runCmd = &cobra.Command{
	Use:   "run [dir]",
	Short: "Run the golden diagnostics suite",
	Long:  `Run every fragment in the suite directory through the analysis front-end in parallel and verify the captured diagnostics against the fragments' inline expectations`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSuite,
}

func init() {
	runCmd.Flags().String("bin", "", "analyzer binary (overrides verdict.toml)")
	runCmd.Flags().String("marker", "", `expectation marker (default "`+expect.DefaultMarker+`")`)
	runCmd.Flags().String("replay", "", "serve recorded transcripts from this directory instead of invoking the analyzer")
	runCmd.Flags().Bool("no-ui", false, "disable the live progress display")
}

func runSuite(cmd *cobra.Command, args []string) error {
	colorMode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	applyColorMode(colorMode)

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	jobs, err := cmd.Root().PersistentFlags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	bin, err := cmd.Flags().GetString("bin")
	if err != nil {
		return fmt.Errorf("failed to get bin flag: %w", err)
	}
	marker, err := cmd.Flags().GetString("marker")
	if err != nil {
		return fmt.Errorf("failed to get marker flag: %w", err)
	}
	replayDir, err := cmd.Flags().GetString("replay")
	if err != nil {
		return fmt.Errorf("failed to get replay flag: %w", err)
	}
	noUI, err := cmd.Flags().GetBool("no-ui")
	if err != nil {
		return fmt.Errorf("failed to get no-ui flag: %w", err)
	}

	manifest, _, err := loadSuiteManifest(".")
	if err != nil {
		return err
	}

	dir := "tests/run-pass"
	if m := manifest.suiteDir(); m != "" {
		dir = m
	}
	if len(args) == 1 {
		dir = args[0]
	}
	if marker == "" && manifest != nil {
		marker = manifest.Config.Suite.Marker
	}

	timer := observ.NewTimer()

	var fe frontend.Frontend
	var extraFlags []string
	var root string
	if replayDir != "" {
		fe = &frontend.Replay{Dir: replayDir}
		// Replay never touches the toolchain; the recorded streams
		// already reflect whatever sysroot was active.
		root = os.Getenv(sysroot.EnvOverride)
	} else {
		if bin == "" && manifest != nil {
			bin = manifest.Config.Frontend.Bin
		}
		if bin == "" {
			return fmt.Errorf("no analyzer binary: pass --bin or set frontend.bin in verdict.toml")
		}
		if manifest != nil {
			extraFlags = manifest.Config.Frontend.Flags
		}
		fe = &frontend.Exec{Bin: bin}

		idx := timer.Begin("sysroot")
		root, err = sysroot.Resolve(cmd.Context(), bin)
		timer.End(idx, root)
		if err != nil {
			return err
		}
	}

	idx := timer.Begin("discover")
	cases, err := harness.Discover(dir)
	timer.End(idx, fmt.Sprintf("%d cases", len(cases)))
	if err != nil {
		return err
	}

	opts := &harness.Options{
		Frontend:       fe,
		Sysroot:        root,
		Marker:         marker,
		Jobs:           jobs,
		MaxDiagnostics: maxDiagnostics,
		ExtraFlags:     extraFlags,
		Out:            cmd.OutOrStdout(),
	}

	idx = timer.Begin("run")
	var failed int
	if !noUI && !quiet && isTerminal(os.Stdout) {
		failed, err = runSuiteUnderUI(cmd.Context(), dir, cases, opts)
	} else {
		failed, err = harness.RunCases(cmd.Context(), cases, opts)
	}
	timer.End(idx, "")
	if err != nil {
		return err
	}

	if showTimings {
		fmt.Fprint(cmd.OutOrStdout(), timer.Summary())
	}

	if failed > 0 {
		color.New(color.FgRed, color.Bold).Fprintf(cmd.OutOrStdout(), "FAIL: %d of %d cases\n", failed, len(cases))
		return fmt.Errorf("%d of %d cases failed", failed, len(cases))
	}
	if !quiet {
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "ok: %d cases\n", len(cases))
	}
	return nil
}
