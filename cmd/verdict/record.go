package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"verdict/internal/diag"
	"verdict/internal/frontend"
	"verdict/internal/harness"
	"verdict/internal/sysroot"
)

var recordCmd = &cobra.Command{
	Use:   "record [dir]",
	Short: "Record analyzer diagnostic streams as replayable transcripts",
	Long:  `Run every fragment in the suite directory through the analyzer and store each diagnostic stream as a msgpack transcript, so the suite can later run with --replay and no toolchain installed`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRecord,
}

func init() {
	recordCmd.Flags().String("bin", "", "analyzer binary (overrides verdict.toml)")
	recordCmd.Flags().String("out", "transcripts", "directory receiving the recorded transcripts")
}

func runRecord(cmd *cobra.Command, args []string) error {
	bin, err := cmd.Flags().GetString("bin")
	if err != nil {
		return fmt.Errorf("failed to get bin flag: %w", err)
	}
	outDir, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
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
	if bin == "" && manifest != nil {
		bin = manifest.Config.Frontend.Bin
	}
	if bin == "" {
		return fmt.Errorf("no analyzer binary: pass --bin or set frontend.bin in verdict.toml")
	}

	root, err := sysroot.Resolve(cmd.Context(), bin)
	if err != nil {
		return err
	}
	cases, err := harness.Discover(dir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create transcript dir: %w", err)
	}

	fe := &frontend.Exec{Bin: bin}
	if maxDiagnostics <= 0 {
		maxDiagnostics = 512
	}
	for _, c := range cases {
		bag := diag.NewBag(uint16(min(maxDiagnostics, 0xffff)))
		cfg := frontend.Config{
			Name:      "verdict",
			Input:     c.Fragment,
			Emit:      frontend.EmitLib,
			DebugInfo: 2,
			OutDir:    c.OutDir,
			Sysroot:   root,
			Flags:     frontend.DefaultCaptureFlags,
			Sink:      diag.BagSink{Bag: bag},
		}
		if err := fe.Run(cmd.Context(), cfg); err != nil {
			return fmt.Errorf("record %s: %w", c.Fragment, err)
		}
		if _, err := frontend.WriteTranscript(outDir, &frontend.Transcript{
			Input:       c.Fragment,
			Diagnostics: bag.Items(),
		}); err != nil {
			return fmt.Errorf("record %s: %w", c.Fragment, err)
		}
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "recorded %d transcripts to %s\n", len(cases), outDir)
	}
	return nil
}
