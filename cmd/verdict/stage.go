package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"verdict/internal/stage"
)

var stageCmd = &cobra.Command{
	Use:   "stage",
	Short: "Stage the solver shared library next to the analyzer build",
	Long:  `Copy the solver's shared native library into the analyzer build's deps directory so the analyzer can load it at run time`,
	Args:  cobra.NoArgs,
	RunE:  runStage,
}

func init() {
	stageCmd.Flags().String("source", "", "solver build directory (overrides verdict.toml)")
	stageCmd.Flags().String("target", "", "deps directory (overrides verdict.toml)")
}

func runStage(cmd *cobra.Command, args []string) error {
	source, err := cmd.Flags().GetString("source")
	if err != nil {
		return fmt.Errorf("failed to get source flag: %w", err)
	}
	target, err := cmd.Flags().GetString("target")
	if err != nil {
		return fmt.Errorf("failed to get target flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	manifest, _, err := loadSuiteManifest(".")
	if err != nil {
		return err
	}
	if source == "" && manifest != nil {
		source = manifest.Config.Stage.Source
	}
	if target == "" && manifest != nil {
		target = manifest.Config.Stage.Target
	}

	staged, err := stage.Run(stage.Options{SourceDir: source, TargetDir: target})
	if err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "staged %s\n", staged)
	}
	return nil
}
