package main

import (
	"bytes"
	"context"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"verdict/internal/harness"
	"verdict/internal/ui"
)

type suiteOutcome struct {
	failed int
	err    error
}

// runSuiteUnderUI executes the pool behind a Bubble Tea progress view.
// Failure reports are buffered while the view owns the terminal and
// flushed to stdout afterwards.
func runSuiteUnderUI(ctx context.Context, title string, cases []harness.Case, opts *harness.Options) (int, error) {
	events := make(chan harness.Event, 256)
	outcomeCh := make(chan suiteOutcome, 1)

	var reports bytes.Buffer
	go func() {
		optsCopy := *opts
		optsCopy.Events = harness.ChannelSink{Ch: events}
		optsCopy.Out = &reports
		failed, err := harness.RunCases(ctx, cases, &optsCopy)
		outcomeCh <- suiteOutcome{failed: failed, err: err}
		close(events)
	}()

	fragments := make([]string, len(cases))
	for i, c := range cases {
		fragments[i] = c.Fragment
	}
	model := ui.NewSuiteModel(title, fragments, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// The view can exit early (ctrl+c) with workers still emitting; keep
	// draining so no worker blocks on a full buffer while we wait.
	go drainEvents(events)
	outcome := <-outcomeCh

	if reports.Len() > 0 {
		io.Copy(os.Stdout, &reports)
	}
	if uiErr != nil {
		return outcome.failed, uiErr
	}
	return outcome.failed, outcome.err
}

// drainEvents discards transitions until the pool closes the channel.
func drainEvents(ch <-chan harness.Event) {
	for range ch {
	}
}
