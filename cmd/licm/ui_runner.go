package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"licm/internal/ir"
	"licm/internal/licm"
	"licm/internal/ui"
)

type runOutcome struct {
	results []licm.FuncResult
	err     error
}

func runModuleWithUI(ctx context.Context, out io.Writer, title string, m *ir.Module, opts licm.Options) ([]licm.FuncResult, error) {
	names := make([]string, len(m.Funcs))
	for i, f := range m.Funcs {
		names[i] = f.Name
	}
	events := make(chan licm.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		opts.Progress = licm.ChannelSink{Ch: events}
		res, err := licm.RunModule(ctx, m, opts)
		outcomeCh <- runOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, names, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithInput(nil), tea.WithContext(ctx))
	_, uiErr := program.Run()
	if uiErr != nil {
		// keep the engine from blocking on a full channel
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil && ctx.Err() == nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
