// Package tui renders a live view of a download batch.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sdmp3/sdmp3/pipeline"
)

// RunFunc runs the batch, reporting events to observer.
type RunFunc func(ctx context.Context, observer pipeline.Observer) (*pipeline.Report, error)

// Options configures the view.
type Options struct {
	Titles []string
	Run    RunFunc
}

// programOptions are appended when the program is created.
var programOptions []tea.ProgramOption

type outcome struct {
	report *pipeline.Report
	err    error
}

// Run executes the batch while the view is shown and returns its report.
// Quitting the view cancels the batch; the remaining items still get results.
func Run(ctx context.Context, options *Options) (*pipeline.Report, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bubble := newBubble(options.Titles, cancel)
	program := tea.NewProgram(bubble, programOptions...)

	done := make(chan outcome, 1)
	go func() {
		report, err := options.Run(ctx, &observer{program})
		done <- outcome{report, err}
		program.Send(finishedMsg{report: report, err: err})
	}()

	if _, err := program.Run(); err != nil {
		cancel()
		<-done
		return nil, err
	}

	cancel()
	result := <-done
	return result.report, result.err
}
