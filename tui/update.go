package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sdmp3/sdmp3/pipeline"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		return b.handleKey(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		return b, cmd
	case itemStartedMsg:
		row := b.at(msg.index)
		if row.title == "" {
			row.title = msg.title
		}
		row.status = pipeline.StatusResolving
		b.current = msg.index
	case itemResolvedMsg:
		row := b.at(msg.index)
		row.resolved = msg.title
		row.status = pipeline.StatusFetching
	case itemProgressMsg:
		row := b.at(msg.index)
		row.written = msg.written
		row.total = msg.total
	case itemFinishedMsg:
		row := b.at(msg.index)
		row.status = msg.result.Status
		row.detail = msg.result.Error
		if msg.result.Bytes > 0 {
			row.written = msg.result.Bytes
		}
	case batchCompletedMsg:
		b.report = msg.report
	case finishedMsg:
		if msg.err != nil {
			b.raiseError(msg.err)
			return b, tea.Quit
		}
		if msg.report != nil {
			b.report = msg.report
		}
		b.setState(doneState)
		return b, tea.Quit
	}

	return b, nil
}

func (b *statefulBubble) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, b.keymap.forceQuit):
		if b.state == runningState {
			b.stop()
			return b, nil
		}
		return b, tea.Quit
	case key.Matches(msg, b.keymap.quit):
		if b.state == runningState {
			b.stop()
		}
	}

	return b, nil
}

// stop cancels the batch and waits for the pipeline to close the remaining items.
func (b *statefulBubble) stop() {
	b.setState(cancellingState)
	if b.cancel != nil {
		b.cancel()
	}
}
