package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sdmp3/sdmp3/pipeline"
	"github.com/sdmp3/sdmp3/source"
)

type (
	itemStartedMsg struct {
		index, total int
		title        string
	}
	itemResolvedMsg struct {
		index int
		title string
	}
	itemProgressMsg struct {
		index          int
		written, total int64
	}
	itemFinishedMsg struct {
		index  int
		result *pipeline.Result
	}
	batchCompletedMsg struct {
		report *pipeline.Report
	}
	finishedMsg struct {
		report *pipeline.Report
		err    error
	}
)

type sender interface {
	Send(msg tea.Msg)
}

// observer forwards pipeline events into the program's message loop.
type observer struct {
	program sender
}

func (o *observer) ItemStarted(index, total int, title string) {
	o.program.Send(itemStartedMsg{index: index, total: total, title: title})
}

func (o *observer) ItemResolved(index int, candidate *source.Candidate) {
	o.program.Send(itemResolvedMsg{index: index, title: candidate.Title})
}

func (o *observer) ItemProgress(index int, written, total int64) {
	o.program.Send(itemProgressMsg{index: index, written: written, total: total})
}

func (o *observer) ItemFinished(index int, result *pipeline.Result) {
	o.program.Send(itemFinishedMsg{index: index, result: result})
}

func (o *observer) BatchCompleted(report *pipeline.Report) {
	o.program.Send(batchCompletedMsg{report: report})
}
