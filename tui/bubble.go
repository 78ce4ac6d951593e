package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/sdmp3/sdmp3/pipeline"
	"github.com/sdmp3/sdmp3/style"
	"github.com/sdmp3/sdmp3/util"
)

type statefulBubble struct {
	state  state
	keymap *statefulKeymap

	spinnerC  spinner.Model
	progressC progress.Model
	helpC     help.Model

	items   []*item
	current int

	report    *pipeline.Report
	lastError error

	cancel context.CancelFunc

	width, height int
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.setState(errorState)
}

func (b *statefulBubble) resize(width, height int) {
	x, _ := paddingStyle.GetFrameSize()

	b.width = width - x
	b.height = height
	b.helpC.Width = b.width
	b.progressC.Width = lo.Clamp(b.width-2, 10, 60)
}

// at returns the row for index, growing the list if the batch is larger than announced.
func (b *statefulBubble) at(index int) *item {
	for index >= len(b.items) {
		b.items = append(b.items, newItem(""))
	}

	return b.items[index]
}

func newBubble(titles []string, cancel context.CancelFunc) *statefulBubble {
	bubble := &statefulBubble{
		keymap: newStatefulKeymap(),
		items:  lo.Map(titles, func(title string, _ int) *item { return newItem(title) }),
		cancel: cancel,
	}

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(style.AccentColor)

	bubble.progressC = progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())

	bubble.resize(80, 24)
	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	bubble.setState(runningState)
	return bubble
}
