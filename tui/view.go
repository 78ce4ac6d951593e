package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
	"github.com/sdmp3/sdmp3/color"
	"github.com/sdmp3/sdmp3/icon"
	"github.com/sdmp3/sdmp3/pipeline"
	"github.com/sdmp3/sdmp3/style"
	"github.com/sdmp3/sdmp3/util"
)

var paddingStyle = lipgloss.NewStyle().Padding(1, 2)

func (b *statefulBubble) View() string {
	switch b.state {
	case errorState:
		return b.viewError()
	case doneState:
		return b.viewDone()
	default:
		return b.viewRunning()
	}
}

func (b *statefulBubble) viewRunning() string {
	finished := 0
	for _, row := range b.items {
		if row.status.IsTerminal() {
			finished++
		}
	}

	title := style.Title(fmt.Sprintf("Downloading %d/%d", finished, len(b.items)))
	if b.state == cancellingState {
		title = style.ErrorTitle("Stopping")
	}

	lines := []string{title, ""}
	lines = append(lines, b.viewItems()...)

	if b.current < len(b.items) {
		row := b.items[b.current]
		if row.status == pipeline.StatusFetching {
			lines = append(lines, "", b.viewProgress(row))
		}
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewItems() []string {
	truncate := style.Truncate(b.width)
	lines := make([]string, 0, len(b.items))

	for _, row := range b.items {
		line := fmt.Sprintf("%s %s", row.mark(b.spinnerC.View()), row.name())
		if row.detail != "" {
			line += " " + style.Fg(color.Red)(row.detail)
		}
		lines = append(lines, truncate(line))
	}

	return lines
}

func (b *statefulBubble) viewProgress(row *item) string {
	if ratio := row.ratio(); ratio >= 0 {
		return fmt.Sprintf("%s %s", b.progressC.ViewAs(ratio), style.Faint(row.size()))
	}

	return fmt.Sprintf("%s %s", icon.Get(icon.Download), style.Faint(row.size()))
}

func (b *statefulBubble) viewDone() string {
	lines := []string{style.Title("Done"), ""}
	lines = append(lines, b.viewItems()...)

	if b.report != nil {
		lines = append(lines, "", fmt.Sprintf(
			"%s %s, %s, %s in %s",
			icon.Get(icon.Music),
			style.Fg(color.Green)(util.Quantify(b.report.Count(pipeline.StatusSuccess), "download", "downloads")),
			style.Fg(color.Yellow)(fmt.Sprintf("%d not found", b.report.Count(pipeline.StatusNotFound))),
			style.Fg(color.Red)(util.Quantify(b.report.Count(pipeline.StatusFetchError), "failure", "failures")),
			b.report.Elapsed().Round(time.Millisecond),
		))
	}

	return b.renderLines(false, lines) + "\n"
}

func (b *statefulBubble) viewError() string {
	body := wrap.String(style.Fg(color.Red)(b.lastError.Error()), b.width)

	return b.renderLines(false, []string{
		style.ErrorTitle("Error"),
		"",
		icon.Get(icon.Fail) + " " + body,
	}) + "\n"
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	l := strings.Join(lines, "\n")
	if addHelp {
		l += "\n\n" + b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
