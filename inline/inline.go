// Package inline prints batch progress as plain lines for scripts and pipes.
package inline

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sdmp3/sdmp3/color"
	"github.com/sdmp3/sdmp3/icon"
	"github.com/sdmp3/sdmp3/log"
	"github.com/sdmp3/sdmp3/pipeline"
	"github.com/sdmp3/sdmp3/source"
	"github.com/sdmp3/sdmp3/style"
	"github.com/sdmp3/sdmp3/util"
)

// Printer is an observer writing one line per finished item and a closing summary.
type Printer struct {
	options *Options
	total   int
}

// NewPrinter creates a printer. A nil Out means stdout.
func NewPrinter(options *Options) *Printer {
	if options.Out == nil {
		options.Out = os.Stdout
	}

	return &Printer{options: options}
}

func (p *Printer) ItemStarted(_, total int, _ string) {
	p.total = total
}

func (p *Printer) ItemResolved(int, *source.Candidate) {}

func (p *Printer) ItemProgress(int, int64, int64) {}

func (p *Printer) ItemFinished(index int, result *pipeline.Result) {
	if p.options.Json {
		return
	}

	prefix := style.Faint(fmt.Sprintf("[%d/%d]", index+1, p.total))

	var line string
	switch result.Status {
	case pipeline.StatusSuccess:
		line = fmt.Sprintf("%s %s %s %s", icon.Get(icon.Success), result.Title, style.Faint("→ "+result.Path), style.Faint("("+humanize.Bytes(uint64(result.Bytes))+")"))
	case pipeline.StatusNotFound:
		line = fmt.Sprintf("%s %s %s", icon.Get(icon.NotFound), result.Title, style.Fg(color.Yellow)("not found"))
	default:
		line = fmt.Sprintf("%s %s %s", icon.Get(icon.Fail), result.Title, style.Fg(color.Red)(result.Error))
	}

	if _, err := fmt.Fprintln(p.options.Out, prefix, line); err != nil {
		log.Warnf("inline: %v", err)
	}
}

func (p *Printer) BatchCompleted(report *pipeline.Report) {
	var err error
	if p.options.Json {
		err = WriteJSON(p.options.Out, report)
	} else {
		_, err = fmt.Fprintln(p.options.Out, Summary(report))
	}

	if err != nil {
		log.Warnf("inline: %v", err)
	}
}

// Summary is the one-line description of a finished batch.
func Summary(report *pipeline.Report) string {
	return fmt.Sprintf(
		"%s all downloads complete: %s, %d not found, %s (%s)",
		icon.Get(icon.Music),
		util.Quantify(report.Count(pipeline.StatusSuccess), "succeeded", "succeeded"),
		report.Count(pipeline.StatusNotFound),
		util.Quantify(report.Count(pipeline.StatusFetchError), "failure", "failures"),
		report.Elapsed().Round(time.Millisecond),
	)
}
