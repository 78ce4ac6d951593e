package tui

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/sdmp3/sdmp3/icon"
	"github.com/sdmp3/sdmp3/pipeline"
	"github.com/sdmp3/sdmp3/style"
)

// item is one row of the batch.
type item struct {
	title    string
	resolved string
	status   pipeline.Status
	written  int64
	total    int64
	detail   string
}

func newItem(title string) *item {
	return &item{
		title:  title,
		status: pipeline.StatusPending,
		total:  -1,
	}
}

func (i *item) name() string {
	if i.resolved != "" && i.resolved != i.title {
		return fmt.Sprintf("%s %s", i.title, style.Faint("→ "+i.resolved))
	}

	return i.title
}

func (i *item) mark(spinner string) string {
	switch i.status {
	case pipeline.StatusSuccess:
		return icon.Get(icon.Success)
	case pipeline.StatusNotFound:
		return icon.Get(icon.NotFound)
	case pipeline.StatusFetchError:
		return icon.Get(icon.Fail)
	case pipeline.StatusPending:
		return style.Faint("·")
	default:
		return spinner
	}
}

// ratio is the completed fraction, or -1 when the size is unknown.
func (i *item) ratio() float64 {
	if i.total <= 0 {
		return -1
	}

	return float64(i.written) / float64(i.total)
}

func (i *item) size() string {
	if i.total > 0 {
		return fmt.Sprintf("%s / %s", humanize.Bytes(uint64(i.written)), humanize.Bytes(uint64(i.total)))
	}

	return humanize.Bytes(uint64(i.written))
}
