package tui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sdmp3/sdmp3/pipeline"
	"github.com/sdmp3/sdmp3/source"
	. "github.com/smartystreets/goconvey/convey"
)

type recorder struct {
	msgs []tea.Msg
}

func (r *recorder) Send(msg tea.Msg) {
	r.msgs = append(r.msgs, msg)
}

func feed(b *statefulBubble, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = b.Update(msg)
	}
	return cmd
}

func TestObserver(t *testing.T) {
	Convey("Given an observer bound to a recorder", t, func() {
		r := &recorder{}
		o := &observer{program: r}

		Convey("Every pipeline event becomes a message", func() {
			o.ItemStarted(0, 1, "Song A")
			o.ItemResolved(0, &source.Candidate{Title: "Song A (Official)"})
			o.ItemProgress(0, 10, 20)
			o.ItemFinished(0, &pipeline.Result{Title: "Song A", Status: pipeline.StatusSuccess})
			o.BatchCompleted(&pipeline.Report{})

			So(r.msgs, ShouldHaveLength, 5)
			So(r.msgs[1], ShouldResemble, itemResolvedMsg{index: 0, title: "Song A (Official)"})
			So(r.msgs[2], ShouldResemble, itemProgressMsg{index: 0, written: 10, total: 20})
		})
	})
}

func TestBubble(t *testing.T) {
	Convey("Given a bubble for three titles", t, func() {
		cancelled := false
		b := newBubble([]string{"Song A", "NoSuchTrackXYZ123", "Song B"}, func() { cancelled = true })

		Convey("It starts with pending rows", func() {
			So(b.items, ShouldHaveLength, 3)
			for _, row := range b.items {
				So(row.status, ShouldEqual, pipeline.StatusPending)
			}
			So(b.View(), ShouldContainSubstring, "Downloading 0/3")
		})

		Convey("Events move rows through their states", func() {
			feed(b,
				itemStartedMsg{index: 0, total: 3, title: "Song A"},
				itemResolvedMsg{index: 0, title: "Song A (Audio)"},
				itemProgressMsg{index: 0, written: 512, total: 1024},
			)

			So(b.items[0].status, ShouldEqual, pipeline.StatusFetching)
			So(b.items[0].ratio(), ShouldEqual, 0.5)
			So(b.View(), ShouldContainSubstring, "Song A (Audio)")

			feed(b,
				itemFinishedMsg{index: 0, result: &pipeline.Result{Status: pipeline.StatusSuccess, Bytes: 1024}},
				itemStartedMsg{index: 1, total: 3, title: "NoSuchTrackXYZ123"},
				itemFinishedMsg{index: 1, result: &pipeline.Result{Status: pipeline.StatusNotFound, Error: "not found"}},
			)

			So(b.items[0].status, ShouldEqual, pipeline.StatusSuccess)
			So(b.items[1].status, ShouldEqual, pipeline.StatusNotFound)
			So(b.View(), ShouldContainSubstring, "Downloading 2/3")
		})

		Convey("Unknown sizes report bytes only", func() {
			feed(b, itemProgressMsg{index: 2, written: 2048, total: -1})
			So(b.items[2].ratio(), ShouldEqual, -1)
			So(b.items[2].size(), ShouldEqual, "2.0 kB")
		})

		Convey("Quitting cancels the batch without leaving the view", func() {
			cmd := feed(b, tea.KeyMsg{Type: tea.KeyCtrlC})
			So(cancelled, ShouldBeTrue)
			So(cmd, ShouldBeNil)
			So(b.state, ShouldEqual, cancellingState)

			cmd = feed(b, tea.KeyMsg{Type: tea.KeyCtrlC})
			So(cmd, ShouldNotBeNil)
		})

		Convey("The finished message shows the summary and quits", func() {
			report := &pipeline.Report{
				Results: []*pipeline.Result{
					{Title: "Song A", Status: pipeline.StatusSuccess},
					{Title: "NoSuchTrackXYZ123", Status: pipeline.StatusNotFound},
					{Title: "Song B", Status: pipeline.StatusSuccess},
				},
				Started:  time.Unix(0, 0),
				Finished: time.Unix(2, 0),
			}

			cmd := feed(b, finishedMsg{report: report})
			So(cmd, ShouldNotBeNil)
			So(b.state, ShouldEqual, doneState)

			view := b.View()
			So(view, ShouldContainSubstring, "2 downloads")
			So(view, ShouldContainSubstring, "1 not found")
			So(view, ShouldContainSubstring, "0 failures")
		})

		Convey("A fatal error is shown", func() {
			feed(b, finishedMsg{err: errors.New("cannot create directory")})
			So(b.state, ShouldEqual, errorState)
			So(strings.Contains(b.View(), "cannot create directory"), ShouldBeTrue)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Run returns the report produced by the batch", t, func() {
		programOptions = []tea.ProgramOption{tea.WithInput(nil), tea.WithOutput(io.Discard)}
		defer func() { programOptions = nil }()

		want := &pipeline.Report{Results: []*pipeline.Result{{Title: "Song A", Status: pipeline.StatusSuccess}}}

		report, err := Run(context.Background(), &Options{
			Titles: []string{"Song A"},
			Run: func(ctx context.Context, observer pipeline.Observer) (*pipeline.Report, error) {
				observer.ItemStarted(0, 1, "Song A")
				observer.ItemFinished(0, want.Results[0])
				observer.BatchCompleted(want)
				return want, nil
			},
		})

		So(err, ShouldBeNil)
		So(report, ShouldEqual, want)
	})
}
