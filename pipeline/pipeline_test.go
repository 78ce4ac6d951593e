package pipeline

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/sdmp3/sdmp3/filesystem"
	"github.com/sdmp3/sdmp3/sink"
	"github.com/sdmp3/sdmp3/source"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

const dir = "/music"

type fakeResolver struct {
	known  map[string]string
	errs   map[string]error
	calls  []string
	onCall func(title string)
}

func (f *fakeResolver) Resolve(_ context.Context, title string) (*source.Candidate, error) {
	f.calls = append(f.calls, title)
	if f.onCall != nil {
		f.onCall(title)
	}

	if err, ok := f.errs[title]; ok {
		return nil, err
	}

	resolved, ok := f.known[title]
	if !ok {
		return nil, source.ErrNotFound
	}

	return &source.Candidate{Title: resolved, URL: "media://" + resolved}, nil
}

type fakeFetcher struct {
	payload     map[string]string
	broken      map[string]error
	interrupted map[string]bool
	// blocks until the context is done for these locators
	hang        map[string]bool
}

type interruptedReader struct {
	head []byte
	err  error
}

func (r *interruptedReader) Read(p []byte) (int, error) {
	if len(r.head) == 0 {
		return 0, r.err
	}
	n := copy(p, r.head)
	r.head = r.head[n:]
	return n, nil
}

func (f *fakeFetcher) Open(ctx context.Context, locator string) (*source.Stream, error) {
	if f.hang[locator] {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	if err, ok := f.broken[locator]; ok {
		return nil, err
	}

	body := f.payload[locator]
	if body == "" {
		body = "audio of " + locator
	}

	if f.interrupted[locator] || strings.HasSuffix(locator, "#interrupted") {
		return &source.Stream{
			Body:      io.NopCloser(&interruptedReader{head: []byte("partial"), err: io.ErrUnexpectedEOF}),
			Extension: "m4a",
			Size:      1000,
		}, nil
	}

	return &source.Stream{
		Body:      io.NopCloser(strings.NewReader(body)),
		Extension: "m4a",
		Size:      int64(len(body)),
	}, nil
}

type recorder struct {
	started   []string
	finished  []Status
	progress  int
	completed []*Report
}

func (r *recorder) ItemStarted(_, _ int, title string)  { r.started = append(r.started, title) }
func (r *recorder) ItemResolved(int, *source.Candidate) {}
func (r *recorder) ItemProgress(int, int64, int64)      { r.progress++ }
func (r *recorder) ItemFinished(_ int, result *Result)  { r.finished = append(r.finished, result.Status) }
func (r *recorder) BatchCompleted(report *Report)       { r.completed = append(r.completed, report) }

func files() []string {
	entries, err := filesystem.API().ReadDir(dir)
	if err != nil {
		return nil
	}
	return lo.Map(entries, func(e os.FileInfo, _ int) string {
		return e.Name()
	})
}

func statuses(report *Report) []Status {
	return lo.Map(report.Results, func(r *Result, _ int) Status {
		return r.Status
	})
}

func identity(titles ...string) map[string]string {
	return lo.SliceToMap(titles, func(t string) (string, string) {
		return t, t
	})
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty destination", t, func() {
		filesystem.SetMemMapFs()
		fetcher := &fakeFetcher{}
		obs := &recorder{}

		Convey("The canonical mixed batch keeps order and isolates the miss", func() {
			resolver := &fakeResolver{known: identity("Song A", "Song B")}
			p := New(resolver, fetcher, sink.New(dir), WithObserver(obs))

			report, err := p.Run(ctx, []string{"Song A", "NoSuchTrackXYZ123", "Song B"})
			So(err, ShouldBeNil)
			So(statuses(report), ShouldResemble, []Status{StatusSuccess, StatusNotFound, StatusSuccess})
			So(report.Results[0].Title, ShouldEqual, "Song A")
			So(report.Results[1].Title, ShouldEqual, "NoSuchTrackXYZ123")
			So(report.Results[2].Title, ShouldEqual, "Song B")
			So(files(), ShouldHaveLength, 2)
			So(files(), ShouldContain, "Song A.m4a")
			So(files(), ShouldContain, "Song B.m4a")

			So(errors.Is(report.Results[1].Err, source.ErrNotFound), ShouldBeTrue)
			So(report.Results[1].Path, ShouldBeEmpty)

			Convey("And the observer sees every item and a single completion", func() {
				So(obs.started, ShouldResemble, []string{"Song A", "NoSuchTrackXYZ123", "Song B"})
				So(obs.finished, ShouldResemble, statuses(report))
				So(obs.progress, ShouldBeGreaterThan, 0)
				So(obs.completed, ShouldHaveLength, 1)
				So(obs.completed[0], ShouldEqual, report)
			})
		})

		Convey("N titles yield N results in input order, duplicates included", func() {
			titles := []string{"Song C", "Missing", "Song A", "Song C", "Broken"}
			resolver := &fakeResolver{known: identity("Song A", "Song C", "Broken")}
			fetcher.broken = map[string]error{"media://Broken": errors.New("format unavailable")}

			report, err := New(resolver, fetcher, sink.New(dir)).Run(ctx, titles)
			So(err, ShouldBeNil)
			So(report.Results, ShouldHaveLength, len(titles))
			for i, title := range titles {
				So(report.Results[i].Title, ShouldEqual, title)
				So(report.Results[i].Status.IsTerminal(), ShouldBeTrue)
			}
			So(resolver.calls, ShouldResemble, titles)
		})

		Convey("A title without search results writes nothing", func() {
			report, err := New(&fakeResolver{}, fetcher, sink.New(dir)).Run(ctx, []string{"Nothing Here"})
			So(err, ShouldBeNil)
			So(report.Results[0].Status, ShouldEqual, StatusNotFound)
			So(files(), ShouldBeEmpty)
		})

		Convey("A fetch failure yields only a fetch error", func() {
			resolver := &fakeResolver{known: identity("Song A", "Song B")}
			fetcher.broken = map[string]error{"media://Song A": errors.New("not playable")}

			report, err := New(resolver, fetcher, sink.New(dir)).Run(ctx, []string{"Song A", "Song B"})
			So(err, ShouldBeNil)
			So(statuses(report), ShouldResemble, []Status{StatusFetchError, StatusSuccess})

			var fe *source.FetchError
			So(errors.As(report.Results[0].Err, &fe), ShouldBeTrue)
			So(fe.Stage, ShouldEqual, source.StageFetch)
			So(report.Results[0].Error, ShouldContainSubstring, "not playable")
			So(files(), ShouldResemble, []string{"Song B.m4a"})
		})

		Convey("An interrupted stream leaves no partial file", func() {
			resolver := &fakeResolver{known: map[string]string{"Song A": "Song A#interrupted"}}

			report, err := New(resolver, fetcher, sink.New(dir)).Run(ctx, []string{"Song A"})
			So(err, ShouldBeNil)
			So(report.Results[0].Status, ShouldEqual, StatusFetchError)

			var fe *source.FetchError
			So(errors.As(report.Results[0].Err, &fe), ShouldBeTrue)
			So(fe.Stage, ShouldEqual, source.StageStream)
			So(files(), ShouldBeEmpty)
		})

		Convey("A search transport failure is a fetch error of the search stage", func() {
			resolver := &fakeResolver{errs: map[string]error{"Song A": errors.New("connection refused")}}

			report, err := New(resolver, fetcher, sink.New(dir)).Run(ctx, []string{"Song A"})
			So(err, ShouldBeNil)
			So(report.Results[0].Status, ShouldEqual, StatusFetchError)

			var fe *source.FetchError
			So(errors.As(report.Results[0].Err, &fe), ShouldBeTrue)
			So(fe.Stage, ShouldEqual, source.StageSearch)
		})

		Convey("Re-running a batch overwrites files at identical paths", func() {
			resolver := &fakeResolver{known: identity("Song A")}

			first, err := New(resolver, fetcher, sink.New(dir)).Run(ctx, []string{"Song A"})
			So(err, ShouldBeNil)

			fetcher.payload = map[string]string{"media://Song A": "second take"}
			second, err := New(resolver, fetcher, sink.New(dir)).Run(ctx, []string{"Song A"})
			So(err, ShouldBeNil)

			So(second.Results[0].Path, ShouldEqual, first.Results[0].Path)
			So(files(), ShouldHaveLength, 1)

			contents, err := filesystem.API().ReadFile(second.Results[0].Path)
			So(err, ShouldBeNil)
			So(string(contents), ShouldEqual, "second take")
		})

		Convey("Forbidden characters are stripped and colliding titles share a file", func() {
			resolver := &fakeResolver{known: map[string]string{
				"first":  `AC/DC: "Thunder"?`,
				"second": "ACDC Thunder",
			}}
			fetcher.payload = map[string]string{
				`media://AC/DC: "Thunder"?`: "one",
				"media://ACDC Thunder":      "two",
			}

			report, err := New(resolver, fetcher, sink.New(dir)).Run(ctx, []string{"first", "second"})
			So(err, ShouldBeNil)
			So(statuses(report), ShouldResemble, []Status{StatusSuccess, StatusSuccess})
			So(report.Results[0].Path, ShouldEqual, report.Results[1].Path)
			So(files(), ShouldResemble, []string{"ACDC Thunder.m4a"})

			contents, _ := filesystem.API().ReadFile(report.Results[1].Path)
			So(string(contents), ShouldEqual, "two")
		})

		Convey("A colliding item that fails keeps the earlier file intact", func() {
			resolver := &fakeResolver{known: map[string]string{
				"first":  "ACDC",
				"second": "AC/DC",
			}}
			fetcher.payload = map[string]string{"media://ACDC": "first take"}
			fetcher.interrupted = map[string]bool{"media://AC/DC": true}

			report, err := New(resolver, fetcher, sink.New(dir)).Run(ctx, []string{"first", "second"})
			So(err, ShouldBeNil)
			So(statuses(report), ShouldResemble, []Status{StatusSuccess, StatusFetchError})

			contents, err := filesystem.API().ReadFile(report.Results[0].Path)
			So(err, ShouldBeNil)
			So(string(contents), ShouldEqual, "first take")
			So(files(), ShouldResemble, []string{"ACDC.m4a"})
		})

		Convey("A failed re-run keeps the previous copy", func() {
			resolver := &fakeResolver{known: identity("Song A")}

			first, err := New(resolver, fetcher, sink.New(dir)).Run(ctx, []string{"Song A"})
			So(err, ShouldBeNil)
			So(first.Results[0].Status, ShouldEqual, StatusSuccess)

			fetcher.interrupted = map[string]bool{"media://Song A": true}
			second, err := New(resolver, fetcher, sink.New(dir)).Run(ctx, []string{"Song A"})
			So(err, ShouldBeNil)
			So(second.Results[0].Status, ShouldEqual, StatusFetchError)

			contents, err := filesystem.API().ReadFile(first.Results[0].Path)
			So(err, ShouldBeNil)
			So(string(contents), ShouldEqual, "audio of media://Song A")
		})

		Convey("Cancelling the batch turns the remaining items into fetch errors", func() {
			cancellable, cancel := context.WithCancel(ctx)
			defer cancel()

			resolver := &fakeResolver{known: identity("Song A", "Song B", "Song C")}
			resolver.onCall = func(title string) {
				if title == "Song A" {
					cancel()
				}
			}

			report, err := New(resolver, fetcher, sink.New(dir)).Run(cancellable, []string{"Song A", "Song B", "Song C"})
			So(err, ShouldBeNil)
			So(report.Results, ShouldHaveLength, 3)
			So(report.Results[1].Status, ShouldEqual, StatusFetchError)
			So(report.Results[2].Status, ShouldEqual, StatusFetchError)
			So(errors.Is(report.Results[2].Err, context.Canceled), ShouldBeTrue)
			So(resolver.calls, ShouldResemble, []string{"Song A"})
		})

		Convey("A fetch exceeding its timeout fails only that item", func() {
			resolver := &fakeResolver{known: identity("Slow", "Song A")}
			fetcher.hang = map[string]bool{"media://Slow": true}

			p := New(resolver, fetcher, sink.New(dir), WithFetchTimeout(20*time.Millisecond))
			report, err := p.Run(ctx, []string{"Slow", "Song A"})
			So(err, ShouldBeNil)
			So(statuses(report), ShouldResemble, []Status{StatusFetchError, StatusSuccess})
			So(errors.Is(report.Results[0].Err, context.DeadlineExceeded), ShouldBeTrue)
		})

		Convey("An empty batch still completes", func() {
			report, err := New(&fakeResolver{}, fetcher, sink.New(dir), WithObserver(obs)).Run(ctx, nil)
			So(err, ShouldBeNil)
			So(report.Results, ShouldBeEmpty)
			So(obs.completed, ShouldHaveLength, 1)
		})
	})

	Convey("Given a destination that cannot be created", t, func() {
		filesystem.Set(afero.NewReadOnlyFs(afero.NewMemMapFs()))
		defer filesystem.SetMemMapFs()

		resolver := &fakeResolver{known: identity("Song A")}
		obs := &recorder{}

		Convey("The batch fails with a directory error and processes nothing", func() {
			report, err := New(resolver, &fakeFetcher{}, sink.New(dir), WithObserver(obs)).Run(ctx, []string{"Song A", "Song B"})

			var dirErr *source.DirectoryError
			So(errors.As(err, &dirErr), ShouldBeTrue)
			So(report, ShouldBeNil)
			So(resolver.calls, ShouldBeEmpty)
			So(obs.started, ShouldBeEmpty)
			So(obs.completed, ShouldBeEmpty)
		})
	})
}

func TestReport(t *testing.T) {
	Convey("Given a finished report", t, func() {
		started := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		report := &Report{
			Results: []*Result{
				{Title: "a", Status: StatusSuccess},
				{Title: "b", Status: StatusNotFound},
				{Title: "c", Status: StatusFetchError},
				{Title: "d", Status: StatusSuccess},
			},
			Started:  started,
			Finished: started.Add(3 * time.Second),
		}

		So(report.Count(StatusSuccess), ShouldEqual, 2)
		So(report.Succeeded(), ShouldHaveLength, 2)
		So(report.Failed(), ShouldHaveLength, 2)
		So(report.Elapsed(), ShouldEqual, 3*time.Second)
	})

	Convey("Only outcomes are terminal", t, func() {
		So(StatusPending.IsTerminal(), ShouldBeFalse)
		So(StatusFetching.IsTerminal(), ShouldBeFalse)
		So(StatusNotFound.IsTerminal(), ShouldBeTrue)
	})
}
