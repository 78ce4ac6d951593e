package fetcher

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/samber/mo"
	"github.com/sdmp3/sdmp3/source"
	. "github.com/smartystreets/goconvey/convey"
)

type stubBackend struct {
	prefix string
	err    error
}

func (s *stubBackend) Name() string { return "stub" }

func (s *stubBackend) Supports(locator string) bool {
	return strings.HasPrefix(locator, s.prefix)
}

func (s *stubBackend) Open(_ context.Context, locator string) (*source.Stream, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &source.Stream{Body: io.NopCloser(strings.NewReader(locator)), Extension: "m4a", Size: -1}, nil
}

func TestFetcher(t *testing.T) {
	ctx := context.Background()

	Convey("Given a fetcher with a single backend", t, func() {
		f := New(&stubBackend{prefix: "yt:"})

		Convey("Supported locators are opened", func() {
			stream, err := f.Open(ctx, "yt:abc")
			So(err, ShouldBeNil)
			So(stream.Extension, ShouldEqual, "m4a")

			body, _ := io.ReadAll(stream)
			So(string(body), ShouldEqual, "yt:abc")
		})

		Convey("Unsupported locators fail with a fetch error", func() {
			_, err := f.Open(ctx, "ftp://example.com/a.mp3")

			var fe *source.FetchError
			So(errors.As(err, &fe), ShouldBeTrue)
			So(fe.Stage, ShouldEqual, source.StageFetch)
		})

		Convey("An extension override replaces the negotiated one", func() {
			f.WithExtension(mo.Some("mp3"))
			stream, err := f.Open(ctx, "yt:abc")
			So(err, ShouldBeNil)
			So(stream.Extension, ShouldEqual, "mp3")
		})
	})

	Convey("Given a failing backend", t, func() {
		cause := errors.New("format unavailable")
		f := New(&stubBackend{prefix: "", err: cause})

		Convey("The failure is a fetch error carrying the cause", func() {
			_, err := f.Open(ctx, "anything")

			var fe *source.FetchError
			So(errors.As(err, &fe), ShouldBeTrue)
			So(fe.Stage, ShouldEqual, source.StageFetch)
			So(errors.Is(err, cause), ShouldBeTrue)
		})
	})
}

func TestHTTPBackend(t *testing.T) {
	ctx := context.Background()

	Convey("Given a media server", t, func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/typed", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "audio/mpeg")
			_, _ = io.WriteString(w, "ID3")
		})
		mux.HandleFunc("/track.flac", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/octet-stream")
			_, _ = io.WriteString(w, "fLaC")
		})
		mux.HandleFunc("/page", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = io.WriteString(w, "<html></html>")
		})
		mux.HandleFunc("/gone", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "gone", http.StatusGone)
		})

		server := httptest.NewServer(mux)
		defer server.Close()

		backend := &HTTP{Client: server.Client()}

		Convey("A zero value backend uses the default client", func() {
			stream, err := (&HTTP{}).Open(ctx, server.URL+"/typed")
			So(err, ShouldBeNil)
			defer stream.Close()
			So(stream.Extension, ShouldEqual, "mp3")
		})

		Convey("It supports absolute http urls only", func() {
			So(backend.Supports(server.URL+"/typed"), ShouldBeTrue)
			So(backend.Supports("dQw4w9WgXcQ"), ShouldBeFalse)
			So(backend.Supports("file:///tmp/a.mp3"), ShouldBeFalse)
		})

		Convey("The content type decides the extension", func() {
			stream, err := backend.Open(ctx, server.URL+"/typed")
			So(err, ShouldBeNil)
			defer stream.Close()
			So(stream.Extension, ShouldEqual, "mp3")
			So(stream.Size, ShouldEqual, 3)
		})

		Convey("Generic content falls back to the path extension", func() {
			stream, err := backend.Open(ctx, server.URL+"/track.flac")
			So(err, ShouldBeNil)
			defer stream.Close()
			So(stream.Extension, ShouldEqual, "flac")
		})

		Convey("Pages are not playable media", func() {
			_, err := backend.Open(ctx, server.URL+"/page")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "not playable media")
		})

		Convey("Error statuses are reported", func() {
			_, err := backend.Open(ctx, server.URL+"/gone")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "410")
		})
	})
}
