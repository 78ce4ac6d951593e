package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/sdmp3/sdmp3/filesystem"
	"github.com/sdmp3/sdmp3/provider/youtube"
	"github.com/sdmp3/sdmp3/where"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

const luaScript = `function SearchTracks(q) return {} end`

func TestGet(t *testing.T) {
	Convey("When trying to get an invalid provider", t, func() {
		_, ok := Get("kek")
		Convey("Then ok should be false", func() {
			So(ok, ShouldBeFalse)
		})
	})

	Convey("The youtube provider is built in", t, func() {
		p, ok := Get(youtube.Name)
		So(ok, ShouldBeTrue)
		So(p.IsCustom, ShouldBeFalse)

		src, err := p.CreateSource()
		So(err, ShouldBeNil)
		So(src.Name(), ShouldEqual, youtube.Name)
	})

	Convey("Given a Lua script in the sources directory", t, func() {
		path := filepath.Join(where.Sources(), "archive.lua")
		So(filesystem.API().WriteFile(path, []byte(luaScript), 0o644), ShouldBeNil)
		So(filesystem.API().WriteFile(filepath.Join(where.Sources(), "notes.txt"), []byte("x"), 0o644), ShouldBeNil)

		Convey("It is listed as a custom provider", func() {
			customs := Customs()
			So(customs, ShouldHaveLength, 1)
			So(customs[0].Name, ShouldEqual, "archive")
			So(customs[0].ID, ShouldEqual, "archive custom")

			p, ok := Get("archive")
			So(ok, ShouldBeTrue)
			src, err := p.CreateSource()
			So(err, ShouldBeNil)
			So(src.ID(), ShouldEqual, "archive custom")
		})
	})
}

func TestInstall(t *testing.T) {
	Convey("Given a script server", t, func() {
		body := luaScript
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if filepath.Ext(r.URL.Path) != ".lua" {
				http.NotFound(w, r)
				return
			}
			_, _ = w.Write([]byte(body))
		}))
		defer server.Close()

		ctx := context.Background()

		Convey("A script is installed once and skipped when unchanged", func() {
			dest, updated, err := Install(ctx, server.URL+"/scripts/jamendo.lua")
			So(err, ShouldBeNil)
			So(updated, ShouldBeTrue)
			So(dest, ShouldEqual, filepath.Join(where.Sources(), "jamendo.lua"))

			_, updated, err = Install(ctx, server.URL+"/scripts/jamendo.lua")
			So(err, ShouldBeNil)
			So(updated, ShouldBeFalse)

			body = luaScript + "\n-- v2"
			_, updated, err = Install(ctx, server.URL+"/scripts/jamendo.lua")
			So(err, ShouldBeNil)
			So(updated, ShouldBeTrue)

			contents, _ := filesystem.API().ReadFile(dest)
			So(string(contents), ShouldEndWith, "-- v2")
		})

		Convey("Non Lua urls are refused", func() {
			_, _, err := Install(ctx, server.URL+"/scripts/readme.md")
			So(err, ShouldNotBeNil)

			_, _, err = Install(ctx, "ftp://example.com/a.lua")
			So(err, ShouldNotBeNil)
		})
	})
}
