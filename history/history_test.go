package history

import (
	"fmt"
	"testing"

	"github.com/sdmp3/sdmp3/filesystem"
	"github.com/sdmp3/sdmp3/pipeline"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestHistory(t *testing.T) {
	Convey("Given an empty history", t, func() {
		So(Clear(), ShouldBeNil)

		Convey("When saving a record", func() {
			err := Save(&Record{Title: "Song A", Status: "success", Path: "/music/Song A.m4a"})
			So(err, ShouldBeNil)

			Convey("Then it should be returned", func() {
				records, err := Get()
				So(err, ShouldBeNil)
				So(records, ShouldHaveLength, 1)
				So(records[0].Title, ShouldEqual, "Song A")
			})
		})

		Convey("When saving more than the limit", func() {
			for i := 0; i < Limit+5; i++ {
				So(Save(&Record{Title: fmt.Sprintf("track %d", i)}), ShouldBeNil)
			}

			Convey("Then only the newest records are kept", func() {
				records, err := Get()
				So(err, ShouldBeNil)
				So(records, ShouldHaveLength, Limit)
				So(records[0].Title, ShouldEqual, "track 5")
				So(records[Limit-1].Title, ShouldEqual, fmt.Sprintf("track %d", Limit+4))
			})
		})

		Convey("The recorder stores finished pipeline results", func() {
			Recorder{}.ItemFinished(0, &pipeline.Result{
				Title:  "NoSuchTrackXYZ123",
				Status: pipeline.StatusNotFound,
				Error:  "no search result",
			})

			records, err := Get()
			So(err, ShouldBeNil)
			So(records, ShouldHaveLength, 1)
			So(records[0].Status, ShouldEqual, "not_found")
			So(records[0].FinishedAt.IsZero(), ShouldBeFalse)
		})
	})
}
