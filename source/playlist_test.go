package source

import (
	"strings"
	"testing"

	"github.com/grafov/m3u8"
	. "github.com/smartystreets/goconvey/convey"
)

const masterWithDuplicate = `#EXTM3U
#EXT-X-STREAM-INF:PROGRAM-ID=1,BANDWIDTH=500000,RESOLUTION=640x360,CODECS="avc1.42e00a,mp4a.40.2"
https://cdn-a.example/video/360.m3u8
#EXT-X-STREAM-INF:PROGRAM-ID=1,BANDWIDTH=1500000,RESOLUTION=1280x720,CODECS="avc1.4d401f,mp4a.40.2"
https://cdn-a.example/video/720.m3u8
#EXT-X-STREAM-INF:PROGRAM-ID=1,BANDWIDTH=1500000,RESOLUTION=1280x720,CODECS="avc1.4d401f,mp4a.40.2"
https://cdn-b.example/video/720.m3u8
#EXT-X-STREAM-INF:PROGRAM-ID=1,BANDWIDTH=3000000,RESOLUTION=1920x1080,CODECS="avc1.640028,mp4a.40.2"
https://cdn-a.example/video/1080.m3u8
`

func decodeMaster(t *testing.T, raw string) *m3u8.MasterPlaylist {
	t.Helper()
	playlist, listType, err := m3u8.DecodeFrom(strings.NewReader(raw), true)
	if err != nil {
		t.Fatalf("decode master playlist: %v", err)
	}
	if listType != m3u8.MASTER {
		t.Fatalf("expected master playlist, got %v", listType)
	}
	return playlist.(*m3u8.MasterPlaylist)
}

func TestNewRenditionList(t *testing.T) {
	params := Params{ID: "abc123", Title: "Some Show", Duration: 120, Kind: KindVideo}

	Convey("Given a master playlist with a duplicate resolution", t, func() {
		master := decodeMaster(t, masterWithDuplicate)
		list := NewRenditionList(master, params)

		Convey("It yields exactly one rendition per distinct height, in encounter order", func() {
			So(list.Heights(), ShouldResemble, []int{360, 720, 1080})
		})

		Convey("The duplicate's URI becomes the reserve of the first-seen rendition", func() {
			r := list.ByHeight(720)
			So(r, ShouldNotBeNil)
			So(r.PrimaryURI, ShouldEqual, "https://cdn-a.example/video/720.m3u8")
			So(r.ReserveURI.MustGet(), ShouldEqual, "https://cdn-b.example/video/720.m3u8")
		})

		Convey("Non-duplicated renditions carry no reserve", func() {
			So(list.ByHeight(360).ReserveURI.IsAbsent(), ShouldBeTrue)
			So(list.ByHeight(1080).ReserveURI.IsAbsent(), ShouldBeTrue)
		})

		Convey("Best is the last listed, worst the first", func() {
			So(list.Best().Height, ShouldEqual, 1080)
			So(list.Worst().Height, ShouldEqual, 360)
		})

		Convey("Renditions inherit the shared params", func() {
			r := list.Best()
			So(r.ID, ShouldEqual, "abc123")
			So(r.Title, ShouldEqual, "Some Show")
			So(r.Duration, ShouldEqual, 120)
			So(r.Kind(), ShouldEqual, KindVideo)
		})

		Convey("Resolution labels follow listing order", func() {
			So(list.Resolutions(), ShouldResemble, []string{"640x360", "1280x720", "1920x1080"})
		})

		Convey("Resolving the same manifest again yields the same order", func() {
			again := NewRenditionList(decodeMaster(t, masterWithDuplicate), params)
			So(again.Heights(), ShouldResemble, list.Heights())
		})
	})

	Convey("Given an empty master playlist", t, func() {
		list := NewRenditionList(m3u8.NewMasterPlaylist(), params)

		Convey("The list is empty, not an error", func() {
			So(list, ShouldBeEmpty)
			So(list.Best(), ShouldBeNil)
			So(list.Worst(), ShouldBeNil)
			So(list.ByHeight(720), ShouldBeNil)
		})
	})
}

func TestRendition(t *testing.T) {
	Convey("Rendition display helpers", t, func() {
		r := &Rendition{Title: "Some Show", Width: 1280, Height: 720, kind: KindShorts}

		So(r.Resolution(), ShouldEqual, "1280x720")
		So(r.String(), ShouldEqual, "Some Show (1280x720)")
		So(r.Filename(), ShouldEqual, "Some Show (1280x720).mp4")
		So(r.Kind(), ShouldEqual, KindShorts)

		Convey("Segment cache is settable, readable and restartable", func() {
			_, ok := r.Segments()
			So(ok, ShouldBeFalse)

			r.SetSegments([]string{"a.ts", "b.ts"})
			segments, ok := r.Segments()
			So(ok, ShouldBeTrue)
			So(segments, ShouldResemble, []string{"a.ts", "b.ts"})

			r.ClearSegments()
			_, ok = r.Segments()
			So(ok, ShouldBeFalse)
		})
	})
}

func TestYappyVideo(t *testing.T) {
	Convey("YappyVideo", t, func() {
		y := &YappyVideo{ID: "xyz", Link: "https://cdn.example/xyz.mp4"}

		So(y.Kind(), ShouldEqual, KindYappy)
		So(y.Resolution(), ShouldEqual, "1920x1080")
		So(y.String(), ShouldEqual, "xyz")
		So(y.Filename(), ShouldEqual, "xyz.mp4")
	})
}
