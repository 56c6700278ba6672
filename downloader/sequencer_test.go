package downloader

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/rutube-cli/rutube/source"
)

func mediaPlaylist(segments ...string) string {
	body := "#EXTM3U\n#EXT-X-VERSION:3\n#EXT-X-TARGETDURATION:10\n#EXT-X-MEDIA-SEQUENCE:0\n"
	for _, s := range segments {
		body += fmt.Sprintf("#EXTINF:10.000,\n%s\n", s)
	}
	return body + "#EXT-X-ENDLIST\n"
}

func TestSegments(t *testing.T) {
	playlist := mediaPlaylist("segment-0.ts", "segment-1.ts", "segment-2.ts")

	Convey("Given a healthy primary sub-playlist", t, func() {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			_, _ = w.Write([]byte(playlist))
		}))
		defer srv.Close()

		r := &source.Rendition{PrimaryURI: srv.URL + "/720.m3u8"}
		sequencer := &Sequencer{Fetcher: testFetcher()}

		Convey("The ordered segment list is returned and cached", func() {
			uris, err := sequencer.Segments(context.Background(), r)
			So(err, ShouldBeNil)
			So(uris, ShouldResemble, []string{"segment-0.ts", "segment-1.ts", "segment-2.ts"})

			again, err := sequencer.Segments(context.Background(), r)
			So(err, ShouldBeNil)
			So(again, ShouldResemble, uris)
			So(hits.Load(), ShouldEqual, 1)

			Convey("Clearing the cache recomputes the list", func() {
				r.ClearSegments()
				_, err := sequencer.Segments(context.Background(), r)
				So(err, ShouldBeNil)
				So(hits.Load(), ShouldEqual, 2)
			})
		})
	})

	Convey("Given a failing primary and a healthy reserve", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/primary.m3u8" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_, _ = w.Write([]byte(playlist))
		}))
		defer srv.Close()

		r := &source.Rendition{
			PrimaryURI: srv.URL + "/primary.m3u8",
			ReserveURI: mo.Some(srv.URL + "/reserve.m3u8"),
		}

		Convey("The reserve's segment list is returned", func() {
			uris, err := (&Sequencer{Fetcher: testFetcher()}).Segments(context.Background(), r)
			So(err, ShouldBeNil)
			So(uris, ShouldHaveLength, 3)
		})
	})

	Convey("Given both locations failing", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		r := &source.Rendition{
			PrimaryURI: srv.URL + "/primary.m3u8",
			ReserveURI: mo.Some(srv.URL + "/reserve.m3u8"),
		}

		Convey("The failover fails with UnavailableError", func() {
			_, err := (&Sequencer{Fetcher: testFetcher()}).Segments(context.Background(), r)

			var unavailable *UnavailableError
			So(errors.As(err, &unavailable), ShouldBeTrue)
			So(unavailable.Status, ShouldEqual, http.StatusInternalServerError)
		})
	})

	Convey("Given a failing primary and no reserve", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		r := &source.Rendition{PrimaryURI: srv.URL + "/primary.m3u8"}

		Convey("The sequencer fails without retrying", func() {
			_, err := (&Sequencer{Fetcher: testFetcher()}).Segments(context.Background(), r)

			var unavailable *UnavailableError
			So(errors.As(err, &unavailable), ShouldBeTrue)
			So(unavailable.URL, ShouldEqual, r.PrimaryURI)
		})
	})
}

func TestMakeSegmentURI(t *testing.T) {
	Convey("MakeSegmentURI", t, func() {
		Convey("Truncates the base at the manifest marker and keeps the segment filename only", func() {
			So(
				MakeSegmentURI("https://cdn.example/video/720.m3u8", "nested/path/segment-1.ts"),
				ShouldEqual,
				"https://cdn.example/video/720/segment-1.ts",
			)
		})

		Convey("Ignores query noise after the marker", func() {
			So(
				MakeSegmentURI("https://cdn.example/video/720.m3u8?token=abc", "segment-1.ts"),
				ShouldEqual,
				"https://cdn.example/video/720/segment-1.ts",
			)
		})

		Convey("Appends directly when the base carries no marker", func() {
			So(
				MakeSegmentURI("https://cdn.example/video/720", "segment-1.ts"),
				ShouldEqual,
				"https://cdn.example/video/720/segment-1.ts",
			)
		})
	})
}
