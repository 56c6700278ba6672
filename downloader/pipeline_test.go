package downloader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/rutube-cli/rutube/source"
)

// segmentServer serves a sub-playlist at /<name>.m3u8 and deterministic
// segment payloads at /<name>/segment-<i>.ts. Segment indices listed in
// failing always return 500.
func segmentServer(segments int, failing ...int) *httptest.Server {
	failSet := make(map[string]bool)
	for _, i := range failing {
		failSet[fmt.Sprintf("segment-%d.ts", i)] = true
	}

	names := make([]string, segments)
	for i := range names {
		names[i] = fmt.Sprintf("segment-%d.ts", i)
	}
	playlist := mediaPlaylist(names...)

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, ".m3u8") {
			_, _ = w.Write([]byte(playlist))
			return
		}

		name := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		if failSet[name] {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("payload:" + name + ";"))
	}))
}

func expectedOutput(segments int) string {
	var b strings.Builder
	for i := 0; i < segments; i++ {
		fmt.Fprintf(&b, "payload:segment-%d.ts;", i)
	}
	return b.String()
}

func testPipeline() *Pipeline {
	fetcher := testFetcher()
	return &Pipeline{Fetcher: fetcher, Sequencer: &Sequencer{Fetcher: fetcher}}
}

func TestDownload(t *testing.T) {
	Convey("Given a rendition with ten healthy segments", t, func() {
		srv := segmentServer(10)
		defer srv.Close()

		newRendition := func() *source.Rendition {
			return &source.Rendition{PrimaryURI: srv.URL + "/720.m3u8"}
		}

		Convey("Sequential download writes segments in playlist order", func() {
			var sink bytes.Buffer
			var ticks atomic.Int32

			err := testPipeline().Download(context.Background(), newRendition(), &sink, 0, func() { ticks.Add(1) })
			So(err, ShouldBeNil)
			So(sink.String(), ShouldEqual, expectedOutput(10))
			So(ticks.Load(), ShouldEqual, 10)
		})

		Convey("Concurrent download produces byte-identical output", func() {
			var sequential, concurrent bytes.Buffer

			So(testPipeline().Download(context.Background(), newRendition(), &sequential, 0, nil), ShouldBeNil)
			So(testPipeline().Download(context.Background(), newRendition(), &concurrent, 4, nil), ShouldBeNil)

			So(concurrent.String(), ShouldEqual, sequential.String())
		})

		Convey("Concurrent download ticks once per segment", func() {
			var sink bytes.Buffer
			var ticks atomic.Int32

			err := testPipeline().Download(context.Background(), newRendition(), &sink, 3, func() { ticks.Add(1) })
			So(err, ShouldBeNil)
			So(ticks.Load(), ShouldEqual, 10)
		})

		Convey("More workers than segments still drains cleanly", func() {
			var sink bytes.Buffer
			err := testPipeline().Download(context.Background(), newRendition(), &sink, 32, nil)
			So(err, ShouldBeNil)
			So(sink.String(), ShouldEqual, expectedOutput(10))
		})
	})

	Convey("Given a rendition whose fifth segment always fails", t, func() {
		srv := segmentServer(10, 4)
		defer srv.Close()

		r := &source.Rendition{PrimaryURI: srv.URL + "/720.m3u8"}

		// A generous fixed backoff keeps the abort window wide enough for the
		// healthy lower-indexed segments to land first.
		fetcher := &Fetcher{Client: http.DefaultClient, Retries: Retry, Backoff: 50 * time.Millisecond}
		pipeline := &Pipeline{Fetcher: fetcher, Sequencer: &Sequencer{Fetcher: fetcher}}

		Convey("The concurrent download aborts with UnavailableError, keeping the in-order prefix", func() {
			var sink bytes.Buffer
			err := pipeline.Download(context.Background(), r, &sink, 3, nil)

			var unavailable *UnavailableError
			So(errors.As(err, &unavailable), ShouldBeTrue)
			So(unavailable.Status, ShouldEqual, http.StatusInternalServerError)

			So(sink.String(), ShouldEqual, expectedOutput(4))
			So(sink.String(), ShouldNotContainSubstring, "segment-4.ts")
		})

		Convey("The sequential download aborts at the failing segment", func() {
			r.ClearSegments()
			var sink bytes.Buffer
			err := pipeline.Download(context.Background(), r, &sink, 0, nil)

			var unavailable *UnavailableError
			So(errors.As(err, &unavailable), ShouldBeTrue)
			So(sink.String(), ShouldEqual, expectedOutput(4))
		})
	})

	Convey("Given a rendition with a reserve source", t, func() {
		var reserveHits, primaryHits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case strings.HasSuffix(r.URL.Path, ".m3u8"):
				_, _ = w.Write([]byte(mediaPlaylist("segment-0.ts", "segment-1.ts")))
			case strings.HasPrefix(r.URL.Path, "/reserve/"):
				reserveHits.Add(1)
				_, _ = w.Write([]byte("reserve-bytes"))
			default:
				primaryHits.Add(1)
				_, _ = w.Write([]byte("primary-bytes"))
			}
		}))
		defer srv.Close()

		r := &source.Rendition{
			PrimaryURI: srv.URL + "/primary.m3u8",
			ReserveURI: mo.Some(srv.URL + "/reserve.m3u8"),
		}

		Convey("Segment bytes are fetched from the reserve base first", func() {
			var sink bytes.Buffer
			err := testPipeline().Download(context.Background(), r, &sink, 0, nil)
			So(err, ShouldBeNil)
			So(reserveHits.Load(), ShouldEqual, 2)
			So(primaryHits.Load(), ShouldEqual, 0)
			So(sink.String(), ShouldEqual, "reserve-bytesreserve-bytes")
		})
	})
}

func TestDownloadDirect(t *testing.T) {
	Convey("Given a healthy direct link", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("whole-file"))
		}))
		defer srv.Close()

		y := &source.YappyVideo{ID: "xyz", Link: srv.URL}

		Convey("The body is written in one piece with two ticks", func() {
			var sink bytes.Buffer
			var ticks atomic.Int32

			err := testPipeline().DownloadDirect(context.Background(), y, &sink, func() { ticks.Add(1) })
			So(err, ShouldBeNil)
			So(sink.String(), ShouldEqual, "whole-file")
			So(ticks.Load(), ShouldEqual, 2)
		})
	})

	Convey("Given a dead direct link", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		y := &source.YappyVideo{ID: "xyz", Link: srv.URL}

		Convey("The download fails with UnavailableError", func() {
			var sink bytes.Buffer
			err := testPipeline().DownloadDirect(context.Background(), y, &sink, nil)

			var unavailable *UnavailableError
			So(errors.As(err, &unavailable), ShouldBeTrue)
			So(unavailable.Status, ShouldEqual, http.StatusNotFound)
			So(sink.Len(), ShouldEqual, 0)
		})
	})
}
