package util

import (
	"regexp"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSanitizeTitle(t *testing.T) {
	Convey("SanitizeTitle", t, func() {
		Convey("Should strip every forbidden character", func() {
			So(SanitizeTitle(`a/b\c:d*e?f"g<h>i|j`), ShouldEqual, "abcdefghij")
		})
		Convey("Should keep everything else untouched", func() {
			So(SanitizeTitle("Гонки 2024 (финал)"), ShouldEqual, "Гонки 2024 (финал)")
		})
		Convey("Should pass empty strings through", func() {
			So(SanitizeTitle(""), ShouldEqual, "")
		})
	})
}

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "segment", "segments"), ShouldEqual, "1 segment")
		So(Quantify(12, "segment", "segments"), ShouldEqual, "12 segments")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("hello"), ShouldEqual, "Hello")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestReGroups(t *testing.T) {
	Convey("ReGroups", t, func() {
		re := regexp.MustCompile(`(?P<kind>\w+)/(?P<id>\w+)`)
		groups := ReGroups(re, "video/5c5f0ae2d9744d11a05b76bd327cbb51")
		So(groups["kind"], ShouldEqual, "video")
		So(groups["id"], ShouldEqual, "5c5f0ae2d9744d11a05b76bd327cbb51")
	})
}

func TestFileStem(t *testing.T) {
	Convey("FileStem", t, func() {
		So(FileStem("path/to/file.mp4"), ShouldEqual, "file")
		So(FileStem("file"), ShouldEqual, "file")
	})
}
