// Package source defines the domain models for resolved videos and their downloadable renditions.
package source

// Kind discriminates the supported video source flavors. The values double as
// the URL path literals used to classify a page URL.
type Kind string

const (
	// KindVideo is a regular long-form video backed by a segmented playlist.
	KindVideo Kind = "video"
	// KindShorts is a short-form video, also backed by a segmented playlist.
	KindShorts Kind = "shorts"
	// KindYappy is a short hosted on the yappy platform, served as a single file.
	KindYappy Kind = "yappy"
)

func (k Kind) String() string {
	return string(k)
}
