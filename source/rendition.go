// Package source defines the domain models for resolved videos and their downloadable renditions.
package source

import (
	"fmt"

	"github.com/samber/mo"
)

// Params carries the metadata shared by every rendition of one resolved video.
type Params struct {
	ID       string
	Title    string
	Duration float64
	Kind     Kind
}

// Rendition represents one downloadable quality variant of a segmented video.
//
// The first manifest entry seen at a resolution becomes the primary source;
// a later entry at the same resolution becomes the reserve source of the
// existing Rendition instead of a standalone one.
type Rendition struct {
	ID       string
	Title    string
	Duration float64

	Width  int
	Height int
	Codecs string

	// PrimaryURI locates the sub-playlist listing this rendition's segments.
	PrimaryURI string
	// ReserveURI is the equivalent backup location, present only when the
	// master playlist carried a duplicate entry for this resolution.
	ReserveURI mo.Option[string]

	kind     Kind
	segments []string
}

// Kind returns the source flavor this rendition was resolved from.
// A rendition constructed without one is a regular video.
func (r *Rendition) Kind() Kind {
	if r.kind == "" {
		return KindVideo
	}
	return r.kind
}

// Resolution returns the "WxH" display label.
func (r *Rendition) Resolution() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

func (r *Rendition) String() string {
	return fmt.Sprintf("%s (%s)", r.Title, r.Resolution())
}

// Filename returns the target filename for the downloaded file.
func (r *Rendition) Filename() string {
	return r.String() + ".mp4"
}

// Segments returns the cached ordered segment URI list, if resolved.
func (r *Rendition) Segments() ([]string, bool) {
	return r.segments, r.segments != nil
}

// SetSegments caches the ordered segment URI list on the rendition.
func (r *Rendition) SetSegments(uris []string) {
	r.segments = uris
}

// ClearSegments drops the cached segment list so a later resolution recomputes it.
func (r *Rendition) ClearSegments() {
	r.segments = nil
}
