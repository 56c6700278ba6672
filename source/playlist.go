// Package source defines the domain models for resolved videos and their downloadable renditions.
package source

import (
	"strconv"
	"strings"

	"github.com/grafov/m3u8"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// RenditionList is an ordered collection of renditions, one per distinct
// resolution height. Ordering is the master playlist's own listing order,
// never re-sorted: the platform lists qualities ascending, so the last entry
// is the best one.
type RenditionList []*Rendition

// NewRenditionList builds the deduplicated rendition list from a parsed
// master playlist. On first sight of a resolution height a new Rendition is
// created with that entry's URI as primary; a repeat height attaches its URI
// as the reserve source of the existing Rendition.
//
// An empty master playlist yields an empty list, not an error.
func NewRenditionList(master *m3u8.MasterPlaylist, params Params) RenditionList {
	var list RenditionList
	byHeight := make(map[int]*Rendition)

	for _, variant := range master.Variants {
		if variant == nil {
			continue
		}

		width, height := parseResolution(variant.Resolution)
		if existing, ok := byHeight[height]; ok {
			existing.ReserveURI = mo.Some(variant.URI)
			continue
		}

		rendition := &Rendition{
			ID:         params.ID,
			Title:      params.Title,
			Duration:   params.Duration,
			Width:      width,
			Height:     height,
			Codecs:     variant.Codecs,
			PrimaryURI: variant.URI,
			kind:       params.Kind,
		}
		byHeight[height] = rendition
		list = append(list, rendition)
	}

	return list
}

// Best returns the highest-quality rendition (the last listed), or nil when empty.
func (l RenditionList) Best() *Rendition {
	if len(l) == 0 {
		return nil
	}
	return l[len(l)-1]
}

// Worst returns the lowest-quality rendition (the first listed), or nil when empty.
func (l RenditionList) Worst() *Rendition {
	if len(l) == 0 {
		return nil
	}
	return l[0]
}

// ByHeight returns the rendition with the given vertical resolution, scanning
// from the end so the most-recently-added entry wins, or nil when absent.
func (l RenditionList) ByHeight(height int) *Rendition {
	for i := len(l) - 1; i >= 0; i-- {
		if l[i].Height == height {
			return l[i]
		}
	}
	return nil
}

// Resolutions returns the display labels of all available renditions in listing order.
func (l RenditionList) Resolutions() []string {
	return lo.Map(l, func(r *Rendition, _ int) string {
		return r.Resolution()
	})
}

// Heights returns the vertical resolutions of all available renditions in listing order.
func (l RenditionList) Heights() []int {
	return lo.Map(l, func(r *Rendition, _ int) int {
		return r.Height
	})
}

// parseResolution splits a "WxH" descriptor into its integer parts.
// Malformed descriptors yield zero dimensions rather than an error: the
// rendition stays selectable and the label degrades gracefully.
func parseResolution(s string) (width, height int) {
	parts := strings.SplitN(s, "x", 2)
	if len(parts) != 2 {
		return 0, 0
	}
	width, _ = strconv.Atoi(parts[0])
	height, _ = strconv.Atoi(parts[1])
	return width, height
}
