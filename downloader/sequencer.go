package downloader

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/grafov/m3u8"
	"github.com/rutube-cli/rutube/log"
	"github.com/rutube-cli/rutube/source"
)

// Sequencer resolves the ordered segment URI list of a rendition from its
// sub-playlist. Unlike the per-segment Fetcher there is no retry loop here:
// the only recovery is a single primary-to-reserve failover.
type Sequencer struct {
	Fetcher *Fetcher
}

// NewSequencer returns a Sequencer backed by the production Fetcher.
func NewSequencer() *Sequencer {
	return &Sequencer{Fetcher: NewFetcher()}
}

// Segments returns the rendition's ordered segment URIs, fetching and parsing
// its sub-playlist on first use. The result is cached on the rendition;
// clearing the cache makes the next call recompute it.
func (s *Sequencer) Segments(ctx context.Context, r *source.Rendition) ([]string, error) {
	if cached, ok := r.Segments(); ok {
		return cached, nil
	}

	body, status, err := s.Fetcher.fetchOnce(ctx, r.PrimaryURI)
	if err != nil || !success(status) {
		reserve, ok := r.ReserveURI.Get()
		if !ok {
			return nil, &UnavailableError{URL: r.PrimaryURI, Status: status}
		}

		log.Debugf("sub-playlist %s: status %d, failing over to reserve", r.PrimaryURI, status)
		body, status, err = s.Fetcher.fetchOnce(ctx, reserve)
		if err != nil || !success(status) {
			return nil, &UnavailableError{URL: reserve, Status: status}
		}
	}

	uris, err := parseSegmentURIs(body)
	if err != nil {
		return nil, err
	}

	r.SetSegments(uris)
	return uris, nil
}

// parseSegmentURIs extracts the ordered segment locations from a media playlist body.
func parseSegmentURIs(body []byte) ([]string, error) {
	playlist, _, err := m3u8.DecodeFrom(bytes.NewReader(body), true)
	if err != nil {
		return nil, err
	}

	media, ok := playlist.(*m3u8.MediaPlaylist)
	if !ok {
		return nil, errors.New("sub-playlist is not a media playlist")
	}

	var uris []string
	for _, segment := range media.Segments {
		if segment == nil {
			continue
		}
		uris = append(uris, segment.URI)
	}
	return uris, nil
}

// MakeSegmentURI resolves a segment URI against a playlist base URI using the
// platform's CDN layout: the base is truncated at its ".m3u8" marker and the
// segment is addressed by its trailing path component only, regardless of how
// the sub-playlist encoded relative paths. This join must not be replaced by
// standard URL resolution.
func MakeSegmentURI(baseURI, segmentURI string) string {
	if i := strings.Index(baseURI, ".m3u8"); i >= 0 {
		baseURI = baseURI[:i]
	}
	name := segmentURI
	if j := strings.LastIndex(segmentURI, "/"); j >= 0 {
		name = segmentURI[j+1:]
	}
	return baseURI + "/" + name
}
