// Package rutube resolves a video page URL into its downloadable media. It
// classifies the URL, talks to the platform APIs and hands the parsed master
// playlist to the rendition builder; it performs no downloading itself.
package rutube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/grafov/m3u8"

	"github.com/rutube-cli/rutube/constant"
	"github.com/rutube-cli/rutube/log"
	"github.com/rutube-cli/rutube/network"
	"github.com/rutube-cli/rutube/source"
	"github.com/rutube-cli/rutube/util"
)

// Client resolves page URLs against the platform APIs. The endpoint templates
// are fields so tests can point them at a local server.
type Client struct {
	// PlayOptionsURL is the play-options endpoint template, video id as the
	// single format argument.
	PlayOptionsURL string
	// YappyPageURL is the yappy lookup endpoint template, video id as the
	// single format argument.
	YappyPageURL string
}

// NewClient returns a Client bound to the production endpoints.
func NewClient() *Client {
	return &Client{
		PlayOptionsURL: constant.PlayOptionsURL,
		YappyPageURL:   constant.YappyPageURL,
	}
}

// Video is a resolved page: its identity plus the downloadable media. Exactly
// one of Renditions and Yappy is populated, keyed by Kind.
type Video struct {
	ID       string
	Title    string
	Kind     source.Kind
	Duration float64

	Renditions source.RenditionList
	Yappy      *source.YappyVideo
}

// Media returns every downloadable variant of the video in selection order.
func (v *Video) Media() []source.Media {
	if v.Yappy != nil {
		return []source.Media{v.Yappy}
	}

	media := make([]source.Media, len(v.Renditions))
	for i, r := range v.Renditions {
		media[i] = r
	}
	return media
}

// Best returns the highest-quality variant, or nil when nothing resolved.
func (v *Video) Best() source.Media {
	if v.Yappy != nil {
		return v.Yappy
	}
	if best := v.Renditions.Best(); best != nil {
		return best
	}
	return nil
}

// Worst returns the lowest-quality variant, or nil when nothing resolved.
func (v *Video) Worst() source.Media {
	if v.Yappy != nil {
		return v.Yappy
	}
	if worst := v.Renditions.Worst(); worst != nil {
		return worst
	}
	return nil
}

// ByResolution returns the variant with the given vertical resolution, or nil
// when absent. A yappy video matches any requested resolution since it has
// only one.
func (v *Video) ByResolution(height int) source.Media {
	if v.Yappy != nil {
		return v.Yappy
	}
	if r := v.Renditions.ByHeight(height); r != nil {
		return r
	}
	return nil
}

// AvailableResolutions returns the display labels of every variant.
func (v *Video) AvailableResolutions() []string {
	if v.Yappy != nil {
		return []string{v.Yappy.Resolution()}
	}
	return v.Renditions.Resolutions()
}

// Resolve classifies the page URL, extracts the video id and resolves the
// downloadable media behind it.
func (c *Client) Resolve(ctx context.Context, pageURL string) (*Video, error) {
	if err := c.checkPage(ctx, pageURL); err != nil {
		return nil, err
	}

	kind := ClassifyKind(pageURL)
	id, err := ExtractID(kind, pageURL)
	if err != nil {
		return nil, err
	}

	log.Infof("resolving %s %s", kind, id)

	if kind == source.KindYappy {
		return c.resolveYappy(ctx, id)
	}
	return c.resolveSegmented(ctx, kind, id)
}

// checkPage verifies the page itself answers before any API call is made.
func (c *Client) checkPage(ctx context.Context, pageURL string) error {
	resp, err := network.Get(ctx, pageURL)
	if err != nil {
		return fmt.Errorf("%w: %s: %s", ErrSourceUnavailable, pageURL, err)
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: %s: status %d", ErrSourceUnavailable, pageURL, resp.StatusCode)
	}
	return nil
}

// resolveSegmented handles regular and shorts videos: play-options JSON for
// the metadata, then the master playlist for the renditions.
func (c *Client) resolveSegmented(ctx context.Context, kind source.Kind, id string) (*Video, error) {
	var options playOptions
	if err := c.getJSON(ctx, fmt.Sprintf(c.PlayOptionsURL, id), &options); err != nil {
		return nil, err
	}

	title := util.SanitizeTitle(options.Title)
	if title == "" {
		title = id
	}

	master, err := c.getMaster(ctx, options.VideoBalancer.M3U8)
	if err != nil {
		return nil, err
	}

	return &Video{
		ID:       id,
		Title:    title,
		Kind:     kind,
		Duration: options.Duration,
		Renditions: source.NewRenditionList(master, source.Params{
			ID:       id,
			Title:    title,
			Duration: options.Duration,
			Kind:     kind,
		}),
	}, nil
}

// resolveYappy handles yappy shorts: a single direct link from the lookup API.
func (c *Client) resolveYappy(ctx context.Context, id string) (*Video, error) {
	var page yappyPage
	if err := c.getJSON(ctx, fmt.Sprintf(c.YappyPageURL, id), &page); err != nil {
		return nil, err
	}

	if len(page.Results) == 0 {
		return nil, fmt.Errorf("%w: yappy %s", ErrNoResults, id)
	}

	return &Video{
		ID:    id,
		Title: id,
		Kind:  source.KindYappy,
		Yappy: &source.YappyVideo{ID: id, Link: page.Results[0].Link},
	}, nil
}

// getJSON fetches a platform API document into out.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	body, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// getMaster fetches and parses the master playlist.
func (c *Client) getMaster(ctx context.Context, url string) (*m3u8.MasterPlaylist, error) {
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	playlist, _, err := m3u8.DecodeFrom(bytes.NewReader(body), true)
	if err != nil {
		return nil, fmt.Errorf("decode master playlist %s: %w", url, err)
	}

	master, ok := playlist.(*m3u8.MasterPlaylist)
	if !ok {
		return nil, fmt.Errorf("decode master playlist %s: not a master playlist", url)
	}
	return master, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	resp, err := network.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrSourceUnavailable, url, err)
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: %s: status %d", ErrSourceUnavailable, url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
