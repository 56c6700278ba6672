package downloader

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rutube-cli/rutube/constant"
	"github.com/rutube-cli/rutube/log"
	"github.com/rutube-cli/rutube/network"
)

const (
	// Retry is the total attempt budget per resource, including the first attempt.
	Retry = 5
	// RetryTimeout is the fixed pause between attempts. No exponential backoff,
	// no jitter: the platform CDN recovers within a second or not at all.
	RetryTimeout = time.Second
)

// Fetcher retrieves single resources over HTTP with a bounded retry budget.
// The zero value is not usable; construct with NewFetcher. Tests may override
// the fields to shrink the backoff interval.
type Fetcher struct {
	Client  *http.Client
	Retries int
	Backoff time.Duration
}

// NewFetcher returns a Fetcher with the production retry policy.
func NewFetcher() *Fetcher {
	return &Fetcher{
		Client:  network.Client,
		Retries: Retry,
		Backoff: RetryTimeout,
	}
}

// Fetch downloads the resource at uri, retrying on any non-success response
// with a fixed pause between attempts. Exhausting the budget yields an
// UnavailableError carrying the last observed status.
func (f *Fetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	var lastStatus int

	for attempt := 0; attempt < f.Retries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(f.Backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		body, status, err := f.fetchOnce(ctx, uri)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Debugf("fetch %s: %v", uri, err)
			lastStatus = 0
			continue
		}
		if success(status) {
			return body, nil
		}

		log.Debugf("fetch %s: status %d, attempt %d/%d", uri, status, attempt+1, f.Retries)
		lastStatus = status
	}

	return nil, &UnavailableError{URL: uri, Status: lastStatus}
}

// fetchOnce performs exactly one GET. A non-success status is not an error
// here; callers decide whether to retry, fail over or give up.
func (f *Fetcher) fetchOnce(ctx context.Context, uri string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", constant.UserAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

func success(status int) bool {
	return status >= 200 && status < 300
}
