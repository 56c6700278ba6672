// Package downloader implements the segmented media retrieval pipeline:
// per-segment fetching with bounded retry and dual-path failover, segment
// sequencing, and concurrent fetching with strictly ordered reassembly.
package downloader

import "fmt"

// UnavailableError reports a resource that stayed unavailable after the retry
// budget or the primary/reserve failover was exhausted. Status holds the last
// HTTP status observed, or 0 when the request never produced a response.
type UnavailableError struct {
	URL    string
	Status int
}

func (e *UnavailableError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("resource unavailable: %s", e.URL)
	}
	return fmt.Sprintf("resource unavailable: %s (status %d)", e.URL, e.Status)
}
