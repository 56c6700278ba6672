package rutube

import "errors"

var (
	// ErrSourceUnavailable marks a page or platform API endpoint that did not
	// answer with a success status.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrInvalidURL marks a page URL no video id could be extracted from.
	ErrInvalidURL = errors.New("invalid video url")
	// ErrNoResults marks a yappy lookup that returned an empty result set.
	ErrNoResults = errors.New("no results found")
)
