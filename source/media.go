// Package source defines the domain models for resolved videos and their downloadable renditions.
package source

import "fmt"

// Media is the capability set shared by every downloadable variant,
// regardless of whether it is segmented (Rendition) or direct (YappyVideo).
// Kind carries the discriminant for callers that need to branch.
type Media interface {
	fmt.Stringer

	// Kind returns the source flavor this media belongs to.
	Kind() Kind
	// Resolution returns the "WxH" display label.
	Resolution() string
	// Filename returns the target filename for the downloaded file.
	Filename() string
}
