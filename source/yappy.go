// Package source defines the domain models for resolved videos and their downloadable renditions.
package source

// YappyVideo is the degenerate, non-segmented variant: a single direct
// content link with no manifest. Resolution is nominal since the platform
// does not expose one.
type YappyVideo struct {
	ID   string
	Link string
}

// Kind returns KindYappy.
func (y *YappyVideo) Kind() Kind {
	return KindYappy
}

// Resolution returns the nominal "WxH" label.
func (y *YappyVideo) Resolution() string {
	return "1920x1080"
}

func (y *YappyVideo) String() string {
	return y.ID
}

// Filename returns the target filename for the downloaded file.
func (y *YappyVideo) Filename() string {
	return y.ID + ".mp4"
}
