package history

import (
	"fmt"
	"time"

	"github.com/rutube-cli/rutube/source"
)

// SavedDownload represents one completed download preserved in the user's history.
type SavedDownload struct {
	Title        string    `json:"title"`
	Kind         string    `json:"kind"`
	Resolution   string    `json:"resolution"`
	Path         string    `json:"path"`
	DownloadedAt time.Time `json:"downloaded_at"`
}

func (s *SavedDownload) encode() string {
	return fmt.Sprintf("%s [%s]", s.Title, s.Kind)
}

func (s *SavedDownload) String() string {
	return fmt.Sprintf("%s [%s] %s", s.Title, s.Resolution, s.DownloadedAt.Format("2006-01-02 15:04"))
}

func newSavedDownload(media source.Media, path string) *SavedDownload {
	return &SavedDownload{
		Title:        media.String(),
		Kind:         media.Kind().String(),
		Resolution:   media.Resolution(),
		Path:         path,
		DownloadedAt: time.Now(),
	}
}
