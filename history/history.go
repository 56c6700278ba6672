// Package history provides the implementation for tracking and persisting completed downloads.
package history

import (
	"github.com/metafates/gache"

	"github.com/rutube-cli/rutube/filesystem"
	"github.com/rutube-cli/rutube/source"
	"github.com/rutube-cli/rutube/where"
)

// cacher provides an abstracted, disk-backed registry for download records.
var cacher = gache.New[map[string]*SavedDownload](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns the complete collection of download records from the persistent store.
func Get() (map[string]*SavedDownload, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*SavedDownload), nil
	}
	return cached, nil
}

// Save persists a completed download of the media written to path.
// Re-downloading the same media to a new location overwrites the old record.
func Save(media source.Media, path string) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	record := newSavedDownload(media, path)
	saved[record.encode()] = record

	return cacher.Set(saved)
}

// Remove permanently deletes a specific download record from the registry.
func Remove(record *SavedDownload) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, record.encode())
	return cacher.Set(saved)
}
