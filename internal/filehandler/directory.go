package filehandler

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

// ImageCandidate is the image selected from a directory listing.
type ImageCandidate struct {
	Path         string
	LastModified time.Time
	Size         int64
}

// FindMostRecent lists dirPath (non-recursively) and returns the supported
// image with the latest modification time. It returns (nil, nil) when no
// entry matches, and a *ScanError of type ErrTypeDirectoryRead when the
// directory cannot be listed.
//
// Entries whose metadata cannot be read are skipped with a warning rather
// than aborting the scan. Symlinks to files are followed; symlinks to
// directories are ignored. When two images share a modification time the
// first one in directory order wins.
func FindMostRecent(dirPath string) (*ImageCandidate, error) {
	log.Debug().Str("path", dirPath).Msg("Scanning directory for most recent image")

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, &ScanError{Type: ErrTypeDirectoryRead, Path: dirPath, Err: err}
	}

	var best *ImageCandidate
	var matched, skipped int

	for _, entry := range entries {
		if entry.IsDir() || !IsImage(filepath.Ext(entry.Name())) {
			continue
		}

		path := filepath.Join(dirPath, entry.Name())
		info, err := entryInfo(path, entry)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to read entry metadata, skipping")
			skipped++
			continue
		}
		if info.IsDir() {
			log.Debug().Str("path", path).Msg("Skipping symlink to directory")
			continue
		}

		matched++
		if best == nil || info.ModTime().After(best.LastModified) {
			best = &ImageCandidate{
				Path:         path,
				LastModified: info.ModTime(),
				Size:         info.Size(),
			}
		}
	}

	logEvent := log.Info().
		Str("directory", dirPath).
		Int("entries", len(entries)).
		Int("images", matched)
	if skipped > 0 {
		logEvent = logEvent.Int("skipped", skipped)
	}
	if best != nil {
		logEvent = logEvent.Str("selected", best.Path).Time("modified", best.LastModified)
	}
	logEvent.Msg("Directory scan complete")

	return best, nil
}

// entryInfo returns file info for a directory entry, resolving symlinks.
func entryInfo(path string, entry fs.DirEntry) (fs.FileInfo, error) {
	if entry.Type()&fs.ModeSymlink != 0 {
		return os.Stat(path)
	}
	return entry.Info()
}
