package playlist

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/voyagen/streamcheck/internal/models"
)

// IsPlaylist reports whether name has a playlist extension (.m3u8 or .m3u).
func IsPlaylist(name string) bool {
	switch filepath.Ext(name) {
	case ".m3u8", ".m3u":
		return true
	}
	return false
}

// ScanResult is what ScanDir collected.
type ScanResult struct {
	Entries []models.Entry
	Files   int // playlists parsed successfully
	Skipped int // playlists that could not be read or parsed
}

// ScanDir parses every playlist directly inside dir, in file name order, and returns the combined
// deduplicated entries. Failing to read dir is returned as an error; a playlist that fails to open
// or parse is logged, contributes nothing, and the scan moves on.
func ScanDir(dir string, seen *SeenSet, opts Options, log logrus.FieldLogger) (*ScanResult, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir %s: %w", dir, err)
	}

	res := &ScanResult{}
	for _, de := range dirEntries {
		if de.IsDir() || !IsPlaylist(de.Name()) {
			continue
		}
		path := filepath.Join(dir, de.Name())
		log.WithField("file", path).Info("parse")

		entries, err := parseFile(path, seen, opts)
		if err != nil {
			log.WithError(err).WithField("file", path).Warn("skip playlist")
			res.Skipped++
			continue
		}
		res.Entries = append(res.Entries, entries...)
		res.Files++
	}
	return res, nil
}

func parseFile(path string, seen *SeenSet, opts Options) ([]models.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseEntries(f, seen, opts)
}
