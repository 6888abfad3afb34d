package playlist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/voyagen/streamcheck/internal/models"
)

// ExtInfPrefix marks the description line of an entry.
const ExtInfPrefix = "#EXTINF:"

const httpsPrefix = "https://"

// ErrNotText is returned when playlist content is not valid UTF-8 text.
var ErrNotText = errors.New("playlist is not valid UTF-8 text")

// Options controls URL line acceptance.
type Options struct {
	// AllowHTTPS accepts URL lines that begin with "https://". Off by default:
	// such lines are rejected and the description before them yields no entry.
	AllowHTTPS bool
}

// ParseEntries reads a playlist from r and returns the entries whose URL is not yet in seen.
// Accepted URLs are added to seen; a URL already present is skipped silently. seen is only
// updated when the whole playlist parses, so a failed read contributes nothing.
//
// A line starting with ExtInfPrefix is a description. The line right after it is taken as the
// URL when it is non-empty (and, unless AllowHTTPS, does not start with "https://"); the pair is
// then consumed together. A rejected follow-up line is examined again on its own.
func ParseEntries(r io.Reader, seen *SeenSet, opts Options) ([]models.Entry, error) {
	var entries []models.Entry
	var description string
	pending := false
	fresh := make(map[string]struct{})
	duplicates := 0

	step := func(line string) {
		if pending {
			pending = false
			if acceptURL(line, opts) {
				_, dup := fresh[line]
				if dup || seen.Contains(line) {
					duplicates++
				} else {
					fresh[line] = struct{}{}
					entries = append(entries, models.Entry{Description: description, URL: line})
				}
				return
			}
		}
		if strings.HasPrefix(line, ExtInfPrefix) {
			description = line
			pending = true
		}
	}

	// No line length cap: EXTINF lines with inline logos can run to megabytes.
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read playlist: %w", err)
		}
		if line == "" && err != nil {
			break
		}
		if !utf8.ValidString(line) {
			return nil, ErrNotText
		}
		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")
		step(line)
		if err != nil {
			break
		}
	}

	for _, e := range entries {
		seen.Add(e.URL)
	}
	seen.recordDuplicates(duplicates)
	return entries, nil
}

func acceptURL(line string, opts Options) bool {
	if line == "" {
		return false
	}
	if !opts.AllowHTTPS && strings.HasPrefix(line, httpsPrefix) {
		return false
	}
	return true
}
