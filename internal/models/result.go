package models

import (
	"strings"
	"time"
)

// Result is the outcome of probing one entry.
type Result struct {
	Entry      Entry
	Valid      bool
	Reason     string // one of the Reason* constants
	StatusCode int    // 0 when no response was received
	Err        error  // set for timeout and transport failures
	Duration   time.Duration
}

// MediaTypeFromURL guesses the media type from the URL suffix.
func MediaTypeFromURL(url string) int16 {
	lower := strings.ToLower(url)
	if strings.HasSuffix(lower, ".mp4") || strings.HasSuffix(lower, ".mkv") {
		return MediaTypeMovie
	}
	return MediaTypeLivestream
}
