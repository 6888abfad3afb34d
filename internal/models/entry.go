package models

// Entry is one stream taken from a playlist: the #EXTINF line verbatim and the URL line after it.
// Entries are values; nothing holds a pointer back into the playlist they came from.
type Entry struct {
	Description string `json:"description"`
	URL         string `json:"url"`
}
