package playlist

import (
	"errors"
	"strings"
	"testing"

	"github.com/voyagen/streamcheck/internal/models"
)

func TestParseEntries_SkipsHTTPSLines(t *testing.T) {
	data := "#EXTINF:,Channel A\n" +
		"http://example.com/a.ts\n" +
		"#EXTINF:,Channel B\n" +
		"https://example.com/b.ts\n"

	entries, err := ParseEntries(strings.NewReader(data), NewSeenSet(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := []models.Entry{{Description: "#EXTINF:,Channel A", URL: "http://example.com/a.ts"}}
	if !equalEntries(entries, want) {
		t.Errorf("Expected %v, got %v", want, entries)
	}
}

func TestParseEntries_AcceptanceRule(t *testing.T) {
	tests := []struct {
		name string
		data string
		opts Options
		want []models.Entry
	}{
		{
			name: "empty line after description",
			data: "#EXTINF:-1,A\n\nhttp://a\n",
			want: nil,
		},
		{
			name: "https line after description",
			data: "#EXTINF:-1,A\nhttps://a\n",
			want: nil,
		},
		{
			name: "https accepted when allowed",
			data: "#EXTINF:-1,A\nhttps://a\n",
			opts: Options{AllowHTTPS: true},
			want: []models.Entry{{Description: "#EXTINF:-1,A", URL: "https://a"}},
		},
		{
			name: "any other non-empty line is a url",
			data: "#EXTINF:-1,A\nrtmp://a/live\n",
			want: []models.Entry{{Description: "#EXTINF:-1,A", URL: "rtmp://a/live"}},
		},
		{
			name: "description at end of file",
			data: "#EXTM3U\n#EXTINF:-1,A",
			want: nil,
		},
		{
			name: "lines without description are ignored",
			data: "#EXTM3U\nhttp://orphan\n#EXTVLCOPT:http-referrer=x\n",
			want: nil,
		},
		{
			name: "marker is case sensitive",
			data: "#extinf:-1,A\nhttp://a\n",
			want: nil,
		},
		{
			name: "rejected follow-up is examined again",
			data: "#EXTINF:-1,A\nhttps://a\n#EXTINF:-1,B\nhttp://b\n",
			want: []models.Entry{{Description: "#EXTINF:-1,B", URL: "http://b"}},
		},
		{
			name: "accepted pair consumes the url line even if it is a marker",
			data: "#EXTINF:-1,A\n#EXTINF:-1,B\nhttp://b\n",
			want: []models.Entry{{Description: "#EXTINF:-1,A", URL: "#EXTINF:-1,B"}},
		},
		{
			name: "crlf line endings",
			data: "#EXTINF:-1,A\r\nhttp://a\r\n",
			want: []models.Entry{{Description: "#EXTINF:-1,A", URL: "http://a"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEntries(strings.NewReader(tt.data), NewSeenSet(), tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			if !equalEntries(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestParseEntries_DedupKeepsFirst(t *testing.T) {
	data := "#EXTINF:-1,First\nhttp://dup\n" +
		"#EXTINF:-1,Other\nhttp://other\n" +
		"#EXTINF:-1,Second\nhttp://dup\n"

	seen := NewSeenSet()
	entries, err := ParseEntries(strings.NewReader(data), seen, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Description != "#EXTINF:-1,First" {
		t.Errorf("Expected first occurrence to win, got %q", entries[0].Description)
	}
	if seen.Len() != 2 {
		t.Errorf("Expected 2 urls in set, got %d", seen.Len())
	}
	if seen.Duplicates() != 1 {
		t.Errorf("Expected 1 duplicate, got %d", seen.Duplicates())
	}
}

func TestParseEntries_SharedSetAcrossFiles(t *testing.T) {
	seen := NewSeenSet()
	first, err := ParseEntries(strings.NewReader("#EXTINF:-1,A\nhttp://same\n"), seen, Options{})
	if err != nil {
		t.Fatal(err)
	}
	second, err := ParseEntries(strings.NewReader("#EXTINF:-1,B\nhttp://same\n"), seen, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 1 || len(second) != 0 {
		t.Errorf("Expected 1 and 0 entries, got %d and %d", len(first), len(second))
	}
}

func TestParseEntries_InvalidUTF8LeavesSetUntouched(t *testing.T) {
	seen := NewSeenSet()
	data := "#EXTINF:-1,A\nhttp://a\n#EXTINF:-1,B\n\xff\xfe\n"

	_, err := ParseEntries(strings.NewReader(data), seen, Options{})
	if !errors.Is(err, ErrNotText) {
		t.Fatalf("Expected ErrNotText, got %v", err)
	}
	if seen.Contains("http://a") {
		t.Error("Expected failed parse to leave the set untouched")
	}
}

func equalEntries(a, b []models.Entry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestParseEntries_VeryLongLine(t *testing.T) {
	logo := strings.Repeat("a", 2*1024*1024)
	data := `#EXTINF:-1 tvg-logo="data:image/png;base64,` + logo + `",X` + "\n" +
		"http://x\n" +
		"#EXTINF:-1,Y\n" +
		"http://y\n"

	entries, err := ParseEntries(strings.NewReader(data), NewSeenSet(), Options{})
	if err != nil {
		t.Fatalf("Expected long line to parse, got %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if len(entries[0].Description) <= 2*1024*1024 || entries[0].URL != "http://x" {
		t.Errorf("Expected long description kept verbatim with http://x, got url %q", entries[0].URL)
	}
	if entries[1].URL != "http://y" {
		t.Errorf("Expected http://y, got %q", entries[1].URL)
	}
}

func TestParseEntries_TrailingBlankLines(t *testing.T) {
	data := "#EXTINF:-1,A\nhttp://a\n\n\n#EXTINF:-1,B\n"
	entries, err := ParseEntries(strings.NewReader(data), NewSeenSet(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].URL != "http://a" {
		t.Errorf("Unexpected entries %v", entries)
	}
}

func TestSeenSet_DuplicatesCountedOnlyByParse(t *testing.T) {
	seen := NewSeenSet()
	if !seen.Add("http://a") || seen.Add("http://a") {
		t.Fatal("Expected first Add true and second false")
	}
	if seen.Duplicates() != 0 {
		t.Errorf("Expected Add not to count duplicates, got %d", seen.Duplicates())
	}

	data := "#EXTINF:-1,A\nhttp://a\n#EXTINF:-1,B\nhttp://b\n#EXTINF:-1,B2\nhttp://b\n"
	if _, err := ParseEntries(strings.NewReader(data), seen, Options{}); err != nil {
		t.Fatal(err)
	}
	if seen.Duplicates() != 2 {
		t.Errorf("Expected 2 duplicates, got %d", seen.Duplicates())
	}
}
