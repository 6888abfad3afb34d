package playlist

// SeenSet records URLs already emitted during one run. It is owned by the caller and passed
// explicitly to every parse; it is not safe for concurrent use.
type SeenSet struct {
	urls       map[string]struct{}
	duplicates int
}

// NewSeenSet returns an empty set.
func NewSeenSet() *SeenSet {
	return &SeenSet{urls: make(map[string]struct{})}
}

// Add inserts url and reports whether it was new.
func (s *SeenSet) Add(url string) bool {
	if _, ok := s.urls[url]; ok {
		return false
	}
	s.urls[url] = struct{}{}
	return true
}

// Contains reports whether url has been added.
func (s *SeenSet) Contains(url string) bool {
	_, ok := s.urls[url]
	return ok
}

// Len is the number of distinct URLs.
func (s *SeenSet) Len() int { return len(s.urls) }

// Duplicates is the number of entries ParseEntries dropped because their URL was already seen.
func (s *SeenSet) Duplicates() int { return s.duplicates }

func (s *SeenSet) recordDuplicates(n int) { s.duplicates += n }
