package store

import (
	"context"
	"errors"
	"testing"

	"github.com/voyagen/streamcheck/internal/models"
)

type memStore struct {
	entries map[int64][]models.Entry
	err     error
}

func (m *memStore) CreateRun(ctx context.Context, inputDir, outputFile string) (int64, error) {
	return 1, nil
}

func (m *memStore) AddValidEntry(ctx context.Context, runID int64, e models.Entry) error {
	if m.err != nil {
		return m.err
	}
	if m.entries == nil {
		m.entries = map[int64][]models.Entry{}
	}
	m.entries[runID] = append(m.entries[runID], e)
	return nil
}

func (m *memStore) FinishRun(ctx context.Context, runID int64, stats RunStats) error {
	return nil
}

func TestReportSink_BindsRun(t *testing.T) {
	ms := &memStore{}
	sink := NewReportSink(ms, 7)
	e := models.Entry{Description: "#EXTINF:-1,A", URL: "http://a/movie.mp4"}

	if err := sink.Put(context.Background(), e); err != nil {
		t.Fatal(err)
	}
	if got := ms.entries[7]; len(got) != 1 || got[0] != e {
		t.Errorf("expected entry stored under run 7, got %v", ms.entries)
	}
	if err := sink.Close(); err != nil {
		t.Errorf("expected nil close, got %v", err)
	}
}

func TestReportSink_PropagatesError(t *testing.T) {
	want := errors.New("db down")
	sink := NewReportSink(&memStore{err: want}, 1)
	if err := sink.Put(context.Background(), models.Entry{URL: "http://a"}); !errors.Is(err, want) {
		t.Errorf("expected %v, got %v", want, err)
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	names, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		t.Fatal(err)
	}
	if len(names) == 0 || len(names)%2 != 0 {
		t.Errorf("expected paired up/down migrations, got %d files", len(names))
	}
}
