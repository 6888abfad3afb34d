package store

import (
	"context"
	"os"
	"testing"

	"github.com/voyagen/streamcheck/internal/models"
)

// Runs only against a real database: TEST_DATABASE_URL=postgres://... go test ./internal/store
func TestPostgres_RunLifecycle(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	if err := RunMigrations(dsn); err != nil {
		t.Fatal(err)
	}
	// Applying twice is a no-op.
	if err := RunMigrations(dsn); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	pg, err := NewPostgres(ctx, dsn)
	if err != nil {
		t.Fatal(err)
	}
	defer pg.Close()

	runID, err := pg.CreateRun(ctx, "/playlists", "valid-iptv.m3u8")
	if err != nil {
		t.Fatal(err)
	}
	e := models.Entry{Description: "#EXTINF:-1,A", URL: "http://a/live.ts"}
	for i := 0; i < 2; i++ {
		if err := pg.AddValidEntry(ctx, runID, e); err != nil {
			t.Fatal(err)
		}
	}
	if err := pg.FinishRun(ctx, runID, RunStats{Parsed: 3, Valid: 1, Invalid: 2}); err != nil {
		t.Fatal(err)
	}

	var count int
	if err := pg.pool.QueryRow(ctx, `SELECT COUNT(*) FROM valid_entries WHERE run_id = $1`, runID).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected 1 stored entry, got %d", count)
	}
	var valid int
	if err := pg.pool.QueryRow(ctx, `SELECT valid FROM runs WHERE id = $1`, runID).Scan(&valid); err != nil {
		t.Fatal(err)
	}
	if valid != 1 {
		t.Errorf("expected valid=1, got %d", valid)
	}
}
