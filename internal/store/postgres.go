package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voyagen/streamcheck/internal/models"
)

// Postgres implements Store using PostgreSQL.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a Postgres store from a DSN. Caller must call Close when done.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Close closes the connection pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

// CreateRun inserts a run row and returns its id.
func (p *Postgres) CreateRun(ctx context.Context, inputDir, outputFile string) (int64, error) {
	var id int64
	err := p.pool.QueryRow(ctx,
		`INSERT INTO runs (input_dir, output_file) VALUES ($1, $2) RETURNING id`,
		inputDir, outputFile,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("CreateRun: %w", err)
	}
	return id, nil
}

// AddValidEntry stores one validated entry for the run.
func (p *Postgres) AddValidEntry(ctx context.Context, runID int64, e models.Entry) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO valid_entries (run_id, description, url, media_type)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (run_id, url) DO NOTHING`,
		runID, e.Description, e.URL, models.MediaTypeFromURL(e.URL),
	)
	if err != nil {
		return fmt.Errorf("AddValidEntry: %w", err)
	}
	return nil
}

// FinishRun stamps finished_at and the final counts.
func (p *Postgres) FinishRun(ctx context.Context, runID int64, stats RunStats) error {
	_, err := p.pool.Exec(ctx,
		`UPDATE runs SET finished_at = NOW(), parsed = $2, valid = $3, invalid = $4 WHERE id = $1`,
		runID, stats.Parsed, stats.Valid, stats.Invalid,
	)
	if err != nil {
		return fmt.Errorf("FinishRun: %w", err)
	}
	return nil
}
