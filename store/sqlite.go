package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/capstudio/captionforge/domain"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS generations (
			generation_id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			platform TEXT NOT NULL,
			product TEXT NOT NULL,
			source TEXT NOT NULL,
			latency_ms INTEGER NOT NULL,
			brief TEXT,
			output TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_generations_created ON generations(created_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateGeneration records a finished generation.
func (s *SQLiteStore) CreateGeneration(ctx context.Context, gen *domain.Generation) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO generations (generation_id, created_at, platform, product, source, latency_ms, brief, output)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		gen.GenerationID, gen.CreatedAt, gen.Platform, gen.Product, string(gen.Source),
		gen.LatencyMs, string(gen.Brief), string(gen.Output))
	return err
}

// GetGeneration retrieves a generation by ID.
func (s *SQLiteStore) GetGeneration(ctx context.Context, generationID string) (*domain.Generation, error) {
	var gen domain.Generation
	var source string
	var brief, output sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT generation_id, created_at, platform, product, source, latency_ms, brief, output
		 FROM generations WHERE generation_id = ?`, generationID).
		Scan(&gen.GenerationID, &gen.CreatedAt, &gen.Platform, &gen.Product, &source,
			&gen.LatencyMs, &brief, &output)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	gen.Source = domain.GenerationSource(source)
	if brief.Valid {
		gen.Brief = []byte(brief.String)
	}
	if output.Valid {
		gen.Output = []byte(output.String)
	}
	return &gen, nil
}

// ListGenerations returns the newest generations first.
func (s *SQLiteStore) ListGenerations(ctx context.Context, limit int) ([]domain.Generation, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT generation_id, created_at, platform, product, source, latency_ms, brief, output
		 FROM generations ORDER BY created_at DESC, generation_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var gens []domain.Generation
	for rows.Next() {
		var gen domain.Generation
		var source string
		var brief, output sql.NullString
		if err := rows.Scan(&gen.GenerationID, &gen.CreatedAt, &gen.Platform, &gen.Product,
			&source, &gen.LatencyMs, &brief, &output); err != nil {
			return nil, err
		}
		gen.Source = domain.GenerationSource(source)
		if brief.Valid {
			gen.Brief = []byte(brief.String)
		}
		if output.Valid {
			gen.Output = []byte(output.String)
		}
		gens = append(gens, gen)
	}
	return gens, rows.Err()
}
