package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/student-analytics/internal/model"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB

	idMu    sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// newID returns a ULID; IDs from one store sort in creation order.
func (s *SQLiteStore) newID() string {
	s.idMu.Lock()
	defer s.idMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS repositories (
		id          TEXT PRIMARY KEY,
		url         TEXT NOT NULL UNIQUE,
		project_id  INTEGER NOT NULL,
		name        TEXT NOT NULL,
		path        TEXT NOT NULL,
		description TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_repositories_updated ON repositories(updated_at DESC);

	CREATE TABLE IF NOT EXISTS predictions (
		id          TEXT PRIMARY KEY,
		course_id   TEXT NOT NULL,
		algorithm   TEXT NOT NULL,
		threshold   TEXT NOT NULL,
		sample      INTEGER NOT NULL DEFAULT 0,
		result      TEXT NOT NULL,
		created_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_predictions_course ON predictions(course_id, id DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) TrackRepository(ctx context.Context, p TrackParams) (*model.Repository, error) {
	url := strings.TrimSpace(p.URL)
	if url == "" {
		return nil, fmt.Errorf("repository url is required")
	}
	now := time.Now().UTC().Format(time.RFC3339)

	var desc *string
	if p.Info.Description != "" {
		desc = &p.Info.Description
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO repositories (id, url, project_id, name, path, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(url) DO UPDATE SET
		   project_id = excluded.project_id,
		   name = excluded.name,
		   path = excluded.path,
		   description = excluded.description,
		   updated_at = excluded.updated_at`,
		s.newID(), url, p.Info.ID, p.Info.Name, p.Info.PathWithNamespace, desc, now, now)
	if err != nil {
		return nil, fmt.Errorf("track repository: %w", err)
	}

	return s.GetRepository(ctx, url)
}

func (s *SQLiteStore) GetRepository(ctx context.Context, url string) (*model.Repository, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, url, project_id, name, path, description, created_at, updated_at
		 FROM repositories WHERE url = ?`, strings.TrimSpace(url))
	r, err := scanRepository(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("repository %s: %w", url, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *SQLiteStore) ListRepositories(ctx context.Context, p ListParams) ([]model.Repository, error) {
	limit := p.Limit
	if limit == 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, url, project_id, name, path, description, created_at, updated_at
		 FROM repositories ORDER BY updated_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	repos := []model.Repository{}
	for rows.Next() {
		r, err := scanRepository(rows)
		if err != nil {
			return nil, err
		}
		repos = append(repos, r)
	}
	return repos, rows.Err()
}

func (s *SQLiteStore) UntrackRepository(ctx context.Context, url string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM repositories WHERE url = ?`, strings.TrimSpace(url))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("repository %s: %w", url, ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRepository(row scanner) (model.Repository, error) {
	var r model.Repository
	var desc sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&r.ID, &r.URL, &r.ProjectID, &r.Name, &r.Path, &desc, &createdAt, &updatedAt)
	if err != nil {
		return r, err
	}

	if desc.Valid {
		r.Description = desc.String
	}
	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	r.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return r, nil
}
