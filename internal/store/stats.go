package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath       string        `json:"db_path"`
	DBSizeBytes  int64         `json:"db_size_bytes"`
	Repositories int           `json:"repositories"`
	Predictions  int           `json:"predictions"`
	Courses      []CourseStats `json:"courses"`
}

// CourseStats holds per-course prediction counts.
type CourseStats struct {
	CourseID    string `json:"course_id"`
	Predictions int    `json:"predictions"`
	Algorithms  int    `json:"algorithms"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath, Courses: []CourseStats{}}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM repositories`).Scan(&st.Repositories); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM predictions`).Scan(&st.Predictions); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT course_id, COUNT(*) AS cnt, COUNT(DISTINCT algorithm) AS algos
		FROM predictions GROUP BY course_id ORDER BY cnt DESC, course_id`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var c CourseStats
		if err := rows.Scan(&c.CourseID, &c.Predictions, &c.Algorithms); err != nil {
			return st, err
		}
		st.Courses = append(st.Courses, c)
	}

	return st, rows.Err()
}
