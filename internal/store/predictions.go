package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rcliao/student-analytics/internal/model"
)

func (s *SQLiteStore) RecordPrediction(ctx context.Context, p RecordParams) (*model.PredictionRun, error) {
	if strings.TrimSpace(p.CourseID) == "" {
		return nil, fmt.Errorf("course id is required")
	}
	result, err := json.Marshal(p.Result)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}

	now := time.Now().UTC()
	id := s.newID()
	sample := 0
	if p.Sample {
		sample = 1
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO predictions (id, course_id, algorithm, threshold, sample, result, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, p.CourseID, string(p.Algorithm), string(p.Threshold), sample, string(result), now.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert prediction: %w", err)
	}

	return &model.PredictionRun{
		ID:        id,
		CourseID:  p.CourseID,
		Algorithm: p.Algorithm,
		Threshold: p.Threshold,
		Sample:    p.Sample,
		Result:    p.Result,
		CreatedAt: now.Truncate(time.Second),
	}, nil
}

func (s *SQLiteStore) ListPredictions(ctx context.Context, p PredictionListParams) ([]model.PredictionRun, error) {
	limit := p.Limit
	if limit == 0 {
		limit = 20
	}

	where := []string{"1 = 1"}
	args := []interface{}{}
	if p.CourseID != "" {
		where = append(where, "course_id = ?")
		args = append(args, p.CourseID)
	}
	if p.Algorithm != "" {
		where = append(where, "algorithm = ?")
		args = append(args, string(p.Algorithm))
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, course_id, algorithm, threshold, sample, result, created_at
		 FROM predictions WHERE `+strings.Join(where, " AND ")+`
		 ORDER BY id DESC LIMIT ?`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []model.PredictionRun{}
	for rows.Next() {
		var r model.PredictionRun
		var algorithm, threshold, result, createdAt string
		var sample int
		if err := rows.Scan(&r.ID, &r.CourseID, &algorithm, &threshold, &sample, &result, &createdAt); err != nil {
			return nil, err
		}
		r.Algorithm = model.Algorithm(algorithm)
		r.Threshold = model.ConfidenceThreshold(threshold)
		r.Sample = sample != 0
		if err := json.Unmarshal([]byte(result), &r.Result); err != nil {
			return nil, fmt.Errorf("decode prediction %s: %w", r.ID, err)
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
