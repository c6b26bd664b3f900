package store

import (
	"context"
	"fmt"

	"github.com/rcliao/student-analytics/internal/model"
)

// Export is a portable snapshot of the workspace.
type Export struct {
	Repositories []model.Repository    `json:"repositories"`
	Predictions  []model.PredictionRun `json:"predictions"`
}

// ExportAll returns every tracked repository and prediction run.
func (s *SQLiteStore) ExportAll(ctx context.Context) (*Export, error) {
	repos, err := s.ListRepositories(ctx, ListParams{Limit: -1})
	if err != nil {
		return nil, err
	}
	runs, err := s.ListPredictions(ctx, PredictionListParams{Limit: -1})
	if err != nil {
		return nil, err
	}
	return &Export{Repositories: repos, Predictions: runs}, nil
}

// Import loads an export. Repositories are upserted by URL; prediction runs
// are appended as new history entries.
func (s *SQLiteStore) Import(ctx context.Context, e Export) (int, error) {
	imported := 0
	for _, r := range e.Repositories {
		_, err := s.TrackRepository(ctx, TrackParams{
			URL: r.URL,
			Info: model.ProjectInfo{
				ID:                r.ProjectID,
				Name:              r.Name,
				Description:       r.Description,
				PathWithNamespace: r.Path,
			},
		})
		if err != nil {
			return imported, fmt.Errorf("import repository %s: %w", r.URL, err)
		}
		imported++
	}
	// Runs are exported newest first; replay oldest first to keep ordering.
	for i := len(e.Predictions) - 1; i >= 0; i-- {
		run := e.Predictions[i]
		_, err := s.RecordPrediction(ctx, RecordParams{
			CourseID:  run.CourseID,
			Algorithm: run.Algorithm,
			Threshold: run.Threshold,
			Sample:    run.Sample,
			Result:    run.Result,
		})
		if err != nil {
			return imported, fmt.Errorf("import prediction %s: %w", run.ID, err)
		}
		imported++
	}
	return imported, nil
}
