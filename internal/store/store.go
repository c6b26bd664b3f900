// Package store provides the workspace storage interface and SQLite
// implementation. The workspace remembers tracked repositories and the
// history of prediction runs.
package store

import (
	"context"
	"errors"

	"github.com/rcliao/student-analytics/internal/model"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// TrackParams holds parameters for tracking a repository.
type TrackParams struct {
	URL  string
	Info model.ProjectInfo
}

// ListParams holds parameters for listing repositories.
type ListParams struct {
	Limit int // 0 means the default page, negative means no limit
}

// RecordParams holds parameters for recording a prediction run.
type RecordParams struct {
	CourseID  string
	Algorithm model.Algorithm
	Threshold model.ConfidenceThreshold
	Sample    bool
	Result    model.PredictionResult
}

// PredictionListParams holds parameters for listing prediction runs.
type PredictionListParams struct {
	CourseID  string
	Algorithm model.Algorithm
	Limit     int // 0 means the default page, negative means no limit
}

// Store defines the workspace storage interface.
type Store interface {
	// TrackRepository stores a repository snapshot, replacing any earlier
	// snapshot for the same URL.
	TrackRepository(ctx context.Context, p TrackParams) (*model.Repository, error)

	// GetRepository returns the tracked repository with the given URL.
	GetRepository(ctx context.Context, url string) (*model.Repository, error)

	// ListRepositories lists tracked repositories, most recently updated first.
	ListRepositories(ctx context.Context, p ListParams) ([]model.Repository, error)

	// UntrackRepository removes a tracked repository.
	UntrackRepository(ctx context.Context, url string) error

	// RecordPrediction appends a prediction run to the history.
	RecordPrediction(ctx context.Context, p RecordParams) (*model.PredictionRun, error)

	// ListPredictions lists prediction runs, newest first.
	ListPredictions(ctx context.Context, p PredictionListParams) ([]model.PredictionRun, error)

	// Close closes the store.
	Close() error
}
