package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rcliao/student-analytics/internal/model"
)

func TestRenderText(t *testing.T) {
	old := formatFlag
	t.Cleanup(func() { formatFlag = old })
	formatFlag = "text"

	repos := []model.Repository{
		{ProjectID: 42, Path: "cs101/team-7/compiler", URL: "https://gitlab.example.edu/cs101/team-7/compiler"},
		{ProjectID: 7, Path: "cs101/team-2/shell", URL: "https://gitlab.example.edu/cs101/team-2/shell"},
	}
	var buf bytes.Buffer
	render(&buf, repos, func(w io.Writer) { writeRepos(w, repos) })

	want := "42\tcs101/team-7/compiler\thttps://gitlab.example.edu/cs101/team-7/compiler\n" +
		"7\tcs101/team-2/shell\thttps://gitlab.example.edu/cs101/team-2/shell\n"
	if buf.String() != want {
		t.Errorf("text output:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestRenderJSON(t *testing.T) {
	old := formatFlag
	t.Cleanup(func() { formatFlag = old })
	formatFlag = "json"

	members := []model.ProjectMember{{ID: 1, Name: "Ada Lovelace", Username: "ada"}}
	var buf bytes.Buffer
	render(&buf, members, func(w io.Writer) { writeMembers(w, members) })

	if !strings.Contains(buf.String(), `"username": "ada"`) {
		t.Errorf("expected JSON output, got %q", buf.String())
	}
}

func TestWriteRuns(t *testing.T) {
	runs := []model.PredictionRun{{
		CourseID:  "cs101",
		Algorithm: model.AlgorithmEnsemble,
		Threshold: model.ConfidenceHigh,
		Sample:    true,
		Result:    model.PredictionResult{Confidence: 91.5, SuccessRate: 78},
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}}
	var buf bytes.Buffer
	writeRuns(&buf, runs)

	want := "2024-03-01T12:00:00Z\tcs101\tensemble\thigh\tconfidence=91.5 success=78.0 (sample)\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestWriteMembersEmpty(t *testing.T) {
	var buf bytes.Buffer
	writeMembers(&buf, []model.ProjectMember{})
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}
