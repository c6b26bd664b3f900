package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/rcliao/student-analytics/internal/model"
)

func writeRepos(w io.Writer, repos []model.Repository) {
	for _, r := range repos {
		fmt.Fprintf(w, "%d\t%s\t%s\n", r.ProjectID, r.Path, r.URL)
	}
}

func writeRuns(w io.Writer, runs []model.PredictionRun) {
	for _, r := range runs {
		tag := ""
		if r.Sample {
			tag = " (sample)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\tconfidence=%.1f success=%.1f%s\n",
			r.CreatedAt.Format(time.RFC3339), r.CourseID, r.Algorithm, r.Threshold,
			r.Result.Confidence, r.Result.SuccessRate, tag)
	}
}

func writeMembers(w io.Writer, members []model.ProjectMember) {
	for _, m := range members {
		fmt.Fprintf(w, "%s\t%s\n", m.Username, m.Name)
	}
}
