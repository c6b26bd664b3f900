package gitlab

import (
	"sort"

	"github.com/rcliao/student-analytics/internal/model"
)

// Summarize aggregates fetched activity. Authors are ordered by commit count,
// then name.
func Summarize(commits []model.Commit, branches []model.Branch, mrs []model.MergeRequest) model.ActivitySummary {
	s := model.ActivitySummary{
		Commits:       len(commits),
		Branches:      len(branches),
		MergeRequests: len(mrs),
		Authors:       []model.AuthorActivity{},
	}

	counts := map[string]int{}
	for _, c := range commits {
		counts[c.AuthorName]++
	}
	for author, n := range counts {
		s.Authors = append(s.Authors, model.AuthorActivity{Author: author, Commits: n})
	}
	sort.Slice(s.Authors, func(i, j int) bool {
		if s.Authors[i].Commits != s.Authors[j].Commits {
			return s.Authors[i].Commits > s.Authors[j].Commits
		}
		return s.Authors[i].Author < s.Authors[j].Author
	})

	for _, mr := range mrs {
		if mr.State == "merged" {
			s.Merged++
		}
	}
	return s
}
