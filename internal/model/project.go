// Package model defines the core analytics data types.
package model

import "time"

// ProjectInfo is the identity record of a hosted project.
type ProjectInfo struct {
	ID                int    `json:"id"`
	Name              string `json:"name"`
	Description       string `json:"description,omitempty"`
	PathWithNamespace string `json:"path_with_namespace"`
	WebURL            string `json:"web_url"`
}

// ProjectMember is a user with access to a project.
type ProjectMember struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// Commit is a single commit on a project's repository.
type Commit struct {
	ID          string    `json:"id"`
	ShortID     string    `json:"short_id"`
	Title       string    `json:"title"`
	AuthorName  string    `json:"author_name"`
	AuthorEmail string    `json:"author_email,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Branch is a repository branch.
type Branch struct {
	Name    string `json:"name"`
	Merged  bool   `json:"merged"`
	Default bool   `json:"default"`
}

// MergeRequest is a merge request against a project.
type MergeRequest struct {
	ID           int        `json:"id"`
	IID          int        `json:"iid"`
	Title        string     `json:"title"`
	State        string     `json:"state"`
	SourceBranch string     `json:"source_branch"`
	TargetBranch string     `json:"target_branch"`
	MergedAt     *time.Time `json:"merged_at,omitempty"`
}

// AuthorActivity counts commits for one author.
type AuthorActivity struct {
	Author  string `json:"author"`
	Commits int    `json:"commits"`
}

// ActivitySummary aggregates repository activity for display.
type ActivitySummary struct {
	Commits       int              `json:"commits"`
	Branches      int              `json:"branches"`
	MergeRequests int              `json:"merge_requests"`
	Merged        int              `json:"merged"`
	Authors       []AuthorActivity `json:"authors"`
}

// Repository is a project tracked in the local workspace.
type Repository struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	ProjectID   int       `json:"project_id"`
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
