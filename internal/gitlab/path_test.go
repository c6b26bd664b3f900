package gitlab

import "testing"

func TestParseProjectPath(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		base    string
		want    string
		wantErr bool
	}{
		{"simple", "https://gitlab.com/group/project", DefaultBaseURL, "group%2Fproject", false},
		{"nested", "https://gitlab.com/cs101/fall/team-3", DefaultBaseURL, "cs101%2Ffall%2Fteam-3", false},
		{"trailing slash", "https://gitlab.com/group/project/", DefaultBaseURL, "group%2Fproject", false},
		{"git suffix", "https://gitlab.com/group/project.git", DefaultBaseURL, "group%2Fproject", false},
		{"web suffix", "https://gitlab.com/group/project/-/tree/main", DefaultBaseURL, "group%2Fproject", false},
		{"no scheme", "gitlab.com/group/project", DefaultBaseURL, "group%2Fproject", false},
		{"host case", "https://GitLab.com/group/project", DefaultBaseURL, "group%2Fproject", false},
		{"base path", "https://git.uni.edu/gitlab/group/project", "https://git.uni.edu/gitlab", "group%2Fproject", false},
		{"outside base path", "https://git.uni.edu/other/group/project", "https://git.uni.edu/gitlab", "", true},
		{"foreign host", "https://github.com/group/project", DefaultBaseURL, "", true},
		{"no namespace", "https://gitlab.com/project", DefaultBaseURL, "", true},
		{"empty", "  ", DefaultBaseURL, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseProjectPath(tt.url, tt.base)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseProjectPath(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseProjectPath(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
