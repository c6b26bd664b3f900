package gitlab

import (
	"fmt"
	"net/url"
	"strings"
)

// ParseProjectPath turns a browsable project URL into the URL-encoded path
// identifier the API accepts, e.g.
//
//	https://gitlab.com/group/sub/project -> group%2Fsub%2Fproject
//
// The URL must live on the instance at baseURL. A trailing ".git" and any
// "/-/" suffix (tree, merge_requests, ...) are dropped.
func ParseProjectPath(projectURL, baseURL string) (string, error) {
	raw := strings.TrimSpace(projectURL)
	if raw == "" {
		return "", fmt.Errorf("project URL is required")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse project URL: %w", err)
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base URL: %w", err)
	}
	if !strings.EqualFold(u.Host, base.Host) {
		return "", fmt.Errorf("project URL %q is not on %s", projectURL, base.Host)
	}

	p := strings.Trim(u.Path, "/")
	if prefix := strings.Trim(base.Path, "/"); prefix != "" {
		if p != prefix && !strings.HasPrefix(p, prefix+"/") {
			return "", fmt.Errorf("project URL %q is not under %s", projectURL, baseURL)
		}
		p = strings.TrimPrefix(strings.TrimPrefix(p, prefix), "/")
	}
	if i := strings.Index(p, "/-/"); i >= 0 {
		p = p[:i]
	} else {
		p = strings.TrimSuffix(p, "/-")
	}
	p = strings.TrimSuffix(p, ".git")

	if !strings.Contains(p, "/") {
		return "", fmt.Errorf("project URL %q has no namespace/project path", projectURL)
	}
	return url.PathEscape(p), nil
}
