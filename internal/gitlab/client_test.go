package gitlab

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/student-analytics/internal/model"
	"github.com/rcliao/student-analytics/internal/notify"
)

const testToken = "glpat-test"

func newTestServer(t *testing.T, handler http.HandlerFunc) (*Client, *notify.Recorder, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	rec := &notify.Recorder{}
	return NewClient(srv.URL, WithNotifier(rec)), rec, srv
}

func TestFetchProjectInfo_Success(t *testing.T) {
	client, rec, srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v4/projects/cs101%2Fteam-7%2Fcompiler", r.URL.EscapedPath())
		assert.Equal(t, testToken, r.Header.Get("PRIVATE-TOKEN"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": 42,
			"name": "compiler",
			"description": "Team 7 compiler project",
			"path_with_namespace": "cs101/team-7/compiler",
			"web_url": "https://gitlab.example.edu/cs101/team-7/compiler"
		}`))
	})

	info := client.FetchProjectInfo(context.Background(), srv.URL+"/cs101/team-7/compiler", testToken)
	require.NotNil(t, info)
	assert.Equal(t, model.ProjectInfo{
		ID:                42,
		Name:              "compiler",
		Description:       "Team 7 compiler project",
		PathWithNamespace: "cs101/team-7/compiler",
		WebURL:            "https://gitlab.example.edu/cs101/team-7/compiler",
	}, *info)
	assert.Empty(t, rec.All())
}

func TestFetchProjectInfo_NotFound(t *testing.T) {
	client, rec, srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"404 Project Not Found"}`, http.StatusNotFound)
	})

	info := client.FetchProjectInfo(context.Background(), srv.URL+"/cs101/missing", testToken)
	assert.Nil(t, info)

	notes := rec.All()
	require.Len(t, notes, 1)
	assert.Equal(t, notify.LevelError, notes[0].Level)
	assert.Contains(t, notes[0].Message, "not found")
}

func TestFetchProjectInfo_MalformedBody(t *testing.T) {
	client, rec, srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": "not-a-number"`))
	})

	assert.Nil(t, client.FetchProjectInfo(context.Background(), srv.URL+"/a/b", testToken))
	assert.Len(t, rec.All(), 1)
}

func TestFetchProjectInfo_NullBody(t *testing.T) {
	client, rec, srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`null`))
	})

	assert.Nil(t, client.FetchProjectInfo(context.Background(), srv.URL+"/a/b", testToken))
	assert.Len(t, rec.All(), 1)
}

func TestFetchProjectInfo_EmptyObject(t *testing.T) {
	client, rec, srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	assert.Nil(t, client.FetchProjectInfo(context.Background(), srv.URL+"/a/b", testToken))
	assert.Len(t, rec.All(), 1)
}

func TestFetchProjectMembers_NullBody(t *testing.T) {
	client, rec, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	})

	members := client.FetchProjectMembers(context.Background(), 42, testToken)
	assert.NotNil(t, members)
	assert.Empty(t, members)
	assert.Empty(t, rec.All())

	commits := client.FetchCommits(context.Background(), 42, testToken)
	assert.NotNil(t, commits)
	assert.Empty(t, commits)
}

func TestFetchProjectInfo_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	rec := &notify.Recorder{}
	client := NewClient(url, WithNotifier(rec))

	assert.Nil(t, client.FetchProjectInfo(context.Background(), url+"/a/b", testToken))
	assert.Len(t, rec.All(), 1)
}

func TestFetchProjectInfo_ForeignHost(t *testing.T) {
	client, rec, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for a foreign host")
	})

	assert.Nil(t, client.FetchProjectInfo(context.Background(), "https://github.com/a/b", testToken))
	assert.Len(t, rec.All(), 1)
}

func TestFetchProjectMembers(t *testing.T) {
	client, rec, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v4/projects/42/members/all", r.URL.Path)
		assert.Equal(t, testToken, r.Header.Get("PRIVATE-TOKEN"))
		w.Write([]byte(`[
			{"id": 1, "name": "Ada Lovelace", "username": "ada", "email": "ada@example.edu"},
			{"id": 2, "name": "Alan Turing", "username": "alan"}
		]`))
	})

	members := client.FetchProjectMembers(context.Background(), 42, testToken)
	assert.Equal(t, []model.ProjectMember{
		{ID: 1, Name: "Ada Lovelace", Username: "ada", Email: "ada@example.edu"},
		{ID: 2, Name: "Alan Turing", Username: "alan"},
	}, members)
	assert.Empty(t, rec.All())
}

func TestFetchProjectMembers_NotFound(t *testing.T) {
	client, rec, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	members := client.FetchProjectMembers(context.Background(), 42, testToken)
	require.NotNil(t, members)
	assert.Empty(t, members)
	assert.Len(t, rec.All(), 1)
}

func TestFetchActivity(t *testing.T) {
	client, rec, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v4/projects/7/repository/commits":
			w.Write([]byte(`[
				{"id": "a1", "short_id": "a1", "title": "init", "author_name": "ada", "created_at": "2024-09-02T10:00:00Z"},
				{"id": "b2", "short_id": "b2", "title": "lexer", "author_name": "alan", "created_at": "2024-09-03T10:00:00Z"},
				{"id": "c3", "short_id": "c3", "title": "parser", "author_name": "ada", "created_at": "2024-09-04T10:00:00Z"}
			]`))
		case "/api/v4/projects/7/repository/branches":
			w.Write([]byte(`[{"name": "main", "default": true}, {"name": "feature/parser", "merged": true}]`))
		case "/api/v4/projects/7/merge_requests":
			assert.Equal(t, "all", r.URL.Query().Get("state"))
			w.Write([]byte(`[{"id": 1, "iid": 1, "title": "Parser", "state": "merged"}, {"id": 2, "iid": 2, "title": "WIP", "state": "opened"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	ctx := context.Background()
	commits := client.FetchCommits(ctx, 7, testToken)
	branches := client.FetchBranches(ctx, 7, testToken)
	mrs := client.FetchMergeRequests(ctx, 7, testToken)
	require.Len(t, commits, 3)
	require.Len(t, branches, 2)
	require.Len(t, mrs, 2)
	assert.Empty(t, rec.All())

	s := Summarize(commits, branches, mrs)
	assert.Equal(t, 3, s.Commits)
	assert.Equal(t, 2, s.Branches)
	assert.Equal(t, 1, s.Merged)
	assert.Equal(t, []model.AuthorActivity{{Author: "ada", Commits: 2}, {Author: "alan", Commits: 1}}, s.Authors)
}

func TestFetchCommits_Unauthorized(t *testing.T) {
	client, rec, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	commits := client.FetchCommits(context.Background(), 7, "bad")
	assert.NotNil(t, commits)
	assert.Empty(t, commits)
	require.Len(t, rec.All(), 1)
	assert.Contains(t, rec.All()[0].Message, "access token")
}

func TestRateLimitCancelledContext(t *testing.T) {
	client, rec, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	WithRateLimit(0.001, 1)(client)

	ctx := context.Background()
	require.NotNil(t, client.FetchBranches(ctx, 1, testToken))
	require.Empty(t, rec.All())

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.Empty(t, client.FetchBranches(cancelled, 1, testToken))
	assert.Len(t, rec.All(), 1)
}
