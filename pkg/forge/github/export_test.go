package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/fadel-segaf-developer/Topology-Visualizer/pkg/errors"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/topology"
)

func testClient(t *testing.T, server *httptest.Server, token string) *Client {
	t.Helper()
	c := NewClient(nil, token, time.Hour).WithBaseURL(server.URL)
	c.SetRetry(1, time.Millisecond)
	return c
}

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		enc := json.NewEncoder(w)
		switch r.URL.Path {
		case "/repos/acme/widgets":
			enc.Encode(Repo{
				ID: 1, Name: "widgets", FullName: "acme/widgets", Description: "Widget factory",
				HTMLURL: "https://github.com/acme/widgets", Topics: []string{"go", "cli"},
				Stars: 10, Forks: 2, Watchers: 3, OpenIssues: 4, Owner: User{Login: "acme"},
			})
		case "/repos/acme/widgets/languages":
			enc.Encode(map[string]int{"Go": 1000})
		case "/repos/acme/widgets/milestones":
			enc.Encode([]Milestone{{ID: 7, Title: "v1.0", State: "open", DueOn: "2026-12-01T00:00:00Z", OpenIssues: 1}})
		case "/repos/acme/widgets/issues":
			if r.URL.Query().Get("page") == "" {
				w.Header().Set("Link", fmt.Sprintf(`<%s/repos/acme/widgets/issues?page=2>; rel="next"`, server.URL))
				enc.Encode([]Issue{
					{ID: 11, Number: 1, Title: "Crash on start", State: "open", Labels: []Label{{Name: "bug"}}, Milestone: &Milestone{ID: 7, Title: "v1.0"}},
					{ID: 12, Number: 2, Title: "A pull request", State: "open", PullRequest: &struct{}{}},
				})
				return
			}
			enc.Encode([]Issue{{ID: 13, Number: 3, Title: "Docs", State: "closed"}})
		case "/repos/acme/widgets/pulls":
			enc.Encode([]Pull{{ID: 21, Number: 2, Title: "Fix crash", State: "closed", MergedAt: "2026-01-01T00:00:00Z"}})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestExport(t *testing.T) {
	c := testClient(t, fakeAPI(t), "")

	topo, err := c.Export(context.Background(), "acme/widgets", 10, true)
	require.NoError(t, err)

	idx := topology.NewIndex(topo)
	repo := idx.Node("repo-1")
	require.NotNil(t, repo)
	assert.Equal(t, topology.LevelHigh, repo.Level)
	assert.Equal(t, []string{"public", "go", "cli"}, repo.Tags)
	assert.Equal(t, "widgets", topo.Meta.Name)
	assert.Equal(t, "acme", topo.Meta.Owner)

	ms := idx.Node("milestone-7")
	require.NotNil(t, ms)
	assert.Equal(t, topology.LevelMedium, ms.Level)
	assert.Equal(t, "repo-1", ms.Parent)
	assert.Contains(t, ms.Tags, "Due 2026-12-01")

	issue := idx.Node("issue-11")
	require.NotNil(t, issue)
	assert.Equal(t, "milestone-7", issue.Parent)
	assert.Equal(t, "#1 Crash on start", issue.Label)
	assert.Equal(t, []string{"open", "bug"}, issue.Tags)

	assert.Nil(t, idx.Node("issue-12"), "pull requests listed as issues are skipped")
	require.NotNil(t, idx.Node("issue-13"), "second page is followed")
	assert.Equal(t, "repo-1", idx.Node("issue-13").Parent)

	pr := idx.Node("pr-21")
	require.NotNil(t, pr)
	assert.Equal(t, "Merged", pr.Status.Label)
	assert.Contains(t, pr.Tags, "merged")

	var intents []string
	for _, ke := range idx.Edges() {
		intents = append(intents, ke.Edge.Intent)
	}
	assert.Equal(t, []string{"controls", "depends-on", "depends-on", "controls"}, intents)
	assert.Empty(t, topo.Diagnostics)
}

func TestExportLimit(t *testing.T) {
	c := testClient(t, fakeAPI(t), "")

	snap, err := c.Snapshot(context.Background(), "acme/widgets", 1, true)
	require.NoError(t, err)
	assert.Len(t, snap.Issues, 1)
	assert.Len(t, snap.Pulls, 1)
}

func TestExportNotFound(t *testing.T) {
	c := testClient(t, fakeAPI(t), "")

	_, err := c.Export(context.Background(), "acme/missing", 10, true)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrCodeNotFound))
}

func TestExportUnauthorized(t *testing.T) {
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := testClient(t, server, "secret").Export(context.Background(), "acme/widgets", 10, true)
	assert.True(t, errs.Is(err, errs.ErrCodeUnauthorized))
	assert.Equal(t, "Bearer secret", auth)
}

func TestSplitSlug(t *testing.T) {
	owner, name, err := SplitSlug(" acme/widgets ")
	require.NoError(t, err)
	assert.Equal(t, "acme", owner)
	assert.Equal(t, "widgets", name)

	for _, bad := range []string{"", "acme", "acme/widgets/extra", "a b/c"} {
		_, _, err := SplitSlug(bad)
		assert.True(t, errs.Is(err, errs.ErrCodeInvalidInput), bad)
	}
}

func TestParseRemote(t *testing.T) {
	tests := []struct {
		remote string
		want   string
		ok     bool
	}{
		{"git@github.com:acme/widgets.git", "acme/widgets", true},
		{"git@github.com:acme/widgets", "acme/widgets", true},
		{"https://github.com/acme/widgets.git", "acme/widgets", true},
		{"https://token@github.com/acme/widgets", "acme/widgets", true},
		{"ssh://git@github.com/acme/widgets.git", "acme/widgets", true},
		{"/srv/git/widgets", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.remote, func(t *testing.T) {
			got, ok := ParseRemote(tt.remote)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectRepoOutsideGit(t *testing.T) {
	_, err := DetectRepo(t.TempDir())
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidInput))
}

func TestNextLink(t *testing.T) {
	header := `<https://api.github.com/x?page=1>; rel="prev", <https://api.github.com/x?page=3>; rel="next"`
	assert.Equal(t, "https://api.github.com/x?page=3", nextLink(header))
	assert.Empty(t, nextLink(""))
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, "a\n\nb", summarize("a\r\n\r\n\r\n\r\nb"))
}
