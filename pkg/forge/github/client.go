package github

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/cache"
	errs "github.com/fadel-segaf-developer/Topology-Visualizer/pkg/errors"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/httputil"
)

const (
	// DefaultBaseURL is the public GitHub REST endpoint.
	DefaultBaseURL = "https://api.github.com"

	// DefaultLimit caps milestones, issues and pull requests per export.
	DefaultLimit = 50

	perPage = 100
)

// Client reads repository metadata from the GitHub REST API.
type Client struct {
	*httputil.Client
	baseURL string
}

// NewClient creates a client. An empty token sends unauthenticated
// requests, which GitHub limits to 60 per hour. Responses are cached in c
// for ttl; c may be nil.
func NewClient(c cache.Cache, token string, ttl time.Duration) *Client {
	headers := map[string]string{
		"Accept":               "application/vnd.github+json",
		"User-Agent":           "topoviz",
		"X-GitHub-Api-Version": "2022-11-28",
	}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return &Client{
		Client:  httputil.NewClient(c, "github", ttl, headers),
		baseURL: DefaultBaseURL,
	}
}

// WithBaseURL points the client at another API root, such as a GitHub
// Enterprise server.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = base
	return c
}

// Snapshot fetches the repository and up to limit milestones, issues and
// pull requests. Optional listings that fail are left empty. If refresh is
// true cached data is bypassed.
func (c *Client) Snapshot(ctx context.Context, slug string, limit int, refresh bool) (*Snapshot, error) {
	owner, name, err := SplitSlug(slug)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	key := owner + "/" + name + ":" + strconv.Itoa(limit)
	var snap Snapshot
	err = c.Cached(ctx, key, refresh, &snap, func() error {
		return c.fetchSnapshot(ctx, owner+"/"+name, limit, &snap)
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (c *Client) fetchSnapshot(ctx context.Context, slug string, limit int, snap *Snapshot) error {
	base := c.baseURL + "/repos/" + slug
	*snap = Snapshot{FetchedAt: time.Now().UTC().Format(time.RFC3339)}

	if err := c.GetJSON(ctx, base, &snap.Repo); err != nil {
		if errs.Is(err, errs.ErrCodeNotFound) {
			return errs.Wrap(errs.ErrCodeNotFound, err, "repository %s not found", slug)
		}
		return err
	}

	if err := c.GetJSON(ctx, base+"/languages", &snap.Languages); err != nil {
		snap.Languages = map[string]int{}
	}
	if err := paginate(ctx, c, base+"/milestones", url.Values{"state": {"all"}}, limit, &snap.Milestones); err != nil {
		if fatal(err) {
			return err
		}
		snap.Milestones = nil
	}

	var issues []Issue
	err := paginate(ctx, c, base+"/issues", url.Values{
		"state": {"all"}, "sort": {"updated"}, "direction": {"desc"},
	}, limit, &issues)
	if err != nil && fatal(err) {
		return err
	}
	for _, is := range issues {
		if is.PullRequest == nil {
			snap.Issues = append(snap.Issues, is)
		}
	}

	if err := paginate(ctx, c, base+"/pulls", url.Values{"state": {"all"}}, limit, &snap.Pulls); err != nil {
		if fatal(err) {
			return err
		}
		snap.Pulls = nil
	}
	return nil
}

// fatal reports errors that should abort an export rather than leave one
// listing empty.
func fatal(err error) bool {
	return errs.Is(err, errs.ErrCodeUnauthorized) || errs.Is(err, errs.ErrCodeRateLimited) ||
		errs.Is(err, errs.ErrCodeTimeout) || ctxErr(err)
}

func ctxErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// paginate follows Link headers until limit items have been read.
func paginate[T any](ctx context.Context, c *Client, endpoint string, params url.Values, limit int, out *[]T) error {
	next := endpoint + "?" + withPerPage(params, min(perPage, limit)).Encode()
	for next != "" && len(*out) < limit {
		resp, err := c.Fetch(ctx, next, nil)
		if err != nil {
			return err
		}
		var page []T
		if err := json.Unmarshal(resp.Body, &page); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidJSON, err, "decode %s", endpoint)
		}
		if len(page) == 0 {
			break
		}
		*out = append(*out, page...)
		next = nextLink(resp.Header.Get("Link"))
	}
	if len(*out) > limit {
		*out = (*out)[:limit]
	}
	return nil
}

func withPerPage(params url.Values, n int) url.Values {
	out := url.Values{}
	for k, v := range params {
		out[k] = v
	}
	out.Set("per_page", strconv.Itoa(n))
	return out
}

var linkNext = regexp.MustCompile(`<([^>]+)>;\s*rel="next"`)

// nextLink extracts the rel="next" URL from a Link header.
func nextLink(header string) string {
	if m := linkNext.FindStringSubmatch(header); m != nil {
		return m[1]
	}
	return ""
}
