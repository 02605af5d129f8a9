// Package httputil provides the HTTP plumbing used to fetch remote
// topologies and forge metadata.
//
// # Client
//
// [Client] wraps an [http.Client] with default headers, retries and a
// response cache backed by any [cache.Cache]:
//
//	c := httputil.NewClient(store, "github", time.Hour, map[string]string{
//	    "Accept": "application/vnd.github+json",
//	})
//	var repo Repo
//	err := c.Cached(ctx, "repo:"+slug, false, &repo, func() error {
//	    return c.GetJSON(ctx, apiURL, &repo)
//	})
//
// Status codes map to coded errors from pkg/errors: 404 is NOT_FOUND,
// 401 and 403 are UNAUTHORIZED, 429 and an exhausted GitHub quota are
// RATE_LIMITED, and everything else is NETWORK_ERROR. Requests report to the
// HTTP hooks in pkg/observability.
//
// # Retry
//
// [Retry] runs a function with exponential backoff, retrying only errors
// wrapped in [RetryableError]: transport failures, 5xx responses and 429.
// The client defaults to 3 attempts starting at one second.
package httputil
