// Package github exports a GitHub repository as a topology.
//
// The repository becomes the single high-level node. Milestones become
// medium nodes under it, and issues and pull requests become low nodes under
// their milestone, or under the repository when they have none. Each
// containment step also gets an edge: "controls" for milestones and pull
// requests, "depends-on" for issues.
//
// # Usage
//
//	client := github.NewClient(store, os.Getenv("GITHUB_TOKEN"), time.Hour)
//	topo, err := client.Export(ctx, "acme/widgets", github.DefaultLimit, false)
//
// When no slug is given, [DetectRepo] reads it from the origin remote of the
// enclosing git repository.
//
// # Authentication
//
// A token is optional. Without one GitHub allows 60 requests per hour,
// which an export of a busy repository can exhaust; the client then fails
// with RATE_LIMITED.
package github
