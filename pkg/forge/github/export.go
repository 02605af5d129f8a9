package github

import (
	"context"
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/topology"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/util"
)

const summaryLimit = 220

// Export fetches slug and converts it into a normalized topology.
func (c *Client) Export(ctx context.Context, slug string, limit int, refresh bool) (*topology.Topology, error) {
	snap, err := c.Snapshot(ctx, slug, limit, refresh)
	if err != nil {
		return nil, err
	}
	return Build(snap), nil
}

// Build converts a snapshot into a topology. The repository is the single
// high node; milestones sit below it at medium, and issues and pull
// requests at low under their milestone or, without one, the repository.
func Build(snap *Snapshot) *topology.Topology {
	repo := snap.Repo
	repoID := fmt.Sprintf("repo-%d", repo.ID)

	intents := topology.NewIntents()
	intents.Set("depends-on", topology.Intent{Label: "Depends On", Color: "#38bdf8"})
	intents.Set("controls", topology.Intent{Label: "Controls", Color: "#f97316"})
	intents.Set("synchronizes", topology.Intent{Label: "Synchronizes", Color: "#a855f7"})

	extra := orderedmap.New[string, any]()
	extra.Set("lastSyncedAt", snap.FetchedAt)

	doc := &topology.Topology{
		Meta: topology.Meta{
			Name:        repo.Name,
			Description: repo.Description,
			Version:     orDefault(repo.DefaultBranch, "main"),
			Owner:       repo.Owner.Login,
			ViewModes:   []topology.Level{topology.LevelHigh, topology.LevelMedium, topology.LevelLow},
			DefaultView: topology.LevelHigh,
			Guides:      repoLinks(repo),
			Intents:     intents,
			Repository:  repositoryMeta(snap),
			Extra:       extra,
		},
	}

	doc.Nodes = append(doc.Nodes, &topology.Node{
		ID:      repoID,
		Label:   repo.FullName,
		Type:    "repository",
		Group:   orDefault(repo.Owner.Login, "repository"),
		Level:   topology.LevelHigh,
		Summary: orDefault(repo.Description, "Git repository"),
		Tags:    repoTags(repo),
		Metrics: []topology.Metric{
			{Label: "Stars", Value: repo.Stars},
			{Label: "Forks", Value: repo.Forks},
			{Label: "Watchers", Value: watchers(repo)},
			{Label: "Issues", Value: repo.OpenIssues},
		},
		Links:  repoLinks(repo),
		Status: repoStatus(repo),
	})

	for _, m := range snap.Milestones {
		id := fmt.Sprintf("milestone-%d", m.ID)
		due := "No due date"
		if len(m.DueOn) >= 10 {
			due = "Due " + m.DueOn[:10]
		}
		doc.Nodes = append(doc.Nodes, &topology.Node{
			ID:      id,
			Label:   m.Title,
			Type:    "milestone",
			Group:   "milestones",
			Level:   topology.LevelMedium,
			Parent:  repoID,
			Summary: orDefault(m.Description, "Repository milestone"),
			Tags:    []string{m.State, due},
			Metrics: []topology.Metric{
				{Label: "Open", Value: m.OpenIssues},
				{Label: "Closed", Value: m.ClosedIssues},
			},
			Links: []any{link("Milestone", m.HTMLURL)},
		})
		doc.Edges = append(doc.Edges, containment(repoID, id, "controls", topology.LevelMedium))
	}

	for _, is := range snap.Issues {
		id := fmt.Sprintf("issue-%d", is.ID)
		parent, group := repoID, "issues"
		if is.Milestone != nil {
			parent, group = fmt.Sprintf("milestone-%d", is.Milestone.ID), is.Milestone.Title
		}
		labels := labelNames(is.Labels)
		tags := append([]string{is.State}, labels[:min(len(labels), 6)]...)
		assignees := make([]string, 0, len(is.Assignees))
		for _, a := range is.Assignees {
			assignees = append(assignees, a.Login)
		}

		status := &topology.Status{Label: "Closed", Tone: "success"}
		if is.State == "open" {
			status = &topology.Status{Label: "Open", Tone: "warning"}
		}
		doc.Nodes = append(doc.Nodes, &topology.Node{
			ID:      id,
			Label:   fmt.Sprintf("#%d %s", is.Number, is.Title),
			Type:    "issue",
			Group:   group,
			Level:   topology.LevelLow,
			Parent:  parent,
			Summary: summarize(is.Body),
			Tags:    tags,
			Links:   []any{link("Issue", is.HTMLURL)},
			Status:  status,
			Work: &topology.Work{Issues: []any{map[string]any{
				"provider":  "github",
				"repo":      repo.FullName,
				"number":    is.Number,
				"url":       is.HTMLURL,
				"state":     is.State,
				"title":     is.Title,
				"labels":    labels,
				"assignees": assignees,
				"createdAt": is.CreatedAt,
				"updatedAt": is.UpdatedAt,
				"closedAt":  is.ClosedAt,
				"comments":  is.Comments,
				"milestone": milestoneTitle(is.Milestone),
			}}},
		})
		doc.Edges = append(doc.Edges, containment(parent, id, "depends-on", topology.LevelLow))
	}

	for _, pr := range snap.Pulls {
		id := fmt.Sprintf("pr-%d", pr.ID)
		parent := repoID
		if pr.Milestone != nil {
			parent = fmt.Sprintf("milestone-%d", pr.Milestone.ID)
		}
		readiness := "ready"
		switch {
		case pr.MergedAt != "":
			readiness = "merged"
		case pr.Draft:
			readiness = "draft"
		}
		tags := []string{pr.State, readiness}
		if pr.Base.Ref != "" {
			tags = append(tags, "Base "+pr.Base.Ref)
		}

		doc.Nodes = append(doc.Nodes, &topology.Node{
			ID:      id,
			Label:   fmt.Sprintf("PR #%d %s", pr.Number, pr.Title),
			Type:    "pull-request",
			Group:   orDefault(pr.Head.Ref, "pulls"),
			Level:   topology.LevelLow,
			Parent:  parent,
			Summary: summarize(pr.Body),
			Tags:    tags,
			Links:   []any{link("Pull Request", pr.HTMLURL)},
			Status:  pullStatus(pr),
			Work: &topology.Work{PRs: []any{map[string]any{
				"provider":  "github",
				"repo":      repo.FullName,
				"number":    pr.Number,
				"url":       pr.HTMLURL,
				"state":     pr.State,
				"title":     pr.Title,
				"createdAt": pr.CreatedAt,
				"updatedAt": pr.UpdatedAt,
				"mergedAt":  pr.MergedAt,
				"labels":    labelNames(pr.Labels),
				"milestone": milestoneTitle(pr.Milestone),
			}}},
		})
		doc.Edges = append(doc.Edges, containment(parent, id, "controls", topology.LevelLow))
	}

	return topology.Normalize(doc)
}

func containment(from, to, intent string, level topology.Level) *topology.Edge {
	return &topology.Edge{
		ID:     from + "->" + to,
		From:   from,
		To:     to,
		Intent: intent,
		Level:  level,
	}
}

func repositoryMeta(snap *Snapshot) map[string]any {
	repo := snap.Repo
	visibility := "public"
	if repo.Private {
		visibility = "private"
	}
	var license any
	if repo.License != nil && repo.License.SPDXID != "" {
		license = repo.License.SPDXID
	}
	milestones := make([]any, 0, len(snap.Milestones))
	for _, m := range snap.Milestones {
		milestones = append(milestones, map[string]any{
			"id":           m.ID,
			"number":       m.Number,
			"title":        m.Title,
			"url":          m.HTMLURL,
			"state":        m.State,
			"dueOn":        m.DueOn,
			"openIssues":   m.OpenIssues,
			"closedIssues": m.ClosedIssues,
		})
	}
	topics := repo.Topics
	if topics == nil {
		topics = []string{}
	}
	return map[string]any{
		"provider":      "github",
		"owner":         repo.Owner.Login,
		"name":          repo.Name,
		"id":            repo.ID,
		"url":           repo.HTMLURL,
		"description":   repo.Description,
		"visibility":    visibility,
		"defaultBranch": repo.DefaultBranch,
		"topics":        topics,
		"license":       license,
		"homepage":      repo.Homepage,
		"stars":         repo.Stars,
		"forks":         repo.Forks,
		"watchers":      watchers(repo),
		"openIssues":    repo.OpenIssues,
		"createdAt":     repo.CreatedAt,
		"updatedAt":     repo.UpdatedAt,
		"pushedAt":      repo.PushedAt,
		"milestones":    milestones,
		"languages":     snap.Languages,
	}
}

func repoTags(repo Repo) []string {
	tags := []string{"public"}
	if repo.Private {
		tags[0] = "private"
	}
	if repo.Archived {
		tags = append(tags, "archived")
	}
	return append(tags, repo.Topics[:min(len(repo.Topics), 4)]...)
}

func repoStatus(repo Repo) *topology.Status {
	switch {
	case repo.Archived:
		return &topology.Status{Label: "Archived", Tone: "warning"}
	case repo.Private:
		return &topology.Status{Label: "Private", Tone: "success"}
	}
	return &topology.Status{Label: "Active", Tone: "success"}
}

func pullStatus(pr Pull) *topology.Status {
	switch {
	case pr.MergedAt != "":
		return &topology.Status{Label: "Merged", Tone: "success"}
	case pr.State == "open":
		return &topology.Status{Label: "Open", Tone: "info"}
	}
	return &topology.Status{Label: "Closed", Tone: "warning"}
}

func repoLinks(repo Repo) []any {
	var links []any
	if repo.HTMLURL != "" {
		links = append(links, link("Repository", repo.HTMLURL))
	}
	if repo.Homepage != "" {
		links = append(links, link("Homepage", repo.Homepage))
	}
	return links
}

func link(label, url string) map[string]any {
	return map[string]any{"label": label, "url": url}
}

func watchers(repo Repo) int {
	if repo.Subscribers > 0 {
		return repo.Subscribers
	}
	return repo.Watchers
}

func milestoneTitle(m *Milestone) any {
	if m == nil {
		return nil
	}
	return m.Title
}

// summarize normalizes line endings, collapses runs of blank lines and
// truncates the body for display.
func summarize(body string) string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	for strings.Contains(body, "\n\n\n") {
		body = strings.ReplaceAll(body, "\n\n\n", "\n\n")
	}
	return util.Truncate(body, summaryLimit)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
