package github

// Repo is the subset of a GitHub repository the exporter reads.
type Repo struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	FullName      string   `json:"full_name"`
	Description   string   `json:"description"`
	Private       bool     `json:"private"`
	Archived      bool     `json:"archived"`
	DefaultBranch string   `json:"default_branch"`
	HTMLURL       string   `json:"html_url"`
	Homepage      string   `json:"homepage"`
	Topics        []string `json:"topics"`
	Stars         int      `json:"stargazers_count"`
	Forks         int      `json:"forks_count"`
	Watchers      int      `json:"watchers_count"`
	Subscribers   int      `json:"subscribers_count"`
	OpenIssues    int      `json:"open_issues_count"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
	PushedAt      string   `json:"pushed_at"`
	Owner         User     `json:"owner"`
	License       *struct {
		SPDXID string `json:"spdx_id"`
	} `json:"license"`
}

// User is a GitHub account reference.
type User struct {
	Login string `json:"login"`
}

// Milestone is a repository milestone.
type Milestone struct {
	ID           int64  `json:"id"`
	Number       int    `json:"number"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	State        string `json:"state"`
	HTMLURL      string `json:"html_url"`
	DueOn        string `json:"due_on"`
	OpenIssues   int    `json:"open_issues"`
	ClosedIssues int    `json:"closed_issues"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// Label is an issue label.
type Label struct {
	Name string `json:"name"`
}

// Issue is an issue as returned by the issues endpoint. Pull requests appear
// there too, marked by PullRequest.
type Issue struct {
	ID          int64      `json:"id"`
	Number      int        `json:"number"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	State       string     `json:"state"`
	HTMLURL     string     `json:"html_url"`
	Labels      []Label    `json:"labels"`
	Assignees   []User     `json:"assignees"`
	Milestone   *Milestone `json:"milestone"`
	Comments    int        `json:"comments"`
	CreatedAt   string     `json:"created_at"`
	UpdatedAt   string     `json:"updated_at"`
	ClosedAt    string     `json:"closed_at"`
	PullRequest *struct{}  `json:"pull_request"`
}

// Pull is a pull request.
type Pull struct {
	ID        int64      `json:"id"`
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	State     string     `json:"state"`
	Draft     bool       `json:"draft"`
	HTMLURL   string     `json:"html_url"`
	Labels    []Label    `json:"labels"`
	Milestone *Milestone `json:"milestone"`
	MergedAt  string     `json:"merged_at"`
	CreatedAt string     `json:"created_at"`
	UpdatedAt string     `json:"updated_at"`
	Head      struct {
		Ref string `json:"ref"`
	} `json:"head"`
	Base struct {
		Ref string `json:"ref"`
	} `json:"base"`
}

// Snapshot is everything fetched for one repository.
type Snapshot struct {
	Repo       Repo           `json:"repo"`
	Languages  map[string]int `json:"languages"`
	Milestones []Milestone    `json:"milestones"`
	Issues     []Issue        `json:"issues"`
	Pulls      []Pull         `json:"pulls"`
	FetchedAt  string         `json:"fetchedAt"`
}

func labelNames(labels []Label) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if l.Name != "" {
			out = append(out, l.Name)
		}
	}
	return out
}
