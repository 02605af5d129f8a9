package github

import (
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5"

	errs "github.com/fadel-segaf-developer/Topology-Visualizer/pkg/errors"
)

var (
	slugPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)
	scpRemote   = regexp.MustCompile(`^[^@]+@[^:]+:([^/]+/[^/]+?)(?:\.git)?/?$`)
	urlRemote   = regexp.MustCompile(`^(?:https?|ssh|git)://(?:[^@/]+@)?[^/]+/([^/]+/[^/]+?)(?:\.git)?/?$`)
)

// SplitSlug splits "owner/name".
func SplitSlug(slug string) (owner, name string, err error) {
	slug = strings.TrimSpace(slug)
	if !slugPattern.MatchString(slug) {
		return "", "", errs.New(errs.ErrCodeInvalidInput, "repository must be owner/name, got %q", slug)
	}
	owner, name, _ = strings.Cut(slug, "/")
	return owner, strings.TrimSuffix(name, ".git"), nil
}

// ParseRemote extracts "owner/name" from a git remote URL in scp
// (git@host:owner/name.git) or URL form.
func ParseRemote(remote string) (string, bool) {
	remote = strings.TrimSpace(remote)
	for _, re := range []*regexp.Regexp{scpRemote, urlRemote} {
		if m := re.FindStringSubmatch(remote); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// DetectRepo returns the slug of the origin remote of the git repository
// containing dir.
func DetectRepo(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeInvalidInput, err, "%s is not inside a git repository; pass owner/name explicitly", dir)
	}
	origin, err := repo.Remote("origin")
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeInvalidInput, err, "no origin remote; pass owner/name explicitly")
	}
	for _, u := range origin.Config().URLs {
		if slug, ok := ParseRemote(u); ok {
			return slug, nil
		}
	}
	return "", errs.New(errs.ErrCodeInvalidInput, "origin remote %v is not a recognised repository URL", origin.Config().URLs)
}
