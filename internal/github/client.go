// Package github is the remote-metadata layer: repository info, README
// contents, and the hosted file-path listing, all fetched over the GitHub
// REST API. Everything here is optional enrichment; the ingestion pipeline
// works from the clone alone.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	gh "github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/repolens/repolens/pkg/ingest"
)

// ErrTokenNotFound indicates neither GH_TOKEN nor GITHUB_TOKEN is set.
var ErrTokenNotFound = errors.New("GH_TOKEN or GITHUB_TOKEN environment variable not found")

// ErrNoTree indicates no branch yielded a file tree for the repository.
var ErrNoTree = errors.New("repository file tree unavailable")

// excludedPatterns filters the hosted path listing: generated code, binary
// assets, caches, and lock files add noise without describing structure.
// A path is dropped when any pattern is a substring of its lower-cased form.
var excludedPatterns = []string{
	"node_modules/",
	"vendor/",
	"venv/",
	".min.",
	".pyc",
	".pyo",
	".pyd",
	".so",
	".dll",
	".class",
	".jpg",
	".jpeg",
	".png",
	".gif",
	".ico",
	".svg",
	".ttf",
	".woff",
	".webp",
	"__pycache__/",
	".cache/",
	".tmp/",
	"yarn.lock",
	"poetry.lock",
	".log",
	".vscode/",
	".idea/",
}

// Client wraps the GitHub REST API for the operations this tool needs.
// It implements ingest.MetadataFetcher.
type Client struct {
	api *gh.Client
}

// Option configures a Client.
type Option func(*Client) error

// WithBaseURL points the client at an alternate API endpoint, mainly for
// tests and GitHub Enterprise hosts.
func WithBaseURL(raw string) Option {
	return func(c *Client) error {
		if !strings.HasSuffix(raw, "/") {
			raw += "/"
		}

		base, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("parse base url: %w", err)
		}

		c.api.BaseURL = base

		return nil
	}
}

// NewClient creates an authenticated client. An empty token yields an
// unauthenticated client, which works for public repositories at lower rate
// limits.
func NewClient(token string, opts ...Option) (*Client, error) {
	client := &Client{}

	if token == "" {
		client.api = gh.NewClient(nil)
	} else {
		source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		client.api = gh.NewClient(oauth2.NewClient(context.Background(), source))
	}

	for _, opt := range opts {
		err := opt(client)
		if err != nil {
			return nil, err
		}
	}

	return client, nil
}

// NewClientFromEnv creates a client using GH_TOKEN or GITHUB_TOKEN.
func NewClientFromEnv(opts ...Option) (*Client, error) {
	token := os.Getenv("GH_TOKEN")
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}

	if token == "" {
		return nil, ErrTokenNotFound
	}

	return NewClient(token, opts...)
}

// FetchRepoInfo fetches repository metadata.
func (c *Client) FetchRepoInfo(ctx context.Context, owner, name string) (ingest.RepoInfo, error) {
	repo, _, err := c.api.Repositories.Get(ctx, owner, name)
	if err != nil {
		return ingest.RepoInfo{}, fmt.Errorf("get repository %s/%s: %w", owner, name, err)
	}

	info := ingest.RepoInfo{
		Owner:         repo.GetOwner().GetLogin(),
		Name:          repo.GetName(),
		FullName:      repo.GetFullName(),
		Description:   repo.GetDescription(),
		DefaultBranch: repo.GetDefaultBranch(),
		Language:      repo.GetLanguage(),
		AvatarURL:     repo.GetOwner().GetAvatarURL(),
		Stars:         repo.GetStargazersCount(),
		Forks:         repo.GetForksCount(),
	}

	if !repo.GetCreatedAt().IsZero() {
		info.CreatedAt = repo.GetCreatedAt().Time
	}

	if !repo.GetUpdatedAt().IsZero() {
		info.UpdatedAt = repo.GetUpdatedAt().Time
	}

	if !repo.GetPushedAt().IsZero() {
		info.PushedAt = repo.GetPushedAt().Time
	}

	return info, nil
}

// Readme fetches the repository's README contents, decoded.
func (c *Client) Readme(ctx context.Context, owner, name string) (string, error) {
	readme, _, err := c.api.Repositories.GetReadme(ctx, owner, name, nil)
	if err != nil {
		return "", fmt.Errorf("get readme %s/%s: %w", owner, name, err)
	}

	content, err := readme.GetContent()
	if err != nil {
		return "", fmt.Errorf("decode readme %s/%s: %w", owner, name, err)
	}

	return content, nil
}

// FileTreePaths lists the repository's file paths from the hosted tree,
// filtered through excludedPatterns. The default branch is tried first,
// then main and master.
func (c *Client) FileTreePaths(ctx context.Context, owner, name string) ([]string, error) {
	branches := []string{}

	repo, _, err := c.api.Repositories.Get(ctx, owner, name)
	if err == nil && repo.GetDefaultBranch() != "" {
		branches = append(branches, repo.GetDefaultBranch())
	}

	for _, fallback := range []string{"main", "master"} {
		if len(branches) == 0 || branches[0] != fallback {
			branches = append(branches, fallback)
		}
	}

	for _, branch := range branches {
		tree, _, err := c.api.Git.GetTree(ctx, owner, name, branch, true)
		if err != nil {
			continue
		}

		paths := make([]string, 0, len(tree.Entries))

		for _, entry := range tree.Entries {
			path := entry.GetPath()
			if includePath(path) {
				paths = append(paths, path)
			}
		}

		return paths, nil
	}

	return nil, fmt.Errorf("%w: %s/%s", ErrNoTree, owner, name)
}

func includePath(path string) bool {
	lower := strings.ToLower(path)

	for _, pattern := range excludedPatterns {
		if strings.Contains(lower, pattern) {
			return false
		}
	}

	return true
}
