package ingest

import "time"

// RepoInfo is remote repository metadata. Every field is optional: the
// pipeline tolerates a zero value when the metadata fetch is skipped or
// fails.
type RepoInfo struct {
	// Owner is the account owning the repository.
	Owner string `json:"owner,omitempty"`

	// Name is the repository's short name.
	Name string `json:"name,omitempty"`

	// FullName is "owner/name" as reported by the remote host.
	FullName string `json:"full_name,omitempty"`

	// Description is the repository's summary line.
	Description string `json:"description,omitempty"`

	// DefaultBranch is the branch the clone checks out.
	DefaultBranch string `json:"default_branch,omitempty"`

	// Language is the remote host's primary-language estimate.
	Language string `json:"language,omitempty"`

	// AvatarURL is the owner's avatar image URL.
	AvatarURL string `json:"avatar_url,omitempty"`

	// Stars and Forks are popularity counters.
	Stars int `json:"stars,omitempty"`
	Forks int `json:"forks,omitempty"`

	// CreatedAt, UpdatedAt, and PushedAt bracket the repository's lifetime.
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
	PushedAt  time.Time `json:"pushed_at,omitempty"`
}
