// Package locator parses repository locators into owner/name coordinates.
//
// Two textual forms are accepted: the ssh style `git@host:owner/repo.git`
// and the https style `https://host/owner/repo`. Parsing happens entirely
// offline; a malformed locator is rejected before any network activity.
package locator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidLocator indicates the locator matches neither accepted form or
// is missing its owner or repository name segment.
var ErrInvalidLocator = errors.New("invalid repository locator")

var (
	sshForm   = regexp.MustCompile(`^git@([^:/\s]+):([^/\s]+)/([^/\s]+?)(?:\.git)?$`)
	httpsForm = regexp.MustCompile(`^https?://([^/\s]+)/([^/\s]+)/([^/\s]+?)(?:\.git)?/?$`)
)

// Locator identifies a remote repository.
type Locator struct {
	// Host is the remote host, e.g. "github.com".
	Host string

	// Owner is the user or organization segment.
	Owner string

	// Name is the repository name with any ".git" suffix stripped.
	Name string

	// CloneURL is the original locator string, suitable for cloning.
	CloneURL string
}

// String returns the owner/name slug.
func (l Locator) String() string {
	return l.Owner + "/" + l.Name
}

// Parse parses raw into a Locator. It returns an error wrapping
// ErrInvalidLocator when raw matches neither the ssh nor the https form.
func Parse(raw string) (Locator, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Locator{}, fmt.Errorf("%w: empty locator", ErrInvalidLocator)
	}

	for _, form := range []*regexp.Regexp{sshForm, httpsForm} {
		m := form.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}

		loc := Locator{
			Host:     m[1],
			Owner:    m[2],
			Name:     m[3],
			CloneURL: trimmed,
		}

		if loc.Owner == "" || loc.Name == "" {
			break
		}

		return loc, nil
	}

	return Locator{}, fmt.Errorf("%w: %q", ErrInvalidLocator, raw)
}
