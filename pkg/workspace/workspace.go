// Package workspace manages the ephemeral on-disk clone of a target
// repository. A workspace is valid for a single ingestion pass: the caller
// acquires it, reads everything it needs into memory, and closes it.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"

	git "github.com/go-git/go-git/v6"

	"github.com/repolens/repolens/pkg/locator"
)

// ErrCloneFailed indicates the clone call failed (network, authentication,
// or nonexistent repository). It is never retried internally.
var ErrCloneFailed = errors.New("repository clone failed")

// tempPattern is the MkdirTemp pattern for workspace directories.
const tempPattern = "repolens-*"

// Workspace is an exclusively-owned temporary clone of a repository.
// Close must be called on every exit path; after Close, nothing may touch
// the directory.
type Workspace struct {
	dir    string
	closed bool
}

// Acquire clones the repository identified by loc into a fresh temporary
// directory. The clone blocks until complete or ctx is done; on any failure
// the partially-created directory is removed before returning.
func Acquire(ctx context.Context, loc locator.Locator) (*Workspace, error) {
	dir, err := os.MkdirTemp("", tempPattern)
	if err != nil {
		return nil, fmt.Errorf("create workspace dir: %w", err)
	}

	_, cloneErr := git.PlainCloneContext(ctx, dir, &git.CloneOptions{
		URL: loc.CloneURL,
	})
	if cloneErr != nil {
		removeErr := os.RemoveAll(dir)

		return nil, errors.Join(
			fmt.Errorf("%w: clone %s: %v", ErrCloneFailed, loc.String(), cloneErr),
			removeErr,
		)
	}

	return &Workspace{dir: dir}, nil
}

// Root returns the workspace root directory.
func (w *Workspace) Root() string {
	return w.dir
}

// Close removes the workspace directory and everything beneath it.
// It is idempotent and safe to defer alongside an explicit call.
func (w *Workspace) Close() error {
	if w.closed {
		return nil
	}

	w.closed = true

	err := os.RemoveAll(w.dir)
	if err != nil {
		return fmt.Errorf("remove workspace: %w", err)
	}

	return nil
}
