// Package snapshot persists ingestion results to disk and restores them, so
// view projections and dependency queries can run later without re-cloning.
// Snapshots serialize as JSON, optionally framed through LZ4.
package snapshot

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/repolens/repolens/pkg/imports"
	"github.com/repolens/repolens/pkg/ingest"
	"github.com/repolens/repolens/pkg/locator"
	"github.com/repolens/repolens/pkg/repotree"
)

// FormatVersion is bumped whenever the serialized layout changes
// incompatibly.
const FormatVersion = 1

// ErrUnknownFormat indicates the file extension maps to no codec.
var ErrUnknownFormat = errors.New("unknown snapshot format")

// ErrVersionMismatch indicates the snapshot was written by an incompatible
// layout version.
var ErrVersionMismatch = errors.New("snapshot version mismatch")

// Snapshot is the serializable form of an ingestion result. The dependency
// set is not stored; it is derived from the tree on load.
type Snapshot struct {
	Version int                `json:"version"`
	Locator locator.Locator    `json:"locator"`
	Info    ingest.RepoInfo    `json:"info"`
	Tree    *repotree.FileNode `json:"tree"`
	Stats   ingest.Stats       `json:"stats"`
}

// FromResult converts a pipeline result into its serializable form.
func FromResult(result *ingest.Result) *Snapshot {
	return &Snapshot{
		Version: FormatVersion,
		Locator: result.Locator,
		Info:    result.Info,
		Tree:    result.Tree,
		Stats:   result.Stats,
	}
}

// Result restores a full pipeline result, re-deriving the dependency set
// from the stored tree.
func (s *Snapshot) Result() *ingest.Result {
	return &ingest.Result{
		Locator: s.Locator,
		Info:    s.Info,
		Tree:    s.Tree,
		Deps:    imports.NewDependencySet(s.Tree),
		Stats:   s.Stats,
	}
}

// ForPath selects a codec by file extension: .json for plain JSON, .lz4 for
// LZ4-framed JSON.
func ForPath(path string) (Codec, error) {
	lower := strings.ToLower(path)

	switch {
	case strings.HasSuffix(lower, ".lz4"):
		return LZ4Codec{}, nil
	case strings.HasSuffix(lower, ".json"):
		return JSONCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Save writes the snapshot to path using the codec its extension selects.
func Save(path string, snap *Snapshot) error {
	codec, err := ForPath(path)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}

	encodeErr := codec.Encode(file, snap)
	closeErr := file.Close()

	if encodeErr != nil {
		return fmt.Errorf("encode snapshot: %w", encodeErr)
	}

	if closeErr != nil {
		return fmt.Errorf("close snapshot file: %w", closeErr)
	}

	return nil
}

// Load reads a snapshot from path using the codec its extension selects and
// rejects incompatible layout versions.
func Load(path string) (*Snapshot, error) {
	codec, err := ForPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot file: %w", err)
	}
	defer file.Close()

	snap, err := codec.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	if snap.Version != FormatVersion {
		return nil, fmt.Errorf("%w: file has v%d, want v%d",
			ErrVersionMismatch, snap.Version, FormatVersion)
	}

	return snap, nil
}
