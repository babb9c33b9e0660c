package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/repolens/repolens/pkg/repotree"
	"github.com/repolens/repolens/pkg/snapshot"
)

// Tree output formats.
const (
	treeFormatTree  = "tree"
	treeFormatPaths = "paths"
)

// ErrInvalidTreeFormat indicates an unknown --format value.
var ErrInvalidTreeFormat = errors.New("format must be tree or paths")

// ErrNoSource indicates neither a repository URL nor a snapshot was given.
var ErrNoSource = errors.New("a repository URL argument or --snapshot is required")

// NewTreeCommand creates the tree subcommand.
func NewTreeCommand() *cobra.Command {
	var (
		depth        int
		format       string
		snapshotPath string
	)

	cmd := &cobra.Command{
		Use:   "tree [repository-url]",
		Short: "Show a repository's file tree, optionally depth-limited",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			if format != treeFormatTree && format != treeFormatPaths {
				return fmt.Errorf("%w: %q", ErrInvalidTreeFormat, format)
			}

			root, err := resolveTree(cobraCmd, args, snapshotPath)
			if err != nil {
				return err
			}

			maxDepth := repotree.Unbounded
			if depth > 0 {
				maxDepth = depth
			}

			view := repotree.Project(root, maxDepth)

			if format == treeFormatPaths {
				fmt.Fprintln(cobraCmd.OutOrStdout(), repotree.RenderPaths(view))

				return nil
			}

			fmt.Fprintln(cobraCmd.OutOrStdout(), repotree.RenderTree(view))

			return nil
		},
	}

	cmd.Flags().IntVar(&depth, "depth", 0, "maximum tree depth (0: unbounded)")
	cmd.Flags().StringVar(&format, "format", treeFormatTree, "output format: tree or paths")
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "read from a snapshot file instead of cloning")

	return cmd
}

// resolveTree obtains the file tree either from a snapshot or a fresh
// ingestion pass.
func resolveTree(cobraCmd *cobra.Command, args []string, snapshotPath string) (*repotree.FileNode, error) {
	if snapshotPath != "" {
		snap, err := snapshot.Load(snapshotPath)
		if err != nil {
			return nil, err
		}

		return snap.Tree, nil
	}

	if len(args) == 0 {
		return nil, ErrNoSource
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	// View commands never need remote metadata.
	cfg.Ingest.SkipMetadata = true

	providers, err := initObservability(cfg)
	if err != nil {
		return nil, err
	}

	defer shutdownProviders(providers)

	result, err := runPipeline(cobraCmd.Context(), cfg, providers, args[0], 0)
	if err != nil {
		return nil, err
	}

	return result.Tree, nil
}
