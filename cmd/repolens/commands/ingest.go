package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/repolens/repolens/pkg/ingest"
	"github.com/repolens/repolens/pkg/snapshot"
)

// topLanguageCount bounds the per-language lines in the ingest summary.
const topLanguageCount = 5

// timePrecision rounds stage durations for display.
const timePrecision = time.Millisecond

// NewIngestCommand creates the ingest subcommand.
func NewIngestCommand() *cobra.Command {
	var (
		workers      int
		snapshotPath string
		skipMetadata bool
	)

	cmd := &cobra.Command{
		Use:   "ingest <repository-url>",
		Short: "Clone a repository, build its file tree, and extract dependencies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if skipMetadata {
				cfg.Ingest.SkipMetadata = true
			}

			providers, err := initObservability(cfg)
			if err != nil {
				return err
			}

			defer shutdownProviders(providers)

			result, err := runPipeline(cobraCmd.Context(), cfg, providers, args[0], workers)
			if err != nil {
				return err
			}

			printSummary(cobraCmd.OutOrStdout(), result)

			if snapshotPath != "" {
				saveErr := snapshot.Save(snapshotPath, snapshot.FromResult(result))
				if saveErr != nil {
					return saveErr
				}

				fmt.Fprintf(cobraCmd.OutOrStdout(), "snapshot written to %s\n", snapshotPath)
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent file readers (0: config default)")
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "write the result to a snapshot file (.json or .json.lz4)")
	cmd.Flags().BoolVar(&skipMetadata, "skip-metadata", false, "skip the remote metadata fetch")

	return cmd
}

// printSummary writes the human-readable ingest report.
func printSummary(w io.Writer, result *ingest.Result) {
	title := color.New(color.Bold, color.FgCyan).SprintFunc()
	label := color.New(color.FgHiBlack).SprintFunc()

	fmt.Fprintf(w, "%s\n", title(result.Locator.String()))

	if result.Info.Description != "" {
		fmt.Fprintf(w, "%s\n", result.Info.Description)
	}

	if result.Info.Stars > 0 || result.Info.Forks > 0 {
		fmt.Fprintf(w, "%s %s stars, %s forks\n", label("popularity:"),
			humanize.Comma(int64(result.Info.Stars)),
			humanize.Comma(int64(result.Info.Forks)))
	}

	fmt.Fprintf(w, "%s %d files, %d directories, %s\n", label("tree:"),
		result.Stats.Files, result.Stats.Dirs,
		humanize.Bytes(uint64(result.Stats.Bytes)))

	fmt.Fprintf(w, "%s clone %s, build %s, extract %s\n", label("stages:"),
		result.Stats.CloneDuration.Round(timePrecision),
		result.Stats.BuildDuration.Round(timePrecision),
		result.Stats.ExtractDuration.Round(timePrecision))

	for _, line := range languageLines(result) {
		fmt.Fprintf(w, "%s %s\n", label("lang:"), line)
	}
}

// languageLines returns the most common languages, descending by file count.
func languageLines(result *ingest.Result) []string {
	type langCount struct {
		name  string
		count int
	}

	counts := make([]langCount, 0, len(result.Stats.Languages))
	for lang, n := range result.Stats.Languages {
		counts = append(counts, langCount{name: string(lang), count: n})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}

		return counts[i].name < counts[j].name
	})

	if len(counts) > topLanguageCount {
		counts = counts[:topLanguageCount]
	}

	lines := make([]string, 0, len(counts))
	for _, lc := range counts {
		lines = append(lines, fmt.Sprintf("%s (%d files)", lc.name, lc.count))
	}

	return lines
}
