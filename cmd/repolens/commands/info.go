package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/repolens/repolens/internal/github"
	"github.com/repolens/repolens/pkg/ingest"
	"github.com/repolens/repolens/pkg/locator"
)

// NewInfoCommand creates the info subcommand.
func NewInfoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <repository-url>",
		Short: "Show repository metadata from the hosting API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			loc, err := locator.Parse(args[0])
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			var opts []github.Option
			if cfg.GitHub.BaseURL != "" {
				opts = append(opts, github.WithBaseURL(cfg.GitHub.BaseURL))
			}

			client, err := github.NewClientFromEnv(opts...)
			if err != nil {
				client, err = github.NewClient("", opts...)
				if err != nil {
					return err
				}
			}

			info, err := client.FetchRepoInfo(cobraCmd.Context(), loc.Owner, loc.Name)
			if err != nil {
				return err
			}

			printInfo(cobraCmd.OutOrStdout(), info)

			// The README head is best-effort context, not part of the
			// metadata contract.
			readme, readmeErr := client.Readme(cobraCmd.Context(), loc.Owner, loc.Name)
			if readmeErr == nil && readme != "" {
				printReadmeHead(cobraCmd.OutOrStdout(), readme)
			}

			return nil
		},
	}

	return cmd
}

// readmeHeadLines bounds the README excerpt in the info output.
const readmeHeadLines = 10

func printReadmeHead(w io.Writer, readme string) {
	lines := strings.Split(readme, "\n")
	if len(lines) > readmeHeadLines {
		lines = lines[:readmeHeadLines]
	}

	fmt.Fprintf(w, "\n%s\n", strings.Join(lines, "\n"))
}

func printInfo(w io.Writer, info ingest.RepoInfo) {
	title := color.New(color.Bold, color.FgCyan).SprintFunc()
	label := color.New(color.FgHiBlack).SprintFunc()

	fmt.Fprintf(w, "%s\n", title(info.FullName))

	if info.Description != "" {
		fmt.Fprintf(w, "%s\n", info.Description)
	}

	if info.Language != "" {
		fmt.Fprintf(w, "%s %s\n", label("language:"), info.Language)
	}

	fmt.Fprintf(w, "%s %s stars, %s forks\n", label("popularity:"),
		humanize.Comma(int64(info.Stars)), humanize.Comma(int64(info.Forks)))

	if info.DefaultBranch != "" {
		fmt.Fprintf(w, "%s %s\n", label("branch:"), info.DefaultBranch)
	}

	if !info.CreatedAt.IsZero() {
		fmt.Fprintf(w, "%s %s\n", label("created:"), humanize.Time(info.CreatedAt))
	}

	if !info.PushedAt.IsZero() {
		fmt.Fprintf(w, "%s %s\n", label("last push:"), humanize.Time(info.PushedAt))
	}
}
