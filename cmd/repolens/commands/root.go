// Package commands implements the repolens CLI surface: repository
// ingestion, tree and dependency views, metadata lookup, and the MCP server.
package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/repolens/repolens/internal/config"
	"github.com/repolens/repolens/internal/github"
	"github.com/repolens/repolens/internal/observability"
	"github.com/repolens/repolens/pkg/ingest"
	"github.com/repolens/repolens/pkg/version"
)

var (
	configPath string
	verbose    bool
)

// NewRootCommand assembles the repolens command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "repolens",
		Short: "Repolens - remote repository structure and dependency explorer",
		Long: `Repolens ingests a remote repository and answers questions about it:

  ingest    Clone a repository, build its file tree, extract dependencies
  tree      Show the file tree, optionally depth-limited
  deps      List import dependencies, classified internal/external
  info      Show repository metadata from the hosting API
  mcp       Serve the same capabilities over the Model Context Protocol`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: .repolens.yaml in CWD or $HOME)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(NewIngestCommand())
	rootCmd.AddCommand(NewTreeCommand())
	rootCmd.AddCommand(NewDepsCommand())
	rootCmd.AddCommand(NewInfoCommand())
	rootCmd.AddCommand(NewMCPCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "repolens %s (commit: %s, built: %s)\n",
				version.Version, version.Commit, version.Date)
		},
	}
}

// loadConfig reads the effective configuration, honoring --config and
// --verbose.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if verbose {
		cfg.Observability.LogLevel = "debug"
	}

	return cfg, nil
}

// initObservability builds providers from the loaded configuration.
func initObservability(cfg *config.Config) (observability.Providers, error) {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = observability.Mode(cfg.Observability.Mode)
	obsCfg.OTLPEndpoint = cfg.Observability.OTLPEndpoint
	obsCfg.OTLPInsecure = cfg.Observability.OTLPInsecure
	obsCfg.LogLevel = observability.ParseLevel(cfg.Observability.LogLevel)
	obsCfg.LogJSON = cfg.Observability.LogJSON

	return observability.Init(obsCfg)
}

// newMetadataFetcher builds the GitHub client when metadata is wanted.
// Without a token the client is unauthenticated, which suffices for public
// repositories.
func newMetadataFetcher(cfg *config.Config) (*github.Client, error) {
	if cfg.Ingest.SkipMetadata {
		return nil, nil
	}

	var opts []github.Option
	if cfg.GitHub.BaseURL != "" {
		opts = append(opts, github.WithBaseURL(cfg.GitHub.BaseURL))
	}

	client, err := github.NewClientFromEnv(opts...)
	if err == nil {
		return client, nil
	}

	return github.NewClient("", opts...)
}

// runPipeline wires configuration and providers into one ingestion pass.
func runPipeline(ctx context.Context, cfg *config.Config, providers observability.Providers, url string, workers int) (*ingest.Result, error) {
	if workers <= 0 {
		workers = cfg.Ingest.Workers
	}

	metrics, err := ingest.NewMetrics(providers.Meter)
	if err != nil {
		return nil, err
	}

	opts := ingest.Options{
		URL:     url,
		Workers: workers,
		Logger:  providers.Logger,
		Tracer:  providers.Tracer,
		Metrics: metrics,
	}

	fetcher, err := newMetadataFetcher(cfg)
	if err != nil {
		return nil, err
	}

	if fetcher != nil {
		opts.Metadata = fetcher
	}

	return ingest.Run(ctx, opts)
}

// shutdownProviders flushes telemetry, logging instead of failing.
func shutdownProviders(providers observability.Providers) {
	err := providers.Shutdown(context.Background())
	if err != nil {
		providers.Logger.Warn("observability shutdown failed", "error", err)
	}
}
