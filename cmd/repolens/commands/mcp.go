package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/repolens/repolens/internal/config"
	"github.com/repolens/repolens/internal/mcp"
	"github.com/repolens/repolens/internal/observability"
	"github.com/repolens/repolens/pkg/ingest"
)

// NewMCPCommand creates the MCP server command.
func NewMCPCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The MCP server exposes repository ingestion as tools that AI agents can
discover and invoke:
  - repo_file_tree: file tree of a remote repository, optionally depth-limited
  - repo_dependencies: imports classified internal/external
  - repo_readme: README contents
  - repo_info: repository metadata`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			// MCP responses share stdout with the protocol; keep logs
			// structured on stderr.
			cfg.Observability.LogJSON = true

			providers, err := initObservability(cfg)
			if err != nil {
				return err
			}

			defer shutdownProviders(providers)

			if cfg.Observability.DiagnosticsAddr != "" {
				diag, diagErr := observability.NewDiagnosticsServer(
					cfg.Observability.DiagnosticsAddr, providers.Registry)
				if diagErr != nil {
					return diagErr
				}

				defer func() {
					closeErr := diag.Close()
					if closeErr != nil {
						providers.Logger.Warn("diagnostics shutdown failed", "error", closeErr)
					}
				}()
			}

			srv, err := buildMCPServer(cfg, providers)
			if err != nil {
				return err
			}

			return srv.Run(cobraCmd.Context())
		},
	}

	return cmd
}

// buildMCPServer wires the pipeline and metadata client into the MCP server.
func buildMCPServer(cfg *config.Config, providers observability.Providers) (*mcp.Server, error) {
	metrics, err := ingest.NewMetrics(providers.Meter)
	if err != nil {
		return nil, err
	}

	fetcher, err := newMetadataFetcher(cfg)
	if err != nil {
		return nil, err
	}

	ingestFn := func(ctx context.Context, url string) (*ingest.Result, error) {
		opts := ingest.Options{
			URL:     url,
			Workers: cfg.Ingest.Workers,
			Logger:  providers.Logger,
			Tracer:  providers.Tracer,
			Metrics: metrics,
		}

		if fetcher != nil {
			opts.Metadata = fetcher
		}

		return ingest.Run(ctx, opts)
	}

	deps := mcp.ServerDeps{
		Ingest:    ingestFn,
		Logger:    providers.Logger,
		Tracer:    providers.Tracer,
		CacheSize: cfg.MCP.CacheSize,
	}

	if fetcher != nil {
		deps.Readme = fetcher.Readme
	}

	return mcp.NewServer(deps)
}
