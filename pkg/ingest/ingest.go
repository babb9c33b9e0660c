// Package ingest runs the linear ingestion pipeline: acquire the
// repository, build its file tree, extract and classify dependencies. The
// pipeline produces an immutable Result; view projections and dependency
// queries repeat freely on it afterwards, while the stages themselves never
// re-enter.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/repolens/repolens/pkg/imports"
	"github.com/repolens/repolens/pkg/language"
	"github.com/repolens/repolens/pkg/locator"
	"github.com/repolens/repolens/pkg/repotree"
	"github.com/repolens/repolens/pkg/workspace"
)

// tracerName is the instrumentation scope for pipeline spans.
const tracerName = "repolens/ingest"

// MetadataFetcher fetches remote repository metadata. Failures are
// non-fatal: the pipeline logs them and continues with zero-valued fields.
type MetadataFetcher interface {
	FetchRepoInfo(ctx context.Context, owner, name string) (RepoInfo, error)
}

// Options configures one pipeline run.
type Options struct {
	// URL is the repository locator in ssh or https form.
	URL string

	// CloneURL, when set, overrides the clone endpoint derived from URL.
	// Useful for local mirrors.
	CloneURL string

	// Workers bounds concurrent file reads during the tree build.
	// Values below two keep the build sequential.
	Workers int

	// Metadata is the optional remote metadata source. Nil skips the fetch.
	Metadata MetadataFetcher

	// Logger receives stage progress. Nil uses slog.Default.
	Logger *slog.Logger

	// Tracer creates pipeline spans. Nil uses the global tracer provider.
	Tracer trace.Tracer

	// Metrics records pipeline instruments. Nil disables recording.
	Metrics *Metrics
}

// Result is the outcome of one ingestion pass. It holds no reference to the
// workspace, which is torn down before Run returns.
type Result struct {
	// Locator identifies the ingested repository.
	Locator locator.Locator `json:"locator"`

	// Info is the remote metadata; any field may be zero-valued.
	Info RepoInfo `json:"info"`

	// Tree is the full file tree with content.
	Tree *repotree.FileNode `json:"tree"`

	// Deps is the extracted and classified dependency set.
	Deps *imports.DependencySet `json:"-"`

	// Stats summarizes the pass.
	Stats Stats `json:"stats"`
}

// Stats summarizes one ingestion pass.
type Stats struct {
	Files     int                       `json:"files"`
	Dirs      int                       `json:"dirs"`
	Bytes     int64                     `json:"bytes"`
	Languages map[language.Language]int `json:"languages"`

	CloneDuration   time.Duration `json:"clone_duration"`
	BuildDuration   time.Duration `json:"build_duration"`
	ExtractDuration time.Duration `json:"extract_duration"`
}

// Run executes the pipeline for opts.URL. Locator parsing happens before
// any network activity; only locator and clone failures abort the run.
func Run(ctx context.Context, opts Options) (*Result, error) {
	loc, err := locator.Parse(opts.URL)
	if err != nil {
		return nil, err
	}

	if opts.CloneURL != "" {
		loc.CloneURL = opts.CloneURL
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}

	ctx, span := tracer.Start(ctx, "ingest.run",
		trace.WithAttributes(attribute.String("repo", loc.String())))
	defer span.End()

	result := &Result{Locator: loc}

	result.Info = fetchMetadata(ctx, tracer, logger, opts.Metadata, loc)

	ws, cloneDur, err := acquire(ctx, tracer, loc)
	if err != nil {
		return nil, err
	}

	defer func() {
		closeErr := ws.Close()
		if closeErr != nil {
			logger.Warn("workspace cleanup failed", "error", closeErr)
		}
	}()

	result.Stats.CloneDuration = cloneDur
	opts.Metrics.RecordStage(ctx, "clone", cloneDur)

	buildStart := time.Now()

	_, buildSpan := tracer.Start(ctx, "ingest.build")

	tree, err := repotree.Build(ws.Root(), repotree.WithWorkers(opts.Workers))

	buildSpan.End()

	if err != nil {
		return nil, fmt.Errorf("build tree: %w", err)
	}

	result.Tree = tree
	result.Stats.BuildDuration = time.Since(buildStart)
	opts.Metrics.RecordStage(ctx, "build", result.Stats.BuildDuration)

	extractStart := time.Now()

	_, extractSpan := tracer.Start(ctx, "ingest.extract")
	result.Deps = imports.NewDependencySet(tree)
	extractSpan.End()

	result.Stats.ExtractDuration = time.Since(extractStart)
	opts.Metrics.RecordStage(ctx, "extract", result.Stats.ExtractDuration)

	fillTreeStats(&result.Stats, tree)

	opts.Metrics.RecordFiles(ctx, result.Stats.Files)
	opts.Metrics.RecordImports(ctx, countImports(result.Deps))

	logger.Info("ingestion complete",
		"repo", loc.String(),
		"files", result.Stats.Files,
		"dirs", result.Stats.Dirs,
	)

	return result, nil
}

// fetchMetadata queries the remote metadata source. All failures degrade to
// zero-valued fields.
func fetchMetadata(
	ctx context.Context,
	tracer trace.Tracer,
	logger *slog.Logger,
	fetcher MetadataFetcher,
	loc locator.Locator,
) RepoInfo {
	if fetcher == nil {
		return RepoInfo{}
	}

	ctx, span := tracer.Start(ctx, "ingest.metadata")
	defer span.End()

	info, err := fetcher.FetchRepoInfo(ctx, loc.Owner, loc.Name)
	if err != nil {
		logger.Warn("metadata fetch failed, continuing without it",
			"repo", loc.String(), "error", err)

		return RepoInfo{}
	}

	return info
}

// acquire clones the repository, timing the blocking call.
func acquire(
	ctx context.Context,
	tracer trace.Tracer,
	loc locator.Locator,
) (*workspace.Workspace, time.Duration, error) {
	ctx, span := tracer.Start(ctx, "ingest.clone")
	defer span.End()

	start := time.Now()

	ws, err := workspace.Acquire(ctx, loc)
	if err != nil {
		if errors.Is(err, workspace.ErrCloneFailed) {
			return nil, 0, err
		}

		return nil, 0, fmt.Errorf("acquire workspace: %w", err)
	}

	return ws, time.Since(start), nil
}

func fillTreeStats(stats *Stats, tree *repotree.FileNode) {
	stats.Languages = map[language.Language]int{}

	tree.Walk(func(node *repotree.FileNode) {
		if node.Path == repotree.RootPath {
			return
		}

		if node.IsDir {
			stats.Dirs++

			return
		}

		stats.Files++
		stats.Bytes += int64(len(node.Content))
		stats.Languages[node.Language]++
	})
}

func countImports(deps *imports.DependencySet) int {
	total := 0

	for _, path := range deps.Files() {
		total += len(deps.Raw(path))
	}

	return total
}
