// Package mcp implements a Model Context Protocol server exposing repository
// ingestion as MCP tools over stdio transport: file trees, dependency
// listings, README contents, and repository metadata.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/repolens/repolens/pkg/ingest"
)

const (
	// serverName is the MCP server implementation name.
	serverName = "repolens"
	// serverVersion is the MCP server implementation version.
	serverVersion = "1.0.0"

	// toolCount is the expected number of registered tools.
	toolCount = 4

	// defaultCacheSize bounds cached ingestion results when deps leave it zero.
	defaultCacheSize = 16
)

// IngestFunc runs the ingestion pipeline for a repository URL.
type IngestFunc func(ctx context.Context, url string) (*ingest.Result, error)

// ReadmeFunc fetches a repository's README contents.
type ReadmeFunc func(ctx context.Context, owner, name string) (string, error)

// ServerDeps holds injectable dependencies for the MCP server.
// Zero-value fields use production defaults.
type ServerDeps struct {
	// Ingest runs the pipeline. Required.
	Ingest IngestFunc

	// Readme fetches README contents. Nil disables the repo_readme tool's
	// remote path and reports an error to the caller.
	Readme ReadmeFunc

	// Logger is an optional structured logger. Nil uses slog default.
	Logger *slog.Logger

	// Tracer is an optional OTel tracer for per-tool-call spans. Nil disables tracing.
	Tracer trace.Tracer

	// CacheSize bounds the ingestion result cache. Zero uses the default.
	CacheSize int
}

// Server wraps the MCP SDK server with repolens tool registrations. Repeated
// tool calls against the same repository hit an LRU cache of ingestion
// results instead of re-cloning.
type Server struct {
	inner  *mcpsdk.Server
	mu     sync.RWMutex
	tools  []string
	ingest IngestFunc
	readme ReadmeFunc
	cache  *lru.Cache[string, *ingest.Result]
	tracer trace.Tracer
	logger *slog.Logger
}

// NewServer creates a new MCP server with all repolens tools registered.
func NewServer(deps ServerDeps) (*Server, error) {
	size := deps.CacheSize
	if size < 1 {
		size = defaultCacheSize
	}

	cache, err := lru.New[string, *ingest.Result](size)
	if err != nil {
		return nil, fmt.Errorf("create result cache: %w", err)
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	inner := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    serverName,
			Version: serverVersion,
		},
		&mcpsdk.ServerOptions{},
	)

	srv := &Server{
		inner:  inner,
		tools:  make([]string, 0, toolCount),
		ingest: deps.Ingest,
		readme: deps.Readme,
		cache:  cache,
		tracer: deps.Tracer,
		logger: logger,
	}

	srv.registerTools()

	return srv, nil
}

// ListToolNames returns the sorted names of all registered tools.
func (s *Server) ListToolNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.tools))
	copy(names, s.tools)
	sort.Strings(names)

	return names
}

// Run starts the MCP server on stdio transport. It blocks until the context
// is canceled or the connection closes.
func (s *Server) Run(ctx context.Context) error {
	err := s.inner.Run(ctx, &mcpsdk.StdioTransport{})
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

// RunWithTransport starts the MCP server on the given transport. It blocks
// until the context is canceled or the connection closes.
func (s *Server) RunWithTransport(ctx context.Context, transport mcpsdk.Transport) error {
	err := s.inner.Run(ctx, transport)
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

// result returns the cached ingestion result for url, running the pipeline
// on a miss.
func (s *Server) result(ctx context.Context, url string) (*ingest.Result, error) {
	cached, ok := s.cache.Get(url)
	if ok {
		return cached, nil
	}

	s.logger.Debug("ingesting repository", "url", url)

	res, err := s.ingest(ctx, url)
	if err != nil {
		return nil, err
	}

	s.cache.Add(url, res)

	return res, nil
}

// registerTools adds all repolens MCP tools to the server.
func (s *Server) registerTools() {
	s.registerFileTreeTool()
	s.registerDependenciesTool()
	s.registerReadmeTool()
	s.registerInfoTool()
}

func (s *Server) registerFileTreeTool() {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameFileTree,
		Description: fileTreeToolDescription,
	}, withTracing(s.tracer, ToolNameFileTree, s.handleFileTree))

	s.trackTool(ToolNameFileTree)
}

func (s *Server) registerDependenciesTool() {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameDependencies,
		Description: dependenciesToolDescription,
	}, withTracing(s.tracer, ToolNameDependencies, s.handleDependencies))

	s.trackTool(ToolNameDependencies)
}

func (s *Server) registerReadmeTool() {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameReadme,
		Description: readmeToolDescription,
	}, withTracing(s.tracer, ToolNameReadme, s.handleReadme))

	s.trackTool(ToolNameReadme)
}

func (s *Server) registerInfoTool() {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameInfo,
		Description: infoToolDescription,
	}, withTracing(s.tracer, ToolNameInfo, s.handleInfo))

	s.trackTool(ToolNameInfo)
}

// mcpSpanPrefix is the prefix for MCP tool span names.
const mcpSpanPrefix = "mcp."

// withTracing wraps an MCP tool handler to create an OTel span per
// invocation.
func withTracing[Input any](
	tracer trace.Tracer,
	toolName string,
	handler func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error),
) func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if tracer == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		ctx, span := tracer.Start(ctx, mcpSpanPrefix+toolName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String("mcp.tool", toolName)),
		)
		defer span.End()

		return handler(ctx, req, input)
	}
}

func (s *Server) trackTool(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tools = append(s.tools, name)
}

// Tool description constants.
const (
	fileTreeToolDescription = "Fetch the file tree of a remote repository. " +
		"Accepts a repository URL and an optional depth limit; " +
		"returns paths one per line."

	dependenciesToolDescription = "Extract import dependencies from a remote repository, " +
		"classified as internal (project-local) or external (third-party). " +
		"Accepts a repository URL and an optional scope filter."

	readmeToolDescription = "Fetch the README contents of a remote repository."

	infoToolDescription = "Fetch repository metadata: description, primary language, " +
		"stars, forks, and activity timestamps."
)
