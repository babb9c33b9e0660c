package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/repolens/repolens/pkg/locator"
	"github.com/repolens/repolens/pkg/repotree"
)

// Tool name constants.
const (
	ToolNameFileTree     = "repo_file_tree"
	ToolNameDependencies = "repo_dependencies"
	ToolNameReadme       = "repo_readme"
	ToolNameInfo         = "repo_info"
)

// Dependency scope values.
const (
	ScopeAll      = "all"
	ScopeInternal = "internal"
	ScopeExternal = "external"
)

// Sentinel errors for tool input validation.
var (
	// ErrEmptyURL indicates the url parameter is empty.
	ErrEmptyURL = errors.New("url parameter is required and must not be empty")
	// ErrInvalidScope indicates an unknown dependency scope.
	ErrInvalidScope = errors.New("scope must be all, internal, or external")
	// ErrNoMetadataClient indicates the server runs without a remote API client.
	ErrNoMetadataClient = errors.New("remote metadata client not configured")
)

// Input types (auto-generate JSON schemas via struct tags).

// FileTreeInput is the input schema for the repo_file_tree tool.
type FileTreeInput struct {
	URL   string `json:"url"             jsonschema:"repository URL in https or ssh form"`
	Depth int    `json:"depth,omitempty" jsonschema:"maximum tree depth (0 or omitted: unbounded)"`
}

// DependenciesInput is the input schema for the repo_dependencies tool.
type DependenciesInput struct {
	URL   string `json:"url"             jsonschema:"repository URL in https or ssh form"`
	Scope string `json:"scope,omitempty" jsonschema:"dependency scope: all, internal, or external (default: all)"`
}

// ReadmeInput is the input schema for the repo_readme tool.
type ReadmeInput struct {
	URL string `json:"url" jsonschema:"repository URL in https or ssh form"`
}

// InfoInput is the input schema for the repo_info tool.
type InfoInput struct {
	URL string `json:"url" jsonschema:"repository URL in https or ssh form"`
}

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// handleFileTree processes repo_file_tree tool calls.
func (s *Server) handleFileTree(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input FileTreeInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if input.URL == "" {
		return errorResult(ErrEmptyURL)
	}

	result, err := s.result(ctx, input.URL)
	if err != nil {
		return errorResult(err)
	}

	depth := repotree.Unbounded
	if input.Depth > 0 {
		depth = input.Depth
	}

	view := repotree.Project(result.Tree, depth)

	return textResult(repotree.RenderPaths(view))
}

// handleDependencies processes repo_dependencies tool calls.
func (s *Server) handleDependencies(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input DependenciesInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if input.URL == "" {
		return errorResult(ErrEmptyURL)
	}

	scope := input.Scope
	if scope == "" {
		scope = ScopeAll
	}

	switch scope {
	case ScopeAll, ScopeInternal, ScopeExternal:
	default:
		return errorResult(fmt.Errorf("%w: %q", ErrInvalidScope, input.Scope))
	}

	result, err := s.result(ctx, input.URL)
	if err != nil {
		return errorResult(err)
	}

	out := map[string]map[string][]string{}

	if scope == ScopeAll || scope == ScopeInternal {
		out["internal"] = result.Deps.AllInternal()
	}

	if scope == ScopeAll || scope == ScopeExternal {
		out["external"] = result.Deps.AllExternal()
	}

	return jsonResult(out)
}

// handleReadme processes repo_readme tool calls.
func (s *Server) handleReadme(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input ReadmeInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if input.URL == "" {
		return errorResult(ErrEmptyURL)
	}

	loc, err := locator.Parse(input.URL)
	if err != nil {
		return errorResult(err)
	}

	if s.readme == nil {
		return errorResult(ErrNoMetadataClient)
	}

	content, err := s.readme(ctx, loc.Owner, loc.Name)
	if err != nil {
		return errorResult(fmt.Errorf("fetch readme: %w", err))
	}

	return textResult(content)
}

// handleInfo processes repo_info tool calls.
func (s *Server) handleInfo(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input InfoInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if input.URL == "" {
		return errorResult(ErrEmptyURL)
	}

	result, err := s.result(ctx, input.URL)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(result.Info)
}

// Result helpers.

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// textResult builds a CallToolResult with plain text content.
func textResult(text string) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: text},
		},
	}, ToolOutput{Data: text}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}
