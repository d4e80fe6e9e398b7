// Package mcpserver exposes the Orchestrator as an MCP tool, adapted
// from the teacher's internal/mcp/server.go tool-registration pattern
// (mcp.NewServer / mcp.AddTool). Only one tool is registered —
// analyze_repository — since this system has a single operation to
// expose, unlike the teacher's multi-tool codebase-navigation surface.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nuthan-ms/depgraph/internal/config"
	"github.com/nuthan-ms/depgraph/internal/logging"
	"github.com/nuthan-ms/depgraph/internal/orchestrator"
	"github.com/nuthan-ms/depgraph/internal/output"
)

// Server wraps the MCP SDK server with depgraph's own configuration.
type Server struct {
	server *mcp.Server
	cfg    *config.Config
	logger logging.Logger
}

// AnalyzeRepositoryArgs is the analyze_repository tool's input schema.
type AnalyzeRepositoryArgs struct {
	RepoPath        string `json:"repo_path"`
	IncludeExternal bool   `json:"include_external,omitempty"`
}

// New builds a Server named "depgraph" at the given version.
func New(version string, cfg *config.Config, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "depgraph",
		Version: version,
	}, nil)

	s := &Server{server: srv, cfg: cfg, logger: logger}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_repository",
		Description: "Scan a repository and return its source-file dependency graph as JSON (nodes, edges, and metadata including cycles and metrics).",
	}, s.analyzeRepository)
}

func (s *Server) analyzeRepository(ctx context.Context, req *mcp.CallToolRequest, args AnalyzeRepositoryArgs) (*mcp.CallToolResult, any, error) {
	if args.RepoPath == "" {
		return nil, nil, fmt.Errorf("repo_path is required")
	}

	cfg := *s.cfg
	cfg.IncludeExternal = args.IncludeExternal

	orch := orchestrator.New(&cfg, s.logger)
	res, err := orch.Analyze(ctx, args.RepoPath)
	if err != nil {
		return nil, nil, fmt.Errorf("analyze %s: %w", args.RepoPath, err)
	}

	doc, err := output.Build(args.RepoPath, res, time.Now())
	if err != nil {
		return nil, nil, fmt.Errorf("build output: %w", err)
	}

	var pretty any
	if err := json.Unmarshal(doc, &pretty); err != nil {
		pretty = nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(doc)}},
	}, pretty, nil
}

// Run serves the MCP protocol over stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, mcp.NewStdioTransport())
}
