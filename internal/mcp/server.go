package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/riskmap/internal/registry"
	"github.com/ziadkadry99/riskmap/internal/status"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes component map tools.
type Server struct {
	maps     *registry.Holder
	statuses registry.StatusResolver
	history  *status.Store
	mcp      *server.MCPServer
}

// Option configures optional dependencies.
type Option func(*Server)

// WithStatuses enables live statuses in map_tree.
func WithStatuses(r registry.StatusResolver) Option { return func(s *Server) { s.statuses = r } }

// WithHistory enables the status_history tool.
func WithHistory(store *status.Store) Option { return func(s *Server) { s.history = store } }

// NewServer creates a new MCP server over the given maps.
func NewServer(maps *registry.Holder, opts ...Option) *Server {
	s := &Server{maps: maps}
	for _, opt := range opts {
		opt(s)
	}

	s.mcp = server.NewMCPServer(
		"riskmap",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(listMapsTool, s.handleListMaps)
	s.mcp.AddTool(findComponentTool, s.handleFindComponent)
	s.mcp.AddTool(componentPathTool, s.handleComponentPath)
	s.mcp.AddTool(mapTreeTool, s.handleMapTree)
	if s.history != nil {
		s.mcp.AddTool(statusHistoryTool, s.handleStatusHistory)
	}
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
