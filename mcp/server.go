package mcp

import (
	"github.com/ka2n/oembed/api"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server represents the MCP server for oembed
type Server struct {
	server *server.MCPServer
}

// NewServer creates a new MCP server instance backed by client
func NewServer(client *api.Client) *Server {
	s := server.NewMCPServer("oembed", api.Version)

	s.AddTools(InitTools(client)...)

	return &Server{
		server: s,
	}
}

// Run starts the MCP server
func (s *Server) Run() error {
	return server.ServeStdio(s.server)
}

func newServerTool(tool mcp.Tool, handler server.ToolHandlerFunc) server.ServerTool {
	return server.ServerTool{
		Tool:    tool,
		Handler: handler,
	}
}
