package mcpserver

import (
	"jira_richtext/internal/service"

	"github.com/mark3labs/mcp-go/server"
)

// NewServer creates a new MCP server instance backed by svc
func NewServer(svc *service.Service) *server.MCPServer {
	s := server.NewMCPServer(
		"jira rich text",
		"1.0.0",
	)
	registerJiraTools(s, &tools{svc: svc})
	return s
}

// Serve starts the MCP server on stdio
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}
