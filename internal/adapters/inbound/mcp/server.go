package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/dashlint/dashlint/internal/application"
)

// NewDashlintMCPServer creates a new MCP server with all dashlint tools and
// resources registered. projectPath is the default project root; tools accept
// a path argument to check another one.
func NewDashlintMCPServer(projectPath string, svc *application.CheckService, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"dashlint",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	h := &handlers{projectPath: projectPath, svc: svc}
	registerTools(s, h)
	registerResources(s, h)

	return s
}

type handlers struct {
	projectPath string
	svc         *application.CheckService
}
