package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("FencingDrill", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Fencing drill session server. Browse the command catalog, start timed drill sessions (basic, combination, random, interval), and control running sessions. Command events stream over SSE at /api/v1/sessions/{id}/events."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolListCommands, Handler: h.listCommands},
		server.ServerTool{Tool: toolListPatterns, Handler: h.listPatterns},
		server.ServerTool{Tool: toolListWeapons, Handler: h.listWeapons},
		server.ServerTool{Tool: toolStartSession, Handler: h.startSession},
		server.ServerTool{Tool: toolGetSession, Handler: h.getSession},
		server.ServerTool{Tool: toolStopSession, Handler: h.stopSession},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resCatalog, Handler: h.catalog},
		server.ServerResource{Resource: resPatterns, Handler: h.patternLibrary},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resCatalog = mcp.NewResource(
	"fencingdrill://catalog",
	"Command Catalog",
	mcp.WithResourceDescription("All drill commands with French calls, Japanese translations, weights, and weapon restrictions"),
	mcp.WithMIMEType("application/json"),
)

var resPatterns = mcp.NewResource(
	"fencingdrill://patterns",
	"Pattern Library",
	mcp.WithResourceDescription("Predefined footwork combination patterns"),
	mcp.WithMIMEType("application/json"),
)
