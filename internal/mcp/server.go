package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("matseq", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Mat class sequencing server. Generate safety-checked movement sequences, validate hand-built sequences against the sequencing rules, and browse the movement catalogue. Usage history is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGenerateSequence, Handler: h.generateSequence},
		server.ServerTool{Tool: toolValidateSequence, Handler: h.validateSequence},
		server.ServerTool{Tool: toolListMovements, Handler: h.listMovements},
		server.ServerTool{Tool: toolGetMovement, Handler: h.getMovement},
		server.ServerTool{Tool: toolListRules, Handler: h.listRules},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resCatalogue, Handler: h.catalogue},
		server.ServerResource{Resource: resRules, Handler: h.rules},
		server.ServerResource{Resource: resPositions, Handler: h.positions},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resCatalogue = mcp.NewResource(
	"matseq://catalogue",
	"Movement Catalogue",
	mcp.WithResourceDescription("The full movement catalogue in canonical order, with difficulty, position, family, muscle groups, and duration for each movement"),
	mcp.WithMIMEType("application/json"),
)

var resRules = mcp.NewResource(
	"matseq://rules",
	"Sequencing Rules",
	mcp.WithResourceDescription("The sequencing rules every generated class is checked against, with severity and thresholds"),
	mcp.WithMIMEType("application/json"),
)

var resPositions = mcp.NewResource(
	"matseq://positions",
	"Body Positions",
	mcp.WithResourceDescription("The body positions movements are performed in, in no particular order"),
	mcp.WithMIMEType("application/json"),
)
