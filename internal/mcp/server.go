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
	s := server.NewMCPServer("LiftMax", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("LiftMax one-rep-max tracking server. Query baseline 1RM estimates with uncertainty and confidence, strength categories relative to bodyweight, estimate trends, logged training sets, and tested maxima. All data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetBaselineEstimate, Handler: h.getBaselineEstimate},
		server.ServerTool{Tool: toolGetStrengthCategory, Handler: h.getStrengthCategory},
		server.ServerTool{Tool: toolGetEstimateHistory, Handler: h.getEstimateHistory},
		server.ServerTool{Tool: toolGetTrainingSets, Handler: h.getTrainingSets},
		server.ServerTool{Tool: toolGetTestedMaxes, Handler: h.getTestedMaxes},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resDashboard, Handler: h.dashboard},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resDashboard = mcp.NewResource(
	"liftmax://dashboard",
	"Strength Dashboard",
	mcp.WithResourceDescription("Current baseline 1RM estimate, uncertainty, confidence, and strength category for every tracked lift"),
	mcp.WithMIMEType("application/json"),
)
