// Package mcp exposes the data layer as a read-only MCP tool surface over
// stdio transport.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/cursordata/internal/client"
	"github.com/hpungsan/cursordata/internal/config"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"store_info": {
		def:     storeInfoToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStoreInfo },
	},
	"value_get": {
		def:     valueGetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleValueGet },
	},
	"key_search": {
		def:     keySearchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleKeySearch },
	},
	"conversation_list": {
		def:     conversationListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleConversationList },
	},
	"conversation_get": {
		def:     conversationGetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleConversationGet },
	},
	"checkpoint_list": {
		def:     checkpointListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCheckpointList },
	},
	"context_list": {
		def:     contextListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleContextList },
	},
	"composer_list": {
		def:     composerListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleComposerList },
	},
	"tracking_list": {
		def:     trackingListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTrackingList },
	},
	"session_list": {
		def:     sessionListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSessionList },
	},
	"usage_stats": {
		def:     usageStatsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleUsageStats },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates an MCP server with the cursordata tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(c *client.Client, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"cursordata",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(c, cfg)

	disabled := make(map[string]bool)
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(c *client.Client, cfg *config.Config, version string) error {
	s := NewServer(c, cfg, version)
	return server.ServeStdio(s)
}

// ToolHandlerFunc is the signature for tool handlers.
type ToolHandlerFunc func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
