// Package mcp exposes the workspace bridge as MCP tools over stdio, so an
// agent can create pages without holding workspace credentials.
package mcp

import (
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/fuelcore/meetingrelay/internal/ops"
)

// ServerName is the MCP server name reported to clients.
const ServerName = "meetingrelay"

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"workspace_get_projects": {
		def:     getProjectsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGetProjects },
	},
	"workspace_get_tasks": {
		def:     getTasksToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGetTasks },
	},
	"workspace_create_project": {
		def:     createProjectToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCreateProject },
	},
	"workspace_create_task": {
		def:     createTaskToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCreateTask },
	},
	"workspace_create_subtask": {
		def:     createSubtaskToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCreateSubtask },
	},
	"workspace_create_meeting_note": {
		def:     createMeetingNoteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCreateMeetingNote },
	},
	"workspace_create_meeting_agenda": {
		def:     createMeetingAgendaToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCreateMeetingAgenda },
	},
}

// AllToolNames returns all tool names, sorted.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
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

// NewServer creates a new MCP server with the workspace tools registered.
// Tools listed in the config's DisabledTools are excluded.
func NewServer(d *ops.Deps, version string) *server.MCPServer {
	s := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(d)

	disabled := make(map[string]bool)
	for _, name := range d.Config.DisabledTools {
		disabled[name] = true
	}
	for _, name := range ValidateDisabledTools(d.Config.DisabledTools) {
		d.Log.Warn().Str("tool", name).Msg("unknown tool in disabled_tools")
	}

	// Register tools (skip disabled)
	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(d *ops.Deps, version string) error {
	s := NewServer(d, version)
	return server.ServeStdio(s)
}
