package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/fuelcore/meetingrelay/internal/document"
	"github.com/fuelcore/meetingrelay/internal/errors"
	"github.com/fuelcore/meetingrelay/internal/ops"
)

// Defaults the agent's task tools have always applied.
const (
	defaultTaskPriority = "Medium"
	defaultTaskStatus   = "To Do"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	deps *ops.Deps
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(d *ops.Deps) *Handlers {
	return &Handlers{deps: d}
}

// CreateProjectRequest represents the arguments for workspace_create_project.
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
}

// CreateTaskRequest represents the arguments for workspace_create_task and
// workspace_create_subtask.
type CreateTaskRequest struct {
	Name             string `json:"name"`
	Description      string `json:"description,omitempty"`
	Priority         string `json:"priority,omitempty"`
	DueDate          string `json:"due_date,omitempty"`
	Status           string `json:"status,omitempty"`
	ProjectID        string `json:"project_id,omitempty"`
	ParentTaskID     string `json:"parent_task_id,omitempty"`
	DefinitionOfDone string `json:"definition_of_done,omitempty"`
}

func (r CreateTaskRequest) input() ops.CreateTaskInput {
	in := ops.CreateTaskInput{
		Name:             r.Name,
		Status:           r.Status,
		Priority:         r.Priority,
		DueDate:          r.DueDate,
		ProjectID:        r.ProjectID,
		ParentTaskID:     r.ParentTaskID,
		Description:      r.Description,
		DefinitionOfDone: r.DefinitionOfDone,
	}
	if in.Priority == "" {
		in.Priority = defaultTaskPriority
	}
	if in.Status == "" {
		in.Status = defaultTaskStatus
	}
	return in
}

// HandleGetProjects handles the workspace_get_projects tool call.
func (h *Handlers) HandleGetProjects(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projects, err := ops.ListProjects(ctx, h.deps)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"projects": projects, "count": len(projects)})
}

// HandleGetTasks handles the workspace_get_tasks tool call.
func (h *Handlers) HandleGetTasks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tasks, err := ops.ListTasks(ctx, h.deps)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"tasks": tasks, "count": len(tasks)})
}

// HandleCreateProject handles the workspace_create_project tool call.
func (h *Handlers) HandleCreateProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CreateProjectRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.CreateProject(ctx, h.deps, ops.CreateProjectInput{
		Name:        input.Name,
		Status:      input.Status,
		Description: input.Description,
		DueDate:     input.DueDate,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleCreateTask handles the workspace_create_task tool call.
func (h *Handlers) HandleCreateTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CreateTaskRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.CreateTask(ctx, h.deps, input.input())
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleCreateSubtask handles the workspace_create_subtask tool call.
// Subtasks always start in the default status.
func (h *Handlers) HandleCreateSubtask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CreateTaskRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.ParentTaskID == "" {
		return errorResult(errors.NewInvalidRequest("parent_task_id is required")), nil
	}
	input.Status = ""

	result, err := ops.CreateTask(ctx, h.deps, input.input())
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleCreateMeetingNote handles the workspace_create_meeting_note tool call.
func (h *Handlers) HandleCreateMeetingNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := rawArgs(req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	note, err := document.DecodeNote(raw)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.PublishNote(ctx, h.deps, note)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleCreateMeetingAgenda handles the workspace_create_meeting_agenda tool call.
func (h *Handlers) HandleCreateMeetingAgenda(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := rawArgs(req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	agenda, err := document.DecodeAgenda(raw)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.PublishAgenda(ctx, h.deps, agenda)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error messages are replaced with a generic one.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if rErr, ok := errors.As(err); ok && rErr.Code != errors.ErrInternal {
		errorObj := map[string]any{
			"code":    rErr.Code,
			"message": rErr.Message,
			"status":  rErr.Status,
		}
		if rErr.Details != nil {
			errorObj["details"] = rErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
