package ops

import (
	"context"
	"strings"
	"time"

	"github.com/fuelcore/meetingrelay/internal/block"
	"github.com/fuelcore/meetingrelay/internal/errors"
	"github.com/fuelcore/meetingrelay/internal/notion"
)

// Property names in the projects and tasks databases.
const (
	propName             = "Name"
	propStatus           = "Status"
	propPriority         = "Priority"
	propDue              = "Due"
	propTargetDeadline   = "Target Deadline"
	propDescription      = "Description"
	propDefinitionOfDone = "Definition of Done"
	propProject          = "Project"
	propParentTask       = "Parent Task"
)

// List defaults for pages with empty properties.
const (
	untitled = "Untitled"
	unknown  = "Unknown"
)

// CreateProjectInput is the body of a project create request.
type CreateProjectInput struct {
	Name        string `json:"name"`
	Status      string `json:"status,omitempty"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
}

// CreateTaskInput is the body of a task create request. A task with a
// ParentTaskID is a subtask.
type CreateTaskInput struct {
	Name             string `json:"name"`
	Status           string `json:"status,omitempty"`
	Priority         string `json:"priority,omitempty"`
	DueDate          string `json:"dueDate,omitempty"`
	ProjectID        string `json:"projectId,omitempty"`
	ParentTaskID     string `json:"parentTaskId,omitempty"`
	Description      string `json:"description,omitempty"`
	DefinitionOfDone string `json:"definitionOfDone,omitempty"`
}

// CreateOutput identifies a created page.
type CreateOutput struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
}

// ProjectSummary is one row of the project list.
type ProjectSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// TaskSummary is one row of the task list.
type TaskSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Priority string `json:"priority"`
}

// CreateProject creates a page in the projects database. The description is
// written as the page body.
func CreateProject(ctx context.Context, d *Deps, in CreateProjectInput) (*CreateOutput, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errors.NewMalformedRequest("project name is required")
	}

	props := map[string]any{propName: notion.TitleValue(name)}
	if in.Status != "" {
		props[propStatus] = notion.StatusValue(in.Status)
	}
	if in.DueDate != "" {
		props[propTargetDeadline] = notion.DateValue(dateOnly(in.DueDate))
	}

	var children []block.Block
	if in.Description != "" {
		children = []block.Block{block.Paragraph(in.Description)}
	}

	return createPage(ctx, d, "create_project", notion.PageRequest{
		DatabaseID: d.Config.ProjectsDatabaseID,
		Properties: props,
		Children:   children,
	})
}

// CreateTask creates a page in the tasks database, linked to its project and
// parent task when given.
func CreateTask(ctx context.Context, d *Deps, in CreateTaskInput) (*CreateOutput, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errors.NewMalformedRequest("task name is required")
	}

	props := map[string]any{propName: notion.TitleValue(name)}
	if in.Status != "" {
		props[propStatus] = notion.StatusValue(in.Status)
	}
	// Priority is a status-type property in the tasks database.
	if in.Priority != "" {
		props[propPriority] = notion.StatusValue(in.Priority)
	}
	if in.DueDate != "" {
		props[propDue] = notion.DateValue(dateOnly(in.DueDate))
	}
	if in.Description != "" {
		props[propDescription] = notion.RichTextValue(in.Description)
	}
	if in.DefinitionOfDone != "" {
		props[propDefinitionOfDone] = notion.RichTextValue(in.DefinitionOfDone)
	}
	if in.ProjectID != "" {
		props[propProject] = notion.RelationValue(in.ProjectID)
	}
	if in.ParentTaskID != "" {
		props[propParentTask] = notion.RelationValue(in.ParentTaskID)
	}

	return createPage(ctx, d, "create_task", notion.PageRequest{
		DatabaseID: d.Config.TasksDatabaseID,
		Properties: props,
	})
}

func createPage(ctx context.Context, d *Deps, op string, req notion.PageRequest) (*CreateOutput, error) {
	start := time.Now()
	page, err := d.Workspace.CreatePage(context.WithoutCancel(ctx), req)
	d.Metrics.ObserveSink(op, start)
	if err != nil {
		d.Log.Error().Err(err).Str("op", op).Msg("workspace create failed")
		return nil, workspaceError(err)
	}
	d.Log.Info().Str("op", op).Str("page_id", page.ID).Msg("workspace page created")
	return &CreateOutput{ID: page.ID, Success: true}, nil
}

// ListProjects returns the first page of the projects database.
func ListProjects(ctx context.Context, d *Deps) ([]ProjectSummary, error) {
	pages, err := queryDatabase(ctx, d, "list_projects", d.Config.ProjectsDatabaseID)
	if err != nil {
		return nil, err
	}
	out := make([]ProjectSummary, 0, len(pages))
	for _, p := range pages {
		out = append(out, ProjectSummary{
			ID:     p.ID,
			Name:   or(p.Text(propName), untitled),
			Status: or(p.OptionName(propStatus), unknown),
		})
	}
	return out, nil
}

// ListTasks returns the first page of the tasks database.
func ListTasks(ctx context.Context, d *Deps) ([]TaskSummary, error) {
	pages, err := queryDatabase(ctx, d, "list_tasks", d.Config.TasksDatabaseID)
	if err != nil {
		return nil, err
	}
	out := make([]TaskSummary, 0, len(pages))
	for _, p := range pages {
		out = append(out, TaskSummary{
			ID:       p.ID,
			Name:     or(p.Text(propName), untitled),
			Status:   or(p.OptionName(propStatus), unknown),
			Priority: or(p.OptionName(propPriority), unknown),
		})
	}
	return out, nil
}

func queryDatabase(ctx context.Context, d *Deps, op, databaseID string) ([]notion.Page, error) {
	start := time.Now()
	pages, err := d.Workspace.QueryDatabase(ctx, databaseID, notion.Query{})
	d.Metrics.ObserveSink(op, start)
	if err != nil {
		d.Log.Error().Err(err).Str("op", op).Msg("workspace query failed")
		return nil, workspaceError(err)
	}
	return pages, nil
}

// dateOnly keeps the date part of an ISO-8601 timestamp.
func dateOnly(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		return s[:i]
	}
	return s
}

func or(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
