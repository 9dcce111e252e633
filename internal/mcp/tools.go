package mcp

import "github.com/mark3labs/mcp-go/mcp"

var objectItems = mcp.Items(map[string]any{"type": "object"})
var stringItems = mcp.Items(map[string]any{"type": "string"})

var getProjectsToolDef = mcp.NewTool("workspace_get_projects",
	mcp.WithDescription("List projects in the workspace with their id, name and status."),
)

var getTasksToolDef = mcp.NewTool("workspace_get_tasks",
	mcp.WithDescription("List tasks in the workspace with their id, name, status and priority."),
)

var createProjectToolDef = mcp.NewTool("workspace_create_project",
	mcp.WithDescription("Create a project. Only use when several related tasks do not fit any existing project."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Project name")),
	mcp.WithString("description", mcp.Description("Project description, written as the page body")),
	mcp.WithString("status", mcp.Description("Project status, e.g. Not Started, In Progress, Done")),
	mcp.WithString("due_date", mcp.Description("Target deadline (YYYY-MM-DD)")),
)

var createTaskToolDef = mcp.NewTool("workspace_create_task",
	mcp.WithDescription("Create a task, optionally linked to a project."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Task name")),
	mcp.WithString("description", mcp.Description("Task description")),
	mcp.WithString("priority", mcp.Description("Priority: High, Medium or Low (default Medium)")),
	mcp.WithString("due_date", mcp.Description("Due date (YYYY-MM-DD)")),
	mcp.WithString("status", mcp.Description("Task status (default To Do)")),
	mcp.WithString("project_id", mcp.Description("Id of the project to link")),
	mcp.WithString("definition_of_done", mcp.Description("What must be true for the task to be done")),
)

var createSubtaskToolDef = mcp.NewTool("workspace_create_subtask",
	mcp.WithDescription("Create a subtask under an existing task. Use to break larger tasks into steps."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Subtask name")),
	mcp.WithString("parent_task_id", mcp.Required(), mcp.Description("Id of the parent task")),
	mcp.WithString("description", mcp.Description("Subtask description")),
	mcp.WithString("priority", mcp.Description("Priority: High, Medium or Low (default Medium)")),
	mcp.WithString("due_date", mcp.Description("Due date (YYYY-MM-DD)")),
	mcp.WithString("project_id", mcp.Description("Id of the project to link")),
	mcp.WithString("definition_of_done", mcp.Description("What must be true for the subtask to be done")),
)

var createMeetingNoteToolDef = mcp.NewTool("workspace_create_meeting_note",
	mcp.WithDescription("Publish formatted meeting notes. Send the EOS sections (meeting_info, segue, scorecard, "+
		"rock_review, todo_review, headlines, ids_issues, conclude_todos, cascading_messages, next_meeting, "+
		"meeting_rating) for a structured page, or overview, action_items and key_points for a simple one."),
	mcp.WithString("title", mcp.Description("Page title (default Meeting Notes)")),
	mcp.WithString("meeting_type", mcp.Description("L10, Quarterly, Annual, Same Page, State of Company, Quarterly Conversation or Other")),
	mcp.WithString("date", mcp.Description("Meeting date (ISO 8601)")),
	mcp.WithNumber("duration_seconds", mcp.Description("Meeting length in seconds")),
	mcp.WithString("project_id", mcp.Description("Id of the project to link")),
	mcp.WithString("overview", mcp.Description("Markdown overview (simple notes)")),
	mcp.WithArray("action_items", stringItems, mcp.Description("Action items (simple notes)")),
	mcp.WithArray("key_points", stringItems, mcp.Description("Key points (simple notes)")),
	mcp.WithObject("meeting_info", mcp.Description("date, time, duration_minutes, location, facilitator, scribe, attendees")),
	mcp.WithArray("segue", objectItems, mcp.Description("person, personal, professional")),
	mcp.WithArray("scorecard", objectItems, mcp.Description("metric, owner, goal, actual, status")),
	mcp.WithArray("rock_review", objectItems, mcp.Description("rock, owner, due, status")),
	mcp.WithObject("todo_review", mcp.Description("items (todo, owner, status) and completion_rate")),
	mcp.WithArray("headlines", objectItems, mcp.Description("type, headline, dropped_to_issues")),
	mcp.WithArray("ids_issues", objectItems, mcp.Description("title, issue, root_cause, discussion_summary, solution, todos")),
	mcp.WithArray("conclude_todos", objectItems, mcp.Description("todo, owner, due_date, department")),
	mcp.WithArray("cascading_messages", objectItems, mcp.Description("message, who, to_whom")),
	mcp.WithObject("next_meeting", mcp.Description("date, time, location")),
	mcp.WithObject("meeting_rating", mcp.Description("ratings (attendee, rating) and average")),
)

var createMeetingAgendaToolDef = mcp.NewTool("workspace_create_meeting_agenda",
	mcp.WithDescription("Publish a meeting agenda. L10 agendas include the standard seven-segment table."),
	mcp.WithString("title", mcp.Description("Page title (default Meeting Agenda)")),
	mcp.WithString("meeting_type", mcp.Description("L10, Quarterly, Annual, Same Page, State of Company, Quarterly Conversation or Other")),
	mcp.WithString("meeting_date", mcp.Description("Meeting date (ISO 8601)")),
	mcp.WithString("meeting_time", mcp.Description("Start time")),
	mcp.WithNumber("duration_minutes", mcp.Description("Planned length in minutes (shown as 90 when omitted)")),
	mcp.WithString("location", mcp.Description("Room or video link")),
	mcp.WithString("facilitator", mcp.Description("Facilitator")),
	mcp.WithString("scribe", mcp.Description("Scribe")),
	mcp.WithArray("attendees", stringItems, mcp.Description("Attendee names")),
	mcp.WithArray("rocks_to_review", stringItems, mcp.Description("Rocks to review")),
	mcp.WithArray("known_issues", stringItems, mcp.Description("Issues for IDS")),
	mcp.WithArray("agenda_items", stringItems, mcp.Description("Other agenda items")),
	mcp.WithString("project_id", mcp.Description("Id of the project to link")),
)
