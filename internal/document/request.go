package document

import (
	"bytes"
	"encoding/json"
)

// NoteRequest is the body of a meeting-note publish request. It carries
// either the structured EOS fields or the legacy simple fields; which one is
// decided by DetectDialect.
//
// Object sections are pointers and list sections are slices. A nil value
// means the field was absent (or null); an empty object or list means it was
// present.
type NoteRequest struct {
	Title           string `json:"title,omitempty"`
	MeetingType     string `json:"meeting_type,omitempty"`
	Date            string `json:"date,omitempty"`
	DurationSeconds Value  `json:"duration_seconds,omitempty"`
	ProjectID       string `json:"project_id,omitempty"`

	// Simple dialect.
	Overview    string  `json:"overview,omitempty"`
	ActionItems []Value `json:"action_items,omitempty"`
	KeyPoints   []Value `json:"key_points,omitempty"`

	// Structured dialect.
	MeetingInfo       *MeetingInfo       `json:"meeting_info,omitempty"`
	Segue             []SegueEntry       `json:"segue,omitempty"`
	Scorecard         []ScorecardEntry   `json:"scorecard,omitempty"`
	RockReview        []RockEntry        `json:"rock_review,omitempty"`
	TodoReview        *TodoReview        `json:"todo_review,omitempty"`
	Headlines         []Headline         `json:"headlines,omitempty"`
	IDSIssues         []Issue            `json:"ids_issues,omitempty"`
	ConcludeTodos     []ConcludeTodo     `json:"conclude_todos,omitempty"`
	CascadingMessages []CascadingMessage `json:"cascading_messages,omitempty"`
	NextMeeting       *NextMeeting       `json:"next_meeting,omitempty"`
	MeetingRating     *MeetingRating     `json:"meeting_rating,omitempty"`
}

// AgendaRequest is the body of a meeting-agenda publish request.
type AgendaRequest struct {
	Title           string   `json:"title,omitempty"`
	MeetingType     string   `json:"meeting_type,omitempty"`
	MeetingDate     string   `json:"meeting_date,omitempty"`
	MeetingTime     string   `json:"meeting_time,omitempty"`
	DurationMinutes Value    `json:"duration_minutes,omitempty"`
	Location        string   `json:"location,omitempty"`
	Facilitator     string   `json:"facilitator,omitempty"`
	Scribe          *string  `json:"scribe,omitempty"`
	Attendees       []string `json:"attendees,omitempty"`
	RocksToReview   []Value  `json:"rocks_to_review,omitempty"`
	KnownIssues     []Value  `json:"known_issues,omitempty"`
	AgendaItems     []Value  `json:"agenda_items,omitempty"`
	ProjectID       string   `json:"project_id,omitempty"`
}

// MeetingInfo holds the logistics rendered in the meeting-info table.
type MeetingInfo struct {
	Date            string   `json:"date,omitempty"`
	Time            string   `json:"time,omitempty"`
	DurationMinutes Value    `json:"duration_minutes,omitempty"`
	Location        string   `json:"location,omitempty"`
	Facilitator     string   `json:"facilitator,omitempty"`
	Scribe          *string  `json:"scribe,omitempty"`
	Attendees       []string `json:"attendees,omitempty"`
}

// SegueEntry is one person's good news.
type SegueEntry struct {
	Person       Value `json:"person"`
	Personal     Value `json:"personal"`
	Professional Value `json:"professional"`
}

// ScorecardEntry is one weekly measurable.
type ScorecardEntry struct {
	Metric Value `json:"metric"`
	Owner  Value `json:"owner"`
	Goal   Value `json:"goal"`
	Actual Value `json:"actual"`
	Status Value `json:"status"`
}

// RockEntry is one quarterly priority.
type RockEntry struct {
	Rock   Value `json:"rock"`
	Owner  Value `json:"owner"`
	Due    Value `json:"due"`
	Status Value `json:"status"`
}

// TodoReview is last week's to-do list with its completion rate.
type TodoReview struct {
	Items          []TodoItem `json:"items"`
	CompletionRate Value      `json:"completion_rate,omitempty"`
}

// TodoItem is one reviewed to-do.
type TodoItem struct {
	Todo   Value `json:"todo"`
	Owner  Value `json:"owner"`
	Status Value `json:"status"`
}

// Headline is a one-sentence customer or employee headline.
type Headline struct {
	Type            Value `json:"type"`
	Headline        Value `json:"headline"`
	DroppedToIssues bool  `json:"dropped_to_issues,omitempty"`
}

// Issue is one issue worked through IDS.
type Issue struct {
	Title             Value       `json:"title"`
	Issue             Value       `json:"issue"`
	RootCause         Value       `json:"root_cause"`
	DiscussionSummary Value       `json:"discussion_summary"`
	Solution          Value       `json:"solution"`
	Todos             []IssueTodo `json:"todos,omitempty"`
}

// IssueTodo is a to-do created while solving an issue. It decodes from
// either an object or a bare string.
type IssueTodo struct {
	Todo    Value `json:"todo"`
	Owner   Value `json:"owner"`
	DueDate Value `json:"due_date"`
}

// UnmarshalJSON accepts {"todo":...} objects and plain strings.
func (t *IssueTodo) UnmarshalJSON(data []byte) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] != '{' {
		return t.Todo.UnmarshalJSON(trimmed)
	}
	type plain IssueTodo
	return json.Unmarshal(data, (*plain)(t))
}

// ConcludeTodo is a new to-do recorded at the end of the meeting.
type ConcludeTodo struct {
	Todo       Value `json:"todo"`
	Owner      Value `json:"owner"`
	DueDate    Value `json:"due_date"`
	Department Value `json:"department"`
}

// CascadingMessage is a message to communicate after the meeting.
type CascadingMessage struct {
	Message Value `json:"message"`
	Who     Value `json:"who"`
	ToWhom  Value `json:"to_whom"`
}

// NextMeeting points at the next scheduled meeting.
type NextMeeting struct {
	Date     string `json:"date,omitempty"`
	Time     string `json:"time,omitempty"`
	Location string `json:"location,omitempty"`
}

// MeetingRating holds each attendee's 1-10 rating.
type MeetingRating struct {
	Ratings []Rating `json:"ratings"`
	Average Value    `json:"average,omitempty"`
}

// Rating is one attendee's rating. A zero rating means not yet submitted.
type Rating struct {
	Attendee Value `json:"attendee"`
	Rating   Value `json:"rating"`
}

// DecodeNote parses a note request body. Only a body that is not a JSON
// object is an error; optional fields of the wrong type are coerced or
// dropped.
func DecodeNote(data []byte) (*NoteRequest, error) {
	var req NoteRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// DecodeAgenda parses an agenda request body with the same tolerance as
// DecodeNote.
func DecodeAgenda(data []byte) (*AgendaRequest, error) {
	var req AgendaRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	return &req, nil
}
