package document

import "strings"

// Property names in the notes database.
const (
	PropName     = "Name"
	PropType     = "Type"
	PropDate     = "Note Date"
	PropDuration = "Duration (Seconds)"
	PropProject  = "Project"
)

// Type tags written to the Type select property.
const (
	TypeMeeting = "Meeting"
	TypeAgenda  = "Agenda"
)

// Properties is the page metadata derived from a request.
type Properties struct {
	Title           string   `json:"title"`
	Type            string   `json:"type"`
	Date            string   `json:"date,omitempty"`
	DurationSeconds *float64 `json:"duration_seconds,omitempty"`
	ProjectID       string   `json:"project_id,omitempty"`
}

// Wire returns the properties in the workspace API's property-value shape.
// Optional properties are left out when unset.
func (p Properties) Wire() map[string]any {
	props := map[string]any{
		PropName: map[string]any{
			"title": []map[string]any{
				{"text": map[string]any{"content": p.Title}},
			},
		},
		PropType: map[string]any{
			"select": map[string]any{"name": p.Type},
		},
	}
	if p.Date != "" {
		props[PropDate] = map[string]any{
			"date": map[string]any{"start": p.Date},
		}
	}
	if p.DurationSeconds != nil {
		props[PropDuration] = map[string]any{"number": *p.DurationSeconds}
	}
	if p.ProjectID != "" {
		props[PropProject] = map[string]any{
			"relation": []map[string]any{{"id": p.ProjectID}},
		}
	}
	return props
}

// isoDate keeps only the date part of an ISO-8601 timestamp.
func isoDate(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		return s[:i]
	}
	return s
}
