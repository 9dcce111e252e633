package notion

import (
	"strings"

	"github.com/fuelcore/meetingrelay/internal/block"
)

// PropertyValue is the subset of a page property value the relay reads.
type PropertyValue struct {
	Type     string     `json:"type"`
	Title    []RichText `json:"title,omitempty"`
	RichText []RichText `json:"rich_text,omitempty"`
	Status   *Option    `json:"status,omitempty"`
	Select   *Option    `json:"select,omitempty"`
}

// RichText is a rich-text fragment as returned by the API.
type RichText struct {
	PlainText string `json:"plain_text"`
}

// Option is a select or status option.
type Option struct {
	Name string `json:"name"`
}

// Text returns the concatenated plain text of a title or rich_text
// property, or "" if the page has no such property.
func (p Page) Text(name string) string {
	v, ok := p.Properties[name]
	if !ok {
		return ""
	}
	runs := v.Title
	if len(runs) == 0 {
		runs = v.RichText
	}
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.PlainText)
	}
	return sb.String()
}

// OptionName returns the selected option of a status or select property.
func (p Page) OptionName(name string) string {
	v, ok := p.Properties[name]
	if !ok {
		return ""
	}
	if v.Status != nil {
		return v.Status.Name
	}
	if v.Select != nil {
		return v.Select.Name
	}
	return ""
}

// Property value constructors for page creation.

// TitleValue returns a title property value.
func TitleValue(s string) map[string]any {
	return map[string]any{"title": textFragments(s)}
}

// RichTextValue returns a rich_text property value.
func RichTextValue(s string) map[string]any {
	return map[string]any{"rich_text": textFragments(s)}
}

// StatusValue returns a status property value.
func StatusValue(name string) map[string]any {
	return map[string]any{"status": map[string]any{"name": name}}
}

// SelectValue returns a select property value.
func SelectValue(name string) map[string]any {
	return map[string]any{"select": map[string]any{"name": name}}
}

// DateValue returns a date property value.
func DateValue(start string) map[string]any {
	return map[string]any{"date": map[string]any{"start": start}}
}

// RelationValue returns a relation property value.
func RelationValue(ids ...string) map[string]any {
	rel := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		rel = append(rel, map[string]any{"id": id})
	}
	return map[string]any{"relation": rel}
}

// textFragments splits s into rich-text fragments within the API's
// per-fragment length limit.
func textFragments(s string) []map[string]any {
	pieces := block.SplitText(s)
	out := make([]map[string]any, len(pieces))
	for i, p := range pieces {
		out[i] = map[string]any{"text": map[string]any{"content": p}}
	}
	return out
}
