// Package block defines the typed content blocks that make up a workspace
// page and the constructors used to build them.
//
// Every constructor is total: no input makes it fail, and missing text is
// represented as an empty string rather than being omitted.
package block

// Kind identifies the type of a Block. The kind fully determines which
// payload fields of the Block are populated.
type Kind string

const (
	KindHeading1  Kind = "heading_1"
	KindHeading2  Kind = "heading_2"
	KindHeading3  Kind = "heading_3"
	KindParagraph Kind = "paragraph"
	KindDivider   Kind = "divider"
	KindCallout   Kind = "callout"
	KindTable     Kind = "table"
	KindTableRow  Kind = "table_row"
	KindToggle    Kind = "toggle"
	KindToDo      Kind = "to_do"
	KindBullet    Kind = "bulleted_list_item"
	KindNumbered  Kind = "numbered_list_item"
)

// TextRun is a span of text with its emphasis flags.
type TextRun struct {
	Content string
	Bold    bool
}

// Block is one unit of page content.
type Block struct {
	// Kind selects the payload.
	Kind Kind

	// Text holds the rich text of headings, paragraphs, callouts, toggle
	// titles, to-dos and list items.
	Text []TextRun

	// Emoji is the callout icon.
	Emoji string

	// Checked is the to-do state.
	Checked bool

	// Cells holds one rich-text list per column (table rows only).
	Cells [][]TextRun

	// Width is the column count (tables only).
	Width int

	// Children holds table rows or toggle body blocks.
	Children []Block
}

// IsHeading reports whether b is a heading of any level.
func (b Block) IsHeading() bool {
	return b.Kind == KindHeading1 || b.Kind == KindHeading2 || b.Kind == KindHeading3
}

// PlainText returns the concatenated content of b's text runs.
func (b Block) PlainText() string {
	return joinRuns(b.Text)
}

// CellTexts returns the plain text of each cell of a table row.
func (b Block) CellTexts() []string {
	out := make([]string, len(b.Cells))
	for i, c := range b.Cells {
		out[i] = joinRuns(c)
	}
	return out
}

func joinRuns(runs []TextRun) string {
	if len(runs) == 1 {
		return runs[0].Content
	}
	n := 0
	for _, r := range runs {
		n += len(r.Content)
	}
	buf := make([]byte, 0, n)
	for _, r := range runs {
		buf = append(buf, r.Content...)
	}
	return string(buf)
}
