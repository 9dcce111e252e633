package block

import "encoding/json"

// richText is the workspace API shape of a text run.
type richText struct {
	Type        string       `json:"type"`
	Text        textContent  `json:"text"`
	Annotations *annotations `json:"annotations,omitempty"`
}

type textContent struct {
	Content string `json:"content"`
}

type annotations struct {
	Bold bool `json:"bold"`
}

type emojiIcon struct {
	Type  string `json:"type"`
	Emoji string `json:"emoji"`
}

func newRichText(content string, bold bool) richText {
	rt := richText{Type: "text", Text: textContent{Content: content}}
	if bold {
		rt.Annotations = &annotations{Bold: true}
	}
	return rt
}

// MarshalJSON encodes a TextRun as one workspace rich-text object. Inside
// a block, runs longer than MaxTextLength are split by wireText instead.
func (r TextRun) MarshalJSON() ([]byte, error) {
	return json.Marshal(newRichText(r.Content, r.Bold))
}

// wireText encodes runs as a rich-text array, splitting any run longer
// than MaxTextLength into several objects with the same emphasis.
func wireText(runs []TextRun) []richText {
	out := make([]richText, 0, len(runs))
	for _, r := range runs {
		for _, piece := range SplitText(r.Content) {
			out = append(out, newRichText(piece, r.Bold))
		}
	}
	return out
}

// MarshalJSON encodes a Block in the workspace API block shape:
// {"object":"block","type":K,K:{...}}.
func (b Block) MarshalJSON() ([]byte, error) {
	payload := map[string]any{}
	text := wireText(ensureRuns(b.Text))

	switch b.Kind {
	case KindHeading1, KindHeading2, KindHeading3, KindParagraph, KindBullet, KindNumbered:
		payload["rich_text"] = text
	case KindDivider:
	case KindCallout:
		payload["rich_text"] = text
		if b.Emoji != "" {
			payload["icon"] = emojiIcon{Type: "emoji", Emoji: b.Emoji}
		}
	case KindToDo:
		payload["rich_text"] = text
		payload["checked"] = b.Checked
	case KindToggle:
		payload["rich_text"] = text
		if len(b.Children) > 0 {
			payload["children"] = b.Children
		}
	case KindTable:
		payload["table_width"] = b.Width
		payload["has_column_header"] = true
		payload["has_row_header"] = false
		payload["children"] = nonNilBlocks(b.Children)
	case KindTableRow:
		cells := make([][]richText, len(b.Cells))
		for i, c := range b.Cells {
			cells[i] = wireText(c)
		}
		payload["cells"] = cells
	}

	return json.Marshal(map[string]any{
		"object":       "block",
		"type":         string(b.Kind),
		string(b.Kind): payload,
	})
}

func nonNilBlocks(bs []Block) []Block {
	if bs == nil {
		return []Block{}
	}
	return bs
}
