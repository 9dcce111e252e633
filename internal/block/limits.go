package block

import "unicode/utf16"

// Workspace API limits on a single request.
const (
	// MaxTextLength is the longest content one rich-text object may carry,
	// counted in UTF-16 code units.
	MaxTextLength = 2000

	// MaxTableRows is the most rows, header included, a table may be
	// created with.
	MaxTableRows = 100
)

// SplitText cuts s into pieces of at most MaxTextLength UTF-16 code units
// without splitting a character. It always returns at least one piece.
func SplitText(s string) []string {
	var out []string
	start, n := 0, 0
	for i, r := range s {
		w := utf16.RuneLen(r)
		if n+w > MaxTextLength {
			out = append(out, s[start:i])
			start, n = i, 0
		}
		n += w
	}
	return append(out, s[start:])
}

// SplitTables replaces every table with more than MaxTableRows rows by
// consecutive tables of at most MaxTableRows rows, each repeating the
// header row. Tables inside toggles are split too. blocks is not modified.
func SplitTables(blocks []Block) []Block {
	out := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		switch {
		case b.Kind == KindToggle && len(b.Children) > 0:
			b.Children = SplitTables(b.Children)
			out = append(out, b)
		case b.Kind == KindTable && len(b.Children) > MaxTableRows:
			out = append(out, splitTable(b)...)
		default:
			out = append(out, b)
		}
	}
	return out
}

func splitTable(t Block) []Block {
	header, rows := t.Children[0], t.Children[1:]
	var out []Block
	for len(rows) > 0 {
		n := min(MaxTableRows-1, len(rows))
		children := make([]Block, 0, n+1)
		children = append(children, header)
		children = append(children, rows[:n]...)
		out = append(out, Block{Kind: KindTable, Width: t.Width, Children: children})
		rows = rows[n:]
	}
	return out
}

// Count returns the number of blocks in b, nested children included.
func (b Block) Count() int {
	n := 1
	for _, c := range b.Children {
		n += c.Count()
	}
	return n
}
