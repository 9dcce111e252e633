package block

import (
	"fmt"
	"strings"
)

// Render returns a plain-text outline of blocks, one line per block, in a
// Markdown-like notation. It is used for previews and diagnostics.
func Render(blocks []Block) string {
	var sb strings.Builder
	render(&sb, blocks, "")
	return sb.String()
}

func render(sb *strings.Builder, blocks []Block, indent string) {
	num := 0
	for _, b := range blocks {
		if b.Kind != KindNumbered {
			num = 0
		}
		switch b.Kind {
		case KindHeading1:
			fmt.Fprintf(sb, "%s# %s\n", indent, renderRuns(b.Text))
		case KindHeading2:
			fmt.Fprintf(sb, "%s## %s\n", indent, renderRuns(b.Text))
		case KindHeading3:
			fmt.Fprintf(sb, "%s### %s\n", indent, renderRuns(b.Text))
		case KindParagraph:
			fmt.Fprintf(sb, "%s%s\n", indent, renderRuns(b.Text))
		case KindDivider:
			fmt.Fprintf(sb, "%s---\n", indent)
		case KindCallout:
			fmt.Fprintf(sb, "%s> %s %s\n", indent, b.Emoji, renderRuns(b.Text))
		case KindToDo:
			mark := " "
			if b.Checked {
				mark = "x"
			}
			fmt.Fprintf(sb, "%s- [%s] %s\n", indent, mark, renderRuns(b.Text))
		case KindBullet:
			fmt.Fprintf(sb, "%s- %s\n", indent, renderRuns(b.Text))
		case KindNumbered:
			num++
			fmt.Fprintf(sb, "%s%d. %s\n", indent, num, renderRuns(b.Text))
		case KindToggle:
			fmt.Fprintf(sb, "%s> %s\n", indent, renderRuns(b.Text))
			render(sb, b.Children, indent+"  ")
		case KindTable:
			for i, row := range b.Children {
				fmt.Fprintf(sb, "%s| %s |\n", indent, strings.Join(row.CellTexts(), " | "))
				if i == 0 {
					seps := make([]string, b.Width)
					for j := range seps {
						seps[j] = "---"
					}
					fmt.Fprintf(sb, "%s| %s |\n", indent, strings.Join(seps, " | "))
				}
			}
		case KindTableRow:
			fmt.Fprintf(sb, "%s| %s |\n", indent, strings.Join(b.CellTexts(), " | "))
		}
	}
}

func renderRuns(runs []TextRun) string {
	var sb strings.Builder
	for _, r := range runs {
		if r.Bold && r.Content != "" {
			sb.WriteString("**")
			sb.WriteString(r.Content)
			sb.WriteString("**")
			continue
		}
		sb.WriteString(r.Content)
	}
	return sb.String()
}
