package block

// Text returns a plain text run.
func Text(content string) TextRun {
	return TextRun{Content: content}
}

// Bold returns a bold text run.
func Bold(content string) TextRun {
	return TextRun{Content: content, Bold: true}
}

// Heading returns a heading block. Levels outside 1..3 are clamped.
func Heading(level int, text string) Block {
	kind := KindHeading2
	switch {
	case level <= 1:
		kind = KindHeading1
	case level >= 3:
		kind = KindHeading3
	}
	return Block{Kind: kind, Text: []TextRun{Text(text)}}
}

// Paragraph returns a paragraph with a single plain run.
func Paragraph(text string) Block {
	return Block{Kind: KindParagraph, Text: []TextRun{Text(text)}}
}

// RichParagraph returns a paragraph made of the given runs. An empty run
// list yields a paragraph with one empty run.
func RichParagraph(runs ...TextRun) Block {
	return Block{Kind: KindParagraph, Text: ensureRuns(runs)}
}

// Divider returns a horizontal rule.
func Divider() Block {
	return Block{Kind: KindDivider}
}

// Callout returns a callout with an emoji icon.
func Callout(text, emoji string) Block {
	return Block{Kind: KindCallout, Text: []TextRun{Text(text)}, Emoji: emoji}
}

// TableRow returns a table row with one plain cell per value.
func TableRow(cells []string) Block {
	row := Block{Kind: KindTableRow, Cells: make([][]TextRun, len(cells))}
	for i, c := range cells {
		row.Cells[i] = []TextRun{Text(c)}
	}
	return row
}

// Table returns a table whose first row is the column header row.
// Rows are used as given; callers are responsible for matching widths.
func Table(headers []string, rows [][]string) Block {
	children := make([]Block, 0, len(rows)+1)
	children = append(children, TableRow(headers))
	for _, r := range rows {
		children = append(children, TableRow(r))
	}
	return Block{Kind: KindTable, Width: len(headers), Children: children}
}

// Toggle returns a collapsible block with a title and body.
func Toggle(title string, children []Block) Block {
	return Block{Kind: KindToggle, Text: []TextRun{Text(title)}, Children: children}
}

// ToDo returns a checklist item.
func ToDo(text string, checked bool) Block {
	return Block{Kind: KindToDo, Text: []TextRun{Text(text)}, Checked: checked}
}

// Bullet returns a bulleted list item.
func Bullet(text string) Block {
	return Block{Kind: KindBullet, Text: []TextRun{Text(text)}}
}

// RichBullet returns a bulleted list item made of the given runs.
func RichBullet(runs ...TextRun) Block {
	return Block{Kind: KindBullet, Text: ensureRuns(runs)}
}

// Numbered returns a numbered list item.
func Numbered(text string) Block {
	return Block{Kind: KindNumbered, Text: []TextRun{Text(text)}}
}

// RichNumbered returns a numbered list item made of the given runs.
func RichNumbered(runs ...TextRun) Block {
	return Block{Kind: KindNumbered, Text: ensureRuns(runs)}
}

// RichHeading returns a heading made of the given runs.
func RichHeading(level int, runs ...TextRun) Block {
	b := Heading(level, "")
	b.Text = ensureRuns(runs)
	return b
}

func ensureRuns(runs []TextRun) []TextRun {
	if len(runs) == 0 {
		return []TextRun{Text("")}
	}
	return runs
}
