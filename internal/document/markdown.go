package document

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/fuelcore/meetingrelay/internal/block"
)

var overviewMarkdown = goldmark.New()

// markdownBlocks converts Markdown summary text into blocks. Headings map to
// heading_3, lists to bulleted or numbered items, and strong emphasis to bold
// runs. Anything unrecognized is flattened to a paragraph.
func markdownBlocks(src string) []block.Block {
	source := []byte(src)
	doc := overviewMarkdown.Parser().Parse(text.NewReader(source))

	var out []block.Block
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		out = append(out, convertNode(n, source)...)
	}
	return out
}

func convertNode(n ast.Node, source []byte) []block.Block {
	switch n := n.(type) {
	case *ast.Heading:
		return []block.Block{block.RichHeading(3, inlineRuns(n, source)...)}
	case *ast.Paragraph, *ast.TextBlock:
		return []block.Block{block.RichParagraph(inlineRuns(n, source)...)}
	case *ast.ThematicBreak:
		return []block.Block{block.Divider()}
	case *ast.List:
		var out []block.Block
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			runs := listItemRuns(item, source)
			if n.IsOrdered() {
				out = append(out, block.RichNumbered(runs...))
			} else {
				out = append(out, block.RichBullet(runs...))
			}
		}
		return out
	case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
		return []block.Block{block.Paragraph(strings.TrimRight(rawLines(n, source), "\n"))}
	case *ast.Blockquote:
		var out []block.Block
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			out = append(out, convertNode(c, source)...)
		}
		return out
	default:
		return []block.Block{block.RichParagraph(inlineRuns(n, source)...)}
	}
}

// listItemRuns joins the text of a list item's direct children. Nested
// lists are flattened into the item text.
func listItemRuns(item ast.Node, source []byte) []block.TextRun {
	var runs []block.TextRun
	for c := item.FirstChild(); c != nil; c = c.NextSibling() {
		if len(runs) > 0 {
			runs = append(runs, block.Text(" "))
		}
		if list, ok := c.(*ast.List); ok {
			var parts []string
			for sub := list.FirstChild(); sub != nil; sub = sub.NextSibling() {
				parts = append(parts, plainRuns(listItemRuns(sub, source)))
			}
			runs = append(runs, block.Text(strings.Join(parts, "; ")))
			continue
		}
		runs = append(runs, inlineRuns(c, source)...)
	}
	return runs
}

func plainRuns(runs []block.TextRun) string {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.Content)
	}
	return sb.String()
}

// inlineRuns collects the inline text below n, merging adjacent runs with
// the same emphasis.
func inlineRuns(n ast.Node, source []byte) []block.TextRun {
	var runs []block.TextRun
	emit := func(s string, bold bool) {
		if s == "" {
			return
		}
		if last := len(runs) - 1; last >= 0 && runs[last].Bold == bold {
			runs[last].Content += s
			return
		}
		runs = append(runs, block.TextRun{Content: s, Bold: bold})
	}

	var walk func(n ast.Node, bold bool)
	walk = func(n ast.Node, bold bool) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch c := c.(type) {
			case *ast.Text:
				emit(string(c.Segment.Value(source)), bold)
				if c.SoftLineBreak() || c.HardLineBreak() {
					emit(" ", bold)
				}
			case *ast.String:
				emit(string(c.Value), bold)
			case *ast.Emphasis:
				walk(c, bold || c.Level >= 2)
			case *ast.CodeSpan:
				walk(c, bold)
			default:
				walk(c, bold)
			}
		}
	}
	walk(n, false)

	if len(runs) > 0 {
		last := len(runs) - 1
		runs[last].Content = strings.TrimRight(runs[last].Content, " ")
	}
	return runs
}

func rawLines(n ast.Node, source []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(source))
	}
	return sb.String()
}
