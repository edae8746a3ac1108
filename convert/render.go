package convert

import (
	"strconv"
	"strings"

	md "github.com/nao1215/markdown"

	"github.com/aisa-it/aiplan-editor/mdast"
)

// RenderMarkdown сериализует дерево mdast в Markdown-текст.
// Обратный мост к ParseMarkdown: хост получает текст для сохранения.
func RenderMarkdown(root *mdast.Node) (string, error) {
	var sb strings.Builder
	b := md.NewMarkdown(&sb)

	for _, n := range root.Children {
		renderBlock(b, n, 0)
	}

	if err := b.Build(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func renderBlock(b *md.Markdown, n *mdast.Node, indent int) {
	switch n.Type {
	case mdast.Paragraph:
		b.PlainText(indentLines(renderInlines(n.Children), indent))
	case mdast.Heading:
		renderHeading(b, n)
	case mdast.Blockquote:
		var lines []string
		for _, child := range n.Children {
			lines = append(lines, renderInlines(child.Children))
		}
		b.Blockquote(strings.Join(lines, "\n"))
	case mdast.Code:
		b.CodeBlocks(md.SyntaxHighlight(n.Lang), n.Value)
	case mdast.List:
		renderList(b, n, indent)
	case mdast.Table:
		renderTable(b, n)
	case mdast.ThematicBreak:
		b.HorizontalRule()
	case mdast.HTML:
		b.PlainText(n.Value)
	default:
		if text := n.TextContent(); text != "" {
			b.PlainText(indentLines(text, indent))
		}
	}
}

func renderHeading(b *md.Markdown, n *mdast.Node) {
	text := renderInlines(n.Children)
	switch n.Depth {
	case 1:
		b.H1(text)
	case 2:
		b.H2(text)
	case 3:
		b.H3(text)
	case 4:
		b.H4(text)
	case 5:
		b.H5(text)
	default:
		b.H6(text)
	}
}

func renderList(b *md.Markdown, n *mdast.Node, indent int) {
	// Списки с нестандартным start и вложенные списки markdown-билдер
	// не выражает, поэтому они рендерятся вручную через PlainText.
	manual := n.Ordered && n.Start > 1 || indent > 0 || hasNestedBlocks(n)
	if !manual {
		items := make([]string, 0, len(n.Children))
		for _, item := range n.Children {
			items = append(items, listItemText(item))
		}
		if n.Ordered {
			b.OrderedList(items...)
		} else {
			b.BulletList(items...)
		}
		return
	}

	number := n.Start
	if number < 1 {
		number = 1
	}
	for _, item := range n.Children {
		marker := "- "
		if n.Ordered {
			marker = strconv.Itoa(number) + ". "
			number++
		}
		b.PlainText(indentLines(marker+listItemText(item), indent))
		for _, child := range item.Children {
			if child.Type == mdast.List {
				renderList(b, child, indent+1)
			}
		}
	}
}

func hasNestedBlocks(list *mdast.Node) bool {
	for _, item := range list.Children {
		for _, child := range item.Children {
			if child.Type == mdast.List {
				return true
			}
		}
	}
	return false
}

func listItemText(item *mdast.Node) string {
	var parts []string
	for _, child := range item.Children {
		if child.Type == mdast.Paragraph {
			parts = append(parts, renderInlines(child.Children))
		}
	}
	return strings.Join(parts, " ")
}

func renderTable(b *md.Markdown, n *mdast.Node) {
	if len(n.Children) == 0 {
		return
	}
	set := md.TableSet{}
	for i, row := range n.Children {
		cells := make([]string, 0, len(row.Children))
		for _, cell := range row.Children {
			cells = append(cells, renderInlines(cell.Children))
		}
		if i == 0 {
			set.Header = cells
		} else {
			set.Rows = append(set.Rows, cells)
		}
	}
	b.CustomTable(set, md.TableOptions{AutoWrapText: false})
}

func renderInlines(nodes []*mdast.Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		sb.WriteString(renderInline(n))
	}
	return sb.String()
}

func renderInline(n *mdast.Node) string {
	switch n.Type {
	case mdast.Text:
		return n.Value
	case mdast.Strong:
		return md.Bold(renderInlines(n.Children))
	case mdast.Emphasis:
		return md.Italic(renderInlines(n.Children))
	case mdast.Delete:
		return "~~" + renderInlines(n.Children) + "~~"
	case mdast.InlineCode:
		return md.Code(n.Value)
	case mdast.Link:
		return md.Link(renderInlines(n.Children), n.URL)
	case mdast.Image:
		return md.Image(n.Alt, n.URL)
	case mdast.Break:
		return "  \n"
	default:
		return n.TextContent()
	}
}

func indentLines(s string, indent int) string {
	if indent == 0 {
		return s
	}
	prefix := strings.Repeat("  ", indent)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
