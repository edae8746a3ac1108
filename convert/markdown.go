// Пакет convert реализует преобразования между деревом mdast, деревом
// документа и HTML-фрагментами. Все функции чистые: один и тот же вход
// всегда дает структурно идентичный выход.
//
// Преобразования не теряют валидность документа: узлы без соответствия в
// таблицах схемы деградируют до простого текста или отбрасываются с
// предупреждением в лог, но никогда не приводят к ошибке.
package convert

import (
	"log/slog"

	"github.com/aisa-it/aiplan-editor/document"
	"github.com/aisa-it/aiplan-editor/mdast"
	"github.com/aisa-it/aiplan-editor/schema"
)

// MarkdownToDocument преобразует дерево mdast в дерево документа.
// Результат всегда содержит хотя бы один блок.
func MarkdownToDocument(root *mdast.Node) *document.Node {
	var blocks []*document.Node
	if root != nil {
		blocks = blocksFromMdast(root.Children)
	}
	doc, _ := schema.Normalize(document.NewDocument(blocks...))
	return doc
}

func blocksFromMdast(nodes []*mdast.Node) []*document.Node {
	blocks := make([]*document.Node, 0, len(nodes))
	for _, n := range nodes {
		if b := blockFromMdast(n); b != nil {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

func blockFromMdast(n *mdast.Node) *document.Node {
	switch n.Type {
	case mdast.Paragraph:
		return document.NewBlock(document.Paragraph, inlinesFromMdast(n.Children, nil)...)
	case mdast.Heading:
		depth := n.Depth
		if depth < 1 || depth > len(document.Headings) {
			depth = 1
		}
		return document.NewBlock(document.Headings[depth-1], inlinesFromMdast(n.Children, nil)...)
	case mdast.Blockquote:
		return document.NewBlock(document.Quote, blocksFromMdast(n.Children)...)
	case mdast.Code:
		block := document.NewBlock(document.Code, document.NewText(n.Value))
		if n.Lang != "" {
			block.Data = map[string]any{"lang": n.Lang}
		}
		return block
	case mdast.List:
		return listFromMdast(n)
	case mdast.ListItem:
		return document.NewBlock(document.ListItem, blocksFromMdast(n.Children)...)
	case mdast.Table:
		return tableFromMdast(n)
	case mdast.ThematicBreak:
		return document.NewBlock(document.ThematicBreak)
	case mdast.HTML:
		// HTML-блоки структурно не представляются: сохраняем исходный текст.
		return document.NewBlock(document.Paragraph, document.NewText(n.Value))
	default:
		text := n.TextContent()
		if text == "" {
			slog.Warn("Unknown mdast block type, dropped", "type", n.Type)
			return nil
		}
		slog.Warn("Unknown mdast block type, degraded to text", "type", n.Type)
		return document.NewBlock(document.Paragraph, document.NewText(text))
	}
}

func listFromMdast(n *mdast.Node) *document.Node {
	t := document.BulletedList
	if n.Ordered {
		t = document.NumberedList
	}
	items := make([]*document.Node, 0, len(n.Children))
	for _, item := range n.Children {
		if item.Type != mdast.ListItem {
			continue
		}
		items = append(items, document.NewBlock(document.ListItem, blocksFromMdast(item.Children)...))
	}
	block := document.NewBlock(t, items...)
	if n.Ordered && n.Start > 1 {
		block.Data = map[string]any{"start": n.Start}
	}
	return block
}

func tableFromMdast(n *mdast.Node) *document.Node {
	rows := make([]*document.Node, 0, len(n.Children))
	for _, row := range n.Children {
		if row.Type != mdast.TableRow {
			continue
		}
		cells := make([]*document.Node, 0, len(row.Children))
		for _, cell := range row.Children {
			if cell.Type != mdast.TableCell {
				continue
			}
			cells = append(cells, document.NewBlock(document.TableCell, inlinesFromMdast(cell.Children, nil)...))
		}
		rows = append(rows, document.NewBlock(document.TableRow, cells...))
	}
	return document.NewBlock(document.Table, rows...)
}

// inlineBuilder собирает последовательность инлайновых узлов:
// соседние текстовые диапазоны склеиваются в одну текстовую ноду.
type inlineBuilder struct {
	nodes  []*document.Node
	ranges []document.Range
}

func (b *inlineBuilder) text(s string, marks document.MarkSet) {
	if s == "" {
		return
	}
	if len(b.ranges) > 0 && b.ranges[len(b.ranges)-1].Marks.Equal(marks) {
		b.ranges[len(b.ranges)-1].Text += s
		return
	}
	b.ranges = append(b.ranges, document.Range{Text: s, Marks: marks})
}

func (b *inlineBuilder) inline(n *document.Node) {
	b.flush()
	b.nodes = append(b.nodes, n)
}

func (b *inlineBuilder) flush() {
	if len(b.ranges) > 0 {
		b.nodes = append(b.nodes, document.NewTextRanges(b.ranges...))
		b.ranges = nil
	}
}

func (b *inlineBuilder) result() []*document.Node {
	b.flush()
	return b.nodes
}

func inlinesFromMdast(nodes []*mdast.Node, marks document.MarkSet) []*document.Node {
	b := &inlineBuilder{}
	appendInlines(b, nodes, marks)
	return b.result()
}

func appendInlines(b *inlineBuilder, nodes []*mdast.Node, marks document.MarkSet) {
	for _, n := range nodes {
		switch n.Type {
		case mdast.Text:
			b.text(n.Value, marks)
		case mdast.Strong:
			appendInlines(b, n.Children, marks.Add(document.Bold))
		case mdast.Emphasis:
			appendInlines(b, n.Children, marks.Add(document.Italic))
		case mdast.Delete:
			appendInlines(b, n.Children, marks.Add(document.Strikethrough))
		case mdast.InlineCode:
			b.text(n.Value, marks.Add(document.CodeMark))
		case mdast.Break:
			b.text("\n", marks)
		case mdast.Link:
			data := map[string]any{"href": n.URL}
			if n.Title != "" {
				data["title"] = n.Title
			}
			b.inline(document.NewInline(document.Link, data, inlinesFromMdast(n.Children, marks)...))
		case mdast.Image:
			data := map[string]any{"src": n.URL}
			if n.Alt != "" {
				data["alt"] = n.Alt
			}
			if n.Title != "" {
				data["title"] = n.Title
			}
			b.inline(document.NewInline(document.Image, data))
		default:
			slog.Warn("Unknown mdast inline type, degraded to text", "type", n.Type)
			b.text(n.TextContent(), marks)
		}
	}
}
