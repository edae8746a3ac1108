package convert

import (
	"log/slog"

	"github.com/aisa-it/aiplan-editor/document"
	"github.com/aisa-it/aiplan-editor/mdast"
	"github.com/aisa-it/aiplan-editor/schema"
)

// DocumentToMarkdown преобразует дерево документа в дерево mdast.
// Блоки плагинов сериализуются через ToBlock их дескриптора в параграф
// с одной строкой готового Markdown-представления.
func DocumentToMarkdown(doc *document.Node, reg *schema.Registry) *mdast.Node {
	root := mdast.NewRoot()
	if doc == nil {
		return root
	}
	for _, block := range doc.Nodes {
		if n := mdastFromBlock(block, reg); n != nil {
			root.Append(n)
		}
	}
	return root
}

func mdastFromBlock(block *document.Node, reg *schema.Registry) *mdast.Node {
	if block.Type.Plugin() {
		line, err := reg.Render(block)
		if err != nil {
			slog.Warn("Plugin block without registered plugin, dropped", "type", block.Type, "err", err)
			return nil
		}
		return mdast.NewParagraph(mdast.NewText(line))
	}

	switch block.Type {
	case document.Paragraph:
		return mdast.NewParagraph(mdastInlines(block.Nodes)...)
	case document.Quote:
		return (&mdast.Node{Type: mdast.Blockquote}).Append(mdastBlocks(block.Nodes, reg)...)
	case document.Code:
		return &mdast.Node{Type: mdast.Code, Value: block.Text(), Lang: block.Attr("lang")}
	case document.BulletedList:
		return (&mdast.Node{Type: mdast.List}).Append(mdastBlocks(block.Nodes, reg)...)
	case document.NumberedList:
		list := &mdast.Node{Type: mdast.List, Ordered: true, Start: 1}
		if start := block.AttrInt("start"); start > 1 {
			list.Start = start
		}
		return list.Append(mdastBlocks(block.Nodes, reg)...)
	case document.ListItem:
		item := &mdast.Node{Type: mdast.ListItem}
		return item.Append(mdastItemContent(block.Nodes, reg)...)
	case document.Table:
		return (&mdast.Node{Type: mdast.Table}).Append(mdastBlocks(block.Nodes, reg)...)
	case document.TableRow:
		return (&mdast.Node{Type: mdast.TableRow}).Append(mdastBlocks(block.Nodes, reg)...)
	case document.TableCell:
		return (&mdast.Node{Type: mdast.TableCell}).Append(mdastInlines(block.Nodes)...)
	case document.ThematicBreak:
		return &mdast.Node{Type: mdast.ThematicBreak}
	case document.Image:
		return mdast.NewParagraph(mdastImage(block))
	default:
		if deep := mdastHeading(block); deep != nil {
			return deep
		}
		slog.Warn("Unknown document block type, degraded to paragraph", "type", block.Type)
		return mdast.NewParagraph(mdast.NewText(block.Text()))
	}
}

func mdastHeading(block *document.Node) *mdast.Node {
	for i, t := range document.Headings {
		if block.Type == t {
			return mdast.NewHeading(i+1, mdastInlines(block.Nodes)...)
		}
	}
	return nil
}

func mdastBlocks(nodes []*document.Node, reg *schema.Registry) []*mdast.Node {
	out := make([]*mdast.Node, 0, len(nodes))
	for _, n := range nodes {
		if n.Kind != document.KindBlock {
			continue
		}
		if m := mdastFromBlock(n, reg); m != nil {
			out = append(out, m)
		}
	}
	return out
}

// mdastItemContent сериализует содержимое list-item: вложенные блоки
// проходят как есть, прямое инлайновое содержимое заворачивается в параграф.
func mdastItemContent(nodes []*document.Node, reg *schema.Registry) []*mdast.Node {
	var out []*mdast.Node
	var inline []*document.Node
	flush := func() {
		if len(inline) > 0 {
			out = append(out, mdast.NewParagraph(mdastInlines(inline)...))
			inline = nil
		}
	}
	for _, n := range nodes {
		if n.Kind == document.KindBlock {
			flush()
			if m := mdastFromBlock(n, reg); m != nil {
				out = append(out, m)
			}
			continue
		}
		inline = append(inline, n)
	}
	flush()
	return out
}

func mdastInlines(nodes []*document.Node) []*mdast.Node {
	var out []*mdast.Node
	for _, n := range nodes {
		switch n.Kind {
		case document.KindText:
			out = append(out, mdastRanges(n.Ranges)...)
		case document.KindInline:
			switch n.Type {
			case document.Link:
				link := &mdast.Node{Type: mdast.Link, URL: n.Attr("href"), Title: n.Attr("title")}
				out = append(out, link.Append(mdastInlines(n.Nodes)...))
			case document.Image:
				out = append(out, mdastImage(n))
			default:
				slog.Warn("Unknown document inline type, degraded to text", "type", n.Type)
				out = append(out, mdast.NewText(n.Text()))
			}
		}
	}
	return out
}

func mdastImage(n *document.Node) *mdast.Node {
	return &mdast.Node{
		Type:  mdast.Image,
		URL:   n.Attr("src"),
		Alt:   n.Attr("alt"),
		Title: n.Attr("title"),
	}
}

// mdastRanges сериализует диапазоны текстовой ноды. Каждый диапазон
// оборачивается в узлы marks в каноническом порядке: delete поверх strong
// поверх emphasis; inlineCode всегда листовой.
func mdastRanges(ranges []document.Range) []*mdast.Node {
	out := make([]*mdast.Node, 0, len(ranges))
	for _, r := range ranges {
		if r.Text == "" {
			continue
		}
		var leaf *mdast.Node
		if r.Marks.Has(document.CodeMark) {
			leaf = &mdast.Node{Type: mdast.InlineCode, Value: r.Text}
		} else {
			leaf = mdast.NewText(r.Text)
		}
		if r.Marks.Has(document.Italic) {
			leaf = &mdast.Node{Type: mdast.Emphasis, Children: []*mdast.Node{leaf}}
		}
		if r.Marks.Has(document.Bold) {
			leaf = &mdast.Node{Type: mdast.Strong, Children: []*mdast.Node{leaf}}
		}
		if r.Marks.Has(document.Strikethrough) {
			leaf = &mdast.Node{Type: mdast.Delete, Children: []*mdast.Node{leaf}}
		}
		// Underline не имеет представления в Markdown и сознательно теряется.
		out = append(out, leaf)
	}
	return out
}
