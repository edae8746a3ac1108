package convert

import (
	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/aisa-it/aiplan-editor/mdast"
)

// markdownEngine настроен один раз: парсер без состояния, инстанс
// переиспользуется всеми вызовами.
var markdownEngine = goldmark.New(
	goldmark.WithExtensions(
		extension.Table,
		extension.Strikethrough,
		extension.Linkify,
	),
)

// ParseMarkdown разбирает Markdown-текст в дерево mdast.
// Хосту, хранящему документы как текст, достаточно этой функции
// и MarkdownToDocument, чтобы получить редактируемое дерево.
func ParseMarkdown(src []byte) (*mdast.Node, error) {
	root := markdownEngine.Parser().Parse(text.NewReader(src))
	return fromGoldmark(root, src), nil
}

func fromGoldmark(n gast.Node, src []byte) *mdast.Node {
	switch v := n.(type) {
	case *gast.Document:
		return mdast.NewRoot(goldmarkChildren(n, src)...)
	case *gast.Paragraph, *gast.TextBlock:
		return mdast.NewParagraph(goldmarkChildren(n, src)...)
	case *gast.Heading:
		return mdast.NewHeading(v.Level, goldmarkChildren(n, src)...)
	case *gast.Blockquote:
		return (&mdast.Node{Type: mdast.Blockquote}).Append(goldmarkChildren(n, src)...)
	case *gast.FencedCodeBlock:
		return &mdast.Node{Type: mdast.Code, Value: codeLines(v, src), Lang: string(v.Language(src))}
	case *gast.CodeBlock:
		return &mdast.Node{Type: mdast.Code, Value: codeLines(v, src)}
	case *gast.List:
		list := &mdast.Node{Type: mdast.List, Ordered: v.IsOrdered()}
		if v.IsOrdered() {
			list.Start = v.Start
		}
		return list.Append(goldmarkChildren(n, src)...)
	case *gast.ListItem:
		return (&mdast.Node{Type: mdast.ListItem}).Append(goldmarkChildren(n, src)...)
	case *gast.ThematicBreak:
		return &mdast.Node{Type: mdast.ThematicBreak}
	case *gast.HTMLBlock:
		return &mdast.Node{Type: mdast.HTML, Value: rawLines(n, src)}
	case *gast.Text:
		return textFromGoldmark(v, src)
	case *gast.String:
		return mdast.NewText(string(v.Value))
	case *gast.Emphasis:
		t := mdast.Emphasis
		if v.Level >= 2 {
			t = mdast.Strong
		}
		return (&mdast.Node{Type: t}).Append(goldmarkChildren(n, src)...)
	case *east.Strikethrough:
		return (&mdast.Node{Type: mdast.Delete}).Append(goldmarkChildren(n, src)...)
	case *gast.CodeSpan:
		return &mdast.Node{Type: mdast.InlineCode, Value: segmentText(n, src)}
	case *gast.Link:
		link := &mdast.Node{Type: mdast.Link, URL: string(v.Destination), Title: string(v.Title)}
		return link.Append(goldmarkChildren(n, src)...)
	case *gast.AutoLink:
		url := string(v.URL(src))
		return &mdast.Node{Type: mdast.Link, URL: url, Children: []*mdast.Node{mdast.NewText(string(v.Label(src)))}}
	case *gast.Image:
		return &mdast.Node{Type: mdast.Image, URL: string(v.Destination), Alt: segmentText(n, src), Title: string(v.Title)}
	case *gast.RawHTML:
		return &mdast.Node{Type: mdast.HTML, Value: rawSegments(v.Segments, src)}
	case *east.Table:
		return (&mdast.Node{Type: mdast.Table}).Append(goldmarkChildren(n, src)...)
	case *east.TableHeader, *east.TableRow:
		return (&mdast.Node{Type: mdast.TableRow}).Append(goldmarkChildren(n, src)...)
	case *east.TableCell:
		return (&mdast.Node{Type: mdast.TableCell}).Append(goldmarkChildren(n, src)...)
	default:
		// Нераспознанный узел goldmark деградирует до текста.
		if s := segmentText(n, src); s != "" {
			return mdast.NewText(s)
		}
		return nil
	}
}

func goldmarkChildren(n gast.Node, src []byte) []*mdast.Node {
	var out []*mdast.Node
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		converted := fromGoldmark(c, src)
		if converted == nil {
			continue
		}
		out = append(out, converted)
		// Жесткий перенос внутри параграфа представляется отдельным узлом break.
		if t, ok := c.(*gast.Text); ok && t.HardLineBreak() {
			out = append(out, &mdast.Node{Type: mdast.Break})
		}
	}
	return out
}

func textFromGoldmark(t *gast.Text, src []byte) *mdast.Node {
	value := string(t.Segment.Value(src))
	if t.SoftLineBreak() {
		value += "\n"
	}
	if value == "" {
		return nil
	}
	return mdast.NewText(value)
}

func codeLines(n interface{ Lines() *text.Segments }, src []byte) string {
	return rawSegments(n.Lines(), src)
}

func rawLines(n gast.Node, src []byte) string {
	return rawSegments(n.Lines(), src)
}

func rawSegments(segments *text.Segments, src []byte) string {
	var out []byte
	for i := 0; i < segments.Len(); i++ {
		seg := segments.At(i)
		out = append(out, seg.Value(src)...)
	}
	return string(out)
}

func segmentText(n gast.Node, src []byte) string {
	var out string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *gast.Text:
			out += string(v.Segment.Value(src))
		case *gast.String:
			out += string(v.Value)
		default:
			out += segmentText(c, src)
		}
	}
	return out
}
