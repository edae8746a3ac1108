package convert

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/aisa-it/aiplan-editor/document"
	"github.com/aisa-it/aiplan-editor/schema"
)

// pastePolicy вырезает из вставляемого HTML все, кроме разметки,
// представимой в таблицах схемы.
var pastePolicy = bluemonday.UGCPolicy()

// HTMLToFragment преобразует вставляемый HTML во фрагмент документа.
// Фрагмент не содержит охватывающего узла документа и вставляется
// трансформацией InsertFragment.
func HTMLToFragment(raw string) (document.Fragment, error) {
	sanitized := pastePolicy.Sanitize(raw)
	rootNode, err := html.Parse(strings.NewReader(sanitized))
	if err != nil {
		return nil, err
	}

	var fragment document.Fragment
	b := &inlineBuilder{}

	flushLoose := func() {
		// Инлайновый контент верхнего уровня заворачивается в параграф.
		if nodes := b.result(); len(nodes) > 0 {
			fragment = append(fragment, document.NewBlock(document.Paragraph, nodes...))
		}
		*b = inlineBuilder{}
	}

	for el := getBody(rootNode).FirstChild; el != nil; el = el.NextSibling {
		switch el.Type {
		case html.TextNode:
			if s := strings.TrimSpace(el.Data); s != "" {
				b.text(s, nil)
			}
		case html.ElementNode:
			if block := blockFromHTML(el); block != nil {
				flushLoose()
				fragment = append(fragment, block)
			} else {
				appendHTMLInlines(b, el, nil)
			}
		}
	}
	flushLoose()

	return fragment, nil
}

func blockFromHTML(el *html.Node) *document.Node {
	t, ok := schema.BlockTag(el.Data)
	if !ok {
		return nil
	}

	switch t {
	case document.Code:
		return document.NewBlock(document.Code, document.NewText(textOf(el)))
	case document.BulletedList, document.NumberedList:
		return listFromHTML(el, t)
	case document.Quote:
		return document.NewBlock(document.Quote, childBlocksFromHTML(el)...)
	case document.Table:
		return tableFromHTML(el)
	case document.ThematicBreak:
		return document.NewBlock(document.ThematicBreak)
	default:
		return document.NewBlock(t, htmlInlines(el)...)
	}
}

// childBlocksFromHTML собирает блочных детей элемента, свободный текст
// заворачивается в параграфы.
func childBlocksFromHTML(el *html.Node) []*document.Node {
	var blocks []*document.Node
	b := &inlineBuilder{}
	flush := func() {
		if nodes := b.result(); len(nodes) > 0 {
			blocks = append(blocks, document.NewBlock(document.Paragraph, nodes...))
		}
		*b = inlineBuilder{}
	}
	for child := el.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode {
			if block := blockFromHTML(child); block != nil {
				flush()
				blocks = append(blocks, block)
				continue
			}
		}
		appendHTMLInlines(b, child, nil)
	}
	flush()
	return blocks
}

func listFromHTML(el *html.Node, t document.NodeType) *document.Node {
	var items []*document.Node
	for li := el.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.Data != "li" {
			continue
		}
		items = append(items, document.NewBlock(document.ListItem, childBlocksFromHTML(li)...))
	}
	list := document.NewBlock(t, items...)
	if t == document.NumberedList {
		if start := intAttr("start", el.Attr); start > 1 {
			list.Data = map[string]any{"start": start}
		}
	}
	return list
}

func tableFromHTML(el *html.Node) *document.Node {
	var rows []*document.Node
	iterNodes(el, func(tr *html.Node) bool {
		if tr.Type != html.ElementNode || tr.Data != "tr" {
			return false
		}
		var cells []*document.Node
		for td := tr.FirstChild; td != nil; td = td.NextSibling {
			if td.Type != html.ElementNode || (td.Data != "td" && td.Data != "th") {
				continue
			}
			cells = append(cells, document.NewBlock(document.TableCell, htmlInlines(td)...))
		}
		rows = append(rows, document.NewBlock(document.TableRow, cells...))
		return true
	})
	return document.NewBlock(document.Table, rows...)
}

func htmlInlines(el *html.Node) []*document.Node {
	b := &inlineBuilder{}
	for child := el.FirstChild; child != nil; child = child.NextSibling {
		appendHTMLInlines(b, child, nil)
	}
	return b.result()
}

func appendHTMLInlines(b *inlineBuilder, el *html.Node, marks document.MarkSet) {
	switch el.Type {
	case html.TextNode:
		b.text(el.Data, marks)
		return
	case html.ElementNode:
	default:
		return
	}

	if m, ok := schema.MarkTag(el.Data); ok {
		for child := el.FirstChild; child != nil; child = child.NextSibling {
			appendHTMLInlines(b, child, marks.Add(m))
		}
		return
	}

	switch el.Data {
	case "br":
		b.text("\n", marks)
	case "a":
		data := map[string]any{"href": getAttrValue("href", el.Attr)}
		if title := getAttrValue("title", el.Attr); title != "" {
			data["title"] = title
		}
		inner := &inlineBuilder{}
		for child := el.FirstChild; child != nil; child = child.NextSibling {
			appendHTMLInlines(inner, child, marks)
		}
		b.inline(document.NewInline(document.Link, data, inner.result()...))
	case "img":
		src := getAttrValue("src", el.Attr)
		if src == "" {
			return
		}
		data := map[string]any{"src": src}
		if alt := getAttrValue("alt", el.Attr); alt != "" {
			data["alt"] = alt
		}
		b.inline(document.NewInline(document.Image, data))
	default:
		// Неизвестный инлайновый тег прозрачен: обрабатываем его содержимое.
		for child := el.FirstChild; child != nil; child = child.NextSibling {
			appendHTMLInlines(b, child, marks)
		}
	}
}

func textOf(el *html.Node) string {
	var b strings.Builder
	iterNodes(el, func(child *html.Node) bool {
		if child.Type == html.TextNode {
			b.WriteString(child.Data)
		}
		return false
	})
	return b.String()
}

func findElementByTagName(rootNode *html.Node, tagName string) *html.Node {
	var el *html.Node
	iterNodes(rootNode, func(child *html.Node) bool {
		if child.Type == html.ElementNode && child.Data == tagName {
			el = child
			return true
		}
		return false
	})
	return el
}

func getBody(rootNode *html.Node) *html.Node {
	return findElementByTagName(rootNode, "body")
}

func iterNodes(node *html.Node, f func(child *html.Node) bool) {
	if node == nil {
		return
	}
	if f(node) {
		return
	}
	for p := node.FirstChild; p != nil; p = p.NextSibling {
		iterNodes(p, f)
	}
}

func getAttrValue(key string, attrs []html.Attribute) string {
	for _, attr := range attrs {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func intAttr(key string, attrs []html.Attribute) int {
	n := 0
	for _, c := range getAttrValue(key, attrs) {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	return n
}
