package convert

import (
	"strings"
	"testing"

	"github.com/aisa-it/aiplan-editor/document"
)

func TestHTMLToFragment(t *testing.T) {
	raw := `<p>Hello <strong>world</strong></p><ul><li>one</li><li>two</li></ul>`
	fragment, err := HTMLToFragment(raw)
	if err != nil {
		t.Fatalf("HTMLToFragment failed: %v", err)
	}
	if len(fragment) != 2 {
		t.Fatalf("blocks count = %d, want 2 (%v)", len(fragment), fragment)
	}

	p := fragment[0]
	if p.Type != document.Paragraph {
		t.Fatalf("block 0 type = %s, want paragraph", p.Type)
	}
	node := p.FirstText()
	if len(node.Ranges) != 2 {
		t.Fatalf("ranges count = %d, want 2 (%v)", len(node.Ranges), node.Ranges)
	}
	if node.Ranges[0].Text != "Hello " || node.Ranges[0].Marks != nil {
		t.Errorf("range 0 = %v, want plain %q", node.Ranges[0], "Hello ")
	}
	if node.Ranges[1].Text != "world" || !node.Ranges[1].Marks.Has(document.Bold) {
		t.Errorf("range 1 = %v, want bold %q", node.Ranges[1], "world")
	}

	list := fragment[1]
	if list.Type != document.BulletedList {
		t.Fatalf("block 1 type = %s, want bulleted-list", list.Type)
	}
	if len(list.Nodes) != 2 {
		t.Fatalf("items count = %d, want 2", len(list.Nodes))
	}
	item := list.Nodes[0]
	if item.Type != document.ListItem || item.Text() != "one" {
		t.Errorf("item = (%s, %q), want (list-item, %q)", item.Type, item.Text(), "one")
	}
}

func TestHTMLToFragmentSanitizes(t *testing.T) {
	raw := `<p onclick="x()">safe</p><script>alert(1)</script><iframe src="https://evil"></iframe>`
	fragment, err := HTMLToFragment(raw)
	if err != nil {
		t.Fatalf("HTMLToFragment failed: %v", err)
	}
	if len(fragment) != 1 {
		t.Fatalf("blocks count = %d, want 1 (%v)", len(fragment), fragment)
	}
	if got := fragment[0].Text(); got != "safe" {
		t.Errorf("text = %q, want %q", got, "safe")
	}
	for _, text := range fragment[0].Texts() {
		if strings.Contains(text.Text(), "alert") {
			t.Error("script content leaked into the fragment")
		}
	}
}

func TestHTMLToFragmentLooseInlineContent(t *testing.T) {
	fragment, err := HTMLToFragment(`plain <b>bold</b> tail`)
	if err != nil {
		t.Fatalf("HTMLToFragment failed: %v", err)
	}
	if len(fragment) != 1 {
		t.Fatalf("blocks count = %d, want 1 (%v)", len(fragment), fragment)
	}
	if fragment[0].Type != document.Paragraph {
		t.Errorf("block type = %s, want paragraph", fragment[0].Type)
	}
	node := fragment[0].FirstText()
	if !document.RangesHaveMark(node.Ranges, len("plain "), len("plain bold"), document.Bold) {
		t.Errorf("ranges = %v, want bold in the middle", node.Ranges)
	}
}

func TestHTMLToFragmentLink(t *testing.T) {
	fragment, err := HTMLToFragment(`<p><a href="https://example.com" title="ex">site</a></p>`)
	if err != nil {
		t.Fatalf("HTMLToFragment failed: %v", err)
	}
	var link *document.Node
	for _, child := range fragment[0].Nodes {
		if child.Kind == document.KindInline && child.Type == document.Link {
			link = child
		}
	}
	if link == nil {
		t.Fatalf("no link inline in %v", fragment[0].Nodes)
	}
	if got := link.Attr("href"); got != "https://example.com" {
		t.Errorf("href = %q, want %q", got, "https://example.com")
	}
	if got := link.Text(); got != "site" {
		t.Errorf("link text = %q, want %q", got, "site")
	}
}

func TestHTMLToFragmentImage(t *testing.T) {
	fragment, err := HTMLToFragment(`<p><img src="https://example.com/i.png" alt="pic"></p>`)
	if err != nil {
		t.Fatalf("HTMLToFragment failed: %v", err)
	}
	var img *document.Node
	for _, child := range fragment[0].Nodes {
		if child.Kind == document.KindInline && child.Type == document.Image {
			img = child
		}
	}
	if img == nil {
		t.Fatalf("no image inline in %v", fragment[0].Nodes)
	}
	if img.Attr("src") != "https://example.com/i.png" || img.Attr("alt") != "pic" {
		t.Errorf("image data = %v, want src+alt", img.Data)
	}
}

func TestHTMLToFragmentQuoteAndCode(t *testing.T) {
	raw := `<blockquote><p>quoted</p></blockquote><pre>x := 1</pre>`
	fragment, err := HTMLToFragment(raw)
	if err != nil {
		t.Fatalf("HTMLToFragment failed: %v", err)
	}
	if len(fragment) != 2 {
		t.Fatalf("blocks count = %d, want 2 (%v)", len(fragment), fragment)
	}
	quote := fragment[0]
	if quote.Type != document.Quote || quote.Nodes[0].Type != document.Paragraph {
		t.Errorf("block 0 = %s/%s, want quote/paragraph", quote.Type, quote.Nodes[0].Type)
	}
	code := fragment[1]
	if code.Type != document.Code || code.Text() != "x := 1" {
		t.Errorf("block 1 = (%s, %q), want (code, %q)", code.Type, code.Text(), "x := 1")
	}
}

func TestHTMLToFragmentUnknownTagIsTransparent(t *testing.T) {
	fragment, err := HTMLToFragment(`<p><span>wrapped</span></p>`)
	if err != nil {
		t.Fatalf("HTMLToFragment failed: %v", err)
	}
	if got := fragment[0].Text(); got != "wrapped" {
		t.Errorf("text = %q, want %q", got, "wrapped")
	}
}
