package convert

import (
	"testing"

	"github.com/aisa-it/aiplan-editor/mdast"
)

func TestParseMarkdown(t *testing.T) {
	src := "# Title\n\nHello **bold** and `code`.\n\n- one\n- two\n"
	tree, err := ParseMarkdown([]byte(src))
	if err != nil {
		t.Fatalf("ParseMarkdown failed: %v", err)
	}
	if len(tree.Children) != 3 {
		t.Fatalf("blocks count = %d, want 3 (%+v)", len(tree.Children), tree.Children)
	}

	heading := tree.Children[0]
	if heading.Type != mdast.Heading || heading.Depth != 1 {
		t.Errorf("block 0 = (%s, %d), want (heading, 1)", heading.Type, heading.Depth)
	}
	if got := heading.TextContent(); got != "Title" {
		t.Errorf("heading text = %q, want %q", got, "Title")
	}

	p := tree.Children[1]
	wantTypes := []mdast.Type{mdast.Text, mdast.Strong, mdast.Text, mdast.InlineCode, mdast.Text}
	if len(p.Children) != len(wantTypes) {
		t.Fatalf("inline count = %d, want %d (%+v)", len(p.Children), len(wantTypes), p.Children)
	}
	for i, want := range wantTypes {
		if p.Children[i].Type != want {
			t.Errorf("inline %d type = %s, want %s", i, p.Children[i].Type, want)
		}
	}
	if got := p.Children[1].TextContent(); got != "bold" {
		t.Errorf("strong text = %q, want %q", got, "bold")
	}
	if got := p.Children[3].Value; got != "code" {
		t.Errorf("inline code = %q, want %q", got, "code")
	}

	list := tree.Children[2]
	if list.Type != mdast.List || list.Ordered {
		t.Fatalf("block 2 = %+v, want unordered list", list)
	}
	if len(list.Children) != 2 {
		t.Fatalf("items count = %d, want 2", len(list.Children))
	}
	item := list.Children[0]
	if item.Type != mdast.ListItem || item.TextContent() != "one" {
		t.Errorf("item = (%s, %q), want (listItem, %q)", item.Type, item.TextContent(), "one")
	}
}

func TestParseMarkdownOrderedStart(t *testing.T) {
	tree, err := ParseMarkdown([]byte("3. three\n4. four\n"))
	if err != nil {
		t.Fatalf("ParseMarkdown failed: %v", err)
	}
	list := tree.Children[0]
	if !list.Ordered || list.Start != 3 {
		t.Errorf("list = %+v, want ordered with start 3", list)
	}
}

func TestParseMarkdownStrikethrough(t *testing.T) {
	tree, err := ParseMarkdown([]byte("~~gone~~\n"))
	if err != nil {
		t.Fatalf("ParseMarkdown failed: %v", err)
	}
	del := tree.Children[0].Children[0]
	if del.Type != mdast.Delete || del.TextContent() != "gone" {
		t.Errorf("node = %+v, want delete %q", del, "gone")
	}
}

func TestParseMarkdownFencedCode(t *testing.T) {
	tree, err := ParseMarkdown([]byte("```go\nfmt.Println()\n```\n"))
	if err != nil {
		t.Fatalf("ParseMarkdown failed: %v", err)
	}
	code := tree.Children[0]
	if code.Type != mdast.Code || code.Lang != "go" {
		t.Fatalf("block = %+v, want go code block", code)
	}
	if code.Value != "fmt.Println()\n" {
		t.Errorf("code value = %q, want %q", code.Value, "fmt.Println()\n")
	}
}

func TestParseMarkdownTable(t *testing.T) {
	src := "| a | b |\n| --- | --- |\n| c | d |\n"
	tree, err := ParseMarkdown([]byte(src))
	if err != nil {
		t.Fatalf("ParseMarkdown failed: %v", err)
	}
	table := tree.Children[0]
	if table.Type != mdast.Table {
		t.Fatalf("block = %+v, want table", table)
	}
	if len(table.Children) != 2 {
		t.Fatalf("rows count = %d, want 2", len(table.Children))
	}
	header := table.Children[0]
	if header.Type != mdast.TableRow || len(header.Children) != 2 {
		t.Fatalf("header = %+v, want row with 2 cells", header)
	}
	if got := header.Children[0].TextContent(); got != "a" {
		t.Errorf("cell text = %q, want %q", got, "a")
	}
	if got := table.Children[1].Children[1].TextContent(); got != "d" {
		t.Errorf("cell text = %q, want %q", got, "d")
	}
}

func TestParseMarkdownHardBreak(t *testing.T) {
	tree, err := ParseMarkdown([]byte("x  \ny\n"))
	if err != nil {
		t.Fatalf("ParseMarkdown failed: %v", err)
	}
	p := tree.Children[0]
	if len(p.Children) != 3 || p.Children[1].Type != mdast.Break {
		t.Errorf("inlines = %+v, want text/break/text", p.Children)
	}
}

func TestParseMarkdownLinkAndImage(t *testing.T) {
	tree, err := ParseMarkdown([]byte("[site](https://example.com) ![pic](https://example.com/i.png)\n"))
	if err != nil {
		t.Fatalf("ParseMarkdown failed: %v", err)
	}
	p := tree.Children[0]
	var link, img *mdast.Node
	for _, child := range p.Children {
		switch child.Type {
		case mdast.Link:
			link = child
		case mdast.Image:
			img = child
		}
	}
	if link == nil || link.URL != "https://example.com" || link.TextContent() != "site" {
		t.Errorf("link = %+v, want site link", link)
	}
	if img == nil || img.URL != "https://example.com/i.png" || img.Alt != "pic" {
		t.Errorf("image = %+v, want pic image", img)
	}
}
