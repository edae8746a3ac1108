package convert

import (
	"reflect"
	"testing"

	"github.com/aisa-it/aiplan-editor/document"
	"github.com/aisa-it/aiplan-editor/mdast"
	"github.com/aisa-it/aiplan-editor/schema"
)

func TestMarkdownToDocumentParagraph(t *testing.T) {
	tree := mdast.NewRoot(mdast.NewParagraph(mdast.NewText("hello")))
	doc := MarkdownToDocument(tree)

	if len(doc.Nodes) != 1 {
		t.Fatalf("blocks count = %d, want 1", len(doc.Nodes))
	}
	block := doc.Nodes[0]
	if block.Kind != document.KindBlock || block.Type != document.Paragraph {
		t.Fatalf("block = (%s, %s), want (block, paragraph)", block.Kind, block.Type)
	}
	if got := block.Text(); got != "hello" {
		t.Errorf("text = %q, want %q", got, "hello")
	}
}

func TestMarkdownToDocumentEmpty(t *testing.T) {
	for _, tree := range []*mdast.Node{nil, mdast.NewRoot()} {
		doc := MarkdownToDocument(tree)
		if len(doc.Nodes) != 1 {
			t.Fatalf("blocks count = %d, want 1", len(doc.Nodes))
		}
		if doc.Nodes[0].Type != document.Paragraph {
			t.Errorf("block type = %s, want paragraph", doc.Nodes[0].Type)
		}
	}
}

func TestMarkdownToDocumentMarks(t *testing.T) {
	tree := mdast.NewRoot(mdast.NewParagraph(
		mdast.NewText("a "),
		(&mdast.Node{Type: mdast.Strong}).Append(
			(&mdast.Node{Type: mdast.Emphasis}).Append(mdast.NewText("both")),
		),
		&mdast.Node{Type: mdast.InlineCode, Value: "x"},
	))
	doc := MarkdownToDocument(tree)

	node := doc.FirstText()
	if len(node.Ranges) != 3 {
		t.Fatalf("ranges count = %d, want 3 (%v)", len(node.Ranges), node.Ranges)
	}
	if node.Ranges[0].Text != "a " || node.Ranges[0].Marks != nil {
		t.Errorf("range 0 = %v, want plain %q", node.Ranges[0], "a ")
	}
	if !node.Ranges[1].Marks.Has(document.Bold) || !node.Ranges[1].Marks.Has(document.Italic) {
		t.Errorf("range 1 marks = %v, want bold+italic", node.Ranges[1].Marks)
	}
	if node.Ranges[2].Text != "x" || !node.Ranges[2].Marks.Has(document.CodeMark) {
		t.Errorf("range 2 = %v, want code %q", node.Ranges[2], "x")
	}
}

func TestMarkdownToDocumentOrderedListStart(t *testing.T) {
	tree := mdast.NewRoot(
		(&mdast.Node{Type: mdast.List, Ordered: true, Start: 3}).Append(
			(&mdast.Node{Type: mdast.ListItem}).Append(mdast.NewParagraph(mdast.NewText("a"))),
			(&mdast.Node{Type: mdast.ListItem}).Append(mdast.NewParagraph(mdast.NewText("b"))),
		),
	)
	doc := MarkdownToDocument(tree)

	list := doc.Nodes[0]
	if list.Type != document.NumberedList {
		t.Fatalf("block type = %s, want numbered-list", list.Type)
	}
	if got := list.AttrInt("start"); got != 3 {
		t.Errorf("start = %d, want 3", got)
	}
	if len(list.Nodes) != 2 || list.Nodes[0].Type != document.ListItem {
		t.Fatalf("items = %v, want 2 list-item blocks", list.Nodes)
	}
}

func TestMarkdownToDocumentUnknownTypeDegrades(t *testing.T) {
	tree := mdast.NewRoot(
		&mdast.Node{Type: "footnoteDefinition", Children: []*mdast.Node{mdast.NewText("note")}},
		&mdast.Node{Type: "definition"},
	)
	doc := MarkdownToDocument(tree)

	// Узел с текстом деградирует до параграфа, пустой отбрасывается.
	if len(doc.Nodes) != 1 {
		t.Fatalf("blocks count = %d, want 1", len(doc.Nodes))
	}
	if got := doc.Nodes[0].Text(); got != "note" {
		t.Errorf("text = %q, want %q", got, "note")
	}
}

// TestRoundtrip проверяет закон mdast -> документ -> mdast на дереве со
// всеми структурно представимыми типами узлов.
func TestRoundtrip(t *testing.T) {
	tree := mdast.NewRoot(
		mdast.NewHeading(2, mdast.NewText("Title")),
		mdast.NewParagraph(
			mdast.NewText("see "),
			(&mdast.Node{Type: mdast.Link, URL: "https://example.com"}).Append(mdast.NewText("site")),
			mdast.NewText(" and "),
			(&mdast.Node{Type: mdast.Strong}).Append(
				(&mdast.Node{Type: mdast.Emphasis}).Append(mdast.NewText("both")),
			),
		),
		(&mdast.Node{Type: mdast.Blockquote}).Append(
			mdast.NewParagraph(mdast.NewText("quoted")),
		),
		(&mdast.Node{Type: mdast.List, Ordered: true, Start: 3}).Append(
			(&mdast.Node{Type: mdast.ListItem}).Append(mdast.NewParagraph(mdast.NewText("one"))),
			(&mdast.Node{Type: mdast.ListItem}).Append(mdast.NewParagraph(mdast.NewText("two"))),
		),
		&mdast.Node{Type: mdast.Code, Value: "fmt.Println()\n", Lang: "go"},
		(&mdast.Node{Type: mdast.Table}).Append(
			(&mdast.Node{Type: mdast.TableRow}).Append(
				(&mdast.Node{Type: mdast.TableCell}).Append(mdast.NewText("a")),
				(&mdast.Node{Type: mdast.TableCell}).Append(mdast.NewText("b")),
			),
			(&mdast.Node{Type: mdast.TableRow}).Append(
				(&mdast.Node{Type: mdast.TableCell}).Append(mdast.NewText("c")),
				(&mdast.Node{Type: mdast.TableCell}).Append(mdast.NewText("d")),
			),
		),
		mdast.NewParagraph(&mdast.Node{Type: mdast.Image, URL: "https://example.com/i.png", Alt: "pic"}),
		&mdast.Node{Type: mdast.ThematicBreak},
		mdast.NewParagraph((&mdast.Node{Type: mdast.Delete}).Append(mdast.NewText("gone"))),
	)

	back := DocumentToMarkdown(MarkdownToDocument(tree), nil)
	if !reflect.DeepEqual(tree, back) {
		t.Errorf("roundtrip changed tree:\n in: %+v\nout: %+v", tree, back)
	}
}

func TestDocumentToMarkdownPluginBlock(t *testing.T) {
	reg, err := schema.NewRegistry(schema.Plugin{
		ID:      "youtube",
		ToBlock: func(data map[string]any) string { return "{{< youtube " + data["id"].(string) + " >}}" },
	})
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	block, err := reg.Block("youtube", map[string]any{"id": "abc"})
	if err != nil {
		t.Fatalf("Block failed: %v", err)
	}
	doc := document.NewDocument(block)

	tree := DocumentToMarkdown(doc, reg)
	if len(tree.Children) != 1 {
		t.Fatalf("children count = %d, want 1", len(tree.Children))
	}
	p := tree.Children[0]
	if p.Type != mdast.Paragraph {
		t.Fatalf("node type = %s, want paragraph", p.Type)
	}
	if got := p.TextContent(); got != "{{< youtube abc >}}" {
		t.Errorf("text = %q, want shortcode line", got)
	}

	// Блок незарегистрированного плагина отбрасывается, а не ломает сериализацию.
	tree = DocumentToMarkdown(doc, nil)
	if len(tree.Children) != 0 {
		t.Errorf("children count = %d, want 0", len(tree.Children))
	}
}

func TestDocumentToMarkdownUnderlineIsLost(t *testing.T) {
	text := document.NewTextRanges(document.Range{Text: "u", Marks: document.Marks(document.Underline)})
	doc := document.NewDocument(document.NewBlock(document.Paragraph, text))

	tree := DocumentToMarkdown(doc, nil)
	got := tree.Children[0].Children[0]
	if got.Type != mdast.Text || got.Value != "u" {
		t.Errorf("node = %+v, want plain text %q", got, "u")
	}
}
