package mdast

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestJSONRoundtrip(t *testing.T) {
	tree := NewRoot(
		NewHeading(2, NewText("Title")),
		NewParagraph(
			NewText("see "),
			(&Node{Type: Link, URL: "https://example.com", Title: "ex"}).Append(NewText("link")),
		),
		(&Node{Type: List, Ordered: true, Start: 3}).Append(
			(&Node{Type: ListItem}).Append(NewParagraph(NewText("item"))),
		),
		&Node{Type: Code, Value: "fmt.Println()\n", Lang: "go"},
	)

	data, err := json.Marshal(tree)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var parsed Node
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(tree, &parsed) {
		t.Errorf("roundtrip changed tree:\n in: %+v\nout: %+v", tree, &parsed)
	}
}

func TestTextContent(t *testing.T) {
	tree := NewParagraph(
		NewText("a "),
		(&Node{Type: Strong}).Append(NewText("b")),
		&Node{Type: InlineCode, Value: " c"},
	)
	if got := tree.TextContent(); got != "a b c" {
		t.Errorf("TextContent = %q, want %q", got, "a b c")
	}
}
