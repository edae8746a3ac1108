package schema

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aisa-it/aiplan-editor/document"
)

func TestBlockTag(t *testing.T) {
	tests := []struct {
		tag  string
		want document.NodeType
	}{
		{"p", document.Paragraph},
		{"h3", document.HeadingThree},
		{"blockquote", document.Quote},
		{"pre", document.Code},
		{"ol", document.NumberedList},
		{"th", document.TableCell},
		{"hr", document.ThematicBreak},
	}
	for _, tt := range tests {
		got, ok := BlockTag(tt.tag)
		require.True(t, ok, "tag %q not mapped", tt.tag)
		assert.Equal(t, tt.want, got, "tag %q", tt.tag)
	}
	_, ok := BlockTag("div")
	assert.False(t, ok)
}

func TestMarkTag(t *testing.T) {
	tests := []struct {
		tag  string
		want document.Mark
	}{
		{"strong", document.Bold},
		{"b", document.Bold},
		{"em", document.Italic},
		{"s", document.Strikethrough},
		{"del", document.Strikethrough},
		{"u", document.Underline},
		{"code", document.CodeMark},
	}
	for _, tt := range tests {
		got, ok := MarkTag(tt.tag)
		require.True(t, ok, "tag %q not mapped", tt.tag)
		assert.Equal(t, tt.want, got, "tag %q", tt.tag)
	}
	_, ok := MarkTag("span")
	assert.False(t, ok)
}

func TestNormalize(t *testing.T) {
	doc, changed := Normalize(nil)
	require.True(t, changed)
	require.Len(t, doc.Nodes, 1)
	assert.Equal(t, document.Paragraph, doc.Nodes[0].Type)

	// Идемпотентность: повторная нормализация ничего не меняет.
	same, changed := Normalize(doc)
	assert.False(t, changed)
	assert.Same(t, doc, same)

	empty := document.NewDocument()
	doc, changed = Normalize(empty)
	require.True(t, changed)
	require.Len(t, doc.Nodes, 1)
	assert.Equal(t, document.Paragraph, doc.Nodes[0].Type)
}

func TestRegistry(t *testing.T) {
	youtube := Plugin{
		ID:    "youtube",
		Label: "Youtube",
		Fields: []Field{
			{Name: "id"},
			{Name: "autoplay", Default: false},
		},
		ToBlock: func(data map[string]any) string {
			return fmt.Sprintf("{{< youtube %v >}}", data["id"])
		},
	}

	r, err := NewRegistry(youtube)
	require.NoError(t, err)

	p, ok := r.Get("youtube")
	require.True(t, ok)
	assert.Equal(t, document.NodeType("plugin_youtube"), p.Type())

	p, ok = r.Lookup(document.NodeType("plugin_youtube"))
	require.True(t, ok)
	assert.Equal(t, "youtube", p.ID)

	_, ok = r.Lookup(document.Paragraph)
	assert.False(t, ok)

	block, err := r.Block("youtube", map[string]any{"id": "abc"})
	require.NoError(t, err)
	assert.True(t, block.Void())
	assert.Equal(t, "youtube", block.Attr("shortcode"))
	assert.Equal(t, "abc", block.Attr("id"))
	assert.Equal(t, false, block.Data["autoplay"])

	line, err := r.Render(block)
	require.NoError(t, err)
	assert.Equal(t, "{{< youtube abc >}}", line)

	_, err = r.Block("vimeo", nil)
	assert.ErrorIs(t, err, ErrUnknownPlugin)
}

func TestRegisterValidation(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	// Дескриптор без сериализатора отклоняется.
	err = r.Register(Plugin{ID: "broken"})
	assert.Error(t, err)

	// Пустой id отклоняется.
	err = r.Register(Plugin{ToBlock: func(map[string]any) string { return "" }})
	assert.Error(t, err)

	// Id ограничен буквами, цифрами и дефисом: пробелы и знаки
	// препинания отклоняются даже при наличии дефиса.
	err = r.Register(Plugin{ID: "bad id !!! -", ToBlock: func(map[string]any) string { return "" }})
	assert.Error(t, err)
	err = r.Register(Plugin{ID: "my-embed", ToBlock: func(map[string]any) string { return "" }})
	assert.NoError(t, err)

	// Повторная регистрация заменяет дескриптор, сохраняя порядок.
	toBlock := func(map[string]any) string { return "" }
	require.NoError(t, r.Register(Plugin{ID: "first", ToBlock: toBlock}))
	require.NoError(t, r.Register(Plugin{ID: "second", ToBlock: toBlock}))
	require.NoError(t, r.Register(Plugin{ID: "first", Label: "First", ToBlock: toBlock}))

	plugins := r.Plugins()
	require.Len(t, plugins, 3)
	assert.Equal(t, "my-embed", plugins[0].ID)
	assert.Equal(t, "first", plugins[1].ID)
	assert.Equal(t, "First", plugins[1].Label)
	assert.Equal(t, "second", plugins[2].ID)
}
