package convert_test

import (
	"fmt"

	"github.com/aisa-it/aiplan-editor/convert"
)

// ExampleParseMarkdown демонстрирует путь от Markdown-текста до
// редактируемого дерева документа.
func ExampleParseMarkdown() {
	src := "# Заголовок\n\n**Привет** мир\n"

	// Разбор текста в дерево mdast
	tree, err := convert.ParseMarkdown([]byte(src))
	if err != nil {
		fmt.Printf("Ошибка разбора: %v\n", err)
		return
	}

	// Преобразование в дерево документа
	doc := convert.MarkdownToDocument(tree)

	// Вывод количества блоков
	fmt.Printf("Документ содержит %d блоков\n", len(doc.Nodes))

	// Output:
	// Документ содержит 2 блоков
}

// ExampleRenderMarkdown демонстрирует обратную сериализацию документа в текст.
func ExampleRenderMarkdown() {
	tree, err := convert.ParseMarkdown([]byte("hello\n"))
	if err != nil {
		fmt.Printf("Ошибка разбора: %v\n", err)
		return
	}

	out, err := convert.RenderMarkdown(convert.DocumentToMarkdown(convert.MarkdownToDocument(tree), nil))
	if err != nil {
		fmt.Printf("Ошибка сериализации: %v\n", err)
		return
	}
	fmt.Print(out)

	// Output:
	// hello
}
