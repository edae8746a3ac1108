package schema

import "github.com/aisa-it/aiplan-editor/document"

// Normalize приводит документ к валидному состоянию: документ без единого
// блока получает пустой параграф в позиции 0. Правило идемпотентно и
// выполняется после каждой трансформации.
func Normalize(doc *document.Node) (*document.Node, bool) {
	if doc == nil {
		return document.NewDocument(document.NewBlock(document.Paragraph)), true
	}
	for _, child := range doc.Nodes {
		if child.Kind == document.KindBlock {
			return doc, false
		}
	}
	nodes := append([]*document.Node{document.NewBlock(document.Paragraph)}, doc.Nodes...)
	return doc.WithNodes(nodes), true
}
