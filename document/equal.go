package document

import "reflect"

// ContentEqual сравнивает два поддерева по содержимому, игнорируя ключи.
// Используется для проверки законов undo/redo: ключи узлов стабильны в
// рамках одной истории, но не между независимо построенными деревьями.
func ContentEqual(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Type != b.Type {
		return false
	}
	if !reflect.DeepEqual(a.Data, b.Data) {
		return false
	}
	if a.Kind == KindText {
		if len(a.Ranges) != len(b.Ranges) {
			return false
		}
		for i := range a.Ranges {
			if a.Ranges[i].Text != b.Ranges[i].Text || !a.Ranges[i].Marks.Equal(b.Ranges[i].Marks) {
				return false
			}
		}
		return true
	}
	if len(a.Nodes) != len(b.Nodes) {
		return false
	}
	for i := range a.Nodes {
		if !ContentEqual(a.Nodes[i], b.Nodes[i]) {
			return false
		}
	}
	return true
}
