package document

// Point - позиция в документе: ключ текстовой ноды и смещение в ее тексте.
type Point struct {
	Key    string
	Offset int
}

// Selection - выделение между двумя точками. Anchor - неподвижный конец,
// Focus - подвижный. При Anchor == Focus выделение схлопнуто в курсор.
type Selection struct {
	Anchor Point
	Focus  Point
}

// Collapsed создает схлопнутое выделение (курсор).
func Collapsed(key string, offset int) Selection {
	p := Point{Key: key, Offset: offset}
	return Selection{Anchor: p, Focus: p}
}

// IsCollapsed сообщает, схлопнуто ли выделение.
func (s Selection) IsCollapsed() bool {
	return s.Anchor == s.Focus
}

// Ordered возвращает точки выделения в порядке документа.
func (s Selection) Ordered(doc *Node) (start, end Point) {
	if s.Anchor.Key == s.Focus.Key {
		if s.Anchor.Offset <= s.Focus.Offset {
			return s.Anchor, s.Focus
		}
		return s.Focus, s.Anchor
	}
	for _, t := range doc.Texts() {
		switch t.Key {
		case s.Anchor.Key:
			return s.Anchor, s.Focus
		case s.Focus.Key:
			return s.Focus, s.Anchor
		}
	}
	return s.Anchor, s.Focus
}

// StartOf возвращает выделение, схлопнутое в начало узла.
func StartOf(n *Node) Selection {
	if t := n.FirstText(); t != nil {
		return Collapsed(t.Key, 0)
	}
	return Collapsed(n.Key, 0)
}

// EndOf возвращает выделение, схлопнутое в конец узла.
func EndOf(n *Node) Selection {
	if t := n.LastText(); t != nil {
		return Collapsed(t.Key, len(t.Text()))
	}
	return Collapsed(n.Key, 0)
}
