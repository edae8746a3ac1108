package transform

import (
	"fmt"

	"github.com/aisa-it/aiplan-editor/document"
)

// textNodeAt возвращает текстовую ноду по точке выделения с проверкой координат.
func textNodeAt(doc *document.Node, p document.Point) (*document.Node, error) {
	node := doc.FindByKey(p.Key)
	if node == nil {
		return nil, fmt.Errorf("node %q not found: %w", p.Key, ErrStructural)
	}
	if node.Kind != document.KindText {
		return nil, fmt.Errorf("node %q is not a text node: %w", p.Key, ErrStructural)
	}
	if p.Offset < 0 || p.Offset > len(node.Text()) {
		return nil, fmt.Errorf("offset %d out of range for node %q: %w", p.Offset, p.Key, ErrStructural)
	}
	return node, nil
}

// leafBlocks возвращает блоки, непосредственно содержащие текст или инлайны,
// в порядке документа.
func leafBlocks(doc *document.Node) []*document.Node {
	var out []*document.Node
	var walk func(n *document.Node)
	walk = func(n *document.Node) {
		if n.Kind == document.KindBlock {
			for _, child := range n.Nodes {
				if child.Kind == document.KindText || child.Kind == document.KindInline {
					out = append(out, n)
					return
				}
			}
		}
		for _, child := range n.Nodes {
			walk(child)
		}
	}
	walk(doc)
	return out
}

func leafBlockIndex(blocks []*document.Node, doc *document.Node, textKey string) int {
	block := doc.BlockOf(textKey)
	if block == nil {
		return -1
	}
	for i, b := range blocks {
		if b.Key == block.Key {
			return i
		}
	}
	return -1
}

func insertText(st State, text string) (State, error) {
	st, err := deleteSelection(st)
	if err != nil {
		return st, err
	}
	p := st.Selection.Anchor
	if _, err := textNodeAt(st.Document, p); err != nil {
		return st, err
	}
	if block := st.Document.BlockOf(p.Key); block != nil && block.Void() {
		return st, fmt.Errorf("insert text into void block %q: %w", block.Type, ErrStructural)
	}
	doc, _ := st.Document.ReplaceByKey(p.Key, func(n *document.Node) *document.Node {
		return n.WithRanges(document.InsertIntoRanges(n.Ranges, p.Offset, text, st.Marks))
	})
	st.Document = doc
	st.Selection = document.Collapsed(p.Key, p.Offset+len(text))
	return st, nil
}

func deleteBackward(st State, n int) (State, error) {
	if n <= 0 {
		return st, nil
	}
	if !st.Selection.IsCollapsed() {
		return deleteSelection(st)
	}
	p := st.Selection.Anchor
	if _, err := textNodeAt(st.Document, p); err != nil {
		return st, err
	}
	if p.Offset > 0 {
		from := p.Offset - n
		if from < 0 {
			from = 0
		}
		doc, _ := st.Document.ReplaceByKey(p.Key, func(node *document.Node) *document.Node {
			return node.WithRanges(document.DeleteFromRanges(node.Ranges, from, p.Offset))
		})
		st.Document = doc
		st.Selection = document.Collapsed(p.Key, from)
		return st, nil
	}

	// Курсор в начале текстовой ноды: удаляем в предыдущей текстовой ноде
	// блока, либо сливаем блок с предыдущим (backspace-merge).
	block := st.Document.BlockOf(p.Key)
	if block == nil {
		return st, fmt.Errorf("text node %q has no block: %w", p.Key, ErrStructural)
	}
	texts := block.Texts()
	for i, t := range texts {
		if t.Key == p.Key && i > 0 {
			prev := texts[i-1]
			st.Selection = document.Collapsed(prev.Key, len(prev.Text()))
			return deleteBackward(st, n)
		}
	}
	return mergeWithPrevious(st, block)
}

// mergeWithPrevious сливает блок с предыдущим leaf-блоком документа.
// Если предыдущий блок void, он удаляется целиком. Для первого блока - no-op.
func mergeWithPrevious(st State, block *document.Node) (State, error) {
	blocks := leafBlocks(st.Document)
	idx := -1
	for i, b := range blocks {
		if b.Key == block.Key {
			idx = i
			break
		}
	}
	if idx <= 0 {
		return st, nil
	}
	prev := blocks[idx-1]
	if prev.Void() {
		doc, _ := st.Document.ReplaceByKey(prev.Key, func(*document.Node) *document.Node { return nil })
		st.Document = doc
		return st, nil
	}

	prevLast := prev.LastText()
	caret := document.Collapsed(prevLast.Key, len(prevLast.Text()))

	merged := block.Nodes
	doc, _ := st.Document.ReplaceByKey(block.Key, func(*document.Node) *document.Node { return nil })
	doc, _ = doc.ReplaceByKey(prev.Key, func(n *document.Node) *document.Node {
		nodes := append(append([]*document.Node{}, n.Nodes...), merged...)
		return n.WithNodes(nodes)
	})
	st.Document = doc
	st.Selection = caret
	return st, nil
}

func deleteForward(st State, n int) (State, error) {
	if n <= 0 {
		return st, nil
	}
	if !st.Selection.IsCollapsed() {
		return deleteSelection(st)
	}
	p := st.Selection.Anchor
	node, err := textNodeAt(st.Document, p)
	if err != nil {
		return st, err
	}
	length := len(node.Text())
	if p.Offset < length {
		to := p.Offset + n
		if to > length {
			to = length
		}
		doc, _ := st.Document.ReplaceByKey(p.Key, func(node *document.Node) *document.Node {
			return node.WithRanges(document.DeleteFromRanges(node.Ranges, p.Offset, to))
		})
		st.Document = doc
		st.Selection = document.Collapsed(p.Key, p.Offset)
		return st, nil
	}

	block := st.Document.BlockOf(p.Key)
	if block == nil {
		return st, fmt.Errorf("text node %q has no block: %w", p.Key, ErrStructural)
	}
	texts := block.Texts()
	for i, t := range texts {
		if t.Key == p.Key && i < len(texts)-1 {
			st.Selection = document.Collapsed(texts[i+1].Key, 0)
			return deleteForward(st, n)
		}
	}

	// Конец блока: сливаем следующий leaf-блок в текущий.
	blocks := leafBlocks(st.Document)
	idx := -1
	for i, b := range blocks {
		if b.Key == block.Key {
			idx = i
			break
		}
	}
	if idx < 0 || idx == len(blocks)-1 {
		return st, nil
	}
	next := blocks[idx+1]
	if next.Void() {
		doc, _ := st.Document.ReplaceByKey(next.Key, func(*document.Node) *document.Node { return nil })
		st.Document = doc
		return st, nil
	}
	nextNodes := next.Nodes
	doc, _ := st.Document.ReplaceByKey(next.Key, func(*document.Node) *document.Node { return nil })
	doc, _ = doc.ReplaceByKey(block.Key, func(b *document.Node) *document.Node {
		nodes := append(append([]*document.Node{}, b.Nodes...), nextNodes...)
		return b.WithNodes(nodes)
	})
	st.Document = doc
	return st, nil
}

// deleteSelection удаляет выделенный диапазон и схлопывает курсор в его начало.
func deleteSelection(st State) (State, error) {
	if st.Selection.IsCollapsed() {
		return st, nil
	}
	start, end := st.Selection.Ordered(st.Document)
	if _, err := textNodeAt(st.Document, start); err != nil {
		return st, err
	}
	if _, err := textNodeAt(st.Document, end); err != nil {
		return st, err
	}

	if start.Key == end.Key {
		doc, _ := st.Document.ReplaceByKey(start.Key, func(node *document.Node) *document.Node {
			return node.WithRanges(document.DeleteFromRanges(node.Ranges, start.Offset, end.Offset))
		})
		st.Document = doc
		st.Selection = document.Collapsed(start.Key, start.Offset)
		return st, nil
	}

	doc := st.Document
	inRange := false
	for _, t := range st.Document.Texts() {
		switch t.Key {
		case start.Key:
			doc, _ = doc.ReplaceByKey(t.Key, func(node *document.Node) *document.Node {
				return node.WithRanges(document.DeleteFromRanges(node.Ranges, start.Offset, len(node.Text())))
			})
			inRange = true
		case end.Key:
			doc, _ = doc.ReplaceByKey(t.Key, func(node *document.Node) *document.Node {
				return node.WithRanges(document.DeleteFromRanges(node.Ranges, 0, end.Offset))
			})
			inRange = false
		default:
			if inRange {
				doc, _ = doc.ReplaceByKey(t.Key, func(node *document.Node) *document.Node {
					return node.WithRanges(nil)
				})
			}
		}
	}
	st.Document = doc
	st.Selection = document.Collapsed(start.Key, start.Offset)

	// Выделение через границу блоков: оставшиеся половины сливаются.
	startBlock := st.Document.BlockOf(start.Key)
	endBlock := st.Document.BlockOf(end.Key)
	if startBlock != nil && endBlock != nil && startBlock.Key != endBlock.Key {
		blocks := leafBlocks(st.Document)
		si := leafBlockIndex(blocks, st.Document, start.Key)
		ei := leafBlockIndex(blocks, st.Document, end.Key)
		for i := si + 1; i < ei; i++ {
			st.Document, _ = st.Document.ReplaceByKey(blocks[i].Key, func(*document.Node) *document.Node { return nil })
		}
		next := st
		next.Selection = document.Collapsed(end.Key, 0)
		next, err := deleteBackward(next, 1)
		if err != nil {
			return st, err
		}
		// deleteBackward в начале блока выполняет слияние, не трогая текст.
		next.Selection = document.Collapsed(start.Key, start.Offset)
		st = next
	}
	return st, nil
}

func setBlock(st State, t document.NodeType) (State, error) {
	start, end := st.Selection.Ordered(st.Document)
	blocks := leafBlocks(st.Document)
	si := leafBlockIndex(blocks, st.Document, start.Key)
	ei := leafBlockIndex(blocks, st.Document, end.Key)
	if si < 0 || ei < 0 {
		return st, fmt.Errorf("selection outside document: %w", ErrStructural)
	}
	doc := st.Document
	for i := si; i <= ei; i++ {
		doc, _ = doc.ReplaceByKey(blocks[i].Key, func(n *document.Node) *document.Node {
			return n.WithType(t)
		})
	}
	st.Document = doc
	return st, nil
}

func wrapBlock(st State, t document.NodeType) (State, error) {
	start, end := st.Selection.Ordered(st.Document)
	startBlock := st.Document.BlockOf(start.Key)
	endBlock := st.Document.BlockOf(end.Key)
	if startBlock == nil || endBlock == nil {
		return st, fmt.Errorf("selection outside document: %w", ErrStructural)
	}
	parent, si := st.Document.ParentOf(startBlock.Key)
	if parent == nil {
		return st, fmt.Errorf("block %q has no parent: %w", startBlock.Key, ErrStructural)
	}
	ei := si
	if endBlock.Key != startBlock.Key {
		if p, i := st.Document.ParentOf(endBlock.Key); p != nil && p.Key == parent.Key {
			ei = i
		}
	}
	if ei < si {
		si, ei = ei, si
	}

	wrapped := append([]*document.Node{}, parent.Nodes[si:ei+1]...)
	wrapper := document.NewBlock(t, wrapped...)
	doc, _ := st.Document.ReplaceByKey(parent.Key, func(n *document.Node) *document.Node {
		nodes := make([]*document.Node, 0, len(n.Nodes))
		nodes = append(nodes, n.Nodes[:si]...)
		nodes = append(nodes, wrapper)
		nodes = append(nodes, n.Nodes[ei+1:]...)
		return n.WithNodes(nodes)
	})
	st.Document = doc
	return st, nil
}

func unwrapBlock(st State, t document.NodeType) (State, error) {
	start, _ := st.Selection.Ordered(st.Document)
	chain := st.Document.Ancestors(start.Key)
	for i := len(chain) - 1; i >= 0; i-- {
		if chain[i].Kind == document.KindBlock && chain[i].Type == t {
			doc, _ := st.Document.SpliceByKey(chain[i].Key, chain[i].Nodes...)
			st.Document = doc
			return st, nil
		}
	}
	return st, fmt.Errorf("unwrap: no ancestor block of type %q: %w", t, ErrStructural)
}

func toggleMark(st State, m document.Mark) (State, error) {
	if st.Selection.IsCollapsed() {
		// На схлопнутом курсоре переключаются marks будущего ввода.
		if st.Marks.Has(m) {
			st.Marks = st.Marks.Remove(m)
		} else {
			st.Marks = st.Marks.Add(m)
		}
		return st, nil
	}

	start, end := st.Selection.Ordered(st.Document)
	if _, err := textNodeAt(st.Document, start); err != nil {
		return st, err
	}
	if _, err := textNodeAt(st.Document, end); err != nil {
		return st, err
	}

	type portion struct {
		key      string
		from, to int
	}
	var portions []portion
	if start.Key == end.Key {
		portions = []portion{{start.Key, start.Offset, end.Offset}}
	} else {
		inRange := false
		for _, t := range st.Document.Texts() {
			switch t.Key {
			case start.Key:
				portions = append(portions, portion{t.Key, start.Offset, len(t.Text())})
				inRange = true
			case end.Key:
				portions = append(portions, portion{t.Key, 0, end.Offset})
				inRange = false
			default:
				if inRange {
					portions = append(portions, portion{t.Key, 0, len(t.Text())})
				}
			}
		}
	}

	all := true
	for _, p := range portions {
		node := st.Document.FindByKey(p.key)
		if !document.RangesHaveMark(node.Ranges, p.from, p.to, m) {
			all = false
			break
		}
	}

	fn := func(s document.MarkSet) document.MarkSet { return s.Add(m) }
	if all {
		fn = func(s document.MarkSet) document.MarkSet { return s.Remove(m) }
	}

	doc := st.Document
	for _, p := range portions {
		doc, _ = doc.ReplaceByKey(p.key, func(node *document.Node) *document.Node {
			return node.WithRanges(document.UpdateMarks(node.Ranges, p.from, p.to, fn))
		})
	}
	st.Document = doc
	return st, nil
}

// insertBlock вставляет блок следующим соседом текущего блока выделения.
func insertBlock(st State, block *document.Node) (State, error) {
	cur := st.Document.BlockOf(st.Selection.Anchor.Key)
	if cur == nil {
		return st, fmt.Errorf("selection outside document: %w", ErrStructural)
	}
	parent, idx := st.Document.ParentOf(cur.Key)
	if parent == nil {
		return st, fmt.Errorf("block %q has no parent: %w", cur.Key, ErrStructural)
	}
	st, err := insertNodeByKey(st, parent.Key, idx+1, block)
	if err != nil {
		return st, err
	}
	st.Selection = document.StartOf(block)
	return st, nil
}

func insertNodeByKey(st State, parentKey string, index int, node *document.Node) (State, error) {
	parent := st.Document.FindByKey(parentKey)
	if parent == nil {
		return st, fmt.Errorf("parent %q not found: %w", parentKey, ErrStructural)
	}
	if index < 0 || index > len(parent.Nodes) {
		return st, fmt.Errorf("index %d out of range for parent %q: %w", index, parentKey, ErrStructural)
	}
	doc, _ := st.Document.ReplaceByKey(parentKey, func(n *document.Node) *document.Node {
		nodes := make([]*document.Node, 0, len(n.Nodes)+1)
		nodes = append(nodes, n.Nodes[:index]...)
		nodes = append(nodes, node)
		nodes = append(nodes, n.Nodes[index:]...)
		return n.WithNodes(nodes)
	})
	st.Document = doc
	return st, nil
}

// insertFragment вклеивает фрагмент в позицию выделения. Фрагмент из одного
// блока вливается в текущий блок, многоблочный фрагмент вставляется
// последовательностью соседей после текущего блока.
func insertFragment(st State, fragment document.Fragment) (State, error) {
	if len(fragment) == 0 {
		return st, nil
	}
	st, err := deleteSelection(st)
	if err != nil {
		return st, err
	}
	fragment = fragment.WithFreshKeys()

	p := st.Selection.Anchor
	if _, err := textNodeAt(st.Document, p); err != nil {
		return st, err
	}
	cur := st.Document.BlockOf(p.Key)
	if cur == nil {
		return st, fmt.Errorf("selection outside document: %w", ErrStructural)
	}

	if len(fragment) == 1 && !fragment[0].Void() && !cur.Void() {
		return spliceInline(st, cur, p, fragment[0].Nodes)
	}

	parent, idx := st.Document.ParentOf(cur.Key)
	if parent == nil {
		return st, fmt.Errorf("block %q has no parent: %w", cur.Key, ErrStructural)
	}
	for i, block := range fragment {
		var err error
		st, err = insertNodeByKey(st, parent.Key, idx+1+i, block)
		if err != nil {
			return st, err
		}
	}
	st.Selection = document.EndOf(fragment[len(fragment)-1])
	return st, nil
}

// spliceInline вставляет инлайновое содержимое внутрь блока, расщепляя
// текстовую ноду по смещению курсора.
func spliceInline(st State, block *document.Node, p document.Point, content []*document.Node) (State, error) {
	node := st.Document.FindByKey(p.Key)
	before := document.NewTextRanges(document.DeleteFromRanges(node.Ranges, p.Offset, len(node.Text()))...)
	after := document.NewTextRanges(document.DeleteFromRanges(node.Ranges, 0, p.Offset)...)

	replacement := make([]*document.Node, 0, len(content)+2)
	if before.Text() != "" || len(content) == 0 {
		replacement = append(replacement, before)
	}
	replacement = append(replacement, content...)
	if after.Text() != "" {
		replacement = append(replacement, after)
	}

	doc, ok := st.Document.SpliceByKey(p.Key, replacement...)
	if !ok {
		return st, fmt.Errorf("text node %q not found: %w", p.Key, ErrStructural)
	}
	st.Document = doc
	if last := replacement[len(replacement)-1]; last == after {
		st.Selection = document.Collapsed(after.Key, 0)
	} else {
		st.Selection = document.EndOf(replacement[len(replacement)-1])
	}
	return st, nil
}

func collapseToStartOf(st State, key string) (State, error) {
	node := st.Document.FindByKey(key)
	if node == nil {
		return st, fmt.Errorf("node %q not found: %w", key, ErrStructural)
	}
	st.Selection = document.StartOf(node)
	st.Marks = nil
	return st, nil
}

// setLink оборачивает выделенный текст в инлайновую ссылку с данным href.
// Выделение должно лежать внутри одной текстовой ноды.
func setLink(st State, href string) (State, error) {
	if st.Selection.IsCollapsed() {
		return st, fmt.Errorf("set link on collapsed selection: %w", ErrStructural)
	}
	start, end := st.Selection.Ordered(st.Document)
	if start.Key != end.Key {
		return st, fmt.Errorf("set link across text nodes: %w", ErrStructural)
	}
	node, err := textNodeAt(st.Document, end)
	if err != nil {
		return st, err
	}

	ranges := node.Ranges
	before := document.DeleteFromRanges(ranges, start.Offset, len(node.Text()))
	middle := document.DeleteFromRanges(document.DeleteFromRanges(ranges, end.Offset, len(node.Text())), 0, start.Offset)
	after := document.DeleteFromRanges(ranges, 0, end.Offset)

	link := document.NewInline(document.Link, map[string]any{"href": href}, document.NewTextRanges(middle...))
	replacement := make([]*document.Node, 0, 3)
	beforeNode := document.NewTextRanges(before...)
	afterNode := document.NewTextRanges(after...)
	if beforeNode.Text() != "" {
		replacement = append(replacement, beforeNode)
	}
	replacement = append(replacement, link)
	if afterNode.Text() != "" {
		replacement = append(replacement, afterNode)
	}

	doc, ok := st.Document.SpliceByKey(node.Key, replacement...)
	if !ok {
		return st, fmt.Errorf("text node %q not found: %w", node.Key, ErrStructural)
	}
	st.Document = doc
	st.Selection = document.EndOf(link)
	return st, nil
}
