package document

// FindByKey возвращает узел поддерева с данным ключом или nil.
func (n *Node) FindByKey(key string) *Node {
	if n == nil {
		return nil
	}
	if n.Key == key {
		return n
	}
	for _, child := range n.Nodes {
		if found := child.FindByKey(key); found != nil {
			return found
		}
	}
	return nil
}

// ParentOf возвращает родителя узла с данным ключом и его индекс среди детей.
func (n *Node) ParentOf(key string) (*Node, int) {
	for i, child := range n.Nodes {
		if child.Key == key {
			return n, i
		}
	}
	for _, child := range n.Nodes {
		if parent, i := child.ParentOf(key); parent != nil {
			return parent, i
		}
	}
	return nil, -1
}

// Ancestors возвращает цепочку предков узла от корня до непосредственного родителя.
func (n *Node) Ancestors(key string) []*Node {
	if n.Key == key {
		return nil
	}
	for _, child := range n.Nodes {
		if child.Key == key {
			return []*Node{n}
		}
		if chain := child.Ancestors(key); chain != nil {
			return append([]*Node{n}, chain...)
		}
	}
	return nil
}

// BlockOf возвращает ближайший блочный предок текстовой или инлайновой ноды.
// Для ключа самого блока возвращается он же.
func (n *Node) BlockOf(key string) *Node {
	target := n.FindByKey(key)
	if target == nil {
		return nil
	}
	if target.Kind == KindBlock {
		return target
	}
	chain := n.Ancestors(key)
	for i := len(chain) - 1; i >= 0; i-- {
		if chain[i].Kind == KindBlock {
			return chain[i]
		}
	}
	return nil
}

// Texts возвращает все текстовые ноды поддерева в порядке документа.
func (n *Node) Texts() []*Node {
	var out []*Node
	n.walk(func(node *Node) {
		if node.Kind == KindText {
			out = append(out, node)
		}
	})
	return out
}

// FirstText возвращает первую текстовую ноду поддерева.
func (n *Node) FirstText() *Node {
	if n == nil {
		return nil
	}
	if n.Kind == KindText {
		return n
	}
	for _, child := range n.Nodes {
		if t := child.FirstText(); t != nil {
			return t
		}
	}
	return nil
}

// LastText возвращает последнюю текстовую ноду поддерева.
func (n *Node) LastText() *Node {
	if n == nil {
		return nil
	}
	if n.Kind == KindText {
		return n
	}
	for i := len(n.Nodes) - 1; i >= 0; i-- {
		if t := n.Nodes[i].LastText(); t != nil {
			return t
		}
	}
	return nil
}

func (n *Node) walk(f func(*Node)) {
	f(n)
	for _, child := range n.Nodes {
		child.walk(f)
	}
}

// ReplaceByKey возвращает копию дерева, в которой узел с данным ключом заменен
// результатом fn. Путь до узла пересобирается, остальные поддеревья разделяются.
// fn получает исходный узел и обязан вернуть его копию, не мутируя аргумент.
// fn может вернуть nil - тогда узел удаляется из родителя.
func (n *Node) ReplaceByKey(key string, fn func(*Node) *Node) (*Node, bool) {
	if n.Key == key {
		return fn(n), true
	}
	for i, child := range n.Nodes {
		replaced, ok := child.ReplaceByKey(key, fn)
		if !ok {
			continue
		}
		nodes := make([]*Node, 0, len(n.Nodes))
		nodes = append(nodes, n.Nodes[:i]...)
		if replaced != nil {
			nodes = append(nodes, replaced)
		}
		nodes = append(nodes, n.Nodes[i+1:]...)
		return n.WithNodes(nodes), true
	}
	return nil, false
}

// SpliceByKey возвращает копию дерева, в которой узел с данным ключом заменен
// последовательностью узлов (unwrap, split).
func (n *Node) SpliceByKey(key string, replacement ...*Node) (*Node, bool) {
	for i, child := range n.Nodes {
		if child.Key == key {
			nodes := make([]*Node, 0, len(n.Nodes)+len(replacement)-1)
			nodes = append(nodes, n.Nodes[:i]...)
			nodes = append(nodes, replacement...)
			nodes = append(nodes, n.Nodes[i+1:]...)
			return n.WithNodes(nodes), true
		}
	}
	for i, child := range n.Nodes {
		spliced, ok := child.SpliceByKey(key, replacement...)
		if !ok {
			continue
		}
		nodes := make([]*Node, 0, len(n.Nodes))
		nodes = append(nodes, n.Nodes[:i]...)
		nodes = append(nodes, spliced)
		nodes = append(nodes, n.Nodes[i+1:]...)
		return n.WithNodes(nodes), true
	}
	return nil, false
}
