package document

import "github.com/gofrs/uuid"

// KeyGenerator - функция генерации ключей узлов, по умолчанию uuid v4.
// Переопределяется в тестах для детерминированных ключей.
var KeyGenerator = func() string {
	return uuid.Must(uuid.NewV4()).String()
}

// NewKey возвращает новый уникальный ключ узла.
func NewKey() string {
	return KeyGenerator()
}

// WithFreshKeys возвращает глубокую копию поддерева с новыми ключами.
// Применяется к фрагментам перед вставкой, чтобы исключить коллизии ключей.
func (n *Node) WithFreshKeys() *Node {
	cp := n.shallow()
	cp.Key = NewKey()
	if len(n.Nodes) > 0 {
		nodes := make([]*Node, len(n.Nodes))
		for i, child := range n.Nodes {
			nodes[i] = child.WithFreshKeys()
		}
		cp.Nodes = nodes
	}
	return cp
}

// WithFreshKeys возвращает копию фрагмента с новыми ключами всех узлов.
func (f Fragment) WithFreshKeys() Fragment {
	out := make(Fragment, len(f))
	for i, n := range f {
		out[i] = n.WithFreshKeys()
	}
	return out
}
