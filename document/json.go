package document

import (
	"encoding/json"
	"io"
	"sort"
)

// rawNode - сериализованное представление узла дерева документа.
// Формат совместим с raw-деревом редактора: marks передаются объектами {"type": ...}.
type rawNode struct {
	Kind   Kind           `json:"kind"`
	Type   NodeType       `json:"type,omitempty"`
	Data   map[string]any `json:"data,omitempty"`
	Nodes  []rawNode      `json:"nodes,omitempty"`
	Ranges []rawRange     `json:"ranges,omitempty"`
}

type rawRange struct {
	Text  string    `json:"text"`
	Marks []rawMark `json:"marks,omitempty"`
}

type rawMark struct {
	Type Mark `json:"type"`
}

// MarshalJSON сериализует узел в raw-дерево. Ключи узлов не сериализуются:
// при десериализации они генерируются заново.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(toRaw(n))
}

// UnmarshalJSON десериализует raw-дерево в узел документа.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw rawNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*n = *fromRaw(raw)
	return nil
}

// Parse читает raw-дерево документа из r.
func Parse(r io.Reader) (*Node, error) {
	var raw rawNode
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, err
	}
	return fromRaw(raw), nil
}

func toRaw(n *Node) rawNode {
	raw := rawNode{
		Kind: n.Kind,
		Type: n.Type,
		Data: n.Data,
	}
	if n.Kind == KindText {
		raw.Ranges = make([]rawRange, 0, len(n.Ranges))
		for _, r := range n.Ranges {
			rr := rawRange{Text: r.Text}
			if len(r.Marks) > 0 {
				marks := make([]Mark, 0, len(r.Marks))
				for m := range r.Marks {
					marks = append(marks, m)
				}
				// Стабильный порядок marks для детерминированного вывода.
				sort.Slice(marks, func(i, j int) bool { return marks[i] < marks[j] })
				for _, m := range marks {
					rr.Marks = append(rr.Marks, rawMark{Type: m})
				}
			}
			raw.Ranges = append(raw.Ranges, rr)
		}
		return raw
	}
	raw.Nodes = make([]rawNode, 0, len(n.Nodes))
	for _, child := range n.Nodes {
		raw.Nodes = append(raw.Nodes, toRaw(child))
	}
	return raw
}

func fromRaw(raw rawNode) *Node {
	n := &Node{
		Key:  NewKey(),
		Kind: raw.Kind,
		Type: raw.Type,
		Data: raw.Data,
	}
	if raw.Kind == KindText {
		ranges := make([]Range, 0, len(raw.Ranges))
		for _, rr := range raw.Ranges {
			r := Range{Text: rr.Text}
			for _, m := range rr.Marks {
				r.Marks = r.Marks.Add(m.Type)
			}
			ranges = append(ranges, r)
		}
		if len(ranges) == 0 {
			ranges = []Range{{}}
		}
		n.Ranges = ranges
		return n
	}
	for _, child := range raw.Nodes {
		n.Nodes = append(n.Nodes, fromRaw(child))
	}
	return n
}
