// Пакет document описывает редактируемое дерево rich-text документа.
// Узлы неизменяемы после публикации: все трансформации пересобирают путь
// до измененного узла и разделяют неизмененные поддеревья.
package document

import "strings"

// Kind определяет разновидность узла документа.
type Kind string

const (
	KindDocument Kind = "document"
	KindBlock    Kind = "block"
	KindInline   Kind = "inline"
	KindText     Kind = "text"
)

// NodeType определяет тип блочного или инлайнового узла.
type NodeType string

const (
	Paragraph     NodeType = "paragraph"
	HeadingOne    NodeType = "heading-one"
	HeadingTwo    NodeType = "heading-two"
	HeadingThree  NodeType = "heading-three"
	HeadingFour   NodeType = "heading-four"
	HeadingFive   NodeType = "heading-five"
	HeadingSix    NodeType = "heading-six"
	ListItem      NodeType = "list-item"
	BulletedList  NodeType = "bulleted-list"
	NumberedList  NodeType = "numbered-list"
	Quote         NodeType = "quote"
	Code          NodeType = "code"
	Table         NodeType = "table"
	TableRow      NodeType = "table-row"
	TableCell     NodeType = "table-cell"
	Image         NodeType = "image"
	Link          NodeType = "link"
	ThematicBreak NodeType = "thematic-break"
)

// PluginPrefix - префикс типов блоков, зарегистрированных внешними плагинами (shortcode).
const PluginPrefix = "plugin_"

// Void сообщает, является ли тип блока void-блоком: без редактируемого текста внутри.
func (t NodeType) Void() bool {
	switch t {
	case Image, ThematicBreak:
		return true
	}
	return strings.HasPrefix(string(t), PluginPrefix)
}

// Plugin сообщает, принадлежит ли тип блока плагину.
func (t NodeType) Plugin() bool {
	return strings.HasPrefix(string(t), PluginPrefix)
}

// Headings сопоставляет уровень заголовка (1-6) с типом блока.
var Headings = []NodeType{HeadingOne, HeadingTwo, HeadingThree, HeadingFour, HeadingFive, HeadingSix}

// Mark определяет тип форматирования текста.
type Mark string

const (
	Bold          Mark = "bold"
	Italic        Mark = "italic"
	Underline     Mark = "underline"
	Strikethrough Mark = "strikethrough"
	CodeMark      Mark = "code"
)

// MarkSet - множество marks, применяемых к диапазону текста.
// Значения трактуются как неизменяемые: модифицирующие методы возвращают копию.
type MarkSet map[Mark]struct{}

// Marks создает множество из перечисленных marks.
func Marks(marks ...Mark) MarkSet {
	if len(marks) == 0 {
		return nil
	}
	set := make(MarkSet, len(marks))
	for _, m := range marks {
		set[m] = struct{}{}
	}
	return set
}

// Has проверяет наличие mark в множестве.
func (s MarkSet) Has(m Mark) bool {
	_, ok := s[m]
	return ok
}

// Add возвращает копию множества с добавленным mark.
func (s MarkSet) Add(m Mark) MarkSet {
	out := make(MarkSet, len(s)+1)
	for k := range s {
		out[k] = struct{}{}
	}
	out[m] = struct{}{}
	return out
}

// Remove возвращает копию множества без mark. Пустое множество схлопывается в nil.
func (s MarkSet) Remove(m Mark) MarkSet {
	if !s.Has(m) {
		return s
	}
	if len(s) == 1 {
		return nil
	}
	out := make(MarkSet, len(s)-1)
	for k := range s {
		if k != m {
			out[k] = struct{}{}
		}
	}
	return out
}

// Equal сравнивает два множества marks.
func (s MarkSet) Equal(other MarkSet) bool {
	if len(s) != len(other) {
		return false
	}
	for k := range s {
		if !other.Has(k) {
			return false
		}
	}
	return true
}

// Range - пара (текст, множество marks) внутри текстовой ноды.
type Range struct {
	Text  string
	Marks MarkSet
}

// Node представляет узел дерева документа.
// Узлы kind=text хранят Ranges, остальные - Nodes и произвольные атрибуты в Data.
type Node struct {
	Key    string
	Kind   Kind
	Type   NodeType
	Data   map[string]any
	Nodes  []*Node
	Ranges []Range
}

// Fragment - последовательность блоков без охватывающего документа.
// Используется при вставке из буфера обмена.
type Fragment []*Node

// NewDocument создает корневой узел документа с переданными блоками.
func NewDocument(blocks ...*Node) *Node {
	return &Node{Key: NewKey(), Kind: KindDocument, Nodes: blocks}
}

// NewBlock создает блочный узел. Блок без детей получает пустую текстовую
// ноду: void-блокам она нужна для адресации курсора рядом с ними.
func NewBlock(t NodeType, children ...*Node) *Node {
	if len(children) == 0 {
		children = []*Node{NewText("")}
	}
	return &Node{Key: NewKey(), Kind: KindBlock, Type: t, Nodes: children}
}

// NewBlockData создает блочный узел с атрибутами.
func NewBlockData(t NodeType, data map[string]any, children ...*Node) *Node {
	b := NewBlock(t, children...)
	b.Data = data
	return b
}

// NewInline создает инлайновый узел (link, image).
func NewInline(t NodeType, data map[string]any, children ...*Node) *Node {
	if len(children) == 0 {
		children = []*Node{NewText("")}
	}
	return &Node{Key: NewKey(), Kind: KindInline, Type: t, Data: data, Nodes: children}
}

// NewText создает текстовую ноду с одним диапазоном без форматирования.
func NewText(text string) *Node {
	return &Node{Key: NewKey(), Kind: KindText, Ranges: []Range{{Text: text}}}
}

// NewTextRanges создает текстовую ноду из готовых диапазонов.
func NewTextRanges(ranges ...Range) *Node {
	if len(ranges) == 0 {
		ranges = []Range{{}}
	}
	return &Node{Key: NewKey(), Kind: KindText, Ranges: ranges}
}

// Void сообщает, является ли узел void-блоком.
func (n *Node) Void() bool {
	return n.Kind != KindText && n.Type.Void()
}

// Text возвращает конкатенацию текста всех диапазонов поддерева.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	if n.Kind == KindText {
		var b strings.Builder
		for _, r := range n.Ranges {
			b.WriteString(r.Text)
		}
		return b.String()
	}
	var b strings.Builder
	for _, child := range n.Nodes {
		b.WriteString(child.Text())
	}
	return b.String()
}

// Attr безопасно извлекает строковый атрибут из Data.
func (n *Node) Attr(key string) string {
	if n.Data == nil {
		return ""
	}
	if s, ok := n.Data[key].(string); ok {
		return s
	}
	return ""
}

// AttrInt безопасно извлекает целочисленный атрибут из Data.
// JSON-декодирование дает float64, поэтому оба представления поддерживаются.
func (n *Node) AttrInt(key string) int {
	if n.Data == nil {
		return 0
	}
	switch v := n.Data[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

// shallow возвращает поверхностную копию узла.
// Слайсы и Data разделяются с оригиналом: вызывающий обязан заменять их целиком.
func (n *Node) shallow() *Node {
	cp := *n
	return &cp
}

// WithNodes возвращает копию узла с новым списком детей.
func (n *Node) WithNodes(nodes []*Node) *Node {
	cp := n.shallow()
	cp.Nodes = nodes
	return cp
}

// WithRanges возвращает копию текстовой ноды с новыми диапазонами.
func (n *Node) WithRanges(ranges []Range) *Node {
	cp := n.shallow()
	if len(ranges) == 0 {
		ranges = []Range{{}}
	}
	cp.Ranges = ranges
	return cp
}

// WithType возвращает копию узла с новым типом.
func (n *Node) WithType(t NodeType) *Node {
	cp := n.shallow()
	cp.Type = t
	return cp
}
