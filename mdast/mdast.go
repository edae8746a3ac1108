// Пакет mdast описывает структурное представление Markdown-документа (mdast).
// Дерево создается заново при каждой конвертации и никогда не мутируется на месте.
package mdast

// Type определяет тип узла mdast.
type Type string

const (
	Root          Type = "root"
	Paragraph     Type = "paragraph"
	Heading       Type = "heading"
	Blockquote    Type = "blockquote"
	List          Type = "list"
	ListItem      Type = "listItem"
	Code          Type = "code"
	Table         Type = "table"
	TableRow      Type = "tableRow"
	TableCell     Type = "tableCell"
	ThematicBreak Type = "thematicBreak"
	HTML          Type = "html"

	Text       Type = "text"
	Emphasis   Type = "emphasis"
	Strong     Type = "strong"
	Delete     Type = "delete"
	InlineCode Type = "inlineCode"
	Link       Type = "link"
	Image      Type = "image"
	Break      Type = "break"
)

// Node представляет узел дерева mdast.
// Используется универсальная структура с опциональными полями для поддержки всех типов нод.
// JSON-теги соответствуют соглашениям unist, поэтому деревья совместимы с remark-инструментами.
type Node struct {
	Type     Type    `json:"type"`
	Children []*Node `json:"children,omitempty"`

	// Value хранит содержимое листовых нод: text, code, inlineCode, html.
	Value string `json:"value,omitempty"`

	// Depth - уровень заголовка (1-6).
	Depth int `json:"depth,omitempty"`

	// Атрибуты списка.
	Ordered bool `json:"ordered,omitempty"`
	Start   int  `json:"start,omitempty"`

	// Lang - язык блока кода.
	Lang string `json:"lang,omitempty"`

	// Атрибуты ссылок и изображений.
	URL   string `json:"url,omitempty"`
	Alt   string `json:"alt,omitempty"`
	Title string `json:"title,omitempty"`
}

// NewRoot создает корневой узел документа.
func NewRoot(children ...*Node) *Node {
	return &Node{Type: Root, Children: children}
}

// NewText создает текстовую ноду.
func NewText(value string) *Node {
	return &Node{Type: Text, Value: value}
}

// NewParagraph создает параграф с переданным содержимым.
func NewParagraph(children ...*Node) *Node {
	return &Node{Type: Paragraph, Children: children}
}

// NewHeading создает заголовок уровня depth.
func NewHeading(depth int, children ...*Node) *Node {
	return &Node{Type: Heading, Depth: depth, Children: children}
}

// Append добавляет дочерние узлы и возвращает сам узел.
func (n *Node) Append(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// TextContent возвращает конкатенацию значений всех текстовых нод поддерева.
func (n *Node) TextContent() string {
	if n == nil {
		return ""
	}
	if n.Value != "" && len(n.Children) == 0 {
		return n.Value
	}
	var out string
	for _, child := range n.Children {
		out += child.TextContent()
	}
	return out
}
