// Пакет schema описывает схему документа: фиксированные таблицы соответствия
// HTML-тегов типам блоков и marks, реестр плагинов (shortcode) и правило
// нормализации документа.
package schema

import "github.com/aisa-it/aiplan-editor/document"

// blockTags - таблица соответствия тегов блочным типам.
var blockTags = map[string]document.NodeType{
	"p":          document.Paragraph,
	"li":         document.ListItem,
	"ul":         document.BulletedList,
	"ol":         document.NumberedList,
	"blockquote": document.Quote,
	"pre":        document.Code,
	"h1":         document.HeadingOne,
	"h2":         document.HeadingTwo,
	"h3":         document.HeadingThree,
	"h4":         document.HeadingFour,
	"h5":         document.HeadingFive,
	"h6":         document.HeadingSix,
	"table":      document.Table,
	"tr":         document.TableRow,
	"td":         document.TableCell,
	"th":         document.TableCell,
	"hr":         document.ThematicBreak,
}

// markTags - таблица соответствия тегов типам marks.
var markTags = map[string]document.Mark{
	"strong": document.Bold,
	"b":      document.Bold,
	"em":     document.Italic,
	"i":      document.Italic,
	"u":      document.Underline,
	"s":      document.Strikethrough,
	"del":    document.Strikethrough,
	"code":   document.CodeMark,
}

// BlockTag возвращает тип блока для HTML-тега.
func BlockTag(tag string) (document.NodeType, bool) {
	t, ok := blockTags[tag]
	return t, ok
}

// MarkTag возвращает тип mark для HTML-тега.
func MarkTag(tag string) (document.Mark, bool) {
	m, ok := markTags[tag]
	return m, ok
}
