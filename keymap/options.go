package keymap

import "github.com/aisa-it/aiplan-editor/document"

// SoftBreakOptions настраивают правило вставки литерального перевода строки.
type SoftBreakOptions struct {
	// Shift требует зажатый Shift для срабатывания правила.
	Shift bool

	// IgnoreIn - типы блоков, в которых правило пропускается.
	IgnoreIn []document.NodeType

	// CloseAfter - число подряд идущих переводов строки в конце блока,
	// после которого блок "закрывается". 0 отключает закрытие.
	CloseAfter int

	// CloseOutOf - типы контейнеров, разворачиваемых при закрытии блока.
	CloseOutOf []document.NodeType
}

// CloseBlockOptions настраивают правило backspace в пустом блоке.
type CloseBlockOptions struct {
	// IgnoreIn - типы блоков, в которых правило пропускается.
	IgnoreIn []document.NodeType

	// Default - тип блока по умолчанию, которым заменяется пустой блок.
	Default document.NodeType
}

// Options - конфигурация диспетчера.
type Options struct {
	SoftBreak  SoftBreakOptions
	CloseBlock CloseBlockOptions
}

// withDefaults дополняет конфигурацию значениями по умолчанию.
func (o Options) withDefaults() Options {
	if o.SoftBreak.IgnoreIn == nil {
		o.SoftBreak.IgnoreIn = []document.NodeType{
			document.Paragraph,
			document.ListItem,
			document.BulletedList,
			document.NumberedList,
			document.Table,
			document.TableRow,
			document.TableCell,
		}
	}
	if o.SoftBreak.CloseOutOf == nil {
		o.SoftBreak.CloseOutOf = []document.NodeType{document.Quote}
	}
	if o.CloseBlock.IgnoreIn == nil {
		o.CloseBlock.IgnoreIn = []document.NodeType{
			document.Paragraph,
			document.ListItem,
			document.BulletedList,
			document.NumberedList,
			document.Table,
			document.TableRow,
			document.TableCell,
		}
	}
	if o.CloseBlock.Default == "" {
		o.CloseBlock.Default = document.Paragraph
	}
	return o
}
