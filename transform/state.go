package transform

import (
	"github.com/aisa-it/aiplan-editor/document"
	"github.com/aisa-it/aiplan-editor/schema"
)

// historyLimit ограничивает глубину истории undo.
const historyLimit = 100

type entry struct {
	doc *document.Node
	sel document.Selection
}

type history struct {
	undos []entry
	redos []entry
}

// State - неизменяемый снимок редактора: документ, выделение, marks на
// курсоре и история. Старые снимки остаются валидными: неизмененные
// поддеревья разделяются между снимками, а не копируются.
type State struct {
	Document  *document.Node
	Selection document.Selection
	Marks     document.MarkSet
	Focused   bool

	// Save=false после навигации по истории: внешний автосейв по этому
	// флагу отличает undo/redo от содержательной правки.
	Save bool

	history history
}

// NewState создает снимок из документа. Документ нормализуется, курсор
// ставится в начало первого блока.
func NewState(doc *document.Node) State {
	doc, _ = schema.Normalize(doc)
	return State{
		Document:  doc,
		Selection: document.StartOf(doc.Nodes[0]),
		Save:      true,
	}
}

// Change начинает цепочку операций над снимком.
func (s State) Change() *Change {
	return &Change{base: s, state: s}
}

// Undo откатывает последнюю зафиксированную правку. За пределами самой
// старой записи - no-op.
func (s State) Undo() State {
	n := len(s.history.undos)
	if n == 0 {
		return s
	}
	last := s.history.undos[n-1]
	next := s
	next.Document = last.doc
	next.Selection = last.sel
	next.Marks = nil
	next.Save = false
	next.history.undos = s.history.undos[:n-1]
	next.history.redos = append(append([]entry{}, s.history.redos...), entry{doc: s.Document, sel: s.Selection})
	return next
}

// Redo повторяет откаченную правку. Без предшествующего undo - no-op.
func (s State) Redo() State {
	n := len(s.history.redos)
	if n == 0 {
		return s
	}
	last := s.history.redos[n-1]
	next := s
	next.Document = last.doc
	next.Selection = last.sel
	next.Marks = nil
	next.Save = false
	next.history.redos = s.history.redos[:n-1]
	next.history.undos = append(append([]entry{}, s.history.undos...), entry{doc: s.Document, sel: s.Selection})
	return next
}

// CanUndo сообщает, есть ли записи в истории undo.
func (s State) CanUndo() bool { return len(s.history.undos) > 0 }

// CanRedo сообщает, есть ли записи в истории redo.
func (s State) CanRedo() bool { return len(s.history.redos) > 0 }

// commit фиксирует новый снимок как одну запись истории.
func (s State) commit(next State) State {
	undos := append(append([]entry{}, s.history.undos...), entry{doc: s.Document, sel: s.Selection})
	if len(undos) > historyLimit {
		undos = undos[len(undos)-historyLimit:]
	}
	next.history = history{undos: undos}
	next.Save = true
	return next
}
