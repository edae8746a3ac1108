// Пакет keymap сопоставляет клавиатурные события с трансформациями
// документа. Правила - упорядоченный список пар предикат/обработчик:
// выигрывает первое сработавшее, при отсутствии совпадений хост выполняет
// платформенную вставку/удаление символа сам.
package keymap

import (
	"strings"

	"github.com/aisa-it/aiplan-editor/document"
	"github.com/aisa-it/aiplan-editor/transform"
)

// Event - нормализованное клавиатурное событие.
// Mod - платформенный модификатор (Cmd/Ctrl).
type Event struct {
	Key   string
	Shift bool
	Mod   bool
}

const (
	KeyEnter     = "enter"
	KeyBackspace = "backspace"
)

// BlockEditor - внешний модуль редактирования списков и таблиц.
// Диспетчер делегирует ему события внутри list/table блоков до применения
// собственных правил soft-break и backspace.
type BlockEditor interface {
	Handle(ev Event, st transform.State) (transform.State, bool)
}

// Rule - пара предикат/обработчик.
type Rule struct {
	Match func(ev Event, st transform.State) bool
	Apply func(ev Event, st transform.State) (transform.State, error)
}

// Dispatcher применяет правила к событиям в фиксированном порядке
// приоритета. Правила из rules имеют приоритет над BlockEditor, правила
// из deferred пробуются только после него.
type Dispatcher struct {
	opts     Options
	blocks   BlockEditor
	rules    []Rule
	deferred []Rule
}

// New создает диспетчер. blocks может быть nil: тогда события внутри
// списков и таблиц обрабатываются базовыми правилами.
func New(opts Options, blocks BlockEditor) *Dispatcher {
	opts = opts.withDefaults()
	d := &Dispatcher{opts: opts, blocks: blocks}
	d.rules = []Rule{
		{Match: d.matchVoidEnter, Apply: d.applyVoidEnter},
		{Match: matchUndo, Apply: applyUndo},
		{Match: matchRedo, Apply: applyRedo},
		{Match: matchMark, Apply: applyMark},
	}
	// soft-break и backspace уступают BlockEditor внутри списков и таблиц.
	d.deferred = []Rule{
		{Match: d.matchSoftBreak, Apply: d.applySoftBreak},
		{Match: d.matchCloseBlock, Apply: d.applyCloseBlock},
	}
	return d
}

// Dispatch обрабатывает событие. Возвращает новый снимок и признак того,
// что событие обработано; false означает платформенное поведение по
// умолчанию.
func (d *Dispatcher) Dispatch(ev Event, st transform.State) (transform.State, bool, error) {
	if next, handled, err := dispatchRules(d.rules, ev, st); handled || err != nil {
		return next, handled, err
	}
	if d.blocks != nil && inDelegatedBlock(st) {
		if next, ok := d.blocks.Handle(ev, st); ok {
			return next, true, nil
		}
	}
	return dispatchRules(d.deferred, ev, st)
}

func dispatchRules(rules []Rule, ev Event, st transform.State) (transform.State, bool, error) {
	for _, rule := range rules {
		if !rule.Match(ev, st) {
			continue
		}
		next, err := rule.Apply(ev, st)
		if err != nil {
			return st, false, err
		}
		return next, true, nil
	}
	return st, false, nil
}

// delegatedTypes - типы блоков, события в которых отдаются BlockEditor.
var delegatedTypes = map[document.NodeType]struct{}{
	document.BulletedList: {},
	document.NumberedList: {},
	document.ListItem:     {},
	document.Table:        {},
	document.TableRow:     {},
	document.TableCell:    {},
}

func inDelegatedBlock(st transform.State) bool {
	key := st.Selection.Anchor.Key
	if block := st.Document.BlockOf(key); block != nil {
		if _, ok := delegatedTypes[block.Type]; ok {
			return true
		}
	}
	for _, anc := range st.Document.Ancestors(key) {
		if _, ok := delegatedTypes[anc.Type]; ok {
			return true
		}
	}
	return false
}

// currentBlock возвращает блок, содержащий якорь выделения.
func currentBlock(st transform.State) *document.Node {
	return st.Document.BlockOf(st.Selection.Anchor.Key)
}

func (d *Dispatcher) matchVoidEnter(ev Event, st transform.State) bool {
	if ev.Key != KeyEnter || ev.Mod || !st.Selection.IsCollapsed() {
		return false
	}
	block := currentBlock(st)
	if block == nil || !block.Void() {
		return false
	}
	parent, _ := st.Document.ParentOf(block.Key)
	return parent != nil && parent.Kind == document.KindDocument
}

// applyVoidEnter вставляет пустой параграф перед void-блоком, если тот
// первый в документе, иначе после него, и переводит курсор в параграф.
func (d *Dispatcher) applyVoidEnter(_ Event, st transform.State) (transform.State, error) {
	block := currentBlock(st)
	parent, idx := st.Document.ParentOf(block.Key)
	at := idx + 1
	if idx == 0 {
		at = 0
	}
	para := document.NewBlock(d.opts.CloseBlock.Default)
	return st.Change().
		InsertNodeByKey(parent.Key, at, para).
		CollapseToStartOf(para.Key).
		Apply()
}

func matchUndo(ev Event, st transform.State) bool {
	return ev.Mod && ev.Key == "z"
}

func applyUndo(ev Event, st transform.State) (transform.State, error) {
	if ev.Shift {
		return st.Redo(), nil
	}
	return st.Undo(), nil
}

func matchRedo(ev Event, st transform.State) bool {
	return ev.Mod && !ev.Shift && ev.Key == "y"
}

func applyRedo(_ Event, st transform.State) (transform.State, error) {
	return st.Redo(), nil
}

// markShortcuts - горячие клавиши переключения marks.
var markShortcuts = map[string]document.Mark{
	"b": document.Bold,
	"i": document.Italic,
	"u": document.Underline,
	"s": document.Strikethrough,
	"`": document.CodeMark,
}

func matchMark(ev Event, st transform.State) bool {
	if !ev.Mod {
		return false
	}
	_, ok := markShortcuts[ev.Key]
	return ok
}

func applyMark(ev Event, st transform.State) (transform.State, error) {
	return st.Change().ToggleMark(markShortcuts[ev.Key]).Apply()
}

func (d *Dispatcher) matchSoftBreak(ev Event, st transform.State) bool {
	if ev.Key != KeyEnter || ev.Mod {
		return false
	}
	if d.opts.SoftBreak.Shift && !ev.Shift {
		return false
	}
	block := currentBlock(st)
	if block == nil || block.Void() {
		return false
	}
	return !containsType(d.opts.SoftBreak.IgnoreIn, block.Type)
}

// applySoftBreak вставляет литеральный перевод строки. Если последние
// CloseAfter символов блока - переводы строк, блок "закрывается": переводы
// удаляются, контейнеры из CloseOutOf разворачиваются, после блока
// вставляется пустой блок по умолчанию с курсором в нем.
func (d *Dispatcher) applySoftBreak(_ Event, st transform.State) (transform.State, error) {
	opts := d.opts.SoftBreak
	block := currentBlock(st)

	if n := opts.CloseAfter; n > 0 {
		text := block.Text()
		if len(text) >= n && strings.Count(text[len(text)-n:], "\n") == n {
			// Удаляются хвостовые переводы строк, а не символы перед
			// курсором: выделение схлопывается в конец блока.
			st.Selection = document.EndOf(block)
			c := st.Change().DeleteBackward(n)
			for _, t := range opts.CloseOutOf {
				if hasAncestorOfType(st, t) {
					c.UnwrapBlock(t)
				}
			}
			para := document.NewBlock(d.opts.CloseBlock.Default)
			return c.InsertBlock(para).Apply()
		}
	}

	return st.Change().InsertText("\n").Apply()
}

func hasAncestorOfType(st transform.State, t document.NodeType) bool {
	for _, anc := range st.Document.Ancestors(st.Selection.Anchor.Key) {
		if anc.Kind == document.KindBlock && anc.Type == t {
			return true
		}
	}
	return false
}

func (d *Dispatcher) matchCloseBlock(ev Event, st transform.State) bool {
	if ev.Key != KeyBackspace || ev.Mod || !st.Selection.IsCollapsed() {
		return false
	}
	block := currentBlock(st)
	if block == nil || block.Void() {
		return false
	}
	if block.Type == d.opts.CloseBlock.Default {
		return false
	}
	if containsType(d.opts.CloseBlock.IgnoreIn, block.Type) {
		return false
	}
	return block.Text() == ""
}

// applyCloseBlock заменяет пустой блок на блок по умолчанию, чтобы курсор
// не застревал в пустом блоке нестандартного типа.
func (d *Dispatcher) applyCloseBlock(_ Event, st transform.State) (transform.State, error) {
	return st.Change().SetBlock(d.opts.CloseBlock.Default).Apply()
}

func containsType(types []document.NodeType, t document.NodeType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}
