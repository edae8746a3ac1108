package transform

import (
	"github.com/aisa-it/aiplan-editor/document"
	"github.com/aisa-it/aiplan-editor/schema"
)

// Change накапливает атомарные операции над снимком. Первая ошибка
// останавливает цепочку: последующие операции не выполняются, Apply
// возвращает исходный снимок и ошибку. Apply фиксирует все операции
// одним шагом undo и нормализует документ.
type Change struct {
	base  State
	state State
	// dirty - были содержательные правки документа; selDirty - только
	// выделение. Изменения одного выделения не создают шаг undo.
	dirty    bool
	selDirty bool
	err      error
}

func (c *Change) step(op func(State) (State, error)) *Change {
	if c.err != nil {
		return c
	}
	next, err := op(c.state)
	if err != nil {
		c.err = err
		return c
	}
	c.state = next
	c.dirty = true
	return c
}

func (c *Change) stepSel(op func(State) (State, error)) *Change {
	if c.err != nil {
		return c
	}
	next, err := op(c.state)
	if err != nil {
		c.err = err
		return c
	}
	c.state = next
	c.selDirty = true
	return c
}

// InsertText вставляет текст в позицию курсора с текущими marks.
func (c *Change) InsertText(text string) *Change {
	return c.step(func(st State) (State, error) { return insertText(st, text) })
}

// DeleteBackward удаляет n символов перед курсором. В начале блока
// сливает его с предыдущим.
func (c *Change) DeleteBackward(n int) *Change {
	return c.step(func(st State) (State, error) { return deleteBackward(st, n) })
}

// DeleteForward удаляет n символов после курсора. В конце блока сливает
// следующий блок в текущий.
func (c *Change) DeleteForward(n int) *Change {
	return c.step(func(st State) (State, error) { return deleteForward(st, n) })
}

// SetBlock меняет тип всех блоков, затронутых выделением.
func (c *Change) SetBlock(t document.NodeType) *Change {
	return c.step(func(st State) (State, error) { return setBlock(st, t) })
}

// WrapBlock оборачивает выделенные блоки в контейнерный блок данного типа.
func (c *Change) WrapBlock(t document.NodeType) *Change {
	return c.step(func(st State) (State, error) { return wrapBlock(st, t) })
}

// UnwrapBlock удаляет ближайший контейнерный блок данного типа,
// поднимая его содержимое на уровень выше.
func (c *Change) UnwrapBlock(t document.NodeType) *Change {
	return c.step(func(st State) (State, error) { return unwrapBlock(st, t) })
}

// ToggleMark переключает mark на выделении: если хоть один символ без
// mark - добавляет всем, иначе снимает со всех. На схлопнутом курсоре
// переключаются marks будущего ввода без записи в историю.
func (c *Change) ToggleMark(m document.Mark) *Change {
	if c.err == nil && c.state.Selection.IsCollapsed() {
		return c.stepSel(func(st State) (State, error) { return toggleMark(st, m) })
	}
	return c.step(func(st State) (State, error) { return toggleMark(st, m) })
}

// InsertBlock вставляет блок следующим соседом текущего блока и
// переводит курсор в него.
func (c *Change) InsertBlock(block *document.Node) *Change {
	return c.step(func(st State) (State, error) { return insertBlock(st, block) })
}

// InsertFragment вклеивает фрагмент документа в позицию выделения.
func (c *Change) InsertFragment(fragment document.Fragment) *Change {
	return c.step(func(st State) (State, error) { return insertFragment(st, fragment) })
}

// InsertNodeByKey вставляет узел по явному адресу в дереве.
func (c *Change) InsertNodeByKey(parentKey string, index int, node *document.Node) *Change {
	return c.step(func(st State) (State, error) { return insertNodeByKey(st, parentKey, index, node) })
}

// SetLink оборачивает выделенный текст в ссылку с данным href.
func (c *Change) SetLink(href string) *Change {
	return c.step(func(st State) (State, error) { return setLink(st, href) })
}

// CollapseToStartOf схлопывает выделение в начало узла.
func (c *Change) CollapseToStartOf(key string) *Change {
	return c.stepSel(func(st State) (State, error) { return collapseToStartOf(st, key) })
}

// Focus помечает снимок сфокусированным.
func (c *Change) Focus() *Change {
	return c.stepSel(func(st State) (State, error) {
		st.Focused = true
		return st, nil
	})
}

// Err возвращает первую ошибку цепочки.
func (c *Change) Err() error { return c.err }

// Apply фиксирует накопленные операции одним шагом undo.
// Документ нормализуется: пустой документ получает пустой параграф,
// курсор переводится в него.
func (c *Change) Apply() (State, error) {
	if c.err != nil {
		return c.base, c.err
	}
	if !c.dirty {
		if c.selDirty {
			return c.state, nil
		}
		return c.base, nil
	}
	next := c.state
	if doc, changed := schema.Normalize(next.Document); changed {
		next.Document = doc
		next.Selection = document.StartOf(doc.Nodes[0])
	}
	// Операции-пустышки (вставка пустого фрагмента, backspace в начале
	// документа) возвращают тот же документ: шаг undo не создается.
	if next.Document == c.base.Document {
		return next, nil
	}
	return c.base.commit(next), nil
}
