// Пакет editor связывает конвертеры, схему, трансформации и keymap в
// единый редактор. Хост передает начальное дерево mdast и колбэк
// изменений; редактор возвращает дерево mdast после каждой
// зафиксированной правки.
package editor

import (
	"github.com/aisa-it/aiplan-editor/convert"
	"github.com/aisa-it/aiplan-editor/keymap"
	"github.com/aisa-it/aiplan-editor/mdast"
	"github.com/aisa-it/aiplan-editor/schema"
	"github.com/aisa-it/aiplan-editor/transform"
)

// ChangeFunc вызывается после каждой зафиксированной правки.
// save=false означает навигацию по истории: автосейв хоста может
// пропустить такое изменение.
type ChangeFunc func(tree *mdast.Node, save bool)

// Editor - синхронный однопоточный редактор документа. Все обработчики
// выполняются до конца в рамках одного события; повторный вход из
// обработчика не поддерживается.
type Editor struct {
	state    transform.State
	registry *schema.Registry
	keys     *keymap.Dispatcher
	onChange ChangeFunc
}

// Options - конфигурация редактора.
type Options struct {
	Keymap keymap.Options

	// Blocks - внешний модуль редактирования списков и таблиц, может быть nil.
	Blocks keymap.BlockEditor
}

// New создает редактор из начального дерева mdast. nil трактуется как
// пустой документ и нормализуется в один пустой параграф.
func New(initial *mdast.Node, registry *schema.Registry, opts Options, onChange ChangeFunc) *Editor {
	return &Editor{
		state:    transform.NewState(convert.MarkdownToDocument(initial)),
		registry: registry,
		keys:     keymap.New(opts.Keymap, opts.Blocks),
		onChange: onChange,
	}
}

// State возвращает текущий снимок редактора.
func (e *Editor) State() transform.State {
	return e.state
}

// Tree возвращает текущий документ в виде дерева mdast.
func (e *Editor) Tree() *mdast.Node {
	return convert.DocumentToMarkdown(e.state.Document, e.registry)
}

// HandleKey обрабатывает клавиатурное событие. Возвращает false, если ни
// одно правило не сработало и хост должен выполнить платформенное
// поведение по умолчанию.
func (e *Editor) HandleKey(ev keymap.Event) (bool, error) {
	next, handled, err := e.keys.Dispatch(ev, e.state)
	if err != nil {
		return false, err
	}
	if !handled {
		return false, nil
	}
	e.publish(next)
	return true, nil
}

// Paste вставляет HTML из буфера обмена в позицию выделения.
func (e *Editor) Paste(html string) error {
	fragment, err := convert.HTMLToFragment(html)
	if err != nil {
		return err
	}
	next, err := e.state.Change().InsertFragment(fragment).Apply()
	if err != nil {
		return err
	}
	e.publish(next)
	return nil
}

// InsertShortcode вставляет void-блок зарегистрированного плагина.
func (e *Editor) InsertShortcode(id string, data map[string]any) error {
	block, err := e.registry.Block(id, data)
	if err != nil {
		return err
	}
	next, err := e.state.Change().InsertBlock(block).Apply()
	if err != nil {
		return err
	}
	e.publish(next)
	return nil
}

// Change начинает цепочку трансформаций; Commit фиксирует ее и оповещает хост.
func (e *Editor) Change() *transform.Change {
	return e.state.Change()
}

// Commit применяет цепочку и публикует результат хосту.
func (e *Editor) Commit(c *transform.Change) error {
	next, err := c.Apply()
	if err != nil {
		return err
	}
	e.publish(next)
	return nil
}

func (e *Editor) publish(next transform.State) {
	if next.Document == e.state.Document {
		e.state = next
		return
	}
	e.state = next
	if e.onChange != nil {
		e.onChange(e.Tree(), next.Save)
	}
}
