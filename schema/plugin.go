package schema

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator"

	"github.com/aisa-it/aiplan-editor/document"
)

var (
	ErrUnknownPlugin = errors.New("unknown plugin")

	// Id плагина попадает в тип блока plugin_<id> и в Markdown-шорткод,
	// поэтому ограничен буквами, цифрами и дефисом.
	pluginIDRe = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("alphanumdash", func(fl validator.FieldLevel) bool {
		return pluginIDRe.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// Field описывает атрибут плагина и его значение по умолчанию.
type Field struct {
	Name    string `validate:"required"`
	Default any
}

// Plugin описывает внешний shortcode-плагин: блок с фиксированным набором
// атрибутов и сериализатором в одну строку Markdown.
type Plugin struct {
	ID     string `validate:"required,alphanumdash"`
	Label  string
	Fields []Field `validate:"dive"`

	// ToBlock рендерит данные блока в одну строку Markdown-представления.
	ToBlock func(data map[string]any) string `validate:"required"`
}

// Type возвращает тип блока документа, которым представлен плагин.
func (p Plugin) Type() document.NodeType {
	return document.NodeType(document.PluginPrefix + p.ID)
}

// Defaults возвращает данные блока, дополненные значениями по умолчанию.
func (p Plugin) Defaults(data map[string]any) map[string]any {
	out := make(map[string]any, len(p.Fields)+1)
	out["shortcode"] = p.ID
	for _, f := range p.Fields {
		out[f.Name] = f.Default
	}
	for k, v := range data {
		out[k] = v
	}
	return out
}

// Registry хранит упорядоченный набор зарегистрированных плагинов.
// Ядро не зависит от способа их обнаружения: реестр наполняет хост.
type Registry struct {
	order   []string
	plugins map[string]Plugin
}

// NewRegistry создает реестр с переданными плагинами.
func NewRegistry(plugins ...Plugin) (*Registry, error) {
	r := &Registry{plugins: make(map[string]Plugin)}
	for _, p := range plugins {
		if err := r.Register(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register валидирует дескриптор плагина и добавляет его в реестр.
// Повторная регистрация того же id заменяет дескриптор, сохраняя порядок.
func (r *Registry) Register(p Plugin) error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("register plugin %q: %w", p.ID, err)
	}
	if _, ok := r.plugins[p.ID]; !ok {
		r.order = append(r.order, p.ID)
	}
	r.plugins[p.ID] = p
	return nil
}

// Get возвращает плагин по id.
func (r *Registry) Get(id string) (Plugin, bool) {
	if r == nil {
		return Plugin{}, false
	}
	p, ok := r.plugins[id]
	return p, ok
}

// Lookup возвращает плагин по типу блока plugin_<id>.
func (r *Registry) Lookup(t document.NodeType) (Plugin, bool) {
	if !t.Plugin() {
		return Plugin{}, false
	}
	return r.Get(string(t)[len(document.PluginPrefix):])
}

// Plugins возвращает плагины в порядке регистрации.
func (r *Registry) Plugins() []Plugin {
	if r == nil {
		return nil
	}
	out := make([]Plugin, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.plugins[id])
	}
	return out
}

// Block создает void-блок плагина с данными, дополненными значениями по умолчанию.
func (r *Registry) Block(id string, data map[string]any) (*document.Node, error) {
	p, ok := r.Get(id)
	if !ok {
		return nil, fmt.Errorf("block for %q: %w", id, ErrUnknownPlugin)
	}
	return document.NewBlockData(p.Type(), p.Defaults(data)), nil
}

// Render сериализует блок плагина в одну строку Markdown-представления.
func (r *Registry) Render(n *document.Node) (string, error) {
	p, ok := r.Lookup(n.Type)
	if !ok {
		return "", fmt.Errorf("render %q: %w", n.Type, ErrUnknownPlugin)
	}
	return p.ToBlock(p.Defaults(n.Data)), nil
}
