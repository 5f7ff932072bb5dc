package element

import (
	"fmt"
	"slices"
	"strconv"
)

// Memory is an in-memory Driver. It keeps one Field per selector and records
// every interaction, which makes it useful for dry runs and tests.
type Memory struct {
	fields  map[string]*Field
	URL     string
	Visited []string
	Ops     []string
}

// NewMemory creates an empty in-memory driver.
func NewMemory() *Memory {
	return &Memory{fields: make(map[string]*Field)}
}

// Field is the state behind an element located on a Memory driver.
type Field struct {
	driver   *Memory
	kind     Kind
	selector string
	value    string
	checked  bool
	options  []string
	Clicks   int
}

// Goto records a navigation.
func (m *Memory) Goto(url string) error {
	m.URL = url
	m.Visited = append(m.Visited, url)
	m.record("goto %s", url)
	return nil
}

// Locate returns the field for selector, creating it on first use. A selector
// is bound to the kind it was first located with.
func (m *Memory) Locate(kind Kind, selector string) (Element, error) {
	f, ok := m.fields[selector]
	if !ok {
		f = &Field{driver: m, kind: kind, selector: selector}
		m.fields[selector] = f
	}
	if f.kind != kind {
		return nil, fmt.Errorf("selector %q is a %s, not a %s", selector, f.kind, kind)
	}

	switch kind {
	case Radio:
		return memRadio{f}, nil
	case Checkbox:
		return memCheckbox{f}, nil
	case Select:
		return memSelect{f}, nil
	case Button:
		return memButton{f}, nil
	default:
		return memText{f}, nil
	}
}

// AddSelect declares a select list with a fixed set of options.
func (m *Memory) AddSelect(selector string, options ...string) *Field {
	f := &Field{driver: m, kind: Select, selector: selector, options: options}
	m.fields[selector] = f
	return f
}

// Field returns the field located at selector, or nil.
func (m *Memory) Field(selector string) *Field {
	return m.fields[selector]
}

func (m *Memory) record(format string, args ...any) {
	m.Ops = append(m.Ops, fmt.Sprintf(format, args...))
}

func (f *Field) Kind() Kind {
	return f.kind
}

// Selector returns the selector the field was located with.
func (f *Field) Selector() string {
	return f.selector
}

// Checked reports the checkbox state.
func (f *Field) Checked() bool {
	return f.checked
}

// Value returns the text, radio or select value, or "true"/"false" for a checkbox.
func (f *Field) Value() (string, error) {
	if f.kind == Checkbox {
		return strconv.FormatBool(f.checked), nil
	}
	return f.value, nil
}

type memText struct{ *Field }

func (e memText) SetValue(value string) error {
	e.value = value
	e.driver.record("fill %s=%s", e.selector, value)
	return nil
}

func (e memText) Clear() error {
	e.value = ""
	e.driver.record("clear %s", e.selector)
	return nil
}

type memRadio struct{ *Field }

func (e memRadio) Set(value string) error {
	e.value = value
	e.driver.record("choose %s=%s", e.selector, value)
	return nil
}

type memCheckbox struct{ *Field }

func (e memCheckbox) Set() error {
	e.checked = true
	e.driver.record("check %s", e.selector)
	return nil
}

func (e memCheckbox) Clear() error {
	e.checked = false
	e.driver.record("uncheck %s", e.selector)
	return nil
}

type memSelect struct{ *Field }

func (e memSelect) Select(option string) error {
	if len(e.options) > 0 && !slices.Contains(e.options, option) {
		return fmt.Errorf("option %q not available in %s", option, e.selector)
	}
	e.value = option
	e.driver.record("select %s=%s", e.selector, option)
	return nil
}

type memButton struct{ *Field }

func (e memButton) Click() error {
	e.Clicks++
	e.driver.record("click %s", e.selector)
	return nil
}
