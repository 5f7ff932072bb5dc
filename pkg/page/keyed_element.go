package page

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/entrhq/pagekit/pkg/element"
	"github.com/entrhq/pagekit/pkg/valuemap"
)

// EmptyValue is the literal that clears a text field or checkbox.
const EmptyValue = "nil"

// Handle is an element returned by a keyword, tagged with the keyword name
// and value map it was reached through.
type Handle struct {
	element.Element
	Keyword string
	Map     *valuemap.Map
}

// Value reads the element value if the element can report one.
func (h *Handle) Value() (string, error) {
	valuer, ok := h.Element.(element.Valuer)
	if !ok {
		return "", fmt.Errorf("keyword %q: %s element cannot report a value", h.Keyword, h.Kind())
	}
	return valuer.Value()
}

// KeyedElement binds one keyword to its process page and accessor.
type KeyedElement struct {
	keyword *Keyword
}

func newKeyedElement(kw *Keyword) (*KeyedElement, error) {
	if kw.Page == nil {
		return nil, &InvariantError{Keyword: kw.Name, Reason: "no process page defined"}
	}
	return &KeyedElement{keyword: kw}, nil
}

// Keyword returns the registry entry the element is bound to.
func (k *KeyedElement) Keyword() *Keyword {
	return k.keyword
}

// Get activates the keyword's process page and evaluates its accessor.
func (k *KeyedElement) Get(v *View, args ...any) (*Handle, error) {
	kw := k.keyword
	if err := v.Activate(kw.Page); err != nil {
		return nil, fmt.Errorf("keyword %q: %w", kw.Name, err)
	}

	el, err := kw.Accessor(v, args...)
	if err != nil {
		return nil, fmt.Errorf("keyword %q: %w", kw.Name, err)
	}
	if el == nil {
		return nil, fmt.Errorf("keyword %q: accessor returned no element", kw.Name)
	}
	if inner, ok := el.(*Handle); ok {
		el = inner.Element
	}
	return &Handle{Element: el, Keyword: kw.Name, Map: kw.Map}, nil
}

// Set assigns value to the keyword's element. A nil value is a no-op: the
// page is not activated and no element is looked up.
func (k *KeyedElement) Set(v *View, value any) error {
	if value == nil {
		return nil
	}
	kw := k.keyword

	h, err := k.Get(v)
	if err != nil {
		return err
	}
	if kw.Map != nil {
		mapped, err := kw.Map.Lookup(value)
		if err != nil {
			return fmt.Errorf("keyword %q: %w", kw.Name, err)
		}
		value = mapped
	}
	if err := assign(h.Element, value); err != nil {
		return fmt.Errorf("keyword %q: %w", kw.Name, err)
	}
	return nil
}

// Compare reads the element and reports whether it holds value, applying the
// same value map and checkbox rules as Set. A nil value always matches, as do
// buttons.
func (k *KeyedElement) Compare(v *View, value any) (actual string, ok bool, err error) {
	if value == nil {
		return "", true, nil
	}
	kw := k.keyword

	h, err := k.Get(v)
	if err != nil {
		return "", false, err
	}
	if h.Kind() == element.Button {
		return "", true, nil
	}
	if kw.Map != nil {
		mapped, err := kw.Map.Lookup(value)
		if err != nil {
			return "", false, fmt.Errorf("keyword %q: %w", kw.Name, err)
		}
		value = mapped
	}
	actual, err = h.Value()
	if err != nil {
		return "", false, err
	}

	var expected string
	switch {
	case h.Kind() == element.Checkbox:
		expected = strconv.FormatBool(!isEmpty(value) && truthy(value))
	case isEmpty(value):
		expected = ""
	default:
		expected = stringValue(value)
	}
	return actual, actual == expected, nil
}

// assign dispatches on the element's capability kind.
func assign(el element.Element, value any) error {
	switch el.Kind() {
	case element.Radio:
		radio, ok := el.(element.RadioGroup)
		if !ok {
			return &element.CapabilityError{Kind: element.Radio, Element: el}
		}
		return radio.Set(stringValue(value))

	case element.Checkbox:
		box, ok := el.(element.CheckBox)
		if !ok {
			return &element.CapabilityError{Kind: element.Checkbox, Element: el}
		}
		if isEmpty(value) || !truthy(value) {
			return box.Clear()
		}
		return box.Set()

	case element.Select:
		list, ok := el.(element.SelectList)
		if !ok {
			return &element.CapabilityError{Kind: element.Select, Element: el}
		}
		return list.Select(stringValue(value))

	case element.Button:
		button, ok := el.(element.Clickable)
		if !ok {
			return &element.CapabilityError{Kind: element.Button, Element: el}
		}
		return button.Click()

	default:
		field, ok := el.(element.TextField)
		if !ok {
			return &element.CapabilityError{Kind: el.Kind(), Element: el}
		}
		if isEmpty(value) {
			return field.Clear()
		}
		return field.SetValue(stringValue(value))
	}
}

func stringValue(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

func isEmpty(value any) bool {
	s, ok := value.(string)
	return ok && s == EmptyValue
}

// truthy interprets record values as checkbox states.
func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "", "false", "no", "off", "0", "unchecked":
			return false
		}
		return true
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	default:
		if b, err := strconv.ParseBool(fmt.Sprint(v)); err == nil {
			return b
		}
		return true
	}
}
