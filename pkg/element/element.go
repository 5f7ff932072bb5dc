// Package element defines the abstract UI element capability consumed by
// pkg/page.
//
// An element reports one Kind from a closed set and implements the matching
// capability interface. Callers dispatch on Kind and never on the concrete
// type behind an element, so a Playwright-backed field and an in-memory fake
// are interchangeable.
package element

import "fmt"

// Kind is the capability an element exposes.
type Kind int

const (
	Text Kind = iota
	Radio
	Checkbox
	Select
	Button
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Radio:
		return "radio"
	case Checkbox:
		return "checkbox"
	case Select:
		return "select"
	case Button:
		return "button"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Element is implemented by every element handle.
type Element interface {
	Kind() Kind
}

// Valuer reports the current value of an element, used by verification.
type Valuer interface {
	Value() (string, error)
}

// TextField is a text-like element. It is the default capability.
type TextField interface {
	Element
	SetValue(value string) error
	Clear() error
}

// RadioGroup selects one of several options by value.
type RadioGroup interface {
	Element
	Set(value string) error
}

// CheckBox is set or cleared.
type CheckBox interface {
	Element
	Set() error
	Clear() error
}

// SelectList selects the option matching a value.
type SelectList interface {
	Element
	Select(option string) error
}

// Clickable is a button-like element.
type Clickable interface {
	Element
	Click() error
}

// Driver locates elements and moves between pages. The page registry never
// constructs elements itself; accessors ask the Driver bound to a view.
type Driver interface {
	Locate(kind Kind, selector string) (Element, error)
	Goto(url string) error
}

// CapabilityError reports an element whose Kind is not backed by the
// matching capability interface.
type CapabilityError struct {
	Kind    Kind
	Element Element
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("element reports kind %s but does not implement it", e.Kind)
}
