package page

import (
	"fmt"

	"github.com/entrhq/pagekit/pkg/element"
)

// View is one instance of a ViewType bound to a driver. It owns the
// activation state of the type's process pages.
type View struct {
	vt      *ViewType
	driver  element.Driver
	current *ProcessPage

	resolving map[string]bool // aliases being followed
}

// New creates a view of vt driven by driver. driver may be nil for views whose
// accessors do not use one.
func (vt *ViewType) New(driver element.Driver) *View {
	return &View{vt: vt, driver: driver}
}

// Type returns the view type v was created from.
func (v *View) Type() *ViewType {
	return v.vt
}

// Driver returns the element driver bound to v.
func (v *View) Driver() element.Driver {
	return v.driver
}

// Current returns the most recently activated process page, nil before the
// first activation.
func (v *View) Current() *ProcessPage {
	return v.current
}

func (v *View) enterAlias(alias string) bool {
	if v.resolving[alias] {
		return false
	}
	if v.resolving == nil {
		v.resolving = make(map[string]bool)
	}
	v.resolving[alias] = true
	return true
}

func (v *View) leaveAlias(alias string) {
	delete(v.resolving, alias)
}

// IsActive reports whether p is the current page or one of its ancestors.
func (v *View) IsActive(p *ProcessPage) bool {
	return p.isAncestorOf(v.current)
}

// Activate makes p the current process page. Parents are activated first. An
// already active page is left alone unless it always activates its parent,
// in which case the parent is activated again before p.
func (v *View) Activate(p *ProcessPage) error {
	return v.activate(p, false)
}

func (v *View) activate(p *ProcessPage, force bool) error {
	if p.alwaysActivateParent && p.parent != nil {
		if err := v.activate(p.parent, true); err != nil {
			return err
		}
	} else {
		if !force && v.IsActive(p) {
			return nil
		}
		if p.parent != nil {
			if err := v.activate(p.parent, false); err != nil {
				return err
			}
		}
	}

	if p.isActive != nil {
		showing, err := p.isActive(v)
		if err != nil {
			return fmt.Errorf("checking process page %q: %w", p.fullName, err)
		}
		if showing {
			v.current = p
			return nil
		}
	}
	if p.navigate != nil {
		debugLog.Debugf("navigating to process page %q of %s", p.fullName, v.vt.name)
		if err := p.navigate(v); err != nil {
			return fmt.Errorf("navigating to process page %q: %w", p.fullName, err)
		}
	}
	v.current = p
	return nil
}

// Get returns the element behind keyword name, activating its process page first.
func (v *View) Get(name string, args ...any) (*Handle, error) {
	el, err := v.vt.Element(name)
	if err != nil {
		return nil, err
	}
	return el.Get(v, args...)
}

// Set assigns value to keyword name. A nil value leaves the field untouched.
func (v *View) Set(name string, value any) error {
	el, err := v.vt.Element(name)
	if err != nil {
		return err
	}
	return el.Set(v, value)
}

// Compare reports whether keyword name currently holds value.
func (v *View) Compare(name string, value any) (actual string, ok bool, err error) {
	el, err := v.vt.Element(name)
	if err != nil {
		return "", false, err
	}
	return el.Compare(v, value)
}

// Value reads the current value of keyword name.
func (v *View) Value(name string) (string, error) {
	h, err := v.Get(name)
	if err != nil {
		return "", err
	}
	return h.Value()
}
