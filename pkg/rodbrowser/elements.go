package rodbrowser

import (
	"fmt"
	"strconv"

	"github.com/entrhq/pagekit/pkg/element"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

const clearValueJS = `() => { this.value = ""; this.dispatchEvent(new Event("input", {bubbles: true})) }`

const selectedLabelJS = `() => this.selectedIndex < 0 ? "" : this.options[this.selectedIndex].text`

type node struct {
	driver   *Driver
	selector string
}

func (n node) find(selector string) (*rod.Element, error) {
	el, err := n.driver.timed().Element(selector)
	if err != nil {
		return nil, fmt.Errorf("element %s not found: %w", selector, err)
	}
	return el, nil
}

func (n node) element() (*rod.Element, error) {
	return n.find(n.selector)
}

func (n node) fail(op string, err error) error {
	return fmt.Errorf("%s %s failed: %w", op, n.selector, err)
}

func (n node) click(el *rod.Element) error {
	return el.Click(proto.InputMouseButtonLeft, 1)
}

type textField struct{ node }

func (e *textField) Kind() element.Kind { return element.Text }

func (e *textField) SetValue(value string) error {
	el, err := e.element()
	if err != nil {
		return err
	}
	if err := el.SelectAllText(); err != nil {
		return e.fail("select text of", err)
	}
	if err := el.Input(value); err != nil {
		return e.fail("input", err)
	}
	return nil
}

func (e *textField) Clear() error {
	el, err := e.element()
	if err != nil {
		return err
	}
	if _, err := el.Eval(clearValueJS); err != nil {
		return e.fail("clear", err)
	}
	return nil
}

func (e *textField) Value() (string, error) {
	el, err := e.element()
	if err != nil {
		return "", err
	}
	v, err := el.Property("value")
	if err != nil {
		return "", e.fail("read", err)
	}
	return v.Str(), nil
}

type radioGroup struct{ node }

func (e *radioGroup) Kind() element.Kind { return element.Radio }

func (e *radioGroup) Set(value string) error {
	el, err := e.find(fmt.Sprintf("%s[value=%s]", e.selector, strconv.Quote(value)))
	if err != nil {
		return err
	}
	if err := e.click(el); err != nil {
		return e.fail("choose "+value+" in", err)
	}
	return nil
}

func (e *radioGroup) Value() (string, error) {
	checked, err := e.driver.page.Elements(e.selector + ":checked")
	if err != nil {
		return "", e.fail("read", err)
	}
	if checked.Empty() {
		return "", nil
	}
	v, err := checked.First().Property("value")
	if err != nil {
		return "", e.fail("read", err)
	}
	return v.Str(), nil
}

type checkBox struct{ node }

func (e *checkBox) Kind() element.Kind { return element.Checkbox }

func (e *checkBox) Set() error { return e.toggleTo(true) }

func (e *checkBox) Clear() error { return e.toggleTo(false) }

func (e *checkBox) toggleTo(want bool) error {
	el, err := e.element()
	if err != nil {
		return err
	}
	checked, err := el.Property("checked")
	if err != nil {
		return e.fail("read", err)
	}
	if checked.Bool() == want {
		return nil
	}
	if err := e.click(el); err != nil {
		return e.fail("toggle", err)
	}
	return nil
}

func (e *checkBox) Value() (string, error) {
	el, err := e.element()
	if err != nil {
		return "", err
	}
	checked, err := el.Property("checked")
	if err != nil {
		return "", e.fail("read", err)
	}
	return strconv.FormatBool(checked.Bool()), nil
}

// selectList picks options by their visible text.
type selectList struct{ node }

func (e *selectList) Kind() element.Kind { return element.Select }

func (e *selectList) Select(option string) error {
	el, err := e.element()
	if err != nil {
		return err
	}
	if err := el.Select([]string{option}, true, rod.SelectorTypeText); err != nil {
		return e.fail("select "+option+" in", err)
	}
	return nil
}

func (e *selectList) Value() (string, error) {
	el, err := e.element()
	if err != nil {
		return "", err
	}
	res, err := el.Eval(selectedLabelJS)
	if err != nil {
		return "", e.fail("read", err)
	}
	return res.Value.Str(), nil
}

type button struct{ node }

func (e *button) Kind() element.Kind { return element.Button }

func (e *button) Click() error {
	el, err := e.element()
	if err != nil {
		return err
	}
	if err := e.click(el); err != nil {
		return e.fail("click", err)
	}
	return nil
}

var (
	_ element.TextField  = (*textField)(nil)
	_ element.RadioGroup = (*radioGroup)(nil)
	_ element.CheckBox   = (*checkBox)(nil)
	_ element.SelectList = (*selectList)(nil)
	_ element.Clickable  = (*button)(nil)
)
