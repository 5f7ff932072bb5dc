package browser

import (
	"fmt"
	"strconv"

	"github.com/entrhq/pagekit/pkg/element"
	"github.com/playwright-community/playwright-go"
)

// locatorElement is the part shared by every locator-backed element.
type locatorElement struct {
	session  *Session
	selector string
	locator  playwright.Locator
}

func (e locatorElement) timeout() *float64 {
	if e.session.Timeout > 0 {
		return &e.session.Timeout
	}
	return nil
}

func (e locatorElement) fail(op string, err error) error {
	return fmt.Errorf("%s %s failed: %w", op, e.selector, err)
}

type textField struct{ locatorElement }

func (e *textField) Kind() element.Kind { return element.Text }

func (e *textField) SetValue(value string) error {
	if err := e.locator.Fill(value, playwright.LocatorFillOptions{Timeout: e.timeout()}); err != nil {
		return e.fail("fill", err)
	}
	return nil
}

func (e *textField) Clear() error {
	if err := e.locator.Clear(playwright.LocatorClearOptions{Timeout: e.timeout()}); err != nil {
		return e.fail("clear", err)
	}
	return nil
}

func (e *textField) Value() (string, error) {
	v, err := e.locator.InputValue(playwright.LocatorInputValueOptions{Timeout: e.timeout()})
	if err != nil {
		return "", e.fail("read", err)
	}
	return v, nil
}

// radioGroup addresses every radio button matched by the selector and picks
// one by its value attribute.
type radioGroup struct{ locatorElement }

func (e *radioGroup) Kind() element.Kind { return element.Radio }

func (e *radioGroup) Set(value string) error {
	option := e.session.Page.Locator(fmt.Sprintf("%s[value=%s]", e.selector, strconv.Quote(value)))
	if err := option.Check(playwright.LocatorCheckOptions{Timeout: e.timeout()}); err != nil {
		return e.fail("choose "+value+" in", err)
	}
	return nil
}

func (e *radioGroup) Value() (string, error) {
	checked := e.session.Page.Locator(e.selector + ":checked")
	n, err := checked.Count()
	if err != nil {
		return "", e.fail("read", err)
	}
	if n == 0 {
		return "", nil
	}
	v, err := checked.First().GetAttribute("value", playwright.LocatorGetAttributeOptions{Timeout: e.timeout()})
	if err != nil {
		return "", e.fail("read", err)
	}
	return v, nil
}

type checkBox struct{ locatorElement }

func (e *checkBox) Kind() element.Kind { return element.Checkbox }

func (e *checkBox) Set() error {
	if err := e.locator.Check(playwright.LocatorCheckOptions{Timeout: e.timeout()}); err != nil {
		return e.fail("check", err)
	}
	return nil
}

func (e *checkBox) Clear() error {
	if err := e.locator.Uncheck(playwright.LocatorUncheckOptions{Timeout: e.timeout()}); err != nil {
		return e.fail("uncheck", err)
	}
	return nil
}

func (e *checkBox) Value() (string, error) {
	checked, err := e.locator.IsChecked(playwright.LocatorIsCheckedOptions{Timeout: e.timeout()})
	if err != nil {
		return "", e.fail("read", err)
	}
	return strconv.FormatBool(checked), nil
}

// selectList picks options by their visible label.
type selectList struct{ locatorElement }

func (e *selectList) Kind() element.Kind { return element.Select }

func (e *selectList) Select(option string) error {
	labels := []string{option}
	_, err := e.locator.SelectOption(playwright.SelectOptionValues{Labels: &labels},
		playwright.LocatorSelectOptionOptions{Timeout: e.timeout()})
	if err != nil {
		return e.fail("select "+option+" in", err)
	}
	return nil
}

// Value returns the label of the selected option, so it compares against the
// same text Select was given.
func (e *selectList) Value() (string, error) {
	selected := e.locator.Locator("option:checked")
	n, err := selected.Count()
	if err != nil {
		return "", e.fail("read", err)
	}
	if n == 0 {
		return "", nil
	}
	label, err := selected.First().TextContent(playwright.LocatorTextContentOptions{Timeout: e.timeout()})
	if err != nil {
		return "", e.fail("read", err)
	}
	return label, nil
}

type button struct{ locatorElement }

func (e *button) Kind() element.Kind { return element.Button }

func (e *button) Click() error {
	if err := e.locator.Click(playwright.LocatorClickOptions{Timeout: e.timeout()}); err != nil {
		return e.fail("click", err)
	}
	e.session.CurrentURL = e.session.Page.URL()
	return nil
}
