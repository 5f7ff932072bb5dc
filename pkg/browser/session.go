package browser

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/entrhq/pagekit/pkg/element"
	"github.com/playwright-community/playwright-go"
)

// UpdateLastUsed updates the LastUsedAt timestamp to the current time.
func (s *Session) UpdateLastUsed() {
	s.LastUsedAt = time.Now()
}

// Goto navigates the session's page. A relative target is resolved against
// BaseURL.
func (s *Session) Goto(target string) error {
	s.UpdateLastUsed()

	resolved, err := ResolveURL(s.BaseURL, target)
	if err != nil {
		return err
	}

	opts := playwright.PageGotoOptions{}
	if s.Timeout > 0 {
		opts.Timeout = &s.Timeout
	}
	if _, err := s.Page.Goto(resolved, opts); err != nil {
		return fmt.Errorf("navigation to %s failed: %w", resolved, err)
	}

	s.CurrentURL = s.Page.URL()
	debugLog.Debugf("session %q at %s", s.Name, s.CurrentURL)
	return nil
}

// ResolveURL resolves target against base. An empty base returns target
// unchanged.
func ResolveURL(base, target string) (string, error) {
	if base == "" {
		return target, nil
	}
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", base, err)
	}
	ref, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", target, err)
	}
	return b.ResolveReference(ref).String(), nil
}

// Locate returns a Playwright locator for selector wrapped as an element of
// the requested kind. Locators are lazy, so a missing element only fails
// when it is used.
func (s *Session) Locate(kind element.Kind, selector string) (element.Element, error) {
	s.UpdateLastUsed()

	base := locatorElement{session: s, selector: selector, locator: s.Page.Locator(selector)}
	switch kind {
	case element.Text:
		return &textField{base}, nil
	case element.Radio:
		return &radioGroup{base}, nil
	case element.Checkbox:
		return &checkBox{base}, nil
	case element.Select:
		return &selectList{base}, nil
	case element.Button:
		return &button{base}, nil
	default:
		return nil, fmt.Errorf("unsupported element kind %s for %q", kind, selector)
	}
}

func (s *Session) close() error {
	var errs []error
	if s.Page != nil {
		errs = append(errs, s.Page.Close())
	}
	if s.Context != nil {
		errs = append(errs, s.Context.Close())
	}
	if s.Browser != nil {
		errs = append(errs, s.Browser.Close())
	}
	return errors.Join(errs...)
}

// compile-time interface checks
var (
	_ element.Driver     = (*Session)(nil)
	_ element.TextField  = (*textField)(nil)
	_ element.RadioGroup = (*radioGroup)(nil)
	_ element.CheckBox   = (*checkBox)(nil)
	_ element.SelectList = (*selectList)(nil)
	_ element.Clickable  = (*button)(nil)
)
