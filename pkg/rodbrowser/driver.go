// Package rodbrowser is an element.Driver backed by go-rod, talking to
// Chrome over the DevTools protocol without the Playwright runtime.
package rodbrowser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/entrhq/pagekit/pkg/browser"
	"github.com/entrhq/pagekit/pkg/element"
	"github.com/entrhq/pagekit/pkg/logging"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

var debugLog *logging.Logger

func init() {
	var err error
	debugLog, err = logging.NewLogger("rodbrowser")
	if err != nil {
		debugLog.Warnf("Failed to initialize rodbrowser logger, using stderr fallback: %v", err)
	}
}

// Options configures Connect.
type Options struct {
	// DebuggerURL attaches to a running browser instead of launching one
	DebuggerURL string

	Headless bool
	Viewport *browser.Viewport
	Timeout  time.Duration
	BaseURL  string
}

// Driver drives one page of a rod browser.
type Driver struct {
	browser *rod.Browser
	page    *rod.Page
	timeout time.Duration
	baseURL string
}

// Connect launches (or attaches to) Chrome and opens a blank page.
func Connect(ctx context.Context, opts Options) (*Driver, error) {
	controlURL := opts.DebuggerURL
	if controlURL == "" {
		url, err := launcher.New().Headless(opts.Headless).Launch()
		if err != nil {
			return nil, fmt.Errorf("launch chrome: %w", err)
		}
		controlURL = url
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("create page: %w", err)
	}

	if opts.Viewport != nil {
		if err := (proto.EmulationSetDeviceMetricsOverride{
			Width:             opts.Viewport.Width,
			Height:            opts.Viewport.Height,
			DeviceScaleFactor: 1.0,
		}).Call(page); err != nil {
			debugLog.Warnf("failed to set viewport: %v", err)
		}
	}

	debugLog.Infof("connected to %s", controlURL)
	return &Driver{browser: b, page: page, timeout: opts.Timeout, baseURL: opts.BaseURL}, nil
}

// Page returns the underlying rod page.
func (d *Driver) Page() *rod.Page {
	return d.page
}

func (d *Driver) timed() *rod.Page {
	if d.timeout > 0 {
		return d.page.Timeout(d.timeout)
	}
	return d.page
}

// Goto navigates to target, resolved against the base URL, and waits for the
// load event.
func (d *Driver) Goto(target string) error {
	resolved, err := browser.ResolveURL(d.baseURL, target)
	if err != nil {
		return err
	}
	page := d.timed()
	if err := page.Navigate(resolved); err != nil {
		return fmt.Errorf("navigation to %s failed: %w", resolved, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("waiting for %s: %w", resolved, err)
	}
	debugLog.Debugf("navigated to %s", resolved)
	return nil
}

// Locate returns a lazy element: the selector is queried on every operation,
// so elements survive page reloads.
func (d *Driver) Locate(kind element.Kind, selector string) (element.Element, error) {
	base := node{driver: d, selector: selector}
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

// Close closes the page and the browser connection.
func (d *Driver) Close() error {
	var targets []closeTarget
	if d.page != nil {
		targets = append(targets, closeTarget{"page", d.page})
	}
	if d.browser != nil {
		targets = append(targets, closeTarget{"browser", d.browser})
	}
	return closeAll(targets...)
}

type closeTarget struct {
	name string
	c    interface{ Close() error }
}

// closeAll closes every target in order, also after a failure, and joins the
// errors.
func closeAll(targets ...closeTarget) error {
	var errs []error
	for _, t := range targets {
		if err := t.c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close %s: %w", t.name, err))
		}
	}
	return errors.Join(errs...)
}

var _ element.Driver = (*Driver)(nil)
