// Package config loads the YAML configuration of a page object run.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/entrhq/pagekit/pkg/browser"
	"github.com/entrhq/pagekit/pkg/rodbrowser"
	"gopkg.in/yaml.v3"
)

// Config represents the configuration of one run
type Config struct {
	// Base URL relative navigation targets are resolved against
	BaseURL string `yaml:"base_url" json:"base_url"`

	// Records file, a YAML list of mappings. Relative paths are resolved
	// against the directory of the config file.
	Records string `yaml:"records" json:"records"`

	// Actions run for every record
	Actions []string `yaml:"actions" json:"actions"`

	// Maximum number of concurrent browser sessions
	MaxSessions int `yaml:"max_sessions" json:"max_sessions"`

	// Browser settings
	Browser BrowserConfig `yaml:"browser" json:"browser"`

	// Path of the file the configuration was loaded from, if any
	Path string `yaml:"-" json:"-"`
}

// Engine selects the element driver
type Engine string

const (
	// EnginePlaywright drives the browser through Playwright
	EnginePlaywright Engine = "playwright"
	// EngineRod drives Chrome directly over the DevTools protocol
	EngineRod Engine = "rod"
	// EngineMemory records interactions without a browser
	EngineMemory Engine = "memory"
)

// BrowserConfig defines how browser sessions are launched
type BrowserConfig struct {
	Engine   Engine         `yaml:"engine" json:"engine"`
	Headless bool           `yaml:"headless" json:"headless"`
	Timeout  time.Duration  `yaml:"timeout" json:"timeout"`
	Viewport ViewportConfig `yaml:"viewport" json:"viewport"`

	// DebuggerURL attaches the rod engine to a running browser
	DebuggerURL string `yaml:"debugger_url" json:"debugger_url"`
}

// ViewportConfig is the initial browser viewport size
type ViewportConfig struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// Default returns a configuration suitable for most runs
func Default() *Config {
	return &Config{
		Actions:     []string{"populate", "verify"},
		MaxSessions: browser.DefaultMaxSessions,
		Browser: BrowserConfig{
			Engine:   EnginePlaywright,
			Headless: true,
			Timeout:  30 * time.Second,
			Viewport: ViewportConfig{
				Width:  browser.DefaultViewportWidth,
				Height: browser.DefaultViewportHeight,
			},
		},
	}
}

// Load reads a YAML configuration file on top of Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.Path = path
	if cfg.Records != "" && !filepath.IsAbs(cfg.Records) {
		cfg.Records = filepath.Join(filepath.Dir(path), cfg.Records)
	}
	return cfg, nil
}

// Parse decodes YAML configuration data on top of Default.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil {
			return fmt.Errorf("invalid base_url: %w", err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("base_url must be absolute, got %q", c.BaseURL)
		}
	}

	if len(c.Actions) == 0 {
		return fmt.Errorf("at least one action is required")
	}
	for _, action := range c.Actions {
		if action == "" {
			return fmt.Errorf("action names cannot be empty")
		}
	}

	if c.MaxSessions < 1 {
		return fmt.Errorf("max_sessions must be at least 1")
	}

	switch c.Browser.Engine {
	case EnginePlaywright, EngineRod, EngineMemory:
	default:
		return fmt.Errorf("invalid browser engine: %s (must be 'playwright', 'rod' or 'memory')", c.Browser.Engine)
	}
	if c.Browser.Timeout < 0 {
		return fmt.Errorf("browser timeout cannot be negative")
	}
	if c.Browser.Viewport.Width < 0 || c.Browser.Viewport.Height < 0 {
		return fmt.Errorf("browser viewport cannot be negative")
	}

	return nil
}

func (c *Config) viewport() *browser.Viewport {
	if c.Browser.Viewport.Width > 0 && c.Browser.Viewport.Height > 0 {
		return &browser.Viewport{
			Width:  c.Browser.Viewport.Width,
			Height: c.Browser.Viewport.Height,
		}
	}
	return nil
}

// RodOptions converts the browser settings for rodbrowser.Connect.
func (c *Config) RodOptions() rodbrowser.Options {
	return rodbrowser.Options{
		DebuggerURL: c.Browser.DebuggerURL,
		Headless:    c.Browser.Headless,
		Viewport:    c.viewport(),
		Timeout:     c.Browser.Timeout,
		BaseURL:     c.BaseURL,
	}
}

// SessionOptions converts the browser settings for browser.SessionManager.
func (c *Config) SessionOptions() browser.SessionOptions {
	return browser.SessionOptions{
		Headless: c.Browser.Headless,
		Viewport: c.viewport(),
		Timeout:  float64(c.Browser.Timeout.Milliseconds()),
		BaseURL:  c.BaseURL,
	}
}
