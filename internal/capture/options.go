package capture

import (
	"fmt"
	"time"
)

// Clipboard sources.
const (
	// ClipboardPage reads navigator.clipboard inside the page.
	ClipboardPage = "page"
	// ClipboardSystem reads the operating system clipboard; only useful for
	// headed runs on a desktop session.
	ClipboardSystem = "system"
)

const (
	DefaultInputSelector = `textarea[data-testid="user-prompt-textarea"]`
	DefaultCopySelector  = `[prop-events-value-onclick="handleCopyResponseBtnClick"]`

	DefaultNavigationTimeoutSeconds = 30
	DefaultElementTimeoutSeconds    = 10
	DefaultResponseTimeoutSeconds   = 120
	DefaultClipboardTimeoutSeconds  = 10
	DefaultIdleWindowMs             = 2000

	DefaultViewportWidth  = 1920
	DefaultViewportHeight = 1080
)

// DefaultLaunchFlags are passed to a locally launched browser.
var DefaultLaunchFlags = []string{
	"--start-maximized",
	"--disable-blink-features=AutomationControlled",
	"--disable-extensions",
}

// BrowserOptions configures a BrowserEngine.
type BrowserOptions struct {
	// ControlURL connects to an already running browser instead of launching one.
	ControlURL  string `mapstructure:"control_url"`
	Bin         string `mapstructure:"bin"`
	Headless    bool   `mapstructure:"headless"`
	NoSandbox   bool   `mapstructure:"no_sandbox"`
	UserDataDir string `mapstructure:"user_data_dir"`

	// ExtraFlags are appended to DefaultLaunchFlags, e.g. "--lang=en-US".
	ExtraFlags []string `mapstructure:"extra_flags"`

	ViewportWidth  int `mapstructure:"viewport_width"`
	ViewportHeight int `mapstructure:"viewport_height"`

	InputSelector string `mapstructure:"input_selector"`
	CopySelector  string `mapstructure:"copy_selector"`

	NavigationTimeoutSeconds int `mapstructure:"navigation_timeout_seconds"`
	ElementTimeoutSeconds    int `mapstructure:"element_timeout_seconds"`
	ResponseTimeoutSeconds   int `mapstructure:"response_timeout_seconds"`
	ClipboardTimeoutSeconds  int `mapstructure:"clipboard_timeout_seconds"`
	IdleWindowMs             int `mapstructure:"idle_window_ms"`

	ClipboardSource string `mapstructure:"clipboard_source"`

	// ScreenshotDir, when set, receives a screenshot of the page for every failed capture.
	ScreenshotDir string `mapstructure:"screenshot_dir"`
}

// DefaultBrowserOptions returns the options used when the config leaves a field unset.
func DefaultBrowserOptions() BrowserOptions {
	return BrowserOptions{
		ViewportWidth:            DefaultViewportWidth,
		ViewportHeight:           DefaultViewportHeight,
		InputSelector:            DefaultInputSelector,
		CopySelector:             DefaultCopySelector,
		NavigationTimeoutSeconds: DefaultNavigationTimeoutSeconds,
		ElementTimeoutSeconds:    DefaultElementTimeoutSeconds,
		ResponseTimeoutSeconds:   DefaultResponseTimeoutSeconds,
		ClipboardTimeoutSeconds:  DefaultClipboardTimeoutSeconds,
		IdleWindowMs:             DefaultIdleWindowMs,
		ClipboardSource:          ClipboardPage,
	}
}

// Validate checks option values.
func (o BrowserOptions) Validate() error {
	if o.InputSelector == "" || o.CopySelector == "" {
		return fmt.Errorf("capture: input_selector and copy_selector are required")
	}
	for name, v := range map[string]int{
		"navigation_timeout_seconds": o.NavigationTimeoutSeconds,
		"element_timeout_seconds":    o.ElementTimeoutSeconds,
		"response_timeout_seconds":   o.ResponseTimeoutSeconds,
		"clipboard_timeout_seconds":  o.ClipboardTimeoutSeconds,
	} {
		if v <= 0 {
			return fmt.Errorf("capture: %s must be positive, got %d", name, v)
		}
	}
	if o.IdleWindowMs < 0 {
		return fmt.Errorf("capture: idle_window_ms cannot be negative")
	}
	switch o.ClipboardSource {
	case ClipboardPage, ClipboardSystem:
	default:
		return fmt.Errorf("capture: clipboard_source must be %q or %q, got %q", ClipboardPage, ClipboardSystem, o.ClipboardSource)
	}
	return nil
}

func (o BrowserOptions) navigationTimeout() time.Duration {
	return time.Duration(o.NavigationTimeoutSeconds) * time.Second
}

func (o BrowserOptions) elementTimeout() time.Duration {
	return time.Duration(o.ElementTimeoutSeconds) * time.Second
}

func (o BrowserOptions) responseTimeout() time.Duration {
	return time.Duration(o.ResponseTimeoutSeconds) * time.Second
}

func (o BrowserOptions) clipboardTimeout() time.Duration {
	return time.Duration(o.ClipboardTimeoutSeconds) * time.Second
}

func (o BrowserOptions) idleWindow() time.Duration {
	return time.Duration(o.IdleWindowMs) * time.Millisecond
}
