package capture

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
)

//go:generate go tool mockgen -destination=mock_page_driver_test.go -package=capture . pageDriver

// pageDriver is the small slice of [rod.Page] the engine needs. Every call
// is bounded by ctx.
type pageDriver interface {
	// Navigate loads url and waits for the load event.
	Navigate(ctx context.Context, url string) error

	// ArmIdleWait starts watching network requests. The returned func blocks
	// until no request has been in flight for window, or ctx is done.
	ArmIdleWait(ctx context.Context, window time.Duration) func() error

	// Submit types text into the element matching selector and presses Enter.
	Submit(ctx context.Context, selector, text string) error

	// Click clicks the element matching selector once it is visible.
	Click(ctx context.Context, selector string) error

	// EvalString evaluates a JS function (awaiting promises) and returns its string result.
	EvalString(ctx context.Context, js string) (string, error)

	// Screenshot captures the visible viewport as PNG.
	Screenshot(ctx context.Context) ([]byte, error)

	// Close closes the page and the browser it owns.
	Close() error
}

type newDriverFunc func(ctx context.Context, opts BrowserOptions) (pageDriver, error)

// launchRodDriver starts (or connects to) a browser, grants clipboard
// permissions and opens one page sized to the configured viewport.
func launchRodDriver(ctx context.Context, opts BrowserOptions) (pageDriver, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d := &rodDriver{}

	controlURL := opts.ControlURL
	if controlURL == "" {
		l := launcher.New().Headless(opts.Headless).NoSandbox(opts.NoSandbox)
		if opts.Bin != "" {
			l = l.Bin(opts.Bin)
		}
		if opts.UserDataDir != "" {
			l = l.UserDataDir(opts.UserDataDir)
		}
		for _, raw := range append(append([]string(nil), DefaultLaunchFlags...), opts.ExtraFlags...) {
			name, val, hasVal := strings.Cut(strings.TrimLeft(raw, "-"), "=")
			if hasVal {
				l = l.Set(flags.Flag(name), val)
			} else {
				l = l.Set(flags.Flag(name))
			}
		}

		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch browser: %w", err)
		}
		d.launcher = l
		controlURL = u
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		d.cleanup()
		return nil, fmt.Errorf("connect to browser: %w", err)
	}
	d.browser = browser

	if err := (proto.BrowserGrantPermissions{
		Permissions: []proto.BrowserPermissionType{
			proto.BrowserPermissionTypeClipboardReadWrite,
			proto.BrowserPermissionTypeClipboardSanitizedWrite,
		},
	}).Call(browser); err != nil {
		d.cleanup()
		return nil, fmt.Errorf("grant clipboard permissions: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		d.cleanup()
		return nil, fmt.Errorf("create page: %w", err)
	}
	d.page = page

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             opts.ViewportWidth,
		Height:            opts.ViewportHeight,
		DeviceScaleFactor: 1.0,
		Mobile:            false,
	}).Call(page); err != nil {
		d.cleanup()
		return nil, fmt.Errorf("set viewport: %w", err)
	}

	return d, nil
}

type rodDriver struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
}

func (d *rodDriver) Navigate(ctx context.Context, url string) error {
	p := d.page.Context(ctx)
	if err := p.Navigate(url); err != nil {
		return err
	}
	if _, err := p.Activate(); err != nil {
		return err
	}
	return p.WaitLoad()
}

func (d *rodDriver) ArmIdleWait(ctx context.Context, window time.Duration) func() error {
	wait := d.page.Context(ctx).WaitRequestIdle(window, nil, nil, nil)
	return func() error {
		wait()
		return ctx.Err()
	}
}

func (d *rodDriver) Submit(ctx context.Context, selector, text string) error {
	el, err := d.page.Context(ctx).Element(selector)
	if err != nil {
		return fmt.Errorf("input %q: %w", selector, err)
	}
	if err := el.Input(text); err != nil {
		return fmt.Errorf("fill input: %w", err)
	}
	if err := el.Type(input.Enter); err != nil {
		return fmt.Errorf("press enter: %w", err)
	}
	return nil
}

func (d *rodDriver) Click(ctx context.Context, selector string) error {
	el, err := d.page.Context(ctx).Element(selector)
	if err != nil {
		return fmt.Errorf("control %q: %w", selector, err)
	}
	if err := el.WaitVisible(); err != nil {
		return fmt.Errorf("control %q not visible: %w", selector, err)
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (d *rodDriver) EvalString(ctx context.Context, js string) (string, error) {
	res, err := d.page.Context(ctx).Evaluate(rod.Eval(js).ByPromise().ByUser())
	if err != nil {
		return "", err
	}
	if res == nil || res.Value.Nil() {
		return "", nil
	}
	return res.Value.Str(), nil
}

func (d *rodDriver) Screenshot(ctx context.Context) ([]byte, error) {
	return d.page.Context(ctx).Screenshot(false, nil)
}

func (d *rodDriver) Close() error {
	var err error
	if d.page != nil {
		err = d.page.Close()
	}
	d.cleanup()
	return err
}

func (d *rodDriver) cleanup() {
	if d.browser != nil {
		_ = d.browser.Close()
	}
	if d.launcher != nil {
		d.launcher.Kill()
		d.launcher.Cleanup()
	}
}
