package capture

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spboyer/mentorqa/internal/models"
)

const (
	defaultPollInterval = 250 * time.Millisecond
	screenshotTimeout   = 10 * time.Second
)

// BrowserEngine drives one browser page through the mentor chat UI:
// navigate, type the question, wait for the network to go idle, click the
// copy control and read the clipboard. The page is reused across calls.
type BrowserEngine struct {
	opts         BrowserOptions
	newDriver    newDriverFunc
	now          func() time.Time
	pollInterval time.Duration

	driver    pageDriver
	clipboard clipboardAccess
}

// NewBrowserEngine returns an engine that launches a browser on Initialize.
func NewBrowserEngine(opts BrowserOptions) *BrowserEngine {
	return &BrowserEngine{
		opts:         opts,
		newDriver:    launchRodDriver,
		now:          time.Now,
		pollInterval: defaultPollInterval,
	}
}

func (e *BrowserEngine) Initialize(ctx context.Context) error {
	if e.driver != nil {
		return nil
	}

	driver, err := e.newDriver(ctx, e.opts)
	if err != nil {
		return fmt.Errorf("%w: starting browser: %w", ErrCaptureFailure, err)
	}
	e.driver = driver

	if e.opts.ClipboardSource == ClipboardSystem {
		e.clipboard = systemClipboard{}
	} else {
		e.clipboard = pageClipboard{driver: driver}
	}

	log.Debug().
		Bool("headless", e.opts.Headless).
		Str("clipboard", e.opts.ClipboardSource).
		Msg("browser ready")
	return nil
}

func (e *BrowserEngine) Fetch(ctx context.Context, endpoint, question string) models.CaptureResult {
	result := models.CaptureResult{Question: question}

	if e.driver == nil {
		result.Err = fmt.Errorf("%w: browser not initialized", ErrCaptureFailure)
		result.CapturedAt = e.now()
		return result
	}

	response, err := e.capture(ctx, endpoint, question)
	result.CapturedAt = e.now()
	if err != nil {
		result.Err = err
		e.saveScreenshot(ctx, endpoint)
		return result
	}

	result.Response = response
	return result
}

func (e *BrowserEngine) capture(ctx context.Context, endpoint, question string) (string, error) {
	window := e.opts.idleWindow()

	err := bounded(ctx, "navigation", e.opts.navigationTimeout(), func(ctx context.Context) error {
		if err := e.driver.Navigate(ctx, endpoint); err != nil {
			return err
		}
		return e.driver.ArmIdleWait(ctx, window)()
	})
	if err != nil {
		return "", err
	}

	err = bounded(ctx, "response", e.opts.responseTimeout(), func(ctx context.Context) error {
		wait := e.driver.ArmIdleWait(ctx, window)
		err := bounded(ctx, "question input", e.opts.elementTimeout(), func(ctx context.Context) error {
			return e.driver.Submit(ctx, e.opts.InputSelector, question)
		})
		if err != nil {
			return err
		}
		return wait()
	})
	if err != nil {
		return "", err
	}

	err = bounded(ctx, "copy control", e.opts.elementTimeout(), func(ctx context.Context) error {
		if err := e.clipboard.Clear(ctx); err != nil {
			return fmt.Errorf("clear clipboard: %w", err)
		}
		return e.driver.Click(ctx, e.opts.CopySelector)
	})
	if err != nil {
		return "", err
	}

	var response string
	err = bounded(ctx, "clipboard", e.opts.clipboardTimeout(), func(ctx context.Context) error {
		var lastErr error
		for {
			text, err := e.clipboard.Read(ctx)
			if err == nil && strings.TrimSpace(text) != "" {
				response = strings.TrimSpace(text)
				return nil
			}
			lastErr = err

			select {
			case <-ctx.Done():
				if lastErr != nil {
					return fmt.Errorf("%w (last read error: %v)", ctx.Err(), lastErr)
				}
				return fmt.Errorf("clipboard stayed empty: %w", ctx.Err())
			case <-time.After(e.pollInterval):
			}
		}
	})
	if err != nil {
		return "", err
	}

	return response, nil
}

// bounded runs fn with a deadline of limit and classifies its error.
// Errors already classified by a nested stage pass through unchanged.
func bounded(ctx context.Context, stage string, limit time.Duration, fn func(context.Context) error) error {
	sctx, cancel := context.WithTimeout(ctx, limit)
	defer cancel()

	err := fn(sctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrCaptureTimeout), errors.Is(err, ErrCaptureFailure):
		return err
	case ctx.Err() != nil:
		return fmt.Errorf("%w: %s interrupted: %w", ErrCaptureFailure, stage, ctx.Err())
	case errors.Is(err, context.DeadlineExceeded), errors.Is(sctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %s did not complete within %s", ErrCaptureTimeout, stage, limit)
	default:
		return fmt.Errorf("%w: %s: %w", ErrCaptureFailure, stage, err)
	}
}

func (e *BrowserEngine) saveScreenshot(ctx context.Context, endpoint string) {
	if e.opts.ScreenshotDir == "" {
		return
	}

	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), screenshotTimeout)
	defer cancel()

	data, err := e.driver.Screenshot(sctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to take failure screenshot")
		return
	}

	if err := os.MkdirAll(e.opts.ScreenshotDir, 0755); err != nil {
		log.Warn().Err(err).Str("dir", e.opts.ScreenshotDir).Msg("failed to create screenshot dir")
		return
	}

	name := fmt.Sprintf("%s_%s_failure.png", screenshotStem(endpoint), e.now().Format("20060102_150405"))
	path := filepath.Join(e.opts.ScreenshotDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to write failure screenshot")
		return
	}
	log.Info().Str("path", path).Msg("saved failure screenshot")
}

func screenshotStem(endpoint string) string {
	host := endpoint
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		host = u.Host + u.Path
	}
	stem := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		default:
			return '_'
		}
	}, host)
	stem = strings.Trim(stem, "_")
	if stem == "" {
		return "page"
	}
	return stem
}

func (e *BrowserEngine) Shutdown(ctx context.Context) error {
	if e.driver == nil {
		return nil
	}
	err := e.driver.Close()
	e.driver = nil
	e.clipboard = nil
	if err != nil {
		return fmt.Errorf("closing browser: %w", err)
	}
	return nil
}
