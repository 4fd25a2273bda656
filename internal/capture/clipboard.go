package capture

import (
	"context"

	"github.com/atotto/clipboard"
)

// clipboardAccess reads and clears the clipboard the copy control writes to.
type clipboardAccess interface {
	Clear(ctx context.Context) error
	Read(ctx context.Context) (string, error)
}

const (
	readClipboardJS  = `() => navigator.clipboard.readText()`
	clearClipboardJS = `() => navigator.clipboard.writeText("")`
)

// pageClipboard uses the async clipboard API of the page.
type pageClipboard struct {
	driver pageDriver
}

func (c pageClipboard) Clear(ctx context.Context) error {
	_, err := c.driver.EvalString(ctx, clearClipboardJS)
	return err
}

func (c pageClipboard) Read(ctx context.Context) (string, error) {
	return c.driver.EvalString(ctx, readClipboardJS)
}

// systemClipboard uses the OS clipboard of the machine running the browser.
type systemClipboard struct{}

func (systemClipboard) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return clipboard.WriteAll("")
}

func (systemClipboard) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return clipboard.ReadAll()
}
