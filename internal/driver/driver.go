package driver

import (
	"context"

	"github.com/wayfarerhq/wayfarer/internal/model"
)

// ConsoleMessage is a single entry captured from the browser console.
type ConsoleMessage struct {
	Type string
	Text string
}

// Driver is the browser-automation boundary the engine executes against.
// The production implementation is Chrome (see chrome.go); tests substitute
// in-memory fakes.
type Driver interface {
	// Navigate loads the given URL in the current page.
	Navigate(ctx context.Context, url string) error
	// Click dispatches a click on the first element matching the CSS selector.
	Click(ctx context.Context, selector string) error
	// Type sends the text to the element matching the CSS selector.
	Type(ctx context.Context, selector, text string) error
	// WaitVisible blocks until the element matching the selector is visible.
	WaitVisible(ctx context.Context, selector string) error

	// URL reports the current page URL.
	URL(ctx context.Context) (string, error)
	// OnRequest subscribes to outgoing navigation requests. The returned
	// function removes the subscription; after it returns the callback is
	// never invoked again.
	OnRequest(fn func(url string)) (remove func())
	// OnConsole subscribes to browser console output. The returned function
	// removes the subscription.
	OnConsole(fn func(msg ConsoleMessage)) (remove func())
	// WaitForLoad blocks until the page's load state settles.
	WaitForLoad(ctx context.Context) error
	// Screenshot captures the current viewport as PNG bytes.
	Screenshot(ctx context.Context) ([]byte, error)
	// Metrics fetches a performance-counter snapshot for the current page.
	Metrics(ctx context.Context) (model.Metrics, error)

	// Close disposes the underlying browser session. Safe to call once per
	// driver; the engine guarantees it is called on every exit path.
	Close() error
}

// Options configures driver setup.
type Options struct {
	Headless bool
}

// Factory creates a fresh driver for one journey. The engine acquires a
// driver per journey and disposes it when the journey ends.
type Factory func(ctx context.Context, opts Options) (Driver, error)
