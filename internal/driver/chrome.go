package driver

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/performance"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/wayfarerhq/wayfarer/internal/model"
)

// Chrome drives a real browser session through the DevTools protocol.
type Chrome struct {
	allocCtx      context.Context
	browserCtx    context.Context
	allocCancel   context.CancelFunc
	browserCancel context.CancelFunc

	mu            sync.Mutex
	nextID        int
	requestSubs   map[int]func(string)
	consoleSubs   map[int]func(ConsoleMessage)
	closed        bool
}

var _ Driver = (*Chrome)(nil)

// NewChrome launches a browser and returns a driver bound to a fresh tab.
// The returned driver must be closed by the caller.
func NewChrome(ctx context.Context, opts Options) (Driver, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("no-default-browser-check", true),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	c := &Chrome{
		allocCtx:      allocCtx,
		browserCtx:    browserCtx,
		allocCancel:   allocCancel,
		browserCancel: browserCancel,
		requestSubs:   make(map[int]func(string)),
		consoleSubs:   make(map[int]func(ConsoleMessage)),
	}

	chromedp.ListenTarget(browserCtx, c.dispatch)

	if err := chromedp.Run(browserCtx, performance.Enable()); err != nil {
		c.release()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	return c, nil
}

func (c *Chrome) dispatch(ev any) {
	switch ev := ev.(type) {
	case *network.EventRequestWillBeSent:
		if ev.Type != network.ResourceTypeDocument {
			return
		}
		c.mu.Lock()
		subs := make([]func(string), 0, len(c.requestSubs))
		for _, fn := range c.requestSubs {
			subs = append(subs, fn)
		}
		c.mu.Unlock()
		for _, fn := range subs {
			fn(ev.Request.URL)
		}
	case *runtime.EventConsoleAPICalled:
		msg := ConsoleMessage{Type: string(ev.Type), Text: consoleText(ev.Args)}
		c.mu.Lock()
		subs := make([]func(ConsoleMessage), 0, len(c.consoleSubs))
		for _, fn := range c.consoleSubs {
			subs = append(subs, fn)
		}
		c.mu.Unlock()
		for _, fn := range subs {
			fn(msg)
		}
	}
}

func consoleText(args []*runtime.RemoteObject) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		if arg == nil {
			continue
		}
		if len(arg.Value) > 0 {
			parts = append(parts, strings.Trim(string(arg.Value), `"`))
			continue
		}
		if arg.Description != "" {
			parts = append(parts, arg.Description)
		}
	}
	return strings.Join(parts, " ")
}

// Navigate loads url in the driver's tab.
func (c *Chrome) Navigate(ctx context.Context, url string) error {
	return c.run(ctx, chromedp.Navigate(url))
}

// Click clicks the first element matching selector.
func (c *Chrome) Click(ctx context.Context, selector string) error {
	return c.run(ctx, chromedp.Click(selector, chromedp.ByQuery))
}

// Type sends text to the element matching selector.
func (c *Chrome) Type(ctx context.Context, selector, text string) error {
	return c.run(ctx, chromedp.SendKeys(selector, text, chromedp.ByQuery))
}

// WaitVisible blocks until the element matching selector is visible.
func (c *Chrome) WaitVisible(ctx context.Context, selector string) error {
	return c.run(ctx, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

// URL reports the current page location.
func (c *Chrome) URL(ctx context.Context) (string, error) {
	var url string
	if err := c.run(ctx, chromedp.Location(&url)); err != nil {
		return "", err
	}
	return url, nil
}

// OnRequest registers fn for document navigation requests.
func (c *Chrome) OnRequest(fn func(string)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.requestSubs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.requestSubs, id)
	}
}

// OnConsole registers fn for console API calls.
func (c *Chrome) OnConsole(fn func(ConsoleMessage)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.consoleSubs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.consoleSubs, id)
	}
}

// WaitForLoad blocks until the document body is ready.
func (c *Chrome) WaitForLoad(ctx context.Context) error {
	return c.run(ctx, chromedp.WaitReady("body", chromedp.ByQuery))
}

// Screenshot captures the viewport as PNG bytes.
func (c *Chrome) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := c.run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, err
	}
	return buf, nil
}

// Metrics fetches the page's performance counters.
func (c *Chrome) Metrics(ctx context.Context) (model.Metrics, error) {
	var raw []*performance.Metric
	err := c.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		raw, err = performance.GetMetrics().Do(ctx)
		return err
	}))
	if err != nil {
		return nil, err
	}

	metrics := make(model.Metrics, len(raw))
	for _, m := range raw {
		if m == nil {
			continue
		}
		metrics[m.Name] = m.Value
	}
	return metrics, nil
}

// Close disposes the browser session and its allocator.
func (c *Chrome) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.release()
	return nil
}

func (c *Chrome) release() {
	if c.browserCancel != nil {
		c.browserCancel()
	}
	if c.allocCancel != nil {
		c.allocCancel()
	}
}

func (c *Chrome) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx := c.browserCtx
	if ctx != nil {
		if deadline, ok := ctx.Deadline(); ok {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithDeadline(c.browserCtx, deadline)
			defer cancel()
		}
	}
	return chromedp.Run(runCtx, actions...)
}
