package engine

import (
	"context"
	"sync"

	"github.com/wayfarerhq/wayfarer/internal/driver"
	"github.com/wayfarerhq/wayfarer/internal/events"
	"github.com/wayfarerhq/wayfarer/internal/model"
	"github.com/wayfarerhq/wayfarer/internal/plugin"
)

// fakeDriver is an in-memory Driver for engine tests.
type fakeDriver struct {
	mu          sync.Mutex
	requestSubs map[int]func(string)
	nextSub     int
	closeCount  int

	currentURL    string
	screenshot    []byte
	screenshotErr error
	metrics       model.Metrics
	metricsErr    error
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		requestSubs: make(map[int]func(string)),
		currentURL:  "about:blank",
	}
}

func (f *fakeDriver) Navigate(context.Context, string) error     { return nil }
func (f *fakeDriver) Click(context.Context, string) error        { return nil }
func (f *fakeDriver) Type(context.Context, string, string) error { return nil }
func (f *fakeDriver) WaitVisible(context.Context, string) error  { return nil }
func (f *fakeDriver) WaitForLoad(context.Context) error          { return nil }

func (f *fakeDriver) URL(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.currentURL, nil
}

func (f *fakeDriver) OnRequest(fn func(string)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextSub
	f.nextSub++
	f.requestSubs[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.requestSubs, id)
	}
}

func (f *fakeDriver) OnConsole(func(driver.ConsoleMessage)) func() {
	return func() {}
}

func (f *fakeDriver) Screenshot(context.Context) ([]byte, error) {
	return f.screenshot, f.screenshotErr
}

func (f *fakeDriver) Metrics(context.Context) (model.Metrics, error) {
	return f.metrics, f.metricsErr
}

func (f *fakeDriver) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closeCount++
	return nil
}

func (f *fakeDriver) closes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closeCount
}

// fire simulates a navigation request observed by the browser.
func (f *fakeDriver) fire(url string) {
	f.mu.Lock()
	subs := make([]func(string), 0, len(f.requestSubs))
	for _, fn := range f.requestSubs {
		subs = append(subs, fn)
	}
	f.mu.Unlock()
	for _, fn := range subs {
		fn(url)
	}
}

// fakeManager is an in-memory plugin.Manager.
type fakeManager struct {
	mu        sync.Mutex
	steps     []string
	perf      *fakePerf
	artifacts model.Artifacts
	outputs   int
	stepErr   error
}

func (m *fakeManager) OnStep(_ context.Context, step string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, step)
	return m.stepErr
}

func (m *fakeManager) Get(kind plugin.Kind) (plugin.Plugin, bool) {
	if kind == plugin.KindPerformance && m.perf != nil {
		return m.perf, true
	}
	return nil, false
}

func (m *fakeManager) Output(context.Context, bool) (model.Artifacts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outputs++
	return m.artifacts, nil
}

type fakePerf struct {
	metrics model.Metrics
	err     error
}

func (p *fakePerf) Kind() plugin.Kind { return plugin.KindPerformance }

func (p *fakePerf) Metrics(context.Context) (model.Metrics, error) {
	return p.metrics, p.err
}

// harness bundles a runner with its fakes and a recorded event log.
type harness struct {
	runner  *Runner
	drivers []*fakeDriver
	manager *fakeManager

	mu     sync.Mutex
	events []events.Event
}

func newHarness() *harness {
	h := &harness{manager: &fakeManager{}}
	h.runner = New(Config{
		NewDriver: func(context.Context, driver.Options) (driver.Driver, error) {
			drv := newFakeDriver()
			h.mu.Lock()
			h.drivers = append(h.drivers, drv)
			h.mu.Unlock()
			return drv, nil
		},
		NewPlugins: func(context.Context, driver.Driver, plugin.Options) (plugin.Manager, error) {
			return h.manager, nil
		},
	})
	h.runner.Bus().SubscribeAll(func(ev events.Event) error {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.events = append(h.events, ev)
		return nil
	})
	return h
}

func (h *harness) eventTypes() []events.Type {
	h.mu.Lock()
	defer h.mu.Unlock()
	types := make([]events.Type, len(h.events))
	for i, ev := range h.events {
		types[i] = ev.Type
	}
	return types
}

func (h *harness) countType(t events.Type) int {
	count := 0
	for _, et := range h.eventTypes() {
		if et == t {
			count++
		}
	}
	return count
}

// discard silences the default reporter in tests.
type nopReporter struct{}

func (nopReporter) Subscribe(*events.Bus) events.Subscription { return nil }

func baseOptions() RunOptions {
	return RunOptions{Reporter: nopReporter{}}
}
