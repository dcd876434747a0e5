package plugin

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wayfarerhq/wayfarer/internal/driver"
	"github.com/wayfarerhq/wayfarer/internal/model"
)

type fakeDriver struct {
	mu          sync.Mutex
	requestSubs []func(string)
	consoleSubs []func(driver.ConsoleMessage)
	metrics     model.Metrics
	metricsErr  error
	screenshot  []byte
	removed     int
}

func (f *fakeDriver) Navigate(context.Context, string) error      { return nil }
func (f *fakeDriver) Click(context.Context, string) error         { return nil }
func (f *fakeDriver) Type(context.Context, string, string) error  { return nil }
func (f *fakeDriver) WaitVisible(context.Context, string) error   { return nil }
func (f *fakeDriver) URL(context.Context) (string, error)         { return "about:blank", nil }
func (f *fakeDriver) WaitForLoad(context.Context) error           { return nil }
func (f *fakeDriver) Close() error                                { return nil }

func (f *fakeDriver) OnRequest(fn func(string)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requestSubs = append(f.requestSubs, fn)
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.removed++
	}
}

func (f *fakeDriver) OnConsole(fn func(driver.ConsoleMessage)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.consoleSubs = append(f.consoleSubs, fn)
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.removed++
	}
}

func (f *fakeDriver) Screenshot(context.Context) ([]byte, error) {
	return f.screenshot, nil
}

func (f *fakeDriver) Metrics(context.Context) (model.Metrics, error) {
	return f.metrics, f.metricsErr
}

func (f *fakeDriver) fireRequest(url string) {
	f.mu.Lock()
	subs := append(([]func(string))(nil), f.requestSubs...)
	f.mu.Unlock()
	for _, fn := range subs {
		fn(url)
	}
}

func (f *fakeDriver) fireConsole(msg driver.ConsoleMessage) {
	f.mu.Lock()
	subs := append(([]func(driver.ConsoleMessage))(nil), f.consoleSubs...)
	f.mu.Unlock()
	for _, fn := range subs {
		fn(msg)
	}
}

func TestGetReturnsRegisteredCapabilities(t *testing.T) {
	t.Parallel()

	drv := &fakeDriver{metrics: model.Metrics{"FirstContentfulPaint": 120}}
	mgr, err := BeginRecording(context.Background(), drv, Options{})
	require.NoError(t, err)

	p, ok := mgr.Get(KindPerformance)
	require.True(t, ok)

	collector, ok := p.(MetricsCollector)
	require.True(t, ok)

	metrics, err := collector.Metrics(context.Background())
	require.NoError(t, err)
	require.Equal(t, float64(120), metrics["FirstContentfulPaint"])

	_, ok = mgr.Get(KindFilmstrip)
	require.False(t, ok, "filmstrips are opt-in")
}

func TestOutputCollectsNetworkAndDetaches(t *testing.T) {
	t.Parallel()

	drv := &fakeDriver{}
	mgr, err := BeginRecording(context.Background(), drv, Options{})
	require.NoError(t, err)

	drv.fireRequest("https://example.com/")
	drv.fireRequest("https://example.com/cart")

	artifacts, err := mgr.Output(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, artifacts.NetworkInfo, 2)
	require.Equal(t, "https://example.com/", artifacts.NetworkInfo[0].URL)
	require.Equal(t, 2, drv.removed, "request and console subscriptions detached")
}

func TestOutputIncludesConsoleOnlyOnFailure(t *testing.T) {
	t.Parallel()

	drv := &fakeDriver{}
	mgr, err := BeginRecording(context.Background(), drv, Options{})
	require.NoError(t, err)

	drv.fireConsole(driver.ConsoleMessage{Type: "error", Text: "boom"})

	artifacts, err := mgr.Output(context.Background(), false)
	require.NoError(t, err)
	require.Empty(t, artifacts.BrowserConsole)

	artifacts, err = mgr.Output(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, artifacts.BrowserConsole, 1)
	require.Equal(t, "boom", artifacts.BrowserConsole[0].Text)
}

func TestFilmstripCapturesPerStep(t *testing.T) {
	t.Parallel()

	drv := &fakeDriver{screenshot: []byte{0x89, 0x50}}
	mgr, err := BeginRecording(context.Background(), drv, Options{Filmstrips: true})
	require.NoError(t, err)

	require.NoError(t, mgr.OnStep(context.Background(), "open homepage"))
	require.NoError(t, mgr.OnStep(context.Background(), "add to cart"))

	artifacts, err := mgr.Output(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, artifacts.Filmstrips, 2)
	require.Equal(t, "open homepage", artifacts.Filmstrips[0].Step)
	require.NotEmpty(t, artifacts.Filmstrips[0].Data)
}

func TestOnStepStopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	r := &Recorder{plugins: make(map[Kind]Plugin)}
	r.register(failingListener{})

	err := r.OnStep(context.Background(), "open")
	require.Error(t, err)
	require.EqualError(t, err, "listener down")
}

type failingListener struct{}

func (failingListener) Kind() Kind { return Kind("failing") }

func (failingListener) OnStep(context.Context, string) error {
	return errors.New("listener down")
}
