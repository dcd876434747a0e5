package plugin

import (
	"context"
	"encoding/base64"
	"sync"
	"time"

	"github.com/wayfarerhq/wayfarer/internal/driver"
	"github.com/wayfarerhq/wayfarer/internal/model"
)

// performanceCollector answers metrics lookups straight from the driver.
type performanceCollector struct {
	drv driver.Driver
}

func (c *performanceCollector) Kind() Kind { return KindPerformance }

func (c *performanceCollector) Metrics(ctx context.Context) (model.Metrics, error) {
	return c.drv.Metrics(ctx)
}

// networkCollector accumulates navigation requests observed on the driver's
// request stream. record runs on the driver's event goroutine.
type networkCollector struct {
	mu   sync.Mutex
	seen []model.RequestInfo
}

func newNetworkCollector() *networkCollector {
	return &networkCollector{}
}

func (c *networkCollector) Kind() Kind { return KindNetwork }

func (c *networkCollector) record(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen = append(c.seen, model.RequestInfo{URL: url, Timestamp: time.Now()})
}

func (c *networkCollector) requests() []model.RequestInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.RequestInfo(nil), c.seen...)
}

// consoleCollector accumulates browser console output.
type consoleCollector struct {
	mu   sync.Mutex
	seen []model.ConsoleEntry
}

func newConsoleCollector() *consoleCollector {
	return &consoleCollector{}
}

func (c *consoleCollector) Kind() Kind { return KindBrowserConsole }

func (c *consoleCollector) record(msg driver.ConsoleMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen = append(c.seen, model.ConsoleEntry{Type: msg.Type, Text: msg.Text, Timestamp: time.Now()})
}

func (c *consoleCollector) entries() []model.ConsoleEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.ConsoleEntry(nil), c.seen...)
}

// filmstripCollector captures one snapshot per step boundary.
type filmstripCollector struct {
	drv driver.Driver

	mu    sync.Mutex
	shots []model.Filmstrip
}

func (c *filmstripCollector) Kind() Kind { return KindFilmstrip }

func (c *filmstripCollector) OnStep(ctx context.Context, step string) error {
	shot, err := c.drv.Screenshot(ctx)
	if err != nil {
		// A missed frame is diagnostic loss, not a step failure.
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shots = append(c.shots, model.Filmstrip{
		Step:      step,
		Timestamp: time.Now(),
		Data:      base64.StdEncoding.EncodeToString(shot),
	})
	return nil
}

func (c *filmstripCollector) frames() []model.Filmstrip {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Filmstrip(nil), c.shots...)
}
