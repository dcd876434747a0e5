// Package plugin records diagnostic capabilities alongside a journey:
// performance metrics, network request info, browser console output, and
// filmstrip snapshots. The engine looks capabilities up by Kind and never
// depends on a concrete collector.
package plugin

import (
	"context"
	"sync"

	"github.com/wayfarerhq/wayfarer/internal/driver"
	"github.com/wayfarerhq/wayfarer/internal/model"
)

// Kind tags a capability in the manager's registry.
type Kind string

const (
	// KindPerformance identifies the performance-metrics collector.
	KindPerformance Kind = "performance"
	// KindNetwork identifies the navigation-request collector.
	KindNetwork Kind = "network"
	// KindBrowserConsole identifies the console-output collector.
	KindBrowserConsole Kind = "browserconsole"
	// KindFilmstrip identifies the per-step snapshot collector.
	KindFilmstrip Kind = "filmstrip"
)

// Plugin is one capability recorded during a journey.
type Plugin interface {
	Kind() Kind
}

// StepListener is implemented by plugins that react to step boundaries.
type StepListener interface {
	OnStep(ctx context.Context, step string) error
}

// MetricsCollector exposes a point-in-time performance snapshot.
type MetricsCollector interface {
	Plugin
	Metrics(ctx context.Context) (model.Metrics, error)
}

// Manager is the engine-facing contract of a recording session.
type Manager interface {
	// OnStep notifies every step-aware plugin that a step is about to run.
	OnStep(ctx context.Context, step string) error
	// Get looks a capability up by kind.
	Get(kind Kind) (Plugin, bool)
	// Output stops recording and returns the collected artifacts. Console
	// output is included only when the journey failed.
	Output(ctx context.Context, failed bool) (model.Artifacts, error)
}

// Options selects which collectors a recording session starts.
type Options struct {
	Filmstrips bool
}

// Factory starts a recording session against a driver. The engine holds
// one session per journey and calls Output exactly once at journey end.
type Factory func(ctx context.Context, drv driver.Driver, opts Options) (Manager, error)

// Recorder is the production Manager. It owns driver subscriptions for the
// duration of one journey and releases them when Output is called.
type Recorder struct {
	mu      sync.Mutex
	plugins map[Kind]Plugin
	order   []Kind
	removes []func()
	stopped bool
}

var _ Manager = (*Recorder)(nil)

// BeginRecording starts a session: registers the default collectors and
// attaches their driver subscriptions.
func BeginRecording(ctx context.Context, drv driver.Driver, opts Options) (Manager, error) {
	r := &Recorder{plugins: make(map[Kind]Plugin)}

	r.register(&performanceCollector{drv: drv})

	network := newNetworkCollector()
	r.removes = append(r.removes, drv.OnRequest(network.record))
	r.register(network)

	console := newConsoleCollector()
	r.removes = append(r.removes, drv.OnConsole(console.record))
	r.register(console)

	if opts.Filmstrips {
		r.register(&filmstripCollector{drv: drv})
	}

	return r, nil
}

func (r *Recorder) register(p Plugin) {
	r.plugins[p.Kind()] = p
	r.order = append(r.order, p.Kind())
}

// OnStep fans the step boundary out to every step-aware plugin in
// registration order, stopping at the first failure.
func (r *Recorder) OnStep(ctx context.Context, step string) error {
	r.mu.Lock()
	kinds := append([]Kind(nil), r.order...)
	r.mu.Unlock()

	for _, kind := range kinds {
		listener, ok := r.plugins[kind].(StepListener)
		if !ok {
			continue
		}
		if err := listener.OnStep(ctx, step); err != nil {
			return err
		}
	}
	return nil
}

// Get looks a capability up by kind.
func (r *Recorder) Get(kind Kind) (Plugin, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plugins[kind]
	return p, ok
}

// Output detaches driver subscriptions and assembles the journey's
// artifacts.
func (r *Recorder) Output(ctx context.Context, failed bool) (model.Artifacts, error) {
	r.mu.Lock()
	if !r.stopped {
		r.stopped = true
		for _, remove := range r.removes {
			remove()
		}
		r.removes = nil
	}
	r.mu.Unlock()

	var artifacts model.Artifacts

	if p, ok := r.Get(KindFilmstrip); ok {
		artifacts.Filmstrips = p.(*filmstripCollector).frames()
	}
	if p, ok := r.Get(KindNetwork); ok {
		artifacts.NetworkInfo = p.(*networkCollector).requests()
	}
	if failed {
		if p, ok := r.Get(KindBrowserConsole); ok {
			artifacts.BrowserConsole = p.(*consoleCollector).entries()
		}
	}

	return artifacts, nil
}
