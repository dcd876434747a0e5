// Package engine executes registered journeys through a fixed lifecycle
// and publishes a typed event stream that reporters and plugins consume.
// Journeys run strictly one after another; within a journey, steps run
// strictly sequentially with skip-on-first-failure. The only fan-out is
// within a single hook phase.
package engine

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/wayfarerhq/wayfarer/internal/driver"
	"github.com/wayfarerhq/wayfarer/internal/events"
	"github.com/wayfarerhq/wayfarer/internal/journey"
	"github.com/wayfarerhq/wayfarer/internal/logger"
	"github.com/wayfarerhq/wayfarer/internal/model"
	"github.com/wayfarerhq/wayfarer/internal/plugin"
	"github.com/wayfarerhq/wayfarer/internal/reporter"
	wferrors "github.com/wayfarerhq/wayfarer/pkg/errors"
)

// Config wires the runner's collaborators. Zero values get production
// defaults: a Chrome driver factory and the recording plugin manager.
type Config struct {
	Logger     *logger.Logger
	NewDriver  driver.Factory
	NewPlugins plugin.Factory
}

// RunOptions is the per-run configuration surface.
type RunOptions struct {
	// Params is handed to every journey callback and surfaced in events.
	Params model.Params
	// Metrics enables per-step performance snapshots.
	Metrics bool
	// Screenshots enables per-step screenshot capture.
	Screenshots bool
	// Filmstrips enables per-step filmstrip frames in journey artifacts.
	Filmstrips bool
	// PauseOnError blocks the run after a failed step until Resumer fires.
	PauseOnError bool
	// Resumer supplies the external resume signal for PauseOnError.
	Resumer Resumer
	// JourneyName restricts the run to the journey with this exact name.
	JourneyName string
	// DryRun registers journeys without executing them.
	DryRun bool
	// Reporter is an explicit reporter instance; it wins over ReporterName.
	Reporter reporter.Reporter
	// ReporterName selects a built-in reporter. Empty means the default.
	ReporterName string
	// Out is where the resolved reporter writes. Defaults to stdout.
	Out io.Writer
	// Driver configures browser setup for each journey.
	Driver driver.Options
}

// Runner orchestrates a set of registered journeys. At most one run is
// active per instance; a second concurrent Run returns an empty result
// without side effects.
type Runner struct {
	cfg Config
	bus *events.Bus

	mu        sync.Mutex
	active    bool
	journeys  []*journey.Journey
	current   *journey.Journey
	beforeAll []journey.Hook
	afterAll  []journey.Hook
}

// New creates a runner. Missing Config fields fall back to production
// defaults.
func New(cfg Config) *Runner {
	if cfg.NewDriver == nil {
		cfg.NewDriver = driver.NewChrome
	}
	if cfg.NewPlugins == nil {
		cfg.NewPlugins = plugin.BeginRecording
	}
	return &Runner{
		cfg: cfg,
		bus: events.NewBus(cfg.Logger),
	}
}

// Bus exposes the event stream for additional subscribers.
func (r *Runner) Bus() *events.Bus {
	return r.bus
}

// Journey registers a journey for the next run.
func (r *Runner) Journey(name string, cb journey.Callback) *journey.Journey {
	j := journey.New(name, cb)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.journeys = append(r.journeys, j)
	return j
}

// Step registers a step on the journey currently being registered. Valid
// only inside a journey callback; calling it elsewhere is a programming
// error.
func (r *Runner) Step(name string, fn journey.StepFunc) {
	r.mu.Lock()
	current := r.current
	r.mu.Unlock()
	if current == nil {
		panic("engine: Step called outside a journey callback")
	}
	current.AddStep(name, fn)
}

// Before registers a hook on the journey currently being registered.
func (r *Runner) Before(h journey.Hook) {
	r.mu.Lock()
	current := r.current
	r.mu.Unlock()
	if current == nil {
		panic("engine: Before called outside a journey callback")
	}
	current.AddBefore(h)
}

// After registers a hook on the journey currently being registered.
func (r *Runner) After(h journey.Hook) {
	r.mu.Lock()
	current := r.current
	r.mu.Unlock()
	if current == nil {
		panic("engine: After called outside a journey callback")
	}
	current.AddAfter(h)
}

// BeforeAll registers a hook run once before any journey executes.
func (r *Runner) BeforeAll(h journey.Hook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.beforeAll = append(r.beforeAll, h)
}

// AfterAll registers a hook run once after all journeys finish.
func (r *Runner) AfterAll(h journey.Hook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.afterAll = append(r.afterAll, h)
}

// Run executes every registered journey in registration order and returns
// the accumulated result mapping. A beforeAll failure aborts the remaining
// phases and is returned alongside the (empty) partial result; an afterAll
// failure is returned alongside the collected results.
func (r *Runner) Run(ctx context.Context, opts RunOptions) (*model.RunResult, error) {
	r.mu.Lock()
	if r.active {
		r.mu.Unlock()
		return model.NewRunResult(), nil
	}
	r.active = true
	journeys := append([]*journey.Journey(nil), r.journeys...)
	beforeAll := append([]journey.Hook(nil), r.beforeAll...)
	afterAll := append([]journey.Hook(nil), r.afterAll...)
	r.mu.Unlock()

	results := model.NewRunResult()

	rep, err := r.resolveReporter(opts)
	if err != nil {
		// Bad reporter selection is recoverable; keep the registered
		// journeys so the caller can fix the option and run again.
		r.mu.Lock()
		r.active = false
		r.mu.Unlock()
		return results, err
	}
	if rep != nil {
		if sub := rep.Subscribe(r.bus); sub != nil {
			defer sub.Unsubscribe()
		}
	}

	r.bus.Emit(events.Event{Type: events.TypeStart, Payload: events.StartPayload{
		NumJourneys: len(journeys),
	}})

	if err := runHooks(ctx, beforeAll); err != nil {
		r.reset()
		return results, wferrors.NewHookError("beforeAll", err)
	}

	for _, j := range journeys {
		if opts.DryRun {
			r.bus.Emit(events.Event{Type: events.TypeJourneyRegister, Payload: events.JourneyRegisterPayload{
				Journey: j.Name,
			}})
			continue
		}
		if opts.JourneyName != "" && j.Name != opts.JourneyName {
			continue
		}
		results.Set(r.runJourney(ctx, j, opts))
	}

	var runErr error
	if err := runHooks(ctx, afterAll); err != nil {
		runErr = wferrors.NewHookError("afterAll", err)
	}

	r.reset()
	r.bus.Emit(events.Event{Type: events.TypeEnd, Payload: events.EndPayload{}})

	return results, runErr
}

func (r *Runner) resolveReporter(opts RunOptions) (reporter.Reporter, error) {
	if opts.Reporter != nil {
		return opts.Reporter, nil
	}
	name := opts.ReporterName
	if name == "" {
		name = reporter.DefaultName
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	return reporter.Resolve(name, out)
}

// reset clears per-run state so the instance can host a fresh run.
func (r *Runner) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = nil
	r.journeys = nil
	r.active = false
}
