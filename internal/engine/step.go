package engine

import (
	"context"
	"encoding/base64"
	"errors"
	"sync"
	"time"

	"github.com/wayfarerhq/wayfarer/internal/events"
	"github.com/wayfarerhq/wayfarer/internal/journey"
	"github.com/wayfarerhq/wayfarer/internal/model"
	"github.com/wayfarerhq/wayfarer/internal/plugin"
	wferrors "github.com/wayfarerhq/wayfarer/pkg/errors"
)

// runStep executes one step and classifies the outcome. Errors from the
// step callback, metrics retrieval, or screenshot capture are absorbed
// into a failed result; nothing propagates past the step boundary.
func (r *Runner) runStep(ctx context.Context, step journey.Step, jctx *Context, opts RunOptions) model.StepResult {
	name := jctx.Journey.Name
	r.bus.Emit(events.Event{Type: events.TypeStepStart, Payload: events.StepStartPayload{
		Journey: name,
		Step:    step.Name,
	}})

	start := time.Now()
	res := model.StepResult{
		Journey: name,
		Name:    step.Name,
		Status:  model.StatusSucceeded,
		Start:   start,
	}

	fail := func(err error) {
		res.Status = model.StatusFailed
		if res.Error == nil {
			res.Error = err
		}
	}

	// Capture the first navigation request fired during the step so the
	// reported URL reflects real navigation. Later requests are ignored.
	var navMu sync.Mutex
	var navURL string
	var navSeen bool
	remove := jctx.Driver.OnRequest(func(url string) {
		navMu.Lock()
		defer navMu.Unlock()
		if !navSeen {
			navSeen = true
			navURL = url
		}
	})

	if err := jctx.Plugins.OnStep(ctx, step.Name); err != nil {
		fail(err)
	} else if step.Fn == nil {
		fail(wferrors.NewStepError(name, step.Name, errors.New("step has no callback")))
	} else if err := step.Fn(ctx, jctx.Driver); err != nil {
		fail(wferrors.NewStepError(name, step.Name, err))
	} else if opts.Metrics {
		if p, ok := jctx.Plugins.Get(plugin.KindPerformance); ok {
			if collector, ok := p.(plugin.MetricsCollector); ok {
				metrics, err := collector.Metrics(ctx)
				if err != nil {
					fail(wferrors.NewStepError(name, step.Name, err))
				} else {
					res.Metrics = metrics
				}
			}
		}
	}

	remove()
	navMu.Lock()
	res.URL = navURL
	navMu.Unlock()

	// Finishing actions run regardless of outcome.
	if res.URL == "" {
		if url, err := jctx.Driver.URL(ctx); err == nil {
			res.URL = url
		}
	}
	if opts.Screenshots {
		if err := jctx.Driver.WaitForLoad(ctx); err != nil {
			fail(wferrors.NewStepError(name, step.Name, err))
		} else if shot, err := jctx.Driver.Screenshot(ctx); err != nil {
			fail(wferrors.NewStepError(name, step.Name, err))
		} else {
			res.Screenshot = base64.StdEncoding.EncodeToString(shot)
		}
	}

	res.End = time.Now()
	r.bus.Emit(events.Event{Type: events.TypeStepEnd, Payload: events.StepEndPayload{
		Journey: name,
		Step:    step.Name,
		Start:   res.Start,
		End:     res.End,
		Result:  res,
	}})
	return res
}

// skipStep records a step that never ran because an earlier step in the
// same journey failed.
func (r *Runner) skipStep(j *journey.Journey, step journey.Step) model.StepResult {
	r.bus.Emit(events.Event{Type: events.TypeStepStart, Payload: events.StepStartPayload{
		Journey: j.Name,
		Step:    step.Name,
	}})

	now := time.Now()
	res := model.StepResult{
		Journey: j.Name,
		Name:    step.Name,
		Status:  model.StatusSkipped,
		Start:   now,
		End:     now,
	}

	r.bus.Emit(events.Event{Type: events.TypeStepEnd, Payload: events.StepEndPayload{
		Journey: j.Name,
		Step:    step.Name,
		Start:   now,
		End:     now,
		Result:  res,
	}})
	return res
}
