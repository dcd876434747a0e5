package engine

import (
	"context"
	"time"

	"github.com/wayfarerhq/wayfarer/internal/driver"
	"github.com/wayfarerhq/wayfarer/internal/events"
	"github.com/wayfarerhq/wayfarer/internal/journey"
	"github.com/wayfarerhq/wayfarer/internal/logger"
	"github.com/wayfarerhq/wayfarer/internal/model"
	"github.com/wayfarerhq/wayfarer/internal/plugin"
	wferrors "github.com/wayfarerhq/wayfarer/pkg/errors"
)

// runJourney drives one journey through its lifecycle: driver acquisition,
// recording setup, registration, before-hooks, the step loop, after-hooks,
// artifact collection. The driver is disposed on every exit path.
//
// After-hooks run when steps fail (failures surface as results), but not
// when registration or before-hooks errored; that error becomes the
// journey's error and the lifecycle jumps straight to the ending phase.
func (r *Runner) runJourney(ctx context.Context, j *journey.Journey, opts RunOptions) model.JourneyResult {
	start := time.Now()
	log := r.cfg.Logger.WithJourney(j.Name)

	result := model.JourneyResult{Name: j.Name, Status: model.StatusSucceeded}

	drv, err := r.cfg.NewDriver(ctx, opts.Driver)
	if err != nil {
		log.Error(err, "driver setup failed")
		return r.failSetup(j, start, opts, wferrors.NewJourneyError(j.Name, "driver setup", err))
	}
	defer func() {
		if cerr := drv.Close(); cerr != nil {
			log.Error(cerr, "driver dispose failed")
		}
	}()

	mgr, err := r.cfg.NewPlugins(ctx, drv, plugin.Options{Filmstrips: opts.Filmstrips})
	if err != nil {
		log.Error(err, "recording setup failed")
		return r.failSetup(j, start, opts, wferrors.NewJourneyError(j.Name, "recording setup", err))
	}

	jctx := &Context{Journey: j, Start: start, Params: opts.Params, Driver: drv, Plugins: mgr}

	r.bus.Emit(events.Event{Type: events.TypeJourneyStart, Payload: events.JourneyStartPayload{
		Journey:   j.Name,
		Timestamp: time.Now(),
		Params:    opts.Params,
	}})

	stageErr := r.register(j, drv, opts.Params)
	if stageErr != nil {
		stageErr = wferrors.NewJourneyError(j.Name, "registration", stageErr)
	} else if hookErr := runHooks(ctx, j.Before); hookErr != nil {
		stageErr = wferrors.NewHookError("before", hookErr)
	}

	if stageErr == nil {
		skip := false
		for _, step := range j.Steps {
			var stepRes model.StepResult
			if skip {
				stepRes = r.skipStep(j, step)
			} else {
				stepRes = r.runStep(ctx, step, jctx, opts)
				if stepRes.Failed() {
					skip = true
					r.pauseOnError(ctx, log, opts)
				}
			}
			result.Steps = append(result.Steps, stepRes)
		}

		if hookErr := runHooks(ctx, j.After); hookErr != nil {
			stageErr = wferrors.NewHookError("after", hookErr)
		}
	}

	if stageErr != nil {
		result.Status = model.StatusFailed
		result.Error = stageErr
	} else {
		for _, stepRes := range result.Steps {
			if stepRes.Failed() {
				result.Status = model.StatusFailed
				result.Error = stepRes.Error
				break
			}
		}
	}
	result.Duration = time.Since(start)

	artifacts, err := mgr.Output(ctx, result.Failed())
	if err != nil {
		log.Error(err, "artifact collection failed")
	}

	r.bus.Emit(events.Event{Type: events.TypeJourneyEnd, Payload: events.JourneyEndPayload{
		Journey:   j.Name,
		Start:     start,
		End:       time.Now(),
		Status:    result.Status,
		Error:     result.Error,
		Result:    result,
		Artifacts: artifacts,
		Params:    opts.Params,
	}})

	return result
}

// failSetup reports a journey whose driver or recording session never came
// up. The journey:start/journey:end pair is still emitted so reporters see
// the failure; only the step loop needs a live context.
func (r *Runner) failSetup(j *journey.Journey, start time.Time, opts RunOptions, stageErr error) model.JourneyResult {
	result := model.JourneyResult{
		Name:     j.Name,
		Status:   model.StatusFailed,
		Error:    stageErr,
		Duration: time.Since(start),
	}

	r.bus.Emit(events.Event{Type: events.TypeJourneyStart, Payload: events.JourneyStartPayload{
		Journey:   j.Name,
		Timestamp: time.Now(),
		Params:    opts.Params,
	}})
	r.bus.Emit(events.Event{Type: events.TypeJourneyEnd, Payload: events.JourneyEndPayload{
		Journey: j.Name,
		Start:   start,
		End:     time.Now(),
		Status:  result.Status,
		Error:   result.Error,
		Result:  result,
		Params:  opts.Params,
	}})

	return result
}

// register runs the journey's callback so it can populate the step list.
// Steps are unknown until this point. The runner's DSL methods attach to
// the journey marked current for the duration of the callback.
func (r *Runner) register(j *journey.Journey, drv driver.Driver, params model.Params) error {
	if err := j.Validate(); err != nil {
		return err
	}

	j.Reset()
	r.mu.Lock()
	r.current = j
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.current = nil
		r.mu.Unlock()
	}()

	return j.Callback(drv, params)
}

// pauseOnError blocks the journey (and the whole run) after a failed step
// until the injected resume signal arrives. An explicit debugging opt-in,
// never part of automated operation.
func (r *Runner) pauseOnError(ctx context.Context, log *logger.Logger, opts RunOptions) {
	if !opts.PauseOnError || opts.Resumer == nil {
		return
	}
	log.Warn("step failed, pausing until resume signal")
	if err := opts.Resumer.Resume(ctx); err != nil {
		log.Error(err, "resume wait interrupted")
	}
}
