package model

import (
	"time"
)

// Status classifies the outcome of a step or journey.
type Status string

const (
	// StatusSucceeded marks a unit that completed without error.
	StatusSucceeded Status = "succeeded"
	// StatusFailed marks a unit that ended with an error attached.
	StatusFailed Status = "failed"
	// StatusSkipped marks a step that never ran because an earlier step
	// in the same journey already failed.
	StatusSkipped Status = "skipped"
)

// Params is the opaque key-value mapping handed to every journey callback
// and surfaced in journey events.
type Params map[string]any

// Clone returns an independent copy of the mapping.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Metrics is a snapshot of performance counters captured after a step.
type Metrics map[string]float64

// Clone returns an independent copy of the snapshot.
func (m Metrics) Clone() Metrics {
	if m == nil {
		return nil
	}
	out := make(Metrics, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// StepResult captures the outcome of executing a single step. It is
// produced once by the step executor and never mutated afterwards.
type StepResult struct {
	Journey    string
	Name       string
	Status     Status
	URL        string
	Metrics    Metrics
	Error      error
	Screenshot string // base64-encoded PNG, empty unless capture was requested
	Start      time.Time
	End        time.Time
}

// Failed reports whether the step ended with an error.
func (r StepResult) Failed() bool {
	return r.Status == StatusFailed
}

// Duration returns the wall time spent executing the step.
func (r StepResult) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Clone returns a copy whose metrics map is independent of the original.
func (r StepResult) Clone() StepResult {
	r.Metrics = r.Metrics.Clone()
	return r
}

// JourneyResult is the roll-up of all step results for one journey. A
// journey is failed iff at least one step failed or a lifecycle stage
// before the step loop errored.
type JourneyResult struct {
	Name     string
	Status   Status
	Error    error
	Steps    []StepResult
	Duration time.Duration
}

// Failed reports whether the journey ended with an error.
func (r JourneyResult) Failed() bool {
	return r.Status == StatusFailed
}

// Clone returns a copy whose step slice and metrics are independent of the
// original.
func (r JourneyResult) Clone() JourneyResult {
	if r.Steps != nil {
		steps := make([]StepResult, len(r.Steps))
		for i, s := range r.Steps {
			steps[i] = s.Clone()
		}
		r.Steps = steps
	}
	return r
}

// RunResult maps journey names to their results, preserving execution
// order. Accumulated across a whole run and returned to the caller.
type RunResult struct {
	order  []string
	byName map[string]JourneyResult
}

// NewRunResult returns an empty result mapping.
func NewRunResult() *RunResult {
	return &RunResult{byName: make(map[string]JourneyResult)}
}

// Set records the result for a journey. First insertion fixes the
// journey's position in iteration order.
func (r *RunResult) Set(result JourneyResult) {
	if r.byName == nil {
		r.byName = make(map[string]JourneyResult)
	}
	if _, seen := r.byName[result.Name]; !seen {
		r.order = append(r.order, result.Name)
	}
	r.byName[result.Name] = result
}

// Get retrieves the result recorded for a journey name.
func (r *RunResult) Get(name string) (JourneyResult, bool) {
	res, ok := r.byName[name]
	return res, ok
}

// Names returns journey names in execution order.
func (r *RunResult) Names() []string {
	return append([]string(nil), r.order...)
}

// Len reports the number of journeys recorded.
func (r *RunResult) Len() int {
	return len(r.order)
}

// Failed reports whether any journey in the run failed.
func (r *RunResult) Failed() bool {
	for _, name := range r.order {
		if r.byName[name].Failed() {
			return true
		}
	}
	return false
}
