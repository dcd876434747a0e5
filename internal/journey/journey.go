// Package journey defines the domain model of a synthetic journey: a named,
// ordered sequence of steps plus its own before/after hooks. Steps are not
// known when a journey is created; the journey's callback populates them
// during the registration phase of each run.
package journey

import (
	"context"
	"regexp"

	"github.com/wayfarerhq/wayfarer/internal/driver"
	"github.com/wayfarerhq/wayfarer/internal/model"
	wferrors "github.com/wayfarerhq/wayfarer/pkg/errors"
)

var namePattern = regexp.MustCompile(`^[^\s].*$`)

// StepFunc performs a step's action against the journey's driver. A
// returned error marks the step failed and skips the journey's remaining
// steps.
type StepFunc func(ctx context.Context, drv driver.Driver) error

// Callback populates a journey's step list. It runs once per execution,
// after the driver is acquired, and receives the caller-supplied params.
type Callback func(drv driver.Driver, params model.Params) error

// Hook is a callback run before or after a scope (the whole run or one
// journey). Hooks in the same phase run concurrently with no ordering
// guarantee between them.
type Hook func(ctx context.Context) error

// Step is a single named unit of action within a journey. Immutable once
// registered.
type Step struct {
	Name string
	Fn   StepFunc
}

// Journey owns an ordered step sequence, before/after hook lists, and the
// callback that registers its steps. Mutated only during its own
// registration phase.
type Journey struct {
	Name     string
	Callback Callback
	Steps    []Step
	Before   []Hook
	After    []Hook
}

// New creates a journey with an empty step list.
func New(name string, cb Callback) *Journey {
	return &Journey{Name: name, Callback: cb}
}

// Validate ensures the journey can be registered for a run.
func (j *Journey) Validate() error {
	if j.Name == "" {
		return wferrors.NewValidationError("name", "journey name must not be empty", nil)
	}
	if !namePattern.MatchString(j.Name) {
		return wferrors.NewValidationError("name", "journey name must not start with whitespace", nil)
	}
	if j.Callback == nil {
		return wferrors.NewValidationError("callback", "journey requires a registration callback", nil)
	}
	return nil
}

// AddStep appends a step in registration order.
func (j *Journey) AddStep(name string, fn StepFunc) {
	j.Steps = append(j.Steps, Step{Name: name, Fn: fn})
}

// AddBefore appends a hook run before the journey's steps.
func (j *Journey) AddBefore(h Hook) {
	j.Before = append(j.Before, h)
}

// AddAfter appends a hook run after the journey's steps.
func (j *Journey) AddAfter(h Hook) {
	j.After = append(j.After, h)
}

// Reset clears state populated by a previous registration so the journey
// can be executed again by a later run.
func (j *Journey) Reset() {
	j.Steps = nil
	j.Before = nil
	j.After = nil
}
