// Package events implements the runner's typed notification stream: a
// closed catalogue of event kinds delivered synchronously, in subscriber
// registration order, to every registered handler.
package events

import (
	"time"

	"github.com/wayfarerhq/wayfarer/internal/model"
)

// Type identifies one kind of notification in the catalogue.
type Type string

const (
	// TypeStart is emitted once when a run begins.
	TypeStart Type = "start"
	// TypeJourneyRegister is emitted per journey in dry-run mode instead of
	// executing it.
	TypeJourneyRegister Type = "journey:register"
	// TypeJourneyStart is emitted when a journey's registration phase begins.
	TypeJourneyStart Type = "journey:start"
	// TypeJourneyEnd is emitted after a journey's steps and after-hooks
	// finish, before its driver is disposed.
	TypeJourneyEnd Type = "journey:end"
	// TypeStepStart is emitted before a step executes.
	TypeStepStart Type = "step:start"
	// TypeStepEnd is emitted once a step's result is finalized.
	TypeStepEnd Type = "step:end"
	// TypeEnd is emitted once when a run finishes.
	TypeEnd Type = "end"
)

// Event pairs a catalogue type with its payload. Payloads are value
// structs; handlers receive copies and cannot affect what later handlers
// observe.
type Event struct {
	Type    Type
	Payload any
}

// clonable payloads carry maps or slices, so struct copying alone is not
// enough isolation. The bus invokes clonePayload once per delivery.
type clonable interface {
	clonePayload() any
}

// StartPayload accompanies TypeStart.
type StartPayload struct {
	NumJourneys int
}

// JourneyRegisterPayload accompanies TypeJourneyRegister.
type JourneyRegisterPayload struct {
	Journey string
}

// JourneyStartPayload accompanies TypeJourneyStart.
type JourneyStartPayload struct {
	Journey   string
	Timestamp time.Time
	Params    model.Params
}

// JourneyEndPayload accompanies TypeJourneyEnd.
type JourneyEndPayload struct {
	Journey   string
	Start     time.Time
	End       time.Time
	Status    model.Status
	Error     error
	Result    model.JourneyResult
	Artifacts model.Artifacts
	Params    model.Params
}

func (p JourneyStartPayload) clonePayload() any {
	p.Params = p.Params.Clone()
	return p
}

func (p JourneyEndPayload) clonePayload() any {
	p.Params = p.Params.Clone()
	p.Result = p.Result.Clone()
	p.Artifacts = p.Artifacts.Clone()
	return p
}

// StepStartPayload accompanies TypeStepStart.
type StepStartPayload struct {
	Journey string
	Step    string
}

// StepEndPayload accompanies TypeStepEnd.
type StepEndPayload struct {
	Journey string
	Step    string
	Start   time.Time
	End     time.Time
	Result  model.StepResult
}

func (p StepEndPayload) clonePayload() any {
	p.Result = p.Result.Clone()
	return p
}

// EndPayload accompanies TypeEnd.
type EndPayload struct{}
