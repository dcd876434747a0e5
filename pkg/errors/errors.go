package errors

import (
	"fmt"
)

// ParseError represents a suite-file parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures suite or option validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// StepError represents a runtime failure inside a single step.
type StepError struct {
	Journey string
	Step    string
	Err     error
}

// NewStepError constructs a StepError.
func NewStepError(journey, step string, err error) error {
	return &StepError{Journey: journey, Step: step, Err: err}
}

func (e *StepError) Error() string {
	if e == nil {
		return ""
	}
	if e.Step != "" {
		return fmt.Sprintf("step %q failed in journey %q: %v", e.Step, e.Journey, e.Err)
	}
	return fmt.Sprintf("step failed in journey %q: %v", e.Journey, e.Err)
}

// Unwrap exposes the root error.
func (e *StepError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// JourneyError represents a failure outside any step: driver setup,
// registration, or recording start.
type JourneyError struct {
	Journey string
	Stage   string
	Err     error
}

// NewJourneyError constructs a JourneyError for the named lifecycle stage.
func NewJourneyError(journey, stage string, err error) error {
	return &JourneyError{Journey: journey, Stage: stage, Err: err}
}

func (e *JourneyError) Error() string {
	if e == nil {
		return ""
	}
	if e.Stage != "" {
		return fmt.Sprintf("journey %q failed during %s: %v", e.Journey, e.Stage, e.Err)
	}
	return fmt.Sprintf("journey %q failed: %v", e.Journey, e.Err)
}

// Unwrap exposes the underlying error.
func (e *JourneyError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// HookError indicates a failure inside a hook phase. Phase names the hook
// list that failed (beforeAll, afterAll, before, after).
type HookError struct {
	Phase string
	Err   error
}

// NewHookError constructs a HookError for the given phase.
func NewHookError(phase string, err error) error {
	return &HookError{Phase: phase, Err: err}
}

func (e *HookError) Error() string {
	if e == nil {
		return ""
	}
	if e.Phase != "" {
		return fmt.Sprintf("hook error [%s]: %v", e.Phase, e.Err)
	}
	return fmt.Sprintf("hook error: %v", e.Err)
}

// Unwrap exposes the underlying error.
func (e *HookError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
