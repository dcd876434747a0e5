package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrorFormatsLine(t *testing.T) {
	t.Parallel()

	err := NewParseError("suite.yaml", 12, fmt.Errorf("bad indentation"))
	require.EqualError(t, err, "parse error: suite.yaml:12: bad indentation")

	err = NewParseError("suite.yaml", 0, fmt.Errorf("unexpected EOF"))
	require.EqualError(t, err, "parse error: suite.yaml: unexpected EOF")
}

func TestStepErrorWrapsCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("element not found")
	err := NewStepError("checkout", "add to cart", cause)

	require.ErrorIs(t, err, cause)
	require.EqualError(t, err, `step "add to cart" failed in journey "checkout": element not found`)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	require.Equal(t, "checkout", stepErr.Journey)
}

func TestJourneyErrorIncludesStage(t *testing.T) {
	t.Parallel()

	cause := errors.New("chrome not reachable")
	err := NewJourneyError("login", "driver setup", cause)

	require.ErrorIs(t, err, cause)
	require.EqualError(t, err, `journey "login" failed during driver setup: chrome not reachable`)
}

func TestHookErrorNamesPhase(t *testing.T) {
	t.Parallel()

	cause := errors.New("seed data missing")
	err := NewHookError("beforeAll", cause)

	require.ErrorIs(t, err, cause)
	require.EqualError(t, err, "hook error [beforeAll]: seed data missing")

	var hookErr *HookError
	require.ErrorAs(t, err, &hookErr)
	require.Equal(t, "beforeAll", hookErr.Phase)
}

func TestValidationErrorOptionalField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("journeys[0].name", "must not be empty", nil)
	require.EqualError(t, err, "validation error: journeys[0].name: must not be empty")

	err = NewValidationError("", "suite requires at least one journey", nil)
	require.EqualError(t, err, "validation error: suite requires at least one journey")
}
