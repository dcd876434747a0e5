package reporter

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wayfarerhq/wayfarer/internal/events"
	"github.com/wayfarerhq/wayfarer/internal/model"
)

func TestResolveKnowsBuiltins(t *testing.T) {
	t.Parallel()

	rep, err := Resolve("console", &bytes.Buffer{})
	require.NoError(t, err)
	require.IsType(t, &Console{}, rep)

	rep, err = Resolve("json", &bytes.Buffer{})
	require.NoError(t, err)
	require.IsType(t, &JSON{}, rep)

	_, err = Resolve("xml", &bytes.Buffer{})
	require.Error(t, err)
}

func emitScenario(bus *events.Bus) {
	start := time.Now()
	bus.Emit(events.Event{Type: events.TypeStart, Payload: events.StartPayload{NumJourneys: 1}})
	bus.Emit(events.Event{Type: events.TypeJourneyStart, Payload: events.JourneyStartPayload{
		Journey: "checkout", Timestamp: start,
	}})
	bus.Emit(events.Event{Type: events.TypeStepStart, Payload: events.StepStartPayload{
		Journey: "checkout", Step: "add to cart",
	}})
	bus.Emit(events.Event{Type: events.TypeStepEnd, Payload: events.StepEndPayload{
		Journey: "checkout", Step: "add to cart", Start: start, End: start.Add(time.Second),
		Result: model.StepResult{
			Journey: "checkout", Name: "add to cart", Status: model.StatusFailed,
			Error: errors.New("button missing"), Start: start, End: start.Add(time.Second),
		},
	}})
	bus.Emit(events.Event{Type: events.TypeJourneyEnd, Payload: events.JourneyEndPayload{
		Journey: "checkout", Start: start, End: start.Add(2 * time.Second),
		Status: model.StatusFailed, Error: errors.New("button missing"),
	}})
	bus.Emit(events.Event{Type: events.TypeEnd, Payload: events.EndPayload{}})
}

func TestConsoleRendersStepsAndSummary(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	bus := events.NewBus(nil)
	NewConsole(buf).Subscribe(bus)

	emitScenario(bus)

	out := buf.String()
	require.Contains(t, out, "running 1 journeys")
	require.Contains(t, out, "checkout")
	require.Contains(t, out, "add to cart")
	require.Contains(t, out, "button missing")
	require.Contains(t, out, "0 steps passed, 1 failed, 0 skipped")
}

func TestJSONEmitsOneRecordPerEvent(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	bus := events.NewBus(nil)
	NewJSON(buf).Subscribe(bus)

	emitScenario(bus)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)

	var first Record
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.Equal(t, "start", first.Type)
	require.Equal(t, 1, first.NumJourneys)

	var stepEnd Record
	require.NoError(t, json.Unmarshal([]byte(lines[3]), &stepEnd))
	require.Equal(t, "step:end", stepEnd.Type)
	require.Equal(t, "checkout", stepEnd.Journey)
	require.Equal(t, "add to cart", stepEnd.Step)
	require.Equal(t, "failed", stepEnd.Status)
	require.Equal(t, "button missing", stepEnd.Error)
	require.Equal(t, int64(1000), stepEnd.DurationMS)

	var journeyEnd Record
	require.NoError(t, json.Unmarshal([]byte(lines[4]), &journeyEnd))
	require.Equal(t, "journey:end", journeyEnd.Type)
	require.NotNil(t, journeyEnd.Artifacts)
}

func TestConsoleUnsubscribeStopsOutput(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	bus := events.NewBus(nil)
	sub := NewConsole(buf).Subscribe(bus)
	sub.Unsubscribe()

	emitScenario(bus)

	require.Empty(t, buf.String())
}
