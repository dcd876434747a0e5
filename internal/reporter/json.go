package reporter

import (
	"encoding/json"
	"io"
	"time"

	"github.com/wayfarerhq/wayfarer/internal/events"
	"github.com/wayfarerhq/wayfarer/internal/model"
)

// JSON emits one JSON object per event, newline-delimited, suitable for
// piping into downstream tooling.
type JSON struct {
	enc *json.Encoder
}

// NewJSON creates a JSON reporter writing to out.
func NewJSON(out io.Writer) *JSON {
	return &JSON{enc: json.NewEncoder(out)}
}

// Record is the flat schema of one emitted line.
type Record struct {
	Type        string         `json:"type"`
	Journey     string         `json:"journey,omitempty"`
	Step        string         `json:"step,omitempty"`
	Status      string         `json:"status,omitempty"`
	Error       string         `json:"error,omitempty"`
	URL         string         `json:"url,omitempty"`
	Metrics     model.Metrics  `json:"metrics,omitempty"`
	Screenshot  string         `json:"screenshot,omitempty"`
	DurationMS  int64          `json:"duration_ms,omitempty"`
	Timestamp   time.Time      `json:"@timestamp"`
	NumJourneys int            `json:"num_journeys,omitempty"`
	Params      model.Params   `json:"params,omitempty"`
	Artifacts   *artifactsView `json:"artifacts,omitempty"`
}

type artifactsView struct {
	Filmstrips     int                  `json:"filmstrips"`
	NetworkInfo    []model.RequestInfo  `json:"networkinfo,omitempty"`
	BrowserConsole []model.ConsoleEntry `json:"browserconsole,omitempty"`
}

// Subscribe attaches the reporter to the full event stream.
func (j *JSON) Subscribe(bus *events.Bus) events.Subscription {
	return bus.SubscribeAll(j.handle)
}

func (j *JSON) handle(ev events.Event) error {
	rec := Record{Type: string(ev.Type), Timestamp: time.Now()}

	switch payload := ev.Payload.(type) {
	case events.StartPayload:
		rec.NumJourneys = payload.NumJourneys
	case events.JourneyRegisterPayload:
		rec.Journey = payload.Journey
	case events.JourneyStartPayload:
		rec.Journey = payload.Journey
		rec.Timestamp = payload.Timestamp
		rec.Params = payload.Params
	case events.StepStartPayload:
		rec.Journey = payload.Journey
		rec.Step = payload.Step
	case events.StepEndPayload:
		rec.Journey = payload.Journey
		rec.Step = payload.Step
		rec.Status = string(payload.Result.Status)
		rec.URL = payload.Result.URL
		rec.Metrics = payload.Result.Metrics
		rec.Screenshot = payload.Result.Screenshot
		rec.DurationMS = payload.Result.Duration().Milliseconds()
		if payload.Result.Error != nil {
			rec.Error = payload.Result.Error.Error()
		}
	case events.JourneyEndPayload:
		rec.Journey = payload.Journey
		rec.Status = string(payload.Status)
		rec.DurationMS = payload.End.Sub(payload.Start).Milliseconds()
		if payload.Error != nil {
			rec.Error = payload.Error.Error()
		}
		rec.Artifacts = &artifactsView{
			Filmstrips:     len(payload.Artifacts.Filmstrips),
			NetworkInfo:    payload.Artifacts.NetworkInfo,
			BrowserConsole: payload.Artifacts.BrowserConsole,
		}
	}

	return j.enc.Encode(rec)
}
