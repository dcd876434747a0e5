package model

import "time"

// Filmstrip is a timestamped visual snapshot captured during a journey.
type Filmstrip struct {
	Step      string
	Timestamp time.Time
	Data      string // base64-encoded PNG
}

// RequestInfo records one navigation request observed during a journey.
type RequestInfo struct {
	URL       string
	Timestamp time.Time
}

// ConsoleEntry records one browser console message.
type ConsoleEntry struct {
	Type      string
	Text      string
	Timestamp time.Time
}

// Artifacts bundles the diagnostic output a plugin manager collects over
// one journey. BrowserConsole is populated only for failed journeys.
type Artifacts struct {
	Filmstrips     []Filmstrip
	NetworkInfo    []RequestInfo
	BrowserConsole []ConsoleEntry
}

// Clone returns a copy with independent slices.
func (a Artifacts) Clone() Artifacts {
	a.Filmstrips = append([]Filmstrip(nil), a.Filmstrips...)
	a.NetworkInfo = append([]RequestInfo(nil), a.NetworkInfo...)
	a.BrowserConsole = append([]ConsoleEntry(nil), a.BrowserConsole...)
	return a
}
