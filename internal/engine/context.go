package engine

import (
	"time"

	"github.com/wayfarerhq/wayfarer/internal/driver"
	"github.com/wayfarerhq/wayfarer/internal/journey"
	"github.com/wayfarerhq/wayfarer/internal/model"
	"github.com/wayfarerhq/wayfarer/internal/plugin"
)

// Context is the ephemeral per-journey bundle: start time, caller params,
// and the driver and plugin-manager handles. It is owned exclusively by the
// journey executor for the duration of one journey; the driver is disposed
// when the journey finishes, including on failure.
type Context struct {
	Journey *journey.Journey
	Start   time.Time
	Params  model.Params
	Driver  driver.Driver
	Plugins plugin.Manager
}
