// Package reporter renders the runner's event stream. Reporters are plain
// bus subscribers; the engine wires one in before emitting anything so it
// observes the full stream, start included.
package reporter

import (
	"fmt"
	"io"

	"github.com/wayfarerhq/wayfarer/internal/events"
	wferrors "github.com/wayfarerhq/wayfarer/pkg/errors"
)

// DefaultName is the reporter used when none is configured.
const DefaultName = "console"

// Reporter consumes the event stream and renders output. Subscribe returns
// the bus subscription so the engine can detach the reporter when the run
// ends.
type Reporter interface {
	Subscribe(bus *events.Bus) events.Subscription
}

// Resolve returns the named built-in reporter writing to out.
func Resolve(name string, out io.Writer) (Reporter, error) {
	switch name {
	case "console":
		return NewConsole(out), nil
	case "json":
		return NewJSON(out), nil
	default:
		return nil, wferrors.NewValidationError("reporter", fmt.Sprintf("unknown reporter %q", name), nil)
	}
}
