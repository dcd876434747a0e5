package config

import (
	"context"
	"fmt"

	"github.com/wayfarerhq/wayfarer/internal/driver"
	"github.com/wayfarerhq/wayfarer/internal/engine"
	"github.com/wayfarerhq/wayfarer/internal/journey"
	"github.com/wayfarerhq/wayfarer/internal/model"
)

// Register registers every journey in the suite on the runner. Step
// callbacks drive the journey's driver with the declared actions.
func Register(r *engine.Runner, suite *Suite) {
	for _, spec := range suite.Journeys {
		spec := spec
		r.Journey(spec.Name, func(driver.Driver, model.Params) error {
			for _, step := range spec.Steps {
				r.Step(step.Name, stepFunc(step))
			}
			return nil
		})
	}
}

func stepFunc(spec StepSpec) journey.StepFunc {
	return func(ctx context.Context, drv driver.Driver) error {
		switch spec.Action {
		case ActionNavigate:
			return drv.Navigate(ctx, spec.URL)
		case ActionClick:
			return drv.Click(ctx, spec.Selector)
		case ActionType:
			return drv.Type(ctx, spec.Selector, spec.Text)
		case ActionWaitVisible:
			return drv.WaitVisible(ctx, spec.Selector)
		case ActionWaitLoad:
			return drv.WaitForLoad(ctx)
		default:
			return fmt.Errorf("unknown step action %q", spec.Action)
		}
	}
}
