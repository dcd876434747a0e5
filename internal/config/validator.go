package config

import (
	"fmt"
	"net/url"
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"

	wferrors "github.com/wayfarerhq/wayfarer/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	journeyNamePattern = regexp.MustCompile(`^\S.*$`)
	stepActions        = map[string]struct{}{
		ActionNavigate:    {},
		ActionClick:       {},
		ActionType:        {},
		ActionWaitVisible: {},
		ActionWaitLoad:    {},
	}
)

// validatorInstance configures and returns the shared validator used
// across the config package.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("journey_name", func(fl validator.FieldLevel) bool {
			return journeyNamePattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("step_action", func(fl validator.FieldLevel) bool {
			_, ok := stepActions[fl.Field().String()]
			return ok
		})

		validateInst = v
	})
	return validateInst
}

// ValidateSuite checks structural tags plus the per-action field rules the
// tag language cannot express.
func ValidateSuite(suite *Suite) error {
	if suite == nil {
		return wferrors.NewValidationError("", "suite is empty", nil)
	}

	if err := validatorInstance().Struct(suite); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			first := fieldErrs[0]
			return wferrors.NewValidationError(first.Namespace(),
				fmt.Sprintf("failed %q constraint", first.Tag()), err)
		}
		return wferrors.NewValidationError("", "suite validation failed", err)
	}

	seen := make(map[string]struct{}, len(suite.Journeys))
	for i, j := range suite.Journeys {
		if _, dup := seen[j.Name]; dup {
			return wferrors.NewValidationError(
				fmt.Sprintf("journeys[%d].name", i),
				fmt.Sprintf("duplicate journey name %q", j.Name), nil)
		}
		seen[j.Name] = struct{}{}

		for k, step := range j.Steps {
			if err := validateStep(step); err != nil {
				return wferrors.NewValidationError(
					fmt.Sprintf("journeys[%d].steps[%d]", i, k), err.Error(), err)
			}
		}
	}

	return nil
}

func validateStep(step StepSpec) error {
	switch step.Action {
	case ActionNavigate:
		if step.URL == "" {
			return fmt.Errorf("navigate requires url")
		}
		parsed, err := url.Parse(step.URL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("navigate url %q is not absolute", step.URL)
		}
	case ActionClick, ActionWaitVisible:
		if step.Selector == "" {
			return fmt.Errorf("%s requires selector", step.Action)
		}
	case ActionType:
		if step.Selector == "" || step.Text == "" {
			return fmt.Errorf("type requires selector and text")
		}
	case ActionWaitLoad:
		// no extra fields
	}
	return nil
}
