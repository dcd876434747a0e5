package config

// Suite is a declarative journey suite loaded from YAML. Library users
// register journeys in Go; the CLI drives the runner from one of these.
type Suite struct {
	Version     string        `yaml:"version" validate:"required"`
	Name        string        `yaml:"name" validate:"required,min=1,max=100"`
	Description string        `yaml:"description,omitempty"`
	Settings    Settings      `yaml:"settings,omitempty"`
	Journeys    []JourneySpec `yaml:"journeys" validate:"required,min=1,dive"`
}

// Settings holds suite-wide execution options. Flags on the CLI override
// them per invocation.
type Settings struct {
	Params       map[string]any `yaml:"params,omitempty"`
	Metrics      bool           `yaml:"metrics,omitempty"`
	Screenshots  bool           `yaml:"screenshots,omitempty"`
	Filmstrips   bool           `yaml:"filmstrips,omitempty"`
	PauseOnError bool           `yaml:"pause_on_error,omitempty"`
	Headless     *bool          `yaml:"headless,omitempty"`
}

// HeadlessOrDefault resolves the headless setting; suites run headless
// unless they opt out.
func (s Settings) HeadlessOrDefault() bool {
	if s.Headless == nil {
		return true
	}
	return *s.Headless
}

// JourneySpec describes one journey and its ordered steps.
type JourneySpec struct {
	Name  string     `yaml:"name" validate:"required,journey_name"`
	Steps []StepSpec `yaml:"steps" validate:"required,min=1,dive"`
}

// Step actions understood by the declarative suite format.
const (
	ActionNavigate    = "navigate"
	ActionClick       = "click"
	ActionType        = "type"
	ActionWaitVisible = "wait_visible"
	ActionWaitLoad    = "wait_load"
)

// StepSpec describes a single browser action within a journey.
type StepSpec struct {
	Name     string `yaml:"name" validate:"required"`
	Action   string `yaml:"action" validate:"required,step_action"`
	URL      string `yaml:"url,omitempty"`
	Selector string `yaml:"selector,omitempty"`
	Text     string `yaml:"text,omitempty"`
}
