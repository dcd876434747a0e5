package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wayfarerhq/wayfarer/internal/driver"
	"github.com/wayfarerhq/wayfarer/internal/engine"
	"github.com/wayfarerhq/wayfarer/internal/events"
	"github.com/wayfarerhq/wayfarer/internal/model"
	"github.com/wayfarerhq/wayfarer/internal/plugin"
)

type recordingDriver struct {
	actions []string
}

func (d *recordingDriver) Navigate(_ context.Context, url string) error {
	d.actions = append(d.actions, "navigate "+url)
	return nil
}

func (d *recordingDriver) Click(_ context.Context, selector string) error {
	d.actions = append(d.actions, "click "+selector)
	return nil
}

func (d *recordingDriver) Type(_ context.Context, selector, text string) error {
	d.actions = append(d.actions, "type "+selector+" "+text)
	return nil
}

func (d *recordingDriver) WaitVisible(_ context.Context, selector string) error {
	d.actions = append(d.actions, "wait_visible "+selector)
	return nil
}

func (d *recordingDriver) WaitForLoad(context.Context) error {
	d.actions = append(d.actions, "wait_load")
	return nil
}

func (d *recordingDriver) URL(context.Context) (string, error)            { return "about:blank", nil }
func (d *recordingDriver) OnRequest(func(string)) func()                  { return func() {} }
func (d *recordingDriver) OnConsole(func(driver.ConsoleMessage)) func()   { return func() {} }
func (d *recordingDriver) Screenshot(context.Context) ([]byte, error)     { return nil, nil }
func (d *recordingDriver) Metrics(context.Context) (model.Metrics, error) { return nil, nil }
func (d *recordingDriver) Close() error                                   { return nil }

type nopManager struct{}

func (nopManager) OnStep(context.Context, string) error { return nil }
func (nopManager) Get(plugin.Kind) (plugin.Plugin, bool) {
	return nil, false
}
func (nopManager) Output(context.Context, bool) (model.Artifacts, error) {
	return model.Artifacts{}, nil
}

type nopReporter struct{}

func (nopReporter) Subscribe(*events.Bus) events.Subscription { return nil }

func TestRegisterDrivesDeclaredActions(t *testing.T) {
	t.Parallel()

	drv := &recordingDriver{}
	runner := engine.New(engine.Config{
		NewDriver: func(context.Context, driver.Options) (driver.Driver, error) {
			return drv, nil
		},
		NewPlugins: func(context.Context, driver.Driver, plugin.Options) (plugin.Manager, error) {
			return nopManager{}, nil
		},
	})

	suite := &Suite{
		Version: "1.0",
		Name:    "storefront",
		Journeys: []JourneySpec{{
			Name: "search",
			Steps: []StepSpec{
				{Name: "open", Action: ActionNavigate, URL: "https://example.com/"},
				{Name: "query", Action: ActionType, Selector: "#q", Text: "socks"},
				{Name: "submit", Action: ActionClick, Selector: "#go"},
				{Name: "settle", Action: ActionWaitLoad},
			},
		}},
	}
	require.NoError(t, ValidateSuite(suite))
	Register(runner, suite)

	results, err := runner.Run(context.Background(), engine.RunOptions{Reporter: nopReporter{}})
	require.NoError(t, err)

	res, ok := results.Get("search")
	require.True(t, ok)
	require.Equal(t, model.StatusSucceeded, res.Status)
	require.Equal(t, []string{
		"navigate https://example.com/",
		"type #q socks",
		"click #go",
		"wait_load",
	}, drv.actions)
}
