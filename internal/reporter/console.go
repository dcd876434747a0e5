package reporter

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/wayfarerhq/wayfarer/internal/events"
	"github.com/wayfarerhq/wayfarer/internal/model"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Console renders a human-readable line per step and a summary per run.
type Console struct {
	out io.Writer

	succeeded int
	failed    int
	skipped   int
	journeys  int
}

// NewConsole creates a console reporter writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// Subscribe attaches the reporter to the full event stream.
func (c *Console) Subscribe(bus *events.Bus) events.Subscription {
	return bus.SubscribeAll(c.handle)
}

func (c *Console) handle(ev events.Event) error {
	switch payload := ev.Payload.(type) {
	case events.StartPayload:
		c.succeeded, c.failed, c.skipped, c.journeys = 0, 0, 0, 0
		fmt.Fprintf(c.out, "%s\n", dimStyle.Render(fmt.Sprintf("running %d journeys", payload.NumJourneys)))
	case events.JourneyRegisterPayload:
		fmt.Fprintf(c.out, "  %s\n", payload.Journey)
	case events.JourneyStartPayload:
		fmt.Fprintf(c.out, "\n%s\n", titleStyle.Render(payload.Journey))
	case events.StepEndPayload:
		c.renderStep(payload)
	case events.JourneyEndPayload:
		c.journeys++
		c.renderJourney(payload)
	case events.EndPayload:
		fmt.Fprintf(c.out, "\n%d journeys finished: %d steps passed, %d failed, %d skipped\n",
			c.journeys, c.succeeded, c.failed, c.skipped)
	}
	return nil
}

func (c *Console) renderStep(payload events.StepEndPayload) {
	res := payload.Result
	switch res.Status {
	case model.StatusSucceeded:
		c.succeeded++
		fmt.Fprintf(c.out, "  %s %s %s\n", successStyle.Render("✓"), res.Name,
			dimStyle.Render(res.Duration().Round(time.Millisecond).String()))
	case model.StatusFailed:
		c.failed++
		fmt.Fprintf(c.out, "  %s %s %s\n", failureStyle.Render("✕"), res.Name,
			dimStyle.Render(res.Duration().Round(time.Millisecond).String()))
		if res.Error != nil {
			fmt.Fprintf(c.out, "      %s\n", failureStyle.Render(res.Error.Error()))
		}
	case model.StatusSkipped:
		c.skipped++
		fmt.Fprintf(c.out, "  %s %s\n", skippedStyle.Render("-"), skippedStyle.Render(res.Name+" (skipped)"))
	}
}

func (c *Console) renderJourney(payload events.JourneyEndPayload) {
	if payload.Status == model.StatusFailed {
		label := failureStyle.Render("failed")
		if payload.Error != nil {
			fmt.Fprintf(c.out, "  journey %s: %v\n", label, payload.Error)
		} else {
			fmt.Fprintf(c.out, "  journey %s\n", label)
		}
		return
	}
	fmt.Fprintf(c.out, "  journey %s %s\n", successStyle.Render("passed"),
		dimStyle.Render(payload.End.Sub(payload.Start).Round(time.Millisecond).String()))
}
