package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wayfarerhq/wayfarer/internal/config"
	"github.com/wayfarerhq/wayfarer/internal/driver"
	"github.com/wayfarerhq/wayfarer/internal/engine"
	"github.com/wayfarerhq/wayfarer/internal/logger"
	"github.com/wayfarerhq/wayfarer/internal/model"
)

type runOptions struct {
	SuitePath    string
	JourneyName  string
	ReporterName string
	Params       []string
	Screenshots  bool
	Metrics      bool
	Filmstrips   bool
	PauseOnError bool
	Headful      bool
	DryRun       bool
	Verbose      bool
}

var runCmdRunner = runRun

func newRunCmd(root *rootFlags) *cobra.Command {
	opts := runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute the journeys in a suite file",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.DryRun = root.dryRun
			opts.Verbose = root.verbose

			if err := validateRunOptions(opts); err != nil {
				return err
			}

			return runCmdRunner(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.SuitePath, "suite", "s", "", "Path to suite file")
	cmd.Flags().StringVarP(&opts.JourneyName, "journey", "j", "", "Run only the journey with this exact name")
	cmd.Flags().StringVarP(&opts.ReporterName, "reporter", "r", "", "Reporter to use (console, json)")
	cmd.Flags().StringArrayVarP(&opts.Params, "param", "p", nil, "Journey parameter as key=value (repeatable)")
	cmd.Flags().BoolVar(&opts.Screenshots, "screenshots", false, "Capture a screenshot after each step")
	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "Collect performance metrics after each step")
	cmd.Flags().BoolVar(&opts.Filmstrips, "filmstrips", false, "Record filmstrip frames per step")
	cmd.Flags().BoolVar(&opts.PauseOnError, "pause-on-error", false, "Pause after a failed step until enter is pressed")
	cmd.Flags().BoolVar(&opts.Headful, "headful", false, "Run the browser with a visible window")
	cmd.MarkFlagRequired("suite") //nolint:errcheck

	return cmd
}

func runRun(opts runOptions) error {
	suite, err := config.ParseSuite(opts.SuitePath)
	if err != nil {
		return err
	}

	level := "info"
	if opts.Verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Options{Level: level, Pretty: true})
	if err != nil {
		return err
	}

	params := model.Params{}
	for k, v := range suite.Settings.Params {
		params[k] = v
	}
	overrides, err := parseParams(opts.Params)
	if err != nil {
		return err
	}
	for k, v := range overrides {
		params[k] = v
	}

	runner := engine.New(engine.Config{Logger: log})
	config.Register(runner, suite)

	reporterName := opts.ReporterName
	if reporterName == "" && !term.IsTerminal(int(os.Stdout.Fd())) {
		reporterName = "json"
	}

	runOpts := engine.RunOptions{
		Params:       params,
		Metrics:      opts.Metrics || suite.Settings.Metrics,
		Screenshots:  opts.Screenshots || suite.Settings.Screenshots,
		Filmstrips:   opts.Filmstrips || suite.Settings.Filmstrips,
		PauseOnError: opts.PauseOnError || suite.Settings.PauseOnError,
		JourneyName:  opts.JourneyName,
		DryRun:       opts.DryRun,
		ReporterName: reporterName,
		Driver:       driver.Options{Headless: suite.Settings.HeadlessOrDefault() && !opts.Headful},
	}
	if runOpts.PauseOnError {
		runOpts.Resumer = engine.NewReaderResumer(os.Stdin)
	}

	results, err := runner.Run(context.Background(), runOpts)
	if err != nil {
		return err
	}
	if results.Failed() {
		return fmt.Errorf("%d of %d journeys failed", countFailed(results), results.Len())
	}
	return nil
}

func countFailed(results *model.RunResult) int {
	failed := 0
	for _, name := range results.Names() {
		if res, ok := results.Get(name); ok && res.Failed() {
			failed++
		}
	}
	return failed
}
