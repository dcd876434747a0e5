package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/wayfarerhq/wayfarer/internal/config"
	"github.com/wayfarerhq/wayfarer/internal/engine"
	"github.com/wayfarerhq/wayfarer/internal/logger"
)

func newListCmd(root *rootFlags) *cobra.Command {
	var suitePath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the journeys in a suite file without running them",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateSuitePath(suitePath); err != nil {
				return err
			}

			suite, err := config.ParseSuite(suitePath)
			if err != nil {
				return err
			}

			level := "info"
			if root.verbose {
				level = "debug"
			}
			log, err := logger.New(logger.Options{Level: level, Pretty: true})
			if err != nil {
				return err
			}

			runner := engine.New(engine.Config{Logger: log})
			config.Register(runner, suite)

			_, err = runner.Run(context.Background(), engine.RunOptions{
				DryRun: true,
				Out:    cmd.OutOrStdout(),
			})
			return err
		},
	}

	cmd.Flags().StringVarP(&suitePath, "suite", "s", "", "Path to suite file")
	cmd.MarkFlagRequired("suite") //nolint:errcheck

	return cmd
}
