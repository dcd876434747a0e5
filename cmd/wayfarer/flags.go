package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func validateRunOptions(opts runOptions) error {
	if err := validateSuitePath(opts.SuitePath); err != nil {
		return err
	}

	if _, err := parseParams(opts.Params); err != nil {
		return err
	}

	if opts.ReporterName != "" && opts.ReporterName != "console" && opts.ReporterName != "json" {
		return fmt.Errorf("unknown reporter %q", opts.ReporterName)
	}

	return nil
}

func validateSuitePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("suite file is required")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve suite path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("suite file does not exist: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("suite path %s is a directory", abs)
	}

	return nil
}

func parseParams(pairs []string) (map[string]any, error) {
	params := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("param %q is not key=value", pair)
		}
		params[key] = value
	}
	return params, nil
}
