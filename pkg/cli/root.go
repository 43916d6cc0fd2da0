/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"

	sierrors "github.com/TyRoXx/silicium/pkg/errors"
	"github.com/TyRoXx/silicium/pkg/logging"
	"github.com/TyRoXx/silicium/pkg/recipe"
	"github.com/TyRoXx/silicium/pkg/serializer"
)

const (
	name           = "sirecipe"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file path (default: stdout)",
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(serializer.FormatYAML),
		Usage:   fmt.Sprintf("Output format (supported values: %v)", serializer.SupportedFormats()),
	}
}

// Execute runs the sirecipe command line and exits on error.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.SetDefaultStructuredLogger(name, version)

	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(exitCode(err))
	}
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Version:               version,
		HideVersion:           true,
		EnableShellCompletion: true,
		ShellComplete:         commandLister,
		Usage:                 "silicium package recipe engine",
		Description: fmt.Sprintf(`sirecipe - silicium package recipe engine

Version: %s
Commit:  %s
Built:   %s

Loads versioned package recipes, exports package headers into an include
layout and stages dependency runtime libraries next to a consumer's binaries.`, version, commit, date),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "recipes",
				Usage:   "Directory of recipe documents (default: built-in recipes)",
				Sources: cli.EnvVars("SIRECIPE_RECIPES"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars(logging.EnvLogLevel),
			},
			&cli.StringFlag{
				Name:  "metrics-file",
				Usage: "Write Prometheus metrics in text format to this file on exit",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))
			slog.Debug("starting",
				"name", name,
				"version", version,
				"commit", commit,
				"date", date)
			return ctx, nil
		},
		After: func(_ context.Context, cmd *cli.Command) error {
			return writeMetrics(cmd.String("metrics-file"))
		},
		Commands: []*cli.Command{
			versionsCmd(),
			showCmd(),
			depsCmd(),
			validateCmd(),
			exportCmd(),
			importCmd(),
			cleanCmd(),
		},
	}
}

// commandLister prints the visible subcommands for shell completion.
func commandLister(_ context.Context, cmd *cli.Command) {
	if cmd == nil {
		return
	}
	for _, c := range cmd.Commands {
		if c.Hidden {
			continue
		}
		fmt.Fprintln(os.Stdout, c.Name)
	}
}

// parseOutputFormat returns the validated --format value.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	format := serializer.Format(cmd.String("format"))
	if format.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q", format)
	}
	return format, nil
}

// writeOutput serializes v to --output in the given format.
func writeOutput(ctx context.Context, cmd *cli.Command, format serializer.Format, v any) error {
	ser := serializer.NewFileWriterOrStdout(format, cmd.String("output"))
	defer func() {
		if err := ser.Close(); err != nil {
			slog.Warn("failed to close serializer", "error", err)
		}
	}()

	if err := ser.Serialize(ctx, v); err != nil {
		return fmt.Errorf("failed to serialize output: %w", err)
	}
	return nil
}

// loadTable returns the recipe table selected by --recipes.
func loadTable(cmd *cli.Command) (*recipe.Table, error) {
	if dir := cmd.String("recipes"); dir != "" {
		slog.Debug("loading recipe table", "dir", dir)
		return recipe.LoadTableFromDir(dir)
	}
	return recipe.DefaultTable()
}

// writeMetrics writes the default registry to path. An empty path is a no-op.
func writeMetrics(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("failed to write metrics to %q: %w", path, err)
	}
	slog.Debug("metrics written", "path", path)
	return nil
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) ||
		sierrors.HasCode(err, sierrors.ErrCodeTimeout) {
		return 2
	}
	return 1
}
