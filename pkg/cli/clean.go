/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/TyRoXx/silicium/pkg/staging"
)

// cleanResult is the outcome for one cleaned directory.
type cleanResult struct {
	Dir     string `json:"dir" yaml:"dir"`
	Removed int    `json:"removed" yaml:"removed"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

type cleanResults []cleanResult

func (r cleanResults) Columns() []string {
	return []string{"dir", "removed", "error"}
}

func (r cleanResults) Rows() [][]string {
	rows := make([][]string, 0, len(r))
	for _, c := range r {
		rows = append(rows, []string{c.Dir, strconv.Itoa(c.Removed), c.Error})
	}
	return rows
}

func cleanCmd() *cli.Command {
	return &cli.Command{
		Name:                  "clean",
		EnableShellCompletion: true,
		Usage:                 "Remove temp files left behind by interrupted runs",
		ArgsUsage:             "DIR...",
		Description: `Scan directories for staging temp files (.<name>.sirecipe-<run>.tmp) and
remove them. Only temp files last modified before now minus --older-than are
removed, so copies of a run that is still in progress can be protected with a
grace period. Symlinks are not followed.

# Examples

  sirecipe clean ./out ./build
  sirecipe clean --older-than 10m ./build`,
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "older-than",
				Usage: "Only remove temp files older than this",
			},
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			dirs := cmd.Args().Slice()
			if len(dirs) == 0 {
				return fmt.Errorf("at least one directory is required")
			}
			olderThan := cmd.Duration("older-than")
			if olderThan < 0 {
				return fmt.Errorf("--older-than must not be negative")
			}
			cutoff := time.Now().Add(-olderThan)

			results := make(cleanResults, 0, len(dirs))
			failed := 0
			for _, dir := range dirs {
				removed, err := staging.CleanupStale(ctx, dir, "", cutoff)
				res := cleanResult{Dir: dir, Removed: removed}
				if err != nil {
					failed++
					res.Error = err.Error()
				}
				slog.Info("cleaned stale temp files", "dir", dir, "removed", removed)
				results = append(results, res)
			}

			if err := writeOutput(ctx, cmd, outFormat, results); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("cleanup failed for %d of %d director(ies)", failed, len(dirs))
			}
			return nil
		},
	}
}
