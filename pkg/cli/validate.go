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

	"github.com/urfave/cli/v3"

	sierrors "github.com/TyRoXx/silicium/pkg/errors"
	"github.com/TyRoXx/silicium/pkg/recipe"
)

// validationResult is the outcome for one recipe document.
type validationResult struct {
	File   string `json:"file" yaml:"file"`
	Recipe string `json:"recipe,omitempty" yaml:"recipe,omitempty"`
	Valid  bool   `json:"valid" yaml:"valid"`
	Code   string `json:"code,omitempty" yaml:"code,omitempty"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

type validationResults []validationResult

func (r validationResults) Columns() []string {
	return []string{"file", "recipe", "valid", "error"}
}

func (r validationResults) Rows() [][]string {
	rows := make([][]string, 0, len(r))
	for _, v := range r {
		rows = append(rows, []string{v.File, v.Recipe, strconv.FormatBool(v.Valid), v.Error})
	}
	return rows
}

func validateCmd() *cli.Command {
	return &cli.Command{
		Name:                  "validate",
		EnableShellCompletion: true,
		Usage:                 "Validate recipe documents",
		ArgsUsage:             "FILE...",
		Description: `Validate one or more recipe documents (YAML or JSON).

Each document is decoded strictly (unknown fields are errors) and checked the
same way recipes are checked when a recipe table is loaded: non-empty name and
version, unique requirements, relative export and import directories that do
not leave the recipe root, and well-formed patterns.

The command exits with a non-zero status if any document is invalid.

# Examples

  sirecipe validate recipes/*.yaml
  sirecipe validate -t table silicium-0.2.0.yaml`,
		Flags: []cli.Flag{
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			files := cmd.Args().Slice()
			if len(files) == 0 {
				return fmt.Errorf("at least one recipe document is required")
			}

			results := make(validationResults, 0, len(files))
			invalid := 0
			for _, file := range files {
				res := validationResult{File: file, Valid: true}
				desc, err := recipe.LoadFile(file)
				if err != nil {
					invalid++
					res.Valid = false
					res.Code = string(sierrors.CodeOf(err))
					res.Error = err.Error()
					slog.Debug("invalid recipe document", "file", file, "error", err)
				} else {
					res.Recipe = desc.Ref()
				}
				results = append(results, res)
			}

			if err := writeOutput(ctx, cmd, outFormat, results); err != nil {
				return err
			}

			if invalid > 0 {
				return fmt.Errorf("%d of %d recipe document(s) invalid", invalid, len(files))
			}
			return nil
		},
	}
}
