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
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/TyRoXx/silicium/pkg/recipe"
)

func nameFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "name",
		Aliases:  []string{"n"},
		Required: true,
		Usage:    "Recipe name (e.g., silicium)",
	}
}

func versionFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "version",
		Usage: "Recipe version or prefix (e.g., 0.2.0, 0.2); latest when empty",
	}
}

// recipeSummary is one row of the versions listing.
type recipeSummary struct {
	Name         string   `json:"name" yaml:"name"`
	Version      string   `json:"version" yaml:"version"`
	Generator    string   `json:"generator,omitempty" yaml:"generator,omitempty"`
	Requirements []string `json:"requirements,omitempty" yaml:"requirements,omitempty"`
	ImportRules  int      `json:"importRules" yaml:"importRules"`
	Source       string   `json:"source,omitempty" yaml:"source,omitempty"`
}

type recipeList []recipeSummary

func (l recipeList) Columns() []string {
	return []string{"name", "version", "generator", "requirements", "imports"}
}

func (l recipeList) Rows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, r := range l {
		rows = append(rows, []string{r.Name, r.Version, r.Generator, strings.Join(r.Requirements, ","), strconv.Itoa(r.ImportRules)})
	}
	return rows
}

func summarize(e recipe.Entry) recipeSummary {
	s := recipeSummary{
		Name:        e.Name,
		Version:     e.Version,
		Generator:   e.Descriptor.Generator(),
		ImportRules: len(e.Descriptor.ImportRules()),
		Source:      e.Source,
	}
	for _, req := range e.Descriptor.Requirements() {
		s.Requirements = append(s.Requirements, req.String())
	}
	return s
}

// requirementList is the deps output.
type requirementList []recipe.Requirement

func (l requirementList) Columns() []string {
	return []string{"name", "version", "channel", "reference"}
}

func (l requirementList) Rows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, r := range l {
		rows = append(rows, []string{r.Name, r.Version, r.Channel, r.String()})
	}
	return rows
}

func versionsCmd() *cli.Command {
	return &cli.Command{
		Name:                  "versions",
		EnableShellCompletion: true,
		Usage:                 "List available recipe versions",
		Description: `List the recipe table: every recipe name and version with its generator,
requirements and number of import rules.

# Examples

List all recipes:
  sirecipe versions -t table

List the versions of one recipe loaded from a directory:
  sirecipe --recipes ./recipes versions --name silicium`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "Only list versions of this recipe",
			},
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			table, err := loadTable(cmd)
			if err != nil {
				return fmt.Errorf("failed to load recipe table: %w", err)
			}

			filter := cmd.String("name")
			list := recipeList{}
			for _, e := range table.Entries() {
				if filter != "" && e.Name != filter {
					continue
				}
				list = append(list, summarize(e))
			}
			if filter != "" && len(list) == 0 {
				return fmt.Errorf("no recipe named %q", filter)
			}

			return writeOutput(ctx, cmd, outFormat, list)
		},
	}
}

func showCmd() *cli.Command {
	return &cli.Command{
		Name:                  "show",
		EnableShellCompletion: true,
		Usage:                 "Print the recipe document of a recipe version",
		Description: `Resolve a recipe version and print its normalized recipe document.

The version may be exact (0.2.0), a prefix (0.2 selects the newest 0.2.x) or
empty for the latest version.

# Examples

  sirecipe show --name silicium
  sirecipe show --name silicium --version 0.1 -t json`,
		Flags: []cli.Flag{
			nameFlag(),
			versionFlag(),
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			desc, err := resolveRecipe(cmd)
			if err != nil {
				return err
			}

			return writeOutput(ctx, cmd, outFormat, recipe.DocumentFor(desc))
		},
	}
}

func depsCmd() *cli.Command {
	return &cli.Command{
		Name:                  "deps",
		EnableShellCompletion: true,
		Usage:                 "List the requirements of a recipe version",
		Description: `List the dependency requirements a recipe version declares, in declaration
order. The reference column uses the Name/Version@Channel form expected by
package managers.

# Examples

  sirecipe deps --name silicium -t table`,
		Flags: []cli.Flag{
			nameFlag(),
			versionFlag(),
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			desc, err := resolveRecipe(cmd)
			if err != nil {
				return err
			}

			return writeOutput(ctx, cmd, outFormat, requirementList(desc.Requirements()))
		},
	}
}

// resolveRecipe loads the recipe table and resolves --name and --version.
func resolveRecipe(cmd *cli.Command) (*recipe.Descriptor, error) {
	table, err := loadTable(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe table: %w", err)
	}

	recipeName := cmd.String("name")
	query := cmd.String("version")
	desc, err := table.Resolve(recipeName, query)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve recipe %s %q: %w", recipeName, query, err)
	}

	slog.Debug("resolved recipe",
		"recipe", desc.Ref(),
		"query", query)
	return desc, nil
}
