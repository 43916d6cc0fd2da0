/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/TyRoXx/silicium/pkg/config"
	"github.com/TyRoXx/silicium/pkg/defaults"
	"github.com/TyRoXx/silicium/pkg/exporter"
	"github.com/TyRoXx/silicium/pkg/importer"
	"github.com/TyRoXx/silicium/pkg/serializer"
	"github.com/TyRoXx/silicium/pkg/staging"
)

// applyFlags returns the flags shared by export and import.
func applyFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Report the copies that would happen without writing anything",
		},
		&cli.BoolFlag{
			Name:  "plan",
			Usage: "Print the staging plan and exit without applying it",
		},
		&cli.IntFlag{
			Name:    "parallel",
			Value:   defaults.ApplyParallelism,
			Usage:   fmt.Sprintf("Number of concurrent copies (1-%d)", defaults.MaxApplyParallelism),
			Sources: cli.EnvVars("SIRECIPE_PARALLEL"),
		},
		&cli.StringFlag{
			Name:  "compare",
			Value: string(config.CompareContent),
			Usage: fmt.Sprintf("Up-to-date check for existing files (supported values: %v)", config.SupportedCompareModes()),
		},
		&cli.FloatFlag{
			Name:  "rate-limit",
			Usage: "Maximum file copies per second (0 means unlimited)",
		},
		&cli.BoolFlag{
			Name:  "no-clean",
			Usage: "Keep temp files left behind by earlier interrupted runs",
		},
	}
}

// configFromCmd builds the staging configuration from the apply flags.
func configFromCmd(cmd *cli.Command) (*config.Config, error) {
	mode := config.CompareMode(cmd.String("compare"))
	if !mode.IsValid() {
		return nil, fmt.Errorf("invalid --compare value %q (supported values: %v)", mode, config.SupportedCompareModes())
	}

	cfg := config.NewConfig(
		config.WithParallelism(cmd.Int("parallel")),
		config.WithDryRun(cmd.Bool("dry-run")),
		config.WithCompareMode(mode),
		config.WithIncludeChecksums(cmd.Bool("checksums")),
		config.WithCleanStale(!cmd.Bool("no-clean")),
		config.WithRateLimit(cmd.Float("rate-limit")),
		config.WithVersion(version),
	)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid apply flags: %w", err)
	}
	return cfg, nil
}

// parseDeps parses repeated NAME=ROOT values.
func parseDeps(values []string) (map[string]string, error) {
	deps := make(map[string]string, len(values))
	for _, v := range values {
		depName, root, ok := strings.Cut(v, "=")
		depName = strings.TrimSpace(depName)
		root = strings.TrimSpace(root)
		if !ok || depName == "" || root == "" {
			return nil, fmt.Errorf("invalid --dep %q, expected NAME=ROOT", v)
		}
		if prev, dup := deps[depName]; dup {
			return nil, fmt.Errorf("duplicate --dep for %q (%s and %s)", depName, prev, root)
		}
		deps[depName] = root
	}
	return deps, nil
}

// applyPlan prints the plan when --plan is set, otherwise applies it with
// apply and prints the report. The report is printed also when apply fails.
func applyPlan(ctx context.Context, cmd *cli.Command, format serializer.Format, plan *staging.Plan,
	apply func(context.Context, *staging.Plan) (*staging.Report, error)) error {

	if cmd.Bool("plan") {
		return writeOutput(ctx, cmd, format, plan)
	}

	report, applyErr := apply(ctx, plan)
	if report != nil {
		if err := writeOutput(ctx, cmd, format, report); err != nil {
			return err
		}
	}
	if applyErr != nil {
		return fmt.Errorf("%s of %s failed: %w", plan.Operation, plan.Recipe, applyErr)
	}
	return nil
}

func exportCmd() *cli.Command {
	flags := []cli.Flag{
		nameFlag(),
		versionFlag(),
		&cli.StringFlag{
			Name:     "source",
			Aliases:  []string{"s"},
			Required: true,
			Usage:    "Recipe source root; exported files are matched below <source>/<export src>",
		},
		&cli.StringFlag{
			Name:     "package",
			Aliases:  []string{"p"},
			Required: true,
			Usage:    "Package root; files are written below <package>/<export dest>",
		},
		&cli.BoolFlag{
			Name:  "checksums",
			Usage: "Write a checksums.txt of the exported files to the export root",
		},
	}
	flags = append(flags, applyFlags()...)
	flags = append(flags, outputFlag(), formatFlag())

	return &cli.Command{
		Name:                  "export",
		EnableShellCompletion: true,
		Usage:                 "Copy the exported sources of a recipe into a package root",
		Description: `Match the export patterns of a recipe below the source root and copy every
match into the package's include layout, keeping relative paths:

  <source>/<export src>/a/b.hpp -> <package>/<export dest>/a/b.hpp

Each file is written atomically. Files that are already up to date are
skipped, so re-running an export copies nothing. When some files fail the
remaining files are still exported, the report lists the failures and the
command exits non-zero.

# Examples

Export the latest silicium recipe:
  sirecipe export --name silicium --source . --package ./out

Show what would be copied:
  sirecipe export -n silicium -s . -p ./out --dry-run -t table`,
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}
			cfg, err := configFromCmd(cmd)
			if err != nil {
				return err
			}
			desc, err := resolveRecipe(cmd)
			if err != nil {
				return err
			}

			exp, err := exporter.New(cfg)
			if err != nil {
				return err
			}
			plan, err := exp.Plan(ctx, desc, cmd.String("source"), cmd.String("package"))
			if err != nil {
				return fmt.Errorf("failed to plan export: %w", err)
			}

			return applyPlan(ctx, cmd, outFormat, plan, exp.Apply)
		},
	}
}

func importCmd() *cli.Command {
	flags := []cli.Flag{
		nameFlag(),
		versionFlag(),
		&cli.StringSliceFlag{
			Name:  "dep",
			Usage: "Installed root of a requirement (format: NAME=ROOT, can be repeated)",
		},
		&cli.StringFlag{
			Name:     "bin",
			Aliases:  []string{"b"},
			Required: true,
			Usage:    "Binary output directory; files are written below <bin>/<rule dest>",
		},
	}
	flags = append(flags, applyFlags()...)
	flags = append(flags, outputFlag(), formatFlag())

	return &cli.Command{
		Name:                  "import",
		EnableShellCompletion: true,
		Usage:                 "Copy dependency runtime libraries into a binary directory",
		Description: `Apply every import rule of a recipe to the installed root of every
requirement and copy the matching runtime libraries flat into the binary
output directory:

  <dep root>/<rule src>/.../boost_system.dll -> <bin>/<rule dest>/boost_system.dll

Rules are platform specific only through their patterns; on a platform that
produces no matching files nothing is copied. A recipe without import rules
writes nothing.

# Examples

  sirecipe import --name silicium --dep Boost=/opt/boost --bin ./build`,
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}
			cfg, err := configFromCmd(cmd)
			if err != nil {
				return err
			}
			deps, err := parseDeps(cmd.StringSlice("dep"))
			if err != nil {
				return err
			}
			desc, err := resolveRecipe(cmd)
			if err != nil {
				return err
			}

			roots, err := importer.DependencyRoots(desc, deps)
			if err != nil {
				return fmt.Errorf("failed to resolve dependency roots: %w", err)
			}

			stager, err := importer.NewStager(cfg)
			if err != nil {
				return err
			}
			plan, err := stager.Plan(ctx, desc, roots, cmd.String("bin"))
			if err != nil {
				return fmt.Errorf("failed to plan import: %w", err)
			}

			return applyPlan(ctx, cmd, outFormat, plan, stager.Apply)
		},
	}
}
