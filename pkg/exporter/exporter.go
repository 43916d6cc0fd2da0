// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package exporter

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/TyRoXx/silicium/pkg/checksum"
	"github.com/TyRoXx/silicium/pkg/config"
	"github.com/TyRoXx/silicium/pkg/defaults"
	sierrors "github.com/TyRoXx/silicium/pkg/errors"
	"github.com/TyRoXx/silicium/pkg/match"
	"github.com/TyRoXx/silicium/pkg/recipe"
	"github.com/TyRoXx/silicium/pkg/staging"
)

// Exporter plans and applies package exports.
type Exporter struct {
	cfg     *config.Config
	applier *staging.Applier
}

// New returns an Exporter using cfg. A nil cfg uses config.NewConfig().
func New(cfg *config.Config) (*Exporter, error) {
	applier, err := staging.NewApplier(cfg)
	if err != nil {
		return nil, err
	}
	return &Exporter{cfg: applier.Config(), applier: applier}, nil
}

// Plan matches the export patterns of desc below sourceRoot and returns the
// copies into packageRoot. The plan is read-only; nothing is written.
func (e *Exporter) Plan(ctx context.Context, desc *recipe.Descriptor, sourceRoot, packageRoot string) (*staging.Plan, error) {
	if desc == nil {
		return nil, sierrors.New(sierrors.ErrCodeInvalidRequest, "recipe descriptor is required")
	}

	srcDir := filepath.Join(sourceRoot, filepath.FromSlash(desc.ExportSrc()))
	destRoot := filepath.Join(packageRoot, filepath.FromSlash(desc.ExportDest()))
	if resolvePath(srcDir) == resolvePath(destRoot) {
		return nil, sierrors.NewWithContext(sierrors.ErrCodeInvalidRequest,
			"export destination must differ from the export source",
			map[string]any{"recipe": desc.Ref(), "source": srcDir, "dest_root": destRoot})
	}
	plan := staging.NewPlan(staging.OperationExport, desc.Ref(), destRoot)

	// A package root inside the source tree must not feed earlier exports
	// back into the plan.
	patterns := desc.ExportPatterns()
	files, err := match.Match(ctx, srcDir, patterns, match.WithExclude(destRoot))
	if err != nil {
		return nil, sierrors.WrapWithContext(sierrors.CodeOf(err), "failed to match export sources", err,
			map[string]any{"recipe": desc.Ref(), "source": srcDir})
	}

	for _, rel := range files {
		if err := plan.Add(filepath.Join(srcDir, rel), filepath.ToSlash(rel), ruleFor(patterns, rel)); err != nil {
			return nil, err
		}
	}

	slog.Debug("export plan computed",
		"recipe", desc.Ref(),
		"source", srcDir,
		"dest_root", destRoot,
		"pattern_count", len(patterns),
		"file_count", plan.Len(),
	)
	return plan, nil
}

// Apply executes plan. The report is always returned; see staging.Applier.
func (e *Exporter) Apply(ctx context.Context, plan *staging.Plan) (*staging.Report, error) {
	report, err := e.applier.Apply(ctx, plan)
	if err != nil {
		return report, err
	}
	if !e.cfg.IncludeChecksums() || e.cfg.DryRun() || plan.Len() == 0 {
		return report, nil
	}

	manifest, err := checksum.Manifest(ctx, plan.DestRoot, plan.Destinations())
	if err != nil {
		return report, sierrors.WrapWithContext(sierrors.ErrCodeIO, "failed to compute export checksums", err,
			map[string]any{"dest_root": plan.DestRoot})
	}
	path := checksum.GetChecksumFilePath(plan.DestRoot)
	written, err := staging.WriteFile(path, manifest, defaults.GeneratedMode, report.RunID)
	if err != nil {
		return report, sierrors.WrapWithContext(sierrors.ErrCodeIO, "failed to write export checksums", err,
			map[string]any{"dest_root": plan.DestRoot})
	}
	slog.Debug("export checksums", "path", path, "written", written)
	report.Checksums = path
	return report, nil
}

// resolvePath returns p as an absolute path with symlinks resolved as far as
// the path exists.
func resolvePath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	var rest []string
	for dir := abs; ; dir = filepath.Dir(dir) {
		if c, err := match.Canonical(dir); err == nil {
			return filepath.Join(append([]string{c}, rest...)...)
		}
		if filepath.Dir(dir) == dir {
			return abs
		}
		rest = append([]string{filepath.Base(dir)}, rest...)
	}
}

// ruleFor returns the first pattern selecting rel.
func ruleFor(patterns []string, rel string) string {
	slashed := filepath.ToSlash(rel)
	for _, p := range patterns {
		if match.Matches(p, slashed) {
			return p
		}
	}
	return ""
}
