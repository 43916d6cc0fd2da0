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

package importer

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path"
	"path/filepath"
	"slices"

	"github.com/TyRoXx/silicium/pkg/config"
	sierrors "github.com/TyRoXx/silicium/pkg/errors"
	"github.com/TyRoXx/silicium/pkg/match"
	"github.com/TyRoXx/silicium/pkg/recipe"
	"github.com/TyRoXx/silicium/pkg/staging"
)

// DependencyRoots returns the output roots of the requirements of desc in
// declaration order. installed maps requirement names to the directory the
// dependency was built or installed into. A requirement without an entry is
// a NOT_FOUND error; entries for undeclared names are ignored.
func DependencyRoots(desc *recipe.Descriptor, installed map[string]string) ([]string, error) {
	if desc == nil {
		return nil, sierrors.New(sierrors.ErrCodeInvalidRequest, "recipe descriptor is required")
	}

	reqs := desc.Requirements()
	roots := make([]string, 0, len(reqs))
	declared := make(map[string]struct{}, len(reqs))
	for _, req := range reqs {
		declared[req.Name] = struct{}{}
		root, ok := installed[req.Name]
		if !ok || root == "" {
			return nil, sierrors.NewWithContext(sierrors.ErrCodeNotFound, "no installed root for requirement",
				map[string]any{"recipe": desc.Ref(), "requirement": req.String()})
		}
		roots = append(roots, root)
	}

	for _, name := range slices.Sorted(maps.Keys(installed)) {
		if _, ok := declared[name]; !ok {
			slog.Warn("ignoring root of undeclared dependency",
				"recipe", desc.Ref(),
				"dependency", name,
				"root", installed[name],
			)
		}
	}
	return roots, nil
}

// Stager plans and applies import staging.
type Stager struct {
	applier *staging.Applier
}

// NewStager returns a Stager using cfg. A nil cfg uses config.NewConfig().
func NewStager(cfg *config.Config) (*Stager, error) {
	applier, err := staging.NewApplier(cfg)
	if err != nil {
		return nil, err
	}
	return &Stager{applier: applier}, nil
}

// Plan applies every import rule of desc to every dependency root and
// returns the copies into binDir. Rules are evaluated in declaration order
// and roots in the given order; when two files map to the same destination
// the first one wins.
func (s *Stager) Plan(ctx context.Context, desc *recipe.Descriptor, dependencyRoots []string, binDir string) (*staging.Plan, error) {
	if desc == nil {
		return nil, sierrors.New(sierrors.ErrCodeInvalidRequest, "recipe descriptor is required")
	}

	plan := staging.NewPlan(staging.OperationImport, desc.Ref(), binDir)
	rules := desc.ImportRules()
	if len(rules) == 0 {
		slog.Debug("recipe has no import rules", "recipe", desc.Ref())
		return plan, nil
	}

	for _, root := range dependencyRoots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, sierrors.WrapWithContext(sierrors.ErrCodeIO, "failed to stat dependency root", err,
				map[string]any{"recipe": desc.Ref(), "root": root})
		}
		if !info.IsDir() {
			return nil, sierrors.NewWithContext(sierrors.ErrCodeIO, "dependency root is not a directory",
				map[string]any{"recipe": desc.Ref(), "root": root})
		}
	}

	for _, rule := range rules {
		matched := 0
		for _, root := range dependencyRoots {
			n, err := planRule(ctx, plan, rule, root)
			if err != nil {
				return nil, err
			}
			matched += n
		}
		if matched == 0 {
			slog.Debug("import rule matched no files",
				"recipe", desc.Ref(),
				"pattern", rule.Pattern,
				"src", rule.SrcDir,
				"root_count", len(dependencyRoots),
			)
		}
	}

	slog.Debug("import plan computed",
		"recipe", desc.Ref(),
		"bin_dir", binDir,
		"rule_count", len(rules),
		"file_count", plan.Len(),
	)
	return plan, nil
}

// planRule adds the files of root matched by rule and returns their count.
func planRule(ctx context.Context, plan *staging.Plan, rule recipe.ImportRule, root string) (int, error) {
	srcDir := filepath.Join(root, filepath.FromSlash(rule.SrcDir))
	if _, err := os.Stat(srcDir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("import source directory missing",
				"root", root,
				"src", rule.SrcDir,
			)
			return 0, nil
		}
		return 0, sierrors.WrapWithContext(sierrors.ErrCodeIO, "failed to stat import source directory", err,
			map[string]any{"path": srcDir})
	}

	files, err := match.Match(ctx, srcDir, []string{rule.Pattern})
	if err != nil {
		return 0, sierrors.WrapWithContext(sierrors.CodeOf(err), "failed to match import sources", err,
			map[string]any{"path": srcDir, "pattern": rule.Pattern})
	}

	for _, rel := range files {
		dest := path.Join(rule.DestDir, filepath.Base(rel))
		if err := plan.Add(filepath.Join(srcDir, rel), dest, rule.Pattern); err != nil {
			return 0, err
		}
	}
	return len(files), nil
}

// Apply executes plan. The report is always returned; see staging.Applier.
func (s *Stager) Apply(ctx context.Context, plan *staging.Plan) (*staging.Report, error) {
	return s.applier.Apply(ctx, plan)
}
