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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TyRoXx/silicium/pkg/config"
	sierrors "github.com/TyRoXx/silicium/pkg/errors"
	"github.com/TyRoXx/silicium/pkg/recipe"
	"github.com/TyRoXx/silicium/pkg/staging"
)

var platformRules = []recipe.ImportRule{
	{Pattern: "*.dll", DestDir: "bin", SrcDir: "bin"},
	{Pattern: "*.dylib*", DestDir: "bin", SrcDir: "lib"},
}

func testDescriptor(t *testing.T, rules []recipe.ImportRule, reqs ...recipe.Requirement) *recipe.Descriptor {
	t.Helper()
	desc, err := recipe.New(recipe.Spec{
		Name:           "silicium",
		Version:        "0.2.0",
		Requirements:   reqs,
		ExportPatterns: []string{"*.hpp"},
		ExportSrc:      "silicium",
		ExportDest:     "include/silicium",
		ImportRules:    rules,
		Generator:      "cmake",
	})
	require.NoError(t, err)
	return desc
}

func dependency(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, rel := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(rel), 0o644))
	}
	return root
}

func newStager(t *testing.T, opts ...config.Option) *Stager {
	t.Helper()
	s, err := NewStager(config.NewConfig(opts...))
	require.NoError(t, err)
	return s
}

func TestDependencyRoots(t *testing.T) {
	boost := recipe.Requirement{Name: "Boost", Version: "1.60.0", Channel: "lasote/stable"}
	zlib := recipe.Requirement{Name: "zlib", Version: "1.2.8"}
	desc := testDescriptor(t, nil, boost, zlib)

	roots, err := DependencyRoots(desc, map[string]string{
		"zlib":    "/deps/zlib",
		"Boost":   "/deps/boost",
		"ignored": "/deps/other",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/deps/boost", "/deps/zlib"}, roots)

	_, err = DependencyRoots(desc, map[string]string{"Boost": "/deps/boost"})
	require.Error(t, err)
	assert.Equal(t, sierrors.ErrCodeNotFound, sierrors.CodeOf(err))

	roots, err = DependencyRoots(testDescriptor(t, nil), nil)
	require.NoError(t, err)
	assert.Empty(t, roots)
}

func TestStageRuntimeArtifacts(t *testing.T) {
	boost := dependency(t,
		"bin/boost_system.dll",
		"bin/boost_system.pdb",
		"bin/tools/bcp.dll",
		"lib/libboost_system.dylib",
		"lib/libboost_system.dylib.1.60.0",
		"lib/libboost_system.a",
	)
	binDir := filepath.Join(t.TempDir(), "build")
	desc := testDescriptor(t, platformRules)

	s := newStager(t)
	plan, err := s.Plan(context.Background(), desc, []string{boost}, binDir)
	require.NoError(t, err)
	assert.Equal(t, staging.OperationImport, plan.Operation)

	var rels []string
	for _, e := range plan.Entries {
		rels = append(rels, e.Rel)
	}
	assert.Equal(t, []string{
		"bin/boost_system.dll",
		"bin/bcp.dll",
		"bin/libboost_system.dylib",
		"bin/libboost_system.dylib.1.60.0",
	}, rels)

	report, err := s.Apply(context.Background(), plan)
	require.NoError(t, err)
	assert.Equal(t, 4, report.Copied)

	data, err := os.ReadFile(filepath.Join(binDir, "bin", "bcp.dll"))
	require.NoError(t, err)
	assert.Equal(t, "bin/tools/bcp.dll", string(data))

	again, err := s.Apply(context.Background(), plan)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Copied)
	assert.Equal(t, 4, again.Skipped)
}

func TestStageZeroRules(t *testing.T) {
	boost := dependency(t, "bin/boost_system.dll")
	binDir := filepath.Join(t.TempDir(), "build")
	desc := testDescriptor(t, nil)

	s := newStager(t)
	plan, err := s.Plan(context.Background(), desc, []string{boost}, binDir)
	require.NoError(t, err)
	assert.Equal(t, 0, plan.Len())

	report, err := s.Apply(context.Background(), plan)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Copied)
	assert.Empty(t, report.Failed)

	_, statErr := os.Stat(binDir)
	assert.True(t, errors.Is(statErr, fs.ErrNotExist), "no writes for a recipe without import rules")
}

func TestStageNonApplicablePlatform(t *testing.T) {
	// a Linux build produces neither dlls nor dylibs
	boost := dependency(t, "lib/libboost_system.so.1.60.0", "include/boost/config.hpp")
	binDir := filepath.Join(t.TempDir(), "build")

	s := newStager(t)
	plan, err := s.Plan(context.Background(), testDescriptor(t, platformRules), []string{boost}, binDir)
	require.NoError(t, err)
	assert.Equal(t, 0, plan.Len())

	report, err := s.Apply(context.Background(), plan)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Copied)
}

func TestStageMultipleRootsFirstWins(t *testing.T) {
	first := dependency(t, "bin/common.dll", "bin/a.dll")
	second := dependency(t, "bin/common.dll", "bin/b.dll")

	plan, err := newStager(t).Plan(context.Background(), testDescriptor(t, platformRules), []string{first, second}, t.TempDir())
	require.NoError(t, err)

	sources := map[string]string{}
	for _, e := range plan.Entries {
		sources[e.Rel] = e.Source
	}
	assert.Equal(t, map[string]string{
		"bin/a.dll":      filepath.Join(first, "bin", "a.dll"),
		"bin/common.dll": filepath.Join(first, "bin", "common.dll"),
		"bin/b.dll":      filepath.Join(second, "bin", "b.dll"),
	}, sources)
}

func TestStageErrors(t *testing.T) {
	s := newStager(t)
	desc := testDescriptor(t, platformRules)

	_, err := s.Plan(context.Background(), desc, []string{filepath.Join(t.TempDir(), "missing")}, t.TempDir())
	require.Error(t, err)
	assert.Equal(t, sierrors.ErrCodeIO, sierrors.CodeOf(err))

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = s.Plan(context.Background(), desc, []string{file}, t.TempDir())
	require.Error(t, err)
	assert.Equal(t, sierrors.ErrCodeIO, sierrors.CodeOf(err))

	_, err = s.Plan(context.Background(), nil, nil, t.TempDir())
	require.Error(t, err)
	assert.Equal(t, sierrors.ErrCodeInvalidRequest, sierrors.CodeOf(err))

	_, err = NewStager(config.NewConfig(config.WithCompareMode("bogus")))
	require.Error(t, err)
}

func TestStagePartialImportFailure(t *testing.T) {
	boost := dependency(t, "bin/a.dll", "bin/b.dll")
	binDir := t.TempDir()

	s := newStager(t)
	plan, err := s.Plan(context.Background(), testDescriptor(t, platformRules), []string{boost}, binDir)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(binDir, "bin", "a.dll"), 0o755))

	report, err := s.Apply(context.Background(), plan)
	require.Error(t, err)
	var partial *staging.PartialFailureError
	require.True(t, errors.As(err, &partial))
	assert.Equal(t, "PartialImportFailure", partial.Name())
	assert.Equal(t, 1, report.Copied)
	assert.Len(t, report.Failed, 1)
}
