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

package recipe

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sierrors "github.com/TyRoXx/silicium/pkg/errors"
)

func docFor(name, ver string) string {
	return fmt.Sprintf(`kind: Recipe
apiVersion: sirecipe.silicium.io/v1alpha1
metadata:
  name: %s
  version: %s
spec:
  export:
    src: src
    patterns: ["*.h"]
`, name, ver)
}

func mustDesc(t *testing.T, name, ver string) *Descriptor {
	t.Helper()
	d, err := New(Spec{Name: name, Version: ver, ExportSrc: "src", ExportDest: "include/" + name})
	require.NoError(t, err)
	return d
}

func TestDefaultTable(t *testing.T) {
	table, err := DefaultTable()
	require.NoError(t, err)

	assert.Equal(t, []string{"silicium"}, table.Names())
	assert.Equal(t, []string{"0.1.0", "0.2.0"}, table.Versions("silicium"))

	old, err := table.Get("silicium", "0.1.0")
	require.NoError(t, err)
	assert.Empty(t, old.ImportRules())
	assert.Equal(t, "cmake", old.Generator())

	latest, err := table.Latest("silicium")
	require.NoError(t, err)
	assert.Equal(t, "0.2.0", latest.Version())
	assert.Equal(t, []ImportRule{
		{Pattern: "*.dll", DestDir: "bin", SrcDir: "bin"},
		{Pattern: "*.dylib*", DestDir: "bin", SrcDir: "lib"},
	}, latest.ImportRules())

	for _, d := range []*Descriptor{old, latest} {
		assert.Equal(t, []string{"*.hpp"}, d.ExportPatterns())
		assert.Equal(t, "silicium", d.ExportSrc())
		assert.Equal(t, "include/silicium", d.ExportDest())
		assert.Equal(t, []Requirement{{Name: "Boost", Version: "1.60.0", Channel: "lasote/stable"}}, d.Requirements())
	}

	again, err := DefaultTable()
	require.NoError(t, err)
	assert.Same(t, table, again)
}

func TestTableOrderingAndResolve(t *testing.T) {
	table, err := NewTable(
		mustDesc(t, "silicium", "0.10.0"),
		mustDesc(t, "silicium", "trunk"),
		mustDesc(t, "silicium", "0.2.0"),
		mustDesc(t, "silicium", "0.2.1"),
		mustDesc(t, "silicium", "0.2.0-rc1"),
		mustDesc(t, "silicium", "1.0.0"),
		mustDesc(t, "boost", "1.60.0"),
	)
	require.NoError(t, err)

	assert.Equal(t, 7, table.Len())
	assert.Equal(t, []string{"boost", "silicium"}, table.Names())
	assert.Equal(t, []string{"0.2.0-rc1", "0.2.0", "0.2.1", "0.10.0", "1.0.0", "trunk"}, table.Versions("silicium"))

	tests := []struct {
		query   string
		want    string
		wantErr bool
	}{
		{query: "", want: "1.0.0"},
		{query: "latest", want: "1.0.0"},
		{query: "0", want: "0.10.0"},
		{query: "0.2", want: "0.2.1"},
		{query: "0.2.0", want: "0.2.0"},
		{query: "0.2.0-rc1", want: "0.2.0-rc1"},
		{query: "v1", want: "1.0.0"},
		{query: "trunk", want: "trunk"},
		{query: "2", wantErr: true},
		{query: "0.3", wantErr: true},
		{query: "nightly", wantErr: true},
	}
	for _, tt := range tests {
		t.Run("query "+tt.query, func(t *testing.T) {
			d, err := table.Resolve("silicium", tt.query)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, sierrors.ErrCodeNotFound, sierrors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Version())
		})
	}

	_, err = table.Latest("zlib")
	assert.Equal(t, sierrors.ErrCodeNotFound, sierrors.CodeOf(err))
	_, err = table.Get("boost", "1.61.0")
	assert.Equal(t, sierrors.ErrCodeNotFound, sierrors.CodeOf(err))
}

func TestTableLatestWithOnlyNamedVersions(t *testing.T) {
	table, err := NewTable(mustDesc(t, "x", "beta"), mustDesc(t, "x", "alpha"))
	require.NoError(t, err)

	d, err := table.Latest("x")
	require.NoError(t, err)
	assert.Equal(t, "beta", d.Version())
}

func TestNewTableRejectsDuplicates(t *testing.T) {
	_, err := NewTable(mustDesc(t, "x", "1.0"), mustDesc(t, "x", "1.0"))
	require.Error(t, err)
	assert.Equal(t, sierrors.ErrCodeInvalidRecipe, sierrors.CodeOf(err))
}

func TestLoadTable(t *testing.T) {
	fsys := fstest.MapFS{
		"recipes/a-1.yaml":       {Data: []byte(docFor("a", "1.0.0"))},
		"recipes/nested/a-2.yml": {Data: []byte(docFor("a", "2.0.0"))},
		"recipes/README.md":      {Data: []byte("not a recipe")},
		"recipes/b.json":         {Data: []byte(`{"kind":"Recipe","apiVersion":"sirecipe.silicium.io/v1alpha1","metadata":{"name":"b","version":"0.1"},"spec":{"export":{"src":"."}}}`)},
		"elsewhere/ignored.yaml": {Data: []byte("kind: Nope")},
	}

	table, err := LoadTable(fsys, "recipes")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, table.Names())
	assert.Equal(t, []string{"1.0.0", "2.0.0"}, table.Versions("a"))

	entries := table.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "recipes/a-1.yaml", entries[0].Source)
	assert.Equal(t, "recipes/nested/a-2.yml", entries[1].Source)
}

func TestLoadTableErrors(t *testing.T) {
	t.Run("invalid document", func(t *testing.T) {
		fsys := fstest.MapFS{
			"bad.yaml": {Data: []byte(strings.Replace(docFor("a", "1"), "src: src", "src: ../up", 1))},
		}
		_, err := LoadTable(fsys, ".")
		require.Error(t, err)
		assert.Equal(t, sierrors.ErrCodeInvalidRecipe, sierrors.CodeOf(err))
		assert.Contains(t, err.Error(), "spec.export.src")
	})

	t.Run("duplicate versions across files", func(t *testing.T) {
		fsys := fstest.MapFS{
			"one.yaml": {Data: []byte(docFor("a", "1"))},
			"two.yaml": {Data: []byte(docFor("a", "1"))},
		}
		_, err := LoadTable(fsys, ".")
		require.Error(t, err)
		assert.Equal(t, sierrors.ErrCodeInvalidRecipe, sierrors.CodeOf(err))
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := LoadTable(fstest.MapFS{}, "missing")
		require.Error(t, err)
		assert.Equal(t, sierrors.ErrCodeIO, sierrors.CodeOf(err))
	})
}

func TestLoadTableFromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(docFor("a", "1.0")), 0o644))

	table, err := LoadTableFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"1.0"}, table.Versions("a"))

	_, err = LoadTableFromDir(filepath.Join(dir, "missing"))
	assert.Equal(t, sierrors.ErrCodeIO, sierrors.CodeOf(err))

	_, err = LoadTableFromDir(filepath.Join(dir, "a.yaml"))
	assert.Equal(t, sierrors.ErrCodeIO, sierrors.CodeOf(err))
}
