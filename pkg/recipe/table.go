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
	"embed"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"slices"
	"sort"
	"strings"
	"sync"

	sierrors "github.com/TyRoXx/silicium/pkg/errors"
	"github.com/TyRoXx/silicium/pkg/serializer"
	"github.com/TyRoXx/silicium/pkg/version"
)

//go:embed data/*.yaml
var defaultRecipesFS embed.FS

var (
	defaultTableOnce   sync.Once
	cachedDefaultTable *Table
	cachedDefaultErr   error
)

// Entry is one recipe version in a Table.
type Entry struct {
	Name       string
	Version    string
	Descriptor *Descriptor
	// Source is the document path the entry was loaded from, if any.
	Source string
}

// Table is an ordered, read-only set of recipe versions. Entries are sorted
// by name, then by version.
type Table struct {
	entries []Entry
}

// NewTable builds a Table from descriptors. Two descriptors with the same
// name and version are rejected.
func NewTable(descs ...*Descriptor) (*Table, error) {
	entries := make([]Entry, 0, len(descs))
	for _, d := range descs {
		entries = append(entries, Entry{Name: d.Name(), Version: d.Version(), Descriptor: d})
	}
	return newTable(entries)
}

func newTable(entries []Entry) (*Table, error) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return version.CompareStrings(entries[i].Version, entries[j].Version) < 0
	})

	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1], entries[i]
		if prev.Name == cur.Name && prev.Version == cur.Version {
			return nil, sierrors.NewWithContext(sierrors.ErrCodeInvalidRecipe, "duplicate recipe version",
				map[string]any{
					"recipe": cur.Name + "/" + cur.Version,
					"first":  prev.Source,
					"second": cur.Source,
				})
		}
	}
	return &Table{entries: entries}, nil
}

// LoadTable loads every .yaml, .yml and .json recipe document below dir in
// fsys. Loading stops at the first invalid document.
func LoadTable(fsys fs.FS, dir string) (*Table, error) {
	var entries []Entry

	err := fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(path.Ext(p))
		if ext != ".yaml" && ext != ".yml" && ext != ".json" {
			return nil
		}

		f, openErr := fsys.Open(p)
		if openErr != nil {
			return openErr
		}
		defer f.Close()

		doc, parseErr := ParseDocument(serializer.FormatFromPath(p), f)
		if parseErr != nil {
			recipeValidationFailures.Inc()
			return sierrors.WrapWithContext(sierrors.ErrCodeInvalidRecipe, "failed to parse recipe document", parseErr,
				map[string]any{"path": p})
		}

		desc, descErr := doc.ToDescriptor()
		if descErr != nil {
			recipeValidationFailures.Inc()
			return sierrors.WrapWithContext(sierrors.ErrCodeInvalidRecipe, "invalid recipe document", descErr,
				map[string]any{"path": p})
		}

		recipeDocumentsLoaded.Inc()
		slog.Debug("loaded recipe document",
			"path", p,
			"recipe", desc.Ref(),
		)

		entries = append(entries, Entry{
			Name:       desc.Name(),
			Version:    desc.Version(),
			Descriptor: desc,
			Source:     p,
		})
		return nil
	})
	if err != nil {
		if sierrors.CodeOf(err) != "" {
			return nil, err
		}
		return nil, sierrors.WrapWithContext(sierrors.ErrCodeIO, "failed to read recipe directory", err,
			map[string]any{"dir": dir})
	}

	return newTable(entries)
}

// LoadTableFromDir loads a Table from a directory on disk.
func LoadTableFromDir(dir string) (*Table, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, sierrors.WrapWithContext(sierrors.ErrCodeIO, "recipe directory is not accessible", err,
			map[string]any{"dir": dir})
	}
	if !info.IsDir() {
		return nil, sierrors.NewWithContext(sierrors.ErrCodeIO, "recipe path is not a directory",
			map[string]any{"dir": dir})
	}
	return LoadTable(os.DirFS(dir), ".")
}

// DefaultTable returns the embedded recipe table. It is loaded once and
// shared; Table is read-only.
func DefaultTable() (*Table, error) {
	firstLoad := false
	defaultTableOnce.Do(func() {
		// Record cache miss on first load
		firstLoad = true
		recipeCacheMisses.Inc()
		cachedDefaultTable, cachedDefaultErr = LoadTable(defaultRecipesFS, "data")
	})

	if cachedDefaultErr != nil {
		return nil, cachedDefaultErr
	}
	if !firstLoad {
		recipeCacheHits.Inc()
	}
	return cachedDefaultTable, nil
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns a copy of all entries in table order.
func (t *Table) Entries() []Entry {
	return slices.Clone(t.entries)
}

// Names returns the distinct recipe names in order.
func (t *Table) Names() []string {
	var names []string
	for _, e := range t.entries {
		if len(names) == 0 || names[len(names)-1] != e.Name {
			names = append(names, e.Name)
		}
	}
	return names
}

// Versions returns the versions of name from oldest to newest.
func (t *Table) Versions(name string) []string {
	var versions []string
	for _, e := range t.entries {
		if e.Name == name {
			versions = append(versions, e.Version)
		}
	}
	return versions
}

// Get returns the descriptor for an exact name and version.
func (t *Table) Get(name, ver string) (*Descriptor, error) {
	for _, e := range t.entries {
		if e.Name == name && e.Version == ver {
			return e.Descriptor, nil
		}
	}
	return nil, notFound(name, ver)
}

// Latest returns the newest version of name. Numeric versions are preferred
// over versions that do not parse.
func (t *Table) Latest(name string) (*Descriptor, error) {
	var latest *Descriptor
	for _, e := range t.entries {
		if e.Name != name {
			continue
		}
		if latest != nil {
			if _, err := version.Parse(e.Version); err != nil {
				if _, latestErr := version.Parse(latest.Version()); latestErr == nil {
					continue
				}
			}
		}
		latest = e.Descriptor
	}
	if latest == nil {
		return nil, notFound(name, "")
	}
	return latest, nil
}

// Resolve selects a version of name for query. An empty query or "latest"
// selects Latest. An exact version match wins; otherwise the query is read
// as a version prefix, so "0" selects the newest 0.x.y and "0.2" the newest
// 0.2.y.
func (t *Table) Resolve(name, query string) (*Descriptor, error) {
	query = strings.TrimSpace(query)
	if query == "" || query == "latest" {
		return t.Latest(name)
	}
	if d, err := t.Get(name, query); err == nil {
		return d, nil
	}

	q, err := version.Parse(query)
	if err != nil {
		return nil, notFound(name, query)
	}

	for i := len(t.entries) - 1; i >= 0; i-- {
		e := t.entries[i]
		if e.Name != name {
			continue
		}
		candidate, parseErr := version.Parse(e.Version)
		if parseErr != nil {
			continue
		}
		if q.Matches(candidate) {
			return e.Descriptor, nil
		}
	}
	return nil, notFound(name, query)
}

func notFound(name, ver string) error {
	ctx := map[string]any{"recipe": name}
	if ver != "" {
		ctx["version"] = ver
	}
	return sierrors.NewWithContext(sierrors.ErrCodeNotFound, "recipe version not found", ctx)
}
