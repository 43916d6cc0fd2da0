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

package staging

import (
	"log/slog"
	"path/filepath"
	"strings"

	sierrors "github.com/TyRoXx/silicium/pkg/errors"
	"github.com/TyRoXx/silicium/pkg/header"
)

// Operation names the staging pipeline a plan belongs to.
type Operation string

const (
	// OperationExport copies recipe sources into a package layout.
	OperationExport Operation = "export"
	// OperationImport copies dependency runtime artifacts into a bin directory.
	OperationImport Operation = "import"
)

// Entry is one planned copy.
type Entry struct {
	// Source is the file to copy.
	Source string `json:"source" yaml:"source"`

	// Destination is the path the file is written to.
	Destination string `json:"destination" yaml:"destination"`

	// Rel is Destination relative to the plan's DestRoot, slash separated.
	Rel string `json:"rel" yaml:"rel"`

	// Rule is the pattern that selected Source.
	Rule string `json:"rule,omitempty" yaml:"rule,omitempty"`
}

// Plan is the list of copies for one export or import operation.
type Plan struct {
	header.Header `json:",inline" yaml:",inline"`

	// Operation is export or import.
	Operation Operation `json:"operation" yaml:"operation"`

	// Recipe is the name/version of the recipe the plan was computed for.
	Recipe string `json:"recipe" yaml:"recipe"`

	// DestRoot contains every destination of the plan.
	DestRoot string `json:"destRoot" yaml:"destRoot"`

	// Entries are the copies in plan order.
	Entries []Entry `json:"entries" yaml:"entries"`

	byDest map[string]int
}

// NewPlan returns an empty plan writing below destRoot.
func NewPlan(op Operation, recipe, destRoot string) *Plan {
	return &Plan{
		Header: *header.New(
			header.WithKind(header.KindStagingPlan),
			header.WithAPIVersion(header.APIVersion),
			header.WithMetadata("operation", string(op)),
			header.WithMetadata("recipe", recipe),
		),
		Operation: op,
		Recipe:    recipe,
		DestRoot:  filepath.Clean(destRoot),
		byDest:    make(map[string]int),
	}
}

// Add appends a copy of source to DestRoot/rel. The first entry for a
// destination wins; later ones are logged and dropped. A rel that leaves
// DestRoot is rejected.
func (p *Plan) Add(source, rel, rule string) error {
	cleanRel := filepath.Clean(filepath.FromSlash(rel))
	if cleanRel == "." || filepath.IsAbs(cleanRel) || cleanRel == ".." ||
		strings.HasPrefix(cleanRel, ".."+string(filepath.Separator)) {
		return sierrors.NewWithContext(sierrors.ErrCodeInternal, "planned destination escapes destination root",
			map[string]any{"dest_root": p.DestRoot, "rel": rel})
	}

	dest := filepath.Join(p.DestRoot, cleanRel)
	if p.byDest == nil {
		p.byDest = make(map[string]int)
		for i, e := range p.Entries {
			p.byDest[e.Destination] = i
		}
	}
	if i, ok := p.byDest[dest]; ok {
		slog.Warn("duplicate staging destination, keeping first source",
			"operation", p.Operation,
			"recipe", p.Recipe,
			"destination", dest,
			"kept", p.Entries[i].Source,
			"dropped", source,
		)
		return nil
	}

	p.byDest[dest] = len(p.Entries)
	p.Entries = append(p.Entries, Entry{
		Source:      source,
		Destination: dest,
		Rel:         filepath.ToSlash(cleanRel),
		Rule:        rule,
	})
	return nil
}

// Len returns the number of planned copies.
func (p *Plan) Len() int {
	return len(p.Entries)
}

// Destinations returns the destination paths in plan order.
func (p *Plan) Destinations() []string {
	out := make([]string, len(p.Entries))
	for i, e := range p.Entries {
		out[i] = e.Destination
	}
	return out
}

// Columns implements serializer.Tabular.
func (p *Plan) Columns() []string {
	return []string{"rule", "source", "destination"}
}

// Rows implements serializer.Tabular.
func (p *Plan) Rows() [][]string {
	rows := make([][]string, 0, len(p.Entries))
	for _, e := range p.Entries {
		rows = append(rows, []string{e.Rule, e.Source, e.Destination})
	}
	return rows
}
