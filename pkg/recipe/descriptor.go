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
	"path"
	"path/filepath"
	"slices"
	"strings"

	sierrors "github.com/TyRoXx/silicium/pkg/errors"
	"github.com/TyRoXx/silicium/pkg/match"
)

// Requirement is one declared upstream dependency of a recipe version.
type Requirement struct {
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	Channel string `json:"channel,omitempty" yaml:"channel,omitempty"`
}

// String renders the requirement as Name/Version@Channel.
func (r Requirement) String() string {
	s := r.Name + "/" + r.Version
	if r.Channel != "" {
		s += "@" + r.Channel
	}
	return s
}

// ParseRequirement parses a Name/Version[@Channel] reference.
func ParseRequirement(ref string) (Requirement, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Requirement{}, fmt.Errorf("empty requirement reference")
	}

	var req Requirement
	nameVersion := ref
	if at := strings.Index(ref, "@"); at >= 0 {
		nameVersion = ref[:at]
		req.Channel = ref[at+1:]
		if req.Channel == "" {
			return Requirement{}, fmt.Errorf("requirement %q has an empty channel", ref)
		}
	}

	name, version, ok := strings.Cut(nameVersion, "/")
	if !ok {
		return Requirement{}, fmt.Errorf("requirement %q must have the form name/version[@channel]", ref)
	}
	if name == "" || version == "" {
		return Requirement{}, fmt.Errorf("requirement %q has an empty name or version", ref)
	}
	if strings.Contains(version, "/") {
		return Requirement{}, fmt.Errorf("requirement %q has too many path segments", ref)
	}

	req.Name = name
	req.Version = version
	return req, nil
}

// ImportRule selects runtime artifacts under SrcDir of each dependency root
// and stages them into DestDir of the consumer's binary directory.
type ImportRule struct {
	Pattern string `json:"pattern" yaml:"pattern"`
	DestDir string `json:"dest" yaml:"dest"`
	SrcDir  string `json:"src" yaml:"src"`
}

// Spec is the plain input New validates into a Descriptor.
type Spec struct {
	Name           string
	Version        string
	Requirements   []Requirement
	ExportPatterns []string
	ExportSrc      string
	ExportDest     string
	ImportRules    []ImportRule
	Generator      string
}

// Descriptor is an immutable, validated recipe version.
type Descriptor struct {
	name           string
	version        string
	requirements   []Requirement
	exportPatterns []string
	exportSrc      string
	exportDest     string
	importRules    []ImportRule
	generator      string
}

// InvalidRecipeError names the offending field of a rejected recipe.
type InvalidRecipeError struct {
	Field  string
	Reason string
}

func (e *InvalidRecipeError) Error() string {
	return fmt.Sprintf("invalid recipe field %s: %s", e.Field, e.Reason)
}

func invalid(ref, field, format string, args ...any) error {
	cause := &InvalidRecipeError{Field: field, Reason: fmt.Sprintf(format, args...)}
	return sierrors.WrapWithContext(sierrors.ErrCodeInvalidRecipe, "invalid recipe", cause,
		map[string]any{"field": field, "recipe": ref})
}

// New validates s and returns the Descriptor it describes.
// Export patterns are de-duplicated keeping first occurrence; relative
// directories are normalized to slash form.
func New(s Spec) (*Descriptor, error) {
	ref := s.Name + "/" + s.Version

	if strings.TrimSpace(s.Name) == "" {
		return nil, invalid(ref, "metadata.name", "must not be empty")
	}
	if strings.TrimSpace(s.Version) == "" {
		return nil, invalid(ref, "metadata.version", "must not be empty")
	}

	seen := make(map[string]int, len(s.Requirements))
	for i, req := range s.Requirements {
		field := fmt.Sprintf("spec.requirements[%d]", i)
		if req.Name == "" {
			return nil, invalid(ref, field+".name", "must not be empty")
		}
		if req.Version == "" {
			return nil, invalid(ref, field+".version", "must not be empty")
		}
		if first, ok := seen[req.Name]; ok {
			return nil, invalid(ref, field+".name", "duplicate requirement %q (first declared at index %d)", req.Name, first)
		}
		seen[req.Name] = i
	}

	exportSrc, err := cleanRelative(s.ExportSrc)
	if err != nil {
		return nil, invalid(ref, "spec.export.src", "%v", err)
	}
	exportDest, err := cleanRelative(s.ExportDest)
	if err != nil {
		return nil, invalid(ref, "spec.export.dest", "%v", err)
	}

	patterns := make([]string, 0, len(s.ExportPatterns))
	for i, p := range s.ExportPatterns {
		if err := match.ValidatePattern(p); err != nil {
			return nil, invalid(ref, fmt.Sprintf("spec.export.patterns[%d]", i), "%v", err)
		}
		if !slices.Contains(patterns, p) {
			patterns = append(patterns, p)
		}
	}

	rules := make([]ImportRule, 0, len(s.ImportRules))
	for i, rule := range s.ImportRules {
		field := fmt.Sprintf("spec.imports[%d]", i)
		if err := match.ValidatePattern(rule.Pattern); err != nil {
			return nil, invalid(ref, field+".pattern", "%v", err)
		}
		destDir, err := cleanRelative(rule.DestDir)
		if err != nil {
			return nil, invalid(ref, field+".dest", "%v", err)
		}
		srcDir, err := cleanRelative(rule.SrcDir)
		if err != nil {
			return nil, invalid(ref, field+".src", "%v", err)
		}
		rules = append(rules, ImportRule{Pattern: rule.Pattern, DestDir: destDir, SrcDir: srcDir})
	}

	return &Descriptor{
		name:           s.Name,
		version:        s.Version,
		requirements:   slices.Clone(s.Requirements),
		exportPatterns: patterns,
		exportSrc:      exportSrc,
		exportDest:     exportDest,
		importRules:    rules,
		generator:      s.Generator,
	}, nil
}

// cleanRelative normalizes a recipe-relative directory and rejects values
// that are empty, absolute or escape the recipe root.
func cleanRelative(dir string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", fmt.Errorf("must not be empty")
	}
	slashed := filepath.ToSlash(dir)
	if path.IsAbs(slashed) || filepath.IsAbs(dir) || filepath.VolumeName(dir) != "" {
		return "", fmt.Errorf("%q must be a relative path", dir)
	}
	cleaned := path.Clean(slashed)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%q escapes the recipe root", dir)
	}
	return cleaned, nil
}

// Name returns the package name.
func (d *Descriptor) Name() string { return d.name }

// Version returns the recipe version.
func (d *Descriptor) Version() string { return d.version }

// Ref returns name/version.
func (d *Descriptor) Ref() string { return d.name + "/" + d.version }

// Generator returns the build-file generator the recipe targets.
func (d *Descriptor) Generator() string { return d.generator }

// ExportSrc returns the slash-separated export source directory.
func (d *Descriptor) ExportSrc() string { return d.exportSrc }

// ExportDest returns the slash-separated export destination directory.
func (d *Descriptor) ExportDest() string { return d.exportDest }

// Requirements returns a copy of the declared requirements in order.
func (d *Descriptor) Requirements() []Requirement { return slices.Clone(d.requirements) }

// ExportPatterns returns a copy of the export patterns in order.
func (d *Descriptor) ExportPatterns() []string { return slices.Clone(d.exportPatterns) }

// ImportRules returns a copy of the import rules in order.
func (d *Descriptor) ImportRules() []ImportRule { return slices.Clone(d.importRules) }

// Requirement returns the requirement declared for name.
func (d *Descriptor) Requirement(name string) (Requirement, bool) {
	for _, r := range d.requirements {
		if r.Name == name {
			return r, true
		}
	}
	return Requirement{}, false
}

// Spec returns a Spec that New would turn into an equal Descriptor.
func (d *Descriptor) Spec() Spec {
	return Spec{
		Name:           d.name,
		Version:        d.version,
		Requirements:   d.Requirements(),
		ExportPatterns: d.ExportPatterns(),
		ExportSrc:      d.exportSrc,
		ExportDest:     d.exportDest,
		ImportRules:    d.ImportRules(),
		Generator:      d.generator,
	}
}
