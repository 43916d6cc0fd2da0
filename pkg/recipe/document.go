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
	"errors"
	"fmt"
	"io"
	"io/fs"

	sierrors "github.com/TyRoXx/silicium/pkg/errors"
	"github.com/TyRoXx/silicium/pkg/header"
	"github.com/TyRoXx/silicium/pkg/serializer"
)

// Metadata keys of a recipe document.
const (
	MetadataName    = "name"
	MetadataVersion = "version"
)

// Document is the declarative form of one recipe version.
type Document struct {
	header.Header `json:",inline" yaml:",inline"`

	Spec DocumentSpec `json:"spec" yaml:"spec"`
}

// DocumentSpec holds the recipe body.
type DocumentSpec struct {
	Generator    string             `json:"generator,omitempty" yaml:"generator,omitempty"`
	Requirements []RequirementEntry `json:"requirements,omitempty" yaml:"requirements,omitempty"`
	Export       ExportSpec         `json:"export" yaml:"export"`
	Imports      []ImportRule       `json:"imports,omitempty" yaml:"imports,omitempty"`
}

// RequirementEntry is a requirement written either as a reference string or
// as separate fields.
type RequirementEntry struct {
	Ref         string `json:"ref,omitempty" yaml:"ref,omitempty"`
	Requirement `json:",inline" yaml:",inline"`
}

// ExportSpec describes which sources are exported and where.
type ExportSpec struct {
	Src      string   `json:"src" yaml:"src"`
	Dest     string   `json:"dest,omitempty" yaml:"dest,omitempty"`
	Patterns []string `json:"patterns,omitempty" yaml:"patterns,omitempty"`
}

// ParseDocument decodes a recipe document. Unknown fields are rejected.
func ParseDocument(format serializer.Format, r io.Reader) (*Document, error) {
	reader, err := serializer.NewReader(format, r, serializer.WithStrictFields())
	if err != nil {
		return nil, sierrors.Wrap(sierrors.ErrCodeInvalidRequest, "failed to create recipe reader", err)
	}
	defer reader.Close()

	var doc Document
	if err := reader.Deserialize(&doc); err != nil {
		return nil, sierrors.Wrap(sierrors.ErrCodeInvalidRecipe, "failed to decode recipe document", err)
	}
	return &doc, nil
}

// LoadFile reads and validates the recipe document at path.
func LoadFile(path string) (*Descriptor, error) {
	doc, err := serializer.FromFile[Document](path, serializer.WithStrictFields())
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return nil, sierrors.WrapWithContext(sierrors.ErrCodeIO, "failed to read recipe document", err,
				map[string]any{"path": path})
		}
		return nil, sierrors.WrapWithContext(sierrors.ErrCodeInvalidRecipe, "failed to load recipe document", err,
			map[string]any{"path": path})
	}
	return doc.ToDescriptor()
}

// ToDescriptor validates the document and returns its Descriptor.
// An empty export destination defaults to include/<name>.
func (d *Document) ToDescriptor() (*Descriptor, error) {
	name := d.Get(MetadataName)
	version := d.Get(MetadataVersion)
	ref := name + "/" + version

	if d.Kind != header.KindRecipe {
		return nil, invalid(ref, "kind", "must be %q, got %q", header.KindRecipe, d.Kind)
	}
	if d.APIVersion != header.APIVersion {
		return nil, invalid(ref, "apiVersion", "must be %q, got %q", header.APIVersion, d.APIVersion)
	}

	reqs := make([]Requirement, 0, len(d.Spec.Requirements))
	for i, entry := range d.Spec.Requirements {
		req := entry.Requirement
		if entry.Ref != "" {
			if req != (Requirement{}) {
				return nil, invalid(ref, fmt.Sprintf("spec.requirements[%d].ref", i),
					"ref cannot be combined with name, version or channel")
			}
			parsed, err := ParseRequirement(entry.Ref)
			if err != nil {
				return nil, invalid(ref, fmt.Sprintf("spec.requirements[%d].ref", i), "%v", err)
			}
			req = parsed
		}
		reqs = append(reqs, req)
	}

	dest := d.Spec.Export.Dest
	if dest == "" && name != "" {
		dest = "include/" + name
	}

	return New(Spec{
		Name:           name,
		Version:        version,
		Requirements:   reqs,
		ExportPatterns: d.Spec.Export.Patterns,
		ExportSrc:      d.Spec.Export.Src,
		ExportDest:     dest,
		ImportRules:    d.Spec.Imports,
		Generator:      d.Spec.Generator,
	})
}

// DocumentFor renders a Descriptor as a Document. Requirements are written
// as reference strings.
func DocumentFor(desc *Descriptor) *Document {
	doc := &Document{
		Header: *header.New(
			header.WithKind(header.KindRecipe),
			header.WithAPIVersion(header.APIVersion),
			header.WithMetadata(MetadataName, desc.Name()),
			header.WithMetadata(MetadataVersion, desc.Version()),
		),
		Spec: DocumentSpec{
			Generator: desc.Generator(),
			Export: ExportSpec{
				Src:      desc.ExportSrc(),
				Dest:     desc.ExportDest(),
				Patterns: desc.ExportPatterns(),
			},
			Imports: desc.ImportRules(),
		},
	}
	for _, req := range desc.Requirements() {
		doc.Spec.Requirements = append(doc.Spec.Requirements, RequirementEntry{Ref: req.String()})
	}
	return doc
}
