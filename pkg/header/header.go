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

package header

import (
	"fmt"
	"strings"
	"time"
)

// APIVersion is the only document schema version this tool reads and writes.
const APIVersion = "sirecipe.silicium.io/v1alpha1"

const (
	KindRecipe        Kind = "Recipe"
	KindStagingReport Kind = "StagingReport"
	KindStagingPlan   Kind = "StagingPlan"
)

// Kind represents the type of a document.
type Kind string

// String returns the string representation of the Kind.
func (k Kind) String() string {
	return string(k)
}

// IsValid checks if the Kind is one of the recognized kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindRecipe, KindStagingReport, KindStagingPlan:
		return true
	default:
		return false
	}
}

// Option is a functional option for configuring Header instances.
type Option func(*Header)

// WithMetadata returns an Option that adds a metadata key-value pair to the Header.
// If the Metadata map is nil, it will be initialized.
func WithMetadata(key, value string) Option {
	return func(h *Header) {
		if h.Metadata == nil {
			h.Metadata = make(map[string]string)
		}
		h.Metadata[key] = value
	}
}

// WithKind returns an Option that sets the Kind field of the Header.
func WithKind(kind Kind) Option {
	return func(h *Header) {
		h.Kind = kind
	}
}

// WithAPIVersion returns an Option that sets the APIVersion field of the Header.
func WithAPIVersion(version string) Option {
	return func(h *Header) {
		h.APIVersion = version
	}
}

// New creates a new Header instance with the provided functional options.
// The Metadata map is initialized automatically.
func New(opts ...Option) *Header {
	h := &Header{
		Metadata: make(map[string]string),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Header contains type and versioning information for documents.
type Header struct {
	// Kind is the type of the document.
	Kind Kind `json:"kind,omitempty" yaml:"kind,omitempty"`

	// APIVersion is the schema version of the document.
	APIVersion string `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`

	// Metadata contains key-value pairs about the document.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Init sets kind and apiVersion and stamps metadata with "<kind>-timestamp"
// and, when version is non-empty, "<kind>-version" (kind lower-cased).
func (h *Header) Init(kind Kind, apiVersion string, version string) {
	h.Kind = kind
	h.APIVersion = apiVersion
	h.Metadata = make(map[string]string)

	kindStr := strings.ToLower(string(kind))
	h.Metadata[kindStr+"-timestamp"] = time.Now().UTC().Format(time.RFC3339)
	if version != "" {
		h.Metadata[kindStr+"-version"] = version
	}
}

// Get returns a metadata value, or "" when absent.
func (h *Header) Get(key string) string {
	if h.Metadata == nil {
		return ""
	}
	return h.Metadata[key]
}

// Validate checks that the header describes a document of the expected kind
// in the supported API version.
func (h *Header) Validate(expected Kind) error {
	if h.Kind != expected {
		return fmt.Errorf("unexpected kind %q (want %q)", h.Kind, expected)
	}
	if h.APIVersion != APIVersion {
		return fmt.Errorf("unsupported apiVersion %q (want %q)", h.APIVersion, APIVersion)
	}
	return nil
}
