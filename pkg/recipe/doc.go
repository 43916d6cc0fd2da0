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

// Package recipe provides the versioned package recipe model.
//
// A recipe describes one version of a package: its identity, the upstream
// requirements it builds against, which source files are exported into the
// package layout and which runtime artifacts consumers stage from
// dependencies. The build-file generator is carried as an opaque name.
//
// # Core Types
//
// Descriptor: immutable, validated recipe version
//
//	type Descriptor struct {
//	    // unexported; read through Name, Version, Requirements,
//	    // ExportPatterns, ExportSrc, ExportDest, ImportRules, Generator
//	}
//
// Spec: plain input for New
//
//	type Spec struct {
//	    Name, Version  string
//	    Requirements   []Requirement   // Name/Version@Channel
//	    ExportPatterns []string        // e.g. "*.hpp"
//	    ExportSrc      string          // relative source directory
//	    ExportDest     string          // relative package directory
//	    ImportRules    []ImportRule    // Pattern, DestDir, SrcDir
//	    Generator      string          // e.g. "cmake"
//	}
//
// Document: declarative form of a recipe version
//
//	kind: Recipe
//	apiVersion: sirecipe.silicium.io/v1alpha1
//	metadata:
//	  name: silicium
//	  version: 0.2.0
//	spec:
//	  generator: cmake
//	  requirements:
//	    - ref: Boost/1.60.0@lasote/stable
//	  export:
//	    src: silicium
//	    dest: include/silicium
//	    patterns: ["*.hpp"]
//	  imports:
//	    - {pattern: "*.dll", dest: bin, src: bin}
//
// Table: ordered (name, version, descriptor) entries loaded once from a
// directory of documents or from the embedded default set.
//
// # Validation
//
// New either returns a fully valid Descriptor or an error carrying code
// INVALID_RECIPE that wraps *InvalidRecipeError:
//
//	desc, err := recipe.New(spec)
//	var invalid *recipe.InvalidRecipeError
//	if errors.As(err, &invalid) {
//	    fmt.Println(invalid.Field, invalid.Reason) // spec.requirements[1].name duplicate requirement
//	}
//
// # Usage
//
//	table, err := recipe.DefaultTable()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	desc, err := table.Resolve("silicium", "0.2")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, req := range desc.Requirements() {
//	    fmt.Println(req) // Boost/1.60.0@lasote/stable
//	}
package recipe
