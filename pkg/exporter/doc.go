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

// Package exporter copies a recipe's source files into the public include
// layout of a package.
//
// The export patterns of a recipe.Descriptor are matched below
// <source>/<export src>, and every match is copied to
// <package>/<export dest>/<relative path>, keeping the directory structure:
//
//	exp, err := exporter.New(config.NewConfig())
//	if err != nil {
//	    return err
//	}
//	plan, err := exp.Plan(ctx, desc, "/src/silicium", "/pkg")
//	if err != nil {
//	    return err
//	}
//	report, err := exp.Apply(ctx, plan)
//
// Nothing is written outside <package>/<export dest>. When checksums are
// enabled, a sha256sum-compatible checksums.txt listing every exported file
// is written to the export root after a successful apply.
package exporter
