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

// Package importer stages runtime artifacts of a recipe's dependencies into
// a consumer's binary output directory.
//
// Every import rule of a recipe.Descriptor is applied to every dependency
// output root: files below <root>/<rule src> matching the rule's pattern are
// copied flat to <bin>/<rule dest>/<file name>. Rules are platform specific
// only through their patterns; a "*.dll" rule simply matches nothing on a
// platform that produces shared objects under another name.
//
//	roots, err := importer.DependencyRoots(desc, map[string]string{
//	    "Boost": "/deps/boost-1.60.0",
//	})
//	if err != nil {
//	    return err
//	}
//	stager, err := importer.NewStager(config.NewConfig())
//	if err != nil {
//	    return err
//	}
//	plan, err := stager.Plan(ctx, desc, roots, "/build/bin")
//	if err != nil {
//	    return err
//	}
//	report, err := stager.Apply(ctx, plan)
//
// A recipe without import rules yields an empty plan, and applying it does
// not touch the filesystem.
package importer
