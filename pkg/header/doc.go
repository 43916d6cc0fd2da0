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

// Package header provides the Kubernetes-style envelope shared by recipe
// documents and staging reports.
//
// # Header Structure
//
//	kind: Recipe
//	apiVersion: sirecipe.silicium.io/v1alpha1
//	metadata:
//	  name: silicium
//	  version: 0.2.0
//
// Recipe documents carry their identity in metadata; reports produced by the
// CLI carry a generation timestamp and the tool version.
//
// # Usage
//
//	h := header.New(header.WithKind(header.KindStagingReport), header.WithAPIVersion(header.APIVersion))
//	h.Init(header.KindStagingReport, header.APIVersion, "v1.0.0")
//
//	var h header.Header
//	if err := h.Validate(header.KindRecipe); err != nil { ... }
package header
