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

// Package match selects files under a directory tree with glob patterns.
//
// Patterns use doublestar syntax. A pattern without a slash is matched
// against the base name of every file at any depth, so "*.hpp" selects both
// "a.hpp" and "detail/b.hpp". A pattern containing a slash is matched against
// the whole slash-separated path relative to the root, where "**" spans
// directories:
//
//	paths, err := match.Match(ctx, "/src/silicium", []string{"*.hpp", "detail/**/*.ipp"})
//
// Results are the union over all patterns in first-seen order. Only regular
// files are returned. Symlinked directories are followed once per canonical
// path and recursion stops at defaults.MaxWalkDepth. Staging temp files are
// never returned.
//
// Seq exposes the same result as a lazy sequence. Each iteration walks the
// tree again, so the sequence reflects the tree at iteration time.
package match
