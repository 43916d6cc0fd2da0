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

// Package checksum computes SHA256 digests for staged files.
//
// FileSHA256 streams a single file through the hash and is used by the
// staging engine to decide whether an existing destination already holds the
// source content. Manifest renders a checksums.txt manifest in the format
// accepted by "sha256sum -c":
//
//	<hex digest>  <relative/path>
//
// Paths in the manifest are relative to the manifest directory and always use
// forward slashes.
package checksum
