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

package defaults

import "os"

// Staging apply settings.
const (
	// ApplyParallelism is the default number of files copied concurrently.
	ApplyParallelism = 8

	// MaxApplyParallelism caps user-supplied parallelism.
	MaxApplyParallelism = 256
)

// Tree walking settings.
const (
	// MaxWalkDepth bounds directory recursion when matching patterns.
	// Symlink cycles are also cut by canonical-path de-duplication; this is
	// the hard stop for pathological trees.
	MaxWalkDepth = 64
)

// Temporary file naming. A staging temp file is named
// "." + <key> + TempMarker + <run id> + TempSuffix and lives in the
// destination directory. The key is the destination base name, or for names
// longer than TempKeyMax bytes a prefix of it followed by TempKeySep and
// TempKeyHashLen hex digits of its SHA256.
const (
	TempMarker     = ".sirecipe-"
	TempSuffix     = ".tmp"
	TempKeyMax     = 64
	TempKeySep     = "~"
	TempKeyHashLen = 12
)

// File modes for created directories and generated files.
const (
	DirMode       os.FileMode = 0o755
	GeneratedMode os.FileMode = 0o644
)

// ChecksumFileName is the manifest written next to exported files.
const ChecksumFileName = "checksums.txt"
