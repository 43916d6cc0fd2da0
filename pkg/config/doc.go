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

// Package config provides immutable configuration for staging operations.
//
// Config is constructed once with functional options and read through getters:
//
//	cfg := config.NewConfig(
//	    config.WithParallelism(4),
//	    config.WithCompareMode(config.CompareContent),
//	    config.WithIncludeChecksums(true),
//	)
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//
// The same Config is shared by the exporter and the import stager; it holds no
// per-run state, so it is safe for concurrent use.
package config
