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

// Package staging plans and applies file copies for package export and
// import staging.
//
// A Plan is the concrete list of source to destination copies for one
// operation. It is computed fresh from the file tree for every call and is
// never cached. Destinations inside a plan are unique.
//
// An Applier executes a plan:
//
//	applier, err := staging.NewApplier(config.NewConfig(config.WithParallelism(4)))
//	if err != nil {
//	    return err
//	}
//	report, err := applier.Apply(ctx, plan)
//
// Every file is copied independently and atomically: content is written to a
// temp file next to the destination, synced, then renamed into place. A
// reader never observes a partially written destination. Files that are
// already up to date are skipped, so re-applying an unchanged plan copies
// nothing.
//
// Per-file failures do not stop the other files. Apply always returns the
// Report; when any file failed the error is a *PartialFailureError listing
// them. An interrupted run leaves at most one temp file per in-flight copy
// behind; the next Apply over the same destination removes temp files of
// earlier runs before copying, and CleanupStale does the same on demand.
//
// Temp files are named
//
//	.<base>.sirecipe-<run id>.tmp
//
// where the run id is a random UUID chosen per Apply call.
package staging
