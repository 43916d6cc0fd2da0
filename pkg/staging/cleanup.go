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

package staging

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	sierrors "github.com/TyRoXx/silicium/pkg/errors"
)

// CleanupStale removes staging temp files below root that were left behind
// by interrupted runs. A temp file is removed when its run ID differs from
// currentRunID and it was last modified before cutoff. A missing root is not
// an error. Symlinks are not followed.
//
// Removal failures do not stop the scan; they are joined into the returned
// error together with the count of files that were removed.
func CleanupStale(ctx context.Context, root, currentRunID string, cutoff time.Time) (int, error) {
	if _, err := os.Lstat(root); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, sierrors.WrapWithContext(sierrors.ErrCodeIO, "failed to stat cleanup root", err,
			map[string]any{"root": root})
	}

	removed := 0
	var errs []error

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			errs = append(errs, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		gone, rmErr := removeIfStale(path, d, currentRunID, cutoff)
		if rmErr != nil {
			errs = append(errs, rmErr)
		}
		if gone {
			removed++
		}
		return nil
	})

	if removed > 0 {
		stagingStaleRemoved.Add(float64(removed))
	}

	if walkErr != nil {
		if errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			return removed, sierrors.Wrap(sierrors.ErrCodeTimeout, "stale temp cleanup cancelled", walkErr)
		}
		errs = append(errs, walkErr)
	}
	if len(errs) > 0 {
		return removed, sierrors.WrapWithContext(sierrors.ErrCodeIO, "failed to clean up stale temp files",
			errors.Join(errs...), map[string]any{"root": root, "removed": removed})
	}
	return removed, nil
}

// cleanupPlan removes stale temp files that belong to the plan's own
// destinations. Only the destination directories are read, so applies of
// disjoint plans into the same root never touch each other's temp files.
func cleanupPlan(ctx context.Context, plan *Plan, currentRunID string, cutoff time.Time) (int, error) {
	targets := make(map[string]map[string]struct{})
	var dirs []string
	for _, e := range plan.Entries {
		dir, base := filepath.Split(e.Destination)
		dir = filepath.Clean(dir)
		if _, ok := targets[dir]; !ok {
			targets[dir] = make(map[string]struct{})
			dirs = append(dirs, dir)
		}
		targets[dir][TempKey(base)] = struct{}{}
	}

	removed := 0
	var errs []error
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return removed, sierrors.Wrap(sierrors.ErrCodeTimeout, "stale temp cleanup cancelled", err)
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				errs = append(errs, err)
			}
			continue
		}
		for _, d := range entries {
			key, _, ok := ParseTempName(d.Name())
			if !ok {
				continue
			}
			if _, planned := targets[dir][key]; !planned {
				continue
			}
			gone, rmErr := removeIfStale(filepath.Join(dir, d.Name()), d, currentRunID, cutoff)
			if rmErr != nil {
				errs = append(errs, rmErr)
			}
			if gone {
				removed++
			}
		}
	}

	if removed > 0 {
		stagingStaleRemoved.Add(float64(removed))
	}
	if len(errs) > 0 {
		return removed, sierrors.Wrap(sierrors.ErrCodeIO, "failed to clean up stale temp files", errors.Join(errs...))
	}
	return removed, nil
}

// removeIfStale removes path when it is a regular staging temp file of
// another run, last modified before cutoff.
func removeIfStale(path string, d fs.DirEntry, currentRunID string, cutoff time.Time) (bool, error) {
	if !d.Type().IsRegular() {
		return false, nil
	}
	_, runID, ok := ParseTempName(d.Name())
	if !ok || runID == currentRunID {
		return false, nil
	}

	info, err := d.Info()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if !info.ModTime().Before(cutoff) {
		return false, nil
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}

	slog.Debug("removed stale staging temp file",
		"path", path,
		"run_id", runID,
		"modified", info.ModTime(),
	)
	return true, nil
}
